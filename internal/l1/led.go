package l1

import (
	"context"

	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func setLED(t *engine.T, env *Env, params *hal.LEDParams) error {
	return t.Call("SetLED", func(ctx context.Context) error {
		return env.Platform.SetLED(ctx, params)
	})
}

func ledCases(env *Env) []*engine.TestCase {
	return []*engine.TestCase{
		newCase(GroupLED, "SetLED", "valid", "Returns OK for every colour solid and every blink interval.",
			func(t *engine.T) {
				led := env.validators().Profile().LED
				for c := led.Colors.Min; c <= led.Colors.Max; c++ {
					t.ExpectOK("SetLED", setLED(t, env, &hal.LEDParams{Color: hal.LEDColor(c), State: hal.LEDSolid}))
				}
				for _, iv := range led.Intervals {
					params := &hal.LEDParams{Color: hal.LEDColor(led.Colors.Min), State: hal.LEDBlink, Interval: int(iv)}
					t.ExpectOK("SetLED", setLED(t, env, params))
				}
			}),
		newCase(GroupLED, "SetLED", "absent_params", "Returns ERROR when the parameter block is absent.",
			func(t *engine.T) {
				t.ExpectError("SetLED", setLED(t, env, nil))
			}),
		newCase(GroupLED, "SetLED", "invalid_color", "Returns ERROR for colours just outside the valid range.",
			func(t *engine.T) {
				colors := env.validators().Profile().LED.Colors
				for _, c := range []int64{colors.Min - 1, colors.Max + 1} {
					t.ExpectError("SetLED", setLED(t, env, &hal.LEDParams{Color: hal.LEDColor(c), State: hal.LEDSolid}))
				}
			}),
		newCase(GroupLED, "SetLED", "invalid_state", "Returns ERROR for an unknown LED state.",
			func(t *engine.T) {
				state := hal.LEDState(firstOutside(env.validators().Profile().LED.States))
				t.ExpectError("SetLED", setLED(t, env, &hal.LEDParams{Color: hal.LEDWhite, State: state}))
			}),
		newCase(GroupLED, "SetLED", "invalid_interval", "Returns ERROR for an unsupported blink interval.",
			func(t *engine.T) {
				iv := int(firstOutside(env.validators().Profile().LED.Intervals))
				t.ExpectError("SetLED", setLED(t, env, &hal.LEDParams{Color: hal.LEDWhite, State: hal.LEDBlink, Interval: iv}))
			}),

		newCase(GroupLED, "GetLED", "valid", "Returns OK and the parameters last set.",
			func(t *engine.T) {
				v := env.validators()
				want := hal.LEDParams{Color: hal.LEDColor(v.Profile().LED.Colors.Max), State: hal.LEDBlink,
					Interval: int(v.Profile().LED.Intervals[len(v.Profile().LED.Intervals)-1])}
				t.RequireOK("SetLED", setLED(t, env, &want))

				out := hal.NewOut[hal.LEDParams]()
				requireOK(t, "GetLED", func(ctx context.Context) error {
					return env.Platform.GetLED(ctx, out)
				})
				got := out.Value()
				t.Expect(v.LEDColor(int64(got.Color)))
				t.Expect(v.LEDState(int64(got.State)))
				t.Expect(v.BlinkInterval(int64(got.Interval)))
				t.Expect(assertions.Equal(want, got))
			}),
		newCase(GroupLED, "GetLED", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetLED", func(ctx context.Context) error {
					return env.Platform.GetLED(ctx, hal.Absent[hal.LEDParams]())
				})
			}),
	}
}
