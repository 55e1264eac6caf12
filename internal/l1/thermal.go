package l1

import (
	"context"
	"fmt"
	"slices"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// thermalConfig is a plausible thermal manager configuration for fans.
func thermalConfig(fans int) *hal.ThermalConfig {
	return &hal.ThermalConfig{
		FanCount:          fans,
		SlowThreshold:     45,
		MediumThreshold:   60,
		FastThreshold:     75,
		MinRunningSeconds: 30,
	}
}

// invalidFan returns a fan index one past the highest fixture index.
func invalidFan(fx *fixture.Config) uint32 {
	fans := fx.FanIndices()
	if len(fans) == 0 {
		return 0
	}
	return slices.Max(fans) + 1
}

func firstFan(fx *fixture.Config) uint32 {
	if fans := fx.FanIndices(); len(fans) > 0 {
		return fans[0]
	}
	return 0
}

func thermalCases(env *Env) []*engine.TestCase {
	needFans := Fixture(fixture.KeyFanIndex)
	return []*engine.TestCase{
		newCase(GroupThermal, "InitThermal", "valid", "Returns OK for ordered thresholds and the fixture fan count.",
			func(t *engine.T) {
				cfg := thermalConfig(env.fixture().NumFanIndices())
				requireOK(t, "InitThermal", func(ctx context.Context) error {
					return env.Platform.InitThermal(ctx, cfg)
				})
			}, needFans),
		newCase(GroupThermal, "InitThermal", "absent_config", "Returns ERROR when the configuration is absent.",
			func(t *engine.T) {
				expectError(t, "InitThermal", func(ctx context.Context) error {
					return env.Platform.InitThermal(ctx, nil)
				})
			}),
		newCase(GroupThermal, "InitThermal", "unordered_thresholds", "Returns ERROR when thresholds are not ascending.",
			func(t *engine.T) {
				cfg := thermalConfig(env.fixture().NumFanIndices())
				cfg.SlowThreshold, cfg.FastThreshold = cfg.FastThreshold, cfg.SlowThreshold
				expectError(t, "InitThermal", func(ctx context.Context) error {
					return env.Platform.InitThermal(ctx, cfg)
				})
			}, needFans),
		newCase(GroupThermal, "InitThermal", "zero_fans", "Returns ERROR for a fan count of zero.",
			func(t *engine.T) {
				expectError(t, "InitThermal", func(ctx context.Context) error {
					return env.Platform.InitThermal(ctx, thermalConfig(0))
				})
			}),

		newCase(GroupThermal, "GetFanSpeed", "valid", "Returns OK and a plausible speed for every fixture fan.",
			func(t *engine.T) {
				v := env.validators()
				for _, fan := range env.fixture().FanIndices() {
					out := hal.NewOut[uint32]()
					if expectOK(t, "GetFanSpeed", func(ctx context.Context) error {
						return env.Platform.GetFanSpeed(ctx, fan, out)
					}) {
						t.Expect(v.FanRPM(int64(out.Value())))
					}
				}
			}),
		newCase(GroupThermal, "GetFanSpeed", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFanSpeed", func(ctx context.Context) error {
					return env.Platform.GetFanSpeed(ctx, firstFan(env.fixture()), hal.Absent[uint32]())
				})
			}, needFans),
		newCase(GroupThermal, "GetFanSpeed", "invalid_fan", "Returns ERROR for a fan index past the last fan.",
			func(t *engine.T) {
				expectError(t, "GetFanSpeed", func(ctx context.Context) error {
					return env.Platform.GetFanSpeed(ctx, invalidFan(env.fixture()), hal.NewOut[uint32]())
				})
			}, needFans),

		newCase(GroupThermal, "SetFanSpeed", "valid", "Returns OK with no error reason for every fan and speed.",
			func(t *engine.T) {
				for _, fan := range env.fixture().FanIndices() {
					for speed := hal.FanSpeedOff; speed <= hal.FanSpeedMax; speed++ {
						reason := hal.NewOut[hal.FanError]()
						if !expectOK(t, "SetFanSpeed", func(ctx context.Context) error {
							return env.Platform.SetFanSpeed(ctx, fan, speed, reason)
						}) {
							continue
						}
						r := assertions.Equal(hal.FanErrNone, reason.Value())
						r.Message = fmt.Sprintf("fan %d speed %d reason: %s", fan, speed, r.Message)
						t.Expect(r)
					}
				}
			}),
		newCase(GroupThermal, "SetFanSpeed", "absent_reason", "Returns ERROR when the error reason output is absent.",
			func(t *engine.T) {
				expectError(t, "SetFanSpeed", func(ctx context.Context) error {
					return env.Platform.SetFanSpeed(ctx, firstFan(env.fixture()), hal.FanSpeedSlow, hal.Absent[hal.FanError]())
				})
			}, needFans),
		newCase(GroupThermal, "SetFanSpeed", "invalid_speed", "Returns ERROR for a speed past the maximum.",
			func(t *engine.T) {
				expectError(t, "SetFanSpeed", func(ctx context.Context) error {
					return env.Platform.SetFanSpeed(ctx, firstFan(env.fixture()), hal.FanSpeedMax+1, hal.NewOut[hal.FanError]())
				})
			}, needFans),
		newCase(GroupThermal, "SetFanSpeed", "invalid_fan", "Returns ERROR for a fan index past the last fan.",
			func(t *engine.T) {
				expectError(t, "SetFanSpeed", func(ctx context.Context) error {
					return env.Platform.SetFanSpeed(ctx, invalidFan(env.fixture()), hal.FanSpeedSlow, hal.NewOut[hal.FanError]())
				})
			}, needFans),

		newCase(GroupThermal, "GetRotorLock", "valid", "Returns OK and a known rotor state for every fixture fan.",
			func(t *engine.T) {
				known := []hal.RotorLock{hal.RotorNotApplicable, hal.RotorRunning, hal.RotorLocked}
				for _, fan := range env.fixture().FanIndices() {
					out := hal.NewOut[hal.RotorLock]()
					if expectOK(t, "GetRotorLock", func(ctx context.Context) error {
						return env.Platform.GetRotorLock(ctx, fan, out)
					}) {
						t.Expect(assertions.OneOf(out.Value(), known))
					}
				}
			}),
		newCase(GroupThermal, "GetRotorLock", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetRotorLock", func(ctx context.Context) error {
					return env.Platform.GetRotorLock(ctx, firstFan(env.fixture()), hal.Absent[hal.RotorLock]())
				})
			}, needFans),
		newCase(GroupThermal, "GetRotorLock", "invalid_fan", "Returns ERROR for a fan index past the last fan.",
			func(t *engine.T) {
				expectError(t, "GetRotorLock", func(ctx context.Context) error {
					return env.Platform.GetRotorLock(ctx, invalidFan(env.fixture()), hal.NewOut[hal.RotorLock]())
				})
			}, needFans),

		{
			ID:          "SetFanMaxOverride/valid",
			Name:        "SetFanMaxOverride valid",
			Group:       GroupThermal,
			Description: "Returns OK when enabling and disabling the override on every fixture fan.",
			Requires:    []string{Feature(profile.FeatureFanOverride)},
			Run: func(t *engine.T) {
				for _, fan := range env.fixture().FanIndices() {
					for _, enable := range []bool{true, false} {
						expectOK(t, "SetFanMaxOverride", func(ctx context.Context) error {
							return env.Platform.SetFanMaxOverride(ctx, enable, fan)
						})
					}
				}
			},
			// Leave no fan pinned at full speed for later cases.
			Teardown: func(t *engine.T) {
				for _, fan := range env.fixture().FanIndices() {
					_ = t.Call("SetFanMaxOverride", func(ctx context.Context) error {
						return env.Platform.SetFanMaxOverride(ctx, false, fan)
					})
				}
			},
		},
		newCase(GroupThermal, "SetFanMaxOverride", "invalid_fan", "Returns ERROR for a fan index past the last fan.",
			func(t *engine.T) {
				expectError(t, "SetFanMaxOverride", func(ctx context.Context) error {
					return env.Platform.SetFanMaxOverride(ctx, true, invalidFan(env.fixture()))
				})
			}, needFans, Feature(profile.FeatureFanOverride)),

		newCase(GroupThermal, "GetFanTemperature", "valid", "Returns OK and a temperature in the expected range.",
			func(t *engine.T) {
				out := hal.NewOut[int]()
				requireOK(t, "GetFanTemperature", func(ctx context.Context) error {
					return env.Platform.GetFanTemperature(ctx, out)
				})
				t.Expect(env.validators().Temperature(int64(out.Value())))
			}),
		newCase(GroupThermal, "GetFanTemperature", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFanTemperature", func(ctx context.Context) error {
					return env.Platform.GetFanTemperature(ctx, hal.Absent[int]())
				})
			}),
	}
}
