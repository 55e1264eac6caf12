package l1

import (
	"context"

	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/internal/testharness/validate"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// stringBufferLen is the caller buffer handed to entry points that take one.
const stringBufferLen = 256

// stringGetter describes an identity entry point that fills one string.
type stringGetter struct {
	entryPoint string
	desc       string
	get        func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error
	check      func(v *validate.Validators, s string) *assertions.Result
}

func identityGetters() []stringGetter {
	return []stringGetter{
		{
			entryPoint: "GetFirmwareName",
			desc:       "firmware image name",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetFirmwareName(ctx, out, stringBufferLen)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result { return validate.Version("firmware name", s) },
		},
		{
			entryPoint: "GetSoftwareVersion",
			desc:       "software version",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetSoftwareVersion(ctx, out, stringBufferLen)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result {
				return validate.Version("software version", s)
			},
		},
		{
			entryPoint: "GetSerialNumber",
			desc:       "serial number",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetSerialNumber(ctx, out)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result { return validate.Version("serial number", s) },
		},
		{
			entryPoint: "GetModelName",
			desc:       "model name",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetModelName(ctx, out)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result { return validate.NonEmpty("model name", s) },
		},
		{
			entryPoint: "GetHardwareVersion",
			desc:       "hardware version",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetHardwareVersion(ctx, out)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result {
				return validate.Version("hardware version", s)
			},
		},
		{
			entryPoint: "GetBootloaderVersion",
			desc:       "bootloader version",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetBootloaderVersion(ctx, out, stringBufferLen)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result {
				return validate.Version("bootloader version", s)
			},
		},
		{
			entryPoint: "GetRouterRegion",
			desc:       "router region code",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetRouterRegion(ctx, out)
			},
			check: (*validate.Validators).RouterRegion,
		},
		{
			entryPoint: "GetBaseMacAddress",
			desc:       "base MAC address",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetBaseMacAddress(ctx, out)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result { return validate.MACAddress(s) },
		},
		{
			entryPoint: "GetCMTSMac",
			desc:       "CMTS MAC address",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[string]) error {
				return p.GetCMTSMac(ctx, out)
			},
			check: func(_ *validate.Validators, s string) *assertions.Result { return validate.MACAddress(s) },
		},
	}
}

func identityCases(env *Env) []*engine.TestCase {
	var cases []*engine.TestCase
	for _, g := range identityGetters() {
		cases = append(cases,
			newCase(GroupIdentity, g.entryPoint, "valid", "Returns OK and a well formed "+g.desc+".",
				func(t *engine.T) {
					out := hal.NewOut[string]()
					requireOK(t, g.entryPoint, func(ctx context.Context) error {
						return g.get(ctx, env.Platform, out)
					})
					t.Require(assertions.True(out.Written()))
					t.Expect(g.check(env.validators(), out.Value()))
				}),
			newCase(GroupIdentity, g.entryPoint, "absent_output", "Returns ERROR when the output is absent.",
				func(t *engine.T) {
					expectError(t, g.entryPoint, func(ctx context.Context) error {
						return g.get(ctx, env.Platform, hal.Absent[string]())
					})
				}),
		)
	}
	cases = append(cases,
		newCase(GroupIdentity, "GetFirmwareName", "zero_buffer", "Returns ERROR for a zero length buffer.",
			func(t *engine.T) {
				expectError(t, "GetFirmwareName", func(ctx context.Context) error {
					return env.Platform.GetFirmwareName(ctx, hal.NewOut[string](), 0)
				})
			}),
		newCase(GroupIdentity, "GetSoftwareVersion", "zero_buffer", "Returns ERROR for a zero length buffer.",
			func(t *engine.T) {
				expectError(t, "GetSoftwareVersion", func(ctx context.Context) error {
					return env.Platform.GetSoftwareVersion(ctx, hal.NewOut[string](), 0)
				})
			}),
		newCase(GroupIdentity, "GetBootloaderVersion", "zero_buffer", "Returns ERROR for a zero length buffer.",
			func(t *engine.T) {
				expectError(t, "GetBootloaderVersion", func(ctx context.Context) error {
					return env.Platform.GetBootloaderVersion(ctx, hal.NewOut[string](), 0)
				})
			}),
	)
	return cases
}
