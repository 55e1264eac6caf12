package l1

import (
	"context"
	"math"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/internal/testharness/validate"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// bankStates are the states a firmware bank can report.
var bankStates = []string{"Active", "Inactive"}

func deviceStateCases(env *Env) []*engine.TestCase {
	var cases []*engine.TestCase
	cases = append(cases, resetCountCases(env)...)
	cases = append(cases, factoryCases(env)...)
	cases = append(cases, miscStateCases(env)...)
	cases = append(cases, webUICases(env)...)
	return cases
}

func resetCountCases(env *Env) []*engine.TestCase {
	return []*engine.TestCase{
		newCase(GroupDeviceState, "GetFactoryResetCount", "valid", "Returns OK and a count below the unset sentinel.",
			func(t *engine.T) {
				out := hal.NewOut[uint32]()
				requireOK(t, "GetFactoryResetCount", func(ctx context.Context) error {
					return env.Platform.GetFactoryResetCount(ctx, out)
				})
				t.Expect(assertions.LessThan(out.Value(), uint32(math.MaxUint32)))
			}),
		newCase(GroupDeviceState, "GetFactoryResetCount", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFactoryResetCount", func(ctx context.Context) error {
					return env.Platform.GetFactoryResetCount(ctx, hal.Absent[uint32]())
				})
			}),
		newCase(GroupDeviceState, "ClearResetCount", "valid", "Returns OK and the count reads back as zero.",
			func(t *engine.T) {
				requireOK(t, "ClearResetCount", func(ctx context.Context) error {
					return env.Platform.ClearResetCount(ctx, true)
				})
				out := hal.NewOut[uint32]()
				requireOK(t, "GetFactoryResetCount", func(ctx context.Context) error {
					return env.Platform.GetFactoryResetCount(ctx, out)
				})
				t.Expect(assertions.Equal(uint32(0), out.Value()))
			}),
		newCase(GroupDeviceState, "ClearResetCount", "disabled", "Returns OK when asked not to clear.",
			func(t *engine.T) {
				expectOK(t, "ClearResetCount", func(ctx context.Context) error {
					return env.Platform.ClearResetCount(ctx, false)
				})
			}),
	}
}

func factoryCases(env *Env) []*engine.TestCase {
	needVariants := Fixture(fixture.KeyFactoryCmVariant)
	return []*engine.TestCase{
		newCase(GroupDeviceState, "GetFactoryPartnerID", "valid", "Returns OK and the partner ID from the fixture.",
			func(t *engine.T) {
				out := hal.NewOut[string]()
				requireOK(t, "GetFactoryPartnerID", func(ctx context.Context) error {
					return env.Platform.GetFactoryPartnerID(ctx, out)
				})
				t.Expect(assertions.Equal(env.fixture().PartnerID(), out.Value()))
			}, Fixture(fixture.KeyPartnerID)),
		newCase(GroupDeviceState, "GetFactoryPartnerID", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFactoryPartnerID", func(ctx context.Context) error {
					return env.Platform.GetFactoryPartnerID(ctx, hal.Absent[string]())
				})
			}),

		newCase(GroupDeviceState, "GetFactoryCmVariant", "valid", "Returns OK and one of the fixture variants.",
			func(t *engine.T) {
				out := hal.NewOut[string]()
				requireOK(t, "GetFactoryCmVariant", func(ctx context.Context) error {
					return env.Platform.GetFactoryCmVariant(ctx, out)
				})
				t.Expect(validate.StringOneOf("CM variant", out.Value(), env.fixture().FactoryCmVariants()))
			}, needVariants),
		newCase(GroupDeviceState, "GetFactoryCmVariant", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFactoryCmVariant", func(ctx context.Context) error {
					return env.Platform.GetFactoryCmVariant(ctx, hal.Absent[string]())
				})
			}),
		{
			ID:          "SetFactoryCmVariant/valid",
			Name:        "SetFactoryCmVariant valid",
			Group:       GroupDeviceState,
			Description: "Returns OK for every fixture variant and the getter reflects each.",
			Run: func(t *engine.T) {
				for _, variant := range env.fixture().FactoryCmVariants() {
					if !expectOK(t, "SetFactoryCmVariant", func(ctx context.Context) error {
						return env.Platform.SetFactoryCmVariant(ctx, variant)
					}) {
						continue
					}
					got := hal.NewOut[string]()
					if expectOK(t, "GetFactoryCmVariant", func(ctx context.Context) error {
						return env.Platform.GetFactoryCmVariant(ctx, got)
					}) {
						t.Expect(assertions.Equal(variant, got.Value()))
					}
				}
			},
			// The first variant is the factory default.
			Teardown: func(t *engine.T) {
				variants := env.fixture().FactoryCmVariants()
				if len(variants) == 0 {
					return
				}
				_ = t.Call("SetFactoryCmVariant", func(ctx context.Context) error {
					return env.Platform.SetFactoryCmVariant(ctx, variants[0])
				})
			},
		},
		newCase(GroupDeviceState, "SetFactoryCmVariant", "invalid_variant", "Returns ERROR for a variant outside the supported list.",
			func(t *engine.T) {
				for _, variant := range []string{"", "no_such_variant"} {
					expectError(t, "SetFactoryCmVariant", func(ctx context.Context) error {
						return env.Platform.SetFactoryCmVariant(ctx, variant)
					})
				}
			}, needVariants),
	}
}

func miscStateCases(env *Env) []*engine.TestCase {
	ppp := Feature(profile.FeaturePPP)
	banks := Feature(profile.FeatureFirmwareBank)
	return []*engine.TestCase{
		newCase(GroupDeviceState, "GetPPPCredentials", "valid", "Returns OK and a non-empty user name.",
			func(t *engine.T) {
				out := hal.NewOut[hal.PPPCredentials]()
				requireOK(t, "GetPPPCredentials", func(ctx context.Context) error {
					return env.Platform.GetPPPCredentials(ctx, out)
				})
				t.Expect(validate.NonEmpty("PPP user name", out.Value().Username))
			}, ppp),
		newCase(GroupDeviceState, "GetPPPCredentials", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetPPPCredentials", func(ctx context.Context) error {
					return env.Platform.GetPPPCredentials(ctx, hal.Absent[hal.PPPCredentials]())
				})
			}, ppp),

		newCase(GroupDeviceState, "GetLowPowerModeState", "valid", "Returns OK and one of the fixture power states.",
			func(t *engine.T) {
				out := hal.NewOut[hal.PowerState]()
				requireOK(t, "GetLowPowerModeState", func(ctx context.Context) error {
					return env.Platform.GetLowPowerModeState(ctx, out)
				})
				t.Expect(assertions.OneOf(out.Value(), env.fixture().SupportedPowerStates()))
			}, Fixture(fixture.KeySupportedPSM)),
		newCase(GroupDeviceState, "GetLowPowerModeState", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetLowPowerModeState", func(ctx context.Context) error {
					return env.Platform.GetLowPowerModeState(ctx, hal.Absent[hal.PowerState]())
				})
			}),

		newCase(GroupDeviceState, "GetFirmwareBankInfo", "valid", "Returns OK and a named image with a known state for both banks.",
			func(t *engine.T) {
				for _, bank := range []hal.FirmwareBank{hal.BankActive, hal.BankInactive} {
					out := hal.NewOut[hal.FirmwareBankInfo]()
					if !expectOK(t, "GetFirmwareBankInfo", func(ctx context.Context) error {
						return env.Platform.GetFirmwareBankInfo(ctx, bank, out)
					}) {
						continue
					}
					info := out.Value()
					t.Expect(validate.Version("image name", info.ImageName))
					t.Expect(validate.StringOneOf("bank state", info.State, bankStates))
				}
			}, banks),
		newCase(GroupDeviceState, "GetFirmwareBankInfo", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFirmwareBankInfo", func(ctx context.Context) error {
					return env.Platform.GetFirmwareBankInfo(ctx, hal.BankActive, hal.Absent[hal.FirmwareBankInfo]())
				})
			}, banks),
		newCase(GroupDeviceState, "GetFirmwareBankInfo", "invalid_bank", "Returns ERROR for a bank other than active or inactive.",
			func(t *engine.T) {
				for _, bank := range []hal.FirmwareBank{-1, hal.BankInactive + 1} {
					expectError(t, "GetFirmwareBankInfo", func(ctx context.Context) error {
						return env.Platform.GetFirmwareBankInfo(ctx, bank, hal.NewOut[hal.FirmwareBankInfo]())
					})
				}
			}, banks),

		newCase(GroupDeviceState, "GetDeviceConfigStatus", "valid", "Returns OK and a non-empty status.",
			func(t *engine.T) {
				out := hal.NewOut[string]()
				requireOK(t, "GetDeviceConfigStatus", func(ctx context.Context) error {
					return env.Platform.GetDeviceConfigStatus(ctx, out)
				})
				t.Expect(validate.NonEmpty("device config status", out.Value()))
			}),
		newCase(GroupDeviceState, "GetDeviceConfigStatus", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetDeviceConfigStatus", func(ctx context.Context) error {
					return env.Platform.GetDeviceConfigStatus(ctx, hal.Absent[string]())
				})
			}),
	}
}

func webUICases(env *Env) []*engine.TestCase {
	webUI := Feature(profile.FeatureWebUI)
	setTimeout := func(t *engine.T, sec int64) error {
		return t.Call("SetWebUITimeout", func(ctx context.Context) error {
			return env.Platform.SetWebUITimeout(ctx, uint32(sec))
		})
	}

	return []*engine.TestCase{
		newCase(GroupDeviceState, "GetWebUITimeout", "valid", "Returns OK and a timeout in the expected range.",
			func(t *engine.T) {
				out := hal.NewOut[uint32]()
				requireOK(t, "GetWebUITimeout", func(ctx context.Context) error {
					return env.Platform.GetWebUITimeout(ctx, out)
				})
				t.Expect(env.validators().WebUITimeout(int64(out.Value())))
			}, webUI),
		newCase(GroupDeviceState, "GetWebUITimeout", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetWebUITimeout", func(ctx context.Context) error {
					return env.Platform.GetWebUITimeout(ctx, hal.Absent[uint32]())
				})
			}, webUI),
		newCase(GroupDeviceState, "SetWebUITimeout", "boundary", "Returns OK at both bounds and the getter reflects each.",
			func(t *engine.T) {
				orig := hal.NewOut[uint32]()
				requireOK(t, "GetWebUITimeout", func(ctx context.Context) error {
					return env.Platform.GetWebUITimeout(ctx, orig)
				})
				r := env.validators().Profile().WebUITimeout
				for _, sec := range []int64{r.Min, r.Max} {
					if !t.ExpectOK("SetWebUITimeout", setTimeout(t, sec)) {
						continue
					}
					got := hal.NewOut[uint32]()
					if expectOK(t, "GetWebUITimeout", func(ctx context.Context) error {
						return env.Platform.GetWebUITimeout(ctx, got)
					}) {
						t.Expect(assertions.Equal(uint32(sec), got.Value()))
					}
				}
				t.ExpectOK("SetWebUITimeout", setTimeout(t, int64(orig.Value())))
			}, webUI),
		newCase(GroupDeviceState, "SetWebUITimeout", "out_of_range", "Returns ERROR just outside both bounds.",
			func(t *engine.T) {
				r := env.validators().Profile().WebUITimeout
				for _, sec := range []int64{r.Min - 1, r.Max + 1} {
					t.ExpectError("SetWebUITimeout", setTimeout(t, sec))
				}
			}, webUI),
	}
}
