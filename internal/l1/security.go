package l1

import (
	"context"
	"slices"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// ports returns the Ethernet ports the fixture declares.
func ports(fx *fixture.Config) []int {
	out := make([]int, fx.MaxEthPort())
	for i := range out {
		out[i] = i
	}
	return out
}

// flag describes a boolean management flag with a getter and a setter.
type flag struct {
	name    string
	feature string
	get     func(ctx context.Context, p hal.Platform, out *hal.Out[bool]) error
	set     func(ctx context.Context, p hal.Platform, enable bool) error
}

func managementFlags() []flag {
	return []flag{
		{
			name: "SSHEnable",
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[bool]) error {
				return p.GetSSHEnable(ctx, out)
			},
			set: func(ctx context.Context, p hal.Platform, enable bool) error {
				return p.SetSSHEnable(ctx, enable)
			},
		},
		{
			name:    "TelnetEnable",
			feature: profile.FeatureTelnet,
			get: func(ctx context.Context, p hal.Platform, out *hal.Out[bool]) error {
				return p.GetTelnetEnable(ctx, out)
			},
			set: func(ctx context.Context, p hal.Platform, enable bool) error {
				return p.SetTelnetEnable(ctx, enable)
			},
		},
	}
}

func securityCases(env *Env) []*engine.TestCase {
	cases := macsecCases(env)
	for _, f := range managementFlags() {
		var req []string
		if f.feature != "" {
			req = append(req, Feature(f.feature))
		}
		getter, setter := "Get"+f.name, "Set"+f.name
		cases = append(cases,
			newCase(GroupSecurity, getter, "valid", "Returns OK and fills the flag.",
				func(t *engine.T) {
					out := hal.NewOut[bool]()
					requireOK(t, getter, func(ctx context.Context) error {
						return f.get(ctx, env.Platform, out)
					})
					t.Expect(assertions.True(out.Written()))
				}, req...),
			newCase(GroupSecurity, getter, "absent_output", "Returns ERROR when the output is absent.",
				func(t *engine.T) {
					expectError(t, getter, func(ctx context.Context) error {
						return f.get(ctx, env.Platform, hal.Absent[bool]())
					})
				}, req...),
			newCase(GroupSecurity, setter, "toggle", "Returns OK for both values and the getter reflects each.",
				func(t *engine.T) {
					orig := hal.NewOut[bool]()
					requireOK(t, getter, func(ctx context.Context) error {
						return f.get(ctx, env.Platform, orig)
					})
					for _, want := range []bool{!orig.Value(), orig.Value()} {
						requireOK(t, setter, func(ctx context.Context) error {
							return f.set(ctx, env.Platform, want)
						})
						got := hal.NewOut[bool]()
						requireOK(t, getter, func(ctx context.Context) error {
							return f.get(ctx, env.Platform, got)
						})
						t.Expect(assertions.Equal(want, got.Value()))
					}
				}, req...),
		)
	}
	return append(cases, snmpCases(env)...)
}

func macsecCases(env *Env) []*engine.TestCase {
	macsec := Feature(profile.FeatureMACsec)
	needPorts := Fixture(fixture.KeyMaxEthPort)
	outOfRange := func() []int { return []int{-1, env.fixture().MaxEthPort()} }

	return []*engine.TestCase{
		newCase(GroupSecurity, "GetMACsecEnable", "valid", "Returns OK for every Ethernet port.",
			func(t *engine.T) {
				for _, port := range ports(env.fixture()) {
					out := hal.NewOut[bool]()
					if expectOK(t, "GetMACsecEnable", func(ctx context.Context) error {
						return env.Platform.GetMACsecEnable(ctx, port, out)
					}) {
						t.Expect(assertions.True(out.Written()))
					}
				}
			}, macsec),
		newCase(GroupSecurity, "GetMACsecEnable", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetMACsecEnable", func(ctx context.Context) error {
					return env.Platform.GetMACsecEnable(ctx, 0, hal.Absent[bool]())
				})
			}, macsec, needPorts),
		newCase(GroupSecurity, "GetMACsecEnable", "invalid_port", "Returns ERROR for ports outside 0..MaxEthPort-1.",
			func(t *engine.T) {
				for _, port := range outOfRange() {
					expectError(t, "GetMACsecEnable", func(ctx context.Context) error {
						return env.Platform.GetMACsecEnable(ctx, port, hal.NewOut[bool]())
					})
				}
			}, macsec, needPorts),

		newCase(GroupSecurity, "SetMACsecEnable", "toggle", "Returns OK for both values and the getter reflects each.",
			func(t *engine.T) {
				for _, port := range ports(env.fixture()) {
					for _, want := range []bool{true, false} {
						if !expectOK(t, "SetMACsecEnable", func(ctx context.Context) error {
							return env.Platform.SetMACsecEnable(ctx, port, want)
						}) {
							continue
						}
						got := hal.NewOut[bool]()
						if expectOK(t, "GetMACsecEnable", func(ctx context.Context) error {
							return env.Platform.GetMACsecEnable(ctx, port, got)
						}) {
							t.Expect(assertions.Equal(want, got.Value()))
						}
					}
				}
			}, macsec),
		newCase(GroupSecurity, "SetMACsecEnable", "invalid_port", "Returns ERROR for ports outside 0..MaxEthPort-1.",
			func(t *engine.T) {
				for _, port := range outOfRange() {
					expectError(t, "SetMACsecEnable", func(ctx context.Context) error {
						return env.Platform.SetMACsecEnable(ctx, port, true)
					})
				}
			}, macsec, needPorts),

		newCase(GroupSecurity, "GetMACsecOperationalStatus", "valid", "Returns OK for every Ethernet port.",
			func(t *engine.T) {
				for _, port := range ports(env.fixture()) {
					out := hal.NewOut[bool]()
					if expectOK(t, "GetMACsecOperationalStatus", func(ctx context.Context) error {
						return env.Platform.GetMACsecOperationalStatus(ctx, port, out)
					}) {
						t.Expect(assertions.True(out.Written()))
					}
				}
			}, macsec),
		newCase(GroupSecurity, "GetMACsecOperationalStatus", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetMACsecOperationalStatus", func(ctx context.Context) error {
					return env.Platform.GetMACsecOperationalStatus(ctx, 0, hal.Absent[bool]())
				})
			}, macsec, needPorts),
		newCase(GroupSecurity, "GetMACsecOperationalStatus", "invalid_port", "Returns ERROR for ports outside 0..MaxEthPort-1.",
			func(t *engine.T) {
				for _, port := range outOfRange() {
					expectError(t, "GetMACsecOperationalStatus", func(ctx context.Context) error {
						return env.Platform.GetMACsecOperationalStatus(ctx, port, hal.NewOut[bool]())
					})
				}
			}, macsec, needPorts),

		newCase(GroupSecurity, "StartMACsec", "valid", "Returns OK at both timeout bounds and stops cleanly.",
			func(t *engine.T) {
				timeouts := env.validators().Profile().MACsecTimeout
				for _, port := range ports(env.fixture()) {
					for _, timeout := range []int64{timeouts.Min, timeouts.Max} {
						expectOK(t, "StartMACsec", func(ctx context.Context) error {
							return env.Platform.StartMACsec(ctx, port, int(timeout))
						})
						expectOK(t, "StopMACsec", func(ctx context.Context) error {
							return env.Platform.StopMACsec(ctx, port)
						})
					}
				}
			}, macsec),
		newCase(GroupSecurity, "StartMACsec", "invalid_port", "Returns ERROR for ports outside 0..MaxEthPort-1.",
			func(t *engine.T) {
				timeout := int(env.validators().Profile().MACsecTimeout.Min)
				for _, port := range outOfRange() {
					expectError(t, "StartMACsec", func(ctx context.Context) error {
						return env.Platform.StartMACsec(ctx, port, timeout)
					})
				}
			}, macsec, needPorts),
		newCase(GroupSecurity, "StartMACsec", "negative_timeout", "Returns ERROR for a negative timeout.",
			func(t *engine.T) {
				expectError(t, "StartMACsec", func(ctx context.Context) error {
					return env.Platform.StartMACsec(ctx, 0, -1)
				})
			}, macsec, needPorts),

		newCase(GroupSecurity, "StopMACsec", "valid", "Returns OK for every Ethernet port.",
			func(t *engine.T) {
				for _, port := range ports(env.fixture()) {
					expectOK(t, "StopMACsec", func(ctx context.Context) error {
						return env.Platform.StopMACsec(ctx, port)
					})
				}
			}, macsec),
		newCase(GroupSecurity, "StopMACsec", "invalid_port", "Returns ERROR for ports outside 0..MaxEthPort-1.",
			func(t *engine.T) {
				for _, port := range outOfRange() {
					expectError(t, "StopMACsec", func(ctx context.Context) error {
						return env.Platform.StopMACsec(ctx, port)
					})
				}
			}, macsec, needPorts),
	}
}

func snmpCases(env *Env) []*engine.TestCase {
	snmp := Feature(profile.FeatureSNMP)
	return []*engine.TestCase{
		newCase(GroupSecurity, "GetSNMPEnable", "valid", "Returns OK and a known SNMP mode.",
			func(t *engine.T) {
				out := hal.NewOut[string]()
				requireOK(t, "GetSNMPEnable", func(ctx context.Context) error {
					return env.Platform.GetSNMPEnable(ctx, out)
				})
				t.Expect(env.validators().SNMPMode(out.Value()))
			}, snmp),
		newCase(GroupSecurity, "GetSNMPEnable", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetSNMPEnable", func(ctx context.Context) error {
					return env.Platform.GetSNMPEnable(ctx, hal.Absent[string]())
				})
			}, snmp),
		newCase(GroupSecurity, "SetSNMPEnable", "valid", "Returns OK for every known mode and the getter reflects it.",
			func(t *engine.T) {
				orig := hal.NewOut[string]()
				requireOK(t, "GetSNMPEnable", func(ctx context.Context) error {
					return env.Platform.GetSNMPEnable(ctx, orig)
				})
				modes := append(slices.Clone(env.validators().Profile().SNMPModes), orig.Value())
				for _, mode := range modes {
					if !expectOK(t, "SetSNMPEnable", func(ctx context.Context) error {
						return env.Platform.SetSNMPEnable(ctx, mode)
					}) {
						continue
					}
					got := hal.NewOut[string]()
					if expectOK(t, "GetSNMPEnable", func(ctx context.Context) error {
						return env.Platform.GetSNMPEnable(ctx, got)
					}) {
						t.Expect(assertions.Equal(mode, got.Value()))
					}
				}
			}, snmp),
		newCase(GroupSecurity, "SetSNMPEnable", "invalid_mode", "Returns ERROR for an unknown or empty mode.",
			func(t *engine.T) {
				for _, mode := range []string{"rgNoSuchMode", ""} {
					expectError(t, "SetSNMPEnable", func(ctx context.Context) error {
						return env.Platform.SetSNMPEnable(ctx, mode)
					})
				}
			}, snmp),
	}
}
