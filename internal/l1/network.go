package l1

import (
	"context"
	"fmt"
	"strconv"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/internal/testharness/validate"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

var wanInterfaces = []hal.WANInterface{hal.WANDocsis, hal.WANEthernet}

// invalidWAN is outside the WAN interface enumeration.
const invalidWAN = hal.WANInterface(3)

func networkCases(env *Env) []*engine.TestCase {
	var cases []*engine.TestCase
	cases = append(cases, dscpCases(env)...)
	cases = append(cases, dhcpCases(env, "GetDhcpv4Options", false)...)
	cases = append(cases, dhcpCases(env, "GetDhcpv6Options", true)...)
	cases = append(cases, interfaceStatsCases(env)...)
	cases = append(cases, qosCases(env)...)
	return cases
}

func dscpCases(env *Env) []*engine.TestCase {
	dscp := Feature(profile.FeatureDSCP)
	setDscp := func(t *engine.T, iface hal.WANInterface, cmd hal.TrafficCommand, list string) error {
		return t.Call("SetDscp", func(ctx context.Context) error {
			return env.Platform.SetDscp(ctx, iface, cmd, list)
		})
	}

	return []*engine.TestCase{
		newCase(GroupNetwork, "SetDscp", "valid", "Returns OK when starting and stopping counting on both WAN interfaces.",
			func(t *engine.T) {
				r := env.validators().Profile().DSCP
				list := fmt.Sprintf("%d,%d", r.Min, r.Max)
				for _, iface := range wanInterfaces {
					t.ExpectOK("SetDscp", setDscp(t, iface, hal.TrafficCountStart, list))
					t.ExpectOK("SetDscp", setDscp(t, iface, hal.TrafficCountStop, list))
				}
			}, dscp),
		newCase(GroupNetwork, "SetDscp", "invalid_interface", "Returns ERROR for an unknown WAN interface.",
			func(t *engine.T) {
				t.ExpectError("SetDscp", setDscp(t, invalidWAN, hal.TrafficCountStart, "0"))
			}, dscp),
		newCase(GroupNetwork, "SetDscp", "invalid_command", "Returns ERROR for an unknown traffic command.",
			func(t *engine.T) {
				t.ExpectError("SetDscp", setDscp(t, hal.WANDocsis, hal.TrafficCommand(0), "0"))
			}, dscp),
		newCase(GroupNetwork, "SetDscp", "invalid_list", "Returns ERROR for malformed or out of range DSCP lists.",
			func(t *engine.T) {
				r := env.validators().Profile().DSCP
				for _, list := range []string{"", "abc", "1,,2", strconv.FormatInt(r.Max+1, 10), strconv.FormatInt(r.Min-1, 10)} {
					t.ExpectError("SetDscp", setDscp(t, hal.WANDocsis, hal.TrafficCountStart, list))
				}
			}, dscp),

		newCase(GroupNetwork, "GetDscpClientList", "valid", "Returns OK and well formed client accounting.",
			func(t *engine.T) {
				v := env.validators()
				for _, iface := range wanInterfaces {
					out := hal.NewOut[[]hal.DSCPClient]()
					if !expectOK(t, "GetDscpClientList", func(ctx context.Context) error {
						return env.Platform.GetDscpClientList(ctx, iface, out)
					}) {
						continue
					}
					for _, client := range out.Value() {
						t.Expect(validate.MACAddress(client.MAC))
						t.Expect(assertions.NotEmpty(client.MAC+" dscp counters", client.Counts))
						for _, c := range client.Counts {
							t.Expect(v.DSCP(int64(c.DSCP)))
						}
					}
				}
			}, dscp),
		newCase(GroupNetwork, "GetDscpClientList", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetDscpClientList", func(ctx context.Context) error {
					return env.Platform.GetDscpClientList(ctx, hal.WANDocsis, hal.Absent[[]hal.DSCPClient]())
				})
			}, dscp),
		newCase(GroupNetwork, "GetDscpClientList", "invalid_interface", "Returns ERROR for an unknown WAN interface.",
			func(t *engine.T) {
				expectError(t, "GetDscpClientList", func(ctx context.Context) error {
					return env.Platform.GetDscpClientList(ctx, invalidWAN, hal.NewOut[[]hal.DSCPClient]())
				})
			}, dscp),
	}
}

func dhcpCases(env *Env, entryPoint string, v6 bool) []*engine.TestCase {
	get := func(ctx context.Context, req, send *hal.Out[[]hal.DHCPOption]) error {
		if v6 {
			return env.Platform.GetDhcpv6Options(ctx, req, send)
		}
		return env.Platform.GetDhcpv4Options(ctx, req, send)
	}

	return []*engine.TestCase{
		newCase(GroupNetwork, entryPoint, "valid", "Returns OK and only known option tags in both lists.",
			func(t *engine.T) {
				req, send := hal.NewOut[[]hal.DHCPOption](), hal.NewOut[[]hal.DHCPOption]()
				requireOK(t, entryPoint, func(ctx context.Context) error {
					return get(ctx, req, send)
				})
				v := env.validators()
				for _, opt := range append(req.Value(), send.Value()...) {
					t.Expect(v.DHCPOption(int64(opt.Tag), v6))
				}
			}),
		newCase(GroupNetwork, entryPoint, "absent_request_list", "Returns ERROR when the request list output is absent.",
			func(t *engine.T) {
				expectError(t, entryPoint, func(ctx context.Context) error {
					return get(ctx, hal.Absent[[]hal.DHCPOption](), hal.NewOut[[]hal.DHCPOption]())
				})
			}),
		newCase(GroupNetwork, entryPoint, "absent_send_list", "Returns ERROR when the send list output is absent.",
			func(t *engine.T) {
				expectError(t, entryPoint, func(ctx context.Context) error {
					return get(ctx, hal.NewOut[[]hal.DHCPOption](), hal.Absent[[]hal.DHCPOption]())
				})
			}),
	}
}

func interfaceStatsCases(env *Env) []*engine.TestCase {
	return []*engine.TestCase{
		newCase(GroupNetwork, "GetInterfaceStats", "valid", "Returns OK and consistent counters for every fixture interface.",
			func(t *engine.T) {
				for _, name := range env.fixture().InterfaceNames() {
					out := hal.NewOut[hal.InterfaceStats]()
					if !expectOK(t, "GetInterfaceStats", func(ctx context.Context) error {
						return env.Platform.GetInterfaceStats(ctx, name, out)
					}) {
						continue
					}
					s := out.Value()
					// Every packet carries at least one byte.
					rx := assertions.InRange(s.RxPackets, 0, s.RxBytes)
					rx.Message = name + " rx packets against rx bytes: " + rx.Message
					t.Expect(rx)
					tx := assertions.InRange(s.TxPackets, 0, s.TxBytes)
					tx.Message = name + " tx packets against tx bytes: " + tx.Message
					t.Expect(tx)
				}
			}),
		newCase(GroupNetwork, "GetInterfaceStats", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				name := env.fixture().InterfaceNames()[0]
				expectError(t, "GetInterfaceStats", func(ctx context.Context) error {
					return env.Platform.GetInterfaceStats(ctx, name, hal.Absent[hal.InterfaceStats]())
				})
			}, Fixture(fixture.KeyInterfaceNames)),
		newCase(GroupNetwork, "GetInterfaceStats", "unknown_interface", "Returns ERROR for an interface the device does not have.",
			func(t *engine.T) {
				for _, name := range []string{"", "nosuchif0"} {
					expectError(t, "GetInterfaceStats", func(ctx context.Context) error {
						return env.Platform.GetInterfaceStats(ctx, name, hal.NewOut[hal.InterfaceStats]())
					})
				}
			}),
	}
}

func qosCases(env *Env) []*engine.TestCase {
	qos := Feature(profile.FeatureQoS)
	apply := func(t *engine.T, rules []hal.QoSRule) error {
		return t.Call("ApplyQoSRules", func(ctx context.Context) error {
			return env.Platform.ApplyQoSRules(ctx, rules)
		})
	}
	iface := func() string {
		if names := env.fixture().InterfaceNames(); len(names) > 0 {
			return names[0]
		}
		return ""
	}

	return []*engine.TestCase{
		newCase(GroupNetwork, "ApplyQoSRules", "valid", "Returns OK for rules at the DSCP and priority bounds.",
			func(t *engine.T) {
				rules := []hal.QoSRule{
					{Name: "voice", Interface: iface(), DSCP: 46, Priority: 7},
					{Name: "best_effort", Interface: iface(), DSCP: 0, Priority: 0},
					{Name: "network_control", Interface: iface(), DSCP: 63, Priority: 6},
				}
				t.ExpectOK("ApplyQoSRules", apply(t, rules))
			}, qos),
		newCase(GroupNetwork, "ApplyQoSRules", "empty_list", "Returns OK for an empty rule list.",
			func(t *engine.T) {
				t.ExpectOK("ApplyQoSRules", apply(t, []hal.QoSRule{}))
			}, qos),
		newCase(GroupNetwork, "ApplyQoSRules", "absent_rules", "Returns ERROR when the rule list is absent.",
			func(t *engine.T) {
				t.ExpectError("ApplyQoSRules", apply(t, nil))
			}, qos),
		newCase(GroupNetwork, "ApplyQoSRules", "invalid_rule", "Returns ERROR for rules with out of range fields.",
			func(t *engine.T) {
				bad := []hal.QoSRule{
					{Name: "dscp_high", DSCP: 64},
					{Name: "dscp_negative", DSCP: -1},
					{Name: "priority_high", Priority: 8},
					{Name: "", DSCP: 10},
				}
				for _, rule := range bad {
					t.ExpectError("ApplyQoSRules", apply(t, []hal.QoSRule{rule}))
				}
			}, qos),
	}
}
