package sim

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func validWAN(iface hal.WANInterface) bool {
	return iface == hal.WANDocsis || iface == hal.WANEthernet
}

// parseDSCPList parses a comma separated list of DSCP values.
func parseDSCPList(list string) ([]int, bool) {
	if strings.TrimSpace(list) == "" {
		return nil, false
	}
	var values []int
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || v < 0 || v > MaxDSCP {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func (p *Platform) SetDscp(ctx context.Context, iface hal.WANInterface, cmd hal.TrafficCommand, dscpList string) error {
	const op = "SetDscp"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, validWAN(iface), hal.KindOutOfRange, fmt.Sprintf("wan interface %d", iface)); err != nil {
		return err
	}
	switch cmd {
	case hal.TrafficCountStart:
		_, ok := parseDSCPList(dscpList)
		if err := check(op, f, ok, hal.KindInvalidArgument, fmt.Sprintf("dscp list %q", dscpList)); err != nil {
			return err
		}
		p.dscpCounting[iface] = true
	case hal.TrafficCountStop:
		p.dscpCounting[iface] = false
	default:
		return check(op, f, false, hal.KindOutOfRange, fmt.Sprintf("traffic command %d", cmd))
	}
	return nil
}

func (p *Platform) GetDscpClientList(ctx context.Context, iface hal.WANInterface, out *hal.Out[[]hal.DSCPClient]) error {
	const op = "GetDscpClientList"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, validWAN(iface), hal.KindOutOfRange, fmt.Sprintf("wan interface %d", iface)); err != nil {
		return err
	}
	clients := slices.Clone(p.opts.Clients)
	corrupt := []hal.DSCPClient{{MAC: "not-a-mac", Counts: []hal.DSCPCount{{DSCP: MaxDSCP + 1}}}}
	return put(op, f, out, clients, corrupt)
}

func (p *Platform) getDhcpOptions(ctx context.Context, op string, opts []hal.DHCPOption, req, send *hal.Out[[]hal.DHCPOption]) error {
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if !req.Present() || !send.Present() {
		return check(op, f, false, hal.KindInvalidArgument, "option list output is absent")
	}
	corrupt := []hal.DHCPOption{{Tag: 0}, {Tag: 256}}
	if err := put(op, f, req, slices.Clone(opts), corrupt); err != nil {
		return err
	}
	return put(op, f, send, slices.Clone(opts), corrupt)
}

func (p *Platform) GetDhcpv4Options(ctx context.Context, req, send *hal.Out[[]hal.DHCPOption]) error {
	return p.getDhcpOptions(ctx, "GetDhcpv4Options", p.opts.DHCPv4Options, req, send)
}

func (p *Platform) GetDhcpv6Options(ctx context.Context, req, send *hal.Out[[]hal.DHCPOption]) error {
	return p.getDhcpOptions(ctx, "GetDhcpv6Options", p.opts.DHCPv6Options, req, send)
}

func (p *Platform) GetInterfaceStats(ctx context.Context, name string, out *hal.Out[hal.InterfaceStats]) error {
	const op = "GetInterfaceStats"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, slices.Contains(p.opts.Interfaces, name), hal.KindInvalidArgument,
		fmt.Sprintf("interface %q", name)); err != nil {
		return err
	}
	stats := hal.InterfaceStats{RxBytes: 123456, TxBytes: 65432, RxPackets: 1200, TxPackets: 800}
	corrupt := hal.InterfaceStats{RxBytes: 1, RxPackets: 1000}
	return put(op, f, out, stats, corrupt)
}

func (p *Platform) ApplyQoSRules(ctx context.Context, rules []hal.QoSRule) error {
	const op = "ApplyQoSRules"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if rules == nil {
		return check(op, f, false, hal.KindInvalidArgument, "rule list is absent")
	}
	for i, r := range rules {
		if err := check(op, f, r.Name != "", hal.KindInvalidArgument, fmt.Sprintf("rule %d has no name", i)); err != nil {
			return err
		}
		if err := check(op, f, r.DSCP >= 0 && r.DSCP <= MaxQoSDSCP, hal.KindOutOfRange,
			fmt.Sprintf("rule %q dscp %d", r.Name, r.DSCP)); err != nil {
			return err
		}
		if err := check(op, f, r.Priority >= 0 && r.Priority <= MaxQoSPriority, hal.KindOutOfRange,
			fmt.Sprintf("rule %q priority %d", r.Name, r.Priority)); err != nil {
			return err
		}
	}
	p.qosRules = slices.Clone(rules)
	return nil
}
