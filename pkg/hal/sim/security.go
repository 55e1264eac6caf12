package sim

import (
	"context"
	"fmt"
	"slices"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func (p *Platform) GetMACsecEnable(ctx context.Context, port int, out *hal.Out[bool]) error {
	const op = "GetMACsecEnable"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validPort(port), hal.KindOutOfRange, fmt.Sprintf("eth port %d", port)); err != nil {
		return err
	}
	return put(op, f, out, p.validPort(port) && p.macsecEnabled[port], false)
}

func (p *Platform) SetMACsecEnable(ctx context.Context, port int, enable bool) error {
	const op = "SetMACsecEnable"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validPort(port), hal.KindOutOfRange, fmt.Sprintf("eth port %d", port)); err != nil {
		return err
	}
	if p.validPort(port) {
		p.macsecEnabled[port] = enable
		if !enable {
			p.macsecRunning[port] = false
		}
	}
	return nil
}

func (p *Platform) GetMACsecOperationalStatus(ctx context.Context, port int, out *hal.Out[bool]) error {
	const op = "GetMACsecOperationalStatus"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validPort(port), hal.KindOutOfRange, fmt.Sprintf("eth port %d", port)); err != nil {
		return err
	}
	return put(op, f, out, p.validPort(port) && p.macsecRunning[port], false)
}

func (p *Platform) StartMACsec(ctx context.Context, port int, timeoutSec int) error {
	const op = "StartMACsec"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validPort(port), hal.KindOutOfRange, fmt.Sprintf("eth port %d", port)); err != nil {
		return err
	}
	if err := check(op, f, timeoutSec >= 0, hal.KindOutOfRange, fmt.Sprintf("timeout %d", timeoutSec)); err != nil {
		return err
	}
	if p.validPort(port) {
		p.macsecEnabled[port] = true
		p.macsecRunning[port] = true
	}
	return nil
}

func (p *Platform) StopMACsec(ctx context.Context, port int) error {
	const op = "StopMACsec"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validPort(port), hal.KindOutOfRange, fmt.Sprintf("eth port %d", port)); err != nil {
		return err
	}
	if p.validPort(port) {
		p.macsecRunning[port] = false
	}
	return nil
}

func (p *Platform) GetSSHEnable(ctx context.Context, out *hal.Out[bool]) error {
	const op = "GetSSHEnable"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.sshEnabled, !p.sshEnabled)
}

func (p *Platform) SetSSHEnable(ctx context.Context, enable bool) error {
	const op = "SetSSHEnable"
	if _, err := p.enter(ctx, op); err != nil {
		return err
	}
	defer p.mu.Unlock()
	p.sshEnabled = enable
	return nil
}

func (p *Platform) GetTelnetEnable(ctx context.Context, out *hal.Out[bool]) error {
	const op = "GetTelnetEnable"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.telnetEnabled, !p.telnetEnabled)
}

func (p *Platform) SetTelnetEnable(ctx context.Context, enable bool) error {
	const op = "SetTelnetEnable"
	if _, err := p.enter(ctx, op); err != nil {
		return err
	}
	defer p.mu.Unlock()
	p.telnetEnabled = enable
	return nil
}

func (p *Platform) GetSNMPEnable(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetSNMPEnable"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.SNMPMode, "rgEverywhere")
}

func (p *Platform) SetSNMPEnable(ctx context.Context, mode string) error {
	const op = "SetSNMPEnable"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, slices.Contains(p.opts.SNMPModes, mode), hal.KindInvalidArgument,
		fmt.Sprintf("snmp mode %q", mode)); err != nil {
		return err
	}
	p.opts.SNMPMode = mode
	return nil
}
