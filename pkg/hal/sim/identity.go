package sim

import (
	"context"
	"strings"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func (p *Platform) GetFirmwareName(ctx context.Context, out *hal.Out[string], maxLen int) error {
	const op = "GetFirmwareName"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return putString(op, f, out, maxLen, p.opts.FirmwareName)
}

func (p *Platform) GetSoftwareVersion(ctx context.Context, out *hal.Out[string], maxLen int) error {
	const op = "GetSoftwareVersion"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return putString(op, f, out, maxLen, p.opts.SoftwareVersion)
}

func (p *Platform) GetSerialNumber(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetSerialNumber"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.SerialNumber, "")
}

func (p *Platform) GetModelName(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetModelName"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.ModelName, "")
}

func (p *Platform) GetHardwareVersion(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetHardwareVersion"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.HardwareVersion, "")
}

func (p *Platform) GetBootloaderVersion(ctx context.Context, out *hal.Out[string], maxLen int) error {
	const op = "GetBootloaderVersion"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return putString(op, f, out, maxLen, p.opts.BootloaderVersion)
}

func (p *Platform) GetRouterRegion(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetRouterRegion"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.RouterRegion, "REGN_ATLANTIS")
}

func (p *Platform) GetBaseMacAddress(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetBaseMacAddress"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.BaseMAC, strings.ReplaceAll(p.opts.BaseMAC, ":", "-"))
}

func (p *Platform) GetCMTSMac(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetCMTSMac"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.CMTSMAC, truncated(p.opts.CMTSMAC))
}
