package sim

import (
	"context"
	"fmt"
	"slices"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func (p *Platform) GetFactoryResetCount(ctx context.Context, out *hal.Out[uint32]) error {
	const op = "GetFactoryResetCount"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.ResetCount, ^uint32(0))
}

func (p *Platform) ClearResetCount(ctx context.Context, enable bool) error {
	const op = "ClearResetCount"
	if _, err := p.enter(ctx, op); err != nil {
		return err
	}
	defer p.mu.Unlock()
	if enable {
		p.opts.ResetCount = 0
	}
	return nil
}

func (p *Platform) GetFactoryPartnerID(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetFactoryPartnerID"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.PartnerID, p.opts.PartnerID+"-x")
}

func (p *Platform) GetFactoryCmVariant(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetFactoryCmVariant"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.CmVariant, "")
}

func (p *Platform) SetFactoryCmVariant(ctx context.Context, variant string) error {
	const op = "SetFactoryCmVariant"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, slices.Contains(p.opts.FactoryCmVariants, variant), hal.KindInvalidArgument,
		fmt.Sprintf("cm variant %q", variant)); err != nil {
		return err
	}
	p.opts.CmVariant = variant
	return nil
}

func (p *Platform) GetPPPCredentials(ctx context.Context, out *hal.Out[hal.PPPCredentials]) error {
	const op = "GetPPPCredentials"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.PPP, hal.PPPCredentials{Password: p.opts.PPP.Password})
}

func (p *Platform) GetLowPowerModeState(ctx context.Context, out *hal.Out[hal.PowerState]) error {
	const op = "GetLowPowerModeState"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.PowerState, hal.PowerState(42))
}

func (p *Platform) GetFirmwareBankInfo(ctx context.Context, bank hal.FirmwareBank, out *hal.Out[hal.FirmwareBankInfo]) error {
	const op = "GetFirmwareBankInfo"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	valid := bank == hal.BankActive || bank == hal.BankInactive
	if err := check(op, f, valid, hal.KindOutOfRange, fmt.Sprintf("bank %d", bank)); err != nil {
		return err
	}
	var info hal.FirmwareBankInfo
	if valid {
		info = p.opts.Banks[bank]
	}
	return put(op, f, out, info, hal.FirmwareBankInfo{State: "Unknown"})
}

func (p *Platform) GetWebUITimeout(ctx context.Context, out *hal.Out[uint32]) error {
	const op = "GetWebUITimeout"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.WebUITimeout, MaxWebUITimeout+1)
}

func (p *Platform) SetWebUITimeout(ctx context.Context, seconds uint32) error {
	const op = "SetWebUITimeout"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, seconds >= MinWebUITimeout && seconds <= MaxWebUITimeout, hal.KindOutOfRange,
		fmt.Sprintf("timeout %d", seconds)); err != nil {
		return err
	}
	p.opts.WebUITimeout = seconds
	return nil
}

func (p *Platform) GetDeviceConfigStatus(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetDeviceConfigStatus"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.DeviceConfig, "")
}
