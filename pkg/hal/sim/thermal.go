package sim

import (
	"context"
	"fmt"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// temperature is the simulated board temperature in degrees Celsius.
const temperature = 47

func (p *Platform) InitThermal(ctx context.Context, cfg *hal.ThermalConfig) error {
	const op = "InitThermal"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if cfg == nil {
		return check(op, f, false, hal.KindInvalidArgument, "config is absent")
	}
	if err := check(op, f, cfg.FanCount >= 1 && cfg.FanCount <= p.opts.FanCount,
		hal.KindOutOfRange, fmt.Sprintf("fan count %d", cfg.FanCount)); err != nil {
		return err
	}
	ordered := cfg.SlowThreshold >= 0 &&
		cfg.SlowThreshold <= cfg.MediumThreshold &&
		cfg.MediumThreshold <= cfg.FastThreshold &&
		cfg.FastThreshold <= MaxTemperature
	if err := check(op, f, ordered, hal.KindOutOfRange, "thresholds"); err != nil {
		return err
	}
	if err := check(op, f, cfg.MinRunningSeconds >= 0, hal.KindOutOfRange, "min running time"); err != nil {
		return err
	}
	p.thermal = *cfg
	p.thermalInit = true
	return nil
}

func (p *Platform) GetFanSpeed(ctx context.Context, fan uint32, out *hal.Out[uint32]) error {
	const op = "GetFanSpeed"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validFan(fan), hal.KindOutOfRange, fmt.Sprintf("fan %d", fan)); err != nil {
		return err
	}
	var rpm uint32
	if p.validFan(fan) {
		rpm = rpmFor(p.fanSpeed[fan])
		if p.fanOverride[fan] {
			rpm = rpmFor(hal.FanSpeedMax)
		}
	}
	return put(op, f, out, rpm, ^uint32(0))
}

func (p *Platform) SetFanSpeed(ctx context.Context, fan uint32, speed hal.FanSpeed, reason *hal.Out[hal.FanError]) error {
	const op = "SetFanSpeed"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if !reason.Present() && f != FaultIgnoreArgs {
		return hal.Errorf(op, hal.KindInvalidArgument, "error reason output is absent")
	}
	if err := check(op, f, p.validFan(fan), hal.KindOutOfRange, fmt.Sprintf("fan %d", fan)); err != nil {
		return err
	}
	if err := check(op, f, speed >= hal.FanSpeedOff && speed <= hal.FanSpeedMax,
		hal.KindOutOfRange, fmt.Sprintf("speed %d", speed)); err != nil {
		return err
	}
	if !p.validFan(fan) {
		return nil
	}
	if p.fanOverride[fan] {
		_ = reason.Put(hal.FanErrMaxOverrideSet)
		return hal.Errorf(op, hal.KindFailure, "max override is set")
	}
	p.fanSpeed[fan] = speed
	if f == FaultCorrupt {
		_ = reason.Put(hal.FanErrHardware)
		return nil
	}
	_ = reason.Put(hal.FanErrNone)
	return nil
}

func (p *Platform) GetRotorLock(ctx context.Context, fan uint32, out *hal.Out[hal.RotorLock]) error {
	const op = "GetRotorLock"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validFan(fan), hal.KindOutOfRange, fmt.Sprintf("fan %d", fan)); err != nil {
		return err
	}
	lock := hal.RotorNotApplicable
	if p.validFan(fan) && p.fanSpeed[fan] != hal.FanSpeedOff {
		lock = hal.RotorRunning
	}
	return put(op, f, out, lock, hal.RotorLock(7))
}

func (p *Platform) SetFanMaxOverride(ctx context.Context, enable bool, fan uint32) error {
	const op = "SetFanMaxOverride"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.validFan(fan), hal.KindOutOfRange, fmt.Sprintf("fan %d", fan)); err != nil {
		return err
	}
	if p.validFan(fan) {
		p.fanOverride[fan] = enable
	}
	return nil
}

func (p *Platform) GetFanTemperature(ctx context.Context, out *hal.Out[int]) error {
	const op = "GetFanTemperature"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, temperature, MaxTemperature+25)
}

func rpmFor(s hal.FanSpeed) uint32 {
	return uint32(s) * 1200
}
