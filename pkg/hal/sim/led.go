package sim

import (
	"context"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// blinkIntervals are the blink intervals the LED driver supports, in seconds.
var blinkIntervals = map[int]bool{0: true, 1: true, 3: true, 5: true}

func (p *Platform) SetLED(ctx context.Context, params *hal.LEDParams) error {
	const op = "SetLED"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if params == nil {
		return check(op, f, false, hal.KindInvalidArgument, "params are absent")
	}
	if err := check(op, f, params.Color >= hal.LEDWhite && params.Color <= hal.LEDColorMax,
		hal.KindOutOfRange, "led color"); err != nil {
		return err
	}
	if err := check(op, f, params.State == hal.LEDSolid || params.State == hal.LEDBlink,
		hal.KindOutOfRange, "led state"); err != nil {
		return err
	}
	if err := check(op, f, blinkIntervals[params.Interval], hal.KindOutOfRange, "blink interval"); err != nil {
		return err
	}
	p.led = *params
	return nil
}

func (p *Platform) GetLED(ctx context.Context, out *hal.Out[hal.LEDParams]) error {
	const op = "GetLED"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.led, hal.LEDParams{Color: hal.LEDColorMax + 3, State: 4, Interval: 2})
}
