package sim

import (
	"context"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func (p *Platform) GetUsedMemorySize(ctx context.Context, cpu hal.CPU, out *hal.Out[uint64]) error {
	const op = "GetUsedMemorySize"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.hasCPU(cpu), hal.KindOutOfRange, "unsupported cpu "+cpu.String()); err != nil {
		return err
	}
	return put(op, f, out, p.opts.MemUsedKB, p.opts.MemTotalKB+1)
}

func (p *Platform) GetFreeMemorySize(ctx context.Context, cpu hal.CPU, out *hal.Out[uint64]) error {
	const op = "GetFreeMemorySize"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.hasCPU(cpu), hal.KindOutOfRange, "unsupported cpu "+cpu.String()); err != nil {
		return err
	}
	return put(op, f, out, p.opts.MemTotalKB-p.opts.MemUsedKB, p.opts.MemTotalKB+1)
}

func (p *Platform) GetTotalMemorySize(ctx context.Context, out *hal.Out[uint64]) error {
	const op = "GetTotalMemorySize"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.MemTotalKB, 0)
}

func (p *Platform) GetMemoryInfo(ctx context.Context, cpu hal.CPU, out *hal.Out[hal.MemInfo]) error {
	const op = "GetMemoryInfo"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	if err := check(op, f, p.hasCPU(cpu), hal.KindOutOfRange, "unsupported cpu "+cpu.String()); err != nil {
		return err
	}
	info := hal.MemInfo{
		TotalKB: p.opts.MemTotalKB,
		UsedKB:  p.opts.MemUsedKB,
		FreeKB:  p.opts.MemTotalKB - p.opts.MemUsedKB,
	}
	corrupt := info
	corrupt.FreeKB = info.TotalKB
	return put(op, f, out, info, corrupt)
}

func (p *Platform) GetCPUSpeed(ctx context.Context, out *hal.Out[string]) error {
	const op = "GetCPUSpeed"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.CPUSpeed, "fast")
}

func (p *Platform) GetFlashSize(ctx context.Context, out *hal.Out[uint64]) error {
	const op = "GetFlashSize"
	f, err := p.enter(ctx, op)
	if err != nil {
		return err
	}
	defer p.mu.Unlock()
	return put(op, f, out, p.opts.FlashSizeMB, 0)
}
