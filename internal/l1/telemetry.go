package l1

import (
	"context"
	"fmt"
	"strconv"

	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// invalidCPU is outside the CPU enumeration.
const invalidCPU = hal.CPU(99)

// memoryGetter is a per-CPU memory counter entry point.
type memoryGetter struct {
	entryPoint string
	get        func(ctx context.Context, p hal.Platform, cpu hal.CPU, out *hal.Out[uint64]) error
}

func memoryGetters() []memoryGetter {
	return []memoryGetter{
		{"GetUsedMemorySize", func(ctx context.Context, p hal.Platform, cpu hal.CPU, out *hal.Out[uint64]) error {
			return p.GetUsedMemorySize(ctx, cpu, out)
		}},
		{"GetFreeMemorySize", func(ctx context.Context, p hal.Platform, cpu hal.CPU, out *hal.Out[uint64]) error {
			return p.GetFreeMemorySize(ctx, cpu, out)
		}},
	}
}

func telemetryCases(env *Env) []*engine.TestCase {
	var cases []*engine.TestCase
	for _, g := range memoryGetters() {
		cases = append(cases,
			newCase(GroupTelemetry, g.entryPoint, "valid",
				"Returns OK for every supported CPU and a value no larger than total memory.",
				func(t *engine.T) {
					total := hal.NewOut[uint64]()
					requireOK(t, "GetTotalMemorySize", func(ctx context.Context) error {
						return env.Platform.GetTotalMemorySize(ctx, total)
					})
					for _, cpu := range env.fixture().SupportedCPUs() {
						out := hal.NewOut[uint64]()
						if !expectOK(t, g.entryPoint, func(ctx context.Context) error {
							return g.get(ctx, env.Platform, cpu, out)
						}) {
							continue
						}
						t.Expect(assertions.InRange(out.Value(), uint64(0), total.Value()))
					}
				}),
			newCase(GroupTelemetry, g.entryPoint, "absent_output", "Returns ERROR when the output is absent.",
				func(t *engine.T) {
					expectError(t, g.entryPoint, func(ctx context.Context) error {
						return g.get(ctx, env.Platform, hal.CPUHost, hal.Absent[uint64]())
					})
				}),
			newCase(GroupTelemetry, g.entryPoint, "invalid_cpu", "Returns ERROR for a CPU outside the enumeration.",
				func(t *engine.T) {
					expectError(t, g.entryPoint, func(ctx context.Context) error {
						return g.get(ctx, env.Platform, invalidCPU, hal.NewOut[uint64]())
					})
				}),
		)
	}

	cases = append(cases,
		newCase(GroupTelemetry, "GetTotalMemorySize", "valid", "Returns OK and a non-zero size.",
			func(t *engine.T) {
				out := hal.NewOut[uint64]()
				requireOK(t, "GetTotalMemorySize", func(ctx context.Context) error {
					return env.Platform.GetTotalMemorySize(ctx, out)
				})
				t.Expect(assertions.GreaterThan(out.Value(), 0))
			}),
		newCase(GroupTelemetry, "GetTotalMemorySize", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetTotalMemorySize", func(ctx context.Context) error {
					return env.Platform.GetTotalMemorySize(ctx, hal.Absent[uint64]())
				})
			}),

		newCase(GroupTelemetry, "GetMemoryInfo", "valid",
			"Returns OK for every supported CPU with used plus free equal to total.",
			func(t *engine.T) {
				for _, cpu := range env.fixture().SupportedCPUs() {
					out := hal.NewOut[hal.MemInfo]()
					if !expectOK(t, "GetMemoryInfo", func(ctx context.Context) error {
						return env.Platform.GetMemoryInfo(ctx, cpu, out)
					}) {
						continue
					}
					info := out.Value()
					t.Expect(assertions.GreaterThan(info.TotalKB, 0))
					r := assertions.Equal(info.TotalKB, info.UsedKB+info.FreeKB)
					r.Message = fmt.Sprintf("%s used+free against total: %s", cpu, r.Message)
					t.Expect(r)
				}
			}),
		newCase(GroupTelemetry, "GetMemoryInfo", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetMemoryInfo", func(ctx context.Context) error {
					return env.Platform.GetMemoryInfo(ctx, hal.CPUHost, hal.Absent[hal.MemInfo]())
				})
			}),
		newCase(GroupTelemetry, "GetMemoryInfo", "invalid_cpu", "Returns ERROR for a CPU outside the enumeration.",
			func(t *engine.T) {
				expectError(t, "GetMemoryInfo", func(ctx context.Context) error {
					return env.Platform.GetMemoryInfo(ctx, invalidCPU, hal.NewOut[hal.MemInfo]())
				})
			}),

		newCase(GroupTelemetry, "GetCPUSpeed", "valid", "Returns OK and a positive speed in MHz.",
			func(t *engine.T) {
				out := hal.NewOut[string]()
				requireOK(t, "GetCPUSpeed", func(ctx context.Context) error {
					return env.Platform.GetCPUSpeed(ctx, out)
				})
				mhz, err := strconv.Atoi(out.Value())
				if err != nil {
					t.Fatalf("CPU speed %q is not a number", out.Value())
				}
				t.Expect(assertions.GreaterThan(mhz, 0))
			}),
		newCase(GroupTelemetry, "GetCPUSpeed", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetCPUSpeed", func(ctx context.Context) error {
					return env.Platform.GetCPUSpeed(ctx, hal.Absent[string]())
				})
			}),

		newCase(GroupTelemetry, "GetFlashSize", "valid", "Returns OK and a non-zero size.",
			func(t *engine.T) {
				out := hal.NewOut[uint64]()
				requireOK(t, "GetFlashSize", func(ctx context.Context) error {
					return env.Platform.GetFlashSize(ctx, out)
				})
				t.Expect(assertions.GreaterThan(out.Value(), 0))
			}),
		newCase(GroupTelemetry, "GetFlashSize", "absent_output", "Returns ERROR when the output is absent.",
			func(t *engine.T) {
				expectError(t, "GetFlashSize", func(ctx context.Context) error {
					return env.Platform.GetFlashSize(ctx, hal.Absent[uint64]())
				})
			}),
	)
	return cases
}
