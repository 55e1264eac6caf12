package sim

import (
	"context"
	"slices"
	"sync"

	"github.com/platform-hal/hal-l1test/pkg/hal"
)

// DriverName is the name the simulated platform registers under.
const DriverName = "sim"

func init() {
	hal.Register(DriverName, func(ctx context.Context) (hal.Platform, error) {
		return New(DefaultOptions()), nil
	})
}

// Platform is a simulated HAL. It is safe for concurrent use.
type Platform struct {
	mu     sync.Mutex
	opts   Options
	faults map[string]Fault
	calls  map[string]int

	led           hal.LEDParams
	thermalInit   bool
	thermal       hal.ThermalConfig
	// Per fan and per port state is sparse so that a fixture describing a
	// large device costs nothing until a port is touched.
	fanSpeed      map[uint32]hal.FanSpeed
	fanOverride   map[uint32]bool
	macsecEnabled map[int]bool
	macsecRunning map[int]bool
	sshEnabled    bool
	telnetEnabled bool
	dscpCounting  map[hal.WANInterface]bool
	qosRules      []hal.QoSRule
	closed        bool
}

// Compile-time interface satisfaction check.
var _ hal.Platform = (*Platform)(nil)

// New creates a simulated platform.
func New(opts Options) *Platform {
	return &Platform{
		opts:          opts,
		faults:        make(map[string]Fault),
		calls:         make(map[string]int),
		fanSpeed:      make(map[uint32]hal.FanSpeed),
		fanOverride:   make(map[uint32]bool),
		macsecEnabled: make(map[int]bool),
		macsecRunning: make(map[int]bool),
		dscpCounting:  make(map[hal.WANInterface]bool),
		sshEnabled:    true,
	}
}

// Inject sets the fault for an entry point (e.g. "GetModelName").
// FaultNone clears it.
func (p *Platform) Inject(entryPoint string, f Fault) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f == FaultNone {
		delete(p.faults, entryPoint)
		return
	}
	p.faults[entryPoint] = f
}

// Reset clears all injected faults.
func (p *Platform) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faults = make(map[string]Fault)
}

// Calls returns how often an entry point was invoked.
func (p *Platform) Calls(entryPoint string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[entryPoint]
}

// Close marks the platform closed. Later calls return ErrFailure.
func (p *Platform) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// enter counts the call, acquires the lock and applies any blocking fault.
// On a nil error the caller holds p.mu and must call p.mu.Unlock.
func (p *Platform) enter(ctx context.Context, op string) (Fault, error) {
	p.mu.Lock()
	p.calls[op]++
	f := p.faults[op]
	closed := p.closed
	switch {
	case closed:
		p.mu.Unlock()
		return f, hal.Errorf(op, hal.KindFailure, "platform closed")
	case f == FaultFail:
		p.mu.Unlock()
		return f, hal.Errorf(op, hal.KindFailure, "injected failure")
	case f == FaultHang:
		p.mu.Unlock()
		<-ctx.Done()
		return f, ctx.Err()
	case f == FaultPanic:
		p.mu.Unlock()
		panic("sim: injected panic in " + op)
	}
	return f, nil
}

// check returns an error of kind for op unless ok holds or args are ignored.
func check(op string, f Fault, ok bool, kind hal.Kind, msg string) error {
	if ok || f == FaultIgnoreArgs {
		return nil
	}
	return hal.Errorf(op, kind, msg)
}

// put writes v (or corrupt under FaultCorrupt) to out.
func put[T any](op string, f Fault, out *hal.Out[T], v, corrupt T) error {
	if !out.Present() {
		if f == FaultIgnoreArgs {
			return nil
		}
		return hal.Errorf(op, hal.KindInvalidArgument, "output argument is absent")
	}
	if f == FaultCorrupt {
		v = corrupt
	}
	return out.Put(v)
}

// putString writes a string to a caller buffer of maxLen bytes, which must
// leave room for the terminating NUL of the C contract.
func putString(op string, f Fault, out *hal.Out[string], maxLen int, v string) error {
	if err := check(op, f, maxLen > len(v), hal.KindInvalidArgument, "buffer too small"); err != nil {
		return err
	}
	return put(op, f, out, v, "")
}

func (p *Platform) hasCPU(cpu hal.CPU) bool {
	return slices.Contains(p.opts.CPUs, cpu)
}

func (p *Platform) validFan(fan uint32) bool {
	return int(fan) < p.opts.FanCount
}

func (p *Platform) validPort(port int) bool {
	return port >= 0 && port < p.opts.EthPorts
}

// truncated drops the last character of s.
func truncated(s string) string {
	if s == "" {
		return s
	}
	return s[:len(s)-1]
}
