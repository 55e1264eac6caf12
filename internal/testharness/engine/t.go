package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// stopTest and skipTest unwind the test goroutine from Require, FailNow and
// Skip. The engine recovers them.
type (
	stopTest struct{}
	skipTest struct{}
)

// T is handed to every test function. It records assertions and wraps HAL
// calls so they are counted, traced and protected against panics.
type T struct {
	ctx    context.Context
	tc     *TestCase
	runID  string
	tracer trace.Logger

	mu         sync.Mutex
	result     *TestResult
	abandoned  bool
	running    bool
	failed     bool
	skipped    bool
	skipReason string
}

func newT(ctx context.Context, tc *TestCase, runID string, tracer trace.Logger, result *TestResult) *T {
	if tracer == nil {
		tracer = trace.NoopLogger{}
	}
	return &T{ctx: ctx, tc: tc, runID: runID, tracer: tracer, result: result}
}

// Context returns the per-test context. It is cancelled when the test times
// out and should be passed to every HAL call.
func (t *T) Context() context.Context { return t.ctx }

// ID returns the test ID.
func (t *T) ID() string { return t.tc.ID }

// Logf records a log line in the result.
func (t *T) Logf(format string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.abandoned {
		return
	}
	t.result.Logs = append(t.result.Logs, fmt.Sprintf(format, args...))
}

// Call invokes one HAL entry point. A panic inside fn fails and stops the
// test. Once the run phase has recorded a failure, Call stops the test
// without invoking fn: Expect may collect several defects of one response,
// but no further HAL call is made after a failed check.
func (t *T) Call(entryPoint string, fn func(ctx context.Context) error) error {
	if t.haltBeforeCall() {
		panic(stopTest{})
	}

	start := time.Now()
	panicked, err := invoke(t.ctx, fn)
	d := time.Since(start)

	if panicked != nil {
		err = hal.Errorf(entryPoint, hal.KindFailure, fmt.Sprintf("panic: %v", panicked))
	}

	t.mu.Lock()
	if !t.abandoned {
		t.result.Calls++
	}
	t.mu.Unlock()
	t.tracer.Log(trace.CallEvent(t.runID, t.tc.ID, entryPoint, err, d))

	if panicked != nil {
		t.record(&AssertionRecord{
			Message: fmt.Sprintf("%s panicked: %v", entryPoint, panicked),
			Fatal:   true,
		})
		panic(stopTest{})
	}
	return err
}

func invoke(ctx context.Context, fn func(ctx context.Context) error) (panicked interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = r
		}
	}()
	return nil, fn(ctx)
}

// Expect records r and reports whether it passed. The test continues either
// way.
func (t *T) Expect(r *assertions.Result) bool {
	t.record(recordOf(r, false))
	return r.Passed
}

// Require records r and stops the test if it failed.
func (t *T) Require(r *assertions.Result) {
	t.record(recordOf(r, !r.Passed))
	if !r.Passed {
		panic(stopTest{})
	}
}

// RequireOK stops the test unless err is nil.
func (t *T) RequireOK(entryPoint string, err error) {
	t.Require(statusResult(entryPoint, err, hal.StatusOK))
}

// RequireError stops the test unless err is non-nil.
func (t *T) RequireError(entryPoint string, err error) {
	t.Require(statusResult(entryPoint, err, hal.StatusError))
}

// ExpectOK records whether err is nil.
func (t *T) ExpectOK(entryPoint string, err error) bool {
	return t.Expect(statusResult(entryPoint, err, hal.StatusOK))
}

// ExpectError records whether err is non-nil.
func (t *T) ExpectError(entryPoint string, err error) bool {
	return t.Expect(statusResult(entryPoint, err, hal.StatusError))
}

func statusResult(entryPoint string, err error, want hal.Status) *assertions.Result {
	r := assertions.HasStatus(err, want).Result
	r.Message = entryPoint + ": " + r.Message
	return r
}

// Errorf records a failure and continues.
func (t *T) Errorf(format string, args ...interface{}) {
	t.record(&AssertionRecord{Message: fmt.Sprintf(format, args...)})
}

// Fatalf records a failure and stops the test.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.record(&AssertionRecord{Message: fmt.Sprintf(format, args...), Fatal: true})
	panic(stopTest{})
}

// Skip marks the test skipped and stops it.
func (t *T) Skip(reason string) {
	t.mu.Lock()
	if !t.skipped {
		t.skipped = true
		t.skipReason = reason
	}
	t.mu.Unlock()
	panic(skipTest{})
}

func (t *T) haltBeforeCall() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running && t.failed
}

// Failed reports whether a failure has been recorded.
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func recordOf(r *assertions.Result, fatal bool) *AssertionRecord {
	rec := &AssertionRecord{Message: r.Message, Passed: r.Passed, Fatal: fatal}
	if !r.Passed {
		rec.Expected = r.Expected
		rec.Actual = r.Actual
	}
	return rec
}

func (t *T) record(rec *AssertionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.abandoned {
		return
	}
	t.result.Assertions = append(t.result.Assertions, rec)
	if !rec.Passed {
		if !t.failed {
			t.result.Error = errors.New(rec.Message)
		}
		t.failed = true
	}
}

// execute runs the test phases on the current goroutine.
func (t *T) execute() {
	if t.tc.Setup != nil {
		t.phase("setup", t.tc.Setup)
	}
	if t.tc.Run != nil && !t.Failed() && !t.isSkipped() {
		t.setRunning(true)
		t.phase("run", t.tc.Run)
		t.setRunning(false)
	}
	if t.tc.Teardown != nil {
		t.phase("teardown", t.tc.Teardown)
	}
}

func (t *T) phase(name string, fn func(*T)) {
	defer func() {
		switch r := recover().(type) {
		case nil, stopTest, skipTest:
		default:
			t.record(&AssertionRecord{Message: fmt.Sprintf("%s panicked: %v", name, r), Fatal: true})
		}
	}()
	fn(t)
}

func (t *T) setRunning(v bool) {
	t.mu.Lock()
	t.running = v
	t.mu.Unlock()
}

func (t *T) isSkipped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skipped
}

// abandon stops recording. Used when the test goroutine outlives its
// deadline.
func (t *T) abandon(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.abandoned {
		return
	}
	t.result.Assertions = append(t.result.Assertions, &AssertionRecord{Message: reason, Fatal: true})
	if !t.failed {
		t.result.Error = errors.New(reason)
	}
	t.failed = true
	t.abandoned = true
}

// finish freezes the result and returns its final state.
func (t *T) finish() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.abandoned = true
	switch {
	case t.failed:
		return StateFailed
	case t.skipped:
		t.result.SkipReason = t.skipReason
		return StateSkipped
	default:
		return StatePassed
	}
}
