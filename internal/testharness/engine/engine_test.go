package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/trace"
)

type recorder struct {
	mu     sync.Mutex
	events []trace.Event
}

func (r *recorder) Log(e trace.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) byCategory(c trace.Category) []trace.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []trace.Event
	for _, e := range r.events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// TestEngineBasic tests a passing test.
func TestEngineBasic(t *testing.T) {
	e := engine.New()

	tc := &engine.TestCase{
		ID:   "TC-001",
		Name: "Basic Test",
		Run: func(t *engine.T) {
			err := t.Call("GetSerialNumber", func(ctx context.Context) error { return nil })
			t.RequireOK("GetSerialNumber", err)
		},
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, engine.StatePassed, result.State)
	assert.NoError(t, result.Error)
	assert.Equal(t, 1, result.Calls)
	assert.Len(t, result.Assertions, 1)
}

// TestEngineRequireStopsTest checks that a failed Require ends the test body.
func TestEngineRequireStopsTest(t *testing.T) {
	e := engine.New()
	reached := false

	tc := &engine.TestCase{
		ID: "TC-REQUIRE",
		Run: func(t *engine.T) {
			t.Require(assertions.Equal(1, 2))
			reached = true
		},
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, engine.StateFailed, result.State)
	assert.False(t, reached)
	require.Len(t, result.Failures(), 1)
	assert.True(t, result.Failures()[0].Fatal)
}

// TestEngineExpectContinues checks that Expect records and carries on.
func TestEngineExpectContinues(t *testing.T) {
	e := engine.New()
	var seen []int

	tc := &engine.TestCase{
		ID: "TC-EXPECT",
		Run: func(t *engine.T) {
			for _, c := range []int{3, 9, 5} {
				t.Expect(assertions.InRange(c, 0, 6))
				seen = append(seen, c)
			}
		},
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, engine.StateFailed, result.State)
	assert.Equal(t, []int{3, 9, 5}, seen)
	assert.Len(t, result.Assertions, 3)
	assert.Len(t, result.Failures(), 1)
	assert.Contains(t, result.Error.Error(), "9")
}

// TestEngineFailureStopsBeforeNextCall checks that no HAL call is made after
// a failed check, while teardown still reaches the HAL.
func TestEngineFailureStopsBeforeNextCall(t *testing.T) {
	e := engine.New()
	var ports []int

	tc := &engine.TestCase{
		ID: "TC-LOOP",
		Run: func(t *engine.T) {
			for _, port := range []int{0, 1, 2} {
				err := t.Call("GetMACsecEnable", func(ctx context.Context) error {
					ports = append(ports, port)
					if port == 1 {
						return hal.ErrFailure
					}
					return nil
				})
				if !t.ExpectOK("GetMACsecEnable", err) {
					continue
				}
			}
		},
		Teardown: func(t *engine.T) {
			_ = t.Call("StopMACsec", func(ctx context.Context) error {
				ports = append(ports, -1)
				return nil
			})
		},
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, engine.StateFailed, result.State)
	assert.Equal(t, []int{0, 1, -1}, ports)
	assert.Equal(t, 3, result.Calls)
	assert.Contains(t, result.Error.Error(), "GetMACsecEnable")
}

// TestEngineHALPanic checks that a panicking HAL call fails the test.
func TestEngineHALPanic(t *testing.T) {
	e := engine.New()
	after := false

	tc := &engine.TestCase{
		ID: "TC-PANIC",
		Run: func(t *engine.T) {
			_ = t.Call("GetLED", func(ctx context.Context) error { panic("boom") })
			after = true
		},
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, engine.StateFailed, result.State)
	assert.False(t, after)
	assert.Contains(t, result.Error.Error(), "GetLED panicked")
}

// TestEngineTestBodyPanic checks that a panic in the test body is a failure.
func TestEngineTestBodyPanic(t *testing.T) {
	e := engine.New()
	tc := &engine.TestCase{
		ID:  "TC-BODY-PANIC",
		Run: func(t *engine.T) { panic("bad test") },
	}

	result := e.Run(context.Background(), tc)
	assert.Equal(t, engine.StateFailed, result.State)
	assert.Contains(t, result.Error.Error(), "run panicked")
}

// TestEngineTimeout checks that a hung HAL call fails only its own test.
func TestEngineTimeout(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.DefaultTimeout = 20 * time.Millisecond
	e := engine.NewWithConfig(cfg)

	release := make(chan struct{})
	defer close(release)

	suite := &engine.Suite{
		Name: "timeouts",
		Cases: []*engine.TestCase{
			{
				ID: "TC-HANG",
				Run: func(t *engine.T) {
					_ = t.Call("InitThermal", func(ctx context.Context) error {
						<-release
						return nil
					})
				},
			},
			{
				ID:  "TC-AFTER",
				Run: func(t *engine.T) { t.Expect(assertions.True(true)) },
			},
		},
	}

	result := e.RunSuite(context.Background(), suite)

	require.Len(t, result.Results, 2)
	assert.Equal(t, engine.StateFailed, result.Results[0].State)
	assert.Contains(t, result.Results[0].Error.Error(), "timed out")
	assert.Equal(t, engine.StatePassed, result.Results[1].State)
}

// TestEngineTimeoutContextAware checks that a HAL returning on cancellation
// is still reported as a timeout.
func TestEngineTimeoutContextAware(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.DefaultTimeout = 10 * time.Millisecond
	e := engine.NewWithConfig(cfg)

	tc := &engine.TestCase{
		ID: "TC-CTX",
		Run: func(t *engine.T) {
			err := t.Call("StartMACsec", func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			})
			t.ExpectError("StartMACsec", err)
		},
	}

	result := e.Run(context.Background(), tc)
	assert.Equal(t, engine.StateFailed, result.State)
}

// TestEngineSkip tests explicit skips and gated requirements.
func TestEngineSkip(t *testing.T) {
	e := engine.New()
	ran := false

	suite := &engine.Suite{
		Name: "skips",
		Gate: func(req string) (bool, string) {
			return req != "macsec", "feature macsec disabled"
		},
		Cases: []*engine.TestCase{
			{ID: "TC-GATED", Requires: []string{"macsec"}, Run: func(t *engine.T) { ran = true }},
			{ID: "TC-SKIP", Run: func(t *engine.T) { t.Skip("no ports") }},
			{ID: "TC-RUN", Requires: []string{"telnet"}, Run: func(t *engine.T) {}},
		},
	}

	result := e.RunSuite(context.Background(), suite)

	assert.False(t, ran)
	assert.Equal(t, 2, result.SkipCount)
	assert.Equal(t, 1, result.PassCount)
	assert.Equal(t, "feature macsec disabled", result.Results[0].SkipReason)
	assert.Equal(t, "no ports", result.Results[1].SkipReason)
}

// TestEngineSetupTeardown tests phase ordering.
func TestEngineSetupTeardown(t *testing.T) {
	e := engine.New()
	var order []string

	tc := &engine.TestCase{
		ID:       "TC-PHASES",
		Setup:    func(t *engine.T) { order = append(order, "setup") },
		Run:      func(t *engine.T) { order = append(order, "run"); t.Fatalf("stop") },
		Teardown: func(t *engine.T) { order = append(order, "teardown") },
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, []string{"setup", "run", "teardown"}, order)
	assert.Equal(t, engine.StateFailed, result.State)
}

// TestEngineSetupFailureSkipsRun tests that Run is skipped after Setup fails.
func TestEngineSetupFailureSkipsRun(t *testing.T) {
	e := engine.New()
	var order []string

	tc := &engine.TestCase{
		ID:       "TC-SETUP-FAIL",
		Setup:    func(t *engine.T) { order = append(order, "setup"); t.Require(assertions.False(true)) },
		Run:      func(t *engine.T) { order = append(order, "run") },
		Teardown: func(t *engine.T) { order = append(order, "teardown") },
	}

	result := e.Run(context.Background(), tc)

	assert.Equal(t, []string{"setup", "teardown"}, order)
	assert.Equal(t, engine.StateFailed, result.State)
}

// TestEngineInitFailure checks init runs first and its failure fails every test.
func TestEngineInitFailure(t *testing.T) {
	e := engine.New()
	ran := false
	initErr := errors.New("fixture missing")

	suite := &engine.Suite{
		Name: "init",
		Init: func(ctx context.Context) error { return initErr },
		Cases: []*engine.TestCase{
			{ID: "TC-1", Run: func(t *engine.T) { ran = true }},
			{ID: "TC-2", Run: func(t *engine.T) { ran = true }},
		},
	}

	result := e.RunSuite(context.Background(), suite)

	assert.False(t, ran)
	assert.True(t, errors.Is(result.InitError, initErr))
	assert.Equal(t, 2, result.FailCount)
	assert.True(t, result.Failed())
	for _, r := range result.Results {
		assert.True(t, errors.Is(r.Error, initErr))
	}
}

// TestEngineInitRunsBeforeTests checks hook ordering.
func TestEngineInitRunsBeforeTests(t *testing.T) {
	e := engine.New()
	var order []string

	suite := &engine.Suite{
		Name: "order",
		Init: func(ctx context.Context) error { order = append(order, "init"); return nil },
		Cases: []*engine.TestCase{
			{ID: "A", Run: func(t *engine.T) { order = append(order, "A") }},
			{ID: "B", Run: func(t *engine.T) { order = append(order, "B") }},
		},
	}

	e.RunSuite(context.Background(), suite)
	assert.Equal(t, []string{"init", "A", "B"}, order)
}

// TestEngineStopOnFirstFailure tests early termination.
func TestEngineStopOnFirstFailure(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.StopOnFirstFailure = true
	e := engine.NewWithConfig(cfg)

	suite := &engine.Suite{
		Name: "stop",
		Cases: []*engine.TestCase{
			{ID: "A", Run: func(t *engine.T) {}},
			{ID: "B", Run: func(t *engine.T) { t.Errorf("broken") }},
			{ID: "C", Run: func(t *engine.T) {}},
		},
	}

	result := e.RunSuite(context.Background(), suite)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 1, result.PassCount)
	assert.Equal(t, 1, result.FailCount)
}

// TestEngineTracing checks call, test and run events share the run ID.
func TestEngineTracing(t *testing.T) {
	rec := &recorder{}
	cfg := engine.DefaultConfig()
	cfg.Tracer = rec
	var completed []string
	cfg.OnTestComplete = func(r *engine.TestResult) { completed = append(completed, r.TestCase.ID) }
	e := engine.NewWithConfig(cfg)

	suite := &engine.Suite{
		Name: "trace",
		Cases: []*engine.TestCase{
			{ID: "TC-CALLS", Run: func(t *engine.T) {
				_ = t.Call("GetFanSpeed", func(ctx context.Context) error { return hal.ErrOutOfRange })
				_ = t.Call("GetModelName", func(ctx context.Context) error { return nil })
			}},
		},
	}

	result := e.RunSuite(context.Background(), suite)

	calls := rec.byCategory(trace.CategoryCall)
	require.Len(t, calls, 2)
	assert.Equal(t, hal.StatusError, calls[0].Status)
	assert.Equal(t, hal.KindOutOfRange, calls[0].ErrorKind)
	assert.Equal(t, "TC-CALLS", calls[0].TestID)
	assert.Equal(t, result.RunID, calls[1].RunID)

	tests := rec.byCategory(trace.CategoryTest)
	require.Len(t, tests, 1)
	assert.Equal(t, "PASSED", tests[0].Detail)

	assert.Len(t, rec.byCategory(trace.CategoryRun), 2)
	assert.Equal(t, []string{"TC-CALLS"}, completed)
}

// TestSuiteGroupsAndFilter tests suite helpers.
func TestSuiteGroupsAndFilter(t *testing.T) {
	suite := &engine.Suite{
		Name: "groups",
		Cases: []*engine.TestCase{
			{ID: "A", Group: "Identity"},
			{ID: "B", Group: "Thermal"},
			{ID: "C", Group: "Identity"},
		},
	}

	assert.Equal(t, []string{"Identity", "Thermal"}, suite.Groups())

	filtered := suite.Filter(func(tc *engine.TestCase) bool { return tc.Group == "Identity" })
	assert.Len(t, filtered.Cases, 2)
	assert.Len(t, suite.Cases, 3)
	assert.Equal(t, "groups", filtered.Name)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NOT_RUN", engine.StateNotRun.String())
	assert.Equal(t, "RUNNING", engine.StateRunning.String())
	assert.Equal(t, "PASSED", engine.StatePassed.String())
	assert.Equal(t, "FAILED", engine.StateFailed.String())
	assert.Equal(t, "SKIPPED", engine.StateSkipped.String())
}
