// Package engine registers and runs L1 test cases and collects their results.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// TestCase is one registered test.
type TestCase struct {
	// ID uniquely identifies the test, e.g. "GetFanSpeed/invalid_fan".
	ID string

	// Name is the human readable title.
	Name string

	// Group is the HAL area the test belongs to ("identity", "thermal", ...).
	Group string

	// Description explains what the test checks.
	Description string

	// Requires lists feature or fixture prerequisites. The suite's Gate
	// decides whether they are met.
	Requires []string

	// Setup runs before Run. A failure fails the test.
	Setup func(t *T)

	// Run is the test body.
	Run func(t *T)

	// Teardown always runs after Setup, even when Run fails.
	Teardown func(t *T)

	// Timeout overrides the engine default when non-zero.
	Timeout time.Duration
}

// Suite is an ordered list of test cases with an optional init hook.
type Suite struct {
	// Name identifies the suite in reports.
	Name string

	// Init runs once before the first test. A non-nil error fails every
	// test without running it.
	Init func(ctx context.Context) error

	// Gate reports whether a requirement listed in TestCase.Requires is met,
	// and a reason when it is not. A nil Gate treats all as met.
	Gate func(requirement string) (ok bool, reason string)

	// Cases run in order.
	Cases []*TestCase
}

// Groups returns the distinct groups in registration order.
func (s *Suite) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, tc := range s.Cases {
		if !seen[tc.Group] {
			seen[tc.Group] = true
			groups = append(groups, tc.Group)
		}
	}
	return groups
}

// Filter returns a copy of the suite keeping only cases for which keep
// returns true.
func (s *Suite) Filter(keep func(*TestCase) bool) *Suite {
	out := *s
	out.Cases = nil
	for _, tc := range s.Cases {
		if keep(tc) {
			out.Cases = append(out.Cases, tc)
		}
	}
	return &out
}

// State is the lifecycle state of a test.
type State int

const (
	StateNotRun State = iota
	StateRunning
	StatePassed
	StateFailed
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateNotRun:
		return "NOT_RUN"
	case StateRunning:
		return "RUNNING"
	case StatePassed:
		return "PASSED"
	case StateFailed:
		return "FAILED"
	case StateSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// AssertionRecord is one recorded check.
type AssertionRecord struct {
	// Message describes the check.
	Message string

	// Passed indicates the check held.
	Passed bool

	// Expected and Actual are set for failures.
	Expected interface{}
	Actual   interface{}

	// Fatal marks a Require that stopped the test.
	Fatal bool
}

// TestResult represents the outcome of a single test case.
type TestResult struct {
	// TestCase is the test case that was executed.
	TestCase *TestCase

	// State is the final state.
	State State

	// Error is the first failure, if any.
	Error error

	// Assertions lists every recorded check in order.
	Assertions []*AssertionRecord

	// Logs holds lines written with T.Logf.
	Logs []string

	// Calls is the number of HAL calls made.
	Calls int

	// SkipReason explains why the test was skipped.
	SkipReason string

	// Duration is how long the test took.
	Duration time.Duration

	// StartTime when the test started.
	StartTime time.Time

	// EndTime when the test finished.
	EndTime time.Time
}

// Passed reports whether the test passed.
func (r *TestResult) Passed() bool { return r.State == StatePassed }

// Skipped reports whether the test was skipped.
func (r *TestResult) Skipped() bool { return r.State == StateSkipped }

// Failures returns the failed assertions.
func (r *TestResult) Failures() []*AssertionRecord {
	var out []*AssertionRecord
	for _, a := range r.Assertions {
		if !a.Passed {
			out = append(out, a)
		}
	}
	return out
}

// SuiteResult represents the outcome of running a suite.
type SuiteResult struct {
	// SuiteName identifies the suite.
	SuiteName string

	// RunID identifies this run in the trace.
	RunID string

	// Results contains results for each test case, in run order.
	Results []*TestResult

	// PassCount is the number of passed tests.
	PassCount int

	// FailCount is the number of failed tests.
	FailCount int

	// SkipCount is the number of skipped tests.
	SkipCount int

	// InitError is set when the init hook failed.
	InitError error

	// Duration is the total time for all tests.
	Duration time.Duration
}

// Failed reports whether any test failed or init failed.
func (r *SuiteResult) Failed() bool {
	return r.FailCount > 0 || r.InitError != nil
}

// Config configures the engine.
type Config struct {
	// DefaultTimeout bounds each test. Zero disables the limit.
	DefaultTimeout time.Duration

	// StopOnFirstFailure stops execution after the first failed test.
	StopOnFirstFailure bool

	// OnTestStart is called before each test runs.
	OnTestStart func(tc *TestCase)

	// OnTestComplete is called after each test completes.
	OnTestComplete func(result *TestResult)

	// Tracer receives call and outcome events. Nil disables tracing.
	Tracer trace.Logger

	// Logger receives operational logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultTimeout: 30 * time.Second,
	}
}
