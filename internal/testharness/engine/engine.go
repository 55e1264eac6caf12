package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// abandonGrace is how long a timed out test may take to return.
const abandonGrace = 50 * time.Millisecond

// Engine executes test cases.
type Engine struct {
	config *Config
	logger *slog.Logger
	tracer trace.Logger
}

// New creates a new test engine with default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new test engine with the given configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	e := &Engine{
		config: config,
		logger: config.Logger,
		tracer: config.Tracer,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tracer == nil {
		e.tracer = trace.NoopLogger{}
	}
	return e
}

// Run executes a single test case outside of a suite.
func (e *Engine) Run(ctx context.Context, tc *TestCase) *TestResult {
	return e.run(ctx, "", tc)
}

func (e *Engine) run(ctx context.Context, runID string, tc *TestCase) *TestResult {
	result := &TestResult{
		TestCase:  tc,
		State:     StateRunning,
		StartTime: time.Now(),
	}

	timeout := e.config.DefaultTimeout
	if tc.Timeout > 0 {
		timeout = tc.Timeout
	}
	testCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		testCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	t := newT(testCtx, tc, runID, e.tracer, result)

	// The body runs on its own goroutine so a HAL call that never returns
	// only costs this test.
	done := make(chan struct{})
	go func() {
		defer close(done)
		t.execute()
	}()

	select {
	case <-done:
	case <-testCtx.Done():
		reason := fmt.Sprintf("test cancelled: %v", ctx.Err())
		if errors.Is(testCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			reason = fmt.Sprintf("test timed out after %v", timeout)
		}
		// Give a context-aware HAL a moment to unwind before freezing the
		// result.
		select {
		case <-done:
		case <-time.After(abandonGrace):
			e.logger.Warn("abandoning test goroutine", "test", tc.ID)
		}
		t.abandon(reason)
	}

	result.State = t.finish()
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	return result
}

// RunSuite runs the init hook and then every case in order.
func (e *Engine) RunSuite(ctx context.Context, suite *Suite) *SuiteResult {
	result := &SuiteResult{
		SuiteName: suite.Name,
		RunID:     trace.NewRunID(),
	}

	startTime := time.Now()
	e.tracer.Log(trace.Event{Timestamp: startTime, RunID: result.RunID, Category: trace.CategoryRun, Detail: "start " + suite.Name})
	defer func() {
		result.Duration = time.Since(startTime)
		e.tracer.Log(trace.Event{
			Timestamp: time.Now(),
			RunID:     result.RunID,
			Category:  trace.CategoryRun,
			Duration:  result.Duration,
			Detail:    fmt.Sprintf("end %s passed=%d failed=%d skipped=%d", suite.Name, result.PassCount, result.FailCount, result.SkipCount),
		})
	}()

	if suite.Init != nil {
		if err := suite.Init(ctx); err != nil {
			e.logger.Error("suite init failed", "suite", suite.Name, "error", err)
			result.InitError = err
			for _, tc := range suite.Cases {
				tr := &TestResult{
					TestCase: tc,
					State:    StateFailed,
					Error:    fmt.Errorf("suite init failed: %w", err),
				}
				e.complete(result, tr)
			}
			return result
		}
	}

	for _, tc := range suite.Cases {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		if e.config.OnTestStart != nil {
			e.config.OnTestStart(tc)
		}

		var tr *TestResult
		if reason, ok := unmet(suite.Gate, tc.Requires); !ok {
			now := time.Now()
			tr = &TestResult{TestCase: tc, State: StateSkipped, SkipReason: reason, StartTime: now, EndTime: now}
		} else {
			tr = e.run(ctx, result.RunID, tc)
		}
		e.complete(result, tr)

		if tr.State == StateFailed && e.config.StopOnFirstFailure {
			break
		}
	}

	return result
}

func (e *Engine) complete(sr *SuiteResult, tr *TestResult) {
	sr.Results = append(sr.Results, tr)
	switch tr.State {
	case StatePassed:
		sr.PassCount++
	case StateSkipped:
		sr.SkipCount++
	default:
		sr.FailCount++
	}

	detail := tr.State.String()
	if tr.Error != nil {
		detail += ": " + tr.Error.Error()
	} else if tr.SkipReason != "" {
		detail += ": " + tr.SkipReason
	}
	e.tracer.Log(trace.Event{
		Timestamp: time.Now(),
		RunID:     sr.RunID,
		Category:  trace.CategoryTest,
		TestID:    tr.TestCase.ID,
		Duration:  tr.Duration,
		Detail:    detail,
	})

	if e.config.OnTestComplete != nil {
		e.config.OnTestComplete(tr)
	}
}

// unmet returns the reason for the first unmet requirement.
func unmet(gate func(string) (bool, string), requires []string) (string, bool) {
	if gate == nil {
		return "", true
	}
	for _, req := range requires {
		if ok, reason := gate(req); !ok {
			if reason == "" {
				reason = "requirement not met: " + req
			}
			return reason, false
		}
	}
	return "", true
}
