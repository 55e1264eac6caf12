// Package runner wires the fixture, the expectation profile, a HAL platform,
// the test engine, the reporter and the call trace into one L1 run.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/l1"
	"github.com/platform-hal/hal-l1test/internal/profile"
	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
	"github.com/platform-hal/hal-l1test/internal/testharness/reporter"
	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/hal/sim"
	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// Runner executes the L1 suite against one platform.
type Runner struct {
	config   *Config
	engine   *engine.Engine
	reporter reporter.Reporter
	logger   *slog.Logger

	tracer     trace.Logger
	fileTracer *trace.FileLogger

	env   *l1.Env
	suite *engine.Suite

	prepareOnce sync.Once
	prepareErr  error

	mu   sync.Mutex
	last *engine.SuiteResult
}

// Config configures the test runner.
type Config struct {
	// FixturePath is the platform fixture JSON. Empty uses
	// fixture.DefaultPath.
	FixturePath string

	// ProfilePath is an optional YAML expectation profile.
	ProfilePath string

	// Platform is the registered HAL driver name. Empty uses the simulator.
	Platform string

	// Open overrides how the platform is created once the fixture is
	// loaded. Nil uses the driver registry.
	Open func(ctx context.Context, fx *fixture.Config) (hal.Platform, error)

	// Pattern filters tests by ID or name (glob, comma separated).
	Pattern string

	// Groups keeps only tests in these groups.
	Groups []string

	// ExcludeGroups drops tests in these groups.
	ExcludeGroups []string

	// Timeout bounds each test. Zero disables the limit.
	Timeout time.Duration

	// Verbose enables per-assertion output and logs every HAL call.
	Verbose bool

	// Output is where results are written. Nil uses os.Stdout.
	Output io.Writer

	// OutputFormat is "text", "json" or "junit".
	OutputFormat string

	// TraceFile, if set, receives a CBOR trace of every HAL call.
	TraceFile string

	// StopOnFirstFailure stops the run after the first failed test.
	StopOnFirstFailure bool

	// Logger receives operational logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// summaryReporter is implemented by reporters that stream tests and print a
// summary at the end.
type summaryReporter interface {
	ReportSummary(result *engine.SuiteResult)
}

// New creates a new test runner.
func New(config *Config) (*Runner, error) {
	if config == nil {
		config = &Config{}
	}
	if config.FixturePath == "" {
		config.FixturePath = fixture.DefaultPath
	}
	if config.Platform == "" {
		config.Platform = sim.DriverName
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rep, err := reporter.New(config.OutputFormat, config.Output, config.Verbose)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config:   config,
		reporter: rep,
		logger:   logger,
		env:      &l1.Env{},
	}

	var tracers []trace.Logger
	if config.TraceFile != "" {
		fl, err := trace.NewFileLogger(config.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		r.fileTracer = fl
		tracers = append(tracers, fl)
	}
	if config.Verbose {
		tracers = append(tracers, trace.NewSlogAdapter(logger))
	}
	switch len(tracers) {
	case 0:
		r.tracer = trace.NoopLogger{}
	case 1:
		r.tracer = tracers[0]
	default:
		r.tracer = trace.NewMultiLogger(tracers...)
	}

	engineConfig := engine.DefaultConfig()
	engineConfig.DefaultTimeout = config.Timeout
	engineConfig.StopOnFirstFailure = config.StopOnFirstFailure
	engineConfig.Tracer = r.tracer
	engineConfig.Logger = logger

	// Stream each test result as it completes when the reporter prints a
	// summary of its own; the others render the whole suite at the end.
	if _, ok := rep.(summaryReporter); ok {
		engineConfig.OnTestComplete = func(result *engine.TestResult) {
			r.reporter.ReportTest(result)
		}
	}
	r.engine = engine.NewWithConfig(engineConfig)
	r.suite = l1.Register(r.env, r.prepare)

	return r, nil
}

// Suite returns the full, unfiltered suite.
func (r *Runner) Suite() *engine.Suite {
	return r.suite
}

// Cases returns the cases matching pattern and the configured group
// filters, in registration order.
func (r *Runner) Cases(pattern string) []*engine.TestCase {
	cases := r.suite.Cases
	if pattern != "" {
		cases = filterByPattern(cases, pattern)
	}
	if len(r.config.Groups) > 0 {
		cases = filterByGroups(cases, r.config.Groups)
	}
	if len(r.config.ExcludeGroups) > 0 {
		cases = filterByExcludeGroups(cases, r.config.ExcludeGroups)
	}
	return cases
}

// Run executes all matching test cases and returns the suite result.
func (r *Runner) Run(ctx context.Context) (*engine.SuiteResult, error) {
	return r.RunPattern(ctx, r.config.Pattern)
}

// RunPattern runs the cases matching pattern instead of the configured one.
func (r *Runner) RunPattern(ctx context.Context, pattern string) (*engine.SuiteResult, error) {
	cases := r.Cases(pattern)
	if len(cases) == 0 {
		return nil, fmt.Errorf("no test cases found matching filters (pattern=%q, groups=%q, exclude-groups=%q)",
			pattern, r.config.Groups, r.config.ExcludeGroups)
	}
	suite := r.suite.Filter(func(tc *engine.TestCase) bool {
		return slices.Contains(cases, tc)
	})

	result := r.engine.RunSuite(ctx, suite)
	if sr, ok := r.reporter.(summaryReporter); ok {
		sr.ReportSummary(result)
	} else {
		r.reporter.ReportSuite(result)
	}

	r.mu.Lock()
	r.last = result
	r.mu.Unlock()

	if result.InitError != nil {
		return result, fmt.Errorf("suite init: %w", result.InitError)
	}
	return result, nil
}

// Last returns the result of the most recent run, or nil.
func (r *Runner) Last() *engine.SuiteResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Platform returns the platform under test once the first run has
// initialised it.
func (r *Runner) Platform() hal.Platform {
	return r.env.Platform
}

// Close releases the platform and flushes the trace file.
func (r *Runner) Close() error {
	var firstErr error
	if r.env.Platform != nil {
		if err := r.env.Platform.Close(); err != nil {
			firstErr = err
		}
	}
	if r.fileTracer != nil {
		r.logger.Debug("closing trace", "path", r.fileTracer.Path(), "events", r.fileTracer.Events())
		if err := r.fileTracer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// prepare is the suite init hook. It loads the fixture and the profile and
// opens the platform once; later runs reuse the outcome.
func (r *Runner) prepare(ctx context.Context) error {
	r.prepareOnce.Do(func() {
		r.prepareErr = r.load(ctx)
	})
	return r.prepareErr
}

func (r *Runner) load(ctx context.Context) error {
	fx, err := fixture.Load(r.config.FixturePath)
	switch {
	case fixture.IsFatal(err):
		return err
	case err != nil:
		r.logger.Warn("fixture is malformed, data driven tests will not iterate",
			"path", r.config.FixturePath, "error", err)
	}
	for _, d := range fx.Diagnostics() {
		r.logger.Warn("fixture key ignored", "key", d.Key, "problem", d.Message)
	}

	prof, err := profile.Load(r.config.ProfilePath)
	if err != nil {
		return err
	}
	if disabled := prof.DisabledFeatures(); len(disabled) > 0 {
		r.logger.Info("profile disables features", "features", disabled)
	}

	open := r.config.Open
	if open == nil {
		open = r.openDriver
	}
	p, err := open(ctx, fx)
	if err != nil {
		return fmt.Errorf("open platform %q: %w", r.config.Platform, err)
	}

	r.env.Fixture = fx
	r.env.Profile = prof
	r.env.Platform = p
	r.logger.Debug("suite initialised", "fixture", fx.Source(), "profile", prof.Source, "platform", r.config.Platform)
	return nil
}

// openDriver opens the configured driver. The simulator is seeded from the
// fixture so that it describes the same device.
func (r *Runner) openDriver(ctx context.Context, fx *fixture.Config) (hal.Platform, error) {
	if r.config.Platform == sim.DriverName {
		return sim.New(SimOptions(fx)), nil
	}
	return hal.Open(ctx, r.config.Platform)
}

// SimOptions returns simulator options describing the device in fx. Keys the
// fixture lacks keep their defaults.
func SimOptions(fx *fixture.Config) sim.Options {
	opts := sim.DefaultOptions()
	if fans := fx.FanIndices(); len(fans) > 0 {
		// Fans are numbered from zero, so the highest index sets the count.
		opts.FanCount = int(slices.Max(fans)) + 1
	}
	if n := fx.MaxEthPort(); n > 0 {
		opts.EthPorts = n
	}
	if cpus := fx.SupportedCPUs(); len(cpus) > 0 {
		opts.CPUs = cpus
	}
	if id := fx.PartnerID(); id != "" {
		opts.PartnerID = id
	}
	if variants := fx.FactoryCmVariants(); len(variants) > 0 {
		opts.FactoryCmVariants = variants
		opts.CmVariant = variants[0]
	}
	if names := fx.InterfaceNames(); len(names) > 0 {
		opts.Interfaces = names
	}
	if states := fx.SupportedPowerStates(); len(states) > 0 {
		opts.PowerState = states[0]
	}
	return opts
}

// filterByPattern filters test cases by ID or name pattern.
// Supports comma-separated patterns (e.g. "GetFan*,SetLED*").
func filterByPattern(cases []*engine.TestCase, pattern string) []*engine.TestCase {
	patterns := strings.Split(pattern, ",")
	var filtered []*engine.TestCase
	for _, tc := range cases {
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if matchPattern(tc.ID, p) || matchPattern(tc.Name, p) {
				filtered = append(filtered, tc)
				break // avoid duplicates from multiple matching patterns
			}
		}
	}
	// If pattern had no non-empty segments (e.g. "" or ","), match all.
	if len(filtered) == 0 && allEmpty(patterns) {
		return cases
	}
	return filtered
}

func allEmpty(patterns []string) bool {
	for _, p := range patterns {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// filterByGroups keeps only tests in one of the given groups.
func filterByGroups(cases []*engine.TestCase, groups []string) []*engine.TestCase {
	wanted := parseGroups(groups)
	if len(wanted) == 0 {
		return cases
	}
	var filtered []*engine.TestCase
	for _, tc := range cases {
		if slices.Contains(wanted, tc.Group) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// filterByExcludeGroups removes tests in any of the given groups.
func filterByExcludeGroups(cases []*engine.TestCase, groups []string) []*engine.TestCase {
	excluded := parseGroups(groups)
	if len(excluded) == 0 {
		return cases
	}
	var filtered []*engine.TestCase
	for _, tc := range cases {
		if !slices.Contains(excluded, tc.Group) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// parseGroups flattens comma-separated entries into trimmed non-empty names.
func parseGroups(groups []string) []string {
	var result []string
	for _, g := range groups {
		for _, p := range strings.Split(g, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
	}
	return result
}

// matchPattern performs simple glob matching. Leading and trailing runs of
// '*' are wildcards; a pattern of only '*' matches everything.
func matchPattern(name, pattern string) bool {
	core := strings.Trim(pattern, "*")
	if core == "" {
		return true
	}

	hasPrefix := pattern[0] == '*'
	hasSuffix := pattern[len(pattern)-1] == '*'

	switch {
	case hasPrefix && hasSuffix:
		// *foo* - contains
		return strings.Contains(name, core)
	case hasPrefix:
		// *foo - suffix match
		return strings.HasSuffix(name, core)
	case hasSuffix:
		// foo* - prefix match
		return strings.HasPrefix(name, core)
	}
	return name == pattern
}
