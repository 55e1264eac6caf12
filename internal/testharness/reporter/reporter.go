// Package reporter formats suite results as text, JSON or JUnit XML.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
)

// Reporter formats and outputs test results.
type Reporter interface {
	// ReportSuite reports results for a test suite.
	ReportSuite(result *engine.SuiteResult)

	// ReportTest reports results for a single test.
	ReportTest(result *engine.TestResult)
}

// New returns the reporter for format: "text", "json" or "junit".
func New(format string, w io.Writer, verbose bool) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTextReporter(w, verbose), nil
	case "json":
		return NewJSONReporter(w, true), nil
	case "junit":
		return NewJUnitReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func statusLabel(result *engine.TestResult) string {
	switch result.State {
	case engine.StateSkipped:
		return "SKIP"
	case engine.StatePassed:
		return "PASS"
	default:
		return "FAIL"
	}
}

func passRate(result *engine.SuiteResult) (float64, bool) {
	total := result.PassCount + result.FailCount
	if total == 0 {
		return 0, false
	}
	return float64(result.PassCount) / float64(total) * 100, true
}

// TextReporter outputs human-readable text reports.
type TextReporter struct {
	writer  io.Writer
	verbose bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{
		writer:  w,
		verbose: verbose,
	}
}

// ReportSuite reports suite results in text format.
func (r *TextReporter) ReportSuite(result *engine.SuiteResult) {
	fmt.Fprintf(r.writer, "\n=== Suite: %s ===\n", result.SuiteName)
	fmt.Fprintf(r.writer, "Run ID:   %s\n", result.RunID)
	fmt.Fprintf(r.writer, "Duration: %s\n", result.Duration.Round(time.Millisecond))
	if result.InitError != nil {
		fmt.Fprintf(r.writer, "Init failed: %v\n", result.InitError)
	}
	fmt.Fprintf(r.writer, "\n")

	group := ""
	for _, tr := range result.Results {
		if g := tr.TestCase.Group; g != group {
			group = g
			fmt.Fprintf(r.writer, "--- %s ---\n", g)
		}
		r.ReportTest(tr)
	}

	r.ReportSummary(result)
}

// slowestCount is how many entries the slowest test list shows.
const slowestCount = 10

// ReportSummary writes the counts and, for suites with at least three
// executed tests, the slowest ones.
func (r *TextReporter) ReportSummary(result *engine.SuiteResult) {
	fmt.Fprintf(r.writer, "\n--- Summary ---\n")
	fmt.Fprintf(r.writer, "Total:   %d\n", len(result.Results))
	fmt.Fprintf(r.writer, "Passed:  %d\n", result.PassCount)
	fmt.Fprintf(r.writer, "Failed:  %d\n", result.FailCount)
	fmt.Fprintf(r.writer, "Skipped: %d\n", result.SkipCount)
	if rate, ok := passRate(result); ok {
		fmt.Fprintf(r.writer, "Pass Rate: %.1f%%\n", rate)
	}

	var executed []*engine.TestResult
	for _, tr := range result.Results {
		if !tr.Skipped() {
			executed = append(executed, tr)
		}
	}
	if len(executed) < 3 {
		return
	}
	sort.SliceStable(executed, func(i, j int) bool {
		return executed[i].Duration > executed[j].Duration
	})
	if len(executed) > slowestCount {
		executed = executed[:slowestCount]
	}

	fmt.Fprintf(r.writer, "\n--- Slowest Tests ---\n")
	for i, tr := range executed {
		fmt.Fprintf(r.writer, "%2d. %s %s\n", i+1, tr.TestCase.ID, tr.Duration.Round(time.Millisecond))
	}
}

// ReportTest reports a single test result in text format.
func (r *TextReporter) ReportTest(result *engine.TestResult) {
	tc := result.TestCase

	fmt.Fprintf(r.writer, "[%s] %s - %s (%s)\n",
		statusLabel(result), tc.ID, tc.Name, result.Duration.Round(time.Millisecond))

	if result.Skipped() && result.SkipReason != "" {
		fmt.Fprintf(r.writer, "       Skip reason: %s\n", result.SkipReason)
	}

	if !result.Passed() && result.Error != nil {
		fmt.Fprintf(r.writer, "       Error: %v\n", result.Error)
	}

	if r.verbose {
		fmt.Fprintf(r.writer, "       HAL calls: %d\n", result.Calls)
		for _, a := range result.Assertions {
			status := "OK"
			if !a.Passed {
				status = "FAILED"
			}
			fmt.Fprintf(r.writer, "           [%s] %s\n", status, a.Message)
			if !a.Passed && (a.Expected != nil || a.Actual != nil) {
				fmt.Fprintf(r.writer, "                expected %v, got %v\n", a.Expected, a.Actual)
			}
		}
		for _, line := range result.Logs {
			fmt.Fprintf(r.writer, "           %s\n", line)
		}
	}
}

// JSONReporter outputs JSON-formatted reports.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: w,
		pretty: pretty,
	}
}

// JSONSuiteResult is the JSON representation of suite results.
type JSONSuiteResult struct {
	SuiteName string           `json:"suite_name"`
	RunID     string           `json:"run_id"`
	Duration  string           `json:"duration"`
	InitError string           `json:"init_error,omitempty"`
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	PassRate  float64          `json:"pass_rate"`
	Tests     []JSONTestResult `json:"tests"`
}

// JSONTestResult is the JSON representation of a test result.
type JSONTestResult struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Group      string          `json:"group,omitempty"`
	Status     string          `json:"status"`
	Duration   string          `json:"duration"`
	Calls      int             `json:"calls"`
	Error      string          `json:"error,omitempty"`
	SkipReason string          `json:"skip_reason,omitempty"`
	Assertions []JSONAssertion `json:"assertions,omitempty"`
	Logs       []string        `json:"logs,omitempty"`
}

// JSONAssertion is the JSON representation of a recorded check.
type JSONAssertion struct {
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
	Fatal    bool   `json:"fatal,omitempty"`
}

// ReportSuite reports suite results in JSON format.
func (r *JSONReporter) ReportSuite(result *engine.SuiteResult) {
	rate, _ := passRate(result)

	jr := JSONSuiteResult{
		SuiteName: result.SuiteName,
		RunID:     result.RunID,
		Duration:  result.Duration.Round(time.Millisecond).String(),
		Total:     len(result.Results),
		Passed:    result.PassCount,
		Failed:    result.FailCount,
		Skipped:   result.SkipCount,
		PassRate:  rate,
		Tests:     make([]JSONTestResult, 0, len(result.Results)),
	}
	if result.InitError != nil {
		jr.InitError = result.InitError.Error()
	}

	for _, tr := range result.Results {
		jr.Tests = append(jr.Tests, r.testToJSON(tr))
	}

	r.writeJSON(jr)
}

// ReportTest reports a single test result in JSON format.
func (r *JSONReporter) ReportTest(result *engine.TestResult) {
	r.writeJSON(r.testToJSON(result))
}

func (r *JSONReporter) testToJSON(result *engine.TestResult) JSONTestResult {
	tc := result.TestCase

	jr := JSONTestResult{
		ID:       tc.ID,
		Name:     tc.Name,
		Group:    tc.Group,
		Status:   strings.ToLower(result.State.String()),
		Duration: result.Duration.Round(time.Millisecond).String(),
		Calls:    result.Calls,
		Logs:     result.Logs,
	}

	if result.Error != nil {
		jr.Error = result.Error.Error()
	}
	if result.SkipReason != "" {
		jr.SkipReason = result.SkipReason
	}

	for _, a := range result.Assertions {
		jr.Assertions = append(jr.Assertions, JSONAssertion{
			Passed:   a.Passed,
			Message:  a.Message,
			Expected: jsonSafe(a.Expected),
			Actual:   jsonSafe(a.Actual),
			Fatal:    a.Fatal,
		})
	}

	return jr
}

// jsonSafe renders values that encoding/json cannot marshal as strings.
func jsonSafe(v any) any {
	if v == nil {
		return nil
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}

func (r *JSONReporter) writeJSON(v any) {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		fmt.Fprintf(r.writer, `{"error": "failed to marshal: %s"}`, err)
		return
	}

	fmt.Fprintln(r.writer, string(data))
}

// JUnitReporter outputs JUnit XML format for CI integration.
type JUnitReporter struct {
	writer io.Writer
}

// NewJUnitReporter creates a new JUnit reporter.
func NewJUnitReporter(w io.Writer) *JUnitReporter {
	return &JUnitReporter{writer: w}
}

// ReportSuite reports suite results in JUnit XML format.
func (r *JUnitReporter) ReportSuite(result *engine.SuiteResult) {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("\n")

	fmt.Fprintf(&b, `<testsuite name="%s" tests="%d" failures="%d" skipped="%d" time="%.3f">`,
		escapeXML(result.SuiteName),
		len(result.Results),
		result.FailCount,
		result.SkipCount,
		result.Duration.Seconds())
	b.WriteString("\n")

	if result.RunID != "" {
		fmt.Fprintf(&b, `  <properties><property name="run_id" value="%s"/></properties>`, escapeXML(result.RunID))
		b.WriteString("\n")
	}

	for _, tr := range result.Results {
		tc := tr.TestCase
		classname := tc.Group
		if classname == "" {
			classname = result.SuiteName
		}
		fmt.Fprintf(&b, `  <testcase name="%s" classname="%s" time="%.3f">`,
			escapeXML(tc.ID),
			escapeXML(classname),
			tr.Duration.Seconds())
		b.WriteString("\n")

		switch {
		case tr.Skipped():
			fmt.Fprintf(&b, `    <skipped message="%s"/>`, escapeXML(tr.SkipReason))
			b.WriteString("\n")
		case !tr.Passed():
			msg := "failed"
			if tr.Error != nil {
				msg = tr.Error.Error()
			}
			fmt.Fprintf(&b, `    <failure message="%s">`, escapeXML(msg))
			b.WriteString("\n")

			b.WriteString("      <![CDATA[")
			for _, a := range tr.Failures() {
				fmt.Fprintf(&b, "%s (expected %v, got %v)\n", cdata(a.Message), a.Expected, a.Actual)
			}
			b.WriteString("]]>\n")
			b.WriteString("    </failure>\n")
		}

		b.WriteString("  </testcase>\n")
	}

	b.WriteString("</testsuite>\n")

	fmt.Fprint(r.writer, b.String())
}

// ReportTest reports a single test in JUnit format (wraps in minimal testsuite).
func (r *JUnitReporter) ReportTest(result *engine.TestResult) {
	suite := &engine.SuiteResult{
		SuiteName: "Single Test",
		Results:   []*engine.TestResult{result},
		Duration:  result.Duration,
	}
	switch {
	case result.Passed():
		suite.PassCount = 1
	case result.Skipped():
		suite.SkipCount = 1
	default:
		suite.FailCount = 1
	}
	r.ReportSuite(suite)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// cdata keeps s from terminating the enclosing CDATA section.
func cdata(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
