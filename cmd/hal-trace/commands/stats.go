package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[trace.Category]int
	Calls            map[string]*CallStats
	Runs             map[string]*RunStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// CallStats holds statistics for a single entry point.
type CallStats struct {
	Calls  int
	Errors int
	Total  time.Duration
	Max    time.Duration
}

// RunStats holds statistics for a single suite run.
type RunStats struct {
	FirstSeen time.Time
	Passed    int
	Failed    int
	Skipped   int
	Failures  []string
}

// Collect reads the events matching opts from path and aggregates them.
func Collect(path string, opts FilterOptions) (*Stats, error) {
	filter, err := BuildFilter(opts)
	if err != nil {
		return nil, err
	}

	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[trace.Category]int),
		Calls:            make(map[string]*CallStats),
		Runs:             make(map[string]*RunStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		run, ok := stats.Runs[event.RunID]
		if !ok {
			run = &RunStats{FirstSeen: event.Timestamp}
			stats.Runs[event.RunID] = run
		}

		switch event.Category {
		case trace.CategoryCall:
			cs, ok := stats.Calls[event.EntryPoint]
			if !ok {
				cs = &CallStats{}
				stats.Calls[event.EntryPoint] = cs
			}
			cs.Calls++
			if event.Status == hal.StatusError {
				cs.Errors++
			}
			cs.Total += event.Duration
			cs.Max = max(cs.Max, event.Duration)

		case trace.CategoryTest:
			// Test outcomes are recorded as "<STATE>[: reason]".
			state, _, _ := strings.Cut(event.Detail, ":")
			switch state {
			case "PASSED":
				run.Passed++
			case "SKIPPED":
				run.Skipped++
			default:
				run.Failed++
				run.Failures = append(run.Failures, event.TestID)
			}
		}
	}

	return stats, nil
}

// RunStatsCommand analyzes the trace file and prints statistics.
func RunStatsCommand(path string, opts FilterOptions, w io.Writer) error {
	stats, err := Collect(path, opts)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== HAL Call Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []trace.Category{trace.CategoryCall, trace.CategoryTest, trace.CategoryRun} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Calls) > 0 {
		names := make([]string, 0, len(stats.Calls))
		for name := range stats.Calls {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "Calls by Entry Point:")
		for _, name := range names {
			cs := stats.Calls[name]
			avg := cs.Total / time.Duration(cs.Calls)
			fmt.Fprintf(w, "  %-32s %4d calls %4d errors  avg %s  max %s\n",
				name, cs.Calls, cs.Errors, formatDuration(avg), formatDuration(cs.Max))
		}
		fmt.Fprintln(w)
	}

	// Runs, sorted by first seen time
	type runInfo struct {
		id    string
		stats *RunStats
	}
	runs := make([]runInfo, 0, len(stats.Runs))
	for id, rs := range stats.Runs {
		runs = append(runs, runInfo{id, rs})
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].stats.FirstSeen.Before(runs[j].stats.FirstSeen)
	})

	fmt.Fprintf(w, "Runs: %d\n", len(runs))
	for _, r := range runs {
		fmt.Fprintf(w, "  [%s] %d passed, %d failed, %d skipped\n",
			shortenRunID(r.id), r.stats.Passed, r.stats.Failed, r.stats.Skipped)
		for _, id := range r.stats.Failures {
			fmt.Fprintf(w, "           FAIL %s\n", id)
		}
	}
}
