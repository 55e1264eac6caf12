// Package commands implements the hal-trace CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event trace.Event) {
	// Header line: timestamp [run:id] CATEGORY subject
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	runID := shortenRunID(event.RunID)

	switch event.Category {
	case trace.CategoryCall:
		fmt.Fprintf(w, "%s [run:%s] CALL %s %s\n", ts, runID, event.EntryPoint, event.Status)
		if event.TestID != "" {
			fmt.Fprintf(w, "  Test: %s\n", event.TestID)
		}
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
		if event.Status == hal.StatusError {
			if event.ErrorKind != "" {
				fmt.Fprintf(w, "  Kind: %s\n", event.ErrorKind)
			}
			if event.Detail != "" {
				fmt.Fprintf(w, "  Error: %s\n", event.Detail)
			}
		}

	case trace.CategoryTest:
		fmt.Fprintf(w, "%s [run:%s] TEST %s\n", ts, runID, event.TestID)
		fmt.Fprintf(w, "  Outcome: %s\n", event.Detail)
		if event.Duration > 0 {
			fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
		}

	default:
		fmt.Fprintf(w, "%s [run:%s] %s %s\n", ts, runID, event.Category, event.Detail)
		if event.Duration > 0 {
			fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
		}
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView executes the view command.
func RunView(path string, opts FilterOptions, output io.Writer) error {
	filter, err := BuildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
