package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// FilterOptions specifies the event selection shared by all commands.
type FilterOptions struct {
	RunID      string
	TestID     string
	EntryPoint string
	Status     string
	Category   string
	TimeStart  string
	TimeEnd    string
}

// BuildFilter converts command-line options into a trace filter.
func BuildFilter(opts FilterOptions) (trace.Filter, error) {
	filter := trace.Filter{
		RunID:      opts.RunID,
		TestID:     opts.TestID,
		EntryPoint: opts.EntryPoint,
	}

	if opts.Status != "" {
		s, err := parseStatus(opts.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &s
	}

	if opts.Category != "" {
		c, ok := trace.ParseCategory(strings.ToLower(opts.Category))
		if !ok {
			return filter, fmt.Errorf("invalid category: %s (must be call, test, or run)", opts.Category)
		}
		filter.Category = &c
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// parseStatus parses a HAL status string (case-insensitive).
func parseStatus(s string) (hal.Status, error) {
	switch strings.ToLower(s) {
	case "ok":
		return hal.StatusOK, nil
	case "error", "err":
		return hal.StatusError, nil
	default:
		return 0, fmt.Errorf("invalid status: %s (must be ok or error)", s)
	}
}

// RunFilter copies the events matching opts from path to output.
func RunFilter(path, output string, opts FilterOptions, w io.Writer) error {
	filter, err := BuildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := trace.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output trace: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = logger.Close()
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}
	if err := logger.Close(); err != nil {
		return fmt.Errorf("failed to write output trace: %w", err)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
