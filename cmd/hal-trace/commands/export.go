package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platform-hal/hal-l1test/pkg/trace"
)

// exportEvent is the JSON shape of an exported event.
type exportEvent struct {
	Timestamp  string `json:"timestamp"`
	RunID      string `json:"run_id"`
	Category   string `json:"category"`
	TestID     string `json:"test_id,omitempty"`
	EntryPoint string `json:"entry_point,omitempty"`
	Status     string `json:"status,omitempty"`
	ErrorKind  string `json:"error_kind,omitempty"`
	DurationNS int64  `json:"duration_ns"`
	Detail     string `json:"detail,omitempty"`
}

func toExport(event trace.Event) exportEvent {
	e := exportEvent{
		Timestamp:  event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		RunID:      event.RunID,
		Category:   event.Category.String(),
		TestID:     event.TestID,
		EntryPoint: event.EntryPoint,
		ErrorKind:  string(event.ErrorKind),
		DurationNS: event.Duration.Nanoseconds(),
		Detail:     event.Detail,
	}
	if event.Category == trace.CategoryCall {
		e.Status = event.Status.String()
	}
	return e
}

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string, opts FilterOptions) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	filter, err := BuildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := trace.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *trace.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toExport(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *trace.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "run_id", "category", "test_id", "entry_point", "status", "error_kind", "duration_ns", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		e := toExport(event)
		row := []string{
			e.Timestamp,
			e.RunID,
			e.Category,
			e.TestID,
			e.EntryPoint,
			e.Status,
			e.ErrorKind,
			strconv.FormatInt(e.DurationNS, 10),
			e.Detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
