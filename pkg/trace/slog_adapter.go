package trace

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("category", event.Category.String()),
	}
	if event.TestID != "" {
		attrs = append(attrs, slog.String("test", event.TestID))
	}

	switch event.Category {
	case CategoryCall:
		attrs = append(attrs,
			slog.String("entry_point", event.EntryPoint),
			slog.String("status", event.Status.String()),
			slog.Duration("duration", event.Duration),
		)
		if event.ErrorKind != "" {
			attrs = append(attrs, slog.String("error_kind", string(event.ErrorKind)))
		}
	case CategoryTest:
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "hal", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
