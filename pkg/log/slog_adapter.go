package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger. Accepted records log at
// Debug level; rejections and errors at Warn.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter. A nil logger uses slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("stage", event.Stage.String()),
		slog.String("outcome", event.Outcome.String()),
	}
	if event.Source != "" {
		attrs = append(attrs, slog.String("source", event.Source))
	}

	switch {
	case event.Record != nil:
		attrs = append(attrs, slog.Int("index", event.Record.Index))
		if event.Record.Name != "" {
			attrs = append(attrs, slog.String("name", event.Record.Name))
		}
		if event.Record.UUID != "" {
			attrs = append(attrs, slog.String("uuid", event.Record.UUID))
		}
		for _, is := range event.Record.Issues {
			attrs = append(attrs, slog.Group(is.Field,
				slog.String("constraint", is.Constraint),
				slog.String("message", is.Message),
			))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_stage", event.Error.Stage.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	level := slog.LevelDebug
	if event.Outcome != OutcomeAccepted {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, "record", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
