package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes discovery events to an slog.Logger.
// Useful for development when you want to see discovery events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("source", event.Source.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.URI != "" {
		attrs = append(attrs, slog.String("uri", event.URI))
	}

	// Add type-specific attributes
	switch {
	case event.Probe != nil:
		attrs = append(attrs,
			slog.String("path", event.Probe.Path),
			slog.String("outcome", event.Probe.Outcome.String()),
		)
		if event.Probe.Outcome == OutcomeFound {
			attrs = append(attrs, slog.Bool("supported", event.Probe.Supported))
		}
	case event.Printer != nil:
		if event.Printer.Name != "" {
			attrs = append(attrs, slog.String("name", event.Printer.Name))
		}
		if event.Printer.ID != "" {
			attrs = append(attrs, slog.String("id", event.Printer.ID))
		}
		if event.Printer.Location != "" {
			attrs = append(attrs, slog.String("location", event.Printer.Location))
		}
	case event.State != nil:
		attrs = append(attrs,
			slog.String("old_state", event.State.OldState),
			slog.String("new_state", event.State.NewState),
		)
		if event.State.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.State.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_op", event.Error.Op),
			slog.String("error_msg", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "discovery", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
