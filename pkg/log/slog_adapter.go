package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes engine events to an slog.Logger.
// Useful for development when you want to see engine events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Error events are logged at
// Warn level, everything else at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.PID != "" || event.ID != "" {
		attrs = append(attrs, slog.String("variable", event.PID+"."+event.ID))
	}
	if event.Row != nil {
		attrs = append(attrs, slog.Uint64("row", uint64(*event.Row)))
	}

	level := slog.LevelDebug

	switch {
	case event.Change != nil:
		attrs = append(attrs,
			slog.String("kind", event.Change.Kind),
			slog.String("old", event.Change.Old),
			slog.String("new", event.Change.New),
		)
	case event.Dispatch != nil:
		attrs = append(attrs,
			slog.String("kind", event.Dispatch.Kind),
			slog.Bool("handled", event.Dispatch.Handled),
		)
		if event.Dispatch.Init {
			attrs = append(attrs, slog.Bool("init", true))
		}
	case event.Lifecycle != nil:
		attrs = append(attrs, slog.String("action", event.Lifecycle.Action))
		if event.Lifecycle.Detail != "" {
			attrs = append(attrs, slog.String("detail", event.Lifecycle.Detail))
		}
	case event.Persist != nil:
		attrs = append(attrs,
			slog.String("action", event.Persist.Action),
			slog.String("path", event.Persist.Path),
		)
		if event.Persist.Bytes > 0 {
			attrs = append(attrs, slog.Int("bytes", event.Persist.Bytes))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "engine event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
