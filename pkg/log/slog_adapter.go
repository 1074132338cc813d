package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see the pipeline in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level, or Error level
// for ERROR events.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("stage", event.Stage.String()),
		slog.String("action", event.Action.String()),
	}

	if event.Line > 0 {
		attrs = append(attrs, slog.Int("line", event.Line))
	}
	if event.DeviceID != nil {
		attrs = append(attrs, slog.String("device", fmt.Sprintf("0x%02X", *event.DeviceID)))
	}
	if event.ModeIndex != nil {
		attrs = append(attrs, slog.Int("mode", *event.ModeIndex))
	}
	if event.Field != "" {
		attrs = append(attrs, slog.String("field", event.Field))
	}
	if event.Value != "" {
		attrs = append(attrs, slog.String("value", event.Value))
	}

	level := slog.LevelDebug
	if event.Error != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
