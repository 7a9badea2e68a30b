package notify

import (
	"context"
	"log/slog"
)

// =============================================================================
// LogNotifier
// =============================================================================

// LogNotifier writes events to a slog logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier logs to logger, or slog.Default when nil. It is always
// part of the notifier built by FromConfig.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	level := slog.LevelInfo
	switch event.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}

	attrs := []any{"event_id", event.ID, "type", event.Type, "action", event.Action}
	if event.CallID != "" {
		attrs = append(attrs, "call_id", event.CallID)
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, k, v)
	}
	n.Logger.Log(ctx, level, event.Message, attrs...)
	return nil
}
