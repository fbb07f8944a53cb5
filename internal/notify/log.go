package notify

import (
	"context"
	"log/slog"
)

// LogBackend writes notification events to the application log instead
// of a broker. It is the default when no broker is configured and the
// backend used by tests.
type LogBackend struct {
	logger *slog.Logger
}

// NewLogBackend constructs a LogBackend. A nil logger falls back to
// slog.Default.
func NewLogBackend(logger *slog.Logger) *LogBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBackend{logger: logger}
}

// Publish logs the event and reports success.
func (l *LogBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	l.logger.Info("notification", "channel", channel, "attrs", attrs, "payload", string(data))
	return "", nil
}

// Close is a no-op.
func (l *LogBackend) Close() error {
	return nil
}
