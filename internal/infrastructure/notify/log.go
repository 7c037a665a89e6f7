package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender only writes the alert to the log. Used for dry runs.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, body string) (string, error) {
	l.logger.Warn("ALERT", zap.String("body", body))
	return "log", nil
}
