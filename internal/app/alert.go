package app

import (
	"context"

	"dietcoach/internal/logging"

	"go.uber.org/zap"
)

// Alerter shows a user-facing notice. The HTTP front end has no dialogs, so
// the default implementation logs.
type Alerter interface {
	Alert(ctx context.Context, title, message string)
}

// LogAlerter writes alerts to the logger at warn level.
type LogAlerter struct {
	log *zap.Logger
}

// NewLogAlerter creates a LogAlerter.
func NewLogAlerter(log *zap.Logger) *LogAlerter {
	return &LogAlerter{log: logging.OrNop(log).Named("alert")}
}

func (a *LogAlerter) Alert(_ context.Context, title, message string) {
	a.log.Warn(message, zap.String("title", title))
}
