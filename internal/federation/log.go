package federation

import (
	"context"
	"log/slog"
)

// LogDispatcher logs jobs instead of queueing them. Used when no Redis is
// configured.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a logging dispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch implements Dispatcher.
func (d *LogDispatcher) Dispatch(_ context.Context, job Job) error {
	d.logger.Info("federation job",
		"entity_type", job.EntityType,
		"entity_guid", job.EntityGUID,
		"sender", job.SenderGUID,
		"recipients", len(job.Recipients),
	)
	return nil
}
