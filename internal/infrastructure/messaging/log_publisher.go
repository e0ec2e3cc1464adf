package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/event"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging events. It is used
// when Kafka publishing is disabled and by the CLI.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new log-only event publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish encodes each event and writes it to the log at debug level.
func (p *LogPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return fmt.Errorf("failed to encode event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "domain event",
			slog.String("event_type", env.EventType),
			slog.String("event_id", env.EventID),
			slog.String("aggregate_id", env.AggregateID),
			slog.String("payload", string(env.Payload)),
		)
	}
	return nil
}
