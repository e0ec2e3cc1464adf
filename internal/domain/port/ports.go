package port

import (
	"context"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/event"
)

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// AssessmentRecorder receives the outcome of every evaluation for telemetry.
type AssessmentRecorder interface {
	RecordAssessment(ctx context.Context, tier string, score int, hasCoBuyer bool)
	RecordRejection(ctx context.Context, reason string)
}
