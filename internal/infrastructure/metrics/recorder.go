package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope for risk metrics.
const MeterName = "github.com/engthiagolucena/customer-risk-analysis"

// Recorder implements port.AssessmentRecorder with OpenTelemetry instruments.
type Recorder struct {
	evaluations metric.Int64Counter
	rejections  metric.Int64Counter
	scores      metric.Int64Histogram
}

// NewRecorder registers the instruments on the given MeterProvider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(MeterName)

	evaluations, err := meter.Int64Counter("risk_evaluations_total",
		metric.WithDescription("Completed risk evaluations by tier."),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluations counter: %w", err)
	}

	rejections, err := meter.Int64Counter("risk_rejections_total",
		metric.WithDescription("Evaluation requests rejected by validation."),
	)
	if err != nil {
		return nil, fmt.Errorf("create rejections counter: %w", err)
	}

	scores, err := meter.Int64Histogram("risk_score",
		metric.WithDescription("Distribution of classifier scores."),
		metric.WithExplicitBucketBoundaries(-4, -2, 0, 2, 4, 5, 6, 8, 10, 12, 15, 20),
	)
	if err != nil {
		return nil, fmt.Errorf("create score histogram: %w", err)
	}

	return &Recorder{
		evaluations: evaluations,
		rejections:  rejections,
		scores:      scores,
	}, nil
}

func (r *Recorder) RecordAssessment(ctx context.Context, tier string, score int, hasCoBuyer bool) {
	attrs := metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.Bool("co_buyer", hasCoBuyer),
	)
	r.evaluations.Add(ctx, 1, attrs)
	r.scores.Record(ctx, int64(score), attrs)
}

func (r *Recorder) RecordRejection(ctx context.Context, reason string) {
	r.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
