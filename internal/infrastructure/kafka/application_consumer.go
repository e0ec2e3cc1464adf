package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/application/usecase"
	pkgkafka "github.com/engthiagolucena/customer-risk-analysis/pkg/kafka"
)

// Evaluator runs a full application evaluation.
type Evaluator interface {
	Execute(ctx context.Context, req dto.EvaluateRiskRequest) (dto.EvaluateRiskResponse, error)
}

// ApplicationHandler turns messages from the applications topic into
// EvaluateRisk calls. Results leave the service as domain events.
type ApplicationHandler struct {
	evaluator Evaluator
	logger    *slog.Logger
}

func NewApplicationHandler(evaluator Evaluator, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{evaluator: evaluator, logger: logger}
}

// Handle implements pkg/kafka.Handler. Malformed and invalid applications are
// skipped; any other failure leaves the message uncommitted.
func (h *ApplicationHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.EvaluateRiskRequest
	dec := json.NewDecoder(bytes.NewReader(msg.Value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("%w: decode application: %v", pkgkafka.ErrSkipMessage, err)
	}
	if req.DealershipID == "" {
		req.DealershipID = msg.Headers["dealership_id"]
	}

	resp, err := h.evaluator.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidApplication) {
			return fmt.Errorf("%w: %v", pkgkafka.ErrSkipMessage, err)
		}
		return fmt.Errorf("evaluate application: %w", err)
	}

	h.logger.InfoContext(ctx, "application evaluated from queue",
		"key", string(msg.Key),
		"assessment_id", resp.AssessmentID,
		"score", resp.Score,
		"tier", resp.Tier,
	)
	return nil
}
