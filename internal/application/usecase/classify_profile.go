package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/model"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/port"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/service"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

// ClassifyProfile scores figures the caller has already aggregated. No range
// validation is applied beyond parsing the employment type.
type ClassifyProfile struct {
	publisher  port.EventPublisher
	recorder   port.AssessmentRecorder
	classifier *service.RiskClassifier
	logger     *slog.Logger
}

func NewClassifyProfile(
	publisher port.EventPublisher,
	recorder port.AssessmentRecorder,
	classifier *service.RiskClassifier,
	logger *slog.Logger,
) *ClassifyProfile {
	return &ClassifyProfile{
		publisher:  publisher,
		recorder:   recorder,
		classifier: classifier,
		logger:     logger,
	}
}

func (uc *ClassifyProfile) Execute(ctx context.Context, req dto.ClassifyProfileRequest) (dto.EvaluateRiskResponse, error) {
	ctx, span := startSpan(ctx, "ClassifyProfile")
	defer span.End()

	employmentType, err := valueobject.EmploymentTypeFromString(req.EmploymentType)
	if err != nil {
		uc.recorder.RecordRejection(ctx, "employment_type")
		return dto.EvaluateRiskResponse{}, fmt.Errorf("%w: %w", ErrInvalidApplication, err)
	}

	profile := model.ApplicantProfile{
		EmploymentLengthMonths: req.EmploymentLengthMonths,
		EmploymentType:         employmentType,
		Age:                    req.Age,
		TotalMonthlyIncome:     req.TotalMonthlyIncome,
		NetMonthlyIncome:       req.NetMonthlyIncome,
		MonthlyCarPayment:      req.MonthlyCarPayment,
		BankruptcyCount:        req.BankruptcyCount,
		RepossessionCount:      req.RepossessionCount,
		Downpayment:            req.Downpayment,
		TradeInValue:           req.TradeInValue,
	}

	result := uc.classifier.Classify(profile)

	assessment := model.NewProfileAssessment(req.DealershipID)
	assessment.Assess(result.Score, result.Factors, result.PaymentRatio)

	span.SetAttributes(
		attribute.Int("risk.score", assessment.Score()),
		attribute.String("risk.tier", assessment.Tier().String()),
	)

	publishEvents(ctx, uc.publisher, uc.logger, assessment)
	uc.recorder.RecordAssessment(ctx, assessment.Tier().String(), assessment.Score(), false)

	uc.logger.DebugContext(ctx, "profile classified",
		"assessment_id", assessment.ID(),
		"score", assessment.Score(),
		"tier", assessment.Tier().String(),
		"trace_id", traceID(ctx),
	)

	return dto.FromModel(assessment, profile), nil
}
