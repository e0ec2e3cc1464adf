package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/engthiagolucena/customer-risk-analysis/internal/application/dto"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/model"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/port"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/service"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

// ErrInvalidApplication is returned when the submitted application fails
// validation. Callers map it to a client error.
var ErrInvalidApplication = errors.New("invalid application")

// EvaluateRisk is the use case for scoring a full loan application.
type EvaluateRisk struct {
	publisher  port.EventPublisher
	recorder   port.AssessmentRecorder
	classifier *service.RiskClassifier
	logger     *slog.Logger
}

// NewEvaluateRisk creates a new EvaluateRisk use case.
func NewEvaluateRisk(
	publisher port.EventPublisher,
	recorder port.AssessmentRecorder,
	classifier *service.RiskClassifier,
	logger *slog.Logger,
) *EvaluateRisk {
	return &EvaluateRisk{
		publisher:  publisher,
		recorder:   recorder,
		classifier: classifier,
		logger:     logger,
	}
}

// Execute validates and aggregates the application, classifies it and
// publishes the resulting events.
func (uc *EvaluateRisk) Execute(ctx context.Context, req dto.EvaluateRiskRequest) (dto.EvaluateRiskResponse, error) {
	ctx, span := startSpan(ctx, "EvaluateRisk")
	defer span.End()

	// 1. Build and validate the buyers.
	primary, err := buildApplicant(req.Primary)
	if err != nil {
		uc.recorder.RecordRejection(ctx, "primary_applicant")
		span.SetStatus(codes.Error, err.Error())
		return dto.EvaluateRiskResponse{}, fmt.Errorf("%w: primary applicant: %w", ErrInvalidApplication, err)
	}

	var coBuyer *model.Applicant
	if req.CoBuyer != nil {
		coBuyer, err = buildApplicant(*req.CoBuyer)
		if err != nil {
			uc.recorder.RecordRejection(ctx, "co_buyer")
			span.SetStatus(codes.Error, err.Error())
			return dto.EvaluateRiskResponse{}, fmt.Errorf("%w: co-buyer: %w", ErrInvalidApplication, err)
		}
	}

	// 2. Aggregate the application into a classifier profile.
	application, err := model.NewLoanApplication(primary, coBuyer, req.TradeInValue, req.DealershipID)
	if err != nil {
		uc.recorder.RecordRejection(ctx, "application")
		span.SetStatus(codes.Error, err.Error())
		return dto.EvaluateRiskResponse{}, fmt.Errorf("%w: %w", ErrInvalidApplication, err)
	}
	profile := application.Profile()

	// 3. Classify.
	result := uc.classifier.Classify(profile)

	// 4. Record the result on the assessment aggregate.
	assessment := model.NewRiskAssessment(application)
	assessment.Assess(result.Score, result.Factors, result.PaymentRatio)

	span.SetAttributes(
		attribute.String("risk.application_id", application.ID().String()),
		attribute.Int("risk.score", assessment.Score()),
		attribute.String("risk.tier", assessment.Tier().String()),
		attribute.Bool("risk.has_co_buyer", application.HasCoBuyer()),
	)

	// 5. Publish domain events. Delivery is best effort.
	publishEvents(ctx, uc.publisher, uc.logger, assessment)

	// 6. Telemetry.
	uc.recorder.RecordAssessment(ctx, assessment.Tier().String(), assessment.Score(), application.HasCoBuyer())

	uc.logger.InfoContext(ctx, "risk evaluated",
		"assessment_id", assessment.ID(),
		"application_id", application.ID(),
		"dealership_id", application.DealershipID(),
		"score", assessment.Score(),
		"tier", assessment.Tier().String(),
		"has_co_buyer", application.HasCoBuyer(),
		"trace_id", traceID(ctx),
	)

	return dto.FromModel(assessment, profile), nil
}

func publishEvents(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, assessment *model.RiskAssessment) {
	events := assessment.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.WarnContext(ctx, "failed to publish risk events",
			"assessment_id", assessment.ID(),
			"event_count", len(events),
			"error", err,
		)
	}
}

// buildApplicant parses the enumerations and runs domain validation.
func buildApplicant(req dto.ApplicantRequest) (*model.Applicant, error) {
	employmentType, err := valueobject.EmploymentTypeFromString(req.EmploymentType)
	if err != nil {
		return nil, err
	}
	payFrequency, err := valueobject.PayFrequencyFromString(req.PayFrequency)
	if err != nil {
		return nil, err
	}

	return model.NewApplicant(model.ApplicantParams{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		EmploymentLengthMonths: req.EmploymentLengthMonths,
		EmploymentType:         employmentType,
		Age:                    req.Age,
		PayFrequency:           payFrequency,
		Paychecks:              req.Paychecks,
		OtherIncomes:           req.OtherIncomes,
		MonthlyCarPayment:      req.MonthlyCarPayment,
		TotalMonthlyExpenses:   req.TotalMonthlyExpenses,
		Downpayment:            req.Downpayment,
		BankruptcyCount:        req.BankruptcyCount,
		RepossessionCount:      req.RepossessionCount,
	})
}
