package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/event"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
	"github.com/engthiagolucena/customer-risk-analysis/pkg/events"
)

// RiskAssessment is the aggregate root for a single risk evaluation. It lives
// only for the duration of the request.
type RiskAssessment struct {
	events.EventCollector

	assessedAt    time.Time
	paymentRatio  decimal.Decimal
	tier          valueobject.RiskTier
	applicantName string
	dealershipID  string
	factors       []string
	score         int
	hasCoBuyer    bool
	applicationID uuid.UUID
	id            uuid.UUID
}

// NewRiskAssessment starts an unscored assessment for an application.
func NewRiskAssessment(application *LoanApplication) *RiskAssessment {
	return &RiskAssessment{
		id:            uuid.New(),
		applicationID: application.ID(),
		applicantName: application.Primary().FullName(),
		hasCoBuyer:    application.HasCoBuyer(),
		dealershipID:  application.DealershipID(),
		factors:       make([]string, 0),
	}
}

// NewProfileAssessment starts an assessment for a profile that was aggregated
// elsewhere and has no application behind it.
func NewProfileAssessment(dealershipID string) *RiskAssessment {
	return &RiskAssessment{
		id:           uuid.New(),
		dealershipID: dealershipID,
		factors:      make([]string, 0),
	}
}

// Assess records the classifier result, derives the tier and raises events.
func (a *RiskAssessment) Assess(score int, factors []string, paymentRatio decimal.Decimal) {
	a.score = score
	a.factors = append([]string(nil), factors...)
	a.paymentRatio = paymentRatio
	a.tier = valueobject.RiskTierFromScore(score)
	a.assessedAt = time.Now().UTC()

	a.Record(event.NewRiskAssessed(
		a.id.String(), a.dealershipID, a.applicationIDString(), a.applicantName,
		a.hasCoBuyer, a.score, a.tier.String(), a.factors, a.assessedAt,
	))

	if a.tier.Equal(valueobject.RiskTierHigh) {
		a.Record(event.NewHighRiskDetected(
			a.id.String(), a.dealershipID, a.applicationIDString(),
			a.score, a.factors, a.assessedAt,
		))
	}
}

func (a *RiskAssessment) applicationIDString() string {
	if a.applicationID == uuid.Nil {
		return ""
	}
	return a.applicationID.String()
}

// --- Accessors ---

func (a *RiskAssessment) ID() uuid.UUID                 { return a.id }
func (a *RiskAssessment) ApplicationID() uuid.UUID      { return a.applicationID }
func (a *RiskAssessment) ApplicantName() string         { return a.applicantName }
func (a *RiskAssessment) HasCoBuyer() bool              { return a.hasCoBuyer }
func (a *RiskAssessment) DealershipID() string          { return a.dealershipID }
func (a *RiskAssessment) Score() int                    { return a.score }
func (a *RiskAssessment) Factors() []string             { return a.factors }
func (a *RiskAssessment) Tier() valueobject.RiskTier    { return a.tier }
func (a *RiskAssessment) PaymentRatio() decimal.Decimal { return a.paymentRatio }
func (a *RiskAssessment) AssessedAt() time.Time         { return a.assessedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (a *RiskAssessment) DomainEvents() []events.DomainEvent {
	return a.ClearEvents()
}
