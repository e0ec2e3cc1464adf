package event

import (
	"time"

	"github.com/engthiagolucena/customer-risk-analysis/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	// EventTypeRiskAssessed is emitted for every completed evaluation.
	EventTypeRiskAssessed = "risk.assessment.completed"

	// EventTypeHighRiskDetected is emitted when an evaluation lands in the HIGH tier.
	EventTypeHighRiskDetected = "risk.high_risk.detected"

	aggregateType = "RiskAssessment"
)

// RiskAssessed is published when an applicant has been scored.
type RiskAssessed struct {
	events.BaseEvent
	ApplicationID string    `json:"application_id"`
	ApplicantName string    `json:"applicant_name"`
	HasCoBuyer    bool      `json:"has_co_buyer"`
	Score         int       `json:"score"`
	Tier          string    `json:"tier"`
	Factors       []string  `json:"factors"`
	AssessedAt    time.Time `json:"assessed_at"`
}

func NewRiskAssessed(
	assessmentID, dealershipID, applicationID, applicantName string,
	hasCoBuyer bool, score int, tier string, factors []string, assessedAt time.Time,
) RiskAssessed {
	return RiskAssessed{
		BaseEvent:     events.NewBaseEvent(EventTypeRiskAssessed, assessmentID, aggregateType, dealershipID),
		ApplicationID: applicationID,
		ApplicantName: applicantName,
		HasCoBuyer:    hasCoBuyer,
		Score:         score,
		Tier:          tier,
		Factors:       factors,
		AssessedAt:    assessedAt,
	}
}

// HighRiskDetected is published when an evaluation scores into the HIGH tier,
// so that downstream underwriting can require manual review.
type HighRiskDetected struct {
	events.BaseEvent
	ApplicationID string    `json:"application_id"`
	Score         int       `json:"score"`
	Factors       []string  `json:"factors"`
	DetectedAt    time.Time `json:"detected_at"`
}

func NewHighRiskDetected(
	assessmentID, dealershipID, applicationID string,
	score int, factors []string, detectedAt time.Time,
) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:     events.NewBaseEvent(EventTypeHighRiskDetected, assessmentID, aggregateType, dealershipID),
		ApplicationID: applicationID,
		Score:         score,
		Factors:       factors,
		DetectedAt:    detectedAt,
	}
}
