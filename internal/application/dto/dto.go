package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/model"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// EvaluateRisk
// ---------------------------------------------------------------------------

// ApplicantRequest carries the fields collected for one buyer.
type ApplicantRequest struct {
	FirstName              string            `json:"first_name"`
	LastName               string            `json:"last_name"`
	EmploymentType         string            `json:"employment_type"`
	PayFrequency           string            `json:"pay_frequency"`
	Paychecks              []decimal.Decimal `json:"paychecks"`
	OtherIncomes           []decimal.Decimal `json:"other_incomes,omitempty"`
	MonthlyCarPayment      decimal.Decimal   `json:"monthly_car_payment"`
	TotalMonthlyExpenses   decimal.Decimal   `json:"total_monthly_expenses"`
	Downpayment            decimal.Decimal   `json:"downpayment"`
	EmploymentLengthMonths int               `json:"employment_length_months"`
	Age                    int               `json:"age"`
	BankruptcyCount        int               `json:"bankruptcy_count"`
	RepossessionCount      int               `json:"repossession_count"`
}

// EvaluateRiskRequest is the input for a full application evaluation.
type EvaluateRiskRequest struct {
	CoBuyer      *ApplicantRequest `json:"co_buyer,omitempty"`
	DealershipID string            `json:"dealership_id,omitempty"`
	TradeInValue decimal.Decimal   `json:"trade_in_value"`
	Primary      ApplicantRequest  `json:"primary"`
}

// ProfileDTO is the aggregated classifier input.
type ProfileDTO struct {
	EmploymentType         string          `json:"employment_type"`
	TotalMonthlyIncome     decimal.Decimal `json:"total_monthly_income"`
	NetMonthlyIncome       decimal.Decimal `json:"net_monthly_income"`
	MonthlyCarPayment      decimal.Decimal `json:"monthly_car_payment"`
	Downpayment            decimal.Decimal `json:"downpayment"`
	TradeInValue           decimal.Decimal `json:"trade_in_value"`
	EmploymentLengthMonths int             `json:"employment_length_months"`
	Age                    int             `json:"age"`
	BankruptcyCount        int             `json:"bankruptcy_count"`
	RepossessionCount      int             `json:"repossession_count"`
}

// EvaluateRiskResponse is the result of an evaluation.
type EvaluateRiskResponse struct {
	AssessedAt    time.Time       `json:"assessed_at"`
	AssessmentID  string          `json:"assessment_id"`
	ApplicationID string          `json:"application_id,omitempty"`
	ApplicantName string          `json:"applicant_name,omitempty"`
	Tier          string          `json:"tier"`
	Banner        string          `json:"banner"`
	Factors       []string        `json:"factors"`
	PaymentRatio  decimal.Decimal `json:"payment_ratio"`
	Profile       ProfileDTO      `json:"profile"`
	Score         int             `json:"score"`
	HasCoBuyer    bool            `json:"has_co_buyer"`
}

// ---------------------------------------------------------------------------
// ClassifyProfile
// ---------------------------------------------------------------------------

// ClassifyProfileRequest evaluates figures that were aggregated by the caller.
type ClassifyProfileRequest struct {
	DealershipID string `json:"dealership_id,omitempty"`
	ProfileDTO
}

// ---------------------------------------------------------------------------
// ListRiskTiers
// ---------------------------------------------------------------------------

type RiskTierDTO struct {
	Name     string `json:"name"`
	Banner   string `json:"banner"`
	MinScore int    `json:"min_score"`
}

type ListRiskTiersResponse struct {
	Tiers []RiskTierDTO `json:"tiers"`
}

// ---------------------------------------------------------------------------
// Mappers
// ---------------------------------------------------------------------------

// FromProfile converts a domain profile into its DTO.
func FromProfile(p model.ApplicantProfile) ProfileDTO {
	return ProfileDTO{
		EmploymentLengthMonths: p.EmploymentLengthMonths,
		EmploymentType:         p.EmploymentType.String(),
		Age:                    p.Age,
		TotalMonthlyIncome:     p.TotalMonthlyIncome,
		NetMonthlyIncome:       p.NetMonthlyIncome,
		MonthlyCarPayment:      p.MonthlyCarPayment,
		BankruptcyCount:        p.BankruptcyCount,
		RepossessionCount:      p.RepossessionCount,
		Downpayment:            p.Downpayment,
		TradeInValue:           p.TradeInValue,
	}
}

// FromModel builds the response from a scored assessment.
func FromModel(a *model.RiskAssessment, profile model.ApplicantProfile) EvaluateRiskResponse {
	resp := EvaluateRiskResponse{
		AssessmentID:  a.ID().String(),
		ApplicantName: a.ApplicantName(),
		HasCoBuyer:    a.HasCoBuyer(),
		Score:         a.Score(),
		Tier:          a.Tier().String(),
		Banner:        a.Tier().Banner(),
		Factors:       a.Factors(),
		PaymentRatio:  a.PaymentRatio(),
		Profile:       FromProfile(profile),
		AssessedAt:    a.AssessedAt(),
	}
	if id := a.ApplicationID(); id != uuid.Nil {
		resp.ApplicationID = id.String()
	}
	return resp
}

// FromTier converts a tier to its DTO.
func FromTier(t valueobject.RiskTier) RiskTierDTO {
	return RiskTierDTO{Name: t.String(), MinScore: t.MinScore(), Banner: t.Banner()}
}
