package service

import (
	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/model"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

const (
	// DerogatoryOverrideScore is returned when the profile has both a
	// bankruptcy and a repossession on record.
	DerogatoryOverrideScore = 10

	// DerogatoryOverrideFactor is the only factor reported with the override.
	DerogatoryOverrideFactor = "High risk due to bankruptcy and repossession history"
)

// Result contains the outcome of classifying a profile.
type Result struct {
	PaymentRatio decimal.Decimal
	Factors      []string
	Score        int
}

// RiskClassifier is a domain service that scores an applicant profile by
// summing independent rule contributions. It holds no mutable state and is
// safe for concurrent use.
type RiskClassifier struct {
	rules []Rule
}

// NewRiskClassifier creates a classifier with the default rule set.
func NewRiskClassifier() *RiskClassifier {
	return &RiskClassifier{rules: DefaultRules()}
}

// Rules returns the rules in evaluation order.
func (c *RiskClassifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify scores the profile. It never fails: out-of-range inputs simply
// fall into the nearest bracket, and the score is not clamped.
func (c *RiskClassifier) Classify(p model.ApplicantProfile) Result {
	ratio := PaymentRatio(p.MonthlyCarPayment, p.NetMonthlyIncome)

	// Bankruptcy together with repossession overrides every other dimension.
	if p.BankruptcyCount > 0 && p.RepossessionCount > 0 {
		return Result{
			Score:        DerogatoryOverrideScore,
			Factors:      []string{DerogatoryOverrideFactor},
			PaymentRatio: ratio,
		}
	}

	score := 0
	factors := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		contribution := rule.Evaluate(p)
		score += contribution.Delta
		if contribution.Factor != "" {
			factors = append(factors, contribution.Factor)
		}
	}

	return Result{
		Score:        score,
		Factors:      factors,
		PaymentRatio: ratio,
	}
}

// ClassifyRisk is the positional form of Classify for callers that hold the
// aggregated figures directly.
func (c *RiskClassifier) ClassifyRisk(
	employmentLength int,
	employmentType valueobject.EmploymentType,
	age int,
	income, netIncome, carPayment decimal.Decimal,
	bankruptcyCount, repossessionCount int,
	downpayment, tradeIn decimal.Decimal,
) (int, []string) {
	result := c.Classify(model.ApplicantProfile{
		EmploymentLengthMonths: employmentLength,
		EmploymentType:         employmentType,
		Age:                    age,
		TotalMonthlyIncome:     income,
		NetMonthlyIncome:       netIncome,
		MonthlyCarPayment:      carPayment,
		BankruptcyCount:        bankruptcyCount,
		RepossessionCount:      repossessionCount,
		Downpayment:            downpayment,
		TradeInValue:           tradeIn,
	})
	return result.Score, result.Factors
}
