package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/model"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

// Contribution is one dimension's effect on the score. An empty Factor means
// the dimension adds no explanation to the report.
type Contribution struct {
	Factor string
	Delta  int
}

// Rule evaluates a single risk dimension of a profile.
type Rule struct {
	Evaluate func(p model.ApplicantProfile) Contribution
	Name     string
}

var (
	ratioHigh         = decimal.RequireFromString("0.40")
	ratioModerateHigh = decimal.RequireFromString("0.30")
	ratioModerate     = decimal.RequireFromString("0.25")

	downpaymentHigh     = decimal.NewFromInt(3000)
	downpaymentModerate = decimal.NewFromInt(1500)
)

// DefaultRules returns the scoring dimensions in report order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "employment_tenure", Evaluate: EmploymentTenure},
		{Name: "employment_type", Evaluate: EmploymentTypeStability},
		{Name: "payment_ratio", Evaluate: PaymentToIncome},
		{Name: "bankruptcy", Evaluate: BankruptcyHistory},
		{Name: "repossession", Evaluate: RepossessionHistory},
		{Name: "downpayment", Evaluate: DownpaymentSize},
		{Name: "age", Evaluate: AgeBand},
		{Name: "trade_in", Evaluate: TradeIn},
	}
}

// PaymentRatio divides the car payment by net income. Non-positive net income
// yields 1, which lands in the highest ratio bracket.
func PaymentRatio(carPayment, netIncome decimal.Decimal) decimal.Decimal {
	if !netIncome.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return carPayment.Div(netIncome)
}

// EmploymentTenure penalizes fewer than twelve months in the current job.
func EmploymentTenure(p model.ApplicantProfile) Contribution {
	switch {
	case p.EmploymentLengthMonths < 6:
		return Contribution{Delta: 2, Factor: "Short employment history"}
	case p.EmploymentLengthMonths < 12:
		return Contribution{Delta: 1, Factor: "Less than 1 year in current job"}
	default:
		return Contribution{}
	}
}

// EmploymentTypeStability scores the income source. W2 is reported but adds nothing.
func EmploymentTypeStability(p model.ApplicantProfile) Contribution {
	switch {
	case p.EmploymentType.IsUnstable():
		return Contribution{Delta: 2, Factor: "Unstable income source (Cash Paid/1099)"}
	case p.EmploymentType.Equal(valueobject.EmploymentTypeSelfEmployed):
		return Contribution{Delta: 1, Factor: "Self-Employed - Moderate risk"}
	case p.EmploymentType.Equal(valueobject.EmploymentTypeW2):
		return Contribution{Factor: "Stable employment (W2)"}
	default:
		return Contribution{}
	}
}

// PaymentToIncome brackets are strict upper-exclusive tests, so a ratio of
// exactly 0.30 scores as 25-30%.
func PaymentToIncome(p model.ApplicantProfile) Contribution {
	ratio := PaymentRatio(p.MonthlyCarPayment, p.NetMonthlyIncome)
	switch {
	case ratio.GreaterThan(ratioHigh):
		return Contribution{Delta: 3, Factor: "High payment-to-net-income ratio (>40%)"}
	case ratio.GreaterThan(ratioModerateHigh):
		return Contribution{Delta: 2, Factor: "Moderate-high payment-to-net-income ratio (30-40%)"}
	case ratio.GreaterThan(ratioModerate):
		return Contribution{Delta: 1, Factor: "Moderate payment-to-net-income ratio (25-30%)"}
	default:
		return Contribution{Factor: "Optimal payment-to-net-income ratio (≤25%) - Financially stable"}
	}
}

// BankruptcyHistory adds two points per bankruptcy.
func BankruptcyHistory(p model.ApplicantProfile) Contribution {
	c := Contribution{Delta: p.BankruptcyCount * 2}
	if p.BankruptcyCount > 0 {
		c.Factor = fmt.Sprintf("%d past bankruptcy record(s)", p.BankruptcyCount)
	}
	return c
}

// RepossessionHistory adds three points per repossession.
func RepossessionHistory(p model.ApplicantProfile) Contribution {
	c := Contribution{Delta: p.RepossessionCount * 3}
	if p.RepossessionCount > 0 {
		c.Factor = fmt.Sprintf("%d past repossession(s)", p.RepossessionCount)
	}
	return c
}

// DownpaymentSize subtracts points for a downpayment above the moderate or high threshold.
func DownpaymentSize(p model.ApplicantProfile) Contribution {
	switch {
	case p.Downpayment.GreaterThan(downpaymentHigh):
		return Contribution{Delta: -2, Factor: "High downpayment reducing risk"}
	case p.Downpayment.GreaterThan(downpaymentModerate):
		return Contribution{Delta: -1, Factor: "Moderate downpayment reducing risk"}
	default:
		return Contribution{}
	}
}

// AgeBand always contributes; applicants over 40 lower the score.
func AgeBand(p model.ApplicantProfile) Contribution {
	switch {
	case p.Age <= 24:
		return Contribution{Delta: 3, Factor: "High risk for younger customers (<=24 years old)"}
	case p.Age <= 30:
		return Contribution{Delta: 2, Factor: "Moderate-high risk for customers aged 25-30"}
	case p.Age <= 40:
		return Contribution{Delta: 1, Factor: "Moderate risk for customers aged 31-40"}
	default:
		return Contribution{Delta: -2, Factor: "Lower risk for older customers (>40 years old)"}
	}
}

// TradeIn subtracts one point for any positive trade-in value.
func TradeIn(p model.ApplicantProfile) Contribution {
	if p.TradeInValue.IsPositive() {
		return Contribution{Delta: -1, Factor: "Trade-in provided, reducing risk"}
	}
	return Contribution{}
}
