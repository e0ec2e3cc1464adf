package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayFrequency describes how often an applicant is paid.
type PayFrequency struct {
	value      string
	multiplier int64
}

var (
	PayFrequencyWeekly   = PayFrequency{value: "Weekly", multiplier: 4}
	PayFrequencyBiWeekly = PayFrequency{value: "Bi-Weekly", multiplier: 2}
	PayFrequencyMonthly  = PayFrequency{value: "Monthly", multiplier: 1}
)

func PayFrequencyFromString(s string) (PayFrequency, error) {
	switch s {
	case "Weekly":
		return PayFrequencyWeekly, nil
	case "Bi-Weekly":
		return PayFrequencyBiWeekly, nil
	case "Monthly":
		return PayFrequencyMonthly, nil
	default:
		return PayFrequency{}, fmt.Errorf("invalid pay frequency: %q", s)
	}
}

// Multiplier is the number of paychecks counted per month.
func (p PayFrequency) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(p.multiplier)
}

// MonthlyAmount converts a single paycheck amount into a monthly figure.
func (p PayFrequency) MonthlyAmount(paycheck decimal.Decimal) decimal.Decimal {
	return paycheck.Mul(p.Multiplier())
}

func (p PayFrequency) String() string {
	return p.value
}

func (p PayFrequency) IsZero() bool {
	return p.value == ""
}

func (p PayFrequency) Equal(other PayFrequency) bool {
	return p.value == other.value
}
