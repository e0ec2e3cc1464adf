package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

const (
	MinApplicantAge = 18
	MinPaychecks    = 1
	MaxPaychecks    = 6
	MaxOtherIncomes = 5
)

// ErrInvalidApplicant is wrapped by every validation failure in NewApplicant.
var ErrInvalidApplicant = errors.New("invalid applicant")

// ApplicantParams holds the raw fields collected for one person on the deal.
type ApplicantParams struct {
	FirstName              string
	LastName               string
	EmploymentType         valueobject.EmploymentType
	PayFrequency           valueobject.PayFrequency
	Paychecks              []decimal.Decimal
	OtherIncomes           []decimal.Decimal
	MonthlyCarPayment      decimal.Decimal
	TotalMonthlyExpenses   decimal.Decimal
	Downpayment            decimal.Decimal
	EmploymentLengthMonths int
	Age                    int
	BankruptcyCount        int
	RepossessionCount      int
}

// Applicant is a validated primary buyer or co-buyer.
type Applicant struct {
	firstName              string
	lastName               string
	employmentType         valueobject.EmploymentType
	payFrequency           valueobject.PayFrequency
	paychecks              []decimal.Decimal
	otherIncomes           []decimal.Decimal
	monthlyCarPayment      decimal.Decimal
	totalMonthlyExpenses   decimal.Decimal
	downpayment            decimal.Decimal
	employmentLengthMonths int
	age                    int
	bankruptcyCount        int
	repossessionCount      int
}

// NewApplicant validates the collected fields and returns an Applicant.
func NewApplicant(p ApplicantParams) (*Applicant, error) {
	if p.EmploymentLengthMonths < 0 {
		return nil, invalid("employment length must not be negative, got %d", p.EmploymentLengthMonths)
	}
	if p.EmploymentType.IsZero() {
		return nil, invalid("employment type is required")
	}
	if p.Age < MinApplicantAge {
		return nil, invalid("age must be at least %d, got %d", MinApplicantAge, p.Age)
	}
	if p.PayFrequency.IsZero() {
		return nil, invalid("pay frequency is required")
	}
	if len(p.Paychecks) < MinPaychecks || len(p.Paychecks) > MaxPaychecks {
		return nil, invalid("between %d and %d paychecks are required, got %d",
			MinPaychecks, MaxPaychecks, len(p.Paychecks))
	}
	for i, amt := range p.Paychecks {
		if amt.IsNegative() {
			return nil, invalid("paycheck %d must not be negative", i+1)
		}
	}
	if len(p.OtherIncomes) > MaxOtherIncomes {
		return nil, invalid("at most %d other income sources are allowed, got %d",
			MaxOtherIncomes, len(p.OtherIncomes))
	}
	for i, amt := range p.OtherIncomes {
		if amt.IsNegative() {
			return nil, invalid("other income %d must not be negative", i+1)
		}
	}
	if p.MonthlyCarPayment.IsNegative() {
		return nil, invalid("monthly car payment must not be negative")
	}
	if p.TotalMonthlyExpenses.IsNegative() {
		return nil, invalid("total monthly expenses must not be negative")
	}
	if p.Downpayment.IsNegative() {
		return nil, invalid("downpayment must not be negative")
	}
	if p.BankruptcyCount < 0 {
		return nil, invalid("bankruptcy count must not be negative")
	}
	if p.RepossessionCount < 0 {
		return nil, invalid("repossession count must not be negative")
	}

	return &Applicant{
		firstName:              strings.TrimSpace(p.FirstName),
		lastName:               strings.TrimSpace(p.LastName),
		employmentType:         p.EmploymentType,
		payFrequency:           p.PayFrequency,
		paychecks:              append([]decimal.Decimal(nil), p.Paychecks...),
		otherIncomes:           append([]decimal.Decimal(nil), p.OtherIncomes...),
		monthlyCarPayment:      p.MonthlyCarPayment,
		totalMonthlyExpenses:   p.TotalMonthlyExpenses,
		downpayment:            p.Downpayment,
		employmentLengthMonths: p.EmploymentLengthMonths,
		age:                    p.Age,
		bankruptcyCount:        p.BankruptcyCount,
		repossessionCount:      p.RepossessionCount,
	}, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidApplicant, fmt.Sprintf(format, args...))
}

// AveragePaycheck is the arithmetic mean of the supplied paychecks.
func (a *Applicant) AveragePaycheck() decimal.Decimal {
	if len(a.paychecks) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, a.paychecks...).Div(decimal.NewFromInt(int64(len(a.paychecks))))
}

// OtherIncomeTotal sums the additional income sources.
func (a *Applicant) OtherIncomeTotal() decimal.Decimal {
	return decimal.Sum(decimal.Zero, a.otherIncomes...)
}

// MonthlyIncome converts the average paycheck to a monthly figure using the
// pay frequency and adds other income.
func (a *Applicant) MonthlyIncome() decimal.Decimal {
	return a.payFrequency.MonthlyAmount(a.AveragePaycheck()).Add(a.OtherIncomeTotal())
}

// FullName joins first and last name, skipping blanks.
func (a *Applicant) FullName() string {
	return strings.TrimSpace(a.firstName + " " + a.lastName)
}

// --- Accessors ---

func (a *Applicant) FirstName() string                          { return a.firstName }
func (a *Applicant) LastName() string                           { return a.lastName }
func (a *Applicant) EmploymentType() valueobject.EmploymentType { return a.employmentType }
func (a *Applicant) PayFrequency() valueobject.PayFrequency     { return a.payFrequency }
func (a *Applicant) EmploymentLengthMonths() int                { return a.employmentLengthMonths }
func (a *Applicant) Age() int                                   { return a.age }
func (a *Applicant) MonthlyCarPayment() decimal.Decimal         { return a.monthlyCarPayment }
func (a *Applicant) TotalMonthlyExpenses() decimal.Decimal      { return a.totalMonthlyExpenses }
func (a *Applicant) Downpayment() decimal.Decimal               { return a.downpayment }
func (a *Applicant) BankruptcyCount() int                       { return a.bankruptcyCount }
func (a *Applicant) RepossessionCount() int                     { return a.repossessionCount }
