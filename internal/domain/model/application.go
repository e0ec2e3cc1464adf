package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanApplication groups the primary buyer, an optional co-buyer and the
// vehicle trade-in for a single evaluation.
type LoanApplication struct {
	primary      *Applicant
	coBuyer      *Applicant
	tradeInValue decimal.Decimal
	dealershipID string
	id           uuid.UUID
}

// NewLoanApplication creates an application. coBuyer may be nil.
func NewLoanApplication(primary, coBuyer *Applicant, tradeInValue decimal.Decimal, dealershipID string) (*LoanApplication, error) {
	if primary == nil {
		return nil, fmt.Errorf("%w: primary applicant is required", ErrInvalidApplicant)
	}
	if tradeInValue.IsNegative() {
		return nil, fmt.Errorf("%w: trade-in value must not be negative", ErrInvalidApplicant)
	}
	return &LoanApplication{
		id:           uuid.New(),
		primary:      primary,
		coBuyer:      coBuyer,
		tradeInValue: tradeInValue,
		dealershipID: dealershipID,
	}, nil
}

// Profile aggregates both buyers into the classifier input. Only the
// primary's downpayment is counted.
func (a *LoanApplication) Profile() ApplicantProfile {
	income := a.primary.MonthlyIncome()
	expenses := a.primary.TotalMonthlyExpenses()
	carPayment := a.primary.MonthlyCarPayment()
	bankruptcies := a.primary.BankruptcyCount()
	repossessions := a.primary.RepossessionCount()

	if a.coBuyer != nil {
		income = income.Add(a.coBuyer.MonthlyIncome())
		expenses = expenses.Add(a.coBuyer.TotalMonthlyExpenses())
		carPayment = carPayment.Add(a.coBuyer.MonthlyCarPayment())
		bankruptcies += a.coBuyer.BankruptcyCount()
		repossessions += a.coBuyer.RepossessionCount()
	}

	return ApplicantProfile{
		EmploymentLengthMonths: a.primary.EmploymentLengthMonths(),
		EmploymentType:         a.primary.EmploymentType(),
		Age:                    a.primary.Age(),
		TotalMonthlyIncome:     income,
		NetMonthlyIncome:       income.Sub(expenses),
		MonthlyCarPayment:      carPayment,
		BankruptcyCount:        bankruptcies,
		RepossessionCount:      repossessions,
		Downpayment:            a.primary.Downpayment(),
		TradeInValue:           a.tradeInValue,
	}
}

// --- Accessors ---

func (a *LoanApplication) ID() uuid.UUID                 { return a.id }
func (a *LoanApplication) Primary() *Applicant           { return a.primary }
func (a *LoanApplication) CoBuyer() *Applicant           { return a.coBuyer }
func (a *LoanApplication) HasCoBuyer() bool              { return a.coBuyer != nil }
func (a *LoanApplication) TradeInValue() decimal.Decimal { return a.tradeInValue }
func (a *LoanApplication) DealershipID() string          { return a.dealershipID }
