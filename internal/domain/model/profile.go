package model

import (
	"github.com/shopspring/decimal"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

// ApplicantProfile is the aggregated input to risk classification. Income,
// expenses, car payment and derogatory counts are summed across primary and
// co-buyer; the remaining attributes belong to the primary applicant.
type ApplicantProfile struct {
	TotalMonthlyIncome     decimal.Decimal
	NetMonthlyIncome       decimal.Decimal
	MonthlyCarPayment      decimal.Decimal
	Downpayment            decimal.Decimal
	TradeInValue           decimal.Decimal
	EmploymentType         valueobject.EmploymentType
	EmploymentLengthMonths int
	Age                    int
	BankruptcyCount        int
	RepossessionCount      int
}
