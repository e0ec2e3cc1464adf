package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/event"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/model"
	"github.com/engthiagolucena/customer-risk-analysis/internal/domain/valueobject"
)

func amounts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func validParams() model.ApplicantParams {
	return model.ApplicantParams{
		FirstName:              "Dana",
		LastName:               "Reyes",
		EmploymentLengthMonths: 18,
		EmploymentType:         valueobject.EmploymentTypeW2,
		Age:                    33,
		PayFrequency:           valueobject.PayFrequencyBiWeekly,
		Paychecks:              amounts("1400", "1600", "1500"),
		OtherIncomes:           amounts("250"),
		MonthlyCarPayment:      decimal.NewFromInt(450),
		TotalMonthlyExpenses:   decimal.NewFromInt(1200),
		Downpayment:            decimal.NewFromInt(2500),
	}
}

func TestNewApplicant_MonthlyIncome(t *testing.T) {
	tests := []struct {
		name     string
		freq     valueobject.PayFrequency
		expected string
	}{
		{"weekly", valueobject.PayFrequencyWeekly, "6250"},
		{"bi-weekly", valueobject.PayFrequencyBiWeekly, "3250"},
		{"monthly", valueobject.PayFrequencyMonthly, "1750"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.PayFrequency = tt.freq

			a, err := model.NewApplicant(p)
			require.NoError(t, err)

			assert.Equal(t, "1500", a.AveragePaycheck().String())
			assert.Equal(t, "250", a.OtherIncomeTotal().String())
			assert.True(t, a.MonthlyIncome().Equal(decimal.RequireFromString(tt.expected)),
				"got %s", a.MonthlyIncome())
		})
	}
}

func TestNewApplicant_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.ApplicantParams)
		errMsg string
	}{
		{"negative tenure", func(p *model.ApplicantParams) { p.EmploymentLengthMonths = -1 }, "employment length"},
		{"missing employment type", func(p *model.ApplicantParams) { p.EmploymentType = valueobject.EmploymentType{} }, "employment type"},
		{"underage", func(p *model.ApplicantParams) { p.Age = 17 }, "at least 18"},
		{"missing pay frequency", func(p *model.ApplicantParams) { p.PayFrequency = valueobject.PayFrequency{} }, "pay frequency"},
		{"no paychecks", func(p *model.ApplicantParams) { p.Paychecks = nil }, "paychecks"},
		{"too many paychecks", func(p *model.ApplicantParams) {
			p.Paychecks = amounts("1", "1", "1", "1", "1", "1", "1")
		}, "paychecks"},
		{"negative paycheck", func(p *model.ApplicantParams) { p.Paychecks = amounts("100", "-5") }, "paycheck 2"},
		{"too many other incomes", func(p *model.ApplicantParams) {
			p.OtherIncomes = amounts("1", "1", "1", "1", "1", "1")
		}, "other income"},
		{"negative other income", func(p *model.ApplicantParams) { p.OtherIncomes = amounts("-1") }, "other income 1"},
		{"negative car payment", func(p *model.ApplicantParams) { p.MonthlyCarPayment = decimal.NewFromInt(-1) }, "car payment"},
		{"negative expenses", func(p *model.ApplicantParams) { p.TotalMonthlyExpenses = decimal.NewFromInt(-1) }, "expenses"},
		{"negative downpayment", func(p *model.ApplicantParams) { p.Downpayment = decimal.NewFromInt(-1) }, "downpayment"},
		{"negative bankruptcies", func(p *model.ApplicantParams) { p.BankruptcyCount = -1 }, "bankruptcy"},
		{"negative repossessions", func(p *model.ApplicantParams) { p.RepossessionCount = -1 }, "repossession"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			a, err := model.NewApplicant(p)

			require.Error(t, err)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, model.ErrInvalidApplicant)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewApplicant_AcceptsBoundaryCounts(t *testing.T) {
	p := validParams()
	p.Age = 18
	p.EmploymentLengthMonths = 0
	p.Paychecks = amounts("1", "2", "3", "4", "5", "6")
	p.OtherIncomes = amounts("1", "1", "1", "1", "1")

	a, err := model.NewApplicant(p)
	require.NoError(t, err)
	assert.Equal(t, "3.5", a.AveragePaycheck().String())
	assert.Equal(t, "Dana Reyes", a.FullName())
}

func TestLoanApplication_ProfileWithoutCoBuyer(t *testing.T) {
	primary, err := model.NewApplicant(validParams())
	require.NoError(t, err)

	app, err := model.NewLoanApplication(primary, nil, decimal.Zero, "dealer-1")
	require.NoError(t, err)

	profile := app.Profile()

	assert.False(t, app.HasCoBuyer())
	assert.Equal(t, 18, profile.EmploymentLengthMonths)
	assert.Equal(t, 33, profile.Age)
	assert.True(t, profile.TotalMonthlyIncome.Equal(decimal.NewFromInt(3250)))
	assert.True(t, profile.NetMonthlyIncome.Equal(decimal.NewFromInt(2050)))
	assert.True(t, profile.MonthlyCarPayment.Equal(decimal.NewFromInt(450)))
	assert.True(t, profile.Downpayment.Equal(decimal.NewFromInt(2500)))
	assert.True(t, profile.TradeInValue.IsZero())
}

func TestLoanApplication_ProfileSumsCoBuyer(t *testing.T) {
	primaryParams := validParams()
	primaryParams.BankruptcyCount = 1
	primary, err := model.NewApplicant(primaryParams)
	require.NoError(t, err)

	coParams := validParams()
	coParams.FirstName = "Sam"
	coParams.Age = 52
	coParams.EmploymentType = valueobject.EmploymentTypeSelfEmployed
	coParams.PayFrequency = valueobject.PayFrequencyMonthly
	coParams.Paychecks = amounts("4000")
	coParams.OtherIncomes = nil
	coParams.MonthlyCarPayment = decimal.NewFromInt(150)
	coParams.TotalMonthlyExpenses = decimal.NewFromInt(1800)
	coParams.Downpayment = decimal.NewFromInt(9000)
	coParams.RepossessionCount = 2
	coBuyer, err := model.NewApplicant(coParams)
	require.NoError(t, err)

	app, err := model.NewLoanApplication(primary, coBuyer, decimal.NewFromInt(1200), "")
	require.NoError(t, err)

	profile := app.Profile()

	assert.True(t, app.HasCoBuyer())
	// primary attributes are not blended
	assert.Equal(t, 33, profile.Age)
	assert.Equal(t, valueobject.EmploymentTypeW2, profile.EmploymentType)
	// 3250 + 4000 income, 1200 + 1800 expenses
	assert.True(t, profile.TotalMonthlyIncome.Equal(decimal.NewFromInt(7250)))
	assert.True(t, profile.NetMonthlyIncome.Equal(decimal.NewFromInt(4250)))
	assert.True(t, profile.MonthlyCarPayment.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 1, profile.BankruptcyCount)
	assert.Equal(t, 2, profile.RepossessionCount)
	// co-buyer downpayment is ignored
	assert.True(t, profile.Downpayment.Equal(decimal.NewFromInt(2500)))
	assert.True(t, profile.TradeInValue.Equal(decimal.NewFromInt(1200)))
}

func TestNewLoanApplication_Validation(t *testing.T) {
	_, err := model.NewLoanApplication(nil, nil, decimal.Zero, "")
	assert.ErrorIs(t, err, model.ErrInvalidApplicant)

	primary, err := model.NewApplicant(validParams())
	require.NoError(t, err)
	_, err = model.NewLoanApplication(primary, nil, decimal.NewFromInt(-1), "")
	assert.ErrorIs(t, err, model.ErrInvalidApplicant)
}

func TestRiskAssessment_Assess(t *testing.T) {
	primary, err := model.NewApplicant(validParams())
	require.NoError(t, err)
	app, err := model.NewLoanApplication(primary, nil, decimal.Zero, "dealer-9")
	require.NoError(t, err)

	t.Run("low tier emits a single event", func(t *testing.T) {
		a := model.NewRiskAssessment(app)
		a.Assess(2, []string{"Stable employment (W2)"}, decimal.RequireFromString("0.2"))

		assert.Equal(t, valueobject.RiskTierLow, a.Tier())
		assert.Equal(t, "Dana Reyes", a.ApplicantName())
		assert.Equal(t, app.ID(), a.ApplicationID())
		assert.False(t, a.AssessedAt().IsZero())

		evts := a.DomainEvents()
		require.Len(t, evts, 1)
		assessed, ok := evts[0].(event.RiskAssessed)
		require.True(t, ok)
		assert.Equal(t, event.EventTypeRiskAssessed, assessed.EventType())
		assert.Equal(t, a.ID().String(), assessed.AggregateID())
		assert.Equal(t, "dealer-9", assessed.DealershipID())
		assert.Equal(t, "LOW", assessed.Tier)

		assert.Empty(t, a.DomainEvents(), "events are drained")
	})

	t.Run("high tier also emits HighRiskDetected", func(t *testing.T) {
		a := model.NewRiskAssessment(app)
		a.Assess(10, []string{"High risk due to bankruptcy and repossession history"}, decimal.NewFromInt(1))

		assert.Equal(t, valueobject.RiskTierHigh, a.Tier())
		evts := a.DomainEvents()
		require.Len(t, evts, 2)
		assert.Equal(t, event.EventTypeRiskAssessed, evts[0].EventType())
		assert.Equal(t, event.EventTypeHighRiskDetected, evts[1].EventType())
	})

	t.Run("profile assessment has no application id", func(t *testing.T) {
		a := model.NewProfileAssessment("")
		a.Assess(6, nil, decimal.Zero)

		assert.Equal(t, valueobject.RiskTierModerate, a.Tier())
		evts := a.DomainEvents()
		require.Len(t, evts, 1)
		assert.Empty(t, evts[0].(event.RiskAssessed).ApplicationID)
	})
}
