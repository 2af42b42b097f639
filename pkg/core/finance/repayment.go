package finance

import (
	"math"

	"fundwise/pkg/models"
)

// DefaultTenureMonths is the repayment-plan horizon when the caller does
// not override it. MaxTenureMonths caps caller-supplied tenures; the
// schedule is allocated up front, so the bound must be enforced before
// building.
const (
	DefaultTenureMonths = 36
	MaxTenureMonths     = 120
)

// MonthlyInterestRate approximates rural credit pricing (12% p.a. flat).
const MonthlyInterestRate = 0.01

// BuildSchedule produces a month-by-month amortization schedule: equal
// principal installments plus declining interest at the fixed monthly
// rate. The schedule is authoritative; the model only adds commentary.
func BuildSchedule(loanAmount float64, tenureMonths int) *models.RepaymentPlan {
	if tenureMonths <= 0 {
		tenureMonths = DefaultTenureMonths
	}
	if tenureMonths > MaxTenureMonths {
		tenureMonths = MaxTenureMonths
	}

	principalPart := loanAmount / float64(tenureMonths)
	balance := loanAmount
	totalInterest := 0.0

	schedule := make([]models.RepaymentMonth, 0, tenureMonths)
	for m := 1; m <= tenureMonths; m++ {
		interest := math.Round(balance * MonthlyInterestRate)
		payment := math.Round(principalPart + interest)
		balance = math.Max(0, balance-principalPart)
		totalInterest += interest

		schedule = append(schedule, models.RepaymentMonth{
			Month:        m,
			PrincipalINR: math.Round(principalPart),
			InterestINR:  interest,
			PaymentINR:   payment,
			BalanceINR:   math.Round(balance),
		})
	}

	return &models.RepaymentPlan{
		LoanAmountINR:    loanAmount,
		TenureMonths:     tenureMonths,
		MonthlyRate:      MonthlyInterestRate,
		TotalInterestINR: totalInterest,
		Schedule:         schedule,
	}
}
