// Package finance derives the authoritative numeric figures for a farmer
// from fixed formulas. Nothing here touches a model: these numbers are
// embedded into every downstream prompt as given facts so the generative
// step cannot fabricate or miscalculate them.
package finance

import (
	"math"

	"fundwise/pkg/models"
)

// Fixed policy constants. Hard-coded rather than per-region configurable;
// the amounts track the original advisory's assumptions.
const (
	PerHeadHouseholdCostINR = 2500 // monthly cost per household member
	DebtServiceRate         = 0.03 // monthly EMI as a fraction of outstanding debt
	FarmInputFraction       = 0.15 // share of monthly income spent on farm inputs
	NewLoanEMIRate          = 0.03 // estimated monthly installment per rupee borrowed
	MaxInstallmentShare     = 0.30 // ceiling on total EMI as a share of income
)

// CostBreakdown is the deterministic monthly expense picture.
type CostBreakdown struct {
	HouseholdExpenseINR float64
	DebtEMIINR          float64
	FarmInputINR        float64
	SurplusINR          float64
}

// LoanFigures are the loan-scenario numbers, present only when the
// profile carries a loan request.
type LoanFigures struct {
	EstimatedEMIINR         float64
	PostLoanDebtServiceRate float64 // (existing EMI + new EMI) / monthly income
	LoanToAnnualIncome      float64
	SafeBorrowingINR        float64 // principal affordable at MaxInstallmentShare
}

// ComputeCosts applies the fixed formulas to a profile.
func ComputeCosts(p *models.FarmerProfile) CostBreakdown {
	household := float64(p.HouseholdSize) * PerHeadHouseholdCostINR
	debtEMI := math.Round(p.ExistingDebtINR * DebtServiceRate)
	farmInput := p.MonthlyIncomeINR * FarmInputFraction
	surplus := math.Max(0, p.MonthlyIncomeINR-household-debtEMI-farmInput)
	return CostBreakdown{
		HouseholdExpenseINR: household,
		DebtEMIINR:          debtEMI,
		FarmInputINR:        farmInput,
		SurplusINR:          surplus,
	}
}

// ComputeLoanFigures derives the loan-scenario numbers. Returns nil when
// the profile has no loan request.
func ComputeLoanFigures(p *models.FarmerProfile, costs CostBreakdown) *LoanFigures {
	if !p.HasLoanRequest() {
		return nil
	}
	newEMI := math.Round(p.LoanAmountINR * NewLoanEMIRate)
	headroom := math.Max(0, MaxInstallmentShare*p.MonthlyIncomeINR-costs.DebtEMIINR)
	return &LoanFigures{
		EstimatedEMIINR:         newEMI,
		PostLoanDebtServiceRate: (costs.DebtEMIINR + newEMI) / p.MonthlyIncomeINR,
		LoanToAnnualIncome:      p.LoanAmountINR / (12 * p.MonthlyIncomeINR),
		SafeBorrowingINR:        math.Round(headroom / NewLoanEMIRate),
	}
}

// ExpenseBreakdown renders the cost figures as the chart slices returned
// in the financial profile. Values sum to monthly income by construction
// (surplus absorbs the remainder, floored at zero).
func (c CostBreakdown) ExpenseBreakdown() []models.ExpenseItem {
	return []models.ExpenseItem{
		{Label: "Household", Value: c.HouseholdExpenseINR, Color: "#4a8fd4"},
		{Label: "Debt EMI", Value: c.DebtEMIINR, Color: "#e05a4a"},
		{Label: "Farm Inputs", Value: c.FarmInputINR, Color: "#c87a30"},
		{Label: "Surplus", Value: c.SurplusINR, Color: "#3a9a64"},
	}
}
