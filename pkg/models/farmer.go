package models

import "fmt"

// FarmerProfile is the caller-supplied input. It is immutable for the
// lifetime of a request.
type FarmerProfile struct {
	Name             string   `json:"name"`
	State            string   `json:"state"`
	LandAcres        float64  `json:"land_acres"`
	CropType         string   `json:"crop_type"`
	IncomeType       string   `json:"income_type"` // seasonal | mixed | daily
	MonthlyIncomeINR float64  `json:"monthly_income_inr"`
	HouseholdSize    int      `json:"household_size"`
	ExistingDebtINR  float64  `json:"existing_debt_inr"`
	RiskExposure     []string `json:"risk_exposure"`
	LoanPurpose      string   `json:"loan_purpose,omitempty"`
	LoanAmountINR    float64  `json:"loan_amount_inr,omitempty"`
}

// HasLoanRequest reports whether both loan fields are present.
func (p *FarmerProfile) HasLoanRequest() bool {
	return p.LoanPurpose != "" && p.LoanAmountINR > 0
}

// Validate enforces the all-or-nothing loan invariant and basic sanity.
func (p *FarmerProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.MonthlyIncomeINR <= 0 {
		return fmt.Errorf("monthly_income_inr must be positive")
	}
	if p.HouseholdSize <= 0 {
		return fmt.Errorf("household_size must be positive")
	}
	if (p.LoanPurpose != "") != (p.LoanAmountINR > 0) {
		return fmt.Errorf("loan request requires both loan_purpose and loan_amount_inr")
	}
	return nil
}

// ExpenseItem is one slice of the monthly expense breakdown. Values are
// authoritative (pre-computed), the model only echoes them back.
type ExpenseItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// RiskScore is a named 0-100 risk rating.
type RiskScore struct {
	Label       string `json:"label"`
	Score       int    `json:"score"`
	Description string `json:"description"`
}

// IncomeVsExpense summarises monthly cash flow.
type IncomeVsExpense struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Surplus  float64 `json:"surplus"`
}

// FinancialProfile is produced once by the first pipeline stage and read
// by every later stage. Never mutated after creation.
type FinancialProfile struct {
	IncomePattern             string          `json:"income_pattern"`         // seasonal | mixed | daily
	IncomeStability           string          `json:"income_stability"`       // stable | moderate | volatile
	DebtLoad                  string          `json:"debt_load"`              // low | moderate | high | critical
	MonthlySurplusEstimateINR float64         `json:"monthly_surplus_estimate_inr"`
	FinancialVulnerability    string          `json:"financial_vulnerability"` // low | medium | high
	Confidence                string          `json:"confidence"`
	ConfidenceReason          string          `json:"confidence_reason"`
	KeyFinancialRisks         []string        `json:"key_financial_risks"`
	ProfileSummary            string          `json:"profile_summary"`
	ExpenseBreakdown          []ExpenseItem   `json:"expense_breakdown"`
	RiskScores                []RiskScore     `json:"risk_scores"`
	IncomeVsExpense           IncomeVsExpense `json:"income_vs_expense"`
}
