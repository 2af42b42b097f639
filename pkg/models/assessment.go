package models

// Suitability classifications for scheme assessments. The prompt layer
// declares exactly these values and the decode step rejects anything else.
const (
	SuitabilityRecommended = "recommended"
	SuitabilitySuitable    = "suitable"
	SuitabilityLowValue    = "low_value"
	SuitabilityNotSuitable = "not_suitable"
)

// SchemeAssessment is the per-scheme verdict from the scheme stage.
// Catalog-owned fields (Name through BenefitINR) are overwritten from the
// catalog during merging; the model's values for them are never trusted.
type SchemeAssessment struct {
	SchemeID           string `json:"scheme_id"`
	Eligible           bool   `json:"eligible"`
	Suitability        string `json:"suitability"`
	SuitabilityLabel   string `json:"suitability_label"`
	Reason             string `json:"reason"`
	BenefitEffortScore int    `json:"benefit_effort_score"` // 1-10
	Priority           int    `json:"priority"`             // 1-5, ascending order
	ActionRequired     string `json:"action_required"`

	// Canonical catalog fields, populated by the merger.
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	BenefitINR  string `json:"benefit_inr,omitempty"`
}

// LoanAnalysisSection is one sub-section of a full loan verdict.
type LoanAnalysisSection struct {
	Verdict string `json:"verdict"`
	Detail  string `json:"detail"`
}

// LoanAssessment is either the not-requested sentinel (Assessed=false) or
// a full structured verdict. Produced once, read-only thereafter.
type LoanAssessment struct {
	Assessed     bool   `json:"assessed"`
	Label        string `json:"label"` // suitable | risky | not_recommended | not_requested
	LabelDisplay string `json:"label_display,omitempty"`
	Message      string `json:"message,omitempty"`

	Reasoning               string   `json:"reasoning,omitempty"`
	KeyRisk                 string   `json:"key_risk,omitempty"`
	RiskFactors             []string `json:"risk_factors,omitempty"`
	EMIConcern              bool     `json:"emi_concern,omitempty"`
	EMIConcernDetail        string   `json:"emi_concern_detail,omitempty"`
	SaferAlternative        string   `json:"safer_alternative,omitempty"`
	Confidence              string   `json:"confidence,omitempty"`
	EstimatedInterestRate   string   `json:"estimated_interest_rate,omitempty"`
	RecommendedTenureMonths int      `json:"recommended_tenure_months,omitempty"`
	RepaymentStrategy       string   `json:"repayment_strategy,omitempty"` // seasonal | monthly | bullet
	Checklist               []string `json:"checklist,omitempty"`

	Repayment       *LoanAnalysisSection `json:"repayment_analysis,omitempty"`
	CashFlow        *LoanAnalysisSection `json:"cash_flow_analysis,omitempty"`
	DebtBurden      *LoanAnalysisSection `json:"debt_burden_analysis,omitempty"`
	ShockResilience *LoanAnalysisSection `json:"shock_resilience_analysis,omitempty"`
	PurposeFit      *LoanAnalysisSection `json:"purpose_evaluation,omitempty"`
}

// NotRequestedLoan is the sentinel returned when the profile carries no
// loan fields. No provider call is made to produce it.
func NotRequestedLoan() *LoanAssessment {
	return &LoanAssessment{
		Assessed: false,
		Label:    "not_requested",
		Message:  "No loan request provided. Enter a loan purpose and amount to get an assessment.",
	}
}

// PriorityAction is one ordered step in the final decision.
type PriorityAction struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Why    string `json:"why"`
}

// Decision is the terminal output of the pipeline.
type Decision struct {
	Recommendation    string           `json:"recommendation"` // scheme_first | loan_first | both_together | scheme_only | loan_only | neither
	Headline          string           `json:"headline"`
	Reasoning         string           `json:"reasoning"`
	PriorityActions   []PriorityAction `json:"priority_actions"`
	WhatToAvoid       string           `json:"what_to_avoid"`
	DocumentsNeeded   []string         `json:"documents_needed"`
	TimelineWeeks     int              `json:"timeline_weeks"`
	OverallRiskLevel  string           `json:"overall_risk_level"` // low | medium | high
	SuccessLikelihood string           `json:"success_likelihood"`
	KeyBenefit        string           `json:"key_benefit"`
}

// RepaymentMonth is one row of a deterministic amortization schedule.
type RepaymentMonth struct {
	Month        int     `json:"month"`
	PrincipalINR float64 `json:"principal_inr"`
	InterestINR  float64 `json:"interest_inr"`
	PaymentINR   float64 `json:"payment_inr"`
	BalanceINR   float64 `json:"balance_inr"`
}

// RepaymentPlan combines the locally computed schedule with AI seasonal
// commentary. The numbers never come from the model.
type RepaymentPlan struct {
	LoanAmountINR      float64          `json:"loan_amount_inr"`
	TenureMonths       int              `json:"tenure_months"`
	MonthlyRate        float64          `json:"monthly_rate"`
	TotalInterestINR   float64          `json:"total_interest_inr"`
	Schedule           []RepaymentMonth `json:"schedule"`
	SeasonalCommentary string           `json:"seasonal_commentary"`
	StressMonths       []int            `json:"stress_months,omitempty"`
	Advice             []string         `json:"advice,omitempty"`
}

// AnalysisMeta is attached to every /analyse response.
type AnalysisMeta struct {
	RequestID string `json:"request_id"`
	Provider  string `json:"provider"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// AnalysisResponse is the assembled terminal state of the pipeline.
type AnalysisResponse struct {
	FarmerName            string             `json:"farmer_name"`
	ProfileSummary        *FinancialProfile  `json:"profile_summary"`
	SchemeRecommendations []SchemeAssessment `json:"scheme_recommendations"`
	LoanAssessment        *LoanAssessment    `json:"loan_assessment"`
	FinalDecision         *Decision          `json:"final_decision"`
	Meta                  AnalysisMeta       `json:"meta"`
}
