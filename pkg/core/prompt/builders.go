package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"fundwise/pkg/core/catalog"
	"fundwise/pkg/core/finance"
	"fundwise/pkg/models"
)

const defaultMaxTokens = 4096

func rupees(v float64) string {
	return fmt.Sprintf("Rs.%.0f", v)
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// farmerFacts renders the shared factual context block with the
// pre-computed figures embedded as given facts.
func farmerFacts(p *models.FarmerProfile, costs finance.CostBreakdown) string {
	return fmt.Sprintf(`FARMER:
- Name: %s, State: %s
- Land: %.1f acres, Crop: %s
- Income type: %s, Monthly income: %s
- Household size: %d, Existing debt: %s
- Risk exposures: %s

PRE-COMPUTED FIGURES (authoritative, reuse exactly, do not recalculate):
- Household expenses: %s/month
- Debt EMI: %s/month
- Farm inputs: %s/month
- Surplus: %s/month`,
		p.Name, p.State,
		p.LandAcres, p.CropType,
		p.IncomeType, rupees(p.MonthlyIncomeINR),
		p.HouseholdSize, rupees(p.ExistingDebtINR),
		strings.Join(p.RiskExposure, ", "),
		rupees(costs.HouseholdExpenseINR),
		rupees(costs.DebtEMIINR),
		rupees(costs.FarmInputINR),
		rupees(costs.SurplusINR))
}

// FinancialProfile renders the stage-1 request.
func FinancialProfile(p *models.FarmerProfile, costs finance.CostBreakdown) Request {
	shape := fmt.Sprintf(`{
  "income_pattern": "seasonal | mixed | daily",
  "income_stability": "stable | moderate | volatile",
  "debt_load": "low | moderate | high | critical",
  "monthly_surplus_estimate_inr": <number>,
  "financial_vulnerability": "low | medium | high",
  "confidence": "high | medium | low",
  "confidence_reason": "<one sentence>",
  "key_financial_risks": ["<risk1>", "<risk2>", "<risk3>"],
  "profile_summary": "<2 sentence plain English summary>",
  "expense_breakdown": [
    {"label": "Household", "value": %.0f, "color": "#4a8fd4"},
    {"label": "Debt EMI", "value": %.0f, "color": "#e05a4a"},
    {"label": "Farm Inputs", "value": %.0f, "color": "#c87a30"},
    {"label": "Surplus", "value": %.0f, "color": "#3a9a64"}
  ],
  "risk_scores": [
    {"label": "Income Risk", "score": <0-100>, "description": "<short reason>"},
    {"label": "Debt Risk", "score": <0-100>, "description": "<short reason>"},
    {"label": "Weather Risk", "score": <0-100>, "description": "<short reason>"},
    {"label": "Market Risk", "score": <0-100>, "description": "<short reason>"}
  ],
  "income_vs_expense": {"income": %.0f, "expenses": <total expenses>, "surplus": <income minus expenses>}
}`,
		costs.HouseholdExpenseINR, costs.DebtEMIINR, costs.FarmInputINR, costs.SurplusINR,
		p.MonthlyIncomeINR)

	user := fmt.Sprintf(`Analyse this farmer and return structured JSON with chart data.

%s

Return ONLY valid JSON matching this schema:
%s

IMPORTANT: copy the expense_breakdown values exactly as given above; they sum to %s (the monthly income).
Make risk scores realistic: 0=no risk, 100=critical risk.`,
		farmerFacts(p, costs), shape, rupees(p.MonthlyIncomeINR))

	return Request{
		Stage:     "financial_profile",
		System:    "You are a financial analyst for rural Indian farming. You write for low-literacy readers: short sentences, no jargon. Output strictly valid JSON.",
		User:      user,
		Schema:    FinancialProfileSchema,
		MaxTokens: defaultMaxTokens,
	}
}

// SchemeAssessment renders the stage-2 request covering every catalog
// entry in a single call.
func SchemeAssessment(p *models.FarmerProfile, costs finance.CostBreakdown, profile *models.FinancialProfile) Request {
	shape := `[
  {
    "scheme_id": "<id>",
    "eligible": true | false,
    "suitability": "recommended | suitable | low_value | not_suitable",
    "suitability_label": "<short label>",
    "reason": "<1-2 sentences>",
    "benefit_effort_score": <1-10>,
    "priority": <1-5>,
    "action_required": "<one sentence>"
  }
]`

	user := fmt.Sprintf(`Assess each scheme: not just eligibility, but whether it is WORTH IT for this farmer.

FARMER PROFILE:
%s

%s

SCHEMES:
%s

Return ONLY a valid JSON array matching this schema:
%s

Evaluate all %d schemes, one entry per scheme_id, no extras. Be honest - flag low-value schemes explicitly.`,
		mustJSON(profile), farmerFacts(p, costs), mustJSON(catalog.All()), shape, catalog.Size())

	return Request{
		Stage:     "scheme_assessment",
		System:    "You are a government scheme advisor for Indian farmers. Output strictly valid JSON.",
		User:      user,
		Schema:    SchemeAssessmentsSchema,
		MaxTokens: defaultMaxTokens,
	}
}

// LoanAssessment renders the stage-3 request. profile may be nil when
// the loan stage runs standalone.
func LoanAssessment(p *models.FarmerProfile, costs finance.CostBreakdown, figures *finance.LoanFigures, profile *models.FinancialProfile) Request {
	shape := `{
  "assessed": true,
  "label": "suitable | risky | not_recommended",
  "label_display": "<short display text>",
  "reasoning": "<2-3 sentences>",
  "key_risk": "<single biggest risk>",
  "risk_factors": ["<risk 1>", "<risk 2>"],
  "emi_concern": true | false,
  "emi_concern_detail": "<timing mismatch explanation or null>",
  "safer_alternative": "<safer alternative or null>",
  "confidence": "high | medium | low",
  "estimated_interest_rate": "<range, e.g. 7-9%>",
  "recommended_tenure_months": <number>,
  "repayment_strategy": "seasonal | monthly | bullet",
  "checklist": ["<doc/action 1>", "<doc/action 2>"],
  "repayment_analysis": {"verdict": "<one word>", "detail": "<1-2 sentences>"},
  "cash_flow_analysis": {"verdict": "<one word>", "detail": "<1-2 sentences>"},
  "debt_burden_analysis": {"verdict": "<one word>", "detail": "<1-2 sentences>"},
  "shock_resilience_analysis": {"verdict": "<one word>", "detail": "<1-2 sentences>"},
  "purpose_evaluation": {"verdict": "<one word>", "detail": "<1-2 sentences>"}
}`

	profileBlock := ""
	if profile != nil {
		profileBlock = "FARMER PROFILE:\n" + mustJSON(profile) + "\n\n"
	}

	user := fmt.Sprintf(`Assess whether this loan is SUITABLE. You are NOT predicting bank approval.
Provide detailed financial insights including interest estimates and repayment strategies tailored to the farmer's crop cycle.

%s%s

LOAN REQUEST:
- Purpose: %s
- Amount: %s
- Estimated new EMI: %s/month (authoritative, do not recalculate)
- Post-loan debt service ratio: %.2f of monthly income
- Loan-to-annual-income ratio: %.2f
- Safe borrowing capacity at current income: %s

Return ONLY valid JSON:
%s`,
		profileBlock, farmerFacts(p, costs),
		p.LoanPurpose, rupees(p.LoanAmountINR),
		rupees(figures.EstimatedEMIINR),
		figures.PostLoanDebtServiceRate,
		figures.LoanToAnnualIncome,
		rupees(figures.SafeBorrowingINR),
		shape)

	return Request{
		Stage:     "loan_assessment",
		System:    "You are a rural credit advisor in India. Output strictly valid JSON.",
		User:      user,
		Schema:    LoanAssessmentSchema,
		MaxTokens: defaultMaxTokens,
	}
}

// Decision renders the stage-4 request from everything upstream.
func Decision(p *models.FarmerProfile, profile *models.FinancialProfile, topSchemes []models.SchemeAssessment, loan *models.LoanAssessment) Request {
	shape := `{
  "recommendation": "scheme_first | loan_first | both_together | scheme_only | loan_only | neither",
  "headline": "<one bold sentence>",
  "reasoning": "<3-4 sentences>",
  "priority_actions": [
    {"step": 1, "action": "<action>", "why": "<reason>"},
    {"step": 2, "action": "<action>", "why": "<reason>"},
    {"step": 3, "action": "<action>", "why": "<reason>"},
    {"step": 4, "action": "<action>", "why": "<reason>"}
  ],
  "what_to_avoid": "<one sentence>",
  "documents_needed": ["<doc1>", "<doc2>", "<doc3>"],
  "timeline_weeks": <number>,
  "overall_risk_level": "low | medium | high",
  "success_likelihood": "high | medium | low",
  "key_benefit": "<one short phrase>"
}`

	user := fmt.Sprintf(`Give ONE clear prioritised recommendation.
Be specific, actionable, and empathetic. Focus on the farmer's long-term stability.

FARMER: %s, %s
PROFILE: %s
TOP SCHEMES: %s
LOAN: %s

Return ONLY valid JSON:
%s`,
		p.Name, p.State, mustJSON(profile), mustJSON(topSchemes), mustJSON(loan), shape)

	return Request{
		Stage:     "decision",
		System:    "You are FundWise, a financial suitability advisor for Indian farmers. Output strictly valid JSON.",
		User:      user,
		Schema:    DecisionSchema,
		MaxTokens: defaultMaxTokens,
	}
}

// RepaymentCommentary asks for seasonal guidance on a locally computed
// schedule. The schedule numbers are authoritative.
func RepaymentCommentary(p *models.FarmerProfile, plan *models.RepaymentPlan) Request {
	shape := `{
  "seasonal_commentary": "<3-4 sentences on how the schedule interacts with the crop cycle>",
  "stress_months": [<month numbers where repayment will be hardest>],
  "advice": ["<tip 1>", "<tip 2>"]
}`

	user := fmt.Sprintf(`A %d-month repayment schedule has been computed for this farmer.
The numbers are fixed; comment on how they fit the farming calendar.

FARMER: %s, %s. Crop: %s, income type: %s, monthly income %s.
LOAN: %s for "%s", monthly rate %.2f%%, total interest %s.
FIRST MONTH PAYMENT: %s. FINAL MONTH PAYMENT: %s.

Return ONLY valid JSON:
%s`,
		plan.TenureMonths,
		p.Name, p.State, p.CropType, p.IncomeType, rupees(p.MonthlyIncomeINR),
		rupees(plan.LoanAmountINR), p.LoanPurpose, plan.MonthlyRate*100, rupees(plan.TotalInterestINR),
		rupees(plan.Schedule[0].PaymentINR), rupees(plan.Schedule[len(plan.Schedule)-1].PaymentINR),
		shape)

	return Request{
		Stage:     "repayment_commentary",
		System:    "You are a rural credit advisor in India. Output strictly valid JSON.",
		User:      user,
		Schema:    RepaymentCommentarySchema,
		MaxTokens: defaultMaxTokens,
	}
}

// DocumentRisk renders the single-call request of the document branch.
func DocumentRisk(text string) Request {
	shape := `{
  "risk_level": "low | medium | high | critical",
  "danger_score": <0-100>,
  "flagged_clauses": [
    {
      "clause": "<quoted or paraphrased clause>",
      "severity": "low | medium | high | critical",
      "explanation": "<plain language explanation>",
      "impact": "<what it costs the farmer>",
      "recommendation": "<what to do about it>"
    }
  ],
  "favorable_clauses": ["<clause that protects the borrower>"],
  "key_terms": [{"term": "<e.g. interest rate>", "value": "<as stated>"}],
  "verdict": "<2-3 sentence final verdict>"
}`

	user := fmt.Sprintf(`Review this financial document for a farmer who may not read legal language.
Search specifically for: hidden fees, balloon payments, cross-collateralization, prepayment
penalties, variable rate resets, compounding penalty interest, collateral seizure terms,
mandatory arbitration, and blank or one-sided clauses. Also note clauses that favor the borrower.

DOCUMENT TEXT:
%s

Return ONLY valid JSON:
%s`, text, shape)

	return Request{
		Stage:     "document_risk",
		System:    "You are a loan document examiner protecting rural borrowers. Output strictly valid JSON.",
		User:      user,
		Schema:    DocumentRiskSchema,
		MaxTokens: defaultMaxTokens,
	}
}

// HealthProbe is the trivial request behind GET /health.
func HealthProbe() Request {
	return Request{
		Stage:     "health",
		System:    "You are a health probe. Output strictly valid JSON.",
		User:      `Reply with exactly {"status": "ok"}.`,
		MaxTokens: 32,
	}
}
