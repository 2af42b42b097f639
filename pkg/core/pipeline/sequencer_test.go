package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundwise/pkg/core/prompt"
	"fundwise/pkg/models"
)

// stubCompleter replays canned JSON per stage and counts calls.
type stubCompleter struct {
	responses map[string]string
	calls     []string
	failStage string
}

func (s *stubCompleter) Complete(_ context.Context, req prompt.Request, target interface{}) (string, error) {
	s.calls = append(s.calls, req.Stage)
	if req.Stage == s.failStage {
		return "", fmt.Errorf("stubbed failure for %s", req.Stage)
	}
	canned, ok := s.responses[req.Stage]
	if !ok {
		return "", fmt.Errorf("no canned response for stage %s", req.Stage)
	}
	if err := json.Unmarshal([]byte(canned), target); err != nil {
		return "", err
	}
	return "stub-provider", nil
}

const profileJSON = `{
  "income_pattern": "seasonal",
  "income_stability": "volatile",
  "debt_load": "moderate",
  "monthly_surplus_estimate_inr": 6700,
  "financial_vulnerability": "medium",
  "confidence": "high",
  "confidence_reason": "Figures provided directly.",
  "key_financial_risks": ["drought", "price swings"],
  "profile_summary": "Seasonal cotton farmer with a thin but positive surplus.",
  "expense_breakdown": [
    {"label": "Household", "value": 10000, "color": "#4a8fd4"},
    {"label": "Debt EMI", "value": 300, "color": "#e05a4a"},
    {"label": "Farm Inputs", "value": 3000, "color": "#c87a30"},
    {"label": "Surplus", "value": 6700, "color": "#3a9a64"}
  ],
  "risk_scores": [{"label": "Income Risk", "score": 60, "description": "seasonal"}],
  "income_vs_expense": {"income": 20000, "expenses": 13300, "surplus": 6700}
}`

const schemesJSON = `[
  {"scheme_id": "kcc", "eligible": true, "suitability": "recommended", "priority": 1, "benefit_effort_score": 9, "reason": "cheap credit"},
  {"scheme_id": "pmfby", "eligible": true, "suitability": "suitable", "priority": 2, "benefit_effort_score": 7, "reason": "drought cover"},
  {"scheme_id": "pmkisan", "eligible": true, "suitability": "suitable", "priority": 3, "benefit_effort_score": 6, "reason": "free money"},
  {"scheme_id": "shc", "eligible": true, "suitability": "low_value", "priority": 4, "benefit_effort_score": 4, "reason": "minor saving"},
  {"scheme_id": "pmksy", "eligible": false, "suitability": "not_suitable", "priority": 5, "benefit_effort_score": 2, "reason": "no water source"}
]`

const decisionJSON = `{
  "recommendation": "scheme_first",
  "headline": "Secure KCC credit before taking any new loan.",
  "reasoning": "Schemes cover the need at lower cost.",
  "priority_actions": [{"step": 1, "action": "Apply for KCC", "why": "cheapest credit"}],
  "what_to_avoid": "Informal lenders.",
  "documents_needed": ["land record", "Aadhaar"],
  "timeline_weeks": 6,
  "overall_risk_level": "medium",
  "success_likelihood": "high",
  "key_benefit": "lower interest burden"
}`

const loanJSON = `{
  "assessed": true,
  "label": "risky",
  "label_display": "Risky but workable",
  "reasoning": "EMI timing clashes with the harvest cycle.",
  "key_risk": "seasonal income vs monthly EMI",
  "risk_factors": ["drought exposure"],
  "emi_concern": true,
  "emi_concern_detail": "Income lands twice a year, EMI is monthly.",
  "confidence": "medium",
  "estimated_interest_rate": "7-9%",
  "recommended_tenure_months": 36,
  "repayment_strategy": "seasonal",
  "checklist": ["land record"],
  "repayment_analysis": {"verdict": "tight", "detail": "EMI eats most of the surplus."},
  "cash_flow_analysis": {"verdict": "seasonal", "detail": "Two income peaks a year."},
  "debt_burden_analysis": {"verdict": "moderate", "detail": "Post-loan ratio 0.17."},
  "shock_resilience_analysis": {"verdict": "weak", "detail": "One failed season breaks the plan."},
  "purpose_evaluation": {"verdict": "sound", "detail": "Irrigation raises yield."}
}`

const commentaryJSON = `{
  "seasonal_commentary": "Payments will be hardest before the kharif harvest.",
  "stress_months": [4, 5],
  "advice": ["Keep one EMI in reserve"]
}`

func testProfile() *models.FarmerProfile {
	return &models.FarmerProfile{
		Name:             "Ravi",
		State:            "Maharashtra",
		LandAcres:        2.5,
		CropType:         "cotton",
		IncomeType:       "seasonal",
		MonthlyIncomeINR: 20000,
		HouseholdSize:    4,
		ExistingDebtINR:  10000,
		RiskExposure:     []string{"drought"},
	}
}

func allResponses() map[string]string {
	return map[string]string{
		"financial_profile":    profileJSON,
		"scheme_assessment":    schemesJSON,
		"loan_assessment":      loanJSON,
		"decision":             decisionJSON,
		"repayment_commentary": commentaryJSON,
	}
}

func TestAnalyseRunsStagesInOrder(t *testing.T) {
	stub := &stubCompleter{responses: allResponses()}
	seq := NewSequencer(stub, zerolog.Nop())

	resp, err := seq.Analyse(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, []string{"financial_profile", "scheme_assessment", "decision"}, stub.calls)
	assert.Equal(t, "Ravi", resp.FarmerName)
	assert.Equal(t, "seasonal", resp.ProfileSummary.IncomePattern)
	assert.Len(t, resp.SchemeRecommendations, 5)
	// The streamlined flow carries the loan sentinel, not a verdict.
	assert.False(t, resp.LoanAssessment.Assessed)
	assert.Equal(t, "not_requested", resp.LoanAssessment.Label)
	assert.Equal(t, "scheme_first", resp.FinalDecision.Recommendation)
	assert.NotEmpty(t, resp.Meta.RequestID)
	assert.Equal(t, "stub-provider", resp.Meta.Provider)
}

func TestAnalyseMergesCatalogFields(t *testing.T) {
	stub := &stubCompleter{responses: allResponses()}
	seq := NewSequencer(stub, zerolog.Nop())

	resp, err := seq.Analyse(context.Background(), testProfile())
	require.NoError(t, err)

	for _, s := range resp.SchemeRecommendations {
		assert.NotEmpty(t, s.Name, "catalog name must be filled for %s", s.SchemeID)
		assert.NotEmpty(t, s.Description)
	}
}

func TestAnalyseProfileFailureIsFatal(t *testing.T) {
	stub := &stubCompleter{responses: allResponses(), failStage: "financial_profile"}
	seq := NewSequencer(stub, zerolog.Nop())

	_, err := seq.Analyse(context.Background(), testProfile())
	require.Error(t, err)
	// No later stage may run after a fatal stage-1 failure.
	assert.Equal(t, []string{"financial_profile"}, stub.calls)
}

func TestAssessLoanShortCircuitsWithoutLoanFields(t *testing.T) {
	stub := &stubCompleter{responses: allResponses()}
	seq := NewSequencer(stub, zerolog.Nop())

	loan, err := seq.AssessLoan(context.Background(), testProfile(), nil)
	require.NoError(t, err)

	assert.False(t, loan.Assessed)
	assert.Equal(t, "not_requested", loan.Label)
	assert.Empty(t, stub.calls, "sentinel must be produced without any provider call")
}

func TestAssessLoanWithLoanRequest(t *testing.T) {
	stub := &stubCompleter{responses: allResponses()}
	seq := NewSequencer(stub, zerolog.Nop())

	p := testProfile()
	p.LoanPurpose = "drip irrigation"
	p.LoanAmountINR = 100000

	loan, err := seq.AssessLoan(context.Background(), p, nil)
	require.NoError(t, err)

	assert.True(t, loan.Assessed)
	assert.Equal(t, "risky", loan.Label)
	require.NotNil(t, loan.ShockResilience)
	assert.Equal(t, "weak", loan.ShockResilience.Verdict)
	assert.Equal(t, []string{"loan_assessment"}, stub.calls)
}

func TestRepaymentPlanKeepsDeterministicSchedule(t *testing.T) {
	stub := &stubCompleter{responses: allResponses()}
	seq := NewSequencer(stub, zerolog.Nop())

	p := testProfile()
	p.LoanPurpose = "drip irrigation"
	p.LoanAmountINR = 36000

	plan, err := seq.RepaymentPlan(context.Background(), p, 0)
	require.NoError(t, err)

	assert.Len(t, plan.Schedule, 36)
	assert.Equal(t, "Payments will be hardest before the kharif harvest.", plan.SeasonalCommentary)
	assert.Equal(t, []int{4, 5}, plan.StressMonths)
	assert.Equal(t, []string{"repayment_commentary"}, stub.calls)
}
