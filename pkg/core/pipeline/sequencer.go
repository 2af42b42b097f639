// Package pipeline runs the four analysis stages in dependency order and
// assembles the final response. Stages are strictly sequential: each
// stage's prompt embeds the literal structured output of the previous
// one, so they cannot be parallelized without changing the contract.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fundwise/pkg/core/finance"
	"fundwise/pkg/core/llm"
	"fundwise/pkg/core/prompt"
	"fundwise/pkg/models"
)

// maxTopSchemes caps how many scheme assessments feed the decision stage.
const maxTopSchemes = 3

// Sequencer threads a farmer profile through the staged pipeline.
type Sequencer struct {
	completer llm.Completer
	log       zerolog.Logger
}

func NewSequencer(completer llm.Completer, log zerolog.Logger) *Sequencer {
	return &Sequencer{
		completer: completer,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Analyse runs stages 1, 2 and 4. The loan stage is replaced by the
// not-requested sentinel in this streamlined flow; /assess-loan serves
// loan verdicts on their own.
func (s *Sequencer) Analyse(ctx context.Context, p *models.FarmerProfile) (*models.AnalysisResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()
	costs := finance.ComputeCosts(p)

	// Stage 1: financial profile. Failure here is fatal, nothing
	// downstream can run without it.
	profile, provider, err := s.financialProfile(ctx, p, costs)
	if err != nil {
		return nil, fmt.Errorf("financial profile stage: %w", err)
	}

	// Stage 2: one call assessing the whole catalog, then reconciled
	// against the canonical records.
	schemes, _, err := s.assessSchemes(ctx, p, costs, profile)
	if err != nil {
		return nil, fmt.Errorf("scheme assessment stage: %w", err)
	}

	loan := models.NotRequestedLoan()

	// Stage 4: final decision from profile + top schemes + loan.
	decision, _, err := s.decide(ctx, p, profile, schemes, loan)
	if err != nil {
		return nil, fmt.Errorf("decision stage: %w", err)
	}

	s.log.Info().
		Str("request_id", requestID).
		Str("farmer", p.Name).
		Dur("elapsed", time.Since(start)).
		Msg("analysis pipeline complete")

	return &models.AnalysisResponse{
		FarmerName:            p.Name,
		ProfileSummary:        profile,
		SchemeRecommendations: schemes,
		LoanAssessment:        loan,
		FinalDecision:         decision,
		Meta: models.AnalysisMeta{
			RequestID: requestID,
			Provider:  provider,
			ElapsedMS: time.Since(start).Milliseconds(),
		},
	}, nil
}

func (s *Sequencer) financialProfile(ctx context.Context, p *models.FarmerProfile, costs finance.CostBreakdown) (*models.FinancialProfile, string, error) {
	var profile models.FinancialProfile
	provider, err := s.completer.Complete(ctx, prompt.FinancialProfile(p, costs), &profile)
	if err != nil {
		return nil, "", err
	}
	return &profile, provider, nil
}

func (s *Sequencer) assessSchemes(ctx context.Context, p *models.FarmerProfile, costs finance.CostBreakdown, profile *models.FinancialProfile) ([]models.SchemeAssessment, string, error) {
	var raw []models.SchemeAssessment
	provider, err := s.completer.Complete(ctx, prompt.SchemeAssessment(p, costs, profile), &raw)
	if err != nil {
		return nil, "", err
	}
	// A short array is passed through as-is; missing entries are not
	// synthesized, only logged.
	merged := MergeWithCatalog(raw, s.log)
	return merged, provider, nil
}

// AssessLoan runs the loan stage. When the profile carries no loan
// fields it short-circuits to the sentinel without any provider call.
func (s *Sequencer) AssessLoan(ctx context.Context, p *models.FarmerProfile, profile *models.FinancialProfile) (*models.LoanAssessment, error) {
	if !p.HasLoanRequest() {
		return models.NotRequestedLoan(), nil
	}

	costs := finance.ComputeCosts(p)
	figures := finance.ComputeLoanFigures(p, costs)

	var loan models.LoanAssessment
	if _, err := s.completer.Complete(ctx, prompt.LoanAssessment(p, costs, figures, profile), &loan); err != nil {
		return nil, fmt.Errorf("loan assessment stage: %w", err)
	}
	return &loan, nil
}

func (s *Sequencer) decide(ctx context.Context, p *models.FarmerProfile, profile *models.FinancialProfile, schemes []models.SchemeAssessment, loan *models.LoanAssessment) (*models.Decision, string, error) {
	top := TopSchemes(schemes, maxTopSchemes)

	var decision models.Decision
	provider, err := s.completer.Complete(ctx, prompt.Decision(p, profile, top, loan), &decision)
	if err != nil {
		return nil, "", err
	}
	return &decision, provider, nil
}

// RepaymentPlan computes the deterministic schedule and asks the model
// for seasonal commentary only. Schedule numbers never come from the
// model.
func (s *Sequencer) RepaymentPlan(ctx context.Context, p *models.FarmerProfile, tenureMonths int) (*models.RepaymentPlan, error) {
	plan := finance.BuildSchedule(p.LoanAmountINR, tenureMonths)

	var commentary struct {
		SeasonalCommentary string   `json:"seasonal_commentary"`
		StressMonths       []int    `json:"stress_months"`
		Advice             []string `json:"advice"`
	}
	if _, err := s.completer.Complete(ctx, prompt.RepaymentCommentary(p, plan), &commentary); err != nil {
		return nil, fmt.Errorf("repayment commentary: %w", err)
	}

	plan.SeasonalCommentary = commentary.SeasonalCommentary
	plan.StressMonths = commentary.StressMonths
	plan.Advice = commentary.Advice
	return plan, nil
}
