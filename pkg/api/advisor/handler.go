// Package advisor exposes the farmer-assessment endpoints.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"fundwise/pkg/core/catalog"
	"fundwise/pkg/core/finance"
	"fundwise/pkg/core/llm"
	"fundwise/pkg/core/pipeline"
	"fundwise/pkg/core/prompt"
	"fundwise/pkg/models"
)

// Handler serves the main pipeline endpoints.
type Handler struct {
	sequencer *pipeline.Sequencer
	service   *llm.Service
	history   HistorySaver
	version   string
	log       zerolog.Logger
}

// HistorySaver is the optional audit-trail hook; nil disables it.
type HistorySaver interface {
	Save(ctx context.Context, resp *models.AnalysisResponse)
}

func NewHandler(sequencer *pipeline.Sequencer, service *llm.Service, history HistorySaver, version string, log zerolog.Logger) *Handler {
	return &Handler{
		sequencer: sequencer,
		service:   service,
		history:   history,
		version:   version,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// cors writes the CORS headers and answers preflight. Returns true when
// the request is already handled.
func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeServiceError maps pipeline failures onto the error taxonomy:
// both-providers-failed becomes 503 with both causes, anything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var unavailable *llm.UnavailableError
	if errors.As(err, &unavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeProfile(w http.ResponseWriter, r *http.Request) (*models.FarmerProfile, bool) {
	var p models.FarmerProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &p, true
}

// HandleRoot reports service status and the active providers.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":            "FundWise API running",
		"version":           h.version,
		"provider":          h.service.ActiveProvider(),
		"fallback_provider": h.service.FallbackProvider(),
	})
}

// HandleHealth issues a trivial completion to prove a provider answers.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var probe map[string]interface{}
	provider, err := h.service.Complete(r.Context(), prompt.HealthProbe(), &probe)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"detail": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"provider": provider,
	})
}

// HandleSchemes returns the static catalog verbatim.
func (h *Handler) HandleSchemes(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, catalog.All())
}

// HandleAnalyse runs the full pipeline for one farmer.
func (h *Handler) HandleAnalyse(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	p, ok := decodeProfile(w, r)
	if !ok {
		return
	}

	resp, err := h.sequencer.Analyse(r.Context(), p)
	if err != nil {
		h.log.Error().Err(err).Str("farmer", p.Name).Msg("analysis failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)

	if h.history != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			h.history.Save(ctx, resp)
		}()
	}
}

// HandleAssessLoan runs the loan stage alone. Loan fields are required.
func (h *Handler) HandleAssessLoan(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	p, ok := decodeProfile(w, r)
	if !ok {
		return
	}
	if !p.HasLoanRequest() {
		writeError(w, http.StatusBadRequest, "loan_purpose and loan_amount_inr are required for a loan assessment")
		return
	}

	loan, err := h.sequencer.AssessLoan(r.Context(), p, nil)
	if err != nil {
		h.log.Error().Err(err).Str("farmer", p.Name).Msg("loan assessment failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"farmer_name":     p.Name,
		"loan_assessment": loan,
	})
}

type repaymentPlanRequest struct {
	models.FarmerProfile
	TenureMonths int `json:"tenure_months,omitempty"`
}

// HandleRepaymentPlan returns a fixed-tenure month-by-month schedule
// with seasonal commentary. Loan fields are required.
func (h *Handler) HandleRepaymentPlan(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	var req repaymentPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.FarmerProfile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.FarmerProfile.HasLoanRequest() {
		writeError(w, http.StatusBadRequest, "loan_purpose and loan_amount_inr are required for a repayment plan")
		return
	}
	if req.TenureMonths < 0 || req.TenureMonths > finance.MaxTenureMonths {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("tenure_months must be between 1 and %d", finance.MaxTenureMonths))
		return
	}

	plan, err := h.sequencer.RepaymentPlan(r.Context(), &req.FarmerProfile, req.TenureMonths)
	if err != nil {
		h.log.Error().Err(err).Str("farmer", req.Name).Msg("repayment plan failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"farmer_name":    req.Name,
		"repayment_plan": plan,
	})
}
