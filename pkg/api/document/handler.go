// Package document exposes the document risk analysis endpoint.
package document

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"fundwise/pkg/core/docrisk"
	"fundwise/pkg/core/llm"
)

// maxUploadBytes bounds the multipart upload size.
const maxUploadBytes = 16 << 20

// Handler serves POST /analyse-document.
type Handler struct {
	analyzer *docrisk.Analyzer
	log      zerolog.Logger
}

func NewHandler(analyzer *docrisk.Analyzer, log zerolog.Logger) *Handler {
	return &Handler{analyzer: analyzer, log: log.With().Str("component", "api").Logger()}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// HandleAnalyseDocument accepts a multipart file upload under the
// "file" field and returns a DocumentRiskReport.
func (h *Handler) HandleAnalyseDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload: "+err.Error())
		return
	}

	report, err := h.analyzer.Analyse(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, docrisk.ErrUnreadable) {
			writeError(w, http.StatusBadRequest, "could not extract text from document")
			return
		}
		h.log.Error().Err(err).Str("file", header.Filename).Msg("document analysis failed")
		var unavailable *llm.UnavailableError
		if errors.As(err, &unavailable) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
