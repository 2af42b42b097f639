package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundwise/pkg/core/docrisk"
	"fundwise/pkg/core/llm"
	"fundwise/pkg/models"
)

type fixedProvider struct {
	name  string
	reply string
	err   error
}

func (p *fixedProvider) Name() string { return p.name }

func (p *fixedProvider) Generate(_ context.Context, _ string, _ string, _ int) (string, error) {
	return p.reply, p.err
}

const riskReply = `{
  "risk_level": "critical",
  "danger_score": 91,
  "flagged_clauses": [
    {
      "clause": "Lender may seize any property of the borrower on default",
      "severity": "critical",
      "explanation": "Cross-collateralization puts the land itself at risk."
    }
  ],
  "verdict": "Do not sign without legal review."
}`

func newTestHandler(provider llm.Provider) *Handler {
	svc := llm.NewServiceWith(provider, nil, 5*time.Second, zerolog.Nop())
	analyzer := docrisk.NewAnalyzer(svc, nil, zerolog.Nop())
	return NewHandler(analyzer, zerolog.Nop())
}

func uploadRequest(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyse-document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleAnalyseDocument(t *testing.T) {
	h := newTestHandler(&fixedProvider{name: "primary", reply: riskReply})

	data := []byte("Loan agreement. The lender may seize any property of the borrower on default.")
	rec := httptest.NewRecorder()
	h.HandleAnalyseDocument(rec, uploadRequest(t, "agreement.txt", data))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.DocumentRiskReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "critical", report.RiskLevel)
	assert.Equal(t, 91, report.DangerScore)
	assert.Equal(t, "agreement.txt", report.File.FileName)
	assert.Equal(t, int64(len(data)), report.File.FileSizeBytes)
}

func TestHandleAnalyseDocumentUnreadable(t *testing.T) {
	h := newTestHandler(&fixedProvider{name: "primary", reply: riskReply})

	rec := httptest.NewRecorder()
	h.HandleAnalyseDocument(rec, uploadRequest(t, "scan.txt", []byte{0x00, 0x01, 0x02}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not extract text from document")
}

func TestHandleAnalyseDocumentMissingFile(t *testing.T) {
	h := newTestHandler(&fixedProvider{name: "primary", reply: riskReply})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyse-document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.HandleAnalyseDocument(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyseDocumentProviderDown(t *testing.T) {
	h := newTestHandler(&fixedProvider{name: "gemini(test)", err: fmt.Errorf("quota exceeded")})

	rec := httptest.NewRecorder()
	h.HandleAnalyseDocument(rec, uploadRequest(t, "agreement.txt", []byte("some contract text")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "gemini(test)")
}
