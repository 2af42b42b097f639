package docrisk

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"fundwise/pkg/core/llm"
	"fundwise/pkg/core/prompt"
	"fundwise/pkg/models"
)

// maxDocumentChars bounds the text sent to the provider so a large
// upload cannot blow the token budget.
const maxDocumentChars = 12000

// ErrUnreadable means no usable text could be extracted. Raised before
// any completion call is made.
var ErrUnreadable = errors.New("could not extract text from document")

// Analyzer runs the document branch end to end.
type Analyzer struct {
	completer llm.Completer
	registry  *Registry
	log       zerolog.Logger
}

func NewAnalyzer(completer llm.Completer, registry *Registry, log zerolog.Logger) *Analyzer {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Analyzer{
		completer: completer,
		registry:  registry,
		log:       log.With().Str("component", "docrisk").Logger(),
	}
}

// Analyse extracts text, issues one risk-analysis completion and
// attaches file metadata. Empty extracted text fails with ErrUnreadable
// without spending a completion call.
func (a *Analyzer) Analyse(ctx context.Context, fileName string, data []byte) (*models.DocumentRiskReport, error) {
	ext := filepath.Ext(fileName)
	text := strings.TrimSpace(a.registry.Extract(ctx, ext, data))
	if text == "" {
		return nil, ErrUnreadable
	}

	truncated := false
	if len(text) > maxDocumentChars {
		// Back off to a rune boundary so the cut never produces an
		// invalid trailing byte sequence.
		cut := maxDocumentChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
		truncated = true
	}

	var report models.DocumentRiskReport
	provider, err := a.completer.Complete(ctx, prompt.DocumentRisk(text), &report)
	if err != nil {
		return nil, err
	}

	// File metadata is ours, not the model's; always present.
	report.File = models.DocumentFileMeta{
		FileName:      fileName,
		FileSizeBytes: int64(len(data)),
		CharsAnalysed: utf8.RuneCountInString(text),
		Truncated:     truncated,
	}

	a.log.Info().
		Str("file", fileName).
		Str("provider", provider).
		Int("chars", utf8.RuneCountInString(text)).
		Str("risk_level", report.RiskLevel).
		Msg("document risk analysis complete")
	return &report, nil
}
