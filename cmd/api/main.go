package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"fundwise/pkg/api/advisor"
	"fundwise/pkg/api/document"
	"fundwise/pkg/core/docrisk"
	"fundwise/pkg/core/llm"
	"fundwise/pkg/core/pipeline"
	"fundwise/pkg/core/store"
)

const version = "1.0.0"

func main() {
	godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := llm.LoadConfig("config/models.yaml")
	if cfg.GeminiAPIKey == "" {
		// Startup-time warning only; the error surfaces on first use.
		log.Warn().Msg("GEMINI_API_KEY not set, primary provider will fail until configured")
	}

	service := llm.NewService(cfg, log)
	sequencer := pipeline.NewSequencer(service, log)

	registry := docrisk.NewRegistry()
	if extractorURL := os.Getenv("EXTRACTOR_URL"); extractorURL != "" {
		registry.Register("pdf", docrisk.NewRemoteExtractor(extractorURL, "pdf"))
		registry.Register("docx", docrisk.NewRemoteExtractor(extractorURL, "docx"))
		log.Info().Str("url", extractorURL).Msg("remote document extractor configured for pdf/docx")
	} else {
		log.Warn().Msg("EXTRACTOR_URL not set, pdf/docx uploads fall back to raw decode")
	}
	analyzer := docrisk.NewAnalyzer(service, registry, log)

	var saver advisor.HistorySaver
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		repo, err := store.NewHistoryRepo(context.Background(), dbURL, log)
		if err != nil {
			log.Warn().Err(err).Msg("analysis history disabled")
		} else {
			saver = repo
			defer repo.Close()
		}
	}

	advisorHandler := advisor.NewHandler(sequencer, service, saver, version, log)
	documentHandler := document.NewHandler(analyzer, log)

	http.HandleFunc("/", advisorHandler.HandleRoot)
	http.HandleFunc("/health", advisorHandler.HandleHealth)
	http.HandleFunc("/schemes", advisorHandler.HandleSchemes)
	http.HandleFunc("/analyse", advisorHandler.HandleAnalyse)
	http.HandleFunc("/assess-loan", advisorHandler.HandleAssessLoan)
	http.HandleFunc("/repayment-plan", advisorHandler.HandleRepaymentPlan)
	http.HandleFunc("/analyse-document", documentHandler.HandleAnalyseDocument)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().
		Str("port", port).
		Str("provider", service.ActiveProvider()).
		Str("fallback", service.FallbackProvider()).
		Msg("FundWise API starting")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
