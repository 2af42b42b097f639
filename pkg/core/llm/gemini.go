package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider is the primary provider, backed by the Gemini API via
// the official GenAI SDK. Output is requested as application/json at
// temperature 0.2 so replies are near-deterministic.
type GeminiProvider struct {
	APIKey string
	Model  string
}

var _ Provider = (*GeminiProvider)(nil)

func NewGeminiProvider(cfg Config) *GeminiProvider {
	return &GeminiProvider{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}
}

func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("gemini(%s)", p.Model)
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, systemPrompt string, maxTokens int) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, p.Model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
