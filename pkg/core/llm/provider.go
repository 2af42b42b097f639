// Package llm provides the completion service: concrete providers plus a
// primary/fallback wrapper that enforces the JSON output contract.
package llm

import "context"

// Provider is a single text-generation backend. Implementations request
// JSON-constrained output at low sampling temperature and return the raw
// response text; decoding and contract enforcement happen in Service.
type Provider interface {
	// Name identifies the provider in logs and failure messages.
	Name() string
	Generate(ctx context.Context, prompt string, systemPrompt string, maxTokens int) (string, error)
}
