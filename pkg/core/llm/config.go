package llm

import (
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config carries provider credentials, model identifiers and timeout
// bounds. It is built once at startup and passed explicitly into the
// completion service; there is no module-level provider state.
type Config struct {
	GeminiModel    string `yaml:"gemini_model"`
	OllamaURL      string `yaml:"ollama_url"`
	OllamaModel    string `yaml:"ollama_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxTokens      int    `yaml:"max_tokens"`

	// Loaded from the environment, never from the yaml file.
	GeminiAPIKey string `yaml:"-"`
}

// LoadConfig reads the yaml config file (missing file is fine, defaults
// apply) and layers environment overrides on top.
func LoadConfig(path string) Config {
	cfg := Config{
		GeminiModel:    "gemini-2.5-flash",
		OllamaURL:      "http://localhost:11434",
		OllamaModel:    "mistral",
		TimeoutSeconds: 120,
		MaxTokens:      4096,
	}

	if data, err := os.ReadFile(path); err == nil {
		yaml.Unmarshal(data, &cfg)
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.OllamaModel = v
	}
	return cfg
}

// Timeout is the per-call upper bound.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
