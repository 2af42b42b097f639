package llm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "mistral", cfg.OllamaModel)
	assert.Equal(t, 120*time.Second, cfg.Timeout())
	assert.Equal(t, 4096, cfg.MaxTokens)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini_model: gemini-1.5-pro\ntimeout_seconds: 30\n"), 0o644))

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OLLAMA_MODEL", "llama3")

	cfg := LoadConfig(path)

	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "llama3", cfg.OllamaModel, "environment wins over the file")
}

func TestTimeoutFloor(t *testing.T) {
	cfg := Config{TimeoutSeconds: 0}
	assert.Equal(t, 120*time.Second, cfg.Timeout())
}
