package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingKeyFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SEMANTIC_SCHOLAR_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, float64(3), cfg.SemanticScholarMinIntervalSeconds())
}

func TestSemanticScholarIntervalWithKey(t *testing.T) {
	cfg := &Config{SemanticScholarAPIKey: "abc"}
	assert.Equal(t, float64(1), cfg.SemanticScholarMinIntervalSeconds())
}
