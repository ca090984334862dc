// Package config loads process configuration from .env plus the
// environment, following the repo-root-dotenv convention used across
// the retrieval pack's CLI tools rather than a dedicated flags/env
// library — mirrored here in a plain struct, matching the teacher's own
// preference for small typed config structs over reflection-heavy
// binding.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// Config holds every environment-sourced setting the pipeline needs.
type Config struct {
	OpenAIAPIKey         string
	AnthropicAPIKey      string
	GeminiAPIKey         string
	SemanticScholarAPIKey string
	OpenAlexEmail        string
}

// Load reads envPath (if it exists) into the process environment via
// godotenv, then builds Config from the environment. envPath may be
// empty, in which case only the ambient environment is consulted.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, xerrors.Wrap(err, xerrors.ConfigError, "load .env file")
			}
		}
	}

	cfg := &Config{
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		SemanticScholarAPIKey: os.Getenv("SEMANTIC_SCHOLAR_API_KEY"),
		OpenAlexEmail:         os.Getenv("OPENALEX_EMAIL"),
	}

	if cfg.OpenAIAPIKey == "" && cfg.AnthropicAPIKey == "" && cfg.GeminiAPIKey == "" {
		return nil, xerrors.New(xerrors.ConfigError, "no LLM provider API key configured (need one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY)")
	}

	return cfg, nil
}

// SemanticScholarMinIntervalSeconds returns the per-call minimum spacing the
// concurrency model requires for Semantic Scholar: 1s with an API key,
// 3s without (§5 CONCURRENCY & RESOURCE MODEL).
func (c *Config) SemanticScholarMinIntervalSeconds() float64 {
	if c.SemanticScholarAPIKey != "" {
		return 1
	}
	return 3
}
