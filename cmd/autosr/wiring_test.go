package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/config"
)

func TestAlternateProviderPicksFirstOtherConfiguredKey(t *testing.T) {
	a := &app{cfg: &config.Config{AnthropicAPIKey: "k1", GeminiAPIKey: "k2"}}
	assert.Equal(t, "anthropic", a.alternateProvider("openai"))
}

func TestAlternateProviderSkipsPrimaryEvenIfItsKeyIsSet(t *testing.T) {
	a := &app{cfg: &config.Config{OpenAIAPIKey: "k1", GeminiAPIKey: "k2"}}
	assert.Equal(t, "gemini", a.alternateProvider("openai"))
}

func TestAlternateProviderFallsBackToPrimaryWhenNoOtherKeyConfigured(t *testing.T) {
	a := &app{cfg: &config.Config{OpenAIAPIKey: "k1"}}
	assert.Equal(t, "openai", a.alternateProvider("openai"))
}

func TestHasKeyFor(t *testing.T) {
	a := &app{cfg: &config.Config{OpenAIAPIKey: "k1"}}
	assert.True(t, a.hasKeyFor("openai"))
	assert.False(t, a.hasKeyFor("anthropic"))
	assert.False(t, a.hasKeyFor("unknown-provider"))
}
