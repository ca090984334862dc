package anchors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantsIncludesPluralAndAcronym(t *testing.T) {
	got := Variants("Large Language Model")
	assert.Contains(t, got, "Large Language Model")
	assert.Contains(t, got, "Large Language Models")
	assert.Contains(t, got, "LLM")
}

func TestVariantsDeduplicatesCaseInsensitive(t *testing.T) {
	got := Variants("surveys")
	assert.Equal(t, []string{"surveys", "survey"}, got)
}

func TestSpeechSpokenSwap(t *testing.T) {
	assert.Equal(t, "Spoken Language Processing", SpeechSpokenSwap("Speech Language Processing"))
	assert.Equal(t, "Speech Tokens", SpeechSpokenSwap("Spoken Tokens"))
	assert.Equal(t, "", SpeechSpokenSwap("Discrete Audio Tokens"))
}

func TestAcronymRequiresAtLeastTwoCapitalizedWords(t *testing.T) {
	assert.Equal(t, "DAT", Acronym("Discrete Audio Tokens"))
	assert.Equal(t, "", Acronym("discrete audio tokens"))
	assert.Equal(t, "", Acronym("A survey"))
}
