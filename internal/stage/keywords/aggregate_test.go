package keywords

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
)

type fakeAggregateChat struct {
	response string
}

func (f *fakeAggregateChat) Provider() string { return "fake" }

func (f *fakeAggregateChat) Chat(ctx context.Context, systemPrompt, userPrompt string, opts llm.ChatOptions) (llm.ChatResult, error) {
	return llm.ChatResult{Text: f.response}, nil
}

func TestAggregateOrFallbackParsesLLMMerge(t *testing.T) {
	chat := &fakeAggregateChat{response: `{"anchor_terms": ["discrete audio tokens"], "search_terms": {"method": ["tokenization"]}}`}
	papers := []paperExtraction{
		{ArxivID: "2301.00001", Title: "A", AnchorTerms: []string{"discrete audio tokens"}, SearchTerms: map[string][]string{"method": {"tokenization"}}},
	}

	anchorTerms, searchTerms, usedFallback, err := aggregateOrFallback(context.Background(), chat, "fake-model", "topic", papers, 40, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, usedFallback)
	assert.Equal(t, []string{"discrete audio tokens"}, anchorTerms)
	assert.Equal(t, []string{"tokenization"}, searchTerms["method"])
}

func TestAggregateOrFallbackAppliesDeterministicMergeOnParseFailure(t *testing.T) {
	chat := &fakeAggregateChat{response: "not json"}
	papers := []paperExtraction{
		{ArxivID: "2301.00001", Title: "A", AnchorTerms: []string{"discrete audio tokens"}, SearchTerms: map[string][]string{"method": {"tokenization"}}},
		{ArxivID: "2301.00002", Title: "B", AnchorTerms: []string{"Discrete Audio Tokens"}, SearchTerms: map[string][]string{"method": {"quantization"}, "dataset": {"librispeech"}}},
	}

	anchorTerms, searchTerms, usedFallback, err := aggregateOrFallback(context.Background(), chat, "fake-model", "topic", papers, 40, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.Equal(t, []string{"discrete audio tokens"}, anchorTerms)
	assert.ElementsMatch(t, []string{"tokenization", "quantization"}, searchTerms["method"])
	assert.Equal(t, []string{"librispeech"}, searchTerms["dataset"])
}

func TestDeterministicFallbackMergeDedupesCaseInsensitive(t *testing.T) {
	papers := []paperExtraction{
		{AnchorTerms: []string{"Audio Tokens"}, SearchTerms: map[string][]string{"method": {"ASR", "asr"}}},
		{AnchorTerms: []string{"audio tokens"}, SearchTerms: map[string][]string{"method": {"TTS"}}},
	}

	anchorTerms, searchTerms := deterministicFallbackMerge(papers)
	assert.Equal(t, []string{"Audio Tokens"}, anchorTerms)
	assert.Equal(t, []string{"ASR", "TTS"}, searchTerms["method"])
}
