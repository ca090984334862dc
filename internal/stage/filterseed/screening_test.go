package filterseed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
)

// fakeScreeningChat returns a fixed response regardless of prompt, and
// records the system prompt it was called with so tests can assert
// strict vs lenient selection.
type fakeScreeningChat struct {
	response      string
	systemPrompts []string
}

func (f *fakeScreeningChat) Provider() string { return "fake" }

func (f *fakeScreeningChat) Chat(ctx context.Context, systemPrompt, userPrompt string, opts llm.ChatOptions) (llm.ChatResult, error) {
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	return llm.ChatResult{Text: f.response}, nil
}

func TestScreenOneParsesYesDecision(t *testing.T) {
	chat := &fakeScreeningChat{response: `{"decision":"yes","reason":"相关","confidence":0.9}`}
	resp, err := screenOne(context.Background(), chat, "fake-model", false, screeningTemplateData{
		Topic: "Discrete Audio Tokens", Title: "A Survey", Abstract: "abstract text",
	})
	require.NoError(t, err)
	assert.Equal(t, "yes", resp.Decision)
	assert.Equal(t, 0.9, resp.Confidence)
	assert.Contains(t, chat.systemPrompts[0], "survey")
}

func TestScreenOneUsesLenientPrompt(t *testing.T) {
	chat := &fakeScreeningChat{response: `{"decision":"no","reason":"不相关","confidence":0.2}`}
	_, err := screenOne(context.Background(), chat, "fake-model", true, screeningTemplateData{Title: "X", Abstract: "Y"})
	require.NoError(t, err)
	assert.Contains(t, chat.systemPrompts[0], "substantially relevant")
}

func TestScreenOneRejectsInvalidDecision(t *testing.T) {
	chat := &fakeScreeningChat{response: `{"decision":"maybe","reason":"x","confidence":0.5}`}
	_, err := screenOne(context.Background(), chat, "fake-model", false, screeningTemplateData{Title: "X", Abstract: "Y"})
	require.Error(t, err)
}

func TestScreenOneRejectsOutOfRangeConfidence(t *testing.T) {
	chat := &fakeScreeningChat{response: `{"decision":"yes","reason":"x","confidence":1.5}`}
	_, err := screenOne(context.Background(), chat, "fake-model", false, screeningTemplateData{Title: "X", Abstract: "Y"})
	require.Error(t, err)
}

func TestScreenOneRejectsUnparsableJSON(t *testing.T) {
	chat := &fakeScreeningChat{response: `not json at all`}
	_, err := screenOne(context.Background(), chat, "fake-model", false, screeningTemplateData{Title: "X", Abstract: "Y"})
	require.Error(t, err)
}
