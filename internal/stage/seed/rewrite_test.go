package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

// fakeChat returns a canned phrases response on each call, in order.
type fakeChat struct {
	responses []string
	calls     int
	prompts   []string
}

func (f *fakeChat) Provider() string { return "fake" }

func (f *fakeChat) Chat(ctx context.Context, systemPrompt, userPrompt string, opts llm.ChatOptions) (llm.ChatResult, error) {
	f.prompts = append(f.prompts, userPrompt)
	resp := f.responses[f.calls]
	f.calls++
	return llm.ChatResult{Text: resp}, nil
}

func phrasesResponse(phrases ...string) string {
	body := `{"phrases":[`
	for i, p := range phrases {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf("%q", p)
	}
	return body + "]}"
}

func TestRunRewriteLoopSucceedsOnSecondAttempt(t *testing.T) {
	chat := &fakeChat{responses: []string{
		phrasesResponse("wrong phrase"),
		phrasesResponse("discrete audio tokens"),
	}}

	calls := 0
	search := func(ctx context.Context, query string) ([]model.Paper, []model.Paper, *model.SeedRow, error) {
		calls++
		if calls == 1 {
			return nil, nil, nil, nil
		}
		papers := []model.Paper{{ArxivID: "new", Title: "A Different Survey"}}
		return papers, papers, nil, nil
	}

	candidates, raw, _, result, err := runRewriteLoop(context.Background(), chat, search, "Discrete Audio Tokens", 3, "fake-model", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "new", candidates[0].ArxivID)
	assert.Len(t, raw, 1)
	assert.Equal(t, 2, result.Attempt)
	assert.False(t, result.Exhausted)
	assert.Len(t, result.History, 2)
	assert.Equal(t, 0, result.History[0].ResultCount)
	assert.Equal(t, 1, result.History[1].ResultCount)

	// The second attempt's prompt must carry the first attempt's history
	// so the model doesn't repeat the same failed phrase.
	assert.Contains(t, chat.prompts[1], "wrong phrase")
}

func TestRunRewriteLoopExhausts(t *testing.T) {
	chat := &fakeChat{responses: []string{
		phrasesResponse("a"),
		phrasesResponse("b"),
	}}
	search := func(ctx context.Context, query string) ([]model.Paper, []model.Paper, *model.SeedRow, error) {
		return nil, nil, nil, nil
	}

	_, _, _, result, err := runRewriteLoop(context.Background(), chat, search, "Discrete Audio Tokens", 2, "fake-model", zap.NewNop())
	require.Error(t, err)
	assert.True(t, result.Exhausted)
	assert.Equal(t, 2, result.Attempt)
	assert.Len(t, result.History, 2)
}
