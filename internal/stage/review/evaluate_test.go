package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
)

// capturingChat records the rendered prompt it was invoked with.
type capturingChat struct {
	userPrompt string
}

func (c *capturingChat) Provider() string { return "fake" }

func (c *capturingChat) Chat(_ context.Context, _, userPrompt string, _ llm.ChatOptions) (llm.ChatResult, error) {
	c.userPrompt = userPrompt
	return llm.ChatResult{Text: `{"evaluation": 3, "reasoning": "because"}`}, nil
}

func TestEvaluateOneRendersAnyOfGroups(t *testing.T) {
	chat := &capturingChat{}
	criteria := model.CriteriaDocument{
		TopicDefinition: "discrete audio tokens",
		InclusionCriteria: model.CriteriaGroup{
			Required: []model.CriteriaClause{{Text: "studies audio generation"}},
			AnyOf: [][]model.CriteriaClause{
				{{Text: "uses a transformer"}, {Text: "uses a diffusion model"}},
			},
		},
		ExclusionCriteria: model.CriteriaGroup{
			Required: []model.CriteriaClause{{Text: "is not a survey"}},
			AnyOf: [][]model.CriteriaClause{
				{{Text: "predates 2018"}, {Text: "lacks an evaluation section"}},
			},
		},
	}

	_, err := evaluateOne(context.Background(), chat, "fake-model", "reviewer-nano", criteria, cleanPaper())
	require.NoError(t, err)

	assert.Contains(t, chat.userPrompt, "uses a transformer")
	assert.Contains(t, chat.userPrompt, "uses a diffusion model")
	assert.Contains(t, chat.userPrompt, "predates 2018")
	assert.Contains(t, chat.userPrompt, "lacks an evaluation section")
}
