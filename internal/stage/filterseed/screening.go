package filterseed

import (
	"context"
	"encoding/json"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/prompt"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// strictSystemPrompt requires the survey/review nature of the paper to
// hold; lenientSystemPrompt drops that requirement for the fallback pass
// (§4.3's "survey-requirement relaxed").
const strictSystemPrompt = `You are screening candidate papers for a systematic literature review.
Decide yes only if the paper is itself a survey, review, overview,
tutorial, or mapping/scoping study of the given topic. Respond with
strict JSON only.`

const lenientSystemPrompt = `You are screening candidate papers for a systematic literature review.
Decide yes if the paper is substantially relevant to the given topic,
even if it is not itself a survey or review. Respond with strict JSON
only.`

const screeningUserTemplate = `Topic: {{.Topic}}

Title: {{.Title}}

Abstract: {{.Abstract}}
{{if .KeywordsHint}}
Known keywords: {{.KeywordsHint}}
{{end}}
Return JSON: {"decision": "yes" or "no", "reason": a one-sentence reason written in Chinese, "confidence": a float between 0 and 1}.`

// screeningTemplateData is rendered into screeningUserTemplate.
type screeningTemplateData struct {
	Topic        string
	Title        string
	Abstract     string
	KeywordsHint string
}

// screeningResponse is the strict-JSON shape the filter-seed prompt
// demands (§4.3).
type screeningResponse struct {
	Decision   string  `json:"decision"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// screenOne renders the filter-seed prompt for one paper and calls chat,
// selecting the strict or lenient system prompt per lenient. A parse or
// validation failure returns an error with no fallback value — per
// §4.3, a screening failure for one paper is fatal to the whole pass.
func screenOne(ctx context.Context, chat llm.ChatService, modelName string, lenient bool, data screeningTemplateData) (screeningResponse, error) {
	userPrompt, err := prompt.Render(screeningUserTemplate, data)
	if err != nil {
		return screeningResponse{}, err
	}

	systemPrompt := strictSystemPrompt
	if lenient {
		systemPrompt = lenientSystemPrompt
	}

	result, err := chat.Chat(ctx, systemPrompt, userPrompt, llm.NewChatOptionsBuilder(modelName).
		ResponseSchema(llm.SchemaFor[screeningResponse]()).
		Build())
	if err != nil {
		return screeningResponse{}, err
	}

	extracted, err := llm.ExtractJSON(result.Text)
	if err != nil {
		return screeningResponse{}, err
	}

	var parsed screeningResponse
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return screeningResponse{}, xerrors.Wrapf(err, xerrors.ParseError, "unmarshal screening decision for %q", data.Title)
	}

	if parsed.Decision != "yes" && parsed.Decision != "no" {
		return screeningResponse{}, xerrors.Newf(xerrors.ValidationError, "screening decision %q is neither yes nor no for %q", parsed.Decision, data.Title)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return screeningResponse{}, xerrors.Newf(xerrors.ValidationError, "screening confidence %v out of [0,1] for %q", parsed.Confidence, data.Title)
	}

	return parsed, nil
}
