package review

import (
	"context"
	"encoding/json"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/prompt"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

const evalSystemPrompt = `You evaluate one candidate paper's fit for a systematic literature
review against its inclusion/exclusion criteria. Score from 1 (clearly
excluded) to 5 (clearly included). Respond with strict JSON only.`

const evalUserTemplate = `Topic definition: {{.TopicDefinition}}

Inclusion criteria (required): {{range .InclusionRequired}}
- {{.Text}}{{end}}
{{range .InclusionAnyOf}}
Inclusion criteria (at least one of the following must hold): {{range .}}
- {{.Text}}{{end}}
{{end}}
Exclusion criteria (required): {{range .ExclusionRequired}}
- {{.Text}}{{end}}
{{range .ExclusionAnyOf}}
Exclusion criteria (at least one of the following must hold): {{range .}}
- {{.Text}}{{end}}
{{end}}
Candidate title: {{.Title}}

Candidate abstract: {{.Abstract}}

Return JSON: {"evaluation": 1-5, "reasoning": "one or two sentences"}.`

type evalTemplateData struct {
	TopicDefinition   string
	InclusionRequired []model.CriteriaClause
	InclusionAnyOf    [][]model.CriteriaClause
	ExclusionRequired []model.CriteriaClause
	ExclusionAnyOf    [][]model.CriteriaClause
	Title             string
	Abstract          string
}

type evalResponse struct {
	Evaluation int    `json:"evaluation"`
	Reasoning  string `json:"reasoning"`
}

// evaluateOne issues one reviewer's scoring call for one paper against
// criteria, parsing and validating the strict-JSON response (§4.7's
// per-reviewer `{evaluation, reasoning}` shape).
func evaluateOne(ctx context.Context, chat llm.ChatService, modelName, reviewer string, criteria model.CriteriaDocument, paper model.Paper) (model.ReviewerEvaluation, error) {
	userPrompt, err := prompt.Render(evalUserTemplate, evalTemplateData{
		TopicDefinition:   criteria.TopicDefinition,
		InclusionRequired: criteria.InclusionCriteria.Required,
		InclusionAnyOf:    criteria.InclusionCriteria.AnyOf,
		ExclusionRequired: criteria.ExclusionCriteria.Required,
		ExclusionAnyOf:    criteria.ExclusionCriteria.AnyOf,
		Title:             paper.Title,
		Abstract:          paper.Abstract,
	})
	if err != nil {
		return model.ReviewerEvaluation{}, err
	}

	result, err := chat.Chat(ctx, evalSystemPrompt, userPrompt, llm.NewChatOptionsBuilder(modelName).
		ResponseSchema(llm.SchemaFor[evalResponse]()).
		Build())
	if err != nil {
		return model.ReviewerEvaluation{}, err
	}

	extracted, err := llm.ExtractJSON(result.Text)
	if err != nil {
		return model.ReviewerEvaluation{}, err
	}

	var parsed evalResponse
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return model.ReviewerEvaluation{}, xerrors.Wrapf(err, xerrors.ParseError, "unmarshal %s evaluation for %q", reviewer, paper.Title)
	}
	if parsed.Evaluation < 1 || parsed.Evaluation > 5 {
		return model.ReviewerEvaluation{}, xerrors.Newf(xerrors.ValidationError, "%s evaluation %d out of [1,5] for %q", reviewer, parsed.Evaluation, paper.Title)
	}

	return model.ReviewerEvaluation{Reviewer: reviewer, Evaluation: parsed.Evaluation, Reasoning: parsed.Reasoning}, nil
}
