package seed

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/prompt"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// rewriteSystemPrompt instructs the model to emit short noun-phrase
// rewrites of a topic that failed to surface any post-cutoff seed.
const rewriteSystemPrompt = `You rewrite a systematic-literature-review topic into 1 to 3 short
English noun phrases suitable for an arXiv title search, when the
original topic phrase only matched its own namesake survey. Never repeat
a phrase listed as already attempted.`

const rewriteUserTemplate = `Topic: {{.Topic}}

Previously attempted phrases (all returned zero usable candidates):
{{range .History}}
- attempt {{.Attempt}}: {{range .Phrases}}"{{.}}" {{end}}(0 candidates)
{{else}}
(none yet)
{{end}}
Return between 1 and 3 new short noun phrases, none matching a previous attempt.`

// rewritePhrases is the strict-JSON shape the rewrite prompt demands.
type rewritePhrases struct {
	Phrases []string `json:"phrases"`
}

// rewriteTemplateData is rendered into rewriteUserTemplate on each
// attempt; it carries the full accumulated history (§4.2.1: "each
// rewrite attempt's prompt must contain the accumulated history").
type rewriteTemplateData struct {
	Topic   string
	History []model.SeedRewriteAttempt
}

// searchFunc executes one arXiv query and applies the cutoff filter,
// returning the candidates remaining after cutoff and the cutoff
// candidate observed (if any). Extracted so runRewriteLoop can reuse
// Run's own query+filter step without depending on *Runner directly.
type searchFunc func(ctx context.Context, query string) (candidates []model.Paper, raw []model.Paper, cutoff *model.SeedRow, err error)

// runRewriteLoop implements SeedRewriteLoop (§4.2.1): at most
// maxAttempts iterations of prompting-querying-filtering, each attempt
// carrying the full history of prior zero-result phrases, until a
// query returns at least one post-cutoff candidate or the attempt
// budget is exhausted.
func runRewriteLoop(
	ctx context.Context,
	chat llm.ChatService,
	search searchFunc,
	topic string,
	maxAttempts int,
	modelName string,
	log *zap.Logger,
) (candidates []model.Paper, raw []model.Paper, cutoff *model.SeedRow, result model.SeedRewriteResult, err error) {
	var history []model.SeedRewriteAttempt

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		userPrompt, rerr := prompt.Render(rewriteUserTemplate, rewriteTemplateData{Topic: topic, History: history})
		if rerr != nil {
			return nil, nil, nil, result, rerr
		}

		chatResult, cerr := chat.Chat(ctx, rewriteSystemPrompt, userPrompt, llm.NewChatOptionsBuilder(modelName).
			ResponseSchema(llm.SchemaFor[rewritePhrases]()).
			Build())
		if cerr != nil {
			return nil, nil, nil, result, cerr
		}

		extracted, eerr := llm.ExtractJSON(chatResult.Text)
		if eerr != nil {
			return nil, nil, nil, result, eerr
		}
		var parsed rewritePhrases
		if perr := json.Unmarshal([]byte(extracted), &parsed); perr != nil {
			return nil, nil, nil, result, xerrors.Wrap(perr, xerrors.ParseError, "unmarshal seed rewrite phrases")
		}

		query := buildQueryFromAnchors(parsed.Phrases, ExactPhrase, ScopeTitle)
		cands, r, cut, serr := search(ctx, query)
		if serr != nil {
			return nil, nil, nil, result, serr
		}

		obslog.WithFields(log, "seed rewrite attempt", obslog.NewFields().
			Attempt(attempt).Count(len(cands)).Custom("phrases", parsed.Phrases))

		history = append(history, model.SeedRewriteAttempt{
			Attempt:     attempt,
			Phrases:     parsed.Phrases,
			ResultCount: len(cands),
		})

		if len(cands) > 0 {
			result = model.SeedRewriteResult{
				Attempt:         attempt,
				SelectedQueries: parsed.Phrases,
				History:         history,
				Exhausted:       false,
			}
			return cands, r, cut, result, nil
		}
	}

	result = model.SeedRewriteResult{
		Attempt:   maxAttempts,
		History:   history,
		Exhausted: true,
	}
	return nil, nil, nil, result, xerrors.New(xerrors.SeedRewriteExhausted, "seed rewrite exhausted all attempts without a post-cutoff candidate")
}
