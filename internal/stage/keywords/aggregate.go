package keywords

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/prompt"
)

const aggregateSystemPrompt = `You merge several papers' independently extracted search terms into one
coherent set for a systematic literature review. Respond with strict
JSON only.`

const aggregateUserTemplate = `Topic: {{.Topic}}

Per-paper extracted terms:
{{range .Papers}}
- {{.ArxivID}} ({{.Title}}): anchors={{.AnchorTerms}} terms={{.SearchTerms}}
{{end}}
Merge these into: anchor_terms (2 to 4 noun phrases shared across the papers)
and search_terms (category -> short noun phrases). Total term count across
all categories must not exceed {{.MaxQueries}}.

Return JSON: {"anchor_terms": [...], "search_terms": {"category": [...]}}.`

type aggregateTemplateData struct {
	Topic      string
	Papers     []paperExtraction
	MaxQueries int
}

type aggregateResponse struct {
	AnchorTerms []string            `json:"anchor_terms"`
	SearchTerms map[string][]string `json:"search_terms"`
}

// aggregateOrFallback invokes the aggregation LLM call; if it errors at
// the chat-call level that propagates as a stage failure, but if the
// response fails to parse, it silently falls back to a deterministic
// merge instead of failing the stage — the one documented exception to
// the pipeline's no-silent-fallback rule (§4.4 step 4, §7).
func aggregateOrFallback(
	ctx context.Context,
	chat llm.ChatService,
	modelName string,
	topic string,
	papers []paperExtraction,
	maxQueries int,
	log *zap.Logger,
) (anchorTerms []string, searchTerms map[string][]string, usedFallback bool, err error) {
	userPrompt, err := prompt.Render(aggregateUserTemplate, aggregateTemplateData{
		Topic: topic, Papers: papers, MaxQueries: maxQueries,
	})
	if err != nil {
		return nil, nil, false, err
	}

	result, err := chat.Chat(ctx, aggregateSystemPrompt, userPrompt, llm.NewChatOptionsBuilder(modelName).
		ResponseSchema(llm.SchemaFor[aggregateResponse]()).
		Build())
	if err != nil {
		return nil, nil, false, err
	}

	extracted, exErr := llm.ExtractJSON(result.Text)
	var parsed aggregateResponse
	if exErr == nil {
		exErr = json.Unmarshal([]byte(extracted), &parsed)
	}
	if exErr != nil {
		obslog.WithError(log, "keywords aggregation failed to parse, applying deterministic fallback merge", exErr, obslog.NewFields().
			Stage("keywords").Count(len(papers)))
		anchorTerms, searchTerms = deterministicFallbackMerge(papers)
		return anchorTerms, searchTerms, true, nil
	}

	return parsed.AnchorTerms, parsed.SearchTerms, false, nil
}

// deterministicFallbackMerge unions every per-paper term list, deduping
// case-insensitively but preserving first-seen order, per §4.4 step 4.
// Capping to max_queries happens uniformly in postprocess.
func deterministicFallbackMerge(papers []paperExtraction) (anchorTerms []string, searchTerms map[string][]string) {
	var allAnchors []string
	merged := map[string][]string{}
	for _, p := range papers {
		allAnchors = append(allAnchors, p.AnchorTerms...)
		for cat, terms := range p.SearchTerms {
			merged[cat] = append(merged[cat], terms...)
		}
	}

	anchorTerms = lo.UniqBy(allAnchors, strings.ToLower)
	searchTerms = make(map[string][]string, len(merged))
	categories := lo.Keys(merged)
	sort.Strings(categories)
	for _, cat := range categories {
		searchTerms[cat] = lo.UniqBy(merged[cat], strings.ToLower)
	}
	return anchorTerms, searchTerms
}
