package keywords

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

// extractSystemPrompt instructs the model to read an attached PDF and
// surface the anchor/search terms central to it.
const extractSystemPrompt = `You extract search terms from one paper for building a systematic
literature review's search strategy. Read the attached PDF. Respond
with strict JSON only.`

const extractUserTemplate = `Topic hint: {{.TopicHint}}

Anchor variants already searched: {{range .AnchorVariants}}"{{.}}" {{end}}

Suggested categories (use these where they fit, or introduce one if none fit): {{range .Categories}}"{{.}}" {{end}}

Canonical metadata for the attached PDF:
Title: {{.Title}}
Abstract: {{.Abstract}}

Extract:
- anchor_terms: 2 to 4 noun phrases central to this paper, each appearing verbatim (case-insensitive) somewhere in the PDF.
- search_terms: a map from category label to 1 to 3 short noun phrases (each at most 3 words) useful as arXiv search queries.
- detected_keywords: an ordered list of {term, evidence} pairs, evidence being a short quoted span from the PDF that justifies the term.

Return JSON: {"title": "<the canonical title above, verbatim>", "abstract": "<the canonical abstract above, verbatim>", "anchor_terms": [...], "search_terms": {"category": [...]}, "detected_keywords": [{"term": "...", "evidence": "..."}]}.`

// paperExtraction carries one PDF's extracted terms through the
// pipeline: from extractOne, through aggregation, to the final
// model.KeywordPaper written to disk.
type paperExtraction struct {
	ArxivID          string
	Title            string
	AnchorTerms      []string
	SearchTerms      map[string][]string
	DetectedKeywords []model.DetectedKeyword
}

// extractTemplateData is rendered into extractUserTemplate per PDF.
type extractTemplateData struct {
	TopicHint      string
	AnchorVariants []string
	Categories     []string
	Title          string
	Abstract       string
}

// extractResponse is the strict-JSON shape the per-PDF extraction
// prompt demands. Title/Abstract are echoed back so the caller can
// validate them against canonical metadata verbatim (§4.4 step 3).
type extractResponse struct {
	Title            string                  `json:"title"`
	Abstract         string                  `json:"abstract"`
	AnchorTerms      []string                `json:"anchor_terms"`
	SearchTerms      map[string][]string     `json:"search_terms"`
	DetectedKeywords []model.DetectedKeyword `json:"detected_keywords"`
}

// extractOne invokes the LLM with pdfBytes attached and validates the
// echoed title/abstract against metadata before returning.
func extractOne(
	ctx context.Context,
	chat llm.ChatService,
	modelName string,
	pdfBytes []byte,
	metadata model.Paper,
	topicHint string,
	anchorVariants []string,
	categories []string,
	maxPromptTokens int,
	log *zap.Logger,
) (extractResponse, error) {
	userPrompt, err := prompt.Render(extractUserTemplate, extractTemplateData{
		TopicHint:      topicHint,
		AnchorVariants: anchorVariants,
		Categories:     categories,
		Title:          metadata.Title,
		Abstract:       metadata.Abstract,
	})
	if err != nil {
		return extractResponse{}, err
	}

	tokens, err := llm.CheckTokenBudget(extractSystemPrompt+userPrompt, maxPromptTokens)
	if err != nil {
		return extractResponse{}, err
	}
	obslog.WithFields(log, "keyword extraction prompt estimated", obslog.NewFields().
		Paper(metadata.ArxivID).Custom("prompt_tokens", tokens))

	result, err := chat.Chat(ctx, extractSystemPrompt, userPrompt, llm.NewChatOptionsBuilder(modelName).
		ResponseSchema(llm.SchemaFor[extractResponse]()).
		Attach(llm.Attachment{
			Name:     metadata.ArxivID + ".pdf",
			MIMEType: "application/pdf",
			Data:     pdfBytes,
		}).
		Build())
	if err != nil {
		return extractResponse{}, err
	}

	extracted, err := llm.ExtractJSON(result.Text)
	if err != nil {
		return extractResponse{}, err
	}

	var parsed extractResponse
	if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
		return extractResponse{}, xerrors.Wrapf(err, xerrors.ParseError, "unmarshal keyword extraction for %s", metadata.ArxivID)
	}

	if parsed.Title != metadata.Title || parsed.Abstract != metadata.Abstract {
		return extractResponse{}, xerrors.Newf(xerrors.ValidationError, "keyword extraction for %s echoed a title/abstract that does not match canonical metadata verbatim", metadata.ArxivID)
	}

	return parsed, nil
}
