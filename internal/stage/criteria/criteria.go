// Package criteria implements the Criteria Stage: a two-phase LLM
// pipeline that synthesizes a topic's inclusion/exclusion criteria,
// optionally grounded in a seed PDF's background (§4.6).
//
// Grounded on the Workspace & Stage Runner contract in internal/workspace
// and on internal/llm.ChatService's WebSearchEnabled option for the
// research phase.
package criteria

import (
	"context"
	"encoding/json"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/pdfreader"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/prompt"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

const stageName = "criteria"

// Mode selects how the Criteria Stage grounds its research phase.
type Mode string

const (
	ModeWeb    Mode = "web"
	ModePDFWeb Mode = "pdf+web"
)

// Options configures one Criteria Stage run (§4.6).
type Options struct {
	Mode        Mode
	Model       string
	RecencyHint string
	SeedPDFPath string // required when Mode == ModePDFWeb

	// MaxPromptTokens bounds the pdf+web background-extraction prompt's
	// estimated token count (cl100k_base); 0 disables the check.
	MaxPromptTokens int
}

// DefaultOptions returns the Criteria Stage's documented defaults.
func DefaultOptions() Options {
	return Options{Mode: ModeWeb, MaxPromptTokens: 12000}
}

// Runner bundles the Criteria Stage's external dependencies.
type Runner struct {
	Chat   llm.ChatService
	Reader *pdfreader.Reader
	Log    *zap.Logger
}

// New constructs a Runner.
func New(chat llm.ChatService, reader *pdfreader.Reader, log *zap.Logger) *Runner {
	return &Runner{Chat: chat, Reader: reader, Log: log}
}

// Run executes the Criteria Stage against ws, per §4.6's contract.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	criteriaPath := filepath.Join(ws.CriteriaDir(), "criteria.json")
	guardResult, shouldRun := workspace.Guard(stageName, criteriaPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	if opts.Mode != ModeWeb && opts.Mode != ModePDFWeb {
		err := xerrors.Newf(xerrors.ConfigError, "unknown criteria stage mode %q", opts.Mode)
		return model.Failed(stageName, err), err
	}
	if opts.Mode == ModePDFWeb && opts.SeedPDFPath == "" {
		err := xerrors.New(xerrors.ConfigError, "pdf+web mode requires a seed pdf path")
		return model.Failed(stageName, err), err
	}

	var pdfBackground string
	if opts.Mode == ModePDFWeb {
		background, err := r.extractPDFBackground(ctx, opts)
		if err != nil {
			return model.Failed(stageName, err), err
		}
		pdfBackground = background
	}

	notes, err := r.research(ctx, ws.Topic, opts, pdfBackground)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	doc, err := r.format(ctx, ws.Topic, notes, opts.Model)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	hash, err := doc.Hash()
	if err != nil {
		return model.Failed(stageName, xerrors.Wrap(err, xerrors.ParseError, "compute criteria hash")), err
	}

	if err := workspace.WriteJSON(criteriaPath, doc); err != nil {
		return model.Failed(stageName, err), err
	}
	hashPath := filepath.Join(ws.CriteriaDir(), "criteria_hash.txt")
	if err := workspace.WriteFileAtomic(hashPath, []byte(hash)); err != nil {
		return model.Failed(stageName, err), err
	}

	obslog.WithFields(r.Log, "criteria stage complete", obslog.NewFields().
		Stage(stageName).Topic(ws.Topic).Custom("mode", string(opts.Mode)))

	metrics := map[string]any{
		"mode":               string(opts.Mode),
		"required_inclusion": len(doc.InclusionCriteria.Required),
		"required_exclusion": len(doc.ExclusionCriteria.Required),
		"criteria_hash":      hash,
	}
	return model.Completed(stageName, []string{criteriaPath, hashPath}, metrics), nil
}

// extractPDFBackground loads opts.SeedPDFPath and asks the model for a
// short background summary to seed the research phase, per §4.6's
// pdf+web mode.
func (r *Runner) extractPDFBackground(ctx context.Context, opts Options) (string, error) {
	pdfBytes, err := r.Reader.Load(opts.SeedPDFPath)
	if err != nil {
		return "", err
	}

	tokens, err := llm.CheckTokenBudget(backgroundUserPrompt, opts.MaxPromptTokens)
	if err != nil {
		return "", err
	}
	obslog.WithFields(r.Log, "criteria pdf background prompt estimated", obslog.NewFields().
		Stage(stageName).Custom("prompt_tokens", tokens))

	result, err := r.Chat.Chat(ctx, backgroundSystemPrompt, backgroundUserPrompt, llm.NewChatOptionsBuilder(opts.Model).
		Attach(llm.Attachment{Name: "seed.pdf", MIMEType: "application/pdf", Data: pdfBytes}).
		Build())
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// research runs the web-search phase (§4.6 phase a): free-text notes,
// no response schema, web_search enabled.
func (r *Runner) research(ctx context.Context, topic string, opts Options, pdfBackground string) (string, error) {
	userPrompt, err := prompt.Render(researchUserTemplate, researchTemplateData{
		Topic:         topic,
		RecencyHint:   opts.RecencyHint,
		PDFBackground: pdfBackground,
	})
	if err != nil {
		return "", err
	}

	result, err := r.Chat.Chat(ctx, researchSystemPrompt, userPrompt, llm.NewChatOptionsBuilder(opts.Model).
		WebSearch(true).
		Build())
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// format runs the formatter phase (§4.6 phase b): strict JSON, no
// tools, enforcing the no-time-clause/no-literal-match/verbatim-
// topic_definition-echo rules in the prompt itself.
func (r *Runner) format(ctx context.Context, topic, notes, modelName string) (model.CriteriaDocument, error) {
	userPrompt, err := prompt.Render(formatterUserTemplate, formatterTemplateData{
		Topic: topic,
		Notes: notes,
	})
	if err != nil {
		return model.CriteriaDocument{}, err
	}

	result, err := r.Chat.Chat(ctx, formatterSystemPrompt, userPrompt, llm.NewChatOptionsBuilder(modelName).
		ResponseSchema(llm.SchemaFor[model.CriteriaDocument]()).
		Build())
	if err != nil {
		return model.CriteriaDocument{}, err
	}

	extracted, err := llm.ExtractJSON(result.Text)
	if err != nil {
		return model.CriteriaDocument{}, err
	}

	var doc model.CriteriaDocument
	if err := json.Unmarshal([]byte(extracted), &doc); err != nil {
		return model.CriteriaDocument{}, xerrors.Wrap(err, xerrors.ParseError, "unmarshal criteria document")
	}

	if doc.TopicDefinition == "" {
		return model.CriteriaDocument{}, xerrors.New(xerrors.ValidationError, "criteria document has an empty topic_definition")
	}
	if len(doc.InclusionCriteria.Required) == 0 {
		return model.CriteriaDocument{}, xerrors.New(xerrors.ValidationError, "criteria document has no required inclusion clauses")
	}
	if doc.InclusionCriteria.Required[0].Text != doc.TopicDefinition {
		return model.CriteriaDocument{}, xerrors.New(xerrors.ValidationError, "inclusion_criteria.required[0] does not quote topic_definition verbatim")
	}

	return doc, nil
}
