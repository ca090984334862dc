// Package keywords implements the Keywords Stage: per-PDF LLM
// extraction of anchor/search terms from the screened seed papers,
// aggregation across papers, and normalization into the KeywordsPayload
// that seeds the Harvest Stage's query plan (§4.4).
//
// Grounded on the Workspace & Stage Runner contract in internal/workspace
// and on internal/concurrency.MapBounded for bounded per-PDF LLM fan-out,
// the same shape the filter-seed stage uses for its own fan-out.
package keywords

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/anchors"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/concurrency"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/pdfreader"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

const stageName = "keywords"

// defaultCategories seeds the extraction prompt's category suggestions
// when the caller supplies none. The Keywords Stage is free to
// introduce categories outside this list (§4.4 step 3); it exists only
// to bias the model toward labels the Harvest Stage can reuse.
var defaultCategories = []string{
	"architecture", "dataset", "evaluation", "application", "method",
}

// Options configures one Keywords Stage run (§4.4).
type Options struct {
	Model      string
	MaxPDFs    int
	MaxQueries int
	TopicHint  string
	Categories []string

	MaxConcurrent int

	// MaxPromptTokens bounds each per-PDF extraction prompt's estimated
	// token count (cl100k_base); 0 disables the check.
	MaxPromptTokens int
}

// DefaultOptions returns the Keywords Stage's documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxPDFs:         20,
		MaxQueries:      40,
		Categories:      defaultCategories,
		MaxConcurrent:   4,
		MaxPromptTokens: 12000,
	}
}

// Runner bundles the Keywords Stage's external dependencies.
type Runner struct {
	Chat   llm.ChatService
	Arxiv  *source.ArxivSource
	Reader *pdfreader.Reader
	Log    *zap.Logger
}

// New constructs a Runner.
func New(chat llm.ChatService, arxiv *source.ArxivSource, reader *pdfreader.Reader, log *zap.Logger) *Runner {
	return &Runner{Chat: chat, Arxiv: arxiv, Reader: reader, Log: log}
}

// Run executes the Keywords Stage against ws, per §4.4's contract.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	outputPath := filepath.Join(ws.KeywordsDir(), "keywords.json")
	guardResult, shouldRun := workspace.Guard(stageName, outputPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	if err := workspace.RequireUpstream(ws.SeedTAFilteredDir()); err != nil {
		return model.Failed(stageName, err), err
	}

	pdfPaths, err := gatherPDFs(ws.SeedTAFilteredDir(), opts.MaxPDFs)
	if err != nil {
		return model.Failed(stageName, err), err
	}
	if len(pdfPaths) == 0 {
		err := xerrors.New(xerrors.UpstreamMissing, "no screened-in pdfs to extract keywords from")
		return model.Failed(stageName, err), err
	}

	anchorVariants := anchors.Variants(ws.Topic)
	topicHint := opts.TopicHint
	if topicHint == "" {
		topicHint = ws.Topic
	}
	categories := opts.Categories
	if len(categories) == 0 {
		categories = defaultCategories
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	extractions, err := concurrency.MapBounded(ctx, pdfPaths, maxConcurrent, func(ctx context.Context, path string) (paperExtraction, error) {
		return r.extractFromPath(ctx, path, opts.Model, topicHint, anchorVariants, categories, opts.MaxPromptTokens)
	})
	if err != nil {
		return model.Failed(stageName, err), err
	}

	var anchorTerms []string
	var searchTerms map[string][]string
	fallbackInvoked := false

	if len(extractions) == 1 {
		anchorTerms = extractions[0].AnchorTerms
		searchTerms = extractions[0].SearchTerms
	} else {
		anchorTerms, searchTerms, fallbackInvoked, err = aggregateOrFallback(ctx, r.Chat, opts.Model, ws.Topic, extractions, opts.MaxQueries, r.Log)
		if err != nil {
			return model.Failed(stageName, err), err
		}
	}

	anchorTerms = normalizeAnchorTerms(anchorTerms)
	searchTerms = normalizeSearchTerms(searchTerms, opts.MaxQueries)

	papers := make([]model.KeywordPaper, 0, len(extractions))
	for _, e := range extractions {
		papers = append(papers, model.KeywordPaper{
			ArxivID:          e.ArxivID,
			Title:            e.Title,
			DetectedKeywords: e.DetectedKeywords,
		})
	}

	payload := model.KeywordsPayload{
		Topic:       ws.Topic,
		AnchorTerms: anchorTerms,
		SearchTerms: searchTerms,
		Papers:      papers,
	}

	if err := workspace.WriteJSON(outputPath, payload); err != nil {
		return model.Failed(stageName, err), err
	}

	obslog.WithFields(r.Log, "keywords stage complete", obslog.NewFields().
		Stage(stageName).Topic(ws.Topic).Count(payload.SearchTermCount()).
		Custom("fallback_invoked", fallbackInvoked))

	metrics := map[string]any{
		"pdfs_processed":   len(extractions),
		"anchor_terms":     len(anchorTerms),
		"search_terms":     payload.SearchTermCount(),
		"fallback_invoked": fallbackInvoked,
	}
	return model.Completed(stageName, []string{outputPath}, metrics), nil
}

// extractFromPath infers path's arXiv ID, fetches its canonical
// metadata, loads its bytes, and runs the per-PDF extraction call.
func (r *Runner) extractFromPath(ctx context.Context, path, modelName, topicHint string, anchorVariants, categories []string, maxPromptTokens int) (paperExtraction, error) {
	id, ok := source.InferArxivID(filepath.Base(path))
	if !ok {
		return paperExtraction{}, xerrors.Newf(xerrors.ValidationError, "cannot infer arxiv id from filename %s", filepath.Base(path))
	}

	metadata, err := r.Arxiv.Get(ctx, id)
	if err != nil {
		return paperExtraction{}, err
	}

	pdfBytes, err := r.Reader.Load(path)
	if err != nil {
		return paperExtraction{}, err
	}

	resp, err := extractOne(ctx, r.Chat, modelName, pdfBytes, metadata, topicHint, anchorVariants, categories, maxPromptTokens, r.Log)
	if err != nil {
		return paperExtraction{}, err
	}

	return paperExtraction{
		ArxivID:          metadata.ArxivID,
		Title:            metadata.Title,
		AnchorTerms:      resp.AnchorTerms,
		SearchTerms:      resp.SearchTerms,
		DetectedKeywords: resp.DetectedKeywords,
	}, nil
}

// gatherPDFs lists dir's PDF files in sorted order, capped at max.
func gatherPDFs(dir string, max int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, xerrors.Wrap(err, xerrors.ConfigError, "list ta_filtered directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if max > 0 && len(names) > max {
		names = names[:max]
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
