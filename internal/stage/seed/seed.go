// Package seed implements the Seed Stage: the first stage of the
// pipeline, which discovers an initial set of candidate survey papers
// for a topic from arXiv, applies the same-name cutoff rule, and
// downloads the top-K most recent pre-cutoff PDFs — falling back to
// SeedRewriteLoop when the initial query yields nothing but the topic's
// own namesake survey.
//
// Grounded on the Workspace & Stage Runner contract in
// internal/workspace (Guard/WriteJSON/atomic writes) and on
// internal/source.ArxivSource for the external call surface.
package seed

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/concurrency"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/textnorm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
	"github.com/Sologa/AUTOSR-SDSE-sub001/pkg/dataunit"
)

const stageName = "seed"

// Options configures one Seed Stage run (§4.2 Inputs).
type Options struct {
	AnchorMode             AnchorMode
	Scope                  Scope
	MaxResults             int
	PageSize               int
	DownloadTopK           int
	SeedRewriteEnabled     bool
	SeedRewriteMaxAttempts int

	// Model is the LLM model name used for seed-rewrite phrase
	// generation (§4.2.1). Unused unless the rewrite loop runs.
	Model string
}

// DefaultOptions returns the Seed Stage's documented defaults.
func DefaultOptions() Options {
	return Options{
		AnchorMode:             TokenAnd,
		Scope:                  ScopeTitle,
		MaxResults:             200,
		PageSize:               50,
		DownloadTopK:           5,
		SeedRewriteEnabled:     true,
		SeedRewriteMaxAttempts: 3,
	}
}

// Runner bundles the Seed Stage's external dependencies.
type Runner struct {
	Arxiv *source.ArxivSource
	Chat  llm.ChatService
	Log   *zap.Logger
}

// New constructs a Runner.
func New(arxiv *source.ArxivSource, chat llm.ChatService, log *zap.Logger) *Runner {
	return &Runner{Arxiv: arxiv, Chat: chat, Log: log}
}

// Run executes the Seed Stage against ws, per §4.2's 7-step algorithm.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	selectionPath := filepath.Join(ws.SeedQueriesDir(), "seed_selection.json")
	guardResult, shouldRun := workspace.Guard(stageName, selectionPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	query := BuildQuery(ws.Topic, opts.AnchorMode, opts.Scope)
	raw, err := r.paginatedSearch(ctx, query, opts)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	candidates, cutoff, cutoffDate := applyCutoff(raw, ws.Topic)
	selectedQueries := []string{query}
	var rewrite *model.SeedRewriteResult

	if len(candidates) == 0 {
		if !opts.SeedRewriteEnabled {
			err := xerrors.New(xerrors.CutoffRemovedAll, "no candidates survived the cutoff filter and seed-rewrite is disabled")
			return model.Failed(stageName, err), err
		}

		// The cutoff date, once established from the initial query's
		// namesake match, carries forward unchanged into every rewrite
		// attempt rather than being re-derived per attempt — a rewritten
		// query is not expected to re-surface the namesake paper, but the
		// cutoff it already fixed still governs which rewritten results
		// count as candidates.
		searchAndFilter := func(ctx context.Context, q string) ([]model.Paper, []model.Paper, *model.SeedRow, error) {
			page, err := r.paginatedSearch(ctx, q, opts)
			if err != nil {
				return nil, nil, nil, err
			}
			pool, sameNameRow := excludeNamesake(page, ws.Topic)
			cands := filterByCutoff(pool, cutoffDate)
			return cands, page, sameNameRow, nil
		}

		rewrittenCandidates, rewrittenRaw, rewrittenCutoff, rewriteResult, rerr := runRewriteLoop(
			ctx, r.Chat, searchAndFilter, ws.Topic, opts.SeedRewriteMaxAttempts, opts.Model, r.Log)
		rewrite = &rewriteResult
		if writeErr := workspace.WriteJSON(filepath.Join(ws.SeedQueriesDir(), "seed_rewrite.json"), rewriteResult); writeErr != nil {
			return model.Failed(stageName, writeErr), writeErr
		}
		if rerr != nil {
			return model.Failed(stageName, rerr), rerr
		}

		candidates = rewrittenCandidates
		raw = append(raw, rewrittenRaw...)
		if cutoff == nil {
			cutoff = rewrittenCutoff
		}
		selectedQueries = rewriteResult.SelectedQueries
	}

	sort.Slice(candidates, func(i, j int) bool {
		return publishedAfter(candidates[i].PublishedDate, candidates[j].PublishedDate)
	})

	topK := candidates
	if opts.DownloadTopK > 0 && len(topK) > opts.DownloadTopK {
		topK = topK[:opts.DownloadTopK]
	}

	downloadResults := r.downloadAll(ctx, topK, ws.SeedArxivRawDir())

	selection := buildSelection(raw, candidates, topK, cutoff, cutoffDate, selectedQueries)

	outputs := []string{
		filepath.Join(ws.SeedQueriesDir(), "arxiv.json"),
		selectionPath,
		filepath.Join(ws.SeedQueriesDir(), "download_results.json"),
	}
	if rewrite != nil {
		outputs = append(outputs, filepath.Join(ws.SeedQueriesDir(), "seed_rewrite.json"))
	}

	if err := workspace.WriteJSON(outputs[0], raw); err != nil {
		return model.Failed(stageName, err), err
	}
	if err := workspace.WriteJSON(selectionPath, selection); err != nil {
		return model.Failed(stageName, err), err
	}
	if err := workspace.WriteJSON(outputs[2], downloadResults); err != nil {
		return model.Failed(stageName, err), err
	}

	obslog.WithFields(r.Log, "seed stage complete", obslog.NewFields().
		Stage(stageName).Topic(ws.Topic).Count(len(selection.Rows)))

	metrics := map[string]any{
		"records_total":        selection.RecordsTotal,
		"records_after_filter": selection.RecordsAfterFilter,
		"downloaded":           downloadResults.Succeeded,
	}
	return model.Completed(stageName, outputs, metrics), nil
}

// paginatedSearch executes query against arXiv, paging in PageSize
// chunks until MaxResults records have been collected or a page
// returns fewer than PageSize entries.
func (r *Runner) paginatedSearch(ctx context.Context, query string, opts Options) ([]model.Paper, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = opts.MaxResults
	}

	var all []model.Paper
	for start := 0; start < opts.MaxResults; start += pageSize {
		remaining := opts.MaxResults - start
		size := pageSize
		if remaining < size {
			size = remaining
		}
		page, err := r.Arxiv.Search(ctx, source.SearchQuery{Query: query, Start: start, MaxResults: size})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			break
		}
	}
	return all, nil
}

// applyCutoff implements §4.2 steps 3-4: it pulls the topic-namesake
// record (if any) out of raw, derives the cutoff date from its
// published date, and returns the remaining records that pass the
// cutoff filter alongside the cutoff row and the derived cutoff date.
func applyCutoff(raw []model.Paper, topic string) (candidates []model.Paper, cutoffRow *model.SeedRow, cutoffDate *time.Time) {
	var pool []model.Paper
	pool, cutoffRow = excludeNamesake(raw, topic)
	if cutoffRow != nil && cutoffRow.PublishedDate != nil {
		d := cutoffRow.PublishedDate.AddDate(0, 0, -1)
		cutoffDate = &d
	}
	return filterByCutoff(pool, cutoffDate), cutoffRow, cutoffDate
}

// excludeNamesake pulls the first record whose title normalizes to
// topic's own normalized title out of raw (the "same-name rule"),
// returning the remaining pool and that record as a SeedRow.
func excludeNamesake(raw []model.Paper, topic string) (pool []model.Paper, namesake *model.SeedRow) {
	for _, p := range raw {
		if namesake == nil && textnorm.Equal(p.Title, topic) {
			namesake = &model.SeedRow{
				ArxivID:         p.ArxivID,
				Title:           p.Title,
				PublishedDate:   p.PublishedDate,
				CutoffCandidate: true,
			}
			continue
		}
		pool = append(pool, p)
	}
	return pool, namesake
}

// filterByCutoff keeps only the records published strictly before
// cutoffDate; a nil cutoffDate (no namesake match established yet)
// passes every record through unfiltered.
func filterByCutoff(pool []model.Paper, cutoffDate *time.Time) []model.Paper {
	if cutoffDate == nil {
		return pool
	}
	var kept []model.Paper
	for _, p := range pool {
		if p.PublishedDate != nil && p.PublishedDate.Before(*cutoffDate) {
			kept = append(kept, p)
		}
	}
	return kept
}

// publishedAfter orders by published date descending, treating a nil
// date as older than any set date.
func publishedAfter(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// downloadAll fans the top-K downloads out across a bounded
// gammazero/workerpool pool (4 workers max) rather than a sequential
// loop, since a slow or stalled PDF fetch shouldn't serialize the rest
// of the batch.
func (r *Runner) downloadAll(ctx context.Context, papers []model.Paper, destDir string) model.DownloadResults {
	results := make([]model.DownloadOutcome, len(papers))

	workers := 4
	if len(papers) < workers {
		workers = len(papers)
	}
	if workers == 0 {
		return model.DownloadResults{}
	}

	wp := workerpool.New(workers)
	pool := concurrency.NewWorkerPool(wp)

	var wg sync.WaitGroup
	for i, p := range papers {
		i, p := i, p
		wg.Add(1)
		_ = pool.Submit(func() {
			defer wg.Done()
			path, err := r.Arxiv.DownloadPDF(ctx, p, destDir)
			outcome := model.DownloadOutcome{ArxivID: p.ArxivID}
			if err != nil {
				outcome.Error = err.Error()
				obslog.WithError(r.Log, "seed pdf download failed", err, obslog.NewFields().Paper(p.ArxivID))
			} else {
				outcome.Path = path
				if fi, statErr := os.Stat(path); statErr == nil {
					outcome.SizeBytes = fi.Size()
					obslog.WithFields(r.Log, "seed pdf downloaded", obslog.NewFields().
						Paper(p.ArxivID).Custom("size_kb", dataunit.SizeOfB(fi.Size()).KB()))
				}
			}
			results[i] = outcome
		})
	}
	wg.Wait()
	wp.StopWait()

	succeeded := 0
	for _, res := range results {
		if res.Error == "" {
			succeeded++
		}
	}
	return model.DownloadResults{Attempted: len(papers), Succeeded: succeeded, Results: results}
}

func buildSelection(raw, filtered, selected []model.Paper, cutoff *model.SeedRow, cutoffDate *time.Time, queries []string) model.SeedSelection {
	selectedIDs := make(map[string]bool, len(selected))
	for _, p := range selected {
		selectedIDs[p.ArxivID] = true
	}

	rows := make([]model.SeedRow, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, model.SeedRow{
			ArxivID:       p.ArxivID,
			Title:         p.Title,
			PublishedDate: p.PublishedDate,
			Filtered:      true,
			Selected:      selectedIDs[p.ArxivID],
		})
	}

	reason := ""
	if cutoff != nil {
		reason = "topic_namesake_excluded"
	}

	return model.SeedSelection{
		RecordsTotal:       len(raw),
		RecordsAfterFilter: len(filtered),
		CutoffReason:       reason,
		CutoffCandidate:    cutoff,
		CutoffDate:         cutoffDate,
		SelectedQueries:    queries,
		Rows:               rows,
	}
}
