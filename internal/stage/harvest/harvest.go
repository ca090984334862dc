// Package harvest implements the Harvest Stage: executes the Keywords
// Stage's anchor × category × term boolean queries against arXiv,
// deduping results within the harvest and recording per-(anchor,
// category) query-plan coverage (§4.5).
//
// Grounded on the Seed Stage's own paginatedSearch shape for paging an
// arXiv query up to a result cap, generalized here to one cap per query
// tuple (top_k_per_query) instead of one cap for the whole stage.
package harvest

import (
	"context"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

const stageName = "harvest"

// Options configures one Harvest Stage run (§4.5).
type Options struct {
	TopKPerQuery        int
	PageSize            int
	MaxTermsPerCategory int
}

// DefaultOptions returns the Harvest Stage's documented defaults.
func DefaultOptions() Options {
	return Options{
		TopKPerQuery:        50,
		PageSize:            50,
		MaxTermsPerCategory: 10,
	}
}

// Runner bundles the Harvest Stage's external dependencies.
type Runner struct {
	Arxiv *source.ArxivSource
	Log   *zap.Logger
}

// New constructs a Runner.
func New(arxiv *source.ArxivSource, log *zap.Logger) *Runner {
	return &Runner{Arxiv: arxiv, Log: log}
}

// queryTuple is one (anchor, category, term) combination the Harvest
// Stage queries arXiv for.
type queryTuple struct {
	anchor   string
	category string
	term     string
}

// Run executes the Harvest Stage against ws, per §4.5's contract.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	metadataPath := filepath.Join(ws.HarvestDir(), "arxiv_metadata.json")
	guardResult, shouldRun := workspace.Guard(stageName, metadataPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	keywordsPath := filepath.Join(ws.KeywordsDir(), "keywords.json")
	if err := workspace.RequireUpstream(keywordsPath); err != nil {
		return model.Failed(stageName, err), err
	}

	var payload model.KeywordsPayload
	if err := workspace.ReadJSON(keywordsPath, &payload); err != nil {
		return model.Failed(stageName, err), err
	}

	tuples := buildTuples(payload, opts.MaxTermsPerCategory)
	if len(tuples) == 0 {
		err := xerrors.New(xerrors.ValidationError, "keywords payload carries no anchor/search terms to harvest with")
		return model.Failed(stageName, err), err
	}

	coverage := map[[2]string]*model.AnchorCoverage{}
	var coverageOrder [][2]string
	seenKeys := map[string]bool{}
	var records []model.HarvestRecord

	for _, t := range tuples {
		key := [2]string{t.anchor, t.category}
		cov, ok := coverage[key]
		if !ok {
			cov = &model.AnchorCoverage{Anchor: t.anchor, Category: t.category}
			coverage[key] = cov
			coverageOrder = append(coverageOrder, key)
		}
		cov.TermsQueried++

		query := buildQuery(t.anchor, t.term)
		page, err := r.paginatedSearch(ctx, query, opts)
		if err != nil {
			return model.Failed(stageName, err), err
		}
		cov.ResultsReturned += len(page)

		for _, p := range page {
			dk := dedupKey(p)
			if dk == "" || seenKeys[dk] {
				continue
			}
			seenKeys[dk] = true
			cov.ResultsAfterDedup++
			records = append(records, model.HarvestRecord{
				Anchor:     t.anchor,
				SearchTerm: t.term,
				SearchRecord: model.SearchRecord{
					Anchor:   t.anchor,
					Category: t.category,
					Term:     t.term,
					Query:    query,
				},
				Metadata: p,
			})
		}
	}

	plan := model.QueryPlan{Coverage: make([]model.AnchorCoverage, 0, len(coverageOrder))}
	for _, key := range coverageOrder {
		plan.Coverage = append(plan.Coverage, *coverage[key])
	}

	planPath := filepath.Join(ws.HarvestDir(), "query_plan.json")
	if err := workspace.WriteJSON(metadataPath, records); err != nil {
		return model.Failed(stageName, err), err
	}
	if err := workspace.WriteJSON(planPath, plan); err != nil {
		return model.Failed(stageName, err), err
	}

	obslog.WithFields(r.Log, "harvest stage complete", obslog.NewFields().
		Stage(stageName).Topic(ws.Topic).Count(len(records)))

	metrics := map[string]any{
		"tuples_queried":    len(tuples),
		"records_harvested": len(records),
		"anchor_categories": len(coverageOrder),
	}
	return model.Completed(stageName, []string{metadataPath, planPath}, metrics), nil
}

// paginatedSearch pages query in PageSize chunks until TopKPerQuery
// records have been collected or a page returns fewer than requested.
func (r *Runner) paginatedSearch(ctx context.Context, query string, opts Options) ([]model.Paper, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = opts.TopKPerQuery
	}
	topK := opts.TopKPerQuery
	if topK <= 0 {
		topK = pageSize
	}

	var all []model.Paper
	for start := 0; start < topK; start += pageSize {
		remaining := topK - start
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

// buildTuples expands a KeywordsPayload into the ordered (anchor,
// category, term) query plan, capping each category's term list at
// maxTermsPerCategory before crossing it with every anchor (§4.5's
// "cap per-category total at max_terms_per_category").
func buildTuples(payload model.KeywordsPayload, maxTermsPerCategory int) []queryTuple {
	categories := make([]string, 0, len(payload.SearchTerms))
	for cat := range payload.SearchTerms {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var tuples []queryTuple
	for _, cat := range categories {
		terms := payload.SearchTerms[cat]
		if maxTermsPerCategory > 0 && len(terms) > maxTermsPerCategory {
			terms = terms[:maxTermsPerCategory]
		}
		for _, anchor := range payload.AnchorTerms {
			for _, term := range terms {
				tuples = append(tuples, queryTuple{anchor: anchor, category: cat, term: term})
			}
		}
	}
	return tuples
}

// dedupKey derives a harvest-local dedup key in §4.5's priority order
// (arxiv_id > doi > normalized_title) — openalex_id is never populated
// this early in the pipeline, so it plays no part here unlike the full
// registry's key priority (§4.9).
func dedupKey(p model.Paper) string {
	for _, k := range []string{p.ArxivID, p.DOI, p.NormalizedTitle} {
		if k != "" {
			return k
		}
	}
	return ""
}
