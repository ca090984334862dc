// Package harvestother implements the Harvest-Other Stage: a parallel
// fetch of the Keywords Stage's anchor terms against every
// MetadataSource besides arXiv (Semantic Scholar, DBLP, OpenAlex),
// running all three sources concurrently under one ants-backed
// internal/concurrency.Pool rather than one source at a time.
//
// Grounded on SPEC_FULL.md §11's "Harvest-Other multi-source parallel
// fetch (Semantic Scholar + DBLP + OpenAlex run concurrently
// under one pool)" and on the teacher's pkg/sync.Pool adapters
// (PoolOfAnts) as the concrete backend.
package harvestother

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/concurrency"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

const stageName = "harvest-other"

// Options configures one Harvest-Other pass.
type Options struct {
	// PoolSize is the ants pool's concurrent-worker cap. One task is
	// submitted per (source, anchor term) pair, so this bounds how many
	// of those run at once across every source, not per source.
	PoolSize            int
	MaxResultsPerSource int
}

// DefaultOptions returns the Harvest-Other Stage's documented defaults.
func DefaultOptions() Options {
	return Options{PoolSize: 6, MaxResultsPerSource: 50}
}

// Runner bundles the non-arXiv MetadataSource adapters the stage fans
// out across.
type Runner struct {
	Sources []source.MetadataSource
	Log     *zap.Logger
}

// New constructs a Runner.
func New(sources []source.MetadataSource, log *zap.Logger) *Runner {
	return &Runner{Sources: sources, Log: log}
}

type sourceResult struct {
	Source  string        `json:"source"`
	Anchor  string        `json:"anchor"`
	Papers  []model.Paper `json:"papers"`
	FailErr string        `json:"error,omitempty"`
}

// Run reads the Keywords Stage's anchor terms and queries every
// configured source concurrently, writing one raw file per source plus
// a deduplicated other_sources/merged.json (§3.1's
// `harvest/other_sources/*`).
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	mergedPath := filepath.Join(ws.HarvestOtherDir(), "merged.json")
	guardResult, shouldRun := workspace.Guard(stageName, mergedPath, force)
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
	if len(payload.AnchorTerms) == 0 {
		err := xerrors.New(xerrors.UpstreamMissing, "keywords payload carries no anchor terms")
		return model.Failed(stageName, err), err
	}
	if len(r.Sources) == 0 {
		err := xerrors.New(xerrors.ConfigError, "harvest-other: no sources configured")
		return model.Failed(stageName, err), err
	}

	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = 1
	}
	antsPool, err := ants.NewPool(poolSize)
	if err != nil {
		return model.Failed(stageName, err), xerrors.Wrap(err, xerrors.ConfigError, "create ants pool")
	}
	defer antsPool.Release()
	pool := concurrency.NewAntsPool(antsPool)

	results, err := r.fanOut(ctx, pool, payload.AnchorTerms, opts.MaxResultsPerSource)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	bySource := make(map[string][]model.Paper)
	for _, res := range results {
		if res.FailErr != "" {
			obslog.WithFields(r.Log, "harvest-other: source query failed", obslog.NewFields().
				Stage(stageName).Custom("source", res.Source).Custom("anchor", res.Anchor).Custom("error", res.FailErr))
			continue
		}
		bySource[res.Source] = append(bySource[res.Source], res.Papers...)
	}

	merged, total := mergeDeduped(bySource)

	var outputs []string
	for name, papers := range bySource {
		path := filepath.Join(ws.HarvestOtherDir(), fmt.Sprintf("%s.json", name))
		if err := workspace.WriteJSON(path, papers); err != nil {
			return model.Failed(stageName, err), err
		}
		outputs = append(outputs, path)
	}
	if err := workspace.WriteJSON(mergedPath, merged); err != nil {
		return model.Failed(stageName, err), err
	}
	outputs = append(outputs, mergedPath)

	metrics := map[string]any{
		"sources_queried":    len(r.Sources),
		"anchor_terms":       len(payload.AnchorTerms),
		"raw_results":        total,
		"merged_after_dedup": len(merged),
	}
	return model.Completed(stageName, outputs, metrics), nil
}

// fanOut submits one pool task per (source, anchor) pair and blocks
// until every task has reported in, preserving no particular order —
// the merge step is order-independent.
func (r *Runner) fanOut(ctx context.Context, pool concurrency.Pool, anchors []string, maxResults int) ([]sourceResult, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []sourceResult
	)

	for _, src := range r.Sources {
		for _, anchor := range anchors {
			src, anchor := src, anchor
			wg.Add(1)
			task := func() {
				defer wg.Done()
				papers, err := src.Search(ctx, source.SearchQuery{Query: anchor, MaxResults: maxResults})
				res := sourceResult{Source: src.Name(), Anchor: anchor, Papers: papers}
				if err != nil {
					res.FailErr = err.Error()
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
			if err := pool.Submit(task); err != nil {
				wg.Done()
				return nil, xerrors.Wrap(err, xerrors.ConfigError, "submit harvest-other task")
			}
		}
	}

	wg.Wait()
	return results, nil
}

// mergeDeduped flattens every source's results into one slice, deduped
// by model.Paper.CanonicalKeys() (full priority order — unlike
// Harvest's arXiv-only key, OpenAlex results here carry a real
// openalex_id).
func mergeDeduped(bySource map[string][]model.Paper) (merged []model.Paper, total int) {
	seen := make(map[string]bool)
	for _, papers := range bySource {
		total += len(papers)
		for _, p := range papers {
			keys := p.CanonicalKeys()
			if len(keys) == 0 {
				continue
			}
			duplicate := false
			for _, k := range keys {
				if seen[k] {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			for _, k := range keys {
				seen[k] = true
			}
			merged = append(merged, p)
		}
	}
	return merged, total
}
