// Package snowball implements the Snowball Iterate Controller (§4.8): a
// multi-round citation-expansion loop that, per round, selects seeds
// from the prior round's includes, expands them via OpenAlex forward
// citations and backward references, hard-filters and registry-dedups
// the results, runs the Review Stage over what survives, and updates
// the cross-round dedup registry, until a stopping condition fires.
//
// The controller's termination rule is built on flow.Loop[I,O]'s
// MaxIterations-OR-Terminator shape (§4.8's loop/while modes): each
// round mutates a shared *roundState by side effect and also returns
// it, so it fits flow.Node's single input-to-output Run signature
// without needing to thread persisted artifacts through O.
package snowball

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/flow"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/registry"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/review"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
)

const stageName = "snowball"

// Mode selects the stopping-condition rule (§4.8).
type Mode string

const (
	ModeLoop  Mode = "loop"
	ModeWhile Mode = "while"
)

// Options configures a full snowball run.
type Options struct {
	Mode                  Mode
	MaxRounds             int
	StopRawThreshold      int
	StopIncludedThreshold int
	MaxCitationsPerSeed   int
	MinDate               *time.Time
	MaxDateOverride       *time.Time
	Review                review.Options
}

// DefaultOptions returns the Snowball Controller's documented defaults.
func DefaultOptions() Options {
	return Options{
		Mode:                ModeLoop,
		MaxRounds:           5,
		MaxCitationsPerSeed: 50,
		Review:              review.DefaultOptions(),
	}
}

// Controller drives the per-round state machine.
type Controller struct {
	Citation source.CitationSource
	Review   *review.Runner
	Log      *zap.Logger
}

// New constructs a Controller.
func New(citation source.CitationSource, reviewRunner *review.Runner, log *zap.Logger) *Controller {
	return &Controller{Citation: citation, Review: reviewRunner, Log: log}
}

// roundState carries what one round needs from the round before it,
// and what flow.Loop needs to decide whether to run another one. It is
// mutated in place by each loop iteration rather than rebuilt, since
// the round also writes several files and updates reg as side effects.
type roundState struct {
	seeds             []model.Paper
	cumulativeInclude int
	includedAll       map[string]model.Paper
	round             int
	roundsRun         int
	lastMeta          model.RoundMeta
}

// RunStage is the `snowball-iterate` CLI subcommand's entrypoint. It
// loads (or creates) the cross-round registry, loads the base review's
// includes as round 1's seed set, and drives rounds until a stopping
// condition fires, finally persisting final_included.json.
func (c *Controller) RunStage(ctx context.Context, ws *workspace.Workspace, criteria model.CriteriaDocument, opts Options, force bool) (model.StageResult, error) {
	finalPath := filepath.Join(ws.SnowballRoundsDir(), "final_included.json")
	guardResult, shouldRun := workspace.Guard(stageName, finalPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	baseReviewPath := filepath.Join(ws.ReviewDir(), "latte_review_results.json")
	if err := workspace.RequireUpstream(baseReviewPath); err != nil {
		return model.Failed(stageName, err), err
	}

	criteriaHash, err := criteria.Hash()
	if err != nil {
		return model.Failed(stageName, err), err
	}

	reg, err := loadOrCreateRegistry(ws)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	var baseResults []model.ReviewResult
	if err := workspace.ReadJSON(baseReviewPath, &baseResults); err != nil {
		return model.Failed(stageName, err), err
	}

	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 1
	}

	state := &roundState{seeds: includedPapers(baseResults), includedAll: make(map[string]model.Paper)}
	collectIncludes(state.includedAll, baseResults)

	roundNode := flow.AsProcessor(func(ctx context.Context, s *roundState) (*roundState, error) {
		s.round++
		meta, results, err := c.runRound(ctx, ws, criteria, criteriaHash, reg, s.seeds, s.round, opts)
		if err != nil {
			return s, err
		}
		s.roundsRun = s.round
		s.lastMeta = meta

		collectIncludes(s.includedAll, results)
		s.cumulativeInclude = len(s.includedAll)
		s.seeds = includedPapers(results)

		if err := persistRegistry(ws, reg); err != nil {
			return s, err
		}

		obslog.WithFields(c.Log, "snowball round complete", obslog.NewFields().
			Stage(stageName).Topic(ws.Topic).Round(s.round).Count(meta.ForReviewCount))
		return s, nil
	})

	loop, err := flow.NewLoop(&flow.LoopConfig[*roundState, *roundState]{
		Node:          roundNode,
		MaxIterations: maxRounds,
		Terminator: func(_ context.Context, _ int, _, s *roundState) (bool, error) {
			if len(s.seeds) == 0 {
				return true, nil
			}
			return shouldStop(opts, s.round, maxRounds, s.lastMeta, s.cumulativeInclude), nil
		},
	})
	if err != nil {
		return model.Failed(stageName, err), err
	}
	state, err = loop.Run(ctx, state)
	if err != nil {
		return model.Failed(stageName, err), err
	}
	roundsRun := state.roundsRun

	finalIncluded := make([]model.Paper, 0, len(state.includedAll))
	for _, p := range state.includedAll {
		finalIncluded = append(finalIncluded, p)
	}
	if err := workspace.WriteJSON(finalPath, finalIncluded); err != nil {
		return model.Failed(stageName, err), err
	}
	finalCSVPath := filepath.Join(ws.SnowballRoundsDir(), "final_included.csv")
	if err := writePapersCSV(finalCSVPath, finalIncluded); err != nil {
		return model.Failed(stageName, err), err
	}

	metrics := map[string]any{
		"rounds_run":     roundsRun,
		"final_included": len(finalIncluded),
	}
	return model.Completed(stageName, []string{finalPath, finalCSVPath}, metrics), nil
}

// runRound executes one round's full 9-step body (minus the stopping
// check, which the caller performs) and returns its RoundMeta and
// review results.
func (c *Controller) runRound(ctx context.Context, ws *workspace.Workspace, criteria model.CriteriaDocument, criteriaHash string, reg *registry.Registry, seeds []model.Paper, round int, opts Options) (model.RoundMeta, []model.ReviewResult, error) {
	meta := model.RoundMeta{RoundIndex: round, SeedCount: len(seeds), StartedAt: time.Now().UTC(), CriteriaHash: criteriaHash}
	roundDir := ws.RoundDir(round)

	if err := writePapersCSV(filepath.Join(roundDir, "seeds_screening_included.csv"), seeds); err != nil {
		return meta, nil, err
	}

	raw, err := expandSeeds(ctx, c.Citation, seeds, capOrDefault(opts.MaxCitationsPerSeed), c.Log)
	if err != nil {
		return meta, nil, err
	}
	meta.RawCount = len(raw)
	if err := writePapersCSV(filepath.Join(roundDir, "snowball_results_raw.csv"), raw); err != nil {
		return meta, nil, err
	}

	maxDate := resolveMaxDate(criteria, opts.MaxDateOverride)
	filtered := filterCandidates(raw, criteria, opts.MinDate, maxDate)
	meta.FilteredCount = len(filtered)
	if err := writePapersCSV(filepath.Join(roundDir, "snowball_results.csv"), filtered); err != nil {
		return meta, nil, err
	}

	kept, removed, matches := reg.FilterCandidates(filtered, criteriaHash)
	meta.DedupRemoved = len(removed)
	if err := workspace.WriteJSON(filepath.Join(roundDir, "dedup_report.json"), matches); err != nil {
		return meta, nil, err
	}
	if err := writePapersCSV(filepath.Join(roundDir, "snowball_for_review.csv"), kept); err != nil {
		return meta, nil, err
	}

	meta.ForReviewCount = len(kept)
	if err := workspace.WriteJSON(filepath.Join(roundDir, "candidates_for_review.json"), toCandidateRecords(kept)); err != nil {
		return meta, nil, err
	}

	results, err := c.Review.Run(ctx, criteria, kept, opts.Review)
	if err != nil {
		return meta, nil, err
	}
	if err := workspace.WriteJSON(filepath.Join(roundDir, "latte_review_results.json"), results); err != nil {
		return meta, nil, err
	}

	for _, r := range results {
		reg.Upsert(r.Metadata, model.VerdictToStatus(r.FinalVerdict), criteriaHash, round)
	}

	meta.ReviewOutcome = summarizeOutcome(results)
	meta.FinishedAt = time.Now().UTC()
	if err := workspace.WriteJSON(filepath.Join(roundDir, "round_meta.json"), meta); err != nil {
		return meta, nil, err
	}

	return meta, results, nil
}

// shouldStop implements §4.8's two stopping-condition modes.
func shouldStop(opts Options, round, maxRounds int, meta model.RoundMeta, cumulativeIncluded int) bool {
	if round >= maxRounds {
		return true
	}
	if opts.Mode != ModeWhile {
		return false
	}
	if opts.StopRawThreshold <= 0 && opts.StopIncludedThreshold <= 0 {
		// Both thresholds unset means while-mode has nothing left to wait
		// on: terminate after round 1 regardless of round contents.
		return round >= 1
	}
	if opts.StopRawThreshold > 0 && meta.RawCount >= opts.StopRawThreshold {
		return true
	}
	if opts.StopIncludedThreshold > 0 && cumulativeIncluded >= opts.StopIncludedThreshold {
		return true
	}
	return false
}

func includedPapers(results []model.ReviewResult) []model.Paper {
	var out []model.Paper
	for _, r := range results {
		if r.FinalVerdict == model.VerdictInclude {
			out = append(out, r.Metadata)
		}
	}
	return out
}

func collectIncludes(dst map[string]model.Paper, results []model.ReviewResult) {
	for _, r := range results {
		if r.FinalVerdict != model.VerdictInclude {
			continue
		}
		key := r.Metadata.PrimaryKey()
		if key == "" {
			continue
		}
		dst[key] = r.Metadata
	}
}

func summarizeOutcome(results []model.ReviewResult) model.ReviewOutcome {
	var outcome model.ReviewOutcome
	for _, r := range results {
		switch r.FinalVerdict {
		case model.VerdictInclude:
			outcome.Include++
		case model.VerdictExclude:
			outcome.Exclude++
		case model.VerdictDiscard:
			outcome.Discard++
		case model.VerdictNeedsReeval:
			outcome.NeedsEval++
		}
	}
	return outcome
}

func loadOrCreateRegistry(ws *workspace.Workspace) (*registry.Registry, error) {
	path := filepath.Join(ws.SnowballRoundsDir(), "review_registry.json")
	if !workspace.Exists(path) {
		return registry.New(), nil
	}
	var entries map[string]model.RegistryEntry
	if err := workspace.ReadJSON(path, &entries); err != nil {
		return nil, err
	}
	return registry.Load(entries), nil
}

func persistRegistry(ws *workspace.Workspace, reg *registry.Registry) error {
	path := filepath.Join(ws.SnowballRoundsDir(), "review_registry.json")
	return workspace.WriteJSON(path, reg.Snapshot())
}

func capOrDefault(n int) int {
	if n <= 0 {
		return 50
	}
	return n
}

