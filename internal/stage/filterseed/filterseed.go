// Package filterseed implements the Filter-Seed Stage: binary LLM
// screening of each downloaded seed paper's title and abstract, with a
// lenient fallback pass when too few papers survive the strict pass.
//
// Grounded on the Workspace & Stage Runner contract in
// internal/workspace and on internal/concurrency.MapBounded for bounded
// per-paper LLM fan-out.
package filterseed

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/concurrency"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

const stageName = "filter_seed"

// Options configures one Filter-Seed Stage run (§4.3).
type Options struct {
	Model         string
	KMin          int
	MaxConcurrent int
	KeywordsHint  string
}

// DefaultOptions returns the Filter-Seed Stage's documented defaults.
func DefaultOptions() Options {
	return Options{
		KMin:          1,
		MaxConcurrent: 4,
	}
}

// Runner bundles the Filter-Seed Stage's external dependencies.
type Runner struct {
	Chat llm.ChatService
	Log  *zap.Logger
}

// New constructs a Runner.
func New(chat llm.ChatService, log *zap.Logger) *Runner {
	return &Runner{Chat: chat, Log: log}
}

// seedCandidate is one downloaded seed paper carried through the
// strict/lenient screening passes.
type seedCandidate struct {
	paper model.Paper
	path  string
}

// Run executes the Filter-Seed Stage against ws, per §4.3's contract.
func (r *Runner) Run(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	screeningPath := filepath.Join(ws.SeedFiltersDir(), "llm_screening.json")
	guardResult, shouldRun := workspace.Guard(stageName, screeningPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	rawPath := filepath.Join(ws.SeedQueriesDir(), "arxiv.json")
	downloadsPath := filepath.Join(ws.SeedQueriesDir(), "download_results.json")
	if err := workspace.RequireUpstream(rawPath); err != nil {
		return model.Failed(stageName, err), err
	}
	if err := workspace.RequireUpstream(downloadsPath); err != nil {
		return model.Failed(stageName, err), err
	}

	var raw []model.Paper
	if err := workspace.ReadJSON(rawPath, &raw); err != nil {
		return model.Failed(stageName, err), err
	}
	var downloads model.DownloadResults
	if err := workspace.ReadJSON(downloadsPath, &downloads); err != nil {
		return model.Failed(stageName, err), err
	}

	byID := make(map[string]model.Paper, len(raw))
	for _, p := range raw {
		byID[p.ArxivID] = p
	}

	var candidates []seedCandidate
	for _, outcome := range downloads.Results {
		if outcome.Error != "" || outcome.Path == "" {
			continue
		}
		p, ok := byID[outcome.ArxivID]
		if !ok {
			continue
		}
		candidates = append(candidates, seedCandidate{paper: p, path: outcome.Path})
	}

	if len(candidates) == 0 {
		err := xerrors.New(xerrors.UpstreamMissing, "no successfully downloaded seed papers to screen")
		return model.Failed(stageName, err), err
	}

	records, err := r.screenAll(ctx, ws.Topic, candidates, opts, false)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	fallbackInvoked := false
	selectedCount := countSelected(records)
	if selectedCount < opts.KMin {
		fallbackInvoked = true
		obslog.WithFields(r.Log, "filter-seed strict pass below k_min, running lenient fallback", obslog.NewFields().
			Stage(stageName).Count(selectedCount).Custom("k_min", opts.KMin))

		records, err = r.screenAll(ctx, ws.Topic, candidates, opts, true)
		if err != nil {
			return model.Failed(stageName, err), err
		}
	}

	screening := model.ScreeningResult{
		FallbackInvoked: fallbackInvoked,
		KMin:            opts.KMin,
		Records:         records,
	}

	selected, rejected := splitByDecision(records)
	selectedIDs := model.SelectedIDs{Selected: selected, Rejected: rejected}

	if err := syncFilteredPDFs(candidates, selected, ws.SeedTAFilteredDir()); err != nil {
		return model.Failed(stageName, err), err
	}

	selectedPath := filepath.Join(ws.SeedFiltersDir(), "selected_ids.json")

	if err := workspace.WriteJSON(screeningPath, screening); err != nil {
		return model.Failed(stageName, err), err
	}
	if err := workspace.WriteJSON(selectedPath, selectedIDs); err != nil {
		return model.Failed(stageName, err), err
	}

	obslog.WithFields(r.Log, "filter-seed stage complete", obslog.NewFields().
		Stage(stageName).Topic(ws.Topic).Count(len(selected)))

	metrics := map[string]any{
		"screened":         len(candidates),
		"selected":         len(selected),
		"rejected":         len(rejected),
		"fallback_invoked": fallbackInvoked,
	}
	return model.Completed(stageName, []string{screeningPath, selectedPath}, metrics), nil
}

// screenAll runs one screening pass (strict or lenient) over candidates
// with bounded concurrency. A parse/validation failure on any paper
// aborts the whole pass, per §4.3's no-fallback-on-parse-failure rule.
func (r *Runner) screenAll(ctx context.Context, topic string, candidates []seedCandidate, opts Options, lenient bool) ([]model.ScreeningRecord, error) {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return concurrency.MapBounded(ctx, candidates, maxConcurrent, func(ctx context.Context, c seedCandidate) (model.ScreeningRecord, error) {
		resp, err := screenOne(ctx, r.Chat, opts.Model, lenient, screeningTemplateData{
			Topic:        topic,
			Title:        c.paper.Title,
			Abstract:     c.paper.Abstract,
			KeywordsHint: opts.KeywordsHint,
		})
		if err != nil {
			return model.ScreeningRecord{}, err
		}
		return model.ScreeningRecord{
			ArxivID:    c.paper.ArxivID,
			Title:      c.paper.Title,
			Decision:   resp.Decision,
			Reason:     resp.Reason,
			Confidence: resp.Confidence,
			Fallback:   lenient,
		}, nil
	})
}

func countSelected(records []model.ScreeningRecord) int {
	n := 0
	for _, r := range records {
		if r.Decision == "yes" {
			n++
		}
	}
	return n
}

func splitByDecision(records []model.ScreeningRecord) (selected, rejected []string) {
	for _, r := range records {
		if r.Decision == "yes" {
			selected = append(selected, r.ArxivID)
		} else {
			rejected = append(rejected, r.ArxivID)
		}
	}
	return selected, rejected
}

// syncFilteredPDFs copies each selected candidate's PDF into destDir and
// removes any PDF already in destDir whose arXiv ID is no longer among
// selected, per §4.3's "removes stale PDFs from prior runs."
func syncFilteredPDFs(candidates []seedCandidate, selected []string, destDir string) error {
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "create ta_filtered directory")
	}

	byID := make(map[string]seedCandidate, len(candidates))
	for _, c := range candidates {
		byID[c.paper.ArxivID] = c
	}

	for id := range selectedSet {
		c, ok := byID[id]
		if !ok || c.path == "" {
			continue
		}
		data, err := os.ReadFile(c.path)
		if err != nil {
			return xerrors.Wrapf(err, xerrors.ConfigError, "read seed pdf for %s", id)
		}
		dest := filepath.Join(destDir, id+".pdf")
		if err := workspace.WriteFileAtomic(dest, data); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "list ta_filtered directory")
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !selectedSet[id] {
			if err := os.Remove(filepath.Join(destDir, entry.Name())); err != nil && !os.IsNotExist(err) {
				return xerrors.Wrapf(err, xerrors.ConfigError, "remove stale pdf %s", entry.Name())
			}
		}
	}

	return nil
}
