// Package review implements the Review Stage / LatteReview Workflow:
// a hard pre-filter followed by a two-round, multi-reviewer LLM
// screening of candidate papers against a criteria document (§4.7).
//
// Run is the reusable core the Snowball Iterate Controller drives once
// per round (§4.8 step 6); RunStage is the top-level `review` CLI
// subcommand's entrypoint, which assembles its candidate list from the
// Harvest Stage's outputs.
//
// Grounded on the Workspace & Stage Runner contract in internal/workspace,
// internal/concurrency.MapBounded for bounded per-paper reviewer fan-out,
// and internal/llm.WithRetry for §4.7's "retry up to max_retries,
// surface the error after exhaustion" rule.
package review

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/flow"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/concurrency"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
)

const stageName = "review"

const (
	reviewerJuniorNano = "JuniorNano"
	reviewerJuniorMini = "JuniorMini"
	reviewerSeniorLead = "SeniorLead"
)

// Options configures one review pass (§4.7).
type Options struct {
	ModelNano            string
	ModelMini            string
	ModelSenior          string
	SkipTitlesContaining string
	MaxRetries           int
	MaxConcurrent        int
}

// DefaultOptions returns the Review Stage's documented defaults.
func DefaultOptions() Options {
	return Options{
		SkipTitlesContaining: defaultSkipTitlesContaining,
		MaxRetries:           3,
		MaxConcurrent:        4,
	}
}

// Runner bundles the Review Stage's external dependencies. ChatNano and
// ChatMini may be the same or different provider backends — §4.7 only
// requires JuniorMini use "an alternative provider" from JuniorNano, a
// wiring decision left to the caller constructing the Runner.
type Runner struct {
	ChatNano   llm.ChatService
	ChatMini   llm.ChatService
	ChatSenior llm.ChatService
	Log        *zap.Logger
}

// New constructs a Runner.
func New(chatNano, chatMini, chatSenior llm.ChatService, log *zap.Logger) *Runner {
	return &Runner{ChatNano: chatNano, ChatMini: chatMini, ChatSenior: chatSenior, Log: log}
}

// Run screens candidates against criteria, preserving input order, per
// §4.7's full pre-filter + two-round workflow. It is the core the
// Snowball Iterate Controller calls once per round.
func (r *Runner) Run(ctx context.Context, criteria model.CriteriaDocument, candidates []model.Paper, opts Options) ([]model.ReviewResult, error) {
	maxRetries := uint64(opts.MaxRetries)
	var chatNano, chatMini, chatSenior llm.ChatService
	chatNano = llm.WithRetry(r.ChatNano, maxRetries)
	chatMini = llm.WithRetry(r.ChatMini, maxRetries)
	if r.ChatSenior != nil {
		chatSenior = llm.WithRetry(r.ChatSenior, maxRetries)
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	type indexed struct {
		idx   int
		paper model.Paper
	}
	items := make([]indexed, len(candidates))
	for i, p := range candidates {
		items[i] = indexed{idx: i, paper: p}
	}

	return concurrency.MapBounded(ctx, items, maxConcurrent, func(ctx context.Context, it indexed) (model.ReviewResult, error) {
		return r.reviewOne(ctx, criteria, it.paper, opts, chatNano, chatMini, chatSenior)
	})
}

// juniorVerdict carries the dual junior evaluation out of the
// escalation Branch's main node to whichever leaf resolves next.
type juniorVerdict struct {
	result      model.ReviewResult
	evalNano    model.ReviewerEvaluation
	evalMini    model.ReviewerEvaluation
	criteria    model.CriteriaDocument
	paper       model.Paper
	chatSenior  llm.ChatService
	modelSenior string
}

// escalationBranch wires flow.Branch around §4.7's senior-escalation
// rule: the main node runs both junior reviewers, the resolver applies
// model.NeedsSeniorEscalation, and the two named branches compute the
// verdict either from the senior reviewer or from the junior mean.
func escalationBranch(chatNano, chatMini llm.ChatService, opts Options) (*flow.Branch, error) {
	juniorNode := flow.AsProcessor(func(ctx context.Context, in any) (any, error) {
		jv := in.(*juniorVerdict)
		evalNano, err := evaluateOne(ctx, chatNano, opts.ModelNano, reviewerJuniorNano, jv.criteria, jv.paper)
		if err != nil {
			return nil, err
		}
		evalMini, err := evaluateOne(ctx, chatMini, opts.ModelMini, reviewerJuniorMini, jv.criteria, jv.paper)
		if err != nil {
			return nil, err
		}
		jv.evalNano, jv.evalMini = evalNano, evalMini
		jv.result.JuniorEvals = []model.ReviewerEvaluation{evalNano, evalMini}
		return jv, nil
	})

	escalateNode := flow.AsProcessor(func(ctx context.Context, in any) (any, error) {
		jv := in.(*juniorVerdict)
		seniorEval, err := evaluateOne(ctx, jv.chatSenior, jv.modelSenior, reviewerSeniorLead, jv.criteria, jv.paper)
		if err != nil {
			return nil, err
		}
		jv.result.SeniorEval = &seniorEval
		jv.result.FinalVerdict = model.DeriveVerdict(seniorEval.Evaluation)
		jv.result.Derivation = &model.Derivation{SeniorRan: true, SeniorScore: &seniorEval.Evaluation}
		return jv, nil
	})

	meanNode := flow.AsProcessor(func(_ context.Context, in any) (any, error) {
		jv := in.(*juniorVerdict)
		mean := float64(jv.evalNano.Evaluation+jv.evalMini.Evaluation) / 2
		jv.result.FinalVerdict = model.DeriveVerdict(int(mean + 0.5))
		jv.result.Derivation = &model.Derivation{SeniorRan: false, JuniorMean: mean}
		return jv, nil
	})

	return flow.NewBranch(&flow.BranchConfig{
		Node: juniorNode,
		BranchResolver: func(_ context.Context, _, out any) (string, error) {
			jv := out.(*juniorVerdict)
			if model.NeedsSeniorEscalation(jv.evalNano.Evaluation, jv.evalMini.Evaluation) && jv.chatSenior != nil {
				return "escalate", nil
			}
			return "mean", nil
		},
		Branches: map[string]flow.Node[any, any]{
			"escalate": escalateNode,
			"mean":     meanNode,
		},
	})
}

func (r *Runner) reviewOne(ctx context.Context, criteria model.CriteriaDocument, paper model.Paper, opts Options, chatNano, chatMini, chatSenior llm.ChatService) (model.ReviewResult, error) {
	result := model.ReviewResult{
		Identifier: paper.PrimaryKey(),
		Metadata:   paper,
	}

	if reason, discard := applyHardFilter(paper, criteria, opts.SkipTitlesContaining); discard {
		result.HardDiscard(reason)
		return result, nil
	}

	branch, err := escalationBranch(chatNano, chatMini, opts)
	if err != nil {
		return model.ReviewResult{}, err
	}
	out, err := branch.Run(ctx, &juniorVerdict{
		result:      result,
		criteria:    criteria,
		paper:       paper,
		chatSenior:  chatSenior,
		modelSenior: opts.ModelSenior,
	})
	if err != nil {
		return model.ReviewResult{}, err
	}
	return out.(*juniorVerdict).result, nil
}

// RunStage is the `review` CLI subcommand's entrypoint: it reads
// criteria.json and the Harvest Stage's arxiv_metadata.json, runs Run
// over every harvested paper, and persists latte_review_results.json.
func (r *Runner) RunStage(ctx context.Context, ws *workspace.Workspace, opts Options, force bool) (model.StageResult, error) {
	resultsPath := filepath.Join(ws.ReviewDir(), "latte_review_results.json")
	guardResult, shouldRun := workspace.Guard(stageName, resultsPath, force)
	if !shouldRun {
		return guardResult, nil
	}

	criteriaPath := filepath.Join(ws.CriteriaDir(), "criteria.json")
	harvestPath := filepath.Join(ws.HarvestDir(), "arxiv_metadata.json")
	if err := workspace.RequireUpstream(criteriaPath); err != nil {
		return model.Failed(stageName, err), err
	}
	if err := workspace.RequireUpstream(harvestPath); err != nil {
		return model.Failed(stageName, err), err
	}

	var criteria model.CriteriaDocument
	if err := workspace.ReadJSON(criteriaPath, &criteria); err != nil {
		return model.Failed(stageName, err), err
	}
	var records []model.HarvestRecord
	if err := workspace.ReadJSON(harvestPath, &records); err != nil {
		return model.Failed(stageName, err), err
	}

	candidates := make([]model.Paper, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, rec.Metadata)
	}

	results, err := r.Run(ctx, criteria, candidates, opts)
	if err != nil {
		return model.Failed(stageName, err), err
	}

	if err := workspace.WriteJSON(resultsPath, results); err != nil {
		return model.Failed(stageName, err), err
	}

	outcome := summarize(results)
	obslog.WithFields(r.Log, "review stage complete", obslog.NewFields().
		Stage(stageName).Topic(ws.Topic).Count(len(results)))

	metrics := map[string]any{
		"include":    outcome.Include,
		"exclude":    outcome.Exclude,
		"discard":    outcome.Discard,
		"needs_eval": outcome.NeedsEval,
	}
	return model.Completed(stageName, []string{resultsPath}, metrics), nil
}

// summarize tallies final verdicts into a ReviewOutcome, the shape
// round_meta.json persists per round (§4.8 step 8).
func summarize(results []model.ReviewResult) model.ReviewOutcome {
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
