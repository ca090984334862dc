package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/core/job"
	"github.com/Sologa/AUTOSR-SDSE-sub001/core/lynx"
	"github.com/Sologa/AUTOSR-SDSE-sub001/core/trigger"
	"github.com/Sologa/AUTOSR-SDSE-sub001/core/worker"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/model"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/snowball"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
)

// cronWorker adapts a single pipeline pass into a core/worker.BatchWorker
// that core/trigger.CronTrigger can fire on a schedule: Work runs run
// once per tick, and Done reports ready once the run-scoped context (set
// by BatchJob via Context) is canceled, i.e. when the process is asked
// to stop.
type cronWorker struct {
	ctx   context.Context
	run   func(ctx context.Context) error
	log   *zap.Logger
	label string
}

func (w *cronWorker) Context(ctx context.Context) { w.ctx = ctx }

func (w *cronWorker) Done() <-chan struct{} { return w.ctx.Done() }

func (w *cronWorker) Work() {
	if err := w.run(w.ctx); err != nil {
		obslog.WithError(w.log, "cron run failed", err, obslog.NewFields().Custom("job", w.label))
	}
}

// snowballCmd runs exactly one expansion round (max_rounds=1), the
// single-shot variant of the controller §6's CLI surface lists
// alongside the full `snowball-iterate` loop.
func snowballCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snowball",
		Short: "Run a single citation-expansion round (OpenAlex expand -> dedup -> review -> registry update)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnowball(cmd, 1, snowball.ModeLoop, 0, 0)
		},
	}
	return cmd
}

func snowballIterateCmd() *cobra.Command {
	var (
		maxRounds    int
		mode         string
		stopRawCount int
		stopIncluded int
		cronSpec     string
	)
	cmd := &cobra.Command{
		Use:   "snowball-iterate",
		Short: "Run the full multi-round snowball loop until a stopping condition fires",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := snowball.ModeLoop
			if mode == string(snowball.ModeWhile) {
				m = snowball.ModeWhile
			}
			if cronSpec != "" {
				return runSnowballCron(cmd, cronSpec, maxRounds, m, stopRawCount, stopIncluded)
			}
			return runSnowball(cmd, maxRounds, m, stopRawCount, stopIncluded)
		},
	}
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 5, "Maximum number of snowball rounds")
	cmd.Flags().StringVar(&mode, "mode", "loop", "Stopping mode: loop (max-rounds only) or while (also checks the thresholds below)")
	cmd.Flags().IntVar(&stopRawCount, "stop-raw-threshold", 0, "while-mode: stop once a round's raw expansion count reaches this (0 disables)")
	cmd.Flags().IntVar(&stopIncluded, "stop-included-threshold", 0, "while-mode: stop once cumulative includes reach this (0 disables)")
	cmd.Flags().StringVar(&cronSpec, "cron", "", "Run as a recurring job on this cron spec (6-field, with seconds) instead of exiting after one pass")
	return cmd
}

func runSnowball(cmd *cobra.Command, maxRounds int, mode snowball.Mode, stopRaw, stopIncluded int) error {
	if flags.dryRun {
		printDryRun("snowball-iterate")
		return nil
	}
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	return snowballOnePass(ctx, a, maxRounds, mode, stopRaw, stopIncluded)
}

// runSnowballCron supervises repeated snowball-iterate passes on a cron
// schedule, using the job/trigger/worker supervisor framework under
// core/ as the CLI's long-running process supervisor: a CronTrigger
// fires a BatchWorker's Work() once per tick, and Lynx owns the
// SIGINT/SIGTERM-driven start/wait/stop lifecycle around it.
func runSnowballCron(cmd *cobra.Command, cronSpec string, maxRounds int, mode snowball.Mode, stopRaw, stopIncluded int) error {
	if flags.dryRun {
		printDryRun("snowball-iterate --cron")
		return nil
	}
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	runOnce := func(ctx context.Context) error {
		return snowballOnePass(ctx, a, maxRounds, mode, stopRaw, stopIncluded)
	}

	w := &cronWorker{run: runOnce, log: a.log, label: "snowball-iterate"}
	trig := trigger.NewCronTrigger(&trigger.CronTriggerOptions{Spec: cronSpec})
	j := job.NewBatchJob(&job.BatchJobOptions{Trigger: trig, Workers: []worker.BatchWorker{w}})
	supervisor := lynx.New(&lynx.Options{Jobs: []job.Job{j}})
	return supervisor.Run()
}

func snowballOnePass(ctx context.Context, a *app, maxRounds int, mode snowball.Mode, stopRaw, stopIncluded int) error {
	criteriaDoc, err := loadCriteria(a.ws)
	if err != nil {
		return err
	}

	reviewRunner, reviewOpts, err := buildReviewRunner(ctx, a)
	if err != nil {
		return err
	}

	opts := snowball.DefaultOptions()
	opts.Mode = mode
	opts.MaxRounds = maxRounds
	opts.StopRawThreshold = stopRaw
	opts.StopIncludedThreshold = stopIncluded
	opts.Review = reviewOpts

	controller := snowball.New(a.openAlexSource(), reviewRunner, a.log)
	result, err := controller.RunStage(ctx, a.ws, criteriaDoc, opts, effectiveForce())
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func loadCriteria(ws *workspace.Workspace) (model.CriteriaDocument, error) {
	path := filepath.Join(ws.CriteriaDir(), "criteria.json")
	if err := workspace.RequireUpstream(path); err != nil {
		return model.CriteriaDocument{}, err
	}
	var doc model.CriteriaDocument
	if err := workspace.ReadJSON(path, &doc); err != nil {
		return model.CriteriaDocument{}, err
	}
	return doc, nil
}
