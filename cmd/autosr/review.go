package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/review"
)

func reviewCmd() *cobra.Command {
	var maxRetries int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "LatteReview two-round workflow: two junior reviewers, senior escalation on disagreement",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("review")
				return nil
			}
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			runner, opts, err := buildReviewRunner(ctx, a)
			if err != nil {
				return err
			}
			if maxRetries > 0 {
				opts.MaxRetries = maxRetries
			}

			result, err := runner.RunStage(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "Override how many times a reviewer call retries on transient failure")
	return cmd
}

// buildReviewRunner wires JuniorNano on --provider, JuniorMini on the
// first differently-keyed provider available (§4.7's "alternative
// provider" requirement), and the senior reviewer on --provider-senior
// (or that same alternate, if unset).
func buildReviewRunner(ctx context.Context, a *app) (*review.Runner, review.Options, error) {
	opts := review.DefaultOptions()
	opts.ModelNano = flags.model
	opts.ModelMini = flags.model
	opts.ModelSenior = flags.modelSenior
	if opts.ModelSenior == "" {
		opts.ModelSenior = flags.model
	}

	miniProvider := a.alternateProvider(flags.provider)
	seniorProvider := flags.providerSenior
	if seniorProvider == "" {
		seniorProvider = miniProvider
	}

	chatNano, err := a.chatService(ctx, flags.provider)
	if err != nil {
		return nil, review.Options{}, err
	}
	chatMini, err := a.chatService(ctx, miniProvider)
	if err != nil {
		return nil, review.Options{}, err
	}
	chatSenior, err := a.chatService(ctx, seniorProvider)
	if err != nil {
		return nil, review.Options{}, err
	}

	return review.New(chatNano, chatMini, chatSenior, a.log), opts, nil
}
