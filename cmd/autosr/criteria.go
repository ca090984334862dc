package main

import (
	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/pdfreader"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/criteria"
)

func criteriaCmd() *cobra.Command {
	var (
		mode        string
		seedPDFPath string
		recency     string
	)
	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "Synthesize inclusion/exclusion criteria via web-search (and optionally seed-pdf-augmented) LLM research",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("criteria")
				return nil
			}
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			chat, err := a.chatService(ctx, "")
			if err != nil {
				return err
			}

			opts := criteria.DefaultOptions()
			opts.Model = flags.model
			opts.RecencyHint = recency
			if mode == string(criteria.ModePDFWeb) {
				opts.Mode = criteria.ModePDFWeb
				opts.SeedPDFPath = seedPDFPath
			}

			runner := criteria.New(chat, pdfreader.New(), a.log)
			result, err := runner.Run(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "web", "Research mode: web or pdf+web")
	cmd.Flags().StringVar(&seedPDFPath, "seed-pdf", "", "Seed PDF path, required when --mode=pdf+web")
	cmd.Flags().StringVar(&recency, "recency-hint", "", "Optional recency hint for the research phase prompt")
	return cmd
}
