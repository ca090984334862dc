package main

import (
	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/filterseed"
)

func filterSeedCmd() *cobra.Command {
	var kMin int
	cmd := &cobra.Command{
		Use:   "filter-seed",
		Short: "LLM yes/no screening of seed titles and abstracts; curates the ta_filtered PDF directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("filter-seed")
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

			opts := filterseed.DefaultOptions()
			opts.Model = flags.model
			if kMin > 0 {
				opts.KMin = kMin
			}

			runner := filterseed.New(chat, a.log)
			result, err := runner.Run(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&kMin, "k-min", 0, "Minimum strict-pass selections before the lenient fallback runs")
	return cmd
}
