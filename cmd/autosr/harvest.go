package main

import (
	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/harvest"
)

func harvestCmd() *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Execute the anchor x search-term boolean queries against arXiv",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("harvest")
				return nil
			}
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			opts := harvest.DefaultOptions()
			if topK > 0 {
				opts.TopKPerQuery = topK
			}

			runner := harvest.New(a.arxivSource(), a.log)
			result, err := runner.Run(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&topK, "top-k-per-query", 0, "Override how many results to keep per query")
	return cmd
}
