package main

import (
	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/harvestother"
)

func harvestOtherCmd() *cobra.Command {
	var poolSize int
	cmd := &cobra.Command{
		Use:   "harvest-other",
		Short: "Parallel harvest from Semantic Scholar, DBLP, and OpenAlex",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("harvest-other")
				return nil
			}
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			opts := harvestother.DefaultOptions()
			if poolSize > 0 {
				opts.PoolSize = poolSize
			}

			runner := harvestother.New(a.otherSources(), a.log)
			result, err := runner.Run(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&poolSize, "pool-size", 0, "Override the ants pool's concurrent-worker cap")
	return cmd
}
