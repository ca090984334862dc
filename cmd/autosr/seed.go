package main

import (
	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/seed"
)

func seedCmd() *cobra.Command {
	var (
		maxResults   int
		downloadTopK int
		rewrite      bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Query arXiv for survey papers matching the topic and download the top-K pre-cutoff PDFs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("seed")
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

			opts := seed.DefaultOptions()
			opts.Model = flags.model
			if maxResults > 0 {
				opts.MaxResults = maxResults
			}
			if downloadTopK > 0 {
				opts.DownloadTopK = downloadTopK
			}
			opts.SeedRewriteEnabled = rewrite

			runner := seed.New(a.arxivSource(), chat, a.log)
			result, err := runner.Run(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Override the default arXiv result cap")
	cmd.Flags().IntVar(&downloadTopK, "download-top-k", 0, "Override how many top-ranked PDFs to download")
	cmd.Flags().BoolVar(&rewrite, "seed-rewrite", true, "Fall back to the seed-rewrite loop when the initial query yields nothing")
	return cmd
}
