package main

import (
	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/pdfreader"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/stage/keywords"
)

func keywordsCmd() *cobra.Command {
	var maxPDFs int
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Extract anchor and categorized search terms from the filtered seed PDFs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				printDryRun("keywords")
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

			opts := keywords.DefaultOptions()
			opts.Model = flags.model
			if maxPDFs > 0 {
				opts.MaxPDFs = maxPDFs
			}

			runner := keywords.New(chat, a.arxivSource(), pdfreader.New(), a.log)
			result, err := runner.Run(ctx, a.ws, opts, effectiveForce())
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPDFs, "max-pdfs", 0, "Override how many filtered PDFs to extract keywords from")
	return cmd
}
