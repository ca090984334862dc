package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
)

// statusCmd is a supplemented, read-only subcommand: it reports which
// stages have already produced output for --topic's workspace, without
// running or calling any external service. Not part of the original
// pipeline description — added because every resumable, workspace-
// scoped pipeline in the retrieval pack ships some form of "what has
// run so far" inspection command (see DESIGN.md).
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which pipeline stages have produced output for --topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTopic(); err != nil {
				return err
			}
			ws, err := workspace.Resolve(flags.workspaceRoot, flags.topic)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STAGE\tDONE\tPRIMARY OUTPUT")
			for _, s := range statusChecks(ws) {
				done := "no"
				if workspace.Exists(s.path) {
					done = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.stage, done, s.path)
			}
			return w.Flush()
		},
	}
}

type stageCheck struct {
	stage string
	path  string
}

func statusChecks(ws *workspace.Workspace) []stageCheck {
	return []stageCheck{
		{"seed", filepath.Join(ws.SeedQueriesDir(), "seed_selection.json")},
		{"filter-seed", filepath.Join(ws.SeedFiltersDir(), "selected_ids.json")},
		{"keywords", filepath.Join(ws.KeywordsDir(), "keywords.json")},
		{"harvest", filepath.Join(ws.HarvestDir(), "arxiv_metadata.json")},
		{"harvest-other", filepath.Join(ws.HarvestOtherDir(), "merged.json")},
		{"criteria", filepath.Join(ws.CriteriaDir(), "criteria.json")},
		{"review", filepath.Join(ws.ReviewDir(), "latte_review_results.json")},
		{"snowball-iterate", filepath.Join(ws.SnowballRoundsDir(), "final_included.json")},
	}
}
