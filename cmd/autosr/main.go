// Command autosr drives the systematic-literature-review discovery
// pipeline's nine stages plus the snowball iteration controller, one
// subcommand per stage, all operating against a single topic-scoped
// workspace directory (§3.1, §6 CLI surface).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// globalFlags holds the flags every stage subcommand shares (§6: "all
// take --topic and optional --workspace-root").
type globalFlags struct {
	topic           string
	workspaceRoot   string
	force           bool
	provider        string
	providerSenior  string
	model           string
	modelSenior     string
	reasoningEffort string
	noCache         bool
	dryRun          bool
	debug           string
}

var flags globalFlags

func main() {
	root := &cobra.Command{
		Use:           "autosr",
		Short:         "Systematic literature review discovery pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.topic, "topic", "", "Research topic (required by every stage)")
	root.PersistentFlags().StringVar(&flags.workspaceRoot, "workspace-root", ".", "Workspace root directory")
	root.PersistentFlags().BoolVar(&flags.force, "force", false, "Overwrite existing stage output")
	root.PersistentFlags().StringVar(&flags.provider, "provider", "openai", "LLM provider: openai, anthropic, or gemini")
	root.PersistentFlags().StringVar(&flags.providerSenior, "provider-senior", "", "LLM provider for the senior reviewer (defaults to --provider)")
	root.PersistentFlags().StringVar(&flags.model, "model", "", "Model name passed to the provider")
	root.PersistentFlags().StringVar(&flags.modelSenior, "model-senior", "", "Model name for the senior reviewer (defaults to --model)")
	root.PersistentFlags().StringVar(&flags.reasoningEffort, "reasoning-effort", "", "Reasoning effort hint, provider-dependent")
	root.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "Alias for --force; present for operator muscle memory")
	root.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Print what would run without calling external services")
	root.PersistentFlags().StringVar(&flags.debug, "log-level", "info", "Logger verbosity: info or debug")

	root.AddCommand(
		seedCmd(),
		filterSeedCmd(),
		keywordsCmd(),
		harvestCmd(),
		harvestOtherCmd(),
		criteriaCmd(),
		reviewCmd(),
		snowballCmd(),
		snowballIterateCmd(),
		statusCmd(),
	)

	if err := root.Execute(); err != nil {
		class := xerrors.ClassOf(err)
		if class != "" {
			fmt.Fprintf(os.Stderr, "error: [%s] %v\n", class, err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func effectiveForce() bool {
	return flags.force || flags.noCache
}

func requireTopic() error {
	if flags.topic == "" {
		return xerrors.New(xerrors.ConfigError, "--topic is required")
	}
	return nil
}
