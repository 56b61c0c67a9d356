package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for bundler.
// Invoked without a subcommand it performs a bundle run.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundler",
		Short: "Aggregate per-category JSON files into bundles",
		Long: `Bundler collects the *.json files in each category directory under the
root into one <category>.json bundle per category, keyed by file name, and
writes every non-empty bundle together into all.json.

Directories whose names start with an excluded prefix (default ".") are not
categories. Configuration is loaded from .bundler.yaml in the root if
present; BUNDLER_* environment variables and CLI flags override it.

Examples:
  bundler                      # Build bundles for the discovered root
  bundler --root data --out public
  bundler check                # Validate identifiers in all.json
  bundler watch                # Rebuild whenever a category changes`,
		Version: Version,
		Args:    cobra.NoArgs,
		// Silence usage on errors to avoid duplicate help text; main prints the error
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBundleCommand,
	}

	flags := cmd.PersistentFlags()
	flags.String("root", "", "Root directory holding the categories (default: nearest dir with .bundler.yaml, else .)")
	flags.String("out", "", "Output directory (default: <root>/.dist)")
	flags.String("config", "", "Path to config file (default: <root>/.bundler.yaml)")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
