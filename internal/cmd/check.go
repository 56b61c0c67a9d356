package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/bundler/internal/check"
	"github.com/harrison/bundler/internal/display"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the built all.json",
		Long: `Validate the aggregate bundle without rebuilding it.

Every item must have a string identifier field (default "name") and be keyed
by its identifier: the name lowercased, with each run of characters other
than letters and digits replaced by "_", and leading or trailing "_" trimmed.

Problems are printed to stderr and written to the errors file
(default .tmp/errors.txt under the root), which is cleared first.
The command exits non-zero when any problem is found.`,
		Args: cobra.NoArgs,
		RunE: runCheckCommand,
	}

	cmd.Flags().String("field", "", "Identifier field to check (default: name)")

	return cmd
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	field := s.cfg.Check.IdentifierField
	if cmd.Flags().Changed("field") {
		field, _ = cmd.Flags().GetString("field")
	}

	issues := display.NewReporter(cmd.ErrOrStderr())
	checker := check.New(check.Options{
		AllPath:         s.cfg.AllPath(s.root),
		ErrorsPath:      s.cfg.ErrorsPath(s.root),
		IdentifierField: field,
		Sink:            issues,
	})

	report, err := checker.Run()
	if err != nil {
		return err
	}

	if !report.OK() {
		issues.CheckFailed(len(report.Issues), s.displayPath(report.ErrorsPath))
		return check.ErrFailed
	}

	display.NewReporter(cmd.OutOrStdout()).CheckPassed()
	return nil
}
