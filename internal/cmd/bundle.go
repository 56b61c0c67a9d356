package cmd

import (
	"github.com/spf13/cobra"
)

// runBundleCommand performs one full bundle run.
func runBundleCommand(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	_, err = s.newBundler(cmd).Run()
	return err
}
