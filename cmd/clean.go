package cmd

import (
	"github.com/huangsam/composeguard/core"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/spf13/cobra"
)

// cleanCmd removes generated report directories.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the check directory (and optionally the golden directory)",
	Long: `Delete the raw compiler reports so the next build writes a fresh set.

Examples:
  # Remove the raw reports
  composeguard clean

  # Remove the golden metrics too
  composeguard clean --golden`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClean(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Failed to clean report directories", err)
		}
	},
}
