package cmd

import (
	"github.com/huangsam/composeguard/core"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/spf13/cobra"
)

// generateCmd promotes the current reports to golden metrics.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Copy the current compiler reports into the golden directory",
	Long: `Replace the golden metrics of each variant with the reports found in the check directory.

Run this after an intentional stability change so future checks compare against the
new state. Only files of the selected variants are replaced unless --clean is given.

Examples:
  # Regenerate golden metrics for debug
  composeguard generate --variant debug

  # Start over with an empty golden directory
  composeguard generate --clean`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGenerate(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Failed to generate golden metrics", err)
		}
	},
}
