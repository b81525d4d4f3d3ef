package cmd

import (
	"github.com/huangsam/composeguard/core"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/spf13/cobra"
)

// snapshotCmd summarizes one side of the reports.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Summarize the compiler reports of one variant",
	Long: `Parse the reports of a single variant and print what the compiler inferred.

Shows:
- Summary counters from the module and detailed stats
- Composables that are restartable but not skippable
- Classes inferred as unstable
- Records that could not be parsed

Examples:
  # Current reports of the debug variant
  composeguard snapshot --variant debug

  # Golden metrics as JSON, including every composable
  composeguard snapshot --variant debug --side golden --functions --output json

  # Columnar export for DuckDB
  composeguard snapshot --variant debug --output parquet --output-file debug`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshot(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Failed to build snapshot", err)
		}
	},
}
