package cmd

import (
	"github.com/huangsam/composeguard/core"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD regression gating.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare current compiler metrics against the golden baseline (fails build on regressions)",
	Long: `Parse the Compose compiler reports in the check directory and compare them against
the golden metrics for each variant.

Designed for CI/CD integration - exits with a non-zero code when any enabled rule finds
a regression. Every violation message is printed, separated by blank lines.

Rules (all enabled by default):
- dynamic_defaults - new composables with dynamic default parameter expressions
- unstable_classes - new classes inferred as unstable
- restartable_not_skippable - new composables that are restartable but not skippable
- unstable_params - composables that gained unstable parameters

Examples:
  # Check the debug variant
  composeguard check --variant debug

  # Check several variants in parallel
  composeguard check --variant debug,release

  # First run on a module without golden metrics
  composeguard check --variant debug --report-all-on-missing-baseline

  # Record the run and export gauges for the node exporter
  composeguard check --history-backend sqlite --metrics-file /var/lib/node_exporter/composeguard.prom`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Exit status is handled in ExecuteMetricsCheck
		if err := core.ExecuteMetricsCheck(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Metrics check failed", err)
		}
	},
}
