package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/composeguard/core"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd re-runs the check while reports change.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the check whenever the compiler reports change",
	Long: `Watch the check directory and re-run the metrics check after each burst of report writes.

Failures are printed but never stop the watcher. Press Ctrl+C to exit.

Examples:
  # Watch the debug variant
  composeguard watch --variant debug

  # Wait longer for the compiler to finish writing
  composeguard watch --variant debug --debounce 2s`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := core.ExecuteWatch(ctx, cfg, historyManager); err != nil && ctx.Err() == nil {
			contract.LogFatal("Watch failed", err)
		}
	},
}
