package cmd

import (
	"github.com/huangsam/composeguard/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd serves the metrics tools over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve Compose metrics tools to AI agents over stdio",
	Long: `Run an MCP server on stdin/stdout. Directory, variant and policy settings come
from the config file and environment, and each tool call may override them.

Tools:
- check_metrics - compare current reports against the golden baseline
- get_snapshot - summarize the reports of one side
- list_unstable_params - list parameters inferred as unstable`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager)
	},
}
