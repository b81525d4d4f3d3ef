// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the composeguard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Compose Metrics Guard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: check_metrics ---
	s.AddTool(mcp.NewTool("check_metrics",
		mcp.WithDescription("Compare current Compose compiler reports against the golden baseline and list regressions."),
		mcp.WithString("variant", mcp.Description("Build variant to check, e.g. 'debug' or 'release'. Defaults to every report file.")),
		mcp.WithString("golden_dir", mcp.Description("Directory holding the golden metrics.")),
		mcp.WithString("check_dir", mcp.Description("Directory holding the current reports.")),
		mcp.WithBoolean("ignore_unstable_params_on_skippable", mcp.Description("Skip unstable params of composables that are already skippable.")),
		mcp.WithBoolean("assume_runtime_stability_as_unstable", mcp.Description("Treat parameters of unknown stability as unstable.")),
		mcp.WithBoolean("report_all_on_missing_baseline", mcp.Description("Compare against an empty baseline when no golden metrics exist.")),
	), h.handleCheckMetrics)

	// --- 2. Tool: get_snapshot ---
	s.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Summarize the Compose compiler reports of one side for a build variant."),
		mcp.WithString("variant", mcp.Description("Build variant, e.g. 'debug'.")),
		mcp.WithString("side", mcp.Description("Which reports to read. Defaults to 'current'."), mcp.Enum("current", "golden")),
		mcp.WithBoolean("functions", mcp.Description("Include every composable and class record.")),
	), h.handleGetSnapshot)

	// --- 3. Tool: list_unstable_params ---
	s.AddTool(mcp.NewTool("list_unstable_params",
		mcp.WithDescription("List composable parameters the compiler inferred as unstable."),
		mcp.WithString("variant", mcp.Description("Build variant, e.g. 'debug'.")),
		mcp.WithString("side", mcp.Description("Which reports to read. Defaults to 'current'."), mcp.Enum("current", "golden")),
		mcp.WithBoolean("include_missing", mcp.Description("Also list parameters whose stability could not be inferred.")),
		mcp.WithBoolean("skip_skippable", mcp.Description("Leave out parameters of composables that are skippable.")),
	), h.handleListUnstableParams)

	return s
}

// StartMCPServer starts the composeguard MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
