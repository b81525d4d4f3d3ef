package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/composeguard/core"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

// UnstableParam is one entry of the list_unstable_params tool result.
type UnstableParam struct {
	Function  string           `json:"function"`
	Skippable bool             `json:"skippable"`
	Param     schema.Parameter `json:"param"`
}

// configFor clones the base config with the variant and side arguments applied.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if v := request.GetString("variant", ""); v != "" {
		cfg.Variants = contract.ParseVariants(v)
	}
	if s := request.GetString("side", ""); s != "" {
		side := schema.Side(s)
		if _, ok := schema.ValidSides[side]; !ok {
			return nil, fmt.Errorf("invalid side %q (must be current or golden)", s)
		}
		cfg.Side = side
	}
	return cfg, nil
}

func (h *toolHandler) handleCheckMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if d := request.GetString("golden_dir", ""); d != "" {
		cfg.GoldenDir = d
	}
	if d := request.GetString("check_dir", ""); d != "" {
		cfg.CheckDir = d
	}
	cfg.Policy.IgnoreUnstableParamsOnSkippable = request.GetBool("ignore_unstable_params_on_skippable", cfg.Policy.IgnoreUnstableParamsOnSkippable)
	cfg.Policy.AssumeRuntimeStabilityAsUnstable = request.GetBool("assume_runtime_stability_as_unstable", cfg.Policy.AssumeRuntimeStabilityAsUnstable)
	cfg.Policy.ReportAllOnMissingBaseline = request.GetBool("report_all_on_missing_baseline", cfg.Policy.ReportAllOnMissingBaseline)

	results, err := core.GetCheckResults(core.WithSkipHistory(core.WithSuppressHeader(ctx)), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.ShowFunctions = request.GetBool("functions", false)

	view, err := core.GetSnapshotView(ctx, cfg, firstVariant(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListUnstableParams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg.ShowFunctions = true
	includeMissing := request.GetBool("include_missing", false)
	skipSkippable := request.GetBool("skip_skippable", false)

	view, err := core.GetSnapshotView(ctx, cfg, firstVariant(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}

	params := []UnstableParam{}
	for _, fn := range view.Functions {
		if skipSkippable && fn.IsSkippable {
			continue
		}
		for _, p := range fn.Params {
			if p.Stability == schema.Unstable || (includeMissing && p.Stability == schema.Missing) {
				params = append(params, UnstableParam{Function: fn.Name, Skippable: fn.IsSkippable, Param: p})
			}
		}
	}

	jsonData, _ := json.MarshalIndent(params, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func firstVariant(cfg *contract.Config) string {
	if len(cfg.Variants) == 0 {
		return ""
	}
	return cfg.Variants[0]
}
