// Package core has core logic for checking, snapshotting and promoting compose metrics.
package core

import (
	"context"

	"github.com/huangsam/composeguard/internal/contract"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

var (
	_ ExecutorFunc = ExecuteMetricsCheck
	_ ExecutorFunc = ExecuteSnapshot
	_ ExecutorFunc = ExecuteGenerate
	_ ExecutorFunc = ExecuteClean
	_ ExecutorFunc = ExecuteWatch
)
