package core

import (
	"context"
	"fmt"

	"github.com/huangsam/composeguard/core/metrics"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/outwriter"
	"github.com/huangsam/composeguard/schema"
)

// ExecuteSnapshot prints the parsed reports of one side for a single variant.
func ExecuteSnapshot(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	if len(cfg.Variants) > 1 {
		return fmt.Errorf("snapshot takes a single variant, got %d. Run it once per variant", len(cfg.Variants))
	}
	view, err := GetSnapshotView(ctx, cfg, firstVariant(cfg))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSnapshot(view, cfg)
}

// GetSnapshotView loads the configured side of a variant and condenses it for output.
// Every record is included when functions are requested or the output is parquet.
func GetSnapshotView(ctx context.Context, cfg *contract.Config, variant string) (schema.SnapshotView, error) {
	if err := ctx.Err(); err != nil {
		return schema.SnapshotView{}, err
	}

	side, dir := schema.CurrentSide, cfg.CheckDir
	if cfg.Side == schema.GoldenSide {
		side, dir = schema.GoldenSide, cfg.GoldenDir
	}
	snap, err := metrics.LoadDirectory(dir, variant)
	if err != nil {
		return schema.SnapshotView{}, fmt.Errorf("failed to load %s metrics from %s: %w", side, dir, err)
	}
	return buildSnapshotView(snap, variant, side, cfg.ShowFunctions || cfg.Output == schema.ParquetOut), nil
}

func buildSnapshotView(snap *metrics.Snapshot, variant string, side schema.Side, full bool) schema.SnapshotView {
	functions := snap.Functions()
	types := snap.Types()

	notSkippable := functions.RestartableButNotSkippable()
	names := make([]string, len(notSkippable))
	for i, fn := range notSkippable {
		names[i] = fn.Name
	}

	view := schema.SnapshotView{
		Summary:                    snap.Summary(variant, side),
		DetailedStats:              snap.DetailedStats(),
		RestartableButNotSkippable: names,
		UnstableTypes:              types.UnstableTypes(),
		ParseErrors:                snap.ParseErrors(),
	}
	if full {
		view.Functions = functions.Functions
		view.Types = types.Types
	}
	return view
}

func firstVariant(cfg *contract.Config) string {
	if len(cfg.Variants) == 0 {
		return ""
	}
	return cfg.Variants[0]
}
