package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/composeguard/core/metrics"
	"github.com/huangsam/composeguard/core/rules"
	"github.com/huangsam/composeguard/core/source"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/schema"
)

// CheckResultBuilder builds the check result of one variant using a builder pattern.
type CheckResultBuilder struct {
	ctx             context.Context
	cfg             *contract.Config
	variant         string
	mgr             contract.HistoryManager
	runUUID         string
	startTime       time.Time
	baselineMissing bool
	current         *metrics.Snapshot
	golden          *metrics.Snapshot
	violations      []schema.Violation
	result          *schema.CheckResult
}

// NewCheckResultBuilder creates a new builder for the check result of a variant.
func NewCheckResultBuilder(ctx context.Context, cfg *contract.Config, variant string, mgr contract.HistoryManager) *CheckResultBuilder {
	return &CheckResultBuilder{
		ctx:       ctx,
		cfg:       cfg,
		variant:   variant,
		mgr:       mgr,
		runUUID:   uuid.New().String(),
		startTime: time.Now(),
	}
}

// ValidatePrerequisites checks that golden metrics exist for the variant.
// With ReportAllOnMissingBaseline the check continues against an empty baseline instead.
func (b *CheckResultBuilder) ValidatePrerequisites() (*CheckResultBuilder, error) {
	err := source.EnsureVariant(b.cfg.GoldenDir, b.variant)
	if err == nil {
		return b, nil
	}
	if errors.Is(err, source.ErrMissingBaseline) && b.cfg.Policy.ReportAllOnMissingBaseline {
		b.baselineMissing = true
		return b, nil
	}
	return nil, err
}

// LoadSnapshots parses the current and golden reports of the variant.
func (b *CheckResultBuilder) LoadSnapshots() (*CheckResultBuilder, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}

	current, err := metrics.LoadDirectory(b.cfg.CheckDir, b.variant)
	if err != nil {
		return nil, fmt.Errorf("failed to load current metrics from %s: %w. Build with compose compiler reports enabled first", b.cfg.CheckDir, err)
	}
	b.current = current

	if b.baselineMissing {
		b.golden = metrics.Empty()
		return b, nil
	}
	golden, err := metrics.LoadDirectory(b.cfg.GoldenDir, b.variant)
	if err != nil {
		return nil, fmt.Errorf("failed to load golden metrics from %s: %w", b.cfg.GoldenDir, err)
	}
	b.golden = golden
	return b, nil
}

// RunRules evaluates every enabled rule against the loaded snapshots.
func (b *CheckResultBuilder) RunRules() *CheckResultBuilder {
	b.violations = rules.Evaluate(b.current, b.golden, b.cfg.Policy)
	return b
}

// BuildResult constructs the final CheckResult.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	b.result = &schema.CheckResult{
		RunID:            b.runUUID,
		Variant:          b.variant,
		Passed:           len(b.violations) == 0,
		GoldenDir:        b.cfg.GoldenDir,
		CheckDir:         b.cfg.CheckDir,
		BaselineMissing:  b.baselineMissing,
		Policy:           b.cfg.Policy,
		CheckedRules:     rules.EnabledRules(b.cfg.Policy),
		Violations:       b.violations,
		Current:          b.current.Summary(b.variant, schema.CurrentSide),
		Golden:           b.golden.Summary(b.variant, schema.GoldenSide),
		StartTime:        b.startTime,
		Duration:         time.Since(b.startTime),
		CurrentParseErrs: b.current.ParseErrors(),
	}
	return b
}

// RecordHistory stores the result when a history backend is configured.
// Store failures are logged and never fail the check.
func (b *CheckResultBuilder) RecordHistory() *CheckResultBuilder {
	if b.result == nil || b.mgr == nil || shouldSkipHistory(b.ctx) {
		return b
	}
	store := b.mgr.GetHistoryStore()
	if store == nil {
		return b
	}

	runID, err := store.BeginRun(b.runUUID, b.variant, b.startTime, b.cfg.Policy.ToMap())
	if err != nil {
		contract.LogWarn("Check history initialization failed", err)
		return b
	}
	if runID <= 0 {
		return b // none backend
	}

	if err := store.RecordViolations(runID, b.result.Violations); err != nil {
		contract.LogWarn("Failed to record check violations", err)
	}
	outcome := schema.RunOutcome{
		Passed:         b.result.Passed,
		ViolationCount: len(b.result.Violations),
		FunctionCount:  b.result.Current.Functions,
		TypeCount:      b.result.Current.Types,
	}
	if err := store.EndRun(runID, b.startTime.Add(b.result.Duration), outcome); err != nil {
		contract.LogWarn("Failed to finalize check history", err)
	}
	return b
}

// GetResult returns the built CheckResult.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}
