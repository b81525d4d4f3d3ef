package core

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/outwriter"
	"github.com/huangsam/composeguard/schema"
)

// ExecuteMetricsCheck runs the check command for CI/CD gating.
// It compares the current reports of every configured variant against the golden ones
// and exits with a non-zero code if any variant has regressions.
func ExecuteMetricsCheck(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	results, err := GetCheckResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	if err := outwriter.NewOutWriter().WriteCheckResults(results, cfg); err != nil {
		return fmt.Errorf("error writing check results: %w", err)
	}
	if cfg.MetricsFile != "" {
		if err := WriteMetricsFile(results, cfg.MetricsFile); err != nil {
			contract.LogWarn("Failed to write metrics file", err)
		}
	}

	if failed := countFailed(results); failed > 0 {
		// Only the text report prints messages to the terminal
		if cfg.Output != schema.TextOut || cfg.OutputFile != "" {
			fmt.Fprintf(os.Stderr, "%s\n\n", outwriter.JoinedMessages(results))
		}
		fmt.Fprintf(os.Stderr, "%d of %d check(s) failed\n", failed, len(results))
		os.Exit(1)
	}
	return nil
}

// GetCheckResults checks every configured variant in parallel. Results keep the variant order.
// The first failure to load a variant aborts the whole check.
func GetCheckResults(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) ([]schema.CheckResult, error) {
	if !shouldSuppressHeader(ctx) {
		logCheckHeader(cfg)
	}

	variants := cfg.Variants
	if len(variants) == 0 {
		variants = []string{""}
	}

	results := make([]schema.CheckResult, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Go(func() {
			result, err := checkVariant(ctx, cfg.CloneForVariant(variant), variant, mgr)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = *result
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// checkVariant runs the builder steps for a single variant.
func checkVariant(ctx context.Context, cfg *contract.Config, variant string, mgr contract.HistoryManager) (*schema.CheckResult, error) {
	builder := NewCheckResultBuilder(ctx, cfg, variant, mgr)

	if _, err := builder.ValidatePrerequisites(); err != nil {
		return nil, err
	}
	if _, err := builder.LoadSnapshots(); err != nil {
		return nil, err
	}
	builder.RunRules()
	builder.BuildResult()
	builder.RecordHistory()

	return builder.GetResult(), nil
}

// logCheckHeader prints the directories and variants of a check to stderr.
func logCheckHeader(cfg *contract.Config) {
	variants := make([]string, len(cfg.Variants))
	for i, v := range cfg.Variants {
		if v == "" {
			v = "all"
		}
		variants[i] = v
	}

	labels := []string{"Golden:", "Current:", "Variants:"}
	values := []string{cfg.GoldenDir, cfg.CheckDir, strings.Join(variants, ", ")}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	fmt.Fprintln(os.Stderr, "🔎 Compose metrics check:")
	for i, label := range labels {
		fmt.Fprintf(os.Stderr, "  %-*s %s\n", maxLabelLen+1, label, values[i])
	}
}

func countFailed(results []schema.CheckResult) int {
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	return failed
}
