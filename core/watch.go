package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/outwriter"
	"github.com/huangsam/composeguard/schema"
)

var reportSuffixes = []string{
	schema.BriefStatsSuffix,
	schema.DetailedStatsSuffix,
	schema.FunctionsSuffix,
	schema.TypesSuffix,
}

// ExecuteWatch re-runs the check whenever report files in the check directory change.
// Failures are printed and never stop the watch. It returns when ctx is canceled.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	if err := os.MkdirAll(cfg.CheckDir, 0o755); err != nil {
		return fmt.Errorf("failed to create check directory %s: %w", cfg.CheckDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.CheckDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.CheckDir, err)
	}
	fmt.Fprintf(os.Stderr, "👀 Watching %s (debounce %v). Press Ctrl+C to stop\n", cfg.CheckDir, cfg.WatchDebounce)

	check := func() { runWatchedCheck(ctx, cfg, mgr) }
	check()
	return watchLoop(ctx, watcher.Events, watcher.Errors, cfg.WatchDebounce, check)
}

// watchLoop calls onChange once per burst of report events, after debounce of quiet.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = contract.DefaultWatchDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if isReportEvent(event) {
				timer.Reset(debounce)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			contract.LogWarn("File watcher error", err)
		case <-timer.C:
			onChange()
		}
	}
}

// isReportEvent reports whether an event touches a compose report file.
func isReportEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	for _, suffix := range reportSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// runWatchedCheck checks every variant and prints the outcome. Errors are only logged.
func runWatchedCheck(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) {
	fmt.Fprintf(os.Stderr, "\n🔁 %s checking %s\n", time.Now().Format(time.TimeOnly), cfg.CheckDir)
	results, err := GetCheckResults(WithSuppressHeader(ctx), cfg, mgr)
	if err != nil {
		contract.LogWarn("Check failed", err)
		return
	}
	if err := outwriter.NewOutWriter().WriteCheckResults(results, cfg); err != nil {
		contract.LogWarn("Failed to write check results", err)
	}
	if cfg.MetricsFile != "" {
		if err := WriteMetricsFile(results, cfg.MetricsFile); err != nil {
			contract.LogWarn("Failed to write metrics file", err)
		}
	}
}
