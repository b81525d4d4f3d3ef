// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSnapshot prints a snapshot using the configured output format.
func (ow *OutWriter) WriteSnapshot(view schema.SnapshotView, cfg *contract.Config) error {
	return WriteSnapshotView(view, cfg)
}

// WriteCheckResults prints check results using the configured output format.
func (ow *OutWriter) WriteCheckResults(results []schema.CheckResult, cfg *contract.Config) error {
	return WriteCheckResults(results, cfg)
}

// WriteHistory prints recorded check runs using the configured output format.
func (ow *OutWriter) WriteHistory(runs []schema.CheckRunRecord, cfg *contract.Config) error {
	return WriteHistoryRuns(runs, cfg)
}

// GetMaxCellWidth calculates the maximum width for free-text cells such as
// types and raw segments, based on terminal width.
func GetMaxCellWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the name and flag columns plus borders and padding
	available := termWidth - 45
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
