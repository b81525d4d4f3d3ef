// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/composeguard/schema"
)

// HistoryManager defines the interface for reaching the check history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording check runs and their violations.
type HistoryStore interface {
	// BeginRun creates a new check run and returns its unique ID
	BeginRun(runUUID, variant string, startTime time.Time, policyParams map[string]any) (int64, error)

	// EndRun updates the check run with its outcome
	EndRun(runID int64, endTime time.Time, outcome schema.RunOutcome) error

	// RecordViolations stores one row per offending item of each violation
	RecordViolations(runID int64, violations []schema.Violation) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all check runs, oldest first
	GetAllRuns() ([]schema.CheckRunRecord, error)

	// GetAllViolations retrieves all recorded violations
	GetAllViolations() ([]schema.ViolationRecord, error)

	Close() error
}
