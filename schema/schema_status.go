package schema

import "time"

// HistoryStatus represents the status of the check history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	Database        string           `json:"database"`
	TotalRuns       int              `json:"total_runs"`
	FailedRuns      int              `json:"failed_runs"`
	LastRunID       int64            `json:"last_run_id"`
	LastRunTime     time.Time        `json:"last_run_time"`
	OldestRunTime   time.Time        `json:"oldest_run_time"`
	TotalViolations int              `json:"total_violations"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}
