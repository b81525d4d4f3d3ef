package schema

import "time"

// CheckRunRecord represents a row from the composeguard_check_runs table.
type CheckRunRecord struct {
	RunID          int64      `json:"run_id" yaml:"run_id"`
	RunUUID        string     `json:"run_uuid" yaml:"run_uuid"`
	Variant        string     `json:"variant" yaml:"variant"`
	StartTime      time.Time  `json:"start_time" yaml:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	RunDurationMs  *int32     `json:"run_duration_ms,omitempty" yaml:"run_duration_ms,omitempty"`
	Passed         *bool      `json:"passed,omitempty" yaml:"passed,omitempty"`
	ViolationCount int32      `json:"violation_count" yaml:"violation_count"`
	FunctionCount  int32      `json:"function_count" yaml:"function_count"`
	TypeCount      int32      `json:"type_count" yaml:"type_count"`
	PolicyParams   *string    `json:"policy_params,omitempty" yaml:"policy_params,omitempty"`
}

// ViolationRecord represents a row from the composeguard_check_violations table.
type ViolationRecord struct {
	RunID   int64  `json:"run_id" yaml:"run_id"`
	Rule    string `json:"rule" yaml:"rule"`
	Ordinal int32  `json:"ordinal" yaml:"ordinal"`
	Item    string `json:"item" yaml:"item"`
}

// RunOutcome holds the completion data of a check run.
type RunOutcome struct {
	Passed         bool
	ViolationCount int
	FunctionCount  int
	TypeCount      int
}
