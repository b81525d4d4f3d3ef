// Package parquet provides data structures and functions for exporting composeguard
// check history and snapshots to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/composeguard/schema"
	"github.com/parquet-go/parquet-go"
)

// CheckRun represents a single check run with its outcome.
// This struct maps to the composeguard_check_runs database table.
type CheckRun struct {
	// RunID is the unique identifier for this check run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the identifier printed with the check result
	RunUUID string `parquet:"run_uuid,snappy"`

	// Variant is the build variant that was checked (empty for all files)
	Variant string `parquet:"variant,snappy"`

	// StartTime is when the check began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the check completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the check in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Passed is the outcome of the check (nullable for unfinished runs)
	Passed *bool `parquet:"passed,optional,snappy"`

	ViolationCount int32 `parquet:"violation_count,snappy"`
	FunctionCount  int32 `parquet:"function_count,snappy"`
	TypeCount      int32 `parquet:"type_count,snappy"`

	// PolicyParams contains the JSON-encoded check policy (nullable)
	PolicyParams *string `parquet:"policy_params,optional,snappy"`
}

// CheckViolation represents one offending item of a rule in a check run.
// This struct maps to the composeguard_check_violations database table.
type CheckViolation struct {
	RunID   int64  `parquet:"run_id,snappy"`
	Rule    string `parquet:"rule,dict,snappy"`
	Ordinal int32  `parquet:"ordinal,snappy"`
	Item    string `parquet:"item,snappy"`
}

// ResultRow flattens one offending item of a check result. Passing results get a single row without a rule.
type ResultRow struct {
	RunUUID string `parquet:"run_uuid,snappy"`
	Variant string `parquet:"variant,dict,snappy"`
	Passed  bool   `parquet:"passed"`
	Rule    string `parquet:"rule,dict"`
	Ordinal int32  `parquet:"ordinal"`
	Item    string `parquet:"item,snappy"`
}

// ParamRow flattens one composable parameter of a snapshot.
type ParamRow struct {
	Variant      string `parquet:"variant,dict,snappy"`
	FunctionName string `parquet:"function_name,snappy"`
	Restartable  bool   `parquet:"restartable"`
	Skippable    bool   `parquet:"skippable"`
	Inline       bool   `parquet:"inline"`
	ParamIndex   int32  `parquet:"param_index"`
	ParamName    string `parquet:"param_name,snappy"`
	ParamType    string `parquet:"param_type,snappy"`
	Stability    string `parquet:"stability,dict"`
	DefaultKind  string `parquet:"default_kind,dict"`
	Unused       bool   `parquet:"unused"`
	NoParams     bool   `parquet:"no_params"` // Set on the single row written for a composable without params
}

// TypeRow flattens one class of a snapshot.
type TypeRow struct {
	Variant          string `parquet:"variant,dict,snappy"`
	TypeName         string `parquet:"type_name,snappy"`
	Stability        string `parquet:"stability,dict"`
	RuntimeStability string `parquet:"runtime_stability,dict"`
	FieldCount       int32  `parquet:"field_count"`
	Fields           string `parquet:"fields,snappy"` // Newline-joined "status detail" lines
}

// Write writes rows of any parquet-tagged struct to w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows of any parquet-tagged struct to a new file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertCheckRunRecords converts schema.CheckRunRecord to CheckRun for Parquet export.
func ConvertCheckRunRecords(records []schema.CheckRunRecord) []CheckRun {
	result := make([]CheckRun, len(records))
	for i, record := range records {
		result[i] = CheckRun{
			RunID:          record.RunID,
			RunUUID:        record.RunUUID,
			Variant:        record.Variant,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			Passed:         record.Passed,
			ViolationCount: record.ViolationCount,
			FunctionCount:  record.FunctionCount,
			TypeCount:      record.TypeCount,
			PolicyParams:   record.PolicyParams,
		}
	}
	return result
}

// ConvertViolationRecords converts schema.ViolationRecord to CheckViolation for Parquet export.
func ConvertViolationRecords(records []schema.ViolationRecord) []CheckViolation {
	result := make([]CheckViolation, len(records))
	for i, record := range records {
		result[i] = CheckViolation(record)
	}
	return result
}

// ConvertCheckResults flattens check results into one row per offending item.
func ConvertCheckResults(results []schema.CheckResult) []ResultRow {
	var rows []ResultRow
	for _, r := range results {
		if len(r.Violations) == 0 {
			rows = append(rows, ResultRow{RunUUID: r.RunID, Variant: r.Variant, Passed: r.Passed})
			continue
		}
		for _, v := range r.Violations {
			for i, item := range v.Items {
				rows = append(rows, ResultRow{
					RunUUID: r.RunID,
					Variant: r.Variant,
					Passed:  r.Passed,
					Rule:    string(v.Rule),
					Ordinal: int32(i),
					Item:    item,
				})
			}
		}
	}
	return rows
}

// ConvertFunctions flattens function records into one row per parameter.
func ConvertFunctions(variant string, functions []schema.FunctionRecord) []ParamRow {
	var result []ParamRow
	for _, fn := range functions {
		base := ParamRow{
			Variant:      variant,
			FunctionName: fn.Name,
			Restartable:  fn.IsRestartable,
			Skippable:    fn.IsSkippable,
			Inline:       fn.IsInline,
		}
		if len(fn.Params) == 0 {
			row := base
			row.NoParams = true
			result = append(result, row)
			continue
		}
		for i, p := range fn.Params {
			row := base
			row.ParamIndex = int32(i)
			row.ParamName = p.Name
			row.ParamType = p.Type
			row.Stability = string(p.Stability)
			row.DefaultKind = string(p.DefaultKind)
			row.Unused = p.Unused
			result = append(result, row)
		}
	}
	return result
}

// ConvertTypes flattens type records into one row per class.
func ConvertTypes(variant string, types []schema.TypeRecord) []TypeRow {
	result := make([]TypeRow, len(types))
	for i, t := range types {
		fields := make([]string, len(t.Fields))
		for j, f := range t.Fields {
			fields[j] = f.Status + " " + f.Detail
		}
		result[i] = TypeRow{
			Variant:          variant,
			TypeName:         t.Name,
			Stability:        string(t.Stability),
			RuntimeStability: t.RuntimeStabilityString(),
			FieldCount:       int32(len(t.Fields)),
			Fields:           strings.Join(fields, "\n"),
		}
	}
	return result
}
