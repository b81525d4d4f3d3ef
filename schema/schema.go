// Package schema has models and constants for all parts of composeguard.
package schema

import (
	"fmt"
	"strings"
)

// Parameter is one parameter of a composable function as reported by the compiler.
type Parameter struct {
	Name        string      `json:"name" yaml:"name"`
	Type        string      `json:"type" yaml:"type"` // Raw declared type, may end with '?'
	Unused      bool        `json:"unused" yaml:"unused"`
	Stability   Stability   `json:"stability" yaml:"stability"`
	DefaultKind DefaultKind `json:"default_kind" yaml:"default_kind"`
	Raw         string      `json:"raw" yaml:"raw"`
}

// FunctionRecord represents one composable function entry of a functions report.
type FunctionRecord struct {
	Name          string      `json:"name" yaml:"name"`
	IsRestartable bool        `json:"restartable" yaml:"restartable"`
	IsSkippable   bool        `json:"skippable" yaml:"skippable"`
	IsInline      bool        `json:"inline" yaml:"inline"`
	Params        []Parameter `json:"params" yaml:"params"`
	Raw           string      `json:"raw" yaml:"raw"`
}

// Equal reports whether two records match on every attribute, including raw text.
func (f FunctionRecord) Equal(other FunctionRecord) bool {
	if f.Name != other.Name || f.IsRestartable != other.IsRestartable ||
		f.IsSkippable != other.IsSkippable || f.IsInline != other.IsInline ||
		f.Raw != other.Raw || len(f.Params) != len(other.Params) {
		return false
	}
	for i := range f.Params {
		if f.Params[i] != other.Params[i] {
			return false
		}
	}
	return true
}

// String renders the record for violation messages.
func (f FunctionRecord) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("Parameter(name=%s, type=%s, unused=%t, stability=%s, default=%s)",
			p.Name, p.Type, p.Unused, p.Stability, p.DefaultKind)
	}
	return fmt.Sprintf("FunctionRecord(functionName=%s, isRestartable=%t, isSkippable=%t, isInline=%t, params=[%s], raw=%s)",
		f.Name, f.IsRestartable, f.IsSkippable, f.IsInline, strings.Join(params, ", "), f.Raw)
}

// Field is one field line of a type record.
type Field struct {
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail" yaml:"detail"`
}

// TypeRecord represents one class entry of a types report.
type TypeRecord struct {
	Name             string     `json:"name" yaml:"name"`
	Stability        Stability  `json:"stability" yaml:"stability"`
	RuntimeStability *Stability `json:"runtime_stability,omitempty" yaml:"runtime_stability,omitempty"` // nil when not declared
	Fields           []Field    `json:"fields" yaml:"fields"`
	Raw              string     `json:"raw" yaml:"raw"`
}

// RuntimeStabilityString returns the runtime stability or "null" when it was not declared.
func (t TypeRecord) RuntimeStabilityString() string {
	if t.RuntimeStability == nil {
		return "null"
	}
	return string(*t.RuntimeStability)
}

// String renders the record with its fields and raw content for violation messages.
func (t TypeRecord) String() string {
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = fmt.Sprintf("Field(status=%s, detail=%s)", f.Status, f.Detail)
	}
	return fmt.Sprintf("TypeRecord(typeName=%s, stability=%s, runtimeStability=%s, fields=[%s], raw=%s)",
		t.Name, t.Stability, t.RuntimeStabilityString(), strings.Join(fields, ", "), t.Raw)
}

// ParseError records one segment that could not be parsed into a record.
type ParseError struct {
	RawSegment string `json:"raw_segment" yaml:"raw_segment"`
	Cause      string `json:"cause" yaml:"cause"`
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cause, e.RawSegment)
}

// FunctionsReport is the parsed content of one or more functions reports.
type FunctionsReport struct {
	Functions []FunctionRecord `json:"functions" yaml:"functions"`
	Errors    []ParseError     `json:"errors" yaml:"errors"`
}

// RestartableButNotSkippable returns the functions the compiler cannot skip on recomposition.
func (r FunctionsReport) RestartableButNotSkippable() []FunctionRecord {
	var out []FunctionRecord
	for _, f := range r.Functions {
		if f.IsRestartable && !f.IsSkippable {
			out = append(out, f)
		}
	}
	return out
}

// TypesReport is the parsed content of one or more types reports.
type TypesReport struct {
	Types  []TypeRecord `json:"types" yaml:"types"`
	Errors []ParseError `json:"errors" yaml:"errors"`
}

// UnstableTypes returns the types declared unstable.
func (r TypesReport) UnstableTypes() []TypeRecord {
	var out []TypeRecord
	for _, t := range r.Types {
		if t.Stability == Unstable {
			out = append(out, t)
		}
	}
	return out
}

// SummaryCounters holds brief statistics summed across all source files.
type SummaryCounters map[string]int64

// StatPair is one header/value cell of a detailed statistics row.
type StatPair struct {
	Header string `json:"header" yaml:"header"`
	Value  string `json:"value" yaml:"value"`
}

// DetailedStatsRow is one non-header line of a detailed statistics CSV.
type DetailedStatsRow []StatPair

// ParamKey identifies a parameter across two reports.
type ParamKey struct {
	FunctionName  string `json:"function_name" yaml:"function_name"`
	ParameterName string `json:"parameter_name" yaml:"parameter_name"`
	ParameterType string `json:"parameter_type" yaml:"parameter_type"`
}

// String renders the key for violation messages.
func (k ParamKey) String() string {
	return fmt.Sprintf("FunctionAndParameter(functionName=%s, parameterName=%s, parameterType=%s)",
		k.FunctionName, k.ParameterName, k.ParameterType)
}

// SnapshotSummary condenses a snapshot into counts for display and storage.
type SnapshotSummary struct {
	Variant                    string          `json:"variant" yaml:"variant"`
	Side                       Side            `json:"side" yaml:"side"`
	Counters                   SummaryCounters `json:"counters" yaml:"counters"`
	DetailedRows               int             `json:"detailed_rows" yaml:"detailed_rows"`
	Functions                  int             `json:"functions" yaml:"functions"`
	RestartableButNotSkippable int             `json:"restartable_not_skippable" yaml:"restartable_not_skippable"`
	Types                      int             `json:"types" yaml:"types"`
	UnstableTypes              int             `json:"unstable_types" yaml:"unstable_types"`
	UnstableParams             int             `json:"unstable_params" yaml:"unstable_params"`
	DynamicDefaults            int             `json:"dynamic_defaults" yaml:"dynamic_defaults"`
	ParseErrors                int             `json:"parse_errors" yaml:"parse_errors"`
}
