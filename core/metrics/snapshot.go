// Package metrics builds immutable snapshots of compose compiler reports and metrics.
package metrics

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/huangsam/composeguard/core/parse"
	"github.com/huangsam/composeguard/core/source"
	"github.com/huangsam/composeguard/schema"
)

// Snapshot is the parsed content of one report set. It is not modified after Load,
// and every accessor returns a copy.
type Snapshot struct {
	counters  schema.SummaryCounters
	detailed  []schema.DetailedStatsRow
	functions schema.FunctionsReport
	types     schema.TypesReport
}

// Empty returns a snapshot with no counters, rows or records.
func Empty() *Snapshot {
	return &Snapshot{
		counters: schema.SummaryCounters{},
		detailed: []schema.DetailedStatsRow{},
	}
}

// Load reads and parses every file in the set. Any read or decode failure aborts the load.
// Malformed records are kept as parse errors instead.
func Load(set source.RawReportSet) (*Snapshot, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	counters, err := loadBriefStats(set.Brief)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{counters: counters, detailed: []schema.DetailedStatsRow{}}

	err = eachContent(set.Detailed, func(content string) {
		snap.detailed = append(snap.detailed, parse.ParseDetailedStats(content)...)
	})
	if err != nil {
		return nil, err
	}

	err = eachContent(set.Functions, func(content string) {
		report := parse.ParseFunctions(content)
		snap.functions.Functions = append(snap.functions.Functions, report.Functions...)
		snap.functions.Errors = append(snap.functions.Errors, report.Errors...)
	})
	if err != nil {
		return nil, err
	}

	err = eachContent(set.Types, func(content string) {
		report := parse.ParseTypes(content)
		snap.types.Types = append(snap.types.Types, report.Types...)
		snap.types.Errors = append(snap.types.Errors, report.Errors...)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// FromReports builds a snapshot from already parsed reports. The inputs are copied.
func FromReports(counters schema.SummaryCounters, functions schema.FunctionsReport, types schema.TypesReport) *Snapshot {
	snap := Empty()
	maps.Copy(snap.counters, counters)
	snap.functions = schema.FunctionsReport{
		Functions: cloneFunctions(functions.Functions),
		Errors:    slices.Clone(functions.Errors),
	}
	snap.types = schema.TypesReport{
		Types:  cloneTypes(types.Types),
		Errors: slices.Clone(types.Errors),
	}
	return snap
}

// LoadDirectory is a convenience for scanning dir for a variant and loading the result.
func LoadDirectory(dir, variant string) (*Snapshot, error) {
	set, err := source.FromDirectory(dir, variant)
	if err != nil {
		return nil, err
	}
	return Load(set)
}

func loadBriefStats(paths []string) (schema.SummaryCounters, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open brief stats %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		readers = append(readers, f)
	}
	counters, err := parse.MergeBriefStats(readers...)
	if err != nil {
		return nil, fmt.Errorf("failed to load brief stats: %w", err)
	}
	return counters, nil
}

func eachContent(paths []string, fn func(content string)) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read report %s: %w", path, err)
		}
		fn(string(data))
	}
	return nil
}

// Counters returns the brief statistics summed across files.
func (s *Snapshot) Counters() schema.SummaryCounters {
	return maps.Clone(s.counters)
}

// DetailedStats returns the detailed statistics rows of every file in order.
func (s *Snapshot) DetailedStats() []schema.DetailedStatsRow {
	out := make([]schema.DetailedStatsRow, len(s.detailed))
	for i, row := range s.detailed {
		out[i] = slices.Clone(row)
	}
	return out
}

// Functions returns the functions report.
func (s *Snapshot) Functions() schema.FunctionsReport {
	return schema.FunctionsReport{
		Functions: cloneFunctions(s.functions.Functions),
		Errors:    slices.Clone(s.functions.Errors),
	}
}

// Types returns the types report.
func (s *Snapshot) Types() schema.TypesReport {
	return schema.TypesReport{
		Types:  cloneTypes(s.types.Types),
		Errors: slices.Clone(s.types.Errors),
	}
}

// ParseErrors returns the function and type segments that failed to parse.
func (s *Snapshot) ParseErrors() []schema.ParseError {
	out := make([]schema.ParseError, 0, len(s.functions.Errors)+len(s.types.Errors))
	out = append(out, s.functions.Errors...)
	return append(out, s.types.Errors...)
}

// Summary condenses the snapshot into counts.
func (s *Snapshot) Summary(variant string, side schema.Side) schema.SnapshotSummary {
	summary := schema.SnapshotSummary{
		Variant:                    variant,
		Side:                       side,
		Counters:                   s.Counters(),
		DetailedRows:               len(s.detailed),
		Functions:                  len(s.functions.Functions),
		RestartableButNotSkippable: len(s.functions.RestartableButNotSkippable()),
		Types:                      len(s.types.Types),
		UnstableTypes:              len(s.types.UnstableTypes()),
		ParseErrors:                len(s.functions.Errors) + len(s.types.Errors),
	}
	for _, fn := range s.functions.Functions {
		for _, p := range fn.Params {
			if p.Stability == schema.Unstable {
				summary.UnstableParams++
			}
			if p.DefaultKind == schema.DynamicDefault {
				summary.DynamicDefaults++
			}
		}
	}
	return summary
}

func cloneFunctions(in []schema.FunctionRecord) []schema.FunctionRecord {
	if in == nil {
		return nil
	}
	out := make([]schema.FunctionRecord, len(in))
	for i, fn := range in {
		fn.Params = slices.Clone(fn.Params)
		out[i] = fn
	}
	return out
}

func cloneTypes(in []schema.TypeRecord) []schema.TypeRecord {
	if in == nil {
		return nil
	}
	out := make([]schema.TypeRecord, len(in))
	for i, t := range in {
		if t.RuntimeStability != nil {
			rt := *t.RuntimeStability
			t.RuntimeStability = &rt
		}
		t.Fields = slices.Clone(t.Fields)
		out[i] = t
	}
	return out
}
