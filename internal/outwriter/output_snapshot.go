package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/parquet"
	"github.com/huangsam/composeguard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSnapshotView outputs a snapshot, dispatching based on the output format configured.
func WriteSnapshotView(view schema.SnapshotView, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, view)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotCSV(w, view.Summary)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeSnapshotParquet(view, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotText(w, view, cfg)
		}, "Wrote table")
	}
}

// summaryRows flattens a summary into metric/value pairs. Counters come first in key order.
func summaryRows(summary schema.SnapshotSummary) [][]string {
	var rows [][]string
	for _, key := range slices.Sorted(maps.Keys(summary.Counters)) {
		rows = append(rows, []string{key, strconv.FormatInt(summary.Counters[key], 10)})
	}
	return append(rows,
		[]string{"detailedRows", strconv.Itoa(summary.DetailedRows)},
		[]string{"functions", strconv.Itoa(summary.Functions)},
		[]string{"restartableNotSkippable", strconv.Itoa(summary.RestartableButNotSkippable)},
		[]string{"types", strconv.Itoa(summary.Types)},
		[]string{"unstableTypes", strconv.Itoa(summary.UnstableTypes)},
		[]string{"unstableParams", strconv.Itoa(summary.UnstableParams)},
		[]string{"dynamicDefaults", strconv.Itoa(summary.DynamicDefaults)},
		[]string{"parseErrors", strconv.Itoa(summary.ParseErrors)},
	)
}

func writeSnapshotCSV(w io.Writer, summary schema.SnapshotSummary) error {
	return writeCSVWithHeader(w, []string{"variant", "side", "metric", "value"}, func(cw *csv.Writer) error {
		for _, row := range summaryRows(summary) {
			record := append([]string{summary.Variant, string(summary.Side)}, row...)
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeSnapshotParquet writes the function parameters and types of a snapshot to two files.
func writeSnapshotParquet(view schema.SnapshotView, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}
	variant := view.Summary.Variant

	functionsFile := outputFile + ".functions.parquet"
	if err := parquet.WriteFile(parquet.ConvertFunctions(variant, view.Functions), functionsFile); err != nil {
		return fmt.Errorf("failed to write functions: %w", err)
	}
	typesFile := outputFile + ".types.parquet"
	if err := parquet.WriteFile(parquet.ConvertTypes(variant, view.Types), typesFile); err != nil {
		return fmt.Errorf("failed to write types: %w", err)
	}
	logWrote("Wrote Parquet", functionsFile)
	logWrote("Wrote Parquet", typesFile)
	return nil
}

// writeSnapshotText renders the human-readable tables of a snapshot.
func writeSnapshotText(w io.Writer, view schema.SnapshotView, cfg *contract.Config) error {
	maxWidth := GetMaxCellWidth(cfg)
	summary := view.Summary

	label := summary.Variant
	if label == "" {
		label = "all variants"
	}
	if _, err := fmt.Fprintf(w, "Snapshot of %s (%s)\n", label, summary.Side); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Metric", "Value"}, summaryRows(summary)); err != nil {
		return err
	}

	if len(view.RestartableButNotSkippable) > 0 {
		if _, err := fmt.Fprintf(w, "\nRestartable but not skippable (%d)\n", len(view.RestartableButNotSkippable)); err != nil {
			return err
		}
		var data [][]string
		for i, name := range view.RestartableButNotSkippable {
			data = append(data, []string{strconv.Itoa(i + 1), contract.TruncateText(name, maxWidth)})
		}
		if err := renderTable(w, []string{"#", "Function"}, data); err != nil {
			return err
		}
	}

	if len(view.UnstableTypes) > 0 {
		if _, err := fmt.Fprintf(w, "\nUnstable types (%d)\n", len(view.UnstableTypes)); err != nil {
			return err
		}
		var data [][]string
		for _, t := range view.UnstableTypes {
			data = append(data, []string{
				contract.TruncateText(t.Name, maxWidth),
				t.RuntimeStabilityString(),
				strconv.Itoa(len(t.Fields)),
				strconv.Itoa(unstableFieldCount(t)),
			})
		}
		if err := renderTable(w, []string{"Type", "Runtime", "Fields", "Unstable"}, data); err != nil {
			return err
		}
	}

	if cfg.ShowFunctions && len(view.Functions) > 0 {
		if _, err := fmt.Fprintf(w, "\nFunctions (%d)\n", len(view.Functions)); err != nil {
			return err
		}
		var data [][]string
		for _, fn := range view.Functions {
			unstable := 0
			for _, p := range fn.Params {
				if p.Stability == schema.Unstable {
					unstable++
				}
			}
			data = append(data, []string{
				contract.TruncateText(fn.Name, maxWidth),
				yesNo(fn.IsRestartable),
				yesNo(fn.IsSkippable),
				yesNo(fn.IsInline),
				strconv.Itoa(len(fn.Params)),
				strconv.Itoa(unstable),
			})
		}
		if err := renderTable(w, []string{"Function", "Restartable", "Skippable", "Inline", "Params", "Unstable"}, data); err != nil {
			return err
		}
	}

	if len(view.ParseErrors) > 0 {
		if _, err := fmt.Fprintf(w, "\nParse errors (%d)\n", len(view.ParseErrors)); err != nil {
			return err
		}
		var data [][]string
		for _, pe := range view.ParseErrors {
			data = append(data, []string{pe.Cause, contract.TruncateText(contract.FirstLine(pe.RawSegment), maxWidth)})
		}
		if err := renderTable(w, []string{"Cause", "Segment"}, data); err != nil {
			return err
		}
	}
	return nil
}

func unstableFieldCount(t schema.TypeRecord) int {
	count := 0
	for _, f := range t.Fields {
		if f.Status == "unstable" {
			count++
		}
	}
	return count
}

// renderTable writes a minimal right-aligned table.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
