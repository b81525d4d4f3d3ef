package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/parquet"
	"github.com/huangsam/composeguard/schema"
)

// WriteHistoryRuns outputs recorded check runs, dispatching based on the output format configured.
func WriteHistoryRuns(runs []schema.CheckRunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, runs)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, runs)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires an output file")
		}
		if err := parquet.WriteFile(parquet.ConvertCheckRunRecords(runs), cfg.OutputFile); err != nil {
			return err
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, runs)
		}, "Wrote table")
	}
}

// historyCells renders the nullable columns of a run. Unfinished runs show "-".
func historyCells(run schema.CheckRunRecord) (endTime, duration, passed string) {
	endTime, duration, passed = "-", "-", "-"
	if run.EndTime != nil {
		endTime = run.EndTime.Format(contract.DateTimeFormat)
	}
	if run.RunDurationMs != nil {
		duration = strconv.Itoa(int(*run.RunDurationMs))
	}
	if run.Passed != nil {
		passed = strconv.FormatBool(*run.Passed)
	}
	return endTime, duration, passed
}

func writeHistoryCSV(w io.Writer, runs []schema.CheckRunRecord) error {
	header := []string{
		"run_id", "run_uuid", "variant", "start_time", "end_time", "run_duration_ms",
		"passed", "violation_count", "function_count", "type_count",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, run := range runs {
			endTime, duration, passed := historyCells(run)
			record := []string{
				strconv.FormatInt(run.RunID, 10),
				run.RunUUID,
				run.Variant,
				run.StartTime.Format(contract.DateTimeFormat),
				endTime,
				duration,
				passed,
				strconv.Itoa(int(run.ViolationCount)),
				strconv.Itoa(int(run.FunctionCount)),
				strconv.Itoa(int(run.TypeCount)),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeHistoryTable(w io.Writer, runs []schema.CheckRunRecord) error {
	var data [][]string
	for _, run := range runs {
		_, duration, _ := historyCells(run)
		result := "-"
		if run.Passed != nil {
			result = contract.GetColorLabel(*run.Passed)
		}
		data = append(data, []string{
			strconv.FormatInt(run.RunID, 10),
			variantLabel(run.Variant),
			run.StartTime.Format(contract.DateTimeFormat),
			duration,
			result,
			strconv.Itoa(int(run.ViolationCount)),
			strconv.Itoa(int(run.FunctionCount)),
		})
	}
	headers := []string{"Run", "Variant", "Started", "Duration (ms)", "Result", "Violations", "Functions"}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d check runs\n", len(runs))
	return err
}
