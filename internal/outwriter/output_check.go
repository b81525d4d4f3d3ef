package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/composeguard/core/rules"
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/internal/parquet"
	"github.com/huangsam/composeguard/schema"
)

// WriteCheckResults outputs check results, dispatching based on the output format configured.
func WriteCheckResults(results []schema.CheckResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, results)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckCSV(w, results)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires an output file")
		}
		if err := parquet.WriteFile(parquet.ConvertCheckResults(results), cfg.OutputFile); err != nil {
			return err
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckText(w, results)
		}, "Wrote report")
	}
}

// writeCheckCSV writes one row per offending item, or a single row for a passing variant.
func writeCheckCSV(w io.Writer, results []schema.CheckResult) error {
	header := []string{"run_id", "variant", "passed", "rule", "ordinal", "item"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.ConvertCheckResults(results) {
			record := []string{
				row.RunUUID,
				row.Variant,
				strconv.FormatBool(row.Passed),
				row.Rule,
				strconv.Itoa(int(row.Ordinal)),
				row.Item,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// writeCheckText prints every violation block followed by a per-variant summary table.
func writeCheckText(w io.Writer, results []schema.CheckResult) error {
	for _, r := range results {
		icon := "✅"
		if !r.Passed {
			icon = "❌"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s (run %s)\n", icon, contract.GetColorLabel(r.Passed), variantLabel(r.Variant), r.RunID); err != nil {
			return err
		}
		if r.BaselineMissing {
			if _, err := fmt.Fprintf(w, "%s\n", contract.WarnColor.Sprint("Golden metrics missing, comparing against an empty baseline")); err != nil {
				return err
			}
		}
		if len(r.CurrentParseErrs) > 0 {
			if _, err := fmt.Fprintf(w, "%s\n", contract.WarnColor.Sprintf("%d report segments could not be parsed", len(r.CurrentParseErrs))); err != nil {
				return err
			}
		}
		for _, v := range r.Violations {
			if _, err := fmt.Fprintf(w, "\n[%s]\n%s\n", contract.RuleColor.Sprint(v.Rule), v.Message); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	var data [][]string
	for _, r := range results {
		data = append(data, []string{
			variantLabel(r.Variant),
			contract.GetColorLabel(r.Passed),
			strconv.Itoa(len(r.Violations)),
			strconv.Itoa(r.Current.Functions),
			strconv.Itoa(r.Current.RestartableButNotSkippable),
			strconv.Itoa(r.Current.UnstableParams),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	headers := []string{"Variant", "Result", "Rules", "Functions", "Not Skippable", "Unstable Params", "Duration"}
	return renderTable(w, headers, data)
}

// JoinedMessages joins the messages of every result with blank lines.
func JoinedMessages(results []schema.CheckResult) string {
	var messages []string
	for _, r := range results {
		messages = append(messages, r.Messages()...)
	}
	return rules.Join(messages)
}

func variantLabel(variant string) string {
	if variant == "" {
		return "all"
	}
	return variant
}
