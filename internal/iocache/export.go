package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/composeguard/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of check history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no check history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total check runs: %d\n", status.TotalRuns)
	fmt.Printf("Total violation records: %d\n", status.TableSizes[checkViolationsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve check runs: %w", err)
	}

	violations, err := store.GetAllViolations()
	if err != nil {
		return fmt.Errorf("failed to retrieve check violations: %w", err)
	}

	parquetRuns := parquet.ConvertCheckRunRecords(runs)
	parquetViolations := parquet.ConvertViolationRecords(violations)

	runsFile := outputFile + ".check_runs.parquet"
	if err := parquet.WriteFile(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write check runs: %w", err)
	}
	fmt.Printf("Exported %d check runs to: %s\n", len(parquetRuns), runsFile)

	violationsFile := outputFile + ".check_violations.parquet"
	if err := parquet.WriteFile(parquetViolations, violationsFile); err != nil {
		return fmt.Errorf("failed to write check violations: %w", err)
	}
	fmt.Printf("Exported %d violation records to: %s\n", len(parquetViolations), violationsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow), Spark or any other Parquet-compatible tool.")
	return nil
}
