package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/composeguard/internal/contract"
	"github.com/huangsam/composeguard/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for check history.
const (
	checkRunsTable       = "composeguard_check_runs"
	checkViolationsTable = "composeguard_check_violations"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: schema.NoneBackend}, nil
	}

	db, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetHistoryDBFilePath()
	}
	return &HistoryStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// openDatabase opens a connection pool for the backend without verifying it.
func openDatabase(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, err := getDriverName(backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err := sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		return db, nil

	case schema.MySQLBackend:
		db, err := sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	default: // PostgreSQL
		db, err := sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil
	}
}

// createHistoryTables executes the up migrations so a fresh database is usable without a migrate step.
// Every statement uses IF NOT EXISTS, so migrated databases are left alone.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	scripts, err := fs.Glob(migrationsFS, fmt.Sprintf("migrations/%s/*.up.sql", backend))
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(scripts)

	for _, name := range scripts {
		script, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		for stmt := range strings.SplitSeq(string(script), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("failed to execute %q: %w", firstWords(stmt), err)
			}
		}
	}
	return nil
}

// BeginRun creates a new check run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(runUUID, variant string, startTime time.Time, policyParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.db == nil {
		return 0, nil
	}

	policyJSON, err := json.Marshal(policyParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal policy params: %w", err)
	}

	quotedTableName := quoteTableName(checkRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, variant, start_time, policy_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, runUUID, variant, startTime, string(policyJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, variant, start_time, policy_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, runUUID, variant, formatTime(startTime, hs.backend), string(policyJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert check run: %w", err)
	}
	return runID, nil
}

// EndRun updates the check run with its outcome.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, outcome schema.RunOutcome) error {
	// Skip for NoneBackend
	if hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(checkRunsTable, hs.backend)

	// First, get the start_time to calculate duration
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	startTime, err := scanTime(hs.db.QueryRow(query, runID), hs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, passed = %s,
		violation_count = %s, function_count = %s, type_count = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		placeholder(hs.backend, 4), placeholder(hs.backend, 5), placeholder(hs.backend, 6),
		placeholder(hs.backend, 7))
	args := []any{
		formatTime(endTime, hs.backend), durationMs, outcome.Passed,
		outcome.ViolationCount, outcome.FunctionCount, outcome.TypeCount, runID,
	}

	if _, err := hs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update check run: %w", err)
	}
	return nil
}

// RecordViolations stores one row per offending item of each violation in a single transaction.
func (hs *HistoryStoreImpl) RecordViolations(runID int64, violations []schema.Violation) error {
	// Skip for NoneBackend
	if hs.db == nil || len(violations) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, rule, ordinal, item) VALUES (%s, %s, %s, %s)`,
		quoteTableName(checkViolationsTable, hs.backend),
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare violation insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, v := range violations {
		for i, item := range v.Items {
			if _, err := stmt.Exec(runID, string(v.Rule), i, item); err != nil {
				return fmt.Errorf("failed to insert violation %s #%d: %w", v.Rule, i, err)
			}
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.db == nil {
		return status, nil
	}

	status.Database = hs.databaseName()
	runsTable := quoteTableName(checkRunsTable, hs.backend)

	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE passed = %s", runsTable, placeholder(hs.backend, 1)), false)
		if err := row.Scan(&status.FailedRuns); err != nil {
			return status, fmt.Errorf("failed to get failed runs: %w", err)
		}

		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastRunTime, err := scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)), hs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := scanTime(hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)), hs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	for _, table := range []string{checkRunsTable, checkViolationsTable} {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalViolations = int(status.TableSizes[checkViolationsTable])

	return status, nil
}

// databaseName describes where the history lives, without credentials.
func (hs *HistoryStoreImpl) databaseName() string {
	switch hs.backend {
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(hs.connStr)
		if err != nil {
			return ""
		}
		return cfg.DBName
	case schema.PostgreSQLBackend:
		var name string
		if err := hs.db.QueryRow("SELECT current_database()").Scan(&name); err != nil {
			return ""
		}
		return name
	default: // SQLite
		return hs.connStr
	}
}

// GetAllRuns retrieves all check runs, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.CheckRunRecord, error) {
	// Skip for NoneBackend
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, variant, start_time, end_time, run_duration_ms, passed,
		violation_count, function_count, type_count, policy_params FROM %s ORDER BY run_id`,
		quoteTableName(checkRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query check runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CheckRunRecord
	for rows.Next() {
		var record schema.CheckRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Variant, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.Passed, &record.ViolationCount, &record.FunctionCount,
				&record.TypeCount, &record.PolicyParams); err != nil {
				return nil, fmt.Errorf("failed to scan check run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Variant, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.Passed, &record.ViolationCount, &record.FunctionCount,
				&record.TypeCount, &record.PolicyParams); err != nil {
				return nil, fmt.Errorf("failed to scan check run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check runs: %w", err)
	}
	return results, nil
}

// GetAllViolations retrieves all recorded violations.
func (hs *HistoryStoreImpl) GetAllViolations() ([]schema.ViolationRecord, error) {
	// Skip for NoneBackend
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, rule, ordinal, item FROM %s ORDER BY run_id, rule, ordinal`,
		quoteTableName(checkViolationsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query check violations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ViolationRecord
	for rows.Next() {
		var record schema.ViolationRecord
		if err := rows.Scan(&record.RunID, &record.Rule, &record.Ordinal, &record.Item); err != nil {
			return nil, fmt.Errorf("failed to scan check violation: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check violations: %w", err)
	}
	return results, nil
}
