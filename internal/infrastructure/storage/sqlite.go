package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for reconciliation run history.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRun persists a run header and its outcome rows in one transaction.
func (s *Storage) SaveRun(run *ReconciliationRun, outcomes []OutcomeRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
	INSERT INTO recon_runs
	(id, created_at, ledger_source, bank_source, ledger_count, bank_count,
	 exact_matches, fee_matches, unmatched_bank, unmatched_ledger, total_fee_difference)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt,
		run.LedgerSource,
		run.BankSource,
		run.LedgerCount,
		run.BankCount,
		run.ExactMatches,
		run.FeeMatches,
		run.UnmatchedBank,
		run.UnmatchedLedger,
		run.TotalFeeDifference,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO recon_outcomes
	(run_id, position, quality, bank_date, bank_description, bank_amount,
	 ledger_date, ledger_description, ledger_amount, difference)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.Exec(
			o.RunID,
			o.Position,
			o.Quality,
			o.BankDate,
			o.BankDescription,
			o.BankAmount,
			o.LedgerDate,
			o.LedgerDescription,
			o.LedgerAmount,
			o.Difference,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert outcome %d: %w", o.Position, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run header by ID
func (s *Storage) GetRun(id string) (*ReconciliationRun, error) {
	query := `
	SELECT id, created_at, ledger_source, bank_source, ledger_count, bank_count,
	       exact_matches, fee_matches, unmatched_bank, unmatched_ledger, total_fee_difference
	FROM recon_runs WHERE id = ?
	`

	run := &ReconciliationRun{}
	err := s.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.CreatedAt,
		&run.LedgerSource,
		&run.BankSource,
		&run.LedgerCount,
		&run.BankCount,
		&run.ExactMatches,
		&run.FeeMatches,
		&run.UnmatchedBank,
		&run.UnmatchedLedger,
		&run.TotalFeeDifference,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return run, nil
}

// GetOutcomes retrieves a run's outcome rows in emission order.
func (s *Storage) GetOutcomes(runID string) ([]OutcomeRecord, error) {
	query := `
	SELECT id, run_id, position, quality, bank_date, bank_description, bank_amount,
	       ledger_date, ledger_description, ledger_amount, difference
	FROM recon_outcomes WHERE run_id = ? ORDER BY position
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []OutcomeRecord
	for rows.Next() {
		var o OutcomeRecord
		err := rows.Scan(
			&o.ID,
			&o.RunID,
			&o.Position,
			&o.Quality,
			&o.BankDate,
			&o.BankDescription,
			&o.BankAmount,
			&o.LedgerDate,
			&o.LedgerDescription,
			&o.LedgerAmount,
			&o.Difference,
		)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

// ListRuns returns the most recent runs, newest first
func (s *Storage) ListRuns(limit int) ([]*ReconciliationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, created_at, ledger_source, bank_source, ledger_count, bank_count,
	       exact_matches, fee_matches, unmatched_bank, unmatched_ledger, total_fee_difference
	FROM recon_runs ORDER BY created_at DESC LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*ReconciliationRun
	for rows.Next() {
		run := &ReconciliationRun{}
		err := rows.Scan(
			&run.ID,
			&run.CreatedAt,
			&run.LedgerSource,
			&run.BankSource,
			&run.LedgerCount,
			&run.BankCount,
			&run.ExactMatches,
			&run.FeeMatches,
			&run.UnmatchedBank,
			&run.UnmatchedLedger,
			&run.TotalFeeDifference,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetStats returns all-time aggregates across persisted runs
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}

	query := `
	SELECT
		COUNT(*),
		COALESCE(SUM(ledger_count + bank_count - exact_matches - fee_matches), 0),
		COALESCE(SUM(exact_matches), 0),
		COALESCE(SUM(fee_matches), 0),
		COALESCE(SUM(unmatched_bank), 0),
		COALESCE(SUM(unmatched_ledger), 0),
		COALESCE(SUM(total_fee_difference), 0)
	FROM recon_runs
	`

	err := s.db.QueryRow(query).Scan(
		&stats.TotalRuns,
		&stats.TotalOutcomes,
		&stats.ExactMatches,
		&stats.FeeMatches,
		&stats.UnmatchedBank,
		&stats.UnmatchedLedger,
		&stats.TotalFeeDifference,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
