package storage

// Repository defines the run-history storage interface.
// Persistence happens strictly after a successful engine run; a failed run
// never reaches this layer.
type Repository interface {
	// SaveRun persists a run header and its outcome rows atomically.
	SaveRun(run *ReconciliationRun, outcomes []OutcomeRecord) error

	// GetRun retrieves a run header by ID. Returns nil without error when
	// no such run exists.
	GetRun(id string) (*ReconciliationRun, error)

	// GetOutcomes retrieves a run's outcome rows in emission order.
	GetOutcomes(runID string) ([]OutcomeRecord, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*ReconciliationRun, error)

	// GetStats returns all-time aggregates across persisted runs.
	GetStats() (*Stats, error)

	// Close releases the underlying database handle.
	Close() error
}
