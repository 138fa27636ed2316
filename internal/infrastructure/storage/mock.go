package storage

// MockRepository is an in-memory implementation of Repository for testing.
type MockRepository struct {
	runs     map[string]*ReconciliationRun
	outcomes map[string][]OutcomeRecord
	order    []string // insertion order, newest last

	// SaveErr, when set, is returned by SaveRun to simulate storage failure.
	SaveErr error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:     make(map[string]*ReconciliationRun),
		outcomes: make(map[string][]OutcomeRecord),
	}
}

// SaveRun stores the run and outcomes in memory
func (m *MockRepository) SaveRun(run *ReconciliationRun, outcomes []OutcomeRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.runs[run.ID] = run
	m.outcomes[run.ID] = outcomes
	m.order = append(m.order, run.ID)
	return nil
}

// GetRun retrieves a stored run, nil when absent
func (m *MockRepository) GetRun(id string) (*ReconciliationRun, error) {
	return m.runs[id], nil
}

// GetOutcomes retrieves a stored run's outcome rows
func (m *MockRepository) GetOutcomes(runID string) ([]OutcomeRecord, error) {
	return m.outcomes[runID], nil
}

// ListRuns returns stored runs, newest first
func (m *MockRepository) ListRuns(limit int) ([]*ReconciliationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*ReconciliationRun
	for i := len(m.order) - 1; i >= 0 && len(runs) < limit; i-- {
		runs = append(runs, m.runs[m.order[i]])
	}
	return runs, nil
}

// GetStats aggregates across stored runs
func (m *MockRepository) GetStats() (*Stats, error) {
	stats := &Stats{}
	for _, run := range m.runs {
		stats.TotalRuns++
		stats.TotalOutcomes += len(m.outcomes[run.ID])
		stats.ExactMatches += run.ExactMatches
		stats.FeeMatches += run.FeeMatches
		stats.UnmatchedBank += run.UnmatchedBank
		stats.UnmatchedLedger += run.UnmatchedLedger
		stats.TotalFeeDifference += run.TotalFeeDifference
	}
	return stats, nil
}

// Close is a no-op for the in-memory repository
func (m *MockRepository) Close() error {
	return nil
}
