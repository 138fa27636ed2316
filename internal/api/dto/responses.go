package dto

import (
	"time"

	"github.com/openledger/bankrecon/internal/infrastructure/storage"
	"github.com/openledger/bankrecon/internal/report"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// NewHealthResponse creates a healthy response with the current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}

// RunResponse is the API view of a persisted reconciliation run.
type RunResponse struct {
	ID                 string  `json:"id"`
	CreatedAt          string  `json:"created_at"`
	LedgerSource       string  `json:"ledger_source"`
	BankSource         string  `json:"bank_source"`
	LedgerCount        int     `json:"ledger_count"`
	BankCount          int     `json:"bank_count"`
	ExactMatches       int     `json:"exact_matches"`
	FeeMatches         int     `json:"fee_matches"`
	UnmatchedBank      int     `json:"unmatched_bank"`
	UnmatchedLedger    int     `json:"unmatched_ledger"`
	TotalFeeDifference float64 `json:"total_fee_difference"`
}

// ToRunResponse converts a storage run into its API representation.
func ToRunResponse(run *storage.ReconciliationRun) RunResponse {
	return RunResponse{
		ID:                 run.ID,
		CreatedAt:          run.CreatedAt.UTC().Format(time.RFC3339),
		LedgerSource:       run.LedgerSource,
		BankSource:         run.BankSource,
		LedgerCount:        run.LedgerCount,
		BankCount:          run.BankCount,
		ExactMatches:       run.ExactMatches,
		FeeMatches:         run.FeeMatches,
		UnmatchedBank:      run.UnmatchedBank,
		UnmatchedLedger:    run.UnmatchedLedger,
		TotalFeeDifference: run.TotalFeeDifference,
	}
}

// ReconcileResponse is returned by POST /api/reconcile: the full ordered
// report plus its summary, and the persisted run header when storage is
// configured.
type ReconcileResponse struct {
	Run      *RunResponse   `json:"run,omitempty"`
	Summary  report.Summary `json:"summary"`
	Outcomes []report.Row   `json:"outcomes"`
}

// RunListResponse is returned by GET /api/runs.
type RunListResponse struct {
	Runs       []RunResponse `json:"runs"`
	TotalCount int           `json:"total_count"`
}

// RunDetailResponse is returned by GET /api/runs/:id.
type RunDetailResponse struct {
	Run      RunResponse             `json:"run"`
	Outcomes []storage.OutcomeRecord `json:"outcomes"`
}
