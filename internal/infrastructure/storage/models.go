package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/openledger/bankrecon/internal/domain/engine"
	"github.com/openledger/bankrecon/internal/report"
)

const dateLayout = "2006-01-02"

// ReconciliationRun is the persisted header for one completed engine run.
type ReconciliationRun struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	LedgerSource       string    `json:"ledger_source"`
	BankSource         string    `json:"bank_source"`
	LedgerCount        int       `json:"ledger_count"`
	BankCount          int       `json:"bank_count"`
	ExactMatches       int       `json:"exact_matches"`
	FeeMatches         int       `json:"fee_matches"`
	UnmatchedBank      int       `json:"unmatched_bank"`
	UnmatchedLedger    int       `json:"unmatched_ledger"`
	TotalFeeDifference float64   `json:"total_fee_difference"`
}

// OutcomeRecord is one persisted report row. Pointer fields are NULL in the
// database when that side of the outcome is absent.
type OutcomeRecord struct {
	ID                int64    `json:"id"`
	RunID             string   `json:"run_id"`
	Position          int      `json:"position"`
	Quality           string   `json:"quality"`
	BankDate          *string  `json:"bank_date,omitempty"`
	BankDescription   *string  `json:"bank_description,omitempty"`
	BankAmount        *float64 `json:"bank_amount,omitempty"`
	LedgerDate        *string  `json:"ledger_date,omitempty"`
	LedgerDescription *string  `json:"ledger_description,omitempty"`
	LedgerAmount      *float64 `json:"ledger_amount,omitempty"`
	Difference        *float64 `json:"difference,omitempty"`
}

// Stats contains all-time aggregates across persisted runs.
type Stats struct {
	TotalRuns          int     `json:"total_runs"`
	TotalOutcomes      int     `json:"total_outcomes"`
	ExactMatches       int     `json:"exact_matches"`
	FeeMatches         int     `json:"fee_matches"`
	UnmatchedBank      int     `json:"unmatched_bank"`
	UnmatchedLedger    int     `json:"unmatched_ledger"`
	TotalFeeDifference float64 `json:"total_fee_difference"`
}

// NewRun builds a persistable run header plus outcome records from a
// completed engine run. Positions record the engine's emission order so the
// report can be replayed byte-for-byte.
func NewRun(ledgerSource, bankSource string, outcomes []engine.MatchOutcome) (*ReconciliationRun, []OutcomeRecord) {
	summary := report.Summarize(outcomes)

	run := &ReconciliationRun{
		ID:                 uuid.New().String(),
		CreatedAt:          time.Now().UTC(),
		LedgerSource:       ledgerSource,
		BankSource:         bankSource,
		LedgerCount:        summary.LedgerRecords,
		BankCount:          summary.BankRecords,
		ExactMatches:       summary.ExactMatches,
		FeeMatches:         summary.FeeMatches,
		UnmatchedBank:      summary.UnmatchedBank,
		UnmatchedLedger:    summary.UnmatchedLedger,
		TotalFeeDifference: summary.TotalFeeDifference,
	}

	records := make([]OutcomeRecord, 0, len(outcomes))
	for i, o := range outcomes {
		rec := OutcomeRecord{
			RunID:    run.ID,
			Position: i,
			Quality:  o.Quality.String(),
		}
		if o.Bank != nil {
			date := o.Bank.Date.Format(dateLayout)
			desc := o.Bank.Description
			amount := o.Bank.SignedAmount
			rec.BankDate, rec.BankDescription, rec.BankAmount = &date, &desc, &amount
		}
		if o.Ledger != nil {
			date := o.Ledger.Date.Format(dateLayout)
			desc := o.Ledger.Description
			amount := o.Ledger.SignedAmount
			rec.LedgerDate, rec.LedgerDescription, rec.LedgerAmount = &date, &desc, &amount
		}
		if o.Matched() {
			difference := o.Difference
			rec.Difference = &difference
		}
		records = append(records, rec)
	}

	return run, records
}
