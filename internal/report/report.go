// Package report turns reconciliation outcomes into consumable artifacts:
// an aggregate summary, CSV rows, and JSON. Renderers preserve outcome order
// exactly; the engine's emission order is the output-stability contract.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/openledger/bankrecon/internal/domain/engine"
)

const dateLayout = "2006-01-02"

// Summary aggregates a run's outcomes.
type Summary struct {
	TotalOutcomes      int     `json:"total_outcomes"`
	LedgerRecords      int     `json:"ledger_records"`
	BankRecords        int     `json:"bank_records"`
	ExactMatches       int     `json:"exact_matches"`
	FeeMatches         int     `json:"fee_matches"`
	UnmatchedBank      int     `json:"unmatched_bank"`
	UnmatchedLedger    int     `json:"unmatched_ledger"`
	TotalFeeDifference float64 `json:"total_fee_difference"`
	MatchRate          float64 `json:"match_rate"`
}

// Summarize computes aggregate statistics over a run's outcomes.
// MatchRate is the fraction of ledger records that found a counterpart.
func Summarize(outcomes []engine.MatchOutcome) Summary {
	var s Summary
	s.TotalOutcomes = len(outcomes)

	for _, o := range outcomes {
		switch o.Quality {
		case engine.QualityExactMatch:
			s.ExactMatches++
		case engine.QualityPartialMatchFee:
			s.FeeMatches++
			s.TotalFeeDifference += o.Difference
		case engine.QualityUnmatchedBank:
			s.UnmatchedBank++
		case engine.QualityUnmatchedLedger:
			s.UnmatchedLedger++
		}
		if o.Ledger != nil {
			s.LedgerRecords++
		}
		if o.Bank != nil {
			s.BankRecords++
		}
	}

	if s.LedgerRecords > 0 {
		s.MatchRate = float64(s.ExactMatches+s.FeeMatches) / float64(s.LedgerRecords)
	}
	return s
}

// Row is one flattened report line. Pointer fields are nil when that side of
// the outcome is absent, so JSON omits them instead of inventing zero values.
type Row struct {
	Quality           string   `json:"quality"`
	BankDate          string   `json:"bank_date,omitempty"`
	BankDescription   string   `json:"bank_description,omitempty"`
	BankAmount        *float64 `json:"bank_amount,omitempty"`
	LedgerDate        string   `json:"ledger_date,omitempty"`
	LedgerDescription string   `json:"ledger_description,omitempty"`
	LedgerAmount      *float64 `json:"ledger_amount,omitempty"`
	Difference        *float64 `json:"difference,omitempty"`
}

// Rows flattens outcomes into report lines, preserving order.
func Rows(outcomes []engine.MatchOutcome) []Row {
	rows := make([]Row, 0, len(outcomes))
	for _, o := range outcomes {
		row := Row{Quality: o.Quality.String()}
		if o.Bank != nil {
			row.BankDate = o.Bank.Date.Format(dateLayout)
			row.BankDescription = o.Bank.Description
			amount := o.Bank.SignedAmount
			row.BankAmount = &amount
		}
		if o.Ledger != nil {
			row.LedgerDate = o.Ledger.Date.Format(dateLayout)
			row.LedgerDescription = o.Ledger.Description
			amount := o.Ledger.SignedAmount
			row.LedgerAmount = &amount
		}
		if o.Matched() {
			difference := o.Difference
			row.Difference = &difference
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV renders outcomes as a CSV report with a fixed header.
func WriteCSV(w io.Writer, outcomes []engine.MatchOutcome) error {
	writer := csv.NewWriter(w)

	header := []string{
		"quality",
		"bank_date", "bank_description", "bank_amount",
		"ledger_date", "ledger_description", "ledger_amount",
		"difference",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}

	for _, row := range Rows(outcomes) {
		record := []string{
			row.Quality,
			row.BankDate, row.BankDescription, formatAmount(row.BankAmount),
			row.LedgerDate, row.LedgerDescription, formatAmount(row.LedgerAmount),
			formatAmount(row.Difference),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON renders the summary plus all rows as an indented JSON document.
func WriteJSON(w io.Writer, outcomes []engine.MatchOutcome) error {
	doc := struct {
		Summary  Summary `json:"summary"`
		Outcomes []Row   `json:"outcomes"`
	}{
		Summary:  Summarize(outcomes),
		Outcomes: Rows(outcomes),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
