package engine

import (
	"math"
	"time"
)

// Origin identifies which source a transaction record was ingested from.
type Origin string

const (
	// OriginLedger marks records from the internal system of record.
	OriginLedger Origin = "ledger"
	// OriginBank marks records from the bank statement.
	OriginBank Origin = "bank"
)

// String returns the string representation of Origin
func (o Origin) String() string {
	return string(o)
}

// MatchQuality classifies a single reconciliation outcome.
type MatchQuality string

const (
	// QualityExactMatch means the amounts agree within the currency tolerance.
	QualityExactMatch MatchQuality = "exact_match"
	// QualityPartialMatchFee means the bank amount is a fee-reduced fraction
	// of the ledger amount (processor fee deduction).
	QualityPartialMatchFee MatchQuality = "partial_match_fee"
	// QualityUnmatchedBank means a bank record had no qualifying ledger counterpart.
	QualityUnmatchedBank MatchQuality = "unmatched_bank"
	// QualityUnmatchedLedger means a ledger record had no qualifying bank counterpart.
	QualityUnmatchedLedger MatchQuality = "unmatched_ledger"
)

// String returns the string representation of MatchQuality
func (q MatchQuality) String() string {
	return string(q)
}

// TransactionRecord is one observed cash-affecting entry from either source.
// The description is carried through for auditing only; it plays no part in
// matching decisions.
type TransactionRecord struct {
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	SignedAmount float64   `json:"signed_amount"`
	Origin       Origin    `json:"origin"`
}

// UnsignedAmount returns the comparison amount: the absolute value of the
// signed amount. It is always derived, never stored, so it can never drift
// from SignedAmount.
func (r TransactionRecord) UnsignedAmount() float64 {
	return math.Abs(r.SignedAmount)
}

// MatchOutcome is one row of the reconciliation report.
// Bank is set for exact, fee, and unmatched-bank outcomes; Ledger is set for
// exact, fee, and unmatched-ledger outcomes. Difference is defined only when
// both references are present: 0 for exact matches, and the rounded
// bank-minus-ledger unsigned difference (always <= 0) for fee matches.
type MatchOutcome struct {
	Quality    MatchQuality       `json:"quality"`
	Bank       *TransactionRecord `json:"bank,omitempty"`
	Ledger     *TransactionRecord `json:"ledger,omitempty"`
	Difference float64            `json:"difference"`
}

// Matched reports whether the outcome pairs a bank record with a ledger record.
func (o MatchOutcome) Matched() bool {
	return o.Bank != nil && o.Ledger != nil
}

// Config holds the matching tolerances.
//
// The defaults reproduce the production heuristics: amounts within one cent
// are the same amount, clearing lag is at most 5 days, and a processor fee
// eats at most 4% of the gross amount.
type Config struct {
	// AmountTolerance is the absolute currency tolerance for exact matches.
	AmountTolerance float64
	// DateToleranceDays is the maximum day gap, in either direction, for any match.
	DateToleranceDays int
	// FeeWindowFloor is the fraction of the ledger amount a fee-reduced bank
	// amount must strictly exceed. 0.96 models a worst-case ~4% fee.
	FeeWindowFloor float64
}

// DefaultConfig returns the production matching tolerances.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:   0.01,
		DateToleranceDays: 5,
		FeeWindowFloor:    0.96,
	}
}

// Validate checks that the tolerances describe a usable matching window.
func (c Config) Validate() error {
	if c.AmountTolerance < 0 {
		return &ConfigError{Field: "amount_tolerance", Detail: "must not be negative"}
	}
	if c.DateToleranceDays < 0 {
		return &ConfigError{Field: "date_tolerance_days", Detail: "must not be negative"}
	}
	if c.FeeWindowFloor < 0 || c.FeeWindowFloor >= 1 {
		return &ConfigError{Field: "fee_window_floor", Detail: "must be in [0, 1)"}
	}
	return nil
}
