// Package engine implements the deterministic reconciliation matcher.
//
// Given two normalized transaction collections (internal ledger and bank
// statement), it partitions the union of both into exact matches,
// fee-adjusted partial matches, and unmatched residuals:
//
//	eng := engine.New(engine.DefaultConfig())
//	outcomes, err := eng.Reconcile(ledgerRecords, bankRecords)
//
// Matching is a greedy first-fit pass over the inputs in their original
// order, not an optimal assignment solve. That is deliberate: with fixed
// input ordering the result is fully reproducible, and reproducibility is
// worth more to an auditor than squeezing out a marginally better pairing
// on ambiguous ties.
//
// Guarantees:
//   - every input record appears in exactly one outcome (partition)
//   - no record is claimed by more than one outcome (injectivity)
//   - validation failures abort before any outcome exists (all-or-nothing)
package engine

import (
	"math"
)

// epsilon absorbs float representation error when comparing an amount
// difference against the tolerance, so a difference of exactly one cent
// still counts as within a one-cent tolerance.
const epsilon = 0.0000001

// Engine runs reconciliation passes with a fixed set of tolerances.
// It is stateless between runs and safe to reuse.
type Engine struct {
	config Config
}

// New creates an engine with the given tolerances.
func New(config Config) *Engine {
	return &Engine{config: config}
}

// Reconcile partitions the two input collections into an ordered report.
//
// Outcome order is part of the contract: exact matches in ledger order, then
// fee matches in ledger order, then unmatched bank records in input order,
// then unmatched ledger records in input order. Passes never interleave; the
// fee pass only sees what the exact pass left unclaimed.
func (e *Engine) Reconcile(ledger, bank []TransactionRecord) ([]MatchOutcome, error) {
	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		return nil, &EmptyInputError{Source: "ledger"}
	}
	if len(bank) == 0 {
		return nil, &EmptyInputError{Source: "bank"}
	}

	// Copy the inputs so outcome references stay stable even if the caller
	// mutates its slices after the run.
	ledgerRecs := make([]TransactionRecord, len(ledger))
	copy(ledgerRecs, ledger)
	bankRecs := make([]TransactionRecord, len(bank))
	copy(bankRecs, bank)

	run := &runState{
		ledger:        ledgerRecs,
		bank:          bankRecs,
		ledgerClaimed: make([]bool, len(ledgerRecs)),
		bankClaimed:   make([]bool, len(bankRecs)),
		outcomes:      make([]MatchOutcome, 0, len(ledgerRecs)+len(bankRecs)),
	}

	e.exactPass(run)
	e.feePass(run)
	e.reportResiduals(run)

	return run.outcomes, nil
}

// runState holds the mutable claim state for a single reconciliation run.
// A record's claimed flag flips from false to true exactly once, at the
// moment a pass binds it into an outcome, and never flips back.
type runState struct {
	ledger        []TransactionRecord
	bank          []TransactionRecord
	ledgerClaimed []bool
	bankClaimed   []bool
	outcomes      []MatchOutcome
}

func (r *runState) claim(ledgerIdx, bankIdx int, quality MatchQuality, difference float64) {
	r.ledgerClaimed[ledgerIdx] = true
	r.bankClaimed[bankIdx] = true
	r.outcomes = append(r.outcomes, MatchOutcome{
		Quality:    quality,
		Bank:       &r.bank[bankIdx],
		Ledger:     &r.ledger[ledgerIdx],
		Difference: difference,
	})
}

// exactPass pairs records whose unsigned amounts agree within the absolute
// currency tolerance and whose dates lie within the date window. The first
// qualifying bank record in input order wins; candidates are not ranked.
func (e *Engine) exactPass(run *runState) {
	for li := range run.ledger {
		if run.ledgerClaimed[li] {
			continue
		}
		for bi := range run.bank {
			if run.bankClaimed[bi] {
				continue
			}
			amountDiff := math.Abs(run.ledger[li].UnsignedAmount() - run.bank[bi].UnsignedAmount())
			if amountDiff > e.config.AmountTolerance+epsilon {
				continue
			}
			if !e.withinDateWindow(run.ledger[li], run.bank[bi]) {
				continue
			}
			run.claim(li, bi, QualityExactMatch, 0)
			break
		}
	}
}

// feePass pairs a still-unclaimed ledger record with a bank record whose
// unsigned amount is strictly smaller but strictly above FeeWindowFloor of
// the ledger amount, within the same date window. This models a payment
// processor depositing the net amount after deducting its fee.
//
// Both amount bounds are strict, with no epsilon: a bank amount at exactly
// 96% of the ledger amount is outside the window.
func (e *Engine) feePass(run *runState) {
	for li := range run.ledger {
		if run.ledgerClaimed[li] {
			continue
		}
		ledgerAmount := run.ledger[li].UnsignedAmount()
		if ledgerAmount <= 0 {
			continue
		}
		for bi := range run.bank {
			if run.bankClaimed[bi] {
				continue
			}
			bankAmount := run.bank[bi].UnsignedAmount()
			if bankAmount >= ledgerAmount || bankAmount <= ledgerAmount*e.config.FeeWindowFloor {
				continue
			}
			if !e.withinDateWindow(run.ledger[li], run.bank[bi]) {
				continue
			}
			run.claim(li, bi, QualityPartialMatchFee, round2(bankAmount-ledgerAmount))
			break
		}
	}
}

// reportResiduals emits every unclaimed record as an unmatched outcome:
// bank records first, then ledger records, each in input order. Downstream
// consumers rely on this ordering for output stability.
func (e *Engine) reportResiduals(run *runState) {
	for bi := range run.bank {
		if run.bankClaimed[bi] {
			continue
		}
		run.outcomes = append(run.outcomes, MatchOutcome{
			Quality: QualityUnmatchedBank,
			Bank:    &run.bank[bi],
		})
	}
	for li := range run.ledger {
		if run.ledgerClaimed[li] {
			continue
		}
		run.outcomes = append(run.outcomes, MatchOutcome{
			Quality: QualityUnmatchedLedger,
			Ledger:  &run.ledger[li],
		})
	}
}

// withinDateWindow checks the absolute day gap between two records against
// the date tolerance. Inclusive: a gap of exactly DateToleranceDays matches.
func (e *Engine) withinDateWindow(a, b TransactionRecord) bool {
	days := math.Abs(b.Date.Sub(a.Date).Hours() / 24)
	return days <= float64(e.config.DateToleranceDays)
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
