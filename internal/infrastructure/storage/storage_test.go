package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openledger/bankrecon/internal/domain/engine"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recon_test.db")
	s, err := NewStorage(path)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testOutcomes(t *testing.T) []engine.MatchOutcome {
	t.Helper()
	ledger := []engine.TransactionRecord{
		{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Description: "Invoice #1001", SignedAmount: 1250.00, Origin: engine.OriginLedger},
		{Date: time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), Description: "Uncleared check", SignedAmount: 310.00, Origin: engine.OriginLedger},
	}
	bank := []engine.TransactionRecord{
		{Date: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), Description: "STRIPE PAYOUT", SignedAmount: 1213.45, Origin: engine.OriginBank},
	}

	outcomes, err := engine.New(engine.DefaultConfig()).Reconcile(ledger, bank)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	return outcomes
}

func TestStorage_SaveAndGetRun(t *testing.T) {
	s := newTestStorage(t)

	run, records := NewRun("ledger.csv", "bank.csv", testOutcomes(t))
	if run.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}
	if run.FeeMatches != 1 || run.UnmatchedLedger != 1 {
		t.Fatalf("unexpected run summary: %+v", run)
	}

	if err := s.SaveRun(run, records); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	retrieved, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected to retrieve run, got nil")
	}
	if retrieved.LedgerSource != "ledger.csv" {
		t.Errorf("expected ledger_source 'ledger.csv', got %q", retrieved.LedgerSource)
	}
	if retrieved.FeeMatches != 1 {
		t.Errorf("expected 1 fee match, got %d", retrieved.FeeMatches)
	}
	if retrieved.TotalFeeDifference != run.TotalFeeDifference {
		t.Errorf("expected fee difference %f, got %f", run.TotalFeeDifference, retrieved.TotalFeeDifference)
	}
}

func TestStorage_GetRun_Missing(t *testing.T) {
	s := newTestStorage(t)

	run, err := s.GetRun("does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %+v", run)
	}
}

func TestStorage_GetOutcomes_OrderAndNulls(t *testing.T) {
	s := newTestStorage(t)

	run, records := NewRun("ledger.csv", "bank.csv", testOutcomes(t))
	if err := s.SaveRun(run, records); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	outcomes, err := s.GetOutcomes(run.ID)
	if err != nil {
		t.Fatalf("failed to get outcomes: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}

	// Emission order preserved: fee match first, then unmatched ledger.
	if outcomes[0].Quality != "partial_match_fee" {
		t.Errorf("expected first outcome partial_match_fee, got %q", outcomes[0].Quality)
	}
	if outcomes[0].Position != 0 || outcomes[1].Position != 1 {
		t.Errorf("positions not preserved: %d, %d", outcomes[0].Position, outcomes[1].Position)
	}
	if outcomes[0].Difference == nil {
		t.Fatal("expected difference on fee match")
	}
	if *outcomes[0].Difference != -36.55 {
		t.Errorf("expected difference -36.55, got %f", *outcomes[0].Difference)
	}

	// Unmatched ledger row: bank side is NULL.
	if outcomes[1].Quality != "unmatched_ledger" {
		t.Errorf("expected unmatched_ledger, got %q", outcomes[1].Quality)
	}
	if outcomes[1].BankAmount != nil || outcomes[1].BankDate != nil {
		t.Error("expected NULL bank side on unmatched ledger outcome")
	}
	if outcomes[1].LedgerDescription == nil || *outcomes[1].LedgerDescription != "Uncleared check" {
		t.Errorf("unexpected ledger description: %v", outcomes[1].LedgerDescription)
	}
}

func TestStorage_ListRuns_NewestFirst(t *testing.T) {
	s := newTestStorage(t)

	older, olderRecords := NewRun("a.csv", "b.csv", testOutcomes(t))
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer, newerRecords := NewRun("c.csv", "d.csv", testOutcomes(t))

	if err := s.SaveRun(older, olderRecords); err != nil {
		t.Fatalf("failed to save older run: %v", err)
	}
	if err := s.SaveRun(newer, newerRecords); err != nil {
		t.Fatalf("failed to save newer run: %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("expected newest run first, got %s", runs[0].ID)
	}

	limited, err := s.ListRuns(1)
	if err != nil {
		t.Fatalf("failed to list runs with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}
}

func TestStorage_GetStats(t *testing.T) {
	s := newTestStorage(t)

	empty, err := s.GetStats()
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if empty.TotalRuns != 0 {
		t.Errorf("expected 0 runs, got %d", empty.TotalRuns)
	}

	run, records := NewRun("ledger.csv", "bank.csv", testOutcomes(t))
	if err := s.SaveRun(run, records); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.TotalRuns != 1 {
		t.Errorf("expected 1 run, got %d", stats.TotalRuns)
	}
	if stats.TotalOutcomes != 2 {
		t.Errorf("expected 2 outcomes, got %d", stats.TotalOutcomes)
	}
	if stats.FeeMatches != 1 {
		t.Errorf("expected 1 fee match, got %d", stats.FeeMatches)
	}
}

func TestStorage_MigrationsIdempotentAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen_test.db")

	s, err := NewStorage(path)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	run, records := NewRun("ledger.csv", "bank.csv", testOutcomes(t))
	if err := s.SaveRun(run, records); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	reopened, err := NewStorage(path)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer reopened.Close()

	retrieved, err := reopened.GetRun(run.ID)
	if err != nil {
		t.Fatalf("failed to get run after reopen: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected run to survive reopen")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}
