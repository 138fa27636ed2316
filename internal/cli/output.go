package cli

import (
	"fmt"
	"strings"

	"github.com/openledger/bankrecon/internal/report"
)

// PrintHeader prints the command header
func PrintHeader(ledgerPath, bankPath string) {
	fmt.Printf("bankrecon: %s vs %s\n", ledgerPath, bankPath)
}

// PrintSummary prints the reconciliation result summary
func PrintSummary(summary report.Summary) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Outcomes: %d | Exact: %d | Fee-adjusted: %d | Unmatched bank: %d | Unmatched ledger: %d\n",
		summary.TotalOutcomes,
		summary.ExactMatches,
		summary.FeeMatches,
		summary.UnmatchedBank,
		summary.UnmatchedLedger)
	fmt.Printf("Match rate: %.1f%% | Total fee difference: %.2f\n",
		summary.MatchRate*100,
		summary.TotalFeeDifference)
}

// PrintRunSaved prints where the run was persisted
func PrintRunSaved(runID, dbPath string) {
	fmt.Printf("Run %s saved to %s\n", runID, dbPath)
}
