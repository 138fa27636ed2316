package cli

import (
	"flag"
)

// ReconcileFlags are the flags for the reconcile command
type ReconcileFlags struct {
	LedgerPath string
	BankPath   string
	ConfigPath string
	OutputPath string
	JSON       bool
	DBPath     string
}

// ParseReconcileFlags parses reconcile flags from the command line
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	flag.StringVar(&flags.LedgerPath, "ledger", "", "Path to the ledger export CSV (required)")
	flag.StringVar(&flags.BankPath, "bank", "", "Path to the bank statement CSV (required)")
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to the config file")
	flag.StringVar(&flags.OutputPath, "out", "", "Write the report to this file (default: stdout)")
	flag.BoolVar(&flags.JSON, "json", false, "Render the report as JSON instead of CSV")
	flag.StringVar(&flags.DBPath, "db", "", "Persist the run to this SQLite database (default: no persistence)")
	flag.Parse()
	return flags
}

// Validate checks that required flags are present
func (f ReconcileFlags) Validate() bool {
	return f.LedgerPath != "" && f.BankPath != ""
}
