package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/openledger/bankrecon/internal/cli"
	"github.com/openledger/bankrecon/internal/domain/engine"
	"github.com/openledger/bankrecon/internal/infrastructure/config"
	"github.com/openledger/bankrecon/internal/infrastructure/storage"
	"github.com/openledger/bankrecon/internal/ingest"
	"github.com/openledger/bankrecon/internal/report"
)

func main() {
	flags := cli.ParseReconcileFlags()
	if !flags.Validate() {
		fmt.Fprintln(os.Stderr, "both -ledger and -bank are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	ledgerRecords, err := ingest.LoadRecords(flags.LedgerPath, engine.OriginLedger)
	if err != nil {
		log.Fatal(err)
	}
	bankRecords, err := ingest.LoadRecords(flags.BankPath, engine.OriginBank)
	if err != nil {
		log.Fatal(err)
	}

	eng := engine.New(cfg.Matcher.ToEngineConfig())
	outcomes, err := eng.Reconcile(ledgerRecords, bankRecords)
	if err != nil {
		log.Fatal(err)
	}

	cli.PrintHeader(flags.LedgerPath, flags.BankPath)
	cli.PrintSummary(report.Summarize(outcomes))

	var out io.Writer = os.Stdout
	if flags.OutputPath != "" {
		file, err := os.Create(flags.OutputPath)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		out = file
	}

	if flags.JSON {
		err = report.WriteJSON(out, outcomes)
	} else {
		err = report.WriteCSV(out, outcomes)
	}
	if err != nil {
		log.Fatal(err)
	}

	if flags.DBPath != "" {
		store, err := storage.NewStorage(flags.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()

		run, records := storage.NewRun(flags.LedgerPath, flags.BankPath, outcomes)
		if err := store.SaveRun(run, records); err != nil {
			log.Fatal(err)
		}
		cli.PrintRunSaved(run.ID, flags.DBPath)
	}
}
