/*
main.go - towstat entry point

PURPOSE:
  Batch aggregator for impound-lot custody records. Subcommands:

    run      Aggregate a date window into the stats tables
    export   Dump stored stats to CSV or XLSX
    serve    Read-only dashboard API

EXAMPLES:
  # Nightly cron: yesterday, skipping already-computed days
  towstat run --db ./towstat.db

  # Backfill January 2020, recomputing everything
  towstat run --db ./towstat.db --date 2020-01-01 --days 31 --force

  # Export the month as CSV
  towstat export --db ./towstat.db --start 2020-01-01 --end 2020-01-31

ENVIRONMENT:
  A .env file is loaded when present. TOWSTAT_DB, TOWSTAT_LISTEN and
  LOG_LEVEL override the config file.
*/
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/citydot/towstat/cli"
)

var version = "dev"

func main() {
	// Missing .env is fine; real config has defaults.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "towstat",
		Short:   "Impound lot occupancy statistics",
		Version: version,
		Long: `towstat converts vehicle custody records (receive date, release date,
pickup code, code changes) into per-day occupancy statistics: vehicle
counts, mean and median age on the lot, split by category and size class.`,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
