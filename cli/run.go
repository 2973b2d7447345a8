package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/citydot/towstat/runner"
	"github.com/citydot/towstat/towing"
)

// RunCmd builds the `towstat run` command: one aggregation run over a
// date window, upserting into the stats tables.
func RunCmd() *cobra.Command {
	var (
		configPath string
		dbPath     string
		dateRaw    string
		days       int
		force      bool
		modeRaw    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate custody records into daily stats",
		Long: `Run expands every custody record overlapping the window into per-day
vehicle ages, reduces them to the two stats shapes, and upserts the rows.
Days already present in the stats tables are skipped unless --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := runner.ParseMode(modeRaw)
			if err != nil {
				return err
			}

			// Default window: yesterday, one day - the nightly cron case.
			start := towing.Today().AddDays(-1)
			if dateRaw != "" {
				if start, err = towing.ParseDate(dateRaw); err != nil {
					return fmt.Errorf("bad --date: %w", err)
				}
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			window := towing.Period{Start: start, End: start.AddDays(days - 1)}

			_, log, st, classifier, err := setup(configPath, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			r := runner.New(st, st, classifier, log)
			report, err := r.Run(cmd.Context(), runner.Options{
				Window: window,
				Force:  force,
				Mode:   mode,
			})
			if err != nil {
				return err
			}

			color.Green("run %s complete: %d/%d days, %d records (%d skipped), %d summary rows, %d age rows",
				report.RunID, report.DaysProcessed, report.DaysPlanned,
				report.Records, report.Skipped, report.SummaryRows, report.AgeRows)
			if report.Skipped > 0 {
				color.Yellow("%d records skipped for data-quality problems; see the log", report.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&dateRaw, "date", "", "first day of the window, Y-M-D (default: yesterday)")
	cmd.Flags().IntVar(&days, "days", 1, "number of days in the window, including the first")
	cmd.Flags().BoolVar(&force, "force", false, "recompute days that already have stats")
	cmd.Flags().StringVar(&modeRaw, "mode", string(runner.ModeBoth), "output shape: summary, ages, or both")

	return cmd
}
