package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/citydot/towstat/export"
	"github.com/citydot/towstat/towing"
)

// ExportCmd builds the `towstat export` command: dump stored stats to a
// CSV or XLSX file.
func ExportCmd() *cobra.Command {
	var (
		configPath string
		dbPath     string
		startRaw   string
		endRaw     string
		shape      string
		format     string
		out        string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored stats to CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := towing.ParseDate(startRaw)
			if err != nil {
				return fmt.Errorf("bad --start: %w", err)
			}
			end, err := towing.ParseDate(endRaw)
			if err != nil {
				return fmt.Errorf("bad --end: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--end precedes --start")
			}

			_, _, st, _, err := setup(configPath, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			switch {
			case shape == "summary" && format == "csv":
				rows, err := st.SummariesBetween(ctx, start, end)
				if err != nil {
					return err
				}
				err = withOutFile(out, func(f *os.File) error {
					return export.WriteSummaryCSV(f, rows)
				})
				if err != nil {
					return err
				}
			case shape == "ages" && format == "csv":
				rows, err := st.AgesBetween(ctx, start, end)
				if err != nil {
					return err
				}
				err = withOutFile(out, func(f *os.File) error {
					return export.WriteAgesCSV(f, rows)
				})
				if err != nil {
					return err
				}
			case shape == "summary" && format == "xlsx":
				rows, err := st.SummariesBetween(ctx, start, end)
				if err != nil {
					return err
				}
				if err := export.WriteSummaryXLSX(requirePath(out, "xlsx"), rows); err != nil {
					return err
				}
			case shape == "ages" && format == "xlsx":
				rows, err := st.AgesBetween(ctx, start, end)
				if err != nil {
					return err
				}
				if err := export.WriteAgesXLSX(requirePath(out, "xlsx"), rows); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown shape/format %s/%s (shape: summary|ages, format: csv|xlsx)", shape, format)
			}

			if out != "" {
				color.Green("wrote %s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&startRaw, "start", "", "first day, Y-M-D (required)")
	cmd.Flags().StringVar(&endRaw, "end", "", "last day, Y-M-D (required)")
	cmd.Flags().StringVar(&shape, "shape", "summary", "which table to export: summary or ages")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output file (csv defaults to stdout)")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")

	return cmd
}

// withOutFile runs fn against the output file, or stdout when no path
// was given.
func withOutFile(path string, fn func(*os.File) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}

// requirePath defaults the output path for formats that cannot stream.
func requirePath(path, ext string) string {
	if path != "" {
		return path
	}
	return "towstat." + strings.TrimPrefix(ext, ".")
}
