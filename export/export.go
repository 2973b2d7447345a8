/*
Package export writes reduced rows to files for the dashboard.

Two formats: plain CSV (what the original Shiny dashboard consumed) and
XLSX for ad-hoc analysis. Column order matches the persisted schemas so
a file export and a table dump line up.
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/citydot/towstat/towing"
)

var summaryHeader = []string{"date", "quantity", "average", "medianage", "dirtbike", "category"}
var ageHeader = []string{"date", "property_id", "vehicle_age", "category", "dirtbike"}

// =============================================================================
// CSV
// =============================================================================

// WriteSummaryCSV writes summary rows with a header line.
func WriteSummaryCSV(w io.Writer, rows []towing.SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(summaryStrings(row)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAgesCSV writes per-vehicle age rows with a header line.
func WriteAgesCSV(w io.Writer, rows []towing.AgeRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ageHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(ageStrings(row)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// =============================================================================
// XLSX
// =============================================================================

// WriteSummaryXLSX writes summary rows to a single-sheet workbook.
func WriteSummaryXLSX(path string, rows []towing.SummaryRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, summaryHeader)
	for _, row := range rows {
		records = append(records, summaryStrings(row))
	}
	return writeSheet(path, "bydate", records)
}

// WriteAgesXLSX writes per-vehicle age rows to a single-sheet workbook.
func WriteAgesXLSX(path string, rows []towing.AgeRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, ageHeader)
	for _, row := range rows {
		records = append(records, ageStrings(row))
	}
	return writeSheet(path, "agebydate", records)
}

func writeSheet(path, sheet string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		values := make([]any, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// ROW FORMATTING
// =============================================================================

func summaryStrings(row towing.SummaryRow) []string {
	return []string{
		row.Date.String(),
		strconv.Itoa(row.Quantity),
		row.Average.String(),
		row.MedianAge.String(),
		strconv.FormatBool(row.Dirtbike),
		string(row.Category),
	}
}

func ageStrings(row towing.AgeRow) []string {
	return []string{
		row.Date.String(),
		row.PropertyID,
		strconv.Itoa(row.VehicleAge),
		string(row.Category),
		strconv.FormatBool(row.Dirtbike),
	}
}
