package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	perRunSheet  = "PerRun"
	noticeSheet  = "Notices"
)

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteXLSX exports the scalar results, the per-run series and the notices
// as a workbook.
func WriteXLSX(w io.Writer, summary []SummaryRow, perRun []PerRunRow, notices []Notice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	rows := make([][]interface{}, len(summary))
	for i, r := range summary {
		rows[i] = []interface{}{r.Kind, r.Metric, r.Title, r.Label, r.Mean, r.StdDev, r.Interval, r.N, r.File}
	}
	if err := writeSheet(f, summarySheet,
		[]string{"Dataset", "Metric", "Title", "Simulation", "Mean", "Std Dev", "95% CI", "N", "File"}, rows); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if _, err := f.NewSheet(perRunSheet); err != nil {
		return fmt.Errorf("failed to create per-run sheet: %w", err)
	}
	rows = make([][]interface{}, len(perRun))
	for i, r := range perRun {
		rows[i] = []interface{}{r.Kind, r.Metric, r.Title, r.Label, r.Run, r.Value, r.Interval, r.File}
	}
	if err := writeSheet(f, perRunSheet,
		[]string{"Dataset", "Metric", "Title", "Simulation", "Execution", "Value", "95% CI", "File"}, rows); err != nil {
		return fmt.Errorf("failed to write per-run sheet: %w", err)
	}

	if _, err := f.NewSheet(noticeSheet); err != nil {
		return fmt.Errorf("failed to create notices sheet: %w", err)
	}
	rows = make([][]interface{}, len(notices))
	for i, n := range notices {
		rows[i] = []interface{}{n.Level.String(), n.File, n.Metric, n.Message}
	}
	if err := writeSheet(f, noticeSheet, []string{"Level", "File", "Metric", "Message"}, rows); err != nil {
		return fmt.Errorf("failed to write notices sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
