// Package excel exports readiness history to spreadsheet workbooks for
// medical and command staff review.
package excel

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fieldready/domain/core"
	"fieldready/domain/score"
	"fieldready/ports"
)

const sheetName = "Readiness"

// HistoryExporter writes one row per scored day, overall first, then
// every sub-score in canonical order.
type HistoryExporter struct {
	store ports.ScoreStore
}

// NewHistoryExporter creates an exporter reading from the given store
func NewHistoryExporter(store ports.ScoreStore) *HistoryExporter {
	return &HistoryExporter{store: store}
}

// Export writes the user's results for [start, end] to an xlsx file.
// Days with no stored result are omitted.
func (e *HistoryExporter) Export(ctx context.Context, userID core.UserID, start, end core.Day, path string) error {
	results, err := e.store.GetScoresInRange(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("read history for export: %w", err)
	}

	f, err := e.buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportTo streams the workbook for [start, end] to w instead of a file
func (e *HistoryExporter) ExportTo(ctx context.Context, userID core.UserID, start, end core.Day, w io.Writer) error {
	results, err := e.store.GetScoresInRange(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("read history for export: %w", err)
	}

	f, err := e.buildWorkbook(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (e *HistoryExporter) buildWorkbook(results []score.ComprehensiveReadinessResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := e.writeRow(f, 1, headerRow()); err != nil {
		f.Close()
		return nil, err
	}
	for i, result := range results {
		if err := e.writeRow(f, i+2, dataRow(result)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (e *HistoryExporter) writeRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("locate row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func headerRow() []interface{} {
	header := []interface{}{"Date", "Overall", "Category", "Confidence"}
	for _, name := range score.AllNames {
		header = append(header, string(name))
	}
	return header
}

func dataRow(result score.ComprehensiveReadinessResult) []interface{} {
	row := []interface{}{
		result.Date.String(),
		result.OverallReadiness,
		string(result.Category),
		string(result.Confidence),
	}
	for _, name := range score.AllNames {
		row = append(row, result.Score(name))
	}
	return row
}
