package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"rptcli/internal/config"
	"rptcli/internal/report"
)

// Column width bounds for the approximate autosize, in Excel width units.
const (
	minColWidth = 10
	maxColWidth = 80
)

// DefaultSheetName is used when no sheet name is configured.
const DefaultSheetName = "RPT Data"

// ExcelWriter renders tables to xlsx workbooks.
type ExcelWriter struct {
	paths     *config.Paths
	sheetName string
}

// NewExcelWriter creates a new Excel writer instance. Relative output paths
// resolve against the configured output folder.
func NewExcelWriter(paths *config.Paths, sheetName string) *ExcelWriter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &ExcelWriter{paths: paths, sheetName: sheetName}
}

// Write renders the table and saves it to filePath.
func (w *ExcelWriter) Write(filePath string, table *report.Table) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("writing workbook",
		slog.String("path", fullPath),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)))

	f, err := w.build(table)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTo renders the table and streams the workbook to out.
func (w *ExcelWriter) WriteTo(out io.Writer, table *report.Table) error {
	f, err := w.build(table)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// build assembles the workbook: headers bold in row 1, data from row 2,
// columns sized to content, filter toggle across the header row. The caller
// owns the returned file and must Close it.
func (w *ExcelWriter) build(table *report.Table) (*excelize.File, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}

	f := excelize.NewFile()
	sheet := w.sheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, name := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
		f.SetCellStyle(sheet, cell, cell, bold)
	}

	for rowIdx, row := range table.Rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	for i, width := range columnWidths(table) {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, width)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(table.Columns))
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set auto filter: %w", err)
	}

	return f, nil
}

// columnWidths sizes each column to its longest value (header included)
// plus padding, clamped to sane bounds.
func columnWidths(table *report.Table) []float64 {
	widths := make([]float64, len(table.Columns))
	for i, name := range table.Columns {
		widths[i] = float64(len(name))
	}
	for _, row := range table.Rows {
		for i, value := range row {
			if i < len(widths) && float64(len(value)) > widths[i] {
				widths[i] = float64(len(value))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
		if widths[i] < minColWidth {
			widths[i] = minColWidth
		}
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

// resolvePath resolves a path to the output directory unless already
// absolute.
func (w *ExcelWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetOutputPath(filePath)
}
