// Package export writes shift-log reports to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/frontdesk-log/internal/application"
)

const summarySheet = "Summary"

type grouping struct {
	sheet string
	bars  []application.ReportBar
}

// WriteReport renders summary as an .xlsx workbook: a Summary sheet followed
// by one sheet per grouping whose count cells are filled with the bar color.
func WriteReport(w io.Writer, summary application.ReportSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for _, g := range []grouping{
		{sheet: "Category", bars: summary.ByCategory},
		{sheet: "Staff", bars: summary.ByStaff},
		{sheet: "Priority", bars: summary.ByPriority},
		{sheet: "Status", bars: summary.ByStatus},
	} {
		if err := writeGrouping(f, g, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, summary application.ReportSummary) error {
	rows := [][]any{
		{"Window (days)", int(summary.Window)},
		{"Since", summary.Cutoff.Format(time.RFC3339)},
		{"Entries", summary.Total},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 22)
}

func writeGrouping(f *excelize.File, g grouping, header int) error {
	if _, err := f.NewSheet(g.sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", g.sheet, err)
	}
	if err := f.SetSheetRow(g.sheet, "A1", &[]any{"Label", "Count"}); err != nil {
		return fmt.Errorf("write %s header: %w", g.sheet, err)
	}
	if err := f.SetCellStyle(g.sheet, "A1", "B1", header); err != nil {
		return fmt.Errorf("style %s header: %w", g.sheet, err)
	}

	styles := make(map[string]int)
	for i, bar := range g.bars {
		row := i + 2
		label, _ := excelize.CoordinatesToCellName(1, row)
		count, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(g.sheet, label, bar.Label); err != nil {
			return fmt.Errorf("write %s label: %w", g.sheet, err)
		}
		if err := f.SetCellValue(g.sheet, count, bar.Count); err != nil {
			return fmt.Errorf("write %s count: %w", g.sheet, err)
		}

		style, ok := styles[bar.Color]
		if !ok {
			var err error
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillColor(bar.Color)}},
				Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			})
			if err != nil {
				return fmt.Errorf("create fill style %s: %w", bar.Color, err)
			}
			styles[bar.Color] = style
		}
		if err := f.SetCellStyle(g.sheet, count, count, style); err != nil {
			return fmt.Errorf("style %s count: %w", g.sheet, err)
		}
	}
	return f.SetColWidth(g.sheet, "A", "A", 20)
}

// fillColor converts "#0a66c2" into the "0A66C2" form workbook styles use.
func fillColor(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}
