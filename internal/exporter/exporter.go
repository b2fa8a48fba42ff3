package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"prepost/internal/model"
)

// Sheet names of the exported audit workbook.
const (
	SheetFullAudit      = "Full Audit"
	SheetActionRequired = "Action Required"
)

// Writer serializes assembled audit reports to a styled workbook.
type Writer struct{}

// NewWriter creates a report writer.
func NewWriter() *Writer {
	return &Writer{}
}

type reportStyles struct {
	data       int
	preHeader  int
	postHeader int
	tailHeader int
	redCell    int
}

// Write builds the two-sheet audit workbook: every joined row on
// "Full Audit", rows needing action on "Action Required". Pre-block and
// post-block headers carry distinct fills, and any post-side status cell
// that is non-blank and differs from its pre counterpart is flagged red
// via a formula conditional format.
func (w *Writer) Write(full, action *model.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetFullAudit)
	if _, err := f.NewSheet(SheetActionRequired); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create sheet %q: %w", SheetActionRequired, err)
	}

	styles, err := newReportStyles(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("build styles: %w", err)
	}

	sheets := []struct {
		name   string
		report *model.Report
	}{
		{SheetFullAudit, full},
		{SheetActionRequired, action},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.report, styles); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write sheet %q: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func newReportStyles(f *excelize.File) (*reportStyles, error) {
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	data, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Font:      &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	preHeader, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9EAD3"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	postHeader, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#CFE2F3"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	tailHeader, err := f.NewStyle(&excelize.Style{
		Border:    border,
		Font:      &excelize.Font{Bold: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	redCell, err := f.NewStyle(&excelize.Style{
		Border: border,
		Font:   &excelize.Font{Size: 10, Color: "9C0006"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	return &reportStyles{
		data:       data,
		preHeader:  preHeader,
		postHeader: postHeader,
		tailHeader: tailHeader,
		redCell:    redCell,
	}, nil
}

func writeSheet(f *excelize.File, sheet string, report *model.Report, styles *reportStyles) error {
	widths := make([]int, len(report.Columns))

	for i, col := range report.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}

		style := styles.tailHeader
		switch {
		case i < report.PreWidth:
			style = styles.preHeader
		case i < 2*report.PreWidth:
			style = styles.postHeader
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		widths[i] = len(col)
	}

	for r, row := range report.Rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, *val); err != nil {
				return err
			}
			if len(*val) > widths[c] {
				widths[c] = len(*val)
			}
		}
	}

	if len(report.Rows) > 0 {
		topLeft, err := excelize.CoordinatesToCellName(1, 2)
		if err != nil {
			return err
		}
		bottomRight, err := excelize.CoordinatesToCellName(len(report.Columns), len(report.Rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, topLeft, bottomRight, styles.data); err != nil {
			return err
		}
	}

	for i := range report.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, float64(widths[i]+2)); err != nil {
			return err
		}
	}

	return highlightDivergence(f, sheet, report, styles.redCell)
}

// highlightDivergence marks post-side status cells that hold a value
// different from the pre side. Blank post cells stay unmarked, so rows the
// post side never reported do not light up entirely.
func highlightDivergence(f *excelize.File, sheet string, report *model.Report, styleID int) error {
	if len(report.Rows) == 0 {
		return nil
	}

	lastRow := len(report.Rows) + 1
	for _, h := range report.Highlights {
		preCol, err := excelize.ColumnNumberToName(h.PreIdx + 1)
		if err != nil {
			return err
		}
		postCol, err := excelize.ColumnNumberToName(h.PostIdx + 1)
		if err != nil {
			return err
		}

		ref := fmt.Sprintf("%s2:%s%d", postCol, postCol, lastRow)
		criteria := fmt.Sprintf("=AND(NOT(ISBLANK($%s2)), %s2<>%s2)", postCol, postCol, preCol)
		err = f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{
			{Type: "formula", Criteria: criteria, Format: &styleID},
		})
		if err != nil {
			return err
		}
	}

	return nil
}
