package audit_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"prepost/internal/model"
	"prepost/internal/service/audit"
)

// snapshotBytes builds an in-memory workbook with a single sheet.
func snapshotBytes(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func snapshotDoc(t *testing.T, name, sheet string, rows [][]interface{}) audit.Document {
	t.Helper()
	return audit.Document{
		FileName: name,
		Reader:   bytes.NewReader(snapshotBytes(t, sheet, rows)),
	}
}

func strp(s string) *string {
	return &s
}

func row(site, sector, name string, values ...*string) model.Row {
	return model.Row{SiteLabel: site, Sector: sector, Name: name, Values: values}
}

func table(role model.Role, cols []string, rows ...model.Row) *model.Table {
	return &model.Table{Role: role, Columns: cols, Rows: rows}
}
