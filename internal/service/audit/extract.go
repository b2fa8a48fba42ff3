package audit

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"prepost/internal/model"
)

// SummarySheet is the only sheet consumed from an uploaded snapshot.
const SummarySheet = "Summary"

// siteLabelPattern extracts the provenance label from a snapshot file name,
// e.g. Precheck_SITE042_20260115.xlsx -> SITE042.
var siteLabelPattern = regexp.MustCompile(`^(?:Precheck|Postcheck)_([^_]+)_`)

// Document is one uploaded snapshot file.
type Document struct {
	FileName string
	Reader   io.Reader
}

// MalformedInputError marks a document that could not be read as a
// snapshot: not a workbook at all, or missing the Summary sheet. It aborts
// the whole run.
type MalformedInputError struct {
	File string
	Err  error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed snapshot %q: %v", e.File, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// SiteLabel parses the site label out of a snapshot file name. Names that
// do not match the Precheck_/Postcheck_ pattern yield "Unknown"; name
// parsing never fails a run.
func SiteLabel(fileName string) string {
	m := siteLabelPattern.FindStringSubmatch(fileName)
	if len(m) == 2 {
		return m[1]
	}
	return "Unknown"
}

// Extract normalizes one snapshot document into a table: trimmed headers,
// the first two data columns as the (sector, name) join key, the rest as
// status columns in source order.
func Extract(doc Document, role model.Role) (*model.Table, error) {
	f, err := excelize.OpenReader(doc.Reader)
	if err != nil {
		return nil, &MalformedInputError{File: doc.FileName, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(SummarySheet)
	if err != nil {
		return nil, &MalformedInputError{File: doc.FileName, Err: fmt.Errorf("sheet %q: %w", SummarySheet, err)}
	}
	if len(rows) == 0 {
		return nil, &MalformedInputError{File: doc.FileName, Err: errors.New("sheet Summary has no header row")}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var statusCols []string
	if len(header) > 2 {
		statusCols = header[2:]
	}

	site := SiteLabel(doc.FileName)

	table := &model.Table{Role: role, Columns: statusCols}
	for _, r := range rows[1:] {
		row := model.Row{
			SiteLabel: site,
			Sector:    keyCell(r, 0),
			Name:      keyCell(r, 1),
			Values:    make([]*string, len(statusCols)),
		}
		for j := range statusCols {
			row.Values[j] = statusCell(r, j+2)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func keyCell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// statusCell models an empty cell as absent, matching how the snapshots
// leave unreported metrics blank.
func statusCell(row []string, idx int) *string {
	if idx >= len(row) || row[idx] == "" {
		return nil
	}
	v := row[idx]
	return &v
}
