package audit

import "prepost/internal/model"

// Merge concatenates same-role snapshot tables into one unified table,
// preserving row order first-to-last. Zero tables produce an empty table;
// "no files of this role" is a legal state, not an error.
//
// Column sets across tables of one role are expected to match. When they
// drift the merge still proceeds: the unified schema is the union in
// first-seen order and rows from tables lacking a column carry nil there.
func Merge(role model.Role, tables []*model.Table) *model.Table {
	merged := &model.Table{Role: role}

	colIdx := make(map[string]int)
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := colIdx[c]; !ok {
				colIdx[c] = len(merged.Columns)
				merged.Columns = append(merged.Columns, c)
			}
		}
	}

	for _, t := range tables {
		for _, r := range t.Rows {
			values := make([]*string, len(merged.Columns))
			for j, c := range t.Columns {
				if j < len(r.Values) {
					values[colIdx[c]] = r.Values[j]
				}
			}
			merged.Rows = append(merged.Rows, model.Row{
				SiteLabel: r.SiteLabel,
				Sector:    r.Sector,
				Name:      r.Name,
				Values:    values,
			})
		}
	}

	return merged
}
