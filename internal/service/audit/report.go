package audit

import "prepost/internal/model"

// Assemble reorders joined records into the side-by-side report layout:
// the pre block, the post block, then Audit_Status. It returns the full
// report and the subset of rows whose status is not OK, in the same order.
// The records themselves are not mutated.
func Assemble(records []model.JoinedRecord, cols []string) (full, action *model.Report) {
	blockWidth := 3 + len(cols)

	header := make([]string, 0, 2*blockWidth+1)
	for _, side := range []string{"Pre", "Post"} {
		header = append(header, "Site_File_"+side, "Sector_"+side, "Name_"+side)
		for _, c := range cols {
			header = append(header, c+"_"+side)
		}
	}
	header = append(header, "Audit_Status")

	highlights := make([]model.HighlightPair, len(cols))
	for i, c := range cols {
		highlights[i] = model.HighlightPair{
			Column:  c,
			PreIdx:  3 + i,
			PostIdx: blockWidth + 3 + i,
		}
	}

	full = &model.Report{Columns: header, PreWidth: blockWidth, Highlights: highlights}
	action = &model.Report{Columns: header, PreWidth: blockWidth, Highlights: highlights}

	for i := range records {
		rec := &records[i]

		row := make([]*string, 0, len(header))
		row = append(row, rec.PreSite, sideKey(rec.PreSite, rec.Sector), sideKey(rec.PreSite, rec.Name))
		for _, p := range rec.Pairs {
			row = append(row, p.Pre)
		}
		row = append(row, rec.PostSite, sideKey(rec.PostSite, rec.Sector), sideKey(rec.PostSite, rec.Name))
		for _, p := range rec.Pairs {
			row = append(row, p.Post)
		}
		status := rec.Status
		row = append(row, &status)

		full.Rows = append(full.Rows, row)
		if rec.Status != model.StatusOK {
			action.Rows = append(action.Rows, row)
		}
	}

	return full, action
}

// sideKey re-derives a key column per side: the shared join key is shown
// only for a side that actually contributed a row for it.
func sideKey(site *string, v string) *string {
	if site == nil {
		return nil
	}
	return &v
}

// Summarize counts records per audit-status label, labels in first-seen
// order. Labels are the full statuses (mismatch labels include their
// column list); grouping into categories is a display concern.
func Summarize(records []model.JoinedRecord) model.Summary {
	s := model.Summary{Total: len(records)}

	idx := make(map[string]int)
	for i := range records {
		status := records[i].Status
		at, ok := idx[status]
		if !ok {
			at = len(s.Counts)
			idx[status] = at
			s.Counts = append(s.Counts, model.StatusCount{Status: status})
		}
		s.Counts[at].Count++
	}

	return s
}
