package audit

import (
	"strings"

	"prepost/internal/model"
)

// joinKey identifies a row across the two snapshot sides.
type joinKey struct {
	sector string
	name   string
}

// Columns returns the authoritative status-column schema for a pair of
// unified tables: the pre side's when it has rows, otherwise the post
// side's, otherwise none.
func Columns(pre, post *model.Table) []string {
	if !pre.Empty() {
		return pre.Columns
	}
	if !post.Empty() {
		return post.Columns
	}
	return nil
}

// ValuesEqual is the comparison used for status columns: type-insensitive,
// whitespace-insensitive string equality. An absent cell equals only
// another absent cell.
func ValuesEqual(pre, post *string) bool {
	if pre == nil || post == nil {
		return pre == nil && post == nil
	}
	return strings.TrimSpace(*pre) == strings.TrimSpace(*post)
}

// Reconcile outer-joins the two unified tables on (sector, name) and
// classifies every joined record.
//
// Every pre row and every post row appears in at least one record; rows
// whose key exists on both sides merge once per key match, so duplicate
// keys yield a cross-product. Pre rows come out in pre order with their
// matches, unmatched post rows follow in post order.
func Reconcile(pre, post *model.Table) []model.JoinedRecord {
	cols := Columns(pre, post)
	preVals := alignValues(pre, cols)
	postVals := alignValues(post, cols)

	byKey := make(map[joinKey][]int, len(post.Rows))
	for i, r := range post.Rows {
		k := joinKey{sector: r.Sector, name: r.Name}
		byKey[k] = append(byKey[k], i)
	}

	n := len(pre.Rows)
	if len(post.Rows) > n {
		n = len(post.Rows)
	}
	records := make([]model.JoinedRecord, 0, n)
	matched := make([]bool, len(post.Rows))

	for i := range pre.Rows {
		k := joinKey{sector: pre.Rows[i].Sector, name: pre.Rows[i].Name}
		idxs := byKey[k]
		if len(idxs) == 0 {
			records = append(records, joinRow(cols, &pre.Rows[i], preVals[i], nil, nil))
			continue
		}
		for _, j := range idxs {
			matched[j] = true
			records = append(records, joinRow(cols, &pre.Rows[i], preVals[i], &post.Rows[j], postVals[j]))
		}
	}
	for j := range post.Rows {
		if !matched[j] {
			records = append(records, joinRow(cols, nil, nil, &post.Rows[j], postVals[j]))
		}
	}

	preEmpty := pre.Empty()
	postEmpty := post.Empty()
	for i := range records {
		records[i].Status = deriveStatus(&records[i], preEmpty, postEmpty)
	}

	return records
}

// alignValues re-indexes each row's values to the authoritative column
// order, so every record carries both sides of every authoritative column
// even when this table's own schema drifted.
func alignValues(t *model.Table, cols []string) [][]*string {
	pos := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		pos[c] = i
	}

	out := make([][]*string, len(t.Rows))
	for i, r := range t.Rows {
		vals := make([]*string, len(cols))
		for j, c := range cols {
			if k, ok := pos[c]; ok && k < len(r.Values) {
				vals[j] = r.Values[k]
			}
		}
		out[i] = vals
	}
	return out
}

func joinRow(cols []string, pre *model.Row, preVals []*string, post *model.Row, postVals []*string) model.JoinedRecord {
	rec := model.JoinedRecord{Pairs: make([]model.ValuePair, len(cols))}

	if pre != nil {
		rec.Sector = pre.Sector
		rec.Name = pre.Name
		site := pre.SiteLabel
		rec.PreSite = &site
	}
	if post != nil {
		rec.Sector = post.Sector
		rec.Name = post.Name
		site := post.SiteLabel
		rec.PostSite = &site
	}

	for i, c := range cols {
		p := model.ValuePair{Column: c}
		if pre != nil {
			p.Pre = preVals[i]
		}
		if post != nil {
			p.Post = postVals[i]
		}
		rec.Pairs[i] = p
	}

	return rec
}

// deriveStatus classifies one joined record. The first status column is a
// presence sentinel: a side whose primary metric is absent counts as
// missing entirely, whatever the other columns hold. A side whose whole
// unified table has zero rows is missing for every record, so an empty
// role never leaks into MISMATCH against absent values.
func deriveStatus(rec *model.JoinedRecord, preEmpty, postEmpty bool) string {
	if postEmpty && !preEmpty {
		return model.StatusMissingPost
	}
	if !postEmpty && len(rec.Pairs) > 0 && rec.Pairs[0].Post == nil {
		return model.StatusMissingPost
	}
	if preEmpty && !postEmpty {
		return model.StatusMissingPre
	}
	if !preEmpty && len(rec.Pairs) > 0 && rec.Pairs[0].Pre == nil {
		return model.StatusMissingPre
	}

	var diffs []string
	for _, p := range rec.Pairs {
		if !ValuesEqual(p.Pre, p.Post) {
			diffs = append(diffs, p.Column)
		}
	}
	if len(diffs) == 0 {
		return model.StatusOK
	}
	return model.MismatchStatus(strings.Join(diffs, ", "))
}
