package audit

import "prepost/internal/model"

// Result is the complete output of one audit run.
type Result struct {
	Full    *model.Report
	Action  *model.Report
	Summary model.Summary
	Columns []string
	Records []model.JoinedRecord
}

// Run executes the whole reconciliation pipeline: extract every snapshot,
// merge per role, outer-join, classify, assemble. It keeps no state
// outside its arguments and result, so it is callable identically from an
// HTTP handler, a CLI, or a test, and separate invocations are isolated.
func Run(preDocs, postDocs []Document) (*Result, error) {
	pre, err := extractAll(model.RolePre, preDocs)
	if err != nil {
		return nil, err
	}
	post, err := extractAll(model.RolePost, postDocs)
	if err != nil {
		return nil, err
	}

	records := Reconcile(pre, post)
	cols := Columns(pre, post)
	full, action := Assemble(records, cols)

	return &Result{
		Full:    full,
		Action:  action,
		Summary: Summarize(records),
		Columns: cols,
		Records: records,
	}, nil
}

func extractAll(role model.Role, docs []Document) (*model.Table, error) {
	tables := make([]*model.Table, 0, len(docs))
	for _, d := range docs {
		t, err := Extract(d, role)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return Merge(role, tables), nil
}
