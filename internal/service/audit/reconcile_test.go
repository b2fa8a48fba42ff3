package audit_test

import (
	"strings"
	"testing"

	"prepost/internal/model"
	"prepost/internal/service/audit"
)

func TestValuesEqual(t *testing.T) {
	cases := []struct {
		pre, post *string
		want      bool
	}{
		{nil, nil, true},
		{nil, strp("-80"), false},
		{strp("-80"), nil, false},
		{strp("-80"), strp("-80"), true},
		{strp(" -80 "), strp("-80"), true},
		{strp("-80"), strp("-82"), false},
		{strp(""), strp("  "), true},
	}
	for i, c := range cases {
		if got := audit.ValuesEqual(c.pre, c.post); got != c.want {
			t.Errorf("case %d: ValuesEqual=%v, want %v", i, got, c.want)
		}
	}
}

func TestReconcileMismatch(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))
	post := table(model.RolePost, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-82")))

	records := audit.Reconcile(pre, post)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Status != "MISMATCH: RSSI" {
		t.Fatalf("Status=%q, want MISMATCH: RSSI", records[0].Status)
	}
}

func TestReconcileMismatchListsColumnsInOrder(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI", "Power", "Tilt"},
		row("SITE1", "S1", "N1", strp("-80"), strp("43"), strp("2")))
	post := table(model.RolePost, []string{"RSSI", "Power", "Tilt"},
		row("SITE1", "S1", "N1", strp("-82"), strp("43"), strp("4")))

	records := audit.Reconcile(pre, post)
	if records[0].Status != "MISMATCH: RSSI, Tilt" {
		t.Fatalf("Status=%q, want MISMATCH: RSSI, Tilt", records[0].Status)
	}
}

func TestReconcileWhitespaceTolerance(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"}, row("SITE1", "S1", "N1", strp(" -80 ")))
	post := table(model.RolePost, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))

	records := audit.Reconcile(pre, post)
	if records[0].Status != model.StatusOK {
		t.Fatalf("Status=%q, want OK", records[0].Status)
	}
}

func TestReconcileMissingPost(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"},
		row("SITE1", "S1", "N1", strp("-80")),
		row("SITE1", "S2", "N2", strp("-81")),
	)
	post := table(model.RolePost, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))

	records := audit.Reconcile(pre, post)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Status != model.StatusOK {
		t.Fatalf("matched row Status=%q, want OK", records[0].Status)
	}
	if records[1].Status != model.StatusMissingPost {
		t.Fatalf("unmatched row Status=%q, want MISSING POST", records[1].Status)
	}
}

func TestReconcileMissingPre(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))
	post := table(model.RolePost, []string{"RSSI"},
		row("SITE1", "S1", "N1", strp("-80")),
		row("SITE1", "S9", "N9", strp("-85")),
	)

	records := audit.Reconcile(pre, post)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Status != model.StatusMissingPre {
		t.Fatalf("post-only row Status=%q, want MISSING PRE", records[1].Status)
	}
}

// The first status column is a presence sentinel: a side whose primary
// metric is blank counts as missing even when the row itself exists.
func TestReconcileFirstColumnSentinel(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI", "Power"},
		row("SITE1", "S1", "N1", nil, strp("43")))
	post := table(model.RolePost, []string{"RSSI", "Power"},
		row("SITE1", "S1", "N1", strp("-80"), strp("43")))

	records := audit.Reconcile(pre, post)
	if records[0].Status != model.StatusMissingPre {
		t.Fatalf("Status=%q, want MISSING PRE", records[0].Status)
	}
}

func TestReconcileDuplicateKeysCrossProduct(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"},
		row("SITE1", "S1", "N1", strp("-80")),
		row("SITE1", "S1", "N1", strp("-81")),
	)
	post := table(model.RolePost, []string{"RSSI"},
		row("SITE1", "S1", "N1", strp("-80")),
		row("SITE1", "S1", "N1", strp("-82")),
	)

	records := audit.Reconcile(pre, post)
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (2x2 cross product)", len(records))
	}
}

// Every pre row and every post row must appear in at least one record.
func TestReconcileJoinCompleteness(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"},
		row("SITE1", "S1", "N1", strp("-80")),
		row("SITE1", "S2", "N2", strp("-81")),
		row("SITE1", "S3", "N3", strp("-82")),
	)
	post := table(model.RolePost, []string{"RSSI"},
		row("SITE1", "S2", "N2", strp("-81")),
		row("SITE1", "S4", "N4", strp("-83")),
	)

	records := audit.Reconcile(pre, post)
	if len(records) < 3 {
		t.Fatalf("got %d records, want at least max(|pre|,|post|)=3", len(records))
	}

	seen := make(map[string]bool)
	for _, r := range records {
		seen[r.Sector+"|"+r.Name] = true
	}
	for _, key := range []string{"S1|N1", "S2|N2", "S3|N3", "S4|N4"} {
		if !seen[key] {
			t.Fatalf("key %s dropped from the join", key)
		}
	}
}

// An empty role classifies every record MISSING for that role; it must not
// leak into MISMATCH against absent values.
func TestReconcileEmptyPostRole(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))
	post := table(model.RolePost, nil)

	records := audit.Reconcile(pre, post)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Status != model.StatusMissingPost {
		t.Fatalf("Status=%q, want MISSING POST", records[0].Status)
	}
}

func TestReconcileEmptyPreRole(t *testing.T) {
	pre := table(model.RolePre, nil)
	post := table(model.RolePost, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))

	records := audit.Reconcile(pre, post)
	if records[0].Status != model.StatusMissingPre {
		t.Fatalf("Status=%q, want MISSING PRE", records[0].Status)
	}
}

func TestReconcileBothEmpty(t *testing.T) {
	records := audit.Reconcile(table(model.RolePre, nil), table(model.RolePost, nil))
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

func TestReconcileNoStatusColumns(t *testing.T) {
	pre := table(model.RolePre, nil, row("SITE1", "S1", "N1"))
	post := table(model.RolePost, nil, row("SITE1", "S1", "N1"))

	records := audit.Reconcile(pre, post)
	if records[0].Status != model.StatusOK {
		t.Fatalf("Status=%q, want OK for a schema with no status columns", records[0].Status)
	}
}

// Every record's status must come from the audit vocabulary, and mismatch
// labels may only list authoritative columns.
func TestReconcileStatusCoverage(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI", "Power"},
		row("SITE1", "S1", "N1", strp("-80"), strp("43")),
		row("SITE1", "S2", "N2", strp("-81"), strp("40")),
		row("SITE1", "S3", "N3", strp("-82"), strp("41")),
	)
	post := table(model.RolePost, []string{"RSSI", "Power"},
		row("SITE1", "S1", "N1", strp("-80"), strp("43")),
		row("SITE1", "S2", "N2", strp("-99"), strp("40")),
		row("SITE1", "S4", "N4", strp("-70"), strp("44")),
	)

	authoritative := map[string]bool{"RSSI": true, "Power": true}

	for _, rec := range audit.Reconcile(pre, post) {
		switch rec.Status {
		case model.StatusOK, model.StatusMissingPre, model.StatusMissingPost:
			continue
		}
		if !strings.HasPrefix(rec.Status, model.MismatchPrefix) {
			t.Fatalf("Status=%q is outside the audit vocabulary", rec.Status)
		}
		cols := strings.Split(strings.TrimPrefix(rec.Status, model.MismatchPrefix), ", ")
		if len(cols) == 0 {
			t.Fatalf("mismatch label %q lists no columns", rec.Status)
		}
		for _, c := range cols {
			if !authoritative[c] {
				t.Fatalf("mismatch label %q names a non-authoritative column", rec.Status)
			}
		}
	}
}

func TestColumnsAuthority(t *testing.T) {
	pre := table(model.RolePre, []string{"RSSI"}, row("SITE1", "S1", "N1", strp("-80")))
	post := table(model.RolePost, []string{"Power"}, row("SITE1", "S1", "N1", strp("43")))

	if got := audit.Columns(pre, post); len(got) != 1 || got[0] != "RSSI" {
		t.Fatalf("Columns=%v, want [RSSI] (pre wins when non-empty)", got)
	}

	// a pre table with no rows cedes authority to post
	emptyPre := table(model.RolePre, []string{"RSSI"})
	if got := audit.Columns(emptyPre, post); len(got) != 1 || got[0] != "Power" {
		t.Fatalf("Columns=%v, want [Power]", got)
	}
}
