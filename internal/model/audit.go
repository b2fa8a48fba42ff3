package model

// Role marks which side of the audit a snapshot belongs to.
type Role string

const (
	RolePre  Role = "pre"
	RolePost Role = "post"
)

// Audit status labels. Mismatch labels are built with MismatchStatus and
// carry the differing column names.
const (
	StatusOK          = "OK"
	StatusMissingPre  = "MISSING PRE"
	StatusMissingPost = "MISSING POST"

	MismatchPrefix = "MISMATCH: "
)

// MismatchStatus builds the mismatch label for a list of differing columns.
func MismatchStatus(cols string) string {
	return MismatchPrefix + cols
}

// Row is one normalized snapshot row. Values is parallel to the owning
// Table's Columns; a nil entry is an absent cell.
type Row struct {
	SiteLabel string
	Sector    string
	Name      string
	Values    []*string
}

// Table is a normalized snapshot table for one role. Columns lists the
// status columns in source order; the join key (sector, name) and the site
// label live on the rows themselves.
type Table struct {
	Role    Role
	Columns []string
	Rows    []Row
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ValuePair holds both sides of one status column for a joined record.
type ValuePair struct {
	Column string
	Pre    *string
	Post   *string
}

// JoinedRecord is one row of the full outer join of the pre and post
// tables. PreSite/PostSite are nil when that side contributed no row for
// the key. Pairs is parallel to the authoritative status columns.
type JoinedRecord struct {
	Sector   string
	Name     string
	PreSite  *string
	PostSite *string
	Pairs    []ValuePair
	Status   string
}

// HighlightPair names the pre/post column indices of one status column in
// an assembled report, used to drive conditional highlighting on export.
type HighlightPair struct {
	Column  string
	PreIdx  int
	PostIdx int
}

// Report is an assembled side-by-side audit table. Rows is parallel to
// Columns; PreWidth is the number of columns in the pre block.
type Report struct {
	Columns    []string
	Rows       [][]*string
	PreWidth   int
	Highlights []HighlightPair
}

// StatusCount is one audit-status label with its row count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Summary holds per-status row counts in first-seen order. Category
// grouping (MISMATCH/MISSING prefixes) is left to the caller.
type Summary struct {
	Total  int           `json:"total"`
	Counts []StatusCount `json:"counts"`
}
