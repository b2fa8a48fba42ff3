package store

import "fmt"

// AuditRun is one logged audit invocation.
type AuditRun struct {
	ID           int64  `json:"id"`
	RunID        string `json:"runId"`
	PreFiles     int    `json:"preFiles"`
	PostFiles    int    `json:"postFiles"`
	PreNames     string `json:"preNames"`
	PostNames    string `json:"postNames"`
	TotalRows    int    `json:"totalRows"`
	OKRows       int    `json:"okRows"`
	MismatchRows int    `json:"mismatchRows"`
	MissingRows  int    `json:"missingRows"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	CreatedAt    string `json:"createdAt"`
}

// CreateAuditRun records the start of a run, returning the log row id.
func (s *Store) CreateAuditRun(runID string, preFiles, postFiles int, preNames, postNames string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO audit_runs (run_id, pre_files, post_files, pre_names, post_names, status)
		VALUES (?, ?, ?, ?, ?, 'processing')
	`, runID, preFiles, postFiles, preNames, postNames)
	if err != nil {
		return 0, fmt.Errorf("failed to create audit run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get audit run id: %w", err)
	}
	return id, nil
}

// CompleteAuditRun finishes a run with its row counts.
func (s *Store) CompleteAuditRun(id int64, totalRows, okRows, mismatchRows, missingRows int) error {
	_, err := s.db.Exec(`
		UPDATE audit_runs SET
			total_rows = ?,
			ok_rows = ?,
			mismatch_rows = ?,
			missing_rows = ?,
			status = 'completed',
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalRows, okRows, mismatchRows, missingRows, id)
	if err != nil {
		return fmt.Errorf("failed to complete audit run: %w", err)
	}
	return nil
}

// FailAuditRun marks a run failed with its error message.
func (s *Store) FailAuditRun(id int64, message string) error {
	_, err := s.db.Exec(`
		UPDATE audit_runs SET
			status = 'failed',
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, message, id)
	if err != nil {
		return fmt.Errorf("failed to mark audit run failed: %w", err)
	}
	return nil
}

// CountAuditRuns returns the total number of logged runs.
func (s *Store) CountAuditRuns() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM audit_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count audit runs: %w", err)
	}
	return n, nil
}

// ListAuditRuns returns the most recent runs, newest first.
func (s *Store) ListAuditRuns(limit int) ([]*AuditRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, run_id, pre_files, post_files, pre_names, post_names,
		       total_rows, ok_rows, mismatch_rows, missing_rows,
		       status, error_message, created_at
		FROM audit_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit runs: %w", err)
	}
	defer rows.Close()

	var runs []*AuditRun
	for rows.Next() {
		r := &AuditRun{}
		err := rows.Scan(
			&r.ID, &r.RunID, &r.PreFiles, &r.PostFiles, &r.PreNames, &r.PostNames,
			&r.TotalRows, &r.OKRows, &r.MismatchRows, &r.MissingRows,
			&r.Status, &r.ErrorMessage, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
