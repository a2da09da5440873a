package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mbelozerov/caseline/internal/db"
	"github.com/mbelozerov/caseline/internal/domain"
)

// caseColumns is the canonical SELECT column list for cases.
const caseColumns = `cases.id, cases.title, cases.steps_json, cases.preconditions,
		cases.expected_result, cases.test_type, cases.status, cases.author_id,
		cases.suite_id, cases.assigned_reviewer_id, cases.remote_case_id, cases.created_at`

// SQLiteCaseRepo implements CaseRepo using a SQLite database. It accepts a
// DBTX so tx-scoped instances can be created inside a UnitOfWork.
type SQLiteCaseRepo struct {
	db db.DBTX
}

// NewSQLiteCaseRepo creates a new SQLiteCaseRepo.
func NewSQLiteCaseRepo(conn db.DBTX) *SQLiteCaseRepo {
	return &SQLiteCaseRepo{db: conn}
}

func (r *SQLiteCaseRepo) Create(ctx context.Context, c *domain.CaseDraft) error {
	steps, err := json.Marshal(c.Steps)
	if err != nil {
		return fmt.Errorf("encoding steps: %w", err)
	}

	query := `INSERT INTO cases (title, steps_json, preconditions, expected_result,
		test_type, status, author_id, suite_id, assigned_reviewer_id, remote_case_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		c.Title,
		string(steps),
		c.Preconditions,
		c.ExpectedResult,
		string(c.TestType),
		string(c.Status),
		c.AuthorID,
		nullableInt64ToValue(c.SuiteID),
		nullableInt64ToValue(c.AssignedReviewerID),
		nullableInt64ToValue(c.RemoteCaseID),
		c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting case: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading case id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *SQLiteCaseRepo) GetByID(ctx context.Context, id int64) (*domain.CaseDraft, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE cases.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c, err := scanCase(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("case %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCaseRepo) List(ctx context.Context, f CaseFilter) ([]*domain.CaseDraft, error) {
	query := `SELECT ` + caseColumns + ` FROM cases
		JOIN users ON users.id = cases.author_id`
	var conditions []string
	var args []any

	if f.Status != "" {
		conditions = append(conditions, `cases.status = ?`)
		args = append(args, string(f.Status))
	}
	if f.AuthorID != 0 {
		conditions = append(conditions, `cases.author_id = ?`)
		args = append(args, f.AuthorID)
	}
	if f.ReviewerID != 0 {
		conditions = append(conditions, `cases.assigned_reviewer_id = ?`)
		args = append(args, f.ReviewerID)
	}
	// Org isolation: only cases whose author belongs to the given org.
	if f.OrgURL != "" {
		conditions = append(conditions, `users.org_url = ?`)
		args = append(args, f.OrgURL)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY cases.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var cases []*domain.CaseDraft
	for rows.Next() {
		c, err := scanCase(rows.Scan)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cases: %w", err)
	}
	return cases, nil
}

func (r *SQLiteCaseRepo) SetStatus(ctx context.Context, id int64, status domain.CaseStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cases SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating case status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking case status update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("case %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCaseRepo) SetRemoteCaseID(ctx context.Context, id int64, remoteID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cases SET remote_case_id = ? WHERE id = ?`, remoteID, id)
	if err != nil {
		return fmt.Errorf("updating remote case id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking remote id update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("case %d: %w", id, ErrNotFound)
	}
	return nil
}

// scanCase reads one case row through the given scan function, so the same
// decoding serves both *sql.Row and *sql.Rows.
func scanCase(scan func(dest ...any) error) (*domain.CaseDraft, error) {
	var c domain.CaseDraft
	var stepsJSON, testTypeStr, statusStr, createdAtStr string
	var suiteID, reviewerID, remoteID sql.NullInt64

	err := scan(&c.ID, &c.Title, &stepsJSON, &c.Preconditions,
		&c.ExpectedResult, &testTypeStr, &statusStr, &c.AuthorID,
		&suiteID, &reviewerID, &remoteID, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning case: %w", err)
	}

	if err := json.Unmarshal([]byte(stepsJSON), &c.Steps); err != nil {
		return nil, fmt.Errorf("decoding steps for case %d: %w", c.ID, err)
	}
	c.TestType = domain.TestType(testTypeStr)
	c.Status = domain.CaseStatus(statusStr)
	if suiteID.Valid {
		c.SuiteID = &suiteID.Int64
	}
	if reviewerID.Valid {
		c.AssignedReviewerID = &reviewerID.Int64
	}
	if remoteID.Valid {
		c.RemoteCaseID = &remoteID.Int64
	}
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
