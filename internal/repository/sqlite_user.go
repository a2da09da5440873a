package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mbelozerov/caseline/internal/domain"
)

// userColumns is the canonical SELECT column list for users. Qualified so
// queries that join login_state stay unambiguous.
const userColumns = `users.id, users.username, users.password_hash, users.role,
		users.org_url, users.pat, users.can_push_direct`

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, role, org_url, pat, can_push_direct)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		u.Username,
		u.PasswordHash,
		string(u.Role),
		u.OrgURL,
		u.PersonalAccessToken,
		boolToInt(u.CanPushDirect),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("user %q in %q: %w", u.Username, u.OrgURL, ErrDuplicate)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteUserRepo) FindByUsername(ctx context.Context, username string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ? ORDER BY org_url`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("finding users by username: %w", err)
	}
	defer rows.Close()
	return r.scanUsers(rows)
}

func (r *SQLiteUserRepo) ListByRole(ctx context.Context, role domain.Role, orgURL string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = ?`
	args := []any{string(role)}
	if orgURL != "" {
		query += ` AND org_url = ?`
		args = append(args, orgURL)
	}
	query += ` ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users by role: %w", err)
	}
	defer rows.Close()
	return r.scanUsers(rows)
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET username = ?, password_hash = ?, role = ?,
		org_url = ?, pat = ?, can_push_direct = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		u.Username,
		u.PasswordHash,
		string(u.Role),
		u.OrgURL,
		u.PersonalAccessToken,
		boolToInt(u.CanPushDirect),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) SetActive(ctx context.Context, userID int64) error {
	// A fresh login drops the previous user's selection.
	query := `INSERT INTO login_state (id, user_id) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
			project = '', plan_id = 0, suite_id = NULL`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("storing active login: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) SaveSelection(ctx context.Context, project string, planID int64, suiteID *int64) error {
	query := `UPDATE login_state SET project = ?, plan_id = ?, suite_id = ? WHERE id = 1`
	res, err := r.db.ExecContext(ctx, query, project, planID, suiteID)
	if err != nil {
		return fmt.Errorf("storing selection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("selection without a login: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteUserRepo) GetSelection(ctx context.Context) (string, int64, *int64, error) {
	var project string
	var planID int64
	var suiteID sql.NullInt64

	query := `SELECT project, plan_id, suite_id FROM login_state WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&project, &planID, &suiteID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", 0, nil, fmt.Errorf("selection: %w", ErrNotFound)
		}
		return "", 0, nil, fmt.Errorf("scanning selection: %w", err)
	}

	var suite *int64
	if suiteID.Valid {
		suite = &suiteID.Int64
	}
	return project, planID, suite, nil
}

func (r *SQLiteUserRepo) GetActive(ctx context.Context) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		JOIN login_state ON login_state.user_id = users.id
		WHERE login_state.id = 1`
	return r.scanUser(r.db.QueryRowContext(ctx, query))
}

func (r *SQLiteUserRepo) ClearActive(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM login_state WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing active login: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var roleStr string
	var pushDirect int

	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &roleStr,
		&u.OrgURL, &u.PersonalAccessToken, &pushDirect)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Role = domain.Role(roleStr)
	u.CanPushDirect = intToBool(pushDirect)
	return &u, nil
}

func (r *SQLiteUserRepo) scanUsers(rows *sql.Rows) ([]*domain.User, error) {
	var users []*domain.User
	for rows.Next() {
		var u domain.User
		var roleStr string
		var pushDirect int

		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &roleStr,
			&u.OrgURL, &u.PersonalAccessToken, &pushDirect); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		u.Role = domain.Role(roleStr)
		u.CanPushDirect = intToBool(pushDirect)
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}
