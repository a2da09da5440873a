package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		username        TEXT NOT NULL,
		password_hash   TEXT NOT NULL,
		role            TEXT NOT NULL
		                CHECK(role IN ('Tester','Lead','Admin')),
		org_url         TEXT NOT NULL DEFAULT '',
		pat             TEXT NOT NULL DEFAULT '',
		can_push_direct INTEGER NOT NULL DEFAULT 0,
		UNIQUE(username, org_url)
	)`,

	`CREATE TABLE IF NOT EXISTS cases (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		title                TEXT NOT NULL,
		steps_json           TEXT NOT NULL DEFAULT '[]',
		preconditions        TEXT NOT NULL DEFAULT '',
		expected_result      TEXT NOT NULL DEFAULT '',
		test_type            TEXT NOT NULL DEFAULT 'Positive',
		status               TEXT NOT NULL DEFAULT 'PENDING'
		                     CHECK(status IN ('PENDING','APPROVED','REJECTED')),
		author_id            INTEGER NOT NULL REFERENCES users(id),
		suite_id             INTEGER,
		assigned_reviewer_id INTEGER REFERENCES users(id),
		remote_case_id       INTEGER,
		created_at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_reviewer ON cases(assigned_reviewer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cases_author ON cases(author_id)`,

	// Single-row table holding the active login for this machine.
	`CREATE TABLE IF NOT EXISTS login_state (
		id      INTEGER PRIMARY KEY CHECK(id = 1),
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,

	// Remote selection, kept alongside the login so it survives between
	// invocations.
	`ALTER TABLE login_state ADD COLUMN project TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE login_state ADD COLUMN plan_id INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE login_state ADD COLUMN suite_id INTEGER`,
}
