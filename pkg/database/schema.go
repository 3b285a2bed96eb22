package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema holds the statements EnsureSchema runs, in order.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('student', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		student_id TEXT NOT NULL,
		student_name TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'resolved')),
		submitted_at TIMESTAMPTZ NOT NULL,
		resolved_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_student ON complaints (student_id)`,
	// Tables created before ids were database-assigned get an identity
	// starting after the highest existing id.
	`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_name = 'complaints' AND column_name = 'id' AND is_identity = 'YES'
	) THEN
		ALTER TABLE complaints ALTER COLUMN id ADD GENERATED BY DEFAULT AS IDENTITY;
		PERFORM setval(pg_get_serial_sequence('complaints', 'id'), COALESCE((SELECT MAX(id) FROM complaints), 0) + 1, false);
	END IF;
END $$`,
}

// EnsureSchema creates the tables the backend needs when they are missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
