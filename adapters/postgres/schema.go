package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"merchhold/internal/errors"
)

// ddl creates the tables the repositories expect. JSONB keeps the
// heterogeneous column universes out of the relational schema.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		defaults JSONB NOT NULL DEFAULT '{}',
		options JSONB NOT NULL DEFAULT '{}',
		mappings JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS loaded_tables (
		name TEXT PRIMARY KEY,
		columns JSONB NOT NULL DEFAULT '[]',
		rows JSONB NOT NULL DEFAULT '[]',
		position SERIAL
	)`,
}

// EnsureSchema creates the repository tables when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to ensure database schema")
		}
	}
	return nil
}
