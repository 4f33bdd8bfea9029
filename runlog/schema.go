package runlog

import (
	"context"

	"github.com/jmoiron/sqlx"

	"loomvm.org/loom/internal/dbutil"
	"loomvm.org/loom/internal/migrations"
)

func OpenDB(p string) (*sqlx.DB, error) {
	return dbutil.Open(p)
}

func SetupDB(ctx context.Context, db *sqlx.DB) error {
	return migrations.Migrate(ctx, db, currentSchema)
}

var currentSchema = func() *migrations.State {
	x := migrations.InitialState()
	x = x.ApplyStmt(`CREATE TABLE runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		program BLOB NOT NULL,
		started_secs INTEGER NOT NULL,
		started_nanos INTEGER NOT NULL,
		initial INTEGER NOT NULL,
		final INTEGER NOT NULL,
		iterations INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		trap TEXT NOT NULL DEFAULT ''
	)`)
	x = x.ApplyStmt(`CREATE INDEX runs_program ON runs (program, id)`)
	return x
}()
