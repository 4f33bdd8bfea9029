// Package migrations tracks an ordered list of schema changes and applies
// the ones a database has not seen yet.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// State is one point in the migration history.
// States form a chain back to InitialState.
type State struct {
	prev *State
	n    int
	stmt string
}

func InitialState() *State {
	return &State{}
}

// ApplyStmt returns the state reached by applying stmt after s.
func (s *State) ApplyStmt(stmt string) *State {
	return &State{prev: s, n: s.n + 1, stmt: stmt}
}

func (s *State) chain() []*State {
	var ret []*State
	for x := s; x.prev != nil; x = x.prev {
		ret = append(ret, x)
	}
	// reverse into application order
	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

// Migrate brings db up to the state x, applying whatever suffix of the
// history is missing.
func Migrate(ctx context.Context, db *sqlx.DB, x *State) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS migrations (
		n INTEGER PRIMARY KEY,
		stmt TEXT NOT NULL
	)`); err != nil {
		return err
	}
	var applied int
	if err := tx.Get(&applied, `SELECT COUNT(*) FROM migrations`); err != nil {
		return err
	}
	chain := x.chain()
	if applied > len(chain) {
		return fmt.Errorf("database is ahead of the schema. HAVE: %d WANT: %d", applied, len(chain))
	}
	for _, st := range chain[applied:] {
		if _, err := tx.Exec(st.stmt); err != nil {
			return fmt.Errorf("migration %d: %w", st.n, err)
		}
		if _, err := tx.Exec(`INSERT INTO migrations (n, stmt) VALUES (?, ?)`, st.n, st.stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
