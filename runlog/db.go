package runlog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"loomvm.org/loom"
	"loomvm.org/loom/internal/dbutil"
	"loomvm.org/loom/lvm1"
)

var _ Journal = &DBJournal{}

// DBJournal stores records in a sqlite database.
// The latest record per program is kept in an LRU read cache, so repeated
// Last calls for hot programs skip the database.
type DBJournal struct {
	db   *sqlx.DB
	last *simplelru.LRU[loom.Fingerprint, Record]
}

func NewDB(db *sqlx.DB) *DBJournal {
	last, err := simplelru.NewLRU[loom.Fingerprint, Record](100, nil)
	if err != nil {
		panic(err)
	}
	return &DBJournal{db: db, last: last}
}

func (j *DBJournal) Append(ctx context.Context, rec Record) (RunID, error) {
	id, err := dbutil.DoTx1(ctx, j.db, func(tx *sqlx.Tx) (RunID, error) {
		var id RunID
		err := tx.Get(&id, `INSERT INTO runs (program, started_secs, started_nanos, initial, final, iterations, steps, trap)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			rec.Program,
			int64(rec.StartedAt.Seconds), int64(rec.StartedAt.Nanoseconds),
			rec.Initial, rec.Final, rec.Iterations, rec.Steps, rec.Trap)
		return id, err
	})
	if err != nil {
		return 0, err
	}
	j.last.Add(rec.Program, rec)
	logctx.Info(ctx, "recorded run", zap.Stringer("program", rec.Program), zap.Int64("id", id))
	return id, nil
}

func (j *DBJournal) Last(ctx context.Context, fp loom.Fingerprint) (*Record, error) {
	if rec, exists := j.last.Get(fp); exists {
		return &rec, nil
	}
	var row runRow
	if err := j.db.Get(&row, `SELECT program, started_secs, started_nanos, initial, final, iterations, steps, trap
		FROM runs WHERE program = ? ORDER BY id DESC LIMIT 1`, fp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRuns
		}
		return nil, err
	}
	rec := row.record()
	j.last.Add(fp, rec)
	return &rec, nil
}

func (j *DBJournal) List(ctx context.Context) ([]Record, error) {
	var rows []runRow
	if err := j.db.Select(&rows, `SELECT program, started_secs, started_nanos, initial, final, iterations, steps, trap
		FROM runs ORDER BY id`); err != nil {
		return nil, err
	}
	ret := make([]Record, len(rows))
	for i := range rows {
		ret[i] = rows[i].record()
	}
	return ret, nil
}

type runRow struct {
	Program      loom.Fingerprint `db:"program"`
	StartedSecs  int64            `db:"started_secs"`
	StartedNanos int64            `db:"started_nanos"`
	Initial      lvm1.Word        `db:"initial"`
	Final        lvm1.Word        `db:"final"`
	Iterations   uint64           `db:"iterations"`
	Steps        uint64           `db:"steps"`
	Trap         string           `db:"trap"`
}

func (r *runRow) record() Record {
	rec := Record{
		Program:    r.Program,
		Initial:    r.Initial,
		Final:      r.Final,
		Iterations: r.Iterations,
		Steps:      r.Steps,
		Trap:       r.Trap,
	}
	assignInt(&rec.StartedAt.Seconds, r.StartedSecs)
	assignInt(&rec.StartedAt.Nanoseconds, r.StartedNanos)
	return rec
}

func assignInt[T constraints.Integer](dst *T, x int64) {
	*dst = T(x)
}
