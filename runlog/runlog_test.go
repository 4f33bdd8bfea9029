package runlog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.brendoncarroll.net/tai64"

	"loomvm.org/loom/internal/dbutil"
	"loomvm.org/loom/internal/testutil"
	"loomvm.org/loom/lvm1"
)

func TestJournals(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Name string
		New  func(t testing.TB) Journal
	}
	tcs := []testCase{
		{
			Name: "Mem",
			New: func(t testing.TB) Journal {
				return NewMem()
			},
		},
		{
			Name: "DB",
			New: func(t testing.TB) Journal {
				ctx := testutil.Context(t)
				db := dbutil.NewTestDB(t)
				require.NoError(t, SetupDB(ctx, db))
				return NewDB(db)
			},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := testutil.Context(t)
			j := tc.New(t)

			m3 := lvm1.NewModule(lvm1.Countdown(3))
			m4 := lvm1.NewModule(lvm1.Countdown(4))

			_, err := j.Last(ctx, m3.Fingerprint())
			require.ErrorIs(t, err, ErrNoRuns)

			rec1 := runModule(t, m3, 3)
			rec2 := runModule(t, m4, 4)
			rec3 := runModule(t, m3, 3)

			id1, err := j.Append(ctx, rec1)
			require.NoError(t, err)
			id2, err := j.Append(ctx, rec2)
			require.NoError(t, err)
			id3, err := j.Append(ctx, rec3)
			require.NoError(t, err)
			require.Less(t, id1, id2)
			require.Less(t, id2, id3)

			recs, err := j.List(ctx)
			require.NoError(t, err)
			require.Equal(t, []Record{rec1, rec2, rec3}, recs)

			last, err := j.Last(ctx, m3.Fingerprint())
			require.NoError(t, err)
			require.Equal(t, rec3, *last)
			// again, to exercise any read cache
			last, err = j.Last(ctx, m3.Fingerprint())
			require.NoError(t, err)
			require.Equal(t, rec3, *last)
		})
	}
}

func TestDBLastFromCold(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	db := dbutil.NewTestDB(t)
	require.NoError(t, SetupDB(ctx, db))

	m := lvm1.NewModule(lvm1.Countdown(3))
	rec := runModule(t, m, 3)
	_, err := NewDB(db).Append(ctx, rec)
	require.NoError(t, err)

	// a fresh journal over the same database has an empty cache
	j2 := NewDB(db)
	last, err := j2.Last(ctx, m.Fingerprint())
	require.NoError(t, err)
	require.Equal(t, rec, *last)
}

func TestNewRecordTrap(t *testing.T) {
	t.Parallel()
	m := lvm1.NewModule(lvm1.Countdown(0))
	rec := NewRecord(m, 0, nil, nil, lvm1.ErrStackUnderflow{Op: "add.imm"})
	require.Equal(t, "stack underflow in add.imm", rec.Trap)
	require.Equal(t, m.Fingerprint(), rec.Program)
}

func runModule(t testing.TB, m *lvm1.Module, init lvm1.Word) Record {
	ctx := testutil.Context(t)
	ctrs := lvm1.NewCounters()
	inst, err := m.Instantiate(ctx, ctrs.Hooks())
	require.NoError(t, err)
	rec := NewRecord(m, init, inst, ctrs, err)
	// pin the timestamp so records can be compared exactly
	rec.StartedAt = tai64.TAI64N{}
	return rec
}
