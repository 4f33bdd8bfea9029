package runlog

import (
	"context"

	"go.brendoncarroll.net/state"
	"go.brendoncarroll.net/state/kv"

	"loomvm.org/loom"
)

var _ Journal = &Mem{}

// Mem is an in-memory Journal, used in tests and for runs nobody wants to keep.
type Mem struct {
	kv   *kv.MemStore[RunID, Record]
	next RunID
}

func NewMem() *Mem {
	return &Mem{
		kv: kv.NewMemStore[RunID, Record](func(a, b RunID) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}),
	}
}

func (j *Mem) Append(ctx context.Context, rec Record) (RunID, error) {
	j.next++
	id := j.next
	if err := j.kv.Put(ctx, id, rec); err != nil {
		return 0, err
	}
	return id, nil
}

func (j *Mem) Last(ctx context.Context, fp loom.Fingerprint) (*Record, error) {
	var ret *Record
	if err := kv.ForEach(ctx, j.kv, state.TotalSpan[RunID](), func(id RunID) error {
		rec, err := kv.Get(ctx, j.kv, id)
		if err != nil {
			return err
		}
		if rec.Program == fp {
			ret = &rec
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, ErrNoRuns
	}
	return ret, nil
}

func (j *Mem) List(ctx context.Context) ([]Record, error) {
	var ret []Record
	if err := kv.ForEach(ctx, j.kv, state.TotalSpan[RunID](), func(id RunID) error {
		rec, err := kv.Get(ctx, j.kv, id)
		if err != nil {
			return err
		}
		ret = append(ret, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	return ret, nil
}

func (j *Mem) Len() int {
	return j.kv.Len()
}
