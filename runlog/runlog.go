// Package runlog records completed VM runs.
package runlog

import (
	"context"
	"errors"

	"go.brendoncarroll.net/tai64"

	"loomvm.org/loom"
	"loomvm.org/loom/lvm1"
)

// RunID identifies one recorded run within a journal.
type RunID = int64

// Record is one completed run.
type Record struct {
	// Program is the fingerprint of the module's start function.
	Program loom.Fingerprint
	// StartedAt is when the run began.
	StartedAt tai64.TAI64N

	// Initial and Final are the values of local slot 0 before and after the run.
	Initial lvm1.Word
	Final   lvm1.Word
	// Iterations is how many times the loop body executed.
	Iterations uint64
	// Steps is how many instructions executed in total.
	Steps uint64
	// Trap is the trap message if the run aborted, and empty otherwise.
	Trap string
}

// Journal is an append-only log of run records.
type Journal interface {
	// Append adds a record and returns its id.
	Append(ctx context.Context, rec Record) (RunID, error)
	// Last returns the most recently appended record for the program fp.
	Last(ctx context.Context, fp loom.Fingerprint) (*Record, error)
	// List returns all records in append order.
	List(ctx context.Context) ([]Record, error)
}

// ErrNoRuns is returned by Last when a program has never been recorded.
var ErrNoRuns = errors.New("no runs recorded for program")

// NewRecord builds a Record for a completed instantiation, stamped with the
// current time.
func NewRecord(m *lvm1.Module, initial lvm1.Word, inst *lvm1.Instance, c *lvm1.Counters, trapErr error) Record {
	rec := Record{
		Program:   m.Fingerprint(),
		StartedAt: tai64.Now(),
		Initial:   initial,
	}
	if c != nil {
		rec.Iterations = c.Iterations()
	}
	if trapErr != nil {
		rec.Trap = trapErr.Error()
		return rec
	}
	rec.Steps = inst.Steps()
	if x, err := inst.Local(0); err == nil {
		rec.Final = x
	}
	return rec
}
