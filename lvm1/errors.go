package lvm1

import "fmt"

// The VM halts on the first trap it hits and never recovers.
// Every trap means the program handed to the VM was malformed,
// not that the run encountered bad data.

type ErrStackUnderflow struct {
	// Op is the instruction that tried to pop.
	Op string
}

func (e ErrStackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow in %s", e.Op)
}

type ErrInvalidLocalIndex struct {
	Index     uint32
	NumLocals uint32
}

func (e ErrInvalidLocalIndex) Error() string {
	return fmt.Sprintf("invalid local index. HAVE: %d declared WANT: %d", e.NumLocals, e.Index)
}

type ErrInvalidBranchDepth struct {
	Depth uint32
	// Open is the number of open block frames at the time of the branch.
	Open uint32
}

func (e ErrInvalidBranchDepth) Error() string {
	return fmt.Sprintf("no open block at branch depth %d. HAVE: %d open", e.Depth, e.Open)
}
