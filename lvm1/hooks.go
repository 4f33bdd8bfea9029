package lvm1

import "golang.org/x/exp/maps"

// Hooks receives callbacks as the VM executes.
// Any field may be nil.
// Hooks observe execution only; they cannot change it.
type Hooks struct {
	// OnInstr is called before every instruction with the instruction name
	// and the operand stack depth at that point.
	OnInstr func(op string, stackLen int)
	// OnLoopEnter is called when a repeatable block is opened.
	OnLoopEnter func()
	// OnLoopEnd is called when control falls through past a block's end.
	OnLoopEnd func()
	// OnBranch is called after every conditional branch with the branch depth
	// and whether it was taken.
	OnBranch func(depth uint32, taken bool)
	// OnLocalRead is called after a local slot is read onto the stack.
	OnLocalRead func(idx uint32, x Word)
	// OnLocalWrite is called after a local slot is overwritten.
	OnLocalWrite func(idx uint32, x Word)
}

// Counters aggregates execution counts for one run.
type Counters struct {
	instrs     map[string]uint64
	iterations uint64
	branches   uint64
	taken      uint64
	maxStack   int
}

func NewCounters() *Counters {
	return &Counters{instrs: make(map[string]uint64)}
}

// Hooks returns a Hooks that records into c.
func (c *Counters) Hooks() *Hooks {
	return &Hooks{
		OnInstr: func(op string, stackLen int) {
			c.instrs[op]++
			if stackLen > c.maxStack {
				c.maxStack = stackLen
			}
		},
		// a loop body runs once on entry, and once more per taken backward branch
		OnLoopEnter: func() {
			c.iterations++
		},
		OnBranch: func(depth uint32, taken bool) {
			c.branches++
			if taken {
				c.taken++
				c.iterations++
			}
		},
	}
}

// Iterations returns the number of times a loop body began executing.
func (c *Counters) Iterations() uint64 {
	return c.iterations
}

// Branches returns how many conditional branches executed, and how many were taken.
func (c *Counters) Branches() (total, taken uint64) {
	return c.branches, c.taken
}

// MaxStack returns the operand stack high-water mark.
func (c *Counters) MaxStack() int {
	return c.maxStack
}

// Instrs returns a copy of the per-instruction execution counts.
func (c *Counters) Instrs() map[string]uint64 {
	return maps.Clone(c.instrs)
}
