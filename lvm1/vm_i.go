package lvm1

// I is an instruction, it changes the state of the VM
type I interface {
	isI()
}

type baseI struct{}

func (baseI) isI() {}

// literals

type pushI struct {
	x Word
	baseI
}

// locals

type localGetI struct {
	idx uint32
	baseI
}

type localSetI struct {
	idx uint32
	baseI
}

// localTeeI stores the top of the stack into a local without popping it.
type localTeeI struct {
	idx uint32
	baseI
}

// arithmetic / comparison

// addImmI pops one word and pushes the sum of it and k.
type addImmI struct {
	k Word
	baseI
}

// gtSImmI pops one word x and pushes 1 if x > k, 0 otherwise.
// The comparison is signed.
type gtSImmI struct {
	k Word
	baseI
}

// control flow

// loopI opens a repeatable block.
// Branching back to it repeats the block body.
type loopI struct{ baseI }

// endI closes the innermost open block.
type endI struct{ baseI }

// brIfI pops a condition word.
// If it is nonzero, control moves to the repeat target of the open block
// at depth (0 is the innermost), abandoning any blocks nested below it.
// If it is zero, control falls through.
type brIfI struct {
	depth uint32
	baseI
}

// opName returns a stable name for the instruction, used by hooks and traps.
func opName(ix I) string {
	switch ix.(type) {
	case pushI:
		return "push"
	case localGetI:
		return "local.get"
	case localSetI:
		return "local.set"
	case localTeeI:
		return "local.tee"
	case addImmI:
		return "add.imm"
	case gtSImmI:
		return "gt_s.imm"
	case loopI:
		return "loop"
	case endI:
		return "end"
	case brIfI:
		return "br_if"
	default:
		panic(ix)
	}
}
