// Package lvm1 contains an implementation of the Loom Virtual Machine (LVM)
package lvm1

import (
	"context"
)

type Word = int32

const (
	WordBits  = 32
	WordBytes = WordBits / 8
)

// loopFrame marks a point in the program that a backward branch can return to.
type loopFrame struct {
	// target is the index of the first instruction of the block body.
	target uint32
}

type VM struct {
	prog   []I
	pc     uint32
	stack  []Word
	locals []Word
	ctrl   []loopFrame
	steps  uint64

	err   error
	hooks *Hooks
}

func New(stackSize int, hooks *Hooks) *VM {
	return &VM{
		stack: make([]Word, 0, stackSize),
		hooks: hooks,
	}
}

func (vm *VM) Reset() {
	vm.stack = vm.stack[:0]
	vm.ctrl = vm.ctrl[:0]
	vm.locals = nil
	vm.err = nil
	vm.pc = 0
	vm.prog = nil
}

// SetLocals declares the local slots for the next run and sets their initial values.
func (vm *VM) SetLocals(init []Word) {
	vm.locals = append(vm.locals[:0], init...)
}

func (vm *VM) SetProg(prog []I) {
	vm.prog = prog
}

// Run executes the VM for a maximum of maxSteps.
// The number of steps taken is returned.
// If Run returns 0, then nothing happened and the machine has halted.
func (vm *VM) Run(ctx context.Context, maxSteps uint64) (steps uint64) {
	defer func() { vm.steps += steps }()

	for i := uint64(0); i < maxSteps; i++ {
		if !vm.isAlive() {
			return i
		}
		ix := vm.prog[vm.pc]
		vm.pc++
		// it is important to adjust the program counter before the instruction so
		// that the instruction can override it.
		vm.step(ix)
	}
	return maxSteps
}

func (vm *VM) step(ix I) {
	if vm.hooks != nil && vm.hooks.OnInstr != nil {
		vm.hooks.OnInstr(opName(ix), len(vm.stack))
	}
	switch ix := ix.(type) {
	case pushI:
		vm.push(ix.x)

	// locals
	case localGetI:
		vm.localGet(ix)
	case localSetI:
		vm.localSet(ix)
	case localTeeI:
		vm.localTee(ix)

	// arithmetic / comparison
	case addImmI:
		vm.addImm(ix)
	case gtSImmI:
		vm.gtSImm(ix)

	// control flow
	case loopI:
		vm.loop(ix)
	case endI:
		vm.end(ix)
	case brIfI:
		vm.brIf(ix)

	default:
		panic(ix)
	}
}

func (vm *VM) Err() error {
	return vm.err
}

// Steps returns the total number of instructions executed across all calls to Run.
func (vm *VM) Steps() uint64 {
	return vm.steps
}

func (vm *VM) DumpStack(out []Word) []Word {
	return append(out, vm.stack...)
}

// Local returns the current value of local slot i.
func (vm *VM) Local(i int) (Word, error) {
	if i < 0 || i >= len(vm.locals) {
		return 0, ErrInvalidLocalIndex{Index: uint32(i), NumLocals: uint32(len(vm.locals))}
	}
	return vm.locals[i], nil
}

func (vm *VM) isAlive() bool {
	return int(vm.pc) < len(vm.prog) && vm.err == nil
}

func (vm *VM) fail(err error) {
	vm.prog = nil
	vm.err = err
}

func (vm *VM) push(x Word) {
	vm.stack = append(vm.stack, x)
}

// pop removes the top word from the stack.
// If the stack is empty, pop fails the VM and reports ok=false;
// instruction handlers must not touch any other state after that.
func (vm *VM) pop(op string) (ret Word, ok bool) {
	i := len(vm.stack) - 1
	if i < 0 {
		vm.fail(ErrStackUnderflow{Op: op})
		return 0, false
	}
	ret = vm.stack[i]
	vm.stack = vm.stack[:i]
	return ret, true
}

func (vm *VM) peek(op string) (ret Word, ok bool) {
	i := len(vm.stack) - 1
	if i < 0 {
		vm.fail(ErrStackUnderflow{Op: op})
		return 0, false
	}
	return vm.stack[i], true
}

func (vm *VM) localGet(ix localGetI) {
	if int(ix.idx) >= len(vm.locals) {
		vm.fail(ErrInvalidLocalIndex{Index: ix.idx, NumLocals: uint32(len(vm.locals))})
		return
	}
	x := vm.locals[ix.idx]
	vm.push(x)
	if vm.hooks != nil && vm.hooks.OnLocalRead != nil {
		vm.hooks.OnLocalRead(ix.idx, x)
	}
}

func (vm *VM) localSet(ix localSetI) {
	x, ok := vm.pop(opName(ix))
	if !ok {
		return
	}
	vm.setLocal(ix.idx, x)
}

func (vm *VM) localTee(ix localTeeI) {
	x, ok := vm.peek(opName(ix))
	if !ok {
		return
	}
	vm.setLocal(ix.idx, x)
}

func (vm *VM) setLocal(idx uint32, x Word) {
	if int(idx) >= len(vm.locals) {
		vm.fail(ErrInvalidLocalIndex{Index: idx, NumLocals: uint32(len(vm.locals))})
		return
	}
	vm.locals[idx] = x
	if vm.hooks != nil && vm.hooks.OnLocalWrite != nil {
		vm.hooks.OnLocalWrite(idx, x)
	}
}

func (vm *VM) addImm(ix addImmI) {
	x, ok := vm.pop(opName(ix))
	if !ok {
		return
	}
	vm.push(x + ix.k)
}

func (vm *VM) gtSImm(ix gtSImmI) {
	x, ok := vm.pop(opName(ix))
	if !ok {
		return
	}
	if x > ix.k {
		vm.push(1)
	} else {
		vm.push(0)
	}
}

// loop opens a block whose repeat target is the instruction after the loopI.
// The program counter has already moved past the loopI by the time this runs.
func (vm *VM) loop(ix loopI) {
	vm.ctrl = append(vm.ctrl, loopFrame{target: vm.pc})
	if vm.hooks != nil && vm.hooks.OnLoopEnter != nil {
		vm.hooks.OnLoopEnter()
	}
}

func (vm *VM) end(ix endI) {
	if len(vm.ctrl) == 0 {
		vm.fail(ErrInvalidBranchDepth{Depth: 0, Open: 0})
		return
	}
	vm.ctrl = vm.ctrl[:len(vm.ctrl)-1]
	if vm.hooks != nil && vm.hooks.OnLoopEnd != nil {
		vm.hooks.OnLoopEnd()
	}
}

// brIf pops a condition from the stack.
// A nonzero condition moves control to the repeat target of the frame at
// ix.depth, abandoning any frames nested below it.
// A zero condition falls through.
// The depth must name an open frame either way.
func (vm *VM) brIf(ix brIfI) {
	cond, ok := vm.pop(opName(ix))
	if !ok {
		return
	}
	if int(ix.depth) >= len(vm.ctrl) {
		vm.fail(ErrInvalidBranchDepth{Depth: ix.depth, Open: uint32(len(vm.ctrl))})
		return
	}
	taken := cond != 0
	if taken {
		keep := len(vm.ctrl) - int(ix.depth)
		frame := vm.ctrl[keep-1]
		vm.ctrl = vm.ctrl[:keep]
		vm.pc = frame.target
	}
	if vm.hooks != nil && vm.hooks.OnBranch != nil {
		vm.hooks.OnBranch(ix.depth, taken)
	}
}
