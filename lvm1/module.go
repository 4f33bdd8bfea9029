package lvm1

import (
	"context"

	"loomvm.org/loom"
)

const (
	// defaultStackSize is the initial operand stack capacity.
	defaultStackSize = 64
	// runQuantum is how many steps each call to Run is given before checking for halt.
	runQuantum = 4096
)

// Module is an instantiable unit with a single start function.
// Instantiating it runs the start function exactly once.
type Module struct {
	start Program
	fp    loom.Fingerprint
}

func NewModule(start Program) *Module {
	return &Module{
		start: start,
		fp:    start.Fingerprint(),
	}
}

// Fingerprint identifies the module's start function.
func (m *Module) Fingerprint() loom.Fingerprint {
	return m.fp
}

// Instantiate initializes the declared locals and runs the start function to
// completion, discarding any results.
// Each call gets a fresh VM; instances never share state.
func (m *Module) Instantiate(ctx context.Context, hooks *Hooks) (*Instance, error) {
	vm := New(defaultStackSize, hooks)
	vm.SetLocals(m.start.Locals)
	vm.SetProg(m.start.Body)
	for vm.Run(ctx, runQuantum) > 0 {
	}
	if err := vm.Err(); err != nil {
		return nil, err
	}
	return &Instance{vm: vm}, nil
}

// Instance is the state left behind by one completed run.
type Instance struct {
	vm *VM
}

// Local returns the final value of local slot i.
// It exists so the outcome of a run can be observed; nothing is exported
// while the run is in progress.
func (inst *Instance) Local(i int) (Word, error) {
	return inst.vm.Local(i)
}

// Steps returns the number of instructions the run executed.
func (inst *Instance) Steps() uint64 {
	return inst.vm.Steps()
}

// DumpStack appends the operand stack's final contents to out.
// A balanced run leaves the stack empty.
func (inst *Instance) DumpStack(out []Word) []Word {
	return inst.vm.DumpStack(out)
}
