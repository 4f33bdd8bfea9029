package lvm1

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"loomvm.org/loom/internal/testutil"
)

func TestVM(t *testing.T) {
	t.Parallel()
	type testCase struct {
		Name   string
		Locals []Word
		Setup  func(t testing.TB, vm *VM)
		Prog   []I

		// End is what is on the stack at the end
		End []Word
		// Trap is the expected error, if any
		Trap error
	}
	tcs := []testCase{
		{
			Name: "Seq",
			Prog: []I{
				pushI{x: 11},
				pushI{x: 22},
				pushI{x: 33},
			},
			End: []Word{11, 22, 33},
		},
		{
			Name: "AddImm",
			Prog: []I{
				pushI{x: 5},
				addImmI{k: -1},
			},
			End: []Word{4},
		},
		{
			Name: "AddImm wraps",
			Prog: []I{
				pushI{x: -2147483648},
				addImmI{k: -1},
			},
			End: []Word{2147483647},
		},
		{
			Name: "1 > 0 => 1",
			Prog: []I{
				pushI{x: 1},
				gtSImmI{k: 0},
			},
			End: []Word{1},
		},
		{
			Name: "-1 > 0 => 0 signed",
			Prog: []I{
				pushI{x: -1},
				gtSImmI{k: 0},
			},
			End: []Word{0},
		},
		{
			Name:   "LocalGet",
			Locals: []Word{42},
			Prog: []I{
				localGetI{idx: 0},
			},
			End: []Word{42},
		},
		{
			Name:   "LocalSet pops",
			Locals: []Word{0},
			Prog: []I{
				pushI{x: 7},
				localSetI{idx: 0},
				localGetI{idx: 0},
			},
			End: []Word{7},
		},
		{
			Name:   "LocalTee keeps the top",
			Locals: []Word{0},
			Prog: []I{
				pushI{x: 7},
				localTeeI{idx: 0},
				localGetI{idx: 0},
			},
			End: []Word{7, 7},
		},
		{
			Name: "Loop falls through when the branch is not taken",
			Prog: []I{
				loopI{},
				pushI{x: 0},
				brIfI{depth: 0},
				endI{},
				pushI{x: 99},
			},
			End: []Word{99},
		},
		{
			Name:   "Loop repeats while the branch is taken",
			Locals: []Word{3},
			Prog: []I{
				loopI{},
				localGetI{idx: 0},
				addImmI{k: -1},
				localTeeI{idx: 0},
				gtSImmI{k: 0},
				brIfI{depth: 0},
				endI{},
			},
			End: []Word{},
		},
		{
			Name: "Pop on empty stack traps",
			Prog: []I{
				addImmI{k: -1},
			},
			End:  []Word{},
			Trap: ErrStackUnderflow{Op: "add.imm"},
		},
		{
			Name:   "Undeclared local traps",
			Locals: []Word{0},
			Prog: []I{
				localGetI{idx: 1},
			},
			End:  []Word{},
			Trap: ErrInvalidLocalIndex{Index: 1, NumLocals: 1},
		},
		{
			Name: "Branch with no open block traps",
			Prog: []I{
				pushI{x: 1},
				brIfI{depth: 0},
				pushI{x: 99},
			},
			End:  []Word{},
			Trap: ErrInvalidBranchDepth{Depth: 0, Open: 0},
		},
		{
			Name: "Branch depth past the innermost block traps",
			Prog: []I{
				loopI{},
				pushI{x: 1},
				brIfI{depth: 1},
				endI{},
			},
			End:  []Word{},
			Trap: ErrInvalidBranchDepth{Depth: 1, Open: 1},
		},
		{
			Name: "Untaken branch still needs an open block",
			Prog: []I{
				pushI{x: 0},
				brIfI{depth: 0},
				pushI{x: 99},
			},
			End:  []Word{},
			Trap: ErrInvalidBranchDepth{Depth: 0, Open: 0},
		},
	}

	for i, tc := range tcs {
		t.Run(fmt.Sprintf("%d/%s", i, tc.Name), func(t *testing.T) {
			ctx := testutil.Context(t)
			vm := New(100, nil)
			vm.SetLocals(tc.Locals)
			vm.SetProg(tc.Prog)
			if tc.Setup != nil {
				tc.Setup(t, vm)
			}
			stepsTaken := vm.Run(ctx, 1e6)
			t.Log("steps taken:", stepsTaken)
			if tc.Trap != nil {
				require.Equal(t, tc.Trap, vm.Err())
			} else {
				require.NoError(t, vm.Err())
			}
			require.Equal(t, tc.End, vm.stack)
		})
	}
}

func TestTrapHalts(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	vm := New(100, nil)
	vm.SetProg([]I{
		pushI{x: 1},
		brIfI{depth: 0},
		pushI{x: 99},
		pushI{x: 98},
	})
	vm.Run(ctx, 1e6)
	require.Equal(t, ErrInvalidBranchDepth{Depth: 0, Open: 0}, vm.Err())
	// nothing after the trap executed
	require.Empty(t, vm.DumpStack(nil))
	require.EqualValues(t, 2, vm.Steps())
	// the machine stays halted
	require.Zero(t, vm.Run(ctx, 1e6))
}
