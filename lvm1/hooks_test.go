package lvm1

import (
	"testing"

	"github.com/stretchr/testify/require"

	"loomvm.org/loom/internal/testutil"
)

func TestCounters(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	m := NewModule(Countdown(3))
	ctrs := NewCounters()
	_, err := m.Instantiate(ctx, ctrs.Hooks())
	require.NoError(t, err)

	instrs := ctrs.Instrs()
	require.EqualValues(t, 1, instrs["loop"])
	require.EqualValues(t, 1, instrs["end"])
	require.EqualValues(t, 3, instrs["local.get"])
	require.EqualValues(t, 3, instrs["local.tee"])
	require.EqualValues(t, 3, instrs["add.imm"])
	require.EqualValues(t, 3, instrs["gt_s.imm"])
	require.EqualValues(t, 3, instrs["br_if"])

	total, taken := ctrs.Branches()
	require.EqualValues(t, 3, total)
	require.EqualValues(t, 2, taken)
	// the loop body never holds more than one intermediate value
	require.Equal(t, 1, ctrs.MaxStack())
}

func TestHooksObserveLocals(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	var reads, writes []Word
	hooks := &Hooks{
		OnLocalRead:  func(idx uint32, x Word) { reads = append(reads, x) },
		OnLocalWrite: func(idx uint32, x Word) { writes = append(writes, x) },
	}
	m := NewModule(Countdown(2))
	_, err := m.Instantiate(ctx, hooks)
	require.NoError(t, err)
	require.Equal(t, []Word{2, 1}, reads)
	require.Equal(t, []Word{1, 0}, writes)
}
