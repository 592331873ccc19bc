package smallany

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/smallany/errors"
)

func TestNoLeaks(t *testing.T) {
	const iterations = 10000

	before := liveBoxed.Load()
	budget := NewBudgetAllocator(unsafe.Sizeof(counted{}), nil)

	for i := 0; i < iterations; i++ {
		a, err := New(newCounted(int64(i)), WithAllocator(budget))
		require.NoError(t, err)
		require.True(t, a.Boxed())
		a.Clear()
	}

	assert.Equal(t, before, liveBoxed.Load())
	stats := budget.Stats()
	assert.Equal(t, uintptr(0), stats.InUse)
	assert.Equal(t, uint64(iterations), stats.Allocs)
	assert.Equal(t, uint64(iterations), stats.Frees)
	assert.Equal(t, unsafe.Sizeof(counted{}), stats.Peak)
}

func TestScenarioC_AssignDestroysPrevious(t *testing.T) {
	t.Run("boxed previous", func(t *testing.T) {
		before := liveBoxed.Load()
		a := MustNew(newCounted(3))
		require.Equal(t, before+1, liveBoxed.Load())

		require.NoError(t, Set(&a, int64(9)))
		assert.Equal(t, before, liveBoxed.Load(), "previous payload should be dropped")
		assert.Equal(t, int64(9), snapshot(&a))
		a.Clear()
	})

	t.Run("inline previous", func(t *testing.T) {
		before := liveInline.Load()
		a := MustNew(newSmallCounted(3))

		src := MustNew(named{Name: "replacement"})
		defer src.Clear()
		require.NoError(t, a.Assign(&src))

		assert.Equal(t, before, liveInline.Load())
		assert.Equal(t, named{Name: "replacement"}, snapshot(&a))
		a.Clear()
	})
}

func TestCopyCountsClones(t *testing.T) {
	before := liveBoxed.Load()
	a := MustNew(newCounted(1))
	b, err := a.Copy()
	require.NoError(t, err)
	assert.Equal(t, before+2, liveBoxed.Load())

	c := b.Move()
	assert.Equal(t, before+2, liveBoxed.Load(), "move must not clone or drop")

	a.Clear()
	b.Clear()
	c.Clear()
	assert.Equal(t, before, liveBoxed.Load())
}

func TestCloneFailureLeavesTargetUntouched(t *testing.T) {
	src := MustNew(fragile{N: 1, Fail: true})
	dst := MustNew(triple{1, 2, 3})
	defer src.Clear()
	defer dst.Clear()

	err := dst.Assign(&src)
	require.Error(t, err)
	assert.ErrorIs(t, err, errFragile)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseCopy, Kind: errors.KindClone})
	assert.Equal(t, triple{1, 2, 3}, snapshot(&dst))

	_, err = src.Copy()
	assert.ErrorIs(t, err, errFragile)
	assert.Equal(t, 1, UnsafePointer[fragile](&src).N)
}

func TestAllocationFailure(t *testing.T) {
	t.Run("construct", func(t *testing.T) {
		budget := NewBudgetAllocator(64, nil)
		_, err := New(aggregate{}, WithAllocator(budget))
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConstruct, Kind: errors.KindAllocation})
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseAlloc, Kind: errors.KindAllocation})
		assert.Equal(t, uint64(1), budget.Stats().Denied)
	})

	t.Run("set leaves destination", func(t *testing.T) {
		budget := NewBudgetAllocator(64, nil)
		dst := MustNew(int32(11), WithAllocator(budget))
		defer dst.Clear()

		err := Set(&dst, aggregate{})
		require.Error(t, err)
		assert.Equal(t, int32(11), snapshot(&dst))
	})

	t.Run("copy drops the clone", func(t *testing.T) {
		size := unsafe.Sizeof(counted{})
		budget := NewBudgetAllocator(size+size/2, nil)
		before := liveBoxed.Load()

		a := MustNew(newCounted(5), WithAllocator(budget))
		defer a.Clear()

		_, err := a.Copy()
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseCopy, Kind: errors.KindAllocation})
		assert.Equal(t, before+1, liveBoxed.Load())
	})

	t.Run("inline ignores budget", func(t *testing.T) {
		budget := NewBudgetAllocator(0, nil)
		a, err := New(triple{}, WithAllocator(budget))
		require.NoError(t, err)
		assert.False(t, a.Boxed())
		b, err := a.Copy()
		require.NoError(t, err)
		assert.Equal(t, uint64(0), budget.Stats().Allocs)
		a.Clear()
		b.Clear()
	})
}

func TestClearIsIdempotent(t *testing.T) {
	before := liveBoxed.Load()
	a := MustNew(newCounted(1))
	a.Clear()
	a.Clear()
	assert.Equal(t, before, liveBoxed.Load())
	assert.True(t, a.Empty())
}
