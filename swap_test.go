package smallany

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/smallany/typeid"
)

func TestSwapRoundTrip(t *testing.T) {
	empty := func() Any { return Any{} }
	i32 := func(v int32) func() Any { return func() Any { return MustNew(v) } }
	tri := func(v int) func() Any { return func() Any { return MustNew(triple{v, v, v}) } }
	box := func(v int64) func() Any { return func() Any { return MustNew(block64{Vals: [8]int64{v}}) } }
	str := func(v string) func() Any { return func() Any { return MustNew(named{Name: v}) } }

	tests := []struct {
		name string
		x, y func() Any
	}{
		{"empty/empty", empty, empty},
		{"empty/inline", empty, tri(1)},
		{"inline/empty", tri(2), empty},
		{"empty/boxed", empty, box(3)},
		{"inline/inline same type", tri(4), tri(5)},
		{"inline/inline different types", i32(6), tri(7)},
		{"boxed/boxed same type", box(8), box(9)},
		{"boxed/boxed different types", box(10), str("eleven")},
		{"inline/boxed", tri(12), str("thirteen")},
		{"boxed/inline", box(14), i32(15)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.x(), tc.y()
			defer x.Clear()
			defer y.Clear()

			xType, xVal := x.Type(), snapshot(&x)
			yType, yVal := y.Type(), snapshot(&y)

			x.Swap(&y)
			assert.Equal(t, yType, x.Type())
			assert.Equal(t, yVal, snapshot(&x))
			assert.Equal(t, xType, y.Type())
			assert.Equal(t, xVal, snapshot(&y))

			Swap(&x, &y)
			assert.Equal(t, xType, x.Type())
			assert.Equal(t, xVal, snapshot(&x))
			assert.Equal(t, yType, y.Type())
			assert.Equal(t, yVal, snapshot(&y))
		})
	}
}

func TestSwapSameTypeKeepsBoxes(t *testing.T) {
	x := MustNew(block64{Vals: [8]int64{1}})
	y := MustNew(block64{Vals: [8]int64{2}})
	defer x.Clear()
	defer y.Clear()

	px, py := UnsafePointer[block64](&x), UnsafePointer[block64](&y)
	x.Swap(&y)

	assert.Same(t, py, UnsafePointer[block64](&x))
	assert.Same(t, px, UnsafePointer[block64](&y))
}

func TestSwapCarriesAllocator(t *testing.T) {
	budget := NewBudgetAllocator(1<<10, nil)
	x := MustNew(block64{}, WithAllocator(budget))
	y := MustNew(int32(1))

	x.Swap(&y)
	assert.Same(t, budget, y.alloc)

	y.Clear()
	assert.Equal(t, uint64(0), budget.Stats().Live())
	x.Clear()
}

func TestSelfSwapAndSelfAssign(t *testing.T) {
	const n = 100

	t.Run("boxed", func(t *testing.T) {
		before := liveBoxed.Load()
		a := MustNew(newCounted(77))

		for i := 0; i < n; i++ {
			a.Swap(&a)
			Swap(&a, &a)
			require.NoError(t, a.Assign(&a))
			a.AssignMove(&a)
		}

		assert.Equal(t, before+1, liveBoxed.Load())
		assert.Equal(t, int64(77), UnsafePointer[counted](&a).ID)

		a.Clear()
		assert.Equal(t, before, liveBoxed.Load())
	})

	t.Run("inline", func(t *testing.T) {
		before := liveInline.Load()
		a := MustNew(newSmallCounted(5))
		assert.False(t, a.Boxed())

		for i := 0; i < n; i++ {
			a.Swap(&a)
			require.NoError(t, a.Assign(&a))
			a.AssignMove(&a)
		}

		assert.Equal(t, before+1, liveInline.Load())
		assert.Equal(t, int32(5), UnsafePointer[smallCounted](&a).ID)
		assert.Equal(t, typeid.Of[smallCounted](), a.Type())

		a.Clear()
		assert.Equal(t, before, liveInline.Load())
	})
}

func TestSwapDoesNotDropOrClone(t *testing.T) {
	beforeBoxed, beforeInline := liveBoxed.Load(), liveInline.Load()

	x := MustNew(newCounted(1))
	y := MustNew(newSmallCounted(2))
	for i := 0; i < 10; i++ {
		x.Swap(&y)
	}
	assert.Equal(t, beforeBoxed+1, liveBoxed.Load())
	assert.Equal(t, beforeInline+1, liveInline.Load())

	x.Clear()
	y.Clear()
	assert.Equal(t, beforeBoxed, liveBoxed.Load())
	assert.Equal(t, beforeInline, liveInline.Load())
}
