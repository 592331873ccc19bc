package smallany

import (
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/smallany/errors"
	"github.com/wippyai/smallany/typeid"
)

// Allocator provides heap blocks for boxed payloads.
//
// Alloc must return a zeroed, GC-visible block able to hold a value of
// type t. Free is called once per block when the payload is destroyed; the
// block has already been zeroed by then.
type Allocator interface {
	Alloc(t reflect.Type) (unsafe.Pointer, error)
	Free(p unsafe.Pointer, t reflect.Type)
}

// HeapAllocator allocates boxes from the Go heap. It never fails and Free
// leaves reclamation to the garbage collector.
type HeapAllocator struct{}

// Alloc allocates a zeroed value of type t.
func (HeapAllocator) Alloc(t reflect.Type) (unsafe.Pointer, error) {
	return reflect.New(t).UnsafePointer(), nil
}

// Free is a no-op.
func (HeapAllocator) Free(unsafe.Pointer, reflect.Type) {}

type allocatorHolder struct {
	Allocator
}

var defaultAllocator atomic.Pointer[allocatorHolder]

// DefaultAllocator returns the allocator used when no WithAllocator option
// is given.
func DefaultAllocator() Allocator {
	if h := defaultAllocator.Load(); h != nil {
		return h.Allocator
	}
	return HeapAllocator{}
}

// SetDefaultAllocator replaces the process default. Containers keep the
// allocator they were built with, so changing it does not affect live boxes.
// A nil allocator restores HeapAllocator.
func SetDefaultAllocator(a Allocator) {
	if a == nil {
		defaultAllocator.Store(nil)
		return
	}
	defaultAllocator.Store(&allocatorHolder{Allocator: a})
}

// BudgetStats is a snapshot of a BudgetAllocator's counters.
type BudgetStats struct {
	InUse  uintptr
	Peak   uintptr
	Allocs uint64
	Frees  uint64
	Denied uint64
	// BadFrees counts Free calls that would have released more than InUse.
	BadFrees uint64
}

// Live returns the number of outstanding blocks.
func (s BudgetStats) Live() uint64 {
	return s.Allocs - s.Frees
}

// BudgetAllocator caps the bytes outstanding through it and fails
// allocations that would exceed the cap. It is safe for concurrent use.
type BudgetAllocator struct {
	base  Allocator
	stats BudgetStats
	limit uintptr
	mu    sync.Mutex
}

// NewBudgetAllocator creates a budget of limit bytes over base. A nil base
// uses HeapAllocator.
func NewBudgetAllocator(limit uintptr, base Allocator) *BudgetAllocator {
	if base == nil {
		base = HeapAllocator{}
	}
	return &BudgetAllocator{
		base:  base,
		limit: limit,
	}
}

// Alloc reserves t.Size() bytes of budget and allocates from the base.
func (b *BudgetAllocator) Alloc(t reflect.Type) (unsafe.Pointer, error) {
	size := t.Size()

	b.mu.Lock()
	if b.stats.InUse+size > b.limit {
		b.stats.Denied++
		b.mu.Unlock()
		return nil, errors.AllocationFailed(errors.PhaseAlloc, typeid.OfType(t).Name(), size, uintptr(t.Align()))
	}
	b.stats.InUse += size
	b.mu.Unlock()

	p, err := b.base.Alloc(t)
	if err != nil {
		b.mu.Lock()
		b.stats.InUse -= size
		b.stats.Denied++
		b.mu.Unlock()
		return nil, err
	}

	b.mu.Lock()
	b.stats.Allocs++
	if b.stats.InUse > b.stats.Peak {
		b.stats.Peak = b.stats.InUse
	}
	b.mu.Unlock()
	return p, nil
}

// Free returns t.Size() bytes to the budget. A Free that exceeds the bytes
// in use is a double free; it is counted in BadFrees, logged, and otherwise
// ignored.
func (b *BudgetAllocator) Free(p unsafe.Pointer, t reflect.Type) {
	size := t.Size()

	b.mu.Lock()
	if size > b.stats.InUse || b.stats.Frees >= b.stats.Allocs {
		b.stats.BadFrees++
		inUse := b.stats.InUse
		b.mu.Unlock()
		Logger().Warn("budget free exceeds outstanding blocks",
			zap.String("type", typeid.OfType(t).Name()),
			zap.Uintptr("size", size),
			zap.Uintptr("in_use", inUse))
		return
	}
	b.stats.InUse -= size
	b.stats.Frees++
	b.mu.Unlock()

	b.base.Free(p, t)
}

// Stats returns a snapshot of the counters.
func (b *BudgetAllocator) Stats() BudgetStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// Limit returns the configured budget in bytes.
func (b *BudgetAllocator) Limit() uintptr {
	return b.limit
}
