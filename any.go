package smallany

import (
	"unsafe"

	"github.com/wippyai/smallany/errors"
	"github.com/wippyai/smallany/typeid"
)

// Any holds one value of any copyable type, or nothing.
//
// The zero Any is empty and ready to use. An Any owns its payload: copying
// the struct with = aliases a boxed payload, so duplicate values with Copy
// and transfer them with Move. Clear runs the payload's Drop hook; call it
// (or defer it) when a container holding a Dropper goes out of use.
//
// Any is not safe for concurrent mutation.
type Any struct {
	s     storage
	tab   *table
	alloc Allocator
}

// Option configures construction.
type Option func(*options)

type options struct {
	alloc Allocator
}

// WithAllocator selects the allocator for boxed payloads.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.alloc == nil {
		o.alloc = DefaultAllocator()
	}
	return o
}

// New builds a container holding v.
//
// It fails when T carries a lock and has no Clone method, or when T is
// boxed and the allocator refuses the block. On failure no container exists
// and v is left as it was. T may not be Any itself; use Nest.
func New[T any](v T, opts ...Option) (Any, error) {
	o := buildOptions(opts)

	tab := tableFor[T]()
	if tab.reason != "" {
		return Any{}, errors.Unsupported(errors.PhaseConstruct, tab.id.Name(), tab.reason)
	}

	a := Any{alloc: o.alloc}
	if err := tab.emplace(&a.s, unsafe.Pointer(&v), o.alloc, errors.PhaseConstruct); err != nil {
		return Any{}, err
	}
	a.tab = tab
	return a, nil
}

// Nest builds a container whose payload is inner, moving it in. inner is
// left empty. On failure inner is unchanged.
func Nest(inner *Any, opts ...Option) (Any, error) {
	o := buildOptions(opts)

	tab := tableFor[Any]()
	a := Any{alloc: o.alloc}
	if err := tab.emplace(&a.s, unsafe.Pointer(inner), o.alloc, errors.PhaseConstruct); err != nil {
		return Any{}, err
	}
	a.tab = tab
	*inner = Any{}
	return a, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](v T, opts ...Option) Any {
	a, err := New(v, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Set replaces the contents of dst with v. The new value is built first;
// on error dst is unchanged. The previous payload is dropped afterwards.
func Set[T any](dst *Any, v T) error {
	tmp, err := New(v, WithAllocator(dst.allocator()))
	if err != nil {
		return err
	}
	tmp.Swap(dst)
	tmp.Clear()
	return nil
}

func (a *Any) allocator() Allocator {
	if a.alloc != nil {
		return a.alloc
	}
	return DefaultAllocator()
}

// Copy returns an independent container holding a copy of a's payload.
// Copying an empty container yields an empty container.
func (a *Any) Copy() (Any, error) {
	out := Any{alloc: a.alloc}
	if a.tab == nil {
		return out, nil
	}
	if err := a.tab.copy(&a.s, &out.s, a.allocator()); err != nil {
		return Any{}, err
	}
	out.tab = a.tab
	return out, nil
}

// Move transfers a's payload into the returned container and leaves a empty.
func (a *Any) Move() Any {
	out := Any{alloc: a.alloc}
	if a.tab == nil {
		return out
	}
	a.tab.move(&a.s, &out.s)
	out.tab = a.tab
	a.tab = nil
	return out
}

// Assign replaces a's payload with a copy of src's. On error a is unchanged.
func (a *Any) Assign(src *Any) error {
	tmp, err := src.Copy()
	if err != nil {
		return err
	}
	tmp.Swap(a)
	tmp.Clear()
	return nil
}

// AssignMove replaces a's payload with src's and leaves src empty.
// Self-assignment leaves a unchanged.
func (a *Any) AssignMove(src *Any) {
	tmp := src.Move()
	tmp.Swap(a)
	tmp.Clear()
}

// Swap exchanges the payloads of a and b.
func (a *Any) Swap(b *Any) {
	if a.tab == b.tab {
		a.alloc, b.alloc = b.alloc, a.alloc
		if a.tab != nil {
			a.tab.swap(&a.s, &b.s)
		}
		return
	}

	tmp := b.Move()

	b.tab, b.alloc = a.tab, a.alloc
	if a.tab != nil {
		a.tab.move(&a.s, &b.s)
	}

	a.tab, a.alloc = tmp.tab, tmp.alloc
	if tmp.tab != nil {
		tmp.tab.move(&tmp.s, &a.s)
		tmp.tab = nil
	}
}

// Swap exchanges the payloads of a and b.
func Swap(a, b *Any) {
	a.Swap(b)
}

// Clear destroys the payload, if any, and leaves a empty.
func (a *Any) Clear() {
	if a.tab == nil {
		return
	}
	a.tab.destroy(&a.s, a.allocator())
	a.tab = nil
}

// Empty reports whether a holds no value.
func (a *Any) Empty() bool {
	return a.tab == nil
}

// Boxed reports whether the payload lives in a heap block. Empty
// containers report false.
func (a *Any) Boxed() bool {
	return a.tab != nil && a.tab.kind == Boxed
}

// Type returns the identity of the stored type, or typeid.Void when empty.
func (a *Any) Type() typeid.ID {
	if a.tab == nil {
		return typeid.Void
	}
	return a.tab.id
}

// IsTyped reports whether Type() equals id.
func (a *Any) IsTyped(id typeid.ID) bool {
	return a.Type().Equal(id)
}

// String returns a short description for logs.
func (a *Any) String() string {
	if a.tab == nil {
		return "smallany(empty)"
	}
	return "smallany(" + a.tab.id.Name() + ")"
}

// Clone implements Cloner so containers can be nested.
func (a *Any) Clone() (Any, error) {
	return a.Copy()
}

// Drop implements Dropper so containers can be nested.
func (a *Any) Drop() {
	a.Clear()
}
