package handle

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/smallany"
	"github.com/wippyai/smallany/errors"
	"github.com/wippyai/smallany/typeid"
)

// Table maps integer handles to owned containers. Freed handles are reused.
// It is safe for concurrent use; the containers it returns are not.
type Table struct {
	alloc     smallany.Allocator
	log       *zap.Logger
	slots     []*slot
	freeList  []Handle
	observers []subscription
	nextSub   uint64
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	closed    bool
}

type slot struct {
	value   smallany.Any
	borrows uint32
}

// Option configures a Table.
type Option func(*Table)

// WithAllocator sets the allocator used by Put for boxed payloads.
func WithAllocator(a smallany.Allocator) Option {
	return func(t *Table) {
		t.alloc = a
	}
}

// WithLogger sets the logger. The default is smallany.Logger().
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		t.log = l
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		slots:    make([]*slot, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = smallany.Logger()
	}
	if t.alloc == nil {
		t.alloc = smallany.DefaultAllocator()
	}
	return t
}

// Insert moves v into the table and returns its handle. v is left empty.
// Empty containers are rejected.
func (t *Table) Insert(v *smallany.Any) (Handle, error) {
	if v.Empty() {
		return 0, errors.InvalidInput(errors.PhaseHandle, "cannot insert an empty container")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, errClosed()
	}

	s := &slot{value: v.Move()}
	var h Handle
	if n := len(t.freeList); n > 0 {
		h = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.slots[h-1] = s
	} else {
		t.slots = append(t.slots, s)
		h = Handle(len(t.slots))
	}
	id := s.value.Type()
	t.mu.Unlock()

	t.notify(Event{Type: EventInserted, Handle: h, TypeID: id})
	return h, nil
}

// Put builds a container for v with the table's allocator and inserts it.
func Put[T any](t *Table, v T) (Handle, error) {
	a, err := smallany.New(v, smallany.WithAllocator(t.alloc))
	if err != nil {
		return 0, err
	}
	h, err := t.Insert(&a)
	if err != nil {
		a.Clear()
		return 0, err
	}
	return h, nil
}

// lookup returns the live slot for h. Callers hold t.mu.
func (t *Table) lookup(h Handle) *slot {
	if h == 0 || int(h) > len(t.slots) {
		return nil
	}
	return t.slots[h-1]
}

// Get returns the container stored under h. The pointer stays valid until
// the handle is removed.
func (t *Table) Get(h Handle) (*smallany.Any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.lookup(h)
	if s == nil {
		return nil, false
	}
	return &s.value, true
}

// GetTyped is like Get but also requires the stored type to equal id.
func (t *Table) GetTyped(h Handle, id typeid.ID) (*smallany.Any, bool) {
	a, ok := t.Get(h)
	if !ok || !a.IsTyped(id) {
		return nil, false
	}
	return a, true
}

// Lookup returns a pointer to the T stored under h.
func Lookup[T any](t *Table, h Handle) (*T, error) {
	a, ok := t.Get(h)
	if !ok {
		return nil, errNotFound(h)
	}
	p, ok := smallany.Cast[T](a)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseHandle, typeid.Of[T]().Name(), a.Type().Name())
	}
	return p, nil
}

// Borrow marks h as borrowed. Borrowed handles cannot be removed.
func (t *Table) Borrow(h Handle) bool {
	t.mu.Lock()
	s := t.lookup(h)
	if s == nil {
		t.mu.Unlock()
		return false
	}
	s.borrows++
	id := s.value.Type()
	t.mu.Unlock()

	t.notify(Event{Type: EventBorrowed, Handle: h, TypeID: id})
	return true
}

// Return ends one borrow of h.
func (t *Table) Return(h Handle) bool {
	t.mu.Lock()
	s := t.lookup(h)
	if s == nil || s.borrows == 0 {
		t.mu.Unlock()
		return false
	}
	s.borrows--
	id := s.value.Type()
	t.mu.Unlock()

	t.notify(Event{Type: EventReturned, Handle: h, TypeID: id})
	return true
}

// Remove moves the container out of h and frees the handle.
func (t *Table) Remove(h Handle) (smallany.Any, error) {
	t.mu.Lock()
	s := t.lookup(h)
	if s == nil {
		t.mu.Unlock()
		return smallany.Any{}, errNotFound(h)
	}
	if s.borrows > 0 {
		n := s.borrows
		t.mu.Unlock()
		return smallany.Any{}, errors.New(errors.PhaseHandle, errors.KindBusy).
			Detail("handle %d has %d outstanding borrows", h, n).
			Build()
	}
	t.slots[h-1] = nil
	t.freeList = append(t.freeList, h)
	out := s.value.Move()
	t.mu.Unlock()

	t.notify(Event{Type: EventRemoved, Handle: h, TypeID: out.Type()})
	return out, nil
}

// Drop removes h and clears its container.
func (t *Table) Drop(h Handle) error {
	a, err := t.Remove(h)
	if err != nil {
		return err
	}
	id := a.Type()
	a.Clear()
	t.notify(Event{Type: EventDropped, Handle: h, TypeID: id})
	return nil
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots) - len(t.freeList)
}

// Each calls fn for every live handle in ascending order until fn returns
// false. fn must not call back into the table.
func (t *Table) Each(fn func(Handle, *smallany.Any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, s := range t.slots {
		if s == nil {
			continue
		}
		if !fn(Handle(i+1), &s.value) {
			return
		}
	}
}

// Clear drops every handle that is not borrowed.
func (t *Table) Clear() {
	var handles []Handle
	t.Each(func(h Handle, _ *smallany.Any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_ = t.Drop(h)
	}
}

// Close clears every container, borrowed or not, and rejects further
// inserts. Closing twice is a no-op.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	slots := t.slots
	t.slots = nil
	t.freeList = nil
	t.mu.Unlock()

	dropped := 0
	for i, s := range slots {
		if s == nil {
			continue
		}
		h := Handle(i + 1)
		id := s.value.Type()
		if s.borrows > 0 {
			t.log.Warn("dropping borrowed handle on close",
				zap.Uint32("handle", uint32(h)),
				zap.Uint32("borrows", s.borrows))
		}
		s.value.Clear()
		dropped++
		t.log.Debug("handle dropped on close",
			zap.Uint32("handle", uint32(h)),
			zap.String("type", id.Name()))
		t.notify(Event{Type: EventDropped, Handle: h, TypeID: id})
	}
	t.log.Info("handle table closed", zap.Int("dropped", dropped))
	return nil
}

type subscription struct {
	o  Observer
	id uint64
}

// Subscribe adds an observer and returns a function that removes it.
// The returned function works for any Observer, including ObserverFunc.
func (t *Table) Subscribe(o Observer) (cancel func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.nextSub++
	id := t.nextSub
	t.observers = append(t.observers, subscription{o: o, id: id})

	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		for i, sub := range t.observers {
			if sub.id == id {
				t.observers = append(t.observers[:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

// Unsubscribe removes the first registration of o. Observers of
// uncomparable types, such as ObserverFunc, are never matched; remove them
// with the function returned by Subscribe.
func (t *Table) Unsubscribe(o Observer) {
	if !isComparable(o) {
		return
	}
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, sub := range t.observers {
		if isComparable(sub.o) && sub.o == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func isComparable(o Observer) bool {
	return o != nil && reflect.TypeOf(o).Comparable()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, sub := range t.observers {
		sub.o.OnHandleEvent(e)
	}
}

func errClosed() error {
	return errors.New(errors.PhaseHandle, errors.KindClosed).
		Detail("handle table closed").
		Build()
}

func errNotFound(h Handle) error {
	return errors.New(errors.PhaseHandle, errors.KindNotFound).
		Detail("handle %d", h).
		Build()
}
