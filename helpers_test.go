package smallany

import (
	"errors"
	"sync"
	"sync/atomic"
)

// triple is three words and pointer-free: inline.
type triple struct {
	A, B, C int
}

// block64 is 64 bytes: boxed by size.
type block64 struct {
	Vals [8]int64
}

// aggregate is 128 bytes: boxed by size.
type aggregate struct {
	Vals [16]int64
}

// named holds a string: boxed because it holds pointers.
type named struct {
	Name string
}

// liveBoxed and liveInline count payloads that exist and have not been
// dropped. Construction through newCounted/newSmallCounted and Clone add
// one; Drop removes one.
var (
	liveBoxed  atomic.Int64
	liveInline atomic.Int64
)

type counted struct {
	ID  int64
	pad [7]int64
}

func newCounted(id int64) counted {
	liveBoxed.Add(1)
	return counted{ID: id}
}

func (c *counted) Clone() (counted, error) {
	liveBoxed.Add(1)
	return *c, nil
}

func (c *counted) Drop() {
	liveBoxed.Add(-1)
}

type smallCounted struct {
	ID int32
}

func newSmallCounted(id int32) smallCounted {
	liveInline.Add(1)
	return smallCounted{ID: id}
}

func (c *smallCounted) Clone() (smallCounted, error) {
	liveInline.Add(1)
	return *c, nil
}

func (c *smallCounted) Drop() {
	liveInline.Add(-1)
}

var errFragile = errors.New("fragile: refusing to copy")

// fragile fails to copy when Fail is set.
type fragile struct {
	N    int
	Fail bool
}

func (f *fragile) Clone() (fragile, error) {
	if f.Fail {
		return fragile{}, errFragile
	}
	return *f, nil
}

// buffer owns a slice; Clone deep-copies it.
type buffer struct {
	Data []byte
}

func (b *buffer) Clone() (buffer, error) {
	return buffer{Data: append([]byte(nil), b.Data...)}, nil
}

type locked struct {
	mu sync.Mutex
	N  int
}

type lockedCloner struct {
	mu sync.Mutex
	N  int
}

func (l *lockedCloner) Clone() (lockedCloner, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lockedCloner{N: l.N}, nil
}

// snapshot extracts the payload of the test types for comparison.
func snapshot(a *Any) any {
	switch {
	case a.Empty():
		return nil
	case Is[int32](a):
		return *UnsafePointer[int32](a)
	case Is[int64](a):
		return *UnsafePointer[int64](a)
	case Is[triple](a):
		return *UnsafePointer[triple](a)
	case Is[block64](a):
		return *UnsafePointer[block64](a)
	case Is[named](a):
		return *UnsafePointer[named](a)
	case Is[string](a):
		return *UnsafePointer[string](a)
	default:
		return a.String()
	}
}
