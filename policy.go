package smallany

import (
	"fmt"
	"reflect"

	"github.com/wippyai/smallany/internal/layout"
)

// StorageKind says where a payload lives.
type StorageKind uint8

const (
	Inline StorageKind = iota
	Boxed
)

func (k StorageKind) String() string {
	switch k {
	case Inline:
		return "inline"
	case Boxed:
		return "boxed"
	default:
		return fmt.Sprintf("StorageKind(%d)", uint8(k))
	}
}

// Decision is the storage policy outcome for one type.
type Decision struct {
	Reason   string // why the type is boxed or rejected; empty when inline
	Layout   layout.Info
	Kind     StorageKind
	Copyable bool
}

var calc = layout.NewCalculator()

// Decide evaluates the inline-vs-boxed policy for t.
//
// A type is stored inline only if it is pointer-free, no larger than
// InlineCapacity, and no more strictly aligned than InlineAlign. The inline
// words are not scanned by the garbage collector.
func Decide(t reflect.Type) Decision {
	info := calc.Calculate(t)
	d := Decision{
		Layout:   info,
		Kind:     Inline,
		Copyable: !info.Locks || hasClone(t),
	}

	switch {
	case !info.PointerFree:
		d.Kind = Boxed
		d.Reason = "holds pointers"
	case info.Size > InlineCapacity:
		d.Kind = Boxed
		d.Reason = fmt.Sprintf("size %d exceeds inline capacity %d", info.Size, InlineCapacity)
	case info.Align > InlineAlign:
		d.Kind = Boxed
		d.Reason = fmt.Sprintf("alignment %d exceeds %d", info.Align, InlineAlign)
	}

	if !d.Copyable {
		d.Reason = "carries a lock; copying it is not a valid copy"
	}
	if t == anyType {
		d.Copyable = false
		d.Reason = "a container shares its box when copied by value; use Nest"
	}
	return d
}

var anyType = reflect.TypeFor[Any]()

var errorType = reflect.TypeFor[error]()

// hasClone reports whether *t has the Cloner method set for t.
func hasClone(t reflect.Type) bool {
	m, ok := reflect.PointerTo(t).MethodByName("Clone")
	if !ok {
		return false
	}
	mt := m.Type // receiver is In(0)
	return mt.NumIn() == 1 && mt.NumOut() == 2 && mt.Out(0) == t && mt.Out(1) == errorType
}

// DecideFor evaluates the policy for T.
func DecideFor[T any]() Decision {
	return Decide(reflect.TypeFor[T]())
}
