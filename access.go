package smallany

import (
	"reflect"

	"github.com/wippyai/smallany/errors"
	"github.com/wippyai/smallany/typeid"
)

// Is reports whether a holds a value of exactly type T.
func Is[T any](a *Any) bool {
	return a.tab != nil && a.tab.rtype == reflect.TypeFor[T]()
}

// Cast returns a pointer to the payload when a holds a T.
//
// The pointer aliases the container's storage. It is invalidated by any
// operation that changes or relocates the payload: Clear, Set, Assign,
// AssignMove, Move and Swap.
func Cast[T any](a *Any) (*T, bool) {
	if !Is[T](a) {
		return nil, false
	}
	return (*T)(a.tab.pointer(&a.s)), true
}

// Get returns a copy of the payload when a holds a T.
func Get[T any](a *Any) (T, error) {
	var zero T
	if a.tab == nil {
		return zero, errors.Empty(errors.PhaseAccess, typeid.Of[T]().Name())
	}
	p, ok := Cast[T](a)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseAccess, typeid.Of[T]().Name(), a.tab.id.Name())
	}
	return *p, nil
}

// UnsafePointer returns a pointer to the payload reinterpreted as *T with no
// type check. It returns nil for an empty container.
//
// Calling it with a T other than the stored type is undefined behavior.
// Prefer Cast unless the check shows up in a profile.
func UnsafePointer[T any](a *Any) *T {
	if a.tab == nil {
		return nil
	}
	return (*T)(a.tab.pointer(&a.s))
}
