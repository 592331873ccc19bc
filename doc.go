// Package smallany provides Any, a type-erased value container with a
// small-buffer optimization.
//
// An Any holds a single value of any copyable Go type. Small pointer-free
// values are stored inline in the container; everything else lives in a heap
// block obtained from an Allocator. All operations on the payload go through
// a per-type operation table built once on first use and shared by every
// container holding that type.
//
//	smallany/
//	├── typeid/           Stable (hash, name) identities for Go types
//	├── errors/           Structured error types
//	├── handle/           Handle table of Any values
//	├── internal/layout/  Size, alignment and pointer-freedom of types
//	└── cmd/anyinspect/   Storage policy inspector
//
// # Quick Start
//
//	a, err := smallany.New(point{X: 1, Y: 2})
//	if err != nil {
//	    return err
//	}
//	defer a.Clear()
//
//	a.Boxed()                        // false: 2 words, no pointers
//	p, ok := smallany.Cast[point](&a) // checked access
//	v, err := smallany.Get[point](&a) // checked copy-out
//
//	b, err := a.Copy() // independent copy
//	c := a.Move()      // a is now empty
//	smallany.Swap(&b, &c)
//
// # Storage Policy
//
// A type is stored inline when it is pointer-free, fits in InlineCapacity
// bytes and needs no more than word alignment. Otherwise it is boxed. The
// inline words are invisible to the garbage collector, so pointer-bearing
// types are always boxed. Decide reports the policy for any reflect.Type.
//
// # Payload Hooks
//
// Payloads may implement Cloner to control copying and Dropper to run
// cleanup when destroyed. Move and Swap relocate payloads without calling
// either hook.
//
// A container cannot be stored in another by value; Nest moves it in.
//
// # Error Safety
//
// Only construction and copying can fail (allocation, Clone errors, or a
// type that carries a lock without a Clone method). Assign and Set build the
// new value before touching the destination, so a failure leaves the
// destination unchanged. Move, Swap and Clear cannot fail.
//
// # Thread Safety
//
// An Any must not be mutated concurrently. The operation table registry and
// the typeid memo are safe for concurrent use; the first use of a type from
// several goroutines builds its table exactly once.
package smallany
