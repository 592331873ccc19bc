// Package layout computes memory layout facts for Go types.
//
// The container's storage policy needs three facts per payload type: its
// size, its alignment, and whether it is pointer-free. Only pointer-free
// values may live in the inline region, because the inline words are
// declared as uintptr and the garbage collector does not scan them.
//
// # Layout Rules
//
//   - Scalars (bool, ints, floats, complex): pointer-free
//   - Arrays: pointer-free when the element is, or when the length is zero
//   - Structs: pointer-free when every field is; field offsets are recorded
//   - Everything else (pointers, strings, slices, maps, chans, funcs,
//     interfaces, unsafe.Pointer): holds pointers
//
// # Usage
//
//	c := layout.NewCalculator()
//	info := c.Calculate(reflect.TypeFor[Point]())
//	// info.Size, info.Align, info.PointerFree, info.Fields
//
// This package is internal to smallany.
package layout
