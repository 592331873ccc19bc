package layout

import (
	"reflect"
	"sync"
	"unsafe"
)

var lockerType = reflect.TypeFor[sync.Locker]()

// WordSize and WordAlign describe the machine word the inline region is built from.
const (
	WordSize  = unsafe.Sizeof(uintptr(0))
	WordAlign = unsafe.Alignof(uintptr(0))
)

// Info describes how a Go type occupies memory.
type Info struct {
	Fields      []Field
	Size        uintptr
	Align       uintptr
	PointerFree bool
	// Locks is set when the type, or any value embedded in it, is a
	// sync.Locker through its pointer. Such values must not be copied.
	Locks bool
}

// Field is one struct member with its byte offset.
type Field struct {
	Name   string
	Offset uintptr
	Size   uintptr
	Align  uintptr
}

// Words returns how many machine words Size rounds up to.
func (i Info) Words() uintptr {
	return AlignTo(i.Size, WordSize) / WordSize
}

// Calculator computes and caches layout information per type.
type Calculator struct {
	cache map[reflect.Type]Info
	mu    sync.Mutex
}

// NewCalculator creates an empty calculator.
func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[reflect.Type]Info),
	}
}

// AlignTo rounds offset up to a multiple of align.
func AlignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Calculate returns the layout of t.
func (c *Calculator) Calculate(t reflect.Type) Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calculate(t)
}

func (c *Calculator) calculate(t reflect.Type) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		info = Info{PointerFree: true}
	case reflect.Array:
		info = c.calculateArray(t)
	case reflect.Struct:
		info = c.calculateStruct(t)
	default:
		// pointers, strings, slices, maps, chans, funcs, interfaces, unsafe.Pointer
		info = Info{PointerFree: false}
	}

	info.Size = t.Size()
	info.Align = uintptr(t.Align())
	if t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(lockerType) {
		info.Locks = true
	}

	c.cache[t] = info
	return info
}

func (c *Calculator) calculateArray(t reflect.Type) Info {
	if t.Len() == 0 {
		return Info{PointerFree: true}
	}
	elem := c.calculate(t.Elem())
	return Info{PointerFree: elem.PointerFree, Locks: elem.Locks}
}

func (c *Calculator) calculateStruct(t reflect.Type) Info {
	if t.NumField() == 0 {
		return Info{PointerFree: true}
	}

	fields := make([]Field, 0, t.NumField())
	pointerFree := true
	locks := false

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fieldLayout := c.calculate(sf.Type)

		fields = append(fields, Field{
			Name:   sf.Name,
			Offset: sf.Offset,
			Size:   fieldLayout.Size,
			Align:  fieldLayout.Align,
		})

		if !fieldLayout.PointerFree {
			pointerFree = false
		}
		locks = locks || fieldLayout.Locks
	}

	return Info{
		Fields:      fields,
		PointerFree: pointerFree,
		Locks:       locks,
	}
}

// Fits reports whether a value with this layout fits a region of the given
// capacity whose start is aligned to align.
func (i Info) Fits(capacity, align uintptr) bool {
	return i.Size <= capacity && i.Align <= align
}
