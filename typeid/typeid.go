package typeid

import (
	"hash/crc64"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var (
	crcTable = crc64.MakeTable(crc64.ECMA)
	memo     sync.Map // reflect.Type -> ID
)

// Void identifies "no type"; an empty container reports it.
var Void = newID("void")

// ID is a stable identity for a Go type: a CRC-64 of the fully qualified
// type name plus the name itself.
type ID struct {
	name string
	hash uint64
}

func newID(name string) ID {
	return ID{
		name: name,
		hash: crc64.Checksum([]byte(name), crcTable),
	}
}

// Of returns the identity of T.
func Of[T any]() ID {
	return OfType(reflect.TypeFor[T]())
}

// OfType returns the identity of t. A nil type maps to Void.
func OfType(t reflect.Type) ID {
	if t == nil {
		return Void
	}
	if cached, ok := memo.Load(t); ok {
		return cached.(ID)
	}
	id := newID(QualifiedName(t))
	actual, _ := memo.LoadOrStore(t, id)
	return actual.(ID)
}

// Hash returns the CRC-64 of the qualified name.
func (id ID) Hash() uint64 { return id.hash }

// Name returns the fully qualified type name.
func (id ID) Name() string { return id.name }

// String implements fmt.Stringer.
func (id ID) String() string { return id.name }

// Equal compares identities by hash.
func (id ID) Equal(o ID) bool { return id.hash == o.hash }

// Less orders identities by hash.
func (id ID) Less(o ID) bool { return id.hash < o.hash }

// IsVoid reports whether id is Void or the zero ID.
func (id ID) IsVoid() bool {
	return id.hash == 0 || id.hash == Void.hash
}

// ShortName returns the type name without package path or type arguments.
func (id ID) ShortName() string {
	for _, prefix := range compositePrefixes {
		if strings.HasPrefix(id.name, prefix) {
			return id.name
		}
	}
	name := id.name
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

var compositePrefixes = []string{"*", "[", "map[", "func(", "chan ", "chan<- ", "<-chan ", "struct ", "interface "}

// QualifiedName renders t with full import paths so that two distinct
// packages declaring the same type name never collide.
func QualifiedName(t reflect.Type) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeType(b *strings.Builder, t reflect.Type) {
	if t.Name() != "" {
		if pkg := t.PkgPath(); pkg != "" {
			b.WriteString(pkg)
			b.WriteByte('.')
		}
		b.WriteString(t.Name())
		return
	}

	switch t.Kind() {
	case reflect.Pointer:
		b.WriteByte('*')
		writeType(b, t.Elem())
	case reflect.Slice:
		b.WriteString("[]")
		writeType(b, t.Elem())
	case reflect.Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len()))
		b.WriteByte(']')
		writeType(b, t.Elem())
	case reflect.Map:
		b.WriteString("map[")
		writeType(b, t.Key())
		b.WriteByte(']')
		writeType(b, t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			b.WriteString("<-chan ")
		case reflect.SendDir:
			b.WriteString("chan<- ")
		default:
			b.WriteString("chan ")
		}
		writeType(b, t.Elem())
	case reflect.Func:
		writeFunc(b, t)
	case reflect.Struct:
		writeStruct(b, t)
	default:
		// unnamed interfaces
		b.WriteString(t.String())
	}
}

func writeFunc(b *strings.Builder, t reflect.Type) {
	b.WriteString("func(")
	for i := 0; i < t.NumIn(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if t.IsVariadic() && i == t.NumIn()-1 {
			b.WriteString("...")
			writeType(b, t.In(i).Elem())
			continue
		}
		writeType(b, t.In(i))
	}
	b.WriteByte(')')

	switch t.NumOut() {
	case 0:
	case 1:
		b.WriteByte(' ')
		writeType(b, t.Out(0))
	default:
		b.WriteString(" (")
		for i := 0; i < t.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, t.Out(i))
		}
		b.WriteByte(')')
	}
}

func writeStruct(b *strings.Builder, t reflect.Type) {
	if t.NumField() == 0 {
		b.WriteString("struct {}")
		return
	}
	b.WriteString("struct { ")
	for i := 0; i < t.NumField(); i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		f := t.Field(i)
		if !f.Anonymous {
			b.WriteString(f.Name)
			b.WriteByte(' ')
		}
		writeType(b, f.Type)
		if f.Tag != "" {
			b.WriteByte(' ')
			b.WriteString(strconv.Quote(string(f.Tag)))
		}
	}
	b.WriteString(" }")
}
