package smallany

import (
	"unsafe"

	"github.com/wippyai/smallany/internal/layout"
)

// InlineWords is the number of machine words a container reserves for
// inline payloads.
const InlineWords = 3

// InlineCapacity is the inline region size in bytes.
const InlineCapacity = InlineWords * layout.WordSize

// InlineAlign is the alignment guaranteed for the start of the inline region.
const InlineAlign = layout.WordAlign

// storage is the per-container region. Exactly one of words or box is live,
// as decided by the attached table's StorageKind.
//
// words is declared as uintptr so the garbage collector never scans it;
// only pointer-free payloads are placed there. box is a GC-visible pointer
// to a typed heap block.
type storage struct {
	words [InlineWords]uintptr
	box   unsafe.Pointer
}

func (s *storage) inline() unsafe.Pointer {
	return unsafe.Pointer(&s.words)
}
