package smallany

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/smallany/errors"
	"github.com/wippyai/smallany/internal/layout"
	"github.com/wippyai/smallany/typeid"
)

// table is the per-type operation table. One exists per concrete type for
// the life of the process and every container holding that type points at
// it. Source storages passed to its functions hold a value of the type;
// destination storages are empty.
type table struct {
	rtype reflect.Type
	id    typeid.ID

	// emplace writes *src into the empty dst. Boxed types allocate.
	emplace func(dst *storage, src unsafe.Pointer, alloc Allocator, phase errors.Phase) error
	// copy duplicates src into the empty dst, through Clone when available.
	copy func(src, dst *storage, alloc Allocator) error
	// move relocates src into the empty dst and leaves src empty.
	move func(src, dst *storage)
	// swap exchanges two payloads of this type in place.
	swap func(a, b *storage)
	// destroy runs Drop when available, releases the box and empties s.
	destroy func(s *storage, alloc Allocator)

	reason string // non-empty when the type is rejected
	info   layout.Info
	kind   StorageKind
	drops  bool
	clones bool
}

func (t *table) pointer(s *storage) unsafe.Pointer {
	if t.kind == Boxed {
		return s.box
	}
	return s.inline()
}

type tableEntry struct {
	tab  atomic.Pointer[table]
	once sync.Once
}

var registry sync.Map // reflect.Type -> *tableEntry

// tableFor returns the table for T, building it on first use. Concurrent
// first uses build exactly once; all callers observe the finished table.
func tableFor[T any]() *table {
	rt := reflect.TypeFor[T]()

	v, ok := registry.Load(rt)
	if !ok {
		v, _ = registry.LoadOrStore(rt, new(tableEntry))
	}
	e := v.(*tableEntry)

	e.once.Do(func() {
		tab := buildTable[T](rt)
		e.tab.Store(tab)
		Logger().Debug("operation table built",
			zap.String("type", tab.id.Name()),
			zap.Stringer("storage", tab.kind),
			zap.Uintptr("size", tab.info.Size),
			zap.Uintptr("align", tab.info.Align),
			zap.Bool("drops", tab.drops),
			zap.Bool("clones", tab.clones))
	})
	return e.tab.Load()
}

func buildTable[T any](rt reflect.Type) *table {
	d := Decide(rt)
	_, drops := any((*T)(nil)).(Dropper)
	_, clones := any((*T)(nil)).(Cloner[T])

	tab := &table{
		rtype:  rt,
		id:     typeid.OfType(rt),
		info:   d.Layout,
		kind:   d.Kind,
		drops:  drops,
		clones: clones,
	}
	if !d.Copyable {
		tab.reason = d.Reason
	}

	if d.Kind == Inline {
		bindInline[T](tab)
	} else {
		bindBoxed[T](tab)
	}

	tab.copy = func(src, dst *storage, alloc Allocator) error {
		sp := tab.pointer(src)
		if !clones {
			return tab.emplace(dst, sp, alloc, errors.PhaseCopy)
		}

		v, err := any((*T)(sp)).(Cloner[T]).Clone()
		if err != nil {
			return errors.CloneFailed(tab.id.Name(), err)
		}
		if err := tab.emplace(dst, unsafe.Pointer(&v), alloc, errors.PhaseCopy); err != nil {
			if drops {
				any(&v).(Dropper).Drop()
			}
			return err
		}
		return nil
	}

	return tab
}

func bindInline[T any](tab *table) {
	tab.emplace = func(dst *storage, src unsafe.Pointer, _ Allocator, _ errors.Phase) error {
		*(*T)(dst.inline()) = *(*T)(src)
		return nil
	}

	tab.move = func(src, dst *storage) {
		dst.words = src.words
		src.words = [InlineWords]uintptr{}
	}

	tab.swap = func(a, b *storage) {
		pa, pb := (*T)(a.inline()), (*T)(b.inline())
		*pa, *pb = *pb, *pa
	}

	tab.destroy = func(s *storage, _ Allocator) {
		if tab.drops {
			any((*T)(s.inline())).(Dropper).Drop()
		}
		s.words = [InlineWords]uintptr{}
	}
}

func bindBoxed[T any](tab *table) {
	tab.emplace = func(dst *storage, src unsafe.Pointer, alloc Allocator, phase errors.Phase) error {
		p, err := alloc.Alloc(tab.rtype)
		if err != nil {
			Logger().Warn("box allocation failed",
				zap.String("type", tab.id.Name()),
				zap.Uintptr("size", tab.info.Size),
				zap.Error(err))
			return errors.New(phase, errors.KindAllocation).
				Type(tab.id.Name()).
				Detail("allocate %d bytes", tab.info.Size).
				Cause(err).
				Build()
		}
		*(*T)(p) = *(*T)(src)
		dst.box = p
		return nil
	}

	tab.move = func(src, dst *storage) {
		dst.box = src.box
		src.box = nil
	}

	tab.swap = func(a, b *storage) {
		a.box, b.box = b.box, a.box
	}

	tab.destroy = func(s *storage, alloc Allocator) {
		p := (*T)(s.box)
		if tab.drops {
			any(p).(Dropper).Drop()
		}
		var zero T
		*p = zero
		alloc.Free(s.box, tab.rtype)
		s.box = nil
	}
}

// TableInfo describes a registered operation table.
type TableInfo struct {
	Type   typeid.ID
	Size   uintptr
	Align  uintptr
	Kind   StorageKind
	Drops  bool
	Clones bool
}

// Tables lists every operation table built so far, ordered by type name.
func Tables() []TableInfo {
	var out []TableInfo
	registry.Range(func(_, v any) bool {
		// entries still being built have no table yet
		if tab := v.(*tableEntry).tab.Load(); tab != nil {
			out = append(out, TableInfo{
				Type:   tab.id,
				Size:   tab.info.Size,
				Align:  tab.info.Align,
				Kind:   tab.kind,
				Drops:  tab.drops,
				Clones: tab.clones,
			})
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Type.Name() < out[j].Type.Name()
	})
	return out
}
