package main

import (
	"reflect"
	"strconv"

	"github.com/wippyai/smallany"
	"github.com/wippyai/smallany/typeid"
)

// row is one line of a report.
type row struct {
	Name        string
	Type        string
	Size        uintptr
	Align       uintptr
	Words       uintptr
	PointerFree bool
	Storage     string
	Reason      string
}

var columns = []string{"NAME", "TYPE", "SIZE", "ALIGN", "WORDS", "PTR-FREE", "STORAGE", "REASON"}

func (r row) cells() []string {
	return []string{
		r.Name,
		r.Type,
		strconv.FormatUint(uint64(r.Size), 10),
		strconv.FormatUint(uint64(r.Align), 10),
		strconv.FormatUint(uint64(r.Words), 10),
		strconv.FormatBool(r.PointerFree),
		r.Storage,
		r.Reason,
	}
}

// decisionRow describes t using the storage policy alone.
func decisionRow(name string, t reflect.Type) row {
	d := smallany.Decide(t)
	r := row{
		Name:        name,
		Type:        typeid.OfType(t).ShortName(),
		Size:        d.Layout.Size,
		Align:       d.Layout.Align,
		Words:       d.Layout.Words(),
		PointerFree: d.Layout.PointerFree,
		Storage:     d.Kind.String(),
		Reason:      d.Reason,
	}
	if !d.Copyable {
		r.Storage = "rejected"
	}
	return r
}
