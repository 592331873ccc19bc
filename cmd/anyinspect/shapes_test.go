package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/smallany/errors"
)

const shapesYAML = `
shapes:
  - name: header
    fields:
      - {name: id, kind: uint32}
      - {name: tag, kind: uint8, len: 4}
  - name: wide
    fields:
      - {name: a, kind: uint64}
      - {name: b, kind: uint64}
      - {name: c, kind: uint64}
      - {name: d, kind: uint64}
  - name: label
    fields:
      - {name: text, kind: string}
  - name: guarded
    fields:
      - {name: mu, kind: mutex}
      - {name: n, kind: int}
  - name: empty
`

func TestParseShapes(t *testing.T) {
	shapes, err := parseShapes([]byte(shapesYAML))
	require.NoError(t, err)
	require.Len(t, shapes, 5)

	header := shapes[0]
	assert.Equal(t, "header", header.Name)
	assert.Equal(t, 2, header.Type.NumField())
	assert.Equal(t, "Id", header.Type.Field(0).Name)
	assert.Equal(t, "Tag", header.Type.Field(1).Name)
	assert.Equal(t, uintptr(8), header.Type.Size())

	rows := shapeRows(shapes)
	storage := make(map[string]string, len(rows))
	for _, r := range rows {
		storage[r.Name] = r.Storage
	}
	assert.Equal(t, map[string]string{
		"header":  "inline",
		"wide":    "boxed",
		"label":   "boxed",
		"guarded": "rejected",
		"empty":   "inline",
	}, storage)
	assert.Equal(t, "holds pointers", rows[2].Reason)
}

func TestParseShapesErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind errors.Kind
	}{
		{"malformed", "shapes: [", errors.KindInvalidInput},
		{"no shapes", "shapes: []", errors.KindInvalidInput},
		{"missing name", "shapes:\n  - fields: []", errors.KindInvalidInput},
		{"duplicate shape", "shapes:\n  - name: a\n  - name: a", errors.KindInvalidInput},
		{"unknown kind", "shapes:\n  - name: a\n    fields:\n      - {name: x, kind: quaternion}", errors.KindNotFound},
		{"bad field name", "shapes:\n  - name: a\n    fields:\n      - {name: 9lives, kind: int}", errors.KindInvalidInput},
		{"duplicate field", "shapes:\n  - name: a\n    fields:\n      - {name: x, kind: int}\n      - {name: X, kind: int}", errors.KindInvalidInput},
		{"negative len", "shapes:\n  - name: a\n    fields:\n      - {name: x, kind: int, len: -1}", errors.KindInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseShapes([]byte(tc.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseParse, Kind: tc.kind})
		})
	}
}

func TestParseShapesErrorContext(t *testing.T) {
	_, err := parseShapes([]byte("shapes:\n  - name: hdr\n    fields:\n      - {name: tag, kind: uint8, len: -4}"))
	require.Error(t, err)

	var perr *errors.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"shapes", "hdr", "tag"}, perr.Path)
	assert.Equal(t, -4, perr.Value)
	assert.Contains(t, err.Error(), "at shapes.hdr.tag")

	_, err = parseShapes([]byte("shapes:\n  - name: hdr\n    fields:\n      - {name: q, kind: quaternion}"))
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "quaternion", perr.Value)
	assert.Equal(t, []string{"shapes", "hdr", "q"}, perr.Path)
}

func TestReadShapeFile(t *testing.T) {
	_, err := readShapeFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindNotFound})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = readShapeFile(t.TempDir())
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidInput})
}

func TestExportName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"id", "Id", true},
		{"Tag", "Tag", true},
		{"x_1", "X_1", true},
		{"", "", false},
		{"_x", "", false},
		{"1x", "", false},
		{"a-b", "", false},
	}
	for _, tc := range tests {
		got, ok := exportName(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestShapesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shapesYAML), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--plain", "shapes", "-f", path})
	require.NoError(t, root.Execute())

	text := out.String()
	assert.Contains(t, text, "STORAGE")
	assert.Contains(t, text, "header")
	assert.Contains(t, text, "rejected")
}

func TestShapesCommandMissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"shapes", "-f", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, root.Execute())
}
