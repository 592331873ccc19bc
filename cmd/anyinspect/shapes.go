package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/smallany/errors"
)

// shapeFile is the YAML document read by the shapes command:
//
//	shapes:
//	  - name: header
//	    fields:
//	      - {name: id, kind: uint64}
//	      - {name: tag, kind: uint8, len: 4}
type shapeFile struct {
	Shapes []shapeSpec `yaml:"shapes"`
}

type shapeSpec struct {
	Name   string      `yaml:"name"`
	Fields []fieldSpec `yaml:"fields"`
}

type fieldSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Len  *int   `yaml:"len,omitempty"`
}

var kinds = map[string]reflect.Type{
	"bool":       reflect.TypeFor[bool](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"byte":       reflect.TypeFor[byte](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"uintptr":    reflect.TypeFor[uintptr](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
	"string":     reflect.TypeFor[string](),
	"pointer":    reflect.TypeFor[*byte](),
	"slice":      reflect.TypeFor[[]byte](),
	"map":        reflect.TypeFor[map[string]any](),
	"any":        reflect.TypeFor[any](),
	"mutex":      reflect.TypeFor[sync.Mutex](),
}

// shape is a parsed shape with its synthesized struct type.
type shape struct {
	Name string
	Type reflect.Type
}

func parseShapes(data []byte) ([]shape, error) {
	var f shapeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.ParseFailed("shape file", err)
	}
	if len(f.Shapes) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no shapes defined")
	}

	seen := make(map[string]bool, len(f.Shapes))
	out := make([]shape, 0, len(f.Shapes))
	for i, s := range f.Shapes {
		if s.Name == "" {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path("shapes", fmt.Sprint(i)).
				Detail("shape name is required").
				Build()
		}
		if seen[s.Name] {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path("shapes", s.Name).
				Detail("duplicate shape").
				Build()
		}
		seen[s.Name] = true

		t, err := buildShape(s)
		if err != nil {
			return nil, err
		}
		out = append(out, shape{Name: s.Name, Type: t})
	}
	return out, nil
}

func buildShape(s shapeSpec) (reflect.Type, error) {
	fields := make([]reflect.StructField, 0, len(s.Fields))
	names := make(map[string]bool, len(s.Fields))

	for _, fs := range s.Fields {
		fail := func(value any, format string, args ...any) error {
			return errors.New(errors.PhaseParse, errors.KindInvalidInput).
				Path("shapes", s.Name, fs.Name).
				Value(value).
				Detail(format, args...).
				Build()
		}

		name, ok := exportName(fs.Name)
		if !ok {
			return nil, fail(fs.Name, "invalid field name %q", fs.Name)
		}
		if names[name] {
			return nil, fail(fs.Name, "duplicate field")
		}
		names[name] = true

		t, ok := kinds[fs.Kind]
		if !ok {
			err := errors.NotFound(errors.PhaseParse, "kind", fs.Kind)
			err.Path = []string{"shapes", s.Name, fs.Name}
			err.Value = fs.Kind
			return nil, err
		}
		if fs.Len != nil {
			if *fs.Len < 0 {
				return nil, fail(*fs.Len, "negative array length %d", *fs.Len)
			}
			t = reflect.ArrayOf(*fs.Len, t)
		}
		fields = append(fields, reflect.StructField{Name: name, Type: t})
	}
	return reflect.StructOf(fields), nil
}

// exportName upper-cases the first letter of an identifier so StructOf
// accepts it.
func exportName(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return "", false
	}
	r := []rune(s)
	if !unicode.IsLetter(r[0]) {
		return "", false
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r), true
}

func readShapeFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	kind := errors.KindInvalidInput
	if os.IsNotExist(err) {
		kind = errors.KindNotFound
	}
	return nil, errors.Wrap(errors.PhaseParse, kind, err, "read "+path)
}

func shapeRows(shapes []shape) []row {
	rows := make([]row, len(shapes))
	for i, s := range shapes {
		rows[i] = decisionRow(s.Name, s.Type)
		rows[i].Type = strings.TrimPrefix(s.Type.String(), "struct ")
	}
	return rows
}

func newShapesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "shapes -f <file.yaml>",
		Short: "Show storage decisions for struct shapes described in YAML",
		Long: `Shapes reads struct layouts from a YAML file and reports how each
would be stored.

Example file:
  shapes:
    - name: header
      fields:
        - {name: id, kind: uint64}
        - {name: tag, kind: uint8, len: 4}
    - name: guarded
      fields:
        - {name: mu, kind: mutex}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readShapeFile(file)
			if err != nil {
				return err
			}
			shapes, err := parseShapes(data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render(shapeRows(shapes), styled(out)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML shape file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
