package main

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/spf13/cobra"

	"github.com/wippyai/smallany"
)

// sample is a catalog entry that can build a live container of its type.
type sample struct {
	name  string
	typ   reflect.Type
	build func() (smallany.Any, error)
}

func sampleOf[T any](name string) sample {
	return sample{
		name: name,
		typ:  reflect.TypeFor[T](),
		build: func() (smallany.Any, error) {
			var zero T
			return smallany.New(zero)
		},
	}
}

type (
	vec2   struct{ X, Y float32 }
	vec3   struct{ X, Y, Z float64 }
	vec4   struct{ X, Y, Z, W float64 }
	header struct {
		ID    uint64
		Flags uint32
		Tag   [4]byte
	}
	named struct {
		Name string
	}
	guarded struct {
		mu sync.Mutex
		n  int
	}
)

func builtinSamples() []sample {
	return []sample{
		sampleOf[bool]("bool"),
		sampleOf[int]("int"),
		sampleOf[float64]("float64"),
		sampleOf[complex128]("complex128"),
		sampleOf[vec2]("vec2"),
		sampleOf[vec3]("vec3"),
		sampleOf[vec4]("vec4"),
		sampleOf[header]("header"),
		sampleOf[[3]uintptr]("three words"),
		sampleOf[[64]byte]("64 bytes"),
		sampleOf[string]("string"),
		sampleOf[[]byte]("byte slice"),
		sampleOf[map[string]int]("map"),
		sampleOf[*int]("pointer"),
		sampleOf[error]("interface"),
		sampleOf[named]("named"),
		sampleOf[guarded]("guarded"),
		sampleOf[smallany.Any]("nested any"),
	}
}

// catalogRows evaluates every sample and cross-checks the policy against
// a live container.
func catalogRows(samples []sample) ([]row, error) {
	rows := make([]row, 0, len(samples))
	for _, s := range samples {
		r := decisionRow(s.name, s.typ)

		a, err := s.build()
		switch {
		case err != nil && r.Storage != "rejected":
			return nil, fmt.Errorf("build %s: %w", s.name, err)
		case err == nil:
			live := smallany.Inline
			if a.Boxed() {
				live = smallany.Boxed
			}
			a.Clear()
			if live.String() != r.Storage {
				return nil, fmt.Errorf("%s: policy says %s, container is %s", s.name, r.Storage, live)
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func newCatalogCmd() *cobra.Command {
	var showTables bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show storage decisions for built-in sample types",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := catalogRows(builtinSamples())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render(rows, styled(out)))

			if showTables {
				fmt.Fprintln(out)
				for _, info := range smallany.Tables() {
					fmt.Fprintf(out, "%-40s %-6s size=%d drops=%t clones=%t\n",
						info.Type.ShortName(), info.Kind, info.Size, info.Drops, info.Clones)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTables, "tables", false, "also list the operation tables built")
	return cmd
}
