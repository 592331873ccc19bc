// Command anyinspect reports how smallany stores types: inline in the
// container or boxed on the heap, and why.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/smallany"
)

// Global flag values.
var (
	flagVerbose bool
	flagPlain   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "anyinspect",
		Short: "Inspect smallany storage decisions",
		Long: `anyinspect shows whether a type is stored inline in a smallany
container or boxed on the heap, together with its size, alignment and the
reason for the decision.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !flagVerbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			smallany.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = smallany.Logger().Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log table construction to stderr")
	root.PersistentFlags().BoolVar(&flagPlain, "plain", false, "disable colors and borders")

	root.AddCommand(newCatalogCmd())
	root.AddCommand(newShapesCmd())
	root.AddCommand(newBrowseCmd())
	return root
}
