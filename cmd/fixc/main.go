// Command fixc is the Fix frontend's driver: it loads declaration fixtures
// or built-in example programs, runs them through internal/program.Pipeline
// (spec.md §2's eight steps), and reports diagnostics and specialized
// symbols. Grounded on the teacher's cmd/ailang/main.go (a cobra-free flag
// driver over one evaluator) restructured onto github.com/spf13/cobra per
// _examples/termfx-morfx/demo/cmd/main.go's root-command-plus-AddCommand
// shape, with github.com/fatih/color output carried over unchanged via
// internal/diag.Printer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	noColor    bool
)

func main() {
	root := &cobra.Command{
		Use:   "fixc",
		Short: "Fix language frontend: name resolution, kind/type checking, specialization",
	}
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit diagnostics as deterministic JSON (spec.md §6)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newSpecializeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
