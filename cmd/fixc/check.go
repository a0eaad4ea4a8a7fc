package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/fixture"
	"github.com/fixlang/fixc/internal/program"
	"github.com/fixlang/fixc/internal/schema"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <fixture.yaml> [more.yaml...]",
		Short: "validate declarations (name resolution, kinds, coherence) without specializing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modules := make([]*program.Module, 0, len(args))
			for _, path := range args {
				m, err := fixture.Load(path)
				if err != nil {
					return err
				}
				modules = append(modules, m)
			}

			pl := program.NewPipeline(modules)
			res := pl.Check(context.Background())
			return reportAndExit(res.Diagnostics)
		},
	}
}

// reportAndExit prints every diagnostic (JSON or colored text, per the
// persistent --json/--no-color flags) and returns a non-nil error, causing
// cobra to exit 1, iff any fatal diagnostic was reported.
func reportAndExit(reports []*diag.Report) error {
	fatal := false
	for _, r := range reports {
		if r.Category.Fatal() {
			fatal = true
		}
	}

	if jsonOutput {
		data, err := schema.MarshalDeterministic(map[string]any{"diagnostics": reports})
		if err != nil {
			return fmt.Errorf("fixc: marshal diagnostics: %w", err)
		}
		pretty, err := schema.FormatJSON(data)
		if err != nil {
			return fmt.Errorf("fixc: format diagnostics: %w", err)
		}
		fmt.Println(string(pretty))
	} else {
		printer := diag.Colorize(!noColor)
		if len(reports) == 0 {
			fmt.Fprintln(os.Stdout, "ok: no diagnostics")
		} else {
			fmt.Print(printer.SprintAll(reports))
		}
	}

	if fatal {
		return fmt.Errorf("fixc: fatal diagnostics reported")
	}
	return nil
}
