package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/fixture"
	"github.com/fixlang/fixc/internal/program"
)

// replCommands lists every ":"-prefixed command for liner's completer,
// grounded on the teacher's internal/repl.Start completer list.
var replCommands = []string{":check", ":specialize", ":list", ":help", ":quit"}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactive loop over fixc check/specialize",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(os.Stdout)
			return nil
		},
	}
}

// runRepl drives a line-editing loop the way the teacher's internal/repl
// drove AILANG's: github.com/peterh/liner for history and completion
// (liner doesn't render ANSI colors in the prompt itself, so the prompt
// stays plain and only printed results are colored).
func runRepl(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".fixc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	line.SetCompleter(func(in string) (c []string) {
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintln(out, "fixc repl — :check <fixture.yaml>, :specialize <example> [demand...], :list, :quit")

	for {
		input, err := line.Prompt("fixc> ")
		if err == io.EOF {
			fmt.Fprintln(out, "goodbye")
			return
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		fields := strings.Fields(input)
		switch fields[0] {
		case ":quit", ":q", ":exit":
			fmt.Fprintln(out, "goodbye")
			return
		case ":help":
			fmt.Fprintln(out, "commands: :check <fixture.yaml>, :specialize <example> [name:Type ...], :list, :quit")
		case ":list":
			fmt.Fprintln(out, strings.Join(exampleNames(), "\n"))
		case ":check":
			replCheck(out, fields[1:])
		case ":specialize":
			replSpecialize(out, fields[1:])
		default:
			fmt.Fprintf(out, "unknown command %q; try :help\n", fields[0])
		}
	}
}

func replCheck(out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: :check <fixture.yaml>")
		return
	}
	m, err := fixture.Load(args[0])
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	res := program.NewPipeline([]*program.Module{m}).Check(context.Background())
	printer := diag.Colorize(!noColor)
	if len(res.Diagnostics) == 0 {
		fmt.Fprintln(out, "ok: no diagnostics")
		return
	}
	fmt.Fprint(out, printer.SprintAll(res.Diagnostics))
}

func replSpecialize(out io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(out, "usage: :specialize <example> [name:Type ...]")
		return
	}
	build, ok := examples[args[0]]
	if !ok {
		fmt.Fprintf(out, "unknown example %q; try :list\n", args[0])
		return
	}
	demands, err := parseDemands(args[1:])
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	res := program.NewPipeline([]*program.Module{build()}).Run(context.Background(), demands)
	printer := diag.Colorize(!noColor)
	if len(res.Diagnostics) > 0 {
		fmt.Fprint(out, printer.SprintAll(res.Diagnostics))
	}
	for key, sym := range res.Specialized {
		fmt.Fprintf(out, "%s : %s\n", key, sym.Type.String())
	}
}
