package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Printer renders Reports as human-readable text, following the teacher's
// cmd/ailang/main.go SprintFunc convention (green/red/yellow/cyan/bold)
// rather than hand-rolled ANSI escapes.
type Printer struct {
	red, yellow, cyan, bold func(a ...interface{}) string
}

// Colorize builds a Printer. When enabled is false every SprintFunc is a
// plain pass-through, so output stays readable when redirected to a file or
// when NO_COLOR-style environments are detected by the caller.
func Colorize(enabled bool) *Printer {
	if !enabled {
		plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
		return &Printer{red: plain, yellow: plain, cyan: plain, bold: plain}
	}
	return &Printer{
		red:    color.New(color.FgRed).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
		bold:   color.New(color.Bold).SprintFunc(),
	}
}

// Sprint renders one Report as a multi-line string: a bold category/code
// header, the message, then one indented line per labeled span.
func (p *Printer) Sprint(r *Report) string {
	var b strings.Builder
	label := p.red
	if !r.Category.Fatal() {
		label = p.yellow
	}
	fmt.Fprintf(&b, "%s %s: %s\n", p.bold(label(string(r.Category))), p.cyan(r.Code), r.Message)
	for _, sr := range r.Spans {
		role := sr.Role
		if role == "" {
			role = "at"
		}
		fmt.Fprintf(&b, "  %s %s\n", p.cyan(role), sr.Span.String())
	}
	if r.Fix != nil && r.Fix.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n", p.yellow("fix:"), r.Fix.Suggestion)
	}
	return b.String()
}

// SprintAll renders every Report in a Bag, separated by blank lines.
func (p *Printer) SprintAll(reports []*Report) string {
	parts := make([]string, len(reports))
	for i, r := range reports {
		parts[i] = p.Sprint(r)
	}
	return strings.Join(parts, "\n")
}
