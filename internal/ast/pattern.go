package ast

import (
	"fmt"

	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// Pattern is the tagged variant of spec.md §3: Var, Struct or Union.
type Pattern interface {
	patternKind()
	// Vars returns every variable bound by this pattern (used by Valid to
	// check pairwise distinctness). A struct pattern's fields are visited
	// in Go map order, so the order of the result is not defined.
	Vars() []string
}

// VarPattern binds a single variable, optionally with a type annotation.
type VarPattern struct {
	Name string
	Type types.Type // nil if unannotated
}

func (VarPattern) patternKind()     {}
func (p VarPattern) Vars() []string { return []string{p.Name} }

// StructPattern destructures a struct tycon by field name.
type StructPattern struct {
	Tycon  names.FullName
	Fields map[string]Pattern
}

func (StructPattern) patternKind() {}
func (p StructPattern) Vars() []string {
	var out []string
	for _, sub := range p.Fields {
		out = append(out, sub.Vars()...)
	}
	return out
}

// UnionPattern matches a single variant of a union tycon.
type UnionPattern struct {
	Tycon   names.FullName
	Variant string
	Sub     Pattern
}

func (UnionPattern) patternKind() {}
func (p UnionPattern) Vars() []string {
	if p.Sub == nil {
		return nil
	}
	return p.Sub.Vars()
}

// Valid reports whether every variable occurrence in p is pairwise
// distinct (spec.md §3 "A pattern is valid iff variable occurrences are
// pairwise distinct").
func Valid(p Pattern) error {
	seen := make(map[string]bool)
	for _, v := range p.Vars() {
		if seen[v] {
			return fmt.Errorf("duplicate pattern variable %q", v)
		}
		seen[v] = true
	}
	return nil
}
