package main

import (
	"sort"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/program"
	"github.com/fixlang/fixc/internal/types"
)

// examples holds small, fully Go-constructed modules with real global
// bodies, for "fixc specialize" to drive end to end. Fixture YAML (see
// internal/fixture) covers declaration shape but never expression bodies —
// parsing Fix source is out of scope (spec.md §1 Non-goals) — so these
// built-ins stand in for "a module with code" the way
// internal/program/pipeline_test.go's unitModule fixture does.
var examples = map[string]func() *program.Module{
	"unit":     unitExampleModule,
	"identity": identityExampleModule,
}

func exampleNames() []string {
	out := make([]string, 0, len(examples))
	for name := range examples {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func unitCon() *types.TyCon {
	return &types.TyCon{Name: names.Local("Unit"), Kind: kinds.Star}
}

// unitExampleModule declares a nullary struct Unit and a single ground
// exported global "make" constructing one, so specialization has a root
// to seed without any --demand flag.
func unitExampleModule() *program.Module {
	makeScheme := &types.Scheme{Qual: &types.QualType{Type: unitCon()}}
	makeBody := &ast.Expr{Payload: ast.MakeStruct{Tycon: names.Local("Unit"), Fields: map[string]*ast.Expr{}}}

	return &program.Module{
		Namespace: names.NameSpace{"App"},
		Source:    "struct Unit {}\nglobal make : Unit",
		Structs:   []program.StructDecl{{Name: "Unit"}},
		Globals: []program.GlobalDecl{
			{Name: "make", Scheme: makeScheme, Body: makeBody, Exported: true},
		},
	}
}

// identityExampleModule declares the generic identity function, exported
// with no ground instantiation — specializing it requires an explicit
// "--demand App.identity:Unit -> Unit" (or any other concrete type).
func identityExampleModule() *program.Module {
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	scheme := types.Generalize(&types.QualType{Type: &types.FunTy{From: a, To: a}}, map[string]bool{})
	body := &ast.Expr{
		Payload: ast.Lam{
			Params: []ast.Pattern{ast.VarPattern{Name: "x"}},
			Body:   &ast.Expr{Payload: ast.Var{Ref: names.Local("x")}},
		},
	}

	return &program.Module{
		Namespace: names.NameSpace{"App"},
		Source:    "global identity : forall a. a -> a",
		Globals: []program.GlobalDecl{
			{Name: "identity", Scheme: scheme, Body: body, Exported: true},
		},
	}
}
