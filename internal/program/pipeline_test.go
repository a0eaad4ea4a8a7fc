package program

import (
	"context"
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

func unitCon() *types.TyCon {
	return &types.TyCon{Name: names.Local("Unit"), Kind: kinds.Star}
}

// unitModule declares a single nullary struct Unit and two exported
// globals: one ground ("make", returning a Unit value by construction)
// and one generic ("identity", forall a. a -> a) with no implementation
// beyond returning its argument unchanged.
func unitModule() *Module {
	ns := names.NameSpace{"App"}

	makeScheme := &types.Scheme{Qual: &types.QualType{Type: unitCon()}}
	makeBody := &ast.Expr{Payload: ast.MakeStruct{Tycon: names.Local("Unit"), Fields: map[string]*ast.Expr{}}}

	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	identityScheme := types.Generalize(&types.QualType{Type: &types.FunTy{From: a, To: a}}, map[string]bool{})
	identityBody := &ast.Expr{
		Payload: ast.Lam{
			Params: []ast.Pattern{ast.VarPattern{Name: "x"}},
			Body:   &ast.Expr{Payload: ast.Var{Ref: names.Local("x")}},
		},
	}

	return &Module{
		Namespace: ns,
		Source:    "struct Unit {}\nglobal make : Unit\nglobal identity : forall a. a -> a",
		Structs: []StructDecl{
			{Name: "Unit"},
		},
		Globals: []GlobalDecl{
			{Name: "make", Scheme: makeScheme, Body: makeBody, Exported: true},
			{Name: "identity", Scheme: identityScheme, Body: identityBody, Exported: true},
		},
	}
}

func TestPipelineRunSpecializesGroundExportedGlobal(t *testing.T) {
	pl := NewPipeline([]*Module{unitModule()})
	res := pl.Run(context.Background(), nil)

	for _, r := range res.Diagnostics {
		if r.Category.Fatal() {
			t.Fatalf("unexpected fatal diagnostic: %s: %s", r.Code, r.Message)
		}
	}

	full := names.In(names.NameSpace{"App"}, "make")
	found := false
	for _, sym := range res.Specialized {
		if sym.Name.Generic.Equals(full) {
			found = true
			if sym.Expr == nil {
				t.Fatalf("expected make's instantiated symbol to carry an elaborated body")
			}
		}
	}
	if !found {
		t.Fatalf("expected %s to be specialized automatically as a ground exported global, got %v", full, res.Specialized)
	}
}

func TestPipelineRunFlagsUndeterminedGenericExport(t *testing.T) {
	pl := NewPipeline([]*Module{unitModule()})
	res := pl.Run(context.Background(), nil)

	found := false
	for _, r := range res.Diagnostics {
		if r.Code == "UD001" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected identity's generic export with no Demand to be flagged Undetermined, got %v", res.Diagnostics)
	}

	full := names.In(names.NameSpace{"App"}, "identity")
	for _, sym := range res.Specialized {
		if sym.Name.Generic.Equals(full) {
			t.Fatalf("identity should not be specialized without an explicit Demand or a ground use")
		}
	}
}

func TestPipelineRunHonorsExplicitDemand(t *testing.T) {
	pl := NewPipeline([]*Module{unitModule()})
	full := names.In(names.NameSpace{"App"}, "identity")
	unitToUnit := &types.FunTy{From: unitCon(), To: unitCon()}

	res := pl.Run(context.Background(), []Demand{{Name: full, Type: unitToUnit}})

	found := false
	for _, sym := range res.Specialized {
		if sym.Name.Generic.Equals(full) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected identity to be specialized at Unit -> Unit once explicitly demanded, got %v", res.Specialized)
	}
}

func TestPipelineRunReportsCrossCategoryCollision(t *testing.T) {
	m := unitModule()
	m.Traits = append(m.Traits, TraitDecl{Name: "Unit", TyVar: "a", TyVarKind: kinds.Star})

	pl := NewPipeline([]*Module{m})
	res := pl.Run(context.Background(), nil)

	found := false
	for _, r := range res.Diagnostics {
		if r.Code == "DU001" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate-declaration diagnostic for Unit naming both a struct and a trait, got %v", res.Diagnostics)
	}
}
