package specialize

import (
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

func intCon() types.Type  { return &types.TyCon{Name: names.In(names.Std, "Int"), Kind: kinds.Star} }
func boolCon() types.Type { return &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star} }

// identityElaborate returns the body it is given unchanged, typed exactly
// as required — a minimal stand-in for what internal/elaborate would
// produce for `id : forall a. a -> a` instantiated at `required`.
func identityElaborate(_ names.FullName, _ *types.Scheme, body *ast.Expr, required types.Type) (*ast.Expr, types.Substitution, error) {
	return body.WithType(required), types.Empty(), nil
}

func idGlobal() *ast.GlobalValue {
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	return &ast.GlobalValue{
		Name:   names.In(names.Std, "id"),
		Scheme: types.Generalize(&types.QualType{Type: &types.FunTy{From: a, To: a}}, map[string]bool{}),
		Body:   ast.Simple{Expr: &ast.Expr{Payload: ast.Lit{DeclaredType: &types.FunTy{From: a, To: a}}}},
	}
}

func globalsOf(gvs ...*ast.GlobalValue) Globals {
	return func(name names.FullName) (*ast.GlobalValue, bool) {
		for _, g := range gvs {
			if g.Name.Equals(name) {
				return g, true
			}
		}
		return nil, false
	}
}

func TestDemandSharesInstantiationForSameConcreteType(t *testing.T) {
	sp := New(globalsOf(idGlobal()), traits.NewEnv(), identityElaborate)
	ty := &types.FunTy{From: intCon(), To: intCon()}
	first := sp.Demand(names.In(names.Std, "id"), ty)
	second := sp.Demand(names.In(names.Std, "id"), ty)
	if first.String() != second.String() {
		t.Fatalf("expected two demands of the same type to share one instantiation, got %s and %s", first, second)
	}
	if len(sp.deferred) != 1 {
		t.Fatalf("expected exactly one deferred symbol, got %d", len(sp.deferred))
	}
}

func TestRunProducesDistinctSymbolsForDistinctTypes(t *testing.T) {
	sp := New(globalsOf(idGlobal()), traits.NewEnv(), identityElaborate)
	sp.Demand(names.In(names.Std, "id"), &types.FunTy{From: intCon(), To: intCon()})
	sp.Demand(names.In(names.Std, "id"), &types.FunTy{From: boolCon(), To: boolCon()})
	if err := sp.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sp.Instantiated()) != 2 {
		t.Fatalf("expected two distinct instantiated symbols, got %d", len(sp.Instantiated()))
	}
}

func TestRunRejectsTypeWithFreeVariables(t *testing.T) {
	sp := New(globalsOf(idGlobal()), traits.NewEnv(), identityElaborate)
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	sp.Demand(names.In(names.Std, "id"), &types.FunTy{From: a, To: a})
	err := sp.Run()
	if _, ok := err.(*TypeUndeterminedError); !ok {
		t.Fatalf("expected TypeUndeterminedError, got %v", err)
	}
}

// Global rewrite (spec.md §4.5 "Global rewrite" and §8 property 5/6): a
// non-local Var inside a specialized body must be replaced by a Var whose
// Ref is the demanded InstantiatedName, and that name must itself appear
// in Instantiated() by the time Run finishes.
func TestRunRewritesNonLocalVarAndClosesOverDemand(t *testing.T) {
	helper := &ast.GlobalValue{
		Name:   names.In(names.Std, "helper"),
		Scheme: types.Generalize(&types.QualType{Type: intCon()}, map[string]bool{}),
		Body:   ast.Simple{Expr: &ast.Expr{Payload: ast.Lit{DeclaredType: intCon()}}},
	}
	caller := &ast.GlobalValue{
		Name:   names.In(names.Std, "caller"),
		Scheme: types.Generalize(&types.QualType{Type: intCon()}, map[string]bool{}),
		Body: ast.Simple{Expr: &ast.Expr{
			Payload: ast.Var{Ref: names.In(names.Std, "helper")},
			Type:    types.NewTypeNode(intCon()),
		}},
	}
	elaborate := func(_ names.FullName, _ *types.Scheme, body *ast.Expr, required types.Type) (*ast.Expr, types.Substitution, error) {
		return body.WithType(required), types.Empty(), nil
	}
	sp := New(globalsOf(helper, caller), traits.NewEnv(), elaborate)
	callerName := sp.Demand(names.In(names.Std, "caller"), intCon())
	if err := sp.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	callerSym := sp.Instantiated()[callerName.String()]
	v, ok := callerSym.Expr.Payload.(ast.Var)
	if !ok {
		t.Fatalf("expected the rewritten body to still be a Var, got %T", callerSym.Expr.Payload)
	}
	helperName := InstantiatedName{Generic: names.In(names.Std, "helper"), Hash: hashType(intCon())}
	if !v.Ref.Equals(helperName.FullName()) {
		t.Fatalf("expected Var to be rewritten to %s, got %s", helperName.FullName(), v.Ref)
	}
	if _, ok := sp.Instantiated()[helperName.String()]; !ok {
		t.Fatalf("expected helper's instantiation to be present in Instantiated()")
	}
}

func TestMethodSelectionPicksUnifyingImpl(t *testing.T) {
	intImpl := ast.MethodImpl{
		Scheme: types.Generalize(&types.QualType{Type: intCon()}, map[string]bool{}),
		Expr:   &ast.Expr{Payload: ast.Lit{DeclaredType: intCon(), CodeGen: ast.CodeGenDescriptor{Kind: "int-impl"}}},
	}
	boolImpl := ast.MethodImpl{
		Scheme: types.Generalize(&types.QualType{Type: boolCon()}, map[string]bool{}),
		Expr:   &ast.Expr{Payload: ast.Lit{DeclaredType: boolCon(), CodeGen: ast.CodeGenDescriptor{Kind: "bool-impl"}}},
	}
	show := &ast.GlobalValue{
		Name: names.In(names.Std, "show"),
		Body: ast.Method{Impls: []ast.MethodImpl{intImpl, boolImpl}},
	}

	var gotKind string
	elaborate := func(_ names.FullName, _ *types.Scheme, body *ast.Expr, required types.Type) (*ast.Expr, types.Substitution, error) {
		gotKind = body.Payload.(ast.Lit).CodeGen.Kind
		return body.WithType(required), types.Empty(), nil
	}
	sp := New(globalsOf(show), traits.NewEnv(), elaborate)
	sp.Demand(names.In(names.Std, "show"), boolCon())
	if err := sp.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKind != "bool-impl" {
		t.Fatalf("expected method selection to pick the Bool implementation, got %s", gotKind)
	}
}
