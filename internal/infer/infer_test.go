package infer

import (
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

func newTestContext() *Context {
	return NewContext(traits.NewEnv(), nil, nil)
}

func varExpr(name string) *ast.Expr {
	return &ast.Expr{Payload: ast.Var{Ref: names.Local(name)}}
}

func litExpr(t types.Type) *ast.Expr {
	return &ast.Expr{Payload: ast.Lit{DeclaredType: t}}
}

func TestInferIdentityLambda(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	id := &ast.Expr{Payload: ast.Lam{Params: []ast.Pattern{ast.VarPattern{Name: "x"}}, Body: varExpr("x")}}
	res, err := Infer(ctx, env, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn, ok := res.Type.(*types.FunTy)
	if !ok {
		t.Fatalf("expected a function type, got %s", res.Type)
	}
	if !fn.From.Equals(fn.To) {
		t.Fatalf("expected identity's argument and result to unify, got %s -> %s", fn.From, fn.To)
	}
}

func TestInferApplicationUnifiesArgument(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	// (\x -> x) True
	id := &ast.Expr{Payload: ast.Lam{Params: []ast.Pattern{ast.VarPattern{Name: "x"}}, Body: varExpr("x")}}
	app := &ast.Expr{Payload: ast.App{Fun: id, Args: []*ast.Expr{litExpr(boolCon())}}}
	res, err := Infer(ctx, env, app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Type.Equals(boolCon()) {
		t.Fatalf("expected Bool, got %s", res.Type)
	}
}

func TestInferIfUnifiesBranches(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	ifExpr := &ast.Expr{Payload: ast.If{
		Cond: litExpr(boolCon()),
		Then: litExpr(intCon()),
		Else: litExpr(intCon()),
	}}
	res, err := Infer(ctx, env, ifExpr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Type.Equals(intCon()) {
		t.Fatalf("expected Int, got %s", res.Type)
	}
}

func TestInferIfRejectsNonBoolCondition(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	ifExpr := &ast.Expr{Payload: ast.If{
		Cond: litExpr(intCon()),
		Then: litExpr(intCon()),
		Else: litExpr(intCon()),
	}}
	_, err := Infer(ctx, env, ifExpr)
	if _, ok := err.(*UnifyError); !ok {
		t.Fatalf("expected UnifyError, got %v", err)
	}
}

// Let-generalization (spec.md §8 property 3, "principal type"): a let-bound
// identity function must be used at two different types in its body.
func TestInferLetGeneralizesAcrossUses(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	id := &ast.Expr{Payload: ast.Lam{Params: []ast.Pattern{ast.VarPattern{Name: "x"}}, Body: varExpr("x")}}
	body := &ast.Expr{Payload: ast.MakeStruct{
		Tycon: names.In(names.Std, "Pair"),
		Fields: map[string]*ast.Expr{
			"fst": {Payload: ast.App{Fun: varExpr("id"), Args: []*ast.Expr{litExpr(intCon())}}},
			"snd": {Payload: ast.App{Fun: varExpr("id"), Args: []*ast.Expr{litExpr(boolCon())}}},
		},
	}}
	letExpr := &ast.Expr{Payload: ast.Let{Pattern: ast.VarPattern{Name: "id"}, Bound: id, Body: body}}

	structFields := func(tycon names.FullName) (map[string]types.Type, error) {
		return map[string]types.Type{"fst": intCon(), "snd": boolCon()}, nil
	}
	ctx.StructFields = structFields

	_, err := Infer(ctx, env, letExpr)
	if err != nil {
		t.Fatalf("expected let-bound identity to generalize across uses, got error: %v", err)
	}
}

func TestInferUnboundVariable(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	_, err := Infer(ctx, env, varExpr("nope"))
	if _, ok := err.(*UnboundVariableError); !ok {
		t.Fatalf("expected UnboundVariableError, got %v", err)
	}
}

func TestInferGlobalDeclaredContextDischargesOwnPredicate(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	// declared: forall a. a : Eq => a -> Bool, but the trait has no
	// instances at all, so the predicate can never be discharged.
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	declared := &types.Scheme{
		Vars: []types.TyVar{{Name: "a", Kind: kinds.Star}},
		Qual: &types.QualType{
			Preds: []types.Predicate{{Type: a, Trait: eqTraitName()}},
			Type:  &types.FunTy{From: a, To: boolCon()},
		},
	}
	body := &ast.Expr{Payload: ast.Lam{
		Params: []ast.Pattern{ast.VarPattern{Name: "x"}},
		Body:   litExpr(boolCon()),
	}}
	res, err := InferGlobal(ctx, env, declared, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Preds) != 1 {
		t.Fatalf("expected the Eq predicate to survive simplification, got %v", res.Preds)
	}
}

// A predicate on a variable that never appears in the declared type and
// isn't part of the declared context can never be resolved: ambiguous.
func TestInferGlobalAmbiguousPredicateRejected(t *testing.T) {
	ctx := newTestContext()
	env := NewEnv(nil)
	c := types.TyVar{Name: "c", Kind: kinds.Star}
	ambiguous := names.In(names.Std, "ambiguous")
	env.Globals[ambiguous.String()] = &types.Scheme{
		Vars: []types.TyVar{c},
		Qual: &types.QualType{
			Preds: []types.Predicate{{Type: &c, Trait: eqTraitName()}},
			Type:  boolCon(),
		},
	}
	declared := &types.Scheme{Qual: &types.QualType{Type: boolCon()}}
	body := &ast.Expr{Payload: ast.Var{Ref: ambiguous}}

	_, err := InferGlobal(ctx, env, declared, body)
	if _, ok := err.(*AmbiguousPredicateError); !ok {
		t.Fatalf("expected AmbiguousPredicateError, got %v", err)
	}
}
