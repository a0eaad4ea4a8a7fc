package infer

import (
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

func eqTraitName() names.FullName { return names.In(names.Std, "Eq") }

func listCon() *types.TyCon {
	return &types.TyCon{Name: names.In(names.Std, "List"), Kind: &kinds.Arrow{From: kinds.Star, To: kinds.Star}}
}

// instance Eq Int {}; instance (a : Eq) => Eq (List a) {}
func eqEnvWithListInstance() *traits.Env {
	env := traits.NewEnv()
	env.AddTrait(&traits.TraitInfo{Name: eqTraitName(), TyVar: "a", DefiningModule: names.Std})
	env.AddInstance(&traits.TraitInstance{
		Trait: eqTraitName(), Head: intCon(), Methods: map[string]*ast.Expr{}, DefiningModule: names.Std,
	})
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	env.AddInstance(&traits.TraitInstance{
		Trait:          eqTraitName(),
		Head:           &types.TyApp{Fun: listCon(), Arg: a},
		Context:        []types.Predicate{{Type: a, Trait: eqTraitName()}},
		Methods:        map[string]*ast.Expr{},
		DefiningModule: names.Std,
	})
	return env
}

func TestReduceConcreteSubjectToEmptyContext(t *testing.T) {
	env := eqEnvWithListInstance()
	p := types.Predicate{Type: &types.TyApp{Fun: listCon(), Arg: intCon()}, Trait: eqTraitName()}
	reduced, err := Reduce(env, []types.Predicate{p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reduced) != 0 {
		t.Fatalf("expected Eq (List Int) to reduce to no outstanding predicates, got %v", reduced)
	}
}

func TestReduceNoInstance(t *testing.T) {
	env := eqEnvWithListInstance()
	p := types.Predicate{Type: boolCon(), Trait: eqTraitName()}
	_, err := Reduce(env, []types.Predicate{p})
	if _, ok := err.(*NoInstanceError); !ok {
		t.Fatalf("expected NoInstanceError, got %v", err)
	}
}

func TestReduceBareVariableStaysInHNF(t *testing.T) {
	env := eqEnvWithListInstance()
	v := &types.TyVar{Name: "x", Kind: kinds.Star}
	p := types.Predicate{Type: v, Trait: eqTraitName()}
	reduced, err := Reduce(env, []types.Predicate{p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reduced) != 1 || !reduced[0].Equals(p) {
		t.Fatalf("expected the bare-variable predicate unchanged, got %v", reduced)
	}
}

func TestEntailsTransitiveInstanceContext(t *testing.T) {
	env := eqEnvWithListInstance()
	ps := []types.Predicate{{Type: intCon(), Trait: eqTraitName()}}
	target := types.Predicate{Type: &types.TyApp{Fun: listCon(), Arg: intCon()}, Trait: eqTraitName()}
	if !Entails(env, ps, target) {
		t.Fatalf("expected Eq Int to entail Eq (List Int)")
	}
}

func TestSimplifyDropsEntailedPredicate(t *testing.T) {
	env := eqEnvWithListInstance()
	ps := []types.Predicate{
		{Type: intCon(), Trait: eqTraitName()},
		{Type: &types.TyApp{Fun: listCon(), Arg: intCon()}, Trait: eqTraitName()},
	}
	simplified := Simplify(env, ps)
	if len(simplified) != 1 {
		t.Fatalf("expected one surviving predicate, got %v", simplified)
	}
}
