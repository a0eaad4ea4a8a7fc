package kindinfer

import (
	"testing"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

func fn(name string) names.FullName { return names.Local(name) }

func TestSeedFromExplicitKindSignature(t *testing.T) {
	qt := &types.QualType{
		Kinds: []types.KindSignature{{Var: "f", Kind: &kinds.Arrow{From: kinds.Star, To: kinds.Star}}},
	}
	a, err := Solve(qt, func(names.FullName) (kinds.Kind, error) { return kinds.Star, nil },
		func(names.FullName) ([]kinds.Kind, error) { return nil, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &kinds.Arrow{From: kinds.Star, To: kinds.Star}
	if !a["f"].Equals(want) {
		t.Fatalf("got %v, want %v", a["f"], want)
	}
}

func TestForcePredicateBareVariable(t *testing.T) {
	higherKind := &kinds.Arrow{From: kinds.Star, To: kinds.Star}
	qt := &types.QualType{
		Preds: []types.Predicate{{Type: &types.TyVar{Name: "m", Kind: higherKind}, Trait: fn("Monad")}},
	}
	a, err := Solve(qt, func(names.FullName) (kinds.Kind, error) { return higherKind, nil },
		func(names.FullName) ([]kinds.Kind, error) { return nil, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a["m"].Equals(higherKind) {
		t.Fatalf("got %v, want %v", a["m"], higherKind)
	}
}

func TestForceMismatchIsHardError(t *testing.T) {
	qt := &types.QualType{
		Kinds: []types.KindSignature{{Var: "a", Kind: kinds.Star}},
		Preds: []types.Predicate{{Type: &types.TyVar{Name: "a", Kind: kinds.Star}, Trait: fn("Monad")}},
	}
	_, err := Solve(qt, func(names.FullName) (kinds.Kind, error) {
		return &kinds.Arrow{From: kinds.Star, To: kinds.Star}, nil
	}, func(names.FullName) ([]kinds.Kind, error) { return nil, nil })
	if _, ok := err.(*MismatchError); !ok {
		t.Fatalf("expected MismatchError, got %v", err)
	}
}

func TestForceAssocTypeArgKinds(t *testing.T) {
	elem := fn("Elem")
	qt := &types.QualType{
		Eqs: []types.Equality{{
			Assoc: &types.AssocTy{Ref: elem, Args: []types.Type{&types.TyVar{Name: "c", Kind: kinds.Star}}},
			Value: &types.TyVar{Name: "r", Kind: kinds.Star},
		}},
	}
	higherKind := &kinds.Arrow{From: kinds.Star, To: kinds.Star}
	a, err := Solve(qt, func(names.FullName) (kinds.Kind, error) { return kinds.Star, nil },
		func(names.FullName) ([]kinds.Kind, error) { return []kinds.Kind{higherKind}, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a["c"].Equals(higherKind) {
		t.Fatalf("got %v, want %v", a["c"], higherKind)
	}
}

func TestTupleKind(t *testing.T) {
	k := TupleKind(2)
	want := &kinds.Arrow{From: kinds.Star, To: &kinds.Arrow{From: kinds.Star, To: kinds.Star}}
	if !k.Equals(want) {
		t.Fatalf("got %v, want %v", k, want)
	}
}
