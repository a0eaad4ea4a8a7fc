package infer

import (
	"testing"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

func intCon() *types.TyCon  { return &types.TyCon{Name: names.In(names.Std, "Int"), Kind: kinds.Star} }
func boolCon() *types.TyCon { return &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star} }

func TestUnifyVarWithCon(t *testing.T) {
	v := &types.TyVar{Name: "a", Kind: kinds.Star}
	sub, err := Unify(v, intCon())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !types.Apply(sub, v).Equals(intCon()) {
		t.Fatalf("expected a bound to Int, got %s", types.Apply(sub, v))
	}
}

func TestUnifyConMismatch(t *testing.T) {
	_, err := Unify(intCon(), boolCon())
	if _, ok := err.(*UnifyError); !ok {
		t.Fatalf("expected UnifyError, got %v", err)
	}
}

// Occurs check (spec.md §8 property 2): a -> a must not unify with a.
func TestUnifyOccursCheck(t *testing.T) {
	v := &types.TyVar{Name: "a", Kind: kinds.Star}
	fn := &types.FunTy{From: v, To: v}
	_, err := Unify(v, fn)
	if _, ok := err.(*OccursCheckError); !ok {
		t.Fatalf("expected OccursCheckError, got %v", err)
	}
}

func TestUnifyFunTyComponentwise(t *testing.T) {
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	b := &types.TyVar{Name: "b", Kind: kinds.Star}
	lhs := &types.FunTy{From: a, To: b}
	rhs := &types.FunTy{From: intCon(), To: boolCon()}
	sub, err := Unify(lhs, rhs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !types.Apply(sub, a).Equals(intCon()) || !types.Apply(sub, b).Equals(boolCon()) {
		t.Fatalf("got a=%s b=%s", types.Apply(sub, a), types.Apply(sub, b))
	}
}

func TestUnifyKindMismatch(t *testing.T) {
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	b := &types.TyVar{Name: "b", Kind: &kinds.Arrow{From: kinds.Star, To: kinds.Star}}
	_, err := Unify(a, b)
	if _, ok := err.(*KindMismatchError); !ok {
		t.Fatalf("expected KindMismatchError, got %v", err)
	}
}
