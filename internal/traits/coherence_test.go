package traits

import (
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

func tyCon(ns names.NameSpace, name string) *types.TyCon {
	return &types.TyCon{Name: names.In(ns, name), Kind: kinds.Star}
}

func tyVar(n string) *types.TyVar {
	return &types.TyVar{Name: n, Kind: kinds.Star}
}

// Seed scenario (Orphan): an instance declared in a module that defines
// neither the trait nor the head tycon is rejected.
func TestOrphanRuleRejectsForeignInstance(t *testing.T) {
	env := NewEnv()
	eqTrait := names.In(names.NameSpace{"Std"}, "Eq")
	env.AddTrait(&TraitInfo{Name: eqTrait, TyVar: "a", DefiningModule: names.NameSpace{"Std"}})

	foo := tyCon(names.NameSpace{"App", "Types"}, "Foo")
	env.AddInstance(&TraitInstance{
		Trait:          eqTrait,
		Head:           foo,
		Methods:        map[string]*ast.Expr{},
		DefiningModule: names.NameSpace{"App", "Other"},
	})

	errs := Validate(env)
	found := false
	for _, e := range errs {
		if e.Category == "Orphan" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an orphan violation, got %v", errs)
	}
}

func TestOrphanRuleAcceptsHomeModule(t *testing.T) {
	env := NewEnv()
	eqTrait := names.In(names.NameSpace{"Std"}, "Eq")
	env.AddTrait(&TraitInfo{Name: eqTrait, TyVar: "a", DefiningModule: names.NameSpace{"Std"}})

	foo := tyCon(names.NameSpace{"App", "Types"}, "Foo")
	env.AddInstance(&TraitInstance{
		Trait:          eqTrait,
		Head:           foo,
		Methods:        map[string]*ast.Expr{},
		DefiningModule: names.NameSpace{"App", "Types"},
	})

	errs := Validate(env)
	for _, e := range errs {
		if e.Category == "Orphan" {
			t.Fatalf("did not expect an orphan violation, got %v", e)
		}
	}
}

// Seed scenario (Overlap): Pair a Int and Pair Int b overlap; Pair a b alone
// does not.
func TestOverlapRuleRejectsOverlappingHeads(t *testing.T) {
	env := NewEnv()
	pairTrait := names.In(names.NameSpace{"Std"}, "Foo")
	env.AddTrait(&TraitInfo{Name: pairTrait, TyVar: "a", DefiningModule: names.NameSpace{"Std"}})

	pairCon := tyCon(names.NameSpace{"Std"}, "Pair")
	intCon := tyCon(names.NameSpace{"Std"}, "Int")

	headA := &types.TyApp{Fun: &types.TyApp{Fun: pairCon, Arg: tyVar("a")}, Arg: intCon}
	headB := &types.TyApp{Fun: &types.TyApp{Fun: pairCon, Arg: intCon}, Arg: tyVar("b")}

	env.AddInstance(&TraitInstance{Trait: pairTrait, Head: headA, Methods: map[string]*ast.Expr{}, DefiningModule: names.NameSpace{"Std"}})
	env.AddInstance(&TraitInstance{Trait: pairTrait, Head: headB, Methods: map[string]*ast.Expr{}, DefiningModule: names.NameSpace{"Std"}})

	errs := Validate(env)
	found := false
	for _, e := range errs {
		if e.Category == "Overlap" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an overlap violation, got %v", errs)
	}
}

func TestAliasCycleDetected(t *testing.T) {
	env := NewEnv()
	a := names.Local("A")
	b := names.Local("B")
	env.AddAlias(&TraitAlias{Name: a, Refs: []names.FullName{b}})
	env.AddAlias(&TraitAlias{Name: b, Refs: []names.FullName{a}})

	_, err := env.ResolveAlias(a)
	if _, ok := err.(*AliasCycleError); !ok {
		t.Fatalf("expected AliasCycleError, got %v", err)
	}
}

// Instance uniqueness (property 4): selecting twice for the same predicate
// returns the identical instance.
func TestSelectInstanceIsDeterministic(t *testing.T) {
	env := NewEnv()
	eqTrait := names.In(names.NameSpace{"Std"}, "Eq")
	env.AddTrait(&TraitInfo{Name: eqTrait, TyVar: "a", DefiningModule: names.NameSpace{"Std"}})
	intCon := tyCon(names.NameSpace{"Std"}, "Int")
	inst := &TraitInstance{Trait: eqTrait, Head: intCon, Methods: map[string]*ast.Expr{}, DefiningModule: names.NameSpace{"Std"}}
	env.AddInstance(inst)

	got1, _, ok1 := env.SelectInstance(eqTrait, intCon)
	got2, _, ok2 := env.SelectInstance(eqTrait, intCon)
	if !ok1 || !ok2 || got1 != inst || got2 != inst {
		t.Fatalf("expected deterministic selection of the same instance")
	}
}
