package names

import "testing"

func mkTable() *Table {
	t := NewTable()
	t.Declare(In(NameSpace{"Data", "List"}, "List"), Tycon)
	t.Declare(In(NameSpace{"Data", "Set"}, "Set"), Tycon)
	t.Declare(In(Std, "Eq"), Trait)
	t.Declare(In(NameSpace{"App"}, "Collection"), Trait)
	return t
}

// Property 1 (spec.md §8): unique definition resolves; zero or ambiguous
// definitions produce the appropriate error.
func TestResolveUnique(t *testing.T) {
	r := NewResolver(mkTable())
	imports := []ImportStatement{{Module: NameSpace{"Data", "List"}}}

	got, err := r.Resolve(NameSpace{"App"}, Local("List"), Categories(Tycon), imports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := In(NameSpace{"Data", "List"}, "List")
	if !got.Equals(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := NewResolver(mkTable())
	_, err := r.Resolve(NameSpace{"App"}, Local("Map"), Categories(Tycon), nil)
	if _, ok := err.(*UnknownNameError); !ok {
		t.Fatalf("expected UnknownNameError, got %v (%T)", err, err)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	table := NewTable()
	table.Declare(In(NameSpace{"A"}, "Thing"), Tycon)
	table.Declare(In(NameSpace{"B"}, "Thing"), Tycon)
	r := NewResolver(table)

	imports := []ImportStatement{{Module: NameSpace{"A"}}, {Module: NameSpace{"B"}}}
	_, err := r.Resolve(NameSpace{"App"}, Local("Thing"), Categories(Tycon), imports)
	amb, ok := err.(*AmbiguousNameError)
	if !ok {
		t.Fatalf("expected AmbiguousNameError, got %v (%T)", err, err)
	}
	if len(amb.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(amb.Candidates))
	}
	if amb.Candidates[0].String() != "A.Thing" || amb.Candidates[1].String() != "B.Thing" {
		t.Fatalf("candidates not deterministically sorted: %v", amb.Candidates)
	}
}

func TestResolveSelfImport(t *testing.T) {
	r := NewResolver(mkTable())
	imports := []ImportStatement{{Module: NameSpace{"App"}}}
	_, err := r.Resolve(NameSpace{"App"}, Local("List"), Categories(Tycon), imports)
	if _, ok := err.(*SelfImportError); !ok {
		t.Fatalf("expected SelfImportError, got %v (%T)", err, err)
	}
}

func TestImplicitStdCancelledByExplicit(t *testing.T) {
	table := NewTable()
	table.Declare(In(Std, "Eq"), Trait)
	r := NewResolver(table)

	// Without an explicit Std import, Eq still resolves via the implicit one.
	got, err := r.Resolve(NameSpace{"App"}, Local("Eq"), Categories(Trait), nil)
	if err != nil || !got.Equals(In(Std, "Eq")) {
		t.Fatalf("expected implicit Std import to resolve Eq, got %v, err=%v", got, err)
	}

	// An explicit Std import must not create a duplicate candidate.
	got, err = r.Resolve(NameSpace{"App"}, Local("Eq"), Categories(Trait),
		[]ImportStatement{{Module: Std, Explicit: true}})
	if err != nil || !got.Equals(In(Std, "Eq")) {
		t.Fatalf("expected explicit Std import to resolve Eq uniquely, got %v, err=%v", got, err)
	}
}

func TestCategoryDisjointness(t *testing.T) {
	table := NewTable()
	table.Declare(In(NameSpace{"App"}, "Foo"), Tycon)
	table.Declare(In(NameSpace{"App"}, "Foo"), Trait)

	errs := table.CheckCollisions()
	if len(errs) != 1 {
		t.Fatalf("expected 1 collision, got %d", len(errs))
	}
}
