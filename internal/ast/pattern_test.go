package ast

import "testing"

func TestValidPatternDistinctVars(t *testing.T) {
	p := StructPattern{Fields: map[string]Pattern{
		"x": VarPattern{Name: "a"},
		"y": VarPattern{Name: "b"},
	}}
	if err := Valid(p); err != nil {
		t.Fatalf("expected valid pattern, got %v", err)
	}
}

func TestInvalidPatternDuplicateVars(t *testing.T) {
	p := StructPattern{Fields: map[string]Pattern{
		"x": VarPattern{Name: "a"},
		"y": VarPattern{Name: "a"},
	}}
	if err := Valid(p); err == nil {
		t.Fatalf("expected duplicate-variable error")
	}
}

func TestUnionPatternVars(t *testing.T) {
	p := UnionPattern{Variant: "Some", Sub: VarPattern{Name: "x"}}
	if got := p.Vars(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected [x], got %v", got)
	}
}
