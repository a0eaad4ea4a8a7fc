package types

import (
	"fmt"
	"strings"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
)

// Predicate is a constraint "τ : Trait" — the subject type may be any
// kind-appropriate type, not just a bare variable (spec.md §3).
type Predicate struct {
	Type  Type
	Trait names.FullName
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s : %s", p.Type, p.Trait)
}

func (p Predicate) Substitute(sub Substitution) Predicate {
	return Predicate{Type: p.Type.Substitute(sub), Trait: p.Trait}
}

func (p Predicate) Equals(o Predicate) bool {
	return p.Trait.Equals(o.Trait) && p.Type.Equals(o.Type)
}

// Equality is an associated-type equality constraint: AssocTy(args) = Value.
type Equality struct {
	Assoc *AssocTy
	Value Type
}

func (e Equality) String() string {
	return fmt.Sprintf("%s = %s", e.Assoc, e.Value)
}

func (e Equality) Substitute(sub Substitution) Equality {
	return Equality{
		Assoc: e.Assoc.Substitute(sub).(*AssocTy),
		Value: e.Value.Substitute(sub),
	}
}

// KindSignature is an explicit kind annotation on a type variable: α : k.
type KindSignature struct {
	Var  string
	Kind kinds.Kind
}

func (k KindSignature) String() string {
	return fmt.Sprintf("%s : %s", k.Var, k.Kind)
}

// QualType bundles a type with the predicates, associated-type equalities
// and kind signatures that qualify its free variables.
type QualType struct {
	Preds []Predicate
	Eqs   []Equality
	Kinds []KindSignature
	Type  Type
}

func (q *QualType) String() string {
	var parts []string
	for _, p := range q.Preds {
		parts = append(parts, p.String())
	}
	for _, e := range q.Eqs {
		parts = append(parts, e.String())
	}
	for _, k := range q.Kinds {
		parts = append(parts, k.String())
	}
	if len(parts) == 0 {
		return q.Type.String()
	}
	return fmt.Sprintf("[%s] %s", strings.Join(parts, ", "), q.Type)
}

func (q *QualType) Substitute(sub Substitution) *QualType {
	preds := make([]Predicate, len(q.Preds))
	for i, p := range q.Preds {
		preds[i] = p.Substitute(sub)
	}
	eqs := make([]Equality, len(q.Eqs))
	for i, e := range q.Eqs {
		eqs[i] = e.Substitute(sub)
	}
	return &QualType{Preds: preds, Eqs: eqs, Kinds: q.Kinds, Type: q.Type.Substitute(sub)}
}

// FreeVars returns the free type-variable names of the underlying type and
// of every predicate/equality subject, merged.
func (q *QualType) FreeVars() map[string]kinds.Kind {
	out := q.Type.FreeVars()
	for _, p := range q.Preds {
		out = mergeFreeVars(out, p.Type.FreeVars())
	}
	for _, e := range q.Eqs {
		out = mergeFreeVars(out, e.Assoc.FreeVars())
		out = mergeFreeVars(out, e.Value.FreeVars())
	}
	return out
}
