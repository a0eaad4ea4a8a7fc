// Package kindinfer implements kind inference (spec.md §4.2): propagating
// and checking the kinds of every free variable inside a QualType by
// seeding from explicit signatures, forcing from trait predicates, and
// forcing from associated-type parameter kinds.
package kindinfer

import (
	"fmt"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// MismatchError is a hard error raised at the source of the second,
// conflicting forcing of a variable's kind (spec.md §4.2).
type MismatchError struct {
	Var      string
	Previous kinds.Kind
	Forced   kinds.Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("kind mismatch for %s: already %s, forced to %s", e.Var, e.Previous, e.Forced)
}

// TraitKindOf looks up the kind of a trait's single type variable, needed
// to force the kind of a predicate's bare-variable subject.
type TraitKindOf func(names.FullName) (kinds.Kind, error)

// AssocParamKinds looks up the recorded parameter kinds of an associated
// type, needed to force argument kinds recursively.
type AssocParamKinds func(names.FullName) ([]kinds.Kind, error)

// Assignment maps type-variable names to their inferred kind.
type Assignment map[string]kinds.Kind

// Solve computes the kind assignment for every free variable of qt,
// seeding from qt.Kinds, then forcing from predicates and equalities, in
// the order spec.md §4.2 describes. Returns the assignment, or the first
// mismatch encountered.
func Solve(qt *types.QualType, traitKind TraitKindOf, assocParams AssocParamKinds) (Assignment, error) {
	a := Assignment{}

	// 1. Seed from explicit KindSignatures.
	for _, ks := range qt.Kinds {
		if err := a.force(ks.Var, ks.Kind); err != nil {
			return nil, err
		}
	}

	// 2. For each predicate τ : C where τ is a bare variable, force
	// kind(τ) = kind(C).
	for _, p := range qt.Preds {
		v, ok := p.Type.(*types.TyVar)
		if !ok {
			continue
		}
		tk, err := traitKind(p.Trait)
		if err != nil {
			return nil, err
		}
		if err := a.force(v.Name, tk); err != nil {
			return nil, err
		}
	}

	// 3. For each equality whose head is an associated-type application,
	// force argument kinds to match the recorded param_kinds recursively.
	for _, eq := range qt.Eqs {
		if err := a.forceAssocArgs(eq.Assoc, assocParams); err != nil {
			return nil, err
		}
	}
	for _, p := range qt.Preds {
		if at, ok := p.Type.(*types.AssocTy); ok {
			if err := a.forceAssocArgs(at, assocParams); err != nil {
				return nil, err
			}
		}
	}

	return a, nil
}

func (a Assignment) force(name string, k kinds.Kind) error {
	if existing, ok := a[name]; ok {
		if !existing.Equals(k) {
			return &MismatchError{Var: name, Previous: existing, Forced: k}
		}
		return nil
	}
	a[name] = k
	return nil
}

func (a Assignment) forceAssocArgs(at *types.AssocTy, assocParams AssocParamKinds) error {
	paramKinds, err := assocParams(at.Ref)
	if err != nil {
		return err
	}
	for i, arg := range at.Args {
		if i >= len(paramKinds) {
			break
		}
		if v, ok := arg.(*types.TyVar); ok {
			if err := a.force(v.Name, paramKinds[i]); err != nil {
				return err
			}
		} else if nested, ok := arg.(*types.AssocTy); ok {
			if err := a.forceAssocArgs(nested, assocParams); err != nil {
				return err
			}
		}
	}
	return nil
}

// TupleKind computes the kind of a tuple-n tycon: "* → … → * → *" with n
// arrows (spec.md §4.2).
func TupleKind(n int) kinds.Kind {
	return kinds.NAry(n, kinds.Star)
}
