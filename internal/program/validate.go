package program

import (
	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/traits"
)

// coherenceCode maps a traits.CoherenceError's Category label to the
// diag code family it belongs to.
func coherenceCode(category string) (string, diag.Category) {
	switch category {
	case "Duplicate":
		return diag.DuplicateDecl, diag.Duplicate
	case "Overlap":
		return diag.InstanceOverlap, diag.Overlap
	case "Orphan":
		return diag.InstanceOrphan, diag.Orphan
	default: // "Shape"
		return diag.ShapeMalformedType, diag.Shape
	}
}

// validate runs spec.md §2 step 4: every coherence check in
// internal/traits.Validate, plus the whole-program name-collision check
// already run at step 1. Every violation accumulates independently —
// none of the nine coherence rules depends on another succeeding first
// (spec.md §7).
func (p *Program) validate() *diag.Bag {
	bag := diag.NewBag()
	for _, err := range traits.Validate(p.Traits) {
		code, category := coherenceCode(err.Category)
		r := diag.New(code, category, "%s", err.Message)
		if err.Instance != nil && err.Instance.Span != nil {
			r = r.WithSpan(*err.Instance.Span, "instance")
		}
		bag.Add(r)
	}
	return bag
}
