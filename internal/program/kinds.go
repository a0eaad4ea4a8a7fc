package program

import (
	"fmt"

	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/kindinfer"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// traitKindOf builds a kindinfer.TraitKindOf resolving short trait names
// against mod's import view before looking up the trait's own declared
// type-variable kind, registered by registerTraitShapes.
func (p *Program) traitKindOf(mod names.NameSpace, imports []names.ImportStatement) kindinfer.TraitKindOf {
	return func(short names.FullName) (kinds.Kind, error) {
		full, err := p.Resolver.Resolve(mod, short, names.Categories(names.Trait), imports)
		if err != nil {
			return nil, err
		}
		info, ok := p.Traits.Traits[full.String()]
		if !ok {
			return nil, fmt.Errorf("program: trait %s has no registered shape", full)
		}
		return info.TyVarKind, nil
	}
}

// assocParamKinds builds a kindinfer.AssocParamKinds resolving a short
// associated-type name against mod's import view, then scanning every
// registered trait for a matching associated-type declaration.
func (p *Program) assocParamKinds(mod names.NameSpace, imports []names.ImportStatement) kindinfer.AssocParamKinds {
	return func(short names.FullName) ([]kinds.Kind, error) {
		full, err := p.Resolver.Resolve(mod, short, names.Categories(names.AssocType), imports)
		if err != nil {
			return nil, err
		}
		for _, info := range p.Traits.Traits {
			if a, ok := info.AssocType(full); ok {
				return a.ParamKinds, nil
			}
		}
		return nil, fmt.Errorf("program: associated type %s has no registered shape", full)
	}
}

// solveKinds runs spec.md §2 step 2: kind inference for every global
// value's declared scheme, every trait method signature, and every
// instance's head-and-context, reporting the first mismatch encountered
// in each as a fatal diag.Report. Results are recorded in Kinds, keyed by
// a human-readable description of their source (schemes themselves carry
// no stable identity to key by besides what produced them).
func (p *Program) solveKinds() *diag.Bag {
	bag := diag.NewBag()
	for _, m := range p.modules {
		traitKind := p.traitKindOf(m.Namespace, m.Imports)
		assocParams := p.assocParamKinds(m.Namespace, m.Imports)

		for _, g := range m.Globals {
			key := names.In(m.Namespace, g.Name).String()
			p.solveOneKind(bag, key, g.Scheme.Qual, traitKind, assocParams)
		}
		for _, t := range m.Traits {
			for _, meth := range t.Methods {
				key := names.In(m.Namespace, t.Name+"."+meth.Name).String()
				p.solveOneKind(bag, key, meth.Qual, traitKind, assocParams)
			}
		}
		for i, inst := range m.Instances {
			key := fmt.Sprintf("%s instance #%d", inst.Trait, i)
			qt := &types.QualType{Preds: inst.Context, Type: inst.Head}
			p.solveOneKind(bag, key, qt, traitKind, assocParams)
		}
	}
	return bag
}

func (p *Program) solveOneKind(bag *diag.Bag, key string, qt *types.QualType, traitKind kindinfer.TraitKindOf, assocParams kindinfer.AssocParamKinds) {
	assignment, err := kindinfer.Solve(qt, traitKind, assocParams)
	if err != nil {
		if mm, ok := err.(*kindinfer.MismatchError); ok {
			bag.Add(diag.New(diag.KindMismatch, diag.KindCheck,
				"kind mismatch for %s in %s: already %s, forced to %s", mm.Var, key, mm.Previous, mm.Forced))
			return
		}
		bag.Add(diag.New(diag.KindMismatch, diag.KindCheck, "kind inference failed for %s: %v", key, err))
		return
	}
	p.Kinds[key] = assignment
}
