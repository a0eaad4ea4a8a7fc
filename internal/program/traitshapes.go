package program

import (
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/traits"
)

// registerTraitShapes seeds Traits with every trait's name, own type
// variable and associated-type declarations (spec.md §2, ahead of step
// 2's kind inference): none of these fields involve a type reference that
// needs resolving, only kinds.Kind values stated directly by the
// declaration, so they can be registered before step 3 resolves anything.
// Method signatures are filled in later, once resolveProgram has resolved
// their Quals (step 3) — registerTraitShapes only reserves the TraitInfo
// entry kindinfer's TraitKindOf/AssocParamKinds callbacks need.
func (p *Program) registerTraitShapes() {
	for _, m := range p.modules {
		for _, t := range m.Traits {
			info := &traits.TraitInfo{
				Name:           names.In(m.Namespace, t.Name),
				TyVar:          t.TyVar,
				TyVarKind:      t.TyVarKind,
				DefiningModule: m.Namespace,
				Span:           t.Span,
			}
			for _, a := range t.AssocTypes {
				info.AssocTypes = append(info.AssocTypes, traits.AssocTypeDecl{
					Name:       names.In(m.Namespace, a.Name),
					ParamKinds: a.ParamKinds,
					ResultKind: a.ResultKind,
				})
			}
			p.Traits.AddTrait(info)
		}
		for _, a := range m.Aliases {
			p.Traits.AddAlias(&traits.TraitAlias{
				Name:           names.In(m.Namespace, a.Name),
				DefiningModule: m.Namespace,
				Span:           a.Span,
				// Refs are resolved in step 3; left empty here.
			})
		}
	}
}
