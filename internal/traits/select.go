package traits

import (
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// Match attempts a one-sided match of an instance head against a subject
// type: only variables in head may bind; subject is treated as fixed. This
// is the matching discipline spec.md §4.3 calls "one-sided substitution"
// for instance/equality lookup.
func Match(head, subject types.Type) (types.Substitution, bool) {
	sub := types.Substitution{}
	if matchOneSided(head, subject, sub) {
		return sub, true
	}
	return nil, false
}

func matchOneSided(head, subject types.Type, sub types.Substitution) bool {
	if hv, ok := head.(*types.TyVar); ok {
		if existing, bound := sub[hv.Name]; bound {
			return existing.Equals(subject)
		}
		sub[hv.Name] = subject
		return true
	}
	switch h := head.(type) {
	case *types.TyCon:
		s, ok := subject.(*types.TyCon)
		return ok && h.Name.Equals(s.Name)
	case *types.TyApp:
		s, ok := subject.(*types.TyApp)
		return ok && matchOneSided(h.Fun, s.Fun, sub) && matchOneSided(h.Arg, s.Arg, sub)
	case *types.FunTy:
		s, ok := subject.(*types.FunTy)
		return ok && matchOneSided(h.From, s.From, sub) && matchOneSided(h.To, s.To, sub)
	default:
		return false
	}
}

// CandidateInstances returns every instance of trait whose head one-sided
// matches subject, pre-filtered by head-match as spec.md §4.3 describes
// for predicate reduction candidate lookup.
func (e *Env) CandidateInstances(trait names.FullName, subject types.Type) []*TraitInstance {
	var out []*TraitInstance
	for _, inst := range e.Instances[trait.String()] {
		if _, ok := Match(inst.Head, subject); ok {
			out = append(out, inst)
		}
	}
	return out
}

// SelectInstance picks the first instance whose head one-sided matches
// subject (see Match), per spec.md §4.5 "Method selection": uniqueness is
// guaranteed by the overlap check, so "first" is also "only".
func (e *Env) SelectInstance(trait names.FullName, subject types.Type) (*TraitInstance, types.Substitution, bool) {
	for _, inst := range e.Instances[trait.String()] {
		if sub, ok := Match(inst.Head, subject); ok {
			return inst, sub, true
		}
	}
	return nil, nil, false
}
