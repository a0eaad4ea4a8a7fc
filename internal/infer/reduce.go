package infer

import (
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

// inHNF reports whether a predicate's subject is already in head-normal
// form: a bare variable, or a variable applied to further arguments.
// Anything else (a concrete constructor head) must be reduced by
// selecting a matching instance.
func inHNF(t types.Type) bool {
	switch h := t.(type) {
	case *types.TyVar:
		return true
	case *types.TyApp:
		return inHNF(h.Fun)
	default:
		return false
	}
}

// toHNF reduces a single predicate, recursing into the selected instance's
// own context, grounded on the teacher's InstanceEnv.Lookup head-match-
// then-recurse shape generalized from a flat instance map to the richer
// traits.Env (spec.md §4.3).
func toHNF(env *traits.Env, p types.Predicate) ([]types.Predicate, error) {
	if inHNF(p.Type) {
		return []types.Predicate{p}, nil
	}
	inst, sub, ok := env.SelectInstance(p.Trait, p.Type)
	if !ok {
		return nil, &NoInstanceError{Predicate: p}
	}
	var out []types.Predicate
	for _, ctxPred := range inst.Context {
		reduced, err := toHNF(env, types.Predicate{Type: types.Apply(sub, ctxPred.Type), Trait: ctxPred.Trait})
		if err != nil {
			return nil, err
		}
		out = append(out, reduced...)
	}
	return out, nil
}

// Reduce reduces every predicate in ps to head-normal form.
func Reduce(env *traits.Env, ps []types.Predicate) ([]types.Predicate, error) {
	var out []types.Predicate
	for _, p := range ps {
		hnf, err := toHNF(env, p)
		if err != nil {
			return nil, err
		}
		out = append(out, hnf...)
	}
	return out, nil
}

// Entails reports whether ps entails p: p is literally present, or some
// instance matching p's subject has a context that ps entails recursively.
func Entails(env *traits.Env, ps []types.Predicate, p types.Predicate) bool {
	for _, q := range ps {
		if q.Equals(p) {
			return true
		}
	}
	inst, sub, ok := env.SelectInstance(p.Trait, p.Type)
	if !ok {
		return false
	}
	for _, ctxPred := range inst.Context {
		if !Entails(env, ps, types.Predicate{Type: types.Apply(sub, ctxPred.Type), Trait: ctxPred.Trait}) {
			return false
		}
	}
	return true
}

// Simplify drops every predicate entailed by the rest, leaving the minimal
// equivalent context (spec.md §4.3 "simplify").
func Simplify(env *traits.Env, ps []types.Predicate) []types.Predicate {
	var kept []types.Predicate
	for i, p := range ps {
		rest := make([]types.Predicate, 0, len(ps)-1+len(kept))
		rest = append(rest, ps[:i]...)
		rest = append(rest, ps[i+1:]...)
		rest = append(rest, kept...)
		if !Entails(env, rest, p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// substPreds applies sub to every predicate's subject.
func substPreds(sub types.Substitution, ps []types.Predicate) []types.Predicate {
	out := make([]types.Predicate, len(ps))
	for i, p := range ps {
		out[i] = p.Substitute(sub)
	}
	return out
}
