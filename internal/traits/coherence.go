package traits

import (
	"fmt"
	"sort"

	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// CoherenceError is any one of the nine ordered violations of spec.md
// §4.4. Category distinguishes which rule fired, for diag.Report mapping.
type CoherenceError struct {
	Category string
	Message  string
	Trait    names.FullName
	Instance *TraitInstance
}

func (e *CoherenceError) Error() string { return e.Message }

// UnknownTraitError is returned by ResolveAlias when a name is neither a
// trait nor an alias.
type UnknownTraitError struct{ Name names.FullName }

func (e *UnknownTraitError) Error() string { return "unknown trait " + e.Name.String() }

// AliasCycleError is returned by ResolveAlias on a cyclic alias chain.
type AliasCycleError struct{ Start names.FullName }

func (e *AliasCycleError) Error() string {
	return "cyclic trait alias starting at " + e.Start.String()
}

// Validate runs every coherence rule against env and returns every
// violation found — independent checks accumulate (spec.md §7); only a
// check that depends on an earlier one's success short-circuits.
func Validate(env *Env) []*CoherenceError {
	var errs []*CoherenceError

	errs = append(errs, checkNameDisjointness(env)...)
	errs = append(errs, checkAliasAcyclic(env)...)
	errs = append(errs, checkNoDirectAliasImpl(env)...)
	errs = append(errs, checkInstanceHeadShape(env)...)
	errs = append(errs, checkCompleteness(env)...)
	errs = append(errs, checkAssocFreeVars(env)...)
	errs = append(errs, checkOrphanRule(env)...)
	errs = append(errs, checkOverlap(env)...)
	errs = append(errs, checkUnrelatedMethod(env)...)

	return errs
}

// 1. Trait/alias name disjointness.
func checkNameDisjointness(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for key, alias := range env.Aliases {
		if _, ok := env.Traits[key]; ok {
			errs = append(errs, &CoherenceError{
				Category: "Duplicate",
				Message:  fmt.Sprintf("%s is declared as both a trait and a trait alias", alias.Name),
				Trait:    alias.Name,
			})
		}
	}
	return errs
}

// 2. Alias acyclicity via DFS with a visiting set.
func checkAliasAcyclic(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	names := sortedAliasNames(env)
	for _, name := range names {
		if _, err := env.ResolveAlias(name); err != nil {
			if cyc, ok := err.(*AliasCycleError); ok {
				errs = append(errs, &CoherenceError{
					Category: "Shape",
					Message:  fmt.Sprintf("cyclic trait alias starting at %s", cyc.Start),
					Trait:    name,
				})
			}
		}
	}
	return errs
}

func sortedAliasNames(env *Env) []names.FullName {
	var out []names.FullName
	for _, a := range env.Aliases {
		out = append(out, a.Name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// 3. No direct implementation of an alias.
func checkNoDirectAliasImpl(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for key, insts := range env.Instances {
		if _, isAlias := env.Aliases[key]; isAlias {
			for _, inst := range insts {
				errs = append(errs, &CoherenceError{
					Category: "Shape",
					Message:  fmt.Sprintf("cannot implement trait alias %s directly", inst.Trait),
					Trait:    inst.Trait,
					Instance: inst,
				})
			}
		}
	}
	return errs
}

// 4. Instance-head shape: a tycon applied to zero or more types, or a
// function type (whose "defining module" is the distinguished Std module
// for orphan-rule purposes).
func checkInstanceHeadShape(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for _, insts := range env.Instances {
		for _, inst := range insts {
			if !validHeadShape(inst.Head) {
				errs = append(errs, &CoherenceError{
					Category: "Shape",
					Message:  fmt.Sprintf("invalid instance head %s for trait %s", inst.Head, inst.Trait),
					Trait:    inst.Trait,
					Instance: inst,
				})
			}
		}
	}
	return errs
}

func validHeadShape(t types.Type) bool {
	switch h := t.(type) {
	case *types.TyCon:
		return true
	case *types.TyApp:
		return validHeadShape(h.Fun)
	case *types.FunTy:
		return true
	default:
		return false
	}
}

// headTycon returns the leftmost TyCon of an instance head, or nil for a
// function-type head (whose defining module is Std).
func headTycon(t types.Type) *types.TyCon {
	switch h := t.(type) {
	case *types.TyCon:
		return h
	case *types.TyApp:
		return headTycon(h.Fun)
	default:
		return nil
	}
}

// 5. Method/assoc-type completeness: every trait member has exactly one
// instance implementation; no extras.
func checkCompleteness(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for key, insts := range env.Instances {
		info, ok := env.Traits[key]
		if !ok {
			continue // unknown-trait case reported elsewhere
		}
		for _, inst := range insts {
			for _, m := range info.Methods {
				if _, ok := inst.Methods[m.Name]; !ok {
					errs = append(errs, &CoherenceError{
						Category: "Shape",
						Message:  fmt.Sprintf("instance of %s for %s is missing method %s", inst.Trait, inst.Head, m.Name),
						Trait:    inst.Trait,
						Instance: inst,
					})
				}
			}
			for name := range inst.Methods {
				if _, ok := info.Method(name); !ok {
					errs = append(errs, &CoherenceError{
						Category: "Shape",
						Message:  fmt.Sprintf("instance of %s for %s implements unknown method %s", inst.Trait, inst.Head, name),
						Trait:    inst.Trait,
						Instance: inst,
					})
				}
			}
			for _, a := range info.AssocTypes {
				found := false
				for _, impl := range inst.AssocImpls {
					if impl.Name.Equals(a.Name) {
						found = true
						break
					}
				}
				if !found {
					errs = append(errs, &CoherenceError{
						Category: "Shape",
						Message:  fmt.Sprintf("instance of %s for %s is missing associated type %s", inst.Trait, inst.Head, a.Name),
						Trait:    inst.Trait,
						Instance: inst,
					})
				}
			}
		}
	}
	return errs
}

// 6. Free-variable discipline for assoc-type impls: every variable in an
// assoc-type RHS must be introduced by the instance head.
func checkAssocFreeVars(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for _, insts := range env.Instances {
		for _, inst := range insts {
			headVars := inst.Head.FreeVars()
			for _, impl := range inst.AssocImpls {
				for v := range impl.Value.FreeVars() {
					if _, ok := headVars[v]; !ok {
						errs = append(errs, &CoherenceError{
							Category: "Shape",
							Message:  fmt.Sprintf("variable %s in associated type %s is not introduced by the instance head", v, impl.Name),
							Trait:    inst.Trait,
							Instance: inst,
						})
					}
				}
			}
		}
	}
	return errs
}

// 7. Orphan rule: defining module of the instance is the trait's or the
// head tycon's.
func checkOrphanRule(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for key, insts := range env.Instances {
		info, ok := env.Traits[key]
		if !ok {
			continue
		}
		for _, inst := range insts {
			homeModule := info.DefiningModule
			if tc := headTycon(inst.Head); tc != nil {
				homeModule = tc.Name.NameSpace
			}
			allowed := inst.DefiningModule.Equals(info.DefiningModule) || inst.DefiningModule.Equals(homeModule)
			if headTycon(inst.Head) == nil {
				// function-type head: Std is its defining module.
				allowed = allowed || inst.DefiningModule.Equals(names.Std)
			}
			if !allowed {
				errs = append(errs, &CoherenceError{
					Category: "Orphan",
					Message: fmt.Sprintf("orphan instance: %s implements %s for %s outside both modules",
						inst.DefiningModule, inst.Trait, inst.Head),
					Trait:    inst.Trait,
					Instance: inst,
				})
			}
		}
	}
	return errs
}

// 8. Overlap rule: no two instances of the same trait have heads that
// unify, checked pairwise.
func checkOverlap(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for _, insts := range env.Instances {
		for i := 0; i < len(insts); i++ {
			for j := i + 1; j < len(insts); j++ {
				if headsMayUnify(insts[i].Head, insts[j].Head) {
					errs = append(errs, &CoherenceError{
						Category: "Overlap",
						Message: fmt.Sprintf("overlapping instances of %s: %s and %s",
							insts[i].Trait, insts[i].Head, insts[j].Head),
						Trait:    insts[i].Trait,
						Instance: insts[j],
					})
				}
			}
		}
	}
	return errs
}

// headsMayUnify is a syntactic, occurs-check-free unification restricted
// to instance heads — sufficient for the overlap check, which only asks
// "could these two heads ever describe the same concrete type". Each
// instance binds its own variables, so b's are renamed apart from a's
// before unifying.
func headsMayUnify(a, b types.Type) bool {
	rename := types.Substitution{}
	for v, k := range b.FreeVars() {
		rename[v] = &types.TyVar{Name: "$b" + v, Kind: k}
	}
	return unifyHeads(a, types.Apply(rename, b), types.Substitution{})
}

func unifyHeads(a, b types.Type, sub types.Substitution) bool {
	a = types.Apply(sub, a)
	b = types.Apply(sub, b)
	if av, ok := a.(*types.TyVar); ok {
		sub[av.Name] = b
		return true
	}
	if bv, ok := b.(*types.TyVar); ok {
		sub[bv.Name] = a
		return true
	}
	switch at := a.(type) {
	case *types.TyCon:
		bt, ok := b.(*types.TyCon)
		return ok && at.Name.Equals(bt.Name)
	case *types.TyApp:
		bt, ok := b.(*types.TyApp)
		return ok && unifyHeads(at.Fun, bt.Fun, sub) && unifyHeads(at.Arg, bt.Arg, sub)
	case *types.FunTy:
		bt, ok := b.(*types.FunTy)
		return ok && unifyHeads(at.From, bt.From, sub) && unifyHeads(at.To, bt.To, sub)
	default:
		return false
	}
}

// 9. Unrelated-method rule: the trait's type variable must appear in each
// method's type, so a symbol's dependent modules are computable from its
// type alone (spec.md §4.5).
func checkUnrelatedMethod(env *Env) []*CoherenceError {
	var errs []*CoherenceError
	for _, info := range env.Traits {
		for _, m := range info.Methods {
			if _, ok := m.Qual.FreeVars()[info.TyVar]; !ok {
				errs = append(errs, &CoherenceError{
					Category: "Shape",
					Message:  fmt.Sprintf("method %s of trait %s does not mention %s", m.Name, info.Name, info.TyVar),
					Trait:    info.Name,
				})
			}
		}
	}
	return errs
}
