package types

import (
	"fmt"
	"strings"

	"github.com/fixlang/fixc/internal/kinds"
)

// Scheme is the closed generalization of a qualified type: the set of
// generalized variables (each carrying its kind) plus the QualType
// (spec.md §3).
type Scheme struct {
	Vars []TyVar
	Qual *QualType
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Qual.String()
	}
	names := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		names[i] = v.Name
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.Qual)
}

// Generalize closes over every free variable of qt that is not already
// bound in the enclosing environment (monomorphicVars).
func Generalize(qt *QualType, monomorphicVars map[string]bool) *Scheme {
	fv := qt.FreeVars()
	names := freeVarNames(fv)
	var vars []TyVar
	for _, n := range names {
		if !monomorphicVars[n] {
			vars = append(vars, TyVar{Name: n, Kind: fv[n]})
		}
	}
	return &Scheme{Vars: vars, Qual: qt}
}

// Instantiate produces a fresh QualType from the scheme, replacing every
// generalized variable with a fresh one minted by fresh(kind).
func Instantiate(s *Scheme, fresh func(kinds.Kind) *TyVar) *QualType {
	sub := make(Substitution, len(s.Vars))
	for _, v := range s.Vars {
		sub[v.Name] = fresh(v.Kind)
	}
	return s.Qual.Substitute(sub)
}
