package types

import (
	"sort"

	"github.com/fixlang/fixc/internal/kinds"
)

// Substitution maps type-variable names to their replacement types.
type Substitution map[string]Type

// Empty returns a fresh, empty substitution.
func Empty() Substitution { return Substitution{} }

// Apply substitutes t by every binding in sub.
func Apply(sub Substitution, t Type) Type {
	if len(sub) == 0 {
		return t
	}
	return t.Substitute(sub)
}

// Compose returns a substitution equivalent to applying s1 then s2 (s2 is
// the most recently computed substitution): s2 is applied to every binding
// of s1, and s2's bindings are added only for variables s1 does not bind,
// so on overlap s1's binding wins.
func Compose(s1, s2 Substitution) Substitution {
	out := make(Substitution, len(s1)+len(s2))
	for k, v := range s1 {
		out[k] = Apply(s2, v)
	}
	for k, v := range s2 {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Extend returns sub with name bound to t, without mutating sub.
func (sub Substitution) Extend(name string, t Type) Substitution {
	out := make(Substitution, len(sub)+1)
	for k, v := range sub {
		out[k] = v
	}
	out[name] = t
	return out
}

// Domain returns the bound variable names in deterministic order.
func (sub Substitution) Domain() []string {
	names := make([]string, 0, len(sub))
	for k := range sub {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// freeVarNames extracts just the names from a FreeVars() map, sorted.
func freeVarNames(fv map[string]kinds.Kind) []string {
	out := make([]string, 0, len(fv))
	for k := range fv {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
