package infer

import (
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// DefaultInt is the concrete type Default binds a bare-variable Num
// predicate to, grounded on the teacher's typechecker_defaulting.go
// default-to-Int pass. Neither inference nor the pipeline calls Default,
// so an ambiguous numeric literal is not defaulted.
var DefaultInt types.Type = &types.TyCon{Name: names.In(names.Std, "Int"), Kind: kinds.Star}

// Default resolves every remaining bare-variable Num predicate to
// DefaultInt, returning the substitution to apply and the predicates that
// were not defaulted (anything whose subject was not a bare variable, or
// whose trait was not Num, is left for the caller to report as
// ambiguous).
func Default(ps []types.Predicate) (types.Substitution, []types.Predicate) {
	sub := types.Empty()
	var rest []types.Predicate
	seen := map[string]bool{}
	for _, p := range ps {
		v, ok := p.Type.(*types.TyVar)
		if ok && p.Trait.Equals(numTrait) {
			if !seen[v.Name] {
				sub = sub.Extend(v.Name, DefaultInt)
				seen[v.Name] = true
			}
			continue
		}
		rest = append(rest, p)
	}
	return sub, rest
}
