package infer

import (
	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/types"
)

// InferGlobal runs the scheme-directed elaboration algorithm of spec.md
// §4.3 for a single global definition: infer the body, unify its type
// against the (instantiated) declared scheme, reduce and simplify the
// declared context together with the body's outstanding predicates, then
// check every surviving predicate is entailed by the declared context. A predicate that survives simplification but
// isn't entailed names a variable whose instance can never be determined.
func InferGlobal(ctx *Context, env *Env, declared *types.Scheme, body *ast.Expr) (*Result, error) {
	instQual := types.Instantiate(declared, ctx.Fresh)

	bodyRes, err := Infer(ctx, env, body)
	if err != nil {
		return nil, err
	}

	s, err := Unify(types.Apply(bodyRes.Sub, bodyRes.Type), instQual.Type)
	if err != nil {
		return nil, err
	}
	sub := types.Compose(bodyRes.Sub, s)

	declaredCtx := substPreds(sub, instQual.Preds)
	outstanding := append(append([]types.Predicate{}, declaredCtx...), substPreds(sub, bodyRes.Preds)...)
	reduced, err := Reduce(ctx.Traits, outstanding)
	if err != nil {
		return nil, err
	}
	simplified := Simplify(ctx.Traits, reduced)

	for _, p := range simplified {
		if !Entails(ctx.Traits, declaredCtx, p) {
			return nil, &AmbiguousPredicateError{Predicate: p}
		}
	}

	return &Result{
		Type:  types.Apply(sub, instQual.Type),
		Sub:   sub,
		Preds: simplified,
		Eqs:   bodyRes.Eqs,
	}, nil
}
