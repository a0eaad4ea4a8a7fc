package infer

import (
	"fmt"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/types"
)

// BindPattern exposes bindPattern to internal/elaborate's parallel
// annotating traversal, which needs the same pattern-to-environment
// binding Infer performs internally but has no other way to reach it.
func BindPattern(ctx *Context, env *Env, pat ast.Pattern) (types.Type, *Env, error) {
	return bindPattern(ctx, env, pat)
}

// bindPattern infers the type a pattern matches against and extends env
// with each variable it binds, monomorphically (spec.md §3: pattern
// variables are never generalized individually — only a whole Let-bound
// name is).
func bindPattern(ctx *Context, env *Env, pat ast.Pattern) (types.Type, *Env, error) {
	switch p := pat.(type) {
	case ast.VarPattern:
		t := p.Type
		if t == nil {
			t = ctx.Fresh(kinds.Star)
		}
		next := env.Extend(p.Name, &types.Scheme{Qual: &types.QualType{Type: t}})
		return t, next.ExtendMonomorphic(t), nil

	case ast.StructPattern:
		if ctx.StructFields == nil {
			return nil, nil, fmt.Errorf("infer: no struct registry to resolve %s", p.Tycon)
		}
		declared, err := ctx.StructFields(p.Tycon)
		if err != nil {
			return nil, nil, err
		}
		cur := env
		for name, sub := range p.Fields {
			fieldTy, ok := declared[name]
			if !ok {
				return nil, nil, fmt.Errorf("infer: %s has no field %s", p.Tycon, name)
			}
			subTy, next, err := bindPattern(ctx, cur, sub)
			if err != nil {
				return nil, nil, err
			}
			sub2, err := Unify(subTy, fieldTy)
			if err != nil {
				return nil, nil, err
			}
			cur = applySubToEnv(next, sub2)
		}
		return &types.TyCon{Name: p.Tycon, Kind: kinds.Star}, cur, nil

	case ast.UnionPattern:
		if ctx.UnionVariant == nil {
			return nil, nil, fmt.Errorf("infer: no union registry to resolve %s", p.Tycon)
		}
		payload, err := ctx.UnionVariant(p.Tycon, p.Variant)
		if err != nil {
			return nil, nil, err
		}
		cur := env
		if p.Sub != nil {
			if payload == nil {
				return nil, nil, fmt.Errorf("infer: variant %s.%s carries no payload to destructure", p.Tycon, p.Variant)
			}
			subTy, next, err := bindPattern(ctx, cur, p.Sub)
			if err != nil {
				return nil, nil, err
			}
			sub2, err := Unify(subTy, payload)
			if err != nil {
				return nil, nil, err
			}
			cur = applySubToEnv(next, sub2)
		}
		return &types.TyCon{Name: p.Tycon, Kind: kinds.Star}, cur, nil

	default:
		return nil, nil, fmt.Errorf("infer: unhandled pattern %T", pat)
	}
}
