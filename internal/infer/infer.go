// Package infer implements type inference (spec.md §4.3): Hindley–Milner
// generalized over qualified types (predicates and associated-type
// equalities), with context reduction, entailment and simplification
// delegated to the trait environment.
package infer

import (
	"fmt"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// Infer computes the type of e under env, threading a substitution and
// accumulating the predicates and associated-type equalities that remain
// to be reduced by the caller (normally the enclosing InferGlobal call).
func Infer(ctx *Context, env *Env, e *ast.Expr) (*Result, error) {
	switch p := e.Payload.(type) {
	case ast.Var:
		return inferVar(ctx, env, p)
	case ast.Lit:
		return inferLit(ctx, p)
	case ast.App:
		return inferApp(ctx, env, p)
	case ast.Lam:
		return inferLam(ctx, env, p)
	case ast.Let:
		return inferLet(ctx, env, p)
	case ast.If:
		return inferIf(ctx, env, p)
	case ast.TyAnno:
		return inferTyAnno(ctx, env, p)
	case ast.MakeStruct:
		return inferMakeStruct(ctx, env, p)
	case ast.ArrayLit:
		return inferArrayLit(ctx, env, p)
	case ast.FFICall:
		return inferFFICall(ctx, env, p)
	default:
		return nil, fmt.Errorf("infer: unhandled payload %T", p)
	}
}

func inferVar(ctx *Context, env *Env, v ast.Var) (*Result, error) {
	var scheme *types.Scheme
	if len(v.Ref.NameSpace) == 0 {
		scheme = env.Vars[v.Ref.Identifier]
	}
	if scheme == nil {
		scheme, _ = env.LookupGlobal(v.Ref)
	}
	if scheme == nil {
		return nil, &UnboundVariableError{Name: v.Ref}
	}
	qt := types.Instantiate(scheme, ctx.Fresh)
	return &Result{Type: qt.Type, Sub: types.Empty(), Preds: qt.Preds, Eqs: qt.Eqs}, nil
}

// numTrait is the bare-variable constraint an unannotated numeric literal
// carries until defaulting resolves it (spec.md §4.3 "numeric literal
// defaulting").
var numTrait = names.In(names.Std, "Num")

func inferLit(ctx *Context, l ast.Lit) (*Result, error) {
	if l.DeclaredType != nil {
		return &Result{Type: l.DeclaredType, Sub: types.Empty()}, nil
	}
	v := ctx.Fresh(kinds.Star)
	return &Result{Type: v, Sub: types.Empty(), Preds: []types.Predicate{{Type: v, Trait: numTrait}}}, nil
}

func inferApp(ctx *Context, env *Env, a ast.App) (*Result, error) {
	funRes, err := Infer(ctx, env, a.Fun)
	if err != nil {
		return nil, err
	}
	sub := funRes.Sub
	preds := append([]types.Predicate{}, funRes.Preds...)
	eqs := append([]types.Equality{}, funRes.Eqs...)
	curEnv := applySubToEnv(env, sub)

	argTypes := make([]types.Type, len(a.Args))
	for i, arg := range a.Args {
		argRes, err := Infer(ctx, curEnv, arg)
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, argRes.Sub)
		curEnv = applySubToEnv(curEnv, argRes.Sub)
		argTypes[i] = argRes.Type
		preds = append(preds, argRes.Preds...)
		eqs = append(eqs, argRes.Eqs...)
	}

	result := types.Type(ctx.Fresh(kinds.Star))
	expected := result
	for i := len(argTypes) - 1; i >= 0; i-- {
		expected = &types.FunTy{From: types.Apply(sub, argTypes[i]), To: expected}
	}
	s2, err := Unify(types.Apply(sub, funRes.Type), expected)
	if err != nil {
		return nil, err
	}
	sub = types.Compose(sub, s2)

	return &Result{
		Type:  types.Apply(sub, result),
		Sub:   sub,
		Preds: substPreds(sub, preds),
		Eqs:   eqs,
	}, nil
}

func inferLam(ctx *Context, env *Env, l ast.Lam) (*Result, error) {
	curEnv := env
	paramTypes := make([]types.Type, len(l.Params))
	for i, pat := range l.Params {
		if err := ast.Valid(pat); err != nil {
			return nil, err
		}
		pt, next, err := bindPattern(ctx, curEnv, pat)
		if err != nil {
			return nil, err
		}
		paramTypes[i] = pt
		curEnv = next
	}
	bodyRes, err := Infer(ctx, curEnv, l.Body)
	if err != nil {
		return nil, err
	}
	result := bodyRes.Type
	for i := len(paramTypes) - 1; i >= 0; i-- {
		result = &types.FunTy{From: types.Apply(bodyRes.Sub, paramTypes[i]), To: result}
	}
	return &Result{Type: result, Sub: bodyRes.Sub, Preds: bodyRes.Preds, Eqs: bodyRes.Eqs}, nil
}

func inferLet(ctx *Context, env *Env, l ast.Let) (*Result, error) {
	boundRes, err := Infer(ctx, env, l.Bound)
	if err != nil {
		return nil, err
	}
	genEnv := applySubToEnv(env, boundRes.Sub)

	if vp, ok := l.Pattern.(ast.VarPattern); ok {
		qt := &types.QualType{Preds: boundRes.Preds, Eqs: boundRes.Eqs, Type: boundRes.Type}
		if vp.Type != nil {
			if _, err := Unify(vp.Type, boundRes.Type); err != nil {
				return nil, err
			}
		}
		scheme := types.Generalize(qt, genEnv.Monomorphic)
		bodyEnv := genEnv.Extend(vp.Name, scheme)
		bodyRes, err := Infer(ctx, bodyEnv, l.Body)
		if err != nil {
			return nil, err
		}
		return &Result{
			Type:  bodyRes.Type,
			Sub:   types.Compose(boundRes.Sub, bodyRes.Sub),
			Preds: bodyRes.Preds,
			Eqs:   bodyRes.Eqs,
		}, nil
	}

	// Struct/union patterns destructure one concrete value: their
	// components are monomorphic, not separately generalizable.
	if err := ast.Valid(l.Pattern); err != nil {
		return nil, err
	}
	patTy, bodyEnv, err := bindPattern(ctx, genEnv, l.Pattern)
	if err != nil {
		return nil, err
	}
	s2, err := Unify(patTy, boundRes.Type)
	if err != nil {
		return nil, err
	}
	bodyEnv = applySubToEnv(bodyEnv, s2)
	bodyRes, err := Infer(ctx, bodyEnv, l.Body)
	if err != nil {
		return nil, err
	}
	sub := types.Compose(types.Compose(boundRes.Sub, s2), bodyRes.Sub)
	preds := append(append([]types.Predicate{}, boundRes.Preds...), bodyRes.Preds...)
	eqs := append(append([]types.Equality{}, boundRes.Eqs...), bodyRes.Eqs...)
	return &Result{Type: bodyRes.Type, Sub: sub, Preds: preds, Eqs: eqs}, nil
}

func inferIf(ctx *Context, env *Env, i ast.If) (*Result, error) {
	condRes, err := Infer(ctx, env, i.Cond)
	if err != nil {
		return nil, err
	}
	sub := condRes.Sub
	boolTy := &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star}
	s1, err := Unify(types.Apply(sub, condRes.Type), boolTy)
	if err != nil {
		return nil, err
	}
	sub = types.Compose(sub, s1)

	thenRes, err := Infer(ctx, applySubToEnv(env, sub), i.Then)
	if err != nil {
		return nil, err
	}
	sub = types.Compose(sub, thenRes.Sub)

	elseRes, err := Infer(ctx, applySubToEnv(env, sub), i.Else)
	if err != nil {
		return nil, err
	}
	sub = types.Compose(sub, elseRes.Sub)

	s2, err := Unify(types.Apply(sub, thenRes.Type), types.Apply(sub, elseRes.Type))
	if err != nil {
		return nil, err
	}
	sub = types.Compose(sub, s2)

	preds := append(append(append([]types.Predicate{}, condRes.Preds...), thenRes.Preds...), elseRes.Preds...)
	eqs := append(append(append([]types.Equality{}, condRes.Eqs...), thenRes.Eqs...), elseRes.Eqs...)
	return &Result{Type: types.Apply(sub, thenRes.Type), Sub: sub, Preds: substPreds(sub, preds), Eqs: eqs}, nil
}

func inferTyAnno(ctx *Context, env *Env, t ast.TyAnno) (*Result, error) {
	inner, err := Infer(ctx, env, t.Expr)
	if err != nil {
		return nil, err
	}
	s, err := Unify(types.Apply(inner.Sub, inner.Type), t.Type)
	if err != nil {
		return nil, err
	}
	sub := types.Compose(inner.Sub, s)
	return &Result{Type: types.Apply(sub, t.Type), Sub: sub, Preds: substPreds(sub, inner.Preds), Eqs: inner.Eqs}, nil
}

func inferMakeStruct(ctx *Context, env *Env, m ast.MakeStruct) (*Result, error) {
	if ctx.StructFields == nil {
		return nil, fmt.Errorf("infer: no struct registry to resolve %s", m.Tycon)
	}
	declared, err := ctx.StructFields(m.Tycon)
	if err != nil {
		return nil, err
	}
	sub := types.Empty()
	var preds []types.Predicate
	var eqs []types.Equality
	curEnv := env
	for name, fe := range m.Fields {
		fieldTy, ok := declared[name]
		if !ok {
			return nil, fmt.Errorf("infer: %s has no field %s", m.Tycon, name)
		}
		fr, err := Infer(ctx, curEnv, fe)
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, fr.Sub)
		curEnv = applySubToEnv(curEnv, fr.Sub)
		s2, err := Unify(types.Apply(sub, fr.Type), types.Apply(sub, fieldTy))
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, s2)
		preds = append(preds, fr.Preds...)
		eqs = append(eqs, fr.Eqs...)
	}
	return &Result{
		Type:  &types.TyCon{Name: m.Tycon, Kind: kinds.Star},
		Sub:   sub,
		Preds: substPreds(sub, preds),
		Eqs:   eqs,
	}, nil
}

func inferArrayLit(ctx *Context, env *Env, a ast.ArrayLit) (*Result, error) {
	elemVar := types.Type(ctx.Fresh(kinds.Star))
	sub := types.Empty()
	var preds []types.Predicate
	var eqs []types.Equality
	curEnv := env
	for _, el := range a.Elems {
		r, err := Infer(ctx, curEnv, el)
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, r.Sub)
		curEnv = applySubToEnv(curEnv, r.Sub)
		s2, err := Unify(types.Apply(sub, elemVar), types.Apply(sub, r.Type))
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, s2)
		preds = append(preds, r.Preds...)
		eqs = append(eqs, r.Eqs...)
	}
	arrayTy := &types.TyApp{
		Fun: &types.TyCon{Name: names.In(names.Std, "Array"), Kind: &kinds.Arrow{From: kinds.Star, To: kinds.Star}},
		Arg: types.Apply(sub, elemVar),
	}
	return &Result{Type: arrayTy, Sub: sub, Preds: substPreds(sub, preds), Eqs: eqs}, nil
}

func inferFFICall(ctx *Context, env *Env, f ast.FFICall) (*Result, error) {
	sub := types.Empty()
	var preds []types.Predicate
	curEnv := env
	for i, arg := range f.Args {
		r, err := Infer(ctx, curEnv, arg)
		if err != nil {
			return nil, err
		}
		sub = types.Compose(sub, r.Sub)
		curEnv = applySubToEnv(curEnv, r.Sub)
		if i < len(f.ArgTys) {
			s2, err := Unify(types.Apply(sub, r.Type), types.Apply(sub, f.ArgTys[i]))
			if err != nil {
				return nil, err
			}
			sub = types.Compose(sub, s2)
		}
		preds = append(preds, r.Preds...)
	}
	return &Result{Type: types.Apply(sub, f.RetTy), Sub: sub, Preds: substPreds(sub, preds)}, nil
}
