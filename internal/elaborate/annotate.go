package elaborate

import (
	"fmt"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/infer"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// annotate mirrors internal/infer's Infer traversal case for case, but
// builds a new Expr tree carrying each subexpression's inferred type
// instead of discarding it once the enclosing node's Result is computed.
// infer.Infer already needs only the whole-expression Result (Elaborate's
// caller unifies that against the declared scheme); annotate exists
// because the specializer's global-rewrite pass (internal/specialize)
// needs every node's own type, not just the root's.
func annotate(ctx *infer.Context, env *infer.Env, e *ast.Expr) (*ast.Expr, *infer.Result, error) {
	switch p := e.Payload.(type) {
	case ast.Var:
		return annotateVar(ctx, env, e, p)
	case ast.Lit:
		return annotateLit(ctx, e, p)
	case ast.App:
		return annotateApp(ctx, env, e, p)
	case ast.Lam:
		return annotateLam(ctx, env, e, p)
	case ast.Let:
		return annotateLet(ctx, env, e, p)
	case ast.If:
		return annotateIf(ctx, env, e, p)
	case ast.TyAnno:
		return annotateTyAnno(ctx, env, e, p)
	case ast.MakeStruct:
		return annotateMakeStruct(ctx, env, e, p)
	case ast.ArrayLit:
		return annotateArrayLit(ctx, env, e, p)
	case ast.FFICall:
		return annotateFFICall(ctx, env, e, p)
	default:
		return nil, nil, fmt.Errorf("elaborate: unhandled expression payload %T", p)
	}
}

func stamp(e *ast.Expr, payload ast.Payload, ty types.Type) *ast.Expr {
	return &ast.Expr{
		Payload:  payload,
		Type:     types.NewTypeNode(ty),
		FreeVars: e.FreeVars,
		Span:     e.Span,
		AppOrder: e.AppOrder,
	}
}

func annotateVar(ctx *infer.Context, env *infer.Env, e *ast.Expr, v ast.Var) (*ast.Expr, *infer.Result, error) {
	var scheme *types.Scheme
	if len(v.Ref.NameSpace) == 0 {
		scheme = env.Vars[v.Ref.Identifier]
	}
	if scheme == nil {
		scheme, _ = env.LookupGlobal(v.Ref)
	}
	if scheme == nil {
		return nil, nil, &infer.UnboundVariableError{Name: v.Ref}
	}
	qt := types.Instantiate(scheme, ctx.Fresh)
	res := &infer.Result{Type: qt.Type, Sub: types.Empty(), Preds: qt.Preds, Eqs: qt.Eqs}
	return stamp(e, v, res.Type), res, nil
}

var numTrait = names.In(names.Std, "Num")

func annotateLit(ctx *infer.Context, e *ast.Expr, l ast.Lit) (*ast.Expr, *infer.Result, error) {
	if l.DeclaredType != nil {
		res := &infer.Result{Type: l.DeclaredType, Sub: types.Empty()}
		return stamp(e, l, res.Type), res, nil
	}
	v := types.Type(ctx.Fresh(kinds.Star))
	res := &infer.Result{Type: v, Sub: types.Empty(), Preds: []types.Predicate{{Type: v, Trait: numTrait}}}
	return stamp(e, l, res.Type), res, nil
}

func annotateApp(ctx *infer.Context, env *infer.Env, e *ast.Expr, a ast.App) (*ast.Expr, *infer.Result, error) {
	fun, funRes, err := annotate(ctx, env, a.Fun)
	if err != nil {
		return nil, nil, err
	}
	sub := funRes.Sub
	preds := append([]types.Predicate{}, funRes.Preds...)
	eqs := append([]types.Equality{}, funRes.Eqs...)
	curEnv := infer.ApplySubToEnv(env, sub)

	args := make([]*ast.Expr, len(a.Args))
	argTypes := make([]types.Type, len(a.Args))
	for i, arg := range a.Args {
		argExpr, argRes, err := annotate(ctx, curEnv, arg)
		if err != nil {
			return nil, nil, err
		}
		args[i] = argExpr
		sub = types.Compose(sub, argRes.Sub)
		curEnv = infer.ApplySubToEnv(curEnv, argRes.Sub)
		argTypes[i] = argRes.Type
		preds = append(preds, argRes.Preds...)
		eqs = append(eqs, argRes.Eqs...)
	}

	result := types.Type(ctx.Fresh(kinds.Star))
	expected := result
	for i := len(argTypes) - 1; i >= 0; i-- {
		expected = &types.FunTy{From: types.Apply(sub, argTypes[i]), To: expected}
	}
	s2, err := infer.Unify(types.Apply(sub, funRes.Type), expected)
	if err != nil {
		return nil, nil, err
	}
	sub = types.Compose(sub, s2)

	res := &infer.Result{
		Type:  types.Apply(sub, result),
		Sub:   sub,
		Preds: substPreds(sub, preds),
		Eqs:   eqs,
	}
	return stamp(e, ast.App{Fun: fun, Args: args}, res.Type), res, nil
}

func annotateLam(ctx *infer.Context, env *infer.Env, e *ast.Expr, l ast.Lam) (*ast.Expr, *infer.Result, error) {
	curEnv := env
	paramTypes := make([]types.Type, len(l.Params))
	for i, pat := range l.Params {
		if err := ast.Valid(pat); err != nil {
			return nil, nil, err
		}
		pt, next, err := infer.BindPattern(ctx, curEnv, pat)
		if err != nil {
			return nil, nil, err
		}
		paramTypes[i] = pt
		curEnv = next
	}
	body, bodyRes, err := annotate(ctx, curEnv, l.Body)
	if err != nil {
		return nil, nil, err
	}
	result := bodyRes.Type
	for i := len(paramTypes) - 1; i >= 0; i-- {
		result = &types.FunTy{From: types.Apply(bodyRes.Sub, paramTypes[i]), To: result}
	}
	res := &infer.Result{Type: result, Sub: bodyRes.Sub, Preds: bodyRes.Preds, Eqs: bodyRes.Eqs}
	return stamp(e, ast.Lam{Params: l.Params, Body: body}, res.Type), res, nil
}

func annotateLet(ctx *infer.Context, env *infer.Env, e *ast.Expr, l ast.Let) (*ast.Expr, *infer.Result, error) {
	bound, boundRes, err := annotate(ctx, env, l.Bound)
	if err != nil {
		return nil, nil, err
	}
	genEnv := infer.ApplySubToEnv(env, boundRes.Sub)

	if vp, ok := l.Pattern.(ast.VarPattern); ok {
		qt := &types.QualType{Preds: boundRes.Preds, Eqs: boundRes.Eqs, Type: boundRes.Type}
		if vp.Type != nil {
			if _, err := infer.Unify(vp.Type, boundRes.Type); err != nil {
				return nil, nil, err
			}
		}
		scheme := types.Generalize(qt, genEnv.Monomorphic)
		bodyEnv := genEnv.Extend(vp.Name, scheme)
		body, bodyRes, err := annotate(ctx, bodyEnv, l.Body)
		if err != nil {
			return nil, nil, err
		}
		res := &infer.Result{
			Type:  bodyRes.Type,
			Sub:   types.Compose(boundRes.Sub, bodyRes.Sub),
			Preds: bodyRes.Preds,
			Eqs:   bodyRes.Eqs,
		}
		return stamp(e, ast.Let{Pattern: l.Pattern, Bound: bound, Body: body}, res.Type), res, nil
	}

	if err := ast.Valid(l.Pattern); err != nil {
		return nil, nil, err
	}
	patTy, bodyEnv, err := infer.BindPattern(ctx, genEnv, l.Pattern)
	if err != nil {
		return nil, nil, err
	}
	s2, err := infer.Unify(patTy, boundRes.Type)
	if err != nil {
		return nil, nil, err
	}
	bodyEnv = infer.ApplySubToEnv(bodyEnv, s2)
	body, bodyRes, err := annotate(ctx, bodyEnv, l.Body)
	if err != nil {
		return nil, nil, err
	}
	sub := types.Compose(types.Compose(boundRes.Sub, s2), bodyRes.Sub)
	preds := append(append([]types.Predicate{}, boundRes.Preds...), bodyRes.Preds...)
	eqs := append(append([]types.Equality{}, boundRes.Eqs...), bodyRes.Eqs...)
	res := &infer.Result{Type: bodyRes.Type, Sub: sub, Preds: preds, Eqs: eqs}
	return stamp(e, ast.Let{Pattern: l.Pattern, Bound: bound, Body: body}, res.Type), res, nil
}

func boolTy() types.Type { return &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star} }

func annotateIf(ctx *infer.Context, env *infer.Env, e *ast.Expr, i ast.If) (*ast.Expr, *infer.Result, error) {
	cond, condRes, err := annotate(ctx, env, i.Cond)
	if err != nil {
		return nil, nil, err
	}
	sub := condRes.Sub
	s1, err := infer.Unify(types.Apply(sub, condRes.Type), boolTy())
	if err != nil {
		return nil, nil, err
	}
	sub = types.Compose(sub, s1)

	then, thenRes, err := annotate(ctx, infer.ApplySubToEnv(env, sub), i.Then)
	if err != nil {
		return nil, nil, err
	}
	sub = types.Compose(sub, thenRes.Sub)

	els, elseRes, err := annotate(ctx, infer.ApplySubToEnv(env, sub), i.Else)
	if err != nil {
		return nil, nil, err
	}
	sub = types.Compose(sub, elseRes.Sub)

	s2, err := infer.Unify(types.Apply(sub, thenRes.Type), types.Apply(sub, elseRes.Type))
	if err != nil {
		return nil, nil, err
	}
	sub = types.Compose(sub, s2)

	preds := append(append(append([]types.Predicate{}, condRes.Preds...), thenRes.Preds...), elseRes.Preds...)
	eqs := append(append(append([]types.Equality{}, condRes.Eqs...), thenRes.Eqs...), elseRes.Eqs...)
	res := &infer.Result{Type: types.Apply(sub, thenRes.Type), Sub: sub, Preds: substPreds(sub, preds), Eqs: eqs}
	return stamp(e, ast.If{Cond: cond, Then: then, Else: els}, res.Type), res, nil
}

func annotateTyAnno(ctx *infer.Context, env *infer.Env, e *ast.Expr, t ast.TyAnno) (*ast.Expr, *infer.Result, error) {
	inner, innerRes, err := annotate(ctx, env, t.Expr)
	if err != nil {
		return nil, nil, err
	}
	s, err := infer.Unify(types.Apply(innerRes.Sub, innerRes.Type), t.Type)
	if err != nil {
		return nil, nil, err
	}
	sub := types.Compose(innerRes.Sub, s)
	res := &infer.Result{Type: types.Apply(sub, t.Type), Sub: sub, Preds: substPreds(sub, innerRes.Preds), Eqs: innerRes.Eqs}
	return stamp(e, ast.TyAnno{Expr: inner, Type: t.Type}, res.Type), res, nil
}

func annotateMakeStruct(ctx *infer.Context, env *infer.Env, e *ast.Expr, m ast.MakeStruct) (*ast.Expr, *infer.Result, error) {
	if ctx.StructFields == nil {
		return nil, nil, fmt.Errorf("elaborate: no struct registry to resolve %s", m.Tycon)
	}
	declared, err := ctx.StructFields(m.Tycon)
	if err != nil {
		return nil, nil, err
	}
	sub := types.Empty()
	var preds []types.Predicate
	var eqs []types.Equality
	curEnv := env
	fields := make(map[string]*ast.Expr, len(m.Fields))
	for name, fe := range m.Fields {
		fieldTy, ok := declared[name]
		if !ok {
			return nil, nil, fmt.Errorf("elaborate: %s has no field %s", m.Tycon, name)
		}
		fExpr, fr, err := annotate(ctx, curEnv, fe)
		if err != nil {
			return nil, nil, err
		}
		fields[name] = fExpr
		sub = types.Compose(sub, fr.Sub)
		curEnv = infer.ApplySubToEnv(curEnv, fr.Sub)
		s2, err := infer.Unify(types.Apply(sub, fr.Type), types.Apply(sub, fieldTy))
		if err != nil {
			return nil, nil, err
		}
		sub = types.Compose(sub, s2)
		preds = append(preds, fr.Preds...)
		eqs = append(eqs, fr.Eqs...)
	}
	res := &infer.Result{
		Type:  &types.TyCon{Name: m.Tycon, Kind: kinds.Star},
		Sub:   sub,
		Preds: substPreds(sub, preds),
		Eqs:   eqs,
	}
	return stamp(e, ast.MakeStruct{Tycon: m.Tycon, Fields: fields}, res.Type), res, nil
}

func annotateArrayLit(ctx *infer.Context, env *infer.Env, e *ast.Expr, a ast.ArrayLit) (*ast.Expr, *infer.Result, error) {
	elemVar := types.Type(ctx.Fresh(kinds.Star))
	sub := types.Empty()
	var preds []types.Predicate
	var eqs []types.Equality
	curEnv := env
	elems := make([]*ast.Expr, len(a.Elems))
	for i, el := range a.Elems {
		elExpr, r, err := annotate(ctx, curEnv, el)
		if err != nil {
			return nil, nil, err
		}
		elems[i] = elExpr
		sub = types.Compose(sub, r.Sub)
		curEnv = infer.ApplySubToEnv(curEnv, r.Sub)
		s2, err := infer.Unify(types.Apply(sub, elemVar), types.Apply(sub, r.Type))
		if err != nil {
			return nil, nil, err
		}
		sub = types.Compose(sub, s2)
		preds = append(preds, r.Preds...)
		eqs = append(eqs, r.Eqs...)
	}
	arrayTy := &types.TyApp{
		Fun: &types.TyCon{Name: names.In(names.Std, "Array"), Kind: &kinds.Arrow{From: kinds.Star, To: kinds.Star}},
		Arg: types.Apply(sub, elemVar),
	}
	res := &infer.Result{Type: arrayTy, Sub: sub, Preds: substPreds(sub, preds), Eqs: eqs}
	return stamp(e, ast.ArrayLit{Elems: elems}, res.Type), res, nil
}

func annotateFFICall(ctx *infer.Context, env *infer.Env, e *ast.Expr, f ast.FFICall) (*ast.Expr, *infer.Result, error) {
	sub := types.Empty()
	var preds []types.Predicate
	curEnv := env
	args := make([]*ast.Expr, len(f.Args))
	for i, arg := range f.Args {
		argExpr, r, err := annotate(ctx, curEnv, arg)
		if err != nil {
			return nil, nil, err
		}
		args[i] = argExpr
		sub = types.Compose(sub, r.Sub)
		curEnv = infer.ApplySubToEnv(curEnv, r.Sub)
		if i < len(f.ArgTys) {
			s2, err := infer.Unify(types.Apply(sub, r.Type), types.Apply(sub, f.ArgTys[i]))
			if err != nil {
				return nil, nil, err
			}
			sub = types.Compose(sub, s2)
		}
		preds = append(preds, r.Preds...)
	}
	res := &infer.Result{Type: types.Apply(sub, f.RetTy), Sub: sub, Preds: substPreds(sub, preds)}
	return stamp(e, ast.FFICall{Name: f.Name, RetTy: f.RetTy, ArgTys: f.ArgTys, Args: args}, res.Type), res, nil
}
