package program

import (
	"fmt"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// resolveScope carries the context a resolution walk needs: which module
// and import list to resolve short names against, and which local names
// (lambda parameters, let/pattern bindings) currently shadow the global
// Value namespace and so must NOT be qualified — mirroring internal/infer
// Env's own local-vs-global split (a Var with an empty NameSpace is looked
// up locally first; internal/program's job is to decide, once and for
// all, which Vars stay local and which get promoted to a resolved global
// FullName before inference ever sees them).
type resolveScope struct {
	module  names.NameSpace
	imports []names.ImportStatement
	locals  map[string]bool
}

func (p *Program) newScope(module names.NameSpace, imports []names.ImportStatement) *resolveScope {
	return &resolveScope{module: module, imports: imports, locals: map[string]bool{}}
}

func (s *resolveScope) withLocal(name string) *resolveScope {
	next := &resolveScope{module: s.module, imports: s.imports, locals: make(map[string]bool, len(s.locals)+1)}
	for k, v := range s.locals {
		next.locals[k] = v
	}
	next.locals[name] = true
	return next
}

func (p *Program) resolveName(s *resolveScope, short names.FullName, allowed names.CategorySet) (names.FullName, error) {
	return p.Resolver.Resolve(s.module, short, allowed, s.imports)
}

// resolveType rewrites every TyCon/AssocTy short name reachable from t to
// its resolved FullName, recursing structurally.
func (p *Program) resolveType(s *resolveScope, t types.Type) (types.Type, error) {
	switch ty := t.(type) {
	case nil:
		return nil, nil
	case *types.TyVar:
		return ty, nil
	case *types.TyCon:
		full, err := p.resolveName(s, ty.Name, names.Categories(names.Tycon))
		if err != nil {
			return nil, err
		}
		return &types.TyCon{Name: full, Kind: ty.Kind}, nil
	case *types.TyApp:
		fun, err := p.resolveType(s, ty.Fun)
		if err != nil {
			return nil, err
		}
		arg, err := p.resolveType(s, ty.Arg)
		if err != nil {
			return nil, err
		}
		return &types.TyApp{Fun: fun, Arg: arg}, nil
	case *types.FunTy:
		from, err := p.resolveType(s, ty.From)
		if err != nil {
			return nil, err
		}
		to, err := p.resolveType(s, ty.To)
		if err != nil {
			return nil, err
		}
		return &types.FunTy{From: from, To: to}, nil
	case *types.AssocTy:
		full, err := p.resolveName(s, ty.Ref, names.Categories(names.AssocType))
		if err != nil {
			return nil, err
		}
		args := make([]types.Type, len(ty.Args))
		for i, a := range ty.Args {
			ra, err := p.resolveType(s, a)
			if err != nil {
				return nil, err
			}
			args[i] = ra
		}
		return &types.AssocTy{Ref: full, Args: args}, nil
	default:
		return nil, fmt.Errorf("program: unknown type %T", t)
	}
}

func (p *Program) resolvePredicate(s *resolveScope, pred types.Predicate) (types.Predicate, error) {
	ty, err := p.resolveType(s, pred.Type)
	if err != nil {
		return types.Predicate{}, err
	}
	trait, err := p.resolveName(s, pred.Trait, names.Categories(names.Trait))
	if err != nil {
		return types.Predicate{}, err
	}
	return types.Predicate{Type: ty, Trait: trait}, nil
}

func (p *Program) resolveEquality(s *resolveScope, eq types.Equality) (types.Equality, error) {
	assoc, err := p.resolveType(s, eq.Assoc)
	if err != nil {
		return types.Equality{}, err
	}
	value, err := p.resolveType(s, eq.Value)
	if err != nil {
		return types.Equality{}, err
	}
	return types.Equality{Assoc: assoc.(*types.AssocTy), Value: value}, nil
}

func (p *Program) resolveQual(s *resolveScope, qt *types.QualType) (*types.QualType, error) {
	if qt == nil {
		return nil, nil
	}
	preds := make([]types.Predicate, len(qt.Preds))
	for i, pr := range qt.Preds {
		rp, err := p.resolvePredicate(s, pr)
		if err != nil {
			return nil, err
		}
		preds[i] = rp
	}
	eqs := make([]types.Equality, len(qt.Eqs))
	for i, e := range qt.Eqs {
		re, err := p.resolveEquality(s, e)
		if err != nil {
			return nil, err
		}
		eqs[i] = re
	}
	ty, err := p.resolveType(s, qt.Type)
	if err != nil {
		return nil, err
	}
	return &types.QualType{Preds: preds, Eqs: eqs, Kinds: qt.Kinds, Type: ty}, nil
}

func (p *Program) resolveScheme(s *resolveScope, sch *types.Scheme) (*types.Scheme, error) {
	if sch == nil {
		return nil, nil
	}
	qt, err := p.resolveQual(s, sch.Qual)
	if err != nil {
		return nil, err
	}
	return &types.Scheme{Vars: sch.Vars, Qual: qt}, nil
}

// resolvePattern rewrites a pattern's tycon references, returning the
// rewritten pattern and an extended scope with its bound variables marked
// local.
func (p *Program) resolvePattern(s *resolveScope, pat ast.Pattern) (ast.Pattern, *resolveScope, error) {
	switch pt := pat.(type) {
	case ast.VarPattern:
		ty, err := p.resolveType(s, pt.Type)
		if err != nil {
			return nil, nil, err
		}
		return ast.VarPattern{Name: pt.Name, Type: ty}, s.withLocal(pt.Name), nil
	case ast.StructPattern:
		tycon, err := p.resolveName(s, pt.Tycon, names.Categories(names.Tycon))
		if err != nil {
			return nil, nil, err
		}
		fields := make(map[string]ast.Pattern, len(pt.Fields))
		cur := s
		for name, sub := range pt.Fields {
			rsub, next, err := p.resolvePattern(cur, sub)
			if err != nil {
				return nil, nil, err
			}
			fields[name] = rsub
			cur = next
		}
		return ast.StructPattern{Tycon: tycon, Fields: fields}, cur, nil
	case ast.UnionPattern:
		tycon, err := p.resolveName(s, pt.Tycon, names.Categories(names.Tycon))
		if err != nil {
			return nil, nil, err
		}
		if pt.Sub == nil {
			return ast.UnionPattern{Tycon: tycon, Variant: pt.Variant}, s, nil
		}
		rsub, next, err := p.resolvePattern(s, pt.Sub)
		if err != nil {
			return nil, nil, err
		}
		return ast.UnionPattern{Tycon: tycon, Variant: pt.Variant, Sub: rsub}, next, nil
	default:
		return nil, nil, fmt.Errorf("program: unknown pattern %T", pat)
	}
}

// resolveExpr rewrites every short name reachable from e: Var references
// not bound by an enclosing pattern are resolved against the Value
// namespace; Lit/TyAnno/FFICall type references and MakeStruct's tycon are
// resolved against Tycon/AssocType as appropriate.
func (p *Program) resolveExpr(s *resolveScope, e *ast.Expr) (*ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	next := *e
	switch pl := e.Payload.(type) {
	case ast.Var:
		if len(pl.Ref.NameSpace) == 0 && s.locals[pl.Ref.Identifier] {
			next.Payload = pl
			return &next, nil
		}
		full, err := p.resolveName(s, pl.Ref, names.Categories(names.Value))
		if err != nil {
			return nil, err
		}
		next.Payload = ast.Var{Ref: full}

	case ast.Lit:
		declared, err := p.resolveType(s, pl.DeclaredType)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.Lit{DeclaredType: declared, FreeNames: pl.FreeNames, CodeGen: pl.CodeGen}

	case ast.App:
		fun, err := p.resolveExpr(s, pl.Fun)
		if err != nil {
			return nil, err
		}
		args := make([]*ast.Expr, len(pl.Args))
		for i, a := range pl.Args {
			ra, err := p.resolveExpr(s, a)
			if err != nil {
				return nil, err
			}
			args[i] = ra
		}
		next.Payload = ast.App{Fun: fun, Args: args}

	case ast.Lam:
		cur := s
		params := make([]ast.Pattern, len(pl.Params))
		for i, param := range pl.Params {
			rp, nextScope, err := p.resolvePattern(cur, param)
			if err != nil {
				return nil, err
			}
			params[i] = rp
			cur = nextScope
		}
		body, err := p.resolveExpr(cur, pl.Body)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.Lam{Params: params, Body: body}

	case ast.Let:
		bound, err := p.resolveExpr(s, pl.Bound)
		if err != nil {
			return nil, err
		}
		pat, bodyScope, err := p.resolvePattern(s, pl.Pattern)
		if err != nil {
			return nil, err
		}
		body, err := p.resolveExpr(bodyScope, pl.Body)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.Let{Pattern: pat, Bound: bound, Body: body}

	case ast.If:
		cond, err := p.resolveExpr(s, pl.Cond)
		if err != nil {
			return nil, err
		}
		then, err := p.resolveExpr(s, pl.Then)
		if err != nil {
			return nil, err
		}
		els, err := p.resolveExpr(s, pl.Else)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.If{Cond: cond, Then: then, Else: els}

	case ast.TyAnno:
		inner, err := p.resolveExpr(s, pl.Expr)
		if err != nil {
			return nil, err
		}
		ty, err := p.resolveType(s, pl.Type)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.TyAnno{Expr: inner, Type: ty}

	case ast.MakeStruct:
		tycon, err := p.resolveName(s, pl.Tycon, names.Categories(names.Tycon))
		if err != nil {
			return nil, err
		}
		fields := make(map[string]*ast.Expr, len(pl.Fields))
		for name, fe := range pl.Fields {
			rf, err := p.resolveExpr(s, fe)
			if err != nil {
				return nil, err
			}
			fields[name] = rf
		}
		next.Payload = ast.MakeStruct{Tycon: tycon, Fields: fields}

	case ast.ArrayLit:
		elems := make([]*ast.Expr, len(pl.Elems))
		for i, el := range pl.Elems {
			re, err := p.resolveExpr(s, el)
			if err != nil {
				return nil, err
			}
			elems[i] = re
		}
		next.Payload = ast.ArrayLit{Elems: elems}

	case ast.FFICall:
		retTy, err := p.resolveType(s, pl.RetTy)
		if err != nil {
			return nil, err
		}
		argTys := make([]types.Type, len(pl.ArgTys))
		for i, t := range pl.ArgTys {
			rt, err := p.resolveType(s, t)
			if err != nil {
				return nil, err
			}
			argTys[i] = rt
		}
		args := make([]*ast.Expr, len(pl.Args))
		for i, a := range pl.Args {
			ra, err := p.resolveExpr(s, a)
			if err != nil {
				return nil, err
			}
			args[i] = ra
		}
		next.Payload = ast.FFICall{Name: pl.Name, RetTy: retTy, ArgTys: argTys, Args: args}

	default:
		return nil, fmt.Errorf("program: unknown expression payload %T", e.Payload)
	}
	return &next, nil
}
