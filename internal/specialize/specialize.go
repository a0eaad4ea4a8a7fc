// Package specialize implements the monomorphizing specializer of
// spec.md §4.5: a worklist-driven fixed-point loop that instantiates
// every generic global value at every concrete type it is demanded at,
// resolving trait-method dispatch statically along the way.
//
// Grounded on other_examples' malphas-lang Monomorphizer
// (specializedFuncs/instantiations tables, worklist Monomorphize loop,
// mangleName keyed on type arguments), generalized from "mangle a Go-AST
// function copy" to "elaborate on demand via an injected Elaborate
// collaborator, unify, substitute into type annotations, recursively
// demand every non-local Var" per spec.md §4.5's algorithm.
package specialize

import (
	"fmt"
	"hash/fnv"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/infer"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/span"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

// InstantiatedName is a generic FullName suffixed with a canonical hash of
// the concrete type it was demanded at. The module model declares no type
// aliases and no step expands any, so the hash is taken over
// sym.Type.String() directly.
type InstantiatedName struct {
	Generic names.FullName
	Hash    string
}

// FullName renders n as the FullName that replaces every demanding Var's
// reference, so the instantiated table can be keyed uniformly with every
// other FullName-keyed map in this module (see internal/infer's note on
// why FullName itself cannot be a map key).
func (n InstantiatedName) FullName() names.FullName {
	return names.FullName{NameSpace: n.Generic.NameSpace, Identifier: n.Generic.Identifier + "$" + n.Hash}
}

func (n InstantiatedName) String() string { return n.FullName().String() }

// hashType computes the canonical hash of a concrete, alias-expanded type.
func hashType(t types.Type) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.String()))
	return fmt.Sprintf("%x", h.Sum64())
}

// InstantiatedSymbol is one monomorphic specialization of a generic global
// value. Expr is nil while the symbol sits in the deferred queue.
type InstantiatedSymbol struct {
	Name InstantiatedName
	Type types.Type
	Expr *ast.Expr
}

// TypeUndeterminedError reports a demand whose concrete type still carries
// free type variables (spec.md §4.5, §7 "Ambiguity").
type TypeUndeterminedError struct {
	Type types.Type
	Span *span.Span
}

func (e *TypeUndeterminedError) Error() string {
	return fmt.Sprintf("type not determined: %s", e.Type)
}

// UnknownGlobalError reports a demand for a global name with no
// corresponding entry in the global-value table.
type UnknownGlobalError struct{ Name names.FullName }

func (e *UnknownGlobalError) Error() string { return "unknown global " + e.Name.String() }

// NoMatchingMethodError reports a Method global with no implementation
// whose head type unifies with the demanded type.
type NoMatchingMethodError struct {
	Name names.FullName
	Type types.Type
}

func (e *NoMatchingMethodError) Error() string {
	return fmt.Sprintf("no instance implementation of %s matches %s", e.Name, e.Type)
}

// Elaborate produces the (not yet substituted) elaborated body of a
// generic global, named name with declared Scheme/body, against a
// required, ground (or ground-enough) type, together with the
// substitution accumulated while doing so (spec.md §4.3's elaborate,
// §4.5's expr₀/σ). name is passed through for internal/elaborate's cache
// key; it never participates in unification here. This is the seam
// between this package and internal/elaborate's cache-keyed instance
// elaboration (§2 step 6) — specialize never reads the cache itself.
type Elaborate func(name names.FullName, scheme *types.Scheme, body *ast.Expr, required types.Type) (expr *ast.Expr, sub types.Substitution, err error)

// Globals resolves a generic value's declaration. A Method body is
// resolved to a single implementation by Specializer.Run via method
// selection before Elaborate is called.
type Globals func(name names.FullName) (*ast.GlobalValue, bool)

// Specializer runs the worklist loop of spec.md §4.5 against an injected
// global table and elaborator.
type Specializer struct {
	Globals Globals
	// Traits is not consulted directly by the worklist loop (method
	// selection here only needs the per-value Impls list); it is carried
	// so callers can build one Specializer from the same trait
	// environment their Elaborate closure closes over.
	Traits    *traits.Env
	Elaborate Elaborate

	instantiated map[string]*InstantiatedSymbol
	deferred     []*InstantiatedSymbol
	counter      int
}

// New builds a Specializer over the given collaborators.
func New(globals Globals, traitEnv *traits.Env, elaborate Elaborate) *Specializer {
	return &Specializer{
		Globals:      globals,
		Traits:       traitEnv,
		Elaborate:    elaborate,
		instantiated: map[string]*InstantiatedSymbol{},
	}
}

func (s *Specializer) freshVar(k kinds.Kind) *types.TyVar {
	s.counter++
	return &types.TyVar{Name: fmt.Sprintf("$spec%d", s.counter), Kind: k}
}

// Demand registers a use of generic at ty, returning the InstantiatedName
// it will be rewritten to. Demanding the same (generic, ty) pair twice
// (by canonical hash) returns the same name and does not requeue work —
// "two uses with the same concrete type share one instantiation"
// (spec.md §4.5).
func (s *Specializer) Demand(generic names.FullName, ty types.Type) InstantiatedName {
	name := InstantiatedName{Generic: generic, Hash: hashType(ty)}
	key := name.String()
	if _, ok := s.instantiated[key]; ok {
		return name
	}
	sym := &InstantiatedSymbol{Name: name, Type: ty}
	s.instantiated[key] = sym // registered early: breaks recursive-demand cycles
	s.deferred = append(s.deferred, sym)
	return name
}

// Instantiated returns every symbol produced so far, keyed by
// InstantiatedName.String().
func (s *Specializer) Instantiated() map[string]*InstantiatedSymbol {
	return s.instantiated
}

// Run drains the deferred queue until empty, per spec.md §4.5's
// algorithm.
func (s *Specializer) Run() error {
	for len(s.deferred) > 0 {
		sym := s.deferred[0]
		s.deferred = s.deferred[1:]

		if fv := sym.Type.FreeVars(); len(fv) != 0 {
			return &TypeUndeterminedError{Type: sym.Type}
		}

		gv, ok := s.Globals(sym.Name.Generic)
		if !ok {
			return &UnknownGlobalError{Name: sym.Name.Generic}
		}

		scheme, body, err := s.resolveBody(gv, sym.Type)
		if err != nil {
			return err
		}

		expr0, sub, err := s.Elaborate(sym.Name.Generic, scheme, body, sym.Type)
		if err != nil {
			return err
		}
		unifySub, err := infer.Unify(types.Apply(sub, expr0.Type.Type), sym.Type)
		if err != nil {
			return err
		}
		sub = types.Compose(sub, unifySub)

		expr1, err := s.instantiateExpr(sub, expr0)
		if err != nil {
			return err
		}
		sym.Expr = expr1
	}
	return nil
}

// instantiateExpr is the combined "apply σ to every annotation" and
// "rewrite_globals" pass of spec.md §4.5: it walks expr0 once, producing
// expr1 with every cached Type substituted and every non-local Var
// replaced by Var(demand(name, σ(annot))). A Var is non-local iff it
// resolves in the global-value table — matching the spec's own
// definition of the invariant ("every Var ... either is local or refers
// to a key present in instantiated").
func (s *Specializer) instantiateExpr(sub types.Substitution, e *ast.Expr) (*ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	next := *e
	if e.Type != nil {
		next.Type = types.NewTypeNode(types.Apply(sub, e.Type.Type))
	}

	switch p := e.Payload.(type) {
	case ast.Var:
		if _, ok := s.Globals(p.Ref); !ok {
			next.Payload = p
			return &next, nil
		}
		if next.Type == nil {
			return nil, &TypeUndeterminedError{Span: e.Span}
		}
		annotTy := next.Type.Type
		if fv := annotTy.FreeVars(); len(fv) != 0 {
			return nil, &TypeUndeterminedError{Type: annotTy, Span: e.Span}
		}
		inst := s.Demand(p.Ref, annotTy)
		next.Payload = ast.Var{Ref: inst.FullName()}

	case ast.Lit:
		next.Payload = ast.Lit{
			DeclaredType: p.DeclaredType.Substitute(sub),
			FreeNames:    p.FreeNames,
			CodeGen:      p.CodeGen,
		}

	case ast.App:
		fun, err := s.instantiateExpr(sub, p.Fun)
		if err != nil {
			return nil, err
		}
		args := make([]*ast.Expr, len(p.Args))
		for i, a := range p.Args {
			if args[i], err = s.instantiateExpr(sub, a); err != nil {
				return nil, err
			}
		}
		next.Payload = ast.App{Fun: fun, Args: args}

	case ast.Lam:
		body, err := s.instantiateExpr(sub, p.Body)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.Lam{Params: p.Params, Body: body}

	case ast.Let:
		bound, err := s.instantiateExpr(sub, p.Bound)
		if err != nil {
			return nil, err
		}
		body, err := s.instantiateExpr(sub, p.Body)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.Let{Pattern: p.Pattern, Bound: bound, Body: body}

	case ast.If:
		cond, err := s.instantiateExpr(sub, p.Cond)
		if err != nil {
			return nil, err
		}
		then, err := s.instantiateExpr(sub, p.Then)
		if err != nil {
			return nil, err
		}
		els, err := s.instantiateExpr(sub, p.Else)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.If{Cond: cond, Then: then, Else: els}

	case ast.TyAnno:
		inner, err := s.instantiateExpr(sub, p.Expr)
		if err != nil {
			return nil, err
		}
		next.Payload = ast.TyAnno{Expr: inner, Type: types.Apply(sub, p.Type)}

	case ast.MakeStruct:
		fields := make(map[string]*ast.Expr, len(p.Fields))
		for name, fe := range p.Fields {
			fi, err := s.instantiateExpr(sub, fe)
			if err != nil {
				return nil, err
			}
			fields[name] = fi
		}
		next.Payload = ast.MakeStruct{Tycon: p.Tycon, Fields: fields}

	case ast.ArrayLit:
		elems := make([]*ast.Expr, len(p.Elems))
		for i, el := range p.Elems {
			ei, err := s.instantiateExpr(sub, el)
			if err != nil {
				return nil, err
			}
			elems[i] = ei
		}
		next.Payload = ast.ArrayLit{Elems: elems}

	case ast.FFICall:
		args := make([]*ast.Expr, len(p.Args))
		for i, a := range p.Args {
			ai, err := s.instantiateExpr(sub, a)
			if err != nil {
				return nil, err
			}
			args[i] = ai
		}
		argTys := make([]types.Type, len(p.ArgTys))
		for i, t := range p.ArgTys {
			argTys[i] = types.Apply(sub, t)
		}
		next.Payload = ast.FFICall{Name: p.Name, RetTy: types.Apply(sub, p.RetTy), ArgTys: argTys, Args: args}

	default:
		return nil, fmt.Errorf("specialize: unknown expression payload %T", e.Payload)
	}
	return &next, nil
}

// resolveBody picks the Simple body directly, or performs method
// selection for a Method body: the first implementation whose head type
// (instantiated fresh) unifies with ty, per spec.md §4.5 "Method
// selection" (uniqueness is guaranteed by the overlap check, §4.4).
func (s *Specializer) resolveBody(gv *ast.GlobalValue, ty types.Type) (*types.Scheme, *ast.Expr, error) {
	switch body := gv.Body.(type) {
	case ast.Simple:
		return gv.Scheme, body.Expr, nil
	case ast.Method:
		for _, impl := range body.Impls {
			inst := types.Instantiate(impl.Scheme, s.freshVar)
			if _, err := infer.Unify(inst.Type, ty); err == nil {
				return impl.Scheme, impl.Expr, nil
			}
		}
		return nil, nil, &NoMatchingMethodError{Name: gv.Name, Type: ty}
	default:
		return nil, nil, fmt.Errorf("unknown global body kind %T", gv.Body)
	}
}
