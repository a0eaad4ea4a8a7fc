package infer

import (
	"fmt"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

// StructFields resolves a struct tycon's declared field types, needed to
// check MakeStruct expressions. UnionVariant resolves a union tycon's
// variant payload type (nil for a nullary variant). Both are supplied by
// the program-level data-model registry (internal/program), which is the
// single owner of struct/union declarations — infer only consumes it.
type StructFields func(tycon names.FullName) (map[string]types.Type, error)
type UnionVariant func(tycon names.FullName, variant string) (types.Type, error)

// Context carries the fresh-variable source and the collaborators needed
// during inference: the trait environment for context reduction, and the
// data-model lookups for struct/union patterns and constructors.
type Context struct {
	Traits       *traits.Env
	StructFields StructFields
	UnionVariant UnionVariant
	counter      int
}

// NewContext builds an inference context against a populated trait
// environment.
func NewContext(traitEnv *traits.Env, structFields StructFields, unionVariant UnionVariant) *Context {
	return &Context{Traits: traitEnv, StructFields: structFields, UnionVariant: unionVariant}
}

// Fresh mints a new type variable of the given kind, never reused.
func (c *Context) Fresh(k kinds.Kind) *types.TyVar {
	c.counter++
	return &types.TyVar{Name: fmt.Sprintf("t%d", c.counter), Kind: k}
}

// Env maps local (unqualified) variable names to their scheme, tracks
// which type-variable names are monomorphic in the current scope (for
// Generalize), and maps resolved global names to their scheme. Globals is
// keyed by FullName.String() — a FullName embeds a NameSpace slice and so
// isn't itself a valid map key.
type Env struct {
	Vars        map[string]*types.Scheme
	Monomorphic map[string]bool
	Globals     map[string]*types.Scheme
}

// NewEnv builds an empty local environment sharing globals with the
// program-wide global table.
func NewEnv(globals map[string]*types.Scheme) *Env {
	if globals == nil {
		globals = map[string]*types.Scheme{}
	}
	return &Env{Vars: map[string]*types.Scheme{}, Monomorphic: map[string]bool{}, Globals: globals}
}

// LookupGlobal resolves a global by its FullName.
func (e *Env) LookupGlobal(name names.FullName) (*types.Scheme, bool) {
	s, ok := e.Globals[name.String()]
	return s, ok
}

// DeclareGlobal binds name to scheme in Globals, returning a new Env.
func (e *Env) DeclareGlobal(name names.FullName, scheme *types.Scheme) *Env {
	next := &Env{Vars: e.Vars, Monomorphic: e.Monomorphic, Globals: make(map[string]*types.Scheme, len(e.Globals)+1)}
	for k, v := range e.Globals {
		next.Globals[k] = v
	}
	next.Globals[name.String()] = scheme
	return next
}

// Extend returns a new Env with name bound to s, leaving the receiver
// untouched (nodes and environments are immutable after construction).
func (e *Env) Extend(name string, s *types.Scheme) *Env {
	next := &Env{
		Vars:        make(map[string]*types.Scheme, len(e.Vars)+1),
		Monomorphic: e.Monomorphic,
		Globals:     e.Globals,
	}
	for k, v := range e.Vars {
		next.Vars[k] = v
	}
	next.Vars[name] = s
	return next
}

// ExtendMonomorphic marks every free variable of t as monomorphic in the
// returned Env, so a later Generalize in an enclosing Let does not
// generalize over it (spec.md §4.3 "Let").
func (e *Env) ExtendMonomorphic(t types.Type) *Env {
	next := &Env{Vars: e.Vars, Globals: e.Globals, Monomorphic: make(map[string]bool, len(e.Monomorphic)+2)}
	for k, v := range e.Monomorphic {
		next.Monomorphic[k] = v
	}
	for v := range t.FreeVars() {
		next.Monomorphic[v] = true
	}
	return next
}

// applySubToEnv applies sub to every monomorphic (ungeneralized) local
// binding, so later lookups see the accumulated substitution. Generalized
// bindings are left untouched: they are instantiated fresh on every use,
// so an outer substitution never reaches their bound variables.
func applySubToEnv(env *Env, sub types.Substitution) *Env {
	if len(sub) == 0 {
		return env
	}
	next := &Env{Vars: make(map[string]*types.Scheme, len(env.Vars)), Monomorphic: env.Monomorphic, Globals: env.Globals}
	for k, s := range env.Vars {
		if len(s.Vars) == 0 {
			next.Vars[k] = &types.Scheme{Qual: s.Qual.Substitute(sub)}
		} else {
			next.Vars[k] = s
		}
	}
	return next
}

// ApplySubToEnv exposes applySubToEnv to collaborators outside this
// package (internal/elaborate's annotating traversal) that need to keep a
// local environment current against an accumulating substitution using
// exactly the rule Infer itself uses: generalized bindings are left alone,
// monomorphic ones are substituted.
func ApplySubToEnv(env *Env, sub types.Substitution) *Env { return applySubToEnv(env, sub) }

// Result is the outcome of inferring one expression: its type, the
// substitution accumulated while inferring it, and the predicates and
// associated-type equalities still outstanding for the enclosing
// definition to reduce.
type Result struct {
	Type  types.Type
	Sub   types.Substitution
	Preds []types.Predicate
	Eqs   []types.Equality
}
