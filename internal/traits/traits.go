// Package traits implements the trait and instance engine of spec.md
// §4.4: trait/instance/alias data model plus the nine ordered coherence
// checks. Grounded on the teacher's internal/types/instances.go
// (ClassInstance/InstanceEnv overlap-checked lookup) generalized to the
// richer orphan/alias/associated-type rules of original_source
// ast/traits.rs.
package traits

import (
	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/span"
	"github.com/fixlang/fixc/internal/types"
)

// AssocTypeDecl is a trait's "type Elem c" declaration.
type AssocTypeDecl struct {
	Name       names.FullName
	ParamKinds []kinds.Kind
	ResultKind kinds.Kind
}

// MethodSig is a trait method's signature, pre-generalization: it is
// stated in terms of the trait's own type variable.
type MethodSig struct {
	Name  string
	Qual  *types.QualType
	Span  *span.Span
}

// TraitInfo describes a single trait declaration.
type TraitInfo struct {
	Name           names.FullName
	TyVar          string
	TyVarKind      kinds.Kind
	Methods        []MethodSig
	AssocTypes     []AssocTypeDecl
	DefiningModule names.NameSpace
	Span           *span.Span
}

func (t *TraitInfo) Method(name string) (MethodSig, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodSig{}, false
}

func (t *TraitInfo) AssocType(name names.FullName) (AssocTypeDecl, bool) {
	for _, a := range t.AssocTypes {
		if a.Name.Equals(name) {
			return a, true
		}
	}
	return AssocTypeDecl{}, false
}

// AssocTypeImpl is one instance's implementation of an associated type:
// "type Elem (List a) = a".
type AssocTypeImpl struct {
	Name  names.FullName
	Value types.Type
}

// TraitInstance is "instance <head> : Trait { ... }".
type TraitInstance struct {
	Trait          names.FullName
	Context        []types.Predicate // the instance's own context (superclass-style constraints)
	Head           types.Type         // the instance head type
	Methods        map[string]*ast.Expr
	AssocImpls     []AssocTypeImpl
	DefiningModule names.NameSpace
	Span           *span.Span
}

// TraitAlias is "trait alias Foo = Bar + Baz".
type TraitAlias struct {
	Name           names.FullName
	Refs           []names.FullName // the traits/aliases named directly in the alias body
	DefiningModule names.NameSpace
	Span           *span.Span
}

// Env is the whole-program trait environment (spec.md §3 "Trait
// environment"). names.FullName embeds a NameSpace slice and so isn't
// itself comparable; every map here is keyed by its canonical String()
// form instead.
type Env struct {
	Traits    map[string]*TraitInfo
	Instances map[string][]*TraitInstance
	Aliases   map[string]*TraitAlias
}

// NewEnv creates an empty trait environment.
func NewEnv() *Env {
	return &Env{
		Traits:    map[string]*TraitInfo{},
		Instances: map[string][]*TraitInstance{},
		Aliases:   map[string]*TraitAlias{},
	}
}

func (e *Env) AddTrait(t *TraitInfo)  { e.Traits[t.Name.String()] = t }
func (e *Env) AddAlias(a *TraitAlias) { e.Aliases[a.Name.String()] = a }
func (e *Env) AddInstance(i *TraitInstance) {
	key := i.Trait.String()
	e.Instances[key] = append(e.Instances[key], i)
}

// ResolveAlias expands a trait (or alias) name to the list of non-alias
// trait names it denotes — itself, if it's already a plain trait.
func (e *Env) ResolveAlias(name names.FullName) ([]names.FullName, error) {
	visiting := map[string]bool{}
	var resolve func(names.FullName) ([]names.FullName, error)
	resolve = func(n names.FullName) ([]names.FullName, error) {
		if _, ok := e.Traits[n.String()]; ok {
			return []names.FullName{n}, nil
		}
		alias, ok := e.Aliases[n.String()]
		if !ok {
			return nil, &UnknownTraitError{Name: n}
		}
		if visiting[n.String()] {
			return nil, &AliasCycleError{Start: n}
		}
		visiting[n.String()] = true
		defer delete(visiting, n.String())

		var out []names.FullName
		for _, ref := range alias.Refs {
			sub, err := resolve(ref)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}
	return resolve(name)
}
