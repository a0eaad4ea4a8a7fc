package program

import (
	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/infer"
	"github.com/fixlang/fixc/internal/kindinfer"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/synth"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

// Program is the whole-program aggregate that accumulates across the
// pipeline's steps (spec.md §2): the name table, the trait environment,
// the resolved struct/union registry, the kind assignment for every
// declared scheme, and the global-value table every later step consults.
// Every map here is keyed by FullName.String(), matching the convention
// established throughout internal/names, internal/traits and
// internal/ast: FullName embeds a NameSpace slice and so is never itself
// a valid map key.
type Program struct {
	Names     *names.Table
	Resolver  *names.Resolver
	Traits    *traits.Env
	Structs   map[string]synth.StructDecl
	Unions    map[string]synth.UnionDecl
	Kinds     map[string]kindinfer.Assignment
	Globals   map[string]*ast.GlobalValue
	Instances []*resolvedInstance

	modules []*Module
}

// resolvedInstance pairs a source InstanceDecl with the module it came
// from, carried between the resolution and synthesis steps so method
// synthesis can recover DefiningModule without re-deriving it.
type resolvedInstance struct {
	decl   InstanceDecl
	module names.NameSpace
}

// New creates an empty Program ready to accumulate the declarations of
// modules.
func New(modules []*Module) *Program {
	return &Program{
		Names:   names.NewTable(),
		Traits:  traits.NewEnv(),
		Structs: map[string]synth.StructDecl{},
		Unions:  map[string]synth.UnionDecl{},
		Kinds:   map[string]kindinfer.Assignment{},
		Globals: map[string]*ast.GlobalValue{},
		modules: modules,
	}
}

// structFields adapts Program's struct registry to internal/infer's
// StructFields collaborator contract.
func (p *Program) structFields(tycon names.FullName) (map[string]types.Type, error) {
	decl, ok := p.Structs[tycon.String()]
	if !ok {
		return nil, &UnknownTyConError{Name: tycon}
	}
	out := make(map[string]types.Type, len(decl.Fields))
	for _, f := range decl.Fields {
		out[f.Name] = f.Type
	}
	return out, nil
}

// unionVariant adapts Program's union registry to internal/infer's
// UnionVariant collaborator contract.
func (p *Program) unionVariant(tycon names.FullName, variant string) (types.Type, error) {
	decl, ok := p.Unions[tycon.String()]
	if !ok {
		return nil, &UnknownTyConError{Name: tycon}
	}
	for _, v := range decl.Variants {
		if v.Name == variant {
			return v.Type, nil
		}
	}
	return nil, &UnknownVariantError{Tycon: tycon, Variant: variant}
}

// StructFields exposes structFields as an internal/infer.StructFields
// value for external collaborators (internal/elaborate, cmd/fixc).
func (p *Program) StructFields() infer.StructFields { return p.structFields }

// UnionVariant exposes unionVariant as an internal/infer.UnionVariant
// value.
func (p *Program) UnionVariant() infer.UnionVariant { return p.unionVariant }

// UnknownTyConError reports a struct/union field lookup against an
// undeclared tycon — a driver-level bug (the declaration-resolution step
// should already have rejected an unresolved tycon reference).
type UnknownTyConError struct{ Name names.FullName }

func (e *UnknownTyConError) Error() string { return "unknown tycon " + e.Name.String() }

// UnknownVariantError reports a union pattern/constructor naming a
// variant its declared union tycon does not have.
type UnknownVariantError struct {
	Tycon   names.FullName
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return "unknown variant " + e.Variant + " of " + e.Tycon.String()
}
