// Package program implements the frontend's top-level driver (spec.md §2):
// the Program aggregate and the Pipeline that carries a set of parsed
// modules through name-table construction, kind inference, declaration
// resolution, coherence validation, method synthesis, scheme-directed
// elaboration and monomorphizing specialization.
//
// Grounded on the teacher's internal/pipeline/pipeline.go (a phase-
// sequenced driver threading a shared mutable aggregate through named
// steps) and internal/module/loader.go (per-module import/export
// bookkeeping feeding a whole-program table) — generalized from "load and
// link a Core program" to "resolve and specialize a typed one", since
// parsing itself is an out-of-scope collaborator (spec.md §1 Non-goals):
// Module is this package's own input shape, not a parser's AST.
package program

import (
	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/span"
	"github.com/fixlang/fixc/internal/types"
)

// Module is one compilation unit as a plain Go value: every name it
// introduces is written exactly as the (external, out-of-scope) parser
// would have read it — "short", i.e. relative to this module's own
// namespace or to one of its Imports — and is resolved against the
// whole-program Table only once every module has contributed its
// declarations (spec.md §2 steps 1–3).
type Module struct {
	Namespace names.NameSpace
	Imports   []names.ImportStatement

	// Source is the raw, opaque source text of this module, consulted
	// only to compute the transitive source hash internal/elaborate's
	// cache keys on — the frontend never parses or re-lexes it.
	Source string

	TyCons    []TyConDecl
	Structs   []StructDecl
	Unions    []UnionDecl
	Traits    []TraitDecl
	Aliases   []TraitAliasDecl
	Instances []InstanceDecl
	Globals   []GlobalDecl
}

// TyConDecl declares a plain type constructor with no associated value
// representation synthesized by this frontend — a built-in or an opaque
// externally-defined type (spec.md §3 "built-in tycons").
type TyConDecl struct {
	Name string
	Kind kinds.Kind
	Span *span.Span
}

// FieldDecl is one struct field or union variant, short-named.
type FieldDecl struct {
	Name string
	Type types.Type
}

// StructDecl is a module-local struct declaration, short-named — see
// internal/synth.StructDecl, which this is resolved into.
type StructDecl struct {
	Name   string
	TyVars []types.TyVar
	Fields []FieldDecl
	Boxed  bool
	Span   *span.Span
	Doc    string
}

// UnionDecl is a module-local tagged-union declaration, short-named.
type UnionDecl struct {
	Name     string
	TyVars   []types.TyVar
	Variants []FieldDecl
	Span     *span.Span
	Doc      string
}

// MethodSigDecl is one trait method signature, stated (per
// internal/traits.MethodSig) in terms of the trait's own type variable.
type MethodSigDecl struct {
	Name string
	Qual *types.QualType
	Span *span.Span
}

// AssocTypeDeclShort is a trait's "type Elem c" declaration.
type AssocTypeDeclShort struct {
	Name       string
	ParamKinds []kinds.Kind
	ResultKind kinds.Kind
}

// TraitDecl is a module-local trait declaration.
type TraitDecl struct {
	Name       string
	TyVar      string
	TyVarKind  kinds.Kind
	Methods    []MethodSigDecl
	AssocTypes []AssocTypeDeclShort
	Span       *span.Span
	Doc        string
}

// TraitAliasDecl is "trait alias Foo = Bar + Baz", Refs short-named.
type TraitAliasDecl struct {
	Name string
	Refs []names.FullName
	Span *span.Span
}

// AssocImplDecl is one instance's implementation of an associated type.
type AssocImplDecl struct {
	Name  names.FullName // trait-qualified, short
	Value types.Type
}

// InstanceDecl is "instance <head> : Trait { ... }", every name short.
type InstanceDecl struct {
	Trait      names.FullName
	Context    []types.Predicate
	Head       types.Type
	Methods    map[string]*ast.Expr
	AssocImpls []AssocImplDecl
	Span       *span.Span
}

// GlobalDecl is an ordinary top-level definition. Exported marks it as a
// root the specializer must demand even with no local caller (spec.md §2
// step 7's worklist seeds) — an entry point is simply the Exported global
// the driver's caller names.
type GlobalDecl struct {
	Name     string
	Scheme   *types.Scheme
	Body     *ast.Expr
	Exported bool
	Span     *span.Span
	Doc      string
}
