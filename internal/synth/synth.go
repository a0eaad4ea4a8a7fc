// Package synth implements method synthesis (spec.md §2 step 5): every
// struct and union declaration contributes a fixed family of ordinary
// global values — getter/setter/modifier/act/punch/plug-in for a struct,
// constructor/is_/as_/mod_ for a union — derived purely from the field
// list, with no user-written body.
//
// Each synthesized value's body is a single opaque ast.Lit carrying a
// CodeGenDescriptor naming the intrinsic operation and its operands,
// mirroring the teacher's LiteralGenerator-backed struct_get/struct_set
// family in original_source/src/builtin.rs: a generator closure paired
// with a declared type and free-variable set. Here the closure becomes a
// plain data payload because code generation is an out-of-scope
// collaborator (spec.md Non-goals).
package synth

import (
	"fmt"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// Field is one struct field or union variant: a name and its payload type.
type Field struct {
	Name string
	Type types.Type
}

// StructDecl is the declaration shape method synthesis consumes: a struct
// tycon's name, its generic parameters in declaration order, and its
// fields. Boxed structs additionally get punch/plug-in functional-update
// pairs (spec.md GLOSSARY "Punched tycon" — only a boxed struct can have a
// field logically absent).
type StructDecl struct {
	Name   names.FullName
	TyVars []types.TyVar
	Fields []Field
	Boxed  bool
}

// UnionDecl is the declaration shape for a tagged union: a tycon name, its
// generic parameters, and its variants.
type UnionDecl struct {
	Name     names.FullName
	TyVars   []types.TyVar
	Variants []Field
}

// Symbol prefixes for synthesized struct member names, one-for-one with
// original_source/src/ast/program.rs's GETTER/SETTER/MODIFIER/ACT/PUNCH/
// PLUG_IN symbol constants.
const (
	GetterSymbol   = "@"
	SetterSymbol   = "set_"
	ModifierSymbol = "mod_"
	ActSymbol      = "act_"
	PunchSymbol    = "punch_"
	PlugInSymbol   = "plug_in_"
)

func boolTy() types.Type {
	return &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star}
}

func functorTrait() names.FullName { return names.In(names.Std, "Functor") }

// PunchedTyConName is the punched variant of struct, one per field,
// grounded on teacher's Tycon::into_punched_type_name (there: indexed by
// field position; here: by field name, since fields are looked up by name
// throughout this frontend).
func PunchedTyConName(structName names.FullName, field string) names.FullName {
	return names.FullName{
		NameSpace:  structName.NameSpace,
		Identifier: fmt.Sprintf("$%s$punched$%s", structName.Identifier, field),
	}
}

// applyTyVars builds tycon applied to vars in order: tycon a b c = ((tycon a) b) c.
func applyTyVars(tycon names.FullName, vars []types.TyVar, tyConKind kinds.Kind) types.Type {
	var t types.Type = &types.TyCon{Name: tycon, Kind: tyConKind}
	for _, v := range vars {
		t = &types.TyApp{Fun: t, Arg: &types.TyVar{Name: v.Name, Kind: v.Kind}}
	}
	return t
}

func tyConKindFor(tyVars []types.TyVar) kinds.Kind {
	k := kinds.Kind(kinds.Star)
	for i := len(tyVars) - 1; i >= 0; i-- {
		k = &kinds.Arrow{From: tyVars[i].Kind, To: k}
	}
	return k
}

func tupleName(n int) names.FullName { return names.In(names.Std, fmt.Sprintf("Tuple%d", n)) }

// tupleType builds the tuple-n application of elems, a tycon synthesized
// on demand per spec.md §3 "tuple-n (on demand)".
func tupleType(elems ...types.Type) types.Type {
	k := kinds.Kind(kinds.Star)
	for range elems {
		k = &kinds.Arrow{From: kinds.Star, To: k}
	}
	var t types.Type = &types.TyCon{Name: tupleName(len(elems)), Kind: k}
	for _, e := range elems {
		t = &types.TyApp{Fun: t, Arg: e}
	}
	return t
}

func scheme(t types.Type, preds ...types.Predicate) *types.Scheme {
	return types.Generalize(&types.QualType{Preds: preds, Type: t}, map[string]bool{})
}

func global(name names.FullName, sch *types.Scheme, kind string, payload any) *ast.GlobalValue {
	lit := ast.Lit{
		DeclaredType: sch.Qual.Type,
		CodeGen:      ast.CodeGenDescriptor{Kind: kind, Payload: payload},
	}
	return &ast.GlobalValue{
		Name:   name,
		Scheme: sch,
		Body:   ast.Simple{Expr: &ast.Expr{Payload: lit}},
	}
}

// GetPayload, SetPayload, ModPayload, ActPayload, PunchPayload and
// PlugInPayload are the CodeGenDescriptor payloads for the six struct
// intrinsics; UnionNewPayload, UnionAsPayload, UnionIsPayload and
// UnionModPayload are the four union intrinsics.
type GetPayload struct {
	Struct names.FullName
	Field  string
}

type SetPayload struct {
	Struct names.FullName
	Field  string
}

type ModPayload struct {
	Struct names.FullName
	Field  string
}

type ActPayload struct {
	Struct names.FullName
	Field  string
}

type PunchPayload struct {
	Struct, Punched names.FullName
	Field           string
}

type PlugInPayload struct {
	Struct, Punched names.FullName
	Field           string
}

type UnionNewPayload struct {
	Union   names.FullName
	Variant string
}

type UnionAsPayload struct {
	Union   names.FullName
	Variant string
}

type UnionIsPayload struct {
	Union   names.FullName
	Variant string
}

type UnionModPayload struct {
	Union   names.FullName
	Variant string
}

// Struct synthesizes every member of decl: one getter, setter, modifier,
// act and (for boxed structs) punch/plug-in pair per field.
func Struct(decl StructDecl) []*ast.GlobalValue {
	tyConKind := tyConKindFor(decl.TyVars)
	structTy := applyTyVars(decl.Name, decl.TyVars, tyConKind)
	ns := decl.Name.NameSpace

	var out []*ast.GlobalValue
	for _, f := range decl.Fields {
		out = append(out,
			global(names.In(ns, GetterSymbol+f.Name),
				scheme(&types.FunTy{From: structTy, To: f.Type}),
				"struct.get", GetPayload{Struct: decl.Name, Field: f.Name}),

			global(names.In(ns, SetterSymbol+f.Name),
				scheme(&types.FunTy{From: f.Type, To: &types.FunTy{From: structTy, To: structTy}}),
				"struct.set", SetPayload{Struct: decl.Name, Field: f.Name}),

			global(names.In(ns, ModifierSymbol+f.Name),
				scheme(&types.FunTy{
					From: &types.FunTy{From: f.Type, To: f.Type},
					To:   &types.FunTy{From: structTy, To: structTy},
				}),
				"struct.mod", ModPayload{Struct: decl.Name, Field: f.Name}),
		)

		fv := &types.TyVar{Name: "$functor", Kind: &kinds.Arrow{From: kinds.Star, To: kinds.Star}}
		out = append(out, global(names.In(ns, ActSymbol+f.Name),
			scheme(&types.FunTy{
				From: &types.FunTy{From: f.Type, To: &types.TyApp{Fun: fv, Arg: f.Type}},
				To:   &types.FunTy{From: structTy, To: &types.TyApp{Fun: fv, Arg: structTy}},
			}, types.Predicate{Type: fv, Trait: functorTrait()}),
			"struct.act", ActPayload{Struct: decl.Name, Field: f.Name}))

		if decl.Boxed {
			punched := PunchedTyConName(decl.Name, f.Name)
			punchedTy := applyTyVars(punched, decl.TyVars, tyConKind)
			out = append(out,
				global(names.In(ns, PunchSymbol+f.Name),
					scheme(&types.FunTy{From: structTy, To: tupleType(f.Type, punchedTy)}),
					"struct.punch", PunchPayload{Struct: decl.Name, Punched: punched, Field: f.Name}),

				global(names.In(ns, PlugInSymbol+f.Name),
					scheme(&types.FunTy{From: f.Type, To: &types.FunTy{From: punchedTy, To: structTy}}),
					"struct.plugin", PlugInPayload{Struct: decl.Name, Punched: punched, Field: f.Name}),
			)
		}
	}
	return out
}

// Union synthesizes every member of decl: one constructor, as_, is_ and
// mod_ per variant.
func Union(decl UnionDecl) []*ast.GlobalValue {
	tyConKind := tyConKindFor(decl.TyVars)
	unionTy := applyTyVars(decl.Name, decl.TyVars, tyConKind)
	ns := decl.Name.NameSpace

	var out []*ast.GlobalValue
	for _, v := range decl.Variants {
		out = append(out,
			global(names.In(ns, v.Name),
				scheme(&types.FunTy{From: v.Type, To: unionTy}),
				"union.new", UnionNewPayload{Union: decl.Name, Variant: v.Name}),

			global(names.In(ns, "as_"+v.Name),
				scheme(&types.FunTy{From: unionTy, To: v.Type}),
				"union.as", UnionAsPayload{Union: decl.Name, Variant: v.Name}),

			global(names.In(ns, "is_"+v.Name),
				scheme(&types.FunTy{From: unionTy, To: boolTy()}),
				"union.is", UnionIsPayload{Union: decl.Name, Variant: v.Name}),

			global(names.In(ns, "mod_"+v.Name),
				scheme(&types.FunTy{
					From: &types.FunTy{From: v.Type, To: v.Type},
					To:   &types.FunTy{From: unionTy, To: unionTy},
				}),
				"union.mod", UnionModPayload{Union: decl.Name, Variant: v.Name}),
		)
	}
	return out
}
