package synth

import (
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

func pointDecl() StructDecl {
	intTy := &types.TyCon{Name: names.In(names.Std, "Int"), Kind: kinds.Star}
	return StructDecl{
		Name:   names.In(names.NameSpace{"Geometry"}, "Point"),
		Fields: []Field{{Name: "x", Type: intTy}, {Name: "y", Type: intTy}},
		Boxed:  true,
	}
}

func findGlobal(t *testing.T, gs []*ast.GlobalValue, name names.FullName) *ast.GlobalValue {
	t.Helper()
	for _, g := range gs {
		if g.Name.Equals(name) {
			return g
		}
	}
	t.Fatalf("no synthesized global named %s among %d globals", name, len(gs))
	return nil
}

func TestStructSynthesizesGetterSetterModifierAct(t *testing.T) {
	decl := pointDecl()
	ns := decl.Name.NameSpace
	gs := Struct(decl)

	get := findGlobal(t, gs, names.In(ns, GetterSymbol+"x"))
	fn, ok := get.Scheme.Qual.Type.(*types.FunTy)
	if !ok {
		t.Fatalf("expected getter to be a function type, got %s", get.Scheme.Qual.Type)
	}
	if !fn.To.Equals(decl.Fields[0].Type) {
		t.Fatalf("expected getter result to be the field type, got %s", fn.To)
	}

	set := findGlobal(t, gs, names.In(ns, SetterSymbol+"x"))
	setFn := set.Scheme.Qual.Type.(*types.FunTy)
	inner, ok := setFn.To.(*types.FunTy)
	if !ok || !inner.From.Equals(inner.To) {
		t.Fatalf("expected setter to be Field -> Struct -> Struct, got %s", set.Scheme.Qual.Type)
	}

	mod := findGlobal(t, gs, names.In(ns, ModifierSymbol+"x"))
	modFn := mod.Scheme.Qual.Type.(*types.FunTy)
	if _, ok := modFn.From.(*types.FunTy); !ok {
		t.Fatalf("expected modifier's first argument to be a function, got %s", modFn.From)
	}

	act := findGlobal(t, gs, names.In(ns, ActSymbol+"x"))
	if len(act.Scheme.Qual.Preds) != 1 || !act.Scheme.Qual.Preds[0].Trait.Equals(functorTrait()) {
		t.Fatalf("expected act to carry exactly one Functor predicate, got %v", act.Scheme.Qual.Preds)
	}
}

func TestStructBoxedSynthesizesPunchAndPlugIn(t *testing.T) {
	decl := pointDecl()
	ns := decl.Name.NameSpace
	gs := Struct(decl)

	punch := findGlobal(t, gs, names.In(ns, PunchSymbol+"x"))
	punchFn := punch.Scheme.Qual.Type.(*types.FunTy)
	structTy := applyTyVars(decl.Name, decl.TyVars, tyConKindFor(decl.TyVars))
	if !punchFn.From.Equals(structTy) {
		t.Fatalf("expected punch's argument to be the struct type, got %s", punchFn.From)
	}
	if _, ok := punchFn.To.(*types.TyApp); !ok {
		t.Fatalf("expected punch's result to be a tuple application, got %s", punchFn.To)
	}

	plugIn := findGlobal(t, gs, names.In(ns, PlugInSymbol+"x"))
	plugFn := plugIn.Scheme.Qual.Type.(*types.FunTy)
	if !plugFn.From.Equals(decl.Fields[0].Type) {
		t.Fatalf("expected plug-in's first argument to be the field type, got %s", plugFn.From)
	}
}

func TestStructUnboxedOmitsPunchAndPlugIn(t *testing.T) {
	decl := pointDecl()
	decl.Boxed = false
	ns := decl.Name.NameSpace
	gs := Struct(decl)
	for _, g := range gs {
		if g.Name.Equals(names.In(ns, PunchSymbol+"x")) || g.Name.Equals(names.In(ns, PlugInSymbol+"x")) {
			t.Fatalf("unboxed struct should not synthesize %s", g.Name)
		}
	}
}

func TestUnionSynthesizesConstructorAsIsMod(t *testing.T) {
	strTy := &types.TyCon{Name: names.In(names.Std, "String"), Kind: kinds.Star}
	decl := UnionDecl{
		Name:     names.In(names.NameSpace{"Shapes"}, "Shape"),
		Variants: []Field{{Name: "circle", Type: strTy}},
	}
	ns := decl.Name.NameSpace
	gs := Union(decl)

	ctor := findGlobal(t, gs, names.In(ns, "circle"))
	ctorFn := ctor.Scheme.Qual.Type.(*types.FunTy)
	if !ctorFn.From.Equals(strTy) {
		t.Fatalf("expected constructor to take the variant payload type, got %s", ctorFn.From)
	}

	isCircle := findGlobal(t, gs, names.In(ns, "is_circle"))
	isFn := isCircle.Scheme.Qual.Type.(*types.FunTy)
	if !isFn.To.Equals(boolTy()) {
		t.Fatalf("expected is_circle to return Bool, got %s", isFn.To)
	}
}

func TestSynthesizedGlobalsCarryOpaqueCodeGenDescriptor(t *testing.T) {
	decl := pointDecl()
	gs := Struct(decl)
	get := findGlobal(t, gs, names.In(decl.Name.NameSpace, GetterSymbol+"x"))
	simple, ok := get.Body.(ast.Simple)
	if !ok {
		t.Fatalf("expected a Simple body, got %T", get.Body)
	}
	lit, ok := simple.Expr.Payload.(ast.Lit)
	if !ok {
		t.Fatalf("expected an opaque Lit payload, got %T", simple.Expr.Payload)
	}
	if lit.CodeGen.Kind != "struct.get" {
		t.Fatalf("expected CodeGen.Kind = struct.get, got %s", lit.CodeGen.Kind)
	}
	payload, ok := lit.CodeGen.Payload.(GetPayload)
	if !ok || payload.Field != "x" {
		t.Fatalf("expected GetPayload{Field: x}, got %#v", lit.CodeGen.Payload)
	}
}
