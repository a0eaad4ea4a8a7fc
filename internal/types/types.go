// Package types implements the kinded type language of spec.md §3: type
// variables, type constructors, application, function types and
// associated-type applications, plus qualified types and schemes.
package types

import (
	"fmt"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
)

// Type is the tagged variant of spec.md §3: TyVar | TyCon | TyApp | FunTy |
// AssocTy. Kinds are computed on demand; free variables are never cached.
type Type interface {
	String() string
	Equals(Type) bool
	// Substitute applies a substitution to every free type variable.
	Substitute(Substitution) Type
	// FreeVars returns the free type-variable names with their kinds.
	// Computed on demand per spec.md §3's stated invariant.
	FreeVars() map[string]kinds.Kind
}

// TyVar is a kinded type variable.
type TyVar struct {
	Name string
	Kind kinds.Kind
}

func (t *TyVar) String() string { return t.Name }

func (t *TyVar) Equals(other Type) bool {
	o, ok := other.(*TyVar)
	// Two variables with the same name but different kinds are distinct
	// after kind inference (spec.md §3).
	return ok && t.Name == o.Name && t.Kind.Equals(o.Kind)
}

func (t *TyVar) Substitute(sub Substitution) Type {
	if repl, ok := sub[t.Name]; ok {
		return repl
	}
	return t
}

func (t *TyVar) FreeVars() map[string]kinds.Kind {
	return map[string]kinds.Kind{t.Name: t.Kind}
}

// TyCon is a named nullary constructor registered in the kind environment:
// a built-in, a user struct/union, a tuple-n, or a punched variant.
type TyCon struct {
	Name names.FullName
	Kind kinds.Kind
}

func (t *TyCon) String() string { return t.Name.String() }

func (t *TyCon) Equals(other Type) bool {
	o, ok := other.(*TyCon)
	return ok && t.Name.Equals(o.Name)
}

func (t *TyCon) Substitute(Substitution) Type { return t }

func (t *TyCon) FreeVars() map[string]kinds.Kind { return map[string]kinds.Kind{} }

// TyApp applies one type to another: TyApp(List, Int) = "List Int".
type TyApp struct {
	Fun Type
	Arg Type
}

func (t *TyApp) String() string {
	return fmt.Sprintf("(%s %s)", t.Fun.String(), t.Arg.String())
}

func (t *TyApp) Equals(other Type) bool {
	o, ok := other.(*TyApp)
	return ok && t.Fun.Equals(o.Fun) && t.Arg.Equals(o.Arg)
}

func (t *TyApp) Substitute(sub Substitution) Type {
	return &TyApp{Fun: t.Fun.Substitute(sub), Arg: t.Arg.Substitute(sub)}
}

func (t *TyApp) FreeVars() map[string]kinds.Kind {
	return mergeFreeVars(t.Fun.FreeVars(), t.Arg.FreeVars())
}

// FunTy is a function type from one argument to a result.
type FunTy struct {
	From Type
	To   Type
}

func (t *FunTy) String() string {
	return fmt.Sprintf("%s -> %s", t.From.String(), t.To.String())
}

func (t *FunTy) Equals(other Type) bool {
	o, ok := other.(*FunTy)
	return ok && t.From.Equals(o.From) && t.To.Equals(o.To)
}

func (t *FunTy) Substitute(sub Substitution) Type {
	return &FunTy{From: t.From.Substitute(sub), To: t.To.Substitute(sub)}
}

func (t *FunTy) FreeVars() map[string]kinds.Kind {
	return mergeFreeVars(t.From.FreeVars(), t.To.FreeVars())
}

// AssocTy is an application of an associated type declared by a trait to a
// list of argument types, e.g. "Elem (List Int)".
type AssocTy struct {
	Ref  names.FullName // the associated type's full name, trait-qualified
	Args []Type
}

func (t *AssocTy) String() string {
	s := t.Ref.String()
	for _, a := range t.Args {
		s += " " + a.String()
	}
	return s
}

func (t *AssocTy) Equals(other Type) bool {
	o, ok := other.(*AssocTy)
	if !ok || !t.Ref.Equals(o.Ref) || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

func (t *AssocTy) Substitute(sub Substitution) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Substitute(sub)
	}
	return &AssocTy{Ref: t.Ref, Args: args}
}

func (t *AssocTy) FreeVars() map[string]kinds.Kind {
	out := map[string]kinds.Kind{}
	for _, a := range t.Args {
		out = mergeFreeVars(out, a.FreeVars())
	}
	return out
}

func mergeFreeVars(a, b map[string]kinds.Kind) map[string]kinds.Kind {
	out := make(map[string]kinds.Kind, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// TypeNode wraps a Type with a HasSpan flag (no span itself is stored) and
// an optional cached kind, mirroring the teacher's TypedExpr
// node-wrapping convention.
type TypeNode struct {
	Type       Type
	HasSpan    bool
	CachedKind kinds.Kind // nil if not yet computed
}

// NewTypeNode wraps a bare Type with no span and no cached kind.
func NewTypeNode(t Type) *TypeNode {
	return &TypeNode{Type: t}
}
