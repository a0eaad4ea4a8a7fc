// Package ast implements the shared untyped/typed expression tree of
// spec.md §3: one node shape carries an optional inferred type, so the
// same tree serves as both the parser's output and inference's output.
package ast

import (
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/span"
	"github.com/fixlang/fixc/internal/types"
)

// Payload is the tagged variant an Expr node carries: Var, Lit, App, Lam,
// Let, If, TyAnno, MakeStruct, ArrayLit or FFICall.
type Payload interface {
	exprPayload()
}

// Expr is the shared expression node. Payload carries the tag; Type,
// FreeVars and Span are filled in progressively by later pipeline stages
// and are nil/empty until then.
type Expr struct {
	Payload Payload
	Type    *types.TypeNode // set once inference has run
	// FreeVars is set once calc_free_vars has run, keyed by each free
	// name's canonical String() form (names.FullName embeds a slice and
	// so cannot be a map key itself).
	FreeVars map[string]names.FullName
	Span     *span.Span // nil if synthesized
	AppOrder int         // application-order hint, for uncurry_optimization
}

// WithType returns a copy of e with Type set to t, sharing every other
// field (nodes are immutable after construction — spec.md §9).
func (e *Expr) WithType(t types.Type) *Expr {
	next := *e
	next.Type = types.NewTypeNode(t)
	return &next
}

// Var is a reference to a name — local, or resolved to a global FullName.
type Var struct {
	Ref names.FullName
}

func (Var) exprPayload() {}

// Lit is an opaque literal payload: it knows its declared type, its free
// variables (normally none) and carries a code-generator descriptor that
// only the (out-of-scope) code generator interprets.
type Lit struct {
	DeclaredType types.Type
	FreeNames    []names.FullName
	CodeGen      CodeGenDescriptor
}

func (Lit) exprPayload() {}

// CodeGenDescriptor is an opaque value describing how a literal should be
// lowered by the code-generator collaborator. The frontend never
// interprets it beyond carrying it through (spec.md §9 "Dynamic dispatch
// of literals").
type CodeGenDescriptor struct {
	Kind    string // e.g. "int", "string", "float"
	Payload any
}

// App is n-ary application: fun applied to args in order.
type App struct {
	Fun  *Expr
	Args []*Expr
}

func (App) exprPayload() {}

// Lam is an n-ary lambda.
type Lam struct {
	Params []Pattern
	Body   *Expr
}

func (Lam) exprPayload() {}

// Let is a non-recursive binding: the bound pattern is not in scope inside
// Bound, only in Body (spec.md §9 "Non-recursive Let"). Recursion is
// expressed through an explicit fixpoint combinator handled as an ordinary
// global value.
type Let struct {
	Pattern Pattern
	Bound   *Expr
	Body    *Expr
}

func (Let) exprPayload() {}

// If is a conditional.
type If struct {
	Cond, Then, Else *Expr
}

func (If) exprPayload() {}

// TyAnno is an explicit type annotation on a subexpression.
type TyAnno struct {
	Expr *Expr
	Type types.Type
}

func (TyAnno) exprPayload() {}

// MakeStruct constructs a value of a struct tycon from a field map.
type MakeStruct struct {
	Tycon  names.FullName
	Fields map[string]*Expr
}

func (MakeStruct) exprPayload() {}

// ArrayLit is a literal array of elements.
type ArrayLit struct {
	Elems []*Expr
}

func (ArrayLit) exprPayload() {}

// FFICall invokes a foreign function by name with a declared signature.
type FFICall struct {
	Name   string
	RetTy  types.Type
	ArgTys []types.Type
	Args   []*Expr
}

func (FFICall) exprPayload() {}
