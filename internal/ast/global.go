package ast

import (
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/span"
	"github.com/fixlang/fixc/internal/types"
)

// GlobalBody is the tagged variant of a global value's implementation:
// Simple (an ordinary expression) or Method (one implementation per known
// trait instance) — spec.md §3 "Global value entries".
type GlobalBody interface {
	globalBody()
}

// Simple is an ordinary top-level definition.
type Simple struct {
	Expr *Expr
}

func (Simple) globalBody() {}

// MethodImpl is one trait instance's implementation of a single method.
type MethodImpl struct {
	DefiningModule names.NameSpace // for import context at elaboration time
	Scheme         *types.Scheme   // derived from the instance head
	Expr           *Expr
}

// Method is a trait method, carrying one MethodImpl per known instance.
type Method struct {
	Impls []MethodImpl
}

func (Method) globalBody() {}

// GlobalValue is a named, schemed definition — either a Simple expression
// or a trait Method (spec.md §3).
type GlobalValue struct {
	Name    names.FullName
	Scheme  *types.Scheme
	Body    GlobalBody
	DefSpan *span.Span
	Doc     string
}
