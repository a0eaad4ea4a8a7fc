package infer

import (
	"fmt"

	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// UnifyError is a structural mismatch between two types during unification.
type UnifyError struct{ A, B types.Type }

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s", e.A, e.B)
}

// OccursCheckError is raised when a variable would have to occur in its own
// binding (spec.md §8 property 2).
type OccursCheckError struct {
	Var string
	In  types.Type
}

func (e *OccursCheckError) Error() string {
	return fmt.Sprintf("occurs check failed: %s occurs in %s", e.Var, e.In)
}

// KindMismatchError is raised when a variable is bound to another variable
// of a different kind. Binding a variable to a non-variable type does not
// compare kinds.
type KindMismatchError struct {
	Var  string
	Want fmt.Stringer
	Got  fmt.Stringer
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("kind mismatch binding %s: want %s, got %s", e.Var, e.Want, e.Got)
}

// UnboundVariableError is raised by Infer when a Var's Ref resolves to
// neither a local binding nor a known global.
type UnboundVariableError struct{ Name names.FullName }

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable %s", e.Name)
}

// NoInstanceError is raised by context reduction when a predicate's
// subject is not a variable and no instance head matches it.
type NoInstanceError struct{ Predicate types.Predicate }

func (e *NoInstanceError) Error() string {
	return fmt.Sprintf("no instance for %s", e.Predicate)
}

// AmbiguousPredicateError is raised when a reduced, simplified predicate is
// neither entailed by the declared context nor resolvable to a concrete
// instance — it mentions a variable that can never be determined.
type AmbiguousPredicateError struct{ Predicate types.Predicate }

func (e *AmbiguousPredicateError) Error() string {
	return fmt.Sprintf("ambiguous predicate %s", e.Predicate)
}
