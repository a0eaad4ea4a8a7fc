package elaborate

import (
	"testing"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

func intCon() *types.TyCon  { return &types.TyCon{Name: names.In(names.Std, "Int"), Kind: kinds.Star} }
func boolCon() *types.TyCon { return &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star} }

func varExpr(name string) *ast.Expr {
	return &ast.Expr{Payload: ast.Var{Ref: names.Local(name)}}
}

func litExpr(t types.Type) *ast.Expr {
	return &ast.Expr{Payload: ast.Lit{DeclaredType: t}}
}

func newElaborator() *Elaborator {
	return New(traits.NewEnv(), nil, nil, map[string]*types.Scheme{}, nil, nil)
}

func TestElaborateIdentityAgainstDeclaredScheme(t *testing.T) {
	e := newElaborator()
	a := &types.TyVar{Name: "a", Kind: kinds.Star}
	scheme := types.Generalize(&types.QualType{Type: &types.FunTy{From: a, To: a}}, map[string]bool{})
	body := &ast.Expr{Payload: ast.Lam{Params: []ast.Pattern{ast.VarPattern{Name: "x"}}, Body: varExpr("x")}}

	typed, sub, err := e.Elaborate(names.In(names.Std, "id"), scheme, body, intCon())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub == nil {
		t.Fatalf("expected a non-nil substitution")
	}
	fn, ok := typed.Type.Type.(*types.FunTy)
	if !ok {
		t.Fatalf("expected the annotated root to carry a function type, got %s", typed.Type.Type)
	}
	if !fn.From.Equals(fn.To) {
		t.Fatalf("expected identity's parameter and result type to match, got %s -> %s", fn.From, fn.To)
	}
	lam, ok := typed.Payload.(ast.Lam)
	if !ok {
		t.Fatalf("expected the rebuilt root to still be a Lam, got %T", typed.Payload)
	}
	if lam.Body.Type == nil {
		t.Fatalf("expected the lambda body to carry its own type annotation")
	}
}

func TestElaborateRejectsMismatchedBody(t *testing.T) {
	e := newElaborator()
	scheme := types.Generalize(&types.QualType{Type: &types.FunTy{From: intCon(), To: boolCon()}}, map[string]bool{})
	// \x -> x cannot have type Int -> Bool.
	body := &ast.Expr{Payload: ast.Lam{Params: []ast.Pattern{ast.VarPattern{Name: "x"}}, Body: varExpr("x")}}
	if _, _, err := e.Elaborate(names.In(names.Std, "bad"), scheme, body, intCon()); err == nil {
		t.Fatalf("expected a unification error for an ill-typed body")
	}
}

func TestElaborateAnnotatesEveryApplicationArgument(t *testing.T) {
	e := newElaborator()
	scheme := types.Generalize(&types.QualType{Type: boolCon()}, map[string]bool{})
	id := &ast.Expr{Payload: ast.Lam{Params: []ast.Pattern{ast.VarPattern{Name: "x"}}, Body: varExpr("x")}}
	body := &ast.Expr{Payload: ast.App{Fun: id, Args: []*ast.Expr{litExpr(boolCon())}}}

	typed, _, err := e.Elaborate(names.In(names.Std, "applied"), scheme, body, boolCon())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	app, ok := typed.Payload.(ast.App)
	if !ok {
		t.Fatalf("expected an App, got %T", typed.Payload)
	}
	if app.Args[0].Type == nil || !app.Args[0].Type.Type.Equals(boolCon()) {
		t.Fatalf("expected the argument to carry its own Bool annotation")
	}
}

// fakeCache exercises the Cache seam without internal/cache's sqlite
// backing, matching this package's dependency-injection boundary.
type fakeCache struct {
	store map[string]Entry
	hits  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]Entry{}} }

func (c *fakeCache) Get(key CacheKey) (Entry, bool) {
	e, ok := c.store[key.String()]
	if ok {
		c.hits++
	}
	return e, ok
}

func (c *fakeCache) Put(key CacheKey, entry Entry) { c.store[key.String()] = entry }

func TestElaborateCachesByNameSourceAndScheme(t *testing.T) {
	cache := newFakeCache()
	e := New(traits.NewEnv(), nil, nil, map[string]*types.Scheme{}, cache, func(names.NameSpace) (string, error) {
		return "source-hash-1", nil
	})
	scheme := types.Generalize(&types.QualType{Type: boolCon()}, map[string]bool{})
	body := litExpr(boolCon())
	name := names.In(names.Std, "flag")

	if _, _, err := e.Elaborate(name, scheme, body, boolCon()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := e.Elaborate(name, scheme, body, boolCon()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected exactly one cache hit across two elaborations of the same (name, source, scheme), got %d", cache.hits)
	}
}
