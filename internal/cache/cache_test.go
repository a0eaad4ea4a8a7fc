package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/elaborate"
	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "elaborations.db"), "test-build")
	if err != nil {
		t.Fatalf("unexpected error opening store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testKey() elaborate.CacheKey {
	return elaborate.CacheKey{
		Generic:    names.In(names.Std, "id"),
		SourceHash: "abc123",
		SchemeHash: "def456",
	}
}

func testEntry() elaborate.Entry {
	intCon := &types.TyCon{Name: names.In(names.Std, "Int"), Kind: kinds.Star}
	return elaborate.Entry{
		Expr: &ast.Expr{Payload: ast.Lit{DeclaredType: intCon}, Type: types.NewTypeNode(intCon)},
		Sub:  types.Empty(),
	}
}

func TestGetMissesOnEmptyStore(t *testing.T) {
	s := openTestStore(t)
	if _, ok := s.Get(testKey()); ok {
		t.Fatalf("expected a miss on an empty store")
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)
	key, entry := testKey(), testEntry()
	s.Put(key, entry)

	got, ok := s.Get(key)
	if !ok {
		t.Fatalf("expected a hit after Put")
	}
	lit, ok := got.Expr.Payload.(ast.Lit)
	if !ok {
		t.Fatalf("expected the decoded payload to be a Lit, got %T", got.Expr.Payload)
	}
	if !lit.DeclaredType.Equals(entry.Expr.Payload.(ast.Lit).DeclaredType) {
		t.Fatalf("expected the round-tripped declared type to match")
	}
}

func TestGetMissesOnDifferentSchemeHash(t *testing.T) {
	s := openTestStore(t)
	key, entry := testKey(), testEntry()
	s.Put(key, entry)

	other := key
	other.SchemeHash = "different"
	if _, ok := s.Get(other); ok {
		t.Fatalf("expected a miss for a key differing only in scheme hash")
	}
}

func TestPutOverwritesExistingRow(t *testing.T) {
	s := openTestStore(t)
	key := testKey()
	s.Put(key, testEntry())

	boolCon := &types.TyCon{Name: names.In(names.Std, "Bool"), Kind: kinds.Star}
	second := elaborate.Entry{
		Expr: &ast.Expr{Payload: ast.Lit{DeclaredType: boolCon}, Type: types.NewTypeNode(boolCon)},
		Sub:  types.Empty(),
	}
	s.Put(key, second)

	got, ok := s.Get(key)
	if !ok {
		t.Fatalf("expected a hit after the second Put")
	}
	lit := got.Expr.Payload.(ast.Lit)
	if !lit.DeclaredType.Equals(boolCon) {
		t.Fatalf("expected the second Put to overwrite the first row")
	}
}

func TestStoreSatisfiesElaborateCacheInterface(t *testing.T) {
	var _ elaborate.Cache = (*Store)(nil)
}

func TestClearRemovesRowsButKeepsStoreUsable(t *testing.T) {
	s := openTestStore(t)
	key, entry := testKey(), testEntry()
	s.Put(key, entry)

	_, ok := s.Get(key)
	require.True(t, ok, "expected a hit before Clear")

	require.NoError(t, s.Clear())

	_, ok = s.Get(key)
	require.False(t, ok, "expected a miss after Clear")

	s.Put(key, entry)
	got, ok := s.Get(key)
	require.True(t, ok, "expected Put to still work after Clear")
	require.True(t, got.Expr.Payload.(ast.Lit).DeclaredType.Equals(entry.Expr.Payload.(ast.Lit).DeclaredType))
}
