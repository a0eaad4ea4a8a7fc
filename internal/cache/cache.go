// Package cache implements the frontend's on-disk elaboration cache
// (spec.md §2 step 6, §6 "External interfaces"): a single sqlite table
// keyed by (generic_name, source_hash, scheme_hash), storing a serialized
// elaborated expression and substitution per row together with the build
// stamp it was written under; a row written under a different build stamp
// is a miss. Any read, decode, or write failure degrades to a silent miss
// (nothing is logged) — caching is a pure optimization, never load-bearing
// for correctness.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/elaborate"
	"github.com/fixlang/fixc/internal/synth"
	"github.com/fixlang/fixc/internal/types"
)

// gob cannot decode an interface-typed field (ast.Payload, types.Type, or
// ast.CodeGenDescriptor.Payload's any) into a concrete type it hasn't seen
// registered, even on an encode/decode pair in the same process — register
// every concrete variant the tree can hold once, here, rather than at each
// call site.
func init() {
	gob.Register(ast.Var{})
	gob.Register(ast.Lit{})
	gob.Register(ast.App{})
	gob.Register(ast.Lam{})
	gob.Register(ast.Let{})
	gob.Register(ast.If{})
	gob.Register(ast.TyAnno{})
	gob.Register(ast.MakeStruct{})
	gob.Register(ast.ArrayLit{})
	gob.Register(ast.FFICall{})
	gob.Register(ast.VarPattern{})
	gob.Register(ast.StructPattern{})
	gob.Register(ast.UnionPattern{})
	gob.Register(&types.TyVar{})
	gob.Register(&types.TyCon{})
	gob.Register(&types.TyApp{})
	gob.Register(&types.FunTy{})
	gob.Register(&types.AssocTy{})
	gob.Register(synth.GetPayload{})
	gob.Register(synth.SetPayload{})
	gob.Register(synth.ModPayload{})
	gob.Register(synth.ActPayload{})
	gob.Register(synth.PunchPayload{})
	gob.Register(synth.PlugInPayload{})
	gob.Register(synth.UnionNewPayload{})
	gob.Register(synth.UnionAsPayload{})
	gob.Register(synth.UnionIsPayload{})
	gob.Register(synth.UnionModPayload{})
}

// Store is the sqlite-backed cache, satisfying internal/elaborate.Cache.
type Store struct {
	db         *sql.DB
	buildStamp string
}

// schema is applied once per connection; CREATE TABLE IF NOT EXISTS makes
// Open idempotent against an already-initialized database file.
const schema = `
CREATE TABLE IF NOT EXISTS elaborations (
	generic_name TEXT NOT NULL,
	source_hash  TEXT NOT NULL,
	scheme_hash  TEXT NOT NULL,
	build_stamp  TEXT NOT NULL,
	expr_blob    BLOB NOT NULL,
	PRIMARY KEY (generic_name, source_hash, scheme_hash)
);
`

// Open opens (creating if absent) the sqlite database at path, ensuring its
// containing directory and the elaborations table exist. build_stamp is the
// value stored alongside every row written through this Store — typically
// a compiler version or build identifier supplied by cmd/fixc.
func Open(path string, buildStamp string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: apply schema: %w", err)
	}
	return &Store{db: db, buildStamp: buildStamp}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Clear empties the elaborations table, backing cmd/fixc's "cache clear"
// subcommand. The table and connection survive; only its rows are dropped.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM elaborations`)
	if err != nil {
		return fmt.Errorf("cache: clear: %w", err)
	}
	return nil
}

type row struct {
	Expr *ast.Expr
	Sub  types.Substitution
}

// Get implements internal/elaborate.Cache. A read, query, or decode failure
// is treated as a cache miss, not an error — the caller falls back to
// elaborating fresh. A row written under another build stamp is also a
// miss.
func (s *Store) Get(key elaborate.CacheKey) (elaborate.Entry, bool) {
	var blob []byte
	err := s.db.QueryRow(
		`SELECT expr_blob FROM elaborations WHERE generic_name = ? AND source_hash = ? AND scheme_hash = ? AND build_stamp = ?`,
		key.Generic.String(), key.SourceHash, key.SchemeHash, s.buildStamp,
	).Scan(&blob)
	if err != nil {
		return elaborate.Entry{}, false
	}

	var r row
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&r); err != nil {
		return elaborate.Entry{}, false
	}
	return elaborate.Entry{Expr: r.Expr, Sub: r.Sub}, true
}

// Put implements internal/elaborate.Cache. A write failure is swallowed:
// the elaboration already succeeded and returning it matters more than
// persisting it.
func (s *Store) Put(key elaborate.CacheKey, entry elaborate.Entry) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(row{Expr: entry.Expr, Sub: entry.Sub}); err != nil {
		return
	}
	_, _ = s.db.Exec(
		`INSERT OR REPLACE INTO elaborations (generic_name, source_hash, scheme_hash, build_stamp, expr_blob) VALUES (?, ?, ?, ?, ?)`,
		key.Generic.String(), key.SourceHash, key.SchemeHash, s.buildStamp, buf.Bytes(),
	)
}

// PutReport performs the same write as Put but returns any failure as a
// diag.Report in the non-fatal IO category instead of dropping it
// (spec.md §7: cache warnings are never fatal).
func (s *Store) PutReport(key elaborate.CacheKey, entry elaborate.Entry) *diag.Report {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(row{Expr: entry.Expr, Sub: entry.Sub}); err != nil {
		return diag.New(diag.CacheWriteFailed, diag.IO, "encode cache entry for %s: %v", key, err)
	}
	if _, err := s.db.Exec(
		`INSERT OR REPLACE INTO elaborations (generic_name, source_hash, scheme_hash, build_stamp, expr_blob) VALUES (?, ?, ?, ?, ?)`,
		key.Generic.String(), key.SourceHash, key.SchemeHash, s.buildStamp, buf.Bytes(),
	); err != nil {
		return diag.New(diag.CacheWriteFailed, diag.IO, "write cache entry for %s: %v", key, err)
	}
	return nil
}
