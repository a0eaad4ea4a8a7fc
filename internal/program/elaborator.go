package program

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/fixlang/fixc/internal/elaborate"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// globalSchemes projects Globals down to the plain FullName.String()-keyed
// scheme table internal/infer.Env and internal/elaborate.Elaborator both
// expect.
func (p *Program) globalSchemes() map[string]*types.Scheme {
	out := make(map[string]*types.Scheme, len(p.Globals))
	for key, gv := range p.Globals {
		out[key] = gv.Scheme
	}
	return out
}

// sourceHasher computes the transitive source hash of a module's defining
// import closure (spec.md §2 step 6's source_hash): this module's own
// Source concatenated, in deterministic import order, with every
// (recursively) imported module's Source — so a change anywhere in a
// module's dependency closure invalidates every cache entry keyed against
// it, without the cache needing to understand the language at all.
func (p *Program) sourceHasher() elaborate.SourceHasher {
	byNamespace := make(map[string]*Module, len(p.modules))
	for _, m := range p.modules {
		byNamespace[m.Namespace.String()] = m
	}

	return func(module names.NameSpace) (string, error) {
		m, ok := byNamespace[module.String()]
		if !ok {
			return "", fmt.Errorf("program: no module %s to hash", module)
		}
		visiting := map[string]bool{}
		var collect func(*Module) []string
		collect = func(cur *Module) []string {
			key := cur.Namespace.String()
			if visiting[key] {
				return nil
			}
			visiting[key] = true
			out := []string{cur.Source}
			imports := append([]names.ImportStatement{}, cur.Imports...)
			sort.Slice(imports, func(i, j int) bool { return imports[i].Module.String() < imports[j].Module.String() })
			for _, imp := range imports {
				if dep, ok := byNamespace[imp.Module.String()]; ok {
					out = append(out, collect(dep)...)
				}
			}
			return out
		}

		h := fnv.New64a()
		for _, src := range collect(m) {
			_, _ = h.Write([]byte(src))
			_, _ = h.Write([]byte{0})
		}
		return fmt.Sprintf("%x", h.Sum64()), nil
	}
}

// newElaborator builds the Elaborator this Program wires its
// specialization step through, using cache (nil disables caching). No
// build stamp is passed here: rows carry the stamp the cache.Store was
// opened with.
func (p *Program) newElaborator(cache elaborate.Cache) *elaborate.Elaborator {
	return elaborate.New(p.Traits, p.structFields, p.unionVariant, p.globalSchemes(), cache, p.sourceHasher())
}
