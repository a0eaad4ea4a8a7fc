package names

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Category is one of the namespaces a declared name can inhabit: type
// constructor, trait, or associated type (spec.md §4.1's three disjoint
// capital-name categories), plus Value for the separate lowercase
// global-value namespace internal/program resolves Var references
// against — a value and a type may freely share a name without colliding,
// since CheckCollisions only treats Tycon/Trait/AssocType as mutually
// exclusive.
type Category int

const (
	Tycon Category = iota
	Trait
	AssocType
	Value
)

func (c Category) String() string {
	switch c {
	case Tycon:
		return "type"
	case Trait:
		return "trait"
	case AssocType:
		return "associated type"
	case Value:
		return "value"
	default:
		return "?"
	}
}

// CategorySet is the set of categories a lookup is permitted to match.
type CategorySet map[Category]bool

// Categories builds a CategorySet from its arguments.
func Categories(cs ...Category) CategorySet {
	s := make(CategorySet, len(cs))
	for _, c := range cs {
		s[c] = true
	}
	return s
}

// Std is the module path of the implicitly-imported standard prelude.
var Std = NameSpace{"Std"}

// ImportStatement records that the current module imports another module.
// Explicit records that the user wrote this import (as opposed to it being
// synthesized); an explicit Std import cancels the implicit one.
type ImportStatement struct {
	Module   NameSpace
	Explicit bool
}

// Decl is one entry in the global declaration table: a full name together
// with the single category it was declared in.
type Decl struct {
	Name     FullName
	Category Category
}

// CollisionError reports that a name was declared in more than one of the
// three disjoint categories (spec.md §4.1 invariant i).
type CollisionError struct {
	Name       FullName
	Categories []Category
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s is declared as both a %s and a %s", e.Name, e.Categories[0], e.Categories[1])
}

// Table is the global table of declared tycons, traits and associated
// types across every module in the program.
type Table struct {
	decls []Decl
}

// NewTable creates an empty declaration table.
func NewTable() *Table {
	return &Table{}
}

// Declare records a declaration. It does not itself reject collisions —
// call CheckCollisions once every module has been loaded, since collisions
// are a whole-program property, not a per-declaration one.
func (t *Table) Declare(name FullName, category Category) {
	t.decls = append(t.decls, Decl{Name: name, Category: category})
}

// CheckCollisions enforces that no name simultaneously denotes a tycon, a
// trait and an associated type (spec.md §4.1 invariant i). Value is a
// separate namespace and never participates: a global value may share its
// spelling with a type, trait or associated type without colliding.
func (t *Table) CheckCollisions() []*CollisionError {
	// FullName embeds a NameSpace slice and so isn't itself a valid map
	// key; key by its canonical string form instead, keeping the
	// original FullName alongside for reporting.
	type entry struct {
		name FullName
		cats map[Category]bool
	}
	byName := make(map[string]*entry)
	for _, d := range t.decls {
		if d.Category == Value {
			continue
		}
		e, ok := byName[d.Name.String()]
		if !ok {
			e = &entry{name: d.Name, cats: make(map[Category]bool)}
			byName[d.Name.String()] = e
		}
		e.cats[d.Category] = true
	}
	var errs []*CollisionError
	for _, e := range byName {
		if len(e.cats) > 1 {
			var list []Category
			for c := range e.cats {
				list = append(list, c)
			}
			sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
			errs = append(errs, &CollisionError{Name: e.name, Categories: list})
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Name.String() < errs[j].Name.String() })
	return errs
}

// UnknownNameError is returned when no declaration in the permitted
// categories is reachable under the given import policy.
type UnknownNameError struct {
	Short FullName
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("Unknown %s name", e.Short)
}

// AmbiguousNameError is returned when more than one declaration matches;
// Candidates is sorted into a deterministic order.
type AmbiguousNameError struct {
	Short      FullName
	Candidates []FullName
}

func (e *AmbiguousNameError) Error() string {
	var s string
	for i, c := range e.Candidates {
		if i > 0 {
			s += ", "
		}
		s += c.String()
	}
	return fmt.Sprintf("ambiguous name %s: candidates are %s", e.Short, s)
}

// SelfImportError is returned when a module's import list names itself.
type SelfImportError struct {
	Module NameSpace
}

func (e *SelfImportError) Error() string {
	return fmt.Sprintf("module %s may not import itself", e.Module.String())
}

// Resolver resolves short names against the global declaration table and a
// module's import list (spec.md §4.1).
type Resolver struct {
	table *Table
	col   *collate.Collator
}

// NewResolver creates a Resolver backed by the given declaration table.
func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table, col: collate.New(language.Und)}
}

// reachableModules computes the set of modules visible from currentModule
// given its import list: itself, plus every imported module, plus the
// implicit Std import unless an explicit Std import is present.
func reachableModules(currentModule NameSpace, imports []ImportStatement) ([]NameSpace, error) {
	reachable := []NameSpace{currentModule}
	hasExplicitStd := false
	for _, imp := range imports {
		if imp.Module.Equals(currentModule) {
			return nil, &SelfImportError{Module: currentModule}
		}
		if imp.Module.Equals(Std) && imp.Explicit {
			hasExplicitStd = true
		}
	}
	if !hasExplicitStd {
		reachable = append(reachable, Std)
	}
	for _, imp := range imports {
		reachable = append(reachable, imp.Module)
	}
	return reachable, nil
}

// Resolve looks up short within the categories allowed, reachable from
// currentModule via imports. It returns the unique matching full name, or
// an *UnknownNameError / *AmbiguousNameError / *SelfImportError.
func (r *Resolver) Resolve(currentModule NameSpace, short FullName, allowed CategorySet, imports []ImportStatement) (FullName, error) {
	reachable, err := reachableModules(currentModule, imports)
	if err != nil {
		return FullName{}, err
	}

	var candidates []FullName
	for _, d := range r.table.decls {
		if !allowed[d.Category] {
			continue
		}
		if !IsSuffix(short, d.Name) {
			continue
		}
		for _, mod := range reachable {
			if mod.Equals(d.Name.NameSpace) {
				candidates = append(candidates, d.Name)
				break
			}
		}
	}

	candidates = dedupFullNames(candidates)

	switch len(candidates) {
	case 0:
		return FullName{}, &UnknownNameError{Short: short}
	case 1:
		return candidates[0], nil
	default:
		r.sortDeterministic(candidates)
		return FullName{}, &AmbiguousNameError{Short: short, Candidates: candidates}
	}
}

func (r *Resolver) sortDeterministic(names []FullName) {
	sort.Slice(names, func(i, j int) bool {
		return r.col.CompareString(names[i].String(), names[j].String()) < 0
	})
}

func dedupFullNames(in []FullName) []FullName {
	seen := make(map[string]bool, len(in))
	var out []FullName
	for _, n := range in {
		if !seen[n.String()] {
			seen[n.String()] = true
			out = append(out, n)
		}
	}
	return out
}
