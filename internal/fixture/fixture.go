// Package fixture loads declaration-only program.Module values from YAML,
// backing cmd/fixc's "check" subcommand. Parsing Fix source itself is out
// of scope for this frontend (spec.md §1 Non-goals; internal/program's own
// doc comment: "Module is this package's own input shape, not a parser's
// AST") — fixture closes that gap for a CLI user with a small declarative
// surface syntax instead of a full lexer/parser, covering every
// declaration shape program.Module accepts except global bodies, which
// stay Go-constructed (see cmd/fixc's built-in example programs).
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/program"
	"github.com/fixlang/fixc/internal/types"
)

// File is the top-level YAML shape of one fixture module.
type File struct {
	Namespace []string     `yaml:"namespace"`
	Imports   []importYAML `yaml:"imports"`
	TyCons    []tyConYAML  `yaml:"tycons"`
	Structs   []structYAML `yaml:"structs"`
	Unions    []unionYAML  `yaml:"unions"`
	Traits    []traitYAML  `yaml:"traits"`
	Globals   []globalYAML `yaml:"globals"`
}

type importYAML struct {
	Namespace []string `yaml:"namespace"`
	Explicit  bool     `yaml:"explicit"`
}

type tyConYAML struct {
	Name  string `yaml:"name"`
	Arity int    `yaml:"arity"` // number of type arguments; 0 means kind *
}

type fieldYAML struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type structYAML struct {
	Name   string      `yaml:"name"`
	TyVars []string    `yaml:"tyvars"`
	Fields []fieldYAML `yaml:"fields"`
	Boxed  bool        `yaml:"boxed"`
}

type unionYAML struct {
	Name     string      `yaml:"name"`
	TyVars   []string    `yaml:"tyvars"`
	Variants []fieldYAML `yaml:"variants"`
}

type methodSigYAML struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type traitYAML struct {
	Name    string          `yaml:"name"`
	TyVar   string          `yaml:"tyvar"`
	Methods []methodSigYAML `yaml:"methods"`
}

type globalYAML struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Exported bool   `yaml:"exported"`
}

// Load reads one fixture YAML file and converts it into a program.Module.
func Load(path string) (*program.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: parse %s: %w", path, err)
	}
	return f.toModule(string(data))
}

func tyVar(name string) types.TyVar {
	return types.TyVar{Name: name, Kind: kinds.Star}
}

func (f File) toModule(source string) (*program.Module, error) {
	m := &program.Module{
		Namespace: names.NameSpace(f.Namespace),
		Source:    source,
	}

	for _, im := range f.Imports {
		m.Imports = append(m.Imports, names.ImportStatement{
			Module:   names.NameSpace(im.Namespace),
			Explicit: im.Explicit,
		})
	}

	for _, tc := range f.TyCons {
		m.TyCons = append(m.TyCons, program.TyConDecl{
			Name: tc.Name,
			Kind: kinds.NAry(tc.Arity, kinds.Star),
		})
	}

	for _, s := range f.Structs {
		decl := program.StructDecl{Name: s.Name, Boxed: s.Boxed}
		for _, v := range s.TyVars {
			decl.TyVars = append(decl.TyVars, tyVar(v))
		}
		for _, fl := range s.Fields {
			t, err := parseType(fl.Type)
			if err != nil {
				return nil, fmt.Errorf("fixture: struct %s field %s: %w", s.Name, fl.Name, err)
			}
			decl.Fields = append(decl.Fields, program.FieldDecl{Name: fl.Name, Type: t})
		}
		m.Structs = append(m.Structs, decl)
	}

	for _, u := range f.Unions {
		decl := program.UnionDecl{Name: u.Name}
		for _, v := range u.TyVars {
			decl.TyVars = append(decl.TyVars, tyVar(v))
		}
		for _, vr := range u.Variants {
			t, err := parseType(vr.Type)
			if err != nil {
				return nil, fmt.Errorf("fixture: union %s variant %s: %w", u.Name, vr.Name, err)
			}
			decl.Variants = append(decl.Variants, program.FieldDecl{Name: vr.Name, Type: t})
		}
		m.Unions = append(m.Unions, decl)
	}

	for _, tr := range f.Traits {
		decl := program.TraitDecl{Name: tr.Name, TyVar: tr.TyVar, TyVarKind: kinds.Star}
		for _, ms := range tr.Methods {
			t, err := parseType(ms.Type)
			if err != nil {
				return nil, fmt.Errorf("fixture: trait %s method %s: %w", tr.Name, ms.Name, err)
			}
			decl.Methods = append(decl.Methods, program.MethodSigDecl{
				Name: ms.Name,
				Qual: &types.QualType{Type: t},
			})
		}
		m.Traits = append(m.Traits, decl)
	}

	for _, g := range f.Globals {
		t, err := parseType(g.Type)
		if err != nil {
			return nil, fmt.Errorf("fixture: global %s: %w", g.Name, err)
		}
		m.Globals = append(m.Globals, program.GlobalDecl{
			Name:     g.Name,
			Scheme:   types.Generalize(&types.QualType{Type: t}, map[string]bool{}),
			Exported: g.Exported,
			// Body stays nil: fixture modules describe declaration shape
			// only, so Check (not Run) is the entry point that suits them.
		})
	}

	return m, nil
}
