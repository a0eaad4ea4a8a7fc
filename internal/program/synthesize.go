package program

import (
	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/synth"
	"github.com/fixlang/fixc/internal/types"
)

// synthesize runs spec.md §2 step 5: every struct/union declaration
// contributes its fixed family of accessor globals (internal/synth), and
// every trait method contributes one ast.GlobalValue carrying a
// MethodImpl per instance that implements it. Names were already
// reserved for all of these in step 1 (declareNames); this step only
// builds the ast.GlobalValue bodies that back them.
func (p *Program) synthesize() {
	for _, decl := range p.Structs {
		for _, gv := range synth.Struct(decl) {
			p.Globals[gv.Name.String()] = gv
		}
	}
	for _, decl := range p.Unions {
		for _, gv := range synth.Union(decl) {
			p.Globals[gv.Name.String()] = gv
		}
	}
	p.synthesizeTraitMethods()
}

// synthesizeTraitMethods builds one Method global per trait method,
// generalizing its trait-variable-qualified signature into the global
// overloaded scheme callers see, and one MethodImpl per known instance
// whose own scheme substitutes the instance head for the trait variable
// and folds in the instance's own context (ast.MethodImpl's documented
// derivation "from the instance head").
func (p *Program) synthesizeTraitMethods() {
	for _, info := range p.Traits.Traits {
		instances := p.Traits.Instances[info.Name.String()]
		for _, m := range info.Methods {
			full := names.In(info.DefiningModule, m.Name)

			tyVar := &types.TyVar{Name: info.TyVar, Kind: info.TyVarKind}
			genericQual := &types.QualType{
				Preds: append([]types.Predicate{{Type: tyVar, Trait: info.Name}}, m.Qual.Preds...),
				Eqs:   m.Qual.Eqs,
				Kinds: m.Qual.Kinds,
				Type:  m.Qual.Type,
			}
			scheme := types.Generalize(genericQual, map[string]bool{})

			var impls []ast.MethodImpl
			for _, inst := range instances {
				expr, ok := inst.Methods[m.Name]
				if !ok {
					continue // missing-method violation already reported by validate()
				}
				implQual := m.Qual.Substitute(types.Substitution{info.TyVar: inst.Head})
				implQual.Preds = append(implQual.Preds, inst.Context...)
				implScheme := types.Generalize(implQual, map[string]bool{})
				impls = append(impls, ast.MethodImpl{
					DefiningModule: inst.DefiningModule,
					Scheme:         implScheme,
					Expr:           expr,
				})
			}

			p.Globals[full.String()] = &ast.GlobalValue{
				Name:    full,
				Scheme:  scheme,
				Body:    ast.Method{Impls: impls},
				DefSpan: m.Span,
			}
		}
	}
}
