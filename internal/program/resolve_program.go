package program

import (
	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/span"
	"github.com/fixlang/fixc/internal/synth"
	"github.com/fixlang/fixc/internal/traits"
	"github.com/fixlang/fixc/internal/types"
)

// resolveProgram runs spec.md §2 step 3: every short name written in a
// struct/union field, a trait method signature, a trait alias body, an
// instance head/context/associated-type implementation, a global's
// declared scheme, and a global's body is rewritten to its resolved
// FullName, populating Structs, Unions, Traits (methods and instances)
// and Globals. A resolution failure (UnknownNameError/AmbiguousNameError)
// becomes a non-fatal NameResolution diagnostic and that declaration is
// skipped — independent declarations still resolve (spec.md §7).
func (p *Program) resolveProgram() *diag.Bag {
	bag := diag.NewBag()

	for _, m := range p.modules {
		scope := p.newScope(m.Namespace, m.Imports)

		for _, sd := range m.Structs {
			p.resolveStruct(bag, scope, m, sd)
		}
		for _, ud := range m.Unions {
			p.resolveUnion(bag, scope, m, ud)
		}
		for _, td := range m.Traits {
			p.resolveTraitMethods(bag, scope, m, td)
		}
		for _, ad := range m.Aliases {
			p.resolveAlias(bag, scope, m, ad)
		}
		for _, inst := range m.Instances {
			p.resolveInstance(bag, scope, m, inst)
		}
		for _, g := range m.Globals {
			p.resolveGlobal(bag, scope, m, g)
		}
	}
	return bag
}

func nameResolutionReport(span *span.Span, format string, args ...any) *diag.Report {
	r := diag.New(diag.NameUnresolved, diag.NameResolution, format, args...)
	if span != nil {
		r = r.WithSpan(*span, "use")
	}
	return r
}

func (p *Program) resolveStruct(bag *diag.Bag, scope *resolveScope, m *Module, sd StructDecl) {
	full := names.In(m.Namespace, sd.Name)
	fields := make([]synth.Field, 0, len(sd.Fields))
	for _, f := range sd.Fields {
		ty, err := p.resolveType(scope, f.Type)
		if err != nil {
			bag.Add(nameResolutionReport(sd.Span, "struct %s field %s: %v", full, f.Name, err))
			return
		}
		fields = append(fields, synth.Field{Name: f.Name, Type: ty})
	}
	p.Structs[full.String()] = synth.StructDecl{Name: full, TyVars: sd.TyVars, Fields: fields, Boxed: sd.Boxed}
}

func (p *Program) resolveUnion(bag *diag.Bag, scope *resolveScope, m *Module, ud UnionDecl) {
	full := names.In(m.Namespace, ud.Name)
	variants := make([]synth.Field, 0, len(ud.Variants))
	for _, v := range ud.Variants {
		ty, err := p.resolveType(scope, v.Type)
		if err != nil {
			bag.Add(nameResolutionReport(ud.Span, "union %s variant %s: %v", full, v.Name, err))
			return
		}
		variants = append(variants, synth.Field{Name: v.Name, Type: ty})
	}
	p.Unions[full.String()] = synth.UnionDecl{Name: full, TyVars: ud.TyVars, Variants: variants}
}

func (p *Program) resolveTraitMethods(bag *diag.Bag, scope *resolveScope, m *Module, td TraitDecl) {
	full := names.In(m.Namespace, td.Name)
	info, ok := p.Traits.Traits[full.String()]
	if !ok {
		return
	}
	for _, meth := range td.Methods {
		qt, err := p.resolveQual(scope, meth.Qual)
		if err != nil {
			bag.Add(nameResolutionReport(meth.Span, "trait %s method %s: %v", full, meth.Name, err))
			continue
		}
		info.Methods = append(info.Methods, traits.MethodSig{Name: meth.Name, Qual: qt, Span: meth.Span})
	}
}

func (p *Program) resolveAlias(bag *diag.Bag, scope *resolveScope, m *Module, ad TraitAliasDecl) {
	full := names.In(m.Namespace, ad.Name)
	alias, ok := p.Traits.Aliases[full.String()]
	if !ok {
		return
	}
	refs := make([]names.FullName, 0, len(ad.Refs))
	for _, ref := range ad.Refs {
		r, err := p.resolveName(scope, ref, names.Categories(names.Trait))
		if err != nil {
			bag.Add(nameResolutionReport(ad.Span, "trait alias %s: %v", full, err))
			return
		}
		refs = append(refs, r)
	}
	alias.Refs = refs
}

func (p *Program) resolveInstance(bag *diag.Bag, scope *resolveScope, m *Module, id InstanceDecl) {
	trait, err := p.resolveName(scope, id.Trait, names.Categories(names.Trait))
	if err != nil {
		bag.Add(nameResolutionReport(id.Span, "instance of %s: %v", id.Trait, err))
		return
	}
	head, err := p.resolveType(scope, id.Head)
	if err != nil {
		bag.Add(nameResolutionReport(id.Span, "instance of %s: head %v", trait, err))
		return
	}
	context := make([]types.Predicate, 0, len(id.Context))
	for _, c := range id.Context {
		rp, err := p.resolvePredicate(scope, c)
		if err != nil {
			bag.Add(nameResolutionReport(id.Span, "instance of %s for %s: context %v", trait, head, err))
			return
		}
		context = append(context, rp)
	}
	methods := make(map[string]*ast.Expr, len(id.Methods))
	for name, body := range id.Methods {
		rb, err := p.resolveExpr(scope, body)
		if err != nil {
			bag.Add(nameResolutionReport(id.Span, "instance of %s for %s method %s: %v", trait, head, name, err))
			return
		}
		methods[name] = rb
	}
	assocImpls := make([]traits.AssocTypeImpl, 0, len(id.AssocImpls))
	for _, impl := range id.AssocImpls {
		implName, err := p.resolveName(scope, impl.Name, names.Categories(names.AssocType))
		if err != nil {
			bag.Add(nameResolutionReport(id.Span, "instance of %s for %s: associated type %v", trait, head, err))
			return
		}
		value, err := p.resolveType(scope, impl.Value)
		if err != nil {
			bag.Add(nameResolutionReport(id.Span, "instance of %s for %s: associated type value %v", trait, head, err))
			return
		}
		assocImpls = append(assocImpls, traits.AssocTypeImpl{Name: implName, Value: value})
	}

	resolved := &traits.TraitInstance{
		Trait:          trait,
		Context:        context,
		Head:           head,
		Methods:        methods,
		AssocImpls:     assocImpls,
		DefiningModule: m.Namespace,
		Span:           id.Span,
	}
	p.Traits.AddInstance(resolved)
	p.Instances = append(p.Instances, &resolvedInstance{decl: id, module: m.Namespace})
}

func (p *Program) resolveGlobal(bag *diag.Bag, scope *resolveScope, m *Module, g GlobalDecl) {
	full := names.In(m.Namespace, g.Name)
	scheme, err := p.resolveScheme(scope, g.Scheme)
	if err != nil {
		bag.Add(nameResolutionReport(g.Span, "global %s: scheme %v", full, err))
		return
	}
	body, err := p.resolveExpr(scope, g.Body)
	if err != nil {
		bag.Add(nameResolutionReport(g.Span, "global %s: %v", full, err))
		return
	}
	p.Globals[full.String()] = &ast.GlobalValue{
		Name:    full,
		Scheme:  scheme,
		Body:    ast.Simple{Expr: body},
		DefSpan: g.Span,
		Doc:     g.Doc,
	}
}
