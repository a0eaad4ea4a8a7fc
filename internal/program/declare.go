package program

import "github.com/fixlang/fixc/internal/names"

// declareNames runs spec.md §2 step 1: record every name a module
// introduces — tycons, traits, associated types, and the global-value
// names that will exist once method synthesis and trait-method assembly
// run (struct/union member accessors, trait methods, and ordinary
// globals) — into the whole-program Table, then checks for cross-
// category collisions. Value-category names are declared eagerly here,
// ahead of the synthesis step that actually builds their ast.GlobalValue
// bodies, because their spelling is already fully determined by the
// declarations alone.
func (p *Program) declareNames() []*names.CollisionError {
	for _, m := range p.modules {
		for _, d := range m.TyCons {
			p.Names.Declare(names.In(m.Namespace, d.Name), names.Tycon)
		}
		for _, s := range m.Structs {
			p.Names.Declare(names.In(m.Namespace, s.Name), names.Tycon)
			for _, f := range s.Fields {
				p.Names.Declare(names.In(m.Namespace, "@"+f.Name), names.Value)
				p.Names.Declare(names.In(m.Namespace, "set_"+f.Name), names.Value)
				p.Names.Declare(names.In(m.Namespace, "mod_"+f.Name), names.Value)
				p.Names.Declare(names.In(m.Namespace, "act_"+f.Name), names.Value)
				if s.Boxed {
					p.Names.Declare(names.In(m.Namespace, "punch_"+f.Name), names.Value)
					p.Names.Declare(names.In(m.Namespace, "plug_in_"+f.Name), names.Value)
				}
			}
		}
		for _, u := range m.Unions {
			p.Names.Declare(names.In(m.Namespace, u.Name), names.Tycon)
			for _, v := range u.Variants {
				p.Names.Declare(names.In(m.Namespace, v.Name), names.Value)
				p.Names.Declare(names.In(m.Namespace, "as_"+v.Name), names.Value)
				p.Names.Declare(names.In(m.Namespace, "is_"+v.Name), names.Value)
				p.Names.Declare(names.In(m.Namespace, "mod_"+v.Name), names.Value)
			}
		}
		for _, t := range m.Traits {
			p.Names.Declare(names.In(m.Namespace, t.Name), names.Trait)
			for _, a := range t.AssocTypes {
				p.Names.Declare(names.In(m.Namespace, a.Name), names.AssocType)
			}
			for _, meth := range t.Methods {
				p.Names.Declare(names.In(m.Namespace, meth.Name), names.Value)
			}
		}
		for _, a := range m.Aliases {
			p.Names.Declare(names.In(m.Namespace, a.Name), names.Trait)
		}
		for _, g := range m.Globals {
			p.Names.Declare(names.In(m.Namespace, g.Name), names.Value)
		}
	}

	p.Resolver = names.NewResolver(p.Names)
	return p.Names.CheckCollisions()
}
