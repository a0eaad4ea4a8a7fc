// Package program's Pipeline drives spec.md §2's eight steps end to end:
// name tables, kind environment, declaration resolution, static
// validation, method synthesis, elaboration-cache wiring, the
// monomorphizing specializer, and the resulting specialized AST.
//
// Grounded on the teacher's internal/pipeline/pipeline.go Run method,
// which dispatches a Source through a fixed phase sequence against a
// shared Artifacts aggregate, checking for a fatal result after each
// phase before continuing — generalized here from a single-mode/multi-
// mode compilation driver to the fixed eight-step sequence this
// frontend's semantics require, with internal/diag.Bag standing in for
// the teacher's accumulated *errors.Report slice.
package program

import (
	"context"

	"github.com/fixlang/fixc/internal/ast"
	"github.com/fixlang/fixc/internal/cache"
	"github.com/fixlang/fixc/internal/config"
	"github.com/fixlang/fixc/internal/diag"
	"github.com/fixlang/fixc/internal/elaborate"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/specialize"
	"github.com/fixlang/fixc/internal/types"
)

// Demand is an explicit specialization root: a global value the caller
// wants instantiated at a concrete type, supplied from outside the
// modules being compiled (typically cmd/fixc's own notion of "the
// program's entry point"). Every Exported GlobalDecl whose own scheme is
// already ground (no generalized Vars) is demanded automatically and
// needs no corresponding Demand.
type Demand struct {
	Name names.FullName
	Type types.Type
}

// Pipeline drives Program construction for a fixed set of modules.
type Pipeline struct {
	Modules    []*Module
	Cache      elaborate.Cache // nil disables caching (internal/cache.Store satisfies this, or pass nil)
	Config     config.Options
	BuildStamp string
}

// NewPipeline builds a Pipeline ready to run over modules, with default
// configuration and no cache.
func NewPipeline(modules []*Module) *Pipeline {
	return &Pipeline{Modules: modules, Config: config.Default()}
}

// WithCache attaches a sqlite-backed cache store (see internal/cache.Open).
// A nil store simply disables caching — spec.md §5's "cache failure never
// affects results" means Run never needs to treat a missing cache as an
// error.
func (pl *Pipeline) WithCache(store *cache.Store) *Pipeline {
	if store == nil {
		pl.Cache = nil
		return pl
	}
	pl.Cache = store
	return pl
}

// Result is everything Run produces: the fully resolved Program, every
// diagnostic accumulated along the way, and (once the specializer has run)
// the monomorphized symbol table keyed by specialize.InstantiatedName.String().
type Result struct {
	Program     *Program
	Diagnostics []*diag.Report
	Specialized map[string]*specialize.InstantiatedSymbol
}

// Run drives every step of spec.md §2 to completion. ctx is checked
// between steps so a long-running compilation (many modules, a cold
// cache) can be cancelled without running a step to completion uselessly.
func (pl *Pipeline) Run(ctx context.Context, demands []Demand) Result {
	p := New(pl.Modules)
	var all []*diag.Report

	for _, collision := range p.declareNames() {
		all = append(all, diag.New(diag.DuplicateDecl, diag.Duplicate, "%s", collision.Error()))
	}
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	p.registerTraitShapes()

	kindBag := p.solveKinds()
	all = append(all, kindBag.Reports()...)
	if kindBag.HasFatal(diag.KindCheck) {
		return Result{Program: p, Diagnostics: all}
	}
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	resolveBag := p.resolveProgram()
	all = append(all, resolveBag.Reports()...)
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	validateBag := p.validate()
	all = append(all, validateBag.Reports()...)
	if validateBag.HasFatal() {
		return Result{Program: p, Diagnostics: all}
	}
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	p.synthesize()
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	elaborator := p.newElaborator(pl.Cache)
	spec := specialize.New(p.globalLookup, p.Traits, elaborator.Elaborate)

	for _, d := range demands {
		spec.Demand(d.Name, d.Type)
	}
	for _, name := range p.groundRoots() {
		gv := p.Globals[name.String()]
		spec.Demand(name, gv.Scheme.Qual.Type)
	}
	for _, name := range p.undeterminedRoots() {
		all = append(all, diag.New(diag.TypeUndetermined, diag.Undetermined,
			"entry point %s has an undetermined (generic) type and no Demand supplied its concrete instantiation", name))
	}

	if err := spec.Run(); err != nil {
		all = append(all, specializeErrorReport(err))
		return Result{Program: p, Diagnostics: all}
	}

	return Result{Program: p, Diagnostics: all, Specialized: spec.Instantiated()}
}

// Check drives spec.md §2 steps 1–5 only — name tables through static
// validation and method synthesis — and stops short of elaboration and
// specialization. This backs cmd/fixc's "check" subcommand, which
// validates a module's declarations (kinds, coherence, duplicate names)
// without requiring every global to carry an elaboratable body, unlike
// Run, which always seeds and instantiates every ground exported global.
func (pl *Pipeline) Check(ctx context.Context) Result {
	p := New(pl.Modules)
	var all []*diag.Report

	for _, collision := range p.declareNames() {
		all = append(all, diag.New(diag.DuplicateDecl, diag.Duplicate, "%s", collision.Error()))
	}
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	p.registerTraitShapes()

	kindBag := p.solveKinds()
	all = append(all, kindBag.Reports()...)
	if kindBag.HasFatal(diag.KindCheck) {
		return Result{Program: p, Diagnostics: all}
	}
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	resolveBag := p.resolveProgram()
	all = append(all, resolveBag.Reports()...)
	if ctxDone(ctx) {
		return Result{Program: p, Diagnostics: all}
	}

	validateBag := p.validate()
	all = append(all, validateBag.Reports()...)
	if validateBag.HasFatal() {
		return Result{Program: p, Diagnostics: all}
	}

	p.synthesize()
	return Result{Program: p, Diagnostics: all}
}

// globalLookup adapts Program's Globals table to specialize.Globals.
func (p *Program) globalLookup(name names.FullName) (*ast.GlobalValue, bool) {
	gv, ok := p.Globals[name.String()]
	return gv, ok
}

// groundRoots returns every Exported global whose declared scheme is
// already closed, ready to demand without any caller-supplied Demand.
func (p *Program) groundRoots() []names.FullName {
	var out []names.FullName
	for _, m := range p.modules {
		for _, g := range m.Globals {
			if !g.Exported {
				continue
			}
			full := names.In(m.Namespace, g.Name)
			if gv, ok := p.Globals[full.String()]; ok && len(gv.Scheme.Vars) == 0 {
				out = append(out, full)
			}
		}
	}
	return out
}

// undeterminedRoots returns every Exported global whose declared scheme
// is generic and for which Run received no explicit Demand — these
// cannot be specialized without more information (spec.md §7
// "Undetermined").
func (p *Program) undeterminedRoots() []names.FullName {
	var out []names.FullName
	for _, m := range p.modules {
		for _, g := range m.Globals {
			if !g.Exported {
				continue
			}
			full := names.In(m.Namespace, g.Name)
			if gv, ok := p.Globals[full.String()]; ok && len(gv.Scheme.Vars) != 0 {
				out = append(out, full)
			}
		}
	}
	return out
}

func ctxDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func specializeErrorReport(err error) *diag.Report {
	switch e := err.(type) {
	case *specialize.TypeUndeterminedError:
		r := diag.New(diag.TypeUndetermined, diag.Undetermined, "%s", e.Error())
		if e.Span != nil {
			r = r.WithSpan(*e.Span, "demand")
		}
		return r
	case *specialize.UnknownGlobalError:
		return diag.New(diag.NameUnresolved, diag.NameResolution, "%s", e.Error())
	case *specialize.NoMatchingMethodError:
		return diag.New(diag.InstanceMissing, diag.NoInstance, "%s", e.Error())
	default:
		return diag.New(diag.TypeUnifyFailed, diag.TypeMismatch, "%s", err.Error())
	}
}
