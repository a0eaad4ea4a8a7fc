// Package config carries the pipeline configuration options the frontend
// recognizes (spec.md §6 "Configuration options"): a plain, directly
// constructed struct that program.Pipeline holds in its Config field, in the
// same shape as the teacher's LinkOptions/ScaffoldOptions — no flag
// parsing or file format lives here, that's cmd/fixc's job.
package config

// Options is the frontend's recognized configuration surface.
type Options struct {
	// UncurryOptimization is carried in Pipeline.Config, but no pipeline
	// step reads it: setting it does not change the App/Lam shapes the
	// specializer or the method synthesizer produce.
	UncurryOptimization bool

	// TupleSizesUsed is a set of tuple arities, written through RecordTuple
	// and read through UsesTuple. No pipeline step records arities into it
	// or reads it; internal/synth does not consult it.
	TupleSizesUsed map[int]bool
}

// Default returns the zero-configuration Options: uncurrying off and an
// empty TupleSizesUsed set. No pipeline step populates the set.
func Default() Options {
	return Options{TupleSizesUsed: map[int]bool{}}
}

// UsesTuple reports whether arity n has been recorded.
func (o Options) UsesTuple(n int) bool {
	return o.TupleSizesUsed != nil && o.TupleSizesUsed[n]
}

// RecordTuple marks arity n as used, initializing the set if needed.
func (o *Options) RecordTuple(n int) {
	if o.TupleSizesUsed == nil {
		o.TupleSizesUsed = map[int]bool{}
	}
	o.TupleSizesUsed[n] = true
}
