// Package diag provides the frontend's single structured diagnostic type
// (spec.md §6 "Diagnostics", §7 "Error handling design"): every error
// produced anywhere in the pipeline carries a message, zero or more spans
// each labeled with its role in the diagnostic, and a category drawn from a
// closed taxonomy. Diagnostics are values, not just errors — they are
// collected into a Bag so that independent problems in the same step can
// all be reported before the pipeline halts.
package diag

import (
	"errors"
	"fmt"

	"github.com/fixlang/fixc/internal/schema"
	"github.com/fixlang/fixc/internal/span"
)

// Category is the closed set of diagnostic categories named in spec.md §6.
type Category string

const (
	Parse          Category = "Parse"
	NameResolution Category = "NameResolution"
	KindCheck      Category = "KindCheck"
	TypeMismatch   Category = "TypeMismatch"
	NoInstance     Category = "NoInstance"
	Overlap        Category = "Overlap"
	Orphan         Category = "Orphan"
	Ambiguity      Category = "Ambiguity"
	Undetermined   Category = "Undetermined"
	Duplicate      Category = "Duplicate"
	Shape          Category = "Shape"
	IO             Category = "IO"
)

// Fatal reports whether a diagnostic in this category stops the current
// component's traversal outright (spec.md §7): KindCheck inside a single
// declaration, and TypeMismatch/NoInstance during elaboration of a single
// value. Every other category is accumulated and the traversal continues.
func (c Category) Fatal() bool {
	switch c {
	case KindCheck, TypeMismatch, NoInstance:
		return true
	default:
		return false
	}
}

// SpanRole pairs a source span with a short label describing its part in
// the diagnostic ("definition", "use", "conflicting instance", ...), so
// that multi-span diagnostics (duplicates, overlaps, orphan violations) read
// as more than an unordered list of locations.
type SpanRole struct {
	Span span.Span `json:"span"`
	Role string    `json:"role,omitempty"`
}

// Fix is a suggested remediation, carried through unchanged from the
// teacher's error-reporting shape; the frontend itself never populates
// Confidence above zero, leaving that to whatever AI-assisted tooling
// consumes the JSON encoding.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the frontend's single diagnostic type (spec.md §6). Schema is
// always SchemaV1; Code is one of the constants in codes.go.
type Report struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Category Category       `json:"category"`
	Message  string         `json:"message"`
	Spans    []SpanRole     `json:"spans,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`
}

// SchemaV1 is Report's schema identifier.
const SchemaV1 = schema.DiagV1

// New builds a Report with no spans attached; use WithSpan/WithSpans to
// attach locations before handing the Report to a Bag or wrapping it as an
// error.
func New(code string, category Category, format string, args ...any) *Report {
	return &Report{
		Schema:   SchemaV1,
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithSpan attaches one labeled span and returns the same Report for
// chaining (spec.md §7: "every diagnostic carries at least one span
// pointing at the narrowest relevant construct").
func (r *Report) WithSpan(s span.Span, role string) *Report {
	r.Spans = append(r.Spans, SpanRole{Span: s, Role: role})
	return r
}

// WithData attaches structured, AI-consumable context to the diagnostic.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}

// WithFix attaches a suggested remediation.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling code.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts the Report from an error chain, if any link in the
// chain is a *ReportError.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error. nil wraps to nil.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the Report as deterministic JSON (sorted keys), matching
// the rest of the frontend's AI-facing JSON surfaces.
func (r *Report) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(r)
	if err != nil {
		return nil, fmt.Errorf("diag: marshal report: %w", err)
	}
	return schema.FormatJSON(data)
}
