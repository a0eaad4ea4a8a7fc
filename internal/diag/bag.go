package diag

// Bag accumulates diagnostics across an independent traversal (spec.md §7:
// "a step that finds multiple independent problems continues and
// accumulates"). internal/traits.CheckCoherence's []error-returning checks
// are the pattern this generalizes: instead of every checker returning its
// own slice type, they all Add to a shared Bag, and the pipeline inspects
// HasFatal once at the step boundary before deciding whether to continue.
type Bag struct {
	reports []*Report
}

// NewBag returns an empty accumulator.
func NewBag() *Bag { return &Bag{} }

// Add appends a diagnostic. A nil Report is ignored so call sites can write
// `bag.Add(checkX(...))` without a nil guard.
func (b *Bag) Add(r *Report) {
	if r == nil {
		return
	}
	b.reports = append(b.reports, r)
}

// AddAll appends every diagnostic in rs.
func (b *Bag) AddAll(rs []*Report) {
	for _, r := range rs {
		b.Add(r)
	}
}

// HasFatal reports whether the bag contains a diagnostic whose category is
// fatal (Category.Fatal) and, when categories is non-empty, whose category
// is additionally one of the ones listed — letting a caller ask "is there a
// fatal KindCheck problem" without being tripped up by an unrelated
// accumulated NameResolution diagnostic that hasn't stopped the traversal.
func (b *Bag) HasFatal(categories ...Category) bool {
	want := make(map[Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	for _, r := range b.reports {
		if !r.Category.Fatal() {
			continue
		}
		if len(categories) == 0 || want[r.Category] {
			return true
		}
	}
	return false
}

// Empty reports whether no diagnostics have been added.
func (b *Bag) Empty() bool { return len(b.reports) == 0 }

// Reports returns every accumulated diagnostic, in the order they were
// added.
func (b *Bag) Reports() []*Report {
	out := make([]*Report, len(b.reports))
	copy(out, b.reports)
	return out
}
