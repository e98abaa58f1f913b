package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag holds diagnostics up to a limit. Not safe for concurrent use.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func clampLimit(n int) uint16 {
	limit, err := safecast.Conv[uint16](n)
	if err != nil {
		return math.MaxUint16
	}
	return limit
}

func NewBag(max int) *Bag {
	limit := clampLimit(max)
	return &Bag{items: make([]Diagnostic, 0, min(int(limit), 64)), max: limit}
}

// Add reports false when the bag is full and d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 { return b.max }

func (b *Bag) Len() int { return len(b.items) }

// Count returns how many diagnostics are at least sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool { return b.Count(SevError) > 0 }

func (b *Bag) HasWarnings() bool { return b.Count(SevWarning) > 0 }

// Items aliases the bag's storage; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends all of other, raising the limit when it would overflow.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > int(b.max) {
		b.max = clampLimit(total)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, path, severity descending, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Path, y.Primary.Path),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Transform rewrites every diagnostic in place.
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}
