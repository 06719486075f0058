package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"

	"attrlex/internal/source"
)

// Bag collects diagnostics of one run up to a limit. Diagnostics over the
// limit are counted, not stored.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

// NewBag создаёт Bag с лимитом max; max <= 0 или больше uint16 — максимальный лимит.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil || limit == 0 {
		limit = math.MaxUint16
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add stores d unless the limit is reached. It reports whether d was stored.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force stores d even when the bag is full (timings, merged results).
func (b *Bag) Force(d Diagnostic) {
	if len(b.items) >= int(b.max) && b.max < math.MaxUint16 {
		b.max++
	}
	b.items = append(b.items, d)
}

// Dropped returns how many diagnostics Add rejected because of the limit.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) HasErrors() bool { return b.has(SevError) }

func (b *Bag) HasWarnings() bool { return b.has(SevWarning) }

func (b *Bag) has(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез, менять его нельзя.
func (b *Bag) Items() []Diagnostic { return b.items }

// Count returns the number of diagnostics with the given code.
func (b *Bag) Count(code Code) int {
	n := 0
	for i := range b.items {
		if b.items[i].Code == code {
			n++
		}
	}
	return n
}

// Merge appends everything from other, ignoring the limit; other's dropped
// count carries over.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Force(d)
	}
	b.dropped += other.dropped
}

// Sort orders by file, start, end, severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic per code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
