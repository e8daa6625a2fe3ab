package diag

import (
	"sort"
)

type Bag struct {
	items []Warning
	max   int
}

// NewBag creates a bag holding at most max warnings (0 = unlimited).
func NewBag(max int) *Bag {
	capacity := max
	if capacity <= 0 || capacity > 64 {
		capacity = 64
	}
	return &Bag{
		items: make([]Warning, 0, capacity),
		max:   max,
	}
}

// Add добавляет предупреждение, учитывая лимит.
// Возвращает false, если лимит достигнут.
func (b *Bag) Add(w Warning) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, w)
	return true
}

// AddAll adds warnings until the limit is hit.
func (b *Bag) AddAll(ws []Warning) {
	for _, w := range ws {
		if !b.Add(w) {
			return
		}
	}
}

// HasErrors возвращает true, если есть хотя бы одно предупреждение с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одно предупреждение с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the internal slice. Do not modify it.
func (b *Bag) Items() []Warning {
	return b.items
}

// Merge appends all warnings from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Filter keeps only the warnings for which keep returns true.
func (b *Bag) Filter(keep func(Warning) bool) {
	out := b.items[:0]
	for _, w := range b.items {
		if keep(w) {
			out = append(out, w)
		}
	}
	b.items = out
}

// Transform rewrites every warning in place.
func (b *Bag) Transform(fn func(Warning) Warning) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}

// Sort orders warnings by file, start, end, severity (desc), code (asc)
// for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		wi, wj := b.items[i], b.items[j]
		if c := wi.SourceRange.Compare(wj.SourceRange); c != 0 {
			return c < 0
		}
		if wi.Severity != wj.Severity {
			return wi.Severity > wj.Severity
		}
		if wi.Code != wj.Code {
			return wi.Code < wj.Code
		}
		return wi.Message < wj.Message
	})
}

// Dedup drops repeated warnings (same code, severity, range and message).
func (b *Bag) Dedup() {
	b.items = Dedup(b.items)
}
