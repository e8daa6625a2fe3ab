package diag

// Reporter — минимальный контракт получения предупреждений.
// Реализации: SliceReporter, DedupReporter.
type Reporter interface {
	Report(w Warning)
}

// SliceReporter appends warnings to a slice owned by the caller.
type SliceReporter struct{ Items *[]Warning }

func (r SliceReporter) Report(w Warning) {
	if r.Items == nil {
		return
	}
	*r.Items = append(*r.Items, w)
}
