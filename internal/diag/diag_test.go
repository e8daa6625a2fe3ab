package diag

import (
	"errors"
	"fmt"
	"testing"

	"plexus/internal/source"
)

func rng(file string, line uint32) source.Range {
	return source.Range{File: file, Start: source.Position{Line: line}, End: source.Position{Line: line, Column: 3}}
}

func TestNewPanicsWithoutRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for warning without source range")
		}
	}()
	New(SevWarning, UnknownSuperclass, source.Range{}, "boom")
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(OverridingPrivate, rng("b.js", 1), "second file"))
	bag.Add(NewInfo(ParseError, rng("a.js", 4), "info"))
	bag.Add(NewError(UnknownSuperclass, rng("a.js", 4), "error"))
	bag.Add(NewError(UnknownSuperclass, rng("a.js", 4), "error"))

	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("after dedup len = %d, want 3", bag.Len())
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Severity != SevError || items[1].Severity != SevInfo {
		t.Fatalf("same range must sort by severity desc, got %v", items)
	}
	if items[2].SourceRange.File != "b.js" {
		t.Fatalf("expected b.js last, got %v", items[2])
	}
	if !bag.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(NewInfo(ParseError, rng("a.js", 0), "one")) {
		t.Fatalf("first add must succeed")
	}
	if bag.Add(NewInfo(ParseError, rng("a.js", 1), "two")) {
		t.Fatalf("second add must hit the limit")
	}
}

func TestBagFilter(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewInfo(ParseError, rng("a.js", 0), "info"))
	bag.Add(NewWarning(OverridingPrivate, rng("a.js", 1), "warn"))
	bag.Filter(func(w Warning) bool { return w.Severity >= SevWarning })
	if bag.Len() != 1 || bag.Items()[0].Code != OverridingPrivate {
		t.Fatalf("filter kept %v", bag.Items())
	}
}

func TestWarningCarryingError(t *testing.T) {
	w := NewError(ParseError, rng("broken.html", 2), "unexpected end of input")
	cause := errors.New("eof")
	err := fmt.Errorf("scan: %w", NewWarningCarryingError(w, cause))

	got, ok := AsWarning(err)
	if !ok {
		t.Fatalf("expected carried warning")
	}
	if got != w {
		t.Fatalf("carried warning = %v, want %v", got, w)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected error chain to include cause")
	}
	if _, ok := AsWarning(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no warning")
	}
}

func TestDedupReporter(t *testing.T) {
	var out []Warning
	r := NewDedupReporter(SliceReporter{Items: &out})
	w := NewWarning(OverridingPrivate, rng("a.js", 0), "x")
	r.Report(w)
	r.Report(w)
	if len(out) != 1 {
		t.Fatalf("reported %d warnings, want 1", len(out))
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"info": SevInfo, "WARNING": SevWarning, "error": SevError} {
		got, err := ParseSeverity(in)
		if err != nil || got != want {
			t.Fatalf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}
