package model

import "testing"

func TestKindVocabulary(t *testing.T) {
	m := FeatureKindMap()
	if len(m) != int(kindCount)-1 {
		t.Fatalf("vocabulary size: got %d, want %d", len(m), kindCount-1)
	}
	for tag, k := range m {
		got, ok := ParseKind(tag)
		if !ok || got != k {
			t.Fatalf("ParseKind(%q): got %v/%v, want %v", tag, got, ok, k)
		}
		if k.String() != tag {
			t.Fatalf("%v.String(): got %q, want %q", k, k.String(), tag)
		}
	}
	if _, ok := ParseKind("widget"); ok {
		t.Fatalf("ParseKind accepted an unknown tag")
	}
}

func TestKindSet(t *testing.T) {
	s := Kinds(KindClass, KindElement, KindPolymerElement)
	for _, k := range []FeatureKind{KindClass, KindElement, KindPolymerElement} {
		if !s.Has(k) {
			t.Fatalf("set %s misses %s", s, k)
		}
	}
	if s.Has(KindBehavior) {
		t.Fatalf("set %s has behavior", s)
	}
	if got := len(s.Slice()); got != 3 {
		t.Fatalf("Slice: got %d kinds, want 3", got)
	}
	if Kinds(KindNone) != 0 {
		t.Fatalf("KindNone must not be a member")
	}
}

func TestIsExternal(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"bower_components/polymer/polymer.html", true},
		{"src/node_modules/lit/index.js", true},
		{"src/my-node_modules.html", false},
		{"index.html", false},
	}
	for _, tt := range tests {
		if got := IsExternal(tt.url); got != tt.want {
			t.Fatalf("IsExternal(%q): got %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestQueryCacheable(t *testing.T) {
	tests := []struct {
		q    Query
		want bool
	}{
		{Query{Imported: true}, true},
		{Query{Imported: true, ExternalPackages: true}, true},
		{Query{}, false},
		{Query{Imported: true, NoLazyImports: true}, false},
		{Query{Imported: true, ExcludeBackreferences: true}, false},
	}
	for _, tt := range tests {
		if got := tt.q.cacheable(); got != tt.want {
			t.Fatalf("%+v.cacheable(): got %v, want %v", tt.q, got, tt.want)
		}
	}
}
