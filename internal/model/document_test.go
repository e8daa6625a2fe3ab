package model

import (
	"reflect"
	"strings"
	"testing"

	"plexus/internal/diag"
)

func TestResolveTwicePanics(t *testing.T) {
	src := newFakeSource(htmlDoc("a.html", classDecl("a.html", 1, VariantClass, "A")))
	d := src.resolved(t, "a.html")
	expectPanic(t, "second Resolve", d.Resolve)
}

func TestAddFeatureAfterResolutionPanics(t *testing.T) {
	src := newFakeSource(htmlDoc("a.html"))
	d := src.resolved(t, "a.html")
	expectPanic(t, "addFeature", func() {
		d.addFeature(&Namespace{Name: "late"})
	})
}

func TestCyclicImportsResolveBothDocuments(t *testing.T) {
	src := newFakeSource(
		htmlDoc("a.html", importOf("a.html", "b.html"), classDecl("a.html", 2, VariantClass, "A")),
		htmlDoc("b.html", importOf("b.html", "a.html"), classDecl("b.html", 2, VariantClass, "B")),
	)
	a := src.resolved(t, "a.html")
	b := src.doc(t, "b.html")
	if !b.Resolved() {
		t.Fatalf("b.html not resolved through the import cycle")
	}
	for _, d := range []*Document{a, b} {
		got := identifiers(d.GetFeatures(Query{Kind: KindClass, Imported: true}))
		if want := []string{"A", "B"}; !reflect.DeepEqual(got, want) {
			t.Fatalf("%s classes: got %v, want %v", d.URL(), got, want)
		}
	}
	expectPanic(t, "resolve b.html again", b.Resolve)
}

func TestForwardReferenceInsideImportCycle(t *testing.T) {
	// b.html links against Base which a.html declares after importing b.html.
	src := newFakeSource(
		htmlDoc("a.html",
			importOf("a.html", "b.html"),
			classDecl("a.html", 3, VariantClass, "Base").withProps(Property{Name: "p"})),
		htmlDoc("b.html",
			importOf("b.html", "a.html"),
			classDecl("b.html", 3, VariantClass, "Sub").extends("Base")),
	)
	a := src.resolved(t, "a.html")
	sub := onlyClass[*Class](t, a, "Sub")
	if n := len(sub.Warnings()); n != 0 {
		t.Fatalf("Sub warnings: got %v, want none", sub.Warnings())
	}
	p, ok := sub.Properties.Get("p")
	if !ok || p.InheritedFrom != "Base" {
		t.Fatalf("Sub.p: got %+v (found=%v), want inherited from Base", p, ok)
	}
}

func TestImportQueries(t *testing.T) {
	src := newFakeSource(
		htmlDoc("index.html",
			importOf("index.html", "b.html"),
			lazyImportOf("index.html", "lazy.html"),
			importOf("index.html", "bower_components/ext/ext.html"),
			inline("index.html", 10, jsDoc("index.html", element("index.html", 11, "InlineEl", "x-inline"))),
			element("index.html", 20, "IndexEl", "x-index"),
		),
		htmlDoc("b.html", element("b.html", 1, "BEl", "x-b")),
		htmlDoc("lazy.html", element("lazy.html", 1, "LazyEl", "x-lazy")),
		htmlDoc("bower_components/ext/ext.html",
			importOf("bower_components/ext/ext.html", "shared.html"),
			element("bower_components/ext/ext.html", 1, "ExtEl", "x-ext")),
		htmlDoc("shared.html", element("shared.html", 1, "SharedEl", "x-shared")),
	)
	d := src.resolved(t, "index.html")

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"local", Query{Kind: KindElement},
			[]string{"IndexEl", "InlineEl", "x-index", "x-inline"}},
		{"imported", Query{Kind: KindElement, Imported: true},
			[]string{"BEl", "IndexEl", "InlineEl", "LazyEl", "SharedEl", "x-b", "x-index", "x-inline", "x-lazy", "x-shared"}},
		{"no lazy", Query{Kind: KindElement, Imported: true, NoLazyImports: true},
			[]string{"BEl", "IndexEl", "InlineEl", "SharedEl", "x-b", "x-index", "x-inline", "x-shared"}},
		{"external", Query{Kind: KindElement, Imported: true, ExternalPackages: true},
			[]string{"BEl", "ExtEl", "IndexEl", "InlineEl", "LazyEl", "SharedEl", "x-b", "x-ext", "x-index", "x-inline", "x-lazy", "x-shared"}},
		{"by id", Query{Kind: KindElement, ID: "x-b", Imported: true},
			[]string{"BEl", "x-b"}},
		{"by id external hidden", Query{Kind: KindElement, ID: "x-ext", Imported: true},
			nil},
	}

	run := func(phase string) {
		for _, tt := range tests {
			got := identifiers(d.GetFeatures(tt.q))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("%s/%s: got %v, want %v", phase, tt.name, got, tt.want)
			}
		}
	}
	run("slow")
	d.BuildIndexes()
	run("indexed")
}

func TestIndexBuildGuards(t *testing.T) {
	src := newFakeSource(htmlDoc("a.html"))
	d := src.doc(t, "a.html")
	expectPanic(t, "index before resolve", d.BuildIndexes)
	d.Resolve()
	d.BuildIndexes()
	expectPanic(t, "index twice", d.BuildIndexes)
}

func TestDocumentFeatureAndBackreference(t *testing.T) {
	src := newFakeSource(
		htmlDoc("index.html",
			element("index.html", 1, "Outer", "x-outer"),
			inline("index.html", 10, jsDoc("index.html", element("index.html", 11, "Inner", "x-inner"))),
		),
	)
	d := src.resolved(t, "index.html")
	docs := FeaturesOf[*Document](d, Query{Kind: KindInlineDocument})
	if len(docs) != 1 {
		t.Fatalf("inline documents: got %d, want 1", len(docs))
	}
	child := docs[0]
	if child.Container() != d {
		t.Fatalf("inline container: got %v, want %v", child.Container(), d)
	}
	if !child.Kinds().Has(KindJSDocument) || !child.Kinds().Has(KindDocument) {
		t.Fatalf("inline kinds: got %s", child.Kinds())
	}

	got := identifiers(child.GetFeatures(Query{Kind: KindElement}))
	if want := []string{"Inner", "Outer", "x-inner", "x-outer"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("with backreferences: got %v, want %v", got, want)
	}
	got = identifiers(child.GetFeatures(Query{Kind: KindElement, ExcludeBackreferences: true}))
	if want := []string{"Inner", "x-inner"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("without backreferences: got %v, want %v", got, want)
	}
}

func TestImportOfMissingAndFailedDocuments(t *testing.T) {
	src := newFakeSource(
		htmlDoc("index.html",
			importOf("index.html", "missing.html"),
			importOf("index.html", "broken.html"),
		),
	)
	src.fail("broken.html", "unexpected token")
	d := src.resolved(t, "index.html")

	ws := d.GetWarnings(Query{Imported: true})
	if n := countCode(ws, diag.CouldNotLoad); n != 2 {
		t.Fatalf("could-not-load warnings: got %d (%v), want 2", n, codes(ws))
	}
	var sawCarried bool
	for _, w := range ws {
		if w.Severity != diag.SevError {
			t.Fatalf("import warning severity: got %s, want error", w.Severity)
		}
		if strings.Contains(w.Message, "unexpected token") {
			sawCarried = true
		}
	}
	if !sawCarried {
		t.Fatalf("failed import warning does not carry the parse failure: %v", ws)
	}
	for _, imp := range FeaturesOf[*Import](d, Query{Kind: KindImport}) {
		if imp.Document != nil {
			t.Fatalf("import of %s: got a document, want none", imp.URL)
		}
	}
}

func TestGetWarningsDeduplicates(t *testing.T) {
	w := diag.NewWarning(diag.ParseError, rng("a.html", 1), "odd markup")
	sd := htmlDoc("a.html", &ScannedNamespace{ScannedBase: ScannedBase{Range: rng("a.html", 1), Warns: []diag.Warning{w}}, Name: "NS"})
	sd.Warnings = []diag.Warning{w}
	d := newFakeSource(sd).resolved(t, "a.html")
	if got := d.GetWarnings(Query{}); len(got) != 1 {
		t.Fatalf("warnings: got %v, want exactly one", got)
	}
}

func TestIdentifierLookupIsNormalized(t *testing.T) {
	src := newFakeSource(htmlDoc("a.html", classDecl("a.html", 1, VariantClass, "Cafe\u0301")))
	d := src.resolved(t, "a.html")
	got := d.GetFeatures(Query{Kind: KindClass, ID: "Caf\u00e9"})
	if len(got) != 1 {
		t.Fatalf("normalized lookup: got %d features, want 1", len(got))
	}
	d.BuildIndexes()
	got = d.GetFeatures(Query{Kind: KindClass, ID: "Caf\u00e9", Imported: true})
	if len(got) != 1 {
		t.Fatalf("normalized indexed lookup: got %d features, want 1", len(got))
	}
}
