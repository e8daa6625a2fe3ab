package model

import (
	"fmt"
	"sort"
	"testing"

	"plexus/internal/diag"
	"plexus/internal/source"
)

func rng(file string, line uint32) source.Range {
	return source.Range{
		File:  file,
		Start: source.Position{Line: line},
		End:   source.Position{Line: line, Column: 10},
	}
}

// fakeSource serves scanned documents from memory and creates each
// Document once.
type fakeSource struct {
	scanned map[string]*ScannedDocument
	docs    map[string]*Document
	failed  map[string]diag.Warning
}

func newFakeSource(docs ...*ScannedDocument) *fakeSource {
	s := &fakeSource{
		scanned: make(map[string]*ScannedDocument),
		docs:    make(map[string]*Document),
		failed:  make(map[string]diag.Warning),
	}
	for _, d := range docs {
		s.scanned[d.URL] = d
	}
	return s
}

func (s *fakeSource) Document(url string) (*Document, error) {
	if w, ok := s.failed[url]; ok {
		return nil, diag.NewWarningCarryingError(w, nil)
	}
	if d, ok := s.docs[url]; ok {
		return d, nil
	}
	sd, ok := s.scanned[url]
	if !ok {
		return nil, fmt.Errorf("no such file %s", url)
	}
	d := NewDocument(sd, s)
	s.docs[url] = d
	return d, nil
}

func (s *fakeSource) fail(url, msg string) {
	s.failed[url] = diag.NewError(diag.ParseError, source.Range{File: url}, msg)
}

func (s *fakeSource) doc(t *testing.T, url string) *Document {
	t.Helper()
	d, err := s.Document(url)
	if err != nil {
		t.Fatalf("Document(%s): %v", url, err)
	}
	return d
}

// resolved returns the resolved document for url.
func (s *fakeSource) resolved(t *testing.T, url string) *Document {
	t.Helper()
	d := s.doc(t, url)
	if !d.Resolved() {
		d.Resolve()
	}
	return d
}

// outcomes resolves every known document and wraps them for NewAnalysis.
func (s *fakeSource) outcomes(t *testing.T) map[string]Outcome {
	t.Helper()
	out := make(map[string]Outcome)
	for url := range s.scanned {
		out[url] = Outcome{Document: s.resolved(t, url)}
	}
	for url, w := range s.failed {
		w := w
		out[url] = Outcome{Warning: &w}
	}
	return out
}

func htmlDoc(url string, fs ...ScannedFeature) *ScannedDocument {
	return &ScannedDocument{URL: url, Kind: KindHTMLDocument, Features: fs}
}

func jsDoc(url string, fs ...ScannedFeature) *ScannedDocument {
	return &ScannedDocument{URL: url, Kind: KindJSDocument, Features: fs}
}

func importOf(from, to string) *ScannedImport {
	return &ScannedImport{
		ScannedBase: ScannedBase{Range: rng(from, 0)},
		URL:         to,
		OriginalURL: to,
		Type:        KindHTMLImport,
	}
}

func lazyImportOf(from, to string) *ScannedImport {
	imp := importOf(from, to)
	imp.Lazy = true
	return imp
}

func inline(container string, line uint32, doc *ScannedDocument) *ScannedInlineDocument {
	doc.IsInline = true
	doc.SourceRange = source.Range{
		File:  container,
		Start: source.Position{Line: line},
		End:   source.Position{Line: line + 5},
	}
	doc.LocationOffset = &source.LocationOffset{Line: line, Filename: container}
	return &ScannedInlineDocument{ScannedBase: ScannedBase{Range: doc.SourceRange}, Document: doc}
}

func classDecl(file string, line uint32, variant ClassVariant, name string) *ScannedClass {
	return &ScannedClass{
		ScannedBase: ScannedBase{Range: rng(file, line)},
		Variant:     variant,
		Name:        name,
	}
}

func element(file string, line uint32, name, tag string) *ScannedClass {
	c := classDecl(file, line, VariantElement, name)
	c.TagName = tag
	return c
}

func (c *ScannedClass) extends(name string) *ScannedClass {
	c.SuperClass = NewScannedReference(name, RoleSuperclass, c.Range)
	return c
}

func (c *ScannedClass) mixes(names ...string) *ScannedClass {
	for _, n := range names {
		c.Mixins = append(c.Mixins, NewScannedReference(n, RoleMixin, c.Range))
	}
	return c
}

func (c *ScannedClass) behaviors(names ...string) *ScannedClass {
	if c.Polymer == nil {
		c.Polymer = &ScannedPolymer{}
	}
	for _, n := range names {
		c.Polymer.Behaviors = append(c.Polymer.Behaviors, NewScannedReference(n, RoleBehavior, c.Range))
	}
	return c
}

func (c *ScannedClass) withProps(props ...Property) *ScannedClass {
	c.Properties = append(c.Properties, props...)
	return c
}

func (c *ScannedClass) withMethods(methods ...Method) *ScannedClass {
	c.Methods = append(c.Methods, methods...)
	return c
}

func identifiers(fs []Feature) []string {
	var ids []string
	for _, f := range fs {
		ids = append(ids, f.Identifiers()...)
	}
	sort.Strings(ids)
	return ids
}

func codes(ws []diag.Warning) []diag.Code {
	out := make([]diag.Code, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

func countCode(ws []diag.Warning, code diag.Code) int {
	n := 0
	for _, w := range ws {
		if w.Code == code {
			n++
		}
	}
	return n
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}

func onlyClass[T ClassLike](t *testing.T, q Queryable, id string) T {
	t.Helper()
	var zero T
	got := FeaturesOf[T](q, Query{ID: id, Imported: true, ExternalPackages: true})
	if len(got) != 1 {
		t.Fatalf("features %q: got %d, want 1", id, len(got))
		return zero
	}
	return got[0]
}
