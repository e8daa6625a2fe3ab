package model

import (
	"errors"
	"fmt"

	"plexus/internal/diag"
	"plexus/internal/source"
)

type docState uint8

const (
	docUnresolved docState = iota
	docResolving
	// docDeclared: every local feature exists, linking still pending.
	docDeclared
	docResolved
)

// DocumentSource hands out the documents of one analysis by URL. Returned
// documents may still be unresolved; the model resolves them on demand.
// A failure to load or scan is returned as *diag.WarningCarryingError.
type DocumentSource interface {
	Document(url string) (*Document, error)
}

// errNoSource is returned for imports of documents built without a source.
var errNoSource = errors.New("no document source")

// Document is the resolved content of one logical document: a file or an
// inline document nested in one.
type Document struct {
	featureBase
	url       string
	scanned   *ScannedDocument
	source    DocumentSource
	container *Document
	local     *featureSet
	state     docState
	session   *session
	index     *featureIndex
}

// session groups the documents declared during one top level Resolve call.
// They are linked together once all of them have been declared, so forward
// references across import cycles see every declaration.
type session struct {
	declared []*Document
}

// NewDocument wraps a scanned document. src resolves import targets and may
// be nil for standalone documents.
func NewDocument(scanned *ScannedDocument, src DocumentSource) *Document {
	d := &Document{
		url:     scanned.URL,
		scanned: scanned,
		source:  src,
		local:   newFeatureSet(),
	}
	d.kinds = Kinds(KindDocument, scanned.Kind)
	if scanned.IsInline {
		d.kinds = d.kinds.With(KindInlineDocument)
	}
	d.addIdentifier(scanned.URL)
	d.sourceRange = scanned.SourceRange
	if d.sourceRange.IsZero() {
		d.sourceRange = source.Range{File: scanned.URL}
	}
	d.warnings = append(d.warnings, scanned.Warnings...)
	return d
}

func newInlineDocument(scanned *ScannedDocument, container *Document) *Document {
	d := NewDocument(scanned, container.source)
	d.container = container
	d.kinds = d.kinds.With(KindInlineDocument)
	return d
}

func (d *Document) URL() string                            { return d.url }
func (d *Document) Scanned() *ScannedDocument              { return d.scanned }
func (d *Document) Container() *Document                   { return d.container }
func (d *Document) IsInline() bool                         { return d.container != nil || d.scanned.IsInline }
func (d *Document) Resolved() bool                         { return d.state == docResolved }
func (d *Document) Indexed() bool                          { return d.index != nil }
func (d *Document) LocationOffset() *source.LocationOffset { return d.scanned.LocationOffset }

// Type is KindHTMLDocument, KindJSDocument or KindCSSDocument.
func (d *Document) Type() FeatureKind { return d.scanned.Kind }

// LocalFeatures returns the features resolved by this document itself, in
// resolution order. The document itself comes first.
func (d *Document) LocalFeatures() []Feature {
	return append([]Feature(nil), d.local.items...)
}

// Resolve turns every resolvable scanned feature into a Feature of d. It is
// a one-shot operation: a second call after completion panics, a reentrant
// call through an import cycle returns immediately.
func (d *Document) Resolve() {
	switch d.state {
	case docResolved:
		panic(fmt.Sprintf("model: document %s resolved twice", d.url))
	case docResolving, docDeclared:
		return
	}
	s := &session{}
	d.declare(s)
	s.finish()
}

func (d *Document) declare(s *session) {
	d.state = docResolving
	d.session = s
	d.addFeature(d)
	if d.container != nil {
		// backreference
		d.addFeature(d.container)
	}
	for _, sf := range d.scanned.Features {
		r, ok := sf.(Resolvable)
		if !ok {
			continue
		}
		if f := r.Resolve(d); f != nil {
			d.addFeature(f)
		}
	}
	d.state = docDeclared
	s.declared = append(s.declared, d)
}

func (s *session) finish() {
	// linking may pull in features of any declared document, so all of them
	// stay declared until the whole group is linked
	for i := 0; i < len(s.declared); i++ {
		s.declared[i].link()
	}
	for _, doc := range s.declared {
		doc.state = docResolved
		doc.session = nil
	}
}

type linker interface {
	ensureLinked()
}

func (d *Document) link() {
	for _, f := range d.local.items {
		if l, ok := f.(linker); ok {
			l.ensureLinked()
		}
	}
}

// dependency returns the document behind url, declaring it within the
// current resolution when it has not been resolved yet.
func (d *Document) dependency(url string) (*Document, error) {
	if d.source == nil {
		return nil, errNoSource
	}
	target, err := d.source.Document(url)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("document %s not found", url)
	}
	if target.state == docUnresolved {
		s := d.session
		if s == nil {
			target.Resolve()
		} else {
			target.declare(s)
		}
	}
	return target, nil
}

// declareInline resolves a nested document inside d's resolution.
func (d *Document) declareInline(scanned *ScannedDocument) *Document {
	child := newInlineDocument(scanned, d)
	if d.session == nil {
		child.Resolve()
	} else {
		child.declare(d.session)
	}
	return child
}

func (d *Document) addFeature(f Feature) {
	if d.state == docResolved {
		panic(fmt.Sprintf("model: feature added to document %s after resolution", d.url))
	}
	d.local.add(f)
}

// fallbackRange locates warnings of features that carry no range.
func (d *Document) fallbackRange() source.Range {
	return d.sourceRange
}

// GetFeatures returns the features visible from d that match q.
func (d *Document) GetFeatures(q Query) []Feature {
	var result []Feature
	switch {
	case q.Kind != KindNone && q.ID != "":
		result = d.featuresByKindAndID(q)
	case q.Kind != KindNone:
		result = d.featuresByKind(q)
	case q.ID != "":
		result = filterID(d.listFeatures(q), q.ID)
	default:
		result = d.listFeatures(q)
	}
	if !q.ExternalPackages {
		result = filterExternal(result)
	}
	return result
}

// GetWarnings returns d's own warnings and those of every feature matching
// q, deduplicated.
func (d *Document) GetWarnings(q Query) []diag.Warning {
	var ws []diag.Warning
	r := diag.NewDedupReporter(diag.SliceReporter{Items: &ws})
	d.reportWarnings(q, r)
	return ws
}

// reportWarnings sends the document's own warnings and those of every
// feature q reaches to r.
func (d *Document) reportWarnings(q Query, r diag.Reporter) {
	for _, w := range d.Warnings() {
		r.Report(w)
	}
	for _, f := range d.GetFeatures(q) {
		for _, w := range f.Warnings() {
			r.Report(w)
		}
	}
}

func (d *Document) featuresByKind(q Query) []Feature {
	if d.index != nil && q.cacheable() {
		return append([]Feature(nil), d.index.byKind[q.Kind]...)
	}
	return filterKind(d.listFeatures(q), q.Kind)
}

func (d *Document) featuresByKindAndID(q Query) []Feature {
	if d.index != nil && q.cacheable() {
		return append([]Feature(nil), d.index.byKindID[kindID{q.Kind, normalizeID(q.ID)}]...)
	}
	return filterID(filterKind(d.listFeatures(q), q.Kind), q.ID)
}

// listFeatures walks the feature graph from d. Nested documents are always
// entered, imported ones only for imported queries.
func (d *Document) listFeatures(q Query) []Feature {
	out := newFeatureSet()
	d.walk(q, out, make(map[*Document]struct{}))
	return out.items
}

func (d *Document) walk(q Query, out *featureSet, visited map[*Document]struct{}) {
	if _, ok := visited[d]; ok {
		return
	}
	visited[d] = struct{}{}
	for _, f := range d.local.items {
		if q.ExcludeBackreferences && d.container != nil && f == Feature(d.container) {
			continue
		}
		out.add(f)
		switch f := f.(type) {
		case *Document:
			if f != d {
				f.walk(q, out, visited)
			}
		case *Import:
			if !q.Imported || f.Document == nil {
				continue
			}
			if q.NoLazyImports && f.Lazy {
				continue
			}
			f.Document.walk(q, out, visited)
		}
	}
}

func filterKind(fs []Feature, kind FeatureKind) []Feature {
	out := make([]Feature, 0, len(fs))
	for _, f := range fs {
		if f.Kinds().Has(kind) {
			out = append(out, f)
		}
	}
	return out
}

func filterID(fs []Feature, id string) []Feature {
	out := make([]Feature, 0, len(fs))
	for _, f := range fs {
		if HasIdentifier(f, id) {
			out = append(out, f)
		}
	}
	return out
}

// ContainsRange reports whether r lies inside the region of d.
func (d *Document) ContainsRange(r source.Range) bool {
	if d.scanned.SourceRange.IsZero() {
		return r.File == d.url
	}
	return d.scanned.SourceRange.Contains(r)
}

func (d *Document) String() string {
	return fmt.Sprintf("Document(%s)", d.url)
}
