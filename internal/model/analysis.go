package model

import (
	"sort"

	"github.com/google/uuid"

	"plexus/internal/diag"
	"plexus/internal/source"
)

// Outcome is the result of loading one URL: a document, or the warning
// explaining why there is none.
type Outcome struct {
	Document *Document
	Warning  *diag.Warning
}

// URLResolver maps package-relative URLs onto the URLs documents are keyed by.
type URLResolver interface {
	Resolve(url string) (string, bool)
}

// Analysis is an immutable snapshot over the documents of a package.
type Analysis struct {
	// Generation identifies the snapshot.
	Generation uuid.UUID

	results  map[string]Outcome
	resolver URLResolver
	roots    []*Document
	failures []diag.Warning
}

// NewAnalysis indexes every resolved document of results and computes the
// root set. resolver may be nil.
func NewAnalysis(results map[string]Outcome, resolver URLResolver) *Analysis {
	a := &Analysis{
		Generation: uuid.New(),
		results:    make(map[string]Outcome, len(results)),
		resolver:   resolver,
	}
	urls := make([]string, 0, len(results))
	for url, out := range results {
		a.results[url] = out
		urls = append(urls, url)
	}
	sort.Strings(urls)

	var docs []*Document
	for _, url := range urls {
		out := a.results[url]
		if out.Warning != nil {
			a.failures = append(a.failures, *out.Warning)
			continue
		}
		if out.Document == nil {
			continue
		}
		if !out.Document.Resolved() {
			out.Document.Resolve()
		}
		if !out.Document.Indexed() {
			out.Document.BuildIndexes()
		}
		docs = append(docs, out.Document)
	}
	a.roots = computeRoots(docs)
	return a
}

// computeRoots returns the smallest set of documents from which every
// document in docs is reachable through imports. Inside an import cycle the
// first document in docs order represents the cycle.
func computeRoots(docs []*Document) []*Document {
	covered := make(map[*Document]struct{}, len(docs))
	isRoot := make(map[*Document]bool, len(docs))
	var order []*Document
	for _, doc := range docs {
		if _, ok := covered[doc]; ok {
			continue
		}
		covered[doc] = struct{}{}
		for _, imp := range FeaturesOf[*Import](doc, Query{Kind: KindImport, Imported: true, ExternalPackages: true}) {
			target := imp.Document
			if target == nil || target == doc {
				continue
			}
			covered[target] = struct{}{}
			isRoot[target] = false
		}
		isRoot[doc] = true
		order = append(order, doc)
	}
	roots := order[:0]
	for _, doc := range order {
		if isRoot[doc] {
			roots = append(roots, doc)
		}
	}
	return roots
}

// Roots returns the root documents in URL order.
func (a *Analysis) Roots() []*Document {
	return append([]*Document(nil), a.roots...)
}

// URLs lists every URL of the snapshot, failed ones included.
func (a *Analysis) URLs() []string {
	urls := make([]string, 0, len(a.results))
	for url := range a.results {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

// Outcome returns the raw result stored for url.
func (a *Analysis) Outcome(url string) (Outcome, bool) {
	out, ok := a.results[url]
	return out, ok
}

// GetFeatures queries the whole package. Imports are always followed.
func (a *Analysis) GetFeatures(q Query) []Feature {
	q.Imported = true
	out := newFeatureSet()
	for _, doc := range a.roots {
		out.addAll(doc.GetFeatures(q))
	}
	return out.items
}

// GetWarnings returns load failures plus the warnings of every document
// and feature matching q.
func (a *Analysis) GetWarnings(q Query) []diag.Warning {
	q.Imported = true
	var ws []diag.Warning
	r := diag.NewDedupReporter(diag.SliceReporter{Items: &ws})
	for _, w := range a.failures {
		r.Report(w)
	}
	for _, doc := range a.roots {
		doc.reportWarnings(q, r)
	}
	return ws
}

// DocumentStatus tags the result of GetDocument.
type DocumentStatus uint8

const (
	DocFound DocumentStatus = iota
	// DocNotPackageFile: the URL does not belong to the package or was never
	// analyzed.
	DocNotPackageFile
	// DocFailed: the file exists but could not be loaded or scanned.
	DocFailed
)

func (s DocumentStatus) String() string {
	switch s {
	case DocFound:
		return "found"
	case DocFailed:
		return "failed"
	default:
		return "not-package-file"
	}
}

// DocumentResult is returned by GetDocument. Warning is set for DocFailed.
type DocumentResult struct {
	Status   DocumentStatus
	Document *Document
	Warning  *diag.Warning
}

// GetDocument finds the document for a package-relative url.
func (a *Analysis) GetDocument(url string) DocumentResult {
	resolved := url
	if a.resolver != nil {
		r, ok := a.resolver.Resolve(url)
		if !ok {
			return DocumentResult{Status: DocNotPackageFile}
		}
		resolved = r
	}
	if out, ok := a.results[resolved]; ok {
		if out.Warning != nil {
			return DocumentResult{Status: DocFailed, Warning: out.Warning}
		}
		if out.Document != nil {
			return DocumentResult{Status: DocFound, Document: out.Document}
		}
	}
	var matches []*Document
	for _, doc := range FeaturesOf[*Document](a, Query{Kind: KindDocument, ID: resolved, ExternalPackages: true}) {
		if !doc.IsInline() {
			matches = append(matches, doc)
		}
	}
	if len(matches) != 1 {
		return DocumentResult{Status: DocNotPackageFile}
	}
	return DocumentResult{Status: DocFound, Document: matches[0]}
}

// GetDocumentContaining returns the most deeply nested document that
// contains the start of r, or nil when r.File is unknown.
func (a *Analysis) GetDocumentContaining(r source.Range) *Document {
	res := a.GetDocument(r.File)
	if res.Status != DocFound {
		return nil
	}
	return innermost(res.Document, r)
}

func innermost(doc *Document, r source.Range) *Document {
	for _, f := range doc.local.items {
		child, ok := f.(*Document)
		if !ok || child.container != doc {
			continue
		}
		rng := child.scanned.SourceRange
		if !rng.IsZero() && rng.File == r.File && rng.ContainsPosition(r.Start) {
			return innermost(child, r)
		}
	}
	return doc
}
