// Package scan holds the contracts between the analyzer and the syntactic
// scanners, and dispatches files to the scanner of their document type.
//
// Scanners turn the text of one file into a model.ScannedDocument. They do
// not link anything: references stay by identifier and import targets are
// recorded as package-relative URLs. A file that cannot be parsed at all is
// reported as a *diag.WarningCarryingError so the analyzer can keep going
// with the rest of the package.
package scan

import (
	"context"
	"fmt"
	"path"
	"strings"

	"plexus/internal/diag"
	"plexus/internal/model"
	"plexus/internal/source"
)

// Resolver turns an href written inside base into a package-relative URL.
type Resolver interface {
	ResolveFrom(base, href string) (string, bool)
}

// Request is one unit of scanning work.
type Request struct {
	URL  string
	Text []byte
	// Offset is set when Text is embedded in another document.
	Offset *source.LocationOffset
}

// Inline reports whether the request scans an embedded document.
func (r Request) Inline() bool { return r.Offset != nil }

// Scanner scans one document type.
type Scanner interface {
	Scan(ctx context.Context, req Request) (*model.ScannedDocument, error)
}

// Registry dispatches requests by document kind. Scanners that embed other
// document types (markup with inline scripts) call back into it.
type Registry struct {
	resolver Resolver
	byKind   map[model.FeatureKind]Scanner
}

// NewRegistry creates an empty registry resolving hrefs with resolver.
func NewRegistry(resolver Resolver) *Registry {
	return &Registry{resolver: resolver, byKind: make(map[model.FeatureKind]Scanner, 3)}
}

// Register installs s for documents of kind.
func (r *Registry) Register(kind model.FeatureKind, s Scanner) {
	r.byKind[kind] = s
}

// Resolver returns the href resolver shared by all scanners.
func (r *Registry) Resolver() Resolver { return r.resolver }

// KindForURL picks the document kind from the file extension.
func KindForURL(url string) (model.FeatureKind, bool) {
	switch strings.ToLower(path.Ext(url)) {
	case ".html", ".htm":
		return model.KindHTMLDocument, true
	case ".js", ".mjs":
		return model.KindJSDocument, true
	case ".css":
		return model.KindCSSDocument, true
	default:
		return model.KindNone, false
	}
}

// Scan scans a whole file.
func (r *Registry) Scan(ctx context.Context, url string, text []byte) (*model.ScannedDocument, error) {
	kind, ok := KindForURL(url)
	if !ok {
		return nil, unsupported(url)
	}
	return r.ScanKind(ctx, kind, Request{URL: url, Text: text})
}

// ScanKind scans req with the scanner registered for kind.
func (r *Registry) ScanKind(ctx context.Context, kind model.FeatureKind, req Request) (*model.ScannedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := r.byKind[kind]
	if !ok {
		return nil, unsupported(req.URL)
	}
	doc, err := s.Scan(ctx, req)
	if err != nil {
		return nil, err
	}
	doc.Kind = kind
	doc.IsInline = req.Inline()
	return doc, nil
}

// Has reports whether a scanner for kind is registered.
func (r *Registry) Has(kind model.FeatureKind) bool {
	_, ok := r.byKind[kind]
	return ok
}

func unsupported(url string) error {
	rng := source.Range{File: url}
	w := diag.NewWarning(diag.CouldNotLoad, rng, fmt.Sprintf("No scanner for %s", url))
	return diag.NewWarningCarryingError(w, nil)
}
