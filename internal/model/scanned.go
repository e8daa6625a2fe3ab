package model

import (
	"plexus/internal/diag"
	"plexus/internal/source"
)

// ScannedFeature is the file-local, not yet linked output of a scanner.
type ScannedFeature interface {
	SourceRange() source.Range
	Warnings() []diag.Warning
	AstNode() any
}

// Resolvable scanned features turn themselves into a Feature of doc.
// Resolve returns nil when nothing should be added; problems are recorded
// as warnings instead of being returned.
type Resolvable interface {
	ScannedFeature
	Resolve(doc *Document) Feature
}

// ScannedBase carries the fields every scanned feature has. Scanners embed it.
type ScannedBase struct {
	Description string
	Range       source.Range
	Node        any
	Warns       []diag.Warning
}

func (s *ScannedBase) SourceRange() source.Range { return s.Range }
func (s *ScannedBase) Warnings() []diag.Warning  { return s.Warns }
func (s *ScannedBase) AstNode() any              { return s.Node }

// AddWarning records a scanner-level problem on the feature.
func (s *ScannedBase) AddWarning(w diag.Warning) {
	s.Warns = append(s.Warns, w)
}

// ScannedDocument is the bag of scanned features for one logical document.
type ScannedDocument struct {
	URL      string
	Kind     FeatureKind // KindHTMLDocument, KindJSDocument or KindCSSDocument
	Features []ScannedFeature
	Warnings []diag.Warning
	IsInline bool
	// SourceRange covers the document inside its file (for inline documents,
	// the region of the containing file).
	SourceRange source.Range
	// LocationOffset is set for inline documents.
	LocationOffset *source.LocationOffset
	// Imports lists the resolved URLs this document depends on, including
	// those of nested inline documents. Used by the analyzer to load
	// dependencies before resolution.
	Imports []ScannedDependency
}

// ScannedDependency is one edge of the import graph as seen by a scanner.
type ScannedDependency struct {
	URL  string
	Lazy bool
}

// ScannedInlineDocument is a document nested in another one, for example a
// script element inside markup.
type ScannedInlineDocument struct {
	ScannedBase
	Document *ScannedDocument
}

// Resolve creates the nested Document. The container links it once all of
// the container's own features have been declared.
func (s *ScannedInlineDocument) Resolve(container *Document) Feature {
	if s.Document == nil {
		return nil
	}
	return container.declareInline(s.Document)
}
