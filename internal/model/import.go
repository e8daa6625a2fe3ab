package model

import (
	"fmt"

	"plexus/internal/diag"
)

// ScannedImport is an import statement or link found by a scanner.
type ScannedImport struct {
	ScannedBase
	// URL is the resolved target; empty when the scanner could not resolve it.
	URL         string
	OriginalURL string
	// Type is KindHTMLImport, KindJSImport or KindCSSImport.
	Type FeatureKind
	Lazy bool
}

// Import links a document to the document it imports. Document is nil when
// the target could not be loaded.
type Import struct {
	featureBase
	URL         string
	OriginalURL string
	Type        FeatureKind
	Lazy        bool
	Document    *Document
}

func (s *ScannedImport) Resolve(doc *Document) Feature {
	imp := &Import{
		URL:         s.URL,
		OriginalURL: s.OriginalURL,
		Type:        s.Type,
		Lazy:        s.Lazy,
	}
	imp.kinds = Kinds(KindImport, s.Type)
	if s.Lazy {
		imp.kinds = imp.kinds.With(KindLazyImport)
	}
	imp.addIdentifier(s.URL)
	imp.sourceRange = s.Range
	imp.astNode = s.Node
	imp.addWarning(s.Warns...)

	rng := s.Range
	if rng.IsZero() {
		rng = doc.fallbackRange()
	}
	if s.URL == "" {
		imp.addWarning(diag.NewWarning(diag.CouldNotLoad, rng,
			fmt.Sprintf("Unable to resolve import of %q", s.OriginalURL)))
		return imp
	}
	target, err := doc.dependency(s.URL)
	if err != nil {
		msg := err.Error()
		if w, ok := diag.AsWarning(err); ok {
			msg = w.Message
		}
		imp.addWarning(diag.NewError(diag.CouldNotLoad, rng, "Unable to load import: "+msg))
		return imp
	}
	imp.Document = target
	return imp
}

func (i *Import) String() string {
	return fmt.Sprintf("Import(%s -> %s)", i.Type, i.URL)
}
