package model

import (
	"regexp"

	"golang.org/x/text/unicode/norm"

	"plexus/internal/diag"
)

// Query narrows GetFeatures/GetWarnings.
type Query struct {
	// Kind restricts results to features of this kind (KindNone = any).
	Kind FeatureKind
	// ID restricts results to features declaring this identifier.
	ID string
	// Imported follows import features into the imported documents.
	Imported bool
	// ExternalPackages includes documents under dependency directories.
	ExternalPackages bool
	// NoLazyImports skips imports flagged lazy.
	NoLazyImports bool
	// ExcludeBackreferences skips the containing document of inline documents.
	ExcludeBackreferences bool
}

// cacheable reports whether the result set is stable enough to be served
// from a document's indexes.
func (q Query) cacheable() bool {
	return q.Imported && !q.NoLazyImports && !q.ExcludeBackreferences
}

// Queryable is implemented by Document and Analysis.
type Queryable interface {
	GetFeatures(q Query) []Feature
	GetWarnings(q Query) []diag.Warning
}

// FeaturesOf returns the features of src matching q that have concrete type T.
func FeaturesOf[T Feature](src Queryable, q Query) []T {
	all := src.GetFeatures(q)
	out := make([]T, 0, len(all))
	for _, f := range all {
		if typed, ok := f.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

var externalPathRE = regexp.MustCompile(`(^|/)(bower_components|node_modules)/`)

// IsExternal reports whether url points into a dependency directory.
func IsExternal(url string) bool {
	return externalPathRE.MatchString(url)
}

func normalizeID(id string) string {
	return norm.NFC.String(id)
}

func filterExternal(fs []Feature) []Feature {
	out := fs[:0:0]
	for _, f := range fs {
		if r := f.SourceRange(); !r.IsZero() && IsExternal(r.File) {
			continue
		}
		out = append(out, f)
	}
	return out
}
