// Package cssscan finds @import rules in stylesheets.
package cssscan

import (
	"context"
	"regexp"

	"plexus/internal/model"
	"plexus/internal/scan"
)

var (
	importRE  = regexp.MustCompile(`@import\s+(?:url\(\s*)?(?:"([^"]*)"|'([^']*)'|([^\s;)"']+))\s*\)?[^;]*;`)
	commentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Scanner scans CSS.
type Scanner struct {
	resolver scan.Resolver
}

// New creates a stylesheet scanner. resolver may be nil.
func New(resolver scan.Resolver) *Scanner {
	return &Scanner{resolver: resolver}
}

func (s *Scanner) Scan(ctx context.Context, req scan.Request) (*model.ScannedDocument, error) {
	loc := scan.NewLocator(req)
	doc := &model.ScannedDocument{
		URL:            req.URL,
		Kind:           model.KindCSSDocument,
		SourceRange:    loc.Whole(),
		LocationOffset: req.Offset,
	}
	// Blank out comments without moving offsets.
	text := commentRE.ReplaceAllFunc(append([]byte(nil), req.Text...), func(b []byte) []byte {
		for i := range b {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
		return b
	})
	for _, m := range importRE.FindAllSubmatchIndex(text, -1) {
		var href string
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				href = string(text[m[2*g]:m[2*g+1]])
				break
			}
		}
		imp := &model.ScannedImport{OriginalURL: href, Type: model.KindCSSImport}
		imp.Range = loc.Range(m[0], m[1])
		if s.resolver != nil {
			if url, ok := s.resolver.ResolveFrom(req.URL, href); ok {
				imp.URL = url
				doc.Imports = append(doc.Imports, model.ScannedDependency{URL: url})
			}
		}
		doc.Features = append(doc.Features, imp)
	}
	return doc, nil
}
