//go:build !cgo

package jsscan

import (
	"context"

	"plexus/internal/model"
	"plexus/internal/scan"
)

// Available reports whether script scanning is compiled in.
// Tree-sitter needs cgo; without it scripts scan to empty documents.
func Available() bool { return false }

// Scanner is a stub implementation when CGO is not available.
type Scanner struct{}

// New creates a script scanner.
func New(resolver scan.Resolver) *Scanner {
	return &Scanner{}
}

func (s *Scanner) Scan(ctx context.Context, req scan.Request) (*model.ScannedDocument, error) {
	loc := scan.NewLocator(req)
	return &model.ScannedDocument{
		URL:            req.URL,
		Kind:           model.KindJSDocument,
		SourceRange:    loc.Whole(),
		LocationOffset: req.Offset,
	}, nil
}
