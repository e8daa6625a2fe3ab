// Package htmlscan scans markup documents: imports, stylesheets, scripts
// (external and inline), custom element usages and dom-module templates.
package htmlscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"plexus/internal/diag"
	"plexus/internal/model"
	"plexus/internal/scan"
	"plexus/internal/source"
)

// Scanner scans HTML. Inline scripts and styles are handed to the registry.
type Scanner struct {
	registry *scan.Registry
}

// New creates a markup scanner dispatching embedded documents through reg.
func New(reg *scan.Registry) *Scanner {
	return &Scanner{registry: reg}
}

// rawKind marks the raw-text element whose body the tokenizer returns next.
type rawKind uint8

const (
	rawNone rawKind = iota
	rawScript
	rawStyle
	rawIgnored
)

type scanState struct {
	ctx     context.Context
	req     scan.Request
	loc     scan.Locator
	resolve scan.Resolver
	doc     *model.ScannedDocument
	seen    map[string]struct{}

	pending rawKind
	// comment is the last HTML comment not yet followed by anything but
	// whitespace; it documents the next dom-module.
	comment string
}

func (s *Scanner) Scan(ctx context.Context, req scan.Request) (*model.ScannedDocument, error) {
	st := &scanState{
		ctx: ctx,
		req: req,
		loc: scan.NewLocator(req),
		doc: &model.ScannedDocument{
			URL:            req.URL,
			Kind:           model.KindHTMLDocument,
			LocationOffset: req.Offset,
		},
		seen: make(map[string]struct{}),
	}
	if s.registry != nil {
		st.resolve = s.registry.Resolver()
	}
	st.doc.SourceRange = st.loc.Whole()

	z := html.NewTokenizer(bytes.NewReader(req.Text))
	off := 0
	for {
		tt := z.Next()
		start := off
		off += len(z.Raw())
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return st.doc, nil
			}
			w := diag.NewError(diag.ParseError, st.loc.Range(start, off),
				fmt.Sprintf("Unable to parse %s: %v", req.URL, z.Err()))
			return nil, diag.NewWarningCarryingError(w, z.Err())
		case html.CommentToken:
			st.comment = strings.TrimSpace(string(z.Text()))
		case html.TextToken:
			if st.pending != rawNone {
				if err := s.embedded(st, start, off); err != nil {
					return nil, err
				}
				continue
			}
			if len(bytes.TrimSpace(req.Text[start:off])) > 0 {
				st.comment = ""
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			st.startTag(tok, start, off, tt == html.SelfClosingTagToken)
			st.comment = ""
		case html.EndTagToken:
			st.pending = rawNone
		}
	}
}

func (st *scanState) startTag(tok html.Token, start, end int, selfClosing bool) {
	rng := st.loc.Range(start, end)
	switch tok.Data {
	case "link":
		st.link(tok, rng)
	case "script":
		if src, ok := attr(tok, "src"); ok {
			st.addImport(src, model.KindJSImport, false, rng)
			return
		}
		if !selfClosing && isScriptType(attrOr(tok, "type", "")) {
			st.pending = rawScript
		} else {
			st.pending = rawIgnored
		}
	case "style":
		if !selfClosing {
			st.pending = rawStyle
		}
	case "dom-module":
		id, _ := attr(tok, "id")
		m := &model.ScannedDomModule{ID: id}
		m.Range = rng
		m.Description = st.comment
		st.doc.Features = append(st.doc.Features, m)
	default:
		if strings.Contains(tok.Data, "-") {
			ref := &model.ScannedElementReference{TagName: tok.Data}
			ref.Range = rng
			for _, a := range tok.Attr {
				ref.Attributes = append(ref.Attributes, model.AttributeUse{Name: a.Key, Value: a.Val})
			}
			st.doc.Features = append(st.doc.Features, ref)
		}
	}
}

func (st *scanState) link(tok html.Token, rng source.Range) {
	href, ok := attr(tok, "href")
	if !ok {
		return
	}
	rels := strings.Fields(strings.ToLower(attrOr(tok, "rel", "")))
	for _, rel := range rels {
		switch rel {
		case "import", "lazy-import":
			kind := model.KindHTMLImport
			if strings.EqualFold(attrOr(tok, "type", ""), "css") {
				kind = model.KindCSSImport
			}
			st.addImport(href, kind, rel == "lazy-import", rng)
			return
		case "stylesheet":
			st.addImport(href, model.KindCSSImport, false, rng)
			return
		}
	}
}

func (st *scanState) addImport(href string, kind model.FeatureKind, lazy bool, rng source.Range) {
	imp := &model.ScannedImport{OriginalURL: href, Type: kind, Lazy: lazy}
	imp.Range = rng
	if st.resolve != nil {
		if url, ok := st.resolve.ResolveFrom(st.req.URL, href); ok {
			imp.URL = url
		}
	}
	st.doc.Features = append(st.doc.Features, imp)
	if imp.URL != "" {
		st.addDependency(model.ScannedDependency{URL: imp.URL, Lazy: lazy})
	}
}

func (st *scanState) addDependency(dep model.ScannedDependency) {
	key := dep.URL
	if dep.Lazy {
		key = "lazy:" + key
	}
	if _, ok := st.seen[key]; ok {
		return
	}
	st.seen[key] = struct{}{}
	st.doc.Imports = append(st.doc.Imports, dep)
}

// embedded scans the body of an inline script or style.
func (s *Scanner) embedded(st *scanState, start, end int) error {
	kind := model.KindNone
	switch st.pending {
	case rawScript:
		kind = model.KindJSDocument
	case rawStyle:
		kind = model.KindCSSDocument
	}
	st.pending = rawNone
	if kind == model.KindNone || s.registry == nil || !s.registry.Has(kind) {
		return nil
	}
	if len(bytes.TrimSpace(st.req.Text[start:end])) == 0 {
		return nil
	}
	rng := st.loc.Range(start, end)
	req := scan.Request{
		URL:    st.req.URL,
		Text:   st.req.Text[start:end],
		Offset: st.loc.OffsetAt(start),
	}
	inner, err := s.registry.ScanKind(st.ctx, kind, req)
	if err != nil {
		w, ok := diag.AsWarning(err)
		if !ok {
			return err
		}
		// A broken inline script spoils only itself.
		inner = &model.ScannedDocument{URL: st.req.URL, Kind: kind, IsInline: true, Warnings: []diag.Warning{w}}
	}
	inner.SourceRange = rng
	inner.LocationOffset = req.Offset
	feature := &model.ScannedInlineDocument{Document: inner}
	feature.Range = rng
	st.doc.Features = append(st.doc.Features, feature)
	for _, dep := range inner.Imports {
		st.addDependency(dep)
	}
	return nil
}

func attr(tok html.Token, name string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func attrOr(tok html.Token, name, def string) string {
	if v, ok := attr(tok, name); ok {
		return v
	}
	return def
}

func isScriptType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "module", "text/javascript", "application/javascript", "text/ecmascript":
		return true
	default:
		return false
	}
}
