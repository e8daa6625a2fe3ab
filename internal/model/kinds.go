package model

import (
	"sort"
	"strings"
)

// FeatureKind is the closed vocabulary of feature classifications.
type FeatureKind uint8

const (
	// KindNone means "no kind filter" in queries.
	KindNone FeatureKind = iota
	KindDocument
	KindHTMLDocument
	KindJSDocument
	KindCSSDocument
	KindInlineDocument
	KindImport
	KindHTMLImport
	KindJSImport
	KindCSSImport
	KindLazyImport
	KindClass
	KindElement
	KindPolymerElement
	KindElementMixin
	KindPolymerElementMixin
	KindBehavior
	KindNamespace
	KindFunction
	KindElementReference
	KindDomModule

	kindCount
)

var kindTags = [kindCount]string{
	KindNone:                "",
	KindDocument:            "document",
	KindHTMLDocument:        "html-document",
	KindJSDocument:          "js-document",
	KindCSSDocument:         "css-document",
	KindInlineDocument:      "inline-document",
	KindImport:              "import",
	KindHTMLImport:          "html-import",
	KindJSImport:            "js-import",
	KindCSSImport:           "css-import",
	KindLazyImport:          "lazy-import",
	KindClass:               "class",
	KindElement:             "element",
	KindPolymerElement:      "polymer-element",
	KindElementMixin:        "element-mixin",
	KindPolymerElementMixin: "polymer-element-mixin",
	KindBehavior:            "behavior",
	KindNamespace:           "namespace",
	KindFunction:            "function",
	KindElementReference:    "element-reference",
	KindDomModule:           "dom-module",
}

func (k FeatureKind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindTags[k]
}

// ParseKind maps a string tag such as "element" to its kind.
func ParseKind(tag string) (FeatureKind, bool) {
	tag = strings.TrimSpace(strings.ToLower(tag))
	for k := KindNone + 1; k < kindCount; k++ {
		if kindTags[k] == tag {
			return k, true
		}
	}
	return KindNone, false
}

// FeatureKindMap returns the stable tag → kind vocabulary.
func FeatureKindMap() map[string]FeatureKind {
	out := make(map[string]FeatureKind, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out[kindTags[k]] = k
	}
	return out
}

// KindTags lists all tags in sorted order.
func KindTags() []string {
	out := make([]string, 0, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out = append(out, kindTags[k])
	}
	sort.Strings(out)
	return out
}

// KindSet holds every kind a feature belongs to; a feature may be an
// element and a polymer-element at the same time.
type KindSet uint32

// Kinds builds a set from the given kinds.
func Kinds(ks ...FeatureKind) KindSet {
	var s KindSet
	for _, k := range ks {
		s = s.With(k)
	}
	return s
}

// Has reports membership. KindNone is never a member.
func (s KindSet) Has(k FeatureKind) bool {
	if k == KindNone || k >= kindCount {
		return false
	}
	return s&(1<<k) != 0
}

// With returns the set extended by k.
func (s KindSet) With(k FeatureKind) KindSet {
	if k == KindNone || k >= kindCount {
		return s
	}
	return s | 1<<k
}

// Slice lists the members in declaration order of the kinds.
func (s KindSet) Slice() []FeatureKind {
	out := make([]FeatureKind, 0, 4)
	for k := KindNone + 1; k < kindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KindSet) String() string {
	kinds := s.Slice()
	tags := make([]string, len(kinds))
	for i, k := range kinds {
		tags[i] = k.String()
	}
	return strings.Join(tags, ",")
}
