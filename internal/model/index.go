package model

import "fmt"

type kindID struct {
	kind FeatureKind
	id   string
}

// featureIndex caches the result of the eager, external-inclusive walk of a
// resolved document.
type featureIndex struct {
	byKind   map[FeatureKind][]Feature
	byKindID map[kindID][]Feature
}

// resolvedDocument proves that a document finished resolution. Only
// asResolved hands one out, so an index cannot be built from a document
// that may still gain features.
type resolvedDocument struct {
	doc *Document
}

func (d *Document) asResolved() (resolvedDocument, bool) {
	if d.state != docResolved {
		return resolvedDocument{}, false
	}
	return resolvedDocument{doc: d}, true
}

func newFeatureIndex(r resolvedDocument) *featureIndex {
	idx := &featureIndex{
		byKind:   make(map[FeatureKind][]Feature),
		byKindID: make(map[kindID][]Feature),
	}
	for _, f := range r.doc.listFeatures(Query{Imported: true, ExternalPackages: true}) {
		for _, k := range f.Kinds().Slice() {
			idx.byKind[k] = append(idx.byKind[k], f)
			seen := make(map[string]struct{}, len(f.Identifiers()))
			for _, id := range f.Identifiers() {
				id = normalizeID(id)
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				key := kindID{kind: k, id: id}
				idx.byKindID[key] = append(idx.byKindID[key], f)
			}
		}
	}
	return idx
}

// BuildIndexes caches kind and identifier lookups for cacheable queries. It
// panics when called twice or before Resolve completed.
func (d *Document) BuildIndexes() {
	if d.index != nil {
		panic(fmt.Sprintf("model: indexes of %s built twice", d.url))
	}
	r, ok := d.asResolved()
	if !ok {
		panic(fmt.Sprintf("model: indexes of %s built before resolution completed", d.url))
	}
	d.index = newFeatureIndex(r)
}
