package model

import (
	"plexus/internal/diag"
	"plexus/internal/source"
)

// Feature is a resolved, queryable entity owned by exactly one Document.
type Feature interface {
	Kinds() KindSet
	Identifiers() []string
	SourceRange() source.Range
	AstNode() any
	Warnings() []diag.Warning
}

type featureBase struct {
	kinds       KindSet
	identifiers []string
	sourceRange source.Range
	astNode     any
	warnings    []diag.Warning
}

func (f *featureBase) Kinds() KindSet            { return f.kinds }
func (f *featureBase) Identifiers() []string     { return f.identifiers }
func (f *featureBase) SourceRange() source.Range { return f.sourceRange }
func (f *featureBase) AstNode() any              { return f.astNode }
func (f *featureBase) Warnings() []diag.Warning  { return f.warnings }

func (f *featureBase) addWarning(ws ...diag.Warning) {
	f.warnings = append(f.warnings, ws...)
}

func (f *featureBase) addIdentifier(id string) {
	if id == "" {
		return
	}
	for _, existing := range f.identifiers {
		if existing == id {
			return
		}
	}
	f.identifiers = append(f.identifiers, id)
}

// HasIdentifier reports whether f can be looked up by id.
func HasIdentifier(f Feature, id string) bool {
	want := normalizeID(id)
	for _, got := range f.Identifiers() {
		if normalizeID(got) == want {
			return true
		}
	}
	return false
}
