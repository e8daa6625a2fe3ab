package model

import (
	"fmt"

	"plexus/internal/diag"
	"plexus/internal/source"
)

// ReferenceRole selects the lookup rules and warning vocabulary of a
// reference.
type ReferenceRole uint8

const (
	RoleGeneric ReferenceRole = iota
	RoleSuperclass
	RoleMixin
	RoleBehavior
)

// ReferenceStatus is the outcome of a lookup.
type ReferenceStatus uint8

const (
	RefNotFound ReferenceStatus = iota
	RefFound
	RefAmbiguous
	// RefWrongKind: the identifier exists but names a feature of another kind.
	RefWrongKind
)

func (s ReferenceStatus) String() string {
	switch s {
	case RefFound:
		return "found"
	case RefAmbiguous:
		return "ambiguous"
	case RefWrongKind:
		return "wrong-kind"
	default:
		return "not-found"
	}
}

// ScannedReference points at a feature by identifier. It stays unresolved
// until the owning feature is linked.
type ScannedReference struct {
	Identifier  string
	Kind        FeatureKind
	Role        ReferenceRole
	SourceRange source.Range
	AstNode     any
}

// NewScannedReference builds a reference with the default kind of role.
func NewScannedReference(id string, role ReferenceRole, rng source.Range) *ScannedReference {
	kind := KindNone
	switch role {
	case RoleSuperclass:
		kind = KindClass
	case RoleMixin:
		kind = KindElementMixin
	case RoleBehavior:
		kind = KindBehavior
	}
	return &ScannedReference{Identifier: id, Kind: kind, Role: role, SourceRange: rng}
}

// Reference is a resolved ScannedReference. Feature is nil unless Status is
// RefFound, except for ambiguous behavior references where the most
// recently declared candidate wins.
type Reference struct {
	Identifier  string
	Kind        FeatureKind
	SourceRange source.Range
	Feature     Feature
	Candidates  []Feature
	Status      ReferenceStatus
	Warnings    []diag.Warning
}

// Resolve looks the identifier up in doc and everything it imports.
func (s *ScannedReference) Resolve(doc *Document) *Reference {
	ref := &Reference{
		Identifier:  s.Identifier,
		Kind:        s.Kind,
		SourceRange: s.SourceRange,
	}
	rng := s.SourceRange
	if rng.IsZero() {
		rng = doc.fallbackRange()
	}
	ref.Candidates = doc.GetFeatures(Query{Kind: s.Kind, ID: s.Identifier, Imported: true, ExternalPackages: true})
	switch len(ref.Candidates) {
	case 0:
		ref.Status = RefNotFound
	case 1:
		ref.Status = RefFound
		ref.Feature = ref.Candidates[0]
	default:
		ref.Status = RefAmbiguous
	}

	switch s.Role {
	case RoleSuperclass:
		switch ref.Status {
		case RefNotFound:
			ref.warn(diag.NewError(diag.UnknownSuperclass, rng,
				fmt.Sprintf("Unable to resolve superclass %s", s.Identifier)))
		case RefAmbiguous:
			ref.warn(diag.NewError(diag.UnknownSuperclass, rng,
				fmt.Sprintf("Unable to resolve superclass %s: found %d declarations", s.Identifier, len(ref.Candidates))))
		}
	case RoleMixin:
		switch ref.Status {
		case RefNotFound:
			others := doc.GetFeatures(Query{Kind: KindClass, ID: s.Identifier, Imported: true, ExternalPackages: true})
			if len(others) > 0 {
				ref.Status = RefWrongKind
				ref.Candidates = others
				ref.warn(diag.NewWarning(diag.MixesReferenceNonMixin, rng,
					fmt.Sprintf("@mixes reference %s is not a mixin", s.Identifier)))
			} else {
				ref.warn(diag.NewError(diag.MixesReferenceNotFound, rng,
					fmt.Sprintf("@mixes reference could not be resolved: %s", s.Identifier)))
			}
		case RefAmbiguous:
			ref.warn(diag.NewWarning(diag.MixesReferenceMultipleFound, rng,
				fmt.Sprintf("@mixes reference %s is ambiguous: found %d mixins", s.Identifier, len(ref.Candidates))))
		}
	case RoleBehavior:
		switch ref.Status {
		case RefNotFound:
			ref.warn(diag.NewError(diag.UnknownPolymerBehavior, rng,
				fmt.Sprintf("Unable to resolve behavior `%s`. Did you import it? Is it annotated with @polymerBehavior?", s.Identifier)))
		case RefAmbiguous:
			ref.warn(diag.NewWarning(diag.MultiplePolymerBehaviors, rng,
				fmt.Sprintf("Found more than one behavior named %s.", s.Identifier)))
			ref.Feature = ref.Candidates[len(ref.Candidates)-1]
		}
	default:
		switch ref.Status {
		case RefNotFound:
			ref.warn(diag.NewWarning(diag.CouldNotResolveReference, rng,
				fmt.Sprintf("Could not resolve reference to %s with identifier %s", kindLabel(s.Kind), s.Identifier)))
		case RefAmbiguous:
			ref.warn(diag.NewWarning(diag.MultipleGlobalDeclarations, rng,
				fmt.Sprintf("Multiple global declarations of %s with identifier %s", kindLabel(s.Kind), s.Identifier)))
		}
	}
	return ref
}

func (r *Reference) warn(w diag.Warning) {
	r.Warnings = append(r.Warnings, w)
}

// Resolved reports whether the reference points at exactly one feature.
func (r *Reference) Resolved() bool {
	return r != nil && r.Feature != nil
}

func kindLabel(k FeatureKind) string {
	if k == KindNone {
		return "feature"
	}
	return k.String()
}
