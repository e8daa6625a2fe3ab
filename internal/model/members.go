package model

import (
	"fmt"
	"strings"

	"plexus/internal/diag"
	"plexus/internal/source"
)

// Privacy of a class member.
type Privacy uint8

const (
	PrivacyPublic Privacy = iota
	PrivacyProtected
	PrivacyPrivate
)

func (p Privacy) String() string {
	switch p {
	case PrivacyProtected:
		return "protected"
	case PrivacyPrivate:
		return "private"
	default:
		return "public"
	}
}

// PrivacyFromName infers privacy from naming convention: a double
// underscore prefix is private, a single one protected.
func PrivacyFromName(name string) Privacy {
	switch {
	case strings.HasPrefix(name, "__"):
		return PrivacyPrivate
	case strings.HasPrefix(name, "_"):
		return PrivacyProtected
	default:
		return PrivacyPublic
	}
}

// Property is a data member of a class-like feature.
type Property struct {
	Name        string
	Type        string
	Description string
	Privacy     Privacy
	ReadOnly    bool
	Default     string
	// Polymer declarations
	Notify             bool
	ReflectToAttribute bool
	Observer           string
	SourceRange        source.Range
	// InheritedFrom names the class-like that declared the property; empty
	// when it is declared locally.
	InheritedFrom string
}

// Param is a method or function parameter.
type Param struct {
	Name        string
	Type        string
	Description string
	Rest        bool
}

// Method is a function member of a class-like feature.
type Method struct {
	Name          string
	Description   string
	Params        []Param
	Return        string
	Privacy       Privacy
	Static        bool
	SourceRange   source.Range
	InheritedFrom string
}

// Attribute is an HTML attribute understood by an element.
type Attribute struct {
	Name          string
	Type          string
	Description   string
	ChangeEvent   string
	SourceRange   source.Range
	InheritedFrom string
}

// Event is a DOM event fired by an element.
type Event struct {
	Name          string
	Description   string
	Params        []Param
	SourceRange   source.Range
	InheritedFrom string
}

func (p Property) key() string               { return p.Name }
func (p Property) privacy() Privacy          { return p.Privacy }
func (p Property) origin() string            { return p.InheritedFrom }
func (p Property) memberRange() source.Range { return p.SourceRange }
func (p Property) withOrigin(from string) Property {
	p.InheritedFrom = from
	return p
}

func (m Method) key() string               { return m.Name }
func (m Method) privacy() Privacy          { return m.Privacy }
func (m Method) origin() string            { return m.InheritedFrom }
func (m Method) memberRange() source.Range { return m.SourceRange }
func (m Method) withOrigin(from string) Method {
	m.InheritedFrom = from
	return m
}

func (a Attribute) key() string               { return a.Name }
func (a Attribute) privacy() Privacy          { return PrivacyPublic }
func (a Attribute) origin() string            { return a.InheritedFrom }
func (a Attribute) memberRange() source.Range { return a.SourceRange }
func (a Attribute) withOrigin(from string) Attribute {
	a.InheritedFrom = from
	return a
}

func (e Event) key() string               { return e.Name }
func (e Event) privacy() Privacy          { return PrivacyPublic }
func (e Event) origin() string            { return e.InheritedFrom }
func (e Event) memberRange() source.Range { return e.SourceRange }
func (e Event) withOrigin(from string) Event {
	e.InheritedFrom = from
	return e
}

type member[T any] interface {
	key() string
	privacy() Privacy
	origin() string
	memberRange() source.Range
	withOrigin(from string) T
}

// MemberMap is an insertion-ordered map of members keyed by name.
// Replacing an entry keeps its original position.
type MemberMap[T any] struct {
	keys  []string
	items map[string]T
}

// Set inserts or replaces v under name.
func (m *MemberMap[T]) Set(name string, v T) {
	if m.items == nil {
		m.items = make(map[string]T)
	}
	if _, ok := m.items[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.items[name] = v
}

// Get returns the member called name.
func (m *MemberMap[T]) Get(name string) (T, bool) {
	v, ok := m.items[name]
	return v, ok
}

// Has reports whether a member called name exists.
func (m *MemberMap[T]) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

func (m *MemberMap[T]) Len() int { return len(m.keys) }

// Keys returns member names in insertion order.
func (m *MemberMap[T]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Values returns members in insertion order.
func (m *MemberMap[T]) Values() []T {
	out := make([]T, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.items[k])
	}
	return out
}

// overlay describes one layer applied by the linearizer.
type overlay struct {
	// name is the class-like the members come from; empty for the entity's
	// own members.
	name      string
	// fallback locates warnings for inherited members.
	fallback source.Range
}

// overwriteInherited applies members on top of existing. A member replacing
// a private one yields an overriding-private warning; the override still
// happens.
func overwriteInherited[T member[T]](existing *MemberMap[T], members []T, layer overlay, report func(diag.Warning)) {
	for _, v := range members {
		if v.origin() == "" && layer.name != "" {
			v = v.withOrigin(layer.name)
		}
		if old, ok := existing.Get(v.key()); ok && old.privacy() == PrivacyPrivate {
			from := old.origin()
			if from == "" {
				from = "parent"
			}
			rng := layer.fallback
			if layer.name == "" && !v.memberRange().IsZero() {
				rng = v.memberRange()
			}
			report(diag.NewWarning(diag.OverridingPrivate, rng,
				fmt.Sprintf("Overriding private member '%s' inherited from %s", v.key(), from)))
		}
		existing.Set(v.key(), v)
	}
}

// dashCase converts a camelCase property name into an attribute name.
func dashCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
