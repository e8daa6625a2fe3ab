package model

import (
	"plexus/internal/diag"
	"plexus/internal/source"
)

// ClassVariant selects which class-like feature a ScannedClass becomes.
type ClassVariant uint8

const (
	VariantClass ClassVariant = iota
	VariantElement
	VariantPolymerElement
	VariantElementMixin
	VariantPolymerElementMixin
	VariantBehavior
)

func (v ClassVariant) kinds() KindSet {
	switch v {
	case VariantElement:
		return Kinds(KindClass, KindElement)
	case VariantPolymerElement:
		return Kinds(KindClass, KindElement, KindPolymerElement)
	case VariantElementMixin:
		return Kinds(KindElementMixin)
	case VariantPolymerElementMixin:
		return Kinds(KindElementMixin, KindPolymerElementMixin)
	case VariantBehavior:
		return Kinds(KindBehavior)
	default:
		return Kinds(KindClass)
	}
}

func (v ClassVariant) polymer() bool {
	return v == VariantPolymerElement || v == VariantPolymerElementMixin || v == VariantBehavior
}

// ScannedClass is a class, element, mixin or behavior declaration.
type ScannedClass struct {
	ScannedBase
	Variant ClassVariant
	Name    string
	TagName string
	// SuperClass is nil when the declaration extends nothing.
	SuperClass *ScannedReference
	Mixins     []*ScannedReference
	Properties []Property
	Methods    []Method
	Attributes []Attribute
	Events     []Event
	Polymer    *ScannedPolymer
}

// ScannedPolymer holds the Polymer specific parts of a declaration.
type ScannedPolymer struct {
	Behaviors []*ScannedReference
	Observers []Observer
	Listeners []Listener
}

// Observer is a complex observer expression such as "update(a, b.*)".
type Observer struct {
	Expression  string
	SourceRange source.Range
}

// Listener maps an event to a handler method.
type Listener struct {
	Event       string
	Handler     string
	SourceRange source.Range
}

// PolymerInfo is the resolved Polymer part of a class-like.
type PolymerInfo struct {
	// Behaviors are the behavior assignments declared by the entity itself.
	Behaviors []*Reference
	Observers []Observer
	Listeners []Listener

	scannedBehaviors []*ScannedReference
}

type linkState uint8

const (
	linkPending linkState = iota
	linkActive
	linkDone
)

// ClassLike is implemented by every class-like feature.
type ClassLike interface {
	Feature
	Base() *Class
}

// Class is a class-like feature. The member maps hold the linearized
// members once the owning document finished resolution.
type Class struct {
	featureBase
	Name        string
	Description string
	SuperClass  *Reference
	Mixins      []*Reference
	// Polymer is nil for plain classes, elements and mixins.
	Polymer *PolymerInfo

	Properties MemberMap[Property]
	Methods    MemberMap[Method]
	Attributes MemberMap[Attribute]
	Events     MemberMap[Event]

	own     ownMembers
	scanned *ScannedClass
	doc     *Document
	state   linkState
}

type ownMembers struct {
	properties []Property
	methods    []Method
	attributes []Attribute
	events     []Event
}

// Element is a custom element class.
type Element struct {
	Class
	TagName string
}

// PolymerElement is an element declared through Polymer.
type PolymerElement struct {
	Element
}

// ElementMixin is a class mixin function.
type ElementMixin struct {
	Class
}

// PolymerElementMixin is a mixin declared for Polymer elements.
type PolymerElementMixin struct {
	ElementMixin
}

// Behavior is a Polymer behavior object.
type Behavior struct {
	Class
}

func (c *Class) Base() *Class { return c }

// Document returns the document that declared c.
func (c *Class) Document() *Document { return c.doc }

// DisplayName is the class name, or the tag name of anonymous elements.
func (c *Class) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.identifiers) > 0 {
		return c.identifiers[0]
	}
	return ""
}

// OwnProperties returns the properties declared by the entity itself.
func (c *Class) OwnProperties() []Property {
	return append([]Property(nil), c.own.properties...)
}

// OwnMethods returns the methods declared by the entity itself.
func (c *Class) OwnMethods() []Method {
	return append([]Method(nil), c.own.methods...)
}

func (s *ScannedClass) Resolve(doc *Document) Feature {
	if s.Variant == VariantBehavior && s.Name != "" {
		if existing := doc.localBehavior(s.Name); existing != nil {
			existing.merge(s)
			return nil
		}
	}
	var (
		out Feature
		c   *Class
	)
	switch s.Variant {
	case VariantElement:
		e := &Element{TagName: s.TagName}
		c, out = &e.Class, e
	case VariantPolymerElement:
		e := &PolymerElement{Element: Element{TagName: s.TagName}}
		c, out = &e.Class, e
	case VariantElementMixin:
		m := &ElementMixin{}
		c, out = &m.Class, m
	case VariantPolymerElementMixin:
		m := &PolymerElementMixin{}
		c, out = &m.Class, m
	case VariantBehavior:
		b := &Behavior{}
		c, out = &b.Class, b
	default:
		c = &Class{}
		out = c
	}
	c.init(s, doc)
	return out
}

func (c *Class) init(s *ScannedClass, doc *Document) {
	c.scanned = s
	c.doc = doc
	c.Name = s.Name
	c.Description = s.Description
	c.kinds = s.Variant.kinds()
	c.addIdentifier(s.Name)
	if s.Variant == VariantElement || s.Variant == VariantPolymerElement {
		c.addIdentifier(s.TagName)
	}
	c.sourceRange = s.Range
	c.astNode = s.Node
	c.addWarning(s.Warns...)
	if s.Variant.polymer() {
		c.Polymer = &PolymerInfo{}
	}
	c.absorb(s)
}

// absorb appends the declarations of s to c's own members.
func (c *Class) absorb(s *ScannedClass) {
	c.own.properties = append(c.own.properties, s.Properties...)
	c.own.methods = append(c.own.methods, s.Methods...)
	c.own.attributes = append(c.own.attributes, s.Attributes...)
	c.own.events = append(c.own.events, s.Events...)
	if c.Polymer == nil {
		return
	}
	c.own.attributes, c.own.events = derivePolymerMembers(s.Properties, c.own.attributes, c.own.events)
	if s.Polymer != nil {
		c.Polymer.scannedBehaviors = append(c.Polymer.scannedBehaviors, s.Polymer.Behaviors...)
		c.Polymer.Observers = append(c.Polymer.Observers, s.Polymer.Observers...)
		c.Polymer.Listeners = append(c.Polymer.Listeners, s.Polymer.Listeners...)
	}
}

// merge folds a second declaration of the same behavior into c. The longer
// description is kept.
func (c *Class) merge(s *ScannedClass) {
	if len(s.Description) > len(c.Description) {
		c.Description = s.Description
	}
	c.addWarning(s.Warns...)
	c.absorb(s)
}

func (d *Document) localBehavior(name string) *Behavior {
	for _, f := range d.local.items {
		if b, ok := f.(*Behavior); ok && b.Name == name {
			return b
		}
	}
	return nil
}

func classOf(f Feature) *Class {
	if cl, ok := f.(ClassLike); ok {
		return cl.Base()
	}
	return nil
}

func (c *Class) fallbackRange() source.Range {
	if !c.sourceRange.IsZero() {
		return c.sourceRange
	}
	return c.doc.fallbackRange()
}

func (c *Class) report(w diag.Warning) {
	c.addWarning(w)
}
