package model

import "plexus/internal/source"

// builtinBases are superclasses provided by the platform.
var builtinBases = map[string]struct{}{
	"HTMLElement": {},
}

func (c *Class) ensureLinked() {
	if c.state != linkPending {
		return
	}
	c.state = linkActive
	c.linearize()
	c.state = linkDone
}

// Linked reports whether the member maps hold the final member set.
func (c *Class) Linked() bool { return c.state == linkDone }

// linearize merges superclass, mixins, behaviors and own members, in that
// order, into c's member maps.
func (c *Class) linearize() {
	fallback := c.fallbackRange()

	if s := c.scanned.SuperClass; s != nil {
		if _, builtin := builtinBases[s.Identifier]; !builtin {
			ref := s.Resolve(c.doc)
			c.SuperClass = ref
			c.addWarning(ref.Warnings...)
			if ref.Status == RefFound {
				if sup := classOf(ref.Feature); sup != nil && sup != c {
					sup.ensureLinked()
					c.applyFinal(sup, fallback)
				}
			}
		}
	}

	for _, s := range c.scanned.Mixins {
		ref := s.Resolve(c.doc)
		c.Mixins = append(c.Mixins, ref)
		c.addWarning(ref.Warnings...)
		if ref.Status != RefFound {
			continue
		}
		if m := classOf(ref.Feature); m != nil && m != c {
			m.ensureLinked()
			c.applyFinal(m, fallback)
		}
	}

	if c.Polymer != nil {
		for _, b := range c.flattenBehaviors() {
			c.applyOwn(&b.Class, overlay{name: b.DisplayName(), fallback: fallback})
		}
	}

	c.applyOwn(c, overlay{fallback: fallback})

	if c.kinds.Has(KindPolymerElement) {
		c.validatePolymer()
	}
}

func (c *Class) applyFinal(from *Class, fallback source.Range) {
	layer := overlay{name: from.DisplayName(), fallback: fallback}
	overwriteInherited(&c.Properties, from.Properties.Values(), layer, c.report)
	overwriteInherited(&c.Methods, from.Methods.Values(), layer, c.report)
	overwriteInherited(&c.Attributes, from.Attributes.Values(), layer, c.report)
	overwriteInherited(&c.Events, from.Events.Values(), layer, c.report)
}

func (c *Class) applyOwn(from *Class, layer overlay) {
	overwriteInherited(&c.Properties, from.own.properties, layer, c.report)
	overwriteInherited(&c.Methods, from.own.methods, layer, c.report)
	overwriteInherited(&c.Attributes, from.own.attributes, layer, c.report)
	overwriteInherited(&c.Events, from.own.events, layer, c.report)
}

// flattenBehaviors returns the behaviors c assigns, transitively, with
// nested assignments ahead of the behavior that makes them. Each behavior
// appears once; c itself is never included.
func (c *Class) flattenBehaviors() []*Behavior {
	visited := map[*Class]struct{}{c: {}}
	var out []*Behavior
	var visit func(owner *Class, refs []*ScannedReference, own bool)
	visit = func(owner *Class, refs []*ScannedReference, own bool) {
		for _, s := range refs {
			ref := s.Resolve(owner.doc)
			if own {
				c.Polymer.Behaviors = append(c.Polymer.Behaviors, ref)
				c.addWarning(ref.Warnings...)
			}
			b, ok := ref.Feature.(*Behavior)
			if !ok {
				continue
			}
			if _, seen := visited[&b.Class]; seen {
				continue
			}
			visited[&b.Class] = struct{}{}
			if b.Polymer != nil {
				visit(&b.Class, b.Polymer.scannedBehaviors, false)
			}
			out = append(out, b)
		}
	}
	visit(c, c.Polymer.scannedBehaviors, true)
	return out
}
