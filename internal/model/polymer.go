package model

import (
	"fmt"
	"regexp"

	"plexus/internal/diag"
	"plexus/internal/source"
)

var observerExprRE = regexp.MustCompile(`^\s*([A-Za-z_$][\w$]*)\s*\(([^()]*)\)\s*$`)

// derivePolymerMembers adds the attributes and change events Polymer
// generates for declared properties.
func derivePolymerMembers(props []Property, attrs []Attribute, events []Event) ([]Attribute, []Event) {
	hasAttr := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		hasAttr[a.Name] = struct{}{}
	}
	hasEvent := make(map[string]struct{}, len(events))
	for _, e := range events {
		hasEvent[e.Name] = struct{}{}
	}
	for _, p := range props {
		if p.Privacy != PrivacyPublic || p.Type == "Function" {
			continue
		}
		name := dashCase(p.Name)
		changed := ""
		if p.Notify {
			changed = name + "-changed"
			if _, ok := hasEvent[changed]; !ok {
				hasEvent[changed] = struct{}{}
				events = append(events, Event{
					Name:        changed,
					Description: fmt.Sprintf("Fired when the `%s` property changes.", p.Name),
					SourceRange: p.SourceRange,
				})
			}
		}
		if _, ok := hasAttr[name]; ok {
			continue
		}
		hasAttr[name] = struct{}{}
		attrs = append(attrs, Attribute{
			Name:        name,
			Type:        p.Type,
			Description: p.Description,
			ChangeEvent: changed,
			SourceRange: p.SourceRange,
		})
	}
	return attrs, events
}

// validatePolymer checks that observers and listeners of an element name
// methods of its final member set.
func (c *Class) validatePolymer() {
	fallback := c.fallbackRange()
	at := func(r source.Range) source.Range {
		if r.IsZero() {
			return fallback
		}
		return r
	}
	for _, p := range c.own.properties {
		if p.Observer == "" || c.Methods.Has(p.Observer) {
			continue
		}
		c.addWarning(diag.NewWarning(diag.UnknownObserverMethod, at(p.SourceRange),
			fmt.Sprintf("Observer method %s of property %s is not defined", p.Observer, p.Name)))
	}
	if c.Polymer == nil {
		return
	}
	for _, o := range c.Polymer.Observers {
		m := observerExprRE.FindStringSubmatch(o.Expression)
		if m == nil {
			c.addWarning(diag.NewWarning(diag.InvalidObserver, at(o.SourceRange),
				fmt.Sprintf("Invalid observer expression: %q", o.Expression)))
			continue
		}
		if !c.Methods.Has(m[1]) {
			c.addWarning(diag.NewWarning(diag.UnknownObserverMethod, at(o.SourceRange),
				fmt.Sprintf("Observer method %s is not defined", m[1])))
		}
	}
	for _, l := range c.Polymer.Listeners {
		if c.Methods.Has(l.Handler) {
			continue
		}
		c.addWarning(diag.NewWarning(diag.UnknownListenerHandler, at(l.SourceRange),
			fmt.Sprintf("Listener for event %s refers to unknown method %s", l.Event, l.Handler)))
	}
}
