//go:build cgo

package jsscan

import (
	"context"
	"testing"

	"plexus/internal/diag"
	"plexus/internal/model"
	"plexus/internal/scan"
	"plexus/internal/source"
	"plexus/internal/urlresolver"
)

func scanJS(t *testing.T, url, text string) *model.ScannedDocument {
	t.Helper()
	doc, err := New(urlresolver.New("")).Scan(context.Background(), scan.Request{URL: url, Text: []byte(text)})
	if err != nil {
		t.Fatalf("Scan(%s): %v", url, err)
	}
	return doc
}

func classes(doc *model.ScannedDocument) map[string]*model.ScannedClass {
	out := make(map[string]*model.ScannedClass)
	for _, f := range doc.Features {
		if c, ok := f.(*model.ScannedClass); ok {
			key := c.Name
			if key == "" {
				key = c.TagName
			}
			if _, dup := out[key]; !dup {
				out[key] = c
			}
		}
	}
	return out
}

func TestScanPolymerElementClass(t *testing.T) {
	doc := scanJS(t, "src/x-foo.js", `
import {PolymerElement} from '../lib/polymer-element.js';
import {Gestures} from './gestures.js';

/**
 * A foo element.
 * @customElement
 * @polymer
 */
class XFoo extends Gestures(PolymerElement) {
  static get is() { return 'x-foo'; }
  static get properties() {
    return {
      /** The label. */
      label: String,
      open: { type: Boolean, notify: true, observer: '_openChanged' },
    };
  }
  static get observers() { return ['_update(label, open)']; }
  /** Toggles. @param {boolean} force */
  toggle(force) {}
  _openChanged() {}
}
customElements.define(XFoo.is, XFoo);
`)
	c := classes(doc)["XFoo"]
	if c == nil {
		t.Fatalf("XFoo not scanned; features = %v", doc.Features)
	}
	if c.Variant != model.VariantPolymerElement {
		t.Errorf("variant = %v, want polymer element", c.Variant)
	}
	if c.TagName != "x-foo" {
		t.Errorf("tag = %q, want x-foo", c.TagName)
	}
	if c.Description != "A foo element." {
		t.Errorf("description = %q", c.Description)
	}
	if c.SuperClass == nil || c.SuperClass.Identifier != "PolymerElement" {
		t.Errorf("superclass = %+v, want PolymerElement", c.SuperClass)
	}
	if len(c.Mixins) != 1 || c.Mixins[0].Identifier != "Gestures" {
		t.Errorf("mixins = %+v, want [Gestures]", c.Mixins)
	}
	if len(c.Properties) != 2 {
		t.Fatalf("got %d properties, want 2", len(c.Properties))
	}
	if p := c.Properties[0]; p.Name != "label" || p.Type != "String" || p.Description != "The label." {
		t.Errorf("label property = %+v", p)
	}
	if p := c.Properties[1]; !p.Notify || p.Observer != "_openChanged" || p.Type != "Boolean" {
		t.Errorf("open property = %+v", p)
	}
	if c.Polymer == nil || len(c.Polymer.Observers) != 1 || c.Polymer.Observers[0].Expression != "_update(label, open)" {
		t.Errorf("observers = %+v", c.Polymer)
	}
	if len(c.Methods) != 2 || c.Methods[0].Name != "toggle" || c.Methods[1].Privacy != model.PrivacyProtected {
		t.Errorf("methods = %+v", c.Methods)
	}
	if len(doc.Imports) != 2 || doc.Imports[0].URL != "lib/polymer-element.js" || doc.Imports[1].URL != "src/gestures.js" {
		t.Errorf("imports = %+v", doc.Imports)
	}
}

func TestScanMixinFunction(t *testing.T) {
	doc := scanJS(t, "mixin.js", `
/** @polymer @mixinFunction */
const Sized = (base) => class extends Resizable(base) {
  resize() {}
};
function Colored(superClass) {
  return class extends superClass {
    paint() {}
  };
}
`)
	cs := classes(doc)
	sized := cs["Sized"]
	if sized == nil || sized.Variant != model.VariantElementMixin && sized.Variant != model.VariantPolymerElementMixin {
		t.Fatalf("Sized = %+v", sized)
	}
	if sized.SuperClass != nil {
		t.Errorf("mixin parameter must not become a superclass: %+v", sized.SuperClass)
	}
	if len(sized.Mixins) != 1 || sized.Mixins[0].Identifier != "Resizable" {
		t.Errorf("mixins = %+v", sized.Mixins)
	}
	colored := cs["Colored"]
	if colored == nil || colored.Variant != model.VariantElementMixin {
		t.Fatalf("Colored = %+v", colored)
	}
	if len(colored.Methods) != 1 || colored.Methods[0].Name != "paint" {
		t.Errorf("methods = %+v", colored.Methods)
	}
}

func TestScanBehaviorsAndPolymerCall(t *testing.T) {
	doc := scanJS(t, "b.js", `
/** @polymerBehavior Acme.Clickable */
Acme.ClickableImpl = {
  properties: { pressed: { type: Boolean, readOnly: true } },
  listeners: { tap: '_onTap' },
  _onTap: function(e) {},
};
/** @polymerBehavior */
Acme.Clickable = [Acme.Focusable, Acme.ClickableImpl];

Polymer({
  is: 'x-bar',
  behaviors: [Acme.Clickable],
  properties: 'oops',
});
`)
	cs := classes(doc)
	impl := cs["Acme.Clickable"]
	if impl == nil || impl.Variant != model.VariantBehavior {
		t.Fatalf("behavior impl = %+v", impl)
	}
	if len(impl.Properties) != 1 || !impl.Properties[0].ReadOnly {
		t.Errorf("properties = %+v", impl.Properties)
	}
	if impl.Polymer == nil || len(impl.Polymer.Listeners) != 1 || impl.Polymer.Listeners[0].Handler != "_onTap" {
		t.Errorf("listeners = %+v", impl.Polymer)
	}

	bar := cs["x-bar"]
	if bar == nil || bar.Variant != model.VariantPolymerElement {
		t.Fatalf("x-bar = %+v", bar)
	}
	if len(bar.Polymer.Behaviors) != 1 || bar.Polymer.Behaviors[0].Identifier != "Acme.Clickable" {
		t.Errorf("behaviors = %+v", bar.Polymer.Behaviors)
	}
	if len(bar.Warnings()) != 1 || bar.Warnings()[0].Code != diag.InvalidPropertiesObject {
		t.Errorf("warnings = %+v", bar.Warnings())
	}
}

func TestScanNamespaceFunctionAndLazyImport(t *testing.T) {
	doc := scanJS(t, "ns.js", `
/** @namespace */
const Acme = {};
/** Adds. @param {number} a @return {number} */
function add(a, ...rest) { return import('./lazy.js'); }
`)
	var ns *model.ScannedNamespace
	var fn *model.ScannedFunction
	for _, f := range doc.Features {
		switch f := f.(type) {
		case *model.ScannedNamespace:
			ns = f
		case *model.ScannedFunction:
			fn = f
		}
	}
	if ns == nil || ns.Name != "Acme" {
		t.Errorf("namespace = %+v", ns)
	}
	if fn == nil || fn.Name != "add" || len(fn.Params) != 2 || !fn.Params[1].Rest {
		t.Errorf("function = %+v", fn)
	}
	if len(doc.Imports) != 1 || !doc.Imports[0].Lazy || doc.Imports[0].URL != "lazy.js" {
		t.Errorf("imports = %+v", doc.Imports)
	}
}

func TestScanSyntaxErrorCarriesWarning(t *testing.T) {
	_, err := New(nil).Scan(context.Background(), scan.Request{URL: "bad.js", Text: []byte("class {{{")})
	w, ok := diag.AsWarning(err)
	if !ok {
		t.Fatalf("err = %v, want a warning-carrying error", err)
	}
	if w.Code != diag.ParseError || w.Severity != diag.SevError {
		t.Errorf("warning = %+v", w)
	}
}

func TestScanInlineRangesAreShifted(t *testing.T) {
	req := scan.Request{
		URL:    "page.html",
		Text:   []byte("\nclass A {}\n"),
		Offset: &source.LocationOffset{Line: 4, Col: 8, Filename: "page.html"},
	}
	doc, err := New(nil).Scan(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Features) != 1 {
		t.Fatalf("features = %v", doc.Features)
	}
	got := doc.Features[0].SourceRange()
	want := source.Range{File: "page.html", Start: source.Position{Line: 5, Column: 0}, End: source.Position{Line: 5, Column: 10}}
	if got != want {
		t.Errorf("range = %v, want %v", got, want)
	}
}
