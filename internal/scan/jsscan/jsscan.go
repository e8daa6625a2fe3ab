//go:build cgo

// Package jsscan scans scripts with tree-sitter: classes and custom
// elements, mixin functions, Polymer() calls and behaviors, namespaces,
// functions and module imports.
package jsscan

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"plexus/internal/diag"
	"plexus/internal/model"
	"plexus/internal/scan"
	"plexus/internal/source"
)

// Available reports whether script scanning is compiled in.
func Available() bool { return true }

// Scanner scans JavaScript documents.
type Scanner struct {
	resolver scan.Resolver
}

// New creates a script scanner. resolver may be nil.
func New(resolver scan.Resolver) *Scanner {
	return &Scanner{resolver: resolver}
}

func (s *Scanner) Scan(ctx context.Context, req scan.Request) (*model.ScannedDocument, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, req.Text)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	v := &visitor{
		src:      req.Text,
		url:      req.URL,
		loc:      scan.NewLocator(req),
		resolver: s.resolver,
		classes:  make(map[string]*model.ScannedClass),
		seen:     make(map[string]struct{}),
	}
	v.doc = &model.ScannedDocument{
		URL:            req.URL,
		Kind:           model.KindJSDocument,
		SourceRange:    v.loc.Whole(),
		LocationOffset: req.Offset,
	}

	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		what := "syntax"
		if bad.IsMissing() {
			what = "missing " + bad.Type()
		} else if text := strings.TrimSpace(v.text(bad)); text != "" {
			what = fmt.Sprintf("token %q", clip(text, 20))
		}
		w := diag.NewError(diag.ParseError, v.rangeOf(bad), "Unable to parse script: unexpected "+what)
		return nil, diag.NewWarningCarryingError(w, nil)
	}
	v.walk(root)
	v.applyDefines()
	return v.doc, nil
}

type visitor struct {
	src      []byte
	url      string
	loc      scan.Locator
	resolver scan.Resolver
	doc      *model.ScannedDocument

	classes map[string]*model.ScannedClass
	defines []define
	seen    map[string]struct{}
}

// define is a customElements.define call naming a class declared elsewhere.
type define struct {
	tag   string
	class string
}

func (v *visitor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(v.src)
}

func (v *visitor) rangeOf(n *sitter.Node) source.Range {
	return v.loc.Range(int(n.StartByte()), int(n.EndByte()))
}

func (v *visitor) add(f model.ScannedFeature) {
	v.doc.Features = append(v.doc.Features, f)
}

func (v *visitor) walk(n *sitter.Node) {
	switch n.Type() {
	case "import_statement", "export_statement":
		if src := n.ChildByFieldName("source"); src != nil {
			v.addImport(src, false, n)
		}
		if n.Type() == "export_statement" {
			v.walkChildren(n)
		}
		return
	case "class_declaration":
		v.classDecl(n, v.text(n.ChildByFieldName("name")), docFor(n, v.src), "")
		return
	case "function_declaration":
		if v.functionDecl(n) {
			return
		}
	case "variable_declarator":
		if v.binding(n, v.text(n.ChildByFieldName("name")), n.ChildByFieldName("value")) {
			return
		}
	case "assignment_expression":
		left := n.ChildByFieldName("left")
		if left != nil && (left.Type() == "member_expression" || left.Type() == "identifier") {
			if v.binding(n, v.text(left), n.ChildByFieldName("right")) {
				return
			}
		}
	case "call_expression":
		if v.call(n) {
			return
		}
	}
	v.walkChildren(n)
}

func (v *visitor) walkChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		v.walk(n.NamedChild(i))
	}
}

// binding handles `name = value` in declarations and assignments. It
// reports whether value was fully consumed.
func (v *visitor) binding(n *sitter.Node, name string, value *sitter.Node) bool {
	if value == nil || name == "" {
		return false
	}
	doc := docFor(n, v.src)
	switch value.Type() {
	case "class":
		v.classDecl(value, name, doc, "")
		return true
	case "arrow_function", "function", "function_expression":
		if cls, param := mixinBody(value, v.src); cls != nil {
			v.mixin(n, cls, name, param, doc)
			return true
		}
		if doc.Has("function") || doc.Has("memberof") {
			v.addFunction(n, name, value, doc)
		}
		return false
	case "object":
		if doc.Has("polymerBehavior") {
			v.behavior(n, value, name, doc)
			return true
		}
		if doc.Has("namespace") {
			ns := &model.ScannedNamespace{Name: tagNameOr(doc, "namespace", name)}
			ns.Range = v.rangeOf(n)
			ns.Node = n
			ns.Description = doc.Desc()
			v.add(ns)
		}
		return false
	case "array":
		// Behavior arrays: `/** @polymerBehavior */ B = [A, BImpl]`.
		if doc.Has("polymerBehavior") {
			b := v.newClass(n, model.VariantBehavior, tagNameOr(doc, "polymerBehavior", name), doc)
			b.Polymer = &model.ScannedPolymer{Behaviors: v.behaviorRefs(b, value)}
			v.add(b)
			return true
		}
	}
	return false
}

// call handles Polymer({...}), customElements.define and dynamic import().
func (v *visitor) call(n *sitter.Node) bool {
	fn := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if fn == nil || args == nil {
		return false
	}
	switch {
	case fn.Type() == "import":
		if arg := nthArg(args, 0); arg != nil && arg.Type() == "string" {
			v.addImport(arg, true, n)
		}
		return false
	case v.text(fn) == "Polymer":
		obj := nthArg(args, 0)
		if obj == nil || obj.Type() != "object" {
			return false
		}
		doc := docFor(n, v.src)
		el := v.newClass(n, model.VariantPolymerElement, "", doc)
		v.polymerObject(el, obj)
		v.add(el)
		return true
	case strings.HasSuffix(v.text(fn), "customElements.define"):
		tagNode, classNode := nthArg(args, 0), nthArg(args, 1)
		tag, ok := stringValue(tagNode, v.src)
		if !ok || classNode == nil {
			return false
		}
		switch classNode.Type() {
		case "class":
			v.classDecl(classNode, v.text(classNode.ChildByFieldName("name")), docFor(n, v.src), tag)
			return true
		case "identifier", "member_expression":
			v.defines = append(v.defines, define{tag: tag, class: v.text(classNode)})
		}
		return false
	}
	return false
}

// applyDefines turns classes registered by customElements.define into
// elements.
func (v *visitor) applyDefines() {
	for _, d := range v.defines {
		c, ok := v.classes[d.class]
		if !ok {
			continue
		}
		c.TagName = d.tag
		if c.Variant == model.VariantClass {
			c.Variant = model.VariantElement
		}
	}
}

func (v *visitor) addImport(src *sitter.Node, lazy bool, stmt *sitter.Node) {
	href, ok := stringValue(src, v.src)
	if !ok {
		return
	}
	imp := &model.ScannedImport{OriginalURL: href, Type: model.KindJSImport, Lazy: lazy}
	imp.Range = v.rangeOf(stmt)
	imp.Node = stmt
	// Bare specifiers name packages, not files.
	if v.resolver != nil && (strings.HasPrefix(href, ".") || strings.HasPrefix(href, "/")) {
		if url, ok := v.resolver.ResolveFrom(v.url, href); ok {
			imp.URL = url
		}
	}
	if imp.URL == "" && !strings.HasPrefix(href, ".") && !strings.HasPrefix(href, "/") {
		// Unresolvable bare module specifiers are not reported.
		return
	}
	v.add(imp)
	if imp.URL == "" {
		return
	}
	key := imp.URL
	if lazy {
		key = "lazy:" + key
	}
	if _, dup := v.seen[key]; dup {
		return
	}
	v.seen[key] = struct{}{}
	v.doc.Imports = append(v.doc.Imports, model.ScannedDependency{URL: imp.URL, Lazy: lazy})
}

func (v *visitor) newClass(n *sitter.Node, variant model.ClassVariant, name string, doc *Doc) *model.ScannedClass {
	c := &model.ScannedClass{Variant: variant, Name: name}
	c.Range = v.rangeOf(n)
	c.Node = n
	c.Description = doc.Desc()
	c.Events = doc.events()
	for i := range c.Events {
		c.Events[i].SourceRange = c.Range
	}
	for _, t := range doc.All("mixes", "appliesMixin") {
		if t.Name != "" {
			c.Mixins = append(c.Mixins, model.NewScannedReference(t.Name, model.RoleMixin, c.Range))
		}
	}
	return c
}

// classDecl scans a class declaration or expression.
func (v *visitor) classDecl(n *sitter.Node, name string, doc *Doc, tag string) *model.ScannedClass {
	c := v.newClass(n, model.VariantClass, name, doc)
	superName := ""
	if h := heritage(n); h != nil {
		sup, mixins := v.superChain(h)
		superName = sup
		if sup != "" {
			c.SuperClass = model.NewScannedReference(sup, model.RoleSuperclass, v.rangeOf(h))
		}
		for _, m := range mixins {
			c.Mixins = append(c.Mixins, model.NewScannedReference(m, model.RoleMixin, v.rangeOf(h)))
		}
	}
	if t, ok := doc.Tag("extends"); ok && t.Name != "" {
		c.SuperClass = model.NewScannedReference(t.Name, model.RoleSuperclass, c.Range)
		superName = t.Name
	} else if t, ok := doc.Tag("augments"); ok && t.Name != "" {
		c.SuperClass = model.NewScannedReference(t.Name, model.RoleSuperclass, c.Range)
		superName = t.Name
	}
	if body := n.ChildByFieldName("body"); body != nil {
		v.classBody(c, body)
	}
	if tag != "" {
		c.TagName = tag
	}
	if t, ok := doc.Tag("customElement"); ok && t.Name != "" && c.TagName == "" {
		c.TagName = t.Name
	}

	polymer := doc.Has("polymer") || isPolymerBase(superName) || hasPolymerMixin(c.Mixins)
	switch {
	case polymer && (c.TagName != "" || doc.Has("customElement") || superName != ""):
		c.Variant = model.VariantPolymerElement
	case c.TagName != "" || doc.Has("customElement") || superName == "HTMLElement":
		c.Variant = model.VariantElement
	}
	if name != "" {
		v.classes[name] = c
	}
	v.add(c)
	return c
}

// mixin scans `M = (base) => class extends base {...}` and the function
// declaration form.
func (v *visitor) mixin(n, cls *sitter.Node, name, param string, doc *Doc) {
	c := v.newClass(n, model.VariantElementMixin, name, doc)
	if doc.Has("polymer") {
		c.Variant = model.VariantPolymerElementMixin
	}
	if h := heritage(cls); h != nil {
		sup, mixins := v.superChain(h)
		// The mixin's own parameter is not a superclass.
		if sup != "" && sup != param {
			c.SuperClass = model.NewScannedReference(sup, model.RoleSuperclass, v.rangeOf(h))
		}
		for _, m := range mixins {
			c.Mixins = append(c.Mixins, model.NewScannedReference(m, model.RoleMixin, v.rangeOf(h)))
		}
	}
	if body := cls.ChildByFieldName("body"); body != nil {
		v.classBody(c, body)
	}
	v.add(c)
}

// functionDecl reports whether the declaration was consumed as a mixin.
// Only top-level functions become features; nested ones are helpers.
func (v *visitor) functionDecl(n *sitter.Node) bool {
	name := v.text(n.ChildByFieldName("name"))
	doc := docFor(n, v.src)
	if cls, param := mixinBody(n, v.src); cls != nil {
		v.mixin(n, cls, name, param, doc)
		return true
	}
	if p := n.Parent(); p != nil && (p.Type() == "program" || p.Type() == "export_statement") {
		v.addFunction(n, name, n, doc)
	}
	return false
}

func (v *visitor) addFunction(n *sitter.Node, name string, fn *sitter.Node, doc *Doc) {
	if name == "" {
		return
	}
	f := &model.ScannedFunction{
		Name:    tagNameOr(doc, "function", name),
		Params:  v.params(fn, doc),
		Return:  doc.returnType(),
		Privacy: privacyOf(doc, lastSegment(name)),
	}
	f.Range = v.rangeOf(n)
	f.Node = n
	f.Description = doc.Desc()
	v.add(f)
}

func (v *visitor) behavior(n, obj *sitter.Node, name string, doc *Doc) {
	b := v.newClass(n, model.VariantBehavior, tagNameOr(doc, "polymerBehavior", name), doc)
	v.polymerObject(b, obj)
	v.add(b)
}

// classBody collects methods, accessors, fields and the Polymer static
// getters of a class body.
func (v *visitor) classBody(c *model.ScannedClass, body *sitter.Node) {
	accessors := make(map[string]int)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		switch m.Type() {
		case "method_definition":
			name := v.text(m.ChildByFieldName("name"))
			static := hasToken(m, "static")
			getter, setter := hasToken(m, "get"), hasToken(m, "set")
			doc := docFor(m, v.src)
			switch {
			case static && getter:
				v.staticGetter(c, name, m)
			case getter || setter:
				if idx, ok := accessors[name]; ok {
					if setter {
						c.Properties[idx].ReadOnly = false
					}
					continue
				}
				accessors[name] = len(c.Properties)
				c.Properties = append(c.Properties, model.Property{
					Name:        name,
					Type:        typeOf(doc),
					Description: doc.Desc(),
					Privacy:     privacyOf(doc, name),
					ReadOnly:    getter,
					SourceRange: v.rangeOf(m),
				})
			case name == "constructor":
			default:
				c.Methods = append(c.Methods, v.method(m, name, m, doc, static))
			}
		case "field_definition":
			if hasToken(m, "static") {
				continue
			}
			name := v.text(m.ChildByFieldName("property"))
			doc := docFor(m, v.src)
			p := model.Property{
				Name:        name,
				Type:        typeOf(doc),
				Description: doc.Desc(),
				Privacy:     privacyOf(doc, name),
				SourceRange: v.rangeOf(m),
			}
			if val := m.ChildByFieldName("value"); val != nil {
				p.Default = v.text(val)
			}
			c.Properties = append(c.Properties, p)
		}
	}
}

func (v *visitor) staticGetter(c *model.ScannedClass, name string, m *sitter.Node) {
	ret := returnedValue(m.ChildByFieldName("body"))
	if ret == nil {
		return
	}
	switch name {
	case "is":
		if tag, ok := stringValue(ret, v.src); ok {
			c.TagName = tag
		}
	case "properties":
		if ret.Type() != "object" {
			c.AddWarning(diag.NewWarning(diag.InvalidPropertiesObject, v.rangeOf(ret),
				"`properties` must return an object literal"))
			return
		}
		c.Properties = append(c.Properties, v.polymerProperties(ret)...)
	case "observers":
		v.polymer(c).Observers = append(v.polymer(c).Observers, v.observers(c, ret)...)
	}
}

func (v *visitor) polymer(c *model.ScannedClass) *model.ScannedPolymer {
	if c.Polymer == nil {
		c.Polymer = &model.ScannedPolymer{}
	}
	return c.Polymer
}

// polymerObject reads a Polymer({...}) or behavior object literal.
func (v *visitor) polymerObject(c *model.ScannedClass, obj *sitter.Node) {
	p := v.polymer(c)
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		member := obj.NamedChild(i)
		doc := docFor(member, v.src)
		switch member.Type() {
		case "method_definition":
			name := v.text(member.ChildByFieldName("name"))
			c.Methods = append(c.Methods, v.method(member, name, member, doc, false))
		case "pair":
			key := v.propertyKey(member.ChildByFieldName("key"))
			value := member.ChildByFieldName("value")
			if value == nil {
				continue
			}
			switch key {
			case "is":
				if tag, ok := stringValue(value, v.src); ok {
					c.TagName = tag
				}
			case "properties":
				if value.Type() != "object" {
					c.AddWarning(diag.NewWarning(diag.InvalidPropertiesObject, v.rangeOf(value),
						"`properties` must be an object literal"))
					continue
				}
				c.Properties = append(c.Properties, v.polymerProperties(value)...)
			case "behaviors":
				p.Behaviors = append(p.Behaviors, v.behaviorRefs(c, value)...)
			case "observers":
				p.Observers = append(p.Observers, v.observers(c, value)...)
			case "listeners":
				p.Listeners = append(p.Listeners, v.listeners(value)...)
			default:
				switch value.Type() {
				case "function", "function_expression", "arrow_function":
					c.Methods = append(c.Methods, v.method(member, key, value, doc, false))
				}
			}
		}
	}
}

func (v *visitor) behaviorRefs(c *model.ScannedClass, value *sitter.Node) []*model.ScannedReference {
	if value.Type() != "array" {
		c.AddWarning(diag.NewWarning(diag.InvalidBehaviorsAssignment, v.rangeOf(value),
			"`behaviors` must be an array of behavior references"))
		return nil
	}
	var out []*model.ScannedReference
	for i := 0; i < int(value.NamedChildCount()); i++ {
		el := value.NamedChild(i)
		switch el.Type() {
		case "identifier", "member_expression":
			out = append(out, model.NewScannedReference(v.text(el), model.RoleBehavior, v.rangeOf(el)))
		case "comment":
		default:
			c.AddWarning(diag.NewWarning(diag.InvalidBehaviorsAssignment, v.rangeOf(el),
				"Expected a behavior reference, found "+el.Type()))
		}
	}
	return out
}

func (v *visitor) observers(c *model.ScannedClass, value *sitter.Node) []model.Observer {
	if value.Type() != "array" {
		c.AddWarning(diag.NewWarning(diag.InvalidObserver, v.rangeOf(value), "`observers` must be an array of strings"))
		return nil
	}
	var out []model.Observer
	for i := 0; i < int(value.NamedChildCount()); i++ {
		el := value.NamedChild(i)
		if el.Type() == "comment" {
			continue
		}
		expr, ok := stringValue(el, v.src)
		if !ok {
			c.AddWarning(diag.NewWarning(diag.InvalidObserver, v.rangeOf(el), "Observers must be string literals"))
			continue
		}
		out = append(out, model.Observer{Expression: expr, SourceRange: v.rangeOf(el)})
	}
	return out
}

func (v *visitor) listeners(value *sitter.Node) []model.Listener {
	if value.Type() != "object" {
		return nil
	}
	var out []model.Listener
	for i := 0; i < int(value.NamedChildCount()); i++ {
		pair := value.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		handler, ok := stringValue(pair.ChildByFieldName("value"), v.src)
		if !ok {
			continue
		}
		out = append(out, model.Listener{
			Event:       v.propertyKey(pair.ChildByFieldName("key")),
			Handler:     handler,
			SourceRange: v.rangeOf(pair),
		})
	}
	return out
}

// polymerProperties reads a Polymer `properties` object.
func (v *visitor) polymerProperties(obj *sitter.Node) []model.Property {
	var out []model.Property
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		var name string
		var value *sitter.Node
		switch pair.Type() {
		case "pair":
			name = v.propertyKey(pair.ChildByFieldName("key"))
			value = pair.ChildByFieldName("value")
		case "shorthand_property_identifier":
			name = v.text(pair)
		default:
			continue
		}
		doc := docFor(pair, v.src)
		p := model.Property{
			Name:        name,
			Type:        typeOf(doc),
			Description: doc.Desc(),
			Privacy:     privacyOf(doc, name),
			SourceRange: v.rangeOf(pair),
		}
		if value != nil {
			switch value.Type() {
			case "identifier":
				p.Type = v.text(value)
			case "object":
				v.propertyOptions(&p, value)
			}
		}
		out = append(out, p)
	}
	return out
}

func (v *visitor) propertyOptions(p *model.Property, obj *sitter.Node) {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		value := pair.ChildByFieldName("value")
		switch v.propertyKey(pair.ChildByFieldName("key")) {
		case "type":
			if p.Type == "" {
				p.Type = v.text(value)
			}
		case "value":
			switch value.Type() {
			case "function", "function_expression", "arrow_function":
				p.Default = "function"
			default:
				p.Default = v.text(value)
			}
		case "notify":
			p.Notify = v.text(value) == "true"
		case "readOnly":
			p.ReadOnly = v.text(value) == "true"
		case "reflectToAttribute":
			p.ReflectToAttribute = v.text(value) == "true"
		case "observer":
			if s, ok := stringValue(value, v.src); ok {
				p.Observer = s
			}
		case "computed":
			p.ReadOnly = true
		}
	}
}

func (v *visitor) method(n *sitter.Node, name string, fn *sitter.Node, doc *Doc, static bool) model.Method {
	return model.Method{
		Name:        name,
		Description: doc.Desc(),
		Params:      v.params(fn, doc),
		Return:      doc.returnType(),
		Privacy:     privacyOf(doc, name),
		Static:      static,
		SourceRange: v.rangeOf(n),
	}
}

// params merges the declared parameter list with @param annotations.
func (v *visitor) params(fn *sitter.Node, doc *Doc) []model.Param {
	annotated := doc.params()
	byName := make(map[string]model.Param, len(annotated))
	for _, p := range annotated {
		byName[p.Name] = p
	}
	list := fn.ChildByFieldName("parameters")
	if list == nil {
		if single := fn.ChildByFieldName("parameter"); single != nil {
			return mergeParam(nil, byName, v.text(single), false)
		}
		return annotated
	}
	var out []model.Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = mergeParam(out, byName, v.text(p), false)
		case "assignment_pattern":
			out = mergeParam(out, byName, v.text(p.ChildByFieldName("left")), false)
		case "rest_pattern":
			out = mergeParam(out, byName, strings.TrimPrefix(v.text(p), "..."), true)
		case "object_pattern", "array_pattern":
			out = mergeParam(out, byName, v.text(p), false)
		}
	}
	return out
}

func mergeParam(out []model.Param, annotated map[string]model.Param, name string, rest bool) []model.Param {
	p, ok := annotated[name]
	if !ok {
		p = model.Param{Name: name}
	}
	p.Rest = p.Rest || rest
	return append(out, p)
}

func (v *visitor) propertyKey(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if s, ok := stringValue(n, v.src); ok {
		return s
	}
	return v.text(n)
}

// superChain unwraps `A(B(Base))` into the base and the mixins in
// application order (B, then A).
func (v *visitor) superChain(expr *sitter.Node) (string, []string) {
	switch expr.Type() {
	case "identifier", "member_expression":
		return v.text(expr), nil
	case "parenthesized_expression":
		if expr.NamedChildCount() > 0 {
			return v.superChain(expr.NamedChild(0))
		}
	case "call_expression":
		fn := expr.ChildByFieldName("function")
		inner := nthArg(expr.ChildByFieldName("arguments"), 0)
		if inner == nil {
			return "", []string{v.text(fn)}
		}
		base, mixins := v.superChain(inner)
		return base, append(mixins, v.text(fn))
	}
	return "", nil
}

func heritage(class *sitter.Node) *sitter.Node {
	for i := 0; i < int(class.NamedChildCount()); i++ {
		c := class.NamedChild(i)
		if c.Type() == "class_heritage" && c.NamedChildCount() > 0 {
			return c.NamedChild(0)
		}
	}
	return nil
}

// mixinBody recognizes a function returning `class extends <param>`. It
// returns the class node and the parameter name.
func mixinBody(fn *sitter.Node, src []byte) (*sitter.Node, string) {
	param := ""
	if ps := fn.ChildByFieldName("parameters"); ps != nil && ps.NamedChildCount() > 0 {
		first := ps.NamedChild(0)
		if first.Type() == "identifier" {
			param = first.Content(src)
		}
	}
	if p := fn.ChildByFieldName("parameter"); p != nil {
		param = p.Content(src)
	}
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil, ""
	}
	var cls *sitter.Node
	if body.Type() == "class" {
		cls = body
	} else {
		cls = returnedValue(body)
	}
	if cls == nil || cls.Type() != "class" || heritage(cls) == nil {
		return nil, ""
	}
	return cls, param
}

// returnedValue finds the expression of the first top-level return
// statement of a function body.
func returnedValue(body *sitter.Node) *sitter.Node {
	if body == nil || body.Type() != "statement_block" {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		st := body.NamedChild(i)
		if st.Type() != "return_statement" || st.NamedChildCount() == 0 {
			continue
		}
		v := st.NamedChild(0)
		for v.Type() == "parenthesized_expression" && v.NamedChildCount() > 0 {
			v = v.NamedChild(0)
		}
		return v
	}
	return nil
}

// docFor returns the doc comment attached to n or to the statement that
// wraps it.
func docFor(n *sitter.Node, src []byte) *Doc {
	for cur := n; cur != nil; cur = cur.Parent() {
		if prev := cur.PrevNamedSibling(); prev != nil {
			if prev.Type() == "comment" {
				return ParseDoc(prev.Content(src))
			}
			return nil
		}
		parent := cur.Parent()
		if parent == nil {
			return nil
		}
		switch parent.Type() {
		case "export_statement", "lexical_declaration", "variable_declaration",
			"variable_declarator", "expression_statement", "assignment_expression":
		default:
			return nil
		}
	}
	return nil
}

func nthArg(args *sitter.Node, n int) *sitter.Node {
	if args == nil {
		return nil
	}
	idx := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		a := args.NamedChild(i)
		if a.Type() == "comment" {
			continue
		}
		if idx == n {
			return a
		}
		idx++
	}
	return nil
}

// stringValue returns the contents of a plain string literal.
func stringValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
		s := n.Content(src)
		if len(s) < 2 {
			return "", false
		}
		return s[1 : len(s)-1], true
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
		s := n.Content(src)
		return s[1 : len(s)-1], true
	}
	return "", false
}

// hasToken reports whether n has an anonymous child token tok, such as
// "static" or "get".
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() || c.IsMissing() {
			return firstError(c)
		}
	}
	return n
}

func isPolymerBase(name string) bool {
	switch name {
	case "Polymer.Element", "PolymerElement", "Polymer.LegacyElement":
		return true
	}
	return false
}

func hasPolymerMixin(mixins []*model.ScannedReference) bool {
	for _, m := range mixins {
		if strings.HasPrefix(m.Identifier, "Polymer.") {
			return true
		}
	}
	return false
}

func typeOf(doc *Doc) string {
	if t, ok := doc.Tag("type"); ok {
		return t.Type
	}
	return ""
}

// tagNameOr returns the name given to tag title, or def.
func tagNameOr(doc *Doc, title, def string) string {
	if t, ok := doc.Tag(title); ok && t.Name != "" {
		return t.Name
	}
	return def
}

func lastSegment(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
