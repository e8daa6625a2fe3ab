package model

// ScannedNamespace is a namespace object such as `Polymer.Foo = {}`.
type ScannedNamespace struct {
	ScannedBase
	Name string
}

// Namespace groups declarations under a dotted name.
type Namespace struct {
	featureBase
	Name        string
	Description string
}

func (s *ScannedNamespace) Resolve(doc *Document) Feature {
	ns := &Namespace{Name: s.Name, Description: s.Description}
	ns.kinds = Kinds(KindNamespace)
	ns.addIdentifier(s.Name)
	ns.sourceRange = s.Range
	ns.astNode = s.Node
	ns.addWarning(s.Warns...)
	return ns
}

// ScannedFunction is a documented free function.
type ScannedFunction struct {
	ScannedBase
	Name    string
	Params  []Param
	Return  string
	Privacy Privacy
}

// Function is a free function.
type Function struct {
	featureBase
	Name        string
	Description string
	Params      []Param
	Return      string
	Privacy     Privacy
}

func (s *ScannedFunction) Resolve(doc *Document) Feature {
	fn := &Function{
		Name:        s.Name,
		Description: s.Description,
		Params:      s.Params,
		Return:      s.Return,
		Privacy:     s.Privacy,
	}
	fn.kinds = Kinds(KindFunction)
	fn.addIdentifier(s.Name)
	fn.sourceRange = s.Range
	fn.astNode = s.Node
	fn.addWarning(s.Warns...)
	return fn
}

// ScannedElementReference is a use of a custom element in markup.
type ScannedElementReference struct {
	ScannedBase
	TagName    string
	Attributes []AttributeUse
}

// AttributeUse is an attribute written on an element reference.
type AttributeUse struct {
	Name  string
	Value string
}

// ElementReference is a use of a custom element. It identifies by tag name.
type ElementReference struct {
	featureBase
	TagName    string
	Attributes []AttributeUse
}

func (s *ScannedElementReference) Resolve(doc *Document) Feature {
	ref := &ElementReference{TagName: s.TagName, Attributes: s.Attributes}
	ref.kinds = Kinds(KindElementReference)
	ref.addIdentifier(s.TagName)
	ref.sourceRange = s.Range
	ref.astNode = s.Node
	ref.addWarning(s.Warns...)
	return ref
}

// ScannedDomModule is a <dom-module> template definition.
type ScannedDomModule struct {
	ScannedBase
	ID string
}

// DomModule is a template registered under an id.
type DomModule struct {
	featureBase
	ID          string
	Description string
}

func (s *ScannedDomModule) Resolve(doc *Document) Feature {
	if s.ID == "" {
		return nil
	}
	m := &DomModule{ID: s.ID, Description: s.Description}
	m.kinds = Kinds(KindDomModule)
	m.addIdentifier(s.ID)
	m.sourceRange = s.Range
	m.astNode = s.Node
	m.addWarning(s.Warns...)
	return m
}
