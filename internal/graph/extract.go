package graph

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractEntities walks the syntax tree of one file depth-first and returns
// every entity declared in it, in document order.
//
// The walker keeps a stack of open entity and method frames rather than a
// single mutable slot, so a type or function nested inside another tracked
// declaration restores the outer context when its subtree is left.
func extractEntities(root *tree_sitter.Node, source []byte) []*Entity {
	w := &walker{source: source}

	cursor := root.Walk()
	defer cursor.Close()

	w.walk(cursor)
	return w.entities
}

// methodRef locates an open method as a position inside its entity's method
// list, so appends to the slice stay visible through reallocation.
type methodRef struct {
	entity *Entity
	index  int
}

type walker struct {
	source   []byte
	entities []*Entity

	entityStack []*Entity
	methodStack []methodRef
}

// pushKind records which frame a node pushed, so exit pops the right stack.
type pushKind int

const (
	pushedNone pushKind = iota
	pushedEntity
	pushedMethod
)

func (w *walker) walk(cursor *tree_sitter.TreeCursor) {
	node := cursor.Node()
	pushed := w.enter(node)

	if cursor.GotoFirstChild() {
		w.walk(cursor)
		for cursor.GotoNextSibling() {
			w.walk(cursor)
		}
		cursor.GotoParent()
	}

	switch pushed {
	case pushedEntity:
		w.entityStack = w.entityStack[:len(w.entityStack)-1]
	case pushedMethod:
		w.methodStack = w.methodStack[:len(w.methodStack)-1]
	}
}

// enter dispatches on the node kind. Entities are recorded the moment their
// declaration is entered; members found later in the subtree are appended to
// the record in place.
func (w *walker) enter(node *tree_sitter.Node) pushKind {
	switch node.Kind() {
	case "class_declaration", "protocol_declaration":
		entity := w.buildEntity(node)
		if entity == nil {
			return pushedNone
		}
		w.entities = append(w.entities, entity)
		w.entityStack = append(w.entityStack, entity)
		return pushedEntity

	case "property_declaration", "protocol_property_declaration":
		if top := w.currentEntity(); top != nil {
			top.Properties = append(top.Properties, w.extractProperties(node)...)
		}
		return pushedNone

	case "function_declaration", "protocol_function_declaration":
		top := w.currentEntity()
		if top == nil {
			return pushedNone
		}
		method := w.extractSignature(node)
		if method == nil {
			return pushedNone
		}
		top.Methods = append(top.Methods, *method)
		w.methodStack = append(w.methodStack, methodRef{entity: top, index: len(top.Methods) - 1})
		return pushedMethod

	case "call_expression":
		if ref := w.currentMethod(); ref != nil {
			if callee := w.extractCallee(node); callee != "" {
				m := &ref.entity.Methods[ref.index]
				m.Calls = append(m.Calls, callee)
			}
		}
		return pushedNone
	}
	return pushedNone
}

func (w *walker) currentEntity() *Entity {
	if len(w.entityStack) == 0 {
		return nil
	}
	return w.entityStack[len(w.entityStack)-1]
}

func (w *walker) currentMethod() *methodRef {
	if len(w.methodStack) == 0 {
		return nil
	}
	return &w.methodStack[len(w.methodStack)-1]
}

func (w *walker) text(node *tree_sitter.Node) string {
	return strings.TrimSpace(node.Utf8Text(w.source))
}

// --- Entity builder ---

// buildEntity turns a type-declaration node into an Entity record. The Swift
// grammar uses class_declaration for class, struct, enum, actor and extension
// alike; the declaration keyword decides the kind.
func (w *walker) buildEntity(node *tree_sitter.Node) *Entity {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := w.text(nameNode)
	if name == "" {
		return nil
	}

	kind := declarationKind(node, w.source)
	if kind == KindExtension {
		name = "Extension_of_" + name
	}

	entity := NewEntity(name, kind)

	inherited := w.inheritanceClause(node)
	switch {
	case len(inherited) == 0:
	case kind == KindExtension:
		// An extension clause can only add conformances.
		entity.ConformedProtocols = inherited
	default:
		// Positional heuristic: the grammar does not mark which clause entry
		// is the superclass, so the first entry is assumed to be one and the
		// rest are treated as protocols.
		entity.InheritedTypes = []string{inherited[0]}
		entity.ConformedProtocols = inherited[1:]
	}
	return entity
}

// declarationKind reads the declaration keyword of a type declaration.
func declarationKind(node *tree_sitter.Node, source []byte) EntityKind {
	if node.Kind() == "protocol_declaration" {
		return KindProtocol
	}
	keyword := ""
	if kw := node.ChildByFieldName("declaration_kind"); kw != nil {
		keyword = kw.Utf8Text(source)
	} else {
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil || child.IsNamed() {
				continue
			}
			switch child.Kind() {
			case "class", "struct", "enum", "actor", "extension":
				keyword = child.Kind()
			}
			if keyword != "" {
				break
			}
		}
	}

	switch keyword {
	case "struct":
		return KindStruct
	case "enum":
		return KindEnum
	case "extension":
		return KindExtension
	default:
		// "class", "actor", and anything unrecognized.
		return KindClass
	}
}

// inheritanceClause collects the type names following ":" in declaration
// order. Each clause entry is an inheritance_specifier node.
func (w *walker) inheritanceClause(node *tree_sitter.Node) []string {
	var names []string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "inheritance_specifier" {
			continue
		}
		if name := w.text(child); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// --- Signature extractor ---

// extractSignature reads a function declaration's name, parameter clause and
// return clause into a Method record.
func (w *walker) extractSignature(node *tree_sitter.Node) *Method {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	method := &Method{
		Name:       w.text(nameNode),
		Parameters: []Parameter{},
		Calls:      []string{},
	}

	// The signature's children are inlined into the declaration node:
	// "func", name, "(", parameter..., ")", modifiers, ["->", type], body.
	// The named node following the arrow token is the return type.
	afterArrow := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch {
		case child.Kind() == "parameter":
			method.Parameters = append(method.Parameters, w.extractParameter(child))
		case child.Kind() == "->":
			afterArrow = true
		case afterArrow && child.IsNamed() && method.ReturnType == "":
			method.ReturnType = w.text(child)
		}
	}
	return method
}

// extractParameter reads one parameter node. The identifiers preceding the
// colon are the declared names: a single identifier is the internal name, a
// pair is an external label plus internal name. The first named node after
// the colon is the type annotation; its trimmed text is kept, or dropped
// when empty.
func (w *walker) extractParameter(node *tree_sitter.Node) Parameter {
	var names []string
	var typeText string

	seenColon := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == ":" {
			seenColon = true
			continue
		}
		if !seenColon {
			if child.Kind() == "simple_identifier" || child.Utf8Text(w.source) == "_" {
				names = append(names, w.text(child))
			}
			continue
		}
		if typeText == "" && child.IsNamed() && child.Kind() != "parameter_modifiers" {
			typeText = w.text(child)
		}
	}

	var param Parameter
	switch len(names) {
	case 0:
	case 1:
		param.InternalName = names[0]
	default:
		param.ExternalName = names[0]
		param.InternalName = names[1]
	}
	param.Type = typeText
	return param
}

// --- Property extraction ---

// extractProperties reads a variable declaration into zero or more Property
// records. A single declaration may bind several names (var x = 1, y = 2);
// each bound pattern may carry its own type annotation. A binding without an
// annotation gets the Unknown sentinel.
func (w *walker) extractProperties(node *tree_sitter.Node) []Property {
	var props []Property
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "pattern":
			props = append(props, Property{Name: w.text(child), Type: UnknownType})
		case "type_annotation":
			if len(props) > 0 && props[len(props)-1].Type == UnknownType {
				props[len(props)-1].Type = annotationType(child, w.source)
			}
		}
	}
	return props
}

// annotationType renders a type_annotation node without its leading colon.
func annotationType(node *tree_sitter.Node, source []byte) string {
	text := strings.TrimSpace(node.Utf8Text(source))
	text = strings.TrimSpace(strings.TrimPrefix(text, ":"))
	if text == "" {
		return UnknownType
	}
	return text
}

// --- Call recorder ---

// extractCallee renders the callee sub-expression of a call, qualification
// kept exactly as written (player.play, super.viewDidLoad, setupTableView).
// The argument list is not part of the record; nested calls inside it are
// reached later by the walk and recorded in document order.
func (w *walker) extractCallee(node *tree_sitter.Node) string {
	callee := node.NamedChild(0)
	if callee == nil {
		return ""
	}
	return w.text(callee)
}
