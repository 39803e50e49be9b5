package graph

// --- Enums ---

// EntityKind classifies a top-level Swift type declaration.
type EntityKind string

const (
	KindClass     EntityKind = "class"
	KindStruct    EntityKind = "struct"
	KindEnum      EntityKind = "enum"
	KindProtocol  EntityKind = "protocol"
	KindExtension EntityKind = "extension"
)

// DuplicatePolicy controls what happens when two entities with the same name
// are registered in a store.
type DuplicatePolicy string

const (
	// PolicyOverwrite replaces the earlier entity wholesale. Members recorded
	// against the old entity are lost. This matches the reference behavior.
	PolicyOverwrite DuplicatePolicy = "overwrite"

	// PolicyMerge appends the new entity's properties and methods to the
	// existing record and unions the inheritance lists.
	PolicyMerge DuplicatePolicy = "merge"
)

// UnknownType is the sentinel recorded for a property with no type annotation.
const UnknownType = "Unknown"

// --- Models ---

// Entity is a top-level type declaration in the dependency graph. For an
// extension the name is synthesized as "Extension_of_<ExtendedType>".
type Entity struct {
	Name string     `json:"name"`
	Kind EntityKind `json:"kind"`

	// InheritedTypes holds the first name of the inheritance clause, which is
	// assumed to be a superclass. The grammar does not distinguish a
	// superclass from a protocol in this list, so for a protocol-only clause
	// the first entry is misclassified. Downstream consumers must treat these
	// two fields as approximate.
	InheritedTypes     []string `json:"inheritedTypes"`
	ConformedProtocols []string `json:"conformedProtocols"`

	Properties []Property `json:"properties"`
	Methods    []Method   `json:"methods"`
}

// Property is a declared variable binding attributed to an entity.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Method is a function declaration attributed to an entity. Calls holds the
// raw callee text of every call expression inside the body, in document
// order, duplicates included.
type Method struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returnType,omitempty"`
	Calls      []string    `json:"calls"`
}

// Parameter is one entry of a function's parameter clause. ExternalName is
// set only when the declaration supplies a distinct label/name pair.
type Parameter struct {
	ExternalName string `json:"externalName,omitempty"`
	InternalName string `json:"internalName"`
	Type         string `json:"type,omitempty"`
}

// GraphStats summarizes an extracted dependency graph.
type GraphStats struct {
	EntityCount   int `json:"entityCount"`
	PropertyCount int `json:"propertyCount"`
	MethodCount   int `json:"methodCount"`
	CallCount     int `json:"callCount"`
}

// NewEntity returns an Entity with all member slices initialized, so the JSON
// encoding always carries the full field set.
func NewEntity(name string, kind EntityKind) *Entity {
	return &Entity{
		Name:               name,
		Kind:               kind,
		InheritedTypes:     []string{},
		ConformedProtocols: []string{},
		Properties:         []Property{},
		Methods:            []Method{},
	}
}

// Merge folds other into e: properties and methods are appended, inheritance
// lists are unioned preserving first-seen order.
func (e *Entity) Merge(other *Entity) {
	e.Properties = append(e.Properties, other.Properties...)
	e.Methods = append(e.Methods, other.Methods...)
	e.InheritedTypes = unionOrdered(e.InheritedTypes, other.InheritedTypes)
	e.ConformedProtocols = unionOrdered(e.ConformedProtocols, other.ConformedProtocols)
}

// unionOrdered appends entries of b not already present in a.
func unionOrdered(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			a = append(a, v)
		}
	}
	return a
}
