package domain

// PropertyKind identifies the semantic type of a declared property.
type PropertyKind string

const (
	KindString    PropertyKind = "string"
	KindFloat     PropertyKind = "float"
	KindInteger   PropertyKind = "integer"
	KindBoolean   PropertyKind = "boolean"
	KindTimestamp PropertyKind = "timestamp"

	// Composite kinds reference other declared entity types. They are never
	// accepted by the scalar declaration path; the schema builder assigns
	// them when a composite property is declared.
	KindEntity     PropertyKind = "entity"
	KindEntityList PropertyKind = "entity_list"
)

// Scalar reports whether the kind is one of the five recognized scalar kinds.
func (k PropertyKind) Scalar() bool {
	switch k {
	case KindString, KindFloat, KindInteger, KindBoolean, KindTimestamp:
		return true
	}
	return false
}

// Composite reports whether the kind references a nested entity type.
func (k PropertyKind) Composite() bool {
	return k == KindEntity || k == KindEntityList
}

// PropertyDeclaration describes one named property on an entity type.
type PropertyDeclaration struct {
	Name     string
	Kind     PropertyKind
	Optional bool

	// Default is a static default value. DefaultFunc produces a fresh value
	// on every resolution; at most one of the two may be set.
	Default     any
	DefaultFunc func() any

	// Alias is an alternate external name under which input data may supply
	// this property. At most one alias per property.
	Alias string

	// Nested is the declared type backing a composite property. For
	// KindEntityList it is the element type.
	Nested *Schema
}

// HasDefault reports whether the declaration carries a static or callable
// default.
func (d PropertyDeclaration) HasDefault() bool {
	return d.Default != nil || d.DefaultFunc != nil
}

// resolveDefault produces the declaration's default value. Callable defaults
// are invoked fresh on every call, never cached. Optional properties without
// a default resolve to the explicit Unset marker, not to an omission.
func (d PropertyDeclaration) resolveDefault() any {
	if d.DefaultFunc != nil {
		return d.DefaultFunc()
	}
	if d.Default != nil {
		return d.Default
	}
	return Unset
}

// EntityType is implemented by every declared entity type descriptor.
// Composite declarations are validated against this capability instead of a
// fixed list of types, so any future declared type nests without changes to
// the declaration path. *Schema implements it.
type EntityType interface {
	EntitySchema() *Schema
}
