package domain

import (
	"reflect"
	"strings"
)

// unsetMarker is the explicit "no value" representation for optional
// properties. It is a real value rather than an omission so consumers can
// tell "declared but empty" apart from "never declared".
type unsetMarker struct{}

func (unsetMarker) String() string { return "<unset>" }

// Unset marks an optional property that resolved without a value.
var Unset = unsetMarker{}

// IsUnset reports whether v is the Unset marker.
func IsUnset(v any) bool {
	_, ok := v.(unsetMarker)
	return ok
}

// IsBlank reports whether v carries no disclosable content. Nil, Unset,
// whitespace-only strings, and empty slices or maps are blank.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case unsetMarker:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// Entity is an immutable, materialized instance of a declared entity type.
// It is constructed once from the schema plus raw input, lives for the
// duration of a single receipt, and exposes each resolved property through
// read accessors. Aliases read through to their canonical property.
type Entity struct {
	schema     *Schema
	properties map[string]any
}

// NewEntity freezes the resolved property values into an Entity. The input
// map is copied, so later mutation by the caller does not leak in.
func NewEntity(schema *Schema, properties map[string]any) Entity {
	return Entity{schema: schema, properties: copyProperties(properties)}
}

// Schema returns the declared type's schema.
func (e Entity) Schema() *Schema { return e.schema }

// TypeName returns the declared entity type name.
func (e Entity) TypeName() string {
	if e.schema == nil {
		return ""
	}
	return e.schema.typeName
}

// Get returns the resolved value for a canonical property name or alias.
func (e Entity) Get(name string) (any, bool) {
	if e.schema == nil {
		return nil, false
	}
	canonical, ok := e.schema.CanonicalName(name)
	if !ok {
		return nil, false
	}
	value, ok := e.properties[canonical]
	return value, ok
}

// GetString returns the property as a string, or "" when it is absent,
// unset, or not a string.
func (e Entity) GetString(name string) string {
	value, ok := e.Get(name)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// GetBool returns the property as a boolean. Absent, unset, and non-boolean
// values all read as false.
func (e Entity) GetBool(name string) bool {
	value, ok := e.Get(name)
	if !ok {
		return false
	}
	b, _ := value.(bool)
	return b
}

// Properties returns a defensive copy of the resolved property map.
func (e Entity) Properties() map[string]any {
	return copyProperties(e.properties)
}

// StorableProperties flattens the entity for persistence and export: Unset
// values are omitted and nested entities become plain property maps.
func (e Entity) StorableProperties() map[string]any {
	out := make(map[string]any, len(e.properties))
	for name, value := range e.properties {
		if IsUnset(value) {
			continue
		}
		out[name] = storableValue(value)
	}
	return out
}

func storableValue(value any) any {
	switch v := value.(type) {
	case Entity:
		return v.StorableProperties()
	case []Entity:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = item.StorableProperties()
		}
		return items
	default:
		return value
	}
}

// copyProperties creates a shallow copy of the property map so entities stay
// immutable once constructed.
func copyProperties(properties map[string]any) map[string]any {
	if properties == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(properties))
	for key, value := range properties {
		out[key] = value
	}
	return out
}
