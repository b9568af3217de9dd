package schema

import (
	"fmt"

	"github.com/rpattn/fedentity/internal/domain"
)

// Registry is the process-wide set of declared entity types. It is
// constructed once at startup and read-only for the remainder of the process
// lifetime, so lookups from concurrent validations need no synchronization.
type Registry struct {
	byName map[string]*domain.Schema
	order  []string
}

// NewRegistry assembles sealed schemas into an immutable registry.
func NewRegistry(schemas ...*domain.Schema) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*domain.Schema, len(schemas)),
		order:  make([]string, 0, len(schemas)),
	}
	for _, sch := range schemas {
		if sch == nil {
			return nil, fmt.Errorf("registry cannot hold a nil schema")
		}
		name := sch.TypeName()
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("entity type %q is declared twice", name)
		}
		r.byName[name] = sch
		r.order = append(r.order, name)
	}
	return r, nil
}

// Lookup returns the schema for a declared entity type name.
func (r *Registry) Lookup(typeName string) (*domain.Schema, bool) {
	sch, ok := r.byName[typeName]
	return sch, ok
}

// TypeNames returns every declared type name in registration order.
func (r *Registry) TypeNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
