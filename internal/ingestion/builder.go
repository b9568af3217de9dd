// Package ingestion materializes immutable entity instances from raw keyed
// input, resolving aliases, defaults, and missing-property checks against
// the declared schema before any value is accepted.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
	"github.com/rpattn/fedentity/pkg/validator"
)

// Builder constructs entity instances for every type in the registry. It is
// stateless apart from the read-only registry reference and safe for
// concurrent use.
type Builder struct {
	registry *schema.Registry
}

// NewBuilder creates an instance builder over the declared type registry.
func NewBuilder(registry *schema.Registry) *Builder {
	return &Builder{registry: registry}
}

// Build materializes one entity of the named type from raw keyed input.
// Alias collisions, missing required properties, undeclared keys, and value
// kind mismatches abort the build with a descriptive error; nothing is
// silently dropped or repaired.
func (b *Builder) Build(typeName string, input map[string]any) (domain.Entity, error) {
	sch, ok := b.registry.Lookup(typeName)
	if !ok {
		return domain.Entity{}, &domain.InvalidTypeError{TypeName: typeName, Reason: "not a declared entity type"}
	}
	return b.build(sch, input)
}

func (b *Builder) build(sch *domain.Schema, input map[string]any) (domain.Entity, error) {
	resolved, err := sch.ResolveAliases(input)
	if err != nil {
		return domain.Entity{}, err
	}

	keys := make([]string, 0, len(resolved))
	for key := range resolved {
		keys = append(keys, key)
	}
	if missing := sch.MissingRequired(keys); len(missing) > 0 {
		return domain.Entity{}, &domain.InvalidDataError{
			TypeName: sch.TypeName(),
			Reason:   fmt.Sprintf("missing required properties: %s", strings.Join(missing, ", ")),
		}
	}

	values := sch.ResolveDefaults()
	for name, raw := range resolved {
		decl, ok := sch.Property(name)
		if !ok {
			return domain.Entity{}, &domain.InvalidDataError{
				TypeName: sch.TypeName(),
				Reason:   fmt.Sprintf("property %q is not declared", name),
			}
		}
		value, err := b.resolveValue(sch, decl, raw)
		if err != nil {
			return domain.Entity{}, err
		}
		values[name] = value
	}

	return domain.NewEntity(sch, values), nil
}

func (b *Builder) resolveValue(sch *domain.Schema, decl domain.PropertyDeclaration, raw any) (any, error) {
	if raw == nil {
		if decl.Optional {
			return domain.Unset, nil
		}
		return nil, &domain.InvalidDataError{
			TypeName: sch.TypeName(),
			Reason:   fmt.Sprintf("property %q is null", decl.Name),
		}
	}

	switch decl.Kind {
	case domain.KindEntity:
		return b.nested(sch, decl, raw)

	case domain.KindEntityList:
		return b.nestedList(sch, decl, raw)

	default:
		value, err := validator.ValidateScalar(decl.Name, decl.Kind, raw)
		if err != nil {
			return nil, &domain.InvalidDataError{TypeName: sch.TypeName(), Reason: err.Error()}
		}
		return value, nil
	}
}

func (b *Builder) nested(sch *domain.Schema, decl domain.PropertyDeclaration, raw any) (domain.Entity, error) {
	switch v := raw.(type) {
	case domain.Entity:
		if v.TypeName() != decl.Nested.TypeName() {
			return domain.Entity{}, &domain.InvalidDataError{
				TypeName: sch.TypeName(),
				Reason:   fmt.Sprintf("property %q must be a %s, got %s", decl.Name, decl.Nested.TypeName(), v.TypeName()),
			}
		}
		return v, nil
	case map[string]any:
		return b.build(decl.Nested, v)
	default:
		return domain.Entity{}, &domain.InvalidDataError{
			TypeName: sch.TypeName(),
			Reason:   fmt.Sprintf("property %q must be a nested %s object, got %T", decl.Name, decl.Nested.TypeName(), raw),
		}
	}
}

func (b *Builder) nestedList(sch *domain.Schema, decl domain.PropertyDeclaration, raw any) ([]domain.Entity, error) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []map[string]any:
		items = make([]any, len(v))
		for i, m := range v {
			items[i] = m
		}
	case []domain.Entity:
		items = make([]any, len(v))
		for i, e := range v {
			items[i] = e
		}
	default:
		return nil, &domain.InvalidDataError{
			TypeName: sch.TypeName(),
			Reason:   fmt.Sprintf("property %q must be a list of %s, got %T", decl.Name, decl.Nested.TypeName(), raw),
		}
	}

	entities := make([]domain.Entity, 0, len(items))
	for i, item := range items {
		nested, err := b.nested(sch, decl, item)
		if err != nil {
			return nil, fmt.Errorf("property %q item %d: %w", decl.Name, i, err)
		}
		entities = append(entities, nested)
	}
	return entities, nil
}
