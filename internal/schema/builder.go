// Package schema provides the declaration DSL through which an entity type
// states its properties once and derives validation and construction
// behavior, plus the process-wide registry of declared types.
package schema

import (
	"fmt"

	"github.com/rpattn/fedentity/internal/domain"
)

// Options carries the optional metadata of a property declaration.
type Options struct {
	// Optional marks absence of the property in input data as acceptable;
	// the value then defaults to the explicit unset representation.
	Optional bool

	// Default is a static default value. DefaultFunc is evaluated fresh on
	// each instance construction; at most one of the two may be set.
	Default     any
	DefaultFunc func() any

	// Alias registers an alternate external name for this property.
	Alias string
}

// Builder declares the properties of one entity type and seals them into an
// immutable domain.Schema. Declaration failures surface immediately at the
// declaring call, never later.
type Builder struct {
	typeName     string
	declarations []domain.PropertyDeclaration
	sealed       bool
}

// NewBuilder starts the declaration of an entity type.
func NewBuilder(typeName string) *Builder {
	return &Builder{typeName: typeName}
}

// DeclareScalar registers a scalar property. The kind must be one of the
// five recognized scalar kinds and the name a valid symbolic token unique
// within the type (aliases included).
func (b *Builder) DeclareScalar(name string, kind domain.PropertyKind, opts Options) error {
	if !kind.Scalar() {
		return &domain.InvalidTypeError{TypeName: b.typeName, Property: name, Reason: fmt.Sprintf("%q is not a scalar property kind", kind)}
	}
	return b.declare(domain.PropertyDeclaration{Name: name, Kind: kind}, opts)
}

// DeclareEntity registers a composite property holding a single nested
// entity. The nested reference is validated through the EntityType
// capability, so any declared type nests, including ones defined later.
func (b *Builder) DeclareEntity(name string, nested domain.EntityType, opts Options) error {
	sch, err := nestedSchema(b.typeName, name, nested)
	if err != nil {
		return err
	}
	return b.declare(domain.PropertyDeclaration{Name: name, Kind: domain.KindEntity, Nested: sch}, opts)
}

// DeclareEntityList registers a composite property holding an ordered list
// of one nested entity type. The slice must name exactly one type.
func (b *Builder) DeclareEntityList(name string, nested []domain.EntityType, opts Options) error {
	if len(nested) != 1 {
		return &domain.InvalidTypeError{
			TypeName: b.typeName,
			Property: name,
			Reason:   fmt.Sprintf("entity list must reference exactly one type, got %d", len(nested)),
		}
	}
	sch, err := nestedSchema(b.typeName, name, nested[0])
	if err != nil {
		return err
	}
	return b.declare(domain.PropertyDeclaration{Name: name, Kind: domain.KindEntityList, Nested: sch}, opts)
}

// Seal freezes the declarations into an immutable schema. The builder is
// spent afterwards.
func (b *Builder) Seal() (*domain.Schema, error) {
	if b.sealed {
		return nil, fmt.Errorf("entity type %q is already sealed", b.typeName)
	}
	sch, err := domain.NewSchema(b.typeName, b.declarations)
	if err != nil {
		return nil, err
	}
	b.sealed = true
	return sch, nil
}

// declare validates the candidate declaration by constructing a trial schema
// over everything declared so far. domain.NewSchema is the single validation
// authority; a failed candidate leaves the builder untouched.
func (b *Builder) declare(decl domain.PropertyDeclaration, opts Options) error {
	if b.sealed {
		return fmt.Errorf("entity type %q is already sealed", b.typeName)
	}

	decl.Optional = opts.Optional
	decl.Default = opts.Default
	decl.DefaultFunc = opts.DefaultFunc
	decl.Alias = opts.Alias

	trial := make([]domain.PropertyDeclaration, 0, len(b.declarations)+1)
	trial = append(trial, b.declarations...)
	trial = append(trial, decl)

	if _, err := domain.NewSchema(b.typeName, trial); err != nil {
		return err
	}
	b.declarations = trial
	return nil
}

func nestedSchema(typeName, property string, nested domain.EntityType) (*domain.Schema, error) {
	if nested == nil {
		return nil, &domain.InvalidTypeError{TypeName: typeName, Property: property, Reason: "nested type is not a declared entity type"}
	}
	sch := nested.EntitySchema()
	if sch == nil {
		return nil, &domain.InvalidTypeError{TypeName: typeName, Property: property, Reason: "nested type is not a declared entity type"}
	}
	return sch, nil
}
