package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var nameToken = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidName reports whether name is a valid symbolic property identifier: a
// pure lowercase token, not a free-form string.
func ValidName(name string) bool {
	return nameToken.MatchString(name)
}

// Schema is the immutable property registry for one entity type. It is built
// exactly once, at type-definition time, and never mutated afterwards, so it
// may be shared across arbitrarily many concurrent validations without
// synchronization.
type Schema struct {
	typeName     string
	declarations []PropertyDeclaration
	byName       map[string]int
	aliases      map[string]string // alias -> canonical name
}

// NewSchema validates the declarations and freezes them into a Schema.
// Declaration errors indicate a programming error in the type definition and
// surface immediately; they are never retried.
func NewSchema(typeName string, declarations []PropertyDeclaration) (*Schema, error) {
	if strings.TrimSpace(typeName) == "" {
		return nil, &InvalidTypeError{TypeName: typeName, Reason: "entity type name is required"}
	}

	s := &Schema{
		typeName:     typeName,
		declarations: make([]PropertyDeclaration, len(declarations)),
		byName:       make(map[string]int, len(declarations)),
		aliases:      make(map[string]string),
	}
	copy(s.declarations, declarations)

	taken := make(map[string]string, len(declarations)) // name or alias -> owning property
	for i, decl := range s.declarations {
		if err := validateDeclaration(typeName, decl); err != nil {
			return nil, err
		}
		if owner, dup := taken[decl.Name]; dup {
			return nil, &InvalidNameError{TypeName: typeName, Name: decl.Name, Reason: fmt.Sprintf("already declared by property %q", owner)}
		}
		taken[decl.Name] = decl.Name
		s.byName[decl.Name] = i

		if decl.Alias != "" {
			if owner, dup := taken[decl.Alias]; dup {
				return nil, &InvalidNameError{TypeName: typeName, Name: decl.Alias, Reason: fmt.Sprintf("alias collides with %q", owner)}
			}
			taken[decl.Alias] = decl.Name
			s.aliases[decl.Alias] = decl.Name
		}
	}

	return s, nil
}

// validateDeclaration checks a single declaration in isolation. Uniqueness
// across the type is checked by NewSchema.
func validateDeclaration(typeName string, decl PropertyDeclaration) error {
	if !ValidName(decl.Name) {
		return &InvalidNameError{TypeName: typeName, Name: decl.Name, Reason: "must be a lowercase symbolic token"}
	}
	if decl.Alias != "" && !ValidName(decl.Alias) {
		return &InvalidNameError{TypeName: typeName, Name: decl.Alias, Reason: "alias must be a lowercase symbolic token"}
	}
	if !decl.Kind.Scalar() && !decl.Kind.Composite() {
		return &InvalidTypeError{TypeName: typeName, Property: decl.Name, Reason: fmt.Sprintf("%q is not a recognized property kind", decl.Kind)}
	}
	if decl.Kind.Composite() && decl.Nested == nil {
		return &InvalidTypeError{TypeName: typeName, Property: decl.Name, Reason: "composite property must reference a declared entity type"}
	}
	if decl.Kind.Scalar() && decl.Nested != nil {
		return &InvalidTypeError{TypeName: typeName, Property: decl.Name, Reason: "scalar property cannot reference a nested type"}
	}
	if decl.Default != nil && decl.DefaultFunc != nil {
		return &InvalidTypeError{TypeName: typeName, Property: decl.Name, Reason: "static default and default func are mutually exclusive"}
	}
	return nil
}

// EntitySchema makes *Schema satisfy the EntityType capability used by
// composite declarations.
func (s *Schema) EntitySchema() *Schema { return s }

// TypeName returns the declared entity type name.
func (s *Schema) TypeName() string { return s.typeName }

// Declarations returns a defensive copy of the property declarations in
// declaration order.
func (s *Schema) Declarations() []PropertyDeclaration {
	out := make([]PropertyDeclaration, len(s.declarations))
	copy(out, s.declarations)
	return out
}

// PropertyNames returns every canonical property name in declaration order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, len(s.declarations))
	for i, decl := range s.declarations {
		names[i] = decl.Name
	}
	return names
}

// Property returns the declaration for a canonical property name.
func (s *Schema) Property(name string) (PropertyDeclaration, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return PropertyDeclaration{}, false
	}
	return s.declarations[idx], true
}

// HasProperty reports whether the type declares the canonical property name.
func (s *Schema) HasProperty(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// CanonicalName resolves a canonical name or alias to the canonical property
// name.
func (s *Schema) CanonicalName(name string) (string, bool) {
	if _, ok := s.byName[name]; ok {
		return name, true
	}
	if canonical, ok := s.aliases[name]; ok {
		return canonical, true
	}
	return "", false
}

// MissingRequired returns the declared property names that are neither
// optional, nor defaulted, nor present in inputKeys, in declaration order.
// The instance builder uses it to fail fast before value resolution.
func (s *Schema) MissingRequired(inputKeys []string) []string {
	present := make(map[string]struct{}, len(inputKeys))
	for _, key := range inputKeys {
		present[key] = struct{}{}
	}

	var missing []string
	for _, decl := range s.declarations {
		if decl.Optional || decl.HasDefault() {
			continue
		}
		if _, ok := present[decl.Name]; ok {
			continue
		}
		missing = append(missing, decl.Name)
	}
	return missing
}

// ResolveDefaults maps every optional or defaulted property to its resolved
// default. Callable defaults are invoked fresh on every call; optional
// properties with no declared default resolve to the explicit Unset marker.
func (s *Schema) ResolveDefaults() map[string]any {
	defaults := make(map[string]any)
	for _, decl := range s.declarations {
		if decl.Optional || decl.HasDefault() {
			defaults[decl.Name] = decl.resolveDefault()
		}
	}
	return defaults
}

// ResolveAliases rewrites every alias key in the input to its canonical
// property name. Supplying both the canonical name and its alias for the
// same property is ambiguous and rejected rather than silently preferred.
// Keys that match neither a canonical name nor an alias pass through
// unchanged.
func (s *Schema) ResolveAliases(input map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(input))
	for key, value := range input {
		canonical, isAlias := s.aliases[key]
		if !isAlias {
			resolved[key] = value
			continue
		}
		if _, both := input[canonical]; both {
			return nil, &InvalidDataError{
				TypeName: s.typeName,
				Reason:   fmt.Sprintf("property %q supplied under both its canonical name and alias %q", canonical, key),
			}
		}
		resolved[canonical] = value
	}
	return resolved, nil
}
