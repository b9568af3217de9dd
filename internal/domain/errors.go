package domain

import "fmt"

// InvalidNameError reports a property identifier that is not a valid symbolic
// token, or one that collides with an already declared name or alias. It is a
// declaration-time error: the schema is wrong, not the incoming data.
type InvalidNameError struct {
	TypeName string
	Name     string
	Reason   string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid property name %q on %s: %s", e.Name, e.TypeName, e.Reason)
}

// InvalidTypeError reports an unsupported scalar kind or a malformed
// composite type reference at declaration time, or a reference to an
// undeclared entity type at build time.
type InvalidTypeError struct {
	TypeName string
	Property string
	Reason   string
}

func (e *InvalidTypeError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("invalid entity type %q: %s", e.TypeName, e.Reason)
	}
	return fmt.Sprintf("invalid type for property %q on %s: %s", e.Property, e.TypeName, e.Reason)
}

// InvalidDataError reports malformed incoming message data. The sender must
// resend a corrected message; there is no recovery path on this side.
type InvalidDataError struct {
	TypeName string
	Reason   string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid data for entity %s: %s", e.TypeName, e.Reason)
}

// NotPublicError reports an entity that declares itself non-public in a
// context that requires public distribution.
type NotPublicError struct {
	TypeName string
	Author   string
}

func (e *NotPublicError) Error() string {
	if e.Author != "" {
		return fmt.Sprintf("entity %s from %s is not public", e.TypeName, e.Author)
	}
	return fmt.Sprintf("entity %s is not public", e.TypeName)
}
