package rsd

import (
	"strings"

	"github.com/renderspud/rsd/token"
)

// TypeName is a dotted namespace path used to annotate Values, e.g.
// "geometry.Mesh" or just "Mesh". It is immutable once constructed.
type TypeName struct {
	parts []string
}

// NewTypeName builds a TypeName from its dotted parts in order.
func NewTypeName(parts ...string) TypeName {
	return TypeName{parts: append([]string{}, parts...)}
}

// ParseTypeName splits a dotted string like "a.b.c" into a TypeName.
// An empty string yields the zero TypeName (IsEmpty returns true).
func ParseTypeName(s string) TypeName {
	if s == "" {
		return TypeName{}
	}

	return TypeName{parts: strings.Split(s, ".")}
}

// IsEmpty reports whether this TypeName has no parts, i.e. no annotation
// was given at all.
func (t TypeName) IsEmpty() bool {
	return len(t.parts) == 0
}

// Parts returns the dotted path components, in order. The returned slice
// must not be mutated by the caller.
func (t TypeName) Parts() []string {
	return t.parts
}

// String renders the dotted form, e.g. "a.b.c", quoting any segment that
// isn't itself valid identifier syntax (the inverse of the parser accepting
// a STRING in a type-sequence segment).
func (t TypeName) String() string {
	parts := make([]string, len(t.parts))

	for i, p := range t.parts {
		if token.IsIdentifier(p) {
			parts[i] = p
		} else {
			parts[i] = quoteString(p)
		}
	}

	return strings.Join(parts, ".")
}

// Equal reports whether two TypeNames have the same dotted path.
func (t TypeName) Equal(other TypeName) bool {
	if len(t.parts) != len(other.parts) {
		return false
	}

	for i := range t.parts {
		if t.parts[i] != other.parts[i] {
			return false
		}
	}

	return true
}
