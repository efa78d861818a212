package rsd

import (
	"strconv"
	"strings"
)

// SubscriptKind distinguishes an integer index subscript from a string key
// subscript on a Reference part.
type SubscriptKind int

const (
	NoSubscript SubscriptKind = iota
	IndexSubscript
	KeySubscript
	// ExprSubscript is a subscript whose index/key is itself a reference or
	// macro invocation ("a[r.s]", "a[m()]"), evaluated against a Registry
	// when the containing Reference is resolved rather than at parse time.
	ExprSubscript
)

// Subscript is the optional "[...]" suffix on a reference part.
type Subscript struct {
	Kind SubscriptKind

	Index int64
	Key   string

	// Expr holds the unevaluated Reference or MacroInvocation Value for an
	// ExprSubscript; nil for the other kinds.
	Expr *Value
}

// ReferencePart is one dotted segment of a Reference, with an optional
// subscript, e.g. in "a.b[2].c" the parts are "a", "b[2]", "c".
type ReferencePart struct {
	Name      string
	Subscript *Subscript
}

// String renders a single part, e.g. `foo` or `foo[2]` or `foo["k"]`.
func (p ReferencePart) String() string {
	if p.Subscript == nil {
		return p.Name
	}

	switch p.Subscript.Kind {
	case IndexSubscript:
		return p.Name + "[" + strconv.FormatInt(p.Subscript.Index, 10) + "]"
	case KeySubscript:
		return p.Name + "[\"" + p.Subscript.Key + "\"]"
	case ExprSubscript:
		return p.Name + "[" + p.Subscript.Expr.String() + "]"
	default:
		return p.Name
	}
}

// Reference is a dotted, optionally-subscripted path naming another Value
// in the same document, e.g. "scene.cameras[0].fov".
type Reference struct {
	Parts []ReferencePart
}

// NewReference builds a Reference from already-parsed parts.
func NewReference(parts ...ReferencePart) Reference {
	return Reference{Parts: parts}
}

// ParseReference parses s (e.g. "a.b[2].c") into a Reference, reusing the
// same grammar the document parser uses for reference expressions.
func ParseReference(s string) (Reference, error) {
	return parseReferenceString(s)
}

// String renders the canonical dotted form of the reference.
func (r Reference) String() string {
	parts := make([]string, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = p.String()
	}

	return strings.Join(parts, ".")
}

// Clone returns a deep copy of r.
func (r Reference) Clone() Reference {
	parts := make([]ReferencePart, len(r.Parts))

	for i, p := range r.Parts {
		cp := p
		if p.Subscript != nil {
			sub := *p.Subscript
			if p.Subscript.Expr != nil {
				sub.Expr = p.Subscript.Expr.Clone()
			}

			cp.Subscript = &sub
		}

		parts[i] = cp
	}

	return Reference{Parts: parts}
}

// IsEmpty reports whether the reference has no parts.
func (r Reference) IsEmpty() bool {
	return len(r.Parts) == 0
}
