package rsd

import (
	"strconv"
	"strings"

	"github.com/renderspud/rsd/token"
)

// SerializeOptions controls how Serialize renders a Value tree.
type SerializeOptions struct {
	// Indent is the per-level indentation string for Arrays and Blocks. An
	// empty Indent produces a compact, single-line form instead.
	Indent string
}

// Serialize renders v in RSD's canonical textual form: type annotations as
// "@Type", blocks with an optional ": Parent" inheritance clause, arrays as
// "[...]", strings double-quoted and escaped, and floats always carrying a
// decimal point or an exponent (an integral float like 2.0 still prints as
// "2.0", never "2", matching the reference implementation's Value::str
// behavior; a large one like 1000000.0 prints as "1e+06").
func Serialize(v *Value, opts SerializeOptions) string {
	var sb strings.Builder

	writeValue(&sb, v, opts, 0)

	return sb.String()
}

// String renders v using the default, indented SerializeOptions.
func (v *Value) String() string {
	return Serialize(v, SerializeOptions{Indent: "  "})
}

func writeValue(sb *strings.Builder, v *Value, opts SerializeOptions, depth int) {
	if !v.typ.IsEmpty() {
		sb.WriteString("@")
		sb.WriteString(v.typ.String())
		sb.WriteString(" ")
	}

	switch v.kind {
	case Boolean:
		if v.boolVal {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Integer:
		sb.WriteString(strconv.FormatInt(v.intVal, 10))
	case Float:
		sb.WriteString(formatFloat(v.floatVal))
	case String:
		sb.WriteString(quoteString(v.strVal))
	case ReferenceKind:
		sb.WriteString(v.refVal.String())
	case MacroKind:
		sb.WriteString(v.macroVal.String())
	case Array:
		writeArray(sb, v, opts, depth)
	case BlockKind:
		writeBlock(sb, v, opts, depth)
	default:
		sb.WriteString("<invalid>")
	}
}

func writeArray(sb *strings.Builder, v *Value, opts SerializeOptions, depth int) {
	sb.WriteString("[")

	inline := opts.Indent == ""

	for i, e := range v.arrVal {
		if i > 0 {
			sb.WriteString(",")

			if inline {
				sb.WriteString(" ")
			}
		}

		if !inline {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(opts.Indent, depth+1))
		}

		writeValue(sb, e, opts, depth+1)
	}

	if !inline && len(v.arrVal) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(opts.Indent, depth))
	}

	sb.WriteString("]")
}

func writeBlock(sb *strings.Builder, v *Value, opts SerializeOptions, depth int) {
	if v.inherits != nil {
		sb.WriteString(": ")
		sb.WriteString(v.inherits.String())
		sb.WriteString(" ")
	}

	sb.WriteString("{")

	inline := opts.Indent == ""
	names := v.blkVal.Names()

	for _, name := range names {
		m, _ := v.blkVal.Get(name)

		if inline {
			sb.WriteString(" ")
		} else {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(opts.Indent, depth+1))
		}

		if token.IsIdentifier(name) {
			sb.WriteString(name)
		} else {
			sb.WriteString(quoteString(name))
		}

		sb.WriteString(" = ")
		writeValue(sb, m, opts, depth+1)
		sb.WriteString(";")
	}

	if !inline && len(names) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(opts.Indent, depth))
	} else if inline && len(names) > 0 {
		sb.WriteString(" ")
	}

	sb.WriteString("}")
}

// formatFloat renders f the way the reference implementation's Value::str
// does: the shortest round-tripping decimal form, but with ".0" appended
// whenever that form would otherwise look like an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// quoteString renders s as a double-quoted RSD string literal, escaping
// backslashes, quotes and the three whitespace escapes the tokenizer
// recognizes.
func quoteString(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
