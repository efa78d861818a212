package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PosError is a positional error: a message tied to a source location, with
// an optional wrapped cause and an optional hint. Every error the tokenizer,
// parser and resolver return is either a *PosError or wraps one.
type PosError struct {
	Node    Node
	Message string
	Cause   error
	Hint    string
}

// NewPosError creates a PosError at node's location.
func NewPosError(node Node, msg string) *PosError {
	return &PosError{Node: node, Message: msg}
}

func (p *PosError) SetCause(err error) *PosError {
	p.Cause = err
	return p
}

func (p *PosError) SetHint(hint string) *PosError {
	p.Hint = hint
	return p
}

func (p *PosError) Unwrap() error { return p.Cause }

func (p *PosError) Error() string {
	loc := ""
	if p.Node != nil {
		loc = p.Node.Begin().String() + ": "
	}

	if p.Cause == nil {
		return loc + p.Message
	}

	return loc + p.Message + ": " + p.Cause.Error()
}

// src loads the source file named by fname, trying the working directory if
// the bare path does not resolve. Returns "" if the source cannot be found;
// Explain degrades gracefully when that happens.
func src(fname string) string {
	buf, err := os.ReadFile(fname)
	if err != nil {
		wd, wderr := os.Getwd()
		if wderr != nil {
			return ""
		}

		buf, err = os.ReadFile(filepath.Join(wd, fname))
		if err != nil {
			return ""
		}
	}

	return string(buf)
}

func posLine(lines []string, pos Pos) string {
	no := pos.Line - 1
	if no < 0 || no >= len(lines) {
		return ""
	}

	return lines[no]
}

// Explain renders a multi-line, rustc-style explanation of a PosError,
// pointing at the offending source line when it can be located on disk.
func (p *PosError) Explain() string {
	sb := &strings.Builder{}

	if p.Node == nil {
		sb.WriteString(p.Message)
		return sb.String()
	}

	begin := p.Node.Begin()
	lines := strings.Split(src(begin.File), "\n")
	line := posLine(lines, begin)

	indent := len(strconv.Itoa(begin.Line))

	sb.WriteString(begin.String())
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%*s |\n", indent, "")
	fmt.Fprintf(sb, "%*d | %s\n", indent, begin.Line, line)
	fmt.Fprintf(sb, "%*s | %*s^ %s\n", indent, "", begin.Col-1, "", p.Message)

	if p.Hint != "" {
		fmt.Fprintf(sb, "%*s = hint: %s\n", indent, "", p.Hint)
	}

	return sb.String()
}

// Explain unwraps err looking for a *PosError and renders it with Explain;
// otherwise it falls back to err.Error().
func Explain(err error) string {
	var posErr *PosError
	if errors.As(err, &posErr) {
		return "error: " + err.Error() + "\n" + posErr.Explain()
	}

	return err.Error()
}
