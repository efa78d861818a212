package rsd

import (
	"io"
	"strings"

	"github.com/renderspud/rsd/token"
)

// parser is a hand-written recursive-descent parser over token.Lexer, with
// a single token of lookahead, following the same shape as the teacher's
// own Decoder/lexer-driven grammar helpers (nextR/prevR become advance/cur
// here, one level up at the token rather than the rune).
type parser struct {
	lex *token.Lexer
	cur token.Token
}

func newParser(filename string, r io.Reader) (*parser, error) {
	p := &parser{lex: token.NewLexer(filename, r)}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.Token()
	if err != nil {
		return newTokenError(p.lex.Pos(), "%v", err)
	}

	p.cur = t

	return nil
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, newParseError(p.cur.BeginPos, "expected %s but got %s", k, p.cur)
	}

	t := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}

	return t, nil
}

// parseName parses a nodeName: an identifier or a quoted string, the latter
// letting a block member or type-sequence segment hold characters an
// identifier can't (nodeName = IDENTIFIER | STRING).
func (p *parser) parseName() (string, error) {
	switch p.cur.Kind {
	case token.Identifier:
		name := p.cur.Text
		return name, p.advance()
	case token.String:
		name := p.cur.Str
		return name, p.advance()
	default:
		return "", newParseError(p.cur.BeginPos, "expected an identifier or string, got %s", p.cur)
	}
}

// ParseDocument parses a complete RSD document from r into a root Block
// value. Any `include "path";` directives are recorded on the affected
// blocks' PendingIncludes rather than resolved here — resolving them is the
// document loader's job, since it alone knows how to turn a path into
// another document.
func ParseDocument(filename string, r io.Reader) (*Value, error) {
	p, err := newParser(filename, r)
	if err != nil {
		return nil, err
	}

	root := NewBlock()
	root.SetPos(p.cur.BeginPos)

	if err := p.parseBlockMembers(root, token.Eof); err != nil {
		return nil, err
	}

	return root, nil
}

// parseReferenceString parses s as a stand-alone reference expression, e.g.
// "scene.cameras[0].fov". It is used both by Reference.String's inverse,
// ParseReference, and by the "${...}" interpolation markers inside strings.
func parseReferenceString(s string) (Reference, error) {
	p, err := newParser("<reference>", strings.NewReader(s))
	if err != nil {
		return Reference{}, err
	}

	ref, err := p.parseReferenceExpr()
	if err != nil {
		return Reference{}, err
	}

	if p.cur.Kind != token.Eof {
		return Reference{}, newParseError(p.cur.BeginPos, "unexpected trailing input after reference")
	}

	return ref, nil
}

// parseBlockMembers parses `include` directives and `name = value;`
// assignments until terminator is seen (token.Eof for the document, or
// token.RBrace for a nested block), adding each to blk.
func (p *parser) parseBlockMembers(blk *Value, terminator token.Kind) error {
	for p.cur.Kind != terminator {
		if p.cur.Kind == token.Eof {
			return newParseError(p.cur.BeginPos, "unexpected end of input, expected %s", terminator)
		}

		if p.cur.Kind == token.Include {
			if err := p.advance(); err != nil {
				return err
			}

			pathTok, err := p.expect(token.String)
			if err != nil {
				return err
			}

			if _, err := p.expect(token.Semicolon); err != nil {
				return err
			}

			blk.addPendingInclude(pathTok.Str, pathTok.BeginPos)

			continue
		}

		name, err := p.parseName()
		if err != nil {
			return err
		}

		if _, err := p.expect(token.Assign); err != nil {
			return err
		}

		val, err := p.parseValue()
		if err != nil {
			return err
		}

		if _, err := p.expect(token.Semicolon); err != nil {
			return err
		}

		blk.SetMember(name, val)
	}

	return nil
}

// parseValue parses one value expression: an optional "@TypeName"
// annotation followed by a literal, reference, macro invocation, array or
// block.
func (p *parser) parseValue() (*Value, error) {
	var typ TypeName

	if p.cur.Kind == token.At {
		if err := p.advance(); err != nil {
			return nil, err
		}

		t, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}

		typ = t
	}

	v, err := p.parseValueCore()
	if err != nil {
		return nil, err
	}

	if !typ.IsEmpty() {
		v.SetTypeName(typ)
	}

	return v, nil
}

func (p *parser) parseTypeName() (TypeName, error) {
	first, err := p.parseName()
	if err != nil {
		return TypeName{}, err
	}

	parts := []string{first}

	for p.cur.Kind == token.Dot {
		if err := p.advance(); err != nil {
			return TypeName{}, err
		}

		next, err := p.parseName()
		if err != nil {
			return TypeName{}, err
		}

		parts = append(parts, next)
	}

	return NewTypeName(parts...), nil
}

func (p *parser) parseValueCore() (*Value, error) {
	start := p.cur.BeginPos

	switch p.cur.Kind {
	case token.Boolean:
		v := NewBoolean(p.cur.Bool)
		v.SetPos(start)

		return v, p.advance()
	case token.Integer:
		v := NewInteger(p.cur.Int)
		v.SetPos(start)

		return v, p.advance()
	case token.Float:
		v := NewFloat(p.cur.Float)
		v.SetPos(start)

		return v, p.advance()
	case token.String:
		v := NewString(p.cur.Str)
		v.SetPos(start)

		return v, p.advance()
	case token.LBracket:
		return p.parseArray()
	case token.Colon, token.LBrace:
		return p.parseBlock()
	case token.Identifier:
		return p.parseReferenceOrMacro()
	default:
		return nil, newParseError(start, "unexpected %s, expected a value", p.cur)
	}
}

func (p *parser) parseArray() (*Value, error) {
	start := p.cur.BeginPos

	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}

	arr := NewArray()
	arr.SetPos(start)

	for p.cur.Kind != token.RBracket {
		if p.cur.Kind == token.Eof {
			return nil, newParseError(p.cur.BeginPos, "unterminated array, expected ']'")
		}

		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		arr.Append(elem)

		if p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}

			if p.cur.Kind == token.RBracket {
				return nil, newParseError(p.cur.BeginPos, "trailing comma is not allowed in an array")
			}

			continue
		}

		break
	}

	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}

	return arr, nil
}

func (p *parser) parseBlock() (*Value, error) {
	start := p.cur.BeginPos

	var inherits *Reference

	if p.cur.Kind == token.Colon {
		if err := p.advance(); err != nil {
			return nil, err
		}

		ref, err := p.parseReferenceExpr()
		if err != nil {
			return nil, err
		}

		inherits = &ref
	}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	blk := NewBlock()
	blk.SetPos(start)

	if inherits != nil {
		blk.SetInherits(*inherits)
	}

	if err := p.parseBlockMembers(blk, token.RBrace); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}

	return blk, nil
}

// parseReferenceExpr parses a dotted, optionally subscripted reference,
// e.g. "a.b[2].c". It never parses a macro call; it is used for block
// inheritance clauses and stand-alone reference parsing.
func (p *parser) parseReferenceExpr() (Reference, error) {
	first, err := p.expect(token.Identifier)
	if err != nil {
		return Reference{}, err
	}

	part, err := p.parseReferencePartTail(first.Text)
	if err != nil {
		return Reference{}, err
	}

	parts := []ReferencePart{part}

	for p.cur.Kind == token.Dot {
		if err := p.advance(); err != nil {
			return Reference{}, err
		}

		next, err := p.expect(token.Identifier)
		if err != nil {
			return Reference{}, err
		}

		nextPart, err := p.parseReferencePartTail(next.Text)
		if err != nil {
			return Reference{}, err
		}

		parts = append(parts, nextPart)
	}

	return NewReference(parts...), nil
}

func (p *parser) parseReferencePartTail(name string) (ReferencePart, error) {
	part := ReferencePart{Name: name}

	if p.cur.Kind != token.LBracket {
		return part, nil
	}

	if err := p.advance(); err != nil {
		return part, err
	}

	switch p.cur.Kind {
	case token.Integer:
		part.Subscript = &Subscript{Kind: IndexSubscript, Index: p.cur.Int}

		if err := p.advance(); err != nil {
			return part, err
		}
	case token.String:
		part.Subscript = &Subscript{Kind: KeySubscript, Key: p.cur.Str}

		if err := p.advance(); err != nil {
			return part, err
		}
	case token.Identifier:
		expr, err := p.parseReferenceOrMacro()
		if err != nil {
			return part, err
		}

		part.Subscript = &Subscript{Kind: ExprSubscript, Expr: expr}
	default:
		return part, newParseError(p.cur.BeginPos, "expected an integer, string, reference or macro subscript, got %s", p.cur)
	}

	if _, err := p.expect(token.RBracket); err != nil {
		return part, err
	}

	return part, nil
}

// parseReferenceOrMacro parses an identifier that starts either a
// reference ("a.b[2]") or a macro invocation ("a(x: 1, y: 2)").
func (p *parser) parseReferenceOrMacro() (*Value, error) {
	start := p.cur.BeginPos

	first, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == token.LParen {
		return p.parseMacroCall(first.Text, start)
	}

	part, err := p.parseReferencePartTail(first.Text)
	if err != nil {
		return nil, err
	}

	parts := []ReferencePart{part}

	for p.cur.Kind == token.Dot {
		if err := p.advance(); err != nil {
			return nil, err
		}

		next, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}

		nextPart, err := p.parseReferencePartTail(next.Text)
		if err != nil {
			return nil, err
		}

		parts = append(parts, nextPart)
	}

	v := NewReferenceValue(NewReference(parts...))
	v.SetPos(start)

	return v, nil
}

func (p *parser) parseMacroCall(name string, start token.Pos) (*Value, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	args := make(map[string]*Value)

	for p.cur.Kind != token.RParen {
		if p.cur.Kind == token.Eof {
			return nil, newParseError(p.cur.BeginPos, "unterminated macro invocation, expected ')'")
		}

		argName, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}

		argVal, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		args[argName.Text] = argVal

		if p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return nil, err
			}

			if p.cur.Kind == token.RParen {
				return nil, newParseError(p.cur.BeginPos, "trailing comma is not allowed in a macro invocation")
			}

			continue
		}

		break
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	v := NewMacroValue(NewMacroInvocation(name, args))
	v.SetPos(start)

	return v, nil
}
