package token

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()

	l := NewLexer("test.rsd", strings.NewReader(src))

	var toks []Token

	for {
		tok, err := l.Token()
		require.NoError(t, err)

		toks = append(toks, tok)

		if tok.Kind == Eof {
			return toks
		}
	}
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}

	return ks
}

func TestLexerPunctuation(t *testing.T) {
	toks := allTokens(t, "={}[](),.:@;")
	assert.Equal(t, []Kind{Assign, LBrace, RBrace, LBracket, RBracket, LParen, RParen, Comma, Dot, Colon, At, Semicolon, Eof}, kinds(toks))
}

func TestLexerIdentifierAndKeywords(t *testing.T) {
	toks := allTokens(t, "foo true false include bar_2")
	require.Len(t, toks, 6)
	assert.Equal(t, Identifier, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Text)
	assert.Equal(t, Boolean, toks[1].Kind)
	assert.True(t, toks[1].Bool)
	assert.Equal(t, Boolean, toks[2].Kind)
	assert.False(t, toks[2].Bool)
	assert.Equal(t, Include, toks[3].Kind)
	assert.Equal(t, Identifier, toks[4].Kind)
}

func TestLexerStrings(t *testing.T) {
	toks := allTokens(t, `"hello \n world \q end"`)
	require.Len(t, toks, 2)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "hello \n world q end", toks[0].Str)
}

func TestLexerUnterminatedString(t *testing.T) {
	l := NewLexer("test.rsd", strings.NewReader(`"never closes`))
	_, err := l.Token()
	require.Error(t, err)
}

func TestLexerIntegerLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"-7", -7},
		{"0b1010", 10},
		{"017", 15},
		{"0x1F", 31},
	}

	for _, c := range cases {
		toks := allTokens(t, c.src)
		require.Len(t, toks, 2, c.src)
		require.Equal(t, Integer, toks[0].Kind, c.src)
		assert.Equal(t, c.want, toks[0].Int, c.src)
	}
}

func TestLexerFloatLiterals(t *testing.T) {
	toks := allTokens(t, "3.14 2e10 1.5e-3")
	require.Len(t, toks, 4)
	assert.Equal(t, Float, toks[0].Kind)
	assert.InDelta(t, 3.14, toks[0].Float, 1e-9)
	assert.Equal(t, Float, toks[1].Kind)
	assert.Equal(t, Float, toks[2].Kind)
}

func TestLexerComments(t *testing.T) {
	toks := allTokens(t, "foo # this is a comment\nbar")
	require.Len(t, toks, 3)
	assert.Equal(t, Identifier, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Text)
	assert.Equal(t, Identifier, toks[1].Kind)
	assert.Equal(t, "bar", toks[1].Text)
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer("f.rsd", strings.NewReader("a\nb"))

	tok, err := l.Token()
	require.NoError(t, err)
	assert.Equal(t, 1, tok.BeginPos.Line)

	tok, err = l.Token()
	require.NoError(t, err)
	assert.Equal(t, 2, tok.BeginPos.Line)
	assert.Equal(t, 1, tok.BeginPos.Col)
}

func TestLexerEOFIsIdempotentAfterFinalToken(t *testing.T) {
	l := NewLexer("f.rsd", strings.NewReader(""))

	tok, err := l.Token()
	require.NoError(t, err)
	assert.Equal(t, Eof, tok.Kind)

	_, err = l.Token()
	assert.ErrorIs(t, err, io.EOF)
}
