package rsd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeFloatAlwaysCarriesDecimalPoint(t *testing.T) {
	assert.Equal(t, "2.0", formatFloat(2))
	assert.Equal(t, "2.5", formatFloat(2.5))
}

func TestSerializeQuoteStringEscapes(t *testing.T) {
	assert.Equal(t, `"a\nb\"c\\d"`, quoteString("a\nb\"c\\d"))
}

func TestSerializeTypedBlockRoundTrips(t *testing.T) {
	src := `v = @Point { x = 1.0; y = 2.0; };`

	root, err := ParseDocument("t.rsd", strings.NewReader(src))
	require.NoError(t, err)

	v, err := root.FindString("v")
	require.NoError(t, err)

	out := Serialize(v, SerializeOptions{Indent: ""})
	assert.Equal(t, `@Point { x = 1.0; y = 2.0; }`, out)
}

func TestSerializeArrayInline(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`a = [1, 2, 3];`))
	require.NoError(t, err)

	v, err := root.FindString("a")
	require.NoError(t, err)

	assert.Equal(t, "[1, 2, 3]", Serialize(v, SerializeOptions{Indent: ""}))
}

func TestSerializeBlockWithInheritanceClause(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`
		base = { speed = 1; };
		derived = : base { turbo = true; };
	`))
	require.NoError(t, err)

	v, err := root.FindString("derived")
	require.NoError(t, err)

	out := Serialize(v, SerializeOptions{Indent: ""})
	assert.Equal(t, `: base { turbo = true; }`, out)
}
