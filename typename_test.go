package rsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeNameParseAndString(t *testing.T) {
	tn := ParseTypeName("foo.bar.Baz")
	assert.Equal(t, []string{"foo", "bar", "Baz"}, tn.Parts())
	assert.Equal(t, "foo.bar.Baz", tn.String())
}

func TestTypeNameIsEmpty(t *testing.T) {
	var tn TypeName
	assert.True(t, tn.IsEmpty())

	tn = NewTypeName("X")
	assert.False(t, tn.IsEmpty())
}

func TestTypeNameEqual(t *testing.T) {
	a := NewTypeName("a", "b")
	b := NewTypeName("a", "b")
	c := NewTypeName("a", "c")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
