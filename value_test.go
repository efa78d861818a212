package rsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAppendSetsArrayContext(t *testing.T) {
	arr := NewArray()
	e := NewInteger(42)
	arr.Append(e)

	assert.Same(t, arr, e.Parent())
	assert.Equal(t, "[0]", e.Path())
}

func TestValueSetMemberSetsBlockContext(t *testing.T) {
	blk := NewBlock()
	m := NewString("hi")
	blk.SetMember("greeting", m)

	assert.Same(t, blk, m.Parent())
	assert.Equal(t, "greeting", m.Path())
}

func TestValuePathNesting(t *testing.T) {
	root := NewBlock()
	cameras := NewArray()
	root.SetMember("cameras", cameras)

	cam := NewBlock()
	cameras.Append(cam)

	fov := NewFloat(75)
	cam.SetMember("fov", fov)

	assert.Equal(t, "cameras[0].fov", fov.Path())
}

func TestValueCloneDetachesParentAndDeepCopiesBlocks(t *testing.T) {
	root := NewBlock()
	root.SetMember("x", NewInteger(1))

	clone := root.Clone()
	assert.Nil(t, clone.Parent())

	originalX, ok := root.BlockData().Get("x")
	require.True(t, ok)

	clonedX, ok := clone.BlockData().Get("x")
	require.True(t, ok)

	assert.Equal(t, int64(1), clonedX.Int())
	assert.NotSame(t, originalX, clonedX)
}

func TestAsIntRejectsFloat(t *testing.T) {
	_, err := NewFloat(3.0).AsInt()
	assert.Error(t, err)

	_, err = NewFloat(3.5).AsInt()
	assert.Error(t, err)
}

func TestAsFloatWidensInteger(t *testing.T) {
	f, err := NewInteger(7).AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)
}

func TestAsStringRejectsNonString(t *testing.T) {
	_, err := NewInteger(1).AsString()
	assert.Error(t, err)
}

func TestBlockInsertBeforeBounds(t *testing.T) {
	b := newBlockStorage()
	b.Set("a", NewInteger(1))
	b.Set("c", NewInteger(3))

	b.InsertBefore(1, "b", NewInteger(2))
	assert.Equal(t, []string{"a", "b", "c"}, b.Names())

	b.InsertBefore(0, "z", NewInteger(0))
	assert.Equal(t, []string{"z", "a", "b", "c"}, b.Names())

	b.InsertBefore(100, "last", NewInteger(9))
	assert.Equal(t, []string{"z", "a", "b", "c", "last"}, b.Names())
}

func TestValueSetTypeNameAndPos(t *testing.T) {
	v := NewInteger(1)
	v.SetTypeName(NewTypeName("Foo"))
	assert.Equal(t, "Foo", v.TypeName().String())
}
