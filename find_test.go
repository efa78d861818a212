package rsd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDescendsLocalMembersBeforeInheritance(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`
		base = { n = "from-base"; };
		derived = : base { n = "from-derived"; extra = 1; };
	`))
	require.NoError(t, err)

	v, err := root.FindString("derived.n")
	require.NoError(t, err)
	assert.Equal(t, "from-derived", v.RawString())

	v, err = root.FindString("derived.extra")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int())
}

func TestFindFallsBackToInheritedBlockOnlyAfterLocalMiss(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`
		base = { shared = "hi"; };
		derived = : base { own = 2; };
	`))
	require.NoError(t, err)

	v, err := root.FindString("derived.shared")
	require.NoError(t, err)
	assert.Equal(t, "hi", v.RawString())
}

func TestFindMissingNameIsAnError(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`a = { b = 1; };`))
	require.NoError(t, err)

	_, err = root.FindString("a.nope")
	assert.Error(t, err)
}

func TestFindArraySubscript(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`xs = [10, 20, 30];`))
	require.NoError(t, err)

	v, err := root.FindString("xs[2]")
	require.NoError(t, err)
	assert.Equal(t, int64(30), v.Int())
}

func TestFindArraySubscriptOutOfRange(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`xs = [1];`))
	require.NoError(t, err)

	_, err = root.FindString("xs[5]")
	assert.Error(t, err)
}

func TestInheritanceCycleIsDetected(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`
		a = : b { x = 1; };
		b = : a { y = 2; };
	`))
	require.NoError(t, err)

	_, err = root.FindString("a.z")
	assert.Error(t, err)
}

func TestAsInlinedBlockAppliesAncestorsFarthestFirst(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`
		grandparent = { a = 1; b = 1; };
		parent = : grandparent { b = 2; c = 2; };
		child = : parent { c = 3; };
	`))
	require.NoError(t, err)

	child, err := root.FindString("child")
	require.NoError(t, err)

	inlined, err := child.AsInlinedBlock()
	require.NoError(t, err)

	a, _ := inlined.BlockData().Get("a")
	b, _ := inlined.BlockData().Get("b")
	c, _ := inlined.BlockData().Get("c")

	assert.Equal(t, int64(1), a.Int())
	assert.Equal(t, int64(2), b.Int())
	assert.Equal(t, int64(3), c.Int())
}

func TestFindByTypeName(t *testing.T) {
	root, err := ParseDocument("t.rsd", strings.NewReader(`
		a = @Light { power = 1; };
		items = [@Light { power = 2; }, @Mesh { verts = 3; }];
	`))
	require.NoError(t, err)

	lights, err := root.FindByTypeName(NewTypeName("Light"))
	require.NoError(t, err)
	assert.Len(t, lights, 2)
}
