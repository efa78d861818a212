package rsd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceStringRoundTrip(t *testing.T) {
	cases := []string{
		"a",
		"a.b.c",
		"a[0]",
		"a[0].b",
		"a.b[3].c",
	}

	for _, s := range cases {
		ref, err := ParseReference(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, ref.String(), s)
	}
}

func TestReferenceCloneIsIndependent(t *testing.T) {
	ref, err := ParseReference("a[0].b")
	require.NoError(t, err)

	clone := ref.Clone()
	clone.Parts[0].Subscript.Index = 9

	assert.Equal(t, int64(0), ref.Parts[0].Subscript.Index)
	assert.Equal(t, int64(9), clone.Parts[0].Subscript.Index)
}

func TestReferenceStructurallyEqualAfterCloneAndRoundTrip(t *testing.T) {
	ref, err := ParseReference(`a.b[2].c["k"]`)
	require.NoError(t, err)

	clone := ref.Clone()

	reparsed, err := ParseReference(ref.String())
	require.NoError(t, err)

	if diff := cmp.Diff(ref, clone); diff != "" {
		t.Errorf("clone diverged from original (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(ref, reparsed); diff != "" {
		t.Errorf("round-trip through String/ParseReference diverged (-want +got):\n%s", diff)
	}
}

func TestReferenceIsEmpty(t *testing.T) {
	var ref Reference
	assert.True(t, ref.IsEmpty())

	ref, err := ParseReference("a")
	require.NoError(t, err)
	assert.False(t, ref.IsEmpty())
}
