package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTreeDuplicatePathIsAnError(t *testing.T) {
	_, err := buildTree([]filteredRule{
		{path: "/trunk", rights: Read},
		{path: "/trunk", rights: Write},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildTreeDefaultsRootAccessWhenUnset(t *testing.T) {
	root, err := buildTree([]filteredRule{{path: "/trunk", rights: Read}})
	require.NoError(t, err)
	require.NotNil(t, root.access)
	assert.Equal(t, Rights(0), *root.access)
}

func TestFinalizeAggregatesMinMaxOverWholeSubtree(t *testing.T) {
	root, err := buildTree([]filteredRule{
		{path: "/", rights: Read},
		{path: "/a", rights: Read | Write},
		{path: "/a/b", rights: 0},
	})
	require.NoError(t, err)

	a := root.children["a"]
	require.NotNil(t, a)
	b := a.children["b"]
	require.NotNil(t, b)

	// a's subtree contains a itself (rw) and b (none): max must OR in
	// rw, min must AND down to the intersection with b's 0.
	assert.Equal(t, Read|Write, a.maxRights)
	assert.Equal(t, Rights(0), a.minRights)
	assert.Equal(t, Rights(0), b.minRights)
	assert.Equal(t, Rights(0), b.maxRights)
}

func TestSplitPathPreservesEmptyIntermediateSegments(t *testing.T) {
	segs := splitPath("/trunk//src")
	assert.Equal(t, []string{"trunk", "", "src"}, segs)
}

func TestSplitPathRoot(t *testing.T) {
	assert.Equal(t, []string{}, splitPath("/"))
	assert.Equal(t, []string{}, splitPath(""))
}
