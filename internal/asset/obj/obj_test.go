package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTriangle(t *testing.T) {
	content := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 0 1
f 1/1/1 2/2/1 3/3/1
`
	mesh, err := Parse(content)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
}

func TestParseQuadFanTriangulates(t *testing.T) {
	content := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	mesh, err := Parse(content)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
	assert.Len(t, mesh.Indices, 6) // two triangles
}

func TestDegenerateTriangleDropped(t *testing.T) {
	content := `
v 0 0 0
v 0 0 0
v 1 0 0
f 1 2 3
`
	mesh, err := Parse(content)
	require.NoError(t, err)
	assert.Empty(t, mesh.Indices)
}

func TestDedupSharedTriplet(t *testing.T) {
	content := `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 2//1 4//1 3//1
`
	mesh, err := Parse(content)
	require.NoError(t, err)
	// 4 distinct (v,vn,vt) triplets used across both faces, shared where identical
	assert.Len(t, mesh.Vertices, 4)
	assert.Len(t, mesh.Indices, 6)
}

func TestGroupsAndObjectsIgnored(t *testing.T) {
	content := `
o MyObject
g group1
v 0 0 0
v 1 0 0
v 0 1 0
usemtl Foo
f 1 2 3
`
	mesh, err := Parse(content)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 3)
	assert.Len(t, mesh.Indices, 3)
}
