package mathx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMagnitude(t *testing.T) {
	vectors := []Vec3{{3, 4, 0}, {1, 1, 1}, {-2, 5, -9}, {0.001, 0, 0}}
	for _, v := range vectors {
		n, err := Normalize(v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, n.Len(), 1e-5)
	}
}

func TestNormalizeZeroVectorFails(t *testing.T) {
	_, err := Normalize(Vec3{0, 0, 0})
	require.Error(t, err)
}

func TestQuatPreservesMagnitude(t *testing.T) {
	q := AxisAngle(Vec3{0, 1, 0}, mgl32.DegToRad(37)).Normalize()
	v := Vec3{2, -3, 5}
	rotated := q.Rotate(v)
	assert.InDelta(t, v.Len(), rotated.Len(), 1e-4)
}

func TestTRSRoundTrip(t *testing.T) {
	translation := Vec3{1, 2, 3}
	rotation := AxisAngle(Vec3{0, 0, 1}, mgl32.DegToRad(42)).Normalize()
	scale := Vec3{2, 2, 2}

	m := TRSCompose(translation, rotation, scale)
	gotT, gotR, gotS, err := TRSDecompose(m)
	require.NoError(t, err)

	assert.InDelta(t, translation.X(), gotT.X(), 1e-4)
	assert.InDelta(t, translation.Y(), gotT.Y(), 1e-4)
	assert.InDelta(t, translation.Z(), gotT.Z(), 1e-4)
	assert.InDelta(t, scale.X(), gotS.X(), 1e-4)

	dot := rotation.Dot(gotR)
	assert.InDelta(t, 1.0, float32(dot*dot), 1e-3)
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	view := LookAt(Vec3{0, 0, 10}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	proj := Perspective(mgl32.DegToRad(60), 16.0 / 9.0, 0.1, 100)
	viewProj := ViewProjection(proj, view)

	world := Vec3{1, 1, 2}
	ndc := Project(viewProj, world)
	got, err := Unproject(viewProj, ndc)
	require.NoError(t, err)

	assert.InDelta(t, world.X(), got.X(), 1e-3)
	assert.InDelta(t, world.Y(), got.Y(), 1e-3)
	assert.InDelta(t, world.Z(), got.Z(), 1e-3)
}

func TestInverseSingularFails(t *testing.T) {
	singular := Mat4{}
	_, err := Inverse(singular)
	require.Error(t, err)
}
