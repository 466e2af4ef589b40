// Package mathx provides the vector/quaternion/matrix operations the core
// needs, built on top of github.com/go-gl/mathgl rather than hand-rolled
// types, following the same library choice as Gekko3D-gekko's physics code.
package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/forgelight/enginecore/internal/enginerr"
)

type Vec3 = mgl32.Vec3
type Quat = mgl32.Quat
type Mat4 = mgl32.Mat4
type Mat3 = mgl32.Mat3

// Normalize returns v/|v|, failing with InvalidInput on a zero-length vector.
func Normalize(v Vec3) (Vec3, error) {
	length := v.Len()
	if length == 0 {
		return Vec3{}, enginerr.New(enginerr.InvalidInput, "cannot normalize a zero-length vector")
	}
	return v.Mul(1 / length), nil
}

// TRSCompose builds a model matrix as scale, then rotate, then translate.
func TRSCompose(translation Vec3, rotation Quat, scale Vec3) Mat4 {
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	r := rotation.Normalize().Mat4()
	t := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	return t.Mul4(r).Mul4(s)
}

// TRSDecompose is the inverse of TRSCompose. Only well-defined when scale is
// positive on every axis, per the invariant TRSCompose's contract assumes.
func TRSDecompose(m Mat4) (translation Vec3, rotation Quat, scale Vec3, err error) {
	translation = Vec3{m[12], m[13], m[14]}

	col0 := Vec3{m[0], m[1], m[2]}
	col1 := Vec3{m[4], m[5], m[6]}
	col2 := Vec3{m[8], m[9], m[10]}

	sx, sy, sz := col0.Len(), col1.Len(), col2.Len()
	if sx == 0 || sy == 0 || sz == 0 {
		return Vec3{}, Quat{}, Vec3{}, enginerr.New(enginerr.InvalidInput, "singular scale in transform matrix")
	}
	scale = Vec3{sx, sy, sz}

	rot := mgl32.Mat3{
		col0[0] / sx, col0[1] / sx, col0[2] / sx,
		col1[0] / sy, col1[1] / sy, col1[2] / sy,
		col2[0] / sz, col2[1] / sz, col2[2] / sz,
	}
	rotation = mgl32.Mat4ToQuat(rot.Mat4())
	return translation, rotation, scale, nil
}

// Inverse inverts a rigid+scale transform, failing with InvalidInput if the
// matrix is singular (determinant ~ 0).
func Inverse(m Mat4) (Mat4, error) {
	det := m.Det()
	if math.Abs(float64(det)) < 1e-12 {
		return Mat4{}, enginerr.New(enginerr.InvalidInput, "cannot invert a singular transform")
	}
	return m.Inv(), nil
}

// LookAt builds a right-handed view matrix.
func LookAt(eye, target, up Vec3) Mat4 {
	return mgl32.LookAtV(eye, target, up)
}

// Perspective builds a right-handed perspective projection matrix.
func Perspective(fovYRadians, aspect, near, far float32) Mat4 {
	return mgl32.Perspective(fovYRadians, aspect, near, far)
}

// ClipCorrection is the fixed view-to-clip coordinate-correction matrix
// applied between view space and Vulkan clip space: flips Y (Vulkan's clip
// space has Y pointing down) and remaps Z from [-1,1] to [0,1]. This matrix
// is part of the view->clip chain and is never baked into meshes.
var ClipCorrection = Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// NormalMatrix derives the 3x3 matrix that correctly transforms normals
// under a model matrix that may carry non-uniform scale: the transpose of
// the inverse of the model's upper-left 3x3. Falls back to the identity
// upper-left 3x3 if the model is singular, rather than failing a per-frame
// call over a single degenerate instance.
func NormalMatrix(model Mat4) Mat3 {
	upper := mgl32.Mat3{
		model[0], model[1], model[2],
		model[4], model[5], model[6],
		model[8], model[9], model[10],
	}
	det := upper.Det()
	if math.Abs(float64(det)) < 1e-12 {
		return mgl32.Ident3()
	}
	return upper.Inv().Transpose()
}

// AxisAngle builds a unit quaternion rotating by angle radians around axis.
func AxisAngle(axis Vec3, angleRadians float32) Quat {
	return mgl32.QuatRotate(angleRadians, axis)
}

// Slerp spherically interpolates between two unit quaternions.
func Slerp(a, b Quat, t float32) Quat {
	return mgl32.QuatSlerp(a, b, t)
}

// ViewProjection composes the view, clip-correction, and projection
// matrices in the order the ray-pick core and the orchestrator share:
// clip = projection * coordCorrection * view.
func ViewProjection(projection, view Mat4) Mat4 {
	return projection.Mul4(ClipCorrection).Mul4(view)
}

// Project maps a world-space point to normalized device coordinates.
func Project(viewProj Mat4, world Vec3) Vec3 {
	clip := viewProj.Mul4x1(mgl32.Vec4{world.X(), world.Y(), world.Z(), 1})
	if clip.W() == 0 {
		return Vec3{}
	}
	return Vec3{clip.X() / clip.W(), clip.Y() / clip.W(), clip.Z() / clip.W()}
}

// Unproject maps an NDC point back to world space using the inverse of
// viewProj, failing with InvalidInput if viewProj is singular.
func Unproject(viewProj Mat4, ndc Vec3) (Vec3, error) {
	inv, err := Inverse(viewProj)
	if err != nil {
		return Vec3{}, err
	}
	world := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), ndc.Z(), 1})
	if world.W() == 0 {
		return Vec3{}, enginerr.New(enginerr.InvalidInput, "unproject produced a point at infinity")
	}
	return Vec3{world.X() / world.W(), world.Y() / world.W(), world.Z() / world.W()}, nil
}
