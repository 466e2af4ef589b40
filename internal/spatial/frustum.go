package spatial

import "github.com/forgelight/enginecore/internal/mathx"

// Plane is ax+by+cz+d=0 with Normal=(a,b,c) pointing into the half-space
// the frustum considers "inside".
type Plane struct {
	Normal mathx.Vec3
	D      float32
}

func (p Plane) SignedDistance(point mathx.Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the six clip planes (left, right, bottom, top, near, far)
// extracted from a view-projection matrix.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the six frustum planes from a combined
// view-projection matrix using the standard Gribb/Hartmann row-extraction
// method, normalizing each plane so Plane.SignedDistance is Euclidean.
func FrustumFromMatrix(m mathx.Mat4) Frustum {
	row := func(i int) mathx.Vec3 {
		return mathx.Vec3{m[i], m[i+4], m[i+8]}
	}
	rowW := mathx.Vec3{m[3], m[7], m[11]}
	dRow := func(i int) float32 { return m[i+12] }
	wD := m[15]

	r0, r1, r2 := row(0), row(1), row(2)
	d0, d1, d2 := dRow(0), dRow(1), dRow(2)

	planes := [6]Plane{
		{Normal: rowW.Add(r0), D: wD + d0},   // left
		{Normal: rowW.Sub(r0), D: wD - d0},   // right
		{Normal: rowW.Add(r1), D: wD + d1},   // bottom
		{Normal: rowW.Sub(r1), D: wD - d1},   // top
		{Normal: rowW.Add(r2), D: wD + d2},   // near
		{Normal: rowW.Sub(r2), D: wD - d2},   // far
	}
	for i := range planes {
		length := planes[i].Normal.Len()
		if length > 0 {
			planes[i].Normal = planes[i].Normal.Mul(1 / length)
			planes[i].D /= length
		}
	}
	return Frustum{Planes: planes}
}

// Intersects reports whether box is at least partially inside the frustum,
// using the furthest-corner (positive-vertex) test: for each plane, pick
// the AABB corner furthest along the plane's normal and reject the box if
// that corner's signed distance is negative.
func (f Frustum) Intersects(box AABB) bool {
	for _, plane := range f.Planes {
		corner := mathx.Vec3{
			positiveCorner(plane.Normal.X(), box.Min.X(), box.Max.X()),
			positiveCorner(plane.Normal.Y(), box.Min.Y(), box.Max.Y()),
			positiveCorner(plane.Normal.Z(), box.Min.Z(), box.Max.Z()),
		}
		if plane.SignedDistance(corner) < 0 {
			return false
		}
	}
	return true
}

func positiveCorner(normalComponent, lo, hi float32) float32 {
	if normalComponent >= 0 {
		return hi
	}
	return lo
}
