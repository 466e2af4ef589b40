package collision

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
)

// narrowPhase tests two collider shapes, already known to have passed the
// layer filter, transformed from model to world space by each entity's
// TransformComponent.
func narrowPhase(a ecs.CollisionShape, trA ecs.TransformComponent, b ecs.CollisionShape, trB ecs.TransformComponent) bool {
	switch {
	case a.Kind == ecs.ShapeSphere && b.Kind == ecs.ShapeSphere:
		return sphereSphere(trA.Position, worldRadius(a, trA), trB.Position, worldRadius(b, trB))
	case a.Kind == ecs.ShapeMesh && b.Kind == ecs.ShapeMesh:
		return meshMesh(a, trA, b, trB)
	case a.Kind == ecs.ShapeSphere && b.Kind == ecs.ShapeMesh:
		return sphereMesh(trA.Position, worldRadius(a, trA), b, trB)
	default: // a mesh, b sphere
		return sphereMesh(trB.Position, worldRadius(b, trB), a, trA)
	}
}

func worldRadius(shape ecs.CollisionShape, tr ecs.TransformComponent) float32 {
	maxScale := tr.Scale.X()
	if tr.Scale.Y() > maxScale {
		maxScale = tr.Scale.Y()
	}
	if tr.Scale.Z() > maxScale {
		maxScale = tr.Scale.Z()
	}
	return shape.Radius * maxScale
}

func sphereSphere(centerA mathx.Vec3, radiusA float32, centerB mathx.Vec3, radiusB float32) bool {
	dist := centerA.Sub(centerB).Len()
	return dist <= radiusA+radiusB
}

func worldTriangles(shape ecs.CollisionShape, tr ecs.TransformComponent) []ecs.Triangle {
	model := mathx.TRSCompose(tr.Position, tr.Rotation, tr.Scale)
	out := make([]ecs.Triangle, len(shape.Triangles))
	for i, tri := range shape.Triangles {
		out[i] = ecs.Triangle{
			A: transformPoint(model, tri.A),
			B: transformPoint(model, tri.B),
			C: transformPoint(model, tri.C),
		}
	}
	return out
}

func transformPoint(m mathx.Mat4, p mathx.Vec3) mathx.Vec3 {
	v := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
	return mathx.Vec3{v.X(), v.Y(), v.Z()}
}

func meshMesh(a ecs.CollisionShape, trA ecs.TransformComponent, b ecs.CollisionShape, trB ecs.TransformComponent) bool {
	trisA := worldTriangles(a, trA)
	trisB := worldTriangles(b, trB)
	for _, ta := range trisA {
		for _, tb := range trisB {
			if triangleTriangleSAT(ta, tb) {
				return true
			}
		}
	}
	return false
}

func sphereMesh(center mathx.Vec3, radius float32, shape ecs.CollisionShape, tr ecs.TransformComponent) bool {
	for _, tri := range worldTriangles(shape, tr) {
		if closestPointOnTriangle(tri, center).Sub(center).Len() <= radius {
			return true
		}
	}
	return false
}

// triangleTriangleSAT tests two triangles for overlap via the separating
// axis theorem: the two face normals plus all nine edge-edge cross
// products give the eleven candidate separating axes.
func triangleTriangleSAT(a, b ecs.Triangle) bool {
	edgesA := [3]mathx.Vec3{a.B.Sub(a.A), a.C.Sub(a.B), a.A.Sub(a.C)}
	edgesB := [3]mathx.Vec3{b.B.Sub(b.A), b.C.Sub(b.B), b.A.Sub(b.C)}

	normalA := edgesA[0].Cross(edgesA[1])
	normalB := edgesB[0].Cross(edgesB[1])

	axes := make([]mathx.Vec3, 0, 11)
	axes = append(axes, normalA, normalB)
	for _, ea := range edgesA {
		for _, eb := range edgesB {
			axes = append(axes, ea.Cross(eb))
		}
	}

	for _, axis := range axes {
		if axis.Len() < 1e-12 {
			continue
		}
		minA, maxA := projectTriangle(a, axis)
		minB, maxB := projectTriangle(b, axis)
		if maxA < minB || maxB < minA {
			return false
		}
	}
	return true
}

func projectTriangle(t ecs.Triangle, axis mathx.Vec3) (min, max float32) {
	da, db, dc := axis.Dot(t.A), axis.Dot(t.B), axis.Dot(t.C)
	min = da
	max = da
	for _, d := range [2]float32{db, dc} {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return
}

// closestPointOnTriangle returns the closest point on triangle t to p,
// via barycentric-region projection.
func closestPointOnTriangle(t ecs.Triangle, p mathx.Vec3) mathx.Vec3 {
	ab := t.B.Sub(t.A)
	ac := t.C.Sub(t.A)
	ap := p.Sub(t.A)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return t.A
	}

	bp := p.Sub(t.B)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return t.B
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return t.A.Add(ab.Mul(v))
	}

	cp := p.Sub(t.C)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return t.C
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return t.A.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return t.B.Add(t.C.Sub(t.B).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return t.A.Add(ab.Mul(v)).Add(ac.Mul(w))
}
