// Package pick implements the ray-pick core: screen-space mouse coordinates
// to a world-space ray, an octree-filtered broad phase narrowing candidates
// to whatever the ray's bounding slab actually crosses, and a
// nearest-hit-wins narrow phase against each candidate's CollisionShape.
package pick

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/spatial"
)

// Ray is a world-space ray: an origin and a unit direction.
type Ray struct {
	Origin    mathx.Vec3
	Direction mathx.Vec3
}

// ScreenToRay converts a screen-space mouse position to a world-space ray
// using the inverse of viewProj (already the projection*coordCorrection*view
// composition — see mathx.ViewProjection).
func ScreenToRay(viewProj mathx.Mat4, mouseX, mouseY, windowWidth, windowHeight float32) (Ray, error) {
	ndcX := (2*mouseX)/windowWidth - 1
	ndcY := 1 - (2*mouseY)/windowHeight

	near, err := mathx.Unproject(viewProj, mathx.Vec3{ndcX, ndcY, 0})
	if err != nil {
		return Ray{}, err
	}
	far, err := mathx.Unproject(viewProj, mathx.Vec3{ndcX, ndcY, 1})
	if err != nil {
		return Ray{}, err
	}

	direction, err := mathx.Normalize(far.Sub(near))
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: near, Direction: direction}, nil
}

// Hit describes a ray-vs-shape intersection.
type Hit struct {
	Entity   ecs.Entity
	Distance float32
	Point    mathx.Vec3
	Normal   mathx.Vec3
}

// Pick runs the broad+narrow phase pass and returns the nearest hit, if
// any. broad is the scene's octree-filtered broad phase (collision.Core.Broad
// in practice, since it's already rebuilt every frame from the same
// TransformComponent/ColliderComponent pairs pick needs); only entities
// whose bounding box the ray's slab test crosses ever reach the narrow
// phase below. simplePick substitutes every candidate's mesh-shape test
// with its bounding-sphere test, per spec.md §4.K's "simple pick" mode.
func Pick(
	ray Ray,
	simplePick bool,
	broad spatial.Index[ecs.Entity],
	transforms *ecs.ComponentStore[ecs.TransformComponent],
	colliders *ecs.ComponentStore[ecs.ColliderComponent],
	pickables *ecs.ComponentStore[ecs.PickableComponent],
	layerMask uint32,
) (Hit, bool) {
	var best Hit
	found := false

	for _, e := range broad.QueryRay(ray.Origin, ray.Direction) {
		p, ok := pickables.Get(e)
		if !ok || !p.Enabled {
			continue
		}
		if p.LayerMask != 0 && layerMask != 0 && (p.LayerMask&layerMask) == 0 {
			continue
		}
		tr, ok := transforms.Get(e)
		if !ok {
			continue
		}

		if p.CollisionRadius != nil {
			if _, hit := intersectSphere(ray, tr.Position, *p.CollisionRadius); !hit {
				continue
			}
		}

		col, ok := colliders.Get(e)
		if !ok {
			continue
		}

		dist, point, normal, hit := rayVsShape(ray, col.Shape, tr, simplePick)
		if !hit || dist < 0 {
			continue
		}
		if !found || dist < best.Distance {
			best = Hit{Entity: e, Distance: dist, Point: point, Normal: normal}
			found = true
		}
	}

	return best, found
}

func intersectSphere(ray Ray, center mathx.Vec3, radius float32) (float32, bool) {
	oc := ray.Origin.Sub(center)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

func rayVsShape(ray Ray, shape ecs.CollisionShape, tr ecs.TransformComponent, simplePick bool) (distance float32, point, normal mathx.Vec3, hit bool) {
	maxScale := tr.Scale.X()
	if tr.Scale.Y() > maxScale {
		maxScale = tr.Scale.Y()
	}
	if tr.Scale.Z() > maxScale {
		maxScale = tr.Scale.Z()
	}

	if simplePick || shape.Kind == ecs.ShapeSphere {
		radius := shape.Radius
		if shape.Kind == ecs.ShapeMesh {
			radius = shape.LocalBoundRadius
		}
		radius *= maxScale
		t, ok := intersectSphere(ray, tr.Position, radius)
		if !ok {
			return 0, mathx.Vec3{}, mathx.Vec3{}, false
		}
		p := ray.Origin.Add(ray.Direction.Mul(t))
		n, err := mathx.Normalize(p.Sub(tr.Position))
		if err != nil {
			n = mathx.Vec3{0, 1, 0}
		}
		return t, p, n, true
	}

	model := mathx.TRSCompose(tr.Position, tr.Rotation, tr.Scale)
	bestDist := float32(math.Inf(1))
	var bestPoint, bestNormal mathx.Vec3
	hitAny := false

	for _, tri := range shape.Triangles {
		a := transformPoint(model, tri.A)
		b := transformPoint(model, tri.B)
		c := transformPoint(model, tri.C)
		if t, p, n, ok := intersectTriangle(ray, a, b, c); ok && t < bestDist {
			bestDist, bestPoint, bestNormal, hitAny = t, p, n, true
		}
	}
	return bestDist, bestPoint, bestNormal, hitAny
}

func transformPoint(m mathx.Mat4, p mathx.Vec3) mathx.Vec3 {
	v := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), p.Z(), 1})
	return mathx.Vec3{v.X(), v.Y(), v.Z()}
}

// intersectTriangle implements the Möller–Trumbore ray-triangle test.
func intersectTriangle(ray Ray, a, b, c mathx.Vec3) (distance float32, point, normal mathx.Vec3, hit bool) {
	const epsilon = 1e-7
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -epsilon && det < epsilon {
		return 0, mathx.Vec3{}, mathx.Vec3{}, false
	}
	invDet := 1 / det
	s := ray.Origin.Sub(a)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, mathx.Vec3{}, mathx.Vec3{}, false
	}
	q := s.Cross(edge1)
	v := invDet * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, mathx.Vec3{}, mathx.Vec3{}, false
	}
	t := invDet * edge2.Dot(q)
	if t < epsilon {
		return 0, mathx.Vec3{}, mathx.Vec3{}, false
	}
	point = ray.Origin.Add(ray.Direction.Mul(t))
	normal, err := mathx.Normalize(edge1.Cross(edge2))
	if err != nil {
		normal = mathx.Vec3{0, 1, 0}
	}
	return t, point, normal, true
}

// ApplySelection sets the winner's SelectionComponent.Selected, clearing any
// prior selection. Called with found=false to clear selection on a miss.
func ApplySelection(selections *ecs.ComponentStore[ecs.SelectionComponent], winner ecs.Entity, found bool, frame uint64) {
	selections.Query(func(e ecs.Entity, s *ecs.SelectionComponent) bool {
		if s.Selected {
			s.Selected = false
		}
		return true
	})
	if !found {
		return
	}
	if s := selections.GetMut(winner); s != nil {
		s.Selected = true
		s.LastSelectedFrame = frame
	} else {
		selections.Add(winner, ecs.SelectionComponent{Selected: true, LastSelectedFrame: frame})
	}
}
