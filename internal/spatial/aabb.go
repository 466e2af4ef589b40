// Package spatial implements the broad-phase index: AABB, Frustum, a
// linear-scan SimpleListGraph, and an Octree for O(log N) queries at scale.
// AABB/Frustum follow the branchless slab and furthest-corner algorithms
// described directly by spec.md §4.N; the Octree has no pack precedent
// (Gekko3D-gekko's SpatialHashGrid in mod_spatialgrid.go is a hash grid, not
// a tree) and borrows only its "rebuilt each frame from TransformComponent,
// queried by AABB/radius" shape.
package spatial

import (
	"math"

	"github.com/forgelight/enginecore/internal/mathx"
)

type AABB struct {
	Min, Max mathx.Vec3
}

func (a AABB) ContainsPoint(p mathx.Vec3) bool {
	return p.X() >= a.Min.X() && p.X() <= a.Max.X() &&
		p.Y() >= a.Min.Y() && p.Y() <= a.Max.Y() &&
		p.Z() >= a.Min.Z() && p.Z() <= a.Max.Z()
}

func (a AABB) Intersects(o AABB) bool {
	return a.Min.X() <= o.Max.X() && a.Max.X() >= o.Min.X() &&
		a.Min.Y() <= o.Max.Y() && a.Max.Y() >= o.Min.Y() &&
		a.Min.Z() <= o.Max.Z() && a.Max.Z() >= o.Min.Z()
}

func (a AABB) Center() mathx.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Union(o AABB) AABB {
	return AABB{
		Min: mathx.Vec3{minf(a.Min.X(), o.Min.X()), minf(a.Min.Y(), o.Min.Y()), minf(a.Min.Z(), o.Min.Z())},
		Max: mathx.Vec3{maxf(a.Max.X(), o.Max.X()), maxf(a.Max.Y(), o.Max.Y()), maxf(a.Max.Z(), o.Max.Z())},
	}
}

// IntersectRay runs the branchless slab test against the AABB. ok is false
// when the ray misses entirely; when it hits, distance is the near entry
// distance along the ray (clamped to 0 when the origin is already inside).
func (a AABB) IntersectRay(origin, direction mathx.Vec3) (distance float32, ok bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		o, d := component(origin, axis), component(direction, axis)
		lo, hi := component(a.Min, axis), component(a.Max, axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		invD := 1 / d
		t1 := (lo - o) * invD
		t2 := (hi - o) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = maxf(tMin, t1)
		tMax = minf(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

func component(v mathx.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X()
	case 1:
		return v.Y()
	default:
		return v.Z()
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
