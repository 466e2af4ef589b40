package spatial

import "github.com/forgelight/enginecore/internal/mathx"

// Index is the broad-phase query surface the collision core and ray-pick
// core share. T is the caller's entity identifier (kept generic so this
// package never needs to import internal/ecs).
type Index[T comparable] interface {
	Clear()
	Insert(id T, box AABB)
	QueryAABB(box AABB) []T
	QueryRadius(center mathx.Vec3, radius float32) []T
	QueryRay(origin, direction mathx.Vec3) []T
}

// SimpleListGraph is the default broad-phase index: a flat list, linearly
// scanned. Correct at any scale, O(N) per query — the Octree below trades
// rebuild cost for O(log N) queries once entity counts grow large.
type SimpleListGraph[T comparable] struct {
	entries []entry[T]
}

type entry[T comparable] struct {
	id  T
	box AABB
}

func NewSimpleListGraph[T comparable]() *SimpleListGraph[T] {
	return &SimpleListGraph[T]{}
}

func (g *SimpleListGraph[T]) Clear() {
	g.entries = g.entries[:0]
}

func (g *SimpleListGraph[T]) Insert(id T, box AABB) {
	g.entries = append(g.entries, entry[T]{id: id, box: box})
}

func (g *SimpleListGraph[T]) QueryAABB(box AABB) []T {
	var results []T
	for _, e := range g.entries {
		if e.box.Intersects(box) {
			results = append(results, e.id)
		}
	}
	return results
}

func (g *SimpleListGraph[T]) QueryRadius(center mathx.Vec3, radius float32) []T {
	return g.QueryAABB(AABB{
		Min: center.Sub(mathx.Vec3{radius, radius, radius}),
		Max: center.Add(mathx.Vec3{radius, radius, radius}),
	})
}

// QueryRay linearly scans every entry's bounding box against the ray's slab
// test. Order is insertion order, not hit-distance order; callers doing a
// nearest-hit narrow phase already sort candidates themselves.
func (g *SimpleListGraph[T]) QueryRay(origin, direction mathx.Vec3) []T {
	var results []T
	for _, e := range g.entries {
		if _, ok := e.box.IntersectRay(origin, direction); ok {
			results = append(results, e.id)
		}
	}
	return results
}
