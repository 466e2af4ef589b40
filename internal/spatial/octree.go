package spatial

import "github.com/forgelight/enginecore/internal/mathx"

const (
	defaultMaxEntriesPerNode = 8
	defaultMaxDepth          = 8
)

// Octree is a static-bounds spatial tree giving O(log N) broad-phase
// queries once entity counts grow large enough that SimpleListGraph's
// linear scan becomes the bottleneck. Rebuilt every frame the same way
// Gekko3D-gekko's SpatialHashGrid is cleared and repopulated each frame,
// but subdividing space recursively instead of hashing into fixed cells.
type Octree[T comparable] struct {
	bounds     AABB
	maxDepth   int
	maxPerNode int
	root       *octreeNode[T]
}

type octreeNode[T comparable] struct {
	bounds   AABB
	entries  []entry[T]
	children *[8]*octreeNode[T]
	depth    int
}

func NewOctree[T comparable](worldBounds AABB) *Octree[T] {
	return &Octree[T]{
		bounds:     worldBounds,
		maxDepth:   defaultMaxDepth,
		maxPerNode: defaultMaxEntriesPerNode,
		root:       &octreeNode[T]{bounds: worldBounds},
	}
}

func (o *Octree[T]) Clear() {
	o.root = &octreeNode[T]{bounds: o.bounds}
}

func (o *Octree[T]) Insert(id T, box AABB) {
	insertInto(o.root, entry[T]{id: id, box: box}, o.maxDepth, o.maxPerNode)
}

func insertInto[T comparable](node *octreeNode[T], e entry[T], maxDepth, maxPerNode int) {
	if node.children != nil {
		if child := childContaining(node, e.box); child != nil {
			insertInto(child, e, maxDepth, maxPerNode)
			return
		}
		node.entries = append(node.entries, e)
		return
	}

	node.entries = append(node.entries, e)
	if len(node.entries) > maxPerNode && node.depth < maxDepth {
		subdivide(node)
		remaining := node.entries[:0]
		for _, existing := range node.entries {
			if child := childContaining(node, existing.box); child != nil {
				insertInto(child, existing, maxDepth, maxPerNode)
			} else {
				remaining = append(remaining, existing)
			}
		}
		node.entries = remaining
	}
}

func subdivide[T comparable](node *octreeNode[T]) {
	center := node.bounds.Center()
	min, max := node.bounds.Min, node.bounds.Max
	var children [8]*octreeNode[T]
	for i := 0; i < 8; i++ {
		childMin := mathx.Vec3{
			pick(i&1 == 0, min.X(), center.X()),
			pick(i&2 == 0, min.Y(), center.Y()),
			pick(i&4 == 0, min.Z(), center.Z()),
		}
		childMax := mathx.Vec3{
			pick(i&1 == 0, center.X(), max.X()),
			pick(i&2 == 0, center.Y(), max.Y()),
			pick(i&4 == 0, center.Z(), max.Z()),
		}
		children[i] = &octreeNode[T]{bounds: AABB{Min: childMin, Max: childMax}, depth: node.depth + 1}
	}
	node.children = &children
}

func pick(cond bool, a, b float32) float32 {
	if cond {
		return a
	}
	return b
}

// childContaining returns the single child whose bounds fully contain box,
// or nil if box straddles more than one child (it then stays at this level).
func childContaining[T comparable](node *octreeNode[T], box AABB) *octreeNode[T] {
	if node.children == nil {
		return nil
	}
	for _, child := range node.children {
		if fullyContains(child.bounds, box) {
			return child
		}
	}
	return nil
}

func fullyContains(outer, inner AABB) bool {
	return inner.Min.X() >= outer.Min.X() && inner.Max.X() <= outer.Max.X() &&
		inner.Min.Y() >= outer.Min.Y() && inner.Max.Y() <= outer.Max.Y() &&
		inner.Min.Z() >= outer.Min.Z() && inner.Max.Z() <= outer.Max.Z()
}

func (o *Octree[T]) QueryAABB(box AABB) []T {
	var results []T
	queryNode(o.root, box, &results)
	return results
}

func queryNode[T comparable](node *octreeNode[T], box AABB, out *[]T) {
	if !node.bounds.Intersects(box) {
		return
	}
	for _, e := range node.entries {
		if e.box.Intersects(box) {
			*out = append(*out, e.id)
		}
	}
	if node.children != nil {
		for _, child := range node.children {
			queryNode(child, box, out)
		}
	}
}

func (o *Octree[T]) QueryRadius(center mathx.Vec3, radius float32) []T {
	return o.QueryAABB(AABB{
		Min: center.Sub(mathx.Vec3{radius, radius, radius}),
		Max: center.Add(mathx.Vec3{radius, radius, radius}),
	})
}

// QueryRay is the broad phase behind ray-pick: it prunes whole subtrees
// whose bounds the ray misses using the same slab test a leaf's own
// candidates are tested with, so a miss at a node's bounds skips every
// entry beneath it without visiting them.
func (o *Octree[T]) QueryRay(origin, direction mathx.Vec3) []T {
	var results []T
	queryRayNode(o.root, origin, direction, &results)
	return results
}

func queryRayNode[T comparable](node *octreeNode[T], origin, direction mathx.Vec3, out *[]T) {
	if _, ok := node.bounds.IntersectRay(origin, direction); !ok {
		return
	}
	for _, e := range node.entries {
		if _, ok := e.box.IntersectRay(origin, direction); ok {
			*out = append(*out, e.id)
		}
	}
	if node.children != nil {
		for _, child := range node.children {
			queryRayNode(child, origin, direction, out)
		}
	}
}
