package spatial

import (
	"testing"

	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/stretchr/testify/assert"
)

func TestAABBIntersectsIsSymmetric(t *testing.T) {
	a := AABB{Min: mathx.Vec3{0, 0, 0}, Max: mathx.Vec3{1, 1, 1}}
	b := AABB{Min: mathx.Vec3{0.5, 0.5, 0.5}, Max: mathx.Vec3{2, 2, 2}}
	assert.Equal(t, a.Intersects(b), b.Intersects(a))
	assert.True(t, a.Intersects(b))

	c := AABB{Min: mathx.Vec3{5, 5, 5}, Max: mathx.Vec3{6, 6, 6}}
	assert.Equal(t, a.Intersects(c), c.Intersects(a))
	assert.False(t, a.Intersects(c))
}

func TestAABBContainsPoint(t *testing.T) {
	a := AABB{Min: mathx.Vec3{-1, -1, -1}, Max: mathx.Vec3{1, 1, 1}}
	assert.True(t, a.ContainsPoint(mathx.Vec3{0, 0, 0}))
	assert.False(t, a.ContainsPoint(mathx.Vec3{2, 0, 0}))
}

func TestIntersectRayOriginInsideReturnsZero(t *testing.T) {
	a := AABB{Min: mathx.Vec3{-1, -1, -1}, Max: mathx.Vec3{1, 1, 1}}
	dist, ok := a.IntersectRay(mathx.Vec3{0, 0, 0}, mathx.Vec3{1, 0, 0})
	assert.True(t, ok)
	assert.Equal(t, float32(0), dist)
}

func TestIntersectRayMiss(t *testing.T) {
	a := AABB{Min: mathx.Vec3{-1, -1, -1}, Max: mathx.Vec3{1, 1, 1}}
	_, ok := a.IntersectRay(mathx.Vec3{10, 10, 10}, mathx.Vec3{0, 0, 1})
	assert.False(t, ok)
}

func TestIntersectRayHitsFromOutside(t *testing.T) {
	a := AABB{Min: mathx.Vec3{-1, -1, -1}, Max: mathx.Vec3{1, 1, 1}}
	dist, ok := a.IntersectRay(mathx.Vec3{-5, 0, 0}, mathx.Vec3{1, 0, 0})
	assert.True(t, ok)
	assert.InDelta(t, 4.0, dist, 1e-5)
}

func TestFrustumContainsOriginBox(t *testing.T) {
	view := mathx.LookAt(mathx.Vec3{0, 0, 5}, mathx.Vec3{0, 0, 0}, mathx.Vec3{0, 1, 0})
	proj := mathx.Perspective(1.0, 1.0, 0.1, 100)
	vp := mathx.ViewProjection(proj, view)
	f := FrustumFromMatrix(vp)

	inside := AABB{Min: mathx.Vec3{-0.1, -0.1, -0.1}, Max: mathx.Vec3{0.1, 0.1, 0.1}}
	assert.True(t, f.Intersects(inside))

	farAway := AABB{Min: mathx.Vec3{1000, 1000, 1000}, Max: mathx.Vec3{1001, 1001, 1001}}
	assert.False(t, f.Intersects(farAway))
}

func TestSimpleListGraphQueryAABB(t *testing.T) {
	g := NewSimpleListGraph[int]()
	g.Insert(1, AABB{Min: mathx.Vec3{0, 0, 0}, Max: mathx.Vec3{1, 1, 1}})
	g.Insert(2, AABB{Min: mathx.Vec3{10, 10, 10}, Max: mathx.Vec3{11, 11, 11}})

	results := g.QueryAABB(AABB{Min: mathx.Vec3{0.5, 0.5, 0.5}, Max: mathx.Vec3{2, 2, 2}})
	assert.Equal(t, []int{1}, results)
}

func TestSimpleListGraphClear(t *testing.T) {
	g := NewSimpleListGraph[int]()
	g.Insert(1, AABB{Min: mathx.Vec3{0, 0, 0}, Max: mathx.Vec3{1, 1, 1}})
	g.Clear()
	assert.Empty(t, g.QueryAABB(AABB{Min: mathx.Vec3{-10, -10, -10}, Max: mathx.Vec3{10, 10, 10}}))
}

func TestOctreeFindsInsertedEntries(t *testing.T) {
	world := AABB{Min: mathx.Vec3{-100, -100, -100}, Max: mathx.Vec3{100, 100, 100}}
	o := NewOctree[int](world)

	for i := 0; i < 100; i++ {
		pos := float32(i) - 50
		o.Insert(i, AABB{Min: mathx.Vec3{pos, 0, 0}, Max: mathx.Vec3{pos + 0.5, 0.5, 0.5}})
	}

	results := o.QueryAABB(AABB{Min: mathx.Vec3{-1, -1, -1}, Max: mathx.Vec3{1, 1, 1}})
	assert.NotEmpty(t, results)
	for _, id := range results {
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, 100)
	}
}

func TestOctreeClearRemovesAll(t *testing.T) {
	world := AABB{Min: mathx.Vec3{-10, -10, -10}, Max: mathx.Vec3{10, 10, 10}}
	o := NewOctree[int](world)
	o.Insert(1, AABB{Min: mathx.Vec3{0, 0, 0}, Max: mathx.Vec3{1, 1, 1}})
	o.Clear()
	assert.Empty(t, o.QueryAABB(world))
}

func TestOctreeQueryRayFindsEntriesAlongTheRay(t *testing.T) {
	world := AABB{Min: mathx.Vec3{-100, -100, -100}, Max: mathx.Vec3{100, 100, 100}}
	o := NewOctree[int](world)

	for i := 0; i < 50; i++ {
		pos := float32(i) * 2
		o.Insert(i, AABB{Min: mathx.Vec3{pos, -0.5, -0.5}, Max: mathx.Vec3{pos + 0.5, 0.5, 0.5}})
	}
	o.Insert(100, AABB{Min: mathx.Vec3{0, 50, 50}, Max: mathx.Vec3{1, 51, 51}})

	results := o.QueryRay(mathx.Vec3{0, 0, 0}, mathx.Vec3{1, 0, 0})
	assert.NotEmpty(t, results)
	for _, id := range results {
		assert.NotEqual(t, 100, id, "entry far off the ray's axis must be pruned by the bounds test")
	}
}

func TestOctreeQueryRayMissesEverythingBehindOrigin(t *testing.T) {
	world := AABB{Min: mathx.Vec3{-10, -10, -10}, Max: mathx.Vec3{10, 10, 10}}
	o := NewOctree[int](world)
	o.Insert(1, AABB{Min: mathx.Vec3{-5, -0.5, -0.5}, Max: mathx.Vec3{-4, 0.5, 0.5}})

	results := o.QueryRay(mathx.Vec3{0, 0, 0}, mathx.Vec3{1, 0, 0})
	assert.Empty(t, results)
}

func TestOctreeAndSimpleListGraphAgreeOnQueryRay(t *testing.T) {
	world := AABB{Min: mathx.Vec3{-50, -50, -50}, Max: mathx.Vec3{50, 50, 50}}
	tree := NewOctree[int](world)
	list := NewSimpleListGraph[int]()

	boxes := map[int]AABB{
		1: {Min: mathx.Vec3{0, -0.5, -0.5}, Max: mathx.Vec3{1, 0.5, 0.5}},
		2: {Min: mathx.Vec3{5, -0.5, -0.5}, Max: mathx.Vec3{6, 0.5, 0.5}},
		3: {Min: mathx.Vec3{-20, -20, -20}, Max: mathx.Vec3{-19, -19, -19}},
	}
	for id, box := range boxes {
		tree.Insert(id, box)
		list.Insert(id, box)
	}

	origin, direction := mathx.Vec3{-10, 0, 0}, mathx.Vec3{1, 0, 0}
	treeResults := tree.QueryRay(origin, direction)
	listResults := list.QueryRay(origin, direction)
	assert.ElementsMatch(t, listResults, treeResults)
}

func TestOctreeAndSimpleListGraphAgree(t *testing.T) {
	world := AABB{Min: mathx.Vec3{-50, -50, -50}, Max: mathx.Vec3{50, 50, 50}}
	tree := NewOctree[int](world)
	list := NewSimpleListGraph[int]()

	boxes := map[int]AABB{
		1: {Min: mathx.Vec3{0, 0, 0}, Max: mathx.Vec3{1, 1, 1}},
		2: {Min: mathx.Vec3{5, 5, 5}, Max: mathx.Vec3{6, 6, 6}},
		3: {Min: mathx.Vec3{-20, -20, -20}, Max: mathx.Vec3{-19, -19, -19}},
	}
	for id, box := range boxes {
		tree.Insert(id, box)
		list.Insert(id, box)
	}

	query := AABB{Min: mathx.Vec3{-1, -1, -1}, Max: mathx.Vec3{7, 7, 7}}
	treeResults := tree.QueryAABB(query)
	listResults := list.QueryAABB(query)
	assert.ElementsMatch(t, listResults, treeResults)
}
