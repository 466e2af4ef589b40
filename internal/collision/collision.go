// Package collision implements the two-phase collision core: a pluggable
// broad-phase spatial query synced from TransformComponent/ColliderComponent
// each frame, followed by layer-filtered narrow-phase shape tests, diffed
// against the previous frame's pair set to produce enter/stay/exit events.
// New code; narrow phase structured the same broad-phase-then-filter shape
// Gekko3D-gekko's mod_spatialgrid.go QueryAABB callers use.
package collision

import (
	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/spatial"
)

// Pair is a canonicalized collision pair: A.Index <= B.Index, so (a,b) and
// (b,a) always hash equally.
type Pair struct {
	A, B ecs.Entity
}

func makePair(a, b ecs.Entity) Pair {
	if a.Index <= b.Index {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}

// Core runs the per-frame broad+narrow phase collision pass.
type Core struct {
	broad    spatial.Index[ecs.Entity]
	previous map[Pair]struct{}
}

// NewCore builds a Core using the given broad-phase index (typically an
// Octree sized to the scene bounds; a SimpleListGraph for small scenes).
func NewCore(broad spatial.Index[ecs.Entity]) *Core {
	return &Core{broad: broad, previous: make(map[Pair]struct{})}
}

// Broad returns the broad-phase index Step rebuilds every frame from
// TransformComponent/ColliderComponent. Ray-pick reuses it instead of
// maintaining a second copy of the same spatial structure.
func (c *Core) Broad() spatial.Index[ecs.Entity] {
	return c.broad
}

// Step runs one frame's collision pass: rebuilds the broad-phase index from
// every entity with both TransformComponent and ColliderComponent, narrow
// phases all broad-phase-adjacent pairs, and writes enter/exit/stay/nearby
// into each entity's CollisionStateComponent (clearing prior-frame data
// first). Entities missing either component are skipped, not errored.
func (c *Core) Step(
	transforms *ecs.ComponentStore[ecs.TransformComponent],
	colliders *ecs.ComponentStore[ecs.ColliderComponent],
	states *ecs.ComponentStore[ecs.CollisionStateComponent],
) {
	c.broad.Clear()

	type liveEntry struct {
		entity    ecs.Entity
		transform ecs.TransformComponent
		collider  ecs.ColliderComponent
	}
	var live []liveEntry

	colliders.Query(func(e ecs.Entity, col *ecs.ColliderComponent) bool {
		tr, ok := transforms.Get(e)
		if !ok {
			return true
		}
		radius := worldBoundingRadius(*col, tr)
		c.broad.Insert(e, sphereBounds(tr.Position, radius))
		live = append(live, liveEntry{entity: e, transform: tr, collider: *col})
		return true
	})

	current := make(map[Pair]struct{})
	nearby := make(map[ecs.Entity][]ecs.Entity)

	for _, entry := range live {
		radius := worldBoundingRadius(entry.collider, entry.transform)
		candidates := c.broad.QueryRadius(entry.transform.Position, radius)
		for _, other := range candidates {
			if other == entry.entity {
				continue
			}
			otherTr, ok := transforms.Get(other)
			if !ok {
				continue
			}
			otherCol, ok := colliders.Get(other)
			if !ok {
				continue
			}
			if !layersMatch(entry.collider, otherCol) {
				continue
			}
			nearby[entry.entity] = append(nearby[entry.entity], other)
			if !narrowPhase(entry.collider.Shape, entry.transform, otherCol.Shape, otherTr) {
				continue
			}
			current[makePair(entry.entity, other)] = struct{}{}
		}
	}

	entered := diff(current, c.previous)
	exited := diff(c.previous, current)

	perEntity := make(map[ecs.Entity]*ecs.CollisionStateComponent)
	get := func(e ecs.Entity) *ecs.CollisionStateComponent {
		if s, ok := perEntity[e]; ok {
			return s
		}
		s := &ecs.CollisionStateComponent{Colliding: make(map[ecs.Entity]struct{})}
		perEntity[e] = s
		return s
	}

	for pair := range current {
		get(pair.A).Colliding[pair.B] = struct{}{}
		get(pair.B).Colliding[pair.A] = struct{}{}
	}
	for pair := range entered {
		get(pair.A).Entered = append(get(pair.A).Entered, pair.B)
		get(pair.B).Entered = append(get(pair.B).Entered, pair.A)
	}
	for pair := range exited {
		get(pair.A).Exited = append(get(pair.A).Exited, pair.B)
		get(pair.B).Exited = append(get(pair.B).Exited, pair.A)
	}
	for e, list := range nearby {
		get(e).Nearby = list
	}

	for _, entry := range live {
		states.Remove(entry.entity)
		if s, ok := perEntity[entry.entity]; ok {
			states.Add(entry.entity, *s)
		}
	}

	c.previous = current
}

func diff(a, b map[Pair]struct{}) map[Pair]struct{} {
	out := make(map[Pair]struct{})
	for p := range a {
		if _, ok := b[p]; !ok {
			out[p] = struct{}{}
		}
	}
	return out
}

func layersMatch(a, b ecs.ColliderComponent) bool {
	return (a.Mask&b.Layer) != 0 && (b.Mask&a.Layer) != 0
}

func worldBoundingRadius(col ecs.ColliderComponent, tr ecs.TransformComponent) float32 {
	if col.BoundingRadius > 0 {
		return col.BoundingRadius
	}
	maxScale := tr.Scale.X()
	if tr.Scale.Y() > maxScale {
		maxScale = tr.Scale.Y()
	}
	if tr.Scale.Z() > maxScale {
		maxScale = tr.Scale.Z()
	}
	return col.Shape.LocalBoundRadius * maxScale
}

func sphereBounds(center mathx.Vec3, radius float32) spatial.AABB {
	return spatial.AABB{
		Min: center.Sub(mathx.Vec3{radius, radius, radius}),
		Max: center.Add(mathx.Vec3{radius, radius, radius}),
	}
}
