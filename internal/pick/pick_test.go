package pick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/spatial"
)

func newRegistries() (*ecs.Registry, *ecs.ComponentStore[ecs.TransformComponent], *ecs.ComponentStore[ecs.ColliderComponent], *ecs.ComponentStore[ecs.PickableComponent]) {
	r := ecs.NewRegistry()
	transforms := ecs.NewComponentStore[ecs.TransformComponent](r.World)
	ecs.Register(r, transforms)
	colliders := ecs.NewComponentStore[ecs.ColliderComponent](r.World)
	ecs.Register(r, colliders)
	pickables := ecs.NewComponentStore[ecs.PickableComponent](r.World)
	ecs.Register(r, pickables)
	return r, transforms, colliders, pickables
}

// boundsAround builds a broad-phase index containing one generously padded
// AABB per (entity, position), wide enough that the narrow phase (not the
// broad phase) decides these tests' outcomes.
func boundsAround(entries map[ecs.Entity]mathx.Vec3) spatial.Index[ecs.Entity] {
	g := spatial.NewSimpleListGraph[ecs.Entity]()
	for e, pos := range entries {
		g.Insert(e, spatial.AABB{
			Min: pos.Sub(mathx.Vec3{2, 2, 2}),
			Max: pos.Add(mathx.Vec3{2, 2, 2}),
		})
	}
	return g
}

func TestScreenToRayCenterPointsForward(t *testing.T) {
	view := mathx.LookAt(mathx.Vec3{0, 0, 5}, mathx.Vec3{0, 0, 0}, mathx.Vec3{0, 1, 0})
	proj := mathx.Perspective(1.0, 1.0, 0.1, 100)
	vp := mathx.ViewProjection(proj, view)

	ray, err := ScreenToRay(vp, 400, 300, 800, 600)
	require.NoError(t, err)
	assert.InDelta(t, -1, ray.Direction.Z(), 0.05)
}

func TestPickNearestSphereWins(t *testing.T) {
	registry, transforms, colliders, pickables := newRegistries()
	near := registry.CreateEntity()
	require.NoError(t, transforms.Add(near, ecs.TransformComponent{Position: mathx.Vec3{0, 0, -5}, Rotation: mathx.Quat{W: 1}, Scale: mathx.Vec3{1, 1, 1}}))
	require.NoError(t, colliders.Add(near, ecs.ColliderComponent{Shape: ecs.CollisionShape{Kind: ecs.ShapeSphere, Radius: 1}}))
	require.NoError(t, pickables.Add(near, ecs.PickableComponent{Enabled: true}))

	far := registry.CreateEntity()
	require.NoError(t, transforms.Add(far, ecs.TransformComponent{Position: mathx.Vec3{0, 0, -20}, Rotation: mathx.Quat{W: 1}, Scale: mathx.Vec3{1, 1, 1}}))
	require.NoError(t, colliders.Add(far, ecs.ColliderComponent{Shape: ecs.CollisionShape{Kind: ecs.ShapeSphere, Radius: 1}}))
	require.NoError(t, pickables.Add(far, ecs.PickableComponent{Enabled: true}))

	broad := boundsAround(map[ecs.Entity]mathx.Vec3{
		near: {0, 0, -5},
		far:  {0, 0, -20},
	})

	ray := Ray{Origin: mathx.Vec3{0, 0, 0}, Direction: mathx.Vec3{0, 0, -1}}
	hit, ok := Pick(ray, true, broad, transforms, colliders, pickables, 0)
	require.True(t, ok)
	assert.Equal(t, near, hit.Entity)
}

func TestPickDisabledIsIgnored(t *testing.T) {
	registry, transforms, colliders, pickables := newRegistries()
	e := registry.CreateEntity()
	require.NoError(t, transforms.Add(e, ecs.TransformComponent{Position: mathx.Vec3{0, 0, -5}, Rotation: mathx.Quat{W: 1}, Scale: mathx.Vec3{1, 1, 1}}))
	require.NoError(t, colliders.Add(e, ecs.ColliderComponent{Shape: ecs.CollisionShape{Kind: ecs.ShapeSphere, Radius: 1}}))
	require.NoError(t, pickables.Add(e, ecs.PickableComponent{Enabled: false}))

	broad := boundsAround(map[ecs.Entity]mathx.Vec3{e: {0, 0, -5}})

	ray := Ray{Origin: mathx.Vec3{0, 0, 0}, Direction: mathx.Vec3{0, 0, -1}}
	_, ok := Pick(ray, true, broad, transforms, colliders, pickables, 0)
	assert.False(t, ok)
}

func TestPickSkipsEntityOutsideBroadPhase(t *testing.T) {
	registry, transforms, colliders, pickables := newRegistries()
	e := registry.CreateEntity()
	require.NoError(t, transforms.Add(e, ecs.TransformComponent{Position: mathx.Vec3{0, 0, -5}, Rotation: mathx.Quat{W: 1}, Scale: mathx.Vec3{1, 1, 1}}))
	require.NoError(t, colliders.Add(e, ecs.ColliderComponent{Shape: ecs.CollisionShape{Kind: ecs.ShapeSphere, Radius: 1}}))
	require.NoError(t, pickables.Add(e, ecs.PickableComponent{Enabled: true}))

	broad := spatial.NewSimpleListGraph[ecs.Entity]()

	ray := Ray{Origin: mathx.Vec3{0, 0, 0}, Direction: mathx.Vec3{0, 0, -1}}
	_, ok := Pick(ray, true, broad, transforms, colliders, pickables, 0)
	assert.False(t, ok, "entity never inserted into the broad phase must never reach the narrow phase")
}

func TestPickMissClearsSelection(t *testing.T) {
	registry := ecs.NewRegistry()
	selections := ecs.NewComponentStore[ecs.SelectionComponent](registry.World)
	ecs.Register(registry, selections)

	e := registry.CreateEntity()
	require.NoError(t, selections.Add(e, ecs.SelectionComponent{Selected: true}))

	ApplySelection(selections, ecs.Entity{}, false, 1)
	state, ok := selections.Get(e)
	require.True(t, ok)
	assert.False(t, state.Selected)
}
