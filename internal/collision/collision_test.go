package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/spatial"
)

func sphereCollider(radius float32, layer, mask uint32) ecs.ColliderComponent {
	return ecs.ColliderComponent{
		Shape: ecs.CollisionShape{Kind: ecs.ShapeSphere, Radius: radius, LocalBoundRadius: radius},
		Layer: layer,
		Mask:  mask,
	}
}

func unitTransform(pos mathx.Vec3) ecs.TransformComponent {
	return ecs.TransformComponent{Position: pos, Rotation: mathx.Quat{W: 1}, Scale: mathx.Vec3{1, 1, 1}}
}

func newTestCore() (*Core, *ecs.Registry, *ecs.ComponentStore[ecs.TransformComponent], *ecs.ComponentStore[ecs.ColliderComponent], *ecs.ComponentStore[ecs.CollisionStateComponent]) {
	r := ecs.NewRegistry()
	transforms := ecs.NewComponentStore[ecs.TransformComponent](r.World)
	ecs.Register(r, transforms)
	colliders := ecs.NewComponentStore[ecs.ColliderComponent](r.World)
	ecs.Register(r, colliders)
	states := ecs.NewComponentStore[ecs.CollisionStateComponent](r.World)
	ecs.Register(r, states)

	world := spatial.AABB{Min: mathx.Vec3{-1000, -1000, -1000}, Max: mathx.Vec3{1000, 1000, 1000}}
	core := NewCore(spatial.NewOctree[ecs.Entity](world))
	return core, r, transforms, colliders, states
}

func TestOverlappingSpheresEnterThenStay(t *testing.T) {
	core, r, transforms, colliders, states := newTestCore()

	a := r.CreateEntity()
	require.NoError(t, transforms.Add(a, unitTransform(mathx.Vec3{0, 0, 0})))
	require.NoError(t, colliders.Add(a, sphereCollider(1, 1, 1)))

	b := r.CreateEntity()
	require.NoError(t, transforms.Add(b, unitTransform(mathx.Vec3{1.5, 0, 0})))
	require.NoError(t, colliders.Add(b, sphereCollider(1, 1, 1)))

	core.Step(transforms, colliders, states)
	stateA, ok := states.Get(a)
	require.True(t, ok)
	assert.Contains(t, stateA.Entered, b)
	assert.Len(t, stateA.Colliding, 1)

	core.Step(transforms, colliders, states)
	stateA, ok = states.Get(a)
	require.True(t, ok)
	assert.Empty(t, stateA.Entered)
	assert.Len(t, stateA.Colliding, 1)
}

func TestSeparatingSpheresExit(t *testing.T) {
	core, r, transforms, colliders, states := newTestCore()

	a := r.CreateEntity()
	require.NoError(t, transforms.Add(a, unitTransform(mathx.Vec3{0, 0, 0})))
	require.NoError(t, colliders.Add(a, sphereCollider(1, 1, 1)))

	b := r.CreateEntity()
	require.NoError(t, transforms.Add(b, unitTransform(mathx.Vec3{1.5, 0, 0})))
	require.NoError(t, colliders.Add(b, sphereCollider(1, 1, 1)))

	core.Step(transforms, colliders, states)

	bTr, _ := transforms.Get(b)
	bTr.Position = mathx.Vec3{100, 100, 100}
	require.NoError(t, transforms.Add(b, bTr))

	core.Step(transforms, colliders, states)
	stateA, ok := states.Get(a)
	require.True(t, ok)
	assert.Contains(t, stateA.Exited, b)
	assert.Empty(t, stateA.Colliding)
}

func TestLayerMaskFiltersPair(t *testing.T) {
	core, r, transforms, colliders, states := newTestCore()

	a := r.CreateEntity()
	require.NoError(t, transforms.Add(a, unitTransform(mathx.Vec3{0, 0, 0})))
	require.NoError(t, colliders.Add(a, sphereCollider(1, 1, 2))) // layer 1, mask matches layer 2

	b := r.CreateEntity()
	require.NoError(t, transforms.Add(b, unitTransform(mathx.Vec3{0.5, 0, 0})))
	require.NoError(t, colliders.Add(b, sphereCollider(1, 4, 4))) // layer 4, no overlap with a's mask

	core.Step(transforms, colliders, states)
	stateA, ok := states.Get(a)
	if ok {
		assert.Empty(t, stateA.Colliding)
	}
}

func TestSelfPairsSkipped(t *testing.T) {
	core, r, transforms, colliders, states := newTestCore()

	a := r.CreateEntity()
	require.NoError(t, transforms.Add(a, unitTransform(mathx.Vec3{0, 0, 0})))
	require.NoError(t, colliders.Add(a, sphereCollider(1, 1, 1)))

	core.Step(transforms, colliders, states)
	stateA, ok := states.Get(a)
	if ok {
		assert.Empty(t, stateA.Colliding)
	}
}
