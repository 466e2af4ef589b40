package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelight/enginecore/internal/ecs"
)

func newTestContext() (*Context, *ecs.Registry) {
	registry := ecs.NewRegistry()
	ctx := &Context{Registry: registry}
	ctx.Lifecycles = ecs.NewComponentStore[ecs.LifecycleComponent](registry.World)
	ecs.Register(registry, ctx.Lifecycles)
	return ctx, registry
}

func TestPreUpdatePromotesSpawningToActive(t *testing.T) {
	ctx, registry := newTestContext()
	e := registry.CreateEntity()
	require.NoError(t, ctx.Lifecycles.Add(e, ecs.LifecycleComponent{State: ecs.LifecycleSpawning}))

	ctx.PreUpdate(nil)

	lc, ok := ctx.Lifecycles.Get(e)
	require.True(t, ok)
	assert.Equal(t, ecs.LifecycleActive, lc.State)
}

func TestPostUpdateMarksExpiredLifetimeForDestruction(t *testing.T) {
	ctx, registry := newTestContext()
	e := registry.CreateEntity()
	lifetime := 1.0
	require.NoError(t, ctx.Lifecycles.Add(e, ecs.LifecycleComponent{State: ecs.LifecycleActive, SpawnTime: 0, Lifetime: &lifetime}))
	ctx.Time = 2.0

	ctx.PostUpdate()

	assert.False(t, registry.World.IsAlive(e))
}

func TestPostUpdateDestroysInPriorityOrder(t *testing.T) {
	ctx, registry := newTestContext()
	low := registry.CreateEntity()
	high := registry.CreateEntity()
	require.NoError(t, ctx.Lifecycles.Add(low, ecs.LifecycleComponent{State: ecs.LifecycleDestroying, DestructionPriority: 0}))
	require.NoError(t, ctx.Lifecycles.Add(high, ecs.LifecycleComponent{State: ecs.LifecycleDestroying, DestructionPriority: 255}))

	ctx.PostUpdate()

	assert.False(t, registry.World.IsAlive(low))
	assert.False(t, registry.World.IsAlive(high))

	// The free list hands back the most recently destroyed slot first, so
	// the next entity reusing high's index shows high was destroyed last.
	next := registry.CreateEntity()
	assert.Equal(t, high.Index, next.Index)
}

func TestPostUpdateLeavesUnexpiredEntitiesAlive(t *testing.T) {
	ctx, registry := newTestContext()
	e := registry.CreateEntity()
	lifetime := 10.0
	require.NoError(t, ctx.Lifecycles.Add(e, ecs.LifecycleComponent{State: ecs.LifecycleActive, SpawnTime: 0, Lifetime: &lifetime}))
	ctx.Time = 1.0

	ctx.PostUpdate()

	assert.True(t, registry.World.IsAlive(e))
}
