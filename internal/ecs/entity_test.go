package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroyEntityInvalidatesAllComponents(t *testing.T) {
	r := NewRegistry()
	transforms := NewComponentStore[TransformComponent](r.World)
	Register(r, transforms)
	lights := NewComponentStore[LightComponent](r.World)
	Register(r, lights)

	e := r.CreateEntity()
	require.NoError(t, transforms.Add(e, TransformComponent{}))
	require.NoError(t, lights.Add(e, LightComponent{}))

	require.NoError(t, r.DestroyEntity(e))

	_, ok := transforms.Get(e)
	assert.False(t, ok)
	_, ok = lights.Get(e)
	assert.False(t, ok)
}

func TestPoolStyleReuseIsStableIndexBumpedGeneration(t *testing.T) {
	r := NewRegistry()
	a := r.CreateEntity()
	b := r.CreateEntity()
	require.NoError(t, r.DestroyEntity(a))

	c := r.CreateEntity()
	assert.Equal(t, a.Index, c.Index)
	assert.NotEqual(t, a.Generation, c.Generation)
	assert.NotEqual(t, a, c)
	assert.True(t, r.World.IsAlive(b))
}

func TestStaleHandleNeverReadsNewOccupant(t *testing.T) {
	r := NewRegistry()
	transforms := NewComponentStore[TransformComponent](r.World)
	Register(r, transforms)

	stale := r.CreateEntity()
	require.NoError(t, transforms.Add(stale, TransformComponent{Position: [3]float32{1, 2, 3}}))
	require.NoError(t, r.DestroyEntity(stale))

	fresh := r.CreateEntity()
	require.NoError(t, transforms.Add(fresh, TransformComponent{Position: [3]float32{9, 9, 9}}))

	_, ok := transforms.Get(stale)
	assert.False(t, ok)

	got, ok := transforms.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, float32(9), got.Position.X())
}

func TestQueryVisitsOnlyLiveEntities(t *testing.T) {
	r := NewRegistry()
	transforms := NewComponentStore[TransformComponent](r.World)
	Register(r, transforms)

	e1 := r.CreateEntity()
	e2 := r.CreateEntity()
	require.NoError(t, transforms.Add(e1, TransformComponent{}))
	require.NoError(t, transforms.Add(e2, TransformComponent{}))
	require.NoError(t, r.DestroyEntity(e1))

	var seen []Entity
	transforms.Query(func(e Entity, _ *TransformComponent) bool {
		seen = append(seen, e)
		return true
	})
	assert.Equal(t, []Entity{e2}, seen)
}
