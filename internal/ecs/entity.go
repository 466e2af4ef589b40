// Package ecs implements a dense-array entity/component store keyed by
// generational (index, generation) handles. Neither pack ECS example
// matches this shape directly: vala/ecs/world.go is a map-based
// non-generational store, and Gekko3D-gekko's ecs.go is archetype+reflection
// based; this store borrows the "one container per component type" idea
// from both but is purpose-built around generational slot reuse.
package ecs

import "github.com/forgelight/enginecore/internal/enginerr"

// Entity is an opaque handle: a 32-bit slot index plus a 32-bit generation.
type Entity struct {
	Index      uint32
	Generation uint32
}

// World owns the entity slot table. Component storage lives in separate
// ComponentStore[C] instances keyed by the same slot index.
type World struct {
	generations []uint32
	alive       []bool
	freeList    []uint32
}

func NewWorld() *World {
	return &World{}
}

// CreateEntity reuses a free slot if one exists, else grows the slot table.
func (w *World) CreateEntity() Entity {
	if n := len(w.freeList); n > 0 {
		idx := w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		w.alive[idx] = true
		return Entity{Index: idx, Generation: w.generations[idx]}
	}

	idx := uint32(len(w.generations))
	w.generations = append(w.generations, 0)
	w.alive = append(w.alive, true)
	return Entity{Index: idx, Generation: 0}
}

// IsAlive reports whether e refers to a slot whose current generation
// matches the handle's generation.
func (w *World) IsAlive(e Entity) bool {
	if int(e.Index) >= len(w.generations) {
		return false
	}
	return w.alive[e.Index] && w.generations[e.Index] == e.Generation
}

// DestroyEntity frees e's slot and bumps its generation, invalidating every
// outstanding handle to it exactly once. Component removal is the caller's
// responsibility via each ComponentStore's Remove; World itself holds no
// component data so it cannot clear them on the store's behalf. Callers
// normally use Registry.DestroyEntity instead, which does both.
func (w *World) DestroyEntity(e Entity) error {
	if !w.IsAlive(e) {
		return enginerr.New(enginerr.InvalidHandle, "destroy_entity: stale or out-of-range handle")
	}
	w.alive[e.Index] = false
	w.generations[e.Index]++
	w.freeList = append(w.freeList, e.Index)
	return nil
}

// ComponentStore is a dense, parallel array of optional component values,
// one slot per entity index, generic over the component type.
type ComponentStore[C any] struct {
	world *World
	slots []*C
}

func NewComponentStore[C any](world *World) *ComponentStore[C] {
	return &ComponentStore[C]{world: world}
}

func (s *ComponentStore[C]) grow(index uint32) {
	for uint32(len(s.slots)) <= index {
		s.slots = append(s.slots, nil)
	}
}

// Add stores value for e. Returns InvalidHandle if e is not alive.
func (s *ComponentStore[C]) Add(e Entity, value C) error {
	if !s.world.IsAlive(e) {
		return enginerr.New(enginerr.InvalidHandle, "add_component: stale or out-of-range handle")
	}
	s.grow(e.Index)
	v := value
	s.slots[e.Index] = &v
	return nil
}

// Remove clears e's component slot. No-op if absent or e is stale.
func (s *ComponentStore[C]) Remove(e Entity) {
	if !s.world.IsAlive(e) || int(e.Index) >= len(s.slots) {
		return
	}
	s.slots[e.Index] = nil
}

// Get returns e's component and true, or the zero value and false if e is
// stale or has none. Stale handles (old generation) always resolve to false.
func (s *ComponentStore[C]) Get(e Entity) (C, bool) {
	var zero C
	if !s.world.IsAlive(e) || int(e.Index) >= len(s.slots) || s.slots[e.Index] == nil {
		return zero, false
	}
	return *s.slots[e.Index], true
}

// GetMut returns a pointer to e's stored component for in-place mutation, or
// nil if e is stale or has none.
func (s *ComponentStore[C]) GetMut(e Entity) *C {
	if !s.world.IsAlive(e) || int(e.Index) >= len(s.slots) {
		return nil
	}
	return s.slots[e.Index]
}

// ClearSlot drops e's component (used by World.DestroyEntity's caller to
// clear every component type a destroyed entity may have held).
func (s *ComponentStore[C]) ClearSlot(index uint32) {
	if int(index) < len(s.slots) {
		s.slots[index] = nil
	}
}

// Query iterates every (Entity, *C) pair currently present, in slot order.
func (s *ComponentStore[C]) Query(yield func(Entity, *C) bool) {
	for idx, v := range s.slots {
		if v == nil {
			continue
		}
		e := Entity{Index: uint32(idx), Generation: s.world.generations[idx]}
		if !s.world.alive[idx] {
			continue
		}
		if !yield(e, v) {
			return
		}
	}
}
