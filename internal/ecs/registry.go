package ecs

// clearer lets Registry drop every component type's slot for a destroyed
// entity without knowing the component types at compile time.
type clearer interface {
	ClearSlot(index uint32)
}

// Registry bundles a World with every ComponentStore registered against it,
// so DestroyEntity can clear all of an entity's components in one call (the
// spec's "destroying an entity bumps the slot generation, invalidating
// dangling handles exactly-once" plus "all component arrays drop the slot
// together").
type Registry struct {
	World    *World
	clearers []clearer
}

func NewRegistry() *Registry {
	world := NewWorld()
	return &Registry{World: world}
}

// Register attaches a ComponentStore to the registry's destroy-entity path.
func Register[C any](r *Registry, store *ComponentStore[C]) {
	r.clearers = append(r.clearers, store)
}

func (r *Registry) CreateEntity() Entity {
	return r.World.CreateEntity()
}

func (r *Registry) DestroyEntity(e Entity) error {
	if !r.World.IsAlive(e) {
		return r.World.DestroyEntity(e) // returns the InvalidHandle error
	}
	index := e.Index
	for _, c := range r.clearers {
		c.ClearSlot(index)
	}
	return r.World.DestroyEntity(e)
}
