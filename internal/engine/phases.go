package engine

import (
	"sort"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
	"github.com/forgelight/enginecore/internal/pick"
	"github.com/forgelight/enginecore/internal/schedule"
)

// PreUpdate advances every LifecycleComponent's Spawning->Active transition
// and applies the current batch of host input events, in that order, before
// any gameplay system runs. Movement and lifecycle-expiry writes happen in
// Update/PostUpdate, not here, because they depend on dt and the schedule
// pool respectively.
func (ctx *Context) PreUpdate(events []Event) {
	ctx.Lifecycles.Query(func(_ ecs.Entity, lc *ecs.LifecycleComponent) bool {
		if lc.State == ecs.LifecycleSpawning {
			lc.State = ecs.LifecycleActive
		}
		return true
	})

	for _, ev := range events {
		switch ev.Kind {
		case EventResize:
			if err := ctx.Target.Recreate(ev.Width, ev.Height); err != nil {
				ctx.Log.Error("recreate render target on resize", "err", err)
			}
		case EventMouseButton:
			if ev.Pressed {
				ctx.handlePickClick(ev)
			}
		}
	}
}

// handlePickClick casts a ray from the clicked screen position using the
// most recently set camera UBO and applies the winning selection, per
// spec.md §4.K.
func (ctx *Context) handlePickClick(ev Event) {
	viewProj := mathx.ViewProjection(ctx.lastProjection, ctx.lastView)
	ray, err := pick.ScreenToRay(viewProj, ev.MouseX, ev.MouseY, float32(ctx.windowWidth), float32(ctx.windowHeight))
	if err != nil {
		ctx.Log.Warn("screen to ray failed", "err", err)
		return
	}
	hit, found := pick.Pick(ray, false, ctx.Collision.Broad(), ctx.Transforms, ctx.Colliders, ctx.Pickables, 0)
	pick.ApplySelection(ctx.Selections, hit.Entity, found, ctx.FrameCounter)
}

// Update runs movement integration as a phase-internal scheduled system (it
// both reads and writes TransformComponent, and writes MovementComponent, so
// it never shares a batch with anything else that touches either), followed
// by the collision step, which must run after movement has settled this
// frame's positions.
func (ctx *Context) Update(dt float32) {
	ctx.Time += dt

	systems := []schedule.System{
		{
			Name:   "movement",
			Reads:  []schedule.ComponentType{schedule.TypeOf[ecs.MovementComponent]()},
			Writes: []schedule.ComponentType{schedule.TypeOf[ecs.MovementComponent](), schedule.TypeOf[ecs.TransformComponent]()},
			Run: func() {
				ctx.Movements.Query(func(e ecs.Entity, m *ecs.MovementComponent) bool {
					tr := ctx.Transforms.GetMut(e)
					if tr == nil {
						return true
					}
					integrateMovement(m, tr, dt)
					return true
				})
			},
		},
		{
			Name:  "collision",
			After: []string{"movement"},
			Reads: []schedule.ComponentType{schedule.TypeOf[ecs.TransformComponent](), schedule.TypeOf[ecs.ColliderComponent]()},
			Writes: []schedule.ComponentType{schedule.TypeOf[ecs.CollisionStateComponent]()},
			Run: func() {
				ctx.Collision.Step(ctx.Transforms, ctx.Colliders, ctx.CollisionStates)
			},
		},
	}
	ctx.Schedule.RunPhase(systems)
}

// PostUpdate marks lifetime-expired entities Destroying, then destroys
// every Destroying entity, processed in DestructionPriority order (lowest
// first) so a dependent entity's teardown can observe a dependency that
// destructs later in the same pass, for whatever ordering the caller chose
// to express through the priority field.
func (ctx *Context) PostUpdate() {
	ctx.Lifecycles.Query(func(e ecs.Entity, lc *ecs.LifecycleComponent) bool {
		if lc.State != ecs.LifecycleActive || lc.Lifetime == nil {
			return true
		}
		if ctx.Time-float32(lc.SpawnTime) >= float32(*lc.Lifetime) {
			lc.State = ecs.LifecycleDestroying
		}
		return true
	})

	type destroying struct {
		entity   ecs.Entity
		priority uint8
	}
	var toDestroy []destroying
	ctx.Lifecycles.Query(func(e ecs.Entity, lc *ecs.LifecycleComponent) bool {
		if lc.State == ecs.LifecycleDestroying {
			toDestroy = append(toDestroy, destroying{entity: e, priority: lc.DestructionPriority})
		}
		return true
	})
	sort.Slice(toDestroy, func(i, j int) bool { return toDestroy[i].priority < toDestroy[j].priority })

	for _, d := range toDestroy {
		if err := ctx.Registry.DestroyEntity(d.entity); err != nil {
			ctx.Log.Warn("destroy entity failed", "entity", d.entity, "err", err)
		}
	}
}
