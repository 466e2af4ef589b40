package ecs

import "github.com/forgelight/enginecore/internal/mathx"

// TransformComponent holds an entity's local transform. Rotation must stay
// unit to tolerance 1e-5; scale must be finite.
type TransformComponent struct {
	Position mathx.Vec3
	Rotation mathx.Quat
	Scale    mathx.Vec3
}

// MovementComponent drives TransformComponent integration.
type MovementComponent struct {
	LinearVelocity      mathx.Vec3
	AngularVelocity     mathx.Vec3
	LinearAcceleration  mathx.Vec3
	AngularAcceleration mathx.Vec3
	MaxSpeed            *float32
	LinearDamping       float32 // in [0,1]
	AngularDamping      float32 // in [0,1]
	Enabled             bool
}

type LifecycleState int

const (
	LifecycleSpawning LifecycleState = iota
	LifecycleActive
	LifecycleDestroying
	LifecyclePaused
	LifecycleDisabled
)

// LifecycleComponent tracks an entity's spawn/despawn bookkeeping.
type LifecycleComponent struct {
	SpawnTime          float64
	Lifetime           *float64
	State              LifecycleState
	Tags               []string
	DestructionPriority uint8
}

func (c *LifecycleComponent) AddTag(tag string) {
	for _, t := range c.Tags {
		if t == tag {
			return
		}
	}
	c.Tags = append(c.Tags, tag)
}

type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

type LightComponent struct {
	Kind       LightKind
	Color      mathx.Vec3
	Intensity  float32
	Direction  mathx.Vec3
	Position   mathx.Vec3
	Range      float32
	InnerCone  float32
	OuterCone  float32
}

// CollisionShape is the tagged variant of shapes the collision/pick cores
// understand: spheres or triangle meshes. Closed set, per SPEC_FULL §9's
// tagged-variant-over-virtual-dispatch design note.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeMesh
)

type CollisionShape struct {
	Kind   ShapeKind
	Radius float32 // valid when Kind == ShapeSphere

	// Valid when Kind == ShapeMesh: local-space triangle soup and a
	// precomputed local bounding radius used for broad-phase culling.
	Triangles      []Triangle
	LocalBoundRadius float32
}

type Triangle struct {
	A, B, C mathx.Vec3
}

type ColliderComponent struct {
	Shape           CollisionShape
	Layer           uint32
	Mask            uint32
	IsTrigger       bool
	DebugDraw       bool
	BoundingRadius  float32 // world-space override; when 0, collision derives Shape.LocalBoundRadius times the largest Scale axis each frame
}

// CollisionStateComponent is cleared and recomputed every frame.
type CollisionStateComponent struct {
	Colliding map[Entity]struct{}
	Entered   []Entity
	Exited    []Entity
	Nearby    []Entity
}

type PickableComponent struct {
	Enabled         bool
	LayerMask       uint32
	CollisionRadius *float32
}

type SelectionComponent struct {
	Selected        bool
	Hovered         bool
	LastSelectedFrame uint64
	LastHoveredFrame  uint64
}
