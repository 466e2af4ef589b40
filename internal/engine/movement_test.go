package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
)

func TestIntegrateMovementSkipsWhenDisabled(t *testing.T) {
	m := ecs.MovementComponent{Enabled: false, LinearVelocity: mathx.Vec3{1, 0, 0}}
	tr := ecs.TransformComponent{Scale: mathx.Vec3{1, 1, 1}, Rotation: mathx.Quat{W: 1}}

	integrateMovement(&m, &tr, 1.0/60)

	assert.Equal(t, mathx.Vec3{0, 0, 0}, tr.Position)
}

func TestIntegrateMovementAppliesAcceleration(t *testing.T) {
	m := ecs.MovementComponent{Enabled: true, LinearAcceleration: mathx.Vec3{10, 0, 0}}
	tr := ecs.TransformComponent{Scale: mathx.Vec3{1, 1, 1}, Rotation: mathx.Quat{W: 1}}

	integrateMovement(&m, &tr, 1.0)

	assert.InDelta(t, 10, m.LinearVelocity.X(), 1e-5)
	assert.InDelta(t, 10, tr.Position.X(), 1e-5)
}

func TestIntegrateMovementClampsToMaxSpeed(t *testing.T) {
	maxSpeed := float32(5)
	m := ecs.MovementComponent{Enabled: true, LinearVelocity: mathx.Vec3{100, 0, 0}, MaxSpeed: &maxSpeed}
	tr := ecs.TransformComponent{Scale: mathx.Vec3{1, 1, 1}, Rotation: mathx.Quat{W: 1}}

	integrateMovement(&m, &tr, 1.0/60)

	assert.InDelta(t, 5, m.LinearVelocity.Len(), 1e-4)
}

func TestIntegrateMovementDampingDecaysVelocity(t *testing.T) {
	m := ecs.MovementComponent{Enabled: true, LinearVelocity: mathx.Vec3{10, 0, 0}, LinearDamping: 1}
	tr := ecs.TransformComponent{Scale: mathx.Vec3{1, 1, 1}, Rotation: mathx.Quat{W: 1}}

	integrateMovement(&m, &tr, 1.0)

	assert.InDelta(t, 0, m.LinearVelocity.Len(), 1e-4)
}

func TestIntegrateMovementRotatesByAngularVelocity(t *testing.T) {
	m := ecs.MovementComponent{Enabled: true, AngularVelocity: mathx.Vec3{0, 1, 0}}
	tr := ecs.TransformComponent{Scale: mathx.Vec3{1, 1, 1}, Rotation: mathx.Quat{W: 1}}

	integrateMovement(&m, &tr, 1.0)

	assert.False(t, tr.Rotation.W == 1 && tr.Rotation.V.X() == 0 && tr.Rotation.V.Y() == 0 && tr.Rotation.V.Z() == 0)
}
