package engine

import (
	"github.com/forgelight/enginecore/internal/ecs"
	"github.com/forgelight/enginecore/internal/mathx"
)

// integrateMovement advances transform by one timestep of movement, ported
// from original_source/crates/rust_engine/src/ecs/components/movement.rs's
// MovementComponent::integrate: accelerate, clamp to max speed, apply
// damping, then integrate position and rotation from the resulting
// velocities.
func integrateMovement(movement *ecs.MovementComponent, transform *ecs.TransformComponent, dt float32) {
	if !movement.Enabled || dt <= 0 {
		return
	}

	movement.LinearVelocity = movement.LinearVelocity.Add(movement.LinearAcceleration.Mul(dt))
	if movement.MaxSpeed != nil {
		if speed := movement.LinearVelocity.Len(); speed > *movement.MaxSpeed && speed > 0 {
			movement.LinearVelocity = movement.LinearVelocity.Mul(*movement.MaxSpeed / speed)
		}
	}
	linearDampingFactor := 1 - movement.LinearDamping*dt
	if linearDampingFactor < 0 {
		linearDampingFactor = 0
	}
	movement.LinearVelocity = movement.LinearVelocity.Mul(linearDampingFactor)

	movement.AngularVelocity = movement.AngularVelocity.Add(movement.AngularAcceleration.Mul(dt))
	angularDampingFactor := 1 - movement.AngularDamping*dt
	if angularDampingFactor < 0 {
		angularDampingFactor = 0
	}
	movement.AngularVelocity = movement.AngularVelocity.Mul(angularDampingFactor)

	transform.Position = transform.Position.Add(movement.LinearVelocity.Mul(dt))

	if angularSpeed := movement.AngularVelocity.Len(); angularSpeed > 1e-8 {
		axis := movement.AngularVelocity.Mul(1 / angularSpeed)
		delta := mathx.AxisAngle(axis, angularSpeed*dt)
		transform.Rotation = delta.Mul(transform.Rotation).Normalize()
	}
}
