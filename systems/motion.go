// Package systems contains the simulation kernel: lattice geometry, distance
// fields, motion controllers and collision resolution.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
)

// DefaultGradientProbe is the finite difference offset used by FieldFollower.
const DefaultGradientProbe = 0.1

// FieldFollower descends a distance field toward its target.
type FieldFollower struct {
	Field *DistanceField
	Probe float64
}

// NewFieldFollower creates a follower over field with the given probe offset.
func NewFieldFollower(field *DistanceField, probe float64) *FieldFollower {
	if probe <= 0 {
		probe = DefaultGradientProbe
	}
	return &FieldFollower{Field: field, Probe: probe}
}

// Step moves speed*dt against the field gradient.
// A flat field gives no improving direction, so the entity stays put.
func (c *FieldFollower) Step(pos r2.Vec, speed, dt float64) r2.Vec {
	if c.Field == nil {
		return pos
	}
	g := c.Field.Gradient(pos, c.Probe)
	mag := r2.Norm(g)
	if mag == 0 {
		return pos
	}
	return r2.Sub(pos, r2.Scale(speed*dt/mag, g))
}

// DirectFollower steers straight at another entity's current position.
type DirectFollower struct {
	Target  ecs.Entity
	Locator components.Locator
}

// NewDirectFollower creates a follower chasing target.
func NewDirectFollower(target ecs.Entity, loc components.Locator) *DirectFollower {
	return &DirectFollower{Target: target, Locator: loc}
}

// Step moves up to speed*dt toward the target without passing it.
// A vanished or coincident target means no movement.
func (c *DirectFollower) Step(pos r2.Vec, speed, dt float64) r2.Vec {
	if c.Locator == nil {
		return pos
	}
	target, ok := c.Locator.Locate(c.Target)
	if !ok {
		return pos
	}
	d := r2.Sub(target, pos)
	sep := r2.Norm(d)
	if sep == 0 {
		return pos
	}
	step := speed * dt
	if step >= sep {
		return target
	}
	return r2.Add(pos, r2.Scale(step/sep, d))
}

// Advance applies the entity's controller, if any, to its position.
func Advance(pos *components.Position, m *components.Motion, dt float64) {
	if m == nil || m.Controller == nil {
		return
	}
	pos.Set(m.Controller.Step(pos.Vec(), m.Speed, dt))
}
