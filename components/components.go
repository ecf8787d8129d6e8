// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind tags an entity with one of the fixed entity kinds.
type Kind uint8

const (
	KindNest Kind = iota
	KindObstacle
	KindResource
	KindSlug
	KindMantis

	NumKinds
)

var kindNames = [NumKinds]string{"Nest", "Obstacle", "Resource", "Slug", "Mantis"}

// String returns the display name for a Kind.
func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// Mobile reports whether entities of this kind carry a brain and move.
func (k Kind) Mobile() bool {
	return k == KindSlug || k == KindMantis
}

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	return []Kind{KindNest, KindObstacle, KindResource, KindSlug, KindMantis}
}

// Identity holds the stable registration ID and kind of an entity.
// IDs increase with registration order and are never reused.
type Identity struct {
	ID   uint32
	Kind Kind
}

// Amount is the health/fill level of an entity. The tick pipeline keeps it
// at or below 1; a negative amount marks the entity for destruction.
type Amount struct {
	Value float64
}

// Appearance holds display hints for renderers.
type Appearance struct {
	Color string // #rrggbb
}

// Alarm is a pending one-shot timer deadline in simulation seconds.
type Alarm struct {
	Deadline float64
	Armed    bool
}

// Controller computes the next position of an entity each tick.
type Controller interface {
	Step(pos r2.Vec, speed, dt float64) r2.Vec
}

// Motion holds the active controller (nil = stationary) and top speed.
type Motion struct {
	Controller Controller
	Speed      float64
}

// Locator resolves an entity's current position.
type Locator interface {
	Locate(e ecs.Entity) (r2.Vec, bool)
}
