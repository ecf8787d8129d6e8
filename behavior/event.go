// Package behavior implements the event-driven state machines that drive
// mobile creatures. Each creature kind has one immutable Table built at
// startup; each creature owns a Machine holding its current State.
package behavior

import (
	"errors"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
)

// ErrNoTarget is returned when a nearest-entity query finds no candidate.
var ErrNoTarget = errors.New("no target found")

// EventKind enumerates the events a machine reacts to.
type EventKind uint8

const (
	EventOrder EventKind = iota
	EventCollide
	EventTimer
)

func (k EventKind) String() string {
	switch k {
	case EventOrder:
		return "order"
	case EventCollide:
		return "collide"
	case EventTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// StateID identifies a behavior state.
type StateID uint8

const (
	Idle StateID = iota
	Move
	Attack
	Build
	Harvest
	Flee
	Curious
	Chase

	numStates
)

var stateNames = [numStates]string{"Idle", "Move", "Attack", "Build", "Harvest", "Flee", "Curious", "Chase"}

func (s StateID) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "Unknown"
}

// StateSet is a bitset of state IDs.
type StateSet uint16

// Set builds a StateSet from ids.
func Set(ids ...StateID) StateSet {
	var s StateSet
	for _, id := range ids {
		s |= 1 << id
	}
	return s
}

// Has reports whether id is in the set.
func (s StateSet) Has(id StateID) bool {
	return s&(1<<id) != 0
}

// Order is an external command: a named-state token, or a point to move to.
type Order struct {
	Token    rune
	Point    r2.Vec
	HasPoint bool
}

// TokenOrder returns an order selecting a named state.
func TokenOrder(token rune) Order {
	return Order{Token: token}
}

// PointOrder returns an order to move to p.
func PointOrder(p r2.Vec) Order {
	return Order{Point: p, HasPoint: true}
}

// Contact describes the counterpart of a collision.
type Contact struct {
	Kind   components.Kind
	Entity ecs.Entity
}

// Event is delivered to a Machine. Only the field matching Kind is set.
type Event struct {
	Kind    EventKind
	Order   Order
	Contact Contact
}

// OrderEvent wraps an order.
func OrderEvent(o Order) Event {
	return Event{Kind: EventOrder, Order: o}
}

// CollideEvent wraps a contact.
func CollideEvent(c Contact) Event {
	return Event{Kind: EventCollide, Contact: c}
}

// TimerEvent is the alarm-fired event.
func TimerEvent() Event {
	return Event{Kind: EventTimer}
}

// State is the active behavior of one creature. Move uses Point;
// Curious, Chase and a mantis Flee use Target.
type State struct {
	ID     StateID
	Point  r2.Vec
	Target ecs.Entity
}

// Actor is the body a machine drives. All effects of a state go through it.
type Actor interface {
	Entity() ecs.Entity
	Amount() float64
	Radius() float64
	Position() r2.Vec

	Stop()
	GoTo(p r2.Vec)
	GoToEntity(e ecs.Entity) error
	Follow(e ecs.Entity) error
	SetAlarm(delay float64)

	// FindNearest returns the navigably nearest entity of kind accepted by
	// where (nil accepts all), or an error wrapping ErrNoTarget.
	FindNearest(kind components.Kind, where func(ecs.Entity) bool) (ecs.Entity, error)
	PositionOf(e ecs.Entity) (r2.Vec, bool)
	AmountOf(e ecs.Entity) (float64, bool)
	AddAmount(e ecs.Entity, delta float64)
	SetAmount(e ecs.Entity, v float64)

	RandomPoint() r2.Vec
	Rand() float64
}
