package systems

import (
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
)

// Collider is a circular body taking part in a collision pass.
// ID is the stable registration order used to break sweep ties.
type Collider struct {
	Entity ecs.Entity
	ID     uint32
	Pos    *components.Position
	Radius float64
}

// EjectOptions configures a collision pass.
type EjectOptions struct {
	// Randomize picks the moved body of each pair by coin flip.
	// Otherwise the body from the first collection always moves.
	Randomize bool
	// OnContact is called for each overlapping pair before it is separated,
	// first collection's body first.
	OnContact func(a, b Collider)
}

// sweepEvent is a boundary crossing along the sweep axis.
type sweepEvent struct {
	x     float64
	exit  bool
	id    uint32
	index int // into the owning collection
}

// Resolver separates overlapping circles with a sweep along the x axis.
type Resolver struct {
	rng *rand.Rand

	// Reusable buffers (cleared between passes)
	eventsA, eventsB []sweepEvent
	activeA, activeB []int
}

// NewResolver creates a resolver drawing coin flips from rng.
func NewResolver(rng *rand.Rand) *Resolver {
	return &Resolver{rng: rng}
}

// Eject detects every overlapping pair between firsts and seconds and pushes
// each pair apart by its penetration depth along the centre line. Passing the
// same slice twice resolves a collection against itself; self-pairs are
// skipped. Returns the number of contacts.
func (r *Resolver) Eject(firsts, seconds []Collider, opts EjectOptions) int {
	r.eventsA = buildEvents(r.eventsA[:0], firsts)
	r.eventsB = buildEvents(r.eventsB[:0], seconds)
	r.activeA = r.activeA[:0]
	r.activeB = r.activeB[:0]

	contacts := 0
	ia, ib := 0, 0
	for ia < len(r.eventsA) && ib < len(r.eventsB) {
		ea, eb := r.eventsA[ia], r.eventsB[ib]
		if eventLess(ea, eb) {
			ia++
			if ea.exit {
				r.activeA = removeActive(r.activeA, ea.index)
				continue
			}
			for _, j := range r.activeB {
				if r.eject(firsts[ea.index], seconds[j], opts) {
					contacts++
				}
			}
			r.activeA = append(r.activeA, ea.index)
		} else {
			ib++
			if eb.exit {
				r.activeB = removeActive(r.activeB, eb.index)
				continue
			}
			for _, i := range r.activeA {
				if r.eject(firsts[i], seconds[eb.index], opts) {
					contacts++
				}
			}
			r.activeB = append(r.activeB, eb.index)
		}
	}
	return contacts
}

// eject separates a single pair if it overlaps.
func (r *Resolver) eject(a, b Collider, opts EjectOptions) bool {
	if a.Entity == b.Entity {
		return false
	}
	d := r2.Sub(a.Pos.Vec(), b.Pos.Vec())
	dist := r2.Norm(d)
	depth := a.Radius + b.Radius - dist
	if depth <= 0 {
		return false
	}

	if opts.OnContact != nil {
		opts.OnContact(a, b)
	}

	// Coincident centres have no centre line; separate along +x.
	dir := r2.Vec{X: 1}
	if dist > 0 {
		dir = r2.Scale(1/dist, d)
	}

	if opts.Randomize && r.rng.Float64() < 0.5 {
		b.Pos.Set(r2.Sub(b.Pos.Vec(), r2.Scale(depth, dir)))
	} else {
		a.Pos.Set(r2.Add(a.Pos.Vec(), r2.Scale(depth, dir)))
	}
	return true
}

func buildEvents(events []sweepEvent, cs []Collider) []sweepEvent {
	for i, c := range cs {
		x := c.Pos.X
		events = append(events,
			sweepEvent{x: x - c.Radius, id: c.ID, index: i},
			sweepEvent{x: x + c.Radius, exit: true, id: c.ID, index: i},
		)
	}
	sort.Slice(events, func(i, j int) bool { return eventLess(events[i], events[j]) })
	return events
}

// eventLess orders by coordinate, then enter before exit, then ID.
func eventLess(a, b sweepEvent) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	if a.exit != b.exit {
		return !a.exit
	}
	return a.id < b.id
}

// removeActive drops index from the active list, keeping insertion order.
func removeActive(active []int, index int) []int {
	for k, v := range active {
		if v == index {
			return append(active[:k], active[k+1:]...)
		}
	}
	return active
}
