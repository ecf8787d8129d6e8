package behavior

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/config"
)

// fakeBody is an entity known to fakeActor.
type fakeBody struct {
	kind   components.Kind
	pos    r2.Vec
	amount float64
}

// fakeActor records the commands a machine issues.
type fakeActor struct {
	world   *ecs.World
	self    ecs.Entity
	radius  float64
	bodies  map[ecs.Entity]*fakeBody
	order   []ecs.Entity
	rolls   []float64
	randPt  r2.Vec
	stopped int
	goTo    []r2.Vec
	goToEnt []ecs.Entity
	follow  []ecs.Entity
	alarms  []float64
}

func newFakeActor(kind components.Kind, pos r2.Vec, amount float64) (*fakeActor, *ecs.World) {
	w := ecs.NewWorld()
	a := &fakeActor{world: w, radius: 10, bodies: map[ecs.Entity]*fakeBody{}}
	a.self = a.add(w, kind, pos, amount)
	return a, w
}

func (f *fakeActor) add(w *ecs.World, kind components.Kind, pos r2.Vec, amount float64) ecs.Entity {
	e := ecs.NewMap1[components.Body](w).NewEntity(&components.Body{})
	f.bodies[e] = &fakeBody{kind: kind, pos: pos, amount: amount}
	f.order = append(f.order, e)
	return e
}

func (f *fakeActor) remove(e ecs.Entity) { delete(f.bodies, e) }

func (f *fakeActor) Entity() ecs.Entity { return f.self }
func (f *fakeActor) Amount() float64    { return f.bodies[f.self].amount }
func (f *fakeActor) Radius() float64    { return f.radius }
func (f *fakeActor) Position() r2.Vec   { return f.bodies[f.self].pos }
func (f *fakeActor) Stop()              { f.stopped++ }
func (f *fakeActor) GoTo(p r2.Vec)      { f.goTo = append(f.goTo, p) }
func (f *fakeActor) SetAlarm(d float64) { f.alarms = append(f.alarms, d) }
func (f *fakeActor) RandomPoint() r2.Vec {
	return f.randPt
}

func (f *fakeActor) GoToEntity(e ecs.Entity) error {
	if _, ok := f.bodies[e]; !ok {
		return fmt.Errorf("go to: %w", ErrNoTarget)
	}
	f.goToEnt = append(f.goToEnt, e)
	return nil
}

func (f *fakeActor) Follow(e ecs.Entity) error {
	if _, ok := f.bodies[e]; !ok {
		return fmt.Errorf("follow: %w", ErrNoTarget)
	}
	f.follow = append(f.follow, e)
	return nil
}

// FindNearest returns the Euclidean-nearest match in insertion order.
func (f *fakeActor) FindNearest(kind components.Kind, where func(ecs.Entity) bool) (ecs.Entity, error) {
	var best ecs.Entity
	bestD := -1.0
	for _, e := range f.order {
		b, ok := f.bodies[e]
		if !ok || e == f.self || b.kind != kind || (where != nil && !where(e)) {
			continue
		}
		d := r2.Norm(r2.Sub(b.pos, f.Position()))
		if bestD < 0 || d < bestD {
			best, bestD = e, d
		}
	}
	if bestD < 0 {
		return ecs.Entity{}, fmt.Errorf("nearest %s: %w", kind, ErrNoTarget)
	}
	return best, nil
}

func (f *fakeActor) PositionOf(e ecs.Entity) (r2.Vec, bool) {
	b, ok := f.bodies[e]
	if !ok {
		return r2.Vec{}, false
	}
	return b.pos, true
}

func (f *fakeActor) AmountOf(e ecs.Entity) (float64, bool) {
	b, ok := f.bodies[e]
	if !ok {
		return 0, false
	}
	return b.amount, true
}

func (f *fakeActor) AddAmount(e ecs.Entity, delta float64) {
	if b, ok := f.bodies[e]; ok {
		b.amount += delta
	}
}

func (f *fakeActor) SetAmount(e ecs.Entity, v float64) {
	if b, ok := f.bodies[e]; ok {
		b.amount = v
	}
}

// Rand pops the next scripted roll, defaulting to 0.99.
func (f *fakeActor) Rand() float64 {
	if len(f.rolls) == 0 {
		return 0.99
	}
	r := f.rolls[0]
	f.rolls = f.rolls[1:]
	return r
}

func defaultConfig() *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}
