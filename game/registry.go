package game

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
	"github.com/pthm-cable/slugs/components"
)

// Spawn describes an entity to register. Zero Radius, Amount, Speed and
// Color fall back to the kind's template from config.
type Spawn struct {
	Kind     components.Kind
	Position r2.Vec
	Radius   float64
	Amount   float64
	Speed    float64
	Color    string

	// NoAmount keeps a zero Amount instead of using the template.
	NoAmount bool
}

// Register adds an entity to the world, the registration list and its kind
// index. Mobile kinds get a brain whose initial state is run immediately.
func (g *Game) Register(s Spawn) ecs.Entity {
	tmpl := g.cfg.Kinds.ByKind(s.Kind)
	if s.Radius == 0 {
		s.Radius = tmpl.Radius
	}
	if s.Amount == 0 && !s.NoAmount {
		s.Amount = tmpl.Amount
	}
	if s.Speed == 0 {
		s.Speed = tmpl.Speed
	}
	if s.Color == "" {
		s.Color = tmpl.Color
	}

	id := components.Identity{ID: g.nextID, Kind: s.Kind}
	g.nextID++
	pos := components.Position(s.Position)
	body := components.Body{Radius: s.Radius}
	amount := components.Amount{Value: s.Amount}
	app := components.Appearance{Color: s.Color}
	motion := components.Motion{Speed: s.Speed}
	alarm := components.Alarm{}

	e := g.entityMapper.NewEntity(&id, &pos, &body, &amount, &app, &motion, &alarm)
	g.entities = append(g.entities, e)
	if s.Kind < components.NumKinds {
		g.byKind[s.Kind] = append(g.byKind[s.Kind], e)
	}

	if s.Kind.Mobile() && g.tables[s.Kind] != nil {
		m := behavior.NewMachine(g.tables[s.Kind])
		g.brains[id.ID] = m
		g.recordResult(m.Start(g.actor(e)))
	}
	return e
}

// Destroy removes an entity from the world, both indices, the selection and
// the brain table. Unknown or already destroyed entities are ignored.
func (g *Game) Destroy(e ecs.Entity) {
	if !g.world.Alive(e) {
		return
	}
	id := *g.idMap.Get(e)

	g.entities = slices.DeleteFunc(g.entities, func(x ecs.Entity) bool { return x == e })
	if id.Kind < components.NumKinds {
		g.byKind[id.Kind] = slices.DeleteFunc(g.byKind[id.Kind], func(x ecs.Entity) bool { return x == e })
	}
	delete(g.selected, e)
	delete(g.brains, id.ID)
	g.world.RemoveEntity(e)
}

// Entities returns the live entities in registration order.
// The slice is owned by the game and must not be modified.
func (g *Game) Entities() []ecs.Entity { return g.entities }

// EntitiesOf returns the live entities of kind in registration order.
func (g *Game) EntitiesOf(kind components.Kind) []ecs.Entity {
	if kind >= components.NumKinds {
		return nil
	}
	return g.byKind[kind]
}

// Count returns the number of live entities of kind.
func (g *Game) Count(kind components.Kind) int { return len(g.EntitiesOf(kind)) }

// Alive reports whether e is registered.
func (g *Game) Alive(e ecs.Entity) bool { return g.world.Alive(e) }

// Locate returns the position of e, implementing components.Locator.
func (g *Game) Locate(e ecs.Entity) (r2.Vec, bool) {
	if !g.world.Alive(e) {
		return r2.Vec{}, false
	}
	return g.posMap.Get(e).Vec(), true
}

// KindOf returns the kind of e.
func (g *Game) KindOf(e ecs.Entity) (components.Kind, bool) {
	if !g.world.Alive(e) {
		return 0, false
	}
	return g.idMap.Get(e).Kind, true
}

// AmountOf returns the amount of e.
func (g *Game) AmountOf(e ecs.Entity) (float64, bool) {
	if !g.world.Alive(e) {
		return 0, false
	}
	return g.amountMap.Get(e).Value, true
}

// SetAmount overwrites the amount of e. The next cleanup clamps or destroys.
func (g *Game) SetAmount(e ecs.Entity, v float64) {
	if g.world.Alive(e) {
		g.amountMap.Get(e).Value = v
	}
}

// Brain returns the behavior machine of e, if it has one.
func (g *Game) Brain(e ecs.Entity) (*behavior.Machine, bool) {
	if !g.world.Alive(e) {
		return nil, false
	}
	m, ok := g.brains[g.idMap.Get(e).ID]
	return m, ok
}

// SetAlarm arms a timer event delay seconds from now. An armed alarm is only
// ever brought forward, never pushed back.
func (g *Game) SetAlarm(e ecs.Entity, delay float64) {
	if !g.world.Alive(e) {
		return
	}
	alarm := g.alarmMap.Get(e)
	when := g.clock + delay
	if !alarm.Armed || when < alarm.Deadline {
		alarm.Deadline = when
		alarm.Armed = true
	}
}
