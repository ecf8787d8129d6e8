package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/systems"
)

// blockers collects every live entity except those rejected by skip.
func (g *Game) blockers(skip func(ecs.Entity) bool) []systems.Blocker {
	out := make([]systems.Blocker, 0, len(g.entities))
	for _, e := range g.entities {
		if skip(e) {
			continue
		}
		out = append(out, systems.Blocker{Pos: g.posMap.Get(e).Vec(), Radius: g.bodyMap.Get(e).Radius})
	}
	return out
}

// FindNearest returns the entity of kind, accepted by where (nil accepts
// all), with the shortest navigable distance from searcher. The field is
// built from the searcher's position with every other entity, apart from the
// candidates themselves, inflated by the searcher's radius as a blocker.
// Ties go to the earliest registered candidate.
func (g *Game) FindNearest(searcher ecs.Entity, kind components.Kind, where func(ecs.Entity) bool) (ecs.Entity, error) {
	if !g.world.Alive(searcher) {
		return ecs.Entity{}, fmt.Errorf("find nearest %s: searcher gone: %w", kind, behavior.ErrNoTarget)
	}

	var candidates []ecs.Entity
	for _, e := range g.EntitiesOf(kind) {
		if e == searcher || (where != nil && !where(e)) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return ecs.Entity{}, fmt.Errorf("find nearest %s: %w", kind, behavior.ErrNoTarget)
	}

	field := systems.BuildDistanceField(
		g.grid,
		g.posMap.Get(searcher).Vec(),
		// Candidates are not blockers, unlike every other entity: a target
		// sitting inside its own footprint would be ranked by how deep it
		// is buried rather than by how far away it is.
		g.blockers(func(e ecs.Entity) bool {
			if e == searcher {
				return true
			}
			k, _ := g.KindOf(e)
			return k == kind
		}),
		g.bodyMap.Get(searcher).Radius,
	)

	best := candidates[0]
	bestD := field.Sample(g.posMap.Get(best).Vec())
	for _, e := range candidates[1:] {
		if d := field.Sample(g.posMap.Get(e).Vec()); d < bestD {
			best, bestD = e, d
		}
	}
	return best, nil
}

// goTo replaces e's controller with a field follower towards target,
// avoiding every other entity except skip.
func (g *Game) goTo(e ecs.Entity, target r2.Vec, skip ecs.Entity) {
	field := systems.BuildDistanceField(
		g.grid,
		target,
		g.blockers(func(x ecs.Entity) bool { return x == e || x == skip }),
		g.bodyMap.Get(e).Radius,
	)
	g.motionMap.Get(e).Controller = systems.NewFieldFollower(field, g.cfg.Navigation.GradientProbe)
}

// clampToWorld keeps p inside the world extents.
func (g *Game) clampToWorld(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: min(max(p.X, 0), g.cfg.Derived.WorldW),
		Y: min(max(p.Y, 0), g.cfg.Derived.WorldH),
	}
}

// actor adapts an entity to the commands and queries its brain may use.
type actor struct {
	g *Game
	e ecs.Entity
}

func (g *Game) actor(e ecs.Entity) *actor { return &actor{g: g, e: e} }

func (a *actor) Entity() ecs.Entity { return a.e }
func (a *actor) Amount() float64    { return a.g.amountMap.Get(a.e).Value }
func (a *actor) Radius() float64    { return a.g.bodyMap.Get(a.e).Radius }
func (a *actor) Position() r2.Vec   { return a.g.posMap.Get(a.e).Vec() }

func (a *actor) Stop() { a.g.motionMap.Get(a.e).Controller = nil }

func (a *actor) GoTo(p r2.Vec) {
	a.g.goTo(a.e, a.g.clampToWorld(p), ecs.Entity{})
}

func (a *actor) GoToEntity(target ecs.Entity) error {
	p, ok := a.g.Locate(target)
	if !ok {
		return fmt.Errorf("go to: %w", behavior.ErrNoTarget)
	}
	a.g.goTo(a.e, p, target)
	return nil
}

func (a *actor) Follow(target ecs.Entity) error {
	if !a.g.world.Alive(target) {
		return fmt.Errorf("follow: %w", behavior.ErrNoTarget)
	}
	a.g.motionMap.Get(a.e).Controller = systems.NewDirectFollower(target, a.g)
	return nil
}

func (a *actor) SetAlarm(delay float64) { a.g.SetAlarm(a.e, delay) }

func (a *actor) FindNearest(kind components.Kind, where func(ecs.Entity) bool) (ecs.Entity, error) {
	return a.g.FindNearest(a.e, kind, where)
}

func (a *actor) PositionOf(e ecs.Entity) (r2.Vec, bool)  { return a.g.Locate(e) }
func (a *actor) AmountOf(e ecs.Entity) (float64, bool)   { return a.g.AmountOf(e) }
func (a *actor) SetAmount(e ecs.Entity, v float64)       { a.g.SetAmount(e, v) }
func (a *actor) AddAmount(e ecs.Entity, delta float64) {
	if v, ok := a.g.AmountOf(e); ok {
		a.g.SetAmount(e, v+delta)
	}
}

func (a *actor) RandomPoint() r2.Vec {
	return r2.Vec{X: a.g.rng.Float64() * a.g.cfg.Derived.WorldW, Y: a.g.rng.Float64() * a.g.cfg.Derived.WorldH}
}

func (a *actor) Rand() float64 { return a.g.rng.Float64() }
