package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slugs/behavior"
	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/systems"
)

// collisionPass is one row of the collision schedule.
type collisionPass struct {
	firsts, seconds components.Kind
	randomize       bool
	react           bool
}

// collisionPasses runs in order every tick: mobiles against their own kind,
// mantises against slugs, mobiles against immovable terrain (no reaction),
// then mobiles against nests and resources.
var collisionPasses = [...]collisionPass{
	{components.KindSlug, components.KindSlug, true, false},
	{components.KindMantis, components.KindMantis, true, false},
	{components.KindMantis, components.KindSlug, true, true},
	{components.KindSlug, components.KindObstacle, false, false},
	{components.KindMantis, components.KindObstacle, false, false},
	{components.KindSlug, components.KindNest, false, true},
	{components.KindSlug, components.KindResource, false, true},
	{components.KindMantis, components.KindNest, false, true},
	{components.KindMantis, components.KindResource, false, true},
}

// contact is an overlap recorded during a reactive pass, first collection's
// entity first.
type contact struct {
	a, b         ecs.Entity
	kindA, kindB components.Kind
}

// Step advances the simulation by dt seconds.
func (g *Game) Step(dt float64) {
	g.perfCollector.StartTick()

	g.clock += dt

	g.perfCollector.StartPhase(systems.PhaseMotion)
	g.updateMotion(dt)

	g.perfCollector.StartPhase(systems.PhaseCollision)
	g.contacts = g.contacts[:0]
	for _, pass := range collisionPasses {
		g.runPass(pass)
	}

	g.perfCollector.StartPhase(systems.PhaseDispatch)
	g.dispatchContacts()

	g.perfCollector.StartPhase(systems.PhaseCleanup)
	g.cleanup()

	g.perfCollector.EndTick()
	g.tick++

	g.flushTelemetry()
}

// updateMotion steps every controller in registration order and fires
// expired alarms.
func (g *Game) updateMotion(dt float64) {
	for i := 0; i < len(g.entities); i++ {
		e := g.entities[i]
		_, pos, _, _, _, motion, alarm := g.entityMapper.Get(e)

		systems.Advance(pos, motion, dt)

		if alarm.Armed && alarm.Deadline < g.clock {
			alarm.Armed = false
			g.dispatch(e, behavior.TimerEvent())
		}
	}
}

// colliders gathers the bodies of kind for a collision pass.
func (g *Game) colliders(kind components.Kind, buf []systems.Collider) []systems.Collider {
	for _, e := range g.byKind[kind] {
		id, pos, body, _, _, _, _ := g.entityMapper.Get(e)
		buf = append(buf, systems.Collider{Entity: e, ID: id.ID, Pos: pos, Radius: body.Radius})
	}
	return buf
}

// runPass separates overlapping bodies of one pass, recording contacts for
// dispatch when the pass reacts.
func (g *Game) runPass(pass collisionPass) {
	firsts := g.colliders(pass.firsts, nil)
	seconds := firsts
	if pass.seconds != pass.firsts {
		seconds = g.colliders(pass.seconds, nil)
	}

	opts := systems.EjectOptions{Randomize: pass.randomize}
	opts.OnContact = func(a, b systems.Collider) {
		g.collector.RecordContact(pass.react)
		if pass.react {
			g.contacts = append(g.contacts, contact{a: a.Entity, b: b.Entity, kindA: pass.firsts, kindB: pass.seconds})
		}
	}
	g.resolver.Eject(firsts, seconds, opts)
}

// dispatchContacts delivers the recorded contacts to both brains. Amount
// changes made by reactions take effect in cleanup.
func (g *Game) dispatchContacts() {
	for _, c := range g.contacts {
		g.dispatch(c.a, behavior.CollideEvent(behavior.Contact{Kind: c.kindB, Entity: c.b}))
		g.dispatch(c.b, behavior.CollideEvent(behavior.Contact{Kind: c.kindA, Entity: c.a}))
	}
}

// dispatch delivers an event to e's brain, if any.
func (g *Game) dispatch(e ecs.Entity, ev behavior.Event) (behavior.Result, bool) {
	m, ok := g.Brain(e)
	if !ok {
		return behavior.Result{}, false
	}
	res := m.Handle(g.actor(e), ev)
	g.recordResult(res)
	return res, true
}

func (g *Game) recordResult(res behavior.Result) {
	if res.From != res.To || res.Fallback {
		g.collector.RecordTransition(res.Fallback)
	}
}

// cleanup destroys entities whose amount fell below zero and clamps the rest
// to at most one.
func (g *Game) cleanup() {
	var dead []ecs.Entity
	for _, e := range g.entities {
		amount := g.amountMap.Get(e)
		switch {
		case amount.Value < 0:
			dead = append(dead, e)
		case amount.Value > 1:
			amount.Value = 1
		}
	}

	for _, e := range dead {
		id := *g.idMap.Get(e)
		g.collector.RecordDeath(id.Kind)
		slog.Debug("destroyed", "id", id.ID, "kind", id.Kind.String(), "tick", g.tick)
		g.Destroy(e)
	}
}
