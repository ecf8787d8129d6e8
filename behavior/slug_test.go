package behavior

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
)

func newSlug(t *testing.T, amount float64) (*Machine, *fakeActor, func(components.Kind, r2.Vec, float64) ecs.Entity) {
	t.Helper()
	a, w := newFakeActor(components.KindSlug, r2.Vec{X: 100, Y: 100}, amount)
	m := NewMachine(NewSlugTable(defaultConfig().Slug))
	m.Start(a)
	add := func(kind components.Kind, pos r2.Vec, amt float64) ecs.Entity {
		return a.add(w, kind, pos, amt)
	}
	return m, a, add
}

func TestSlugStartsIdle(t *testing.T) {
	m, a, _ := newSlug(t, 1)
	assert.Equal(t, Idle, m.State().ID)
	assert.Equal(t, 1, a.stopped)
}

func TestSlugOrders(t *testing.T) {
	m, a, add := newSlug(t, 1)
	mantis := add(components.KindMantis, r2.Vec{X: 300, Y: 100}, 1)
	nest := add(components.KindNest, r2.Vec{X: 500, Y: 500}, 0.5)

	tests := []struct {
		name  string
		order Order
		want  StateID
	}{
		{"attack", TokenOrder('a'), Attack},
		{"build", TokenOrder('b'), Build},
		{"harvest without resources falls back", TokenOrder('h'), Idle},
		{"idle", TokenOrder('i'), Idle},
		{"flee", TokenOrder('f'), Flee},
		{"point", PointOrder(r2.Vec{X: 400, Y: 50}), Move},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m.Handle(a, OrderEvent(tc.order))
			assert.Equal(t, tc.want, m.State().ID)
		})
	}

	assert.Contains(t, a.follow, mantis)
	assert.Contains(t, a.goToEnt, nest)
	require.NotEmpty(t, a.goTo)
	assert.Equal(t, r2.Vec{X: 400, Y: 50}, a.goTo[len(a.goTo)-1])
	assert.Equal(t, r2.Vec{X: 400, Y: 50}, m.State().Point)
}

func TestSlugUnknownOrderKeepsState(t *testing.T) {
	m, a, add := newSlug(t, 1)
	add(components.KindNest, r2.Vec{X: 500, Y: 500}, 0.5)
	m.Handle(a, OrderEvent(TokenOrder('b')))
	require.Equal(t, Build, m.State().ID)

	res := m.Handle(a, OrderEvent(TokenOrder('z')))
	assert.True(t, res.Ignored)
	assert.False(t, res.Entered)
	assert.Equal(t, Build, m.State().ID)
}

func TestSlugRunFailureFallsBackToIdle(t *testing.T) {
	m, a, _ := newSlug(t, 1)
	stops := a.stopped

	res := m.Handle(a, OrderEvent(TokenOrder('a')))
	assert.True(t, res.Fallback)
	assert.Equal(t, Idle, res.To)
	assert.Equal(t, Idle, m.State().ID)
	assert.Equal(t, stops+1, a.stopped)
}

func TestSlugMoveArrival(t *testing.T) {
	m, a, _ := newSlug(t, 1)
	target := r2.Vec{X: 400, Y: 100}
	m.Handle(a, OrderEvent(PointOrder(target)))
	require.Equal(t, Move, m.State().ID)
	assert.Equal(t, 1.0, a.alarms[len(a.alarms)-1])

	// Not there yet: re-enter and keep navigating.
	m.Handle(a, TimerEvent())
	assert.Equal(t, Move, m.State().ID)
	assert.Len(t, a.goTo, 2)

	a.bodies[a.self].pos = r2.Vec{X: 395, Y: 100}
	m.Handle(a, TimerEvent())
	assert.Equal(t, Idle, m.State().ID)
}

// TestSlugHarvestRoundTrip picks up from a resource, delivers to a nest and
// heads back out.
func TestSlugHarvestRoundTrip(t *testing.T) {
	m, a, add := newSlug(t, 1)
	res := add(components.KindResource, r2.Vec{X: 200, Y: 100}, 0.8)
	nest := add(components.KindNest, r2.Vec{X: 100, Y: 400}, 0.5)

	m.Handle(a, OrderEvent(TokenOrder('h')))
	require.Equal(t, Harvest, m.State().ID)
	assert.Equal(t, res, a.goToEnt[len(a.goToEnt)-1])
	assert.False(t, m.Memory.Carrying)

	m.Handle(a, CollideEvent(Contact{Kind: components.KindResource, Entity: res}))
	amt, _ := a.AmountOf(res)
	assert.InDelta(t, 0.55, amt, 1e-9)
	assert.True(t, m.Memory.Carrying)
	assert.Equal(t, nest, a.goToEnt[len(a.goToEnt)-1], "carrying slug heads for a nest")

	// Touching the resource again while carrying takes nothing.
	m.Handle(a, CollideEvent(Contact{Kind: components.KindResource, Entity: res}))
	amt, _ = a.AmountOf(res)
	assert.InDelta(t, 0.55, amt, 1e-9)

	m.Handle(a, CollideEvent(Contact{Kind: components.KindNest, Entity: nest}))
	assert.False(t, m.Memory.Carrying)
	assert.Equal(t, res, a.goToEnt[len(a.goToEnt)-1])
	assert.Equal(t, Harvest, m.State().ID)
}

// TestSlugBuildSaturation adds to a nest until it is exactly full, then idles.
func TestSlugBuildSaturation(t *testing.T) {
	m, a, add := newSlug(t, 1)
	nest := add(components.KindNest, r2.Vec{X: 300, Y: 300}, 0.97)

	m.Handle(a, OrderEvent(TokenOrder('b')))
	require.Equal(t, Build, m.State().ID)

	contacts := 0
	for m.State().ID == Build && contacts < 10 {
		m.Handle(a, CollideEvent(Contact{Kind: components.KindNest, Entity: nest}))
		contacts++
		amt, _ := a.AmountOf(nest)
		assert.LessOrEqual(t, amt, 1.0)
	}

	assert.Equal(t, 3, contacts)
	assert.Equal(t, Idle, m.State().ID)
	amt, _ := a.AmountOf(nest)
	assert.Equal(t, 1.0, amt)
}

func TestSlugAttackBites(t *testing.T) {
	m, a, add := newSlug(t, 1)
	mantis := add(components.KindMantis, r2.Vec{X: 120, Y: 100}, 0.6)

	m.Handle(a, OrderEvent(TokenOrder('a')))
	require.Equal(t, Attack, m.State().ID)

	m.Handle(a, CollideEvent(Contact{Kind: components.KindMantis, Entity: mantis}))
	amt, _ := a.AmountOf(mantis)
	assert.InDelta(t, 0.55, amt, 1e-9)
	assert.Equal(t, Attack, m.State().ID)

	m.Handle(a, CollideEvent(Contact{Kind: components.KindMantis, Entity: mantis}))
	amt, _ = a.AmountOf(mantis)
	assert.InDelta(t, 0.50, amt, 1e-9)
	assert.Equal(t, Attack, m.State().ID)
}

func TestSlugDefaultRuleFlees(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		kind   components.Kind
		want   StateID
	}{
		{"healthy slug stays", 0.8, components.KindMantis, Build},
		{"at threshold stays", 0.5, components.KindMantis, Build},
		{"weak slug flees mantis", 0.4, components.KindMantis, Flee},
		{"weak slug ignores slugs", 0.4, components.KindSlug, Build},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, a, add := newSlug(t, tc.amount)
			add(components.KindNest, r2.Vec{X: 300, Y: 300}, 0.5)
			other := add(tc.kind, r2.Vec{X: 110, Y: 100}, 1)

			m.Handle(a, OrderEvent(TokenOrder('b')))
			m.Handle(a, CollideEvent(Contact{Kind: tc.kind, Entity: other}))
			assert.Equal(t, tc.want, m.State().ID)
		})
	}
}

func TestSlugFleeHeals(t *testing.T) {
	m, a, add := newSlug(t, 0.88)
	nest := add(components.KindNest, r2.Vec{X: 300, Y: 300}, 0.5)
	mantis := add(components.KindMantis, r2.Vec{X: 110, Y: 100}, 1)

	m.Handle(a, OrderEvent(TokenOrder('f')))
	require.Equal(t, Flee, m.State().ID)

	// Already fleeing: further mantis contact changes nothing.
	res := m.Handle(a, CollideEvent(Contact{Kind: components.KindMantis, Entity: mantis}))
	assert.False(t, res.Entered)
	assert.Equal(t, Flee, m.State().ID)

	m.Handle(a, CollideEvent(Contact{Kind: components.KindNest, Entity: nest}))
	assert.InDelta(t, 0.93, a.Amount(), 1e-9)
	assert.Equal(t, Flee, m.State().ID)

	m.Handle(a, CollideEvent(Contact{Kind: components.KindNest, Entity: nest}))
	m.Handle(a, CollideEvent(Contact{Kind: components.KindNest, Entity: nest}))
	assert.Equal(t, 1.0, a.Amount())
	assert.Equal(t, Idle, m.State().ID)
}

func TestSlugRemainDoesNotRerun(t *testing.T) {
	m, a, add := newSlug(t, 1)
	nest := add(components.KindNest, r2.Vec{X: 300, Y: 300}, 0.5)

	m.Handle(a, OrderEvent(TokenOrder('b')))
	require.Equal(t, Build, m.State().ID)
	navigations, alarms := len(a.goToEnt), len(a.alarms)

	res := m.Handle(a, CollideEvent(Contact{Kind: components.KindNest, Entity: nest}))
	assert.False(t, res.Entered)
	assert.Equal(t, Build, res.To)
	assert.Len(t, a.goToEnt, navigations, "remaining must not navigate again")
	assert.Len(t, a.alarms, alarms, "remaining must not re-arm the alarm")
}
