package behavior

import (
	"fmt"

	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/config"
)

// full is the tolerance for treating an amount as saturated.
const full = 1 - 1e-9

// slugStates are the states a slug may move between freely.
var slugStates = Set(Idle, Move, Attack, Build, Harvest, Flee)

// NewSlugTable builds the slug behavior table from its tunables.
func NewSlugTable(cfg config.SlugConfig) *Table {
	t := &Table{
		Kind:      components.KindSlug,
		Initial:   Idle,
		Threat:    components.KindMantis,
		HasThreat: true,
		FleeBelow: cfg.FleeBelow,
		Orders: map[rune]StateID{
			'a': Attack,
			'b': Build,
			'h': Harvest,
			'i': Idle,
			'f': Flee,
		},
	}

	t.States[Idle] = &StateDef{
		Name:    "Idle",
		Run:     func(_ *Machine, a Actor, _ State) error { a.Stop(); return nil },
		Accepts: slugStates,
	}

	t.States[Move] = &StateDef{
		Name: "Move",
		Run: func(_ *Machine, a Actor, s State) error {
			a.GoTo(s.Point)
			a.SetAlarm(cfg.Recheck)
			return nil
		},
		OnTimer: func(_ *Machine, a Actor, s State) State {
			if arrived(a, s.Point) {
				return State{ID: Idle}
			}
			return s
		},
		Accepts: slugStates,
	}

	t.States[Attack] = &StateDef{
		Name: "Attack",
		Run: func(_ *Machine, a Actor, _ State) error {
			target, err := a.FindNearest(components.KindMantis, nil)
			if err != nil {
				return fmt.Errorf("attack: %w", err)
			}
			if err := a.Follow(target); err != nil {
				return fmt.Errorf("attack: %w", err)
			}
			a.SetAlarm(cfg.Recheck)
			return nil
		},
		OnCollide: func(m *Machine, a Actor, s State, c Contact) (State, bool) {
			if c.Kind == components.KindMantis {
				a.AddAmount(c.Entity, -cfg.Bite)
			}
			return m.DefaultCollide(a, s, c)
		},
		Accepts: slugStates,
	}

	t.States[Build] = &StateDef{
		Name: "Build",
		Run:  headFor(components.KindNest, cfg.Recheck),
		OnCollide: func(m *Machine, a Actor, s State, c Contact) (State, bool) {
			if c.Kind != components.KindNest {
				return m.DefaultCollide(a, s, c)
			}
			amount, ok := a.AmountOf(c.Entity)
			if !ok {
				return s, false
			}
			next := amount + cfg.BuildRate
			if next >= full {
				a.SetAmount(c.Entity, 1)
				return State{ID: Idle}, true
			}
			a.SetAmount(c.Entity, next)
			return s, false
		},
		Accepts: slugStates,
	}

	t.States[Harvest] = &StateDef{
		Name: "Harvest",
		Run: func(m *Machine, a Actor, s State) error {
			kind := components.KindResource
			if m.Memory.Carrying {
				kind = components.KindNest
			}
			return headFor(kind, cfg.Recheck)(m, a, s)
		},
		OnCollide: func(m *Machine, a Actor, s State, c Contact) (State, bool) {
			switch {
			case c.Kind == components.KindResource && !m.Memory.Carrying:
				a.AddAmount(c.Entity, -cfg.HarvestTake)
				m.Memory.Carrying = true
				return s, true
			case c.Kind == components.KindNest && m.Memory.Carrying:
				m.Memory.Carrying = false
				return s, true
			}
			return m.DefaultCollide(a, s, c)
		},
		Accepts: slugStates,
	}

	t.States[Flee] = &StateDef{
		Name: "Flee",
		Run:  headFor(components.KindNest, cfg.Recheck),
		OnCollide: func(_ *Machine, a Actor, s State, c Contact) (State, bool) {
			if c.Kind != components.KindNest {
				return s, false
			}
			next := a.Amount() + cfg.HealRate
			if next >= full {
				a.SetAmount(a.Entity(), 1)
				return State{ID: Idle}, true
			}
			a.SetAmount(a.Entity(), next)
			return s, false
		},
		Accepts: slugStates,
	}

	return t
}

// headFor returns a Run that navigates to the nearest entity of kind and
// re-arms the alarm so the target is re-acquired periodically.
func headFor(kind components.Kind, recheck float64) RunFunc {
	return func(_ *Machine, a Actor, s State) error {
		target, err := a.FindNearest(kind, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		if err := a.GoToEntity(target); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		a.SetAlarm(recheck)
		return nil
	}
}
