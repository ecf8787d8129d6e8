package behavior

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/config"
)

// NewMantisTable builds the mantis behavior table from its tunables.
// Mantises wander, grow curious about slugs that bump into them, chase and
// nibble them, and run from slugs once weakened.
func NewMantisTable(cfg config.MantisConfig) *Table {
	t := &Table{
		Kind:      components.KindMantis,
		Initial:   Idle,
		Threat:    components.KindSlug,
		HasThreat: true,
		FleeBelow: cfg.FleeBelow,
		Orders:    map[rune]StateID{},
	}

	t.States[Idle] = &StateDef{
		Name: "Idle",
		Run: func(_ *Machine, a Actor, _ State) error {
			a.GoTo(a.RandomPoint())
			a.SetAlarm(a.Rand() * cfg.WanderAlarm)
			return nil
		},
		OnCollide: func(m *Machine, a Actor, s State, c Contact) (State, bool) {
			if next, enter := m.DefaultCollide(a, s, c); enter {
				return next, true
			}
			if c.Kind == components.KindSlug {
				return State{ID: Curious, Target: c.Entity}, true
			}
			return s, false
		},
		Accepts: Set(Curious, Flee),
	}

	// Curious and Chase share their reactions; only entry differs.
	decide := func(_ *Machine, a Actor, s State) State {
		if _, ok := a.PositionOf(s.Target); !ok {
			return State{ID: Idle}
		}
		if a.Rand() < cfg.GiveUpChance {
			return State{ID: Idle}
		}
		return State{ID: Chase, Target: s.Target}
	}
	nibble := func(m *Machine, a Actor, s State, c Contact) (State, bool) {
		if next, enter := m.DefaultCollide(a, s, c); enter {
			return next, true
		}
		if c.Kind == components.KindSlug && c.Entity == s.Target {
			a.AddAmount(c.Entity, -cfg.Bite)
		}
		return s, false
	}

	t.States[Curious] = &StateDef{
		Name: "Curious",
		Run: func(_ *Machine, a Actor, _ State) error {
			a.Stop()
			a.SetAlarm(cfg.CuriousAlarm)
			return nil
		},
		OnCollide: nibble,
		OnTimer:   decide,
		Accepts:   Set(Idle, Chase, Flee),
	}

	t.States[Chase] = &StateDef{
		Name: "Chase",
		Run: func(_ *Machine, a Actor, s State) error {
			if err := a.Follow(s.Target); err != nil {
				return fmt.Errorf("chase: %w", err)
			}
			a.SetAlarm(cfg.CuriousAlarm)
			return nil
		},
		OnCollide: nibble,
		OnTimer:   decide,
		Accepts:   Set(Idle, Flee),
	}

	t.States[Flee] = &StateDef{
		Name: "Flee",
		Run: func(_ *Machine, a Actor, s State) error {
			from, ok := a.PositionOf(s.Target)
			if !ok {
				return fmt.Errorf("flee: attacker gone: %w", ErrNoTarget)
			}
			away := r2.Sub(a.Position(), from)
			if r2.Norm(away) == 0 {
				away = r2.Vec{X: 1}
			}
			a.GoTo(r2.Add(a.Position(), r2.Scale(cfg.FleeDistance, r2.Unit(away))))
			a.SetAlarm(cfg.FleeAlarm)
			return nil
		},
		OnCollide: func(_ *Machine, _ Actor, s State, _ Contact) (State, bool) {
			return s, false
		},
		OnTimer: func(_ *Machine, _ Actor, _ State) State {
			return State{ID: Idle}
		},
		Accepts: Set(Idle),
	}

	return t
}
