package behavior

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
)

// RunFunc performs the side effects of entering a state.
type RunFunc func(m *Machine, a Actor, s State) error

// CollideFunc decides the reaction to a contact. It returns the next state
// and whether that state should be entered (run). Returning the current
// state with enter=false means remain without side effects: Run is not
// called again, so the active navigation and alarm are left untouched.
type CollideFunc func(m *Machine, a Actor, s State, c Contact) (State, bool)

// TimerFunc decides the next state when the alarm fires.
type TimerFunc func(m *Machine, a Actor, s State) State

// StateDef is the dispatch entry for one state of one creature kind.
type StateDef struct {
	Name      string
	Run       RunFunc
	OnCollide CollideFunc // nil = default threat rule
	OnTimer   TimerFunc   // nil = re-enter
	Accepts   StateSet    // legal next states; re-entry is always legal
}

// Table is the immutable behavior definition for a creature kind.
type Table struct {
	Kind      components.Kind
	Initial   StateID
	Threat    components.Kind
	HasThreat bool
	FleeBelow float64
	Orders    map[rune]StateID
	States    [numStates]*StateDef
}

// Def returns the definition of id, or nil if the kind lacks that state.
func (t *Table) Def(id StateID) *StateDef {
	if id >= numStates {
		return nil
	}
	return t.States[id]
}

// Memory is per-creature scratch state that outlives individual states.
type Memory struct {
	Carrying bool
}

// Result reports what a Handle call did.
type Result struct {
	From     StateID
	To       StateID
	Entered  bool // the resulting state's Run was called
	Ignored  bool // unrecognized order
	Rejected bool // proposed state not accepted
	Fallback bool // Run failed and the machine fell back to Idle
}

// Machine holds the active state of one creature.
type Machine struct {
	table  *Table
	state  State
	Memory Memory
}

// NewMachine creates a machine in the table's initial state.
// Call Start to run the initial state.
func NewMachine(t *Table) *Machine {
	return &Machine{table: t, state: State{ID: t.Initial}}
}

// Table returns the machine's behavior table.
func (m *Machine) Table() *Table { return m.table }

// State returns the active state.
func (m *Machine) State() State { return m.state }

// Start runs the initial state.
func (m *Machine) Start(a Actor) Result {
	return m.enter(a, m.state, Result{From: m.state.ID})
}

// Handle reacts to one event. It never fails: unknown orders are logged and
// ignored, and a state whose Run fails is replaced by Idle.
func (m *Machine) Handle(a Actor, ev Event) Result {
	cur := m.state
	res := Result{From: cur.ID, To: cur.ID}

	var next State
	enter := true
	switch ev.Kind {
	case EventOrder:
		s, ok := m.resolveOrder(ev.Order)
		if !ok {
			slog.Warn("unhandled order",
				"kind", m.table.Kind.String(),
				"state", cur.ID.String(),
				"token", string(ev.Order.Token),
			)
			res.Ignored = true
			return res
		}
		next = s
	case EventCollide:
		def := m.table.Def(cur.ID)
		if def != nil && def.OnCollide != nil {
			next, enter = def.OnCollide(m, a, cur, ev.Contact)
		} else {
			next, enter = m.DefaultCollide(a, cur, ev.Contact)
		}
	case EventTimer:
		def := m.table.Def(cur.ID)
		next = cur
		if def != nil && def.OnTimer != nil {
			next = def.OnTimer(m, a, cur)
		}
	default:
		slog.Warn("unhandled event", "kind", m.table.Kind.String(), "event", ev.Kind.String())
		res.Ignored = true
		return res
	}

	if !m.accepts(cur.ID, next.ID) {
		slog.Debug("transition rejected",
			"kind", m.table.Kind.String(),
			"from", cur.ID.String(),
			"to", next.ID.String(),
			"event", ev.Kind.String(),
		)
		res.Rejected = true
		return res
	}

	m.state = next
	res.To = next.ID
	if !enter {
		return res
	}
	return m.enter(a, next, res)
}

// DefaultCollide is the rule every state inherits: contact with the table's
// threat kind while below FleeBelow means Flee, otherwise remain.
func (m *Machine) DefaultCollide(a Actor, s State, c Contact) (State, bool) {
	if m.table.HasThreat && c.Kind == m.table.Threat && a.Amount() < m.table.FleeBelow {
		return State{ID: Flee, Target: c.Entity}, true
	}
	return s, false
}

// resolveOrder maps an order to a state. Points always mean Move.
func (m *Machine) resolveOrder(o Order) (State, bool) {
	if o.HasPoint {
		if m.table.Def(Move) == nil {
			return State{}, false
		}
		return State{ID: Move, Point: o.Point}, true
	}
	id, ok := m.table.Orders[o.Token]
	if !ok || m.table.Def(id) == nil {
		return State{}, false
	}
	return State{ID: id}, true
}

func (m *Machine) accepts(from, to StateID) bool {
	if from == to {
		return m.table.Def(to) != nil
	}
	def := m.table.Def(from)
	return def != nil && def.Accepts.Has(to) && m.table.Def(to) != nil
}

// enter runs s, falling back to Idle if Run fails.
func (m *Machine) enter(a Actor, s State, res Result) Result {
	res.Entered = true
	def := m.table.Def(s.ID)
	if def == nil || def.Run == nil {
		return res
	}
	err := def.Run(m, a, s)
	if err == nil {
		return res
	}

	slog.Debug("state failed, idling",
		"kind", m.table.Kind.String(),
		"state", s.ID.String(),
		"err", err,
	)
	m.state = State{ID: Idle}
	res.To = Idle
	res.Fallback = true
	if idle := m.table.Def(Idle); idle != nil && idle.Run != nil {
		if err := idle.Run(m, a, m.state); err != nil {
			slog.Warn("idle failed", "kind", m.table.Kind.String(), "err", err)
		}
	}
	return res
}

// arrived reports whether a is within its own radius of p.
func arrived(a Actor, p r2.Vec) bool {
	return r2.Norm(r2.Sub(a.Position(), p)) <= a.Radius()
}
