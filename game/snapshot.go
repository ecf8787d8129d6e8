package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/ui"
)

// EntityView is the read-only presentation state of one entity.
type EntityView struct {
	ID       uint32  `json:"id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"r"`
	Amount   float64 `json:"amount"`
	Color    string  `json:"color"`
	State    string  `json:"state,omitempty"`
	Selected bool    `json:"selected,omitempty"`

	kind components.Kind
}

// KindTag returns the entity kind.
func (v EntityView) KindTag() components.Kind { return v.kind }

// Snapshot is a consistent copy of the world taken between ticks.
type Snapshot struct {
	Tick     int32        `json:"tick"`
	Time     float64      `json:"time"`
	Width    float64      `json:"w"`
	Height   float64      `json:"h"`
	Entities []EntityView `json:"entities"`
}

// Snapshot copies the presentation state of every entity in registration
// order. It must not be called during a tick.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     g.tick,
		Time:     g.clock,
		Width:    g.cfg.Derived.WorldW,
		Height:   g.cfg.Derived.WorldH,
		Entities: make([]EntityView, 0, len(g.entities)),
	}
	for _, e := range g.entities {
		id, pos, body, amount, app, _, _ := g.entityMapper.Get(e)
		v := EntityView{
			ID:       id.ID,
			Kind:     id.Kind.String(),
			X:        pos.X,
			Y:        pos.Y,
			Radius:   body.Radius,
			Amount:   amount.Value,
			Color:    app.Color,
			Selected: g.selected[e],
			kind:     id.Kind,
		}
		if m, ok := g.brains[id.ID]; ok {
			v.State = m.State().ID.String()
		}
		s.Entities = append(s.Entities, v)
	}
	return s
}

// Inspect describes a live entity for the inspector panel.
func (g *Game) Inspect(e ecs.Entity) (ui.InspectorData, bool) {
	if !g.world.Alive(e) {
		return ui.InspectorData{}, false
	}
	id, pos, body, amount, _, _, alarm := g.entityMapper.Get(e)
	d := ui.InspectorData{
		ID:     id.ID,
		Kind:   id.Kind.String(),
		X:      pos.X,
		Y:      pos.Y,
		Radius: body.Radius,
		Amount: amount.Value,
		Armed:  alarm.Armed,
	}
	if alarm.Armed {
		d.AlarmIn = max(alarm.Deadline-g.clock, 0)
	}
	if m, ok := g.brains[id.ID]; ok {
		d.State = m.State().ID.String()
		d.Carrying = m.Memory.Carrying
	}
	return d, true
}
