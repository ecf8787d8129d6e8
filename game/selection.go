package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/telemetry"
)

// BeginSelection anchors a box selection at p.
func (g *Game) BeginSelection(p r2.Vec) { g.selA = &p }

// SelectionAnchor returns the anchor of the box selection in progress.
func (g *Game) SelectionAnchor() (r2.Vec, bool) {
	if g.selA == nil {
		return r2.Vec{}, false
	}
	return *g.selA, true
}

// EndSelection completes the box selection at p, replacing the selection.
func (g *Game) EndSelection(p r2.Vec) int {
	if g.selA == nil {
		return len(g.selected)
	}
	a := *g.selA
	g.selA = nil
	return g.SelectBox(a, p)
}

// SelectBox selects the slugs strictly inside the rectangle spanned by a and
// b, replacing the selection. Returns the number selected.
func (g *Game) SelectBox(a, b r2.Vec) int {
	lo := r2.Vec{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	hi := r2.Vec{X: max(a.X, b.X), Y: max(a.Y, b.Y)}

	clear(g.selected)
	for _, e := range g.byKind[components.KindSlug] {
		p := g.posMap.Get(e)
		if lo.X < p.X && lo.Y < p.Y && p.X < hi.X && p.Y < hi.Y {
			g.selected[e] = true
		}
	}
	return len(g.selected)
}

// SelectAll selects every slug.
func (g *Game) SelectAll() int {
	clear(g.selected)
	for _, e := range g.byKind[components.KindSlug] {
		g.selected[e] = true
	}
	return len(g.selected)
}

// ClearSelection empties the selection.
func (g *Game) ClearSelection() {
	clear(g.selected)
	g.selA = nil
}

// Selected reports whether e is selected.
func (g *Game) Selected(e ecs.Entity) bool { return g.selected[e] }

// Selection returns the selected entities in registration order.
func (g *Game) Selection() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(g.selected))
	for _, e := range g.entities {
		if g.selected[e] {
			out = append(out, e)
		}
	}
	return out
}

// IssueOrder delivers an order to every selected brain in registration
// order. Returns how many brains received it and how many ignored it.
func (g *Game) IssueOrder(o behavior.Order) (recipients, ignored int) {
	for _, e := range g.Selection() {
		res, ok := g.dispatch(e, behavior.OrderEvent(o))
		if !ok {
			continue
		}
		recipients++
		if res.Ignored {
			ignored++
		}
		g.collector.RecordOrder(res.Ignored)
	}

	rec := telemetry.OrderRecord{Tick: g.tick, Recipients: recipients, Ignored: ignored}
	if o.HasPoint {
		rec.X, rec.Y = o.Point.X, o.Point.Y
	} else {
		rec.Token = string(o.Token)
	}
	if err := g.outputManager.WriteOrder(rec); err != nil {
		g.logOutputError("order", err)
	}
	return recipients, ignored
}
