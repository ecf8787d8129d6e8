package game

import (
	"log/slog"

	"github.com/pthm-cable/slugs/behavior"
	"github.com/pthm-cable/slugs/components"
)

// logWorldState logs how many creatures of each mobile kind are in each
// state, plus the selection size.
func (g *Game) logWorldState() {
	for _, kind := range []components.Kind{components.KindSlug, components.KindMantis} {
		var counts [behavior.Chase + 1]int
		for _, e := range g.byKind[kind] {
			if m, ok := g.brains[g.idMap.Get(e).ID]; ok && m.State().ID <= behavior.Chase {
				counts[m.State().ID]++
			}
		}

		attrs := []any{"kind", kind.String(), "tick", g.tick, "total", len(g.byKind[kind])}
		for id, n := range counts {
			if n > 0 {
				attrs = append(attrs, behavior.StateID(id).String(), n)
			}
		}
		slog.Info("world", attrs...)
	}
	if len(g.selected) > 0 {
		slog.Info("selection", "tick", g.tick, "selected", len(g.selected))
	}
}

// logOutputError reports a failed output write without stopping the run.
func (g *Game) logOutputError(what string, err error) {
	slog.Error("failed to write "+what, "error", err, "dir", g.outputManager.Dir())
}
