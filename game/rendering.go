package game

import (
	"math"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/ui"
)

// Draw renders the current snapshot.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	snap := g.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(rl.RayWhite)

	for _, v := range snap.Entities {
		if g.cam.IsVisible(float32(v.X), float32(v.Y), float32(v.Radius)) {
			g.drawEntity(v, g.cam.Zoom)
		}
	}
	g.drawSelectionBox()

	if g.hud != nil {
		var counts [components.NumKinds]int
		for _, v := range snap.Entities {
			counts[v.KindTag()]++
		}
		action := g.hud.Draw(ui.HUDData{
			Tick:      g.tick,
			SimTime:   g.clock,
			Slugs:     counts[components.KindSlug],
			Mantises:  counts[components.KindMantis],
			Resources: counts[components.KindResource],
			Selected:  len(g.selected),
			Speed:     g.stepsPerUpdate,
			FPS:       rl.GetFPS(),
			Paused:    g.paused,
			Perf:      g.perfCollector.Stats().PhasePct,
		})
		g.applyHUDAction(action)
	}
	g.drawInspector()

	rl.EndDrawing()
}

// applyHUDAction applies a button press from the HUD.
func (g *Game) applyHUDAction(a ui.Action) {
	switch a {
	case ui.ActionPause:
		g.paused = !g.paused
	case ui.ActionSlower:
		g.SetStepsPerUpdate(g.stepsPerUpdate - 1)
	case ui.ActionFaster:
		g.SetStepsPerUpdate(g.stepsPerUpdate + 1)
	case ui.ActionSelectAll:
		g.SelectAll()
	case ui.ActionClear:
		g.ClearSelection()
	}
}

// drawInspector shows the inspector while exactly one creature is selected.
func (g *Game) drawInspector() {
	if g.inspector == nil {
		return
	}
	sel := g.Selection()
	if len(sel) != 1 {
		g.inspector.Hide()
		return
	}
	d, ok := g.Inspect(sel[0])
	if !ok {
		g.inspector.Hide()
		return
	}
	if g.inspector.Draw(d) {
		g.ClearSelection()
	}
}

// drawEntity draws the body outline and an inner disc whose area shows the
// amount.
func (g *Game) drawEntity(v EntityView, scale float32) {
	center := g.worldToScreen(v.X, v.Y)
	r := float32(v.Radius) * scale
	fill := parseColor(v.Color)

	inner := r * float32(math.Sqrt(math.Max(v.Amount, 0)))
	rl.DrawCircleV(center, inner, fill)

	outline := rl.Black
	if v.Selected {
		outline = rl.Red
		rl.DrawCircleLines(int32(center.X), int32(center.Y), r+2, outline)
	}
	rl.DrawCircleLines(int32(center.X), int32(center.Y), r, outline)
}

// drawSelectionBox draws the box selection in progress.
func (g *Game) drawSelectionBox() {
	a, ok := g.SelectionAnchor()
	if !ok {
		return
	}
	m := rl.GetMousePosition()
	p := g.worldToScreen(a.X, a.Y)
	x, y := min(p.X, m.X), min(p.Y, m.Y)
	w, h := float32(math.Abs(float64(m.X-p.X))), float32(math.Abs(float64(m.Y-p.Y)))
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, 1, rl.DarkGreen)
}

// parseColor converts a #rrggbb hint to a colour, defaulting to gray.
func parseColor(s string) rl.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return rl.Gray
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rl.Gray
	}
	return rl.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
