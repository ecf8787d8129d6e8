package game

import (
	"log/slog"
	"unicode"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetStepsPerUpdate(g.stepsPerUpdate - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetStepsPerUpdate(g.stepsPerUpdate + 1)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		n := g.SelectAll()
		slog.Debug("select all", "selected", n)
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.ClearSelection()
	}

	// Letters are order tokens for the selection.
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		if unicode.IsLetter(c) {
			g.IssueOrder(behavior.TokenOrder(unicode.ToLower(c)))
		}
	}

	g.handleCamera()

	// A drag may end over a panel; the selection still completes.
	mouse := g.screenToWorld(rl.GetMousePosition())
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		g.EndSelection(mouse)
	}
	if g.overPanel(rl.GetMousePosition()) {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.BeginSelection(mouse)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.IssueOrder(behavior.PointOrder(mouse))
	}
}

// overPanel reports whether p is over a HUD or inspector panel.
func (g *Game) overPanel(p rl.Vector2) bool {
	if g.hud != nil && g.hud.Contains(p) {
		return true
	}
	return g.inspector != nil && g.inspector.Contains(p)
}

const panSpeed = 8 // screen pixels per frame for arrow keys

// handleCamera pans and zooms the view.
func (g *Game) handleCamera() {
	g.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))

	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		g.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.cam.Pan(0, -panSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.cam.Pan(0, panSpeed)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		g.cam.Pan(-d.X, -d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		factor := float32(1.1)
		if wheel < 0 {
			factor = 1 / factor
		}
		g.cam.ZoomAt(m.X, m.Y, factor)
	}
}

func (g *Game) screenToWorld(p rl.Vector2) r2.Vec {
	x, y := g.cam.ScreenToWorld(p.X, p.Y)
	return r2.Vec{X: float64(x), Y: float64(y)}
}

func (g *Game) worldToScreen(x, y float64) rl.Vector2 {
	sx, sy := g.cam.WorldToScreen(float32(x), float32(y))
	return rl.Vector2{X: sx, Y: sy}
}
