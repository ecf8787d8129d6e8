package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/slugs/systems"
)

// Action is a HUD button press for the game to apply.
type Action int

const (
	ActionNone Action = iota
	ActionPause
	ActionSlower
	ActionFaster
	ActionSelectAll
	ActionClear
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Tick      int32
	SimTime   float64
	Slugs     int
	Mantises  int
	Resources int
	Selected  int
	Speed     int
	FPS       int32
	Paused    bool

	// Share of tick time per phase ID
	Perf map[string]float64
}

// button is a HUD button and the action it triggers.
type button struct {
	label  string
	action Action
}

// HUD draws the status panel, control buttons and phase timings.
type HUD struct {
	theme    Theme
	registry *systems.PhaseRegistry
	bounds   rl.Rectangle
}

// NewHUD creates a HUD that names phases through registry.
func NewHUD(registry *systems.PhaseRegistry) *HUD {
	return &HUD{theme: DefaultTheme(), registry: registry}
}

// Contains reports whether p is over the HUD panel, so clicks on it are not
// treated as world input.
func (h *HUD) Contains(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, h.bounds)
}

// Draw renders the HUD and returns the action of any button pressed.
func (h *HUD) Draw(d HUDData) Action {
	t := h.theme
	phases := h.registry.All()
	lines := int32(3 + len(phases))

	x, y := t.Padding, t.Padding
	width := int32(5*(t.ButtonWidth+4)) + t.Padding*2
	height := lines*t.LineHeight + int32(t.ButtonHeight) + t.Padding*3
	h.bounds = rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}

	rl.DrawRectangle(x, y, width, height, t.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, t.PanelBorder)

	tx, ty := x+t.Padding, y+t.Padding
	rl.DrawText(fmt.Sprintf("Tick %d  t=%.1fs  %dx  FPS %d", d.Tick, d.SimTime, d.Speed, d.FPS), tx, ty, t.FontSize, t.TextColor)
	ty += t.LineHeight
	rl.DrawText(fmt.Sprintf("Slugs %d  Mantises %d  Resources %d", d.Slugs, d.Mantises, d.Resources), tx, ty, t.FontSize, t.DimColor)
	ty += t.LineHeight
	status := fmt.Sprintf("Selected %d", d.Selected)
	color := t.DimColor
	if d.Paused {
		status += "  PAUSED"
		color = t.WarnColor
	}
	rl.DrawText(status, tx, ty, t.FontSize, color)
	ty += t.LineHeight

	for _, info := range phases {
		pct := d.Perf[info.ID]
		c := t.DimColor
		if pct > 50 {
			c = t.HotColor
		}
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", h.registry.GetName(info.ID), pct), tx, ty, t.FontSize, c)
		ty += t.LineHeight
	}

	pause := "Pause"
	if d.Paused {
		pause = "Run"
	}
	buttons := []button{
		{pause, ActionPause},
		{"Slower", ActionSlower},
		{"Faster", ActionFaster},
		{"All", ActionSelectAll},
		{"Clear", ActionClear},
	}

	action := ActionNone
	bx := float32(tx)
	by := float32(ty + t.Padding)
	for _, b := range buttons {
		if gui.Button(rl.Rectangle{X: bx, Y: by, Width: t.ButtonWidth, Height: t.ButtonHeight}, b.label) {
			action = b.action
		}
		bx += t.ButtonWidth + 4
	}
	return action
}
