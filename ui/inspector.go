package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Inspector panel dimensions
const (
	PanelWidth   = 220
	HeaderHeight = 26
)

// InspectorData describes one creature for the inspector panel.
type InspectorData struct {
	ID       uint32
	Kind     string
	State    string
	X, Y     float64
	Radius   float64
	Amount   float64
	Carrying bool
	AlarmIn  float64 // seconds until the alarm fires
	Armed    bool
}

// Inspector draws details of a single selected creature.
type Inspector struct {
	theme  Theme
	bounds rl.Rectangle
}

// NewInspector creates an inspector panel.
func NewInspector() *Inspector {
	return &Inspector{theme: DefaultTheme()}
}

// Contains reports whether p is over the last drawn panel.
func (ins *Inspector) Contains(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, ins.bounds)
}

// Hide clears the panel bounds when nothing is inspected.
func (ins *Inspector) Hide() { ins.bounds = rl.Rectangle{} }

// Draw renders the panel at the top-right corner and reports whether the
// close button was pressed.
func (ins *Inspector) Draw(d InspectorData) bool {
	t := ins.theme
	x := int32(rl.GetScreenWidth()) - PanelWidth - t.Padding
	y := t.Padding
	height := HeaderHeight + 6*t.LineHeight + t.Padding*3
	ins.bounds = rl.Rectangle{X: float32(x), Y: float32(y), Width: PanelWidth, Height: float32(height)}

	rl.DrawRectangle(x, y, PanelWidth, height, t.PanelBg)
	rl.DrawRectangleLines(x, y, PanelWidth, height, t.PanelBorder)
	rl.DrawText(fmt.Sprintf("%s #%d", d.Kind, d.ID), x+t.Padding, y+7, t.FontSize+2, t.TextColor)
	closed := gui.Button(rl.Rectangle{X: float32(x + PanelWidth - 24), Y: float32(y + 4), Width: 18, Height: 18}, "x")

	tx, ty := x+t.Padding, y+HeaderHeight+t.Padding
	rl.DrawLine(tx, ty-4, x+PanelWidth-t.Padding, ty-4, t.PanelBorder)

	state := d.State
	if d.Carrying {
		state += " (carrying)"
	}
	ty += ins.label(tx, ty, "State", state)
	ty += ins.label(tx, ty, "Position", fmt.Sprintf("(%.0f, %.0f)", d.X, d.Y))
	ty += ins.label(tx, ty, "Radius", fmt.Sprintf("%.1f", d.Radius))
	ty += ins.bar(tx, ty, "Amount", d.Amount)
	alarm := "off"
	if d.Armed {
		alarm = fmt.Sprintf("%.2fs", d.AlarmIn)
	}
	ins.label(tx, ty, "Alarm", alarm)

	return closed
}

// label renders "name: value" and returns the line height used.
func (ins *Inspector) label(x, y int32, name, value string) int32 {
	t := ins.theme
	rl.DrawText(name, x, y, t.FontSize, t.DimColor)
	rl.DrawText(value, x+70, y, t.FontSize, t.TextColor)
	return t.LineHeight
}

// bar renders a 0..1 value as a horizontal bar.
func (ins *Inspector) bar(x, y int32, name string, value float64) int32 {
	t := ins.theme
	ratio := min(max(value, 0), 1)
	const width, height = 100, 10

	rl.DrawText(name, x, y, t.FontSize, t.DimColor)
	bx := x + 70
	rl.DrawRectangle(bx, y+1, width, height, t.PanelBorder)
	fill := t.OKColor
	if ratio < 0.5 {
		fill = t.WarnColor
	}
	rl.DrawRectangle(bx, y+1, int32(width*ratio), height, fill)
	rl.DrawText(fmt.Sprintf("%.2f", value), bx+width+6, y, t.FontSize, t.DimColor)
	return t.LineHeight
}
