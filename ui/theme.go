// Package ui draws the heads-up display and creature inspector over the
// simulation view.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds HUD colours and metrics.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	TextColor   rl.Color
	DimColor    rl.Color
	WarnColor   rl.Color
	HotColor    rl.Color
	OKColor     rl.Color

	Padding      int32
	LineHeight   int32
	FontSize     int32
	ButtonWidth  float32
	ButtonHeight float32
}

// DefaultTheme returns the HUD theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:      rl.Color{R: 20, G: 25, B: 30, A: 200},
		PanelBorder:  rl.Color{R: 60, G: 70, B: 80, A: 255},
		TextColor:    rl.RayWhite,
		DimColor:     rl.LightGray,
		WarnColor:    rl.Yellow,
		HotColor:     rl.Orange,
		OKColor:      rl.Color{R: 100, G: 180, B: 100, A: 255},
		Padding:      8,
		LineHeight:   16,
		FontSize:     12,
		ButtonWidth:  56,
		ButtonHeight: 22,
	}
}
