package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Overlaps reports whether two circles strictly interpenetrate.
// Touching circles do not overlap.
func Overlaps(a, b r2.Vec, ra, rb float64) bool {
	return r2.Norm(r2.Sub(a, b)) < ra+rb
}

// Grid is a uniform lattice of nodes over the world extents.
// Node (i, j) sits at world position (i*CellSize, j*CellSize).
type Grid struct {
	CellSize float64
	Cols     int
	Rows     int
	Width    float64 // world width
	Height   float64 // world height
}

// NewGrid creates a lattice covering a width x height world.
func NewGrid(width, height, cellSize float64) Grid {
	if cellSize <= 0 {
		cellSize = 20
	}
	cols := int(width / cellSize)
	rows := int(height / cellSize)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return Grid{
		CellSize: cellSize,
		Cols:     cols,
		Rows:     rows,
		Width:    width,
		Height:   height,
	}
}

// Node returns the lattice coordinates of the node at or below-left of p.
// The result may lie outside the grid.
func (g Grid) Node(p r2.Vec) (int, int) {
	return int(math.Floor(p.X / g.CellSize)), int(math.Floor(p.Y / g.CellSize))
}

// NodePos returns the world position of node (i, j).
func (g Grid) NodePos(i, j int) r2.Vec {
	return r2.Vec{X: float64(i) * g.CellSize, Y: float64(j) * g.CellSize}
}

// Contains reports whether (i, j) is a lattice node.
func (g Grid) Contains(i, j int) bool {
	return i >= 0 && i < g.Cols && j >= 0 && j < g.Rows
}

// Index returns the flat index of node (i, j). Only valid when Contains(i, j).
func (g Grid) Index(i, j int) int {
	return j*g.Cols + i
}

// Clamp moves (i, j) onto the nearest lattice node.
func (g Grid) Clamp(i, j int) (int, int) {
	return clampInt(i, 0, g.Cols-1), clampInt(j, 0, g.Rows-1)
}

// Center returns the logical centre of the world.
func (g Grid) Center() r2.Vec {
	return r2.Vec{X: g.Width / 2, Y: g.Height / 2}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
