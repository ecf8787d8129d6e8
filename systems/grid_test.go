package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		a, b   r2.Vec
		ra, rb float64
		want   bool
	}{
		{"separate", r2.Vec{X: 0}, r2.Vec{X: 10}, 2, 3, false},
		{"touching", r2.Vec{X: 0}, r2.Vec{X: 5}, 2, 3, false},
		{"overlapping", r2.Vec{X: 0}, r2.Vec{X: 4.9}, 2, 3, true},
		{"diagonal", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 3, Y: 3}, 2, 3, true},
		{"coincident", r2.Vec{X: 7, Y: 7}, r2.Vec{X: 7, Y: 7}, 1, 1, true},
		{"zero radii coincident", r2.Vec{X: 7, Y: 7}, r2.Vec{X: 7, Y: 7}, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b, tc.ra, tc.rb); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGridNodes(t *testing.T) {
	g := NewGrid(800, 600, 20)
	if g.Cols != 40 || g.Rows != 30 {
		t.Fatalf("grid = %dx%d, want 40x30", g.Cols, g.Rows)
	}

	i, j := g.Node(r2.Vec{X: 45, Y: 19.9})
	if i != 2 || j != 0 {
		t.Errorf("Node(45, 19.9) = (%d, %d), want (2, 0)", i, j)
	}

	i, j = g.Node(r2.Vec{X: -0.5, Y: -21})
	if i != -1 || j != -2 {
		t.Errorf("Node(-0.5, -21) = (%d, %d), want (-1, -2)", i, j)
	}
	if g.Contains(i, j) {
		t.Error("negative node should not be contained")
	}

	ci, cj := g.Clamp(55, -3)
	if ci != 39 || cj != 0 {
		t.Errorf("Clamp(55, -3) = (%d, %d), want (39, 0)", ci, cj)
	}

	if p := g.NodePos(3, 4); p.X != 60 || p.Y != 80 {
		t.Errorf("NodePos(3, 4) = %v, want (60, 80)", p)
	}
	if c := g.Center(); c.X != 400 || c.Y != 300 {
		t.Errorf("Center = %v, want (400, 300)", c)
	}
}
