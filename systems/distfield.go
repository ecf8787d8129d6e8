package systems

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// BlockedCost is the cost of stepping into a blocked node. Blocked nodes stay
// traversable so every sample remains finite.
const BlockedCost = 1e6

// Blocker is a circular body that blocks the lattice nodes it covers.
type Blocker struct {
	Pos    r2.Vec
	Radius float64
}

// DistanceField maps lattice nodes to the shortest navigable cost from a
// target, and samples that cost continuously.
type DistanceField struct {
	grid    Grid
	target  r2.Vec
	dist    []float64
	reached []bool
}

// fieldNode is a node in the Dijkstra frontier.
type fieldNode struct {
	idx   int
	d     float64
	index int // Heap index
}

// fieldHeap implements heap.Interface for the Dijkstra frontier.
// Ties are broken by node index so expansion order is deterministic.
type fieldHeap []*fieldNode

func (h fieldHeap) Len() int { return len(h) }
func (h fieldHeap) Less(i, j int) bool {
	if h[i].d != h[j].d {
		return h[i].d < h[j].d
	}
	return h[i].idx < h[j].idx
}
func (h fieldHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *fieldHeap) Push(x any) {
	n := x.(*fieldNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *fieldHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// BuildDistanceField rasterizes blockers inflated by expansion onto the grid
// and runs Dijkstra outward from the node containing target.
// A target outside the grid seeds from the nearest lattice node.
func BuildDistanceField(grid Grid, target r2.Vec, blockers []Blocker, expansion float64) *DistanceField {
	n := grid.Cols * grid.Rows
	f := &DistanceField{
		grid:    grid,
		target:  target,
		dist:    make([]float64, n),
		reached: make([]bool, n),
	}

	blocked := rasterize(grid, blockers, expansion)

	si, sj := grid.Clamp(grid.Node(target))
	start := grid.Index(si, sj)
	f.dist[start] = 0
	f.reached[start] = true

	done := make([]bool, n)
	open := &fieldHeap{}
	heap.Push(open, &fieldNode{idx: start, d: 0})

	neighbors := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for open.Len() > 0 {
		cur := heap.Pop(open).(*fieldNode)
		if done[cur.idx] {
			continue
		}
		done[cur.idx] = true

		ci, cj := cur.idx%grid.Cols, cur.idx/grid.Cols
		for _, nb := range neighbors {
			ni, nj := ci+nb[0], cj+nb[1]
			if !grid.Contains(ni, nj) {
				continue
			}
			next := grid.Index(ni, nj)
			if done[next] {
				continue
			}
			step := 1.0
			if blocked[next] {
				step = BlockedCost
			}
			nd := cur.d + step
			if !f.reached[next] || nd < f.dist[next] {
				f.dist[next] = nd
				f.reached[next] = true
				heap.Push(open, &fieldNode{idx: next, d: nd})
			}
		}
	}

	return f
}

// rasterize marks every node lying strictly within radius+expansion of a
// blocker centre. Non-positive inflated radii block nothing.
func rasterize(grid Grid, blockers []Blocker, expansion float64) []bool {
	blocked := make([]bool, grid.Cols*grid.Rows)
	for _, b := range blockers {
		r := b.Radius + expansion
		if r <= 0 {
			continue
		}
		minI, minJ := grid.Node(r2.Vec{X: b.Pos.X - r, Y: b.Pos.Y - r})
		maxI, maxJ := grid.Node(r2.Vec{X: b.Pos.X + r, Y: b.Pos.Y + r})
		minI, minJ = grid.Clamp(minI, minJ)
		maxI, maxJ = grid.Clamp(maxI+1, maxJ+1)
		for j := minJ; j <= maxJ; j++ {
			for i := minI; i <= maxI; i++ {
				if r2.Norm(r2.Sub(grid.NodePos(i, j), b.Pos)) < r {
					blocked[grid.Index(i, j)] = true
				}
			}
		}
	}
	return blocked
}

// Target returns the point the field was built toward.
func (f *DistanceField) Target() r2.Vec {
	return f.target
}

// At returns the cost stored at node (i, j) and whether the node was reached.
func (f *DistanceField) At(i, j int) (float64, bool) {
	if !f.grid.Contains(i, j) {
		return 0, false
	}
	idx := f.grid.Index(i, j)
	return f.dist[idx], f.reached[idx]
}

// Sample bilinearly interpolates the field at p. Corners that are outside
// the grid or unreached fall back to twice the distance from p to the world
// centre.
func (f *DistanceField) Sample(p r2.Vec) float64 {
	cs := f.grid.CellSize
	fx := math.Floor(p.X / cs)
	fy := math.Floor(p.Y / cs)
	ax := p.X/cs - fx
	ay := p.Y/cs - fy
	i, j := int(fx), int(fy)

	fallback := 2 * r2.Norm(r2.Sub(p, f.grid.Center()))
	d00 := f.corner(i, j, fallback)
	d10 := f.corner(i+1, j, fallback)
	d01 := f.corner(i, j+1, fallback)
	d11 := f.corner(i+1, j+1, fallback)

	top := d00*(1-ax) + d10*ax
	bottom := d01*(1-ax) + d11*ax
	return top*(1-ay) + bottom*ay
}

func (f *DistanceField) corner(i, j int, fallback float64) float64 {
	if d, ok := f.At(i, j); ok {
		return d
	}
	return fallback
}

// Gradient estimates the field gradient at p by symmetric finite differences.
func (f *DistanceField) Gradient(p r2.Vec, eps float64) r2.Vec {
	dx := r2.Vec{X: eps}
	dy := r2.Vec{Y: eps}
	return r2.Vec{
		X: (f.Sample(r2.Add(p, dx)) - f.Sample(r2.Sub(p, dx))) / (2 * eps),
		Y: (f.Sample(r2.Add(p, dy)) - f.Sample(r2.Sub(p, dy))) / (2 * eps),
	}
}
