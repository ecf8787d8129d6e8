package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
)

// newEntity creates a bare entity for identity purposes.
func newEntity(w *ecs.World) ecs.Entity {
	return ecs.NewMap1[components.Body](w).NewEntity(&components.Body{})
}

// makeColliders creates one entity per {x, y, radius} circle.
func makeColliders(w *ecs.World, firstID uint32, circles ...[3]float64) ([]Collider, []*components.Position) {
	cs := make([]Collider, len(circles))
	ps := make([]*components.Position, len(circles))
	for i, c := range circles {
		ps[i] = &components.Position{X: c[0], Y: c[1]}
		cs[i] = Collider{Entity: newEntity(w), ID: firstID + uint32(i), Pos: ps[i], Radius: c[2]}
	}
	return cs, ps
}

func TestEjectRemovesOverlap(t *testing.T) {
	tests := []struct {
		name      string
		a, b      [3]float64
		randomize bool
	}{
		{"horizontal", [3]float64{0, 0, 10}, [3]float64{15, 0, 10}, false},
		{"diagonal", [3]float64{0, 0, 5}, [3]float64{3, 4, 5}, false},
		{"randomized", [3]float64{10, 10, 20}, [3]float64{25, 20, 5}, true},
		{"coincident", [3]float64{50, 50, 3}, [3]float64{50, 50, 4}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			firsts, pa := makeColliders(w, 0, tc.a)
			seconds, pb := makeColliders(w, 1, tc.b)
			before := r2.Norm(r2.Sub(pa[0].Vec(), pb[0].Vec()))

			r := NewResolver(rand.New(rand.NewSource(1)))
			n := r.Eject(firsts, seconds, EjectOptions{Randomize: tc.randomize})
			if n != 1 {
				t.Fatalf("contacts = %d, want 1", n)
			}

			after := r2.Norm(r2.Sub(pa[0].Vec(), pb[0].Vec()))
			sum := tc.a[2] + tc.b[2]
			if after < sum-1e-9 {
				t.Errorf("distance after = %f, want >= %f", after, sum)
			}
			if after > sum+1e-9 {
				t.Errorf("over-corrected: distance after = %f, want %f (before %f)", after, sum, before)
			}
		})
	}
}

func TestEjectMovesFirstWhenNotRandomized(t *testing.T) {
	w := ecs.NewWorld()
	firsts, pa := makeColliders(w, 0, [3]float64{10, 0, 10})
	seconds, pb := makeColliders(w, 1, [3]float64{0, 0, 10})

	NewResolver(rand.New(rand.NewSource(1))).Eject(firsts, seconds, EjectOptions{})

	if pb[0].X != 0 || pb[0].Y != 0 {
		t.Errorf("second body moved to %v", *pb[0])
	}
	if math.Abs(pa[0].X-20) > 1e-9 || pa[0].Y != 0 {
		t.Errorf("first body = %v, want (20, 0)", *pa[0])
	}
}

func TestEjectContactCallback(t *testing.T) {
	w := ecs.NewWorld()
	firsts, _ := makeColliders(w, 0,
		[3]float64{0, 0, 5},
		[3]float64{200, 0, 5},
	)
	seconds, _ := makeColliders(w, 2,
		[3]float64{6, 0, 5},
		[3]float64{400, 0, 5},
	)

	var pairs [][2]uint32
	NewResolver(rand.New(rand.NewSource(1))).Eject(firsts, seconds, EjectOptions{
		OnContact: func(a, b Collider) {
			// Callback runs before separation.
			if r2.Norm(r2.Sub(a.Pos.Vec(), b.Pos.Vec())) >= a.Radius+b.Radius {
				t.Error("callback saw already separated pair")
			}
			pairs = append(pairs, [2]uint32{a.ID, b.ID})
		},
	})

	if len(pairs) != 1 || pairs[0] != [2]uint32{0, 2} {
		t.Errorf("pairs = %v, want [[0 2]]", pairs)
	}
}

func TestEjectSelfPass(t *testing.T) {
	w := ecs.NewWorld()
	cs, ps := makeColliders(w, 0,
		[3]float64{100, 100, 10},
		[3]float64{105, 100, 10},
		[3]float64{300, 300, 10},
	)

	r := NewResolver(rand.New(rand.NewSource(7)))
	r.Eject(cs, cs, EjectOptions{Randomize: true})

	if d := r2.Norm(r2.Sub(ps[0].Vec(), ps[1].Vec())); d < 20-1e-9 {
		t.Errorf("pair still overlapping: distance %f", d)
	}
	if ps[2].X != 300 || ps[2].Y != 300 {
		t.Errorf("isolated body moved to %v", *ps[2])
	}
}

// TestEjectSparsePairs verifies every isolated overlapping pair is found
// exactly once and separated.
func TestEjectSparsePairs(t *testing.T) {
	w := ecs.NewWorld()

	var as, bs [][3]float64
	for i := 0; i < 20; i++ {
		x := float64(i%5) * 100
		y := float64(i/5) * 100
		as = append(as, [3]float64{x, y, 10})
		bs = append(bs, [3]float64{x + 12, y + 3, 8})
	}
	firsts, pa := makeColliders(w, 0, as...)
	seconds, pb := makeColliders(w, 100, bs...)

	found := 0
	n := NewResolver(rand.New(rand.NewSource(3))).Eject(firsts, seconds, EjectOptions{
		Randomize: true,
		OnContact: func(a, b Collider) {
			if b.ID != a.ID+100 {
				t.Errorf("unexpected pair %d-%d", a.ID, b.ID)
			}
			found++
		},
	})

	if n != 20 || found != 20 {
		t.Errorf("contacts = %d (callbacks %d), want 20", n, found)
	}
	for i := range pa {
		if d := r2.Norm(r2.Sub(pa[i].Vec(), pb[i].Vec())); d < 18-1e-9 {
			t.Errorf("pair %d still overlapping: distance %f", i, d)
		}
	}
}
