package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/systems"
)

// Populate fills the world from the population config using the game's
// seeded RNG, then jiggles everything apart for a few passes so the initial
// layout has no overlaps. Non-positive counts create nothing.
func (g *Game) Populate() {
	pop := g.cfg.Population

	for _, kind := range components.AllKinds() {
		for i := 0; i < pop.Count(kind); i++ {
			s := Spawn{Kind: kind, Position: g.randomPosition()}
			switch kind {
			case components.KindObstacle:
				r := g.rng.Float64() * g.rng.Float64() * g.rng.Float64()
				s.Radius = pop.ObstacleMinRadius + pop.ObstacleRadiusSpread*r
			case components.KindResource:
				s.Amount = g.rng.Float64()
				s.NoAmount = true
			}
			e := g.Register(s)
			if kind.Mobile() {
				g.SetAlarm(e, 0)
			}
		}
	}

	g.settle(pop.SettlePasses)

	slog.Info("world populated",
		"seed", g.seed,
		"nests", g.Count(components.KindNest),
		"obstacles", g.Count(components.KindObstacle),
		"resources", g.Count(components.KindResource),
		"slugs", g.Count(components.KindSlug),
		"mantises", g.Count(components.KindMantis),
	)
}

// settle runs randomized all-against-all ejection passes without reactions.
func (g *Game) settle(passes int) {
	var all []systems.Collider
	for _, kind := range components.AllKinds() {
		all = g.colliders(kind, all)
	}
	for i := 0; i < passes; i++ {
		g.resolver.Eject(all, all, systems.EjectOptions{Randomize: true})
	}
}

func (g *Game) randomPosition() r2.Vec {
	return r2.Vec{X: g.rng.Float64() * g.cfg.Derived.WorldW, Y: g.rng.Float64() * g.cfg.Derived.WorldH}
}
