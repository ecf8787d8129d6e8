package game

import (
	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/telemetry"
)

// flushTelemetry emits a stats window once enough ticks have passed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		g.logOutputError("telemetry", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.logOutputError("perf", err)
	}
}

// samplePopulation collects counts and amount distributions for a window.
func (g *Game) samplePopulation() telemetry.Population {
	var pop telemetry.Population
	for _, kind := range components.AllKinds() {
		pop.Counts[kind] = g.Count(kind)
	}
	pop.SlugAmounts = g.amounts(components.KindSlug)
	pop.MantisAmounts = g.amounts(components.KindMantis)
	pop.NestAmounts = g.amounts(components.KindNest)
	return pop
}

func (g *Game) amounts(kind components.Kind) []float64 {
	es := g.EntitiesOf(kind)
	out := make([]float64, len(es))
	for i, e := range es {
		out[i] = g.amountMap.Get(e).Value
	}
	return out
}
