package telemetry

import "github.com/pthm-cable/slugs/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	contacts      int
	reactions     int
	deaths        [components.NumKinds]int
	orders        int
	ignoredOrders int
	transitions   int
	fallbacks     int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec/dt + 0.5)
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordContact records an overlap found by a collision pass.
// reactive is true when the pass delivers the contact to brains.
func (c *Collector) RecordContact(reactive bool) {
	c.contacts++
	if reactive {
		c.reactions++
	}
}

// RecordDeath records an entity destroyed by cleanup.
func (c *Collector) RecordDeath(kind components.Kind) {
	if kind < components.NumKinds {
		c.deaths[kind]++
	}
}

// RecordOrder records an order delivered to a brain.
func (c *Collector) RecordOrder(ignored bool) {
	c.orders++
	if ignored {
		c.ignoredOrders++
	}
}

// RecordTransition records a state change, and whether it was a fallback to
// Idle after a failed state entry.
func (c *Collector) RecordTransition(fallback bool) {
	c.transitions++
	if fallback {
		c.fallbacks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the world state sampled at the end of a window.
type Population struct {
	Counts        [components.NumKinds]int
	SlugAmounts   []float64
	MantisAmounts []float64
	NestAmounts   []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	slugMean, slugP10, slugP50, slugP90 := ComputeAmountStats(pop.SlugAmounts)
	mantisMean, mantisP10, mantisP50, mantisP90 := ComputeAmountStats(pop.MantisAmounts)
	nestMean, _, _, _ := ComputeAmountStats(pop.NestAmounts)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Nests:     pop.Counts[components.KindNest],
		Obstacles: pop.Counts[components.KindObstacle],
		Resources: pop.Counts[components.KindResource],
		Slugs:     pop.Counts[components.KindSlug],
		Mantises:  pop.Counts[components.KindMantis],

		Contacts:      c.contacts,
		Reactions:     c.reactions,
		SlugDeaths:    c.deaths[components.KindSlug],
		MantisDeaths:  c.deaths[components.KindMantis],
		Depleted:      c.deaths[components.KindResource],
		Orders:        c.orders,
		IgnoredOrders: c.ignoredOrders,
		Transitions:   c.transitions,
		Fallbacks:     c.fallbacks,

		SlugAmountMean: slugMean,
		SlugAmountP10:  slugP10,
		SlugAmountP50:  slugP50,
		SlugAmountP90:  slugP90,

		MantisAmountMean: mantisMean,
		MantisAmountP10:  mantisP10,
		MantisAmountP50:  mantisP50,
		MantisAmountP90:  mantisP90,

		NestAmountMean: nestMean,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.contacts = 0
	c.reactions = 0
	c.deaths = [components.NumKinds]int{}
	c.orders = 0
	c.ignoredOrders = 0
	c.transitions = 0
	c.fallbacks = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
