// Package telemetry collects windowed simulation statistics and per-phase
// timings, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Nests     int `csv:"nests"`
	Obstacles int `csv:"obstacles"`
	Resources int `csv:"resources"`
	Slugs     int `csv:"slugs"`
	Mantises  int `csv:"mantises"`

	// Events during window
	Contacts      int `csv:"contacts"`
	Reactions     int `csv:"reactions"`
	SlugDeaths    int `csv:"slug_deaths"`
	MantisDeaths  int `csv:"mantis_deaths"`
	Depleted      int `csv:"resources_depleted"`
	Orders        int `csv:"orders"`
	IgnoredOrders int `csv:"ignored_orders"`
	Transitions   int `csv:"transitions"`
	Fallbacks     int `csv:"fallbacks"`

	// Amount distribution (sampled at window end)
	SlugAmountMean float64 `csv:"slug_amount_mean"`
	SlugAmountP10  float64 `csv:"slug_amount_p10"`
	SlugAmountP50  float64 `csv:"slug_amount_p50"`
	SlugAmountP90  float64 `csv:"slug_amount_p90"`

	MantisAmountMean float64 `csv:"mantis_amount_mean"`
	MantisAmountP10  float64 `csv:"mantis_amount_p10"`
	MantisAmountP50  float64 `csv:"mantis_amount_p50"`
	MantisAmountP90  float64 `csv:"mantis_amount_p90"`

	NestAmountMean float64 `csv:"nest_amount_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAmountStats calculates mean and percentiles from amount values.
func ComputeAmountStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	// Sort for percentiles
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("slugs", s.Slugs),
		slog.Int("mantises", s.Mantises),
		slog.Int("resources", s.Resources),
		slog.Int("contacts", s.Contacts),
		slog.Int("reactions", s.Reactions),
		slog.Int("slug_deaths", s.SlugDeaths),
		slog.Int("mantis_deaths", s.MantisDeaths),
		slog.Int("orders", s.Orders),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Float64("slug_amount_mean", s.SlugAmountMean),
		slog.Float64("mantis_amount_mean", s.MantisAmountMean),
		slog.Float64("nest_amount_mean", s.NestAmountMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"slugs", s.Slugs,
		"mantises", s.Mantises,
		"resources", s.Resources,
		"contacts", s.Contacts,
		"reactions", s.Reactions,
		"slug_deaths", s.SlugDeaths,
		"mantis_deaths", s.MantisDeaths,
		"resources_depleted", s.Depleted,
		"orders", s.Orders,
		"ignored_orders", s.IgnoredOrders,
		"transitions", s.Transitions,
		"fallbacks", s.Fallbacks,
		"slug_amount_mean", s.SlugAmountMean,
		"slug_amount_p50", s.SlugAmountP50,
		"mantis_amount_mean", s.MantisAmountMean,
		"mantis_amount_p50", s.MantisAmountP50,
		"nest_amount_mean", s.NestAmountMean,
	)
}
