package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/slugs/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeAmountStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p10, p50, p90 := ComputeAmountStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
	if values[0] != 1.0 {
		t.Error("input slice was reordered")
	}
}

func TestComputeAmountStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeAmountStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.01)
	if c.WindowDurationTicks() != 100 {
		t.Fatalf("window ticks = %d, want 100", c.WindowDurationTicks())
	}
	if c.ShouldFlush(99) {
		t.Error("flushed early")
	}
	if !c.ShouldFlush(100) {
		t.Error("did not flush at window end")
	}

	c.RecordContact(true)
	c.RecordContact(false)
	c.RecordDeath(components.KindSlug)
	c.RecordDeath(components.KindResource)
	c.RecordOrder(false)
	c.RecordOrder(true)
	c.RecordTransition(true)

	var pop Population
	pop.Counts[components.KindSlug] = 4
	pop.Counts[components.KindMantis] = 2
	pop.SlugAmounts = []float64{0.5, 1}
	s := c.Flush(100, pop)

	if s.Contacts != 2 || s.Reactions != 1 {
		t.Errorf("contacts = %d/%d, want 2/1", s.Contacts, s.Reactions)
	}
	if s.SlugDeaths != 1 || s.Depleted != 1 || s.MantisDeaths != 0 {
		t.Errorf("deaths = %d/%d/%d", s.SlugDeaths, s.MantisDeaths, s.Depleted)
	}
	if s.Orders != 2 || s.IgnoredOrders != 1 || s.Fallbacks != 1 {
		t.Errorf("orders = %d ignored = %d fallbacks = %d", s.Orders, s.IgnoredOrders, s.Fallbacks)
	}
	if s.Slugs != 4 || s.Mantises != 2 {
		t.Errorf("counts = %d/%d", s.Slugs, s.Mantises)
	}
	if math.Abs(s.SlugAmountMean-0.75) > 1e-9 || math.Abs(s.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("mean = %v sim time = %v", s.SlugAmountMean, s.SimTimeSec)
	}

	next := c.Flush(200, Population{})
	if next.WindowStartTick != 100 || next.Contacts != 0 || next.Orders != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
