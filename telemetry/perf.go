package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/slugs/systems"
)

// perfSample holds timing data for a single tick. Slots follow the
// collector's phase order.
type perfSample struct {
	tick   time.Duration
	phases []time.Duration
	ran    []bool
}

// PerfCollector tracks tick timings over a rolling window of samples.
// Samples are preallocated and reused, so timing a tick does not allocate.
type PerfCollector struct {
	phases []string
	slot   map[string]int

	samples     []perfSample
	writeIndex  int
	sampleCount int

	tickStart  time.Time
	phaseStart time.Time
	current    int // running phase slot, -1 = none

	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// phases lists the phase IDs in pipeline order; nil uses the simulation's
// registered phases. StartPhase calls for other IDs are not timed.
func NewPerfCollector(windowSize int, phases []string) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	if phases == nil {
		phases = systems.NewPhaseRegistry().IDs()
	}
	p := &PerfCollector{
		phases:  phases,
		slot:    make(map[string]int, len(phases)),
		samples: make([]perfSample, windowSize),
		current: -1,
	}
	for i, id := range phases {
		p.slot[id] = i
	}
	for i := range p.samples {
		p.samples[i] = perfSample{
			phases: make([]time.Duration, len(phases)),
			ran:    make([]bool, len(phases)),
		}
	}
	return p
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	s := &p.samples[p.writeIndex]
	clear(s.phases)
	clear(s.ran)
	p.current = -1
	p.tickStart = time.Now()
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.current = -1
	if i, ok := p.slot[phase]; ok {
		p.current = i
		p.samples[p.writeIndex].ran[i] = true
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.current >= 0 {
		p.samples[p.writeIndex].phases[p.current] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current = -1

	p.samples[p.writeIndex].tick = now.Sub(p.tickStart)
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64

	phases []string
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
		phases:        p.phases,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return out
	}

	var total time.Duration
	sums := make([]time.Duration, len(p.phases))
	ran := make([]bool, len(p.phases))
	for i := 0; i < p.sampleCount; i++ {
		s := &p.samples[i]
		total += s.tick
		if i == 0 || s.tick < out.MinTickDuration {
			out.MinTickDuration = s.tick
		}
		out.MaxTickDuration = max(out.MaxTickDuration, s.tick)
		for j, d := range s.phases {
			sums[j] += d
			ran[j] = ran[j] || s.ran[j]
		}
	}

	n := time.Duration(p.sampleCount)
	out.AvgTickDuration = total / n
	for j, id := range p.phases {
		if !ran[j] {
			continue
		}
		avg := sums[j] / n
		out.PhaseAvg[id] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[id] = float64(avg) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range s.phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range s.phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	MotionPct    float64 `csv:"motion_pct"`
	CollisionPct float64 `csv:"collision_pct"`
	DispatchPct  float64 `csv:"dispatch_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		MotionPct:    s.PhasePct[systems.PhaseMotion],
		CollisionPct: s.PhasePct[systems.PhaseCollision],
		DispatchPct:  s.PhasePct[systems.PhaseDispatch],
		CleanupPct:   s.PhasePct[systems.PhaseCleanup],
	}
}
