// Package game owns the simulated world: entity registration, the tick
// pipeline, navigation queries, selection and presentation.
package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/slugs/behavior"
	"github.com/pthm-cable/slugs/camera"
	"github.com/pthm-cable/slugs/components"
	"github.com/pthm-cable/slugs/config"
	"github.com/pthm-cable/slugs/systems"
	"github.com/pthm-cable/slugs/telemetry"
	"github.com/pthm-cable/slugs/ui"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64          // 0 = population.seed, then time-based
	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string
	Headless       bool
	StepsPerUpdate int // 0 = derived steps per frame
	Populate       bool

	// StatsCallback is invoked with each flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	entityMapper *ecs.Map7[
		components.Identity,
		components.Position,
		components.Body,
		components.Amount,
		components.Appearance,
		components.Motion,
		components.Alarm,
	]
	idMap     *ecs.Map1[components.Identity]
	posMap    *ecs.Map1[components.Position]
	bodyMap   *ecs.Map1[components.Body]
	amountMap *ecs.Map1[components.Amount]
	appMap    *ecs.Map1[components.Appearance]
	motionMap *ecs.Map1[components.Motion]
	alarmMap  *ecs.Map1[components.Alarm]

	// Registration-ordered indices
	entities []ecs.Entity
	byKind   [components.NumKinds][]ecs.Entity

	// Brains by identity ID
	brains map[uint32]*behavior.Machine
	tables [components.NumKinds]*behavior.Table

	grid     systems.Grid
	resolver *systems.Resolver
	contacts []contact

	selected map[ecs.Entity]bool
	selA     *r2.Vec // box selection anchor

	// Clock
	tick   int32
	clock  float64
	nextID uint32

	// Runtime controls
	paused         bool
	stepsPerUpdate int
	headless       bool

	// Telemetry
	registry      *systems.PhaseRegistry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	hud       *ui.HUD
	inspector *ui.Inspector
	cam       *camera.Camera
}

// NewGameWithOptions creates a game. With opts.Populate the world is filled
// from the population config.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Population.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps <= 0 {
		steps = cfg.Derived.StepsPerFrame
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(seed))
	registry := systems.NewPhaseRegistry()

	g := &Game{
		cfg:   cfg,
		world: world,
		rng:   rng,
		seed:  seed,
		entityMapper: ecs.NewMap7[
			components.Identity,
			components.Position,
			components.Body,
			components.Amount,
			components.Appearance,
			components.Motion,
			components.Alarm,
		](world),
		idMap:     ecs.NewMap1[components.Identity](world),
		posMap:    ecs.NewMap1[components.Position](world),
		bodyMap:   ecs.NewMap1[components.Body](world),
		amountMap: ecs.NewMap1[components.Amount](world),
		appMap:    ecs.NewMap1[components.Appearance](world),
		motionMap: ecs.NewMap1[components.Motion](world),
		alarmMap:  ecs.NewMap1[components.Alarm](world),

		brains:   make(map[uint32]*behavior.Machine),
		selected: make(map[ecs.Entity]bool),
		grid:     systems.NewGrid(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Navigation.CellSize),
		resolver: systems.NewResolver(rng),

		stepsPerUpdate: steps,
		headless:       opts.Headless,

		registry:      registry,
		collector:     telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow, registry.IDs()),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	g.tables[components.KindSlug] = behavior.NewSlugTable(cfg.Slug)
	g.tables[components.KindMantis] = behavior.NewMantisTable(cfg.Mantis)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	g.cam = camera.New(
		float32(cfg.Screen.Width), float32(cfg.Screen.Height),
		float32(cfg.Derived.WorldW), float32(cfg.Derived.WorldH),
	)
	if !opts.Headless {
		g.hud = ui.NewHUD(registry)
		g.inspector = ui.NewInspector()
	}

	if opts.Populate {
		g.Populate()
	}
	return g
}

// Update runs one presentation frame of simulation in graphics mode.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Physics.DT)
	}
}

// UpdateHeadless runs stepsPerUpdate ticks without input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.cfg.Physics.DT)
	}
}

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int32 { return g.tick }

// Clock returns the simulation time in seconds.
func (g *Game) Clock() float64 { return g.clock }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Config returns the game's configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(p bool) { g.paused = p }

// StepsPerUpdate returns the number of ticks run per update.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the number of ticks per update, clamped to [1, 20].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), 20)
}
