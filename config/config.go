// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/slugs/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Navigation NavigationConfig `yaml:"navigation"`
	Kinds      KindsConfig      `yaml:"kinds"`
	Population PopulationConfig `yaml:"population"`
	Slug       SlugConfig       `yaml:"slug"`
	Mantis     MantisConfig     `yaml:"mantis"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PhysicsConfig holds tick timing.
type PhysicsConfig struct {
	DT      float64 `yaml:"dt"`       // Simulation seconds per tick
	FrameDT float64 `yaml:"frame_dt"` // Presentation seconds per frame
}

// NavigationConfig holds distance field parameters.
type NavigationConfig struct {
	CellSize      float64 `yaml:"cell_size"`      // Lattice spacing in world units
	GradientProbe float64 `yaml:"gradient_probe"` // Finite difference offset for field following
}

// KindConfig holds the template for one entity kind.
type KindConfig struct {
	Radius float64 `yaml:"radius"`
	Amount float64 `yaml:"amount"`
	Speed  float64 `yaml:"speed"`
	Color  string  `yaml:"color"`
}

// KindsConfig holds per-kind templates.
type KindsConfig struct {
	Nest     KindConfig `yaml:"nest"`
	Obstacle KindConfig `yaml:"obstacle"`
	Resource KindConfig `yaml:"resource"`
	Slug     KindConfig `yaml:"slug"`
	Mantis   KindConfig `yaml:"mantis"`
}

// ByKind returns the template for the given kind.
func (k *KindsConfig) ByKind(kind components.Kind) KindConfig {
	switch kind {
	case components.KindNest:
		return k.Nest
	case components.KindObstacle:
		return k.Obstacle
	case components.KindResource:
		return k.Resource
	case components.KindSlug:
		return k.Slug
	case components.KindMantis:
		return k.Mantis
	default:
		return KindConfig{}
	}
}

// PopulationConfig holds world generation parameters.
type PopulationConfig struct {
	Seed                 int64   `yaml:"seed"` // 0 = time-based
	Nests                int     `yaml:"nests"`
	Obstacles            int     `yaml:"obstacles"`
	Resources            int     `yaml:"resources"`
	Slugs                int     `yaml:"slugs"`
	Mantises             int     `yaml:"mantises"`
	ObstacleMinRadius    float64 `yaml:"obstacle_min_radius"`
	ObstacleRadiusSpread float64 `yaml:"obstacle_radius_spread"` // radius = min + spread*r^3
	SettlePasses         int     `yaml:"settle_passes"`          // all-vs-all ejection passes after spawning
}

// Count returns the configured number of entities for a kind.
func (p *PopulationConfig) Count(kind components.Kind) int {
	switch kind {
	case components.KindNest:
		return p.Nests
	case components.KindObstacle:
		return p.Obstacles
	case components.KindResource:
		return p.Resources
	case components.KindSlug:
		return p.Slugs
	case components.KindMantis:
		return p.Mantises
	default:
		return 0
	}
}

// SlugConfig holds slug behaviour tunables.
type SlugConfig struct {
	FleeBelow   float64 `yaml:"flee_below"`   // Amount under which contact with a mantis triggers Flee
	Bite        float64 `yaml:"bite"`         // Amount removed from a mantis per attacking contact
	BuildRate   float64 `yaml:"build_rate"`   // Amount added to a nest per building contact
	HealRate    float64 `yaml:"heal_rate"`    // Amount restored per fleeing contact with a nest
	HarvestTake float64 `yaml:"harvest_take"` // Amount removed from a resource on pickup
	Recheck     float64 `yaml:"recheck"`      // Seconds between target re-acquisition
}

// MantisConfig holds mantis behaviour tunables.
type MantisConfig struct {
	FleeBelow    float64 `yaml:"flee_below"`
	Bite         float64 `yaml:"bite"`          // Amount removed from remembered prey per contact
	WanderAlarm  float64 `yaml:"wander_alarm"`  // Upper bound on the random idle alarm
	CuriousAlarm float64 `yaml:"curious_alarm"` // Seconds between curious/chase decisions
	GiveUpChance float64 `yaml:"give_up_chance"`
	FleeDistance float64 `yaml:"flee_distance"` // How far a fleeing mantis runs from its attacker
	FleeAlarm    float64 `yaml:"flee_alarm"`    // Seconds spent fleeing before idling
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// StreamConfig holds spectator stream parameters.
type StreamConfig struct {
	Path        string `yaml:"path"`
	ClientQueue int    `yaml:"client_queue"` // Buffered snapshots per client before frames are dropped
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW        float64 // Effective world width
	WorldH        float64 // Effective world height
	StepsPerFrame int     // Simulation ticks per presentation frame
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Parse(nil)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	// Unmarshal into same struct - only overwrites fields present in file
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Parse builds a config from the embedded defaults overlaid with the given
// YAML document (nil = defaults only).
func Parse(overlay []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(overlay) > 0 {
		if err := yaml.Unmarshal(overlay, cfg); err != nil {
			return nil, fmt.Errorf("parsing config overlay: %w", err)
		}
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	steps := 1
	if c.Physics.DT > 0 && c.Physics.FrameDT > c.Physics.DT {
		steps = int(c.Physics.FrameDT/c.Physics.DT + 0.5)
	}
	c.Derived.StepsPerFrame = steps

	if c.Navigation.CellSize <= 0 {
		c.Navigation.CellSize = 20
	}
	if c.Navigation.GradientProbe <= 0 {
		c.Navigation.GradientProbe = 0.1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
