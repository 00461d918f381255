// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Store     StoreConfig     `yaml:"store"`
	Quadtree  QuadtreeConfig  `yaml:"quadtree"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ArenaConfig holds the wall extents. Zero means the screen size; in windowed
// mode the arena follows the window on resize.
type ArenaConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds integration and collision parameters.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`                   // seconds per tick; 0 = measured frame time (windowed only)
	CollisionPolicy    string  `yaml:"collision_policy"`     // "once" or "symmetric"
	PreserveMassDefect bool    `yaml:"preserve_mass_defect"` // (m1+m1) in the second velocity update
	SkipSeparating     bool    `yaml:"skip_separating"`      // leave overlapping pairs that move apart
}

// StoreConfig holds particle store parameters.
type StoreConfig struct {
	InitialCapacity int    `yaml:"initial_capacity"`
	Layout          string `yaml:"layout"` // "minimal" or "extended"
}

// QuadtreeConfig holds broad-phase parameters.
type QuadtreeConfig struct {
	NodeCapacity int `yaml:"node_capacity"`
	MaxDepth     int `yaml:"max_depth"` // 0 disables the limit
}

// SpawnConfig holds particle spawning parameters.
type SpawnConfig struct {
	Initial  int     `yaml:"initial"`  // particles scattered at startup
	PerTick  int     `yaml:"per_tick"` // particles per tick while the mouse is held
	Radius   float64 `yaml:"radius"`
	MaxSpeed float64 `yaml:"max_speed"` // velocity components uniform in [-max, max)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of simulated time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ArenaW32  float32 // effective arena width
	ArenaH32  float32 // effective arena height
	Radius32  float32 // Spawn.Radius as float32
	MaxSpeed  float32 // Spawn.MaxSpeed as float32
	StatsTick int     // ticks per stats window at DT (or 60 Hz when DT is 0)
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
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Store.InitialCapacity < 1:
		return fmt.Errorf("store.initial_capacity must be positive, got %d", c.Store.InitialCapacity)
	case c.Quadtree.NodeCapacity < 1:
		return fmt.Errorf("quadtree.node_capacity must be positive, got %d", c.Quadtree.NodeCapacity)
	case c.Spawn.Radius <= 0:
		return fmt.Errorf("spawn.radius must be positive, got %g", c.Spawn.Radius)
	case c.Physics.DT < 0:
		return fmt.Errorf("physics.dt must not be negative, got %g", c.Physics.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Radius32 = float32(c.Spawn.Radius)
	c.Derived.MaxSpeed = float32(c.Spawn.MaxSpeed)

	// Arena defaults to screen size if not specified
	w := c.Arena.Width
	if w == 0 {
		w = c.Screen.Width
	}
	h := c.Arena.Height
	if h == 0 {
		h = c.Screen.Height
	}
	c.Derived.ArenaW32 = float32(w)
	c.Derived.ArenaH32 = float32(h)

	dt := c.Physics.DT
	if dt == 0 {
		dt = 1.0 / 60.0
	}
	c.Derived.StatsTick = int(math.Round(c.Telemetry.StatsWindow / dt))
	if c.Derived.StatsTick < 1 {
		c.Derived.StatsTick = 1
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
