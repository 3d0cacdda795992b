package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window   WindowConfig  `yaml:"window"`
	World    WorldConfig   `yaml:"world"`
	Terrain  TerrainConfig `yaml:"terrain"`
	Player   PlayerConfig  `yaml:"player"`
	Assets   AssetConfig   `yaml:"assets"`
	Controls ControlConfig `yaml:"controls"`
	Log      LogConfig     `yaml:"log"`
}

type WindowConfig struct {
	Title       string  `yaml:"title"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Vsync       bool    `yaml:"vsync"`
	FOV         float64 `yaml:"fov"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	ShowDebug   bool    `yaml:"show_debug"`
	MaxRestarts int     `yaml:"max_restarts"`
}

type WorldConfig struct {
	Seed           int64 `yaml:"seed"`
	ChunkSize      int   `yaml:"chunk_size"`
	RenderDistance int   `yaml:"render_distance"`
	ChunksPerTick  int   `yaml:"chunks_per_tick"`
	// Workers > 0 moves generation and meshing onto a worker pool.
	Workers int `yaml:"workers"`
}

type TerrainConfig struct {
	BiomeMapScale float64       `yaml:"biome_map_scale"`
	Biomes        []BiomeConfig `yaml:"biomes"`
}

type BiomeConfig struct {
	Name   string        `yaml:"name"`
	Layers []LayerConfig `yaml:"layers"`
	// Ground bands are checked in order; the first with depth < Below wins.
	Ground   []BandConfig `yaml:"ground"`
	Fallback string       `yaml:"fallback"`
}

type LayerConfig struct {
	Kind      string  `yaml:"kind"`
	Scale     float64 `yaml:"scale"`
	Magnitude float64 `yaml:"magnitude"`
	Value     float64 `yaml:"value"`

	// Fractal only.
	Octaves     int     `yaml:"octaves"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
}

type BandConfig struct {
	Below int    `yaml:"below"`
	Block string `yaml:"block"`
}

type PlayerConfig struct {
	Spawn            [3]float64 `yaml:"spawn"`
	SpawnOnSurface   bool       `yaml:"spawn_on_surface"`
	Speed            float64    `yaml:"speed"`
	JumpSpeed        float64    `yaml:"jump_speed"`
	Gravity          float64    `yaml:"gravity"`
	EyeHeight        float64    `yaml:"eye_height"`
	MouseSensitivity float64    `yaml:"mouse_sensitivity"`
}

type AssetConfig struct {
	Atlas        string `yaml:"atlas"`
	AtlasColumns int    `yaml:"atlas_columns"`
}

type ControlConfig struct {
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Jump    string `yaml:"jump"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Layer kinds understood by the terrain builder.
const (
	LayerLattice  = "lattice"
	LayerSimplex  = "simplex"
	LayerPerlin   = "perlin"
	LayerFractal  = "fractal"
	LayerConstant = "constant"
)

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:       "Purrcraft",
			Width:       1600,
			Height:      900,
			Vsync:       true,
			FOV:         70,
			Near:        0.1,
			Far:         350,
			ShowDebug:   true,
			MaxRestarts: 3,
		},
		World: WorldConfig{
			Seed:           12,
			ChunkSize:      24,
			RenderDistance: 2,
			ChunksPerTick:  3,
		},
		Terrain: TerrainConfig{
			BiomeMapScale: 96,
			Biomes:        DefaultBiomes(),
		},
		Player: PlayerConfig{
			Spawn:            [3]float64{0, 16, 0},
			Speed:            5,
			JumpSpeed:        3,
			Gravity:          1,
			EyeHeight:        1.8,
			MouseSensitivity: 0.01,
		},
		Assets: AssetConfig{
			Atlas:        "assets/chunk.png",
			AtlasColumns: 5,
		},
		Controls: ControlConfig{
			Forward: "W",
			Back:    "S",
			Left:    "A",
			Right:   "D",
			Jump:    "Space",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultBiomes is the built-in biome list: grassland, desert and hills.
func DefaultBiomes() []BiomeConfig {
	return []BiomeConfig{
		{
			Name:     "grassland",
			Layers:   []LayerConfig{{Kind: LayerLattice, Scale: 10, Magnitude: 8}},
			Ground:   []BandConfig{{Below: 1, Block: "grass"}, {Below: 4, Block: "dirt"}},
			Fallback: "stone",
		},
		{
			Name: "desert",
			Layers: []LayerConfig{
				{Kind: LayerLattice, Scale: 10, Magnitude: 4},
				{Kind: LayerPerlin, Scale: 32, Magnitude: 3},
			},
			Ground:   []BandConfig{{Below: 3, Block: "sand"}},
			Fallback: "stone",
		},
		{
			Name: "hills",
			Layers: []LayerConfig{
				{Kind: LayerLattice, Scale: 10, Magnitude: 6},
				{Kind: LayerFractal, Scale: 40, Magnitude: 12, Octaves: 3, Lacunarity: 2, Persistence: 0.5},
			},
			Ground:   []BandConfig{{Below: 1, Block: "grass"}, {Below: 4, Block: "dirt"}},
			Fallback: "stone",
		},
	}
}

// Load reads path as YAML, checks it against the embedded schema and decodes
// it over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size must be positive")
	}
	if c.Window.Near <= 0 || c.Window.Far <= c.Window.Near {
		return invalid("window clip planes must satisfy 0 < near < far")
	}
	if c.Window.MaxRestarts < 0 {
		return invalid("window.max_restarts cannot be negative")
	}
	if c.World.ChunkSize <= 0 {
		return invalid("world.chunk_size must be positive")
	}
	if c.World.RenderDistance <= 0 {
		return invalid("world.render_distance must be positive")
	}
	if c.World.ChunksPerTick <= 0 {
		return invalid("world.chunks_per_tick must be positive")
	}
	if c.World.Workers < 0 {
		return invalid("world.workers cannot be negative")
	}
	if c.Terrain.BiomeMapScale <= 0 {
		return invalid("terrain.biome_map_scale must be positive")
	}
	if len(c.Terrain.Biomes) == 0 {
		return invalid("terrain.biomes cannot be empty")
	}
	for i, b := range c.Terrain.Biomes {
		if b.Name == "" {
			return invalid("terrain.biomes[%d].name must be set", i)
		}
		for j, l := range b.Layers {
			switch l.Kind {
			case LayerLattice, LayerSimplex, LayerPerlin:
				if l.Scale <= 0 {
					return invalid("terrain.biomes[%d].layers[%d].scale must be positive", i, j)
				}
			case LayerFractal:
				if l.Scale <= 0 || l.Octaves < 1 {
					return invalid("terrain.biomes[%d].layers[%d]: fractal needs a positive scale and octaves", i, j)
				}
			case LayerConstant:
			default:
				return invalid("terrain.biomes[%d].layers[%d]: unknown kind %q", i, j, l.Kind)
			}
		}
	}
	if c.Player.Speed < 0 || c.Player.JumpSpeed < 0 || c.Player.Gravity < 0 {
		return invalid("player speeds and gravity cannot be negative")
	}
	if c.Player.EyeHeight <= 0 {
		return invalid("player.eye_height must be positive")
	}
	if c.Assets.AtlasColumns <= 0 {
		return invalid("assets.atlas_columns must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
