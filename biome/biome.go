package biome

import (
	"fmt"
	"math/rand"

	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/noise"
)

// GroundFunc maps a depth below the surface to a block. Depth 0 is the
// topmost solid block of a column.
type GroundFunc func(depth int) block.Block

// Biome is a named height function plus the material stack beneath it.
type Biome struct {
	Name   string
	Layers []noise.Layer
	Ground GroundFunc
}

func New(name string, ground GroundFunc, layers ...noise.Layer) *Biome {
	return &Biome{Name: name, Layers: layers, Ground: ground}
}

// Height sums every layer at the column (x, z).
func (b *Biome) Height(x, z float64) float64 {
	return noise.Sum(b.Layers, x, z)
}

func (b *Biome) GroundAt(depth int) block.Block {
	if b.Ground == nil {
		return DefaultGround(depth)
	}
	return b.Ground(depth)
}

func (b *Biome) String() string { return b.Name }

// Band assigns Block to every depth strictly below Below.
type Band struct {
	Below int
	Block block.Block
}

// Banded returns a ground function that walks bands in order and falls back
// once none match.
func Banded(fallback block.Block, bands ...Band) GroundFunc {
	return func(depth int) block.Block {
		for _, band := range bands {
			if depth < band.Below {
				return band.Block
			}
		}
		return fallback
	}
}

var (
	// DefaultGround is one grass block over three dirt over stone.
	DefaultGround = Banded(block.Stone, Band{1, block.Grass}, Band{4, block.Dirt})
	// DesertGround is three sand over stone.
	DesertGround = Banded(block.Stone, Band{3, block.Sand})
)

// Sub derives an independent source from rng, so that layers built with the
// same arguments still draw different lattices.
func Sub(rng *rand.Rand) *rand.Rand {
	return rand.New(rand.NewSource(rng.Int63()))
}

// FromConfig builds a biome from its YAML description. Each noise layer gets
// its own source drawn from rng.
func FromConfig(cfg config.BiomeConfig, rng *rand.Rand) (*Biome, error) {
	layers := make([]noise.Layer, 0, len(cfg.Layers))
	for i, l := range cfg.Layers {
		switch l.Kind {
		case config.LayerLattice:
			layers = append(layers, noise.NewLattice(l.Scale, l.Magnitude, Sub(rng)))
		case config.LayerSimplex:
			layers = append(layers, noise.NewSimplex(rng.Int63(), l.Scale, l.Magnitude))
		case config.LayerPerlin:
			layers = append(layers, noise.NewPerlin(rng.Int63(), l.Scale, l.Magnitude))
		case config.LayerFractal:
			layers = append(layers, noise.NewFractal(rng.Int63(), l.Scale, l.Magnitude, l.Octaves, l.Lacunarity, l.Persistence))
		case config.LayerConstant:
			layers = append(layers, noise.Constant(l.Value))
		default:
			return nil, fmt.Errorf("biome %s: layer %d: unknown kind %q", cfg.Name, i, l.Kind)
		}
	}

	ground := DefaultGround
	if len(cfg.Ground) > 0 || cfg.Fallback != "" {
		fallback := block.Stone
		if cfg.Fallback != "" {
			b, err := block.Parse(cfg.Fallback)
			if err != nil {
				return nil, fmt.Errorf("biome %s: fallback: %w", cfg.Name, err)
			}
			fallback = b
		}
		bands := make([]Band, 0, len(cfg.Ground))
		for i, g := range cfg.Ground {
			b, err := block.Parse(g.Block)
			if err != nil {
				return nil, fmt.Errorf("biome %s: ground %d: %w", cfg.Name, i, err)
			}
			bands = append(bands, Band{Below: g.Below, Block: b})
		}
		ground = Banded(fallback, bands...)
	}

	return New(cfg.Name, ground, layers...), nil
}
