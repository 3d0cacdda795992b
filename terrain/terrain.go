package terrain

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/Kat-Oli/Purrcraft/biome"
	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/Kat-Oli/Purrcraft/chunk"
	"github.com/Kat-Oli/Purrcraft/config"
)

type cell struct{ x, z int64 }

// Terrain fills chunks from a list of biomes laid out on a coarse grid. Each
// grid cell picks its biome once, at random, the first time it is visited.
type Terrain struct {
	biomes []*biome.Biome
	scale  float64

	mu    sync.Mutex
	rng   *rand.Rand
	cells map[cell]float64
}

func New(biomes []*biome.Biome, biomeMapScale float64, rng *rand.Rand) (*Terrain, error) {
	if len(biomes) == 0 {
		return nil, errors.New("terrain needs at least one biome")
	}
	if biomeMapScale <= 0 {
		return nil, fmt.Errorf("biome map scale must be positive, got %v", biomeMapScale)
	}
	return &Terrain{
		biomes: biomes,
		scale:  biomeMapScale,
		rng:    rng,
		cells:  make(map[cell]float64),
	}, nil
}

// FromConfig builds every configured biome from a source seeded with seed.
func FromConfig(cfg config.TerrainConfig, seed int64) (*Terrain, error) {
	rng := rand.New(rand.NewSource(seed))
	biomes := make([]*biome.Biome, 0, len(cfg.Biomes))
	for _, bc := range cfg.Biomes {
		b, err := biome.FromConfig(bc, rng)
		if err != nil {
			return nil, fmt.Errorf("terrain: %w", err)
		}
		biomes = append(biomes, b)
	}
	return New(biomes, cfg.BiomeMapScale, biome.Sub(rng))
}

func (t *Terrain) Biomes() []*biome.Biome { return t.biomes }

// BiomeAt returns the biome owning the world column (x, z).
func (t *Terrain) BiomeAt(x, z float64) *biome.Biome {
	return t.BiomeAtCell(int64(math.Floor(x/t.scale)), int64(math.Floor(z/t.scale)))
}

// BiomeAtCell returns the biome of a biome-map cell. Repeated calls for the
// same cell always agree.
func (t *Terrain) BiomeAtCell(cx, cz int64) *biome.Biome {
	t.mu.Lock()
	key := cell{cx, cz}
	r, ok := t.cells[key]
	if !ok {
		r = t.rng.Float64()
		t.cells[key] = r
	}
	t.mu.Unlock()

	i := int(math.Floor(r * float64(len(t.biomes))))
	if i >= len(t.biomes) {
		i = len(t.biomes) - 1
	}
	return t.biomes[i]
}

// HeightAt is the surface height of the world column (x, z).
func (t *Terrain) HeightAt(x, z float64) float64 {
	return t.BiomeAt(x, z).Height(x, z)
}

// SurfaceAt is the y of the top face of the highest solid block in the
// column, where something standing on the ground has its feet.
func (t *Terrain) SurfaceAt(x, z float64) float64 {
	return math.Ceil(t.HeightAt(x, z))
}

// Depth is the number of whole blocks between y and a surface at height h.
// The block directly under the surface has depth 0.
func Depth(h float64, y int) int {
	return int(math.Ceil(h-float64(y))) - 1
}

// GenerateChunkData overwrites every block of c. A block is solid when its
// y is below the column height; solid blocks take their material from the
// column's biome by depth.
func (t *Terrain) GenerateChunkData(c *chunk.Chunk) {
	size := c.Size()
	blocks := c.Blocks()
	for x := 0; x < size; x++ {
		wx := float64(x + c.X*size)
		for z := 0; z < size; z++ {
			wz := float64(z + c.Z*size)
			b := t.BiomeAt(wx, wz)
			h := b.Height(wx, wz) - float64(c.Y*size)
			for y := 0; y < size; y++ {
				i := c.Index(x, y, z)
				if float64(y) >= h {
					blocks[i] = block.Air
					continue
				}
				blocks[i] = b.GroundAt(Depth(h, y))
			}
		}
	}
}
