package terrain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Kat-Oli/Purrcraft/biome"
	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/Kat-Oli/Purrcraft/chunk"
	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/noise"
)

func flatTerrain(t *testing.T, height float64) *Terrain {
	t.Helper()
	flat := biome.New("flat",
		biome.Banded(block.Stone, biome.Band{Below: 1, Block: block.Grass}),
		noise.Constant(height),
	)
	tr, err := New([]*biome.Biome{flat}, 64, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

// defaultBiomes builds the first n configured default biomes.
func defaultBiomes(t *testing.T, rng *rand.Rand, n int) []*biome.Biome {
	t.Helper()
	var out []*biome.Biome
	for _, cfg := range config.DefaultBiomes()[:n] {
		b, err := biome.FromConfig(cfg, rng)
		if err != nil {
			t.Fatalf("FromConfig(%s): %v", cfg.Name, err)
		}
		out = append(out, b)
	}
	return out
}

func TestFlatChunk(t *testing.T) {
	tr := flatTerrain(t, 10)
	c := chunk.New(0, 0, 0, chunk.DefaultSize)
	tr.GenerateChunkData(c)
	for x := 0; x < c.Size(); x++ {
		for z := 0; z < c.Size(); z++ {
			for y := 0; y < c.Size(); y++ {
				got := c.Block(x, y, z)
				want := block.Air
				switch {
				case y == 9:
					want = block.Grass
				case y < 9:
					want = block.Stone
				}
				if got != want {
					t.Fatalf("block (%d,%d,%d) = %v, want %v", x, y, z, got, want)
				}
			}
		}
	}
}

func TestChunkAboveSurfaceIsAir(t *testing.T) {
	tr := flatTerrain(t, 10)
	c := chunk.New(3, 1, -2, chunk.DefaultSize)
	tr.GenerateChunkData(c)
	for i, b := range c.Blocks() {
		if b != block.Air {
			t.Fatalf("block %d = %v, want air", i, b)
		}
	}
}

func TestChunkBelowSurfaceUsesDepth(t *testing.T) {
	tr := flatTerrain(t, 10)
	c := chunk.New(0, -1, 0, chunk.DefaultSize)
	tr.GenerateChunkData(c)
	// Everything in y=-1 is at least 10 blocks deep.
	for i, b := range c.Blocks() {
		if b != block.Stone {
			t.Fatalf("block %d = %v, want stone", i, b)
		}
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		h    float64
		y    int
		want int
	}{
		{10, 9, 0},
		{10, 8, 1},
		{10, 0, 9},
		{10.5, 10, 0},
		{10.5, 9, 1},
		{0.25, -1, 1},
	}
	for _, tt := range tests {
		if got := Depth(tt.h, tt.y); got != tt.want {
			t.Fatalf("Depth(%v, %d) = %d, want %d", tt.h, tt.y, got, tt.want)
		}
	}
}

func TestBiomeAtIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	biomes := defaultBiomes(t, rng, 3)
	tr, err := New(biomes, 16, rng)
	if err != nil {
		t.Fatal(err)
	}
	first := map[[2]int64]*biome.Biome{}
	for cx := int64(-5); cx < 5; cx++ {
		for cz := int64(-5); cz < 5; cz++ {
			first[[2]int64{cx, cz}] = tr.BiomeAtCell(cx, cz)
		}
	}
	for k, b := range first {
		if got := tr.BiomeAtCell(k[0], k[1]); got != b {
			t.Fatalf("cell %v changed from %s to %s", k, b, got)
		}
	}
	// Every column inside a cell shares the cell's biome.
	if tr.BiomeAt(0, 0) != tr.BiomeAt(15.9, 15.9) {
		t.Fatalf("columns within one cell disagree")
	}
	if tr.BiomeAt(-0.5, 0) != tr.BiomeAtCell(-1, 0) {
		t.Fatalf("negative column did not floor into cell -1")
	}
}

func TestBiomeMapUsesEveryBiome(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	biomes := defaultBiomes(t, rng, 2)
	tr, err := New(biomes, 1, rng)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[*biome.Biome]bool{}
	for cx := int64(0); cx < 200; cx++ {
		seen[tr.BiomeAtCell(cx, 0)] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected both biomes to appear, saw %d", len(seen))
	}
}

func TestNewRejects(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := New(nil, 10, rng); err == nil {
		t.Fatalf("expected error for no biomes")
	}
	if _, err := New(defaultBiomes(t, rng, 1), 0, rng); err == nil {
		t.Fatalf("expected error for zero scale")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Terrain
	tr, err := FromConfig(cfg, 12)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if len(tr.Biomes()) != len(cfg.Biomes) {
		t.Fatalf("biomes = %d, want %d", len(tr.Biomes()), len(cfg.Biomes))
	}
	c := chunk.New(0, 0, 0, 8)
	tr.GenerateChunkData(c)
	// Default layers are non-negative, so the bottom layer of chunk 0 is solid.
	for x := 0; x < 8; x++ {
		for z := 0; z < 8; z++ {
			h := tr.HeightAt(float64(x), float64(z))
			if h > 0 && c.Block(x, 0, z) == block.Air {
				t.Fatalf("column (%d,%d) height %v but y=0 is air", x, z, h)
			}
		}
	}
}

func TestSurfaceAtIsTopOfHighestSolid(t *testing.T) {
	const size = 24
	tests := []struct {
		height float64
		want   float64
	}{
		{10, 10},
		{10.3, 11},
		{0.5, 1},
		{-2, -2},
	}
	for _, tt := range tests {
		tr := flatTerrain(t, tt.height)
		got := tr.SurfaceAt(3.5, 7.5)
		if got != tt.want {
			t.Fatalf("SurfaceAt with height %v = %v, want %v", tt.height, got, tt.want)
		}

		// Generate the chunk holding the highest solid block and check both
		// sides of the surface.
		top := int(got) - 1
		cy := int(math.Floor(float64(top) / size))
		c := chunk.New(0, cy, 0, size)
		tr.GenerateChunkData(c)
		below := top - cy*size
		if c.Block(3, below, 7) == block.Air {
			t.Fatalf("height %v: block under the surface is air", tt.height)
		}
		if above := below + 1; above < size && c.Block(3, above, 7) != block.Air {
			t.Fatalf("height %v: block at the surface is %v, want air", tt.height, c.Block(3, above, 7))
		}
	}
}
