package world

import (
	"math/rand"
	"testing"

	"github.com/Kat-Oli/Purrcraft/biome"
	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/Kat-Oli/Purrcraft/chunk"
	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/input"
	"github.com/Kat-Oli/Purrcraft/noise"
	"github.com/Kat-Oli/Purrcraft/player"
	"github.com/Kat-Oli/Purrcraft/terrain"
	"github.com/go-gl/mathgl/mgl64"
)

type recordingScene struct {
	added []*chunk.Chunk
}

func (s *recordingScene) Add(c *chunk.Chunk) { s.added = append(s.added, c) }

// stoneBelow fills every block under world y = 0.
type stoneBelow struct{}

func (stoneBelow) GenerateChunkData(c *chunk.Chunk) {
	if c.Y >= 0 {
		return
	}
	for i := range c.Blocks() {
		c.Blocks()[i] = block.Stone
	}
}

func testConfig() config.WorldConfig {
	return config.WorldConfig{ChunkSize: 24, RenderDistance: 2, ChunksPerTick: 3}
}

func newTestWorld(t *testing.T, cfg config.WorldConfig, gen Generator) (*World, *recordingScene) {
	t.Helper()
	scene := &recordingScene{}
	w := New(cfg, 5, gen, scene, nil)
	t.Cleanup(w.Close)
	return w, scene
}

func TestTickBudgetAndOrder(t *testing.T) {
	w, scene := newTestWorld(t, testConfig(), stoneBelow{})
	origin := mgl64.Vec3{0, 0, 0}

	if n := w.Tick(origin); n != 3 {
		t.Fatalf("first tick created %d chunks, want 3", n)
	}
	want := []Coord{{-2, -2, -2}, {-2, -2, -1}, {-2, -2, 0}}
	for i, c := range scene.added {
		if got := (Coord{c.X, c.Y, c.Z}); got != want[i] {
			t.Fatalf("chunk %d = %v, want %v", i, got, want[i])
		}
		if !c.Attached() || c.Geometry() == nil {
			t.Fatalf("chunk %v not attached and meshed before reaching the scene", c)
		}
	}

	ticks := 1
	for w.Tick(origin) > 0 {
		ticks++
		if len(scene.added) > 64 {
			t.Fatalf("created more chunks than the cube holds")
		}
	}
	if w.Len() != 64 || len(scene.added) != 64 {
		t.Fatalf("loaded %d chunks, want 64", w.Len())
	}
	if ticks != 22 {
		t.Fatalf("took %d ticks, want 22", ticks)
	}
	for i, c := range w.Chunks() {
		if c != scene.added[i] {
			t.Fatalf("Chunks()[%d] = %v, scene got %v", i, c, scene.added[i])
		}
	}

	seen := map[Coord]bool{}
	for _, c := range scene.added {
		key := Coord{c.X, c.Y, c.Z}
		if seen[key] {
			t.Fatalf("duplicate chunk %v", key)
		}
		seen[key] = true
		if key.X < -2 || key.X > 1 || key.Y < -2 || key.Y > 1 || key.Z < -2 || key.Z > 1 {
			t.Fatalf("chunk %v outside the scan cube", key)
		}
	}
}

func TestTickFollowsObserver(t *testing.T) {
	cfg := testConfig()
	cfg.RenderDistance = 1
	cfg.ChunksPerTick = 100
	w, _ := newTestWorld(t, cfg, stoneBelow{})

	if n := w.Tick(mgl64.Vec3{-0.5, 30, 50}); n != 8 {
		t.Fatalf("created %d, want 8", n)
	}
	// Observer chunk is (-1, 1, 2); the cube spans [-1, 1) around it.
	for _, key := range []Coord{{-2, 0, 1}, {-1, 1, 2}, {-2, 1, 2}} {
		if w.ChunkAt(key.X, key.Y, key.Z) == nil {
			t.Fatalf("missing chunk %v", key)
		}
	}
	if w.ChunkAt(0, 1, 2) != nil {
		t.Fatalf("chunk beyond +renderDistance should not be loaded")
	}
}

func TestBlockAtUsesFloorMod(t *testing.T) {
	w, _ := newTestWorld(t, testConfig(), stoneBelow{})
	c := chunk.New(-1, 0, 0, 24)
	w.AddChunk(c)
	c.SetBlock(23, 5, 5, block.Sand)

	if got := w.BlockAt(-1, 5, 5); got != block.Sand {
		t.Fatalf("BlockAt(-1,5,5) = %v, want sand", got)
	}
	for _, tc := range [][3]int{{-24, 0, 0}, {-1, 23, 23}, {-13, 7, 19}} {
		lx, ly, lz := FloorMod(tc[0], 24), FloorMod(tc[1], 24), FloorMod(tc[2], 24)
		if got, want := w.BlockAt(tc[0], tc[1], tc[2]), c.Blocks()[c.Index(lx, ly, lz)]; got != want {
			t.Fatalf("BlockAt%v = %v, want %v", tc, got, want)
		}
	}
}

func TestBlockAtMissingChunkIsAir(t *testing.T) {
	w, _ := newTestWorld(t, testConfig(), stoneBelow{})
	if got := w.BlockAt(1000, -1000, 5); got != block.Air {
		t.Fatalf("BlockAt in unloaded space = %v, want air", got)
	}
	if w.ChunkAt(3, 3, 3) != nil {
		t.Fatalf("ChunkAt for a missing chunk should be nil")
	}
}

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b, div, mod int
	}{
		{0, 24, 0, 0},
		{23, 24, 0, 23},
		{24, 24, 1, 0},
		{-1, 24, -1, 23},
		{-24, 24, -1, 0},
		{-25, 24, -2, 23},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Fatalf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := FloorMod(tt.a, tt.b); got != tt.mod {
			t.Fatalf("FloorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
}

func flatGenerator(t *testing.T) *terrain.Terrain {
	t.Helper()
	flat := biome.New("flat",
		biome.Banded(block.Stone, biome.Band{Below: 1, Block: block.Grass}),
		noise.Constant(10),
	)
	tr, err := terrain.New([]*biome.Biome{flat}, 64, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestFlatWorldEndToEnd(t *testing.T) {
	w, _ := newTestWorld(t, testConfig(), flatGenerator(t))
	w.AddChunk(chunk.New(0, 0, 0, 24))

	c := w.ChunkAt(0, 0, 0)
	if c.Block(3, 9, 4) != block.Grass || c.Block(3, 8, 4) != block.Stone || c.Block(3, 10, 4) != block.Air {
		t.Fatalf("flat chunk layers wrong")
	}
	// One grass surface plus the boundary faces of the solid slab.
	g := c.Geometry()
	wantFaces := 24*24*2 + 4*24*10
	if g.Faces != wantFaces {
		t.Fatalf("faces = %d, want %d", g.Faces, wantFaces)
	}

	p := player.New(config.Default().Player)
	p.PlaceFeet(5.5, 10, 5.5)
	w.SetPlayer(p)
	y := p.Position.Y()
	w.Step(0.016, input.Snapshot{}, nil)
	if !p.CanJump || p.Position.Y()-y > 1e-9 || y-p.Position.Y() > 1e-9 {
		t.Fatalf("player did not stay on the ground: y %v -> %v", y, p.Position.Y())
	}
	if w.Len() != 4 {
		t.Fatalf("Step should also stream chunks, have %d", w.Len())
	}
}

func TestWorkerPoolKeepsBudget(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4
	w, scene := newTestWorld(t, cfg, flatGenerator(t))
	origin := mgl64.Vec3{0, 0, 0}

	if n := w.Tick(origin); n != 3 {
		t.Fatalf("first tick submitted %d, want 3", n)
	}
	if w.Pending()+w.Len() != 3 {
		t.Fatalf("pending %d + loaded %d != 3", w.Pending(), w.Len())
	}
	if n := w.Tick(origin); n != 3 {
		t.Fatalf("second tick submitted %d, want 3", n)
	}
	w.Flush()
	if w.Pending() != 0 || w.Len() != 6 || len(scene.added) != 6 {
		t.Fatalf("after flush: pending %d, loaded %d", w.Pending(), w.Len())
	}

	for w.Tick(origin) > 0 {
		w.Flush()
	}
	w.Flush()
	if w.Len() != 64 {
		t.Fatalf("loaded %d chunks, want 64", w.Len())
	}
	seen := map[Coord]bool{}
	for _, c := range scene.added {
		key := Coord{c.X, c.Y, c.Z}
		if seen[key] {
			t.Fatalf("duplicate chunk %v", key)
		}
		seen[key] = true
		if c.Geometry() == nil {
			t.Fatalf("chunk %v reached the scene without geometry", key)
		}
	}
}
