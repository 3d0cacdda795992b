package world

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/Kat-Oli/Purrcraft/chunk"
	"github.com/Kat-Oli/Purrcraft/config"
	"github.com/Kat-Oli/Purrcraft/input"
	"github.com/Kat-Oli/Purrcraft/player"
	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Coord is a chunk grid position.
type Coord struct{ X, Y, Z int }

func (c Coord) String() string { return fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z) }

// Scene receives every chunk once its geometry is built.
type Scene interface {
	Add(c *chunk.Chunk)
}

// Generator fills a chunk's block data.
type Generator interface {
	GenerateChunkData(c *chunk.Chunk)
}

// World owns every loaded chunk and the player. Chunks are created around an
// observer a few at a time and never unloaded.
type World struct {
	gen   Generator
	scene Scene
	log   *slog.Logger

	chunkSize      int
	renderDistance int
	chunksPerTick  int
	atlasColumns   int

	chunks map[Coord]*chunk.Chunk
	order  []*chunk.Chunk

	// Only used when generation runs on workers.
	pool    pond.Pool
	pending map[Coord]struct{}
	done    chan *chunk.Chunk

	player *player.Player
}

func New(cfg config.WorldConfig, atlasColumns int, gen Generator, scene Scene, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		gen:            gen,
		scene:          scene,
		log:            log,
		chunkSize:      cfg.ChunkSize,
		renderDistance: cfg.RenderDistance,
		chunksPerTick:  cfg.ChunksPerTick,
		atlasColumns:   atlasColumns,
		chunks:         make(map[Coord]*chunk.Chunk),
	}
	if w.chunkSize <= 0 {
		w.chunkSize = chunk.DefaultSize
	}
	if cfg.Workers > 0 {
		w.pool = pond.NewPool(cfg.Workers)
		w.pending = make(map[Coord]struct{})
		w.done = make(chan *chunk.Chunk, cfg.Workers*cfg.ChunksPerTick+cfg.ChunksPerTick)
	}
	return w
}

// Len is the number of chunks handed to the scene so far.
func (w *World) Len() int { return len(w.order) }

// Chunks returns loaded chunks in the order they were added.
func (w *World) Chunks() []*chunk.Chunk { return w.order }

// AddChunk attaches c, fills it, meshes it and hands it to the scene. The
// caller must not add a coordinate twice.
func (w *World) AddChunk(c *chunk.Chunk) {
	w.register(c)
	w.gen.GenerateChunkData(c)
	c.BuildGeometry(w.atlasColumns)
	w.present(c)
}

func (w *World) register(c *chunk.Chunk) {
	key := Coord{c.X, c.Y, c.Z}
	if _, exists := w.chunks[key]; exists {
		w.log.Warn("chunk added twice", "chunk", key)
	}
	w.chunks[key] = c
	c.Attach()
}

func (w *World) present(c *chunk.Chunk) {
	w.order = append(w.order, c)
	if w.scene != nil {
		w.scene.Add(c)
	}
	w.log.Debug("chunk loaded", "chunk", Coord{c.X, c.Y, c.Z}, "faces", c.Geometry().Faces)
}

// ObserverChunk is the chunk coordinate containing a world position.
func (w *World) ObserverChunk(pos mgl64.Vec3) Coord {
	return Coord{
		FloorDiv(int(math.Floor(pos.X())), w.chunkSize),
		FloorDiv(int(math.Floor(pos.Y())), w.chunkSize),
		FloorDiv(int(math.Floor(pos.Z())), w.chunkSize),
	}
}

// Tick creates up to the per-tick budget of missing chunks in the cube of
// edge 2*renderDistance around the observer and returns how many it started.
// The cube is scanned x, then y, then z, from -renderDistance up to but not
// including +renderDistance.
func (w *World) Tick(observer mgl64.Vec3) int {
	if w.pool != nil {
		w.drain()
	}

	center := w.ObserverChunk(observer)
	rd := w.renderDistance
	created := 0
	for dx := -rd; dx < rd; dx++ {
		for dy := -rd; dy < rd; dy++ {
			for dz := -rd; dz < rd; dz++ {
				if created >= w.chunksPerTick {
					return created
				}
				key := Coord{center.X + dx, center.Y + dy, center.Z + dz}
				if w.known(key) {
					continue
				}
				if w.pool != nil {
					w.submit(key)
				} else {
					w.AddChunk(chunk.New(key.X, key.Y, key.Z, w.chunkSize))
				}
				created++
			}
		}
	}
	return created
}

func (w *World) known(key Coord) bool {
	if _, ok := w.chunks[key]; ok {
		return true
	}
	_, ok := w.pending[key]
	return ok
}

// ChunkAt returns the chunk at a grid coordinate, or nil.
func (w *World) ChunkAt(x, y, z int) *chunk.Chunk {
	return w.chunks[Coord{x, y, z}]
}

// BlockAt returns the block at a world coordinate. Unloaded space is Air.
func (w *World) BlockAt(x, y, z int) block.Block {
	s := w.chunkSize
	c := w.ChunkAt(FloorDiv(x, s), FloorDiv(y, s), FloorDiv(z, s))
	if c == nil {
		return block.Air
	}
	return c.Blocks()[c.Index(FloorMod(x, s), FloorMod(y, s), FloorMod(z, s))]
}

// SetPlayer makes p the world's player.
func (w *World) SetPlayer(p *player.Player) { w.player = p }

// Step runs one frame: stream chunks around the player, then move the player.
func (w *World) Step(delta float64, in input.Snapshot, cam player.Camera) {
	if w.player == nil {
		return
	}
	w.Tick(w.player.Position)
	w.player.Tick(w, in, delta, cam)
}

// Close stops the worker pool, if any, and waits for running jobs. Chunks
// finished after the last Tick are discarded.
func (w *World) Close() {
	if w.pool == nil {
		return
	}
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-w.done:
			case <-stop:
				return
			}
		}
	}()
	w.pool.StopAndWait()
	close(stop)
	w.log.Debug("world worker pool stopped", "discarded", len(w.pending))
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the remainder matching FloorDiv; it has the sign of b.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
