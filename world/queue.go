package world

import "github.com/Kat-Oli/Purrcraft/chunk"

// submit hands generation and meshing of key to the pool. The chunk stays
// out of the chunk map, and so invisible to BlockAt, until drain picks it up
// on the ticking goroutine.
func (w *World) submit(key Coord) {
	c := chunk.New(key.X, key.Y, key.Z, w.chunkSize)
	c.Attach()
	w.pending[key] = struct{}{}
	w.pool.Submit(func() {
		w.gen.GenerateChunkData(c)
		c.BuildGeometry(w.atlasColumns)
		w.done <- c
	})
}

// drain accepts every chunk the workers have finished without blocking.
func (w *World) drain() {
	for {
		select {
		case c := <-w.done:
			w.accept(c)
		default:
			return
		}
	}
}

func (w *World) accept(c *chunk.Chunk) {
	key := Coord{c.X, c.Y, c.Z}
	delete(w.pending, key)
	w.chunks[key] = c
	w.present(c)
}

// Pending is the number of chunks submitted to workers but not yet accepted.
func (w *World) Pending() int { return len(w.pending) }

// Flush blocks until every submitted chunk has been accepted.
func (w *World) Flush() {
	for len(w.pending) > 0 {
		w.accept(<-w.done)
	}
}
