package chunk

import (
	"fmt"

	"github.com/Kat-Oli/Purrcraft/block"
	"github.com/go-gl/mathgl/mgl32"
)

const DefaultSize = 24

// Chunk is a cube of size³ blocks at grid position (X, Y, Z). Its world
// origin is the grid position times size.
type Chunk struct {
	X, Y, Z int

	size     int
	blocks   []block.Block
	geometry *Geometry
	attached bool
}

// New returns a chunk filled with Air.
func New(x, y, z, size int) *Chunk {
	if size <= 0 {
		size = DefaultSize
	}
	return &Chunk{
		X: x, Y: y, Z: z,
		size:   size,
		blocks: make([]block.Block, size*size*size),
	}
}

func (c *Chunk) Size() int { return c.size }

// Index is the row-major offset of a local coordinate: x + y*size + z*size².
func (c *Chunk) Index(x, y, z int) int {
	return x + y*c.size + z*c.size*c.size
}

func (c *Chunk) InBounds(x, y, z int) bool {
	return x >= 0 && x < c.size && y >= 0 && y < c.size && z >= 0 && z < c.size
}

// Block returns the block at a local coordinate, or Air outside the chunk.
func (c *Chunk) Block(x, y, z int) block.Block {
	if !c.InBounds(x, y, z) {
		return block.Air
	}
	return c.blocks[c.Index(x, y, z)]
}

// SetBlock writes a local coordinate and reports whether it was in range.
// Geometry is not rebuilt.
func (c *Chunk) SetBlock(x, y, z int, b block.Block) bool {
	if !c.InBounds(x, y, z) {
		return false
	}
	c.blocks[c.Index(x, y, z)] = b
	return true
}

// Blocks exposes the backing slice in Index order.
func (c *Chunk) Blocks() []block.Block { return c.blocks }

// Origin is the world-space position of local (0, 0, 0).
func (c *Chunk) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c.X * c.size),
		float32(c.Y * c.size),
		float32(c.Z * c.size),
	}
}

// Attach marks the chunk as registered with a world. The world sets it
// before building geometry; the renderer receives the chunk only afterwards
// and never touches the flag.
func (c *Chunk) Attach()        { c.attached = true }
func (c *Chunk) Attached() bool { return c.attached }

// Geometry returns the last built mesh, or nil.
func (c *Chunk) Geometry() *Geometry { return c.geometry }

func (c *Chunk) String() string {
	return fmt.Sprintf("chunk(%d,%d,%d)", c.X, c.Y, c.Z)
}
