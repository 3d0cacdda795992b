package chunk

import (
	"log/slog"

	"github.com/Kat-Oli/Purrcraft/block"
)

// Geometry is a non-indexed triangle list: 3 position floats and 2 UV floats
// per vertex, 6 vertices per face.
type Geometry struct {
	Positions []float32
	UVs       []float32
	Faces     int
}

func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions) / 3
}

type corner struct{ x, y, z float32 }

// uvCorner picks the left (0) or right (1) edge of an atlas cell and the
// bottom (0) or top (1) of the texture.
type uvCorner struct{ u, v float32 }

type faceDirection struct {
	dx, dy, dz int
	face       block.Face
	corners    [6]corner
	uvs        *[6]uvCorner
}

var (
	capUVs  = [6]uvCorner{{0, 0}, {1, 0}, {1, 1}, {1, 1}, {0, 1}, {0, 0}}
	sideUVs = [6]uvCorner{{1, 0}, {1, 1}, {0, 1}, {0, 1}, {0, 0}, {1, 0}}
)

// Checked in this order for every block: +Y, -Y, +X, -X, +Z, -Z.
var directions = [6]faceDirection{
	{0, 1, 0, block.Top, [6]corner{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {1, 1, 1}, {0, 1, 1}, {0, 1, 0}}, &capUVs},
	{0, -1, 0, block.Bottom, [6]corner{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {1, 0, 1}, {0, 0, 1}, {0, 0, 0}}, &capUVs},
	{1, 0, 0, block.Side, [6]corner{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 1, 1}, {1, 0, 1}, {1, 0, 0}}, &sideUVs},
	{-1, 0, 0, block.Side, [6]corner{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 1, 1}, {0, 0, 1}, {0, 0, 0}}, &sideUVs},
	{0, 0, 1, block.Side, [6]corner{{0, 0, 1}, {0, 1, 1}, {1, 1, 1}, {1, 1, 1}, {1, 0, 1}, {0, 0, 1}}, &sideUVs},
	{0, 0, -1, block.Side, [6]corner{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}}, &sideUVs},
}

// NeedsFace reports whether the face of (x, y, z) toward (x+dx, y+dy, z+dz)
// is drawn. Neighbours outside the chunk count as open, so boundary faces are
// always drawn for visible blocks.
func (c *Chunk) NeedsFace(x, y, z, dx, dy, dz int) bool {
	if c.Block(x, y, z).IsInvisible() {
		return false
	}
	nx, ny, nz := x+dx, y+dy, z+dz
	if !c.InBounds(nx, ny, nz) {
		return true
	}
	return c.blocks[c.Index(nx, ny, nz)].IsInvisible()
}

// BuildGeometry rebuilds the mesh from the current block data, stores it on
// the chunk and returns it. atlasColumns is the number of equal-width cells
// in the texture atlas.
func (c *Chunk) BuildGeometry(atlasColumns int) *Geometry {
	if !c.attached {
		slog.Warn("building geometry for a chunk that is not attached", "chunk", c.String())
	}
	if atlasColumns <= 0 {
		atlasColumns = 1
	}
	atlas := float32(atlasColumns)

	g := &Geometry{}
	for x := 0; x < c.size; x++ {
		for y := 0; y < c.size; y++ {
			for z := 0; z < c.size; z++ {
				b := c.blocks[c.Index(x, y, z)]
				if b.IsInvisible() {
					continue
				}
				for i := range directions {
					d := &directions[i]
					if !c.NeedsFace(x, y, z, d.dx, d.dy, d.dz) {
						continue
					}
					g.appendFace(d, float32(x), float32(y), float32(z), float32(b.Texture(d.face)), atlas)
				}
			}
		}
	}
	c.geometry = g
	return g
}

func (g *Geometry) appendFace(d *faceDirection, x, y, z, tex, atlas float32) {
	for i, p := range d.corners {
		g.Positions = append(g.Positions, x+p.x, y+p.y, z+p.z)
		uv := d.uvs[i]
		g.UVs = append(g.UVs, (tex+uv.u)/atlas, uv.v)
	}
	g.Faces++
}
