package main

import (
	"github.com/Kat-Oli/Purrcraft/chunk"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

type chunkMesh struct {
	vao       uint32
	vbos      [2]uint32
	trisCount int32
	model     mgl32.Mat4
}

// chunkScene keeps one VAO per chunk handed over by the world.
type chunkScene struct {
	program uint32
	atlas   uint32
	meshes  []chunkMesh
	faces   int
}

func newChunkScene(atlas uint32) (*chunkScene, error) {
	prog, err := newProgram("block.vert", "block.frag")
	if err != nil {
		return nil, err
	}
	gl.UseProgram(prog)
	gl.Uniform1i(uniform(prog, "atlas"), 0)
	return &chunkScene{program: prog, atlas: atlas}, nil
}

// Add uploads the chunk's geometry: positions at location 0, UVs at 1.
func (s *chunkScene) Add(c *chunk.Chunk) {
	g := c.Geometry()
	if g == nil || g.Faces == 0 {
		return
	}
	var m chunkMesh
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(2, &m.vbos[0])
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[0])
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(g.Positions), gl.Ptr(g.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[1])
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(g.UVs), gl.Ptr(g.UVs), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 2*4, nil)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	m.trisCount = int32(g.VertexCount())
	m.model = mgl32.Translate3D(c.Origin().Elem())
	s.meshes = append(s.meshes, m)
	s.faces += g.Faces
}

func (s *chunkScene) render(projection, view mgl32.Mat4) {
	// Chunk faces are not wound consistently, so draw both sides.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)

	gl.UseProgram(s.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.atlas)
	gl.UniformMatrix4fv(uniform(s.program, "projection"), 1, false, &projection[0])
	gl.UniformMatrix4fv(uniform(s.program, "view"), 1, false, &view[0])

	modelLoc := uniform(s.program, "model")
	for i := range s.meshes {
		m := &s.meshes[i]
		gl.UniformMatrix4fv(modelLoc, 1, false, &m.model[0])
		gl.BindVertexArray(m.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, m.trisCount)
	}
	gl.BindVertexArray(0)
}

func (s *chunkScene) delete() {
	for _, m := range s.meshes {
		gl.DeleteBuffers(2, &m.vbos[0])
		gl.DeleteVertexArrays(1, &m.vao)
	}
	s.meshes = nil
	gl.DeleteProgram(s.program)
}

// camera holds the eye pose set by the player each tick.
type camera struct {
	position    mgl64.Vec3
	orientation mgl64.Quat
}

func (c *camera) SetPose(position mgl64.Vec3, orientation mgl64.Quat) {
	c.position = position
	c.orientation = orientation
}

// view is the inverse of the camera transform.
func (c *camera) view() mgl32.Mat4 {
	p := c.position
	v := c.orientation.Conjugate().Mat4().Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
	var out mgl32.Mat4
	for i := range v {
		out[i] = float32(v[i])
	}
	return out
}

// display tracks the framebuffer size and projection.
type display struct {
	width, height int
	fov           float32
	near, far     float32
}

func (d *display) Width() int  { return d.width }
func (d *display) Height() int { return d.height }

func (d *display) Aspect() float32 {
	if d.height == 0 {
		return 1
	}
	return float32(d.width) / float32(d.height)
}

// refresh re-reads the framebuffer size and resets the viewport.
func (d *display) refresh(window *glfw.Window) {
	w, h := window.GetFramebufferSize()
	if w != d.width || h != d.height {
		d.width, d.height = w, h
		gl.Viewport(0, 0, int32(w), int32(h))
	}
}

func (d *display) projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(d.fov), d.Aspect(), d.near, d.far)
}
