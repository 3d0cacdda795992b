package main

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	hudCanvasSize = 512
	hudFontSize   = 14
	hudLineHeight = 18
)

// hud draws debug text lines into one canvas texture shown in the top-left
// corner. The texture is only re-uploaded when the text changes.
type hud struct {
	program uint32
	vao     uint32
	vbo     uint32
	texture uint32

	ctx   *freetype.Context
	dst   *image.RGBA
	lines []string
}

func newHUD() (*hud, error) {
	f, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse hud font: %w", err)
	}
	prog, err := newProgram("text.vert", "text.frag")
	if err != nil {
		return nil, err
	}

	h := &hud{program: prog}
	h.dst = image.NewRGBA(image.Rect(0, 0, hudCanvasSize, hudCanvasSize))
	h.ctx = freetype.NewContext()
	h.ctx.SetFont(f)
	h.ctx.SetFontSize(hudFontSize)
	h.ctx.SetDPI(72)
	h.ctx.SetDst(h.dst)
	h.ctx.SetClip(h.dst.Bounds())
	h.ctx.SetSrc(image.White)
	h.ctx.SetHinting(font.HintingFull)

	// Quad from (0,0) to (1,1), position then UV. Canvas row 0 is uploaded
	// at v = 0, which the y-down ortho projection puts at the top.
	vertices := []float32{
		0, 0, 0, 0, 0,
		0, 1, 0, 0, 1,
		1, 1, 0, 1, 1,

		0, 0, 0, 0, 0,
		1, 1, 0, 1, 1,
		1, 0, 0, 1, 0,
	}
	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, nil)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, uintptr(3*4))
	gl.BindVertexArray(0)

	gl.GenTextures(1, &h.texture)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, hudCanvasSize, hudCanvasSize, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(h.dst.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.UseProgram(prog)
	gl.Uniform1i(uniform(prog, "glyphs"), 0)
	return h, nil
}

// setLines redraws the canvas if the text differs from what is shown.
func (h *hud) setLines(lines ...string) error {
	if strings.Join(lines, "\n") == strings.Join(h.lines, "\n") {
		return nil
	}
	h.lines = append(h.lines[:0], lines...)

	draw.Draw(h.dst, h.dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	for i, line := range lines {
		pt := freetype.Pt(8, (i+1)*hudLineHeight)
		if _, err := h.ctx.DrawString(line, pt); err != nil {
			return fmt.Errorf("draw hud line %q: %w", line, err)
		}
	}

	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, hudCanvasSize, hudCanvasSize, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(h.dst.Pix))
	return nil
}

func (h *hud) render(width, height int) {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(h.program)
	projection := mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
	gl.UniformMatrix4fv(uniform(h.program, "projection"), 1, false, &projection[0])
	model := mgl32.Scale3D(hudCanvasSize, hudCanvasSize, 1)
	gl.UniformMatrix4fv(uniform(h.program, "model"), 1, false, &model[0])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.BindVertexArray(h.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (h *hud) delete() {
	gl.DeleteTextures(1, &h.texture)
	gl.DeleteBuffers(1, &h.vbo)
	gl.DeleteVertexArrays(1, &h.vao)
	gl.DeleteProgram(h.program)
}
