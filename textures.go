package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"neilpa.me/go-stbi"
)

const atlasCellSize = 16

// Flat colours for the placeholder atlas, one per column.
var placeholderColors = []color.RGBA{
	{94, 157, 52, 255},   // grass top
	{121, 112, 62, 255},  // grass side
	{134, 96, 67, 255},   // dirt
	{125, 125, 125, 255}, // stone
	{219, 207, 163, 255}, // sand
}

// loadTextureAtlas uploads the block atlas. A missing file falls back to a
// generated atlas with one flat colour per cell.
func loadTextureAtlas(path string, columns int, log *slog.Logger) (uint32, error) {
	rgba, err := stbi.Load(path)
	if err != nil {
		if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
			return 0, fmt.Errorf("load atlas %s: %w", path, err)
		}
		log.Warn("texture atlas not found, using placeholder", "path", path)
		rgba = placeholderAtlas(columns)
	}
	flipVertical(rgba)

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(rgba.Bounds().Dx()), int32(rgba.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return textureID, nil
}

func placeholderAtlas(columns int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, columns*atlasCellSize, atlasCellSize))
	for i := 0; i < columns; i++ {
		c := placeholderColors[i%len(placeholderColors)]
		cell := image.Rect(i*atlasCellSize, 0, (i+1)*atlasCellSize, atlasCellSize)
		draw.Draw(img, cell, &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	return img
}

// flipVertical puts row 0 at the bottom, where GL expects v = 0.
func flipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
