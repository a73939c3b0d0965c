// Package raster is a depth-buffered triangle, line and point rasterizer
// for the software device.
//
// Vertices arrive in clip space with a fixed set of float varyings. Each
// primitive is clipped against the near plane, projected, and filled with
// perspective-correct interpolation. Every fill call is restricted to a
// row band so a frame can be split across goroutines without locking.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Target is a color and depth render target.
type Target struct {
	Width, Height int
	Color         *image.RGBA
	Depth         []float32
}

// NewTarget allocates a target of the given size.
func NewTarget(width, height int) *Target {
	return &Target{
		Width:  width,
		Height: height,
		Color:  image.NewRGBA(image.Rect(0, 0, width, height)),
		Depth:  make([]float32, width*height),
	}
}

// Clear fills the color buffer with c and resets depth to the far plane.
func (t *Target) Clear(c mgl32.Vec4) {
	px := toRGBA(c)
	pix := t.Color.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = px.R, px.G, px.B, px.A
	}
	for i := range t.Depth {
		t.Depth[i] = 1
	}
}

// At returns the color at (x, y) with y growing downwards.
func (t *Target) At(x, y int) color.RGBA {
	return t.Color.RGBAAt(x, y)
}

// blend composites c over the pixel at index i (in pixels) with
// source-over for color and one/one-minus-source for alpha.
func (t *Target) blend(i int, c mgl32.Vec4) {
	p := t.Color.Pix[4*i : 4*i+4 : 4*i+4]
	a := clamp01(c.W())
	inv := 1 - a
	p[0] = toByte(clamp01(c.X())*a + float32(p[0])/255*inv)
	p[1] = toByte(clamp01(c.Y())*a + float32(p[1])/255*inv)
	p[2] = toByte(clamp01(c.Z())*a + float32(p[2])/255*inv)
	p[3] = toByte(a + float32(p[3])/255*inv)
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(clamp01(v)) * 255))
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	return color.RGBA{R: toByte(c.X()), G: toByte(c.Y()), B: toByte(c.Z()), A: toByte(c.W())}
}
