package sandbox

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/geometry"
	"github.com/gogpu/sandbox/scratch"
)

// API2D is the 2D drawing surface. Coordinates are in pixels with the
// origin at the bottom-left corner of the viewport.
type API2D struct {
	dev   Device
	arena *scratch.Arena
	err   error
	draws int
}

// NewAPI2D returns a 2D surface drawing on dev.
func NewAPI2D(dev Device, arena *scratch.Arena) *API2D {
	return &API2D{dev: dev, arena: arena}
}

// Device returns the device the surface draws on.
func (api *API2D) Device() Device { return api.dev }

// Arena returns the scratch arena of the pass.
func (api *API2D) Arena() *scratch.Arena { return api.arena }

// Err returns the first device error of the pass.
func (api *API2D) Err() error { return api.err }

// Draws returns the number of draw calls issued.
func (api *API2D) Draws() int { return api.draws }

func (api *API2D) fail(err error) {
	if api.err == nil {
		api.err = err
	}
}

// Buffer draws a created 2D buffer. It panics with ErrBufferNotCreated
// if b has no vertex array.
func (api *API2D) Buffer(b *DrawBuffer2D, topo Topology) {
	if b.VAO == 0 {
		panic(ErrBufferNotCreated)
	}
	api.draws++
	err := api.dev.Draw(DrawCall{
		VAO:      b.VAO,
		Topology: topo,
		Count:    b.VertexCount,
		Model:    mgl32.Ident4(),
	})
	if err != nil {
		api.fail(fmt.Errorf("draw %v: %w", topo, err))
	}
}

func (api *API2D) draw(name string, p CreateParams2D, topo Topology) {
	var b DrawBuffer2D
	if err := b.Create(api.dev, p); err != nil {
		api.fail(fmt.Errorf("%s: %w", name, err))
		return
	}
	api.Buffer(&b, topo)
	b.Destroy(api.dev)
}

func (api *API2D) drawStream(name string, s geometry.Stream2D, topo Topology) {
	api.draw(name, CreateParams2D{Positions: s.Positions, Colors: s.Colors}, topo)
}

// Lines draws a 2D line list in a single color.
func (api *API2D) Lines(vertices []mgl32.Vec2, color mgl32.Vec4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("lines", geometry.Lines2D(s, vertices, color), DrawLines)
}

// QuadFill fills the rectangle [min, max].
func (api *API2D) QuadFill(min, max mgl32.Vec2, color mgl32.Vec4) {
	v := geometry.QuadFill(min, max)
	var c [len(v)]mgl32.Vec4
	geometry.Fill(c[:], color)
	api.draw("quad", CreateParams2D{Positions: v[:], Colors: c[:]}, DrawTriangles)
}

// QuadContour outlines the rectangle [min, max].
func (api *API2D) QuadContour(min, max mgl32.Vec2, color mgl32.Vec4) {
	v := geometry.QuadContour(min, max)
	api.Lines(v[:], color)
}

// CircleFill fills a circle approximated by subdivisions slices, at
// least 4.
func (api *API2D) CircleFill(center mgl32.Vec2, radius float32, subdivisions int, color mgl32.Vec4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("circle", geometry.CircleFill(s, center, radius, subdivisions, color), DrawTriangles)
}

// CircleContour outlines a circle approximated by subdivisions segments,
// at least 4.
func (api *API2D) CircleContour(center mgl32.Vec2, radius float32, subdivisions int, color mgl32.Vec4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("circle contour", geometry.CircleContour(s, center, radius, subdivisions, color), DrawLines)
}

// Arrow draws an arrow from -> to. hatRatio in [0, 1] is the share of the
// length taken by the head.
func (api *API2D) Arrow(from, to mgl32.Vec2, thickness, hatRatio float32, color mgl32.Vec4) {
	v := geometry.Arrow(from, to, thickness, hatRatio)
	var c [len(v)]mgl32.Vec4
	geometry.Fill(c[:], color)
	api.draw("arrow", CreateParams2D{Positions: v[:], Colors: c[:]}, DrawTriangles)
}
