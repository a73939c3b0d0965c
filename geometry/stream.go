// Package geometry synthesizes vertex, normal, color and index streams for
// the parametric primitives drawn by the viewer.
//
// Generators whose size depends on their parameters (grid, sphere, plane,
// circles) take their storage from a scratch.Scope; the caller releases
// the scope once the data is uploaded. Fixed-size shapes (axis triad,
// cube, bone wedge, quads, arrow) are returned by value.
//
// Subdivision counts below a shape's minimum are clamped, never rejected.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/scratch"
)

// Stream3D is a 3D vertex stream with optional normals and indices.
// Positions and Colors always have the same length; Normals is either nil
// or of that length too.
type Stream3D struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (s Stream3D) VertexCount() int { return len(s.Positions) }

// IndexCount returns the number of indices, 0 for sequential streams.
func (s Stream3D) IndexCount() int { return len(s.Indices) }

// Stream2D is a 2D vertex stream. 2D streams are never indexed.
type Stream2D struct {
	Positions []mgl32.Vec2
	Colors    []mgl32.Vec4
}

// VertexCount returns the number of vertices.
func (s Stream2D) VertexCount() int { return len(s.Positions) }

// Fill sets every element of colors to c.
func Fill(colors []mgl32.Vec4, c mgl32.Vec4) {
	for i := range colors {
		colors[i] = c
	}
}

// UniformColors allocates n colors set to c from the scope.
func UniformColors(s *scratch.Scope, n int, c mgl32.Vec4) []mgl32.Vec4 {
	colors := scratch.Make[mgl32.Vec4](s, n)
	Fill(colors, c)
	return colors
}

// Lines tags caller-supplied line vertices with a uniform color. To draw
// the polyline A-B-C-D, vertices must hold A,B,B,C,C,D.
func Lines(s *scratch.Scope, vertices []mgl32.Vec3, c mgl32.Vec4) Stream3D {
	return Stream3D{
		Positions: vertices,
		Colors:    UniformColors(s, len(vertices), c),
	}
}

// Lines2D is the 2D counterpart of Lines.
func Lines2D(s *scratch.Scope, vertices []mgl32.Vec2, c mgl32.Vec4) Stream2D {
	return Stream2D{
		Positions: vertices,
		Colors:    UniformColors(s, len(vertices), c),
	}
}
