package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/scratch"
)

// ArrowVertexCount is the shaft quad (6) plus the head triangle (3).
const ArrowVertexCount = 9

// QuadFill returns the two triangles covering the rectangle [min, max].
func QuadFill(lo, hi mgl32.Vec2) [6]mgl32.Vec2 {
	return [6]mgl32.Vec2{
		{lo.X(), lo.Y()},
		{hi.X(), lo.Y()},
		{hi.X(), hi.Y()},
		{lo.X(), lo.Y()},
		{hi.X(), hi.Y()},
		{lo.X(), hi.Y()},
	}
}

// QuadContour returns the four edges of the rectangle [min, max] as a
// line list.
func QuadContour(lo, hi mgl32.Vec2) [8]mgl32.Vec2 {
	return [8]mgl32.Vec2{
		{lo.X(), lo.Y()}, {hi.X(), lo.Y()},
		{hi.X(), lo.Y()}, {hi.X(), hi.Y()},
		{hi.X(), hi.Y()}, {lo.X(), hi.Y()},
		{lo.X(), hi.Y()}, {lo.X(), lo.Y()},
	}
}

// circlePoint returns the i-th of n points on the circle, starting at
// angle 0 and turning counter-clockwise.
func circlePoint(center mgl32.Vec2, radius float32, i, n int) mgl32.Vec2 {
	sin, cos := math32.Sincos(2 * math32.Pi * float32(i) / float32(n))
	return mgl32.Vec2{center.X() + radius*cos, center.Y() + radius*sin}
}

// CircleFill builds a triangle fan as a plain triangle list of
// 3·subdivisions vertices: (center, previous, current) per slice.
func CircleFill(s *scratch.Scope, center mgl32.Vec2, radius float32, subdivisions int, c mgl32.Vec4) Stream2D {
	sub := max(subdivisions, MinCircle)
	v := scratch.Make[mgl32.Vec2](s, 3*sub)
	prev := mgl32.Vec2{center.X() + radius, center.Y()}
	for i := 1; i <= sub; i++ {
		cur := circlePoint(center, radius, i, sub)
		k := 3 * (i - 1)
		v[k], v[k+1], v[k+2] = center, prev, cur
		prev = cur
	}
	return Stream2D{Positions: v, Colors: UniformColors(s, len(v), c)}
}

// CircleContour builds the circle outline as a line list of
// 2·subdivisions vertices.
func CircleContour(s *scratch.Scope, center mgl32.Vec2, radius float32, subdivisions int, c mgl32.Vec4) Stream2D {
	sub := max(subdivisions, MinCircle)
	v := scratch.Make[mgl32.Vec2](s, 2*sub)
	prev := mgl32.Vec2{center.X() + radius, center.Y()}
	for i := 1; i <= sub; i++ {
		cur := circlePoint(center, radius, i, sub)
		k := 2 * (i - 1)
		v[k], v[k+1] = prev, cur
		prev = cur
	}
	return Stream2D{Positions: v, Colors: UniformColors(s, len(v), c)}
}

// Arrow builds an arrow from -> to as 3 triangles. The shaft is
// thickness wide; the head is twice as wide and takes hatRatio of the
// total length. hatRatio is clamped to [0, 1]. A zero-length arrow
// collapses onto from.
func Arrow(from, to mgl32.Vec2, thickness, hatRatio float32) [ArrowVertexCount]mgl32.Vec2 {
	dir := to.Sub(from)
	length := dir.Len()
	if length == 0 {
		var v [ArrowVertexCount]mgl32.Vec2
		for i := range v {
			v[i] = from
		}
		return v
	}

	hatRatio = mgl32.Clamp(hatRatio, 0, 1)
	hat := hatRatio * length
	dir = dir.Mul(1 / length)
	ortho := mgl32.Vec2{-dir.Y(), dir.X()}
	dir = dir.Mul(length - hat)

	half := ortho.Mul(0.5 * thickness)
	full := ortho.Mul(thickness)
	neck := from.Add(dir)
	return [ArrowVertexCount]mgl32.Vec2{
		from.Sub(half),
		from.Add(half),
		neck.Add(half),
		neck.Add(half),
		neck.Sub(half),
		from.Sub(half),
		neck.Sub(full),
		neck.Add(full),
		to,
	}
}
