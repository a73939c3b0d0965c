package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/scratch"
)

// Axis colors.
var (
	Red   = mgl32.Vec4{1, 0, 0, 1}
	Green = mgl32.Vec4{0, 1, 0, 1}
	Blue  = mgl32.Vec4{0, 0, 1, 1}
)

// GridLineCount returns the number of line segments of a grid: the four
// border lines plus one interior line per non-edge division on each axis.
func GridLineCount(subdivisions int) int {
	subdivisions = max(subdivisions, 1)
	return 4 + 2*(subdivisions-1)
}

// Grid builds a square line grid of the given size on the XZ plane,
// centered at the origin.
func Grid(s *scratch.Scope, size float32, subdivisions int, c mgl32.Vec4) Stream3D {
	subdivisions = max(subdivisions, 1)
	n := 2 * GridLineCount(subdivisions)
	v := scratch.Make[mgl32.Vec3](s, n)
	colors := UniformColors(s, n, c)

	h := 0.5 * size
	i := 0
	emit := func(a, b mgl32.Vec3) {
		v[i], v[i+1] = a, b
		i += 2
	}

	emit(mgl32.Vec3{-h, 0, h}, mgl32.Vec3{h, 0, h})
	emit(mgl32.Vec3{-h, 0, -h}, mgl32.Vec3{h, 0, -h})
	emit(mgl32.Vec3{-h, 0, h}, mgl32.Vec3{-h, 0, -h})
	emit(mgl32.Vec3{h, 0, h}, mgl32.Vec3{h, 0, -h})

	for k := 1; k < subdivisions; k++ {
		coord := -h + size*(float32(k)/float32(subdivisions))
		emit(mgl32.Vec3{coord, 0, -h}, mgl32.Vec3{coord, 0, h})
		emit(mgl32.Vec3{-h, 0, coord}, mgl32.Vec3{h, 0, coord})
	}

	return Stream3D{Positions: v, Colors: colors}
}

// AxisTriad is three unit line segments from the origin along X, Y and Z,
// colored red, green and blue.
type AxisTriad struct {
	Positions [6]mgl32.Vec3
	Colors    [6]mgl32.Vec4
}

// Axis returns the axis triad.
func Axis() AxisTriad {
	return AxisTriad{
		Positions: [6]mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0},
			{0, 0, 0}, {0, 1, 0},
			{0, 0, 0}, {0, 0, 1},
		},
		Colors: [6]mgl32.Vec4{Red, Red, Green, Green, Blue, Blue},
	}
}
