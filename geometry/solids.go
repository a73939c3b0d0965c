package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/scratch"
)

// Minimum subdivision counts.
const (
	MinSphereHorizontal = 4
	MinSphereVertical   = 2
	MinPlane            = 1
	MinCircle           = 4
)

// CubeVertexCount is 6 faces of 2 triangles.
const CubeVertexCount = 36

// cubeCorners are the unit cube corners scaled by the half size.
var cubeCorners = [8]mgl32.Vec3{
	{-1, -1, -1},
	{+1, -1, -1},
	{+1, +1, -1},
	{-1, +1, -1},
	{-1, -1, +1},
	{+1, -1, +1},
	{+1, +1, +1},
	{-1, +1, +1},
}

var cubeFaceNormals = [6]mgl32.Vec3{
	{0, 0, -1},
	{+1, 0, 0},
	{0, 0, +1},
	{-1, 0, 0},
	{0, +1, 0},
	{0, -1, 0},
}

var cubeIndices = [CubeVertexCount]uint8{
	0, 1, 3, 3, 1, 2,
	1, 5, 2, 2, 5, 6,
	5, 4, 6, 6, 4, 7,
	4, 0, 7, 7, 0, 3,
	3, 2, 7, 7, 2, 6,
	4, 5, 0, 0, 5, 1,
}

// Cube is a flat-shaded cube as a 36-vertex triangle list.
type Cube struct {
	Positions [CubeVertexCount]mgl32.Vec3
	Normals   [CubeVertexCount]mgl32.Vec3
	Colors    [CubeVertexCount]mgl32.Vec4
}

// SolidCube builds an axis-aligned cube of edge length size centered at
// the origin. Each face shares one normal across its 6 vertices.
func SolidCube(size float32, c mgl32.Vec4) Cube {
	var cube Cube
	half := 0.5 * size
	for i, corner := range cubeIndices {
		cube.Positions[i] = cubeCorners[corner].Mul(half)
		cube.Normals[i] = cubeFaceNormals[i/6]
		cube.Colors[i] = c
	}
	return cube
}

// SphereCounts returns the vertex and index counts of a UV sphere after
// clamping the subdivisions.
func SphereCounts(horizontal, vertical int) (vertices, indices int) {
	h := max(horizontal, MinSphereHorizontal)
	v := max(vertical, MinSphereVertical)
	vertices = 2 + h*(v-1)
	indices = (2*h + (v-2)*h*2) * 3
	return vertices, indices
}

// SolidSphere builds an indexed UV sphere. Latitude rings come first, ring
// by ring from north to south, then the north and south poles. Normals
// are (position - center) / radius.
func SolidSphere(s *scratch.Scope, center mgl32.Vec3, radius float32, horizontal, vertical int, c mgl32.Vec4) Stream3D {
	h := max(horizontal, MinSphereHorizontal)
	v := max(vertical, MinSphereVertical)
	nv, ni := SphereCounts(h, v)

	positions := scratch.Make[mgl32.Vec3](s, nv)
	normals := scratch.Make[mgl32.Vec3](s, nv)
	colors := UniformColors(s, nv, c)
	indices := scratch.Make[uint32](s, ni)

	vstep := math32.Pi / float32(v)
	hstep := 2 * math32.Pi / float32(h)
	k := 0
	for i := 1; i < v; i++ {
		sinV, cosV := math32.Sincos(math32.Pi/2 - float32(i)*vstep)
		xz := radius * cosV
		y := radius * sinV
		for j := 0; j < h; j++ {
			sinH, cosH := math32.Sincos(float32(j) * hstep)
			p := mgl32.Vec3{xz * cosH, y, xz * sinH}
			positions[k] = center.Add(p)
			normals[k] = p.Mul(1 / radius)
			k++
		}
	}
	north, south := nv-2, nv-1
	positions[north] = center.Add(mgl32.Vec3{0, radius, 0})
	normals[north] = mgl32.Vec3{0, 1, 0}
	positions[south] = center.Add(mgl32.Vec3{0, -radius, 0})
	normals[south] = mgl32.Vec3{0, -1, 0}

	k = 0
	tri := func(a, b, c int) {
		indices[k], indices[k+1], indices[k+2] = uint32(a), uint32(b), uint32(c)
		k += 3
	}
	for j := 0; j < h; j++ {
		tri(north, j, (j+1)%h)
	}
	for i := 0; i < v-2; i++ {
		for j := 0; j < h; j++ {
			a := i*h + j
			b := i*h + (j+1)%h
			cc := (i+1)*h + j
			d := (i+1)*h + (j+1)%h
			tri(a, cc, d)
			tri(a, d, b)
		}
	}
	last := (v - 2) * h
	for j := 0; j < h; j++ {
		tri(south, last+j, last+(j+1)%h)
	}

	return Stream3D{Positions: positions, Normals: normals, Colors: colors, Indices: indices}
}

// PlaneCounts returns the vertex and index counts of a horizontal plane
// after clamping the subdivisions.
func PlaneCounts(subdivisions int) (vertices, indices int) {
	sub := max(subdivisions, MinPlane)
	n := sub + 1
	return n * n, sub * sub * 6
}

// HorizontalPlane builds an indexed grid of quads on the plane y = center.Y
// spanning size.X along X and size.Y along Z. All normals point up.
func HorizontalPlane(s *scratch.Scope, center mgl32.Vec3, size mgl32.Vec2, subdivisions int, c mgl32.Vec4) Stream3D {
	sub := max(subdivisions, MinPlane)
	n := sub + 1
	nv, ni := PlaneCounts(sub)

	positions := scratch.Make[mgl32.Vec3](s, nv)
	normals := scratch.Make[mgl32.Vec3](s, nv)
	colors := UniformColors(s, nv, c)
	indices := scratch.Make[uint32](s, ni)

	start := mgl32.Vec3{center.X() - size.X()/2, center.Y(), center.Z() - size.Y()/2}
	stepX := size.X() / float32(sub)
	stepZ := size.Y() / float32(sub)
	up := mgl32.Vec3{0, 1, 0}
	for ix := 0; ix < n; ix++ {
		for iz := 0; iz < n; iz++ {
			k := ix*n + iz
			positions[k] = mgl32.Vec3{start.X() + float32(ix)*stepX, start.Y(), start.Z() + float32(iz)*stepZ}
			normals[k] = up
		}
	}

	k := 0
	for ix := 0; ix < sub; ix++ {
		for iz := 0; iz < sub; iz++ {
			q := uint32(ix*n + iz)
			row := uint32(n)
			copy(indices[k:k+6], []uint32{q, q + 1, q + row + 1, q, q + row + 1, q + row})
			k += 6
		}
	}

	return Stream3D{Positions: positions, Normals: normals, Colors: colors, Indices: indices}
}
