package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BoneVertexCount is 8 flat-shaded triangles.
const BoneVertexCount = 24

// parallelEpsilon absorbs the rounding of Normalize on axis-aligned input.
const parallelEpsilon = 1e-6

// boneIndices connect the parent point (0), the four base points (1..4)
// and the child point (5).
var boneIndices = [BoneVertexCount]uint8{
	0, 1, 3,
	0, 4, 1,
	0, 3, 2,
	0, 2, 4,
	5, 3, 1,
	5, 1, 4,
	5, 2, 3,
	5, 4, 2,
}

// Wedge is the bone solid as a non-indexed triangle list.
type Wedge struct {
	Positions [BoneVertexCount]mgl32.Vec3
	Normals   [BoneVertexCount]mgl32.Vec3
	Colors    [BoneVertexCount]mgl32.Vec4
}

// BoneBasis returns the front, up and left unit vectors of a bone along
// dir in the bone's local frame. When dir is parallel to world up the
// basis is built against world X instead, so the cross products never
// collapse to zero.
func BoneBasis(dir mgl32.Vec3) (front, up, left mgl32.Vec3) {
	front = dir.Normalize()
	worldUp := mgl32.Vec3{0, 1, 0}
	if math32.Abs(front.Dot(worldUp)) < 1-parallelEpsilon {
		left = worldUp.Cross(front).Normalize()
		up = front.Cross(left).Normalize()
	} else {
		up = front.Cross(mgl32.Vec3{1, 0, 0}).Normalize()
		left = up.Cross(front).Normalize()
	}
	return front, up, left
}

// Bone builds a double pyramid from a parent joint to its child. The base
// is a square of side 2·len/10 placed a tenth of the way along the
// segment; the apexes are the parent and the child. childRelative is
// expressed in the parent's frame, which parentRotation maps to world
// space. Normals are computed per triangle from the final geometry.
func Bone(childRelative mgl32.Vec3, parentRotation mgl32.Quat, parentPosition mgl32.Vec3, c mgl32.Vec4) Wedge {
	var w Wedge
	length := childRelative.Len()
	if length == 0 {
		for i := range w.Positions {
			w.Positions[i] = parentPosition
			w.Colors[i] = c
		}
		return w
	}

	size := length / 10
	front, up, left := BoneBasis(childRelative)
	up = parentRotation.Rotate(up.Mul(size))
	front = parentRotation.Rotate(front.Mul(size))
	left = parentRotation.Rotate(left.Mul(size))
	child := parentRotation.Rotate(childRelative)

	p := parentPosition
	edges := [6]mgl32.Vec3{
		p,
		p.Add(up).Add(front),
		p.Sub(up).Add(front),
		p.Add(left).Add(front),
		p.Sub(left).Add(front),
		p.Add(child),
	}

	for t := 0; t < BoneVertexCount; t += 3 {
		e0 := edges[boneIndices[t]]
		e1 := edges[boneIndices[t+1]]
		e2 := edges[boneIndices[t+2]]
		n := e1.Sub(e0).Cross(e2.Sub(e0)).Normalize()
		w.Positions[t], w.Positions[t+1], w.Positions[t+2] = e0, e1, e2
		w.Normals[t], w.Normals[t+1], w.Normals[t+2] = n, n, n
		w.Colors[t], w.Colors[t+1], w.Colors[t+2] = c, c, c
	}
	return w
}
