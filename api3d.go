package sandbox

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/geometry"
	"github.com/gogpu/sandbox/scratch"
)

// API3D is the 3D drawing surface handed to scene callbacks. Every
// primitive builds its geometry in the scratch arena, draws it once
// through a transient DrawBuffer3D and releases everything before it
// returns.
//
// The first device error is kept and reported by Err; later primitives
// still run.
type API3D struct {
	dev   Device
	arena *scratch.Arena
	err   error
	draws int
}

// NewAPI3D returns a 3D surface drawing on dev with scratch memory from
// arena. The engine creates one per pass; tests may create their own.
func NewAPI3D(dev Device, arena *scratch.Arena) *API3D {
	return &API3D{dev: dev, arena: arena}
}

// Device returns the device the surface draws on.
func (api *API3D) Device() Device { return api.dev }

// Arena returns the scratch arena of the pass.
func (api *API3D) Arena() *scratch.Arena { return api.arena }

// Err returns the first device error of the pass.
func (api *API3D) Err() error { return api.err }

// Draws returns the number of draw calls issued.
func (api *API3D) Draws() int { return api.draws }

func (api *API3D) fail(err error) {
	if api.err == nil {
		api.err = err
	}
}

// Buffer draws a created buffer with the given topology. A nil model
// draws with the identity. Lighting is enabled iff the buffer has
// normals. Buffer panics with ErrBufferNotCreated if b has no vertex
// array.
func (api *API3D) Buffer(b *DrawBuffer3D, topo Topology, model *mgl32.Mat4) {
	if b.VAO == 0 {
		panic(ErrBufferNotCreated)
	}
	call := DrawCall{
		VAO:      b.VAO,
		Topology: topo,
		Count:    b.VertexCount,
		Model:    mgl32.Ident4(),
		Lighting: b.Lit(),
	}
	if model != nil {
		call.Model = *model
	}
	if b.IBO != 0 {
		call.Indexed = true
		call.Count = b.IndexCount
	}
	api.draws++
	if err := api.dev.Draw(call); err != nil {
		api.fail(fmt.Errorf("draw %v: %w", topo, err))
	}
}

// draw runs one create, draw, destroy cycle.
func (api *API3D) draw(name string, p CreateParams3D, topo Topology, model *mgl32.Mat4) {
	var b DrawBuffer3D
	if err := b.Create(api.dev, p); err != nil {
		api.fail(fmt.Errorf("%s: %w", name, err))
		return
	}
	api.Buffer(&b, topo, model)
	b.Destroy(api.dev)
}

func (api *API3D) drawStream(name string, s geometry.Stream3D, topo Topology, model *mgl32.Mat4) {
	api.draw(name, CreateParams3D{
		Positions: s.Positions,
		Normals:   s.Normals,
		Colors:    s.Colors,
		Indices:   s.Indices,
	}, topo, model)
}

// Lines draws a line list in a single color. To draw the polyline
// A-B-C-D, vertices must hold A,B,B,C,C,D.
func (api *API3D) Lines(vertices []mgl32.Vec3, color mgl32.Vec4, model *mgl32.Mat4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("lines", geometry.Lines(s, vertices, color), DrawLines, model)
}

// Grid draws a square grid of the given size on the XZ plane.
// Subdivisions below 1 are clamped.
func (api *API3D) Grid(size float32, subdivisions int, color mgl32.Vec4, model *mgl32.Mat4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("grid", geometry.Grid(s, size, subdivisions, color), DrawLines, model)
}

// AxisXYZ draws unit X, Y and Z axes in red, green and blue.
func (api *API3D) AxisXYZ(model *mgl32.Mat4) {
	a := geometry.Axis()
	api.draw("axis", CreateParams3D{Positions: a.Positions[:], Colors: a.Colors[:]}, DrawLines, model)
}

// SolidCube draws a flat-shaded cube of edge size centered at the origin.
func (api *API3D) SolidCube(size float32, color mgl32.Vec4, model *mgl32.Mat4) {
	c := geometry.SolidCube(size, color)
	api.draw("cube", CreateParams3D{
		Positions: c.Positions[:],
		Normals:   c.Normals[:],
		Colors:    c.Colors[:],
	}, DrawTriangles, model)
}

// SolidSphere draws a smooth UV sphere. Subdivisions are clamped to at
// least 4 around and 2 from pole to pole.
func (api *API3D) SolidSphere(center mgl32.Vec3, radius float32, horizontal, vertical int, color mgl32.Vec4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("sphere", geometry.SolidSphere(s, center, radius, horizontal, vertical, color), DrawTriangles, nil)
}

// Bone draws the wedge from a parent joint to its child. childRelative is
// in the parent's frame; parentRotation and parentPosition place the
// parent in world space.
func (api *API3D) Bone(childRelative mgl32.Vec3, color mgl32.Vec4, parentRotation mgl32.Quat, parentPosition mgl32.Vec3) {
	w := geometry.Bone(childRelative, parentRotation, parentPosition, color)
	api.draw("bone", CreateParams3D{
		Positions: w.Positions[:],
		Normals:   w.Normals[:],
		Colors:    w.Colors[:],
	}, DrawTriangles, nil)
}

// HorizontalPlane draws a subdivided plane facing up. size is the extent
// along X and Z. Subdivisions below 1 are clamped.
func (api *API3D) HorizontalPlane(center mgl32.Vec3, size mgl32.Vec2, subdivisions int, color mgl32.Vec4) {
	s := api.arena.Scope()
	defer s.Release()
	api.drawStream("plane", geometry.HorizontalPlane(s, center, size, subdivisions, color), DrawTriangles, nil)
}
