package sandbox

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Handle identifies a device object. The zero Handle is null.
type Handle uint32

// Topology selects how a vertex or index stream maps to primitives.
type Topology uint8

const (
	// DrawTriangles draws a triangle list.
	DrawTriangles Topology = iota
	// DrawLines draws a line list.
	DrawLines
	// DrawPoints draws one point per vertex.
	DrawPoints
)

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case DrawTriangles:
		return "Triangles"
	case DrawLines:
		return "Lines"
	case DrawPoints:
		return "Points"
	default:
		return fmt.Sprintf("Topology(%d)", t)
	}
}

// Attribute slots of 3D vertex arrays.
const (
	Attrib3DPosition = 0
	Attrib3DNormal   = 1
	Attrib3DColor    = 2
	Attrib3DCount    = 3
)

// Attribute slots of 2D vertex arrays.
const (
	Attrib2DPosition = 0
	Attrib2DColor    = 1
	Attrib2DCount    = 2
)

// BufferKind distinguishes attribute buffers from index buffers.
type BufferKind uint8

const (
	// BufferVertex holds float32 attribute data.
	BufferVertex BufferKind = iota
	// BufferIndex holds uint32 indices.
	BufferIndex
)

// String returns the buffer kind name.
func (k BufferKind) String() string {
	if k == BufferIndex {
		return "Index"
	}
	return "Vertex"
}

// BufferDesc describes an immutable buffer attached to a vertex array.
type BufferDesc struct {
	Label string
	Kind  BufferKind

	// Location is the attribute slot for vertex buffers.
	Location int

	// Components is the number of float32 per vertex (2, 3 or 4).
	Components int

	// Data is copied by the device before CreateBuffer returns.
	Data []byte
}

// DrawCall is one draw of a vertex array with the current shader.
type DrawCall struct {
	VAO      Handle
	Topology Topology

	// Count is the number of indices when Indexed, else of vertices.
	Count   int
	Indexed bool

	// Model and Lighting are ignored by the 2D shader.
	Model    mgl32.Mat4
	Lighting bool
}

// FrameTarget describes the render target of a frame.
type FrameTarget struct {
	Width, Height int
	Clear         mgl32.Vec4
	PointSize     float32
	LineWidth     float32
}

// Device is the drawing capability consumed by draw buffers and the
// render API: create and delete vertex arrays and their buffers, select
// a shader, draw.
//
// Devices are single-threaded. Buffer data passed to CreateBuffer may
// live in scratch memory that is reused as soon as the call returns.
type Device interface {
	CreateVertexArray() (Handle, error)
	CreateBuffer(vao Handle, desc BufferDesc) (Handle, error)
	DeleteBuffer(h Handle)
	DeleteVertexArray(h Handle)
	UseShader(state *ShaderState) error
	Draw(call DrawCall) error
}

// FrameDevice is a Device that owns a render target.
type FrameDevice interface {
	Device

	// BeginFrame clears the target and prepares recording.
	BeginFrame(target FrameTarget) error

	// EndFrame finishes the frame. Errors recorded during the frame are
	// reported here.
	EndFrame() error

	// Destroy releases every device resource.
	Destroy()
}

// ShaderReloader is implemented by devices that can rebuild their shader
// programs at runtime.
type ShaderReloader interface {
	ReloadShaders() error
}
