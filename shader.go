package sandbox

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderKind selects the program a pass draws with.
type ShaderKind uint8

const (
	// ShaderStandard is the lit 3D program.
	ShaderStandard ShaderKind = iota
	// ShaderCustomVertex is the 3D program with a time and data driven
	// vertex stage. It reads the standard uniforms plus CustomUniforms.
	ShaderCustomVertex
	// Shader2D draws in pixel coordinates.
	Shader2D
)

// String returns the shader kind name.
func (k ShaderKind) String() string {
	switch k {
	case ShaderStandard:
		return "Standard"
	case ShaderCustomVertex:
		return "CustomVertex"
	case Shader2D:
		return "2D"
	default:
		return fmt.Sprintf("ShaderKind(%d)", k)
	}
}

// Is3D reports whether the kind draws 3D vertex arrays.
func (k ShaderKind) Is3D() bool { return k == ShaderStandard || k == ShaderCustomVertex }

// FrameUniforms is the uniform set shared by both 3D programs.
// Light is in view space.
type FrameUniforms struct {
	View        mgl32.Mat4
	Projection  mgl32.Mat4
	Light       mgl32.Vec3
	Ambient     float32
	Specular    float32
	SpecularPow float32
}

// CustomUniforms extends FrameUniforms for ShaderCustomVertex.
type CustomUniforms struct {
	Time  float32
	Block *CustomBlock
}

// ShaderState is the full uniform state of a pass. Frame applies to 3D
// kinds, Custom only to ShaderCustomVertex, Viewport only to Shader2D.
type ShaderState struct {
	Kind     ShaderKind
	Frame    FrameUniforms
	Custom   CustomUniforms
	Viewport mgl32.Vec2
}

// WaveParams are the first 16 bytes of a custom block as read by the
// built-in custom vertex stage.
type WaveParams struct {
	Origin    mgl32.Vec2
	Amplitude float32
	Frequency float32
}

// WaveParamsSize is the byte size of WaveParams in a custom block.
const WaveParamsSize = 16

// Wave decodes the wave parameters from the block. A nil or short block
// reads as zeros, which disables the displacement.
func (u CustomUniforms) Wave() WaveParams {
	var raw [WaveParamsSize]byte
	if u.Block != nil {
		copy(raw[:], u.Block.Bytes())
	}
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return WaveParams{
		Origin:    mgl32.Vec2{f(0), f(1)},
		Amplitude: f(2),
		Frequency: f(3),
	}
}

// WaveOffset returns the world-space vertical displacement the custom
// vertex stage applies at world position p:
//
//	amplitude * sin(frequency * |p.xz - origin| - time)
func WaveOffset(p mgl32.Vec3, time float32, w WaveParams) float32 {
	if w.Amplitude == 0 {
		return 0
	}
	d := mgl32.Vec2{p.X(), p.Z()}.Sub(w.Origin).Len()
	return w.Amplitude * math32.Sin(w.Frequency*d-time)
}

// WaveSlope returns the partial derivatives of WaveOffset along world X
// and Z at p. The custom vertex stage tilts normals by (-dx, 1, -dz).
func WaveSlope(p mgl32.Vec3, time float32, w WaveParams) (dx, dz float32) {
	if w.Amplitude == 0 {
		return 0, 0
	}
	ox, oz := p.X()-w.Origin.X(), p.Z()-w.Origin.Y()
	d := math32.Sqrt(ox*ox + oz*oz)
	if d < 1e-6 {
		return 0, 0
	}
	k := w.Amplitude * w.Frequency * math32.Cos(w.Frequency*d-time) / d
	return k * ox, k * oz
}
