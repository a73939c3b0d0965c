//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox"
)

// Uniform block sizes in bytes, matching the WGSL structs.
const (
	frameUniformSize    = 160 // Frame: view, projection, light, material
	objectUniformSize   = 128 // Object: model, normal
	viewportUniformSize = 16  // Viewport: size
	customBlockAlign    = 16  // array<vec4<f32>> element
)

func putFloat(b []byte, off int, f float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
}

// putMat4 writes m column-major, the layout of WGSL mat4x4<f32>.
func putMat4(b []byte, off int, m mgl32.Mat4) {
	for i, f := range m {
		putFloat(b, off+4*i, f)
	}
}

func frameUniforms(u *sandbox.FrameUniforms, time float32) []byte {
	b := make([]byte, frameUniformSize)
	putMat4(b, 0, u.View)
	putMat4(b, 64, u.Projection)
	putFloat(b, 128, u.Light.X())
	putFloat(b, 132, u.Light.Y())
	putFloat(b, 136, u.Light.Z())
	putFloat(b, 140, u.Ambient)
	putFloat(b, 144, u.Specular)
	putFloat(b, 148, u.SpecularPow)
	putFloat(b, 152, time)
	return b
}

func objectUniforms(model mgl32.Mat4) []byte {
	b := make([]byte, objectUniformSize)
	putMat4(b, 0, model)
	putMat4(b, 64, normalMatrix(model).Mat4())
	return b
}

func viewportUniforms(size mgl32.Vec2) []byte {
	b := make([]byte, viewportUniformSize)
	putFloat(b, 0, size.X())
	putFloat(b, 4, size.Y())
	return b
}

// customStorage pads the custom block to whole vec4 elements. An empty
// block becomes one zero element, which disables the wave.
func customStorage(block *sandbox.CustomBlock) []byte {
	var raw []byte
	if block != nil {
		raw = block.Bytes()
	}
	n := max(len(raw), customBlockAlign)
	n = (n + customBlockAlign - 1) / customBlockAlign * customBlockAlign
	b := make([]byte, n)
	copy(b, raw)
	return b
}

// normalMatrix returns the inverse transpose of the upper 3x3 of m, or
// the upper 3x3 itself when it is singular.
func normalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return m3
	}
	return m3.Inv().Transpose()
}
