package software

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/internal/parallel"
	"github.com/gogpu/sandbox/internal/raster"
)

// Varying slots of 3D vertices.
const (
	varyColor  = 0 // rgba
	varyNormal = 4 // view space
	varyPos    = 7 // view space
)

// Draw implements sandbox.Device.
func (d *Device) Draw(call sandbox.DrawCall) error {
	if !d.inFrame {
		return ErrNoFrame
	}
	if d.shader == nil {
		return ErrNoShader
	}
	va, ok := d.vaos[call.VAO]
	if !ok {
		return fmt.Errorf("draw: %w: vertex array %d", ErrUnknownHandle, call.VAO)
	}
	if call.Count <= 0 {
		return nil
	}

	pos, err := d.attrib(va, sandbox.Attrib3DPosition)
	if err != nil {
		return err
	}
	if pos == nil {
		return ErrMissingAttribute
	}
	want := 3
	if d.shader.Kind == sandbox.Shader2D {
		want = 2
	}
	if pos.components != want {
		return fmt.Errorf("%w: %d position components for %v shader", ErrAttributeMismatch, pos.components, d.shader.Kind)
	}

	order, err := d.assemble(va, call, pos.count())
	if err != nil {
		return err
	}

	if d.shader.Kind == sandbox.Shader2D {
		return d.draw2D(va, call.Topology, order, pos)
	}
	verts, err := d.transform3D(va, call, pos)
	if err != nil {
		return err
	}
	d.rasterize(verts, order, call.Topology, d.shade3D(call.Lighting), true)
	return nil
}

// attrib returns the vertex buffer bound at loc, or nil.
func (d *Device) attrib(va *vertexArray, loc int) (*vertexBuffer, error) {
	h, ok := va.attribs[loc]
	if !ok {
		return nil, nil
	}
	b, ok := d.buffers[h]
	if !ok {
		return nil, fmt.Errorf("draw: %w: buffer %d", ErrUnknownHandle, h)
	}
	return &b.vertex, nil
}

// assemble returns the vertex order of the draw: the index buffer when
// indexed, else 0..count-1.
func (d *Device) assemble(va *vertexArray, call sandbox.DrawCall, vertices int) ([]uint32, error) {
	if !call.Indexed {
		if call.Count > vertices {
			return nil, fmt.Errorf("%w: %d vertices drawn, %d uploaded", ErrIndexRange, call.Count, vertices)
		}
		order := make([]uint32, call.Count)
		for i := range order {
			order[i] = uint32(i) // #nosec G115 -- bounded by the vertex count
		}
		return order, nil
	}
	b, ok := d.buffers[va.index]
	if !ok || va.index == 0 {
		return nil, fmt.Errorf("%w: indexed draw without index buffer", ErrMissingAttribute)
	}
	if call.Count > len(b.indices) {
		return nil, fmt.Errorf("%w: %d indices drawn, %d uploaded", ErrIndexRange, call.Count, len(b.indices))
	}
	order := b.indices[:call.Count]
	for _, ix := range order {
		if int(ix) >= vertices {
			return nil, fmt.Errorf("%w: index %d, %d vertices", ErrIndexRange, ix, vertices)
		}
	}
	return order, nil
}

func vec3At(b *vertexBuffer, i int) mgl32.Vec3 {
	o := i * b.components
	var v mgl32.Vec3
	copy(v[:], b.data[o:o+min(b.components, 3)])
	return v
}

func vec4At(b *vertexBuffer, i int, def mgl32.Vec4) mgl32.Vec4 {
	if b == nil {
		return def
	}
	o := i * b.components
	v := def
	copy(v[:], b.data[o:o+min(b.components, 4)])
	return v
}

// transform3D runs the vertex stage of the standard and custom programs.
func (d *Device) transform3D(va *vertexArray, call sandbox.DrawCall, pos *vertexBuffer) ([]raster.Vertex, error) {
	normals, err := d.attrib(va, sandbox.Attrib3DNormal)
	if err != nil {
		return nil, err
	}
	colors, err := d.attrib(va, sandbox.Attrib3DColor)
	if err != nil {
		return nil, err
	}
	if normals != nil && normals.count() < pos.count() {
		return nil, fmt.Errorf("%w: %d normals for %d positions", ErrAttributeMismatch, normals.count(), pos.count())
	}
	if colors != nil && colors.count() < pos.count() {
		return nil, fmt.Errorf("%w: %d colors for %d positions", ErrAttributeMismatch, colors.count(), pos.count())
	}

	u := &d.shader.Frame
	custom := d.shader.Kind == sandbox.ShaderCustomVertex
	modelNormal := normalMatrix(call.Model)
	viewRot := u.View.Mat3()

	out := make([]raster.Vertex, pos.count())
	for i := range out {
		world := call.Model.Mul4x1(vec3At(pos, i).Vec4(1))
		var n mgl32.Vec3
		if normals != nil {
			n = modelNormal.Mul3x1(vec3At(normals, i))
		}
		if custom {
			p := world.Vec3()
			world[1] += sandbox.WaveOffset(p, d.shader.Custom.Time, d.wave)
			if normals != nil {
				dx, dz := sandbox.WaveSlope(p, d.shader.Custom.Time, d.wave)
				n = safeNormalize(n).Add(mgl32.Vec3{-dx, 0, -dz})
			}
		}
		viewPos := u.View.Mul4x1(world)

		v := &out[i]
		v.Clip = u.Projection.Mul4x1(viewPos)
		c := vec4At(colors, i, mgl32.Vec4{1, 1, 1, 1})
		copy(v.Vary[varyColor:], c[:])
		nv := viewRot.Mul3x1(n)
		copy(v.Vary[varyNormal:], nv[:])
		vp := viewPos.Vec3()
		copy(v.Vary[varyPos:], vp[:])
	}
	return out, nil
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

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return v
	}
	return v.Mul(1 / l)
}

// shade3D returns the fragment stage of the 3D programs: Phong lighting
// in view space when lit, the vertex color otherwise.
func (d *Device) shade3D(lit bool) raster.FragmentFunc {
	u := d.shader.Frame
	return func(v *raster.Varyings) mgl32.Vec4 {
		c := mgl32.Vec4{v[varyColor], v[varyColor+1], v[varyColor+2], v[varyColor+3]}
		if !lit {
			return c
		}
		n := safeNormalize(mgl32.Vec3{v[varyNormal], v[varyNormal+1], v[varyNormal+2]})
		p := mgl32.Vec3{v[varyPos], v[varyPos+1], v[varyPos+2]}
		l := safeNormalize(u.Light.Sub(p))
		diffuse := max(n.Dot(l), 0)
		r := n.Mul(2 * n.Dot(l)).Sub(l)
		e := safeNormalize(p.Mul(-1))
		spec := u.Specular * math32.Pow(max(r.Dot(e), 0), u.SpecularPow)
		k := u.Ambient + diffuse
		return mgl32.Vec4{c[0]*k + spec, c[1]*k + spec, c[2]*k + spec, c[3]}
	}
}

// shade2D passes the interpolated vertex color through.
func shade2D(v *raster.Varyings) mgl32.Vec4 {
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}
}

// rasterize assembles primitives from order and fills them band by band.
func (d *Device) rasterize(verts []raster.Vertex, order []uint32, topo sandbox.Topology, shade raster.FragmentFunc, depth bool) {
	st := &raster.State{DepthTest: depth, Shade: shade}
	t := d.target
	lineWidth, pointSize := d.frame.LineWidth, d.frame.PointSize

	d.pool.ForBands(t.Height, func(b parallel.Band) {
		switch topo {
		case sandbox.DrawTriangles:
			for i := 0; i+2 < len(order); i += 3 {
				t.Triangle(verts[order[i]], verts[order[i+1]], verts[order[i+2]], st, b)
			}
		case sandbox.DrawLines:
			for i := 0; i+1 < len(order); i += 2 {
				t.Line(verts[order[i]], verts[order[i+1]], lineWidth, st, b)
			}
		case sandbox.DrawPoints:
			for _, ix := range order {
				t.Point(verts[ix], pointSize, st, b)
			}
		}
	})
}
