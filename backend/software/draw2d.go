package software

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/internal/raster"
)

// draw2D runs the 2D program. Positions are pixels with the origin at the
// bottom-left corner and y up.
func (d *Device) draw2D(va *vertexArray, topo sandbox.Topology, order []uint32, pos *vertexBuffer) error {
	colors, err := d.attrib(va, sandbox.Attrib2DColor)
	if err != nil {
		return err
	}
	if colors != nil && colors.count() < pos.count() {
		return ErrAttributeMismatch
	}

	if topo == sandbox.DrawTriangles {
		if c, ok := uniformColor(colors, order); ok {
			d.fillVector(pos, order, c)
			return nil
		}
	}

	w, h := float32(d.target.Width), float32(d.target.Height)
	verts := make([]raster.Vertex, pos.count())
	for i := range verts {
		p := vec3At(pos, i)
		verts[i].Clip = mgl32.Vec4{p[0]/w*2 - 1, p[1]/h*2 - 1, 0, 1}
		c := vec4At(colors, i, mgl32.Vec4{1, 1, 1, 1})
		copy(verts[i].Vary[:], c[:])
	}
	d.rasterize(verts, order, topo, shade2D, false)
	return nil
}

// uniformColor reports whether every vertex in order has the same color.
func uniformColor(colors *vertexBuffer, order []uint32) (mgl32.Vec4, bool) {
	white := mgl32.Vec4{1, 1, 1, 1}
	if colors == nil {
		return white, true
	}
	if len(order) == 0 {
		return white, false
	}
	first := vec4At(colors, int(order[0]), white)
	for _, ix := range order[1:] {
		if vec4At(colors, int(ix), white) != first {
			return first, false
		}
	}
	return first, true
}

// fillVector fills single-color triangles with an anti-aliased coverage
// rasterizer. Triangles are wound the same way so that shared edges
// accumulate to full coverage.
func (d *Device) fillVector(pos *vertexBuffer, order []uint32, c mgl32.Vec4) {
	t := d.target
	if d.vec == nil {
		d.vec = vector.NewRasterizer(t.Width, t.Height)
	} else {
		d.vec.Reset(t.Width, t.Height)
	}
	h := float32(t.Height)
	pt := func(ix uint32) (float32, float32) {
		p := vec3At(pos, int(ix))
		return p[0], h - p[1]
	}
	for i := 0; i+2 < len(order); i += 3 {
		ax, ay := pt(order[i])
		bx, by := pt(order[i+1])
		cx, cy := pt(order[i+2])
		if (bx-ax)*(cy-ay)-(by-ay)*(cx-ax) < 0 {
			bx, by, cx, cy = cx, cy, bx, by
		}
		d.vec.MoveTo(ax, ay)
		d.vec.LineTo(bx, by)
		d.vec.LineTo(cx, cy)
		d.vec.ClosePath()
	}
	src := image.NewUniform(nrgba(c))
	d.vec.Draw(t.Color, t.Color.Bounds(), src, image.Point{})
}

func nrgba(c mgl32.Vec4) color.NRGBA {
	b := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return color.NRGBA{R: b(c[0]), G: b(c[1]), B: b(c[2]), A: b(c[3])}
}
