package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/internal/parallel"
)

// NumVaryings is the number of interpolated floats per vertex.
const NumVaryings = 10

// Varyings are the per-vertex values interpolated across a primitive.
type Varyings [NumVaryings]float32

// Vertex is a clip-space vertex.
type Vertex struct {
	Clip mgl32.Vec4
	Vary Varyings
}

// FragmentFunc shades one fragment from its interpolated varyings and
// returns a straight-alpha color.
type FragmentFunc func(v *Varyings) mgl32.Vec4

// State holds the fixed-function state of a draw.
type State struct {
	DepthTest bool
	Shade     FragmentFunc
}

// nearEpsilon keeps projected w away from zero after clipping.
const nearEpsilon = 1e-6

type screenVertex struct {
	x, y, z float32
	invW    float32
	vary    Varyings // divided by w
}

func lerpVertex(a, b Vertex, t float32) Vertex {
	var v Vertex
	v.Clip = a.Clip.Add(b.Clip.Sub(a.Clip).Mul(t))
	for i := range v.Vary {
		v.Vary[i] = a.Vary[i] + (b.Vary[i]-a.Vary[i])*t
	}
	return v
}

// nearDistance is positive in front of the GL near plane z = -w.
func nearDistance(v Vertex) float32 { return v.Clip.Z() + v.Clip.W() }

func (t *Target) project(v Vertex) screenVertex {
	w := max(v.Clip.W(), nearEpsilon)
	inv := 1 / w
	s := screenVertex{
		x:    (v.Clip.X()*inv*0.5 + 0.5) * float32(t.Width),
		y:    (0.5 - v.Clip.Y()*inv*0.5) * float32(t.Height),
		z:    v.Clip.Z()*inv*0.5 + 0.5,
		invW: inv,
	}
	for i, f := range v.Vary {
		s.vary[i] = f * inv
	}
	return s
}

// Triangle clips a triangle against the near plane and fills the rows of
// band it covers.
func (t *Target) Triangle(a, b, c Vertex, st *State, band parallel.Band) {
	var poly [4]Vertex
	n := clipNear([3]Vertex{a, b, c}, &poly)
	if n < 3 {
		return
	}
	p0 := t.project(poly[0])
	for i := 1; i+1 < n; i++ {
		t.fill(p0, t.project(poly[i]), t.project(poly[i+1]), st, band)
	}
}

// clipNear clips a triangle against z + w >= 0 with Sutherland-Hodgman.
// A triangle crossing one plane yields at most four vertices.
func clipNear(in [3]Vertex, out *[4]Vertex) int {
	n := 0
	for i := range in {
		cur, next := in[i], in[(i+1)%3]
		dc, dn := nearDistance(cur), nearDistance(next)
		if dc >= 0 {
			out[n] = cur
			n++
		}
		if (dc >= 0) != (dn >= 0) {
			out[n] = lerpVertex(cur, next, dc/(dc-dn))
			n++
		}
	}
	return n
}

func edge(a, b *screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// fill rasterizes a screen-space triangle. Pixels are covered when their
// center lies inside or on an edge. Both windings are drawn.
func (t *Target) fill(a, b, c screenVertex, st *State, band parallel.Band) {
	area := edge(&a, &b, c.x, c.y)
	if area == 0 || math32.IsNaN(area) {
		return
	}
	inv := 1 / area

	x0 := max(0, int(math32.Floor(min(a.x, b.x, c.x))))
	x1 := min(t.Width-1, int(math32.Ceil(max(a.x, b.x, c.x))))
	y0 := max(band.Y0, 0, int(math32.Floor(min(a.y, b.y, c.y))))
	y1 := min(band.Y1-1, t.Height-1, int(math32.Ceil(max(a.y, b.y, c.y))))

	var v Varyings
	for y := y0; y <= y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float32(x) + 0.5
			w0 := edge(&b, &c, px, py) * inv
			w1 := edge(&c, &a, px, py) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			if z < 0 || z > 1 {
				continue
			}
			i := y*t.Width + x
			if st.DepthTest && z >= t.Depth[i] {
				continue
			}
			iw := w0*a.invW + w1*b.invW + w2*c.invW
			for k := range v {
				v[k] = (w0*a.vary[k] + w1*b.vary[k] + w2*c.vary[k]) / iw
			}
			t.blend(i, st.Shade(&v))
			if st.DepthTest {
				t.Depth[i] = z
			}
		}
	}
}

// Line draws a segment as a screen-aligned quad width pixels wide with
// half-pixel extensions at both ends.
func (t *Target) Line(a, b Vertex, width float32, st *State, band parallel.Band) {
	da, db := nearDistance(a), nearDistance(b)
	switch {
	case da < 0 && db < 0:
		return
	case da < 0:
		a = lerpVertex(a, b, da/(da-db))
	case db < 0:
		b = lerpVertex(b, a, db/(db-da))
	}
	pa, pb := t.project(a), t.project(b)

	half := max(width, 1) / 2
	dx, dy := pb.x-pa.x, pb.y-pa.y
	l := math32.Sqrt(dx*dx + dy*dy)
	if l < 1e-6 {
		t.quad(pa, half, st, band)
		return
	}
	dx, dy = dx/l*half, dy/l*half
	nx, ny := -dy, dx

	corner := func(s screenVertex, ox, oy float32) screenVertex {
		s.x += ox
		s.y += oy
		return s
	}
	a0 := corner(pa, nx-dx, ny-dy)
	a1 := corner(pa, -nx-dx, -ny-dy)
	b0 := corner(pb, nx+dx, ny+dy)
	b1 := corner(pb, -nx+dx, -ny+dy)
	t.fill(a0, a1, b1, st, band)
	t.fill(a0, b1, b0, st, band)
}

// Point draws a square of size pixels centered on v.
func (t *Target) Point(v Vertex, size float32, st *State, band parallel.Band) {
	if nearDistance(v) < 0 {
		return
	}
	t.quad(t.project(v), max(size, 1)/2, st, band)
}

func (t *Target) quad(c screenVertex, half float32, st *State, band parallel.Band) {
	corner := func(ox, oy float32) screenVertex {
		s := c
		s.x += ox
		s.y += oy
		return s
	}
	p00, p10 := corner(-half, -half), corner(half, -half)
	p11, p01 := corner(half, half), corner(-half, half)
	t.fill(p00, p10, p11, st, band)
	t.fill(p00, p11, p01, st, band)
}
