package camera

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func TestNewInitialState(t *testing.T) {
	c := New()
	if c.Radius != 5 {
		t.Errorf("Radius = %v, want 5", c.Radius)
	}
	if !mgl32.FloatEqualThreshold(c.FOV, mgl32.DegToRad(45), eps) {
		t.Errorf("FOV = %v, want 45°", c.FOV)
	}
	if c.Theta != math32.Pi/3 || c.Phi != math32.Pi/3 {
		t.Errorf("Theta, Phi = %v, %v, want π/3", c.Theta, c.Phi)
	}
	if got := c.Eye.Sub(c.Origin).Len(); !mgl32.FloatEqualThreshold(got, 5, eps) {
		t.Errorf("|Eye-Origin| = %v, want 5", got)
	}
	if c.Up != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Up = %v, want +Y", c.Up)
	}
}

func TestComputeSphericalToCartesian(t *testing.T) {
	c := Orbit{Radius: 2, Theta: 0, Phi: math32.Pi / 2, Origin: mgl32.Vec3{1, 1, 1}}
	c.Compute()
	want := mgl32.Vec3{3, 1, 1}
	if !c.Eye.ApproxEqualThreshold(want, eps) {
		t.Errorf("Eye = %v, want %v", c.Eye, want)
	}
}

func TestUpFlipsPastPole(t *testing.T) {
	c := New()
	c.Phi = math32.Pi + 0.5
	c.Compute()
	if c.Up != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Up = %v, want -Y", c.Up)
	}
}

func TestTurnPoleAvoidance(t *testing.T) {
	deltas := []float32{0.3, -0.7, 1.1, -2.5, 0.05, 3.0, -6.0, 0.0001, -0.0001, 6.2}
	c := New()
	for i := 0; i < 500; i++ {
		d := deltas[i%len(deltas)]
		c.Turn(d, d*0.5)
		if !(c.Phi > 0 && c.Phi < 2*math32.Pi) {
			t.Fatalf("step %d: Phi = %v outside (0, 2π)", i, c.Phi)
		}
		if math.IsNaN(float64(c.Eye.X())) {
			t.Fatalf("step %d: Eye is NaN", i)
		}
	}
}

func TestTurnWraps(t *testing.T) {
	tests := []struct {
		name  string
		start float32
		dPhi  float32
		want  float32
	}{
		{"past zero", 0.2, 0.5, 2*math32.Pi - PoleMargin},
		{"exactly zero", 0.2, 0.2, 2*math32.Pi - PoleMargin},
		{"past two pi", 6.0, -0.3, PoleEpsilon},
		{"inside", 1.0, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Phi = tt.start
			c.Turn(tt.dPhi, 0)
			if !mgl32.FloatEqualThreshold(c.Phi, tt.want, eps) {
				t.Errorf("Phi = %v, want %v", c.Phi, tt.want)
			}
		})
	}
}

func TestZoomProportional(t *testing.T) {
	c := New()
	c.Zoom(0.5)
	if !mgl32.FloatEqualThreshold(c.Radius, 7.5, eps) {
		t.Errorf("Radius = %v, want 7.5", c.Radius)
	}
	c.Zoom(-0.2)
	if !mgl32.FloatEqualThreshold(c.Radius, 6, eps) {
		t.Errorf("Radius = %v, want 6", c.Radius)
	}
}

func TestZoomFloorResets(t *testing.T) {
	c := New()
	eye := c.Eye
	origin := c.Origin

	c.Zoom(-10)

	if c.Radius != ResetRadius {
		t.Fatalf("Radius = %v, want %v", c.Radius, ResetRadius)
	}
	if c.Origin.ApproxEqualThreshold(origin, eps) {
		t.Errorf("Origin unchanged at %v", c.Origin)
	}
	wantOrigin := eye.Add(origin.Sub(eye).Normalize().Mul(ResetRadius))
	if !c.Origin.ApproxEqualThreshold(wantOrigin, eps) {
		t.Errorf("Origin = %v, want %v", c.Origin, wantOrigin)
	}
	if got := c.Eye.Sub(c.Origin).Len(); !mgl32.FloatEqualThreshold(got, ResetRadius, 1e-3) {
		t.Errorf("|Eye-Origin| = %v, want %v", got, ResetRadius)
	}
}

func TestPanScalesWithRadius(t *testing.T) {
	near := New()
	far := New()
	far.Radius = 20
	far.Compute()

	near.Pan(0.01, 0)
	far.Pan(0.01, 0)

	dn := near.Origin.Len()
	df := far.Origin.Len()
	if !mgl32.FloatEqualThreshold(df, dn*4, 1e-3) {
		t.Errorf("far pan %v, want 4x near pan %v", df, dn)
	}
}

func TestPanVerticalUsesWorldUp(t *testing.T) {
	c := New()
	c.Pan(0, 0.1)
	want := mgl32.Vec3{0, 0.1 * 5 * 2, 0}
	if !c.Origin.ApproxEqualThreshold(want, eps) {
		t.Errorf("Origin = %v, want %v", c.Origin, want)
	}
	if c.Up != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Up = %v after Compute, want +Y", c.Up)
	}
}

func TestPanHorizontalKeepsDistance(t *testing.T) {
	c := New()
	c.Pan(0.05, 0)
	if got := c.Eye.Sub(c.Origin).Len(); !mgl32.FloatEqualThreshold(got, c.Radius, eps) {
		t.Errorf("|Eye-Origin| = %v, want %v", got, c.Radius)
	}
	if !mgl32.FloatEqualThreshold(c.Origin.Y(), 0, eps) {
		t.Errorf("Origin.Y = %v, want 0", c.Origin.Y())
	}
}

func TestViewProjection(t *testing.T) {
	c := New()
	v := c.View()
	o := v.Mul4x1(c.Origin.Vec4(1))
	if !mgl32.FloatEqualThreshold(o.Z(), -c.Radius, 1e-3) {
		t.Errorf("origin view depth = %v, want %v", o.Z(), -c.Radius)
	}
	p := c.Projection(16.0/9.0, 0.1, 100)
	if p.At(3, 2) != -1 {
		t.Errorf("Projection[3][2] = %v, want -1", p.At(3, 2))
	}
}
