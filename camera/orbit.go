// Package camera implements the orbit camera used by the viewer.
//
// The camera is described by a pivot point and spherical coordinates
// around it. Eye and Up are derived from those four values after every
// operation and are never set on their own.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults and limits of the orbit state machine.
const (
	// DefaultFOV is the vertical field of view in radians (45 degrees).
	DefaultFOV = math32.Pi / 4

	// DefaultRadius is the initial distance between eye and pivot.
	DefaultRadius = 5

	// MinRadius is the distance under which a zoom flies through the pivot.
	MinRadius = 0.1

	// ResetRadius is the distance restored after a fly-through.
	ResetRadius = 10

	// PoleEpsilon is the polar angle used when wrapping past 2π.
	PoleEpsilon = 0.00001

	// PoleMargin keeps the polar angle away from 2π.
	PoleMargin = 0.1
)

// Orbit is a spherical-coordinate camera around Origin.
type Orbit struct {
	FOV    float32
	Radius float32
	Theta  float32 // azimuth
	Phi    float32 // polar angle, kept inside (0, 2π)
	Origin mgl32.Vec3

	// Derived by Compute.
	Eye mgl32.Vec3
	Up  mgl32.Vec3
}

// New returns a camera in its initial state: 45° field of view, radius 5,
// theta = phi = π/3, looking at the world origin.
func New() Orbit {
	c := Orbit{
		FOV:    DefaultFOV,
		Radius: DefaultRadius,
		Theta:  math32.Pi / 3,
		Phi:    math32.Pi / 3,
	}
	c.Compute()
	return c
}

// worldUp returns the signed vertical axis. The sign flips once the polar
// angle passes π so that Up stays consistent across the pole.
func (c *Orbit) worldUp() mgl32.Vec3 {
	if c.Phi < math32.Pi {
		return mgl32.Vec3{0, 1, 0}
	}
	return mgl32.Vec3{0, -1, 0}
}

// Compute derives Eye and Up from Origin, Radius, Theta and Phi.
func (c *Orbit) Compute() {
	sinPhi, cosPhi := math32.Sincos(c.Phi)
	sinTheta, cosTheta := math32.Sincos(c.Theta)
	c.Eye = c.Origin.Add(mgl32.Vec3{
		c.Radius * cosTheta * sinPhi,
		c.Radius * cosPhi,
		c.Radius * sinTheta * sinPhi,
	})
	c.Up = c.worldUp()
}

// Zoom scales the radius by (1 + factor). When the result falls under
// MinRadius the camera flies through: the radius resets to ResetRadius
// and the pivot moves in front of the eye along the view direction.
func (c *Orbit) Zoom(factor float32) {
	c.Radius += factor * c.Radius
	if c.Radius < MinRadius {
		c.Radius = ResetRadius
		look := c.Origin.Sub(c.Eye)
		if look.Len() > 0 {
			c.Origin = c.Eye.Add(look.Normalize().Mul(c.Radius))
		}
	}
	c.Compute()
}

// Turn rotates the camera around the pivot. Phi wraps before it reaches
// 0 or 2π so the up vector is never degenerate.
func (c *Orbit) Turn(dPhi, dTheta float32) {
	c.Theta += dTheta
	c.Phi -= dPhi
	if c.Phi >= 2*math32.Pi-PoleMargin {
		c.Phi = PoleEpsilon
	} else if c.Phi <= 0 {
		c.Phi = 2*math32.Pi - PoleMargin
	}
	c.Compute()
}

// Pan moves the pivot in the view plane. The displacement scales with the
// radius so that panning feels the same at any zoom level.
func (c *Orbit) Pan(dx, dy float32) {
	up := c.worldUp()
	fwd := c.Origin.Sub(c.Eye).Normalize()
	side := fwd.Cross(up).Normalize()
	c.Up = side.Cross(fwd).Normalize()

	c.Origin = c.Origin.
		Add(up.Mul(dy * c.Radius * 2)).
		Sub(side.Mul(dx * c.Radius * 2))
	c.Compute()
}

// View returns the world-to-view matrix.
func (c *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Origin, c.Up)
}

// Projection returns the perspective matrix for the given aspect ratio and
// clip planes.
func (c *Orbit) Projection(aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, aspect, near, far)
}
