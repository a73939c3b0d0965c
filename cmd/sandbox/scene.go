package main

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/viewer"
)

var (
	white = mgl32.Vec4{1, 1, 1, 1}
	gray  = mgl32.Vec4{0.5, 0.5, 0.5, 1}
	floor = mgl32.Vec4{0.9, 0.9, 0.9, 1}
	water = mgl32.Vec4{0, 0.2, 1, 1}
)

const (
	cubeSize = 0.5
	padding  = 50
)

// demoScene is the stock sandbox scene: a floor with grid and axes, a
// cube, a rotating bone, a ball, a wavy plane and 2D shapes that follow
// the cursor.
type demoScene struct {
	v *viewer.Viewer

	cubePosition mgl32.Vec3
	ballPosition mgl32.Vec3
	boneAngle    float32
	wave         bool
}

func newDemoScene(wave bool) *demoScene {
	return &demoScene{
		cubePosition: mgl32.Vec3{1, 0.25, -1},
		ballPosition: mgl32.Vec3{-1, 0.5, 1},
		wave:         wave,
	}
}

func (s *demoScene) Init(v *viewer.Viewer) error {
	s.v = v
	return nil
}

func (s *demoScene) Update(elapsed float64) {
	s.boneAngle = float32(elapsed)
}

func (s *demoScene) Render3DCustom(api *sandbox.API3D) {
	if s.wave {
		api.HorizontalPlane(mgl32.Vec3{0, 2, 0}, mgl32.Vec2{4, 4}, 50, water)
	}
}

func (s *demoScene) Render3D(api *sandbox.API3D) {
	api.HorizontalPlane(mgl32.Vec3{}, mgl32.Vec2{10, 10}, 1, floor)
	api.Grid(10, 10, gray, nil)
	api.AxisXYZ(nil)

	cubeModel := mgl32.Translate3D(s.cubePosition.Elem())
	api.SolidCube(cubeSize, white, &cubeModel)
	h := float32(cubeSize)
	api.Lines([]mgl32.Vec3{
		{0.5 * h, 0.5 * h, 0.5 * h}, {0, h, 0},
		{0.5 * h, 0.5 * h, -0.5 * h}, {0, h, 0},
		{-0.5 * h, 0.5 * h, 0.5 * h}, {0, h, 0},
		{-0.5 * h, 0.5 * h, -0.5 * h}, {0, h, 0},
	}, white, &cubeModel)

	q := mgl32.QuatRotate(s.boneAngle, mgl32.Vec3{0, 1, 0})
	child := mgl32.Vec3{1, 1, 0}
	api.Bone(child, white, q, mgl32.Vec3{})
	api.SolidSphere(q.Rotate(child), 0.05, 10, 10, white)

	api.SolidSphere(s.ballPosition, 0.5, 100, 100, white)
}

func (s *demoScene) Render2D(api *sandbox.API2D) {
	mouse := s.v.Cursor2D()
	pressed := s.v.Button(gpucontext.MouseButtonLeft)
	pad := mgl32.Vec2{padding, padding}

	switch {
	case s.v.AltPressed() && pressed:
		api.CircleFill(mouse, padding, 10, white)
	case s.v.AltPressed():
		api.CircleContour(mouse, padding, 10, white)
	case pressed:
		api.QuadFill(mouse.Sub(pad), mouse.Add(pad), white)
	default:
		api.QuadContour(mouse.Sub(pad), mouse.Add(pad), white)
	}

	mid := float32(s.v.ViewportWidth) * 0.5
	api.Arrow(mgl32.Vec2{mid, padding}, mgl32.Vec2{mid, 2 * padding}, padding*0.25, 0.3, white)
}

// orbitScript returns a headless input timeline that parks the cursor in
// the middle of the window and then alt-drags it to the right, turning
// the camera a little every frame.
func orbitScript(frames, width, height int) []viewer.Input {
	left := []gpucontext.MouseButton{gpucontext.MouseButtonLeft}
	alt := []gpucontext.Key{gpucontext.KeyLeftAlt}
	script := make([]viewer.Input, 0, frames)
	x, y := float64(width)/2, float64(height)/2
	for i := range frames {
		in := viewer.Input{CursorX: x, CursorY: y, Buttons: left}
		if i > 0 {
			in.CursorX = x + float64(4*i)
			in.Keys = alt
		}
		script = append(script, in)
	}
	return script
}
