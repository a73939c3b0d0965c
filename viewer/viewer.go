// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package viewer drives a Scene frame by frame: it polls a Window, moves
// the orbit camera from mouse input, renders through a sandbox.Engine and
// reports the frame rate in the window title.
package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/camera"
)

// Defaults of a fresh Viewer.
const (
	DefaultName   = "MyViewer"
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Scene is the user program run by Run. Render callbacks are invoked
// once per frame in the order Render3D, Render3DCustom, Render2D.
type Scene interface {
	// Init is called once before the first frame.
	Init(v *Viewer) error

	// Update advances the scene to elapsed seconds since Run started.
	Update(elapsed float64)

	Render3D(api *sandbox.API3D)
	Render3DCustom(api *sandbox.API3D)
	Render2D(api *sandbox.API2D)
}

// GUIDrawer is implemented by scenes that draw an overlay after the
// engine frame.
type GUIDrawer interface {
	DrawGUI(v *Viewer)
}

// Viewer is the per-run state shared with the scene. Scenes may change
// the render settings from Init, Update or DrawGUI; the camera belongs
// to the controller.
type Viewer struct {
	Name   string
	Window Window
	Engine *sandbox.Engine

	Camera camera.Orbit

	PointSize  float32
	LineWidth  float32
	Background mgl32.Vec4
	Light      sandbox.Light

	// Custom feeds the custom 3D pass. Nil sends an empty block.
	Custom *sandbox.CustomBlock

	ViewportWidth  int
	ViewportHeight int

	// FPS is the rate measured over the last frame.
	FPS    float64
	Frames uint64
}

// New returns a viewer with the default camera, light and colors.
func New(name string) *Viewer {
	if name == "" {
		name = DefaultName
	}
	return &Viewer{
		Name:           name,
		Camera:         camera.New(),
		PointSize:      1,
		LineWidth:      1,
		Background:     sandbox.DefaultBackground,
		Light:          sandbox.DefaultLight(),
		ViewportWidth:  DefaultWidth,
		ViewportHeight: DefaultHeight,
	}
}

// Cursor2D returns the cursor in 2D pass coordinates: pixels with the
// origin at the bottom-left corner.
func (v *Viewer) Cursor2D() mgl32.Vec2 {
	if v.Window == nil {
		return mgl32.Vec2{}
	}
	x, y := v.Window.CursorPos()
	return mgl32.Vec2{float32(x), float32(float64(v.ViewportHeight) - y)}
}

// AltPressed reports whether either alt key is held.
func (v *Viewer) AltPressed() bool {
	return v.Window != nil && AltPressed(v.Window)
}

// Button reports whether mouse button b is held.
func (v *Viewer) Button(b gpucontext.MouseButton) bool {
	return v.Window != nil && v.Window.MouseButton(b)
}

func (v *Viewer) params(scene Scene, t float64) *sandbox.FrameParams {
	return &sandbox.FrameParams{
		Camera:         v.Camera,
		ViewportWidth:  v.ViewportWidth,
		ViewportHeight: v.ViewportHeight,
		PointSize:      v.PointSize,
		LineWidth:      v.LineWidth,
		Background:     v.Background,
		Light:          v.Light,
		Time:           float32(t),
		Custom:         v.Custom,
		Render3D:       scene.Render3D,
		Render3DCustom: scene.Render3DCustom,
		Render2D:       scene.Render2D,
	}
}
