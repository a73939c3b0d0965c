// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sandbox

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/camera"
	"github.com/gogpu/sandbox/scratch"
)

// Light is the light and material state of the 3D passes.
// Position is in world space.
type Light struct {
	Position    mgl32.Vec4
	Ambient     float32
	Specular    float32
	SpecularPow float32
}

// DefaultLight returns the light used by a fresh viewer.
func DefaultLight() Light {
	return Light{
		Position:    mgl32.Vec4{1, 10, 1, 1},
		Ambient:     0.1,
		Specular:    0.5,
		SpecularPow: 100,
	}
}

// DefaultBackground is the clear color of a fresh viewer.
var DefaultBackground = mgl32.Vec4{0.1, 0.1, 0.1, 1}

// FrameParams is the read-only snapshot a frame is rendered from.
// Nil callbacks skip their pass.
type FrameParams struct {
	Camera camera.Orbit

	ViewportWidth  int
	ViewportHeight int

	PointSize  float32
	LineWidth  float32
	Background mgl32.Vec4
	Light      Light

	// Time and Custom feed the custom vertex pass.
	Time   float32
	Custom *CustomBlock

	Render3D       func(api *API3D)
	Render3DCustom func(api *API3D)
	Render2D       func(api *API2D)
}

// FrameStats summarizes the last rendered frame.
type FrameStats struct {
	Frame   uint64
	Draws3D int
	Draws2D int
	// ArenaPeak is the most scratch memory in use during this frame.
	ArenaPeak int
	Skipped   bool
}

// Engine renders frames on a FrameDevice.
type Engine struct {
	dev    FrameDevice
	arena  *scratch.Arena
	opts   engineOptions
	frames uint64
	stats  FrameStats
}

// NewEngine creates an engine drawing on dev. Without WithArena the
// engine allocates an arena of scratch.DefaultCapacity.
func NewEngine(dev FrameDevice, opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.arena == nil {
		o.arena = scratch.New(scratch.DefaultCapacity)
	}
	propagateLogger(dev, Logger())
	Logger().Debug("sandbox: engine created",
		"arena", o.arena.Capacity(), "near", o.near, "far", o.far)
	return &Engine{dev: dev, arena: o.arena, opts: o}
}

// Device returns the engine's device.
func (e *Engine) Device() FrameDevice { return e.dev }

// Arena returns the engine's scratch arena.
func (e *Engine) Arena() *scratch.Arena { return e.arena }

// Stats returns the statistics of the last Frame call.
func (e *Engine) Stats() FrameStats { return e.stats }

// SetLogger hands l to the device if it keeps its own logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	propagateLogger(e.dev, l)
}

// ReloadShaders rebuilds the device's shader programs if it supports it.
func (e *Engine) ReloadShaders() error {
	r, ok := e.dev.(ShaderReloader)
	if !ok {
		return nil
	}
	if err := r.ReloadShaders(); err != nil {
		return fmt.Errorf("reload shaders: %w", err)
	}
	Logger().Info("sandbox: shaders reloaded")
	return nil
}

// Frame renders one frame: clear, standard 3D pass, custom 3D pass, 2D
// pass. A zero-sized viewport skips the frame. Errors of every pass and
// of the device are joined into the result.
func (e *Engine) Frame(p *FrameParams) error {
	if e.dev == nil {
		return ErrNilDevice
	}
	e.frames++
	e.stats = FrameStats{Frame: e.frames}
	e.arena.ResetPeak()
	if p.ViewportWidth <= 0 || p.ViewportHeight <= 0 {
		e.stats.Skipped = true
		return nil
	}

	err := e.dev.BeginFrame(FrameTarget{
		Width:     p.ViewportWidth,
		Height:    p.ViewportHeight,
		Clear:     p.Background,
		PointSize: p.PointSize,
		LineWidth: p.LineWidth,
	})
	if err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	aspect := float32(p.ViewportWidth) / float32(p.ViewportHeight)
	view := p.Camera.View()
	light := view.Mul4x1(p.Light.Position)
	if light.W() != 0 {
		light = light.Mul(1 / light.W())
	}
	frame := FrameUniforms{
		View:        view,
		Projection:  p.Camera.Projection(aspect, e.opts.near, e.opts.far),
		Light:       light.Vec3(),
		Ambient:     p.Light.Ambient,
		Specular:    p.Light.Specular,
		SpecularPow: p.Light.SpecularPow,
	}

	var errs []error
	if p.Render3D != nil {
		errs = append(errs, e.pass3D(&ShaderState{Kind: ShaderStandard, Frame: frame}, p.Render3D))
	}
	if p.Render3DCustom != nil {
		errs = append(errs, e.pass3D(&ShaderState{
			Kind:   ShaderCustomVertex,
			Frame:  frame,
			Custom: CustomUniforms{Time: p.Time, Block: p.Custom},
		}, p.Render3DCustom))
	}
	if p.Render2D != nil {
		errs = append(errs, e.pass2D(&ShaderState{
			Kind:     Shader2D,
			Viewport: mgl32.Vec2{float32(p.ViewportWidth), float32(p.ViewportHeight)},
		}, p.Render2D))
	}
	if err := e.dev.EndFrame(); err != nil {
		errs = append(errs, fmt.Errorf("end frame: %w", err))
	}
	e.stats.ArenaPeak = e.arena.Peak()
	return errors.Join(errs...)
}

func (e *Engine) pass3D(state *ShaderState, render func(*API3D)) error {
	if err := e.dev.UseShader(state); err != nil {
		return fmt.Errorf("%v pass: use shader: %w", state.Kind, err)
	}
	mark := e.arena.Offset()
	api := NewAPI3D(e.dev, e.arena)
	render(api)
	e.stats.Draws3D += api.Draws()
	if err := e.checkArena(state.Kind, mark); err != nil {
		return err
	}
	if err := api.Err(); err != nil {
		return fmt.Errorf("%v pass: %w", state.Kind, err)
	}
	return nil
}

func (e *Engine) pass2D(state *ShaderState, render func(*API2D)) error {
	if err := e.dev.UseShader(state); err != nil {
		return fmt.Errorf("%v pass: use shader: %w", state.Kind, err)
	}
	mark := e.arena.Offset()
	api := NewAPI2D(e.dev, e.arena)
	render(api)
	e.stats.Draws2D += api.Draws()
	if err := e.checkArena(state.Kind, mark); err != nil {
		return err
	}
	if err := api.Err(); err != nil {
		return fmt.Errorf("%v pass: %w", state.Kind, err)
	}
	return nil
}

// checkArena reports scratch blocks left live by a callback. An arena that
// was empty when the pass started is reset.
func (e *Engine) checkArena(kind ShaderKind, mark int) error {
	if e.arena.Offset() == mark {
		return nil
	}
	leaked := e.arena.Offset() - mark
	Logger().Warn("sandbox: scratch blocks left live by callback", "pass", kind, "bytes", leaked)
	if mark == 0 {
		e.arena.Reset()
	}
	return fmt.Errorf("%v pass: %w (%d bytes)", kind, ErrArenaLeak, leaked)
}
