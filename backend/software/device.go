// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements sandbox.FrameDevice on the CPU.
//
// Triangles, lines and points are rasterized with a depth buffer and
// perspective-correct Phong shading. Single-color 2D fills go through
// golang.org/x/image/vector for anti-aliased edges. Rows are split into
// bands and shaded on a worker pool.
//
// The device needs no GPU and is the fallback when the wgpu backend is
// unavailable.
package software

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/internal/parallel"
	"github.com/gogpu/sandbox/internal/raster"
)

// Errors returned by the software device.
var (
	ErrUnknownHandle     = errors.New("software: unknown handle")
	ErrNoFrame           = errors.New("software: draw outside BeginFrame/EndFrame")
	ErrNoShader          = errors.New("software: draw without shader")
	ErrMissingAttribute  = errors.New("software: vertex array has no position buffer")
	ErrAttributeMismatch = errors.New("software: attribute layout does not match shader")
	ErrIndexRange        = errors.New("software: index out of range")
	ErrBadBuffer         = errors.New("software: malformed buffer")
)

type vertexBuffer struct {
	location   int
	components int
	data       []float32
}

func (b *vertexBuffer) count() int { return len(b.data) / b.components }

type vertexArray struct {
	attribs map[int]sandbox.Handle
	index   sandbox.Handle
}

type buffer struct {
	vao     sandbox.Handle
	kind    sandbox.BufferKind
	vertex  vertexBuffer
	indices []uint32
}

// Device is a CPU sandbox.FrameDevice.
//
// Device is not safe for concurrent use. Draw calls shade in parallel
// internally and return only when the draw is complete.
type Device struct {
	target  *raster.Target
	vec     *vector.Rasterizer
	pool    *parallel.WorkerPool
	log     *slog.Logger
	caption string

	next    sandbox.Handle
	vaos    map[sandbox.Handle]*vertexArray
	buffers map[sandbox.Handle]*buffer

	frame   sandbox.FrameTarget
	inFrame bool
	shader  *sandbox.ShaderState
	wave    sandbox.WaveParams
	frames  uint64
}

// Option configures a Device.
type Option func(*Device)

// WithWorkers sets the number of shading goroutines. One worker shades
// on the calling goroutine.
func WithWorkers(n int) Option {
	return func(d *Device) {
		if d.pool != nil {
			d.pool.Close()
			d.pool = nil
		}
		if n != 1 {
			d.pool = parallel.NewWorkerPool(n)
		}
	}
}

// New creates a software device. The render target is allocated by the
// first BeginFrame.
func New(opts ...Option) *Device {
	d := &Device{
		pool:    parallel.NewWorkerPool(0),
		log:     sandbox.Logger(),
		vaos:    make(map[sandbox.Handle]*vertexArray),
		buffers: make(map[sandbox.Handle]*buffer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetLogger sets the logger used for diagnostics.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = sandbox.Logger()
	}
	d.log = l
}

// SetCaption sets the text drawn in the top-left corner when a frame
// ends. An empty caption draws nothing.
func (d *Device) SetCaption(s string) { d.caption = s }

// BeginFrame implements sandbox.FrameDevice. The target is reallocated
// when the size changes.
func (d *Device) BeginFrame(t sandbox.FrameTarget) error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("software: invalid target size %dx%d", t.Width, t.Height)
	}
	if d.target == nil || d.target.Width != t.Width || d.target.Height != t.Height {
		d.log.Debug("software: target allocated", "width", t.Width, "height", t.Height)
		d.target = raster.NewTarget(t.Width, t.Height)
	}
	d.target.Clear(t.Clear)
	d.frame = t
	d.inFrame = true
	d.shader = nil
	d.frames++
	return nil
}

// EndFrame implements sandbox.FrameDevice.
func (d *Device) EndFrame() error {
	if !d.inFrame {
		return ErrNoFrame
	}
	d.inFrame = false
	d.drawCaption()
	return nil
}

// Destroy implements sandbox.FrameDevice.
func (d *Device) Destroy() {
	if n := len(d.vaos) + len(d.buffers); n > 0 {
		d.log.Warn("software: destroyed with live resources",
			"vertexArrays", len(d.vaos), "buffers", len(d.buffers))
	}
	clear(d.vaos)
	clear(d.buffers)
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
}

// CreateVertexArray implements sandbox.Device.
func (d *Device) CreateVertexArray() (sandbox.Handle, error) {
	d.next++
	d.vaos[d.next] = &vertexArray{attribs: make(map[int]sandbox.Handle, sandbox.Attrib3DCount)}
	return d.next, nil
}

// CreateBuffer implements sandbox.Device. The data is decoded and copied.
func (d *Device) CreateBuffer(vao sandbox.Handle, desc sandbox.BufferDesc) (sandbox.Handle, error) {
	va, ok := d.vaos[vao]
	if !ok {
		return 0, fmt.Errorf("create buffer %q: %w: vertex array %d", desc.Label, ErrUnknownHandle, vao)
	}
	if len(desc.Data)%4 != 0 {
		return 0, fmt.Errorf("create buffer %q: %w: %d bytes", desc.Label, ErrBadBuffer, len(desc.Data))
	}

	b := &buffer{vao: vao, kind: desc.Kind}
	switch desc.Kind {
	case sandbox.BufferIndex:
		b.indices = make([]uint32, len(desc.Data)/4)
		for i := range b.indices {
			b.indices[i] = binary.LittleEndian.Uint32(desc.Data[4*i:])
		}
	default:
		if desc.Components < 1 || desc.Components > 4 || len(desc.Data)%(4*desc.Components) != 0 {
			return 0, fmt.Errorf("create buffer %q: %w: %d components, %d bytes",
				desc.Label, ErrBadBuffer, desc.Components, len(desc.Data))
		}
		b.vertex = vertexBuffer{
			location:   desc.Location,
			components: desc.Components,
			data:       make([]float32, len(desc.Data)/4),
		}
		for i := range b.vertex.data {
			b.vertex.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(desc.Data[4*i:]))
		}
	}

	d.next++
	h := d.next
	d.buffers[h] = b
	if desc.Kind == sandbox.BufferIndex {
		va.index = h
	} else {
		va.attribs[desc.Location] = h
	}
	return h, nil
}

// DeleteBuffer implements sandbox.Device.
func (d *Device) DeleteBuffer(h sandbox.Handle) {
	b, ok := d.buffers[h]
	if !ok {
		if h != 0 {
			d.log.Warn("software: delete of unknown buffer", "handle", h)
		}
		return
	}
	if va, ok := d.vaos[b.vao]; ok {
		if va.index == h {
			va.index = 0
		}
		for loc, bh := range va.attribs {
			if bh == h {
				delete(va.attribs, loc)
			}
		}
	}
	delete(d.buffers, h)
}

// DeleteVertexArray implements sandbox.Device. Buffers attached to the
// array stay valid until deleted.
func (d *Device) DeleteVertexArray(h sandbox.Handle) {
	if _, ok := d.vaos[h]; !ok {
		if h != 0 {
			d.log.Warn("software: delete of unknown vertex array", "handle", h)
		}
		return
	}
	delete(d.vaos, h)
}

// UseShader implements sandbox.Device.
func (d *Device) UseShader(state *sandbox.ShaderState) error {
	if !d.inFrame {
		return ErrNoFrame
	}
	s := *state
	d.shader = &s
	d.wave = s.Custom.Wave()
	return nil
}

// Live returns the number of live vertex arrays and buffers.
func (d *Device) Live() (vertexArrays, buffers int) {
	return len(d.vaos), len(d.buffers)
}

// Frames returns the number of frames begun.
func (d *Device) Frames() uint64 { return d.frames }

// Image returns the color target of the last frame, or nil before the
// first frame. The image aliases the target and is overwritten by the
// next BeginFrame.
func (d *Device) Image() *image.RGBA {
	if d.target == nil {
		return nil
	}
	return d.target.Color
}

// WritePNG encodes the last frame as PNG.
func (d *Device) WritePNG(w io.Writer) error {
	img := d.Image()
	if img == nil {
		return errors.New("software: no frame rendered")
	}
	return png.Encode(w, img)
}

var (
	_ sandbox.FrameDevice = (*Device)(nil)
)
