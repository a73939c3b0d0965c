// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend for New.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/internal/cache"
)

// sampleCount is the MSAA sample count of the color and depth targets.
const sampleCount = 4

// pipelineCacheSize holds every (kind, topology, lighting) combination.
const pipelineCacheSize = 16

// Errors returned by the wgpu device.
var (
	ErrNoAdapter         = errors.New("wgpu: no GPU adapter")
	ErrProvider          = errors.New("wgpu: provider does not expose a HAL device and queue")
	ErrUnknownHandle     = errors.New("wgpu: unknown handle")
	ErrNoFrame           = errors.New("wgpu: call outside BeginFrame/EndFrame")
	ErrInFrame           = errors.New("wgpu: call not allowed inside a frame")
	ErrNoShader          = errors.New("wgpu: draw without shader")
	ErrMissingAttribute  = errors.New("wgpu: vertex array is missing an attribute")
	ErrAttributeMismatch = errors.New("wgpu: attribute layout does not match shader")
	ErrIndexRange        = errors.New("wgpu: draw count out of range")
	ErrBadBuffer         = errors.New("wgpu: malformed buffer")
)

// Device is a sandbox.FrameDevice on a gogpu/wgpu HAL device.
//
// Frames render offscreen into a 4x MSAA target that is resolved and
// read back at EndFrame. Device is not safe for concurrent use.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	owned    bool
	adapter  string
	log      *slog.Logger

	shaderDir string
	layouts   layouts
	modules   modules
	pipelines *cache.Cache[pipelineKey, hal.RenderPipeline]
	textures  textureSet

	next    sandbox.Handle
	vaos    map[sandbox.Handle]*vertexArray
	buffers map[sandbox.Handle]*buffer

	frame  *frame
	img    *image.RGBA
	frames uint64
}

// Option configures a Device.
type Option func(*Device)

// WithShaderDir makes ReloadShaders read mesh.wgsl and overlay.wgsl from
// dir instead of the embedded sources.
func WithShaderDir(dir string) Option {
	return func(d *Device) { d.shaderDir = dir }
}

// New opens the first discrete or integrated Vulkan adapter, or the first
// adapter of any kind.
func New(opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	d, err := newDevice(openDev.Device, openDev.Queue, opts)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.owned = true
	d.adapter = selected.Info.Name
	d.log.Info("wgpu: adapter selected", "adapter", d.adapter, "type", selected.Info.DeviceType)
	return d, nil
}

// NewFromHAL creates a device on an existing HAL device and queue. The
// caller keeps ownership of both.
func NewFromHAL(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	return newDevice(device, queue, opts)
}

// NewFromProvider shares the GPU device of a host application. The
// provider's Device and Queue must be HAL objects, or the provider must
// expose them through HalDevice and HalQueue.
func NewFromProvider(p gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if p == nil {
		return nil, ErrProvider
	}
	device, okDev := p.Device().(hal.Device)
	queue, okQueue := p.Queue().(hal.Queue)
	if !okDev || !okQueue {
		type halProvider interface {
			HalDevice() any
			HalQueue() any
		}
		hp, ok := p.(halProvider)
		if !ok {
			return nil, ErrProvider
		}
		device, okDev = hp.HalDevice().(hal.Device)
		queue, okQueue = hp.HalQueue().(hal.Queue)
		if !okDev || !okQueue || device == nil || queue == nil {
			return nil, ErrProvider
		}
	}
	d, err := newDevice(device, queue, opts)
	if err != nil {
		return nil, err
	}
	info := p.AdapterInfo()
	d.adapter = info.Name
	d.log.Info("wgpu: using shared device", "adapter", info.Name, "type", info.Type)
	return d, nil
}

func newDevice(device hal.Device, queue hal.Queue, opts []Option) (*Device, error) {
	d := &Device{
		device:  device,
		queue:   queue,
		log:     sandbox.Logger(),
		vaos:    make(map[sandbox.Handle]*vertexArray),
		buffers: make(map[sandbox.Handle]*buffer),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.pipelines = cache.New(pipelineCacheSize, func(k pipelineKey, p hal.RenderPipeline) {
		d.log.Debug("wgpu: pipeline released", "pipeline", k)
		d.device.DestroyRenderPipeline(p)
	})
	if err := d.layouts.create(device); err != nil {
		d.layouts.destroy(device)
		return nil, err
	}
	if err := d.modules.create(device, embeddedSources()); err != nil {
		d.layouts.destroy(device)
		return nil, err
	}
	return d, nil
}

// SetLogger sets the logger used for diagnostics.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = sandbox.Logger()
	}
	d.log = l
}

// Adapter returns the adapter name, empty when unknown.
func (d *Device) Adapter() string { return d.adapter }

// Destroy implements sandbox.FrameDevice. It releases every GPU object
// the device created, and the HAL device itself when New opened it.
func (d *Device) Destroy() {
	if d.device == nil {
		return
	}
	if d.frame != nil {
		d.frame.release(d.device)
		d.frame = nil
	}
	if n := len(d.vaos) + len(d.buffers); n > 0 {
		d.log.Warn("wgpu: destroyed with live resources",
			"vertexArrays", len(d.vaos), "buffers", len(d.buffers))
	}
	for h, b := range d.buffers {
		d.device.DestroyBuffer(b.gpu)
		delete(d.buffers, h)
	}
	clear(d.vaos)

	d.textures.destroyTextures(d.device)
	d.pipelines.Clear()
	d.modules.destroy(d.device)
	d.layouts.destroy(d.device)

	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
}

// Live returns the number of live vertex arrays and buffers.
func (d *Device) Live() (vertexArrays, buffers int) {
	return len(d.vaos), len(d.buffers)
}

// Frames returns the number of frames begun.
func (d *Device) Frames() uint64 { return d.frames }

// PipelineStats returns statistics of the render pipeline cache.
func (d *Device) PipelineStats() cache.Stats { return d.pipelines.Stats() }

// Image returns the color target read back by the last EndFrame, or nil
// before the first frame. The image is overwritten by the next frame.
func (d *Device) Image() *image.RGBA { return d.img }

// WritePNG encodes the last frame as PNG.
func (d *Device) WritePNG(w io.Writer) error {
	if d.img == nil {
		return errors.New("wgpu: no frame rendered")
	}
	return png.Encode(w, d.img)
}

var (
	_ sandbox.FrameDevice    = (*Device)(nil)
	_ sandbox.ShaderReloader = (*Device)(nil)
)
