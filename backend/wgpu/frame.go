//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sandbox"
)

// copyRowAlignment is the required BytesPerRow alignment of
// texture-to-buffer copies.
const copyRowAlignment = 256

// drawOp is a recorded draw replayed into the render pass at EndFrame.
type drawOp struct {
	pipeline hal.RenderPipeline
	groups   []hal.BindGroup
	vertex   []hal.Buffer
	index    hal.Buffer
	count    uint32
	indexed  bool
}

// frame is the recording state between BeginFrame and EndFrame.
type frame struct {
	target sandbox.FrameTarget
	shader *sandbox.ShaderState
	pass   hal.BindGroup // group 0 of the current shader
	ops    []drawOp

	uniforms []hal.Buffer
	groups   []hal.BindGroup
	retired  []hal.Buffer
}

// release destroys the per-frame uniforms, bind groups and the buffers
// deleted during the frame.
func (f *frame) release(device hal.Device) {
	for _, g := range f.groups {
		device.DestroyBindGroup(g)
	}
	for _, b := range f.uniforms {
		device.DestroyBuffer(b)
	}
	for _, b := range f.retired {
		device.DestroyBuffer(b)
	}
	f.groups, f.uniforms, f.retired, f.ops = nil, nil, nil, nil
}

// BeginFrame implements sandbox.FrameDevice.
func (d *Device) BeginFrame(t sandbox.FrameTarget) error {
	if d.frame != nil {
		return ErrInFrame
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("wgpu: invalid target size %dx%d", t.Width, t.Height)
	}
	d.frame = &frame{target: t}
	d.frames++
	return nil
}

// binding is one buffer entry of a per-frame bind group.
type binding struct {
	usage gputypes.BufferUsage
	data  []byte
}

// bindUniforms uploads each entry into a per-frame buffer and binds them
// to layout in order.
func (d *Device) bindUniforms(label string, layout hal.BindGroupLayout, entries ...binding) (hal.BindGroup, error) {
	f := d.frame
	bge := make([]gputypes.BindGroupEntry, len(entries))
	for i, e := range entries {
		buf, err := createAndUploadBuffer(d.device, d.queue, label, e.usage, e.data)
		if err != nil {
			return nil, err
		}
		f.uniforms = append(f.uniforms, buf)
		bge[i] = gputypes.BindGroupEntry{
			Binding: uint32(i), // #nosec G115 -- at most two entries
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   uint64(len(e.data)),
			},
		}
	}
	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: bge,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	f.groups = append(f.groups, group)
	return group, nil
}

// UseShader implements sandbox.Device.
func (d *Device) UseShader(state *sandbox.ShaderState) error {
	if d.frame == nil {
		return ErrNoFrame
	}
	s := *state

	var (
		group hal.BindGroup
		err   error
	)
	if s.Kind == sandbox.Shader2D {
		group, err = d.bindUniforms("sandbox_viewport", d.layouts.viewport,
			binding{gputypes.BufferUsageUniform, viewportUniforms(s.Viewport)})
	} else {
		group, err = d.bindUniforms("sandbox_frame", d.layouts.frame,
			binding{gputypes.BufferUsageUniform, frameUniforms(&s.Frame, s.Custom.Time)},
			binding{gputypes.BufferUsageStorage, customStorage(s.Custom.Block)})
	}
	if err != nil {
		return err
	}
	d.frame.shader = &s
	d.frame.pass = group
	return nil
}

// stream returns the buffer bound at loc with the given component count.
func (d *Device) stream(va *vertexArray, loc, components int) (*buffer, error) {
	h, ok := va.attribs[loc]
	if !ok {
		return nil, fmt.Errorf("%w: location %d", ErrMissingAttribute, loc)
	}
	b, ok := d.buffers[h]
	if !ok {
		return nil, fmt.Errorf("draw: %w: buffer %d", ErrUnknownHandle, h)
	}
	if b.components != components {
		return nil, fmt.Errorf("%w: location %d has %d components, want %d",
			ErrAttributeMismatch, loc, b.components, components)
	}
	return b, nil
}

// Draw implements sandbox.Device. The draw is validated and recorded; it
// executes at EndFrame.
func (d *Device) Draw(call sandbox.DrawCall) error {
	f := d.frame
	if f == nil {
		return ErrNoFrame
	}
	if f.shader == nil {
		return ErrNoShader
	}
	va, ok := d.vaos[call.VAO]
	if !ok {
		return fmt.Errorf("draw: %w: vertex array %d", ErrUnknownHandle, call.VAO)
	}
	if call.Count <= 0 {
		return nil
	}

	key := pipelineKey{kind: f.shader.Kind, topo: call.Topology, lit: call.Lighting && f.shader.Kind.Is3D()}
	op := drawOp{count: uint32(call.Count), indexed: call.Indexed} // #nosec G115 -- positive
	vertices := -1
	for _, s := range key.streams() {
		b, err := d.stream(va, s.location, s.components)
		if err != nil {
			return err
		}
		if vertices < 0 || b.count < vertices {
			vertices = b.count
		}
		op.vertex = append(op.vertex, b.gpu)
	}

	if call.Indexed {
		b, ok := d.buffers[va.index]
		if !ok || va.index == 0 {
			return fmt.Errorf("%w: indexed draw without index buffer", ErrMissingAttribute)
		}
		if call.Count > b.count {
			return fmt.Errorf("%w: %d indices drawn, %d uploaded", ErrIndexRange, call.Count, b.count)
		}
		op.index = b.gpu
	} else if call.Count > vertices {
		return fmt.Errorf("%w: %d vertices drawn, %d uploaded", ErrIndexRange, call.Count, vertices)
	}

	pipeline, err := d.pipeline(key)
	if err != nil {
		return err
	}
	op.pipeline = pipeline
	op.groups = []hal.BindGroup{f.pass}
	if key.kind.Is3D() {
		object, err := d.bindUniforms("sandbox_object", d.layouts.object,
			binding{gputypes.BufferUsageUniform, objectUniforms(call.Model)})
		if err != nil {
			return err
		}
		op.groups = append(op.groups, object)
	}
	f.ops = append(f.ops, op)
	return nil
}

// EndFrame implements sandbox.FrameDevice. The recorded draws run in one
// render pass and the resolved target is read back into Image.
func (d *Device) EndFrame() error {
	f := d.frame
	if f == nil {
		return ErrNoFrame
	}
	defer func() {
		f.release(d.device)
		d.frame = nil
	}()

	w := uint32(f.target.Width)  // #nosec G115 -- validated positive
	h := uint32(f.target.Height) // #nosec G115 -- validated positive
	if err := d.textures.ensureTextures(d.device, w, h); err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "sandbox_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sandbox_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	c := f.target.Clear
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "sandbox_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          d.textures.msaaView,
			ResolveTarget: d.textures.resolveView,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    gputypes.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              d.textures.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	for i := range f.ops {
		op := &f.ops[i]
		rp.SetPipeline(op.pipeline)
		for gi, g := range op.groups {
			rp.SetBindGroup(uint32(gi), g, nil) // #nosec G115 -- at most two groups
		}
		for slot, b := range op.vertex {
			rp.SetVertexBuffer(uint32(slot), b, 0) // #nosec G115 -- at most three streams
		}
		if op.indexed {
			rp.SetIndexBuffer(op.index, gputypes.IndexFormatUint32, 0)
			rp.DrawIndexed(op.count, 1, 0, 0, 0)
		} else {
			rp.Draw(op.count, 1, 0, 0)
		}
	}
	rp.End()

	// After the MSAA resolve the texture is a color attachment. The copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := alignUp(w*4, copyRowAlignment)
	stagingSize := uint64(rowBytes) * uint64(h)
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sandbox_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(d.textures.resolveTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: rowBytes, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: d.textures.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	if _, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := d.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}

	mapping, err := d.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	pixels := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)
	d.img = convertBGRAToRGBA(d.img, pixels, f.target.Width, f.target.Height, int(rowBytes))
	if err := d.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

func alignUp(n, a uint32) uint32 { return (n + a - 1) / a * a }

// convertBGRAToRGBA copies a BGRA readback with padded rows into dst,
// reallocating dst when the size differs.
func convertBGRAToRGBA(dst *image.RGBA, src []byte, w, h, stride int) *image.RGBA {
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := range h {
		row := src[y*stride : y*stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			out[x+0] = row[x+2]
			out[x+1] = row[x+1]
			out[x+2] = row[x+0]
			out[x+3] = row[x+3]
		}
	}
	return dst
}
