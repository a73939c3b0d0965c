//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sandbox"
)

type vertexArray struct {
	attribs map[int]sandbox.Handle
	index   sandbox.Handle
}

type buffer struct {
	vao        sandbox.Handle
	kind       sandbox.BufferKind
	location   int
	components int
	count      int // vertices, or indices for index buffers
	gpu        hal.Buffer
}

// createAndUploadBuffer creates a GPU buffer and writes data into it.
// Empty data gets a 4-byte buffer since zero-sized buffers are invalid.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	size := max(uint64(len(data)), 4)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	if len(data) > 0 {
		if err := queue.WriteBuffer(buf, 0, data); err != nil {
			device.DestroyBuffer(buf)
			return nil, fmt.Errorf("upload %s buffer: %w", label, err)
		}
	}
	return buf, nil
}

// CreateVertexArray implements sandbox.Device. Vertex arrays are
// host-side bindings of buffers to attribute slots.
func (d *Device) CreateVertexArray() (sandbox.Handle, error) {
	d.next++
	d.vaos[d.next] = &vertexArray{attribs: make(map[int]sandbox.Handle, sandbox.Attrib3DCount)}
	return d.next, nil
}

// CreateBuffer implements sandbox.Device. The data is uploaded before
// CreateBuffer returns.
func (d *Device) CreateBuffer(vao sandbox.Handle, desc sandbox.BufferDesc) (sandbox.Handle, error) {
	va, ok := d.vaos[vao]
	if !ok {
		return 0, fmt.Errorf("create buffer %q: %w: vertex array %d", desc.Label, ErrUnknownHandle, vao)
	}
	if len(desc.Data)%4 != 0 {
		return 0, fmt.Errorf("create buffer %q: %w: %d bytes", desc.Label, ErrBadBuffer, len(desc.Data))
	}

	b := &buffer{vao: vao, kind: desc.Kind}
	usage := gputypes.BufferUsageVertex
	if desc.Kind == sandbox.BufferIndex {
		usage = gputypes.BufferUsageIndex
		b.count = len(desc.Data) / 4
	} else {
		if desc.Components < 1 || desc.Components > 4 || len(desc.Data)%(4*desc.Components) != 0 {
			return 0, fmt.Errorf("create buffer %q: %w: %d components, %d bytes",
				desc.Label, ErrBadBuffer, desc.Components, len(desc.Data))
		}
		b.location = desc.Location
		b.components = desc.Components
		b.count = len(desc.Data) / (4 * desc.Components)
	}

	gpu, err := createAndUploadBuffer(d.device, d.queue, "sandbox_"+desc.Label, usage, desc.Data)
	if err != nil {
		return 0, err
	}
	b.gpu = gpu

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

// DeleteBuffer implements sandbox.Device. Inside a frame the GPU buffer
// is kept until EndFrame since recorded draws may still read it.
func (d *Device) DeleteBuffer(h sandbox.Handle) {
	b, ok := d.buffers[h]
	if !ok {
		if h != 0 {
			d.log.Warn("wgpu: delete of unknown buffer", "handle", h)
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
	if d.frame != nil {
		d.frame.retired = append(d.frame.retired, b.gpu)
		return
	}
	d.device.DestroyBuffer(b.gpu)
}

// DeleteVertexArray implements sandbox.Device. Buffers attached to the
// array stay valid until deleted.
func (d *Device) DeleteVertexArray(h sandbox.Handle) {
	if _, ok := d.vaos[h]; !ok {
		if h != 0 {
			d.log.Warn("wgpu: delete of unknown vertex array", "handle", h)
		}
		return
	}
	delete(d.vaos, h)
}
