// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sandbox

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox/scratch"
)

// DrawBuffer3D is the device storage of one 3D mesh: a vertex array with
// position, optional normal and color buffers, and an optional index
// buffer. The zero value is empty and ready for Create.
//
// A draw buffer lives for one draw: Create, draw through API3D.Buffer,
// Destroy.
type DrawBuffer3D struct {
	VAO         Handle
	VBOs        [Attrib3DCount]Handle
	IBO         Handle
	VertexCount int
	IndexCount  int
}

// CreateParams3D is the data uploaded by DrawBuffer3D.Create.
// Normals and Indices are optional.
type CreateParams3D struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// Live reports whether any handle is non-null.
func (b *DrawBuffer3D) Live() bool {
	if b.VAO != 0 || b.IBO != 0 {
		return true
	}
	for _, h := range b.VBOs {
		if h != 0 {
			return true
		}
	}
	return false
}

// Lit reports whether the buffer carries normals. Unlit buffers are drawn
// with lighting disabled.
func (b *DrawBuffer3D) Lit() bool { return b.VBOs[Attrib3DNormal] != 0 }

// Create allocates the vertex array and uploads the streams. It panics
// with ErrBufferLive if the buffer still holds handles and with
// ErrStreamMismatch if channel lengths differ. On a device error the
// partially created buffer is destroyed and the error returned.
func (b *DrawBuffer3D) Create(dev Device, p CreateParams3D) error {
	if b.Live() {
		panic(ErrBufferLive)
	}
	n := len(p.Positions)
	if len(p.Colors) != n || (p.Normals != nil && len(p.Normals) != n) {
		panic(fmt.Errorf("%w: %d positions, %d normals, %d colors",
			ErrStreamMismatch, n, len(p.Normals), len(p.Colors)))
	}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		return fmt.Errorf("create vertex array: %w", err)
	}
	b.VAO = vao
	b.VertexCount = n

	if n > 0 {
		if err := b.attach(dev, &b.VBOs[Attrib3DPosition], BufferDesc{
			Label: "position", Kind: BufferVertex, Location: Attrib3DPosition, Components: 3,
			Data: scratch.AsBytes(p.Positions),
		}); err != nil {
			return err
		}
		if p.Normals != nil {
			if err := b.attach(dev, &b.VBOs[Attrib3DNormal], BufferDesc{
				Label: "normal", Kind: BufferVertex, Location: Attrib3DNormal, Components: 3,
				Data: scratch.AsBytes(p.Normals),
			}); err != nil {
				return err
			}
		}
		if err := b.attach(dev, &b.VBOs[Attrib3DColor], BufferDesc{
			Label: "color", Kind: BufferVertex, Location: Attrib3DColor, Components: 4,
			Data: scratch.AsBytes(p.Colors),
		}); err != nil {
			return err
		}
	}

	if len(p.Indices) > 0 {
		if err := b.attach(dev, &b.IBO, BufferDesc{
			Label: "index", Kind: BufferIndex, Data: scratch.AsBytes(p.Indices),
		}); err != nil {
			return err
		}
		b.IndexCount = len(p.Indices)
	}
	return nil
}

func (b *DrawBuffer3D) attach(dev Device, dst *Handle, desc BufferDesc) error {
	h, err := dev.CreateBuffer(b.VAO, desc)
	if err != nil {
		b.Destroy(dev)
		return fmt.Errorf("create %s buffer: %w", desc.Label, err)
	}
	*dst = h
	return nil
}

// Destroy releases every non-null handle and resets the buffer to its
// zero value. Destroying an empty buffer does nothing.
func (b *DrawBuffer3D) Destroy(dev Device) {
	for i, h := range b.VBOs {
		if h != 0 {
			dev.DeleteBuffer(h)
			b.VBOs[i] = 0
		}
	}
	if b.IBO != 0 {
		dev.DeleteBuffer(b.IBO)
		b.IBO = 0
	}
	if b.VAO != 0 {
		dev.DeleteVertexArray(b.VAO)
		b.VAO = 0
	}
	b.VertexCount = 0
	b.IndexCount = 0
}

// DrawBuffer2D is the 2D counterpart of DrawBuffer3D: positions and
// colors, never indexed.
type DrawBuffer2D struct {
	VAO         Handle
	VBOs        [Attrib2DCount]Handle
	VertexCount int
}

// CreateParams2D is the data uploaded by DrawBuffer2D.Create.
type CreateParams2D struct {
	Positions []mgl32.Vec2
	Colors    []mgl32.Vec4
}

// Live reports whether any handle is non-null.
func (b *DrawBuffer2D) Live() bool {
	return b.VAO != 0 || b.VBOs[0] != 0 || b.VBOs[1] != 0
}

// Create allocates the vertex array and uploads the streams. It panics
// under the same conditions as DrawBuffer3D.Create.
func (b *DrawBuffer2D) Create(dev Device, p CreateParams2D) error {
	if b.Live() {
		panic(ErrBufferLive)
	}
	n := len(p.Positions)
	if len(p.Colors) != n {
		panic(fmt.Errorf("%w: %d positions, %d colors", ErrStreamMismatch, n, len(p.Colors)))
	}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		return fmt.Errorf("create vertex array: %w", err)
	}
	b.VAO = vao
	b.VertexCount = n
	if n == 0 {
		return nil
	}

	descs := [Attrib2DCount]BufferDesc{
		{Label: "position", Kind: BufferVertex, Location: Attrib2DPosition, Components: 2, Data: scratch.AsBytes(p.Positions)},
		{Label: "color", Kind: BufferVertex, Location: Attrib2DColor, Components: 4, Data: scratch.AsBytes(p.Colors)},
	}
	for i, desc := range descs {
		h, err := dev.CreateBuffer(b.VAO, desc)
		if err != nil {
			b.Destroy(dev)
			return fmt.Errorf("create %s buffer: %w", desc.Label, err)
		}
		b.VBOs[i] = h
	}
	return nil
}

// Destroy releases every non-null handle and resets the buffer.
func (b *DrawBuffer2D) Destroy(dev Device) {
	for i, h := range b.VBOs {
		if h != 0 {
			dev.DeleteBuffer(h)
			b.VBOs[i] = 0
		}
	}
	if b.VAO != 0 {
		dev.DeleteVertexArray(b.VAO)
		b.VAO = 0
	}
	b.VertexCount = 0
}
