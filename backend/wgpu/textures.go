//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureSet holds the offscreen targets of a frame:
//   - MSAA color: 4x samples, BGRA8Unorm, RenderAttachment
//   - Depth/stencil: 4x samples, Depth24PlusStencil8, RenderAttachment
//   - Resolve: 1x sample, BGRA8Unorm, RenderAttachment | CopySrc
type textureSet struct {
	msaaTex     hal.Texture
	msaaView    hal.TextureView
	depthTex    hal.Texture
	depthView   hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	width       uint32
	height      uint32
}

// ensureTextures recreates the set when the size changes.
func (ts *textureSet) ensureTextures(device hal.Device, w, h uint32) error {
	if ts.width == w && ts.height == h && ts.msaaTex != nil {
		return nil
	}
	ts.destroyTextures(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	create := func(label string, samples uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         label,
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         usage,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
		}
		view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: label + "_view"})
		if err != nil {
			device.DestroyTexture(tex)
			return nil, nil, fmt.Errorf("create %s view: %w", label, err)
		}
		return tex, view, nil
	}

	var err error
	ts.msaaTex, ts.msaaView, err = create("sandbox_msaa_color", sampleCount,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	ts.depthTex, ts.depthView, err = create("sandbox_depth_stencil", sampleCount,
		gputypes.TextureFormatDepth24PlusStencil8, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		ts.destroyTextures(device)
		return err
	}
	ts.resolveTex, ts.resolveView, err = create("sandbox_resolve", 1,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		ts.destroyTextures(device)
		return err
	}

	ts.width = w
	ts.height = h
	return nil
}

// destroyTextures releases all textures and resets the size.
func (ts *textureSet) destroyTextures(device hal.Device) {
	if ts.resolveView != nil {
		device.DestroyTextureView(ts.resolveView)
		ts.resolveView = nil
	}
	if ts.resolveTex != nil {
		device.DestroyTexture(ts.resolveTex)
		ts.resolveTex = nil
	}
	if ts.depthView != nil {
		device.DestroyTextureView(ts.depthView)
		ts.depthView = nil
	}
	if ts.depthTex != nil {
		device.DestroyTexture(ts.depthTex)
		ts.depthTex = nil
	}
	if ts.msaaView != nil {
		device.DestroyTextureView(ts.msaaView)
		ts.msaaView = nil
	}
	if ts.msaaTex != nil {
		device.DestroyTexture(ts.msaaTex)
		ts.msaaTex = nil
	}
	ts.width = 0
	ts.height = 0
}
