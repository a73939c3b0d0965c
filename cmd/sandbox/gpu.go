//go:build !nogpu

package main

import (
	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/backend"
	"github.com/gogpu/sandbox/backend/wgpu"
	"github.com/gogpu/sandbox/config"
)

func init() {
	openers[backend.WGPU] = func(c *config.Config) (sandbox.FrameDevice, error) {
		var opts []wgpu.Option
		if c.Render.ShaderDir != "" {
			opts = append(opts, wgpu.WithShaderDir(c.Render.ShaderDir))
		}
		d, err := wgpu.New(opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}
