//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/backend"
)

func init() {
	backend.Register(backend.WGPU, func() (sandbox.FrameDevice, error) {
		d, err := New()
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}
