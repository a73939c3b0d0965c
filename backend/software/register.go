package software

import (
	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/backend"
)

func init() {
	backend.Register(backend.Software, func() (sandbox.FrameDevice, error) {
		return New(), nil
	})
}
