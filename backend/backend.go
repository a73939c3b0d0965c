package backend

import (
	"errors"

	"github.com/gogpu/sandbox"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// Software is the CPU rasterizer in backend/software.
	Software = "software"
	// WGPU is the Pure Go GPU backend (gogpu/wgpu HAL) in backend/wgpu.
	WGPU = "wgpu"
)

// Factory creates a device for a backend. It returns an error when the
// backend cannot run on this machine, for example without a GPU adapter.
type Factory func() (sandbox.FrameDevice, error)
