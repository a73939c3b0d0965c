package sandbox

import "errors"

// Contract violations. These are panic values; seeing one means the
// calling code is wrong.
var (
	// ErrBufferLive is raised when Create is called on a draw buffer that
	// still holds device handles.
	ErrBufferLive = errors.New("sandbox: draw buffer already created")

	// ErrBufferNotCreated is raised when a draw buffer with a null vertex
	// array is drawn.
	ErrBufferNotCreated = errors.New("sandbox: draw buffer not created")

	// ErrStreamMismatch is raised when the channels of a vertex stream
	// have different lengths.
	ErrStreamMismatch = errors.New("sandbox: vertex stream channel lengths differ")
)

// Runtime errors.
var (
	// ErrArenaLeak is returned when a pass leaves scratch blocks live.
	ErrArenaLeak = errors.New("sandbox: scratch arena not balanced after pass")

	// ErrFieldNotFound is returned for an unknown custom block field.
	ErrFieldNotFound = errors.New("sandbox: custom block field not found")

	// ErrFieldType is returned when a custom block field is accessed with
	// the wrong type.
	ErrFieldType = errors.New("sandbox: custom block field type mismatch")

	// ErrNilDevice is returned when an engine is used without a device.
	ErrNilDevice = errors.New("sandbox: nil device")
)
