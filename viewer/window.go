package viewer

import (
	"github.com/gogpu/gpucontext"
)

// Window is the polled input and presentation surface driven by Run.
// Key and button codes are those of gpucontext.
type Window interface {
	// ShouldClose reports whether the user asked to close the window.
	ShouldClose() bool

	// PollEvents latches the input state for the next frame.
	PollEvents()

	// FramebufferSize returns the drawable size in pixels. A minimized
	// window reports zero.
	FramebufferSize() (width, height int)

	// CursorPos returns the cursor position in pixels, origin top-left.
	CursorPos() (x, y float64)

	MouseButton(b gpucontext.MouseButton) bool
	Key(k gpucontext.Key) bool

	// TakeScroll returns and resets the scroll accumulated since the
	// last call.
	TakeScroll() (dx, dy float64)

	// Time returns seconds since the window was created.
	Time() float64

	SetTitle(title string)
	SwapBuffers() error
}
