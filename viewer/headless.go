package viewer

import (
	"slices"

	"github.com/gogpu/gpucontext"
)

// DefaultFrameTime is the clock step of a Headless window, one 60 Hz
// frame.
const DefaultFrameTime = 1.0 / 60

// Input is the input state of one scripted frame.
type Input struct {
	CursorX, CursorY float64
	Buttons          []gpucontext.MouseButton
	Keys             []gpucontext.Key
	ScrollX, ScrollY float64

	// Width and Height resize the framebuffer when both are positive.
	Width, Height int

	// Close requests the window to close after this frame.
	Close bool
}

// Headless is a Window without a display. PollEvents steps through a
// scripted input timeline, one Input per frame; once the script is
// exhausted the last cursor, buttons and keys stay held. The clock
// advances by a fixed step per PollEvents.
type Headless struct {
	width, height int
	script        []Input
	step          float64

	polls   int
	cur     Input
	scrollX float64
	scrollY float64
	closed  bool

	title string
	swaps int
}

// NewHeadless returns a headless window of the given size that replays
// script.
func NewHeadless(width, height int, script ...Input) *Headless {
	return &Headless{
		width:  width,
		height: height,
		script: script,
		step:   DefaultFrameTime,
	}
}

// SetFrameTime sets the clock step in seconds.
func (h *Headless) SetFrameTime(seconds float64) { h.step = seconds }

// Close makes ShouldClose report true.
func (h *Headless) Close() { h.closed = true }

// ShouldClose implements Window.
func (h *Headless) ShouldClose() bool { return h.closed }

// PollEvents implements Window.
func (h *Headless) PollEvents() {
	if h.polls < len(h.script) {
		in := h.script[h.polls]
		h.cur = in
		h.scrollX += in.ScrollX
		h.scrollY += in.ScrollY
		if in.Width > 0 && in.Height > 0 {
			h.width, h.height = in.Width, in.Height
		}
		if in.Close {
			h.closed = true
		}
	}
	h.polls++
}

// FramebufferSize implements Window.
func (h *Headless) FramebufferSize() (int, int) { return h.width, h.height }

// CursorPos implements Window.
func (h *Headless) CursorPos() (float64, float64) { return h.cur.CursorX, h.cur.CursorY }

// MouseButton implements Window.
func (h *Headless) MouseButton(b gpucontext.MouseButton) bool {
	return slices.Contains(h.cur.Buttons, b)
}

// Key implements Window.
func (h *Headless) Key(k gpucontext.Key) bool { return slices.Contains(h.cur.Keys, k) }

// TakeScroll implements Window.
func (h *Headless) TakeScroll() (float64, float64) {
	dx, dy := h.scrollX, h.scrollY
	h.scrollX, h.scrollY = 0, 0
	return dx, dy
}

// Time implements Window.
func (h *Headless) Time() float64 { return float64(h.polls) * h.step }

// SetTitle implements Window.
func (h *Headless) SetTitle(title string) {
	h.title = title
}

// SwapBuffers implements Window.
func (h *Headless) SwapBuffers() error {
	h.swaps++
	return nil
}

// Title returns the last title set.
func (h *Headless) Title() string { return h.title }

// Swaps returns the number of presented frames.
func (h *Headless) Swaps() int { return h.swaps }
