package viewer

import (
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
)

// EventWindow adapts a callback based gpucontext.EventSource to the
// polled Window interface. Callbacks may arrive on any goroutine; their
// effect becomes visible to the frame loop at the next PollEvents.
type EventWindow struct {
	host  gpucontext.WindowProvider
	start time.Time

	mu      sync.Mutex
	pending eventState
	closed  bool
	title   string

	cur eventState
}

type eventState struct {
	cursorX, cursorY float64
	buttons          map[gpucontext.MouseButton]bool
	keys             map[gpucontext.Key]bool
	scrollX, scrollY float64
}

func newEventState() eventState {
	return eventState{
		buttons: make(map[gpucontext.MouseButton]bool),
		keys:    make(map[gpucontext.Key]bool),
	}
}

func (s eventState) clone() eventState {
	c := s
	c.buttons = make(map[gpucontext.MouseButton]bool, len(s.buttons))
	for b, v := range s.buttons {
		c.buttons[b] = v
	}
	c.keys = make(map[gpucontext.Key]bool, len(s.keys))
	for k, v := range s.keys {
		c.keys[k] = v
	}
	return c
}

// NewEventWindow subscribes to events and reads the framebuffer size
// from host.
func NewEventWindow(events gpucontext.EventSource, host gpucontext.WindowProvider) *EventWindow {
	w := &EventWindow{
		host:    host,
		start:   time.Now(),
		pending: newEventState(),
		cur:     newEventState(),
	}
	events.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) { w.setKey(k, true) })
	events.OnKeyRelease(func(k gpucontext.Key, _ gpucontext.Modifiers) { w.setKey(k, false) })
	events.OnMouseMove(func(x, y float64) {
		w.mu.Lock()
		w.pending.cursorX, w.pending.cursorY = x, y
		w.mu.Unlock()
	})
	events.OnMousePress(func(b gpucontext.MouseButton, x, y float64) { w.setButton(b, true, x, y) })
	events.OnMouseRelease(func(b gpucontext.MouseButton, x, y float64) { w.setButton(b, false, x, y) })
	events.OnScroll(func(dx, dy float64) {
		w.mu.Lock()
		w.pending.scrollX += dx
		w.pending.scrollY += dy
		w.mu.Unlock()
	})
	return w
}

func (w *EventWindow) setKey(k gpucontext.Key, down bool) {
	w.mu.Lock()
	w.pending.keys[k] = down
	w.mu.Unlock()
}

func (w *EventWindow) setButton(b gpucontext.MouseButton, down bool, x, y float64) {
	w.mu.Lock()
	w.pending.buttons[b] = down
	w.pending.cursorX, w.pending.cursorY = x, y
	w.mu.Unlock()
}

// Close makes ShouldClose report true.
func (w *EventWindow) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// ShouldClose implements Window.
func (w *EventWindow) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// PollEvents implements Window.
func (w *EventWindow) PollEvents() {
	w.mu.Lock()
	scrollX, scrollY := w.cur.scrollX, w.cur.scrollY
	w.cur = w.pending.clone()
	w.cur.scrollX += scrollX
	w.cur.scrollY += scrollY
	w.pending.scrollX, w.pending.scrollY = 0, 0
	w.mu.Unlock()
}

// FramebufferSize implements Window. The host size is scaled to pixels.
func (w *EventWindow) FramebufferSize() (int, int) {
	width, height := w.host.Size()
	s := w.host.ScaleFactor()
	if s <= 0 || s == 1 {
		return width, height
	}
	return int(float64(width) * s), int(float64(height) * s)
}

// CursorPos implements Window.
func (w *EventWindow) CursorPos() (float64, float64) { return w.cur.cursorX, w.cur.cursorY }

// MouseButton implements Window.
func (w *EventWindow) MouseButton(b gpucontext.MouseButton) bool { return w.cur.buttons[b] }

// Key implements Window.
func (w *EventWindow) Key(k gpucontext.Key) bool { return w.cur.keys[k] }

// TakeScroll implements Window.
func (w *EventWindow) TakeScroll() (float64, float64) {
	dx, dy := w.cur.scrollX, w.cur.scrollY
	w.cur.scrollX, w.cur.scrollY = 0, 0
	return dx, dy
}

// Time implements Window.
func (w *EventWindow) Time() float64 { return time.Since(w.start).Seconds() }

// SetTitle implements Window. The title is kept for hosts that poll it.
func (w *EventWindow) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

// Title returns the last title set.
func (w *EventWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// SwapBuffers implements Window by asking the host to redraw.
func (w *EventWindow) SwapBuffers() error {
	w.host.RequestRedraw()
	return nil
}
