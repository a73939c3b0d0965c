package viewer

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sandbox/camera"
)

// Mouse sensitivities, in camera units per pixel of drag.
const (
	PanSpeed        = 0.001
	ZoomSpeed       = 0.005
	ZoomScrollSpeed = 10 * ZoomSpeed
	TurnSpeed       = 0.005
)

// Controller maps mouse input to camera moves. Holding alt while
// dragging with the left button turns, with the right button zooms and
// with the middle button pans. Without alt a pressed button only moves
// the lock position, so that the next alt drag starts from there.
type Controller struct {
	panLock  bool
	turnLock bool
	zoomLock bool
	lockX    int
	lockY    int
}

// Locked reports the lock position in pixels.
func (c *Controller) Locked() (x, y int) { return c.lockX, c.lockY }

// AltPressed reports whether either alt key is held.
func AltPressed(win Window) bool {
	return win.Key(gpucontext.KeyLeftAlt) || win.Key(gpucontext.KeyRightAlt)
}

// Update applies this frame's input to cam. Zoom wins over turn, turn
// over pan.
func (c *Controller) Update(win Window, cam *camera.Orbit) {
	left := win.MouseButton(gpucontext.MouseButtonLeft)
	right := win.MouseButton(gpucontext.MouseButtonRight)
	middle := win.MouseButton(gpucontext.MouseButtonMiddle)
	c.turnLock = left
	c.zoomLock = right
	c.panLock = middle

	fx, fy := win.CursorPos()
	x, y := int(fx), int(fy)

	alt := AltPressed(win)
	if !alt && (left || right || middle) {
		c.lockX, c.lockY = x, y
	}
	if alt {
		dx := float32(x - c.lockX)
		dy := float32(y - c.lockY)
		switch {
		case c.zoomLock:
			cam.Zoom(dx * ZoomSpeed)
		case c.turnLock:
			cam.Turn(dy*TurnSpeed, dx*TurnSpeed)
		case c.panLock:
			cam.Pan(dx*PanSpeed, dy*PanSpeed)
		}
		c.lockX, c.lockY = x, y
	}

	if _, sy := win.TakeScroll(); sy != 0 {
		cam.Zoom(float32(-sy) * ZoomScrollSpeed)
	}
}
