package viewer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sandbox/camera"
)

const eps = 1e-4

var (
	left   = []gpucontext.MouseButton{gpucontext.MouseButtonLeft}
	right  = []gpucontext.MouseButton{gpucontext.MouseButtonRight}
	middle = []gpucontext.MouseButton{gpucontext.MouseButtonMiddle}
	alt    = []gpucontext.Key{gpucontext.KeyLeftAlt}
)

// drive replays script through a controller and returns the camera.
func drive(script ...Input) (camera.Orbit, *Controller) {
	win := NewHeadless(640, 480, script...)
	cam := camera.New()
	ctrl := &Controller{}
	for range script {
		win.PollEvents()
		ctrl.Update(win, &cam)
	}
	return cam, ctrl
}

func TestControllerZoomDrag(t *testing.T) {
	cam, _ := drive(
		Input{CursorX: 100, CursorY: 100, Buttons: right},
		Input{CursorX: 110, CursorY: 100, Buttons: right, Keys: alt},
	)
	want := float32(5 * (1 + 10*ZoomSpeed))
	if !mgl32.FloatEqualThreshold(cam.Radius, want, eps) {
		t.Errorf("Radius = %v, want %v", cam.Radius, want)
	}
}

func TestControllerTurnDrag(t *testing.T) {
	cam, _ := drive(
		Input{CursorX: 100, CursorY: 100, Buttons: left},
		Input{CursorX: 104, CursorY: 120, Buttons: left, Keys: alt},
	)
	wantPhi := math32.Pi/3 - 20*TurnSpeed
	wantTheta := math32.Pi/3 + 4*TurnSpeed
	if !mgl32.FloatEqualThreshold(cam.Phi, wantPhi, eps) {
		t.Errorf("Phi = %v, want %v", cam.Phi, wantPhi)
	}
	if !mgl32.FloatEqualThreshold(cam.Theta, wantTheta, eps) {
		t.Errorf("Theta = %v, want %v", cam.Theta, wantTheta)
	}
}

func TestControllerPanDrag(t *testing.T) {
	cam, _ := drive(
		Input{CursorX: 100, CursorY: 100, Buttons: middle},
		Input{CursorX: 110, CursorY: 100, Buttons: middle, Keys: alt},
	)
	// dx·PanSpeed·radius·2
	want := float32(10 * PanSpeed * 5 * 2)
	if got := cam.Origin.Len(); !mgl32.FloatEqualThreshold(got, want, eps) {
		t.Errorf("|Origin| = %v, want %v", got, want)
	}
	if cam.Radius != camera.DefaultRadius {
		t.Errorf("Radius = %v, want unchanged", cam.Radius)
	}
}

func TestControllerZoomWinsOverTurn(t *testing.T) {
	both := []gpucontext.MouseButton{gpucontext.MouseButtonLeft, gpucontext.MouseButtonRight}
	cam, _ := drive(
		Input{CursorX: 0, CursorY: 0, Buttons: both},
		Input{CursorX: 20, CursorY: 20, Buttons: both, Keys: alt},
	)
	if cam.Phi != math32.Pi/3 || cam.Theta != math32.Pi/3 {
		t.Errorf("Phi, Theta = %v, %v, want unchanged", cam.Phi, cam.Theta)
	}
	if cam.Radius == camera.DefaultRadius {
		t.Error("Radius unchanged, want zoom")
	}
}

func TestControllerWithoutAlt(t *testing.T) {
	cam, ctrl := drive(
		Input{CursorX: 10, CursorY: 10, Buttons: left},
		Input{CursorX: 50, CursorY: 70, Buttons: left},
	)
	if cam != camera.New() {
		t.Errorf("camera moved without alt: %+v", cam)
	}
	if x, y := ctrl.Locked(); x != 50 || y != 70 {
		t.Errorf("Locked() = %d, %d, want 50, 70", x, y)
	}
}

func TestControllerAltWithoutButton(t *testing.T) {
	cam, ctrl := drive(
		Input{CursorX: 10, CursorY: 10, Buttons: left},
		Input{CursorX: 30, CursorY: 40, Keys: alt},
	)
	if cam != camera.New() {
		t.Errorf("camera moved without a button: %+v", cam)
	}
	if x, y := ctrl.Locked(); x != 30 || y != 40 {
		t.Errorf("Locked() = %d, %d, want 30, 40", x, y)
	}
}

func TestControllerScroll(t *testing.T) {
	cam, _ := drive(Input{ScrollY: 1})
	want := float32(5 * (1 - ZoomScrollSpeed))
	if !mgl32.FloatEqualThreshold(cam.Radius, want, eps) {
		t.Errorf("Radius = %v, want %v", cam.Radius, want)
	}
}

func TestAltPressed(t *testing.T) {
	tests := []struct {
		name string
		keys []gpucontext.Key
		want bool
	}{
		{"none", nil, false},
		{"left alt", []gpucontext.Key{gpucontext.KeyLeftAlt}, true},
		{"right alt", []gpucontext.Key{gpucontext.KeyRightAlt}, true},
		{"other", []gpucontext.Key{gpucontext.KeyF7}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := NewHeadless(1, 1, Input{Keys: tt.keys})
			win.PollEvents()
			if got := AltPressed(win); got != tt.want {
				t.Errorf("AltPressed() = %v, want %v", got, tt.want)
			}
		})
	}
}
