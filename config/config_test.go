package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/camera"
)

func TestDefaultMatchesViewer(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Window.Name != "MyViewer" || c.Window.Width != 1280 || c.Window.Height != 720 {
		t.Errorf("Window = %+v", c.Window)
	}
	if c.Background() != sandbox.DefaultBackground {
		t.Errorf("Background() = %v, want %v", c.Background(), sandbox.DefaultBackground)
	}
	if c.SandboxLight() != sandbox.DefaultLight() {
		t.Errorf("SandboxLight() = %+v, want %+v", c.SandboxLight(), sandbox.DefaultLight())
	}
	cam, want := c.OrbitCamera(), camera.New()
	if !cam.Eye.ApproxEqualThreshold(want.Eye, 1e-4) || !mgl32.FloatEqualThreshold(cam.FOV, want.FOV, 1e-5) {
		t.Errorf("OrbitCamera() = %+v, want %+v", cam, want)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
window:
  name: Demo
  width: 320
render:
  background: [0, 0, 0, 1]
  workers: 2
camera:
  radius: 8
  origin: [1, 0, 0]
wave:
  amplitude: 0.5
backend: software
frames: 3
output: out.png
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Window.Name != "Demo" || c.Window.Width != 320 || c.Window.Height != 720 {
		t.Errorf("Window = %+v, want Demo 320x720", c.Window)
	}
	if c.Render.Background != [4]float32{0, 0, 0, 1} || c.Render.Workers != 2 {
		t.Errorf("Render = %+v", c.Render)
	}
	if c.Render.PointSize != 1 {
		t.Errorf("PointSize = %v, want default 1", c.Render.PointSize)
	}
	cam := c.OrbitCamera()
	if got := cam.Eye.Sub(cam.Origin).Len(); !mgl32.FloatEqualThreshold(got, 8, 1e-4) {
		t.Errorf("|Eye-Origin| = %v, want 8", got)
	}
	if cam.Origin != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Origin = %v", cam.Origin)
	}
	wave := c.WaveBlock()
	amp, err := wave.Float("amplitude")
	if err != nil {
		t.Fatalf("WaveBlock: %v", err)
	}
	freq, _ := wave.Float("frequency")
	if amp != 0.5 || freq != 2 {
		t.Errorf("wave = %v, %v, want amplitude 0.5 frequency 2", amp, freq)
	}
	if c.Backend != "software" || c.Frames != 3 || c.Output != "out.png" {
		t.Errorf("Backend, Frames, Output = %q, %d, %q", c.Backend, c.Frames, c.Output)
	}
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if *c != *Default() {
		t.Errorf("Parse(nil) = %+v, want defaults", c)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"window", "window: {width: 0}", ErrWindowSize},
		{"clip", "render: {near: 10, far: 1}", ErrClipPlanes},
		{"fov", "camera: {fov: 180}", ErrFOV},
		{"radius", "camera: {radius: -1}", ErrRadius},
		{"point size", "render: {point_size: 0}", ErrPointSize},
		{"workers", "render: {workers: -1}", ErrWorkers},
		{"frames", "frames: -2", ErrFrames},
		{"color", "render: {background: [2, 0, 0, 1]}", ErrColorRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.yaml, err, tt.want)
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"bogus: 1",
		"window: [1, 2]",
		"render: {background: [1, 2]}",
	} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) = nil error", in)
		}
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	c := Default()
	c.Window.Width = 0
	c.Camera.Radius = 0
	err := c.Validate()
	if !errors.Is(err, ErrWindowSize) || !errors.Is(err, ErrRadius) {
		t.Errorf("Validate() = %v, want both errors", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.yaml")
	c := Default()
	c.Window.Name = "Saved"
	c.Light.Ambient = 0.3
	if err := Save(path, c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Window.Name != "Saved" || got.Light.Ambient != 0.3 {
		t.Errorf("Load() = %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want ErrNotExist", err)
	}
}

func TestEngineOptions(t *testing.T) {
	if n := len(Default().EngineOptions()); n != 1 {
		t.Errorf("EngineOptions() = %d options, want 1", n)
	}
}
