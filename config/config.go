// Package config loads the sandbox viewer settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/camera"
)

// Validation errors.
var (
	ErrWindowSize = errors.New("config: window size must be positive")
	ErrClipPlanes = errors.New("config: need 0 < near < far")
	ErrFOV        = errors.New("config: fov must be in (0, 180) degrees")
	ErrRadius     = errors.New("config: camera radius must be positive")
	ErrPointSize  = errors.New("config: point size and line width must be positive")
	ErrWorkers    = errors.New("config: workers must not be negative")
	ErrFrames     = errors.New("config: frames must not be negative")
	ErrColorRange = errors.New("config: color component outside [0, 1]")
)

// BackendAuto selects the best registered backend.
const BackendAuto = "auto"

type Window struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Render struct {
	PointSize  float32    `yaml:"point_size"`
	LineWidth  float32    `yaml:"line_width"`
	Background [4]float32 `yaml:"background"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Workers    int        `yaml:"workers"` // software rasterizer, 0 = GOMAXPROCS
	ShaderDir  string     `yaml:"shader_dir,omitempty"`
}

type Light struct {
	Position    [4]float32 `yaml:"position"`
	Ambient     float32    `yaml:"ambient"`
	Specular    float32    `yaml:"specular"`
	SpecularPow float32    `yaml:"specular_pow"`
}

type Camera struct {
	FOV    float32    `yaml:"fov"` // degrees
	Radius float32    `yaml:"radius"`
	Theta  float32    `yaml:"theta"`
	Phi    float32    `yaml:"phi"`
	Origin [3]float32 `yaml:"origin"`
}

// Wave parameterizes the custom vertex pass.
type Wave struct {
	Origin    [2]float32 `yaml:"origin"`
	Amplitude float32    `yaml:"amplitude"`
	Frequency float32    `yaml:"frequency"`
}

type Config struct {
	Window Window `yaml:"window"`
	Render Render `yaml:"render"`
	Light  Light  `yaml:"light"`
	Camera Camera `yaml:"camera"`
	Wave   Wave   `yaml:"wave"`

	Backend string `yaml:"backend"` // "auto" | "wgpu" | "software"
	Frames  int    `yaml:"frames"`  // 0 runs until closed
	Output  string `yaml:"output,omitempty"`
}

// Default returns the settings of a fresh viewer.
func Default() *Config {
	cam := camera.New()
	l := sandbox.DefaultLight()
	return &Config{
		Window: Window{Name: "MyViewer", Width: 1280, Height: 720},
		Render: Render{
			PointSize:  1,
			LineWidth:  1,
			Background: sandbox.DefaultBackground,
			Near:       sandbox.DefaultNear,
			Far:        sandbox.DefaultFar,
		},
		Light: Light{
			Position:    l.Position,
			Ambient:     l.Ambient,
			Specular:    l.Specular,
			SpecularPow: l.SpecularPow,
		},
		Camera: Camera{
			FOV:    mgl32.RadToDeg(cam.FOV),
			Radius: cam.Radius,
			Theta:  cam.Theta,
			Phi:    cam.Phi,
			Origin: cam.Origin,
		},
		Wave:    Wave{Amplitude: 0.2, Frequency: 2},
		Backend: BackendAuto,
		Frames:  120,
	}
}

// Load reads and validates the YAML file at path. Keys missing from the
// file keep their Default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c as YAML.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrWindowSize, c.Window.Width, c.Window.Height))
	}
	if c.Render.Near <= 0 || c.Render.Far <= c.Render.Near {
		errs = append(errs, fmt.Errorf("%w: near %v far %v", ErrClipPlanes, c.Render.Near, c.Render.Far))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrFOV, c.Camera.FOV))
	}
	if c.Camera.Radius <= 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrRadius, c.Camera.Radius))
	}
	if c.Render.PointSize <= 0 || c.Render.LineWidth <= 0 {
		errs = append(errs, ErrPointSize)
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrWorkers, c.Render.Workers))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrFrames, c.Frames))
	}
	for i, v := range c.Render.Background {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: background[%d] = %v", ErrColorRange, i, v))
		}
	}
	return errors.Join(errs...)
}

// Background returns the clear color.
func (c *Config) Background() mgl32.Vec4 { return c.Render.Background }

// SandboxLight converts the light section.
func (c *Config) SandboxLight() sandbox.Light {
	return sandbox.Light{
		Position:    c.Light.Position,
		Ambient:     c.Light.Ambient,
		Specular:    c.Light.Specular,
		SpecularPow: c.Light.SpecularPow,
	}
}

// OrbitCamera returns the configured camera with Eye and Up computed.
func (c *Config) OrbitCamera() camera.Orbit {
	o := camera.Orbit{
		FOV:    mgl32.DegToRad(c.Camera.FOV),
		Radius: c.Camera.Radius,
		Theta:  c.Camera.Theta,
		Phi:    c.Camera.Phi,
		Origin: c.Camera.Origin,
	}
	o.Compute()
	return o
}

// WaveBlock returns the custom block of the configured wave.
func (c *Config) WaveBlock() *sandbox.CustomBlock {
	return sandbox.NewWaveBlock(c.Wave.Origin, c.Wave.Amplitude, c.Wave.Frequency)
}

// EngineOptions returns the engine options implied by the render section.
func (c *Config) EngineOptions() []sandbox.EngineOption {
	return []sandbox.EngineOption{sandbox.WithClipPlanes(c.Render.Near, c.Render.Far)}
}
