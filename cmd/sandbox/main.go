// Command sandbox renders the demo scene offscreen for a number of frames
// and writes the last one as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/backend"
	"github.com/gogpu/sandbox/backend/software"
	"github.com/gogpu/sandbox/config"
	"github.com/gogpu/sandbox/viewer"
)

// openers construct a backend with the configured options. Backends
// without an entry are opened through the registry.
var openers = map[string]func(*config.Config) (sandbox.FrameDevice, error){
	backend.Software: func(c *config.Config) (sandbox.FrameDevice, error) {
		return software.New(software.WithWorkers(c.Render.Workers)), nil
	},
}

type pngWriter interface {
	WritePNG(w io.Writer) error
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		backendArg = flag.String("backend", "", "backend name: auto, wgpu or software")
		frames     = flag.Int("frames", -1, "number of frames to render")
		output     = flag.String("o", "", "output PNG file")
		shaderDir  = flag.String("shaders", "", "WGSL shader directory for the wgpu backend")
		verbose    = flag.Bool("v", false, "log to stderr")
	)
	flag.Parse()

	if *verbose {
		sandbox.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *backendArg != "" {
		cfg.Backend = *backendArg
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *shaderDir != "" {
		cfg.Render.ShaderDir = *shaderDir
	}
	if cfg.Output == "" {
		cfg.Output = "sandbox.png"
	}
	if cfg.Frames == 0 {
		log.Fatal("A headless run needs -frames > 0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
	log.Printf("Frame saved to %s (%dx%d)\n", cfg.Output, cfg.Window.Width, cfg.Window.Height)
}

func openDevice(cfg *config.Config) (sandbox.FrameDevice, string, error) {
	if open, ok := openers[cfg.Backend]; ok {
		dev, err := open(cfg)
		return dev, cfg.Backend, err
	}
	return backend.Open(cfg.Backend)
}

func run(ctx context.Context, cfg *config.Config) error {
	dev, name, err := openDevice(cfg)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer dev.Destroy()
	sandbox.Logger().Info("sandbox: rendering", "backend", name, "frames", cfg.Frames)

	engine := sandbox.NewEngine(dev, cfg.EngineOptions()...)

	v := viewer.New(cfg.Window.Name)
	v.Camera = cfg.OrbitCamera()
	v.PointSize = cfg.Render.PointSize
	v.LineWidth = cfg.Render.LineWidth
	v.Background = cfg.Background()
	v.Light = cfg.SandboxLight()
	v.Custom = cfg.WaveBlock()

	w, h := cfg.Window.Width, cfg.Window.Height
	win := viewer.NewHeadless(w, h, orbitScript(cfg.Frames, w, h)...)
	err = viewer.Run(ctx, win, engine, newDemoScene(true),
		viewer.WithViewer(v), viewer.WithMaxFrames(uint64(cfg.Frames))) // #nosec G115 -- validated non-negative
	if err != nil {
		return err
	}

	out, ok := dev.(pngWriter)
	if !ok {
		return fmt.Errorf("backend %s cannot write images", name)
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := out.WritePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
