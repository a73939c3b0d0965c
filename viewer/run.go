package viewer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sandbox"
)

var (
	// ErrNilWindow is returned by Run without a window.
	ErrNilWindow = errors.New("viewer: nil window")

	// ErrNilEngine is returned by Run without an engine.
	ErrNilEngine = errors.New("viewer: nil engine")

	// ErrNilScene is returned by Run without a scene.
	ErrNilScene = errors.New("viewer: nil scene")
)

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	strict    bool
	maxFrames uint64
	viewer    *Viewer
}

// WithStrictErrors makes Run stop at the first frame that reports an
// error. By default frame errors are logged and the loop goes on.
func WithStrictErrors() Option {
	return func(o *runOptions) {
		o.strict = true
	}
}

// WithMaxFrames stops Run after n frames. Zero means no limit.
func WithMaxFrames(n uint64) Option {
	return func(o *runOptions) {
		o.maxFrames = n
	}
}

// WithViewer runs with v instead of a default Viewer, so that the caller
// can preset the camera and render settings and inspect them afterwards.
func WithViewer(v *Viewer) Option {
	return func(o *runOptions) {
		o.viewer = v
	}
}

// captioner is implemented by devices that print the window title into
// their image.
type captioner interface {
	SetCaption(s string)
}

// Run drives scene until the window closes, Escape is held, the frame
// limit is reached or ctx is done. Cancellation is checked between
// frames and is not an error.
func Run(ctx context.Context, win Window, engine *sandbox.Engine, scene Scene, opts ...Option) error {
	switch {
	case win == nil:
		return ErrNilWindow
	case engine == nil:
		return ErrNilEngine
	case scene == nil:
		return ErrNilScene
	}
	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	v := o.viewer
	if v == nil {
		v = New(DefaultName)
	}
	v.Window = win
	v.Engine = engine
	v.ViewportWidth, v.ViewportHeight = win.FramebufferSize()

	log := sandbox.Logger()
	if err := scene.Init(v); err != nil {
		return fmt.Errorf("viewer: init scene: %w", err)
	}

	var ctrl Controller
	start := win.Time()
	reloadHeld := false
	for !win.ShouldClose() && !win.Key(gpucontext.KeyEscape) {
		if err := ctx.Err(); err != nil {
			log.Info("viewer: stopped", "reason", err, "frames", v.Frames)
			return nil
		}
		if o.maxFrames > 0 && v.Frames >= o.maxFrames {
			break
		}

		t := win.Time()
		win.PollEvents()
		v.ViewportWidth, v.ViewportHeight = win.FramebufferSize()

		ctrl.Update(win, &v.Camera)

		f7 := win.Key(gpucontext.KeyF7)
		if f7 && !reloadHeld {
			if err := engine.ReloadShaders(); err != nil {
				log.Warn("viewer: shader reload failed", "err", err)
			}
		}
		reloadHeld = f7

		scene.Update(win.Time() - start)

		err := engine.Frame(v.params(scene, t))
		if g, ok := scene.(GUIDrawer); ok {
			g.DrawGUI(v)
		}
		err = errors.Join(err, win.SwapBuffers())
		v.Frames++
		if err != nil {
			if o.strict {
				return fmt.Errorf("viewer: frame %d: %w", v.Frames, err)
			}
			log.Warn("viewer: frame error", "frame", v.Frames, "err", err)
		}

		if dt := win.Time() - t; dt > 0 {
			v.FPS = 1 / dt
		}
		title := fmt.Sprintf("%s - %.0f fps", v.Name, v.FPS)
		win.SetTitle(title)
		if c, ok := engine.Device().(captioner); ok {
			c.SetCaption(title)
		}
	}
	log.Info("viewer: closed", "frames", v.Frames)
	return nil
}
