package sandbox

import "github.com/gogpu/sandbox/scratch"

// Default clip planes of the 3D projection.
const (
	DefaultNear = 0.1
	DefaultFar  = 100
)

// EngineOption configures an Engine during creation.
//
// Example:
//
//	arena := scratch.New(64 << 20)
//	engine := sandbox.NewEngine(dev, sandbox.WithArena(arena))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	arena     *scratch.Arena
	near, far float32
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		arena: nil, // Will be created with scratch.DefaultCapacity if nil
		near:  DefaultNear,
		far:   DefaultFar,
	}
}

// WithArena sets the scratch arena shared by all primitive calls of the
// engine. Use it to share one arena between engines or to size it.
func WithArena(a *scratch.Arena) EngineOption {
	return func(o *engineOptions) {
		o.arena = a
	}
}

// WithClipPlanes sets the near and far planes of the 3D projection.
// Non-positive or inverted values keep the defaults.
func WithClipPlanes(near, far float32) EngineOption {
	return func(o *engineOptions) {
		if near > 0 && far > near {
			o.near, o.far = near, far
		}
	}
}
