// Package backend selects the device a sandbox engine draws on.
//
// # Backend Registration
//
// Backends register a factory from init() and are selected at runtime,
// following the database/sql driver pattern:
//
//	import (
//		_ "github.com/gogpu/sandbox/backend/software"
//		_ "github.com/gogpu/sandbox/backend/wgpu"
//	)
//
// # Backend Selection
//
// Use Default() to open the best available backend, or Get() to request
// a specific backend by name:
//
//	dev, name, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Destroy()
//
//	dev, err = backend.Get(backend.Software)
//
// # Available Backends
//
//   - "wgpu": GPU rendering via gogpu/wgpu, offscreen with readback
//   - "software": CPU rasterizer (always available)
package backend
