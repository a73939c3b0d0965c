// Package sandbox is the rendering core of an interactive 3D/2D geometry
// viewer.
//
// # Overview
//
// Every frame, user draw callbacks call primitive functions on an API3D or
// API2D surface. Each primitive synthesizes its vertex data into a scratch
// arena, uploads it into a transient DrawBuffer3D or DrawBuffer2D, issues
// exactly one draw call and releases the buffer before returning:
//
//	engine := sandbox.NewEngine(dev)
//	err := engine.Frame(&sandbox.FrameParams{
//	    Camera:         camera.New(),
//	    ViewportWidth:  1280,
//	    ViewportHeight: 720,
//	    Light:          sandbox.DefaultLight(),
//	    Background:     sandbox.DefaultBackground,
//	    Render3D: func(api *sandbox.API3D) {
//	        api.Grid(10, 10, mgl32.Vec4{0.5, 0.5, 0.5, 1}, nil)
//	        api.AxisXYZ(nil)
//	    },
//	})
//
// # Devices
//
// Drawing goes through the Device capability: vertex arrays, attribute
// buffers, shader state and draw calls. Implementations live in
// backend/software (CPU rasterizer), backend/wgpu (gogpu/wgpu HAL) and
// recording (command log). The backend package keeps a registry of them.
//
// # Frame passes
//
// A frame runs three passes, each with its own shader kind: the standard
// lit 3D pass, a 3D pass whose vertex stage is displaced by time and a
// CustomBlock, and a 2D overlay pass in pixel coordinates with the origin
// at the bottom-left corner.
//
// # Viewer
//
// Package viewer drives a Scene on a Window: it moves the orbit camera
// from mouse input, calls Engine.Frame once per frame and reloads shaders
// on F7. Package config loads its settings from YAML.
//
// # Errors
//
// Contract violations (creating a live buffer, drawing a buffer that was
// never created, freeing scratch memory out of order) panic. Device
// failures are returned as errors from Engine.Frame after the frame ends.
package sandbox

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
