// Package recording provides a sandbox.FrameDevice that records device
// operations as typed commands instead of drawing them.
//
// # Architecture
//
// The system follows a Command Pattern with three main components:
//
//   - Recorder: a FrameDevice that captures every call as a Command
//   - Recording: the immutable command list plus copied buffer data
//   - Playback: replays a Recording onto any other FrameDevice
//
// The Recorder also tracks live vertex arrays and buffers, which makes it
// the device of choice for testing the create/draw/destroy lifecycle of
// draw buffers.
//
// Playback is a test and tooling aid. The viewer and the engine never call
// it; tests use it to replay a recorded frame on another device.
//
// # Basic Usage
//
//	rec := recording.NewRecorder()
//	engine := sandbox.NewEngine(rec)
//	_ = engine.Frame(params)
//
//	r := rec.FinishRecording()
//	for _, d := range r.Draws() {
//	    fmt.Println(d.Call.Topology, d.Call.Count)
//	}
//
//	// Render the same frame in software.
//	_ = r.Playback(softwareDevice)
package recording
