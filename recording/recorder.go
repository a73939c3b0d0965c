package recording

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/sandbox"
)

// Errors returned by the Recorder.
var (
	// ErrUnknownHandle is returned when a command references a handle the
	// recorder never created or already deleted.
	ErrUnknownHandle = errors.New("recording: unknown handle")

	// ErrNoShader is returned by Draw before any UseShader call.
	ErrNoShader = errors.New("recording: draw without shader")
)

// Recorder is a sandbox.FrameDevice that records every call as a Command.
//
// Handles are allocated sequentially starting at 1 and never reused, so
// a stale handle is always detected. Buffer data and custom blocks are
// copied into the resource pool at call time.
//
// Example:
//
//	rec := recording.NewRecorder()
//	var b sandbox.DrawBuffer3D
//	_ = b.Create(rec, params)
//	b.Destroy(rec)
//	fmt.Println(rec.LiveBuffers()) // 0
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	resources     *ResourcePool

	next    sandbox.Handle
	vaos    map[sandbox.Handle]struct{}
	buffers map[sandbox.Handle]sandbox.Handle // buffer -> owning vertex array

	shader    sandbox.ShaderKind
	hasShader bool
	frames    int

	failures map[CommandType]error
	log      *slog.Logger
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		commands:  make([]Command, 0, 256),
		resources: NewResourcePool(),
		vaos:      make(map[sandbox.Handle]struct{}),
		buffers:   make(map[sandbox.Handle]sandbox.Handle),
		failures:  make(map[CommandType]error),
		log:       sandbox.Logger(),
	}
}

// SetLogger sets the logger used for diagnostics.
func (r *Recorder) SetLogger(l *slog.Logger) {
	if l == nil {
		l = sandbox.Logger()
	}
	r.log = l
}

// FailOn makes every later call of the given type return err without
// being recorded. A nil err clears the failure.
func (r *Recorder) FailOn(t CommandType, err error) {
	if err == nil {
		delete(r.failures, t)
		return
	}
	r.failures[t] = err
}

func (r *Recorder) injected(t CommandType) error {
	if err, ok := r.failures[t]; ok {
		return fmt.Errorf("%v: %w", t, err)
	}
	return nil
}

func (r *Recorder) record(cmd Command) {
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) alloc() sandbox.Handle {
	r.next++
	return r.next
}

// BeginFrame implements sandbox.FrameDevice.
func (r *Recorder) BeginFrame(target sandbox.FrameTarget) error {
	if err := r.injected(CmdBeginFrame); err != nil {
		return err
	}
	r.width, r.height = target.Width, target.Height
	r.hasShader = false
	r.frames++
	r.record(BeginFrameCommand{Target: target})
	return nil
}

// EndFrame implements sandbox.FrameDevice.
func (r *Recorder) EndFrame() error {
	if err := r.injected(CmdEndFrame); err != nil {
		return err
	}
	r.record(EndFrameCommand{})
	return nil
}

// Destroy implements sandbox.FrameDevice. Resources still live are
// reported and forgotten.
func (r *Recorder) Destroy() {
	if n := len(r.vaos) + len(r.buffers); n > 0 {
		r.log.Warn("recording: destroyed with live resources",
			"vertexArrays", len(r.vaos), "buffers", len(r.buffers))
	}
	clear(r.vaos)
	clear(r.buffers)
}

// CreateVertexArray implements sandbox.Device.
func (r *Recorder) CreateVertexArray() (sandbox.Handle, error) {
	if err := r.injected(CmdCreateVertexArray); err != nil {
		return 0, err
	}
	h := r.alloc()
	r.vaos[h] = struct{}{}
	r.record(CreateVertexArrayCommand{Handle: h})
	return h, nil
}

// CreateBuffer implements sandbox.Device.
func (r *Recorder) CreateBuffer(vao sandbox.Handle, desc sandbox.BufferDesc) (sandbox.Handle, error) {
	if err := r.injected(CmdCreateBuffer); err != nil {
		return 0, err
	}
	if _, ok := r.vaos[vao]; !ok {
		return 0, fmt.Errorf("create buffer %q: %w: vertex array %d", desc.Label, ErrUnknownHandle, vao)
	}
	h := r.alloc()
	r.buffers[h] = vao
	r.record(CreateBufferCommand{
		Handle:     h,
		VAO:        vao,
		Label:      desc.Label,
		Kind:       desc.Kind,
		Location:   desc.Location,
		Components: desc.Components,
		Data:       r.resources.AddBuffer(desc.Data),
		Size:       len(desc.Data),
	})
	return h, nil
}

// DeleteBuffer implements sandbox.Device. Deleting the null handle is a
// no-op.
func (r *Recorder) DeleteBuffer(h sandbox.Handle) {
	if h == 0 {
		return
	}
	if _, ok := r.buffers[h]; !ok {
		r.log.Warn("recording: delete of unknown buffer", "handle", h)
		return
	}
	delete(r.buffers, h)
	r.record(DeleteBufferCommand{Handle: h})
}

// DeleteVertexArray implements sandbox.Device. Deleting the null handle
// is a no-op.
func (r *Recorder) DeleteVertexArray(h sandbox.Handle) {
	if h == 0 {
		return
	}
	if _, ok := r.vaos[h]; !ok {
		r.log.Warn("recording: delete of unknown vertex array", "handle", h)
		return
	}
	delete(r.vaos, h)
	r.record(DeleteVertexArrayCommand{Handle: h})
}

// UseShader implements sandbox.Device.
func (r *Recorder) UseShader(state *sandbox.ShaderState) error {
	if err := r.injected(CmdUseShader); err != nil {
		return err
	}
	cmd := UseShaderCommand{State: *state, Custom: InvalidRef}
	if b := state.Custom.Block; b != nil {
		cmd.State.Custom.Block = b.Clone()
		cmd.Custom = r.resources.AddBuffer(b.Bytes())
	}
	r.shader = state.Kind
	r.hasShader = true
	r.record(cmd)
	return nil
}

// Draw implements sandbox.Device.
func (r *Recorder) Draw(call sandbox.DrawCall) error {
	if err := r.injected(CmdDraw); err != nil {
		return err
	}
	if !r.hasShader {
		return ErrNoShader
	}
	if _, ok := r.vaos[call.VAO]; !ok {
		return fmt.Errorf("draw: %w: vertex array %d", ErrUnknownHandle, call.VAO)
	}
	r.record(DrawCommand{Call: call, Shader: r.shader})
	return nil
}

// LiveVertexArrays returns the number of vertex arrays not yet deleted.
func (r *Recorder) LiveVertexArrays() int { return len(r.vaos) }

// LiveBuffers returns the number of buffers not yet deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// Frames returns the number of BeginFrame calls.
func (r *Recorder) Frames() int { return r.frames }

// Len returns the number of recorded commands.
func (r *Recorder) Len() int { return len(r.commands) }

// Reset drops the recorded commands and pooled data. Live handle
// tracking is kept.
func (r *Recorder) Reset() {
	r.commands = make([]Command, 0, 256)
	r.resources = NewResourcePool()
}

// FinishRecording returns an immutable Recording containing all recorded
// commands and starts a new, empty command list.
func (r *Recorder) FinishRecording() *Recording {
	rec := &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands,
		resources: r.resources,
	}
	r.Reset()
	return rec
}

// Recording is an immutable container for recorded device commands.
// It can be replayed to any sandbox.FrameDevice.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the width of the last recorded frame.
func (r *Recording) Width() int { return r.width }

// Height returns the height of the last recorded frame.
func (r *Recording) Height() int { return r.height }

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command { return r.commands }

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool { return r.resources }

// Count returns the number of commands of type t.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Draws returns the recorded draw commands in order.
func (r *Recording) Draws() []DrawCommand {
	var out []DrawCommand
	for _, c := range r.commands {
		if d, ok := c.(DrawCommand); ok {
			out = append(out, d)
		}
	}
	return out
}

// Buffers returns the recorded buffer creations in order.
func (r *Recording) Buffers() []CreateBufferCommand {
	var out []CreateBufferCommand
	for _, c := range r.commands {
		if b, ok := c.(CreateBufferCommand); ok {
			out = append(out, b)
		}
	}
	return out
}

// Playback replays the recording to the given device. Handles are
// remapped to the ones dev returns. Playback stops at the first error.
func (r *Recording) Playback(dev sandbox.FrameDevice) error {
	handles := make(map[sandbox.Handle]sandbox.Handle)

	for i, cmd := range r.commands {
		var err error
		switch c := cmd.(type) {
		case BeginFrameCommand:
			err = dev.BeginFrame(c.Target)
		case EndFrameCommand:
			err = dev.EndFrame()
		case CreateVertexArrayCommand:
			var h sandbox.Handle
			h, err = dev.CreateVertexArray()
			handles[c.Handle] = h
		case CreateBufferCommand:
			var h sandbox.Handle
			h, err = dev.CreateBuffer(handles[c.VAO], sandbox.BufferDesc{
				Label:      c.Label,
				Kind:       c.Kind,
				Location:   c.Location,
				Components: c.Components,
				Data:       r.resources.GetBuffer(c.Data),
			})
			handles[c.Handle] = h
		case DeleteBufferCommand:
			dev.DeleteBuffer(handles[c.Handle])
			delete(handles, c.Handle)
		case DeleteVertexArrayCommand:
			dev.DeleteVertexArray(handles[c.Handle])
			delete(handles, c.Handle)
		case UseShaderCommand:
			state := c.State
			if b := state.Custom.Block; b != nil {
				b = b.Clone()
				b.Load(r.resources.GetBuffer(c.Custom))
				state.Custom.Block = b
			}
			err = dev.UseShader(&state)
		case DrawCommand:
			call := c.Call
			call.VAO = handles[c.Call.VAO]
			err = dev.Draw(call)
		}
		if err != nil {
			return fmt.Errorf("playback command %d (%v): %w", i, cmd.Type(), err)
		}
	}
	return nil
}
