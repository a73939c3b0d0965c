package recording

import (
	"github.com/gogpu/sandbox"
)

// CommandType identifies the type of a command.
// Each command type corresponds to one device operation.
type CommandType uint8

const (
	// Frame commands
	CmdBeginFrame CommandType = iota // Begin a frame
	CmdEndFrame                      // End a frame

	// Resource commands
	CmdCreateVertexArray // Create a vertex array
	CmdCreateBuffer      // Create and upload a buffer
	CmdDeleteBuffer      // Delete a buffer
	CmdDeleteVertexArray // Delete a vertex array

	// Drawing commands
	CmdUseShader // Select shader and uniforms
	CmdDraw      // Draw a vertex array
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdBeginFrame:        "BeginFrame",
	CmdEndFrame:          "EndFrame",
	CmdCreateVertexArray: "CreateVertexArray",
	CmdCreateBuffer:      "CreateBuffer",
	CmdDeleteBuffer:      "DeleteBuffer",
	CmdDeleteVertexArray: "DeleteVertexArray",
	CmdUseShader:         "UseShader",
	CmdDraw:              "Draw",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// BeginFrameCommand starts a frame.
type BeginFrameCommand struct {
	Target sandbox.FrameTarget
}

// Type implements Command.
func (BeginFrameCommand) Type() CommandType { return CmdBeginFrame }

// EndFrameCommand ends a frame.
type EndFrameCommand struct{}

// Type implements Command.
func (EndFrameCommand) Type() CommandType { return CmdEndFrame }

// CreateVertexArrayCommand records a vertex array creation.
type CreateVertexArrayCommand struct {
	Handle sandbox.Handle
}

// Type implements Command.
func (CreateVertexArrayCommand) Type() CommandType { return CmdCreateVertexArray }

// CreateBufferCommand records a buffer creation. Data refers to a copy in
// the recording's resource pool.
type CreateBufferCommand struct {
	Handle     sandbox.Handle
	VAO        sandbox.Handle
	Label      string
	Kind       sandbox.BufferKind
	Location   int
	Components int
	Data       BufferRef
	Size       int
}

// Type implements Command.
func (CreateBufferCommand) Type() CommandType { return CmdCreateBuffer }

// DeleteBufferCommand records a buffer deletion.
type DeleteBufferCommand struct {
	Handle sandbox.Handle
}

// Type implements Command.
func (DeleteBufferCommand) Type() CommandType { return CmdDeleteBuffer }

// DeleteVertexArrayCommand records a vertex array deletion.
type DeleteVertexArrayCommand struct {
	Handle sandbox.Handle
}

// Type implements Command.
func (DeleteVertexArrayCommand) Type() CommandType { return CmdDeleteVertexArray }

// UseShaderCommand records a shader selection. Custom block bytes are
// copied at record time.
type UseShaderCommand struct {
	State  sandbox.ShaderState
	Custom BufferRef
}

// Type implements Command.
func (UseShaderCommand) Type() CommandType { return CmdUseShader }

// DrawCommand records a draw call.
type DrawCommand struct {
	Call sandbox.DrawCall

	// Shader is the kind active when the draw was recorded.
	Shader sandbox.ShaderKind
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }
