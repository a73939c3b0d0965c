package recording

import (
	"testing"
)

func TestCommandType_String(t *testing.T) {
	tests := []struct {
		ct   CommandType
		want string
	}{
		{CmdBeginFrame, "BeginFrame"},
		{CmdEndFrame, "EndFrame"},
		{CmdCreateVertexArray, "CreateVertexArray"},
		{CmdCreateBuffer, "CreateBuffer"},
		{CmdDeleteBuffer, "DeleteBuffer"},
		{CmdDeleteVertexArray, "DeleteVertexArray"},
		{CmdUseShader, "UseShader"},
		{CmdDraw, "Draw"},
		{CommandType(254), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.ct.String(); got != tt.want {
				t.Errorf("CommandType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommand_Type(t *testing.T) {
	tests := []struct {
		cmd  Command
		want CommandType
	}{
		{BeginFrameCommand{}, CmdBeginFrame},
		{EndFrameCommand{}, CmdEndFrame},
		{CreateVertexArrayCommand{}, CmdCreateVertexArray},
		{CreateBufferCommand{}, CmdCreateBuffer},
		{DeleteBufferCommand{}, CmdDeleteBuffer},
		{DeleteVertexArrayCommand{}, CmdDeleteVertexArray},
		{UseShaderCommand{}, CmdUseShader},
		{DrawCommand{}, CmdDraw},
	}
	for _, tt := range tests {
		if got := tt.cmd.Type(); got != tt.want {
			t.Errorf("%T.Type() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}
