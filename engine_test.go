package sandbox_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/camera"
	"github.com/gogpu/sandbox/recording"
	"github.com/gogpu/sandbox/scratch"
)

func frameParams() *sandbox.FrameParams {
	return &sandbox.FrameParams{
		Camera:         camera.New(),
		ViewportWidth:  320,
		ViewportHeight: 240,
		PointSize:      1,
		LineWidth:      1,
		Background:     sandbox.DefaultBackground,
		Light:          sandbox.DefaultLight(),
	}
}

func TestEngineFramePassOrder(t *testing.T) {
	rec := recording.NewRecorder()
	e := sandbox.NewEngine(rec)

	p := frameParams()
	p.Custom = sandbox.NewWaveBlock(mgl32.Vec2{}, 0.5, 2)
	p.Time = 1.5
	p.Render3D = func(api *sandbox.API3D) {
		api.Grid(10, 10, white, nil)
		api.AxisXYZ(nil)
	}
	p.Render3DCustom = func(api *sandbox.API3D) {
		api.HorizontalPlane(mgl32.Vec3{}, mgl32.Vec2{10, 10}, 20, white)
	}
	p.Render2D = func(api *sandbox.API2D) {
		api.QuadFill(mgl32.Vec2{0, 0}, mgl32.Vec2{10, 10}, white)
	}

	if err := e.Frame(p); err != nil {
		t.Fatalf("Frame: %v", err)
	}

	r := rec.FinishRecording()
	cmds := r.Commands()
	if _, ok := cmds[0].(recording.BeginFrameCommand); !ok {
		t.Fatalf("first command = %v, want BeginFrame", cmds[0].Type())
	}
	if _, ok := cmds[len(cmds)-1].(recording.EndFrameCommand); !ok {
		t.Fatalf("last command = %v, want EndFrame", cmds[len(cmds)-1].Type())
	}

	var kinds []sandbox.ShaderKind
	for _, c := range cmds {
		if u, ok := c.(recording.UseShaderCommand); ok {
			kinds = append(kinds, u.State.Kind)
		}
	}
	want := []sandbox.ShaderKind{sandbox.ShaderStandard, sandbox.ShaderCustomVertex, sandbox.Shader2D}
	if len(kinds) != len(want) {
		t.Fatalf("shaders = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("shader %d = %v, want %v", i, kinds[i], want[i])
		}
	}

	draws := r.Draws()
	if len(draws) != 4 {
		t.Fatalf("draws = %d, want 4", len(draws))
	}
	if draws[2].Shader != sandbox.ShaderCustomVertex || draws[3].Shader != sandbox.Shader2D {
		t.Errorf("draw shaders = %v, %v", draws[2].Shader, draws[3].Shader)
	}

	st := e.Stats()
	if st.Draws3D != 3 || st.Draws2D != 1 || st.Skipped || st.Frame != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.ArenaPeak == 0 {
		t.Error("ArenaPeak = 0, grid should use scratch memory")
	}
	if rec.LiveBuffers() != 0 || rec.LiveVertexArrays() != 0 {
		t.Error("frame leaked device resources")
	}
}

func TestEngineFrameUniforms(t *testing.T) {
	rec := recording.NewRecorder()
	e := sandbox.NewEngine(rec, sandbox.WithClipPlanes(0.5, 50))

	p := frameParams()
	p.Custom = sandbox.NewWaveBlock(mgl32.Vec2{1, 2}, 0.25, 3)
	p.Time = 2
	p.Render3D = func(*sandbox.API3D) {}
	p.Render3DCustom = func(*sandbox.API3D) {}
	if err := e.Frame(p); err != nil {
		t.Fatal(err)
	}

	view := p.Camera.View()
	wantLight := view.Mul4x1(p.Light.Position)
	wantLight = wantLight.Mul(1 / wantLight.W())
	wantProj := p.Camera.Projection(320.0/240.0, 0.5, 50)

	var states []sandbox.ShaderState
	for _, c := range rec.FinishRecording().Commands() {
		if u, ok := c.(recording.UseShaderCommand); ok {
			states = append(states, u.State)
		}
	}
	if len(states) != 2 {
		t.Fatalf("UseShader calls = %d, want 2", len(states))
	}
	for _, s := range states {
		if !s.Frame.View.ApproxEqual(view) {
			t.Errorf("%v view = %v, want %v", s.Kind, s.Frame.View, view)
		}
		if !s.Frame.Projection.ApproxEqualThreshold(wantProj, 1e-5) {
			t.Errorf("%v projection mismatch", s.Kind)
		}
		if !s.Frame.Light.ApproxEqualThreshold(wantLight.Vec3(), 1e-4) {
			t.Errorf("%v light = %v, want %v", s.Kind, s.Frame.Light, wantLight.Vec3())
		}
		if s.Frame.SpecularPow != p.Light.SpecularPow || s.Frame.Ambient != p.Light.Ambient {
			t.Errorf("%v material = %+v", s.Kind, s.Frame)
		}
	}
	custom := states[1].Custom
	if custom.Time != 2 {
		t.Errorf("Time = %v, want 2", custom.Time)
	}
	if w := custom.Wave(); w.Amplitude != 0.25 || w.Frequency != 3 || w.Origin != (mgl32.Vec2{1, 2}) {
		t.Errorf("Wave() = %+v", w)
	}
}

func TestEngineSkipsEmptyViewport(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 100},
		{"zero height", 100, 0},
		{"negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recording.NewRecorder()
			e := sandbox.NewEngine(rec)
			p := frameParams()
			p.ViewportWidth, p.ViewportHeight = tt.w, tt.h
			called := false
			p.Render3D = func(*sandbox.API3D) { called = true }

			if err := e.Frame(p); err != nil {
				t.Fatal(err)
			}
			if called || rec.Len() != 0 {
				t.Error("skipped frame reached the device")
			}
			if !e.Stats().Skipped {
				t.Error("Stats().Skipped = false")
			}
		})
	}
}

func TestEngineNilPassesSkipped(t *testing.T) {
	rec := recording.NewRecorder()
	e := sandbox.NewEngine(rec)
	if err := e.Frame(frameParams()); err != nil {
		t.Fatal(err)
	}
	r := rec.FinishRecording()
	if n := r.Count(recording.CmdUseShader); n != 0 {
		t.Errorf("UseShader count = %d, want 0", n)
	}
	if r.Count(recording.CmdBeginFrame) != 1 || r.Count(recording.CmdEndFrame) != 1 {
		t.Error("frame should still be cleared and ended")
	}
}

func TestEngineArenaLeak(t *testing.T) {
	rec := recording.NewRecorder()
	arena := scratch.New(4096)
	e := sandbox.NewEngine(rec, sandbox.WithArena(arena))

	p := frameParams()
	p.Render3D = func(api *sandbox.API3D) {
		_ = api.Arena().Allocate(64)
	}
	p.Render2D = func(api *sandbox.API2D) {
		api.QuadFill(mgl32.Vec2{}, mgl32.Vec2{1, 1}, white)
	}

	err := e.Frame(p)
	if !errors.Is(err, sandbox.ErrArenaLeak) {
		t.Fatalf("Frame err = %v, want ErrArenaLeak", err)
	}
	if arena.Offset() != 0 {
		t.Errorf("arena offset = %d, want reset to 0", arena.Offset())
	}
	if e.Stats().Draws2D != 1 {
		t.Error("2D pass should still run after a leaking 3D pass")
	}
}

func TestEngineArenaPeakPerFrame(t *testing.T) {
	rec := recording.NewRecorder()
	arena := scratch.New(1 << 22)
	e := sandbox.NewEngine(rec, sandbox.WithArena(arena))

	p := frameParams()
	p.Render3D = func(api *sandbox.API3D) {
		api.SolidSphere(mgl32.Vec3{}, 1, 100, 100, white)
	}
	if err := e.Frame(p); err != nil {
		t.Fatalf("Frame 1: %v", err)
	}
	big := e.Stats().ArenaPeak

	p.Render3D = func(api *sandbox.API3D) {
		api.Grid(1, 1, white, nil)
	}
	if err := e.Frame(p); err != nil {
		t.Fatalf("Frame 2: %v", err)
	}
	small := e.Stats().ArenaPeak
	if small == 0 || small >= big {
		t.Errorf("ArenaPeak = %d after a grid frame, want in (0, %d)", small, big)
	}
	if arena.Peak() != small {
		t.Errorf("arena.Peak() = %d, want %d", arena.Peak(), small)
	}
}

func TestEngineJoinsDeviceErrors(t *testing.T) {
	rec := recording.NewRecorder()
	e := sandbox.NewEngine(rec)
	boom := errors.New("device lost")
	rec.FailOn(recording.CmdEndFrame, boom)

	p := frameParams()
	p.Render3D = func(api *sandbox.API3D) { api.AxisXYZ(nil) }
	if err := e.Frame(p); !errors.Is(err, boom) {
		t.Errorf("Frame err = %v, want %v", err, boom)
	}

	rec.FailOn(recording.CmdEndFrame, nil)
	rec.FailOn(recording.CmdBeginFrame, boom)
	if err := e.Frame(p); !errors.Is(err, boom) {
		t.Errorf("Frame err = %v, want %v", err, boom)
	}
}

func TestEngineNilDevice(t *testing.T) {
	e := sandbox.NewEngine(nil)
	if err := e.Frame(frameParams()); !errors.Is(err, sandbox.ErrNilDevice) {
		t.Errorf("Frame err = %v, want ErrNilDevice", err)
	}
}

func TestEngineReloadShadersWithoutSupport(t *testing.T) {
	e := sandbox.NewEngine(recording.NewRecorder())
	if err := e.ReloadShaders(); err != nil {
		t.Errorf("ReloadShaders() = %v, want nil for devices without reload", err)
	}
}
