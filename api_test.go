package sandbox_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/sandbox"
	"github.com/gogpu/sandbox/geometry"
	"github.com/gogpu/sandbox/recording"
	"github.com/gogpu/sandbox/scratch"
)

var white = mgl32.Vec4{1, 1, 1, 1}

func newAPI3D(t *testing.T) (*sandbox.API3D, *recording.Recorder) {
	t.Helper()
	rec := recording.NewRecorder()
	if err := rec.UseShader(&sandbox.ShaderState{Kind: sandbox.ShaderStandard}); err != nil {
		t.Fatal(err)
	}
	return sandbox.NewAPI3D(rec, scratch.New(1<<20)), rec
}

func newAPI2D(t *testing.T) (*sandbox.API2D, *recording.Recorder) {
	t.Helper()
	rec := recording.NewRecorder()
	if err := rec.UseShader(&sandbox.ShaderState{Kind: sandbox.Shader2D}); err != nil {
		t.Fatal(err)
	}
	return sandbox.NewAPI2D(rec, scratch.New(1<<20)), rec
}

func TestAPI3DPrimitives(t *testing.T) {
	_, sphereI := geometry.SphereCounts(8, 6)
	_, planeI := geometry.PlaneCounts(3)
	model := mgl32.Translate3D(1, 2, 3)

	tests := []struct {
		name     string
		draw     func(api *sandbox.API3D)
		topology sandbox.Topology
		count    int
		indexed  bool
		lit      bool
		model    mgl32.Mat4
	}{
		{
			name:     "lines",
			draw:     func(api *sandbox.API3D) { api.Lines([]mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}, white, nil) },
			topology: sandbox.DrawLines, count: 2, model: mgl32.Ident4(),
		},
		{
			name:     "grid",
			draw:     func(api *sandbox.API3D) { api.Grid(10, 4, white, &model) },
			topology: sandbox.DrawLines, count: 2 * geometry.GridLineCount(4), model: model,
		},
		{
			name:     "axis",
			draw:     func(api *sandbox.API3D) { api.AxisXYZ(nil) },
			topology: sandbox.DrawLines, count: 6, model: mgl32.Ident4(),
		},
		{
			name:     "cube",
			draw:     func(api *sandbox.API3D) { api.SolidCube(1, white, &model) },
			topology: sandbox.DrawTriangles, count: geometry.CubeVertexCount, lit: true, model: model,
		},
		{
			name:     "sphere",
			draw:     func(api *sandbox.API3D) { api.SolidSphere(mgl32.Vec3{}, 1, 8, 6, white) },
			topology: sandbox.DrawTriangles, count: sphereI, indexed: true, lit: true, model: mgl32.Ident4(),
		},
		{
			name: "bone",
			draw: func(api *sandbox.API3D) {
				api.Bone(mgl32.Vec3{0, 1, 0}, white, mgl32.QuatIdent(), mgl32.Vec3{})
			},
			topology: sandbox.DrawTriangles, count: geometry.BoneVertexCount, lit: true, model: mgl32.Ident4(),
		},
		{
			name:     "plane",
			draw:     func(api *sandbox.API3D) { api.HorizontalPlane(mgl32.Vec3{}, mgl32.Vec2{4, 4}, 3, white) },
			topology: sandbox.DrawTriangles, count: planeI, indexed: true, lit: true, model: mgl32.Ident4(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, rec := newAPI3D(t)
			tt.draw(api)
			if err := api.Err(); err != nil {
				t.Fatalf("Err() = %v", err)
			}
			if api.Draws() != 1 {
				t.Errorf("Draws() = %d, want 1", api.Draws())
			}
			if api.Arena().Offset() != 0 {
				t.Errorf("arena offset = %d after draw, want 0", api.Arena().Offset())
			}
			if rec.LiveBuffers() != 0 || rec.LiveVertexArrays() != 0 {
				t.Errorf("leaked %d buffers, %d arrays", rec.LiveBuffers(), rec.LiveVertexArrays())
			}

			draws := rec.FinishRecording().Draws()
			if len(draws) != 1 {
				t.Fatalf("recorded %d draws, want 1", len(draws))
			}
			c := draws[0].Call
			if c.Topology != tt.topology || c.Count != tt.count || c.Indexed != tt.indexed || c.Lighting != tt.lit {
				t.Errorf("call = {%v count=%d indexed=%v lit=%v}, want {%v count=%d indexed=%v lit=%v}",
					c.Topology, c.Count, c.Indexed, c.Lighting, tt.topology, tt.count, tt.indexed, tt.lit)
			}
			if !c.Model.ApproxEqual(tt.model) {
				t.Errorf("model = %v, want %v", c.Model, tt.model)
			}
		})
	}
}

func TestAPI3DBufferNotCreatedPanics(t *testing.T) {
	api, _ := newAPI3D(t)
	var b sandbox.DrawBuffer3D
	expectPanic(t, sandbox.ErrBufferNotCreated, func() {
		api.Buffer(&b, sandbox.DrawTriangles, nil)
	})
}

func TestAPI3DUserBuffer(t *testing.T) {
	api, rec := newAPI3D(t)
	var b sandbox.DrawBuffer3D
	if err := b.Create(rec, triangle(false)); err != nil {
		t.Fatal(err)
	}
	api.Buffer(&b, sandbox.DrawPoints, nil)
	api.Buffer(&b, sandbox.DrawTriangles, nil)
	b.Destroy(rec)

	draws := rec.FinishRecording().Draws()
	if len(draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(draws))
	}
	if draws[0].Call.Topology != sandbox.DrawPoints || draws[0].Call.Lighting {
		t.Errorf("first draw = %+v, want unlit points", draws[0].Call)
	}
}

func TestAPI3DDeviceErrorKeepsFirst(t *testing.T) {
	api, rec := newAPI3D(t)
	boom := errors.New("lost device")
	rec.FailOn(recording.CmdDraw, boom)

	api.AxisXYZ(nil)
	api.SolidCube(1, white, nil)

	if !errors.Is(api.Err(), boom) {
		t.Errorf("Err() = %v, want %v", api.Err(), boom)
	}
	if rec.LiveBuffers() != 0 || rec.LiveVertexArrays() != 0 {
		t.Error("failed draws leaked resources")
	}
}

func TestAPI2DPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		draw     func(api *sandbox.API2D)
		topology sandbox.Topology
		count    int
	}{
		{"lines", func(api *sandbox.API2D) { api.Lines([]mgl32.Vec2{{0, 0}, {5, 5}}, white) }, sandbox.DrawLines, 2},
		{"quad fill", func(api *sandbox.API2D) { api.QuadFill(mgl32.Vec2{0, 0}, mgl32.Vec2{4, 4}, white) }, sandbox.DrawTriangles, 6},
		{"quad contour", func(api *sandbox.API2D) { api.QuadContour(mgl32.Vec2{0, 0}, mgl32.Vec2{4, 4}, white) }, sandbox.DrawLines, 8},
		{"circle fill", func(api *sandbox.API2D) { api.CircleFill(mgl32.Vec2{}, 3, 16, white) }, sandbox.DrawTriangles, 48},
		{"circle fill clamped", func(api *sandbox.API2D) { api.CircleFill(mgl32.Vec2{}, 3, 1, white) }, sandbox.DrawTriangles, 12},
		{"circle contour", func(api *sandbox.API2D) { api.CircleContour(mgl32.Vec2{}, 3, 16, white) }, sandbox.DrawLines, 32},
		{"arrow", func(api *sandbox.API2D) {
			api.Arrow(mgl32.Vec2{0, 0}, mgl32.Vec2{10, 0}, 2, 0.3, white)
		}, sandbox.DrawTriangles, geometry.ArrowVertexCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, rec := newAPI2D(t)
			tt.draw(api)
			if err := api.Err(); err != nil {
				t.Fatal(err)
			}
			if api.Arena().Offset() != 0 {
				t.Errorf("arena offset = %d, want 0", api.Arena().Offset())
			}
			if rec.LiveBuffers() != 0 || rec.LiveVertexArrays() != 0 {
				t.Error("2D draw leaked resources")
			}
			draws := rec.FinishRecording().Draws()
			if len(draws) != 1 {
				t.Fatalf("draws = %d, want 1", len(draws))
			}
			if c := draws[0].Call; c.Topology != tt.topology || c.Count != tt.count || c.Indexed {
				t.Errorf("call = {%v %d indexed=%v}, want {%v %d}", c.Topology, c.Count, c.Indexed, tt.topology, tt.count)
			}
		})
	}
}

func TestAPI2DBufferNotCreatedPanics(t *testing.T) {
	api, _ := newAPI2D(t)
	var b sandbox.DrawBuffer2D
	expectPanic(t, sandbox.ErrBufferNotCreated, func() {
		api.Buffer(&b, sandbox.DrawLines)
	})
}
