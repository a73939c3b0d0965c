package sandbox

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestBlockLayoutOffsets(t *testing.T) {
	l := NewBlockLayout("Test",
		Field{Name: "a", Type: FieldFloat32},
		Field{Name: "b", Type: FieldVec3},
		Field{Name: "c", Type: FieldVec2},
		Field{Name: "d", Type: FieldMat4},
	)
	want := map[string]int{"a": 0, "b": 16, "c": 32, "d": 48}
	for name, off := range want {
		f, ok := l.Field(name)
		if !ok {
			t.Fatalf("field %q missing", name)
		}
		if f.Offset != off {
			t.Errorf("%s offset = %d, want %d", name, f.Offset, off)
		}
	}
	if l.Size != 112 {
		t.Errorf("Size = %d, want 112", l.Size)
	}
	if _, ok := l.Field("missing"); ok {
		t.Error("Field(missing) found")
	}
}

func TestWaveLayoutMatchesWaveParams(t *testing.T) {
	if WaveLayout.Size != WaveParamsSize {
		t.Errorf("WaveLayout.Size = %d, want %d", WaveLayout.Size, WaveParamsSize)
	}
	b := NewWaveBlock(mgl32.Vec2{3, 4}, 0.5, 2)
	w := CustomUniforms{Block: b}.Wave()
	if w.Origin != (mgl32.Vec2{3, 4}) || w.Amplitude != 0.5 || w.Frequency != 2 {
		t.Errorf("Wave() = %+v", w)
	}
	if (CustomUniforms{}).Wave() != (WaveParams{}) {
		t.Error("nil block should read as zero wave")
	}
}

func TestNewWaveBlockLayoutMismatch(t *testing.T) {
	tests := []struct {
		name   string
		layout BlockLayout
		want   error
	}{
		{"missing frequency", NewBlockLayout("Wave",
			Field{Name: "origin", Type: FieldVec2},
			Field{Name: "amplitude", Type: FieldFloat32},
		), ErrFieldNotFound},
		{"origin not vec2", NewBlockLayout("Wave",
			Field{Name: "origin", Type: FieldVec3},
			Field{Name: "amplitude", Type: FieldFloat32},
			Field{Name: "frequency", Type: FieldFloat32},
		), ErrFieldType},
	}
	saved := WaveLayout
	defer func() { WaveLayout = saved }()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			WaveLayout = tt.layout
			defer func() {
				err, _ := recover().(error)
				if !errors.Is(err, tt.want) {
					t.Errorf("NewWaveBlock() panic = %v, want %v", err, tt.want)
				}
			}()
			NewWaveBlock(mgl32.Vec2{1, 2}, 0.5, 2)
		})
	}
}

func TestCustomBlockAccessors(t *testing.T) {
	l := NewBlockLayout("Params",
		Field{Name: "scale", Type: FieldFloat32},
		Field{Name: "tint", Type: FieldVec4},
		Field{Name: "axis", Type: FieldVec3},
		Field{Name: "xform", Type: FieldMat4},
	)
	b := NewCustomBlock(l)

	if err := b.SetFloat("scale", 2); err != nil {
		t.Fatal(err)
	}
	if err := b.SetVec4("tint", mgl32.Vec4{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetVec3("axis", mgl32.Vec3{0, 1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetMat4("xform", mgl32.Ident4()); err != nil {
		t.Fatal(err)
	}

	if v, _ := b.Float("scale"); v != 2 {
		t.Errorf("Float(scale) = %v", v)
	}
	if v, _ := b.Vec4("tint"); v != (mgl32.Vec4{1, 2, 3, 4}) {
		t.Errorf("Vec4(tint) = %v", v)
	}
	if v, _ := b.Vec3("axis"); v != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Vec3(axis) = %v", v)
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown field", b.SetFloat("nope", 1), ErrFieldNotFound},
		{"wrong type set", b.SetVec2("scale", mgl32.Vec2{}), ErrFieldType},
		{"wrong type get", func() error { _, err := b.Vec3("tint"); return err }(), ErrFieldType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestCustomBlockCloneAndLoad(t *testing.T) {
	b := NewWaveBlock(mgl32.Vec2{}, 1, 1)
	c := b.Clone()
	_ = b.SetFloat("amplitude", 5)
	if v, _ := c.Float("amplitude"); v != 1 {
		t.Errorf("clone amplitude = %v, want 1", v)
	}
	c.Load(b.Bytes())
	if v, _ := c.Float("amplitude"); v != 5 {
		t.Errorf("loaded amplitude = %v, want 5", v)
	}
}

func TestWaveOffset(t *testing.T) {
	w := WaveParams{Origin: mgl32.Vec2{0, 0}, Amplitude: 2, Frequency: 1}
	tests := []struct {
		name string
		p    mgl32.Vec3
		time float32
		want float32
	}{
		{"origin at t0", mgl32.Vec3{0, 5, 0}, 0, 0},
		{"quarter period", mgl32.Vec3{math32.Pi / 2, 0, 0}, 0, 2},
		{"time shift", mgl32.Vec3{0, 0, math32.Pi / 2}, math32.Pi / 2, 0},
		{"y ignored", mgl32.Vec3{math32.Pi / 2, 100, 0}, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WaveOffset(tt.p, tt.time, w)
			if math32.Abs(got-tt.want) > 1e-5 {
				t.Errorf("WaveOffset(%v, %v) = %v, want %v", tt.p, tt.time, got, tt.want)
			}
		})
	}
	if WaveOffset(mgl32.Vec3{1, 0, 1}, 0, WaveParams{}) != 0 {
		t.Error("zero amplitude should not displace")
	}
}

func TestShaderKind(t *testing.T) {
	tests := []struct {
		kind ShaderKind
		name string
		is3D bool
	}{
		{ShaderStandard, "Standard", true},
		{ShaderCustomVertex, "CustomVertex", true},
		{Shader2D, "2D", false},
	}
	for _, tt := range tests {
		if tt.kind.String() != tt.name || tt.kind.Is3D() != tt.is3D {
			t.Errorf("%d: String() = %q, Is3D() = %v", tt.kind, tt.kind.String(), tt.kind.Is3D())
		}
	}
}

func TestWaveSlopeMatchesOffset(t *testing.T) {
	w := WaveParams{Origin: mgl32.Vec2{0.5, -1}, Amplitude: 0.3, Frequency: 2}
	const h = 1e-3
	for _, p := range []mgl32.Vec3{{1, 0, 2}, {-2, 0, 0.5}, {3, 1, -3}} {
		dx, dz := WaveSlope(p, 0.7, w)
		nx := (WaveOffset(p.Add(mgl32.Vec3{h, 0, 0}), 0.7, w) - WaveOffset(p.Sub(mgl32.Vec3{h, 0, 0}), 0.7, w)) / (2 * h)
		nz := (WaveOffset(p.Add(mgl32.Vec3{0, 0, h}), 0.7, w) - WaveOffset(p.Sub(mgl32.Vec3{0, 0, h}), 0.7, w)) / (2 * h)
		if math32.Abs(dx-nx) > 1e-2 || math32.Abs(dz-nz) > 1e-2 {
			t.Errorf("WaveSlope(%v) = (%v, %v), numeric (%v, %v)", p, dx, dz, nx, nz)
		}
	}
	if dx, dz := WaveSlope(mgl32.Vec3{0.5, 0, -1}, 0, w); dx != 0 || dz != 0 {
		t.Error("slope at the wave origin should be zero")
	}
}
