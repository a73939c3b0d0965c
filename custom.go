package sandbox

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FieldType is the type of a custom block field.
type FieldType uint8

const (
	FieldFloat32 FieldType = iota
	FieldVec2
	FieldVec3
	FieldVec4
	FieldMat4
)

var fieldTypeNames = [...]string{
	FieldFloat32: "f32",
	FieldVec2:    "vec2<f32>",
	FieldVec3:    "vec3<f32>",
	FieldVec4:    "vec4<f32>",
	FieldMat4:    "mat4x4<f32>",
}

// String returns the WGSL spelling of the type.
func (t FieldType) String() string {
	if int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return fmt.Sprintf("FieldType(%d)", t)
}

// size and align follow the std430 / WGSL storage layout rules.
func (t FieldType) size() int {
	switch t {
	case FieldVec2:
		return 8
	case FieldVec3:
		return 12
	case FieldVec4:
		return 16
	case FieldMat4:
		return 64
	default:
		return 4
	}
}

func (t FieldType) align() int {
	switch t {
	case FieldVec2:
		return 8
	case FieldVec3, FieldVec4, FieldMat4:
		return 16
	default:
		return 4
	}
}

// Field is a named member of a block layout. Offset is filled in by
// NewBlockLayout.
type Field struct {
	Name   string
	Type   FieldType
	Offset int
}

// BlockLayout describes the byte layout of a CustomBlock.
type BlockLayout struct {
	Name   string
	Fields []Field
	Size   int
}

// NewBlockLayout computes field offsets with storage-buffer alignment.
// The block size is rounded up to 16 bytes.
func NewBlockLayout(name string, fields ...Field) BlockLayout {
	l := BlockLayout{Name: name, Fields: make([]Field, len(fields))}
	off := 0
	for i, f := range fields {
		a := f.Type.align()
		off = (off + a - 1) &^ (a - 1)
		f.Offset = off
		l.Fields[i] = f
		off += f.Type.size()
	}
	l.Size = (off + 15) &^ 15
	return l
}

// Field returns the named field.
func (l BlockLayout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// WaveLayout is the layout read by the built-in custom vertex stage.
var WaveLayout = NewBlockLayout("Wave",
	Field{Name: "origin", Type: FieldVec2},
	Field{Name: "amplitude", Type: FieldFloat32},
	Field{Name: "frequency", Type: FieldFloat32},
)

// CustomBlock is a typed byte block uploaded to the custom vertex stage.
// Values are stored little-endian at the offsets of its layout.
type CustomBlock struct {
	layout BlockLayout
	data   []byte
}

// NewCustomBlock allocates a zeroed block for the layout.
func NewCustomBlock(layout BlockLayout) *CustomBlock {
	return &CustomBlock{layout: layout, data: make([]byte, layout.Size)}
}

// NewWaveBlock returns a WaveLayout block with the given parameters. It
// panics if WaveLayout lacks one of its fields.
func NewWaveBlock(origin mgl32.Vec2, amplitude, frequency float32) *CustomBlock {
	b := NewCustomBlock(WaveLayout)
	for _, err := range []error{
		b.SetVec2("origin", origin),
		b.SetFloat("amplitude", amplitude),
		b.SetFloat("frequency", frequency),
	} {
		if err != nil {
			panic(err)
		}
	}
	return b
}

// Layout returns the block layout.
func (b *CustomBlock) Layout() BlockLayout { return b.layout }

// Bytes returns the block contents. The slice aliases the block.
func (b *CustomBlock) Bytes() []byte { return b.data }

// Size returns the block size in bytes.
func (b *CustomBlock) Size() int { return len(b.data) }

// Clone returns a deep copy of the block.
func (b *CustomBlock) Clone() *CustomBlock {
	c := NewCustomBlock(b.layout)
	copy(c.data, b.data)
	return c
}

// Load overwrites the block contents with raw. Extra bytes are ignored,
// missing bytes are left unchanged.
func (b *CustomBlock) Load(raw []byte) {
	copy(b.data, raw)
}

func (b *CustomBlock) field(name string, want FieldType) (Field, error) {
	f, ok := b.layout.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, b.layout.Name, name)
	}
	if f.Type != want {
		return Field{}, fmt.Errorf("%w: %s.%s is %v, not %v", ErrFieldType, b.layout.Name, name, f.Type, want)
	}
	return f, nil
}

func (b *CustomBlock) put(off int, vals ...float32) {
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b.data[off+4*i:], math.Float32bits(v))
	}
}

func (b *CustomBlock) get(off, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+4*i:]))
	}
	return out
}

// SetFloat stores a float32 field.
func (b *CustomBlock) SetFloat(name string, v float32) error {
	f, err := b.field(name, FieldFloat32)
	if err != nil {
		return err
	}
	b.put(f.Offset, v)
	return nil
}

// SetVec2 stores a vec2 field.
func (b *CustomBlock) SetVec2(name string, v mgl32.Vec2) error {
	f, err := b.field(name, FieldVec2)
	if err != nil {
		return err
	}
	b.put(f.Offset, v[:]...)
	return nil
}

// SetVec3 stores a vec3 field.
func (b *CustomBlock) SetVec3(name string, v mgl32.Vec3) error {
	f, err := b.field(name, FieldVec3)
	if err != nil {
		return err
	}
	b.put(f.Offset, v[:]...)
	return nil
}

// SetVec4 stores a vec4 field.
func (b *CustomBlock) SetVec4(name string, v mgl32.Vec4) error {
	f, err := b.field(name, FieldVec4)
	if err != nil {
		return err
	}
	b.put(f.Offset, v[:]...)
	return nil
}

// SetMat4 stores a column-major mat4 field.
func (b *CustomBlock) SetMat4(name string, m mgl32.Mat4) error {
	f, err := b.field(name, FieldMat4)
	if err != nil {
		return err
	}
	b.put(f.Offset, m[:]...)
	return nil
}

// Float reads a float32 field.
func (b *CustomBlock) Float(name string) (float32, error) {
	f, err := b.field(name, FieldFloat32)
	if err != nil {
		return 0, err
	}
	return b.get(f.Offset, 1)[0], nil
}

// Vec2 reads a vec2 field.
func (b *CustomBlock) Vec2(name string) (mgl32.Vec2, error) {
	f, err := b.field(name, FieldVec2)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	v := b.get(f.Offset, 2)
	return mgl32.Vec2{v[0], v[1]}, nil
}

// Vec3 reads a vec3 field.
func (b *CustomBlock) Vec3(name string) (mgl32.Vec3, error) {
	f, err := b.field(name, FieldVec3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	v := b.get(f.Offset, 3)
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// Vec4 reads a vec4 field.
func (b *CustomBlock) Vec4(name string) (mgl32.Vec4, error) {
	f, err := b.field(name, FieldVec4)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	v := b.get(f.Offset, 4)
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
}
