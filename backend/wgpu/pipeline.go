//go:build !nogpu

package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sandbox"
)

//go:embed shaders/mesh.wgsl
var meshShaderSource string

//go:embed shaders/overlay.wgsl
var overlayShaderSource string

// Shader file names looked up in the shader directory.
const (
	meshShaderFile    = "mesh.wgsl"
	overlayShaderFile = "overlay.wgsl"
)

type shaderSources struct {
	mesh    string
	overlay string
}

func embeddedSources() shaderSources {
	return shaderSources{mesh: meshShaderSource, overlay: overlayShaderSource}
}

func readSources(dir string) (shaderSources, error) {
	mesh, err := os.ReadFile(filepath.Join(dir, meshShaderFile))
	if err != nil {
		return shaderSources{}, err
	}
	overlay, err := os.ReadFile(filepath.Join(dir, overlayShaderFile))
	if err != nil {
		return shaderSources{}, err
	}
	return shaderSources{mesh: string(mesh), overlay: string(overlay)}, nil
}

// compileWGSL translates WGSL to SPIR-V words.
func compileWGSL(label, source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", label, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile %s shader: SPIR-V size %d not aligned to 4 bytes", label, len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// modules holds the compiled programs.
type modules struct {
	mesh    hal.ShaderModule
	overlay hal.ShaderModule
}

func (m *modules) create(device hal.Device, src shaderSources) error {
	meshCode, err := compileWGSL("mesh", src.mesh)
	if err != nil {
		return err
	}
	overlayCode, err := compileWGSL("overlay", src.overlay)
	if err != nil {
		return err
	}

	m.mesh, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sandbox_mesh_shader",
		Source: hal.ShaderSource{SPIRV: meshCode},
	})
	if err != nil {
		return fmt.Errorf("create mesh shader module: %w", err)
	}
	m.overlay, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sandbox_overlay_shader",
		Source: hal.ShaderSource{SPIRV: overlayCode},
	})
	if err != nil {
		m.destroy(device)
		return fmt.Errorf("create overlay shader module: %w", err)
	}
	return nil
}

func (m *modules) destroy(device hal.Device) {
	if m.overlay != nil {
		device.DestroyShaderModule(m.overlay)
		m.overlay = nil
	}
	if m.mesh != nil {
		device.DestroyShaderModule(m.mesh)
		m.mesh = nil
	}
}

// layouts holds the bind group and pipeline layouts shared by all
// pipelines. They do not depend on shader source and survive reloads.
type layouts struct {
	frame    hal.BindGroupLayout // group 0 of mesh: frame uniforms, custom block
	object   hal.BindGroupLayout // group 1 of mesh: model and normal matrix
	viewport hal.BindGroupLayout // group 0 of overlay
	mesh     hal.PipelineLayout
	overlay  hal.PipelineLayout
}

func (l *layouts) create(device hal.Device) error {
	stages := gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	uniform := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: stages,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}
	}

	var err error
	l.frame, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sandbox_frame_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			uniform(0),
			{
				Binding:    1,
				Visibility: stages,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create frame layout: %w", err)
	}
	l.object, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "sandbox_object_layout",
		Entries: []gputypes.BindGroupLayoutEntry{uniform(0)},
	})
	if err != nil {
		return fmt.Errorf("create object layout: %w", err)
	}
	l.viewport, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "sandbox_viewport_layout",
		Entries: []gputypes.BindGroupLayoutEntry{uniform(0)},
	})
	if err != nil {
		return fmt.Errorf("create viewport layout: %w", err)
	}

	l.mesh, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sandbox_mesh_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{l.frame, l.object},
	})
	if err != nil {
		return fmt.Errorf("create mesh pipeline layout: %w", err)
	}
	l.overlay, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sandbox_overlay_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{l.viewport},
	})
	if err != nil {
		return fmt.Errorf("create overlay pipeline layout: %w", err)
	}
	return nil
}

// destroy releases the layouts in reverse creation order.
func (l *layouts) destroy(device hal.Device) {
	if l.overlay != nil {
		device.DestroyPipelineLayout(l.overlay)
		l.overlay = nil
	}
	if l.mesh != nil {
		device.DestroyPipelineLayout(l.mesh)
		l.mesh = nil
	}
	for _, bgl := range []*hal.BindGroupLayout{&l.viewport, &l.object, &l.frame} {
		if *bgl != nil {
			device.DestroyBindGroupLayout(*bgl)
			*bgl = nil
		}
	}
}

// pipelineKey identifies a render pipeline. Lighting selects the vertex
// layout with a normal stream.
type pipelineKey struct {
	kind sandbox.ShaderKind
	topo sandbox.Topology
	lit  bool
}

func (k pipelineKey) String() string {
	if k.lit {
		return fmt.Sprintf("%v/%v/lit", k.kind, k.topo)
	}
	return fmt.Sprintf("%v/%v", k.kind, k.topo)
}

func (k pipelineKey) entryPoints() (vs, fs string) {
	switch {
	case k.kind == sandbox.Shader2D:
		return "vs_main", "fs_main"
	case k.kind == sandbox.ShaderCustomVertex && k.lit:
		return "vs_wave_lit", "fs_lit"
	case k.kind == sandbox.ShaderCustomVertex:
		return "vs_wave_unlit", "fs_unlit"
	case k.lit:
		return "vs_lit", "fs_lit"
	default:
		return "vs_unlit", "fs_unlit"
	}
}

func (k pipelineKey) topology() gputypes.PrimitiveTopology {
	switch k.topo {
	case sandbox.DrawLines:
		return gputypes.PrimitiveTopologyLineList
	case sandbox.DrawPoints:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// vertexStream is one non-interleaved vertex buffer of a pipeline.
type vertexStream struct {
	location   int
	components int
}

// streams returns the vertex buffers of the pipeline in slot order.
func (k pipelineKey) streams() []vertexStream {
	if k.kind == sandbox.Shader2D {
		return []vertexStream{{sandbox.Attrib2DPosition, 2}, {sandbox.Attrib2DColor, 4}}
	}
	if k.lit {
		return []vertexStream{{sandbox.Attrib3DPosition, 3}, {sandbox.Attrib3DNormal, 3}, {sandbox.Attrib3DColor, 4}}
	}
	return []vertexStream{{sandbox.Attrib3DPosition, 3}, {sandbox.Attrib3DColor, 4}}
}

var vertexFormats = [...]gputypes.VertexFormat{
	2: gputypes.VertexFormatFloat32x2,
	3: gputypes.VertexFormatFloat32x3,
	4: gputypes.VertexFormatFloat32x4,
}

func (k pipelineKey) vertexLayout() []gputypes.VertexBufferLayout {
	streams := k.streams()
	out := make([]gputypes.VertexBufferLayout, len(streams))
	for i, s := range streams {
		out[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(s.components) * 4, // #nosec G115 -- 2..4 components
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{{
				Format:         vertexFormats[s.components],
				Offset:         0,
				ShaderLocation: uint32(s.location), // #nosec G115 -- attribute slots are small
			}},
		}
	}
	return out
}

// depthState enables the depth test for 3D programs and disables it for
// 2D. The stencil aspect is unused.
func (k pipelineKey) depthState() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	ds := &hal.DepthStencilState{
		Format:       gputypes.TextureFormatDepth24PlusStencil8,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: keep,
		StencilBack:  keep,
	}
	if k.kind.Is3D() {
		ds.DepthWriteEnabled = true
		ds.DepthCompare = gputypes.CompareFunctionLess
	}
	return ds
}

// pipeline returns the cached pipeline for key, creating it on a miss.
func (d *Device) pipeline(key pipelineKey) (hal.RenderPipeline, error) {
	return d.pipelines.GetOrCreate(key, func() (hal.RenderPipeline, error) {
		return d.createPipeline(key)
	})
}

func (d *Device) createPipeline(key pipelineKey) (hal.RenderPipeline, error) {
	module, layout := d.modules.mesh, d.layouts.mesh
	if key.kind == sandbox.Shader2D {
		module, layout = d.modules.overlay, d.layouts.overlay
	}
	vs, fs := key.entryPoints()
	blend := gputypes.BlendStateAlpha()

	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sandbox_" + key.String(),
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: vs,
			Buffers:    key.vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: fs,
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatBGRA8Unorm,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: key.topology(),
			CullMode: gputypes.CullModeNone,
		},
		DepthStencil: key.depthState(),
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline %v: %w", key, err)
	}
	d.log.Debug("wgpu: pipeline created", "pipeline", key)
	return pipeline, nil
}

// ReloadShaders implements sandbox.ShaderReloader. Sources are read from
// the shader directory when one is set, else the embedded sources are
// recompiled. On failure the current programs stay in use.
func (d *Device) ReloadShaders() error {
	if d.frame != nil {
		return ErrInFrame
	}
	src := embeddedSources()
	if d.shaderDir != "" {
		var err error
		if src, err = readSources(d.shaderDir); err != nil {
			return fmt.Errorf("reload shaders: %w", err)
		}
	}

	var next modules
	if err := next.create(d.device, src); err != nil {
		d.log.Warn("wgpu: shader reload failed, keeping previous programs", "error", err)
		return fmt.Errorf("reload shaders: %w", err)
	}
	d.pipelines.Clear()
	d.modules.destroy(d.device)
	d.modules = next
	d.log.Info("wgpu: shaders reloaded", "dir", d.shaderDir)
	return nil
}
