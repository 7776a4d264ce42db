package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
/* header
   /* nested */ still a comment @vertex fn notReal() {}
*/
struct Params {
    progress: f32,
    time: f32,
    model_a: i32,
    model_b: i32,
}

struct Palette {
    colors: array<vec4<f32>, 3>,
}

struct Mixed {
    a: f32,
    b: vec3<f32>,
}

struct PointInput {
    @location(0) random: vec3<f32>,
    @location(1) weight: f32,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@group(0) @binding(1) var<uniform> palette: Palette; // colors
@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(2) var positions: texture_2d<f32>;
@group(1) @binding(0) var<storage, read_write> scratch: array<Mixed>;

@vertex
fn vs_main(in: PointInput, @builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return in.color;
}
`

func TestReflectEntryPoints(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	vs, ok := r.EntryPoint(StageVertex)
	assert.True(t, ok)
	assert.Equal(t, "vs_main", vs)

	fs, ok := r.EntryPoint(StageFragment)
	assert.True(t, ok)
	assert.Equal(t, "fs_main", fs)

	_, ok = r.EntryPoint(StageCompute)
	assert.False(t, ok)
}

func TestReflectStructSizes(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	tests := []struct {
		name string
		want uint64
	}{
		{"Params", 16},
		{"Palette", 48},
		{"Mixed", 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, ok := r.StructSize(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, size)
		})
	}
}

func TestReflectBindings(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	bindings := r.Bindings()
	require.Len(t, bindings, 4)
	assert.Equal(t, "params", bindings[0].Name)
	assert.Equal(t, "palette", bindings[1].Name)
	assert.Equal(t, "positions", bindings[2].Name)
	assert.Equal(t, uint32(1), bindings[3].Group)

	params, ok := r.Lookup("params")
	require.True(t, ok)
	assert.Equal(t, uint64(16), params.Size)

	scratch, ok := r.Lookup("scratch")
	require.True(t, ok)
	assert.Equal(t, uint64(32), scratch.Size, "runtime arrays report one element")

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestBindGroupLayout(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	vis := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	desc, err := r.BindGroupLayout(0, vis, "points")
	require.NoError(t, err)
	assert.Equal(t, "points", desc.Label)
	require.Len(t, desc.Entries, 3)

	assert.Equal(t, uint32(0), desc.Entries[0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(16), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, vis, desc.Entries[0].Visibility)

	assert.Equal(t, uint64(48), desc.Entries[1].Buffer.MinBindingSize)

	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[2].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, desc.Entries[2].Texture.SampleType)

	storage, err := r.BindGroupLayout(1, wgpu.ShaderStageCompute, "")
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, storage.Entries[0].Buffer.Type)

	_, err = r.BindGroupLayout(5, vis, "")
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestVertexLayouts(t *testing.T) {
	r, err := Reflect(testSource)
	require.NoError(t, err)

	layouts := r.VertexLayouts()
	require.Len(t, layouts, 1, "only the input struct without builtins is a vertex layout")
	assert.Equal(t, uint64(16), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)
}

func TestReflectWithoutEntryPoint(t *testing.T) {
	_, err := Reflect("struct A { x: f32, }\n// @vertex fn hidden() {}")
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}
