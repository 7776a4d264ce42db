package pointsfx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-morph/engine/pointcloud"
	"github.com/Carmen-Shannon/oxy-morph/engine/shader"
)

func gridSet(name string, size int, z float32) pointcloud.PointSet {
	ps := pointcloud.PointSet{Name: name}
	for i := range size * size {
		ps.Positions = append(ps.Positions, [3]float32{float32(i % size), float32(i / size), z})
	}
	return ps
}

func newTestRenderer(t *testing.T, options ...UniformRendererBuilderOption) UniformRenderer {
	t.Helper()
	opts := append([]UniformRendererBuilderOption{
		WithPointSets([]pointcloud.PointSet{gridSet("a", 2, 0), gridSet("b", 2, 1), gridSet("c", 2, 2)}),
	}, options...)
	r, err := NewUniformRenderer(opts...)
	require.NoError(t, err)
	return r
}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestGPUTypeSizesMatchShader(t *testing.T) {
	refl, err := shader.Reflect(PointShaderSource)
	require.NoError(t, err)

	tests := []struct {
		name   string
		size   int
		packed int
	}{
		{"MorphUniforms", (&GPUMorphUniforms{}).Size(), len((&GPUMorphUniforms{}).Marshal())},
		{"PointColors", (&GPUPointColors{}).Size(), len((&GPUPointColors{}).Marshal())},
		{"ViewData", (&GPUViewData{}).Size(), len((&GPUViewData{}).Marshal())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, ok := refl.StructSize(tt.name)
			require.True(t, ok)
			assert.Equal(t, int(want), tt.size)
			assert.Equal(t, int(want), tt.packed)
		})
	}
}

func TestMorphUniformsMarshal(t *testing.T) {
	u := GPUMorphUniforms{Progress: 0.5, Time: 3.25, ModelA: 1, ModelB: -1}
	buf := u.Marshal()

	assert.Equal(t, float32(0.5), f32At(buf, 0))
	assert.Equal(t, float32(3.25), f32At(buf, 4))
	assert.Equal(t, int32(1), int32(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, int32(-1), int32(binary.LittleEndian.Uint32(buf[12:])))
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]float32
		wantErr bool
	}{
		{"#FF0000", [4]float32{1, 0, 0, 1}, false},
		{"00ff0080", [4]float32{0, 1, 0, float32(0x80) / 255}, false},
		{" #0000FF ", [4]float32{0, 0, 1, 1}, false},
		{"#FFF", [4]float32{}, true},
		{"#GG0000", [4]float32{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	def := DefaultColors()
	assert.InDelta(t, float32(0xD0)/255, def[0][0], 1e-6)
	assert.InDelta(t, float32(0x4B)/255, def[2][2], 1e-6)
}

func TestNewUniformRendererValidation(t *testing.T) {
	_, err := NewUniformRenderer()
	assert.ErrorIs(t, err, ErrNoPointSets)

	_, err = NewUniformRenderer(WithPointSets([]pointcloud.PointSet{gridSet("a", 2, 0), gridSet("b", 3, 0)}))
	assert.ErrorIs(t, err, ErrPointCountMismatch)

	_, err = NewUniformRenderer(WithPointSets([]pointcloud.PointSet{{Name: "odd", Positions: make([][3]float32, 3)}}))
	assert.ErrorIs(t, err, ErrPointCountMismatch)

	_, err = NewUniformRenderer(WithPointSets([]pointcloud.PointSet{gridSet("a", 2, 0)}), WithRandomAttribute([]float32{1, 2}))
	assert.ErrorIs(t, err, ErrPointCountMismatch)
}

func TestStagedWriteDataCoalescesAndClears(t *testing.T) {
	r := newTestRenderer(t)

	initial := r.StagedWriteData()
	require.Len(t, initial, 3)
	assert.Equal(t, BindingMorphUniforms, initial[0].Binding)
	assert.Equal(t, BindingPointColors, initial[1].Binding)
	assert.Equal(t, BindingViewData, initial[2].Binding)
	assert.Empty(t, r.StagedWriteData())

	r.UpdateProgress(0.25)
	r.UpdateProgress(0.75)
	r.UpdateTime(9)
	writes := r.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Equal(t, float32(0.75), f32At(writes[0].Data, 0))
	assert.Equal(t, float32(9), f32At(writes[0].Data, 4))

	r.SetColors([3][4]float32{{1, 1, 1, 1}})
	writes = r.StagedWriteData()
	require.Len(t, writes, 1)
	assert.Equal(t, BindingPointColors, writes[0].Binding)
	assert.Equal(t, float32(1), f32At(writes[0].Data, 0))
	assert.Equal(t, [3][4]float32{{1, 1, 1, 1}}, r.Colors())
}

func TestSetModelsAndBoundTextures(t *testing.T) {
	r := newTestRenderer(t)

	a, b := r.BoundTextures()
	assert.Equal(t, 0, a)
	assert.Equal(t, 0, b)

	r.SetModels(-1, 2)
	a, b = r.BoundTextures()
	assert.Equal(t, 2, a, "missing model A shows model B")
	assert.Equal(t, 2, b)
	assert.Equal(t, int32(-1), r.Uniforms().ModelA)

	r.SetModels(0, 1)
	a, b = r.BoundTextures()
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)

	r.SetModels(1, 7)
	a, b = r.BoundTextures()
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestPositionTextures(t *testing.T) {
	r := newTestRenderer(t)
	assert.Equal(t, 4, r.PointCount())

	tex := r.PositionTextures()
	require.Len(t, tex, 3)
	for _, tx := range tex {
		assert.True(t, tx.Valid())
		assert.Equal(t, wgpu.TextureFormatRGBA32Float, tx.Format)
		assert.Equal(t, uint32(32), tx.BytesPerRow())
	}
	// Point 3 of model c is (1, 1, 2).
	assert.Equal(t, "c", tex[2].Label)
	assert.Equal(t, float32(1), f32At(tex[2].Data, 3*16))
	assert.Equal(t, float32(1), f32At(tex[2].Data, 3*16+4))
	assert.Equal(t, float32(2), f32At(tex[2].Data, 3*16+8))
	assert.Equal(t, float32(1), f32At(tex[2].Data, 3*16+12))
}

func TestLayoutAndAttributes(t *testing.T) {
	r := newTestRenderer(t, WithLabel("morph"), WithRandomAttribute([]float32{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11,
	}))

	desc := r.BindGroupLayoutDescriptor()
	assert.Equal(t, "morph", desc.Label)
	require.Len(t, desc.Entries, 5)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[BindingMorphUniforms].Buffer.Type)
	assert.Equal(t, uint64(16), desc.Entries[BindingMorphUniforms].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, desc.Entries[BindingPositionsA].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, desc.Entries[BindingPositionsB].Texture.ViewDimension)

	layouts := r.VertexBufferLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(12), layouts[0].ArrayStride)

	attr := r.RandomAttribute()
	require.Len(t, attr, 12*4)
	assert.Equal(t, float32(11), f32At(attr, 11*4))
	assert.Contains(t, r.ShaderSource(), "fn vs_main")
}
