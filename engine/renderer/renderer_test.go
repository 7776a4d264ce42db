package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-morph/common"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointcloud"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
)

func TestKindOfPointLayout(t *testing.T) {
	set := pointcloud.PointSet{Name: "a", Positions: make([][3]float32, 4)}
	points, err := pointsfx.NewUniformRenderer(pointsfx.WithPointSets([]pointcloud.PointSet{set}))
	require.NoError(t, err)

	kinds := map[uint32]bindingKind{}
	for _, e := range points.BindGroupLayoutDescriptor().Entries {
		kinds[e.Binding] = kindOf(e)
	}
	assert.Equal(t, map[uint32]bindingKind{
		pointsfx.BindingMorphUniforms: bindingBuffer,
		pointsfx.BindingPointColors:   bindingBuffer,
		pointsfx.BindingPositionsA:    bindingTexture,
		pointsfx.BindingPositionsB:    bindingTexture,
		pointsfx.BindingViewData:      bindingBuffer,
	}, kinds)
}

func TestBufferUsage(t *testing.T) {
	usage, err := bufferUsage(wgpu.BindGroupLayoutEntry{Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}})
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, usage)

	usage, err = bufferUsage(wgpu.BindGroupLayoutEntry{Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}})
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, usage)

	_, err = bufferUsage(wgpu.BindGroupLayoutEntry{Binding: 3})
	assert.Error(t, err)
}

func TestTextureDataLayout(t *testing.T) {
	layout := textureDataLayout(common.TextureStagingData{
		Width:  8,
		Height: 4,
		Format: wgpu.TextureFormatRGBA32Float,
	})
	assert.Equal(t, uint32(8*16), layout.BytesPerRow)
	assert.Equal(t, uint32(4), layout.RowsPerImage)
	assert.Zero(t, layout.Offset)
}

func TestPairFor(t *testing.T) {
	tests := []struct {
		name  string
		a, b  int
		count int
		want  modelPair
	}{
		{"in range", 1, 2, 3, modelPair{1, 2}},
		{"negative a", -1, 2, 3, modelPair{0, 2}},
		{"b past end", 1, 3, 3, modelPair{1, 0}},
		{"single model", 0, 0, 1, modelPair{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pairFor(tt.a, tt.b, tt.count))
		})
	}
}

func TestSurfacePresentModeAndClear(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, surfacePresentMode(PresentModeVSync))
	assert.Equal(t, wgpu.PresentModeImmediate, surfacePresentMode(PresentModeUncapped))

	c := clearValue([4]float32{0.5, 0.25, 0, 1})
	assert.Equal(t, wgpu.Color{R: 0.5, G: 0.25, B: 0, A: 1}, c)
}
