package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-morph/common"
)

// bindingKind classifies a bind group layout entry.
type bindingKind int

const (
	bindingBuffer bindingKind = iota
	bindingTexture
	bindingSampler
)

// modelPair identifies the position textures bound as model A and model B.
type modelPair [2]int

// kindOf reports what resource a layout entry binds.
func kindOf(entry wgpu.BindGroupLayoutEntry) bindingKind {
	switch {
	case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		return bindingTexture
	case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		return bindingSampler
	}
	return bindingBuffer
}

// bufferUsage derives the usage flags for the buffer behind a layout entry.
//
// Parameters:
//   - entry: the bind group layout entry
//
// Returns:
//   - wgpu.BufferUsage: usage flags, always including CopyDst
//   - error: an error for entries that do not bind a buffer
func bufferUsage(entry wgpu.BindGroupLayoutEntry) (wgpu.BufferUsage, error) {
	switch entry.Buffer.Type {
	case wgpu.BufferBindingTypeUniform:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst, nil
	case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst, nil
	}
	return 0, fmt.Errorf("binding %d is not a buffer binding", entry.Binding)
}

// textureDataLayout returns the copy layout for tightly packed staging data.
func textureDataLayout(t common.TextureStagingData) wgpu.TextureDataLayout {
	return wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  t.BytesPerRow(),
		RowsPerImage: t.Height,
	}
}

// surfacePresentMode maps a PresentMode to its WebGPU equivalent.
func surfacePresentMode(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		return wgpu.PresentModeImmediate
	}
}

// clearValue converts an RGBA color to a render pass clear value.
func clearValue(c [4]float32) wgpu.Color {
	return wgpu.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: float64(c[3])}
}

// pairFor clamps a model pair to the available textures.
//
// Parameters:
//   - a: the texture bound as model A
//   - b: the texture bound as model B
//   - count: the number of position textures
//
// Returns:
//   - modelPair: the pair, with out-of-range indices replaced by 0
func pairFor(a, b, count int) modelPair {
	if a < 0 || a >= count {
		a = 0
	}
	if b < 0 || b >= count {
		b = 0
	}
	return modelPair{a, b}
}

// pointBlendState blends points over the background by their alpha.
var pointBlendState = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
	Alpha: wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
	},
}
