package common

import (
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d", i)
	}
}

func TestComposeTRSTransformPoint(t *testing.T) {
	m := make([]float32, 16)
	// 90 degrees around +Y.
	s := float32(math.Sqrt2 / 2)
	ComposeTRS(m, [3]float32{1, 2, 3}, [4]float32{0, s, 0, s}, [3]float32{2, 2, 2})

	assertVec3(t, [3]float32{1, 2, 1}, TransformPoint(m, [3]float32{1, 0, 0}))
	assertVec3(t, [3]float32{1, 4, 3}, TransformPoint(m, [3]float32{0, 1, 0}))
}

func TestMul4WithIdentity(t *testing.T) {
	a := make([]float32, 16)
	ComposeTRS(a, [3]float32{4, 5, 6}, [4]float32{0, 0, 0, 1}, [3]float32{1, 2, 3})
	id := make([]float32, 16)
	Identity(id)

	out := make([]float32, 16)
	Mul4(out, id, a)
	assert.Equal(t, a, out)

	// Aliasing the output with an input is allowed.
	Mul4(a, a, id)
	assert.Equal(t, out, a)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	view := make([]float32, 16)
	eye := [3]float32{0, 0, 5}
	LookAt(view, eye, [3]float32{}, [3]float32{0, 1, 0})

	assertVec3(t, [3]float32{}, TransformPoint(view, eye))
	assertVec3(t, [3]float32{0, 0, -5}, TransformPoint(view, [3]float32{}))
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := make([]float32, 16)
	Perspective(proj, float32(math.Pi/2), 2, 1, 10)
	assert.InDelta(t, 0.5, proj[0], 1e-6)
	assert.InDelta(t, 1, proj[5], 1e-6)

	depth := func(z float32) float32 {
		clipZ := proj[10]*z + proj[14]
		clipW := proj[11] * z
		return clipZ / clipW
	}
	assert.InDelta(t, 0, depth(-1), 1e-5)
	assert.InDelta(t, 1, depth(-10), 1e-5)
}

func TestClampAndCoalesce(t *testing.T) {
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, 0, Clamp(-1, 0, 3))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))

	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestDigitIndex(t *testing.T) {
	idx, ok := DigitIndex(Key1)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	idx, ok = DigitIndex(Key0)
	assert.True(t, ok)
	assert.Equal(t, 9, idx)

	_, ok = DigitIndex(KeySpace)
	assert.False(t, ok)
}

func TestTextureStagingDataValid(t *testing.T) {
	tex := TextureStagingData{Width: 4, Height: 2, Format: wgpu.TextureFormatRGBA32Float, Data: make([]byte, 4*2*16)}
	assert.True(t, tex.Valid())
	assert.Equal(t, uint32(64), tex.BytesPerRow())

	tex.Data = tex.Data[:len(tex.Data)-1]
	assert.False(t, tex.Valid())

	tex.Format = wgpu.TextureFormatDepth32Float
	assert.Zero(t, tex.BytesPerTexel())
}
