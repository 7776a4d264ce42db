package curve

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear(t *testing.T) {
	c := Linear()
	for _, v := range []float32{0, 0.25, 0.5, 1} {
		assert.Equal(t, v, c.Evaluate(v))
	}
}

func TestFunc(t *testing.T) {
	c := Func(func(t float32) float32 { return t * t })
	assert.Equal(t, float32(0.25), c.Evaluate(0.5))
}

func TestNewCubicBezierValidation(t *testing.T) {
	tests := []struct {
		name    string
		points  [4]float32
		wantErr bool
	}{
		{"default", DefaultPoints, false},
		{"overshoot y", [4]float32{0.3, -0.5, 0.7, 1.6}, false},
		{"x1 below zero", [4]float32{-0.1, 0, 0.5, 1}, true},
		{"x2 above one", [4]float32{0.1, 0, 1.5, 1}, true},
		{"y1 not a number", [4]float32{0.1, math32.NaN(), 0.5, 1}, true},
		{"y2 infinite", [4]float32{0.1, 0, 0.5, math32.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.points
			b, err := NewCubicBezier(p[0], p[1], p[2], p[3])
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidControlPoint)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p, b.Points())
		})
	}
}

func TestCubicBezierEndpointsAreExact(t *testing.T) {
	for _, name := range PresetNames() {
		c, err := Preset(name)
		require.NoError(t, err)
		assert.Equal(t, float32(0), c.Evaluate(0), name)
		assert.Equal(t, float32(1), c.Evaluate(1), name)
	}
}

func TestCubicBezierMatchesParametricForm(t *testing.T) {
	b, err := NewCubicBezier(0.25, 0.1, 0.25, 1)
	require.NoError(t, err)

	for s := float32(0.05); s < 1; s += 0.05 {
		x := bezierComponent(s, 0.25, 0.25)
		want := bezierComponent(s, 0.1, 1)
		assert.InDelta(t, want, b.Evaluate(x), 1e-3, "s=%v", s)
	}
}

func TestDefaultCurveEasesOut(t *testing.T) {
	c := Default()

	mid := c.Evaluate(0.5)
	assert.Greater(t, mid, float32(0.95))
	assert.Less(t, mid, float32(1))

	prev := float32(0)
	for i := 0; i <= 100; i++ {
		v := c.Evaluate(float32(i) / 100)
		assert.GreaterOrEqual(t, v, prev, "curve must be non-decreasing at step %d", i)
		prev = v
	}
}

func TestIdentityControlPointsShortCircuit(t *testing.T) {
	b, err := NewCubicBezier(0.3, 0.3, 0.7, 0.7)
	require.NoError(t, err)
	assert.Equal(t, float32(0.42), b.Evaluate(0.42))
}

func TestPreset(t *testing.T) {
	c, err := Preset(" Ease-Out ")
	require.NoError(t, err)
	b, ok := c.(*CubicBezier)
	require.True(t, ok)
	assert.Equal(t, [4]float32{0, 0, 0.58, 1}, b.Points())

	c, err = Preset("linear")
	require.NoError(t, err)
	assert.Equal(t, float32(0.3), c.Evaluate(0.3))

	_, err = Preset("wobble")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestPresetNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"ease", "ease-in", "ease-in-out", "ease-out", "expo-out", "linear"}, PresetNames())
}
