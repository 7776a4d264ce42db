package pointcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// quadMesh is a unit square in the XY plane made of two triangles.
func quadMesh(name string) model.ImportedMesh {
	return model.ImportedMesh{
		Name:      name,
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2, 2, 3, 0},
	}
}

func TestSampleStaysOnSurface(t *testing.T) {
	set, err := Sample(quadMesh("quad"), 500, 7)
	require.NoError(t, err)

	assert.Equal(t, "quad", set.Name)
	require.Equal(t, 500, set.Len())
	for _, p := range set.Positions {
		assert.GreaterOrEqual(t, p[0], float32(0))
		assert.LessOrEqual(t, p[0], float32(1))
		assert.GreaterOrEqual(t, p[1], float32(0))
		assert.LessOrEqual(t, p[1], float32(1))
		assert.Equal(t, float32(0), p[2])
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	a, err := Sample(quadMesh("quad"), 64, 42)
	require.NoError(t, err)
	b, err := Sample(quadMesh("quad"), 64, 42)
	require.NoError(t, err)
	c, err := Sample(quadMesh("quad"), 64, 43)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSampleAreaWeighting(t *testing.T) {
	// A large triangle and a tiny one; almost every point must land on the large one.
	mesh := model.ImportedMesh{
		Name: "weighted",
		Positions: [][3]float32{
			{0, 0, 0}, {10, 0, 0}, {0, 10, 0},
			{100, 100, 0}, {100.01, 100, 0}, {100, 100.01, 0},
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
	set, err := Sample(mesh, 1000, 1)
	require.NoError(t, err)

	onLarge := 0
	for _, p := range set.Positions {
		if p[0] <= 10 && p[1] <= 10 {
			onLarge++
		}
	}
	assert.GreaterOrEqual(t, onLarge, 990)
}

func TestSampleVertexFallback(t *testing.T) {
	mesh := model.ImportedMesh{Name: "points", Positions: [][3]float32{{1, 2, 3}, {4, 5, 6}}}
	set, err := Sample(mesh, 10, 3)
	require.NoError(t, err)
	for _, p := range set.Positions {
		assert.Contains(t, mesh.Positions, p)
	}
}

func TestSampleErrors(t *testing.T) {
	_, err := Sample(model.ImportedMesh{Name: "empty"}, 10, 0)
	assert.ErrorIs(t, err, ErrEmptyMesh)

	_, err = Sample(quadMesh("quad"), 0, 0)
	assert.Error(t, err)
}

func TestRandomAttribute(t *testing.T) {
	data, err := RandomAttribute(8, DefaultSpread, 9)
	require.NoError(t, err)
	require.Len(t, data, 8*8*3)
	for _, v := range data {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(DefaultSpread-1))
	}

	again, err := RandomAttribute(8, DefaultSpread, 9)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	_, err = RandomAttribute(0, DefaultSpread, 9)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = RandomAttribute(4, 0, 9)
	assert.Error(t, err)
}

func TestPointSetScaledAndBounds(t *testing.T) {
	set := PointSet{Name: "s", Positions: [][3]float32{{1, -1, 0}, {2, 3, 4}}}
	scaled := set.Scaled(2)

	assert.Equal(t, [][3]float32{{2, -2, 0}, {4, 6, 8}}, scaled.Positions)
	assert.Equal(t, [][3]float32{{1, -1, 0}, {2, 3, 4}}, set.Positions, "original must be untouched")

	lo, hi := scaled.Bounds()
	assert.Equal(t, [3]float32{2, -2, 0}, lo)
	assert.Equal(t, [3]float32{4, 6, 8}, hi)
}

func TestBuilderBuildAll(t *testing.T) {
	b, err := NewBuilder(4, WithWorkers(2), WithSeed(5))
	require.NoError(t, err)
	assert.Equal(t, 16, b.PointCount())
	assert.Equal(t, 4, b.Size())

	sets, err := b.BuildAll([]Source{
		{Mesh: quadMesh("a")},
		{Mesh: quadMesh("b"), Scale: 10},
	})
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "a", sets[0].Name)
	assert.Equal(t, "b", sets[1].Name)
	for _, s := range sets {
		assert.Equal(t, 16, s.Len())
	}
	_, hi := sets[1].Bounds()
	assert.Greater(t, hi[0], float32(1), "scaled set must extend past the unit quad")

	want, err := Sample(quadMesh("a"), 16, 5)
	require.NoError(t, err)
	assert.Equal(t, want, sets[0])
}

func TestBuilderReportsFailingSource(t *testing.T) {
	b, err := NewBuilder(2)
	require.NoError(t, err)

	_, err = b.BuildAll([]Source{{Mesh: quadMesh("ok")}, {Mesh: model.ImportedMesh{Name: "bad"}}})
	assert.ErrorIs(t, err, ErrEmptyMesh)
	assert.Contains(t, err.Error(), "bad")

	_, err = NewBuilder(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}
