package pointcloud

import (
	"fmt"
	"math/rand/v2"
)

// DefaultSpread is the width of the range random attribute components are drawn from.
const DefaultSpread = 3

// RandomAttribute generates the per-point random vec3 attribute consumed by the point shaders
// for jitter and staggered morph timing. It returns size*size*3 floats, each uniformly drawn
// from [-1, spread-1). The same seed always yields the same data.
//
// Parameters:
//   - size: the point texture side; the point count is size*size
//   - spread: the width of the value range
//   - seed: the random seed
//
// Returns:
//   - []float32: the flattened vec3 attribute data
//   - error: ErrInvalidSize for a non-positive size, or an error for a non-positive spread
func RandomAttribute(size int, spread float32, seed uint64) ([]float32, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if !(spread > 0) {
		return nil, fmt.Errorf("pointcloud: spread must be positive, got %v", spread)
	}

	rng := rand.New(rand.NewPCG(seed, 0x61526e64))
	data := make([]float32, size*size*3)
	for i := range data {
		data[i] = rng.Float32()*spread - 1
	}
	return data, nil
}
