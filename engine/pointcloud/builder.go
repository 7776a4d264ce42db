package pointcloud

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// Source pairs a mesh with the per-model settings used when sampling it.
type Source struct {
	// Mesh is the geometry to sample.
	Mesh model.ImportedMesh

	// Scale multiplies every sampled position. Zero is treated as 1.
	Scale float32
}

// BuilderOption is a functional option for configuring a Builder.
type BuilderOption func(*Builder)

// WithWorkers sets the number of pool workers used to sample meshes in parallel.
// Values <= 0 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - BuilderOption: option function to apply
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithSeed sets the base random seed. Source i is sampled with seed+i.
//
// Parameters:
//   - seed: the base seed
//
// Returns:
//   - BuilderOption: option function to apply
func WithSeed(seed uint64) BuilderOption {
	return func(b *Builder) {
		b.seed = seed
	}
}

// Builder samples a list of meshes into point sets of identical size on a worker pool.
type Builder struct {
	size    int
	seed    uint64
	workers int
	pool    worker.DynamicWorkerPool
}

// NewBuilder creates a Builder producing size*size points per model.
//
// Parameters:
//   - size: the point texture side
//   - options: functional options
//
// Returns:
//   - *Builder: the builder
//   - error: ErrInvalidSize for a non-positive size
func NewBuilder(size int, options ...BuilderOption) (*Builder, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	b := &Builder{
		size:    size,
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(b)
	}

	// Idle workers exit after a second; a build is a one-off burst, not a per-frame workload.
	b.pool = worker.NewDynamicWorkerPool(b.workers, 64, 1*time.Second)
	return b, nil
}

// Size returns the point texture side.
//
// Returns:
//   - int: the side length
func (b *Builder) Size() int {
	return b.size
}

// PointCount returns the number of points in every built set.
//
// Returns:
//   - int: size*size
func (b *Builder) PointCount() int {
	return b.size * b.size
}

// BuildAll samples every source in parallel. The result preserves the order of sources.
//
// Parameters:
//   - sources: the meshes to sample
//
// Returns:
//   - []PointSet: one point set per source, each with PointCount points
//   - error: the first sampling error in source order
func (b *Builder) BuildAll(sources []Source) ([]PointSet, error) {
	sets := make([]PointSet, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		idx, s := i, src
		b.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				set, err := Sample(s.Mesh, b.PointCount(), b.seed+uint64(idx))
				if err != nil {
					errs[idx] = err
					return nil, err
				}
				if s.Scale != 0 && s.Scale != 1 {
					set = set.Scaled(s.Scale)
				}
				sets[idx] = set
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i, sources[i].Mesh.Name, err)
		}
	}
	return sets, nil
}
