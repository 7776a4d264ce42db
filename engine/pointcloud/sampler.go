package pointcloud

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// Sample distributes count points over the surface of mesh.
//
// Triangles are chosen with probability proportional to their area and points are placed
// uniformly inside each chosen triangle, so dense and sparse regions of the mesh receive the
// same point density. Meshes without triangles (point clouds, degenerate geometry) fall back to
// drawing vertices at random. The same seed always yields the same point set.
//
// Parameters:
//   - mesh: the source geometry
//   - count: the number of points to produce
//   - seed: the random seed
//
// Returns:
//   - PointSet: the sampled points, named after the mesh
//   - error: ErrEmptyMesh if the mesh has no positions, or an error for a non-positive count
func Sample(mesh model.ImportedMesh, count int, seed uint64) (PointSet, error) {
	if count <= 0 {
		return PointSet{}, fmt.Errorf("pointcloud: point count must be positive, got %d", count)
	}
	if len(mesh.Positions) == 0 {
		return PointSet{}, fmt.Errorf("%w: %s", ErrEmptyMesh, mesh.Name)
	}

	rng := rand.New(rand.NewPCG(seed, uint64(count)))
	out := PointSet{Name: mesh.Name, Positions: make([][3]float32, count)}

	cdf, total := triangleAreaCDF(mesh)
	if total <= 0 {
		for i := range out.Positions {
			out.Positions[i] = mesh.Positions[rng.IntN(len(mesh.Positions))]
		}
		return out, nil
	}

	for i := range out.Positions {
		r := rng.Float32() * total
		tri := sort.Search(len(cdf), func(k int) bool { return cdf[k] > r })
		tri = min(tri, len(cdf)-1)

		a := mesh.Positions[mesh.Indices[tri*3]]
		b := mesh.Positions[mesh.Indices[tri*3+1]]
		c := mesh.Positions[mesh.Indices[tri*3+2]]
		out.Positions[i] = pointInTriangle(a, b, c, rng.Float32(), rng.Float32())
	}
	return out, nil
}

// triangleAreaCDF returns the running sum of triangle areas and the total area.
func triangleAreaCDF(mesh model.ImportedMesh) ([]float32, float32) {
	n := mesh.TriangleCount()
	cdf := make([]float32, n)
	var total float32
	for t := range n {
		a := mesh.Positions[mesh.Indices[t*3]]
		b := mesh.Positions[mesh.Indices[t*3+1]]
		c := mesh.Positions[mesh.Indices[t*3+2]]
		total += triangleArea(a, b, c)
		cdf[t] = total
	}
	return cdf, total
}

// triangleArea is half the magnitude of the cross product of two edges.
func triangleArea(a, b, c [3]float32) float32 {
	u := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	cx := u[1]*v[2] - u[2]*v[1]
	cy := u[2]*v[0] - u[0]*v[2]
	cz := u[0]*v[1] - u[1]*v[0]
	return 0.5 * math32.Sqrt(cx*cx+cy*cy+cz*cz)
}

// pointInTriangle maps two uniform random numbers to a uniformly distributed point in the
// triangle using the square-root barycentric parameterization.
func pointInTriangle(a, b, c [3]float32, r1, r2 float32) [3]float32 {
	s := math32.Sqrt(r1)
	wa := 1 - s
	wb := s * (1 - r2)
	wc := s * r2
	return [3]float32{
		wa*a[0] + wb*b[0] + wc*c[0],
		wa*a[1] + wb*b[1] + wc*c[1],
		wa*a[2] + wb*b[2] + wc*c[2],
	}
}
