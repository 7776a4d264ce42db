// Package pointcloud turns mesh geometry into fixed-size point sets that can be morphed into
// one another on the GPU. Every point set built for a session has the same number of points so
// point i of model A always has a partner point i in model B.
package pointcloud

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

var (
	// ErrEmptyMesh is returned when a mesh has no positions to sample from.
	ErrEmptyMesh = errors.New("pointcloud: mesh has no positions")

	// ErrInvalidSize is returned for a non-positive point texture side.
	ErrInvalidSize = errors.New("pointcloud: size must be positive")
)

// PointSet is a named, ordered set of points derived from one mesh.
type PointSet struct {
	// Name identifies the source mesh.
	Name string

	// Positions holds one entry per point.
	Positions [][3]float32
}

// Len returns the number of points.
//
// Returns:
//   - int: the point count
func (p PointSet) Len() int {
	return len(p.Positions)
}

// Bounds returns the axis-aligned bounding box of the points.
//
// Returns:
//   - [3]float32: the minimum corner
//   - [3]float32: the maximum corner
func (p PointSet) Bounds() ([3]float32, [3]float32) {
	return model.CalculateBounds(p.Positions)
}

// Scaled returns a copy of the point set with every position multiplied by factor.
//
// Parameters:
//   - factor: the uniform scale
//
// Returns:
//   - PointSet: the scaled copy
func (p PointSet) Scaled(factor float32) PointSet {
	out := PointSet{Name: p.Name, Positions: make([][3]float32, len(p.Positions))}
	for i, pos := range p.Positions {
		out.Positions[i] = [3]float32{pos[0] * factor, pos[1] * factor, pos[2] * factor}
	}
	return out
}
