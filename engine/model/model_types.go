package model

// Transform represents a decomposed node transform.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a Transform with no translation, no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// ImportedMesh represents the geometry of a single named mesh node.
// Positions are already in model space (the node's world transform has been applied).
type ImportedMesh struct {
	// Name is the node name the mesh was found under.
	Name string

	// Positions are the vertex positions.
	Positions [][3]float32

	// Indices are the triangle indices. Empty for point meshes or non-indexed geometry
	// that is not a triangle list.
	Indices []uint32

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// TriangleCount returns the number of complete triangles described by Indices.
//
// Returns:
//   - int: the triangle count
func (m *ImportedMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ImportedModel represents a model file loaded from an external format.
type ImportedModel struct {
	// Name is the model identifier, usually the source path.
	Name string

	// Meshes contains one entry per mesh node in the file.
	Meshes []ImportedMesh
}

// CalculateBounds returns the axis-aligned bounding box of the given positions.
// An empty slice yields a zero box.
//
// Parameters:
//   - positions: the points to enclose
//
// Returns:
//   - [3]float32: the minimum corner
//   - [3]float32: the maximum corner
func CalculateBounds(positions [][3]float32) ([3]float32, [3]float32) {
	if len(positions) == 0 {
		return [3]float32{}, [3]float32{}
	}
	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}
