package model

// ModelBuilderOption is a functional option for configuring a Model during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the name to assign
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMeshes is an option builder that adds meshes to the Model. Meshes are indexed by name;
// a later mesh with the same name replaces an earlier one.
//
// Parameters:
//   - meshes: the meshes to add
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...ImportedMesh) ModelBuilderOption {
	return func(m *model) {
		for _, mesh := range meshes {
			m.addMesh(mesh)
		}
	}
}
