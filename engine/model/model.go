package model

// model is the implementation of the Model interface.
type model struct {
	name   string
	meshes []ImportedMesh
	byName map[string]int
}

// Model is a loaded asset: a named collection of meshes addressable by node name.
type Model interface {
	// Name returns the name of the Model.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes returns the meshes in load order.
	//
	// Returns:
	//   - []ImportedMesh: the meshes
	Meshes() []ImportedMesh

	// Mesh looks up a mesh by its node name.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - ImportedMesh: the mesh, zero value if not found
	//   - bool: true if the mesh exists
	Mesh(name string) (ImportedMesh, bool)

	// MeshNames returns the node names of all meshes in load order.
	//
	// Returns:
	//   - []string: the node names
	MeshNames() []string
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		byName: make(map[string]int),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewModelFromImport wraps an ImportedModel.
//
// Parameters:
//   - imported: the imported model data
//
// Returns:
//   - Model: the new model
func NewModelFromImport(imported *ImportedModel) Model {
	return NewModel(WithName(imported.Name), WithMeshes(imported.Meshes...))
}

func (m *model) addMesh(mesh ImportedMesh) {
	if i, ok := m.byName[mesh.Name]; ok {
		m.meshes[i] = mesh
		return
	}
	m.byName[mesh.Name] = len(m.meshes)
	m.meshes = append(m.meshes, mesh)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []ImportedMesh {
	return m.meshes
}

func (m *model) Mesh(name string) (ImportedMesh, bool) {
	i, ok := m.byName[name]
	if !ok {
		return ImportedMesh{}, false
	}
	return m.meshes[i], true
}

func (m *model) MeshNames() []string {
	names := make([]string, len(m.meshes))
	for i, mesh := range m.meshes {
		names[i] = mesh.Name
	}
	return names
}
