package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// loaderBackend defines the format-specific half of the Loader.
// Concrete implementations (e.g., gltfLoaderBackend) turn a file or stream into mesh geometry.
type loaderBackend interface {
	// Load imports every mesh node from the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.ImportedModel: the imported meshes
	//   - error: error if loading fails
	Load(path string) (*model.ImportedModel, error)

	// LoadReader imports every mesh node from a stream.
	//
	// Parameters:
	//   - name: the name given to the imported model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *model.ImportedModel: the imported meshes
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)
}
