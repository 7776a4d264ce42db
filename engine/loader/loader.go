package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

var (
	// ErrUnsupportedFormat is returned for file extensions no backend understands.
	ErrUnsupportedFormat = errors.New("loader: unsupported model format")

	// ErrNodeNotFound is returned by LoadMesh when the requested node has no mesh.
	ErrNodeNotFound = errors.New("loader: mesh node not found")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *slog.Logger

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader loads mesh assets and caches them by path.
// It abstracts the file format behind a backend; only geometry is imported, which is all the
// point-cloud pipeline needs.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// LoadMesh loads (or reuses) the model at path and returns the mesh found under the named
	// node. An empty node name selects the first mesh in the file.
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - node: the node name holding the mesh
	//
	// Returns:
	//   - model.ImportedMesh: the mesh in model space
	//   - error: ErrNodeNotFound if the node has no mesh, or a load error
	LoadMesh(path, node string) (model.ImportedMesh, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:     slog.New(slog.DiscardHandler),
		modelCache: make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	if err := l.checkFormat(path); err != nil {
		return nil, err
	}

	imported, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m := l.store(path, imported)
	l.logger.Info("model loaded", "path", path, "meshes", len(imported.Meshes))
	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, ErrUnsupportedFormat
	}

	imported, err := l.backend.LoadReader(name, r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	m := l.store(name, imported)
	l.logger.Info("model loaded", "name", name, "meshes", len(imported.Meshes))
	return m, nil
}

func (l *loader) LoadMesh(path, node string) (model.ImportedMesh, error) {
	m, err := l.Load(path)
	if err != nil {
		return model.ImportedMesh{}, err
	}

	if node == "" {
		meshes := m.Meshes()
		if len(meshes) == 0 {
			return model.ImportedMesh{}, fmt.Errorf("%w: %s contains no meshes", ErrNodeNotFound, path)
		}
		return meshes[0], nil
	}

	mesh, ok := m.Mesh(node)
	if !ok {
		return model.ImportedMesh{}, fmt.Errorf("%w: %q in %s (have %s)", ErrNodeNotFound, node, path, strings.Join(m.MeshNames(), ", "))
	}
	return mesh, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		cp[k] = v
	}
	return cp
}

// store caches the imported model unless another goroutine won the race, in which case the
// existing entry is returned.
func (l *loader) store(key string, imported *model.ImportedModel) model.Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.modelCache[key]; ok {
		return existing
	}
	m := model.NewModelFromImport(imported)
	l.modelCache[key] = m
	return m
}

// checkFormat verifies that the configured backend understands the file extension.
func (l *loader) checkFormat(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case l.backend == nil:
		return ErrUnsupportedFormat
	case ext == ".gltf" || ext == ".glb":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
