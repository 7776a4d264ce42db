package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// A fresh parser is used per call so concurrent loads never share document state.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	return b.extract(path, parser)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	parser := newGLTFParser()
	if err := parser.ParseBytes(data, isGLB, "."); err != nil {
		return nil, err
	}
	return b.extract(name, parser)
}

func (b *gltfLoaderBackendImpl) extract(name string, parser gltfParser) (*model.ImportedModel, error) {
	meshes, err := newGLTFMeshExtractor(parser).ExtractNodeMeshes()
	if err != nil {
		return nil, err
	}
	return &model.ImportedModel{Name: name, Meshes: meshes}, nil
}
