package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-morph/common"
	"github.com/Carmen-Shannon/oxy-morph/engine/model"
)

// gltfMeshExtractorImpl is the implementation of gltfMeshExtractor.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor turns the mesh nodes of a parsed document into model-space geometry.
type gltfMeshExtractor interface {
	// ExtractNodeMeshes walks the default scene (or every root node when no scene is declared)
	// and returns one ImportedMesh per node that references a mesh. Each node's world transform
	// is baked into its positions and all triangle/point primitives are merged.
	//
	// Returns:
	//   - []model.ImportedMesh: the meshes in traversal order
	//   - error: error if an accessor cannot be read
	ExtractNodeMeshes() ([]model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a mesh extractor over a parsed document.
//
// Parameters:
//   - parser: a parser that has successfully parsed a document
//
// Returns:
//   - gltfMeshExtractor: the extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractNodeMeshes() ([]model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var identity [16]float32
	common.Identity(identity[:])

	var meshes []model.ImportedMesh
	visited := make([]bool, len(doc.Nodes))

	var walk func(nodeIndex int, parent [16]float32) error
	walk = func(nodeIndex int, parent [16]float32) error {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", nodeIndex)
		}
		if visited[nodeIndex] {
			return nil
		}
		visited[nodeIndex] = true

		node := &doc.Nodes[nodeIndex]
		local := nodeMatrix(node)
		var world [16]float32
		common.Mul4(world[:], parent[:], local[:])

		if node.Mesh != nil {
			mesh, err := e.extractMesh(*node.Mesh, world)
			if err != nil {
				return fmt.Errorf("node %d (%s): %w", nodeIndex, node.Name, err)
			}
			mesh.Name = common.Coalesce(node.Name, doc.Meshes[*node.Mesh].Name, fmt.Sprintf("node_%d", nodeIndex))
			meshes = append(meshes, mesh)
		}

		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := walk(root, identity); err != nil {
			return nil, err
		}
	}
	return meshes, nil
}

// extractMesh merges the usable primitives of a mesh and transforms them by world.
func (e *gltfMeshExtractorImpl) extractMesh(meshIndex int, world [16]float32) (model.ImportedMesh, error) {
	doc := e.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return model.ImportedMesh{}, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	var out model.ImportedMesh
	for primIdx, prim := range doc.Meshes[meshIndex].Primitives {
		mode := gltfModeTriangles
		if prim.Mode != nil {
			mode = *prim.Mode
		}
		if mode != gltfModeTriangles && mode != gltfModePoints {
			continue
		}

		posAccessor, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		positions, err := e.parser.ReadPositions(posAccessor)
		if err != nil {
			return model.ImportedMesh{}, fmt.Errorf("primitive %d positions: %w", primIdx, err)
		}

		base := uint32(len(out.Positions))
		for _, p := range positions {
			out.Positions = append(out.Positions, common.TransformPoint(world[:], p))
		}

		if mode != gltfModeTriangles {
			continue
		}
		if prim.Indices != nil {
			indices, err := e.parser.ReadIndices(*prim.Indices)
			if err != nil {
				return model.ImportedMesh{}, fmt.Errorf("primitive %d indices: %w", primIdx, err)
			}
			for _, idx := range indices[:len(indices)/3*3] {
				if int(idx) >= len(positions) {
					return model.ImportedMesh{}, fmt.Errorf("primitive %d: index %d exceeds %d vertices", primIdx, idx, len(positions))
				}
				out.Indices = append(out.Indices, base+idx)
			}
			continue
		}
		for i := range uint32(len(positions) / 3 * 3) {
			out.Indices = append(out.Indices, base+i)
		}
	}

	out.BoundingMin, out.BoundingMax = model.CalculateBounds(out.Positions)
	return out, nil
}

// rootNodes returns the nodes to start traversal from.
func rootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		scene := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			scene = *doc.Scene
		}
		return doc.Scenes[scene].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeMatrix returns the local matrix of a node from its matrix or TRS properties.
func nodeMatrix(node *gltfNode) [16]float32 {
	if node.Matrix != nil {
		return *node.Matrix
	}
	t := model.IdentityTransform()
	if node.Translation != nil {
		t.Translation = *node.Translation
	}
	if node.Rotation != nil {
		t.Rotation = *node.Rotation
	}
	if node.Scale != nil {
		t.Scale = *node.Scale
	}
	var m [16]float32
	common.ComposeTRS(m[:], t.Translation, t.Rotation, t.Scale)
	return m
}
