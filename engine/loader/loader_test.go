package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer returns a buffer holding three float positions followed by three uint16
// indices, padded to a multiple of four bytes.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	for _, v := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(v))
	}
	for _, i := range []uint16{0, 1, 2} {
		_ = binary.Write(&buf, binary.LittleEndian, i)
	}
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// triangleDocument describes a root node translated by (1, 0, 0) with a child mesh node
// scaled by 2.
func triangleDocument(bufferURI string) map[string]any {
	buffer := map[string]any{"byteLength": 44}
	if bufferURI != "" {
		buffer["uri"] = bufferURI
	}
	return map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes": []any{
			map[string]any{"name": "root", "children": []int{1}, "translation": []float32{1, 0, 0}},
			map[string]any{"name": "tri", "mesh": 0, "scale": []float32{2, 2, 2}},
		},
		"meshes": []any{
			map[string]any{"name": "triangle", "primitives": []any{
				map[string]any{"attributes": map[string]int{"POSITION": 0}, "indices": 1},
			}},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentUnsignedShort, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
}

// buildGLB packs a JSON document and binary buffer into a GLB container.
func buildGLB(t *testing.T, doc map[string]any, bin []byte) []byte {
	t.Helper()
	jsonData, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(jsonData)%4 != 0 {
		jsonData = append(jsonData, ' ')
	}

	var out bytes.Buffer
	total := glbHeaderSize + 8 + len(jsonData) + 8 + len(bin)
	for _, v := range []uint32{glbMagic, glbVersion, uint32(total), uint32(len(jsonData)), glbChunkJSON} {
		_ = binary.Write(&out, binary.LittleEndian, v)
	}
	out.Write(jsonData)
	for _, v := range []uint32{uint32(len(bin)), glbChunkBIN} {
		_ = binary.Write(&out, binary.LittleEndian, v)
	}
	out.Write(bin)
	return out.Bytes()
}

func TestLoadGLBAppliesNodeTransforms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.glb")
	require.NoError(t, os.WriteFile(path, buildGLB(t, triangleDocument(""), triangleBuffer()), 0o644))

	l := NewLoader(BackendTypeGLTF)
	mesh, err := l.LoadMesh(path, "tri")
	require.NoError(t, err)

	assert.Equal(t, "tri", mesh.Name)
	assert.Equal(t, [][3]float32{{1, 0, 0}, {3, 0, 0}, {1, 2, 0}}, mesh.Positions)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, [3]float32{1, 0, 0}, mesh.BoundingMin)
	assert.Equal(t, [3]float32{3, 2, 0}, mesh.BoundingMax)

	first, err := l.LoadMesh(path, "")
	require.NoError(t, err)
	assert.Equal(t, mesh, first)
}

func TestLoadCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.glb")
	require.NoError(t, os.WriteFile(path, buildGLB(t, triangleDocument(""), triangleBuffer()), 0o644))

	l := NewLoader(BackendTypeGLTF)
	a, err := l.Load(path)
	require.NoError(t, err)
	b, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Len(t, l.Models(), 1)
	assert.Same(t, a, l.Get(path))
	assert.Nil(t, l.Get("missing.glb"))
}

func TestLoadReaderWithDataURI(t *testing.T) {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer())
	jsonData, err := json.Marshal(triangleDocument(uri))
	require.NoError(t, err)

	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadReader("inline", bytes.NewReader(jsonData), false)
	require.NoError(t, err)

	mesh, ok := m.Mesh("tri")
	require.True(t, ok)
	assert.Len(t, mesh.Positions, 3)
	assert.Equal(t, "inline", m.Name())
}

func TestLoadMeshErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.glb")
	require.NoError(t, os.WriteFile(path, buildGLB(t, triangleDocument(""), triangleBuffer()), 0o644))

	l := NewLoader(BackendTypeGLTF)

	_, err := l.LoadMesh(path, "earth")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = l.Load(filepath.Join(dir, "model.obj"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Load(filepath.Join(dir, "missing.glb"))
	assert.Error(t, err)
}

func TestParseRejectsBadInput(t *testing.T) {
	p := newGLTFParser()

	assert.ErrorIs(t, p.ParseBytes([]byte("nope"), true, "."), errInvalidGLBHeader)

	doc := triangleDocument("")
	doc["asset"] = map[string]any{"version": "1.0"}
	assert.ErrorIs(t, p.ParseBytes(buildGLB(t, doc, triangleBuffer()), true, "."), errInvalidGLTFVersion)

	short := triangleBuffer()[:20]
	assert.Error(t, p.ParseBytes(buildGLB(t, triangleDocument(""), short), true, "."))
}

func TestReadPositionsDequantizes(t *testing.T) {
	bin := []byte{255, 0, 0, 0, 0, 255, 0, 0}
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentUnsignedByte, "normalized": true, "count": 2, "type": "VEC3"},
		},
		"bufferViews": []any{map[string]any{"buffer": 0, "byteLength": 8, "byteStride": 4}},
		"buffers":     []any{map[string]any{"byteLength": 8}},
	}

	p := newGLTFParser()
	require.NoError(t, p.ParseBytes(buildGLB(t, doc, bin), true, "."))

	positions, err := p.ReadPositions(0)
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{1, 0, 0}, {0, 1, 0}}, positions)

	_, err = p.ReadIndices(0)
	assert.Error(t, err, "VEC3 accessor must not read as indices")
}

func TestExtractUsesRootsWithoutScene(t *testing.T) {
	doc := triangleDocument("")
	delete(doc, "scene")
	delete(doc, "scenes")

	p := newGLTFParser()
	require.NoError(t, p.ParseBytes(buildGLB(t, doc, triangleBuffer()), true, "."))

	meshes, err := newGLTFMeshExtractor(p).ExtractNodeMeshes()
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, "tri", meshes[0].Name)
}
