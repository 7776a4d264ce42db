package loader

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errInvalidGLBHeader   = errors.New("invalid GLB header")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferOutOfRange   = errors.New("accessor reads past the end of its buffer")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
}

// gltfParser decodes glTF/GLB files and reads typed accessor data out of their buffers.
type gltfParser interface {
	// Parse loads a .gltf or .glb file. GLB is detected by extension or magic number.
	//
	// Parameters:
	//   - path: path to the file
	//
	// Returns:
	//   - error: error if reading or decoding fails
	Parse(path string) error

	// ParseBytes decodes a document held in memory. External buffer URIs are resolved
	// against baseDir.
	//
	// Parameters:
	//   - data: the file contents
	//   - isGLB: true for the binary container format
	//   - baseDir: directory used to resolve relative buffer URIs
	//
	// Returns:
	//   - error: error if decoding fails
	ParseBytes(data []byte, isGLB bool, baseDir string) error

	// Document returns the parsed document, or nil before a successful parse.
	//
	// Returns:
	//   - *gltfDocument: the document
	Document() *gltfDocument

	// ReadPositions reads a VEC3 accessor as float positions. Normalized integer
	// accessors (KHR_mesh_quantization) are dequantized.
	//
	// Parameters:
	//   - accessorIndex: the accessor to read
	//
	// Returns:
	//   - [][3]float32: the positions
	//   - error: error if the accessor is not VEC3 or is out of range
	ReadPositions(accessorIndex int) ([][3]float32, error)

	// ReadIndices reads a SCALAR unsigned accessor as uint32 indices.
	//
	// Parameters:
	//   - accessorIndex: the accessor to read
	//
	// Returns:
	//   - []uint32: the indices
	//   - error: error if the accessor is not an unsigned SCALAR or is out of range
	ReadIndices(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser.
//
// Returns:
//   - gltfParser: the parser
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic)
	return p.ParseBytes(data, isGLB, filepath.Dir(path))
}

func (p *gltfParserImpl) ParseBytes(data []byte, isGLB bool, baseDir string) error {
	p.baseDir = baseDir
	p.document = nil

	jsonData, binChunk := data, []byte(nil)
	if isGLB {
		var err error
		jsonData, binChunk, err = splitGLB(data)
		if err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}

	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && binChunk != nil:
			buf.Data = binChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		default:
			b, err := p.readBufferURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = b
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: declared %d bytes, found %d", i, buf.ByteLength, len(buf.Data))
		}
	}

	p.document = &doc
	return nil
}

// splitGLB walks the GLB chunk list and returns the JSON and BIN chunk payloads.
func splitGLB(data []byte) ([]byte, []byte, error) {
	if len(data) < glbHeaderSize ||
		binary.LittleEndian.Uint32(data[0:4]) != glbMagic ||
		binary.LittleEndian.Uint32(data[4:8]) != glbVersion {
		return nil, nil, errInvalidGLBHeader
	}

	total := min(int(binary.LittleEndian.Uint32(data[8:12])), len(data))
	var jsonChunk, binChunk []byte
	for off := glbHeaderSize; off+8 <= total; {
		length := int(binary.LittleEndian.Uint32(data[off : off+4]))
		kind := binary.LittleEndian.Uint32(data[off+4 : off+8])
		start, end := off+8, off+8+length
		if end > total {
			return nil, nil, fmt.Errorf("GLB chunk at offset %d overruns file", off)
		}
		switch kind {
		case glbChunkJSON:
			jsonChunk = data[start:end]
		case glbChunkBIN:
			binChunk = data[start:end]
		}
		off = end
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// readBufferURI resolves a base64 data URI or a file path relative to the document.
func (p *gltfParserImpl) readBufferURI(uri string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(uri, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, errInvalidBufferURI
		}
		if !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: unsupported encoding %q", errInvalidBufferURI, header)
		}
		return base64.StdEncoding.DecodeString(payload)
	}

	data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(uri)))
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}
	return data, nil
}

// accessorElements returns the accessor, and for every element the byte slice holding it.
func (p *gltfParserImpl) accessorElements(accessorIndex int) (*gltfAccessor, [][]byte, error) {
	if p.document == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, nil, fmt.Errorf("accessor %d: sparse accessors are not supported", accessorIndex)
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, nil, fmt.Errorf("accessor %d has no valid bufferView", accessorIndex)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, nil, fmt.Errorf("bufferView %d references missing buffer %d", *acc.BufferView, bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].Data

	elemSize := componentSize(acc.ComponentType) * componentCount(acc.Type)
	if elemSize == 0 {
		return nil, nil, fmt.Errorf("accessor %d: unsupported layout %s/%d", accessorIndex, acc.Type, acc.ComponentType)
	}
	stride := elemSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	base := bv.ByteOffset + acc.ByteOffset
	elems := make([][]byte, acc.Count)
	for i := range elems {
		start := base + i*stride
		if start+elemSize > len(data) {
			return nil, nil, fmt.Errorf("accessor %d element %d: %w", accessorIndex, i, errBufferOutOfRange)
		}
		elems[i] = data[start : start+elemSize]
	}
	return acc, elems, nil
}

func (p *gltfParserImpl) ReadPositions(accessorIndex int) ([][3]float32, error) {
	acc, elems, err := p.accessorElements(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfTypeVec3 {
		return nil, fmt.Errorf("position accessor %d is %s, want VEC3", accessorIndex, acc.Type)
	}

	size := componentSize(acc.ComponentType)
	out := make([][3]float32, len(elems))
	for i, e := range elems {
		for c := range 3 {
			out[i][c] = decodeComponent(e[c*size:(c+1)*size], acc.ComponentType, acc.Normalized)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acc, elems, err := p.accessorElements(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfTypeScalar {
		return nil, fmt.Errorf("index accessor %d is %s, want SCALAR", accessorIndex, acc.Type)
	}

	out := make([]uint32, len(elems))
	for i, e := range elems {
		switch acc.ComponentType {
		case gltfComponentUnsignedByte:
			out[i] = uint32(e[0])
		case gltfComponentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(e))
		case gltfComponentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(e)
		default:
			return nil, fmt.Errorf("index accessor %d: unsupported component type %d", accessorIndex, acc.ComponentType)
		}
	}
	return out, nil
}

// decodeComponent converts one little-endian component to float32, applying the glTF
// normalization rules for integer types when normalized is set.
func decodeComponent(b []byte, componentType int, normalized bool) float32 {
	switch componentType {
	case gltfComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gltfComponentByte:
		v := float32(int8(b[0]))
		if normalized {
			return max(v/127, -1)
		}
		return v
	case gltfComponentUnsignedByte:
		v := float32(b[0])
		if normalized {
			return v / 255
		}
		return v
	case gltfComponentShort:
		v := float32(int16(binary.LittleEndian.Uint16(b)))
		if normalized {
			return max(v/32767, -1)
		}
		return v
	case gltfComponentUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(b))
		if normalized {
			return v / 65535
		}
		return v
	case gltfComponentUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// componentSize returns the byte size of an accessor component type.
func componentSize(componentType int) int {
	switch componentType {
	case gltfComponentByte, gltfComponentUnsignedByte:
		return 1
	case gltfComponentShort, gltfComponentUnsignedShort:
		return 2
	case gltfComponentUnsignedInt, gltfComponentFloat:
		return 4
	}
	return 0
}

// componentCount returns the number of components of an accessor element type.
func componentCount(accessorType string) int {
	switch accessorType {
	case gltfTypeScalar:
		return 1
	case gltfTypeVec2:
		return 2
	case gltfTypeVec3:
		return 3
	case gltfTypeVec4:
		return 4
	}
	return 0
}

// readAll drains r, wrapping the error in the loader's style.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}
