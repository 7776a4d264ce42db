package pointsfx

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMorphUniformsSource is the canonical WGSL definition of the MorphUniforms struct.
// Matches GPUMorphUniforms layout exactly (16 bytes).
//
//go:embed assets/morph_uniforms.wgsl
var GPUMorphUniformsSource string

// GPUMorphUniforms is the GPU-aligned per-frame morph state.
// Size: 16 bytes (std140 aligned).
type GPUMorphUniforms struct {
	Progress float32 // offset 0: eased transition progress
	Time     float32 // offset 4: clock elapsed seconds
	ModelA   int32   // offset 8: index of the position texture morphed from
	ModelB   int32   // offset 12: index of the position texture morphed to
}

// Size returns the size of the GPUMorphUniforms struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUMorphUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMorphUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUMorphUniforms) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Progress))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(g.ModelA))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(g.ModelB))
	return buf
}

// GPUPointColorsSource is the canonical WGSL definition of the PointColors struct.
// Matches GPUPointColors layout exactly (48 bytes).
//
//go:embed assets/point_colors.wgsl
var GPUPointColorsSource string

// GPUPointColors holds the three RGBA colors points are shaded with.
// Size: 48 bytes (3 × vec4).
type GPUPointColors struct {
	Colors [3][4]float32
}

// Size returns the size of the GPUPointColors struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUPointColors) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointColors struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUPointColors) Marshal() []byte {
	buf := make([]byte, 48)
	for c := range 3 {
		for i := range 4 {
			off := (c*4 + i) * 4
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(g.Colors[c][i]))
		}
	}
	return buf
}

// GPUViewDataSource is the canonical WGSL definition of the ViewData struct.
// Matches GPUViewData layout exactly (80 bytes).
//
//go:embed assets/view_data.wgsl
var GPUViewDataSource string

// GPUViewData holds the camera transform applied to morphed points.
// Size: 80 bytes (mat4x4 + f32, padded to 16-byte alignment).
type GPUViewData struct {
	ViewProj  [16]float32 // offset 0: column-major view-projection matrix
	PointSize float32     // offset 64
	_pad      [3]float32  // offset 68: struct alignment pad
}

// Size returns the size of the GPUViewData struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUViewData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUViewData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUViewData) Marshal() []byte {
	buf := make([]byte, 80)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.ViewProj[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(g.PointSize))
	return buf
}

//go:embed assets/points.wgsl
var pointsBodySource string

// PointShaderSource is the complete point morph shader: the struct definitions above followed
// by the vertex and fragment stages.
var PointShaderSource = GPUMorphUniformsSource + "\n" + GPUPointColorsSource + "\n" + GPUViewDataSource + "\n" + pointsBodySource
