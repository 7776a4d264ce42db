package pointsfx

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-morph/common"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointcloud"
	"github.com/Carmen-Shannon/oxy-morph/engine/shader"
)

// UniformRenderer is a Renderer that stages the point morph shader's uniform buffers and
// position textures for upload. The GPU side drains StagedWriteData once per rendered frame.
type UniformRenderer interface {
	Renderer

	// StagedWriteData returns and clears the pending GPU buffer writes.
	// At most one write per binding is returned, holding the latest values.
	//
	// Returns:
	//   - []BufferWrite: the pending writes ordered by binding
	StagedWriteData() []BufferWrite

	// Uniforms returns the current morph uniforms.
	//
	// Returns:
	//   - GPUMorphUniforms: a copy of the uniforms
	Uniforms() GPUMorphUniforms

	// BoundTextures returns the indices of the position textures bound to positions_a and positions_b.
	// Missing or out-of-range models fall back to the other side of the pair, or texture 0.
	//
	// Returns:
	//   - int: the texture bound as model A
	//   - int: the texture bound as model B
	BoundTextures() (int, int)

	// SetColors replaces the three point colors.
	//
	// Parameters:
	//   - colors: RGBA colors with channels in [0, 1]
	SetColors(colors [3][4]float32)

	// Colors returns the current point colors.
	//
	// Returns:
	//   - [3][4]float32: the colors
	Colors() [3][4]float32

	// SetViewProjection replaces the camera transform applied to points.
	//
	// Parameters:
	//   - m: column-major view-projection matrix
	SetViewProjection(m [16]float32)

	// PointCount returns the number of points drawn per frame.
	//
	// Returns:
	//   - int: size*size
	PointCount() int

	// PositionTextures returns one RGBA32Float texture per model holding its point positions.
	//
	// Returns:
	//   - []common.TextureStagingData: the textures in model order
	PositionTextures() []common.TextureStagingData

	// RandomAttribute returns the per-point vec3 vertex attribute data.
	//
	// Returns:
	//   - []byte: tightly packed float32 triples ready for a vertex buffer
	RandomAttribute() []byte

	// ShaderSource returns the WGSL source of the point morph shader.
	//
	// Returns:
	//   - string: the shader source
	ShaderSource() string

	// BindGroupLayoutDescriptor returns the layout of bind group 0 of the point morph shader.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// VertexBufferLayouts returns the vertex buffer layouts of the point morph shader.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts
	VertexBufferLayouts() []wgpu.VertexBufferLayout
}

type uniformRenderer struct {
	mu     *sync.Mutex
	logger *slog.Logger
	label  string

	size      int
	pointSets []pointcloud.PointSet
	random    []float32
	textures  []common.TextureStagingData

	uniforms GPUMorphUniforms
	colors   GPUPointColors
	view     GPUViewData

	dirtyUniforms bool
	dirtyColors   bool
	dirtyView     bool

	layout        wgpu.BindGroupLayoutDescriptor
	vertexLayouts []wgpu.VertexBufferLayout
}

var _ UniformRenderer = &uniformRenderer{}

// NewUniformRenderer creates a UniformRenderer over a set of equally sized point sets.
// Colors default to DefaultColors, the view to identity and the random attribute to
// pointcloud.RandomAttribute with the default spread and seed 0.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - UniformRenderer: the renderer
//   - error: ErrNoPointSets or ErrPointCountMismatch for unusable point sets, or a shader reflection error
func NewUniformRenderer(options ...UniformRendererBuilderOption) (UniformRenderer, error) {
	r := &uniformRenderer{
		mu:     &sync.Mutex{},
		logger: slog.New(slog.DiscardHandler),
		label:  "points",
		colors: GPUPointColors{Colors: DefaultColors()},
		view:   GPUViewData{PointSize: 1},
		uniforms: GPUMorphUniforms{
			ModelA: -1,
			ModelB: -1,
		},
	}
	common.Identity(r.view.ViewProj[:])

	for _, opt := range options {
		opt(r)
	}

	if len(r.pointSets) == 0 {
		return nil, ErrNoPointSets
	}
	r.size = int(math.Sqrt(float64(r.pointSets[0].Len())))
	for _, ps := range r.pointSets {
		if r.size == 0 || ps.Len() != r.size*r.size {
			return nil, fmt.Errorf("%w: %s has %d points", ErrPointCountMismatch, ps.Name, ps.Len())
		}
	}

	if r.random == nil {
		random, err := pointcloud.RandomAttribute(r.size, pointcloud.DefaultSpread, 0)
		if err != nil {
			return nil, err
		}
		r.random = random
	}
	if len(r.random) != r.size*r.size*3 {
		return nil, fmt.Errorf("%w: random attribute has %d values, want %d", ErrPointCountMismatch, len(r.random), r.size*r.size*3)
	}

	refl, err := shader.Reflect(PointShaderSource)
	if err != nil {
		return nil, fmt.Errorf("reflect point shader: %w", err)
	}
	r.layout, err = refl.BindGroupLayout(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, r.label)
	if err != nil {
		return nil, fmt.Errorf("reflect point shader: %w", err)
	}
	r.vertexLayouts = refl.VertexLayouts()

	r.textures = make([]common.TextureStagingData, len(r.pointSets))
	for i, ps := range r.pointSets {
		r.textures[i] = positionTexture(ps, r.size)
	}

	r.dirtyUniforms, r.dirtyColors, r.dirtyView = true, true, true
	r.logger.Debug("point renderer ready", "label", r.label, "models", len(r.pointSets), "points", r.size*r.size)
	return r, nil
}

func (r *uniformRenderer) UpdateProgress(progress float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms.Progress = progress
	r.dirtyUniforms = true
}

func (r *uniformRenderer) UpdateTime(seconds float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms.Time = seconds
	r.dirtyUniforms = true
}

func (r *uniformRenderer) SetModels(a, b int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uniforms.ModelA = int32(max(a, -1))
	r.uniforms.ModelB = int32(max(b, -1))
	r.dirtyUniforms = true
	if a >= len(r.textures) || b >= len(r.textures) {
		r.logger.Warn("model index has no position texture", "a", a, "b", b, "models", len(r.textures))
	}
}

func (r *uniformRenderer) Uniforms() GPUMorphUniforms {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniforms
}

func (r *uniformRenderer) BoundTextures() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	valid := func(i int32) bool { return i >= 0 && int(i) < len(r.textures) }

	a, b := int(r.uniforms.ModelA), int(r.uniforms.ModelB)
	switch {
	case valid(r.uniforms.ModelA) && valid(r.uniforms.ModelB):
		return a, b
	case valid(r.uniforms.ModelA):
		return a, a
	case valid(r.uniforms.ModelB):
		return b, b
	}
	return 0, 0
}

func (r *uniformRenderer) SetColors(colors [3][4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colors.Colors = colors
	r.dirtyColors = true
}

func (r *uniformRenderer) Colors() [3][4]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.colors.Colors
}

func (r *uniformRenderer) SetViewProjection(m [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.ViewProj = m
	r.dirtyView = true
}

func (r *uniformRenderer) StagedWriteData() []BufferWrite {
	r.mu.Lock()
	defer r.mu.Unlock()

	var writes []BufferWrite
	if r.dirtyUniforms {
		writes = append(writes, BufferWrite{Binding: BindingMorphUniforms, Data: r.uniforms.Marshal()})
		r.dirtyUniforms = false
	}
	if r.dirtyColors {
		writes = append(writes, BufferWrite{Binding: BindingPointColors, Data: r.colors.Marshal()})
		r.dirtyColors = false
	}
	if r.dirtyView {
		writes = append(writes, BufferWrite{Binding: BindingViewData, Data: r.view.Marshal()})
		r.dirtyView = false
	}
	return writes
}

func (r *uniformRenderer) PointCount() int {
	return r.size * r.size
}

func (r *uniformRenderer) PositionTextures() []common.TextureStagingData {
	return r.textures
}

func (r *uniformRenderer) RandomAttribute() []byte {
	buf := make([]byte, len(r.random)*4)
	for i, v := range r.random {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func (r *uniformRenderer) ShaderSource() string {
	return PointShaderSource
}

func (r *uniformRenderer) BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return r.layout
}

func (r *uniformRenderer) VertexBufferLayouts() []wgpu.VertexBufferLayout {
	return r.vertexLayouts
}

// positionTexture packs a point set into a size x size RGBA32Float texture, w = 1.
func positionTexture(ps pointcloud.PointSet, size int) common.TextureStagingData {
	data := make([]byte, size*size*16)
	for i, p := range ps.Positions {
		off := i * 16
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(data[off+4:], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(data[off+8:], math.Float32bits(p[2]))
		binary.LittleEndian.PutUint32(data[off+12:], math.Float32bits(1))
	}
	return common.TextureStagingData{
		Label:  ps.Name,
		Data:   data,
		Width:  uint32(size),
		Height: uint32(size),
		Format: wgpu.TextureFormatRGBA32Float,
	}
}
