package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
	"github.com/Carmen-Shannon/oxy-morph/engine/shader"
)

type wgpuRenderer struct {
	mu     *sync.Mutex
	logger *slog.Logger
	points pointsfx.UniformRenderer

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	width         int
	height        int

	presentMode          PresentMode
	forceFallbackAdapter bool
	clearColor           [4]float32

	pipeline       *wgpu.RenderPipeline
	layout         *wgpu.BindGroupLayout
	layoutDesc     wgpu.BindGroupLayoutDescriptor
	buffers        map[uint32]*wgpu.Buffer
	textures       []*wgpu.Texture
	textureViews   []*wgpu.TextureView
	randomBuffer   *wgpu.Buffer
	bindGroups     map[modelPair]*wgpu.BindGroup
	frameSurface   *wgpu.Texture
	renderPassDesc *wgpu.RenderPassDescriptor
}

var _ Renderer = &wgpuRenderer{}

// NewRenderer creates the GPU device for a window surface and uploads the static point data
// (position textures and the random attribute) of points.
//
// Parameters:
//   - surface: the window to present to
//   - points: the point morph state to draw
//   - options: functional options
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if any GPU object cannot be created
func NewRenderer(surface Surface, points pointsfx.UniformRenderer, options ...RendererBuilderOption) (Renderer, error) {
	r := &wgpuRenderer{
		mu:          &sync.Mutex{},
		logger:      slog.New(slog.DiscardHandler),
		points:      points,
		presentMode: PresentModeVSync,
		clearColor:  [4]float32{0.1, 0.1, 0.1, 1},
		buffers:     make(map[uint32]*wgpu.Buffer),
		bindGroups:  make(map[modelPair]*wgpu.BindGroup),
	}
	for _, opt := range options {
		opt(r)
	}

	if err := r.initDevice(surface.SurfaceDescriptor()); err != nil {
		r.Release()
		return nil, err
	}
	r.configureSurface(surface.Width(), surface.Height())

	if err := r.initPipeline(); err != nil {
		r.Release()
		return nil, err
	}
	if err := r.initResources(); err != nil {
		r.Release()
		return nil, err
	}

	r.logger.Info("renderer ready",
		"format", r.surfaceFormat,
		"points", points.PointCount(),
		"models", len(r.textureViews),
	)
	return r, nil
}

func (r *wgpuRenderer) initDevice(desc *wgpu.SurfaceDescriptor) error {
	if desc == nil {
		return errors.New("renderer: window has no surface descriptor")
	}
	runtime.LockOSThread()

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(desc)

	a, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	r.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Morph Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	r.device = d
	r.queue = d.GetQueue()

	capabilities := r.surface.GetCapabilities(r.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("renderer: surface reports no formats")
	}
	r.surfaceFormat = capabilities.Formats[0]
	return nil
}

func (r *wgpuRenderer) configureSurface(width, height int) {
	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		return
	}

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: surfacePresentMode(r.presentMode),
		AlphaMode:   capabilities.AlphaModes[0],
	})

	r.renderPassDesc = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: clearValue(r.clearColor),
			},
		},
	}
}

func (r *wgpuRenderer) initPipeline() error {
	refl, err := shader.Reflect(r.points.ShaderSource())
	if err != nil {
		return err
	}
	vsEntry, _ := refl.EntryPoint(shader.StageVertex)
	fsEntry, ok := refl.EntryPoint(shader.StageFragment)
	if !ok {
		return fmt.Errorf("point shader: %w", shader.ErrNoEntryPoint)
	}

	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Point Morph Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: r.points.ShaderSource(),
		},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	defer module.Release()

	r.layoutDesc = r.points.BindGroupLayoutDescriptor()
	r.layout, err = r.device.CreateBindGroupLayout(&r.layoutDesc)
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Point Morph Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.layout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	blend := pointBlendState
	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Point Morph Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: vsEntry,
			Buffers:    r.points.VertexBufferLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fsEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.surfaceFormat,
					Blend:     &blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyPointList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	return nil
}

func (r *wgpuRenderer) initResources() error {
	for _, entry := range r.layoutDesc.Entries {
		if kindOf(entry) != bindingBuffer {
			continue
		}
		usage, err := bufferUsage(entry)
		if err != nil {
			return err
		}
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Point Morph Binding %d", entry.Binding),
			Size:  entry.Buffer.MinBindingSize,
			Usage: usage,
		})
		if err != nil {
			return fmt.Errorf("create buffer for binding %d: %w", entry.Binding, err)
		}
		r.buffers[entry.Binding] = buf
	}

	for _, staging := range r.points.PositionTextures() {
		if !staging.Valid() {
			return fmt.Errorf("position texture %q has %d bytes for %dx%d", staging.Label, len(staging.Data), staging.Width, staging.Height)
		}
		size := wgpu.Extent3D{Width: staging.Width, Height: staging.Height, DepthOrArrayLayers: 1}
		tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         staging.Label + " Positions",
			Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension:     wgpu.TextureDimension2D,
			Size:          size,
			Format:        staging.Format,
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if err != nil {
			return fmt.Errorf("create position texture %q: %w", staging.Label, err)
		}
		r.textures = append(r.textures, tex)

		layout := textureDataLayout(staging)
		r.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			staging.Data,
			&layout,
			&size,
		)

		view, err := tex.CreateView(nil)
		if err != nil {
			return fmt.Errorf("create position texture view %q: %w", staging.Label, err)
		}
		r.textureViews = append(r.textureViews, view)
	}
	if len(r.textureViews) == 0 {
		return pointsfx.ErrNoPointSets
	}

	random := r.points.RandomAttribute()
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Point Random Attribute",
		Size:  uint64(len(random)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create random attribute buffer: %w", err)
	}
	r.queue.WriteBuffer(buf, 0, random)
	r.randomBuffer = buf
	return nil
}

// bindGroupFor returns the bind group for a model pair, creating it on first use.
// Models are few, so every visited pair is cached until Release.
func (r *wgpuRenderer) bindGroupFor(pair modelPair) (*wgpu.BindGroup, error) {
	if bg, ok := r.bindGroups[pair]; ok {
		return bg, nil
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(r.layoutDesc.Entries))
	for _, entry := range r.layoutDesc.Entries {
		switch entry.Binding {
		case pointsfx.BindingPositionsA:
			entries = append(entries, wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: r.textureViews[pair[0]]})
		case pointsfx.BindingPositionsB:
			entries = append(entries, wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: r.textureViews[pair[1]]})
		default:
			buf, ok := r.buffers[entry.Binding]
			if !ok {
				return nil, fmt.Errorf("binding %d has no buffer", entry.Binding)
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		}
	}

	bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   fmt.Sprintf("Point Morph %d->%d", pair[0], pair[1]),
		Layout:  r.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	r.bindGroups[pair] = bg
	r.logger.Debug("bind group created", "a", pair[0], "b", pair[1])
	return bg, nil
}

func (r *wgpuRenderer) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device == nil || r.width <= 0 || r.height <= 0 {
		return nil
	}
	if r.frameSurface != nil {
		return ErrFrameInFlight
	}

	for _, w := range r.points.StagedWriteData() {
		buf := r.buffers[uint32(w.Binding)]
		if buf == nil {
			continue
		}
		r.queue.WriteBuffer(buf, w.Offset, w.Data)
	}

	a, b := r.points.BoundTextures()
	bindGroup, err := r.bindGroupFor(pairFor(a, b, len(r.textureViews)))
	if err != nil {
		return fmt.Errorf("bind group: %w", err)
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	r.frameSurface = surfaceTexture
	defer func() {
		r.frameSurface.Release()
		r.frameSurface = nil
	}()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	r.renderPassDesc.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(r.renderPassDesc)
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.SetVertexBuffer(0, r.randomBuffer, 0, wgpu.WholeSize)
	pass.Draw(uint32(r.points.PointCount()), 1, 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

func (r *wgpuRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.surface == nil {
		return
	}
	r.configureSurface(width, height)
	r.logger.Debug("surface resized", "width", width, "height", height)
}

func (r *wgpuRenderer) SetClearColor(c [4]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = c
	if r.renderPassDesc != nil {
		r.renderPassDesc.ColorAttachments[0].ClearValue = clearValue(c)
	}
}

func (r *wgpuRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for pair, bg := range r.bindGroups {
		bg.Release()
		delete(r.bindGroups, pair)
	}
	for binding, buf := range r.buffers {
		buf.Release()
		delete(r.buffers, binding)
	}
	for _, v := range r.textureViews {
		v.Release()
	}
	r.textureViews = nil
	for _, t := range r.textures {
		t.Release()
	}
	r.textures = nil
	if r.randomBuffer != nil {
		r.randomBuffer.Release()
		r.randomBuffer = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.layout != nil {
		r.layout.Release()
		r.layout = nil
	}
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}
