// Package wgpudriver implements the driver.Device boundary on WebGPU via the
// cogentcore/webgpu bindings. Programs are WGSL; their interface is parsed
// from the source at link time. Transform feedback capture is not available
// on WebGPU, so batches carrying a capture buffer fail their fences with
// driver.ErrUnsupported.
package wgpudriver

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/glint"
	"github.com/Carmen-Shannon/glint/driver"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipelineKey identifies a cached native render pipeline: one program
// rendered with one fixed-function state against one depth format.
type pipelineKey struct {
	prog  *program
	state string
}

// programLayouts caches the native layout objects derived from a program's
// reflection: group 0 for uniform blocks, group 1 for sampler slots.
type programLayouts struct {
	groups         []*wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
}

// device is the implementation of the driver.Device interface.
type device struct {
	mu sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	dev      *wgpu.Device
	queue    *wgpu.Queue

	pipelines      map[pipelineKey]*wgpu.RenderPipeline
	layouts        map[*program]*programLayouts
	defaultSampler *wgpu.Sampler

	fences chan *driver.Fence

	lost     chan struct{}
	lostOnce sync.Once

	forceFallback bool
	surfaceDesc   *wgpu.SurfaceDescriptor
	surface       *wgpu.Surface
}

var _ driver.Device = &device{}

// NewDevice opens a WebGPU device on the best available adapter.
//
// Parameters:
//   - options: device configuration
//
// Returns:
//   - driver.Device: the device
//   - error: if no suitable adapter or device is available
func NewDevice(options ...DeviceOption) (driver.Device, error) {
	runtime.LockOSThread()

	d := &device{
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
		layouts:   make(map[*program]*programLayouts),
		fences:    make(chan *driver.Fence, 64),
		lost:      make(chan struct{}),
	}
	for _, option := range options {
		option(d)
	}

	d.instance = wgpu.CreateInstance(nil)
	if d.surfaceDesc != nil {
		d.surface = d.instance.CreateSurface(d.surfaceDesc)
	}

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallback,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		if d.surface != nil {
			d.surface.Release()
		}
		d.instance.Release()
		return nil, fmt.Errorf("wgpudriver: no adapter available: %w", err)
	}
	d.adapter = adapter

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "glint device",
	})
	if err != nil {
		adapter.Release()
		d.instance.Release()
		return nil, fmt.Errorf("wgpudriver: device request failed: %w", err)
	}
	d.dev = dev
	d.queue = dev.GetQueue()

	go d.pollLoop()

	return d, nil
}

// pollLoop resolves fences in submission order: each wait drives the native
// device until all work submitted before it has retired.
func (d *device) pollLoop() {
	for f := range d.fences {
		d.dev.Poll(true, nil)
		f.Signal(nil)
	}
}

func (d *device) LinkProgram(vertexSrc, fragmentSrc string) (driver.Program, error) {
	reflection, err := reflectWGSL(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	vertexEntry := parseEntryPoint(stripComments(vertexSrc), vertexEntryRegex)
	if vertexEntry == "" {
		return nil, fmt.Errorf("wgpudriver: vertex source has no @vertex entry point")
	}
	fragmentEntry := parseEntryPoint(stripComments(fragmentSrc), fragmentEntryRegex)
	if fragmentEntry == "" {
		return nil, fmt.Errorf("wgpudriver: fragment source has no @fragment entry point")
	}

	vs, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "glint vertex stage",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexSrc,
		},
	})
	if err != nil {
		return nil, err
	}
	fs, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "glint fragment stage",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentSrc,
		},
	})
	if err != nil {
		vs.Release()
		return nil, err
	}

	return &program{
		vertexModule:   vs,
		fragmentModule: fs,
		vertexEntry:    vertexEntry,
		fragmentEntry:  fragmentEntry,
		reflection:     reflection,
	}, nil
}

func (d *device) CreateBuffer(size int, usage driver.BufferUsage) (driver.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("wgpudriver: buffer size must be positive, got %d", size)
	}
	if usage&driver.UsageCapture != 0 {
		return nil, driver.ErrUnsupported
	}

	buf, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "glint buffer",
		Size:  uint64(size),
		Usage: bufferUsageFlags(usage),
	})
	if err != nil {
		return nil, err
	}
	return &buffer{dev: d, buf: buf, size: size}, nil
}

func (d *device) CreateTexture(desc driver.TextureDescriptor) (driver.Texture, error) {
	format, ok := textureFormatMap[desc.Format]
	if !ok {
		return nil, fmt.Errorf("wgpudriver: unsupported texture format %s", desc.Format)
	}

	depth := desc.Depth
	if depth < 1 {
		depth = 1
	}
	if desc.Kind == driver.SamplerCube {
		depth = 6
	}
	mips := desc.MipLevels
	if mips < 1 {
		mips = 1
	}

	tex, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "glint texture",
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: uint32(depth),
		},
		MipLevelCount: uint32(mips),
		SampleCount:   1,
		Dimension:     textureDimensionMap[desc.Kind],
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}

	return &texture{dev: d, tex: tex, view: view, desc: desc}, nil
}

func (d *device) CreateSampler(desc driver.SamplerDescriptor) (driver.Sampler, error) {
	descriptor := &wgpu.SamplerDescriptor{
		Label:         "glint sampler",
		AddressModeU:  wrapMap[desc.WrapU],
		AddressModeV:  wrapMap[desc.WrapV],
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filterMap[desc.MagFilter],
		MinFilter:     filterMap[desc.MinFilter],
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	}
	if desc.Kind == driver.Sampler2DShadow {
		descriptor.Compare = wgpu.CompareFunctionLess
	}

	smp, err := d.dev.CreateSampler(descriptor)
	if err != nil {
		return nil, err
	}
	return &sampler{smp: smp, desc: desc}, nil
}

func (d *device) CreateFramebuffer(desc driver.FramebufferDescriptor) (driver.Framebuffer, error) {
	colorFormat, ok := textureFormatMap[desc.ColorFormat]
	if !ok {
		return nil, fmt.Errorf("wgpudriver: unsupported color format %s", desc.ColorFormat)
	}
	samples := desc.SampleCount
	if samples < 1 {
		samples = 1
	}

	colorTex, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "glint color target",
		Size: wgpu.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   uint32(samples),
		Dimension:     wgpu.TextureDimension2D,
		Format:        colorFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	colorView, err := colorTex.CreateView(nil)
	if err != nil {
		colorTex.Release()
		return nil, err
	}

	fb := &framebuffer{colorTex: colorTex, colorView: colorView, desc: desc}

	if desc.DepthFormat != driver.FormatNone {
		depthFormat, ok := textureFormatMap[desc.DepthFormat]
		if !ok {
			fb.Release()
			return nil, fmt.Errorf("wgpudriver: unsupported depth format %s", desc.DepthFormat)
		}
		depthTex, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
			Label: "glint depth target",
			Size: wgpu.Extent3D{
				Width:              uint32(desc.Width),
				Height:             uint32(desc.Height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   uint32(samples),
			Dimension:     wgpu.TextureDimension2D,
			Format:        depthFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			fb.Release()
			return nil, err
		}
		depthView, err := depthTex.CreateView(nil)
		if err != nil {
			depthTex.Release()
			fb.Release()
			return nil, err
		}
		fb.depthTex = depthTex
		fb.depthView = depthView
	}

	return fb, nil
}

func (d *device) Submit(batch *driver.Batch) *driver.Fence {
	f := driver.NewFence()

	d.mu.Lock()
	defer d.mu.Unlock()

	if batch.Capture != nil {
		f.Signal(driver.ErrUnsupported)
		return f
	}

	if err := d.encodeAndSubmit(batch); err != nil {
		glint.Logger().Error("wgpudriver: batch failed", "error", err)
		f.Signal(err)
		return f
	}

	d.fences <- f
	return f
}

// encodeAndSubmit replays a batch's commands into a native render pass and
// hands the resulting command buffer to the queue. Caller holds d.mu.
func (d *device) encodeAndSubmit(batch *driver.Batch) error {
	prog, ok := batch.Program.(*program)
	if !ok {
		return fmt.Errorf("wgpudriver: foreign program %T", batch.Program)
	}
	fb, ok := batch.Target.(*framebuffer)
	if !ok {
		return fmt.Errorf("wgpudriver: foreign render target %T", batch.Target)
	}

	pipeline, err := d.renderPipeline(prog, &batch.State, fb.desc.DepthFormat)
	if err != nil {
		return err
	}

	encoder, err := d.dev.CreateCommandEncoder(nil)
	if err != nil {
		d.lostOnce.Do(func() { close(d.lost) })
		return driver.ErrDeviceLost
	}
	defer encoder.Release()

	descriptor := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       fb.colorView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	}
	if fb.depthView != nil {
		descriptor.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            fb.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}

	pass := encoder.BeginRenderPass(descriptor)
	pass.SetPipeline(pipeline)

	var groups []*wgpu.BindGroup
	defer func() {
		for _, g := range groups {
			g.Release()
		}
	}()

	state := newBindState(prog)
	for i, cmd := range batch.Commands {
		switch cmd.Kind {
		case driver.CmdBindUniformBuffer:
			buf, ok := cmd.Buffer.(*buffer)
			if !ok {
				return fmt.Errorf("wgpudriver: command %d binds a foreign buffer", i)
			}
			state.setBlock(cmd.Binding, buf.buf, uint64(cmd.Size))

		case driver.CmdBindTexture:
			tex, ok := cmd.Texture.(*texture)
			if !ok {
				return fmt.Errorf("wgpudriver: command %d binds a foreign texture", i)
			}
			var smp *wgpu.Sampler
			if cmd.Sampler != nil {
				ws, ok := cmd.Sampler.(*sampler)
				if !ok {
					return fmt.Errorf("wgpudriver: command %d binds a foreign sampler", i)
				}
				smp = ws.smp
			} else {
				smp, err = d.fallbackSampler()
				if err != nil {
					return err
				}
			}
			state.setSampler(cmd.Binding, tex.view, smp)

		case driver.CmdBindVertexBuffer:
			buf, ok := cmd.Buffer.(*buffer)
			if !ok {
				return fmt.Errorf("wgpudriver: command %d binds a foreign buffer", i)
			}
			pass.SetVertexBuffer(0, buf.buf, 0, wgpu.WholeSize)

		case driver.CmdBindIndexBuffer:
			buf, ok := cmd.Buffer.(*buffer)
			if !ok {
				return fmt.Errorf("wgpudriver: command %d binds a foreign buffer", i)
			}
			pass.SetIndexBuffer(buf.buf, indexFormatMap[cmd.IndexFormat], 0, wgpu.WholeSize)

		case driver.CmdDraw, driver.CmdDrawIndexed:
			if state.dirty {
				fresh, err := state.buildGroups(d)
				if err != nil {
					return fmt.Errorf("wgpudriver: command %d: %w", i, err)
				}
				for g, bg := range fresh {
					if bg != nil {
						pass.SetBindGroup(uint32(g), bg, nil)
					}
				}
				groups = append(groups, fresh...)
			}
			if cmd.Kind == driver.CmdDraw {
				pass.Draw(uint32(cmd.Count), uint32(cmd.Instances), uint32(cmd.First), 0)
			} else {
				pass.DrawIndexed(uint32(cmd.Count), uint32(cmd.Instances), uint32(cmd.First), int32(cmd.BaseVertex), 0)
			}

		default:
			return fmt.Errorf("wgpudriver: command %d has unknown kind %d", i, cmd.Kind)
		}
	}

	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return nil
}

func (d *device) Lost() <-chan struct{} {
	return d.lost
}

func (d *device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fences != nil {
		close(d.fences)
		d.fences = nil
	}
	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, l := range d.layouts {
		l.pipelineLayout.Release()
		for _, g := range l.groups {
			g.Release()
		}
	}
	d.layouts = nil
	if d.defaultSampler != nil {
		d.defaultSampler.Release()
		d.defaultSampler = nil
	}
	if d.dev != nil {
		d.dev.Release()
		d.dev = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// fallbackSampler lazily creates the linear sampler used when a texture is
// bound without explicit sampler state. Caller holds d.mu.
func (d *device) fallbackSampler() (*wgpu.Sampler, error) {
	if d.defaultSampler != nil {
		return d.defaultSampler, nil
	}
	smp, err := d.dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "glint default sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	d.defaultSampler = smp
	return smp, nil
}

// renderPipeline returns the cached native pipeline for the program and
// state, creating it on first use. Caller holds d.mu.
func (d *device) renderPipeline(prog *program, state *driver.PipelineState, depthFormat driver.TextureFormat) (*wgpu.RenderPipeline, error) {
	key := pipelineKey{prog: prog, state: fmt.Sprintf("%+v|%s", *state, depthFormat)}
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}

	layouts, err := d.programLayouts(prog)
	if err != nil {
		return nil, err
	}

	colorFormat, ok := textureFormatMap[state.ColorFormat]
	if !ok {
		return nil, fmt.Errorf("wgpudriver: unsupported color format %s", state.ColorFormat)
	}

	var vertexLayouts []wgpu.VertexBufferLayout
	if state.VertexStride > 0 {
		attrs := make([]wgpu.VertexAttribute, 0, len(state.VertexAttributes))
		for _, a := range state.VertexAttributes {
			format, ok := vertexFormatMap[vertexFormatKey{a.BaseType, a.Components}]
			if !ok {
				return nil, fmt.Errorf("wgpudriver: no vertex format for %s x%d", a.BaseType, a.Components)
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         format,
				Offset:         uint64(a.Offset),
				ShaderLocation: uint32(a.Location),
			})
		}
		vertexLayouts = []wgpu.VertexBufferLayout{
			{
				ArrayStride: uint64(state.VertexStride),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes:  attrs,
			},
		}
	}

	samples := state.SampleCount
	if samples < 1 {
		samples = 1
	}

	target := wgpu.ColorTargetState{
		Format:    colorFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if state.BlendEnabled {
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
			Alpha: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
		}
	}

	descriptor := &wgpu.RenderPipelineDescriptor{
		Label:  "glint render pipeline",
		Layout: layouts.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     prog.vertexModule,
			EntryPoint: prog.vertexEntry,
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.fragmentModule,
			EntryPoint: prog.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topologyMap[state.Topology],
			FrontFace: frontFaceMap[state.FrontFace],
			CullMode:  cullModeMap[state.CullMode],
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(samples),
			Mask:  0xFFFFFFFF,
		},
	}

	if depthFormat != driver.FormatNone {
		depthCompare := wgpu.CompareFunctionLess
		if !state.DepthTestEnabled {
			depthCompare = wgpu.CompareFunctionAlways
		}
		descriptor.DepthStencil = &wgpu.DepthStencilState{
			Format:            textureFormatMap[depthFormat],
			DepthWriteEnabled: state.DepthWriteEnabled,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := d.dev.CreateRenderPipeline(descriptor)
	if err != nil {
		return nil, err
	}
	d.pipelines[key] = created
	return created, nil
}

// programLayouts returns the cached bind group and pipeline layouts derived
// from a program's reflection, creating them on first use. Caller holds d.mu.
func (d *device) programLayouts(prog *program) (*programLayouts, error) {
	if l, ok := d.layouts[prog]; ok {
		return l, nil
	}

	r := prog.reflection
	groupCount := 0
	if len(r.Blocks) > 0 {
		groupCount = blockBindGroup + 1
	}
	if len(r.Samplers) > 0 {
		groupCount = samplerBindGroup + 1
	}

	groups := make([]*wgpu.BindGroupLayout, groupCount)
	for g := range groups {
		entries := layoutEntriesForGroup(r, g)
		layout, err := d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Entries: entries})
		if err != nil {
			return nil, fmt.Errorf("wgpudriver: bind group layout for group %d: %w", g, err)
		}
		groups[g] = layout
	}

	pipelineLayout, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: groups,
	})
	if err != nil {
		return nil, err
	}

	l := &programLayouts{groups: groups, pipelineLayout: pipelineLayout}
	d.layouts[prog] = l
	return l, nil
}

// layoutEntriesForGroup builds the bind group layout entries for one group
// from a program's reflection, sorted by binding index.
func layoutEntriesForGroup(r *driver.Reflection, group int) []wgpu.BindGroupLayoutEntry {
	var entries []wgpu.BindGroupLayoutEntry

	switch group {
	case blockBindGroup:
		for _, b := range r.Blocks {
			entry := wgpu.BindGroupLayoutEntry{
				Binding:    uint32(b.Binding),
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			}
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
			entry.Buffer.MinBindingSize = uint64(b.DataSize)
			entries = append(entries, entry)
		}

	case samplerBindGroup:
		for _, s := range r.Samplers {
			texEntry := wgpu.BindGroupLayoutEntry{
				Binding:    uint32(2 * s.Unit),
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			}
			texEntry.Texture.ViewDimension = viewDimensionMap[s.Kind]
			if s.Kind == driver.Sampler2DShadow {
				texEntry.Texture.SampleType = wgpu.TextureSampleTypeDepth
			} else {
				texEntry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			}

			smpEntry := wgpu.BindGroupLayoutEntry{
				Binding:    uint32(2*s.Unit + 1),
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			}
			if s.Kind == driver.Sampler2DShadow {
				smpEntry.Sampler.Type = wgpu.SamplerBindingTypeComparison
			} else {
				smpEntry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
			}

			entries = append(entries, texEntry, smpEntry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return entries
}

// boundSampler is one sampler slot's current texture view and sampler state.
type boundSampler struct {
	view *wgpu.TextureView
	smp  *wgpu.Sampler
}

// bindState accumulates a batch's bind commands between draws. Bind groups
// are rebuilt lazily at the next draw after any binding changes.
type bindState struct {
	prog     *program
	blocks   map[int]*wgpu.Buffer
	sizes    map[int]uint64
	samplers map[int]boundSampler
	dirty    bool
}

func newBindState(prog *program) *bindState {
	return &bindState{
		prog:     prog,
		blocks:   make(map[int]*wgpu.Buffer),
		sizes:    make(map[int]uint64),
		samplers: make(map[int]boundSampler),
	}
}

func (s *bindState) setBlock(binding int, buf *wgpu.Buffer, size uint64) {
	s.blocks[binding] = buf
	s.sizes[binding] = size
	s.dirty = true
}

func (s *bindState) setSampler(unit int, view *wgpu.TextureView, smp *wgpu.Sampler) {
	s.samplers[unit] = boundSampler{view: view, smp: smp}
	s.dirty = true
}

// buildGroups creates the native bind groups for the current bindings, one
// per layout group. Returns nil entries for groups with no bindings.
func (s *bindState) buildGroups(d *device) ([]*wgpu.BindGroup, error) {
	layouts, err := d.programLayouts(s.prog)
	if err != nil {
		return nil, err
	}
	s.dirty = false

	groups := make([]*wgpu.BindGroup, len(layouts.groups))
	for g := range layouts.groups {
		var entries []wgpu.BindGroupEntry

		switch g {
		case blockBindGroup:
			for _, b := range s.prog.reflection.Blocks {
				buf, ok := s.blocks[b.Binding]
				if !ok {
					return nil, fmt.Errorf("uniform block binding %d has no buffer", b.Binding)
				}
				entries = append(entries, wgpu.BindGroupEntry{
					Binding: uint32(b.Binding),
					Buffer:  buf,
					Offset:  0,
					Size:    s.sizes[b.Binding],
				})
			}

		case samplerBindGroup:
			for _, slot := range s.prog.reflection.Samplers {
				bound, ok := s.samplers[slot.Unit]
				if !ok {
					return nil, fmt.Errorf("sampler unit %d has no texture", slot.Unit)
				}
				entries = append(entries,
					wgpu.BindGroupEntry{
						Binding:     uint32(2 * slot.Unit),
						TextureView: bound.view,
					},
					wgpu.BindGroupEntry{
						Binding: uint32(2*slot.Unit + 1),
						Sampler: bound.smp,
					},
				)
			}
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})

		bg, err := d.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout:  layouts.groups[g],
			Entries: entries,
		})
		if err != nil {
			return nil, err
		}
		groups[g] = bg
	}

	return groups, nil
}
