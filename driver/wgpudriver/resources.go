package wgpudriver

import (
	"fmt"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/cogentcore/webgpu/wgpu"
)

// program holds the compiled stage modules alongside the reflection parsed
// from the WGSL source at link time.
type program struct {
	vertexModule   *wgpu.ShaderModule
	fragmentModule *wgpu.ShaderModule
	vertexEntry    string
	fragmentEntry  string
	reflection     *driver.Reflection
}

var _ driver.Program = &program{}

func (p *program) Reflect() (*driver.Reflection, error) {
	if p.reflection == nil {
		return nil, fmt.Errorf("wgpudriver: program released")
	}
	return p.reflection, nil
}

func (p *program) Release() {
	if p.vertexModule != nil {
		p.vertexModule.Release()
		p.vertexModule = nil
	}
	if p.fragmentModule != nil {
		p.fragmentModule.Release()
		p.fragmentModule = nil
	}
	p.reflection = nil
}

// buffer wraps a wgpu buffer. Uploads go through the device queue; readback
// is not offered because mapping requires the caller to drive Poll, which
// the driver keeps internal.
type buffer struct {
	dev  *device
	buf  *wgpu.Buffer
	size int
}

var _ driver.Buffer = &buffer{}

func (b *buffer) Upload(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("wgpudriver: upload of %d bytes at offset %d exceeds buffer size %d", len(data), offset, b.size)
	}
	b.dev.queue.WriteBuffer(b.buf, uint64(offset), data)
	return nil
}

func (b *buffer) Download(offset int, dst []byte) error {
	return driver.ErrUnsupported
}

func (b *buffer) Size() int {
	return b.size
}

func (b *buffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

// texture wraps a wgpu texture with a cached default view for binding.
type texture struct {
	dev  *device
	tex  *wgpu.Texture
	view *wgpu.TextureView
	desc driver.TextureDescriptor
}

var _ driver.Texture = &texture{}

func (t *texture) Descriptor() driver.TextureDescriptor {
	return t.desc
}

func (t *texture) Upload(mip int, data []byte) error {
	levels := t.desc.MipLevels
	if levels < 1 {
		levels = 1
	}
	if mip < 0 || mip >= levels {
		return fmt.Errorf("wgpudriver: mip %d out of range, texture has %d levels", mip, levels)
	}

	width := t.desc.Width >> mip
	height := t.desc.Height >> mip
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	depth := t.desc.Depth
	if depth < 1 {
		depth = 1
	}

	t.dev.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: uint32(mip),
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(len(data) / (height * depth)),
			RowsPerImage: uint32(height),
		},
		&wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: uint32(depth),
		},
	)
	return nil
}

func (t *texture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// sampler wraps a wgpu sampler.
type sampler struct {
	smp  *wgpu.Sampler
	desc driver.SamplerDescriptor
}

var _ driver.Sampler = &sampler{}

func (s *sampler) Descriptor() driver.SamplerDescriptor {
	return s.desc
}

func (s *sampler) Release() {
	if s.smp != nil {
		s.smp.Release()
		s.smp = nil
	}
}

// framebuffer owns a color render texture and, when requested, a depth
// texture. Batches targeting it render into the cached views.
type framebuffer struct {
	colorTex  *wgpu.Texture
	colorView *wgpu.TextureView
	depthTex  *wgpu.Texture
	depthView *wgpu.TextureView
	desc      driver.FramebufferDescriptor
}

var _ driver.Framebuffer = &framebuffer{}

func (f *framebuffer) Descriptor() driver.FramebufferDescriptor {
	return f.desc
}

func (f *framebuffer) Release() {
	if f.depthView != nil {
		f.depthView.Release()
		f.depthView = nil
	}
	if f.depthTex != nil {
		f.depthTex.Release()
		f.depthTex = nil
	}
	if f.colorView != nil {
		f.colorView.Release()
		f.colorView = nil
	}
	if f.colorTex != nil {
		f.colorTex.Release()
		f.colorTex = nil
	}
}
