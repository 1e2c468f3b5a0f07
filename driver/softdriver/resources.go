package softdriver

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/glint/driver"
)

// program is a reflected GLSL program. The soft device keeps only the
// introspection result; there is no compiled artifact.
type program struct {
	reflection *driver.Reflection
}

var _ driver.Program = &program{}

func (p *program) Reflect() (*driver.Reflection, error) {
	if p.reflection == nil {
		return nil, fmt.Errorf("softdriver: program released")
	}
	return p.reflection, nil
}

func (p *program) Release() {
	p.reflection = nil
}

// buffer is a host-memory buffer. Uploads and downloads lock against the
// device's executing batches, which zero-fill capture regions.
type buffer struct {
	mu    sync.Mutex
	data  []byte
	usage driver.BufferUsage
}

var _ driver.Buffer = &buffer{}

func (b *buffer) Upload(offset int, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("softdriver: upload of %d bytes at offset %d exceeds buffer size %d", len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *buffer) Download(offset int, dst []byte) error {
	if b.usage&driver.UsageReadback == 0 {
		return driver.ErrUnsupported
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset+len(dst) > len(b.data) {
		return fmt.Errorf("softdriver: download of %d bytes at offset %d exceeds buffer size %d", len(dst), offset, len(b.data))
	}
	copy(dst, b.data[offset:])
	return nil
}

func (b *buffer) Size() int {
	return len(b.data)
}

func (b *buffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
}

// fill zeroes n bytes at offset, standing in for capture output the soft
// device cannot compute without executing shader code.
func (b *buffer) fill(offset, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset+n > len(b.data) {
		return fmt.Errorf("softdriver: capture of %d bytes at offset %d exceeds buffer size %d", n, offset, len(b.data))
	}
	clear(b.data[offset : offset+n])
	return nil
}

// texture holds only its descriptor and uploaded mip payload sizes; the soft
// device never samples it.
type texture struct {
	mu   sync.Mutex
	desc driver.TextureDescriptor
	mips map[int][]byte
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
		return fmt.Errorf("softdriver: mip %d out of range, texture has %d levels", mip, levels)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mips == nil {
		t.mips = make(map[int][]byte)
	}
	t.mips[mip] = append([]byte(nil), data...)
	return nil
}

func (t *texture) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mips = nil
}

type sampler struct {
	desc driver.SamplerDescriptor
}

var _ driver.Sampler = &sampler{}

func (s *sampler) Descriptor() driver.SamplerDescriptor {
	return s.desc
}

func (s *sampler) Release() {}

type framebuffer struct {
	desc driver.FramebufferDescriptor
}

var _ driver.Framebuffer = &framebuffer{}

func (f *framebuffer) Descriptor() driver.FramebufferDescriptor {
	return f.desc
}

func (f *framebuffer) Release() {}
