package resources

import (
	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/layout"
)

// buffer is the implementation of the Buffer interface.
type buffer struct {
	borrowState

	label string
	buf   driver.Buffer
	usage driver.BufferUsage

	// blockTag is non-zero for uniform-tagged buffers, vertexTag for
	// vertex-tagged ones. A buffer carries at most one of the two.
	blockTag  uint64
	vertexTag uint64

	indexFormat driver.IndexFormat
}

// Buffer is a device buffer handle tagged with the layout it was allocated
// for. The tag is compared against a pipeline's binding contract when the
// buffer is bound into a pass.
type Buffer interface {
	Resource

	// Driver returns the underlying device buffer.
	//
	// Returns:
	//   - driver.Buffer: the device buffer
	Driver() driver.Buffer

	// Size returns the buffer's allocated byte size.
	//
	// Returns:
	//   - int: the size in bytes
	Size() int

	// Usage returns the usage mask the buffer was allocated with.
	//
	// Returns:
	//   - driver.BufferUsage: the usage mask
	Usage() driver.BufferUsage

	// BlockTag returns the uniform block layout tag, or 0 when the buffer
	// is not uniform-tagged.
	//
	// Returns:
	//   - uint64: the structural tag
	BlockTag() uint64

	// VertexTag returns the vertex layout tag, or 0 when the buffer is not
	// vertex-tagged.
	//
	// Returns:
	//   - uint64: the structural tag
	VertexTag() uint64

	// IndexFormat returns the index element format for index buffers.
	//
	// Returns:
	//   - driver.IndexFormat: the element format
	IndexFormat() driver.IndexFormat

	// Upload copies data into the buffer at the given byte offset.
	//
	// Parameters:
	//   - offset: destination byte offset
	//   - data: bytes to copy
	//
	// Returns:
	//   - error: if the write would exceed the buffer's size
	Upload(offset int, data []byte) error

	// Download copies buffer contents into dst. Only meaningful for
	// readback-capable buffers after a covering fence has signaled.
	//
	// Parameters:
	//   - offset: source byte offset
	//   - dst: destination slice
	//
	// Returns:
	//   - error: driver.ErrUnsupported or a range error
	Download(offset int, dst []byte) error
}

var _ Buffer = &buffer{}

// NewUniformBuffer allocates a buffer sized and tagged for the given block
// layout, for binding to the uniform block slot the layout satisfies.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - l: the block layout the buffer backs
//
// Returns:
//   - Buffer: the uniform-tagged handle
//   - error: allocation failure
func NewUniformBuffer(dev driver.Device, label string, l layout.Block) (Buffer, error) {
	buf, err := dev.CreateBuffer(l.Size(), driver.UsageUniform)
	if err != nil {
		return nil, err
	}
	return &buffer{label: label, buf: buf, usage: driver.UsageUniform, blockTag: l.Tag()}, nil
}

// NewVertexBuffer allocates a buffer sized and tagged for the given vertex
// layout.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - l: the vertex layout the buffer holds
//   - vertexCount: the number of vertices to size for
//
// Returns:
//   - Buffer: the vertex-tagged handle
//   - error: allocation failure
func NewVertexBuffer(dev driver.Device, label string, l layout.Vertex, vertexCount int) (Buffer, error) {
	buf, err := dev.CreateBuffer(l.Stride()*vertexCount, driver.UsageVertex)
	if err != nil {
		return nil, err
	}
	return &buffer{label: label, buf: buf, usage: driver.UsageVertex, vertexTag: l.Tag()}, nil
}

// NewIndexBuffer allocates a buffer for indexed draws.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - format: the index element format
//   - count: the number of indices to size for
//
// Returns:
//   - Buffer: the index handle
//   - error: allocation failure
func NewIndexBuffer(dev driver.Device, label string, format driver.IndexFormat, count int) (Buffer, error) {
	buf, err := dev.CreateBuffer(format.ByteSize()*count, driver.UsageIndex)
	if err != nil {
		return nil, err
	}
	return &buffer{label: label, buf: buf, usage: driver.UsageIndex, indexFormat: format}, nil
}

// NewCaptureBuffer allocates a readback-capable buffer for transform
// feedback capture. Captured output recorded by a pass must not exceed the
// given byte size.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - size: the capacity in bytes
//
// Returns:
//   - Buffer: the capture handle
//   - error: allocation failure
func NewCaptureBuffer(dev driver.Device, label string, size int) (Buffer, error) {
	buf, err := dev.CreateBuffer(size, driver.UsageCapture|driver.UsageReadback)
	if err != nil {
		return nil, err
	}
	return &buffer{label: label, buf: buf, usage: driver.UsageCapture | driver.UsageReadback}, nil
}

func (b *buffer) Label() string {
	return b.label
}

func (b *buffer) Driver() driver.Buffer {
	return b.buf
}

func (b *buffer) Size() int {
	return b.buf.Size()
}

func (b *buffer) Usage() driver.BufferUsage {
	return b.usage
}

func (b *buffer) BlockTag() uint64 {
	return b.blockTag
}

func (b *buffer) VertexTag() uint64 {
	return b.vertexTag
}

func (b *buffer) IndexFormat() driver.IndexFormat {
	return b.indexFormat
}

func (b *buffer) Upload(offset int, data []byte) error {
	return b.buf.Upload(offset, data)
}

func (b *buffer) Download(offset int, dst []byte) error {
	return b.buf.Download(offset, dst)
}

func (b *buffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
