// Package driver defines the boundary between glint and the underlying GPU
// API: the primitives a device must supply (program linking and
// introspection, resource allocation and upload, batch submission, fences)
// and the command vocabulary glint records into submitted batches.
//
// Implementations live in sub-packages: softdriver (in-memory reference
// device) and wgpudriver (WebGPU-backed device).
package driver

import "errors"

var (
	// ErrDeviceLost indicates the device can no longer execute work
	// (context loss, out-of-memory). Not retried internally; all in-flight
	// fences signal with this error.
	ErrDeviceLost = errors.New("driver: device lost")

	// ErrUnsupported indicates the device does not implement the requested
	// operation (e.g. transform feedback capture on WebGPU).
	ErrUnsupported = errors.New("driver: operation not supported")
)

// Program is an opaque compiled and linked shader program owned by a Device.
type Program interface {
	// Reflect queries the driver for the program's active-resource
	// interface. Expensive; callers cache the result (package shader runs
	// it at most once per program).
	//
	// Returns:
	//   - *Reflection: the active attribute, block, and sampler slots
	//   - error: if the program is not successfully linked or queryable
	Reflect() (*Reflection, error)

	// Release frees the program's device resources.
	Release()
}

// Buffer is a device-owned linear memory allocation.
type Buffer interface {
	// Upload copies data into the buffer at the given byte offset.
	//
	// Parameters:
	//   - offset: destination byte offset within the buffer
	//   - data: bytes to copy
	//
	// Returns:
	//   - error: if the write would exceed the buffer's size
	Upload(offset int, data []byte) error

	// Download copies buffer contents into dst starting at the given byte
	// offset. Only valid for buffers created with UsageReadback, and only
	// meaningful after a Fence covering the producing work has signaled.
	//
	// Parameters:
	//   - offset: source byte offset within the buffer
	//   - dst: destination slice; len(dst) bytes are copied
	//
	// Returns:
	//   - error: ErrUnsupported if the device or usage disallows readback,
	//     or a range error if the read would exceed the buffer's size
	Download(offset int, dst []byte) error

	// Size returns the buffer's allocated byte size.
	Size() int

	// Release frees the buffer's device resources.
	Release()
}

// Texture is a device-owned image allocation.
type Texture interface {
	// Descriptor returns the descriptor the texture was created with.
	Descriptor() TextureDescriptor

	// Upload copies pixel data into the given mip level.
	Upload(mip int, data []byte) error

	// Release frees the texture's device resources.
	Release()
}

// Sampler is a device-owned sampling state object.
type Sampler interface {
	// Descriptor returns the descriptor the sampler was created with.
	Descriptor() SamplerDescriptor

	// Release frees the sampler's device resources.
	Release()
}

// Framebuffer is a device-owned render target.
type Framebuffer interface {
	// Descriptor returns the descriptor the framebuffer was created with.
	Descriptor() FramebufferDescriptor

	// Release frees the framebuffer's device resources.
	Release()
}

// CommandKind discriminates the variants of Command. The command set is
// closed: a batch is a flat sequence of these and nothing else.
type CommandKind uint8

const (
	// CmdBindUniformBuffer binds Buffer to uniform block binding index
	// Binding, covering Offset..Offset+Size bytes.
	CmdBindUniformBuffer CommandKind = iota

	// CmdBindTexture binds Texture and Sampler to texture unit Binding.
	CmdBindTexture

	// CmdBindVertexBuffer binds Buffer as the vertex attribute source.
	CmdBindVertexBuffer

	// CmdBindIndexBuffer binds Buffer as the index source with IndexFormat.
	CmdBindIndexBuffer

	// CmdDraw draws Count vertices starting at First, Instances times.
	CmdDraw

	// CmdDrawIndexed draws Count indices starting at First with BaseVertex
	// added to each index, Instances times.
	CmdDrawIndexed
)

// Command is one recorded GPU operation. A single struct with a Kind
// discriminator keeps batch recording allocation-free: passes append into a
// reusable slice instead of boxing per-command interface values.
type Command struct {
	Kind CommandKind

	// Binding is the uniform block binding index or texture unit,
	// depending on Kind.
	Binding int

	Buffer  Buffer
	Offset  int
	Size    int
	Texture Texture
	Sampler Sampler

	IndexFormat IndexFormat
	First       int
	Count       int
	Instances   int
	BaseVertex  int
}

// VertexAttribute describes one attribute's placement within a vertex
// buffer, as needed by devices that build native pipeline objects.
type VertexAttribute struct {
	Location   int
	BaseType   BaseType
	Components int
	Offset     int
}

// PipelineState is the fixed-function and layout state a device needs to
// build or look up its native pipeline object for a batch.
type PipelineState struct {
	Topology          Topology
	CullMode          CullMode
	FrontFace         FrontFace
	BlendEnabled      bool
	DepthTestEnabled  bool
	DepthWriteEnabled bool

	// ColorFormat and SampleCount describe the expected output target.
	ColorFormat TextureFormat
	SampleCount int

	// VertexStride and VertexAttributes describe the bound vertex buffer's
	// layout.
	VertexStride     int
	VertexAttributes []VertexAttribute

	// CaptureStride is the byte size of one captured vertex when transform
	// feedback is enabled, 0 otherwise.
	CaptureStride int
}

// Batch is a finalized render pass: one program, one optional target, one
// optional capture buffer, and the recorded command sequence. Commands
// within a batch execute in recorded order; batches execute in submission
// order.
type Batch struct {
	Program Program
	State   PipelineState

	// Target is nil for capture-only (non-rasterizing) batches.
	Target Framebuffer

	// Capture receives transform feedback output when non-nil.
	Capture Buffer

	Commands []Command
}

// Device is the set of driver primitives glint consumes. All methods are
// safe for use from the single command-producing goroutine; Submit never
// blocks it.
type Device interface {
	// LinkProgram compiles and links a program from vertex and fragment
	// shader source. The source format is passed through unchanged; the
	// device dictates the language it accepts.
	//
	// Parameters:
	//   - vertexSrc: vertex stage source text
	//   - fragmentSrc: fragment stage source text
	//
	// Returns:
	//   - Program: the linked program
	//   - error: compile or link failure
	LinkProgram(vertexSrc, fragmentSrc string) (Program, error)

	// CreateBuffer allocates a buffer of the given byte size.
	CreateBuffer(size int, usage BufferUsage) (Buffer, error)

	// CreateTexture allocates a texture.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateSampler allocates a sampler.
	CreateSampler(desc SamplerDescriptor) (Sampler, error)

	// CreateFramebuffer allocates a render target.
	CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error)

	// Submit enqueues a finalized batch for asynchronous execution and
	// returns immediately. The returned fence signals when the batch (and
	// all previously submitted work) has completed on the device. Work is
	// not cancellable once submitted; dropping the fence only discards the
	// observer.
	Submit(batch *Batch) *Fence

	// Lost returns a channel closed when the device becomes unusable.
	Lost() <-chan struct{}

	// Release frees the device and all resources created from it.
	Release()
}
