package driver

// BaseType is the scalar base type of an attribute, block member, or vertex
// component as reported by program introspection.
type BaseType uint8

const (
	// Float is a 32-bit IEEE float base type.
	Float BaseType = iota

	// Int is a 32-bit signed integer base type.
	Int

	// UInt is a 32-bit unsigned integer base type.
	UInt

	// Bool is a boolean base type. Blocks store booleans in 4 bytes.
	Bool
)

// String returns the GLSL-style name of the base type.
func (t BaseType) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// ByteSize returns the size in bytes of one scalar of this base type as laid
// out in a uniform block or vertex buffer.
func (t BaseType) ByteSize() int {
	return 4
}

// SamplerKind identifies the dimensionality and comparison mode of a sampler
// slot, and the texture shape needed to satisfy it.
type SamplerKind uint8

const (
	// Sampler2D samples a two-dimensional texture.
	Sampler2D SamplerKind = iota

	// Sampler3D samples a three-dimensional texture.
	Sampler3D

	// SamplerCube samples a cube map texture.
	SamplerCube

	// Sampler2DArray samples a layered two-dimensional texture.
	Sampler2DArray

	// Sampler2DShadow samples a two-dimensional depth texture with comparison.
	Sampler2DShadow
)

// String returns the GLSL-style name of the sampler kind.
func (k SamplerKind) String() string {
	switch k {
	case Sampler2D:
		return "sampler2D"
	case Sampler3D:
		return "sampler3D"
	case SamplerCube:
		return "samplerCube"
	case Sampler2DArray:
		return "sampler2DArray"
	case Sampler2DShadow:
		return "sampler2DShadow"
	default:
		return "unknown"
	}
}

// TextureFormat identifies the texel format of a texture or render target.
type TextureFormat uint8

const (
	// FormatNone indicates the absence of an attachment (e.g. no depth buffer).
	FormatNone TextureFormat = iota

	// FormatRGBA8 is 8-bit-per-channel RGBA, unsigned normalized.
	FormatRGBA8

	// FormatBGRA8 is 8-bit-per-channel BGRA, unsigned normalized. Common
	// presentation surface format.
	FormatBGRA8

	// FormatRGBA16Float is 16-bit-per-channel floating point RGBA.
	FormatRGBA16Float

	// FormatRGBA32Float is 32-bit-per-channel floating point RGBA.
	FormatRGBA32Float

	// FormatDepth24Stencil8 is a combined 24-bit depth / 8-bit stencil format.
	FormatDepth24Stencil8

	// FormatDepth32Float is a 32-bit floating point depth format.
	FormatDepth32Float
)

// String returns a short name for the format.
func (f TextureFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatRGBA8:
		return "rgba8"
	case FormatBGRA8:
		return "bgra8"
	case FormatRGBA16Float:
		return "rgba16f"
	case FormatRGBA32Float:
		return "rgba32f"
	case FormatDepth24Stencil8:
		return "depth24stencil8"
	case FormatDepth32Float:
		return "depth32f"
	default:
		return "unknown"
	}
}

// Topology is the primitive assembly mode for draw commands.
type Topology uint8

const (
	// TopologyTriangles assembles independent triangles. This is the default.
	TopologyTriangles Topology = iota

	// TopologyTriangleStrip assembles a connected triangle strip.
	TopologyTriangleStrip

	// TopologyLines assembles independent line segments.
	TopologyLines

	// TopologyLineStrip assembles a connected line strip.
	TopologyLineStrip

	// TopologyPoints assembles independent points.
	TopologyPoints
)

// CullMode controls which triangle faces are discarded during rasterization.
type CullMode uint8

const (
	// CullNone disables face culling.
	CullNone CullMode = iota

	// CullFront discards front-facing triangles.
	CullFront

	// CullBack discards back-facing triangles.
	CullBack
)

// FrontFace is the winding order considered front-facing.
type FrontFace uint8

const (
	// FrontFaceCCW treats counter-clockwise winding as front-facing. Default.
	FrontFaceCCW FrontFace = iota

	// FrontFaceCW treats clockwise winding as front-facing.
	FrontFaceCW
)

// IndexFormat is the element type of an index buffer.
type IndexFormat uint8

const (
	// IndexUint16 indexes vertices with 16-bit unsigned integers.
	IndexUint16 IndexFormat = iota

	// IndexUint32 indexes vertices with 32-bit unsigned integers.
	IndexUint32
)

// ByteSize returns the size in bytes of one index element.
func (f IndexFormat) ByteSize() int {
	if f == IndexUint32 {
		return 4
	}
	return 2
}

// BufferUsage is a bitmask of the ways a buffer may be used by the device.
type BufferUsage uint8

const (
	// UsageUniform allows binding as a uniform block backing store.
	UsageUniform BufferUsage = 1 << iota

	// UsageVertex allows binding as a vertex attribute source.
	UsageVertex

	// UsageIndex allows binding as an index source for indexed draws.
	UsageIndex

	// UsageCapture allows the device to record transform feedback output
	// into the buffer.
	UsageCapture

	// UsageReadback allows Download after device work completes.
	UsageReadback
)

// Filter selects texel filtering for samplers.
type Filter uint8

const (
	// FilterNearest selects nearest-neighbour filtering.
	FilterNearest Filter = iota

	// FilterLinear selects linear filtering.
	FilterLinear
)

// Wrap selects texture coordinate wrapping for samplers.
type Wrap uint8

const (
	// WrapClamp clamps coordinates to the texture edge.
	WrapClamp Wrap = iota

	// WrapRepeat repeats the texture.
	WrapRepeat

	// WrapMirror repeats the texture with mirroring.
	WrapMirror
)

// AttributeInfo describes one active vertex attribute reported by program
// introspection.
type AttributeInfo struct {
	// Name is the attribute's identifier in the shader source.
	Name string
	// Location is the attribute's input location. Unique per program.
	Location int
	// BaseType is the component scalar type.
	BaseType BaseType
	// Components is the component count (1 for scalars, 2-4 for vectors).
	Components int
}

// BlockMemberInfo describes one member of an active uniform block with its
// byte-level placement under std140 packing.
type BlockMemberInfo struct {
	// Name is the member's identifier within the block.
	Name string
	// ByteOffset is the member's offset from the start of the block.
	ByteOffset int
	// ByteSize is the member's total size, including array padding.
	ByteSize int
	// BaseType is the member's scalar base type.
	BaseType BaseType
	// Components is the component count per column (1 scalar, 2-4 vector).
	Components int
	// Columns is the column count; 1 for non-matrix members.
	Columns int
	// ArrayStride is the byte stride between array elements, 0 for
	// non-array members.
	ArrayStride int
}

// BlockInfo describes one active uniform block reported by program
// introspection.
type BlockInfo struct {
	// Name is the block's identifier in the shader source.
	Name string
	// Binding is the block's buffer binding index. Unique per program.
	Binding int
	// DataSize is the total byte size of the block under std140 packing.
	DataSize int
	// Members are the block's active members in declaration order.
	Members []BlockMemberInfo
}

// SamplerInfo describes one active sampler reported by program introspection.
type SamplerInfo struct {
	// Name is the sampler's identifier in the shader source.
	Name string
	// Unit is the texture unit assigned to the sampler. Unique per program.
	Unit int
	// Kind is the sampler's dimensionality and comparison mode.
	Kind SamplerKind
}

// Reflection is the complete active-resource interface of a linked program:
// ordered attribute, uniform block, and sampler slot sets. Only slots the
// shader actively reads appear; declarations optimized away by the compiler
// are absent.
type Reflection struct {
	Attributes []AttributeInfo
	Blocks     []BlockInfo
	Samplers   []SamplerInfo
}

// TextureDescriptor describes a texture allocation.
type TextureDescriptor struct {
	Width  int
	Height int
	// Depth is the depth or layer count; 1 for plain 2D textures.
	Depth  int
	Format TextureFormat
	// Kind is the sampler kind this texture can satisfy.
	Kind SamplerKind
	// MipLevels is the mip chain length; 0 or 1 means no mipmapping.
	MipLevels int
}

// SamplerDescriptor describes a sampler allocation.
type SamplerDescriptor struct {
	Kind      SamplerKind
	MinFilter Filter
	MagFilter Filter
	WrapU     Wrap
	WrapV     Wrap
}

// FramebufferDescriptor describes a render target allocation.
type FramebufferDescriptor struct {
	Width       int
	Height      int
	ColorFormat TextureFormat
	// DepthFormat is FormatNone when the target has no depth attachment.
	DepthFormat TextureFormat
	// SampleCount is 1 for non-multisampled targets.
	SampleCount int
}
