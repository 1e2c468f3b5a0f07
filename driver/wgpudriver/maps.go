package wgpudriver

import (
	"github.com/Carmen-Shannon/glint/driver"
	"github.com/cogentcore/webgpu/wgpu"
)

// blockBindGroup and samplerBindGroup fix the bind group indices the driver
// uses: uniform blocks occupy group 0 at their binding index, and sampler
// slots occupy group 1 with the texture view at binding 2*unit and the
// sampler state at 2*unit+1.
const (
	blockBindGroup   = 0
	samplerBindGroup = 1
)

// textureFormatMap maps driver texture formats to wgpu formats.
var textureFormatMap = map[driver.TextureFormat]wgpu.TextureFormat{
	driver.FormatRGBA8:           wgpu.TextureFormatRGBA8Unorm,
	driver.FormatBGRA8:           wgpu.TextureFormatBGRA8Unorm,
	driver.FormatRGBA16Float:     wgpu.TextureFormatRGBA16Float,
	driver.FormatRGBA32Float:     wgpu.TextureFormatRGBA32Float,
	driver.FormatDepth24Stencil8: wgpu.TextureFormatDepth24PlusStencil8,
	driver.FormatDepth32Float:    wgpu.TextureFormatDepth32Float,
}

// topologyMap maps driver topologies to wgpu primitive topologies.
var topologyMap = map[driver.Topology]wgpu.PrimitiveTopology{
	driver.TopologyTriangles:     wgpu.PrimitiveTopologyTriangleList,
	driver.TopologyTriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
	driver.TopologyLines:         wgpu.PrimitiveTopologyLineList,
	driver.TopologyLineStrip:     wgpu.PrimitiveTopologyLineStrip,
	driver.TopologyPoints:        wgpu.PrimitiveTopologyPointList,
}

// cullModeMap maps driver cull modes to wgpu cull modes.
var cullModeMap = map[driver.CullMode]wgpu.CullMode{
	driver.CullNone:  wgpu.CullModeNone,
	driver.CullFront: wgpu.CullModeFront,
	driver.CullBack:  wgpu.CullModeBack,
}

// frontFaceMap maps driver winding orders to wgpu front faces.
var frontFaceMap = map[driver.FrontFace]wgpu.FrontFace{
	driver.FrontFaceCCW: wgpu.FrontFaceCCW,
	driver.FrontFaceCW:  wgpu.FrontFaceCW,
}

// indexFormatMap maps driver index formats to wgpu index formats.
var indexFormatMap = map[driver.IndexFormat]wgpu.IndexFormat{
	driver.IndexUint16: wgpu.IndexFormatUint16,
	driver.IndexUint32: wgpu.IndexFormatUint32,
}

// viewDimensionMap maps driver sampler kinds to wgpu view dimensions.
var viewDimensionMap = map[driver.SamplerKind]wgpu.TextureViewDimension{
	driver.Sampler2D:       wgpu.TextureViewDimension2D,
	driver.Sampler3D:       wgpu.TextureViewDimension3D,
	driver.SamplerCube:     wgpu.TextureViewDimensionCube,
	driver.Sampler2DArray:  wgpu.TextureViewDimension2DArray,
	driver.Sampler2DShadow: wgpu.TextureViewDimension2D,
}

// textureDimensionMap maps driver sampler kinds to wgpu texture dimensions.
var textureDimensionMap = map[driver.SamplerKind]wgpu.TextureDimension{
	driver.Sampler2D:       wgpu.TextureDimension2D,
	driver.Sampler3D:       wgpu.TextureDimension3D,
	driver.SamplerCube:     wgpu.TextureDimension2D,
	driver.Sampler2DArray:  wgpu.TextureDimension2D,
	driver.Sampler2DShadow: wgpu.TextureDimension2D,
}

// filterMap maps driver filters to wgpu filter modes.
var filterMap = map[driver.Filter]wgpu.FilterMode{
	driver.FilterNearest: wgpu.FilterModeNearest,
	driver.FilterLinear:  wgpu.FilterModeLinear,
}

// wrapMap maps driver wrap modes to wgpu address modes.
var wrapMap = map[driver.Wrap]wgpu.AddressMode{
	driver.WrapClamp:  wgpu.AddressModeClampToEdge,
	driver.WrapRepeat: wgpu.AddressModeRepeat,
	driver.WrapMirror: wgpu.AddressModeMirrorRepeat,
}

// vertexFormatKey identifies a vertex attribute shape for format lookup.
type vertexFormatKey struct {
	baseType   driver.BaseType
	components int
}

// vertexFormatMap maps attribute shapes to wgpu vertex formats.
var vertexFormatMap = map[vertexFormatKey]wgpu.VertexFormat{
	{driver.Float, 1}: wgpu.VertexFormatFloat32,
	{driver.Float, 2}: wgpu.VertexFormatFloat32x2,
	{driver.Float, 3}: wgpu.VertexFormatFloat32x3,
	{driver.Float, 4}: wgpu.VertexFormatFloat32x4,
	{driver.Int, 1}:   wgpu.VertexFormatSint32,
	{driver.Int, 2}:   wgpu.VertexFormatSint32x2,
	{driver.Int, 3}:   wgpu.VertexFormatSint32x3,
	{driver.Int, 4}:   wgpu.VertexFormatSint32x4,
	{driver.UInt, 1}:  wgpu.VertexFormatUint32,
	{driver.UInt, 2}:  wgpu.VertexFormatUint32x2,
	{driver.UInt, 3}:  wgpu.VertexFormatUint32x3,
	{driver.UInt, 4}:  wgpu.VertexFormatUint32x4,
}

// bufferUsageFlags converts driver buffer usage bits to wgpu usage flags.
// CopyDst is always set so uploads work on any buffer.
func bufferUsageFlags(usage driver.BufferUsage) wgpu.BufferUsage {
	flags := wgpu.BufferUsageCopyDst
	if usage&driver.UsageUniform != 0 {
		flags |= wgpu.BufferUsageUniform
	}
	if usage&driver.UsageVertex != 0 {
		flags |= wgpu.BufferUsageVertex
	}
	if usage&driver.UsageIndex != 0 {
		flags |= wgpu.BufferUsageIndex
	}
	if usage&driver.UsageReadback != 0 {
		flags |= wgpu.BufferUsageCopySrc
	}
	return flags
}
