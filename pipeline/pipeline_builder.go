package pipeline

import (
	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/layout"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexLayout declares the vertex buffer layout this pipeline binds.
// Required whenever the program reads any vertex attributes.
//
// Parameters:
//   - l: the vertex layout descriptor
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(l layout.Vertex) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayout = &l
	}
}

// WithBlockLayout declares a uniform block layout this pipeline binds.
// Repeatable; each descriptor targets the reflected block sharing its name.
// Descriptors targeting no reflected block are ignored.
//
// Parameters:
//   - l: the block layout descriptor
//
// Returns:
//   - PipelineBuilderOption: a function that adds the block layout to this pipeline
func WithBlockLayout(l layout.Block) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blockLayouts = append(p.blockLayouts, l)
	}
}

// WithSamplerLayout declares a sampler binding this pipeline uses.
// Repeatable; each descriptor targets the reflected sampler sharing its
// name. Descriptors targeting no reflected sampler are ignored.
//
// Parameters:
//   - l: the sampler layout descriptor
//
// Returns:
//   - PipelineBuilderOption: a function that adds the sampler layout to this pipeline
func WithSamplerLayout(l layout.Sampler) PipelineBuilderOption {
	return func(p *pipeline) {
		p.samplerLayouts = append(p.samplerLayouts, l)
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for draw commands
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology driver.Topology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode driver.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the winding order considered front-facing
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace driver.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithColorTarget declares the output interface this pipeline renders to.
// Render targets attached at pass begin must match both format and sample
// count exactly.
//
// Parameters:
//   - format: the expected color attachment format
//   - sampleCount: the expected sample count (1 for non-multisampled)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the expected output interface for this pipeline
func WithColorTarget(format driver.TextureFormat, sampleCount int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
		p.sampleCount = sampleCount
	}
}

// WithCaptureStride enables transform feedback capture for this pipeline and
// declares the byte size of one captured vertex. Passes built on this
// pipeline may attach a capture buffer at begin; recorded draws must not
// produce more captured bytes than the attached buffer's capacity.
//
// Parameters:
//   - stride: the byte size of one captured vertex's output
//
// Returns:
//   - PipelineBuilderOption: a function that sets the capture stride for this pipeline
func WithCaptureStride(stride int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.captureStride = stride
	}
}
