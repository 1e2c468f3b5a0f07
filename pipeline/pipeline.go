// Package pipeline matches caller-declared layout descriptors against a
// program's reflected interface and produces a verified Pipeline, or fails
// with a precise mismatch diagnosis. The structural comparison runs once
// here; per-frame binding checks reduce to tag comparisons against the
// resulting contract.
package pipeline

import (
	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/layout"
	"github.com/Carmen-Shannon/glint/shader"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	program  shader.Program
	contract *Contract

	// declared layouts, kept for diagnostics
	vertexLayout   *layout.Vertex
	blockLayouts   []layout.Block
	samplerLayouts []layout.Sampler

	// fixed-function state, set via builder options
	topology          driver.Topology
	cullMode          driver.CullMode
	frontFace         driver.FrontFace
	blendEnabled      bool
	depthTestEnabled  bool
	depthWriteEnabled bool

	// expected output interface, checked against the target at pass begin
	colorFormat driver.TextureFormat
	sampleCount int

	// captureStride is the per-vertex byte size of transform feedback
	// output, 0 when the pipeline does not capture.
	captureStride int
}

// Pipeline is the result of successfully matching layout descriptors against
// a program's reflected interface. It is immutable, long-lived, and reused
// across frames; it owns a reference to the program and the verified binding
// contract, never the resources bound through it.
type Pipeline interface {
	// Program returns the program this pipeline was built for.
	//
	// Returns:
	//   - shader.Program: the linked program
	Program() shader.Program

	// Contract returns the verified binding contract.
	//
	// Returns:
	//   - *Contract: the immutable slot mapping
	Contract() *Contract

	// Topology returns the primitive topology for draw commands.
	//
	// Returns:
	//   - driver.Topology: the configured topology
	Topology() driver.Topology

	// CullMode returns the configured face culling mode.
	//
	// Returns:
	//   - driver.CullMode: the configured cull mode
	CullMode() driver.CullMode

	// FrontFace returns the configured front-face winding order.
	//
	// Returns:
	//   - driver.FrontFace: the configured winding order
	FrontFace() driver.FrontFace

	// BlendEnabled returns whether blending is enabled.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// ColorFormat returns the color attachment format the pipeline expects
	// of its render target.
	//
	// Returns:
	//   - driver.TextureFormat: the expected color format
	ColorFormat() driver.TextureFormat

	// SampleCount returns the sample count the pipeline expects of its
	// render target.
	//
	// Returns:
	//   - int: the expected sample count
	SampleCount() int

	// CaptureStride returns the per-vertex byte size of transform feedback
	// output, or 0 when the pipeline does not capture.
	//
	// Returns:
	//   - int: the capture stride in bytes
	CaptureStride() int

	// State assembles the driver pipeline state for batch submission.
	//
	// Returns:
	//   - driver.PipelineState: fixed-function and layout state
	State() driver.PipelineState
}

var _ Pipeline = &pipeline{}

// New matches the declared layout descriptors against the program's
// reflected interface and returns a verified Pipeline. Every required slot
// (every slot the shader actively reads) must be satisfied by exactly one
// structurally equal descriptor; descriptors that target no slot are ignored
// so one layout can be reused across shader variants.
//
// This check runs once per (program, descriptor set) pair; its cost is
// linear in slot count and amortized over all subsequent frames.
//
// Parameters:
//   - program: the linked program to build against
//   - options: layout descriptors and fixed-function state
//
// Returns:
//   - Pipeline: the verified pipeline
//   - error: a *MismatchError describing the first slot that failed to match
func New(program shader.Program, options ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		program:     program,
		topology:    driver.TopologyTriangles,
		cullMode:    driver.CullNone,
		frontFace:   driver.FrontFaceCCW,
		colorFormat: driver.FormatRGBA8,
		sampleCount: 1,
	}
	for _, option := range options {
		option(p)
	}

	contract, err := buildContract(program.Interface(), p.vertexLayout, p.blockLayouts, p.samplerLayouts)
	if err != nil {
		return nil, err
	}
	p.contract = contract
	return p, nil
}

func (p *pipeline) Program() shader.Program {
	return p.program
}

func (p *pipeline) Contract() *Contract {
	return p.contract
}

func (p *pipeline) Topology() driver.Topology {
	return p.topology
}

func (p *pipeline) CullMode() driver.CullMode {
	return p.cullMode
}

func (p *pipeline) FrontFace() driver.FrontFace {
	return p.frontFace
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) ColorFormat() driver.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) SampleCount() int {
	return p.sampleCount
}

func (p *pipeline) CaptureStride() int {
	return p.captureStride
}

func (p *pipeline) State() driver.PipelineState {
	state := driver.PipelineState{
		Topology:          p.topology,
		CullMode:          p.cullMode,
		FrontFace:         p.frontFace,
		BlendEnabled:      p.blendEnabled,
		DepthTestEnabled:  p.depthTestEnabled,
		DepthWriteEnabled: p.depthWriteEnabled,
		ColorFormat:       p.colorFormat,
		SampleCount:       p.sampleCount,
		CaptureStride:     p.captureStride,
	}
	if p.vertexLayout != nil {
		state.VertexStride = p.vertexLayout.Stride()
		attrs := make([]driver.VertexAttribute, 0, len(p.vertexLayout.Attributes()))
		for _, a := range p.program.Interface().Attributes() {
			la, ok := p.vertexLayout.Attribute(a.Name)
			if !ok {
				continue
			}
			attrs = append(attrs, driver.VertexAttribute{
				Location:   a.Location,
				BaseType:   la.BaseType,
				Components: la.Components,
				Offset:     la.Offset,
			})
		}
		state.VertexAttributes = attrs
	}
	return state
}
