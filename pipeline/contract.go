package pipeline

import "github.com/Carmen-Shannon/glint/driver"

// BlockBinding is one verified uniform block entry in a binding contract:
// the slot it satisfies plus the structural tag a bound buffer must carry.
type BlockBinding struct {
	// Name is the block slot's identifier.
	Name string
	// Binding is the slot's buffer binding index.
	Binding int
	// Tag is the structural layout tag a buffer must match to bind here.
	Tag uint64
	// DataSize is the block's byte size; bound buffers must be at least
	// this large.
	DataSize int
}

// SamplerBinding is one verified sampler entry in a binding contract.
type SamplerBinding struct {
	// Name is the sampler slot's identifier.
	Name string
	// Unit is the slot's texture unit.
	Unit int
	// Kind is the sampler kind a bound texture must satisfy.
	Kind driver.SamplerKind
}

// Contract is the verified mapping from a pipeline's declared descriptors to
// the program slots they satisfy, fixed at build time for the pipeline's
// lifetime. Every required slot has exactly one entry and no two entries
// target the same slot; render passes enforce it with O(1) tag comparisons.
type Contract struct {
	vertexTag      uint64
	vertexStride   int
	vertexRequired bool

	blocks   []BlockBinding
	samplers []SamplerBinding
}

// VertexRequired reports whether the program reads any vertex attributes,
// making a vertex buffer binding mandatory before drawing.
func (c *Contract) VertexRequired() bool {
	return c.vertexRequired
}

// VertexTag returns the structural tag a bound vertex buffer must carry.
// Zero when the pipeline has no vertex input.
func (c *Contract) VertexTag() uint64 {
	return c.vertexTag
}

// VertexStride returns the verified per-vertex byte stride.
func (c *Contract) VertexStride() int {
	return c.vertexStride
}

// Blocks returns the verified uniform block entries in binding order.
func (c *Contract) Blocks() []BlockBinding {
	return c.blocks
}

// Samplers returns the verified sampler entries in unit order.
func (c *Contract) Samplers() []SamplerBinding {
	return c.samplers
}

// Block returns the contract entry for the named block slot.
//
// Parameters:
//   - name: the block slot identifier
//
// Returns:
//   - BlockBinding: the entry
//   - bool: false if the contract has no such slot
func (c *Contract) Block(name string) (BlockBinding, bool) {
	for _, b := range c.blocks {
		if b.Name == name {
			return b, true
		}
	}
	return BlockBinding{}, false
}

// Sampler returns the contract entry for the named sampler slot.
//
// Parameters:
//   - name: the sampler slot identifier
//
// Returns:
//   - SamplerBinding: the entry
//   - bool: false if the contract has no such slot
func (c *Contract) Sampler(name string) (SamplerBinding, bool) {
	for _, s := range c.samplers {
		if s.Name == name {
			return s, true
		}
	}
	return SamplerBinding{}, false
}
