// Package layout holds caller-authored structural descriptions of the three
// binding categories a pipeline validates: vertex attribute layouts, uniform
// block memory layouts, and sampler bindings.
//
// Descriptors are immutable values. Each derives a canonical 64-bit FNV tag
// from its structure; two descriptors carry equal tags exactly when they are
// structurally equal, so tag comparison at bind time stands in for the full
// structural walk performed once at pipeline-build time.
package layout

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/Carmen-Shannon/glint/driver"
)

// BlockMember is one declared member of a uniform block layout.
type BlockMember struct {
	// Name is the member's identifier, matched against the reflected block.
	Name string
	// BaseType is the member's scalar base type.
	BaseType driver.BaseType
	// Components is the component count per column (1 scalar, 2-4 vector).
	Components int
	// Columns is the column count; 1 for non-matrix members.
	Columns int
	// ArrayLen is the array element count; 0 for non-array members.
	ArrayLen int
	// Offset is the member's byte offset. A negative value requests
	// automatic std140 placement during NewBlock.
	Offset int
}

// Member declares a scalar or vector block member with automatic std140
// placement.
//
// Parameters:
//   - name: the member's identifier
//   - base: the scalar base type
//   - components: 1 for scalars, 2-4 for vectors
//
// Returns:
//   - BlockMember: the declared member
func Member(name string, base driver.BaseType, components int) BlockMember {
	return BlockMember{Name: name, BaseType: base, Components: components, Columns: 1, Offset: -1}
}

// MemberAt declares a scalar or vector block member at an explicit byte
// offset, bypassing std140 placement. The pipeline builder validates the
// offset against the reflected block, so a wrong offset fails loudly at
// build time instead of corrupting uniform reads.
//
// Parameters:
//   - name: the member's identifier
//   - base: the scalar base type
//   - components: 1 for scalars, 2-4 for vectors
//   - offset: the member's byte offset within the block
//
// Returns:
//   - BlockMember: the declared member
func MemberAt(name string, base driver.BaseType, components, offset int) BlockMember {
	return BlockMember{Name: name, BaseType: base, Components: components, Columns: 1, Offset: offset}
}

// MatrixMember declares a column-major matrix block member with automatic
// std140 placement.
//
// Parameters:
//   - name: the member's identifier
//   - columns: the column count (2-4)
//   - rows: the row count (2-4)
//
// Returns:
//   - BlockMember: the declared member
func MatrixMember(name string, columns, rows int) BlockMember {
	return BlockMember{Name: name, BaseType: driver.Float, Components: rows, Columns: columns, Offset: -1}
}

// ArrayMember declares an array block member with automatic std140
// placement. Element stride follows std140 array rules (rounded up to 16
// bytes).
//
// Parameters:
//   - name: the member's identifier
//   - base: the scalar base type of each element
//   - components: component count per element
//   - count: the array length
//
// Returns:
//   - BlockMember: the declared member
func ArrayMember(name string, base driver.BaseType, components, count int) BlockMember {
	return BlockMember{Name: name, BaseType: base, Components: components, Columns: 1, ArrayLen: count, Offset: -1}
}

// Block is an immutable uniform block layout descriptor: the caller's
// declaration of a block's member placement, validated once against the
// reflected block at pipeline-build time.
type Block struct {
	name    string
	members []resolvedMember
	size    int
	tag     uint64
}

// resolvedMember is a BlockMember with its computed placement.
type resolvedMember struct {
	BlockMember
	size   int
	stride int
}

// NewBlock builds a block layout descriptor. Members with a negative Offset
// are placed under std140 rules in declaration order; members with explicit
// offsets keep them. The block's total size rounds up to a 16-byte boundary.
//
// Parameters:
//   - name: the block's identifier, matched against the reflected interface
//   - members: the block's members in declaration order
//
// Returns:
//   - Block: the immutable descriptor
func NewBlock(name string, members ...BlockMember) Block {
	resolved := make([]resolvedMember, 0, len(members))
	cursor := 0
	for _, m := range members {
		if m.Columns == 0 {
			m.Columns = 1
		}
		align, size, stride := std140MemberLayout(m.Components, m.Columns, m.ArrayLen)
		auto := roundUpAlign(align, cursor)
		if m.Offset < 0 {
			m.Offset = auto
		}
		cursor = m.Offset + size
		resolved = append(resolved, resolvedMember{BlockMember: m, size: size, stride: stride})
	}

	b := Block{
		name:    name,
		members: resolved,
		size:    roundUpAlign(16, cursor),
	}
	b.tag = b.computeTag()
	return b
}

// Name returns the block identifier this descriptor targets.
func (b Block) Name() string {
	return b.name
}

// Size returns the block's total byte size.
func (b Block) Size() int {
	return b.size
}

// Members returns the block's members with resolved placement, in
// declaration order, in the driver's introspection form so they can be
// compared directly against a reflected block.
//
// Returns:
//   - []driver.BlockMemberInfo: resolved members with offsets and sizes
func (b Block) Members() []driver.BlockMemberInfo {
	out := make([]driver.BlockMemberInfo, len(b.members))
	for i, m := range b.members {
		out[i] = driver.BlockMemberInfo{
			Name:        m.Name,
			ByteOffset:  m.Offset,
			ByteSize:    m.size,
			BaseType:    m.BaseType,
			Components:  m.Components,
			Columns:     m.Columns,
			ArrayStride: m.stride,
		}
	}
	return out
}

// Tag returns the canonical structural tag. Two Blocks carry equal tags
// exactly when their resolved member layouts are structurally equal; the
// block name does not participate.
//
// Returns:
//   - uint64: the FNV-64a structural tag
func (b Block) Tag() uint64 {
	return b.tag
}

func (b Block) computeTag() uint64 {
	h := newTagHasher()
	h.int(b.size)
	for _, m := range b.members {
		h.str(m.Name)
		h.int(m.Offset)
		h.int(m.size)
		h.int(int(m.BaseType))
		h.int(m.Components)
		h.int(m.Columns)
		h.int(m.stride)
	}
	return h.sum()
}

// VertexAttribute is one declared attribute within a vertex buffer layout.
type VertexAttribute struct {
	// Name is the attribute's identifier, matched against the reflected
	// interface.
	Name string
	// BaseType is the component scalar type.
	BaseType driver.BaseType
	// Components is the component count (1-4).
	Components int
	// Offset is the attribute's byte offset within one vertex. A negative
	// value requests tight sequential packing during NewVertex.
	Offset int
}

// Attrib declares a vertex attribute with tight sequential packing.
//
// Parameters:
//   - name: the attribute's identifier
//   - base: the component scalar type
//   - components: the component count (1-4)
//
// Returns:
//   - VertexAttribute: the declared attribute
func Attrib(name string, base driver.BaseType, components int) VertexAttribute {
	return VertexAttribute{Name: name, BaseType: base, Components: components, Offset: -1}
}

// AttribAt declares a vertex attribute at an explicit byte offset, for
// interleaved layouts that do not pack tightly.
//
// Parameters:
//   - name: the attribute's identifier
//   - base: the component scalar type
//   - components: the component count (1-4)
//   - offset: the attribute's byte offset within one vertex
//
// Returns:
//   - VertexAttribute: the declared attribute
func AttribAt(name string, base driver.BaseType, components, offset int) VertexAttribute {
	return VertexAttribute{Name: name, BaseType: base, Components: components, Offset: offset}
}

// Vertex is an immutable vertex buffer layout descriptor: per-vertex stride
// plus the attribute placements within one vertex.
type Vertex struct {
	stride     int
	attributes []VertexAttribute
	tag        uint64
}

// NewVertex builds a vertex layout descriptor. Attributes with a negative
// Offset are packed tightly in declaration order. A stride of 0 derives the
// stride from the end of the last attribute.
//
// Parameters:
//   - stride: the per-vertex byte stride, or 0 to derive it
//   - attributes: the attributes within one vertex, in declaration order
//
// Returns:
//   - Vertex: the immutable descriptor
func NewVertex(stride int, attributes ...VertexAttribute) Vertex {
	resolved := make([]VertexAttribute, 0, len(attributes))
	cursor := 0
	for _, a := range attributes {
		if a.Offset < 0 {
			a.Offset = cursor
		}
		end := a.Offset + a.Components*a.BaseType.ByteSize()
		if end > cursor {
			cursor = end
		}
		resolved = append(resolved, a)
	}
	if stride == 0 {
		stride = cursor
	}

	v := Vertex{stride: stride, attributes: resolved}
	v.tag = v.computeTag()
	return v
}

// Stride returns the per-vertex byte stride.
func (v Vertex) Stride() int {
	return v.stride
}

// Attributes returns the resolved attributes in declaration order.
func (v Vertex) Attributes() []VertexAttribute {
	return v.attributes
}

// Attribute returns the attribute with the given name.
//
// Parameters:
//   - name: the attribute identifier to look up
//
// Returns:
//   - VertexAttribute: the resolved attribute
//   - bool: false if no attribute has that name
func (v Vertex) Attribute(name string) (VertexAttribute, bool) {
	for _, a := range v.attributes {
		if a.Name == name {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// Tag returns the canonical structural tag for this vertex layout.
func (v Vertex) Tag() uint64 {
	return v.tag
}

func (v Vertex) computeTag() uint64 {
	h := newTagHasher()
	h.int(v.stride)
	for _, a := range v.attributes {
		h.str(a.Name)
		h.int(int(a.BaseType))
		h.int(a.Components)
		h.int(a.Offset)
	}
	return h.sum()
}

// Sampler is an immutable sampler binding descriptor.
type Sampler struct {
	name string
	kind driver.SamplerKind
}

// NewSampler builds a sampler binding descriptor.
//
// Parameters:
//   - name: the sampler's identifier, matched against the reflected interface
//   - kind: the sampler kind the bound texture must satisfy
//
// Returns:
//   - Sampler: the immutable descriptor
func NewSampler(name string, kind driver.SamplerKind) Sampler {
	return Sampler{name: name, kind: kind}
}

// Name returns the sampler identifier this descriptor targets.
func (s Sampler) Name() string {
	return s.name
}

// Kind returns the sampler kind.
func (s Sampler) Kind() driver.SamplerKind {
	return s.kind
}

// tagHasher accumulates descriptor structure into an FNV-64a hash. Field
// values are length- or width-delimited so distinct structures cannot
// collide by concatenation.
type tagHasher struct {
	buf [8]byte
	h   hash.Hash64
}

func newTagHasher() *tagHasher {
	return &tagHasher{h: fnv.New64a()}
}

func (t *tagHasher) int(v int) {
	binary.LittleEndian.PutUint64(t.buf[:], uint64(int64(v)))
	t.h.Write(t.buf[:])
}

func (t *tagHasher) str(s string) {
	t.int(len(s))
	t.h.Write([]byte(s))
}

func (t *tagHasher) sum() uint64 {
	return t.h.Sum64()
}
