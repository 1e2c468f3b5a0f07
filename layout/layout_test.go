package layout

import (
	"testing"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/stretchr/testify/assert"
)

func TestBlockStd140Placement(t *testing.T) {
	tests := []struct {
		name    string
		members []BlockMember
		offsets []int
		size    int
	}{
		{
			name:    "single float",
			members: []BlockMember{Member("factor", driver.Float, 1)},
			offsets: []int{0},
			size:    16,
		},
		{
			name: "vec3 after float pads to 16",
			members: []BlockMember{
				Member("intensity", driver.Float, 1),
				Member("direction", driver.Float, 3),
			},
			offsets: []int{0, 16},
			size:    32,
		},
		{
			name: "vec2 after float pads to 8",
			members: []BlockMember{
				Member("scale", driver.Float, 1),
				Member("offset", driver.Float, 2),
			},
			offsets: []int{0, 8},
			size:    16,
		},
		{
			name: "mat4 occupies four column vectors",
			members: []BlockMember{
				MatrixMember("transform", 4, 4),
				Member("alpha", driver.Float, 1),
			},
			offsets: []int{0, 64},
			size:    80,
		},
		{
			name: "float array strides at 16",
			members: []BlockMember{
				ArrayMember("weights", driver.Float, 1, 4),
				Member("count", driver.Int, 1),
			},
			offsets: []int{0, 64},
			size:    80,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBlock("Test", test.members...)
			members := b.Members()
			assert.Len(t, members, len(test.offsets))
			for i, want := range test.offsets {
				assert.Equal(t, want, members[i].ByteOffset, "member %s", members[i].Name)
			}
			assert.Equal(t, test.size, b.Size())
		})
	}
}

func TestBlockExplicitOffset(t *testing.T) {
	b := NewBlock("Params",
		MemberAt("factor", driver.Float, 1, 4),
	)
	members := b.Members()
	assert.Equal(t, 4, members[0].ByteOffset)
	assert.Equal(t, 16, b.Size())
}

func TestBlockArrayStride(t *testing.T) {
	b := NewBlock("Palette", ArrayMember("colors", driver.Float, 4, 8))
	m := b.Members()[0]
	assert.Equal(t, 16, m.ArrayStride)
	assert.Equal(t, 128, m.ByteSize)
	assert.Equal(t, 128, b.Size())
}

func TestBlockTagEquality(t *testing.T) {
	a := NewBlock("Scale", Member("factor", driver.Float, 1))
	b := NewBlock("Scale", Member("factor", driver.Float, 1))
	assert.Equal(t, a.Tag(), b.Tag())

	// The block name does not participate; only structure does.
	c := NewBlock("Zoom", Member("factor", driver.Float, 1))
	assert.Equal(t, a.Tag(), c.Tag())
}

func TestBlockTagDistinguishesStructure(t *testing.T) {
	base := NewBlock("Scale", Member("factor", driver.Float, 1))

	renamed := NewBlock("Scale", Member("scale", driver.Float, 1))
	assert.NotEqual(t, base.Tag(), renamed.Tag())

	retyped := NewBlock("Scale", Member("factor", driver.Int, 1))
	assert.NotEqual(t, base.Tag(), retyped.Tag())

	moved := NewBlock("Scale", MemberAt("factor", driver.Float, 1, 4))
	assert.NotEqual(t, base.Tag(), moved.Tag())
}

func TestVertexTightPacking(t *testing.T) {
	v := NewVertex(0,
		Attrib("position", driver.Float, 2),
		Attrib("color", driver.Float, 4),
	)
	assert.Equal(t, 24, v.Stride())

	pos, ok := v.Attribute("position")
	assert.True(t, ok)
	assert.Equal(t, 0, pos.Offset)

	col, ok := v.Attribute("color")
	assert.True(t, ok)
	assert.Equal(t, 8, col.Offset)

	_, ok = v.Attribute("normal")
	assert.False(t, ok)
}

func TestVertexExplicitStride(t *testing.T) {
	v := NewVertex(32, Attrib("position", driver.Float, 3))
	assert.Equal(t, 32, v.Stride())
}

func TestVertexTagDistinguishesLayout(t *testing.T) {
	a := NewVertex(0, Attrib("position", driver.Float, 2))
	b := NewVertex(0, Attrib("position", driver.Float, 2))
	assert.Equal(t, a.Tag(), b.Tag())

	wider := NewVertex(0, Attrib("position", driver.Float, 3))
	assert.NotEqual(t, a.Tag(), wider.Tag())

	padded := NewVertex(16, Attrib("position", driver.Float, 2))
	assert.NotEqual(t, a.Tag(), padded.Tag())
}

func TestSamplerDescriptor(t *testing.T) {
	s := NewSampler("diffuse", driver.SamplerCube)
	assert.Equal(t, "diffuse", s.Name())
	assert.Equal(t, driver.SamplerCube, s.Kind())
}
