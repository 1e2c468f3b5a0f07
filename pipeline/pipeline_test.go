package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/driver/softdriver"
	"github.com/Carmen-Shannon/glint/layout"
	"github.com/Carmen-Shannon/glint/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSrc = `
in vec2 position;

uniform Scale {
	float factor;
};

void main() {
	gl_Position = vec4(position * factor, 0.0, 1.0);
}
`

const testFragmentSrc = `
out vec4 fragColor;

uniform sampler2D albedo;

void main() {
	fragColor = texture(albedo, vec2(0.5));
}
`

func linkTestProgram(t *testing.T) shader.Program {
	t.Helper()
	dev := softdriver.NewDevice()
	t.Cleanup(dev.Release)

	prog, err := shader.Link(dev, testVertexSrc, testFragmentSrc)
	require.NoError(t, err)
	t.Cleanup(prog.Release)
	return prog
}

func testVertexLayout() layout.Vertex {
	return layout.NewVertex(0, layout.Attrib("position", driver.Float, 2))
}

func testBlockLayout() layout.Block {
	return layout.NewBlock("Scale", layout.Member("factor", driver.Float, 1))
}

func TestNewBuildsContract(t *testing.T) {
	prog := linkTestProgram(t)

	p, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(testBlockLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	require.NoError(t, err)

	c := p.Contract()
	assert.True(t, c.VertexRequired())
	assert.Equal(t, 8, c.VertexStride())
	assert.Equal(t, testVertexLayout().Tag(), c.VertexTag())

	require.Len(t, c.Blocks(), 1)
	b, ok := c.Block("Scale")
	require.True(t, ok)
	assert.Equal(t, 0, b.Binding)
	assert.Equal(t, 16, b.DataSize)
	assert.Equal(t, testBlockLayout().Tag(), b.Tag)

	require.Len(t, c.Samplers(), 1)
	s, ok := c.Sampler("albedo")
	require.True(t, ok)
	assert.Equal(t, 0, s.Unit)
	assert.Equal(t, driver.Sampler2D, s.Kind)
}

func TestNewRequiresVertexLayout(t *testing.T) {
	prog := linkTestProgram(t)

	_, err := New(prog,
		WithBlockLayout(testBlockLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, MissingBinding, me.Kind)
	assert.Equal(t, "position", me.Slot)
}

func TestNewRequiresEveryBlock(t *testing.T) {
	prog := linkTestProgram(t)

	_, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, MissingBinding, me.Kind)
	assert.Equal(t, "Scale", me.Slot)
}

func TestNewRequiresEverySampler(t *testing.T) {
	prog := linkTestProgram(t)

	_, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(testBlockLayout()),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, MissingBinding, me.Kind)
	assert.Equal(t, "albedo", me.Slot)
}

func TestNewRejectsBlockMemberAtWrongOffset(t *testing.T) {
	prog := linkTestProgram(t)

	// Same member, same type, placed at byte 4 instead of byte 0.
	shifted := layout.NewBlock("Scale", layout.MemberAt("factor", driver.Float, 1, 4))

	_, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(shifted),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, LayoutMismatch, me.Kind)
	assert.Equal(t, "Scale", me.Slot)
}

func TestNewRejectsBlockWithExtraMember(t *testing.T) {
	prog := linkTestProgram(t)

	padded := layout.NewBlock("Scale",
		layout.Member("factor", driver.Float, 1),
		layout.Member("padding", driver.Float, 4),
	)

	_, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(padded),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, LayoutMismatch, me.Kind)
}

func TestNewRejectsAttributeTypeMismatch(t *testing.T) {
	prog := linkTestProgram(t)

	wide := layout.NewVertex(0, layout.Attrib("position", driver.Float, 3))

	_, err := New(prog,
		WithVertexLayout(wide),
		WithBlockLayout(testBlockLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, TypeMismatch, me.Kind)
	assert.Equal(t, "position", me.Slot)
}

func TestNewRejectsSamplerKindMismatch(t *testing.T) {
	prog := linkTestProgram(t)

	_, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(testBlockLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.SamplerCube)),
	)
	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, TypeMismatch, me.Kind)
	assert.Equal(t, "albedo", me.Slot)
}

func TestNewIgnoresExtraDescriptors(t *testing.T) {
	prog := linkTestProgram(t)

	_, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(testBlockLayout()),
		WithBlockLayout(layout.NewBlock("Lights", layout.Member("count", driver.Int, 1))),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
		WithSamplerLayout(layout.NewSampler("normalMap", driver.Sampler2D)),
	)
	assert.NoError(t, err)
}

func TestNewDefaults(t *testing.T) {
	prog := linkTestProgram(t)

	p, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(testBlockLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	require.NoError(t, err)

	assert.Equal(t, driver.TopologyTriangles, p.Topology())
	assert.Equal(t, driver.CullNone, p.CullMode())
	assert.Equal(t, driver.FrontFaceCCW, p.FrontFace())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, driver.FormatRGBA8, p.ColorFormat())
	assert.Equal(t, 1, p.SampleCount())
	assert.Zero(t, p.CaptureStride())
}

func TestPipelineState(t *testing.T) {
	prog := linkTestProgram(t)

	p, err := New(prog,
		WithVertexLayout(testVertexLayout()),
		WithBlockLayout(testBlockLayout()),
		WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
		WithTopology(driver.TopologyLines),
		WithCullMode(driver.CullBack),
		WithFrontFace(driver.FrontFaceCW),
		WithBlendEnabled(true),
		WithDepthTestEnabled(true),
		WithDepthWriteEnabled(true),
		WithColorTarget(driver.FormatRGBA16Float, 4),
		WithCaptureStride(12),
	)
	require.NoError(t, err)

	state := p.State()
	assert.Equal(t, driver.TopologyLines, state.Topology)
	assert.Equal(t, driver.CullBack, state.CullMode)
	assert.Equal(t, driver.FrontFaceCW, state.FrontFace)
	assert.True(t, state.BlendEnabled)
	assert.True(t, state.DepthTestEnabled)
	assert.True(t, state.DepthWriteEnabled)
	assert.Equal(t, driver.FormatRGBA16Float, state.ColorFormat)
	assert.Equal(t, 4, state.SampleCount)
	assert.Equal(t, 12, state.CaptureStride)
	assert.Equal(t, 8, state.VertexStride)

	require.Len(t, state.VertexAttributes, 1)
	assert.Equal(t, 0, state.VertexAttributes[0].Location)
	assert.Equal(t, driver.Float, state.VertexAttributes[0].BaseType)
	assert.Equal(t, 2, state.VertexAttributes[0].Components)
	assert.Equal(t, 0, state.VertexAttributes[0].Offset)
}

func TestMismatchErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  MismatchError
		want string
	}{
		{
			name: "missing binding omits actual",
			err:  MismatchError{Kind: MissingBinding, Slot: "Scale", Expected: "a block layout with 1 member(s)"},
			want: `pipeline: missing binding for slot "Scale": want a block layout with 1 member(s)`,
		},
		{
			name: "type mismatch reports both sides",
			err:  MismatchError{Kind: TypeMismatch, Slot: "position", Expected: "vec2", Actual: "vec3"},
			want: `pipeline: type mismatch for slot "position": want vec2, have vec3`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
