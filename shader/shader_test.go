package shader

import (
	"testing"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/driver/softdriver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkVertexSrc = `
in vec2 position;

uniform Transform {
	mat4 model;
};

void main() {
	gl_Position = model * vec4(position, 0.0, 1.0);
}
`

const linkFragmentSrc = `
out vec4 fragColor;

uniform sampler2D albedo;

void main() {
	fragColor = texture(albedo, vec2(0.5));
}
`

func TestLinkCachesInterface(t *testing.T) {
	dev := softdriver.NewDevice()
	defer dev.Release()

	prog, err := Link(dev, linkVertexSrc, linkFragmentSrc)
	require.NoError(t, err)
	defer prog.Release()

	iface := prog.Interface()
	require.NotNil(t, iface)
	assert.Same(t, iface, prog.Interface())

	require.Len(t, iface.Attributes(), 1)
	assert.Equal(t, "position", iface.Attributes()[0].Name)

	b, ok := iface.Block("Transform")
	require.True(t, ok)
	assert.Equal(t, 64, b.DataSize)
	require.Len(t, b.Members, 1)
	assert.Equal(t, "model", b.Members[0].Name)

	s, ok := iface.Sampler("albedo")
	require.True(t, ok)
	assert.Equal(t, driver.Sampler2D, s.Kind)

	_, ok = iface.Block("Missing")
	assert.False(t, ok)
	_, ok = iface.Sampler("missing")
	assert.False(t, ok)
}

func TestLinkFailureWrapsDriverError(t *testing.T) {
	dev := softdriver.NewDevice()
	defer dev.Release()

	_, err := Link(dev, "", linkFragmentSrc)
	var lie *LinkIntrospectionError
	require.ErrorAs(t, err, &lie)
	assert.NotNil(t, lie.Err)
	assert.ErrorIs(t, err, lie.Err)
}

func TestLinkRejectsDuplicateLocations(t *testing.T) {
	dev := softdriver.NewDevice()
	defer dev.Release()

	vertex := `
layout(location = 0) in vec2 position;
layout(location = 0) in vec3 color;

void main() {
	gl_Position = vec4(position * color.x, 0.0, 1.0);
}
`
	_, err := Link(dev, vertex, linkFragmentSrc)
	var lie *LinkIntrospectionError
	require.ErrorAs(t, err, &lie)
	assert.Contains(t, err.Error(), "share location")
}

func TestInterfaceSlotsKeepDeclarationOrder(t *testing.T) {
	dev := softdriver.NewDevice()
	defer dev.Release()

	vertex := `
in vec2 position;

uniform A {
	float first;
};
uniform B {
	float second;
};

void main() {
	gl_Position = vec4(position * first * second, 0.0, 1.0);
}
`
	prog, err := Link(dev, vertex, linkFragmentSrc)
	require.NoError(t, err)
	defer prog.Release()

	blocks := prog.Interface().Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "A", blocks[0].Name)
	assert.Equal(t, 0, blocks[0].Binding)
	assert.Equal(t, "B", blocks[1].Name)
	assert.Equal(t, 1, blocks[1].Binding)
}
