package softdriver

import (
	"testing"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reflectVertexSrc = `#version 300 es

layout(location = 0) in vec2 position;
in vec3 color;
in vec4 unused;

uniform Scale {
	float factor;
	vec3 tint;
};

out vec3 vColor;

void main() {
	vColor = color * tint;
	gl_Position = vec4(position * factor, 0.0, 1.0);
}
`

const reflectFragmentSrc = `#version 300 es
precision mediump float;

in vec3 vColor;
out vec4 fragColor;

uniform sampler2D albedo;

void main() {
	fragColor = texture(albedo, vColor.xy) * vec4(vColor, 1.0);
}
`

func TestReflectAttributes(t *testing.T) {
	r, err := reflectSources(reflectVertexSrc, reflectFragmentSrc)
	require.NoError(t, err)
	require.Len(t, r.Attributes, 2)

	assert.Equal(t, "position", r.Attributes[0].Name)
	assert.Equal(t, 0, r.Attributes[0].Location)
	assert.Equal(t, driver.Float, r.Attributes[0].BaseType)
	assert.Equal(t, 2, r.Attributes[0].Components)

	// color declared no location; it receives the lowest free one.
	assert.Equal(t, "color", r.Attributes[1].Name)
	assert.Equal(t, 1, r.Attributes[1].Location)
	assert.Equal(t, 3, r.Attributes[1].Components)
}

func TestReflectDropsUnreadAttribute(t *testing.T) {
	r, err := reflectSources(reflectVertexSrc, reflectFragmentSrc)
	require.NoError(t, err)
	for _, a := range r.Attributes {
		assert.NotEqual(t, "unused", a.Name)
	}
}

func TestReflectBlockLayout(t *testing.T) {
	r, err := reflectSources(reflectVertexSrc, reflectFragmentSrc)
	require.NoError(t, err)
	require.Len(t, r.Blocks, 1)

	b := r.Blocks[0]
	assert.Equal(t, "Scale", b.Name)
	assert.Equal(t, 0, b.Binding)
	assert.Equal(t, 32, b.DataSize)
	require.Len(t, b.Members, 2)

	assert.Equal(t, "factor", b.Members[0].Name)
	assert.Equal(t, 0, b.Members[0].ByteOffset)
	assert.Equal(t, 4, b.Members[0].ByteSize)

	// vec3 after float aligns to 16 under std140.
	assert.Equal(t, "tint", b.Members[1].Name)
	assert.Equal(t, 16, b.Members[1].ByteOffset)
	assert.Equal(t, 12, b.Members[1].ByteSize)
}

func TestReflectDropsUnreadBlock(t *testing.T) {
	vertex := `
in vec2 position;
uniform Dead {
	float unusedFactor;
};
void main() {
	gl_Position = vec4(position, 0.0, 1.0);
}
`
	fragment := `
out vec4 fragColor;
void main() { fragColor = vec4(1.0); }
`
	r, err := reflectSources(vertex, fragment)
	require.NoError(t, err)
	assert.Empty(t, r.Blocks)
}

func TestReflectSamplers(t *testing.T) {
	r, err := reflectSources(reflectVertexSrc, reflectFragmentSrc)
	require.NoError(t, err)
	require.Len(t, r.Samplers, 1)
	assert.Equal(t, "albedo", r.Samplers[0].Name)
	assert.Equal(t, 0, r.Samplers[0].Unit)
	assert.Equal(t, driver.Sampler2D, r.Samplers[0].Kind)
}

func TestReflectExplicitBlockBinding(t *testing.T) {
	vertex := `
in vec2 position;
layout(std140, binding = 3) uniform Params {
	vec4 base;
};
void main() {
	gl_Position = base + vec4(position, 0.0, 1.0);
}
`
	fragment := `
out vec4 fragColor;
void main() { fragColor = vec4(1.0); }
`
	r, err := reflectSources(vertex, fragment)
	require.NoError(t, err)
	require.Len(t, r.Blocks, 1)
	assert.Equal(t, 3, r.Blocks[0].Binding)
}

func TestReflectBlockArrayAndMatrix(t *testing.T) {
	vertex := `
in vec2 position;
uniform Anim {
	mat4 bones[2];
	float weights[3];
	mat3 normalMatrix;
};
void main() {
	gl_Position = bones[0] * vec4(position * weights[0], 0.0, 1.0) + vec4(normalMatrix[0], 0.0);
}
`
	fragment := `
out vec4 fragColor;
void main() { fragColor = vec4(1.0); }
`
	r, err := reflectSources(vertex, fragment)
	require.NoError(t, err)
	require.Len(t, r.Blocks, 1)
	members := r.Blocks[0].Members
	require.Len(t, members, 3)

	// mat4[2]: 64-byte elements, stride 64.
	assert.Equal(t, 0, members[0].ByteOffset)
	assert.Equal(t, 128, members[0].ByteSize)
	assert.Equal(t, 64, members[0].ArrayStride)

	// float[3]: elements stride to 16.
	assert.Equal(t, 128, members[1].ByteOffset)
	assert.Equal(t, 48, members[1].ByteSize)
	assert.Equal(t, 16, members[1].ArrayStride)

	// mat3: three 16-byte column vectors.
	assert.Equal(t, 176, members[2].ByteOffset)
	assert.Equal(t, 48, members[2].ByteSize)
}

func TestReflectCrossStageBlockMismatch(t *testing.T) {
	vertex := `
in vec2 position;
uniform Shared {
	vec4 base;
};
void main() { gl_Position = base + vec4(position, 0.0, 1.0); }
`
	fragment := `
out vec4 fragColor;
uniform Shared {
	vec2 base;
};
void main() { fragColor = vec4(base, 0.0, 1.0); }
`
	_, err := reflectSources(vertex, fragment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched definitions")
}

func TestReflectUnknownTypeFails(t *testing.T) {
	vertex := `
in vec2 position;
uniform Bad {
	quaternion rotation;
};
void main() { gl_Position = vec4(position * rotation.x, 0.0, 1.0); }
`
	fragment := `
out vec4 fragColor;
void main() { fragColor = vec4(1.0); }
`
	_, err := reflectSources(vertex, fragment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestStripCommentsRemovesBoth(t *testing.T) {
	src := `in vec2 position; // trailing
/* block
spanning lines */ uniform sampler2D tex;
`
	cleaned := stripComments(src)
	assert.NotContains(t, cleaned, "trailing")
	assert.NotContains(t, cleaned, "spanning")
	assert.Contains(t, cleaned, "uniform sampler2D tex;")
}
