package softdriver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/glint/driver"
)

// glslTypeInfo describes the shape of a GLSL scalar, vector, or matrix type.
type glslTypeInfo struct {
	baseType   driver.BaseType
	components int
	columns    int
}

// glslTypeMap maps GLSL type names to their base type, component count, and
// column count.
var glslTypeMap = map[string]glslTypeInfo{
	// Scalars
	"float": {driver.Float, 1, 1},
	"int":   {driver.Int, 1, 1},
	"uint":  {driver.UInt, 1, 1},
	"bool":  {driver.Bool, 1, 1},

	// Vectors – float
	"vec2": {driver.Float, 2, 1},
	"vec3": {driver.Float, 3, 1},
	"vec4": {driver.Float, 4, 1},

	// Vectors – int
	"ivec2": {driver.Int, 2, 1},
	"ivec3": {driver.Int, 3, 1},
	"ivec4": {driver.Int, 4, 1},

	// Vectors – uint
	"uvec2": {driver.UInt, 2, 1},
	"uvec3": {driver.UInt, 3, 1},
	"uvec4": {driver.UInt, 4, 1},

	// Vectors – bool
	"bvec2": {driver.Bool, 2, 1},
	"bvec3": {driver.Bool, 3, 1},
	"bvec4": {driver.Bool, 4, 1},

	// Matrices – matC is square, matCxR is C columns of vecR
	"mat2":   {driver.Float, 2, 2},
	"mat3":   {driver.Float, 3, 3},
	"mat4":   {driver.Float, 4, 4},
	"mat2x2": {driver.Float, 2, 2},
	"mat2x3": {driver.Float, 3, 2},
	"mat2x4": {driver.Float, 4, 2},
	"mat3x2": {driver.Float, 2, 3},
	"mat3x3": {driver.Float, 3, 3},
	"mat3x4": {driver.Float, 4, 3},
	"mat4x2": {driver.Float, 2, 4},
	"mat4x3": {driver.Float, 3, 4},
	"mat4x4": {driver.Float, 4, 4},
}

// glslSamplerMap maps GLSL sampler type names to sampler kinds.
var glslSamplerMap = map[string]driver.SamplerKind{
	"sampler2D":       driver.Sampler2D,
	"sampler3D":       driver.Sampler3D,
	"samplerCube":     driver.SamplerCube,
	"sampler2DArray":  driver.Sampler2DArray,
	"sampler2DShadow": driver.Sampler2DShadow,
}

var (
	// attributeDeclRegex matches vertex input declarations and captures the
	// optional layout qualifier list, the type, and the identifier:
	//   layout(location = 0) in vec2 position;
	attributeDeclRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(([^)]*)\)\s*)?in\s+(?:(?:highp|mediump|lowp)\s+)?(\w+)\s+(\w+)\s*;`)

	// uniformBlockRegex matches uniform block declarations and captures the
	// optional layout qualifier list, the block name, the body, and the
	// optional instance name:
	//   layout(std140, binding = 1) uniform Scale { float factor; };
	uniformBlockRegex = regexp.MustCompile(`(?:layout\s*\(([^)]*)\)\s*)?uniform\s+(\w+)\s*\{([^}]*)\}\s*(\w*)\s*;`)

	// samplerDeclRegex matches sampler uniform declarations:
	//   uniform sampler2D diffuse;
	samplerDeclRegex = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(([^)]*)\)\s*)?uniform\s+(?:(?:highp|mediump|lowp)\s+)?(sampler\w+)\s+(\w+)\s*;`)

	// blockMemberRegex matches one member declaration within a block body,
	// capturing the type, the identifier, and an optional array length.
	blockMemberRegex = regexp.MustCompile(`^\s*(?:(?:highp|mediump|lowp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*$`)

	// locationQualifierRegex captures N from "location = N" in a layout
	// qualifier list.
	locationQualifierRegex = regexp.MustCompile(`location\s*=\s*(\d+)`)

	// bindingQualifierRegex captures N from "binding = N" in a layout
	// qualifier list.
	bindingQualifierRegex = regexp.MustCompile(`binding\s*=\s*(\d+)`)
)

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
//
// Parameters:
//   - alignment: the required alignment (must be a power of two)
//   - value: the value to align
//
// Returns:
//   - int: value rounded up to the next multiple of alignment
func roundUpAlign(alignment, value int) int {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// std140VectorLayout returns the alignment and size of a scalar or vector
// with the given component count under std140 rules.
//
// Parameters:
//   - components: the component count, 1 through 4
//
// Returns:
//   - align: the required alignment in bytes
//   - size: the occupied size in bytes
func std140VectorLayout(components int) (align, size int) {
	switch components {
	case 1:
		return 4, 4
	case 2:
		return 8, 8
	case 3:
		return 16, 12
	default:
		return 16, 16
	}
}

// std140MemberLayout computes the placement of one block member under std140
// rules. Matrices are laid out as arrays of column vectors, and array
// element strides round up to 16 bytes.
//
// Parameters:
//   - info: the member's resolved type shape
//   - arrayLen: the array length, 0 for non-array members
//
// Returns:
//   - align: the required alignment in bytes
//   - size: the total size in bytes, including trailing array padding
//   - stride: the array element stride, 0 for non-array members
func std140MemberLayout(info glslTypeInfo, arrayLen int) (align, size, stride int) {
	vecAlign, vecSize := std140VectorLayout(info.components)

	if info.columns > 1 {
		colStride := roundUpAlign(16, vecSize)
		align = 16
		size = info.columns * colStride
		if arrayLen > 0 {
			stride = size
			size = arrayLen * stride
		}
		return align, size, stride
	}

	if arrayLen > 0 {
		stride = roundUpAlign(16, vecSize)
		return 16, arrayLen * stride, stride
	}
	return vecAlign, vecSize, 0
}

// stripComments removes both single-line (//) and block (/* */) comments
// from GLSL source.
//
// Parameters:
//   - source: raw GLSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from GLSL source so they
// do not interfere with declaration parsing
//
// Parameters:
//   - source: raw GLSL source string
//
// Returns:
//   - string: source with line comments removed
func stripLineComments(source string) string {
	var sb strings.Builder
	lines := strings.SplitSeq(source, "\n")
	for line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments (/* ... */) from GLSL source.
// GLSL block comments do not nest.
//
// Parameters:
//   - source: raw GLSL source string
//
// Returns:
//   - string: source with block comments removed
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	i := 0
	for i < len(source) {
		if i+1 < len(source) && source[i] == '/' && source[i+1] == '*' {
			end := strings.Index(source[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 4
			continue
		}
		sb.WriteByte(source[i])
		i++
	}
	return sb.String()
}

// identifierUses counts whole-word occurrences of an identifier in cleaned
// source. A declaration contributes one occurrence, so a count above one
// means the identifier is read somewhere in the shader body.
//
// Parameters:
//   - source: GLSL source with comments already stripped
//   - name: the identifier to count
//
// Returns:
//   - int: the number of whole-word occurrences
func identifierUses(source, name string) int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return len(re.FindAllStringIndex(source, -1))
}

// parseQualifierIndex extracts an integer layout qualifier (location or
// binding) from a qualifier list. Returns -1 if absent.
func parseQualifierIndex(re *regexp.Regexp, qualifiers string) int {
	match := re.FindStringSubmatch(qualifiers)
	if match == nil {
		return -1
	}
	v, err := strconv.Atoi(match[1])
	if err != nil {
		return -1
	}
	return v
}

// parseAttributes extracts the active vertex attributes from cleaned vertex
// source. Attributes without an explicit location qualifier are assigned the
// lowest free locations in declaration order. Declarations the shader body
// never reads are dropped, matching driver introspection of a linked program.
//
// Parameters:
//   - source: vertex source with comments already stripped
//
// Returns:
//   - []driver.AttributeInfo: the active attributes in declaration order
//   - error: on unsupported attribute types
func parseAttributes(source string) ([]driver.AttributeInfo, error) {
	matches := attributeDeclRegex.FindAllStringSubmatch(source, -1)
	attrs := make([]driver.AttributeInfo, 0, len(matches))
	taken := make(map[int]bool)

	for _, match := range matches {
		typeName := match[2]
		name := match[3]

		info, ok := glslTypeMap[typeName]
		if !ok {
			return nil, fmt.Errorf("softdriver: attribute %q has unknown type %q", name, typeName)
		}
		if info.columns > 1 {
			return nil, fmt.Errorf("softdriver: attribute %q has matrix type %q", name, typeName)
		}
		if identifierUses(source, name) < 2 {
			continue
		}

		location := parseQualifierIndex(locationQualifierRegex, match[1])
		if location >= 0 {
			taken[location] = true
		}
		attrs = append(attrs, driver.AttributeInfo{
			Name:       name,
			Location:   location,
			BaseType:   info.baseType,
			Components: info.components,
		})
	}

	// Assign the lowest free locations to attributes that declared none.
	next := 0
	for i := range attrs {
		if attrs[i].Location >= 0 {
			continue
		}
		for taken[next] {
			next++
		}
		attrs[i].Location = next
		taken[next] = true
	}

	return attrs, nil
}

// parseBlockMembers parses a uniform block body into member infos with
// std140 offsets.
//
// Parameters:
//   - blockName: the enclosing block's name, for error messages
//   - body: the content between { and } of the block declaration
//
// Returns:
//   - []driver.BlockMemberInfo: the members in declaration order
//   - int: the block's total std140 data size
//   - error: on unknown member types
func parseBlockMembers(blockName, body string) ([]driver.BlockMemberInfo, int, error) {
	decls := strings.Split(body, ";")
	members := make([]driver.BlockMemberInfo, 0, len(decls))
	offset := 0

	for _, decl := range decls {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}

		match := blockMemberRegex.FindStringSubmatch(decl)
		if match == nil {
			return nil, 0, fmt.Errorf("softdriver: block %q has unparseable member %q", blockName, decl)
		}
		typeName := match[1]
		name := match[2]

		info, ok := glslTypeMap[typeName]
		if !ok {
			return nil, 0, fmt.Errorf("softdriver: block %q member %q has unknown type %q", blockName, name, typeName)
		}

		arrayLen := 0
		if match[3] != "" {
			arrayLen, _ = strconv.Atoi(match[3])
		}

		align, size, stride := std140MemberLayout(info, arrayLen)
		offset = roundUpAlign(align, offset)
		members = append(members, driver.BlockMemberInfo{
			Name:        name,
			ByteOffset:  offset,
			ByteSize:    size,
			BaseType:    info.baseType,
			Components:  info.components,
			Columns:     info.columns,
			ArrayStride: stride,
		})
		offset += size
	}

	return members, roundUpAlign(16, offset), nil
}

// parseBlocks extracts the active uniform blocks from cleaned source. A block
// is active when the shader body reads at least one of its members (or its
// instance name, for instanced blocks).
//
// Parameters:
//   - source: GLSL source with comments already stripped
//
// Returns:
//   - []driver.BlockInfo: the active blocks in declaration order; Binding is
//     -1 for blocks without an explicit binding qualifier
//   - error: on malformed block bodies
func parseBlocks(source string) ([]driver.BlockInfo, error) {
	matches := uniformBlockRegex.FindAllStringSubmatch(source, -1)
	blocks := make([]driver.BlockInfo, 0, len(matches))

	for _, match := range matches {
		blockName := match[2]
		body := match[3]
		instanceName := match[4]

		members, dataSize, err := parseBlockMembers(blockName, body)
		if err != nil {
			return nil, err
		}

		active := false
		if instanceName != "" {
			active = identifierUses(source, instanceName) > 1
		} else {
			for _, m := range members {
				if identifierUses(source, m.Name) > 1 {
					active = true
					break
				}
			}
		}
		if !active {
			continue
		}

		blocks = append(blocks, driver.BlockInfo{
			Name:     blockName,
			Binding:  parseQualifierIndex(bindingQualifierRegex, match[1]),
			DataSize: dataSize,
			Members:  members,
		})
	}

	return blocks, nil
}

// parseSamplers extracts the active sampler uniforms from cleaned source.
//
// Parameters:
//   - source: GLSL source with comments already stripped
//
// Returns:
//   - []driver.SamplerInfo: the active samplers in declaration order; Unit is
//     -1 for samplers without an explicit binding qualifier
//   - error: on unknown sampler types
func parseSamplers(source string) ([]driver.SamplerInfo, error) {
	matches := samplerDeclRegex.FindAllStringSubmatch(source, -1)
	samplers := make([]driver.SamplerInfo, 0, len(matches))

	for _, match := range matches {
		typeName := match[2]
		name := match[3]

		kind, ok := glslSamplerMap[typeName]
		if !ok {
			return nil, fmt.Errorf("softdriver: sampler %q has unknown type %q", name, typeName)
		}
		if identifierUses(source, name) < 2 {
			continue
		}

		samplers = append(samplers, driver.SamplerInfo{
			Name: name,
			Unit: parseQualifierIndex(bindingQualifierRegex, match[1]),
			Kind: kind,
		})
	}

	return samplers, nil
}

// mergeBlocks combines the active blocks of both stages. A block declared in
// both stages must have an identical definition; the merged set preserves
// vertex-stage order followed by fragment-only blocks.
func mergeBlocks(vertex, fragment []driver.BlockInfo) ([]driver.BlockInfo, error) {
	merged := make([]driver.BlockInfo, 0, len(vertex)+len(fragment))
	byName := make(map[string]int, len(vertex))

	for _, b := range vertex {
		byName[b.Name] = len(merged)
		merged = append(merged, b)
	}
	for _, b := range fragment {
		idx, ok := byName[b.Name]
		if !ok {
			merged = append(merged, b)
			continue
		}
		prev := merged[idx]
		if prev.DataSize != b.DataSize || len(prev.Members) != len(b.Members) {
			return nil, fmt.Errorf("softdriver: block %q declared with mismatched definitions across stages", b.Name)
		}
		for i := range prev.Members {
			if prev.Members[i] != b.Members[i] {
				return nil, fmt.Errorf("softdriver: block %q declared with mismatched definitions across stages", b.Name)
			}
		}
		if prev.Binding < 0 {
			merged[idx].Binding = b.Binding
		}
	}

	return merged, nil
}

// mergeSamplers combines the active samplers of both stages, deduplicating
// by name. A sampler declared in both stages must have the same kind.
func mergeSamplers(vertex, fragment []driver.SamplerInfo) ([]driver.SamplerInfo, error) {
	merged := make([]driver.SamplerInfo, 0, len(vertex)+len(fragment))
	byName := make(map[string]int, len(vertex))

	for _, s := range vertex {
		byName[s.Name] = len(merged)
		merged = append(merged, s)
	}
	for _, s := range fragment {
		idx, ok := byName[s.Name]
		if !ok {
			merged = append(merged, s)
			continue
		}
		if merged[idx].Kind != s.Kind {
			return nil, fmt.Errorf("softdriver: sampler %q declared with mismatched types across stages", s.Name)
		}
		if merged[idx].Unit < 0 {
			merged[idx].Unit = s.Unit
		}
	}

	return merged, nil
}

// reflectSources builds the introspection view of a program from its two
// stage sources: active attributes, merged active blocks with assigned
// bindings, and merged active samplers with assigned units. Blocks and
// samplers without explicit qualifiers receive the lowest free indices in
// declaration order, the way a linker assigns them.
//
// Parameters:
//   - vertexSrc: raw vertex stage source
//   - fragmentSrc: raw fragment stage source
//
// Returns:
//   - *driver.Reflection: the program's active-resource interface
//   - error: on unparseable declarations or cross-stage mismatches
func reflectSources(vertexSrc, fragmentSrc string) (*driver.Reflection, error) {
	vertClean := stripComments(vertexSrc)
	fragClean := stripComments(fragmentSrc)

	attrs, err := parseAttributes(vertClean)
	if err != nil {
		return nil, err
	}

	vertBlocks, err := parseBlocks(vertClean)
	if err != nil {
		return nil, err
	}
	fragBlocks, err := parseBlocks(fragClean)
	if err != nil {
		return nil, err
	}
	blocks, err := mergeBlocks(vertBlocks, fragBlocks)
	if err != nil {
		return nil, err
	}
	assignBlockBindings(blocks)

	vertSamplers, err := parseSamplers(vertClean)
	if err != nil {
		return nil, err
	}
	fragSamplers, err := parseSamplers(fragClean)
	if err != nil {
		return nil, err
	}
	samplers, err := mergeSamplers(vertSamplers, fragSamplers)
	if err != nil {
		return nil, err
	}
	assignSamplerUnits(samplers)

	return &driver.Reflection{
		Attributes: attrs,
		Blocks:     blocks,
		Samplers:   samplers,
	}, nil
}

// assignBlockBindings fills in bindings for blocks that declared none,
// using the lowest free indices in declaration order.
func assignBlockBindings(blocks []driver.BlockInfo) {
	taken := make(map[int]bool, len(blocks))
	for _, b := range blocks {
		if b.Binding >= 0 {
			taken[b.Binding] = true
		}
	}
	next := 0
	for i := range blocks {
		if blocks[i].Binding >= 0 {
			continue
		}
		for taken[next] {
			next++
		}
		blocks[i].Binding = next
		taken[next] = true
	}
}

// assignSamplerUnits fills in texture units for samplers that declared none,
// using the lowest free indices in declaration order.
func assignSamplerUnits(samplers []driver.SamplerInfo) {
	taken := make(map[int]bool, len(samplers))
	for _, s := range samplers {
		if s.Unit >= 0 {
			taken[s.Unit] = true
		}
	}
	next := 0
	for i := range samplers {
		if samplers[i].Unit >= 0 {
			continue
		}
		for taken[next] {
			next++
		}
		samplers[i].Unit = next
		taken[next] = true
	}
}
