package wgpudriver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/glint/driver"
)

// wgslTypeInfo describes the shape and std140-compatible layout of a WGSL
// scalar, vector, or matrix type.
type wgslTypeInfo struct {
	baseType   driver.BaseType
	components int
	columns    int
	size       int
	align      int
}

// wgslTypeMap maps WGSL type names (both generic and shorthand spellings) to
// their shape, byte size, and alignment per the WGSL specification.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslTypeMap = map[string]wgslTypeInfo{
	// Scalars
	"f32":  {driver.Float, 1, 1, 4, 4},
	"i32":  {driver.Int, 1, 1, 4, 4},
	"u32":  {driver.UInt, 1, 1, 4, 4},
	"bool": {driver.Bool, 1, 1, 4, 4},

	// Vectors – f32
	"vec2<f32>": {driver.Float, 2, 1, 8, 8},
	"vec2f":     {driver.Float, 2, 1, 8, 8},
	"vec3<f32>": {driver.Float, 3, 1, 12, 16},
	"vec3f":     {driver.Float, 3, 1, 12, 16},
	"vec4<f32>": {driver.Float, 4, 1, 16, 16},
	"vec4f":     {driver.Float, 4, 1, 16, 16},

	// Vectors – i32
	"vec2<i32>": {driver.Int, 2, 1, 8, 8},
	"vec2i":     {driver.Int, 2, 1, 8, 8},
	"vec3<i32>": {driver.Int, 3, 1, 12, 16},
	"vec3i":     {driver.Int, 3, 1, 12, 16},
	"vec4<i32>": {driver.Int, 4, 1, 16, 16},
	"vec4i":     {driver.Int, 4, 1, 16, 16},

	// Vectors – u32
	"vec2<u32>": {driver.UInt, 2, 1, 8, 8},
	"vec2u":     {driver.UInt, 2, 1, 8, 8},
	"vec3<u32>": {driver.UInt, 3, 1, 12, 16},
	"vec3u":     {driver.UInt, 3, 1, 12, 16},
	"vec4<u32>": {driver.UInt, 4, 1, 16, 16},
	"vec4u":     {driver.UInt, 4, 1, 16, 16},

	// Matrices – matCxR<f32>: C columns of vecR<f32>
	"mat2x2<f32>": {driver.Float, 2, 2, 16, 8},
	"mat2x2f":     {driver.Float, 2, 2, 16, 8},
	"mat3x3<f32>": {driver.Float, 3, 3, 48, 16},
	"mat3x3f":     {driver.Float, 3, 3, 48, 16},
	"mat4x4<f32>": {driver.Float, 4, 4, 64, 16},
	"mat4x4f":     {driver.Float, 4, 4, 64, 16},
	"mat2x4<f32>": {driver.Float, 4, 2, 32, 16},
	"mat3x4<f32>": {driver.Float, 4, 3, 48, 16},
	"mat4x2<f32>": {driver.Float, 2, 4, 32, 8},
	"mat4x3<f32>": {driver.Float, 3, 4, 64, 16},
}

// wgslSamplerTextureMap maps WGSL sampled texture types to sampler kinds.
var wgslSamplerTextureMap = map[string]driver.SamplerKind{
	"texture_2d<f32>":       driver.Sampler2D,
	"texture_3d<f32>":       driver.Sampler3D,
	"texture_cube<f32>":     driver.SamplerCube,
	"texture_2d_array<f32>": driver.Sampler2DArray,
	"texture_depth_2d":      driver.Sampler2DShadow,
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable
	// name, and type from declarations like:
	//   @group(0) @binding(0) var<uniform> scale: Scale;
	//   @group(1) @binding(0) var diffuse: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	// arrayTypeRegex captures the element type and length of array<T, N>
	arrayTypeRegex = regexp.MustCompile(`^array<\s*(.+?)\s*,\s*(\d+)\s*>$`)
)

// parsedField is one struct member with its attributes resolved.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is one struct block from the source.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
func roundUpAlign(alignment, value int) int {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// stripComments removes both single-line (//) and block (/* */) comments from
// WGSL source. Block comments may be nested per the WGSL specification.
//
// Parameters:
//   - source: raw WGSL source string
//
// Returns:
//   - string: source with all comments removed
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

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

func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}

// splitAtTopLevelCommas splits a string at commas that are not nested inside
// angle brackets, so array<T, N> fields survive intact.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned source and
// parses their fields including @location and @builtin attributes.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var field parsedField

		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}

		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			loc, err := strconv.Atoi(locMatch[1])
			if err == nil {
				field.location = loc
			}
		} else {
			field.location = -1
		}

		if fm := fieldRegex.FindStringSubmatch(line); fm != nil {
			field.name = fm[1]
			field.typeName = strings.TrimSpace(fm[2])
		} else {
			continue
		}

		fields = append(fields, field)
	}

	return fields
}

// isVertexInputStruct returns true if the struct is a pure vertex input,
// meaning it has at least one @location field and zero @builtin fields.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// structMembers computes the member infos of a struct laid out per WGSL
// struct rules: each field placed at the next aligned offset, total size
// rounded up to the struct's alignment.
//
// Parameters:
//   - ps: the parsed struct
//
// Returns:
//   - []driver.BlockMemberInfo: the members in declaration order
//   - int: the struct's total byte size
//   - error: on unresolvable field types
func structMembers(ps parsedStruct) ([]driver.BlockMemberInfo, int, error) {
	members := make([]driver.BlockMemberInfo, 0, len(ps.fields))
	offset := 0
	maxAlign := 1

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}

		info, arrayLen, err := resolveFieldType(field.typeName)
		if err != nil {
			return nil, 0, fmt.Errorf("wgpudriver: struct %q field %q: %w", ps.name, field.name, err)
		}

		size := info.size
		stride := 0
		if arrayLen > 0 {
			stride = roundUpAlign(info.align, info.size)
			size = arrayLen * stride
		}

		offset = roundUpAlign(info.align, offset)
		members = append(members, driver.BlockMemberInfo{
			Name:        field.name,
			ByteOffset:  offset,
			ByteSize:    size,
			BaseType:    info.baseType,
			Components:  info.components,
			Columns:     info.columns,
			ArrayStride: stride,
		})
		offset += size

		if info.align > maxAlign {
			maxAlign = info.align
		}
	}

	return members, roundUpAlign(maxAlign, offset), nil
}

// resolveFieldType resolves a field's WGSL type to its shape, unwrapping
// fixed-size arrays. Returns the array length, 0 for non-array fields.
func resolveFieldType(typeName string) (wgslTypeInfo, int, error) {
	if match := arrayTypeRegex.FindStringSubmatch(typeName); match != nil {
		info, ok := wgslTypeMap[strings.TrimSpace(match[1])]
		if !ok {
			return wgslTypeInfo{}, 0, fmt.Errorf("unknown array element type %q", match[1])
		}
		n, err := strconv.Atoi(match[2])
		if err != nil {
			return wgslTypeInfo{}, 0, fmt.Errorf("bad array length in %q", typeName)
		}
		return info, n, nil
	}

	info, ok := wgslTypeMap[typeName]
	if !ok {
		return wgslTypeInfo{}, 0, fmt.Errorf("unknown type %q", typeName)
	}
	return info, 0, nil
}

// parseEntryPoint extracts the entry point function name for the given stage.
// Returns an empty string if no matching entry point annotation is found.
func parseEntryPoint(source string, re *regexp.Regexp) string {
	if match := re.FindStringSubmatch(source); match != nil {
		return match[1]
	}
	return ""
}

// reflectWGSL builds the introspection view of a program from its two WGSL
// stage sources. Uniform blocks come from @group(0) var<uniform> declarations
// typed as structs; sampler slots come from @group(1) texture declarations,
// named after the texture variable with the unit derived from its binding
// (textures sit at binding 2*unit, their samplers at 2*unit+1). Vertex
// attributes come from the vertex stage's input struct.
//
// Parameters:
//   - vertexSrc: raw WGSL vertex stage source
//   - fragmentSrc: raw WGSL fragment stage source
//
// Returns:
//   - *driver.Reflection: the program's active-resource interface
//   - error: on unresolvable declarations
func reflectWGSL(vertexSrc, fragmentSrc string) (*driver.Reflection, error) {
	vertClean := stripComments(vertexSrc)
	fragClean := stripComments(fragmentSrc)
	combined := vertClean + "\n" + fragClean

	structs := parseStructBlocks(combined)
	structsByName := make(map[string]parsedStruct, len(structs))
	for _, ps := range structs {
		structsByName[ps.name] = ps
	}

	var reflection driver.Reflection

	for _, ps := range parseStructBlocks(vertClean) {
		if !isVertexInputStruct(ps) {
			continue
		}
		for _, f := range ps.fields {
			info, ok := wgslTypeMap[f.typeName]
			if !ok || info.columns > 1 {
				return nil, fmt.Errorf("wgpudriver: vertex input %q has unsupported type %q", f.name, f.typeName)
			}
			reflection.Attributes = append(reflection.Attributes, driver.AttributeInfo{
				Name:       f.name,
				Location:   f.location,
				BaseType:   info.baseType,
				Components: info.components,
			})
		}
		break
	}

	seenBlocks := make(map[string]bool)
	seenSamplers := make(map[string]bool)
	matches := bindGroupDeclRegex.FindAllStringSubmatch(combined, -1)
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		switch {
		case addressSpace == "uniform":
			if group != blockBindGroup {
				return nil, fmt.Errorf("wgpudriver: uniform %q must live in group %d, found group %d", varName, blockBindGroup, group)
			}
			if seenBlocks[typeName] {
				continue
			}
			ps, ok := structsByName[typeName]
			if !ok {
				return nil, fmt.Errorf("wgpudriver: uniform %q has unknown struct type %q", varName, typeName)
			}
			members, dataSize, err := structMembers(ps)
			if err != nil {
				return nil, err
			}
			seenBlocks[typeName] = true
			reflection.Blocks = append(reflection.Blocks, driver.BlockInfo{
				Name:     typeName,
				Binding:  binding,
				DataSize: dataSize,
				Members:  members,
			})

		case addressSpace == "" && strings.HasPrefix(typeName, "texture_"):
			if group != samplerBindGroup {
				return nil, fmt.Errorf("wgpudriver: texture %q must live in group %d, found group %d", varName, samplerBindGroup, group)
			}
			kind, ok := wgslSamplerTextureMap[typeName]
			if !ok {
				return nil, fmt.Errorf("wgpudriver: texture %q has unsupported type %q", varName, typeName)
			}
			if seenSamplers[varName] {
				continue
			}
			seenSamplers[varName] = true
			reflection.Samplers = append(reflection.Samplers, driver.SamplerInfo{
				Name: varName,
				Unit: binding / 2,
				Kind: kind,
			})

		case addressSpace == "" && strings.HasPrefix(typeName, "sampler"):
			// Sampler states pair with their texture at binding 2*unit+1;
			// the texture declaration carries the slot.

		default:
			return nil, fmt.Errorf("wgpudriver: unsupported resource %q of type %q", varName, typeName)
		}
	}

	return &reflection, nil
}
