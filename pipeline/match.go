package pipeline

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/layout"
	"github.com/Carmen-Shannon/glint/shader"
)

// buildContract is the pipeline-build matching algorithm: a pure function
// over the immutable reflected interface and the immutable descriptor set.
// Every slot in the interface is required (inactive declarations never
// appear in it); each must be satisfied by exactly one structurally equal
// descriptor. Extra descriptors that target no slot are ignored.
func buildContract(iface *shader.Interface, vertex *layout.Vertex, blocks []layout.Block, samplers []layout.Sampler) (*Contract, error) {
	c := &Contract{}

	if attrs := iface.Attributes(); len(attrs) > 0 {
		if vertex == nil {
			return nil, &MismatchError{
				Kind:     MissingBinding,
				Slot:     attrs[0].Name,
				Expected: "a vertex layout supplying attribute " + glslType(attrs[0].BaseType, attrs[0].Components, 1),
			}
		}
		for _, slot := range attrs {
			decl, ok := vertex.Attribute(slot.Name)
			if !ok {
				return nil, &MismatchError{
					Kind:     MissingBinding,
					Slot:     slot.Name,
					Expected: "attribute " + glslType(slot.BaseType, slot.Components, 1),
				}
			}
			if decl.BaseType != slot.BaseType || decl.Components != slot.Components {
				return nil, &MismatchError{
					Kind:     TypeMismatch,
					Slot:     slot.Name,
					Expected: glslType(slot.BaseType, slot.Components, 1),
					Actual:   glslType(decl.BaseType, decl.Components, 1),
				}
			}
		}
		c.vertexRequired = true
		c.vertexTag = vertex.Tag()
		c.vertexStride = vertex.Stride()
	}

	for _, slot := range iface.Blocks() {
		decl, ok := findBlock(blocks, slot.Name)
		if !ok {
			return nil, &MismatchError{
				Kind:     MissingBinding,
				Slot:     slot.Name,
				Expected: fmt.Sprintf("a block layout with %d member(s)", len(slot.Members)),
			}
		}
		if err := compareBlock(slot, decl); err != nil {
			return nil, err
		}
		c.blocks = append(c.blocks, BlockBinding{
			Name:     slot.Name,
			Binding:  slot.Binding,
			Tag:      decl.Tag(),
			DataSize: slot.DataSize,
		})
	}

	for _, slot := range iface.Samplers() {
		decl, ok := findSampler(samplers, slot.Name)
		if !ok {
			return nil, &MismatchError{
				Kind:     MissingBinding,
				Slot:     slot.Name,
				Expected: slot.Kind.String(),
			}
		}
		if decl.Kind() != slot.Kind {
			return nil, &MismatchError{
				Kind:     TypeMismatch,
				Slot:     slot.Name,
				Expected: slot.Kind.String(),
				Actual:   decl.Kind().String(),
			}
		}
		c.samplers = append(c.samplers, SamplerBinding{
			Name: slot.Name,
			Unit: slot.Unit,
			Kind: slot.Kind,
		})
	}

	return c, nil
}

func findBlock(blocks []layout.Block, name string) (layout.Block, bool) {
	for _, b := range blocks {
		if b.Name() == name {
			return b, true
		}
	}
	return layout.Block{}, false
}

func findSampler(samplers []layout.Sampler, name string) (layout.Sampler, bool) {
	for _, s := range samplers {
		if s.Name() == name {
			return s, true
		}
	}
	return layout.Sampler{}, false
}

// compareBlock checks a declared block layout against a reflected block
// slot. Equality is exact on member name, byte offset, byte size, type, and
// array stride: std140 packing is deterministic, so a correct descriptor
// always matches a correctly compiled shader and any difference is a real
// contract violation.
func compareBlock(slot shader.BlockSlot, decl layout.Block) error {
	declared := decl.Members()
	byName := make(map[string]driver.BlockMemberInfo, len(declared))
	for _, m := range declared {
		byName[m.Name] = m
	}

	for _, want := range slot.Members {
		have, ok := byName[want.Name]
		if !ok {
			return &MismatchError{
				Kind:     LayoutMismatch,
				Slot:     slot.Name,
				Expected: memberString(want),
				Actual:   "no member named " + want.Name,
			}
		}
		delete(byName, want.Name)
		if have.ByteOffset != want.ByteOffset ||
			have.ByteSize != want.ByteSize ||
			have.BaseType != want.BaseType ||
			have.Components != want.Components ||
			have.Columns != want.Columns ||
			have.ArrayStride != want.ArrayStride {
			return &MismatchError{
				Kind:     LayoutMismatch,
				Slot:     slot.Name,
				Expected: memberString(want),
				Actual:   memberString(have),
			}
		}
	}

	if len(byName) > 0 {
		extras := make([]string, 0, len(byName))
		for name := range byName {
			extras = append(extras, name)
		}
		return &MismatchError{
			Kind:     LayoutMismatch,
			Slot:     slot.Name,
			Expected: fmt.Sprintf("%d member(s)", len(slot.Members)),
			Actual:   "extra member(s) " + strings.Join(extras, ", "),
		}
	}

	return nil
}

// glslType renders a (base type, components, columns) triple as its GLSL
// type name, for error messages.
func glslType(base driver.BaseType, components, columns int) string {
	if columns > 1 {
		if columns == components {
			return fmt.Sprintf("mat%d", columns)
		}
		return fmt.Sprintf("mat%dx%d", columns, components)
	}
	if components == 1 {
		return base.String()
	}
	switch base {
	case driver.Int:
		return fmt.Sprintf("ivec%d", components)
	case driver.UInt:
		return fmt.Sprintf("uvec%d", components)
	case driver.Bool:
		return fmt.Sprintf("bvec%d", components)
	default:
		return fmt.Sprintf("vec%d", components)
	}
}

func memberString(m driver.BlockMemberInfo) string {
	s := fmt.Sprintf("%s %s @ offset %d, size %d", glslType(m.BaseType, m.Components, m.Columns), m.Name, m.ByteOffset, m.ByteSize)
	if m.ArrayStride > 0 {
		s += fmt.Sprintf(", stride %d", m.ArrayStride)
	}
	return s
}
