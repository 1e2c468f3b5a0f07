// Package shader wraps a compiled and linked driver program and exposes its
// active-resource interface as an immutable, queryable slot set. Reflection
// is expensive, so it runs exactly once per program, at link time; the
// resulting Interface is cached for the program's lifetime.
package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/glint/driver"
)

// AttributeSlot is one active vertex attribute in a program's interface.
type AttributeSlot struct {
	// Name is the attribute's identifier in the shader source.
	Name string
	// Location is the attribute's input location, unique per program.
	Location int
	// BaseType is the component scalar type.
	BaseType driver.BaseType
	// Components is the component count (1 scalar, 2-4 vector).
	Components int
}

// BlockSlot is one active uniform block in a program's interface, with its
// byte-level member layout under std140 packing.
type BlockSlot struct {
	// Name is the block's identifier in the shader source.
	Name string
	// Binding is the block's buffer binding index, unique per program.
	Binding int
	// DataSize is the block's total byte size.
	DataSize int
	// Members are the block's members in declaration order.
	Members []driver.BlockMemberInfo
}

// SamplerSlot is one active sampler in a program's interface.
type SamplerSlot struct {
	// Name is the sampler's identifier in the shader source.
	Name string
	// Unit is the texture unit assigned to the sampler, unique per program.
	Unit int
	// Kind is the sampler's dimensionality and comparison mode.
	Kind driver.SamplerKind
}

// Interface is the immutable active-resource interface of a linked program.
// Every slot it lists is actively read by the shader and therefore required
// at pipeline-build time; declarations the compiler optimized away never
// appear here and never demand a descriptor.
type Interface struct {
	attributes []AttributeSlot
	blocks     []BlockSlot
	samplers   []SamplerSlot
}

// Attributes returns the active attribute slots in location order.
func (i *Interface) Attributes() []AttributeSlot {
	return i.attributes
}

// Blocks returns the active uniform block slots in binding order.
func (i *Interface) Blocks() []BlockSlot {
	return i.blocks
}

// Samplers returns the active sampler slots in texture unit order.
func (i *Interface) Samplers() []SamplerSlot {
	return i.samplers
}

// Block returns the uniform block slot with the given name.
//
// Parameters:
//   - name: the block identifier to look up
//
// Returns:
//   - BlockSlot: the slot
//   - bool: false if no active block has that name
func (i *Interface) Block(name string) (BlockSlot, bool) {
	for _, b := range i.blocks {
		if b.Name == name {
			return b, true
		}
	}
	return BlockSlot{}, false
}

// Sampler returns the sampler slot with the given name.
//
// Parameters:
//   - name: the sampler identifier to look up
//
// Returns:
//   - SamplerSlot: the slot
//   - bool: false if no active sampler has that name
func (i *Interface) Sampler(name string) (SamplerSlot, bool) {
	for _, s := range i.samplers {
		if s.Name == name {
			return s, true
		}
	}
	return SamplerSlot{}, false
}

// newInterface converts a driver reflection result into an Interface,
// enforcing the invariant that slot identifiers are unique within their
// category.
func newInterface(r *driver.Reflection) (*Interface, error) {
	iface := &Interface{
		attributes: make([]AttributeSlot, 0, len(r.Attributes)),
		blocks:     make([]BlockSlot, 0, len(r.Blocks)),
		samplers:   make([]SamplerSlot, 0, len(r.Samplers)),
	}

	locations := make(map[int]string, len(r.Attributes))
	for _, a := range r.Attributes {
		if prev, dup := locations[a.Location]; dup {
			return nil, fmt.Errorf("attributes %q and %q share location %d", prev, a.Name, a.Location)
		}
		locations[a.Location] = a.Name
		iface.attributes = append(iface.attributes, AttributeSlot{
			Name:       a.Name,
			Location:   a.Location,
			BaseType:   a.BaseType,
			Components: a.Components,
		})
	}

	bindings := make(map[int]string, len(r.Blocks))
	for _, b := range r.Blocks {
		if prev, dup := bindings[b.Binding]; dup {
			return nil, fmt.Errorf("uniform blocks %q and %q share binding %d", prev, b.Name, b.Binding)
		}
		bindings[b.Binding] = b.Name
		iface.blocks = append(iface.blocks, BlockSlot{
			Name:     b.Name,
			Binding:  b.Binding,
			DataSize: b.DataSize,
			Members:  b.Members,
		})
	}

	units := make(map[int]string, len(r.Samplers))
	for _, s := range r.Samplers {
		if prev, dup := units[s.Unit]; dup {
			return nil, fmt.Errorf("samplers %q and %q share texture unit %d", prev, s.Name, s.Unit)
		}
		units[s.Unit] = s.Name
		iface.samplers = append(iface.samplers, SamplerSlot{
			Name: s.Name,
			Unit: s.Unit,
			Kind: s.Kind,
		})
	}

	return iface, nil
}
