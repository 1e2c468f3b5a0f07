package pipeline

import "fmt"

// MismatchKind discriminates the ways a layout descriptor set can fail to
// satisfy a program's reflected interface.
type MismatchKind uint8

const (
	// MissingBinding means a required slot has no descriptor supplying it.
	MissingBinding MismatchKind = iota

	// LayoutMismatch means a uniform block descriptor's member layout is
	// not structurally equal to the reflected block's layout.
	LayoutMismatch

	// TypeMismatch means an attribute or sampler descriptor's type
	// disagrees with the reflected slot's declared type.
	TypeMismatch
)

// String returns the kind's name.
func (k MismatchKind) String() string {
	switch k {
	case MissingBinding:
		return "missing binding"
	case LayoutMismatch:
		return "layout mismatch"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "unknown mismatch"
	}
}

// MismatchError is returned by New when the supplied descriptors do not
// match the program's reflected interface. Raised once at pipeline-build
// time; recoverable by fixing the descriptor or the shader, never silently
// coerced.
type MismatchError struct {
	// Kind is the mismatch category.
	Kind MismatchKind
	// Slot is the name of the interface slot that failed to match.
	Slot string
	// Expected describes what the reflected interface requires.
	Expected string
	// Actual describes what the descriptor declared; empty for
	// MissingBinding.
	Actual string
}

func (e *MismatchError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("pipeline: %s for slot %q: want %s", e.Kind, e.Slot, e.Expected)
	}
	return fmt.Sprintf("pipeline: %s for slot %q: want %s, have %s", e.Kind, e.Slot, e.Expected, e.Actual)
}
