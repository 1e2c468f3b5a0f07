package render

import "github.com/Carmen-Shannon/glint/resources"

// PassOption defines a functional option for configuring a Pass at Begin.
type PassOption func(*pass)

// WithCapture attaches a capture buffer that receives the per-vertex output
// stream of every draw recorded in the pass. The pipeline must declare a
// capture stride, and the buffer must be large enough for all recorded
// draws; capacity is checked when the pass ends.
//
// Parameters:
//   - buf: the capture buffer to write into
//
// Returns:
//   - PassOption: the option to apply
func WithCapture(buf resources.Buffer) PassOption {
	return func(p *pass) {
		p.capture = buf
	}
}

// WithLabel sets a debug label for the pass, carried through log records.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - PassOption: the option to apply
func WithLabel(label string) PassOption {
	return func(p *pass) {
		p.label = label
	}
}
