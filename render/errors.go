package render

import (
	"errors"
	"fmt"
)

var (
	// ErrPassEnded is returned when a pass is used after End or Abandon.
	// An ended pass is terminal; a new one must be begun.
	ErrPassEnded = errors.New("render: pass has ended")

	// ErrPassNotEnded is returned when an open pass is submitted.
	ErrPassNotEnded = errors.New("render: pass has not ended")

	// ErrPassAbandoned is returned when an abandoned pass is submitted.
	ErrPassAbandoned = errors.New("render: pass was abandoned")

	// ErrAlreadySubmitted is returned when a pass is submitted twice.
	ErrAlreadySubmitted = errors.New("render: pass already submitted")

	// ErrNoOutput is returned by Begin when a pass has neither a render
	// target nor a capture buffer.
	ErrNoOutput = errors.New("render: pass needs a render target or a capture buffer")

	// ErrNoCaptureDeclared is returned by Begin when a capture buffer is
	// attached but the pipeline declares no capture output.
	ErrNoCaptureDeclared = errors.New("render: pipeline does not declare capture output")
)

// BindingRejectedError is returned by bind calls when the resource's layout
// tag does not match the pipeline's contracted slot. The pass state is
// unchanged: the previous binding for the slot, if any, remains active.
type BindingRejectedError struct {
	// Slot is the slot name the bind targeted.
	Slot string
	// Reason describes why the resource was rejected.
	Reason string
}

func (e *BindingRejectedError) Error() string {
	return fmt.Sprintf("render: binding rejected for slot %q: %s", e.Slot, e.Reason)
}

// IncompleteBindingError is returned by draw calls when a required slot has
// no binding. The draw is not recorded.
type IncompleteBindingError struct {
	// Slot is the first required slot found unbound.
	Slot string
}

func (e *IncompleteBindingError) Error() string {
	return fmt.Sprintf("render: draw with unbound required slot %q", e.Slot)
}

// CaptureOverflowError is returned by End when the recorded draws would
// capture more bytes than the attached capture buffer's capacity.
type CaptureOverflowError struct {
	// Required is the total captured byte size of the recorded draws.
	Required int
	// Capacity is the capture buffer's allocated byte size.
	Capacity int
}

func (e *CaptureOverflowError) Error() string {
	return fmt.Sprintf("render: capture overflow: %d bytes recorded, buffer holds %d", e.Required, e.Capacity)
}

// ResourceBusyError is returned when a bind would create a read/write hazard
// with another open pass holding a borrow on the same resource.
type ResourceBusyError struct {
	// Resource is the contested resource's label.
	Resource string
}

func (e *ResourceBusyError) Error() string {
	return fmt.Sprintf("render: resource %q is borrowed by another open pass", e.Resource)
}

// TargetMismatchError is returned by Begin when the attached render target's
// format or sample count does not match the pipeline's declared output
// interface.
type TargetMismatchError struct {
	// Expected describes the pipeline's declared output interface.
	Expected string
	// Actual describes the attached target.
	Actual string
}

func (e *TargetMismatchError) Error() string {
	return fmt.Sprintf("render: target incompatible with pipeline: want %s, have %s", e.Expected, e.Actual)
}
