// Package resources provides device resource handles — buffers, textures,
// samplers, framebuffers — each carrying a layout tag describing its shape.
// A handle's tag is checked in O(1) against a pipeline's binding contract
// when the handle is bound into a render pass; the expensive structural
// comparison already happened once at pipeline-build time.
//
// Handles are exclusively owned by the caller. Passes take only a scoped
// borrow for their duration; they never assume ownership.
package resources

// Resource is the common surface of all device resource handles.
//
// The Acquire/Release borrow methods are called by package render while
// recording passes; they are not intended for general use.
type Resource interface {
	// Label returns the debug label for this resource.
	// Used for debugging and profiling purposes.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Release frees the underlying device resource. The handle must not be
	// used afterwards, and must not be released while any pass borrows it.
	Release()

	// AcquireRead takes a shared read borrow. Called by render at bind time.
	//
	// Returns:
	//   - bool: false if an exclusive borrow is currently held
	AcquireRead() bool

	// AcquireWrite takes an exclusive borrow. Called by render for render
	// targets and capture buffers.
	//
	// Returns:
	//   - bool: false if any borrow is currently held
	AcquireWrite() bool

	// ReleaseRead returns a shared read borrow. Called by render when a
	// pass ends or is abandoned.
	ReleaseRead()

	// ReleaseWrite returns an exclusive borrow. Called by render when a
	// pass ends or is abandoned.
	ReleaseWrite()
}
