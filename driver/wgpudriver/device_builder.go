package wgpudriver

import "github.com/cogentcore/webgpu/wgpu"

// DeviceOption defines a functional option for configuring a device during construction.
type DeviceOption func(*device)

// WithForceFallback restricts adapter selection to the software fallback
// adapter, for environments without GPU access.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - DeviceOption: a function that sets the fallback preference for this device
func WithForceFallback(force bool) DeviceOption {
	return func(d *device) {
		d.forceFallback = force
	}
}

// WithSurface makes adapter selection prefer an adapter compatible with the
// given presentation surface, typically obtained from a window.
//
// Parameters:
//   - desc: the surface descriptor to create the surface from
//
// Returns:
//   - DeviceOption: a function that sets the compatible surface for this device
func WithSurface(desc *wgpu.SurfaceDescriptor) DeviceOption {
	return func(d *device) {
		d.surfaceDesc = desc
	}
}
