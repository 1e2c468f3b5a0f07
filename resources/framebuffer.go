package resources

import "github.com/Carmen-Shannon/glint/driver"

// framebuffer is the implementation of the Framebuffer interface.
type framebuffer struct {
	borrowState

	label string
	fb    driver.Framebuffer
	desc  driver.FramebufferDescriptor
}

// Framebuffer is a device render target handle. Its color format and sample
// count are checked against a pipeline's declared output interface when it
// is attached at pass begin.
type Framebuffer interface {
	Resource

	// Driver returns the underlying device framebuffer.
	//
	// Returns:
	//   - driver.Framebuffer: the device framebuffer
	Driver() driver.Framebuffer

	// ColorFormat returns the color attachment's texel format.
	//
	// Returns:
	//   - driver.TextureFormat: the color format
	ColorFormat() driver.TextureFormat

	// SampleCount returns the target's sample count.
	//
	// Returns:
	//   - int: the sample count (1 for non-multisampled)
	SampleCount() int

	// Width returns the target's width in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the target's height in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int
}

var _ Framebuffer = &framebuffer{}

// NewFramebuffer allocates a render target.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - desc: the framebuffer descriptor
//
// Returns:
//   - Framebuffer: the handle
//   - error: allocation failure
func NewFramebuffer(dev driver.Device, label string, desc driver.FramebufferDescriptor) (Framebuffer, error) {
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}
	fb, err := dev.CreateFramebuffer(desc)
	if err != nil {
		return nil, err
	}
	return &framebuffer{label: label, fb: fb, desc: desc}, nil
}

func (f *framebuffer) Label() string {
	return f.label
}

func (f *framebuffer) Driver() driver.Framebuffer {
	return f.fb
}

func (f *framebuffer) ColorFormat() driver.TextureFormat {
	return f.desc.ColorFormat
}

func (f *framebuffer) SampleCount() int {
	return f.desc.SampleCount
}

func (f *framebuffer) Width() int {
	return f.desc.Width
}

func (f *framebuffer) Height() int {
	return f.desc.Height
}

func (f *framebuffer) Release() {
	if f.fb != nil {
		f.fb.Release()
		f.fb = nil
	}
}
