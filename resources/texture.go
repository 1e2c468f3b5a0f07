package resources

import "github.com/Carmen-Shannon/glint/driver"

// texture is the implementation of the Texture interface.
type texture struct {
	borrowState

	label string
	tex   driver.Texture
	desc  driver.TextureDescriptor
}

// Texture is a device texture handle tagged with the sampler kind it can
// satisfy. Binding a texture to a sampler slot requires its kind to equal
// the slot's contracted kind.
type Texture interface {
	Resource

	// Driver returns the underlying device texture.
	//
	// Returns:
	//   - driver.Texture: the device texture
	Driver() driver.Texture

	// Kind returns the sampler kind this texture satisfies.
	//
	// Returns:
	//   - driver.SamplerKind: the kind tag
	Kind() driver.SamplerKind

	// Format returns the texture's texel format.
	//
	// Returns:
	//   - driver.TextureFormat: the format
	Format() driver.TextureFormat

	// Upload copies pixel data into the given mip level.
	//
	// Parameters:
	//   - mip: the destination mip level
	//   - data: the pixel data
	//
	// Returns:
	//   - error: if the upload fails
	Upload(mip int, data []byte) error
}

var _ Texture = &texture{}

// NewTexture allocates a texture from a full descriptor.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - desc: the texture descriptor
//
// Returns:
//   - Texture: the handle
//   - error: allocation failure
func NewTexture(dev driver.Device, label string, desc driver.TextureDescriptor) (Texture, error) {
	tex, err := dev.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	return &texture{label: label, tex: tex, desc: desc}, nil
}

// NewTexture2D allocates a plain two-dimensional texture satisfying
// sampler2D slots.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - width: the width in texels
//   - height: the height in texels
//   - format: the texel format
//
// Returns:
//   - Texture: the handle
//   - error: allocation failure
func NewTexture2D(dev driver.Device, label string, width, height int, format driver.TextureFormat) (Texture, error) {
	return NewTexture(dev, label, driver.TextureDescriptor{
		Width:  width,
		Height: height,
		Depth:  1,
		Format: format,
		Kind:   driver.Sampler2D,
	})
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Driver() driver.Texture {
	return t.tex
}

func (t *texture) Kind() driver.SamplerKind {
	return t.desc.Kind
}

func (t *texture) Format() driver.TextureFormat {
	return t.desc.Format
}

func (t *texture) Upload(mip int, data []byte) error {
	return t.tex.Upload(mip, data)
}

func (t *texture) Release() {
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
}

// sampler is the implementation of the Sampler interface.
type sampler struct {
	label string
	smp   driver.Sampler
	desc  driver.SamplerDescriptor
}

// Sampler is a device sampling-state handle. Samplers are immutable state
// objects and carry no borrow ledger: concurrent reads are always safe.
type Sampler interface {
	// Label returns the debug label for this sampler.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Driver returns the underlying device sampler.
	//
	// Returns:
	//   - driver.Sampler: the device sampler
	Driver() driver.Sampler

	// Kind returns the sampler kind.
	//
	// Returns:
	//   - driver.SamplerKind: the kind
	Kind() driver.SamplerKind

	// Release frees the underlying device sampler.
	Release()
}

var _ Sampler = &sampler{}

// NewSampler allocates a sampler.
//
// Parameters:
//   - dev: the device to allocate on
//   - label: a debug label
//   - desc: the sampler descriptor
//
// Returns:
//   - Sampler: the handle
//   - error: allocation failure
func NewSampler(dev driver.Device, label string, desc driver.SamplerDescriptor) (Sampler, error) {
	smp, err := dev.CreateSampler(desc)
	if err != nil {
		return nil, err
	}
	return &sampler{label: label, smp: smp, desc: desc}, nil
}

func (s *sampler) Label() string {
	return s.label
}

func (s *sampler) Driver() driver.Sampler {
	return s.smp
}

func (s *sampler) Kind() driver.SamplerKind {
	return s.desc.Kind
}

func (s *sampler) Release() {
	if s.smp != nil {
		s.smp.Release()
		s.smp = nil
	}
}
