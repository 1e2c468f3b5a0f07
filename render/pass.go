// Package render records GPU work against one pipeline and one set of bound
// resources, then submits it for asynchronous execution.
//
// A Pass is a scoped command encoder with two states: Open, accepting binds
// and draws, and Ended, terminal. Binding is validated in O(1) against the
// pipeline's contract (the structural check already ran at pipeline build).
// Ending a pass finalizes its command batch; a Queue submits finalized
// passes in order and returns a one-shot Fence per submission.
package render

import (
	"fmt"

	"github.com/Carmen-Shannon/glint"
	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/pipeline"
	"github.com/Carmen-Shannon/glint/resources"
)

// pass is the implementation of the Pass interface.
type pass struct {
	pl      pipeline.Pipeline
	target  resources.Framebuffer
	capture resources.Buffer
	label   string

	ended     bool
	abandoned bool
	submitted bool
	released  bool

	// bindings run parallel to the contract's block/sampler entries; nil
	// means unbound.
	blockBufs   []resources.Buffer
	texTextures []resources.Texture
	texSamplers []resources.Sampler
	vertexBuf   resources.Buffer
	indexBuf    resources.Buffer

	capturedBytes int
	commands      []driver.Command
	batch         driver.Batch
}

// Pass is a transient, scoped recording of GPU commands against one Pipeline
// and one set of bound resources. It owns exclusive access to its render
// target (and capture buffer) and shared read borrows on everything else for
// its duration; all borrows are returned when the pass ends on any path —
// normal End, Abandon, or an End that fails.
type Pass interface {
	// Bind binds a uniform buffer to the named block slot. Accepted only
	// if the buffer's layout tag equals the contract entry established at
	// pipeline-build time; on rejection the previous binding, if any,
	// remains active. Repeatable while the pass is open.
	//
	// Parameters:
	//   - slot: the block slot name
	//   - buf: the uniform-tagged buffer to bind
	//
	// Returns:
	//   - error: *BindingRejectedError, *ResourceBusyError, or ErrPassEnded
	Bind(slot string, buf resources.Buffer) error

	// BindTexture binds a texture and sampler to the named sampler slot.
	// The texture's kind must equal the slot's contracted kind.
	//
	// Parameters:
	//   - slot: the sampler slot name
	//   - tex: the texture to bind
	//   - smp: the sampler state to bind
	//
	// Returns:
	//   - error: *BindingRejectedError, *ResourceBusyError, or ErrPassEnded
	BindTexture(slot string, tex resources.Texture, smp resources.Sampler) error

	// BindVertices binds the vertex buffer. The buffer's vertex layout tag
	// must equal the contract's vertex tag.
	//
	// Parameters:
	//   - buf: the vertex-tagged buffer to bind
	//
	// Returns:
	//   - error: *BindingRejectedError, *ResourceBusyError, or ErrPassEnded
	BindVertices(buf resources.Buffer) error

	// BindIndices binds the index buffer for indexed draws.
	//
	// Parameters:
	//   - buf: the index buffer to bind
	//
	// Returns:
	//   - error: *BindingRejectedError, *ResourceBusyError, or ErrPassEnded
	BindIndices(buf resources.Buffer) error

	// Bound returns the resource currently bound to the named slot.
	// Block slots return the bound Buffer, sampler slots the bound Texture.
	//
	// Parameters:
	//   - slot: the slot name to query
	//
	// Returns:
	//   - resources.Resource: the bound resource
	//   - bool: false if the slot is unbound or unknown
	Bound(slot string) (resources.Resource, bool)

	// Draw records a non-indexed draw. All required slots must be bound.
	//
	// Parameters:
	//   - first: the first vertex index
	//   - count: the vertex count
	//   - instances: the instance count; values below 1 draw one instance
	//
	// Returns:
	//   - error: *IncompleteBindingError or ErrPassEnded
	Draw(first, count, instances int) error

	// DrawIndexed records an indexed draw. All required slots plus an
	// index buffer must be bound.
	//
	// Parameters:
	//   - first: the first index element
	//   - count: the index count
	//   - instances: the instance count; values below 1 draw one instance
	//   - baseVertex: a value added to each index before vertex fetch
	//
	// Returns:
	//   - error: *IncompleteBindingError or ErrPassEnded
	DrawIndexed(first, count, instances, baseVertex int) error

	// End transitions the pass to its terminal state, finalizes the
	// recorded command batch, and returns all borrows. The pass cannot be
	// reused afterwards. Fails with *CaptureOverflowError if recorded
	// draws would capture more bytes than the capture buffer holds; the
	// pass still ends and its borrows are still returned.
	//
	// Returns:
	//   - error: *CaptureOverflowError, or ErrPassEnded on a second call
	End() error

	// Abandon ends the pass without finalizing, discarding recorded
	// commands and returning all borrows. No work reaches the device.
	// Safe to call on any path, including after End.
	Abandon()

	// Ended reports whether the pass has reached its terminal state.
	//
	// Returns:
	//   - bool: true after End or Abandon
	Ended() bool
}

var _ Pass = &pass{}

// Begin opens a pass scoped to one pipeline and one render target. The
// target's color format and sample count must match the pipeline's declared
// output interface exactly. A nil target is allowed for capture-only passes,
// which must attach a capture buffer via WithCapture.
//
// The pass takes an exclusive borrow on the target (and capture buffer) and
// holds it until the pass ends.
//
// Parameters:
//   - pl: the verified pipeline to record against
//   - target: the render target, or nil for capture-only passes
//   - options: pass configuration (capture buffer, label)
//
// Returns:
//   - Pass: the open pass
//   - error: *TargetMismatchError, *ResourceBusyError, ErrNoOutput, or
//     ErrNoCaptureDeclared
func Begin(pl pipeline.Pipeline, target resources.Framebuffer, options ...PassOption) (Pass, error) {
	p := &pass{pl: pl, target: target}
	for _, option := range options {
		option(p)
	}

	if target == nil && p.capture == nil {
		return nil, ErrNoOutput
	}
	if p.capture != nil && pl.CaptureStride() <= 0 {
		return nil, ErrNoCaptureDeclared
	}

	if target != nil {
		if target.ColorFormat() != pl.ColorFormat() || target.SampleCount() != pl.SampleCount() {
			return nil, &TargetMismatchError{
				Expected: fmt.Sprintf("%s x%d", pl.ColorFormat(), pl.SampleCount()),
				Actual:   fmt.Sprintf("%s x%d", target.ColorFormat(), target.SampleCount()),
			}
		}
		if !target.AcquireWrite() {
			return nil, &ResourceBusyError{Resource: target.Label()}
		}
	}
	if p.capture != nil {
		if !p.capture.AcquireWrite() {
			if target != nil {
				target.ReleaseWrite()
			}
			return nil, &ResourceBusyError{Resource: p.capture.Label()}
		}
	}

	contract := pl.Contract()
	p.blockBufs = make([]resources.Buffer, len(contract.Blocks()))
	p.texTextures = make([]resources.Texture, len(contract.Samplers()))
	p.texSamplers = make([]resources.Sampler, len(contract.Samplers()))
	p.commands = make([]driver.Command, 0, 16)

	glint.Logger().Debug("render: pass begun", "label", p.label, "target", targetLabel(target), "capture", p.capture != nil)
	return p, nil
}

func targetLabel(target resources.Framebuffer) string {
	if target == nil {
		return "none"
	}
	return target.Label()
}

func (p *pass) Bind(slot string, buf resources.Buffer) error {
	if p.ended {
		return ErrPassEnded
	}
	contract := p.pl.Contract()
	entry, ok := contract.Block(slot)
	if !ok {
		return &BindingRejectedError{Slot: slot, Reason: "pipeline contract has no such block slot"}
	}
	if buf.BlockTag() != entry.Tag {
		return &BindingRejectedError{Slot: slot, Reason: "buffer layout tag does not match the contracted block layout"}
	}
	if buf.Size() < entry.DataSize {
		return &BindingRejectedError{Slot: slot, Reason: fmt.Sprintf("buffer holds %d bytes, block needs %d", buf.Size(), entry.DataSize)}
	}
	if !buf.AcquireRead() {
		return &ResourceBusyError{Resource: buf.Label()}
	}

	idx := blockIndex(contract, slot)
	if prev := p.blockBufs[idx]; prev != nil {
		prev.ReleaseRead()
	}
	p.blockBufs[idx] = buf
	p.commands = append(p.commands, driver.Command{
		Kind:    driver.CmdBindUniformBuffer,
		Binding: entry.Binding,
		Buffer:  buf.Driver(),
		Size:    entry.DataSize,
	})
	return nil
}

func (p *pass) BindTexture(slot string, tex resources.Texture, smp resources.Sampler) error {
	if p.ended {
		return ErrPassEnded
	}
	contract := p.pl.Contract()
	entry, ok := contract.Sampler(slot)
	if !ok {
		return &BindingRejectedError{Slot: slot, Reason: "pipeline contract has no such sampler slot"}
	}
	if tex.Kind() != entry.Kind {
		return &BindingRejectedError{Slot: slot, Reason: fmt.Sprintf("texture satisfies %s, slot needs %s", tex.Kind(), entry.Kind)}
	}
	if !tex.AcquireRead() {
		return &ResourceBusyError{Resource: tex.Label()}
	}

	idx := samplerIndex(contract, slot)
	if prev := p.texTextures[idx]; prev != nil {
		prev.ReleaseRead()
	}
	p.texTextures[idx] = tex
	p.texSamplers[idx] = smp
	cmd := driver.Command{
		Kind:    driver.CmdBindTexture,
		Binding: entry.Unit,
		Texture: tex.Driver(),
	}
	if smp != nil {
		cmd.Sampler = smp.Driver()
	}
	p.commands = append(p.commands, cmd)
	return nil
}

func (p *pass) BindVertices(buf resources.Buffer) error {
	if p.ended {
		return ErrPassEnded
	}
	contract := p.pl.Contract()
	if !contract.VertexRequired() {
		return &BindingRejectedError{Slot: "vertices", Reason: "pipeline reads no vertex attributes"}
	}
	if buf.VertexTag() != contract.VertexTag() {
		return &BindingRejectedError{Slot: "vertices", Reason: "buffer layout tag does not match the contracted vertex layout"}
	}
	if !buf.AcquireRead() {
		return &ResourceBusyError{Resource: buf.Label()}
	}

	if p.vertexBuf != nil {
		p.vertexBuf.ReleaseRead()
	}
	p.vertexBuf = buf
	p.commands = append(p.commands, driver.Command{
		Kind:   driver.CmdBindVertexBuffer,
		Buffer: buf.Driver(),
		Size:   contract.VertexStride(),
	})
	return nil
}

func (p *pass) BindIndices(buf resources.Buffer) error {
	if p.ended {
		return ErrPassEnded
	}
	if buf.Usage()&driver.UsageIndex == 0 {
		return &BindingRejectedError{Slot: "indices", Reason: "buffer was not allocated for index use"}
	}
	if !buf.AcquireRead() {
		return &ResourceBusyError{Resource: buf.Label()}
	}

	if p.indexBuf != nil {
		p.indexBuf.ReleaseRead()
	}
	p.indexBuf = buf
	p.commands = append(p.commands, driver.Command{
		Kind:        driver.CmdBindIndexBuffer,
		Buffer:      buf.Driver(),
		IndexFormat: buf.IndexFormat(),
	})
	return nil
}

func (p *pass) Bound(slot string) (resources.Resource, bool) {
	contract := p.pl.Contract()
	if idx := blockIndex(contract, slot); idx >= 0 && p.blockBufs[idx] != nil {
		return p.blockBufs[idx], true
	}
	if idx := samplerIndex(contract, slot); idx >= 0 && p.texTextures[idx] != nil {
		return p.texTextures[idx], true
	}
	return nil, false
}

func (p *pass) Draw(first, count, instances int) error {
	if p.ended {
		return ErrPassEnded
	}
	if err := p.requireComplete(); err != nil {
		return err
	}
	if instances < 1 {
		instances = 1
	}
	p.accountCapture(count, instances)
	p.commands = append(p.commands, driver.Command{
		Kind:      driver.CmdDraw,
		First:     first,
		Count:     count,
		Instances: instances,
	})
	return nil
}

func (p *pass) DrawIndexed(first, count, instances, baseVertex int) error {
	if p.ended {
		return ErrPassEnded
	}
	if p.indexBuf == nil {
		return &IncompleteBindingError{Slot: "indices"}
	}
	if err := p.requireComplete(); err != nil {
		return err
	}
	if instances < 1 {
		instances = 1
	}
	p.accountCapture(count, instances)
	p.commands = append(p.commands, driver.Command{
		Kind:       driver.CmdDrawIndexed,
		First:      first,
		Count:      count,
		Instances:  instances,
		BaseVertex: baseVertex,
	})
	return nil
}

func (p *pass) End() error {
	if p.ended {
		return ErrPassEnded
	}
	p.ended = true
	defer p.releaseBorrows()

	if p.capture != nil && p.capturedBytes > p.capture.Size() {
		p.abandoned = true
		return &CaptureOverflowError{Required: p.capturedBytes, Capacity: p.capture.Size()}
	}

	p.batch = driver.Batch{
		Program:  p.pl.Program().Driver(),
		State:    p.pl.State(),
		Commands: p.commands,
	}
	if p.target != nil {
		p.batch.Target = p.target.Driver()
	}
	if p.capture != nil {
		p.batch.Capture = p.capture.Driver()
	}

	glint.Logger().Debug("render: pass ended", "label", p.label, "commands", len(p.commands))
	return nil
}

func (p *pass) Abandon() {
	if p.ended && p.released {
		return
	}
	p.ended = true
	p.abandoned = true
	p.releaseBorrows()
}

func (p *pass) Ended() bool {
	return p.ended
}

// requireComplete verifies that every required slot has a binding before a
// draw is recorded, so an undefined draw never reaches the device.
func (p *pass) requireComplete() error {
	contract := p.pl.Contract()
	if contract.VertexRequired() && p.vertexBuf == nil {
		return &IncompleteBindingError{Slot: "vertices"}
	}
	for i, b := range contract.Blocks() {
		if p.blockBufs[i] == nil {
			return &IncompleteBindingError{Slot: b.Name}
		}
	}
	for i, s := range contract.Samplers() {
		if p.texTextures[i] == nil {
			return &IncompleteBindingError{Slot: s.Name}
		}
	}
	return nil
}

// accountCapture accumulates the captured output size of a recorded draw;
// the total is checked against the capture buffer's capacity at End.
func (p *pass) accountCapture(count, instances int) {
	if p.capture != nil {
		p.capturedBytes += count * instances * p.pl.CaptureStride()
	}
}

// releaseBorrows returns every borrow the pass holds. Runs exactly once per
// pass, on whichever exit path ends it.
func (p *pass) releaseBorrows() {
	if p.released {
		return
	}
	p.released = true

	if p.target != nil {
		p.target.ReleaseWrite()
	}
	if p.capture != nil {
		p.capture.ReleaseWrite()
	}
	for _, b := range p.blockBufs {
		if b != nil {
			b.ReleaseRead()
		}
	}
	for _, t := range p.texTextures {
		if t != nil {
			t.ReleaseRead()
		}
	}
	if p.vertexBuf != nil {
		p.vertexBuf.ReleaseRead()
	}
	if p.indexBuf != nil {
		p.indexBuf.ReleaseRead()
	}
}

func blockIndex(c *pipeline.Contract, slot string) int {
	for i, b := range c.Blocks() {
		if b.Name == slot {
			return i
		}
	}
	return -1
}

func samplerIndex(c *pipeline.Contract, slot string) int {
	for i, s := range c.Samplers() {
		if s.Name == slot {
			return i
		}
	}
	return -1
}
