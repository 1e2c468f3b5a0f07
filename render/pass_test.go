package render

import (
	"context"
	"testing"
	"time"

	"github.com/Carmen-Shannon/glint/driver"
	"github.com/Carmen-Shannon/glint/driver/softdriver"
	"github.com/Carmen-Shannon/glint/layout"
	"github.com/Carmen-Shannon/glint/pipeline"
	"github.com/Carmen-Shannon/glint/resources"
	"github.com/Carmen-Shannon/glint/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passVertexSrc = `
in vec2 position;

uniform Scale {
	float factor;
};

void main() {
	gl_Position = vec4(position * factor, 0.0, 1.0);
}
`

const passFragmentSrc = `
out vec4 fragColor;

void main() {
	fragColor = vec4(1.0);
}
`

const texturedFragmentSrc = `
out vec4 fragColor;

uniform sampler2D albedo;

void main() {
	fragColor = texture(albedo, vec2(0.5));
}
`

type fixture struct {
	dev   softdriver.Device
	prog  shader.Program
	pl    pipeline.Pipeline
	queue Queue
}

func positionLayout() layout.Vertex {
	return layout.NewVertex(0, layout.Attrib("position", driver.Float, 2))
}

func scaleLayout() layout.Block {
	return layout.NewBlock("Scale", layout.Member("factor", driver.Float, 1))
}

// newFixture links the plain two-slot program and builds a pipeline on it
// with the given extra options.
func newFixture(t *testing.T, options ...pipeline.PipelineBuilderOption) *fixture {
	t.Helper()
	dev := softdriver.NewDevice()
	t.Cleanup(dev.Release)

	prog, err := shader.Link(dev, passVertexSrc, passFragmentSrc)
	require.NoError(t, err)
	t.Cleanup(prog.Release)

	options = append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexLayout(positionLayout()),
		pipeline.WithBlockLayout(scaleLayout()),
	}, options...)
	pl, err := pipeline.New(prog, options...)
	require.NoError(t, err)

	return &fixture{dev: dev, prog: prog, pl: pl, queue: NewQueue(dev)}
}

func (f *fixture) framebuffer(t *testing.T) resources.Framebuffer {
	t.Helper()
	fb, err := resources.NewFramebuffer(f.dev, "target", driver.FramebufferDescriptor{
		Width:       64,
		Height:      64,
		ColorFormat: driver.FormatRGBA8,
	})
	require.NoError(t, err)
	t.Cleanup(fb.Release)
	return fb
}

func (f *fixture) uniformBuffer(t *testing.T) resources.Buffer {
	t.Helper()
	buf, err := resources.NewUniformBuffer(f.dev, "scale", scaleLayout())
	require.NoError(t, err)
	t.Cleanup(buf.Release)
	return buf
}

func (f *fixture) vertexBuffer(t *testing.T) resources.Buffer {
	t.Helper()
	buf, err := resources.NewVertexBuffer(f.dev, "triangle", positionLayout(), 3)
	require.NoError(t, err)
	t.Cleanup(buf.Release)
	return buf
}

func awaitFence(t *testing.T, f *driver.Fence) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := f.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestBeginRequiresAnOutput(t *testing.T) {
	f := newFixture(t)

	_, err := Begin(f.pl, nil)
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestBeginRejectsUndeclaredCapture(t *testing.T) {
	f := newFixture(t)

	capture, err := resources.NewCaptureBuffer(f.dev, "capture", 64)
	require.NoError(t, err)
	defer capture.Release()

	_, err = Begin(f.pl, nil, WithCapture(capture))
	assert.ErrorIs(t, err, ErrNoCaptureDeclared)
}

func TestBeginRejectsMismatchedTarget(t *testing.T) {
	f := newFixture(t)

	fb, err := resources.NewFramebuffer(f.dev, "hdr", driver.FramebufferDescriptor{
		Width:       64,
		Height:      64,
		ColorFormat: driver.FormatRGBA16Float,
	})
	require.NoError(t, err)
	defer fb.Release()

	_, err = Begin(f.pl, fb)
	var tme *TargetMismatchError
	require.ErrorAs(t, err, &tme)
}

func TestBeginTakesExclusiveTargetBorrow(t *testing.T) {
	f := newFixture(t)
	fb := f.framebuffer(t)

	p1, err := Begin(f.pl, fb)
	require.NoError(t, err)

	_, err = Begin(f.pl, fb)
	var rbe *ResourceBusyError
	require.ErrorAs(t, err, &rbe)
	assert.Equal(t, "target", rbe.Resource)

	// Ending the first pass returns the borrow.
	require.NoError(t, p1.End())
	p2, err := Begin(f.pl, fb)
	require.NoError(t, err)
	p2.Abandon()
}

func TestBindChecksLayoutTag(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	// Structurally different layout, same block name.
	other, err := resources.NewUniformBuffer(f.dev, "wrong", layout.NewBlock("Scale",
		layout.Member("factor", driver.Float, 4),
	))
	require.NoError(t, err)
	defer other.Release()

	err = p.Bind("Scale", other)
	var bre *BindingRejectedError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, "Scale", bre.Slot)

	_, bound := p.Bound("Scale")
	assert.False(t, bound)

	ubuf := f.uniformBuffer(t)
	require.NoError(t, p.Bind("Scale", ubuf))
	got, bound := p.Bound("Scale")
	require.True(t, bound)
	assert.Equal(t, resources.Resource(ubuf), got)
}

func TestBindRejectsUnknownSlot(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	err = p.Bind("Lights", f.uniformBuffer(t))
	var bre *BindingRejectedError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, "Lights", bre.Slot)
}

func TestRejectedBindKeepsPreviousBinding(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	ubuf := f.uniformBuffer(t)
	require.NoError(t, p.Bind("Scale", ubuf))

	wrong, err := resources.NewUniformBuffer(f.dev, "wrong", layout.NewBlock("Scale",
		layout.Member("tint", driver.Float, 3),
	))
	require.NoError(t, err)
	defer wrong.Release()

	require.Error(t, p.Bind("Scale", wrong))
	got, bound := p.Bound("Scale")
	require.True(t, bound)
	assert.Equal(t, resources.Resource(ubuf), got)
}

func TestBindVerticesChecksLayoutTag(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	wide, err := resources.NewVertexBuffer(f.dev, "wide",
		layout.NewVertex(0, layout.Attrib("position", driver.Float, 3)), 3)
	require.NoError(t, err)
	defer wide.Release()

	err = p.BindVertices(wide)
	var bre *BindingRejectedError
	require.ErrorAs(t, err, &bre)

	assert.NoError(t, p.BindVertices(f.vertexBuffer(t)))
}

func TestBindIndicesRequiresIndexUsage(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	err = p.BindIndices(f.uniformBuffer(t))
	var bre *BindingRejectedError
	require.ErrorAs(t, err, &bre)

	ibuf, err := resources.NewIndexBuffer(f.dev, "indices", driver.IndexUint16, 3)
	require.NoError(t, err)
	defer ibuf.Release()
	assert.NoError(t, p.BindIndices(ibuf))
}

func TestBindTextureChecksKind(t *testing.T) {
	dev := softdriver.NewDevice()
	t.Cleanup(dev.Release)

	prog, err := shader.Link(dev, passVertexSrc, texturedFragmentSrc)
	require.NoError(t, err)
	t.Cleanup(prog.Release)

	pl, err := pipeline.New(prog,
		pipeline.WithVertexLayout(positionLayout()),
		pipeline.WithBlockLayout(scaleLayout()),
		pipeline.WithSamplerLayout(layout.NewSampler("albedo", driver.Sampler2D)),
	)
	require.NoError(t, err)

	fb, err := resources.NewFramebuffer(dev, "target", driver.FramebufferDescriptor{
		Width: 64, Height: 64, ColorFormat: driver.FormatRGBA8,
	})
	require.NoError(t, err)
	t.Cleanup(fb.Release)

	p, err := Begin(pl, fb)
	require.NoError(t, err)
	defer p.Abandon()

	cube, err := resources.NewTexture(dev, "cube", driver.TextureDescriptor{
		Width: 4, Height: 4, Depth: 6, Format: driver.FormatRGBA8, Kind: driver.SamplerCube,
	})
	require.NoError(t, err)
	t.Cleanup(cube.Release)

	err = p.BindTexture("albedo", cube, nil)
	var bre *BindingRejectedError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, "albedo", bre.Slot)

	tex, err := resources.NewTexture2D(dev, "albedo", 4, 4, driver.FormatRGBA8)
	require.NoError(t, err)
	t.Cleanup(tex.Release)

	// A nil sampler is allowed; the device falls back to defaults.
	require.NoError(t, p.BindTexture("albedo", tex, nil))
	got, bound := p.Bound("albedo")
	require.True(t, bound)
	assert.Equal(t, resources.Resource(tex), got)
}

func TestDrawRequiresCompleteBindings(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	err = p.Draw(0, 3, 1)
	var ibe *IncompleteBindingError
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, "vertices", ibe.Slot)

	require.NoError(t, p.BindVertices(f.vertexBuffer(t)))
	err = p.Draw(0, 3, 1)
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, "Scale", ibe.Slot)

	require.NoError(t, p.Bind("Scale", f.uniformBuffer(t)))
	assert.NoError(t, p.Draw(0, 3, 1))
}

func TestDrawIndexedRequiresIndexBuffer(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)
	defer p.Abandon()

	require.NoError(t, p.BindVertices(f.vertexBuffer(t)))
	require.NoError(t, p.Bind("Scale", f.uniformBuffer(t)))

	err = p.DrawIndexed(0, 3, 1, 0)
	var ibe *IncompleteBindingError
	require.ErrorAs(t, err, &ibe)
	assert.Equal(t, "indices", ibe.Slot)

	ibuf, err := resources.NewIndexBuffer(f.dev, "indices", driver.IndexUint16, 3)
	require.NoError(t, err)
	defer ibuf.Release()
	require.NoError(t, p.BindIndices(ibuf))
	assert.NoError(t, p.DrawIndexed(0, 3, 1, 0))
}

func TestEndIsTerminal(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)

	require.NoError(t, p.End())
	assert.True(t, p.Ended())

	assert.ErrorIs(t, p.Bind("Scale", f.uniformBuffer(t)), ErrPassEnded)
	assert.ErrorIs(t, p.BindVertices(f.vertexBuffer(t)), ErrPassEnded)
	assert.ErrorIs(t, p.Draw(0, 3, 1), ErrPassEnded)
	assert.ErrorIs(t, p.End(), ErrPassEnded)
}

func TestAbandonDiscardsAndReturnsBorrows(t *testing.T) {
	f := newFixture(t)
	fb := f.framebuffer(t)

	p, err := Begin(f.pl, fb)
	require.NoError(t, err)
	require.NoError(t, p.BindVertices(f.vertexBuffer(t)))

	p.Abandon()
	assert.True(t, p.Ended())
	p.Abandon() // idempotent

	_, err = f.queue.Submit(p)
	assert.ErrorIs(t, err, ErrPassAbandoned)

	// Target borrow is back; a new pass can use it.
	p2, err := Begin(f.pl, fb)
	require.NoError(t, err)
	p2.Abandon()
}

func TestQueueRejectsOpenAndDuplicateSubmits(t *testing.T) {
	f := newFixture(t)
	p, err := Begin(f.pl, f.framebuffer(t))
	require.NoError(t, err)

	_, err = f.queue.Submit(p)
	assert.ErrorIs(t, err, ErrPassNotEnded)

	require.NoError(t, p.End())
	fence, err := f.queue.Submit(p)
	require.NoError(t, err)
	require.NoError(t, awaitFence(t, fence))

	_, err = f.queue.Submit(p)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestDrawSubmitFenceRoundTrip(t *testing.T) {
	f := newFixture(t)
	fb := f.framebuffer(t)

	ubuf := f.uniformBuffer(t)
	require.NoError(t, ubuf.Upload(0, make([]byte, 16)))

	vbuf := f.vertexBuffer(t)
	require.NoError(t, vbuf.Upload(0, make([]byte, 24)))

	p, err := Begin(f.pl, fb, WithLabel("triangle"))
	require.NoError(t, err)
	require.NoError(t, p.Bind("Scale", ubuf))
	require.NoError(t, p.BindVertices(vbuf))
	require.NoError(t, p.Draw(0, 3, 1))
	require.NoError(t, p.End())

	fence, err := f.queue.Submit(p)
	require.NoError(t, err)
	require.NoError(t, awaitFence(t, fence))
	assert.True(t, fence.Signaled())

	// All borrows are back once the pass has ended.
	assert.True(t, fb.AcquireWrite())
	fb.ReleaseWrite()
}

func TestCaptureRoundTrip(t *testing.T) {
	f := newFixture(t, pipeline.WithCaptureStride(16))

	capture, err := resources.NewCaptureBuffer(f.dev, "capture", 48)
	require.NoError(t, err)
	defer capture.Release()

	vbuf := f.vertexBuffer(t)
	ubuf := f.uniformBuffer(t)

	// Capture-only pass: no render target.
	p, err := Begin(f.pl, nil, WithCapture(capture))
	require.NoError(t, err)
	require.NoError(t, p.Bind("Scale", ubuf))
	require.NoError(t, p.BindVertices(vbuf))
	require.NoError(t, p.Draw(0, 3, 1))
	require.NoError(t, p.End())

	fence, err := f.queue.Submit(p)
	require.NoError(t, err)
	require.NoError(t, awaitFence(t, fence))

	out := make([]byte, 48)
	assert.NoError(t, capture.Download(0, out))
}

func TestCaptureOverflowFailsEnd(t *testing.T) {
	f := newFixture(t, pipeline.WithCaptureStride(16))

	capture, err := resources.NewCaptureBuffer(f.dev, "capture", 32)
	require.NoError(t, err)
	defer capture.Release()

	p, err := Begin(f.pl, nil, WithCapture(capture))
	require.NoError(t, err)
	require.NoError(t, p.Bind("Scale", f.uniformBuffer(t)))
	require.NoError(t, p.BindVertices(f.vertexBuffer(t)))
	require.NoError(t, p.Draw(0, 3, 1)) // 48 bytes against a 32-byte buffer

	err = p.End()
	var coe *CaptureOverflowError
	require.ErrorAs(t, err, &coe)
	assert.Equal(t, 48, coe.Required)
	assert.Equal(t, 32, coe.Capacity)
	assert.True(t, p.Ended())

	_, err = f.queue.Submit(p)
	assert.ErrorIs(t, err, ErrPassAbandoned)

	// Borrows came back despite the failed End.
	assert.True(t, capture.AcquireWrite())
	capture.ReleaseWrite()
}

func TestCaptureCountsInstances(t *testing.T) {
	f := newFixture(t, pipeline.WithCaptureStride(16))

	capture, err := resources.NewCaptureBuffer(f.dev, "capture", 96)
	require.NoError(t, err)
	defer capture.Release()

	p, err := Begin(f.pl, nil, WithCapture(capture))
	require.NoError(t, err)
	require.NoError(t, p.Bind("Scale", f.uniformBuffer(t)))
	require.NoError(t, p.BindVertices(f.vertexBuffer(t)))

	// 3 vertices x 2 instances x 16 bytes = 96, exactly at capacity.
	require.NoError(t, p.Draw(0, 3, 2))
	assert.NoError(t, p.End())
}

func TestBufferSharedAcrossPassesForReading(t *testing.T) {
	f := newFixture(t)
	fb1 := f.framebuffer(t)
	fb2, err := resources.NewFramebuffer(f.dev, "target2", driver.FramebufferDescriptor{
		Width: 64, Height: 64, ColorFormat: driver.FormatRGBA8,
	})
	require.NoError(t, err)
	t.Cleanup(fb2.Release)

	ubuf := f.uniformBuffer(t)

	p1, err := Begin(f.pl, fb1)
	require.NoError(t, err)
	defer p1.Abandon()
	p2, err := Begin(f.pl, fb2)
	require.NoError(t, err)
	defer p2.Abandon()

	// Read borrows are shared; both open passes may bind the same buffer.
	assert.NoError(t, p1.Bind("Scale", ubuf))
	assert.NoError(t, p2.Bind("Scale", ubuf))
}

func TestCaptureBufferExclusiveWhileAttached(t *testing.T) {
	f := newFixture(t, pipeline.WithCaptureStride(16))

	capture, err := resources.NewCaptureBuffer(f.dev, "capture", 48)
	require.NoError(t, err)
	defer capture.Release()

	p1, err := Begin(f.pl, nil, WithCapture(capture))
	require.NoError(t, err)
	defer p1.Abandon()

	_, err = Begin(f.pl, nil, WithCapture(capture))
	var rbe *ResourceBusyError
	require.ErrorAs(t, err, &rbe)
	assert.Equal(t, "capture", rbe.Resource)
}
