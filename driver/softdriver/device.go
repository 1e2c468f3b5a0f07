// Package softdriver provides an in-memory reference implementation of the
// driver.Device boundary. Programs are reflected by parsing their GLSL
// interface declarations, resources live in host memory, and submitted
// batches execute asynchronously on a worker pool in strict submission
// order. The device validates batches and produces capture output sizes and
// readbacks, but does not execute shader code; rasterized output is not
// produced.
package softdriver

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/glint"
	"github.com/Carmen-Shannon/glint/driver"
)

// device is the implementation of the driver.Device interface.
type device struct {
	workers int
	pool    worker.DynamicWorkerPool

	mu     sync.Mutex
	prev   <-chan struct{}
	taskID int

	lost     chan struct{}
	lostOnce sync.Once
	released bool
}

// Device extends driver.Device with controls only the soft device offers.
type Device interface {
	driver.Device

	// Lose marks the device lost. The Lost channel closes and every batch
	// that executes afterwards signals its fence with driver.ErrDeviceLost.
	Lose()
}

var _ Device = &device{}

// NewDevice creates an in-memory device. Batches submitted to it execute on
// a worker pool; ordering across batches is preserved regardless of worker
// count.
//
// Parameters:
//   - options: device configuration
//
// Returns:
//   - Device: the device
func NewDevice(options ...DeviceOption) Device {
	d := &device{
		workers: 2,
		lost:    make(chan struct{}),
	}
	for _, option := range options {
		option(d)
	}
	d.pool = worker.NewDynamicWorkerPool(d.workers, 256, poolIdleTimeout)
	return d
}

func (d *device) LinkProgram(vertexSrc, fragmentSrc string) (driver.Program, error) {
	if vertexSrc == "" || fragmentSrc == "" {
		return nil, fmt.Errorf("softdriver: both stages must have source")
	}
	reflection, err := reflectSources(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &program{reflection: reflection}, nil
}

func (d *device) CreateBuffer(size int, usage driver.BufferUsage) (driver.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("softdriver: buffer size must be positive, got %d", size)
	}
	return &buffer{data: make([]byte, size), usage: usage}, nil
}

func (d *device) CreateTexture(desc driver.TextureDescriptor) (driver.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("softdriver: texture dimensions must be positive, got %dx%d", desc.Width, desc.Height)
	}
	return &texture{desc: desc}, nil
}

func (d *device) CreateSampler(desc driver.SamplerDescriptor) (driver.Sampler, error) {
	return &sampler{desc: desc}, nil
}

func (d *device) CreateFramebuffer(desc driver.FramebufferDescriptor) (driver.Framebuffer, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("softdriver: framebuffer dimensions must be positive, got %dx%d", desc.Width, desc.Height)
	}
	return &framebuffer{desc: desc}, nil
}

// Submit enqueues the batch on the worker pool. Each task waits for the
// previous submission's completion channel before executing, so batches
// retire in submission order even with multiple pool workers.
func (d *device) Submit(batch *driver.Batch) *driver.Fence {
	f := driver.NewFence()

	d.mu.Lock()
	prev := d.prev
	done := make(chan struct{})
	d.prev = done
	id := d.taskID
	d.taskID++
	d.mu.Unlock()

	d.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer close(done)
			if prev != nil {
				<-prev
			}

			select {
			case <-d.lost:
				f.Signal(driver.ErrDeviceLost)
				return nil, driver.ErrDeviceLost
			default:
			}

			err := executeBatch(batch)
			f.Signal(err)
			if err != nil {
				glint.Logger().Error("softdriver: batch failed", "task", id, "error", err)
			}
			return nil, err
		},
	})

	return f
}

func (d *device) Lost() <-chan struct{} {
	return d.lost
}

// Lose marks the device lost. All subsequently executing batches signal
// their fences with driver.ErrDeviceLost.
func (d *device) Lose() {
	d.lostOnce.Do(func() { close(d.lost) })
}

func (d *device) Release() {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return
	}
	d.released = true
	d.mu.Unlock()
	d.pool.Wait()
}

// executeBatch validates and retires one batch. Bind commands update the
// execution state; draw commands consume it and append capture output when
// the batch carries a capture buffer.
func executeBatch(batch *driver.Batch) error {
	var (
		vertexBound bool
		indexBound  bool
		captureOff  int
	)

	capture, err := softBuffer(batch.Capture)
	if err != nil {
		return err
	}

	for i, cmd := range batch.Commands {
		switch cmd.Kind {
		case driver.CmdBindUniformBuffer, driver.CmdBindVertexBuffer, driver.CmdBindIndexBuffer:
			buf, err := softBuffer(cmd.Buffer)
			if err != nil {
				return fmt.Errorf("softdriver: command %d: %w", i, err)
			}
			if buf == nil {
				return fmt.Errorf("softdriver: command %d binds a nil buffer", i)
			}
			switch cmd.Kind {
			case driver.CmdBindVertexBuffer:
				vertexBound = true
			case driver.CmdBindIndexBuffer:
				indexBound = true
			}

		case driver.CmdBindTexture:
			if _, ok := cmd.Texture.(*texture); !ok {
				return fmt.Errorf("softdriver: command %d binds a foreign texture", i)
			}

		case driver.CmdDraw, driver.CmdDrawIndexed:
			if batch.State.VertexStride > 0 && !vertexBound {
				return fmt.Errorf("softdriver: command %d draws without a vertex buffer", i)
			}
			if cmd.Kind == driver.CmdDrawIndexed && !indexBound {
				return fmt.Errorf("softdriver: command %d draws without an index buffer", i)
			}
			if capture != nil {
				n := cmd.Count * cmd.Instances * batch.State.CaptureStride
				if err := capture.fill(captureOff, n); err != nil {
					return fmt.Errorf("softdriver: command %d: %w", i, err)
				}
				captureOff += n
			}

		default:
			return fmt.Errorf("softdriver: command %d has unknown kind %d", i, cmd.Kind)
		}
	}

	return nil
}

// softBuffer unwraps a driver.Buffer created by this device. A nil buffer
// unwraps to nil.
func softBuffer(b driver.Buffer) (*buffer, error) {
	if b == nil {
		return nil, nil
	}
	sb, ok := b.(*buffer)
	if !ok {
		return nil, fmt.Errorf("softdriver: foreign buffer %T", b)
	}
	return sb, nil
}
