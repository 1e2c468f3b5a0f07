package render

import (
	"github.com/Carmen-Shannon/glint"
	"github.com/Carmen-Shannon/glint/driver"
)

// queue is the implementation of the Queue interface.
type queue struct {
	dev driver.Device
}

// Queue submits ended passes to a device for asynchronous execution.
// Submissions execute in submit order; each returns a one-shot Fence that
// resolves when the device finishes (or fails) the batch.
type Queue interface {
	// Submit hands an ended pass's command batch to the device. The pass
	// must have ended normally; abandoned or still-open passes are
	// rejected, as is submitting the same pass twice.
	//
	// Parameters:
	//   - p: the ended pass to submit
	//
	// Returns:
	//   - *driver.Fence: resolves when the device finishes the batch
	//   - error: ErrPassNotEnded, ErrPassAbandoned, or ErrAlreadySubmitted
	Submit(p Pass) (*driver.Fence, error)

	// Device returns the device this queue submits to.
	//
	// Returns:
	//   - driver.Device: the underlying device
	Device() driver.Device
}

var _ Queue = &queue{}

// NewQueue wraps a device in a submission queue.
//
// Parameters:
//   - dev: the device to submit work to
//
// Returns:
//   - Queue: the queue
func NewQueue(dev driver.Device) Queue {
	return &queue{dev: dev}
}

func (q *queue) Submit(p Pass) (*driver.Fence, error) {
	ps, ok := p.(*pass)
	if !ok || !ps.ended {
		return nil, ErrPassNotEnded
	}
	if ps.abandoned {
		return nil, ErrPassAbandoned
	}
	if ps.submitted {
		return nil, ErrAlreadySubmitted
	}
	ps.submitted = true

	glint.Logger().Debug("render: pass submitted", "label", ps.label, "commands", len(ps.batch.Commands))
	return q.dev.Submit(&ps.batch), nil
}

func (q *queue) Device() driver.Device {
	return q.dev
}
