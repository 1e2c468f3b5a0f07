package softdriver

import "time"

// poolIdleTimeout is how long a pool worker sits idle before exiting.
const poolIdleTimeout = 1 * time.Second

// DeviceOption defines a functional option for configuring a device.
type DeviceOption func(*device)

// WithWorkers sets the worker pool size used to execute submitted batches.
// Batch ordering is preserved at any size. Defaults to 2.
//
// Parameters:
//   - workers: the pool size; values below 1 are ignored
//
// Returns:
//   - DeviceOption: the option to apply
func WithWorkers(workers int) DeviceOption {
	return func(d *device) {
		if workers >= 1 {
			d.workers = workers
		}
	}
}
