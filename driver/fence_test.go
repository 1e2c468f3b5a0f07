package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFencePendingThenSignaled(t *testing.T) {
	f := NewFence()
	assert.False(t, f.Signaled())
	assert.NoError(t, f.Err())

	f.Signal(nil)
	assert.True(t, f.Signaled())
	assert.NoError(t, f.Err())

	// Re-awaiting a resolved fence returns immediately.
	select {
	case <-f.Done():
	default:
		t.Fatal("Done channel not closed after Signal")
	}
	assert.NoError(t, f.Wait(context.Background()))
}

func TestFenceCarriesError(t *testing.T) {
	f := NewFence()
	f.Signal(ErrDeviceLost)
	assert.True(t, f.Signaled())
	assert.ErrorIs(t, f.Err(), ErrDeviceLost)
	assert.ErrorIs(t, f.Wait(context.Background()), ErrDeviceLost)
}

func TestFenceSignalIsIdempotent(t *testing.T) {
	f := NewFence()
	f.Signal(ErrUnsupported)
	f.Signal(nil)
	f.Signal(errors.New("late"))
	assert.ErrorIs(t, f.Err(), ErrUnsupported)
}

func TestFenceWaitHonorsContext(t *testing.T) {
	f := NewFence()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := f.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.Signaled())
}

func TestFenceWaitUnblocksOnSignal(t *testing.T) {
	f := NewFence()
	go func() {
		time.Sleep(5 * time.Millisecond)
		f.Signal(nil)
	}()
	assert.NoError(t, f.Wait(context.Background()))
}
