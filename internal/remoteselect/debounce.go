package remoteselect

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a caller whose search was replaced by a
// newer one within the debounce window.
var ErrSuperseded = errors.New("remoteselect: search superseded")

// Debouncer lets only the last call per key within Wait run.
type Debouncer struct {
	Wait time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	cancel chan struct{}
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{Wait: wait, pending: map[string]*pendingCall{}}
}

// Do waits out the debounce window and then runs fn, unless another Do
// with the same key arrives first.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	call := &pendingCall{cancel: make(chan struct{})}

	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		close(prev.cancel)
	}
	d.pending[key] = call
	d.mu.Unlock()

	timer := time.NewTimer(d.Wait)
	defer timer.Stop()

	select {
	case <-call.cancel:
		return ErrSuperseded
	case <-ctx.Done():
		d.release(key, call)
		return ctx.Err()
	case <-timer.C:
	}

	d.mu.Lock()
	if d.pending[key] != call {
		d.mu.Unlock()
		return ErrSuperseded
	}
	delete(d.pending, key)
	d.mu.Unlock()

	return fn(ctx)
}

func (d *Debouncer) release(key string, call *pendingCall) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] == call {
		delete(d.pending, key)
	}
}
