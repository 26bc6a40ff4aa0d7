package buffer

import (
	"sync"

	"github.com/mcncl/pastejson/internal/errors"
)

// Owner is the single goroutine allowed to mutate buffers. Functions passed
// to Dispatch run one at a time, in the order they were dispatched.
type Owner struct {
	tasks  chan func()
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewOwner starts the owner goroutine.
func NewOwner() *Owner {
	o := &Owner{
		tasks: make(chan func(), 16),
		done:  make(chan struct{}),
	}
	go o.loop()
	return o
}

func (o *Owner) loop() {
	defer close(o.done)
	for task := range o.tasks {
		task()
	}
}

// Dispatch queues fn to run on the owner goroutine. After Close it returns
// ErrOwnerClosed and fn never runs.
func (o *Owner) Dispatch(fn func()) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return errors.ErrOwnerClosed
	}
	o.tasks <- fn
	return nil
}

// Close stops accepting work and waits for queued functions to finish.
func (o *Owner) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.tasks)
	}
	o.mu.Unlock()
	<-o.done
}
