package gfx

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/kjkrol/gokview/internal/platform"
)

var ErrQueueStopped = errors.New("gfx: event queue stopped")

const maxEventWait = 50 * time.Millisecond

// EventQueue is the single-threaded executor that owns the GUI and the GL
// context. Tasks run in FIFO order on the goroutine that called Run, between
// rounds of native event dispatch, so window callbacks and tasks never overlap.
type EventQueue struct {
	pump platform.EventPump

	mu      sync.Mutex
	tasks   []func()
	running bool
	stopped bool
	stop    chan struct{}
}

func NewEventQueue(pump platform.EventPump) *EventQueue {
	return &EventQueue{
		pump: pump,
		stop: make(chan struct{}),
	}
}

// Post enqueues task behind everything already queued. Safe from any goroutine.
func (q *EventQueue) Post(task func()) error {
	if task == nil {
		return nil
	}
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return ErrQueueStopped
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	q.pump.PostEmptyEvent()
	return nil
}

// Pending returns the number of tasks waiting to run.
func (q *EventQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Run dispatches native events and queued tasks until ctx is done or Stop is
// called. It locks the calling goroutine to its OS thread; call it from the
// thread that created the platform backend.
func (q *EventQueue) Run(ctx context.Context) error {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return errors.New("gfx: event queue already running")
	}
	if q.stopped {
		q.mu.Unlock()
		return ErrQueueStopped
	}
	q.running = true
	q.mu.Unlock()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case <-ctx.Done():
			q.shutdown()
			return ctx.Err()
		case <-q.stop:
			q.shutdown()
			return nil
		default:
			q.runOnce()
		}
	}
}

// runOnce dispatches native events, blocking briefly only when no task is
// waiting, then drains the queue.
func (q *EventQueue) runOnce() int {
	if q.Pending() > 0 {
		q.pump.PollEvents()
	} else {
		q.pump.WaitEventsTimeout(maxEventWait)
	}
	return q.drain()
}

// Stop makes Run return after the task in progress. Tasks still queued are
// dropped and later Posts fail with ErrQueueStopped.
func (q *EventQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.stop)
	q.mu.Unlock()
	q.pump.PostEmptyEvent()
}

func (q *EventQueue) shutdown() {
	q.mu.Lock()
	if !q.stopped {
		q.stopped = true
		close(q.stop)
	}
	q.tasks = nil
	q.running = false
	q.mu.Unlock()
}

// drain runs the tasks queued when it starts. Tasks posted meanwhile wait for
// the next round, after native events have been dispatched again.
func (q *EventQueue) drain() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for i, task := range batch {
		select {
		case <-q.stop:
			return i
		default:
		}
		q.runTask(task)
	}
	return len(batch)
}

func (q *EventQueue) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("event queue task panicked", "err", fmt.Errorf("%v", r))
		}
	}()
	task()
}
