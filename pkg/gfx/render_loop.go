package gfx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type LoopState int32

const (
	LoopStopped LoopState = iota
	LoopScheduled
)

// placeholderInterval paces a loop whose surface never draws, so it checks
// validity without spinning the queue.
const placeholderInterval = 100 * time.Millisecond

func (s LoopState) String() string {
	switch s {
	case LoopScheduled:
		return "scheduled"
	default:
		return "stopped"
	}
}

// RenderLoop paints its surface once per EventQueue round. Every iteration
// posts the next one back onto the queue, so other GUI events are handled
// between frames. The loop ends by itself when the surface becomes invalid;
// it cannot be restarted after that.
type RenderLoop struct {
	surface RenderSurface
	queue   *EventQueue

	state    atomic.Int32
	finished atomic.Bool
	frames   atomic.Uint64
	done     chan struct{}

	mu    sync.Mutex
	pause *time.Timer
}

func NewRenderLoop(surface RenderSurface, queue *EventQueue) *RenderLoop {
	return &RenderLoop{
		surface: surface,
		queue:   queue,
		done:    make(chan struct{}),
	}
}

// Start schedules the first iteration. It reports false if the loop is
// already scheduled, has finished, or the queue refused the task. At most one
// iteration is ever pending.
func (l *RenderLoop) Start() bool {
	if l.finished.Load() {
		return false
	}
	if !l.state.CompareAndSwap(int32(LoopStopped), int32(LoopScheduled)) {
		return false
	}
	if l.finished.Load() {
		l.state.Store(int32(LoopStopped))
		return false
	}
	if err := l.queue.Post(l.iterate); err != nil {
		l.state.Store(int32(LoopStopped))
		Logger().Error("could not start render loop", "err", err)
		return false
	}
	Logger().Debug("render loop scheduled")
	return true
}

func (l *RenderLoop) State() LoopState {
	return LoopState(l.state.Load())
}

// Frames returns the number of iterations that painted.
func (l *RenderLoop) Frames() uint64 {
	return l.frames.Load()
}

// Done is closed when the loop has stopped for good.
func (l *RenderLoop) Done() <-chan struct{} {
	return l.done
}

func (l *RenderLoop) iterate() {
	if l.finished.Load() {
		return
	}
	if !l.surface.Valid() {
		l.finish()
		return
	}
	l.paint()
	l.frames.Add(1)
	if l.surface.Placeholder() {
		l.mu.Lock()
		if !l.finished.Load() {
			l.pause = time.AfterFunc(placeholderInterval, l.reschedule)
		}
		l.mu.Unlock()
		return
	}
	l.reschedule()
}

func (l *RenderLoop) stopPause() {
	l.mu.Lock()
	if l.pause != nil {
		l.pause.Stop()
		l.pause = nil
	}
	l.mu.Unlock()
}

func (l *RenderLoop) reschedule() {
	if err := l.queue.Post(l.iterate); err != nil {
		Logger().Debug("render loop could not reschedule", "err", err)
		l.finishOffQueue()
	}
}

// paint keeps a failing frame from taking the loop down with it.
func (l *RenderLoop) paint() {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("frame failed", "err", fmt.Errorf("%v", r))
		}
	}()
	l.surface.Paint()
}

// finishOffQueue handles a queue that went away while the next iteration was
// not yet posted. Release is left to Viewer.Close, which runs on the queue thread.
func (l *RenderLoop) finishOffQueue() {
	if l.finished.Swap(true) {
		return
	}
	l.stopPause()
	l.state.Store(int32(LoopStopped))
	close(l.done)
}

// halt ends the loop without releasing the surface; the caller owns that.
// An iteration already queued returns without painting.
func (l *RenderLoop) halt() {
	l.finishOffQueue()
}

func (l *RenderLoop) finish() {
	if l.finished.Swap(true) {
		return
	}
	l.stopPause()
	l.surface.Release()
	l.state.Store(int32(LoopStopped))
	close(l.done)
	Logger().Debug("render loop stopped", "frames", l.frames.Load())
}
