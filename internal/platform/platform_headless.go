package platform

import (
	"fmt"
	"sync"
	"time"
)

// HeadlessBackend runs without a display. It cannot create GL contexts, so a
// viewer on top of it always ends up on its placeholder surface.
type HeadlessBackend struct {
	factory SurfaceFactory
	wake    chan struct{}

	mu      sync.Mutex
	windows []*HeadlessWindow
	pending []func()
}

func NewHeadlessBackend(factory SurfaceFactory) *HeadlessBackend {
	if factory == nil {
		factory = DefaultSurfaceFactory()
	}
	return &HeadlessBackend{
		factory: factory,
		wake:    make(chan struct{}, 1),
	}
}

func (b *HeadlessBackend) NewGLWindow(_ WindowConfig, req ContextRequest) (GLWindow, error) {
	return nil, fmt.Errorf("%w: headless backend cannot create %s", ErrNoContext, req)
}

func (b *HeadlessBackend) NewPlaceholderWindow(conf WindowConfig) (Window, error) {
	w := &HeadlessWindow{
		backend: b,
		title:   conf.Title,
		width:   max(conf.Width, 0),
		height:  max(conf.Height, 0),
	}
	b.mu.Lock()
	b.windows = append(b.windows, w)
	b.mu.Unlock()
	return w, nil
}

// Windows returns the windows created so far.
func (b *HeadlessBackend) Windows() []*HeadlessWindow {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*HeadlessWindow, len(b.windows))
	copy(out, b.windows)
	return out
}

func (b *HeadlessBackend) PollEvents() {
	b.dispatch()
}

func (b *HeadlessBackend) WaitEventsTimeout(timeout time.Duration) {
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		select {
		case <-b.wake:
		case <-timer.C:
		}
		timer.Stop()
	}
	b.dispatch()
}

func (b *HeadlessBackend) PostEmptyEvent() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *HeadlessBackend) Terminate() {
	for _, w := range b.Windows() {
		w.Close()
	}
}

// post queues a native event; it is delivered by the next pump call, like a
// real window system would.
func (b *HeadlessBackend) post(fn func()) {
	b.mu.Lock()
	b.pending = append(b.pending, fn)
	b.mu.Unlock()
	b.PostEmptyEvent()
}

func (b *HeadlessBackend) dispatch() {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// ----------------------------------------------------------------------------

type HeadlessWindow struct {
	backend *HeadlessBackend
	title   string
	handler func(Event)

	mu      sync.Mutex
	width   int
	height  int
	surface Surface
	shown   bool
	closing bool
	closed  bool
}

func (w *HeadlessWindow) Title() string { return w.title }

// Surface returns the window's pixel store, created on first use and again
// only after the size changed.
func (w *HeadlessWindow) Surface() Surface {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.surface == nil {
		w.surface = w.backend.factory.New(w.width, w.height)
	}
	return w.surface
}

func (w *HeadlessWindow) SetEventHandler(handler func(Event)) {
	w.handler = handler
}

func (w *HeadlessWindow) Show() {
	w.mu.Lock()
	w.shown = !w.closed
	w.mu.Unlock()
}

func (w *HeadlessWindow) Focus() {}

func (w *HeadlessWindow) Close() {
	w.mu.Lock()
	w.closed = true
	w.shown = false
	w.mu.Unlock()
	w.handler = nil
}

func (w *HeadlessWindow) Alive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shown && !w.closing && !w.closed
}

func (w *HeadlessWindow) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Resize simulates the user resizing the window. The Resize event reaches the
// handler on the next pump call.
func (w *HeadlessWindow) Resize(width, height int) {
	w.backend.post(func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		width, height = max(width, 0), max(height, 0)
		if width != w.width || height != w.height {
			w.width, w.height = width, height
			w.surface = nil
		}
		w.mu.Unlock()
		w.emit(Resize{Width: width, Height: height})
	})
}

// RequestClose simulates the user closing the window.
func (w *HeadlessWindow) RequestClose() {
	w.backend.post(func() {
		w.mu.Lock()
		w.closing = true
		w.mu.Unlock()
		w.emit(CloseRequest{})
	})
}

func (w *HeadlessWindow) emit(event Event) {
	if w.handler != nil {
		w.handler(event)
	}
}
