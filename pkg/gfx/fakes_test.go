package gfx

import (
	"fmt"
	"sync"

	"github.com/kjkrol/gokview/internal/platform"
)

// recorder keeps the order of GL and window calls across fakes.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.snapshot() {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recorder) indexOf(call string) int {
	for i, c := range r.snapshot() {
		if c == call {
			return i
		}
	}
	return -1
}

// ----------------------------------------------------------------------------

type fakeGL struct {
	rec       *recorder
	ready     bool
	attachErr error
	attaches  int
	detaches  int
}

func newFakeGL(rec *recorder) *fakeGL {
	return &fakeGL{rec: rec}
}

func (g *fakeGL) Attach() error {
	g.attaches++
	if g.attachErr != nil {
		return g.attachErr
	}
	g.ready = true
	g.rec.add("attach")
	return nil
}

func (g *fakeGL) Detach() {
	g.detaches++
	g.ready = false
	g.rec.add("detach")
}

func (g *fakeGL) Ready() bool { return g.ready }

func (g *fakeGL) Viewport(x, y, width, height int) {
	g.rec.add("viewport %d %d %d %d", x, y, width, height)
}

func (g *fakeGL) ClearColor(r, gr, b, a float32) {
	g.rec.add("clearColor %.1f %.1f %.1f %.1f", r, gr, b, a)
}

func (g *fakeGL) ColorMask(r, gr, b, a bool) {
	g.rec.add("colorMask %t %t %t %t", r, gr, b, a)
}

func (g *fakeGL) DepthMask(flag bool) {
	g.rec.add("depthMask %t", flag)
}

func (g *fakeGL) Clear(mask ClearMask) {
	g.rec.add("clear %#x", uint32(mask))
}

func (g *fakeGL) Info() GLInfo {
	return GLInfo{Version: "3.3.0 fake", Renderer: "fake"}
}

// ----------------------------------------------------------------------------

type fakeWindow struct {
	rec     *recorder
	width   int
	height  int
	shown   bool
	closing bool
	closed  bool
	handler func(platform.Event)
	info    platform.ContextInfo

	swapErrs     []error
	swaps        int
	detachCalls  int
	currentCalls int
}

func newFakeWindow(rec *recorder, width, height int) *fakeWindow {
	return &fakeWindow{
		rec:    rec,
		width:  width,
		height: height,
		info:   platform.ContextInfo{Major: 3, Minor: 3, Profile: platform.ProfileCore, Samples: 4},
	}
}

func (w *fakeWindow) Show()  { w.shown = true }
func (w *fakeWindow) Focus() {}
func (w *fakeWindow) Close() {
	w.closed = true
	w.rec.add("close")
}

func (w *fakeWindow) Alive() bool { return w.shown && !w.closing && !w.closed }

func (w *fakeWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *fakeWindow) SetEventHandler(handler func(platform.Event)) { w.handler = handler }

func (w *fakeWindow) MakeContextCurrent() { w.currentCalls++ }

func (w *fakeWindow) DetachCurrentContext() {
	w.detachCalls++
	w.rec.add("detachCurrent")
}

func (w *fakeWindow) SwapBuffers() error {
	w.swaps++
	w.rec.add("swap")
	if len(w.swapErrs) > 0 {
		err := w.swapErrs[0]
		w.swapErrs = w.swapErrs[1:]
		return err
	}
	return nil
}

func (w *fakeWindow) ContextInfo() platform.ContextInfo { return w.info }

// resize mimics the platform: new size first, then the notification.
func (w *fakeWindow) resize(width, height int) {
	w.width, w.height = width, height
	w.emit(platform.Resize{Width: width, Height: height})
}

func (w *fakeWindow) emit(event platform.Event) {
	if w.handler != nil {
		w.handler(event)
	}
}

// ----------------------------------------------------------------------------

// fakeBackend hands out a fake GL window and falls back to the headless
// backend for everything else.
type fakeBackend struct {
	*platform.HeadlessBackend
	window *fakeWindow
	glErr  error
}

func newFakeBackend(window *fakeWindow) *fakeBackend {
	return &fakeBackend{
		HeadlessBackend: platform.NewHeadlessBackend(nil),
		window:          window,
	}
}

func (b *fakeBackend) NewGLWindow(_ platform.WindowConfig, _ platform.ContextRequest) (platform.GLWindow, error) {
	if b.glErr != nil {
		return nil, b.glErr
	}
	return b.window, nil
}

// ----------------------------------------------------------------------------

type fakeScene struct {
	rec      *recorder
	models   []Model
	prepares int
	renders  int
	closes   int
}

func (s *fakeScene) AddModel(m Model) { s.models = append(s.models, m) }

func (s *fakeScene) RenderModels() {
	s.renders++
	s.rec.add("render")
}

func (s *fakeScene) PrepareRender() {
	s.prepares++
	s.rec.add("prepare")
}

func (s *fakeScene) Close() {
	s.closes++
	s.rec.add("closeScene")
}

// ----------------------------------------------------------------------------

// fakeSurface is a RenderSurface that stays valid for a fixed number of paints.
type fakeSurface struct {
	validFor    int
	paints      int
	releases    int
	placeholder bool
	panicOn     int
	onPaint     func()
}

func (s *fakeSurface) Initialize() error { return nil }

func (s *fakeSurface) Paint() {
	s.paints++
	if s.onPaint != nil {
		s.onPaint()
	}
	if s.panicOn > 0 && s.paints == s.panicOn {
		panic("frame exploded")
	}
}

func (s *fakeSurface) Width() int        { return 640 }
func (s *fakeSurface) Height() int       { return 480 }
func (s *fakeSurface) Valid() bool       { return s.releases == 0 && s.paints < s.validFor }
func (s *fakeSurface) Release()          { s.releases++ }
func (s *fakeSurface) Placeholder() bool { return s.placeholder }
func (s *fakeSurface) Show()             {}
func (s *fakeSurface) Focus()            {}
func (s *fakeSurface) Close()            { s.Release() }
