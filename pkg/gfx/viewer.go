package gfx

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/kjkrol/gokview/internal/platform"
)

// Viewer ties a RenderSurface, its GLContext and a Scene together and is the
// only type a GUI shell needs. NewViewer, Show, Focus and Close must run on
// the thread that owns the backend and runs the EventQueue.
type Viewer struct {
	conf    Config
	queue   *EventQueue
	surface RenderSurface
	ctx     GLContext
	scene   Scene
	loop    *RenderLoop

	repaintPending atomic.Bool
	sceneClosed    bool
	closed         bool
}

func NewViewer(conf Config, backend platform.Backend, queue *EventQueue, factory SceneFactory) (*Viewer, error) {
	return newViewer(conf, backend, queue, factory, newGLContext())
}

func newViewer(conf Config, backend platform.Backend, queue *EventQueue, factory SceneFactory, ctx GLContext) (*Viewer, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if backend == nil || queue == nil {
		return nil, errors.New("gfx: viewer needs a backend and an event queue")
	}
	v := &Viewer{
		conf:  conf,
		queue: queue,
		ctx:   ctx,
	}

	surface, err := v.createGLSurface(backend)
	if err != nil {
		Logger().Error("could not create gl surface", "err", err)
		if conf.Fallback == FallbackFail {
			return nil, err
		}
		window, perr := backend.NewPlaceholderWindow(conf.windowConfig())
		if perr != nil {
			return nil, errors.Join(err, perr)
		}
		Logger().Warn("rendering disabled, using placeholder surface", "cause", err)
		v.surface = newPlaceholderSurface(window, err)
	} else {
		v.surface = surface
	}

	if factory != nil {
		v.scene = factory(v)
	}
	if s, ok := v.surface.(*glSurface); ok {
		s.render = v.renderModels
		s.prepare = v.prepareRender
		s.refresh = v.TriggerRendering
		s.release = v.closeScene
	}
	v.loop = NewRenderLoop(v.surface, queue)
	return v, nil
}

func (v *Viewer) createGLSurface(backend platform.Backend) (*glSurface, error) {
	window, err := backend.NewGLWindow(v.conf.windowConfig(), v.conf.contextRequest())
	if err != nil {
		return nil, fmt.Errorf("create gl window: %w", err)
	}
	surface := newGLSurface(window, v.ctx, v.conf.contextRequest(), v.conf.ClearColor)
	if err := surface.Initialize(); err != nil {
		surface.Close()
		return nil, err
	}
	return surface, nil
}

func (v *Viewer) renderModels() {
	if v.scene != nil {
		v.scene.RenderModels()
	}
}

func (v *Viewer) prepareRender() {
	if p, ok := v.scene.(Preparer); ok {
		p.PrepareRender()
	}
}

// RenderComponent returns the surface to embed in the shell's window.
func (v *Viewer) RenderComponent() RenderSurface {
	return v.surface
}

// GLContext returns the viewer's GL entry points. The same value is returned
// for the viewer's whole life.
func (v *Viewer) GLContext() GLContext {
	return v.ctx
}

func (v *Viewer) Width() int {
	return v.surface.Width()
}

func (v *Viewer) Height() int {
	return v.surface.Height()
}

func (v *Viewer) Config() Config {
	return v.conf
}

// Placeholder reports whether the viewer fell back to a surface that draws nothing.
func (v *Viewer) Placeholder() bool {
	return v.surface.Placeholder()
}

func (v *Viewer) Loop() *RenderLoop {
	return v.loop
}

// AddModel passes m to the scene and asks for a repaint.
func (v *Viewer) AddModel(m Model) {
	if v.scene == nil {
		Logger().Warn("model dropped, viewer has no scene")
		return
	}
	v.scene.AddModel(m)
	v.TriggerRendering()
}

// TriggerRendering asks for one paint outside the render loop. Calls made
// before the queue gets to it collapse into a single paint.
func (v *Viewer) TriggerRendering() {
	if !v.repaintPending.CompareAndSwap(false, true) {
		Logger().Debug("repaint already pending")
		return
	}
	err := v.queue.Post(func() {
		v.repaintPending.Store(false)
		if v.surface.Valid() {
			v.surface.Paint()
		}
	})
	if err != nil {
		v.repaintPending.Store(false)
		Logger().Debug("repaint dropped", "err", err)
	}
}

// Start begins the continuous render loop. See RenderLoop.Start.
func (v *Viewer) Start() bool {
	return v.loop.Start()
}

func (v *Viewer) Show() {
	v.surface.Show()
}

func (v *Viewer) Focus() {
	v.surface.Focus()
}

// Close releases the scene and the surface and stops the render loop.
func (v *Viewer) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.loop.halt()
	if v.ctx.Ready() {
		v.closeScene()
	}
	v.surface.Close()
}

// closeScene lets the scene free its GL resources. It runs once, either from
// Close or when the surface is released after its window went away.
func (v *Viewer) closeScene() {
	if v.sceneClosed {
		return
	}
	v.sceneClosed = true
	if c, ok := v.scene.(Closer); ok {
		c.Close()
	}
}
