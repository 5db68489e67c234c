package gfx

import (
	"errors"
	"fmt"

	"github.com/kjkrol/gokview/internal/platform"
)

// RenderSurface is the embeddable drawing area of a Viewer. Every method is
// called on the EventQueue thread.
type RenderSurface interface {
	// Initialize runs once, after the context first becomes current and
	// before any Paint.
	Initialize() error
	// Paint renders one frame.
	Paint()
	Width() int
	Height() int
	// Valid reports whether the surface still belongs to a live, displayed window.
	Valid() bool
	// Release drops the current-context binding and the GL entry points.
	// Only the first call has an effect.
	Release()
	Placeholder() bool

	Show()
	Focus()
	Close()
}

var _ RenderSurface = (*glSurface)(nil)

type glSurface struct {
	window  platform.GLWindow
	ctx     GLContext
	request platform.ContextRequest
	clear   [4]float32
	sync    *viewportSync

	prepare func()
	render  func()
	refresh func()
	// release runs before the GL entry points are detached, while the
	// context can still be made current.
	release func()

	initialized bool
	released    bool
	info        platform.ContextInfo
}

func newGLSurface(window platform.GLWindow, ctx GLContext, request platform.ContextRequest, clear [4]float32) *glSurface {
	s := &glSurface{
		window:  window,
		ctx:     ctx,
		request: request,
		clear:   clear,
		sync:    newViewportSync(),
	}
	window.SetEventHandler(s.handleEvent)
	return s
}

func (s *glSurface) handleEvent(event platform.Event) {
	switch e := event.(type) {
	case platform.Resize:
		Logger().Debug("surface resized", "width", e.Width, "height", e.Height)
		s.sync.Invalidate()
	case platform.Refresh:
		if s.refresh != nil {
			s.refresh()
		}
	case platform.CloseRequest:
		Logger().Debug("surface close requested")
	}
}

func (s *glSurface) Initialize() error {
	if s.initialized {
		return nil
	}
	if s.released {
		return errors.New("surface already released")
	}
	s.window.MakeContextCurrent()
	if err := s.ctx.Attach(); err != nil {
		return fmt.Errorf("initialize surface %s: %w", s.request, err)
	}
	s.info = s.window.ContextInfo()
	gl := s.ctx.Info()
	Logger().Info("gl context ready",
		"version", s.info.Version(),
		"profile", s.info.Profile.String(),
		"samples", s.info.Samples,
		"requested", s.request.String(),
		"driver", gl.Version,
		"renderer", gl.Renderer,
	)
	s.ctx.ClearColor(s.clear[0], s.clear[1], s.clear[2], s.clear[3])
	s.initialized = true
	return nil
}

// ContextInfo returns the negotiated context parameters. Zero before Initialize.
func (s *glSurface) ContextInfo() platform.ContextInfo {
	return s.info
}

func (s *glSurface) Paint() {
	if !s.initialized || s.released {
		return
	}
	s.window.MakeContextCurrent()

	width, height := s.window.FramebufferSize()
	s.sync.apply(s.ctx, width, height)

	if s.prepare != nil {
		s.prepare()
	}

	// A previous frame may have turned the masks off; Clear is a no-op for
	// masked-out buffers.
	s.ctx.ColorMask(true, true, true, true)
	s.ctx.DepthMask(true)
	s.ctx.Clear(ColorBufferBit | DepthBufferBit)

	if s.render != nil {
		s.render()
	}

	if err := s.window.SwapBuffers(); err != nil {
		Logger().Error("could not swap buffers", "err", err)
	}
}

func (s *glSurface) Width() int {
	width, _ := s.window.FramebufferSize()
	return width
}

func (s *glSurface) Height() int {
	_, height := s.window.FramebufferSize()
	return height
}

func (s *glSurface) Valid() bool {
	return !s.released && s.window.Alive()
}

func (s *glSurface) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.initialized && s.release != nil {
		s.window.MakeContextCurrent()
		s.release()
	}
	s.ctx.Detach()
	s.window.DetachCurrentContext()
}

func (s *glSurface) Placeholder() bool { return false }

func (s *glSurface) Show()  { s.window.Show() }
func (s *glSurface) Focus() { s.window.Focus() }

func (s *glSurface) Close() {
	s.Release()
	s.window.Close()
}
