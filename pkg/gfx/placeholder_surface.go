package gfx

import "github.com/kjkrol/gokview/internal/platform"

var _ RenderSurface = (*placeholderSurface)(nil)

// placeholderSurface stands in for a surface whose GL context could not be
// created. It keeps the window around but never draws.
type placeholderSurface struct {
	window   platform.Window
	cause    error
	released bool
}

func newPlaceholderSurface(window platform.Window, cause error) *placeholderSurface {
	return &placeholderSurface{window: window, cause: cause}
}

func (s *placeholderSurface) Initialize() error { return nil }
func (s *placeholderSurface) Paint()            {}

func (s *placeholderSurface) Width() int {
	width, _ := s.window.FramebufferSize()
	return width
}

func (s *placeholderSurface) Height() int {
	_, height := s.window.FramebufferSize()
	return height
}

func (s *placeholderSurface) Valid() bool {
	return !s.released && s.window.Alive()
}

func (s *placeholderSurface) Release() {
	s.released = true
}

func (s *placeholderSurface) Placeholder() bool { return true }

// Cause is the error that forced the fallback.
func (s *placeholderSurface) Cause() error { return s.cause }

func (s *placeholderSurface) Show()  { s.window.Show() }
func (s *placeholderSurface) Focus() { s.window.Focus() }

func (s *placeholderSurface) Close() {
	s.Release()
	s.window.Close()
}
