package platform

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// GLFW must run on the process main thread; init keeps the main goroutine there.
func init() {
	runtime.LockOSThread()
}

type glfwBackend struct{}

// NewGLFWBackend initializes GLFW. Call it, and every later method of the
// backend, from the main goroutine.
func NewGLFWBackend() (Backend, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	return &glfwBackend{}, nil
}

func (b *glfwBackend) PollEvents() {
	glfw.PollEvents()
}

func (b *glfwBackend) WaitEventsTimeout(timeout time.Duration) {
	if timeout <= 0 {
		glfw.PollEvents()
		return
	}
	glfw.WaitEventsTimeout(timeout.Seconds())
}

func (b *glfwBackend) PostEmptyEvent() {
	glfw.PostEmptyEvent()
}

func (b *glfwBackend) Terminate() {
	glfw.Terminate()
}

func (b *glfwBackend) NewGLWindow(conf WindowConfig, req ContextRequest) (GLWindow, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, req.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, req.Minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfwProfile(req.Profile))
	if req.ForwardCompatible {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	if req.Samples > 0 {
		glfw.WindowHint(glfw.Samples, req.Samples)
	}

	win, err := createWindow(conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoContext, req, err)
	}
	w := &glfwWindow{win: win, samples: req.Samples}
	w.configure(conf)
	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	return w, nil
}

func (b *glfwBackend) NewPlaceholderWindow(conf WindowConfig) (Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := createWindow(conf)
	if err != nil {
		return nil, fmt.Errorf("placeholder window: %w", err)
	}
	w := &glfwWindow{win: win}
	w.configure(conf)
	return w, nil
}

// createWindow turns the panics GLFW raises for fatal errors into an error.
func createWindow(conf WindowConfig) (win *glfw.Window, err error) {
	defer func() {
		if r := recover(); r != nil {
			win, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
}

func glfwProfile(p Profile) int {
	switch p {
	case ProfileCore:
		return glfw.OpenGLCoreProfile
	case ProfileCompat:
		return glfw.OpenGLCompatProfile
	default:
		return glfw.OpenGLAnyProfile
	}
}

func profileFromGLFW(v int) Profile {
	switch v {
	case glfw.OpenGLCoreProfile:
		return ProfileCore
	case glfw.OpenGLCompatProfile:
		return ProfileCompat
	default:
		return ProfileAny
	}
}

// ----------------------------------------------------------------------------

type glfwWindow struct {
	win     *glfw.Window
	handler func(Event)
	samples int
	closed  bool
}

func (w *glfwWindow) configure(conf WindowConfig) {
	if conf.MinWidth > 0 || conf.MinHeight > 0 {
		w.win.SetSizeLimits(conf.MinWidth, conf.MinHeight, glfw.DontCare, glfw.DontCare)
	}
	x, y := conf.PositionX, conf.PositionY
	if conf.Centered {
		if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
			if mode := monitor.GetVideoMode(); mode != nil {
				width, height := w.win.GetSize()
				x = (mode.Width - width) / 2
				y = (mode.Height - height) / 2
			}
		}
	}
	w.win.SetPos(x, y)

	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.emit(Resize{Width: width, Height: height})
	})
	w.win.SetRefreshCallback(func(_ *glfw.Window) {
		w.emit(Refresh{})
	})
	w.win.SetCloseCallback(func(_ *glfw.Window) {
		w.emit(CloseRequest{})
	})
}

func (w *glfwWindow) emit(event Event) {
	if w.handler != nil {
		w.handler(event)
	}
}

func (w *glfwWindow) SetEventHandler(handler func(Event)) {
	w.handler = handler
}

func (w *glfwWindow) Show() {
	if w.closed {
		return
	}
	w.win.Show()
}

func (w *glfwWindow) Focus() {
	if w.closed {
		return
	}
	w.win.Focus()
}

func (w *glfwWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.handler = nil
	w.win.Destroy()
}

func (w *glfwWindow) Alive() bool {
	if w.closed {
		return false
	}
	return !w.win.ShouldClose() && w.win.GetAttrib(glfw.Visible) == glfw.True
}

func (w *glfwWindow) FramebufferSize() (int, int) {
	if w.closed {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

func (w *glfwWindow) MakeContextCurrent() {
	if w.closed {
		return
	}
	w.win.MakeContextCurrent()
}

func (w *glfwWindow) DetachCurrentContext() {
	glfw.DetachCurrentContext()
}

func (w *glfwWindow) SwapBuffers() (err error) {
	if w.closed {
		return fmt.Errorf("%w: window closed", ErrSwapFailed)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSwapFailed, r)
		}
	}()
	w.win.SwapBuffers()
	return nil
}

func (w *glfwWindow) ContextInfo() ContextInfo {
	if w.closed {
		return ContextInfo{}
	}
	return ContextInfo{
		Major:   w.win.GetAttrib(glfw.ContextVersionMajor),
		Minor:   w.win.GetAttrib(glfw.ContextVersionMinor),
		Profile: profileFromGLFW(w.win.GetAttrib(glfw.OpenGLProfile)),
		Samples: w.samples,
	}
}
