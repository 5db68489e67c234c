package platform

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoContext is returned when a backend cannot create the requested GL context.
	ErrNoContext = errors.New("platform: graphics context unavailable")
	// ErrSwapFailed wraps buffer-swap failures reported by a backend.
	ErrSwapFailed = errors.New("platform: buffer swap failed")
)

type WindowConfig struct {
	PositionX int
	PositionY int
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
	Centered  bool
	Title     string
}

type Profile int

const (
	ProfileAny Profile = iota
	ProfileCore
	ProfileCompat
)

func (p Profile) String() string {
	switch p {
	case ProfileCore:
		return "core"
	case ProfileCompat:
		return "compat"
	default:
		return "any"
	}
}

func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Profile) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "any":
		*p = ProfileAny
	case "core":
		*p = ProfileCore
	case "compat", "compatibility":
		*p = ProfileCompat
	default:
		return fmt.Errorf("unknown context profile %q", text)
	}
	return nil
}

// ContextRequest describes the GL context a surface asks for. It is fixed at
// surface construction.
type ContextRequest struct {
	Major             int
	Minor             int
	Profile           Profile
	Samples           int
	ForwardCompatible bool
}

func (r ContextRequest) String() string {
	return fmt.Sprintf("%d.%d %s (samples=%d)", r.Major, r.Minor, r.Profile, r.Samples)
}

// ContextInfo is what the driver actually handed out, which can differ from the request.
type ContextInfo struct {
	Major   int
	Minor   int
	Profile Profile
	Samples int
}

func (i ContextInfo) Version() string {
	return fmt.Sprintf("%d.%d", i.Major, i.Minor)
}

// Window is a native top-level window. All methods must be called on the
// thread that runs the backend's EventPump.
type Window interface {
	Show()
	Focus()
	Close()
	// Alive reports whether the window is still open and displayed.
	Alive() bool
	// FramebufferSize returns the drawable size in pixels.
	FramebufferSize() (int, int)
	// SetEventHandler installs the receiver of Resize, Refresh and CloseRequest
	// events. It is invoked from inside the EventPump.
	SetEventHandler(handler func(Event))
}

// GLWindow is a Window owning a native GL context.
type GLWindow interface {
	Window
	MakeContextCurrent()
	DetachCurrentContext()
	SwapBuffers() error
	ContextInfo() ContextInfo
}

// EventPump dispatches native window events on the calling thread.
type EventPump interface {
	PollEvents()
	WaitEventsTimeout(timeout time.Duration)
	// PostEmptyEvent wakes a pump blocked in WaitEventsTimeout. Safe from any goroutine.
	PostEmptyEvent()
}

type Backend interface {
	EventPump
	NewGLWindow(conf WindowConfig, req ContextRequest) (GLWindow, error)
	// NewPlaceholderWindow creates a window without any client API.
	NewPlaceholderWindow(conf WindowConfig) (Window, error)
	Terminate()
}
