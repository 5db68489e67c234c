package gfx

// ClearMask selects the buffers cleared by GLContext.Clear. Values match the
// GL bit constants.
type ClearMask uint32

const (
	DepthBufferBit ClearMask = 0x00000100
	ColorBufferBit ClearMask = 0x00004000
)

type GLInfo struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// GLContext exposes the GL entry points of a viewer to the render engine.
// One instance lives as long as its Viewer. Attach must run with the
// viewer's context current; every other call requires Ready.
type GLContext interface {
	Attach() error
	Detach()
	Ready() bool

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	ColorMask(r, g, b, a bool)
	DepthMask(flag bool)
	Clear(mask ClearMask)
	Info() GLInfo
}
