package platform

type Event interface{}

// Resize carries the new framebuffer size in pixels.
type Resize struct {
	Width  int
	Height int
}

// Refresh asks for the window contents to be redrawn (expose).
type Refresh struct{}

type CloseRequest struct{}
