package gfx

// Model is a loaded model as produced by a loader outside this package. The
// viewer hands it to its Scene unchanged.
type Model interface{}

// Scene is the render engine seen from the viewer. RenderModels is called
// once per frame, after the buffers are cleared and before they are swapped.
type Scene interface {
	AddModel(m Model)
	RenderModels()
}

// Preparer is implemented by scenes that need a hook before the frame is cleared.
type Preparer interface {
	PrepareRender()
}

// Closer is implemented by scenes owning GL resources. Close runs while the
// viewer's context is still current.
type Closer interface {
	Close()
}

type SceneFactory func(v *Viewer) Scene
