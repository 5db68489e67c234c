package gfx

// viewportSync defers viewport updates to the next paint. Resize notifications
// only mark the viewport dirty; the GL call happens in apply, where the
// context is current. Both run on the queue thread.
type viewportSync struct {
	dirty bool
}

func newViewportSync() *viewportSync {
	return &viewportSync{dirty: true}
}

func (v *viewportSync) Invalidate() {
	v.dirty = true
}

func (v *viewportSync) Dirty() bool {
	return v.dirty
}

// apply sets the viewport to width x height if a resize is pending and
// reports whether it did.
func (v *viewportSync) apply(ctx GLContext, width, height int) bool {
	if !v.dirty {
		return false
	}
	ctx.Viewport(0, 0, width, height)
	v.dirty = false
	return true
}
