package gfx

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

var _ GLContext = (*glContext)(nil)

type glContext struct {
	ready bool
}

func newGLContext() *glContext {
	return &glContext{}
}

func (c *glContext) Attach() error {
	if c.ready {
		return nil
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	c.ready = true
	return nil
}

func (c *glContext) Detach() {
	c.ready = false
}

func (c *glContext) Ready() bool {
	return c.ready
}

func (c *glContext) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *glContext) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (c *glContext) ColorMask(r, g, b, a bool) {
	gl.ColorMask(r, g, b, a)
}

func (c *glContext) DepthMask(flag bool) {
	gl.DepthMask(flag)
}

func (c *glContext) Clear(mask ClearMask) {
	gl.Clear(uint32(mask))
}

func (c *glContext) Info() GLInfo {
	if !c.ready {
		return GLInfo{}
	}
	return GLInfo{
		Version:  glString(gl.VERSION),
		Renderer: glString(gl.RENDERER),
		Vendor:   glString(gl.VENDOR),
		GLSL:     glString(gl.SHADING_LANGUAGE_VERSION),
	}
}

func glString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}
