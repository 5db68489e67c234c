package renderer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/kjkrol/gokview/pkg/gfx"
)

var (
	_ gfx.Scene  = (*renderer)(nil)
	_ gfx.Closer = (*renderer)(nil)
)

// view is the part of gfx.Viewer the renderer draws against.
type view interface {
	Width() int
	Height() int
	GLContext() gfx.GLContext
}

type renderer struct {
	view view
	conf RendererConfig
	now  func() time.Time

	mu      sync.Mutex
	pending []*Mesh
	models  int

	initialized bool
	initErr     error
	start       time.Time
	program     uint32
	mvpUniform  int32
	meshes      []*meshState
}

type meshState struct {
	name  string
	vao   uint32
	vbo   uint32
	ebo   uint32
	count int32
}

func newRenderer(v view, conf RendererConfig) *renderer {
	if conf.ShaderSource == "" {
		conf.ShaderSource = DefaultShaderSource
	}
	if conf.FieldOfView <= 0 {
		conf.FieldOfView = 45
	}
	if conf.Distance <= 0 {
		conf.Distance = 3
	}
	return &renderer{
		view: v,
		conf: conf,
		now:  time.Now,
	}
}

// AddModel accepts *Mesh values; they are uploaded on the next frame.
func (r *renderer) AddModel(m gfx.Model) {
	mesh, ok := m.(*Mesh)
	if !ok || !mesh.valid() {
		gfx.Logger().Warn("unsupported model ignored", "type", fmt.Sprintf("%T", m))
		return
	}
	r.mu.Lock()
	r.pending = append(r.pending, mesh)
	r.models++
	r.mu.Unlock()
}

// ModelCount returns the number of models accepted so far.
func (r *renderer) ModelCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.models
}

func (r *renderer) RenderModels() {
	ctx := r.view.GLContext()
	if ctx == nil || !ctx.Ready() {
		return
	}
	if err := r.ensureInit(); err != nil {
		return
	}
	r.uploadPending()

	width, height := r.view.Width(), r.view.Height()
	if width <= 0 || height <= 0 || len(r.meshes) == 0 {
		return
	}

	mvp := projection(r.conf.FieldOfView, width, height).
		Mul4(viewMatrix(r.conf.Distance)).
		Mul4(spin(r.conf.SpinRate, r.now().Sub(r.start)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpUniform, 1, false, &mvp[0])
	for _, m := range r.meshes {
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
}

func (r *renderer) Close() {
	if !r.initialized {
		return
	}
	for _, m := range r.meshes {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	r.meshes = nil
	r.initialized = false
}

// ensureInit builds the program once. A failure is logged once and sticks.
func (r *renderer) ensureInit() error {
	if r.initialized {
		return nil
	}
	if r.initErr != nil {
		return r.initErr
	}
	program, err := r.buildProgram()
	if err != nil {
		r.initErr = err
		gfx.Logger().Error("scene renderer disabled", "err", err)
		return err
	}
	r.program = program
	r.mvpUniform = gl.GetUniformLocation(r.program, gl.Str("uMVP\x00"))
	r.start = r.now()
	r.initialized = true
	return nil
}

func (r *renderer) uploadPending() {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, mesh := range pending {
		r.meshes = append(r.meshes, upload(mesh))
		gfx.Logger().Debug("model uploaded", "name", mesh.Name, "vertices", len(mesh.Positions))
	}
}

func upload(mesh *Mesh) *meshState {
	state := &meshState{name: mesh.Name, count: int32(len(mesh.Indices))}
	data := interleave(mesh)

	gl.GenVertexArrays(1, &state.vao)
	gl.BindVertexArray(state.vao)

	gl.GenBuffers(1, &state.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, state.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &state.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, state.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))

	gl.BindVertexArray(0)
	return state
}

func (r *renderer) buildProgram() (uint32, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, buildShaderSource(r.conf.ShaderSource, "VERTEX"))
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, buildShaderSource(r.conf.ShaderSource, "FRAGMENT"))
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link error: %s", log)
	}
	return program, nil
}

func buildShaderSource(source, stage string) string {
	var sb strings.Builder
	sb.WriteString("#version 330 core\n")
	sb.WriteString("#define " + stage + "\n")
	sb.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile error: %s", log)
	}
	return shader, nil
}
