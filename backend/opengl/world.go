// Package opengl provides an OpenGL 4.1 render world for the debug renderer.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/debugdraw"
)

// World implements debugdraw.RenderWorld using OpenGL.
// All methods must be called on the thread owning the GL context.
type World struct {
	vao, vbo uint32
	ebo      uint32

	defaultVertex   uint32
	defaultFragment uint32

	vertexShaders   map[debugdraw.VertexProgram]uint32
	fragmentShaders map[debugdraw.FragmentProgram]uint32
	programs        map[debugdraw.ProgramPair]linkedProgram
}

type linkedProgram struct {
	id          uint32
	viewProjLoc int32
}

// Vertex shader source. Custom vertex programs must read position from
// location 0, color from location 1 and use the viewProjection uniform.
const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

out vec4 Color;

uniform mat4 viewProjection;

void main() {
    gl_Position = viewProjection * vec4(aPos, 1.0);
    Color = aColor;
}
` + "\x00"

// Fragment shader source. Custom fragment programs receive Color.
const fragmentShaderSource = `
#version 410 core
in vec4 Color;

out vec4 FragColor;

void main() {
    FragColor = Color;
}
` + "\x00"

// NewWorld creates a new OpenGL debug render world.
func NewWorld() (*World, error) {
	w := &World{
		vertexShaders:   make(map[debugdraw.VertexProgram]uint32),
		fragmentShaders: make(map[debugdraw.FragmentProgram]uint32),
		programs:        make(map[debugdraw.ProgramPair]linkedProgram),
	}

	var err error
	w.defaultVertex, err = compileShader(gl.VERTEX_SHADER, vertexShaderSource)
	if err != nil {
		return nil, fmt.Errorf("default vertex program: %w", err)
	}
	w.defaultFragment, err = compileShader(gl.FRAGMENT_SHADER, fragmentShaderSource)
	if err != nil {
		gl.DeleteShader(w.defaultVertex)
		return nil, fmt.Errorf("default fragment program: %w", err)
	}

	// Create VAO
	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	// Create VBO
	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)

	// Create EBO
	gl.GenBuffers(1, &w.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, w.ebo)

	// Vertex layout: Pos (3 floats) + Color (1 uint32)
	stride := int32(unsafe.Sizeof(debugdraw.Vertex{}))

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Color attribute (normalized uint8x4)
	gl.VertexAttribPointerWithOffset(1, 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(debugdraw.Vertex{}.Color))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	return w, nil
}

// CompileVertexProgram compiles GLSL source into a vertex program handle.
func (w *World) CompileVertexProgram(src string) (debugdraw.VertexProgram, error) {
	shader, err := compileShader(gl.VERTEX_SHADER, src)
	if err != nil {
		return 0, err
	}
	h := debugdraw.VertexProgram(shader)
	w.vertexShaders[h] = shader
	return h, nil
}

// CompileFragmentProgram compiles GLSL source into a fragment program handle.
func (w *World) CompileFragmentProgram(src string) (debugdraw.FragmentProgram, error) {
	shader, err := compileShader(gl.FRAGMENT_SHADER, src)
	if err != nil {
		return 0, err
	}
	h := debugdraw.FragmentProgram(shader)
	w.fragmentShaders[h] = shader
	return h, nil
}

// DeleteVertexProgram releases a vertex program and every program linked with it.
func (w *World) DeleteVertexProgram(h debugdraw.VertexProgram) {
	shader, ok := w.vertexShaders[h]
	if !ok {
		return
	}
	for pair, p := range w.programs {
		if pair.Vertex == h {
			gl.DeleteProgram(p.id)
			delete(w.programs, pair)
		}
	}
	gl.DeleteShader(shader)
	delete(w.vertexShaders, h)
}

// DeleteFragmentProgram releases a fragment program and every program linked with it.
func (w *World) DeleteFragmentProgram(h debugdraw.FragmentProgram) {
	shader, ok := w.fragmentShaders[h]
	if !ok {
		return
	}
	for pair, p := range w.programs {
		if pair.Fragment == h {
			gl.DeleteProgram(p.id)
			delete(w.programs, pair)
		}
	}
	gl.DeleteShader(shader)
	delete(w.fragmentShaders, h)
}

// program returns the linked program for a handle pair, linking it on first use.
func (w *World) program(pair debugdraw.ProgramPair) (linkedProgram, error) {
	if p, ok := w.programs[pair]; ok {
		return p, nil
	}

	vs := w.defaultVertex
	if pair.Vertex != debugdraw.DefaultVertexProgram {
		s, ok := w.vertexShaders[pair.Vertex]
		if !ok {
			debugdraw.Logger().Warn("opengl: unknown vertex program", "handle", pair.Vertex)
		} else {
			vs = s
		}
	}
	fs := w.defaultFragment
	if pair.Fragment != debugdraw.DefaultFragmentProgram {
		s, ok := w.fragmentShaders[pair.Fragment]
		if !ok {
			debugdraw.Logger().Warn("opengl: unknown fragment program", "handle", pair.Fragment)
		} else {
			fs = s
		}
	}

	id, err := linkProgram(vs, fs)
	if err != nil {
		return linkedProgram{}, err
	}
	p := linkedProgram{
		id:          id,
		viewProjLoc: gl.GetUniformLocation(id, gl.Str("viewProjection\x00")),
	}
	w.programs[pair] = p
	debugdraw.Logger().Debug("opengl: linked debug program",
		"vertex", pair.Vertex, "fragment", pair.Fragment, "program", id)
	return p, nil
}

// Render draws the debug DrawList.
func (w *World) Render(dl *debugdraw.DrawList) error {
	if dl == nil || len(dl.VtxBuffer) == 0 {
		return nil
	}

	dl.Finalize()

	// Save GL state
	var lastProgram int32
	var lastBlendSrc, lastBlendDst int32
	var blendEnabled, depthEnabled, cullEnabled bool

	gl.GetIntegerv(gl.CURRENT_PROGRAM, &lastProgram)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &lastBlendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &lastBlendDst)
	blendEnabled = gl.IsEnabled(gl.BLEND)
	depthEnabled = gl.IsEnabled(gl.DEPTH_TEST)
	cullEnabled = gl.IsEnabled(gl.CULL_FACE)

	// Setup render state
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)

	// Bind VAO and upload data
	gl.BindVertexArray(w.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(dl.VtxBuffer)*int(unsafe.Sizeof(debugdraw.Vertex{})),
		gl.Ptr(dl.VtxBuffer), gl.STREAM_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, w.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(dl.IdxBuffer)*2,
		gl.Ptr(dl.IdxBuffer), gl.STREAM_DRAW)

	var renderErr error
	current := uint32(0)
	for _, cmd := range dl.CmdBuffer {
		if cmd.ElemCount == 0 {
			continue
		}

		p, err := w.program(cmd.Programs())
		if err != nil {
			renderErr = err
			break
		}
		if p.id != current {
			gl.UseProgram(p.id)
			current = p.id
		}
		m := dl.Matrix(cmd.Space)
		gl.UniformMatrix4fv(p.viewProjLoc, 1, false, &m[0])

		if cmd.DepthTest {
			gl.Enable(gl.DEPTH_TEST)
		} else {
			gl.Disable(gl.DEPTH_TEST)
		}

		mode := uint32(gl.LINES)
		if cmd.Mode == debugdraw.ModeTriangles {
			mode = gl.TRIANGLES
		}

		gl.DrawElementsBaseVertexWithOffset(
			mode,
			int32(cmd.ElemCount),
			gl.UNSIGNED_SHORT,
			uintptr(cmd.IndexOffset)*2,
			int32(cmd.VertexOffset),
		)
	}

	// Restore GL state
	gl.UseProgram(uint32(lastProgram))
	gl.BlendFunc(uint32(lastBlendSrc), uint32(lastBlendDst))

	if blendEnabled {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
	if depthEnabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if cullEnabled {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	gl.BindVertexArray(0)

	return renderErr
}

// Delete releases OpenGL resources.
func (w *World) Delete() {
	for pair, p := range w.programs {
		gl.DeleteProgram(p.id)
		delete(w.programs, pair)
	}
	for h, s := range w.vertexShaders {
		gl.DeleteShader(s)
		delete(w.vertexShaders, h)
	}
	for h, s := range w.fragmentShaders {
		gl.DeleteShader(s)
		delete(w.fragmentShaders, h)
	}
	if w.defaultVertex != 0 {
		gl.DeleteShader(w.defaultVertex)
		w.defaultVertex = 0
	}
	if w.defaultFragment != 0 {
		gl.DeleteShader(w.defaultFragment)
		w.defaultFragment = 0
	}
	if w.ebo != 0 {
		gl.DeleteBuffers(1, &w.ebo)
	}
	if w.vbo != 0 {
		gl.DeleteBuffers(1, &w.vbo)
	}
	if w.vao != 0 {
		gl.DeleteVertexArrays(1, &w.vao)
	}
}

// compileShader compiles a single shader stage.
func compileShader(kind uint32, source string) (uint32, error) {
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}

	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s compilation failed: %s", stageName(kind), string(log))
	}
	return shader, nil
}

// linkProgram links a vertex and fragment shader. The shaders stay owned by
// the World so they can be linked into other pairs.
func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}

	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex shader"
	case gl.FRAGMENT_SHADER:
		return "fragment shader"
	default:
		return "shader"
	}
}
