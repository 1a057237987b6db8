package sdlhost

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/points"
	"github.com/Faultbox/scatterbrush/internal/surface"
	"github.com/Faultbox/scatterbrush/internal/view"
	"github.com/Faultbox/scatterbrush/internal/widget"
)

const solidVertexShader = `
	#version 410 core

	layout (location = 0) in vec3 aPos;
	layout (location = 1) in vec4 aColor;

	uniform mat4 uProjection;

	out vec4 vColor;

	void main() {
		gl_Position = uProjection * vec4(aPos, 1.0);
		vColor = aColor;
	}
` + "\x00"

const solidFragmentShader = `
	#version 410 core

	in vec4 vColor;
	out vec4 FragColor;

	void main() {
		FragColor = vColor;
	}
` + "\x00"

// Renderer rasterizes the scene outline, the point cloud and the tool
// overlay. It implements brush.Renderer; the overlay is kept until the
// tool replaces or clears it.
type Renderer struct {
	program uint32
	vao     uint32
	vbo     uint32

	overlay widget.Layers
	batch   Batch
	log     *zap.Logger
}

// NewRenderer compiles the shader and creates the vertex buffers. It must
// be called after the GL context exists.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{log: log}
	var err error
	if r.program, err = linkProgram(solidVertexShader, solidFragmentShader); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	return r, nil
}

// Draw implements brush.Renderer.
func (r *Renderer) Draw(l widget.Layers) {
	r.overlay.Clear()
	r.overlay.View = append(r.overlay.View, l.View...)
	r.overlay.Pixel = append(r.overlay.Pixel, l.Pixel...)
}

// Clear implements brush.Renderer.
func (r *Renderer) Clear() { r.overlay.Clear() }

// Frame draws one frame into the current framebuffer.
func (r *Renderer) Frame(v *view.View, surfaces []*surface.Surface, t *points.Target) {
	gl.Viewport(0, 0, int32(v.Width), int32(v.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.batch.Reset()
	r.batch.Surfaces(surfaces, v)
	if t != nil {
		r.batch.Points(t, surfaces, v)
	}
	r.batch.Layers(r.overlay, v)
	if r.batch.Len() == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := ortho(0, float32(v.Width), 0, float32(v.Height))
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(gl.GetUniformLocation(r.program, gl.Str("uProjection\x00")), 1, false, &proj[0])
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.batch.Vertices)*4, unsafe.Pointer(&r.batch.Vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(r.batch.Len()))

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Close releases GL resources.
func (r *Renderer) Close() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// ortho maps region pixels with a bottom-left origin to clip space.
func ortho(left, right, bottom, top float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -1, 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), 0, 1,
	}
}

func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(program, n, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", log)
	}
	return program, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(shader, n, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}
	return shader, nil
}
