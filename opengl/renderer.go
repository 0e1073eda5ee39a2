// Package opengl draws meshes and their tangent frames with an OpenGL 4.1
// core context.
package opengl

import (
	"fmt"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"tangent-engine/core"
	"tangent-engine/math"
	"tangent-engine/scene"
)

// ShadeMode selects what the mesh program writes to the framebuffer.
type ShadeMode int32

const (
	ShadeLit       ShadeMode = iota // vertex colour with directional light
	ShadeTangent                    // tangent.xyz * 0.5 + 0.5
	ShadeNormal                     // normal * 0.5 + 0.5
	ShadeHandedness                 // green right-handed, red left-handed
	shadeModeCount
)

func (m ShadeMode) String() string {
	switch m {
	case ShadeLit:
		return "lit"
	case ShadeTangent:
		return "tangent"
	case ShadeNormal:
		return "normal"
	case ShadeHandedness:
		return "handedness"
	}
	return fmt.Sprintf("ShadeMode(%d)", int32(m))
}

// Next cycles through the shade modes.
func (m ShadeMode) Next() ShadeMode {
	return (m + 1) % shadeModeCount
}

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool

	Frames *LineSet // tangent frame overlay, nil until SetFrameLines
}

// LineSet is an uploaded batch of GL_LINES segments.
type LineSet struct {
	VAO   uint32
	VBO   uint32
	Count int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program     uint32
	mvpLoc      int32
	modeLoc     int32
	lineProgram uint32
	lineMVPLoc  int32
	gpuMeshes   map[*scene.Mesh]*GPUMesh
	log         *slog.Logger
}

// vertex shader: MVP transform, passes normal and tangent through
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;
layout(location = 4) in vec4 inTangent;

uniform mat4 mvp;

out vec4 fragColor;
out vec3 fragNormal;
out vec4 fragTangent;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragColor   = inColor;
    fragNormal  = inNormal;
    fragTangent = inTangent;
}
` + "\x00"

const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec4 fragTangent;

uniform int mode;

out vec4 outColor;

void main() {
    vec3 n = normalize(fragNormal);
    if (mode == 1) {
        outColor = vec4(normalize(fragTangent.xyz) * 0.5 + 0.5, 1.0);
        return;
    }
    if (mode == 2) {
        outColor = vec4(n * 0.5 + 0.5, 1.0);
        return;
    }
    if (mode == 3) {
        outColor = fragTangent.w < 0.0 ? vec4(0.9, 0.2, 0.2, 1.0) : vec4(0.2, 0.8, 0.3, 1.0);
        return;
    }
    vec3  lightDir = normalize(vec3(0.5, -1.0, -0.5));
    float diff     = max(dot(n, -lightDir), 0.0);
    vec3  lit      = fragColor.rgb * (0.3 + 0.7 * diff);
    outColor = vec4(lit, fragColor.a);
}
` + "\x00"

const lineVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec4 inColor;

uniform mat4 mvp;

out vec4 fragColor;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragColor   = inColor;
}
` + "\x00"

const lineFragSrc = `
#version 410 core
in vec4 fragColor;
out vec4 outColor;

void main() {
    outColor = fragColor;
}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	lineProg, err := newProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("line shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		program:     prog,
		mvpLoc:      gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		modeLoc:     gl.GetUniformLocation(prog, gl.Str("mode\x00")),
		lineProgram: lineProg,
		lineMVPLoc:  gl.GetUniformLocation(lineProg, gl.Str("mvp\x00")),
		gpuMeshes:   make(map[*scene.Mesh]*GPUMesh),
		log:         log,
	}
	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer with the given colour.
func (r *Renderer) BeginFrame(sky core.Color) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMesh uploads mesh data on first use, then issues a draw call with the
// given MVP matrix.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp math.Mat4, mode ShadeMode) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	// Mat4 is [4][4]float32 stored column-major, pass directly (transpose=false).
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0][0])
	gl.Uniform1i(r.modeLoc, int32(mode))

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

// NewLineSet uploads line segments drawn with DrawLines.
func (r *Renderer) NewLineSet(lines []LineVertex) *LineSet {
	set := &LineSet{}
	gl.GenVertexArrays(1, &set.VAO)
	gl.GenBuffers(1, &set.VBO)
	r.updateLineSet(set, lines)
	return set
}

func (r *Renderer) updateLineSet(set *LineSet, lines []LineVertex) {
	set.Count = int32(len(lines))
	if len(lines) == 0 {
		return
	}

	stride := int32(unsafe.Sizeof(LineVertex{}))
	var lv LineVertex

	gl.BindVertexArray(set.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, set.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(lines)*int(stride), gl.Ptr(lines), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(lv.Position))))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(unsafe.Offsetof(lv.Color))))

	gl.BindVertexArray(0)
}

// DrawLines draws set with the given MVP matrix.
func (r *Renderer) DrawLines(set *LineSet, mvp math.Mat4) {
	if set == nil || set.Count == 0 {
		return
	}

	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.lineMVPLoc, 1, false, &mvp[0][0])

	gl.BindVertexArray(set.VAO)
	gl.DrawArrays(gl.LINES, 0, set.Count)
	gl.BindVertexArray(0)
}

// ReleaseLines frees the buffers of set.
func (r *Renderer) ReleaseLines(set *LineSet) {
	if set == nil {
		return
	}
	gl.DeleteVertexArrays(1, &set.VAO)
	gl.DeleteBuffers(1, &set.VBO)
	set.Count = 0
}

// SetFrameLines replaces the frame overlay of mesh, typically with the
// output of BuildFrameLines.
func (r *Renderer) SetFrameLines(mesh *scene.Mesh, lines []LineVertex) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	if gpu.Frames == nil {
		gpu.Frames = r.NewLineSet(lines)
		return
	}
	r.updateLineSet(gpu.Frames, lines)
}

// DrawFrames draws the overlay set with SetFrameLines, if any.
func (r *Renderer) DrawFrames(mesh *scene.Mesh, mvp math.Mat4) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		r.DrawLines(gpu.Frames, mvp)
	}
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		r.ReleaseLines(gpu.Frames)
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
	gl.DeleteProgram(r.lineProgram)
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}
	if !mesh.HasTangents {
		r.log.Warn("uploading mesh without tangents", "mesh", mesh.Name)
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)}, // location 0
		{3, unsafe.Offsetof(v.Normal)},   // location 1
		{2, unsafe.Offsetof(v.UV)},       // location 2
		{4, unsafe.Offsetof(v.Color)},    // location 3
		{4, unsafe.Offsetof(v.Tangent)},  // location 4, w = handedness
	}
	for loc, a := range attribs {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), a.size, gl.FLOAT, false, stride, gl.PtrOffset(int(a.offset)))
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
