// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrainview/internal/engine/shader/shaders"
)

// Uniform names used by the scene program.
const (
	UniformCombined = "combined_xform"
	UniformModel    = "model_xform"
	UniformSampler  = "sampler_tex"
	UniformLightDir = "light_direction"
	UniformAmbient  = "ambient_colour"
	UniformTint     = "tint_colour"
	UniformUnlit    = "unlit"
)

// SceneUniforms lists every uniform the scene program must expose.
var SceneUniforms = []string{
	UniformCombined, UniformModel, UniformSampler,
	UniformLightDir, UniformAmbient, UniformTint, UniformUnlit,
}

// Program is a linked shader program with cached uniform locations.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// NewScene compiles the embedded scene program.
func NewScene() (*Program, error) {
	return New(shaders.SceneVertexShader, shaders.SceneFragmentShader, SceneUniforms...)
}

// New compiles and links a program and looks up the named uniforms.
// Uniforms the driver optimised away resolve to -1 and are ignored on set.
func New(vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	p := &Program{id: id, uniforms: make(map[string]int32, len(uniforms))}
	for _, name := range uniforms {
		p.uniforms[name] = GetUniform(id, name)
	}
	return p, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use makes the program current.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) location(name string) int32 {
	loc, ok := p.uniforms[name]
	if !ok {
		loc = GetUniform(p.id, name)
		p.uniforms[name] = loc
	}
	return loc
}

// SetMat4 sets a mat4 uniform.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

// SetBool sets a bool uniform.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name, or -1 if the
// uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
