package gldriver

import (
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

func (d *Driver) CreateShader(kind gfx.ShaderKind) uint32 {
	return gl.CreateShader(uint32(kind))
}

func (d *Driver) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (d *Driver) IsShader(id uint32) bool {
	return gl.IsShader(id)
}

func (d *Driver) ShaderSource(id uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
}

func (d *Driver) CompileShader(id uint32) {
	gl.CompileShader(id)
}

func (d *Driver) ShaderParameter(id uint32, param gfx.ObjectParam) int {
	var v int32
	gl.GetShaderiv(id, uint32(param), &v)
	return int(v)
}

func (d *Driver) ShaderInfoLog(id uint32) string {
	var logLength int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(id, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Driver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *Driver) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (d *Driver) IsProgram(id uint32) bool {
	return gl.IsProgram(id)
}

func (d *Driver) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *Driver) LinkProgram(id uint32) {
	gl.LinkProgram(id)
}

func (d *Driver) ProgramParameter(id uint32, param gfx.ObjectParam) int {
	var v int32
	gl.GetProgramiv(id, uint32(param), &v)
	return int(v)
}

func (d *Driver) ProgramInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Driver) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *Driver) UniformBlockIndex(program uint32, name string) uint32 {
	return gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
}

func (d *Driver) UniformBlockBinding(program, index, point uint32) {
	gl.UniformBlockBinding(program, index, point)
}

func (d *Driver) UniformBlockParameter(program, index uint32, param gfx.BlockParam) int {
	var v int32
	gl.GetActiveUniformBlockiv(program, index, uint32(param), &v)
	return int(v)
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) Uniformf(location int32, v []float32) {
	switch len(v) {
	case 1:
		gl.Uniform1f(location, v[0])
	case 2:
		gl.Uniform2f(location, v[0], v[1])
	case 3:
		gl.Uniform3f(location, v[0], v[1], v[2])
	case 4:
		gl.Uniform4f(location, v[0], v[1], v[2], v[3])
	}
}
