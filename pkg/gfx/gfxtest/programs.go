package gfxtest

import (
	"slices"
	"strings"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

// ErrorDirective in a shader source makes it fail to compile.
const ErrorDirective = "#error"

type shader struct {
	kind     gfx.ShaderKind
	source   string
	compiled bool
	log      string
}

type program struct {
	shaders  []uint32
	linked   bool
	log      string
	blocks   []string
	points   map[uint32]uint32
	uniforms map[int32][]float32
}

func nulTerminated(s string) int {
	if s == "" {
		return 0
	}
	return len(s) + 1
}

func (d *Driver) CreateShader(kind gfx.ShaderKind) uint32 {
	switch kind {
	case gfx.VertexShader, gfx.FragmentShader, gfx.GeometryShader, gfx.ComputeShader:
	default:
		d.fail(gfx.InvalidEnum)
		return 0
	}
	id := d.gen()
	if id != 0 {
		d.shaders[id] = &shader{kind: kind}
	}
	return id
}

func (d *Driver) DeleteShader(id uint32) {
	delete(d.shaders, id)
}

func (d *Driver) IsShader(id uint32) bool {
	_, ok := d.shaders[id]
	return ok
}

func (d *Driver) ShaderSource(id uint32, source string) {
	s, ok := d.shaders[id]
	if !ok {
		d.fail(gfx.InvalidValue)
		return
	}
	s.source = source
}

func (d *Driver) CompileShader(id uint32) {
	s, ok := d.shaders[id]
	if !ok {
		d.fail(gfx.InvalidValue)
		return
	}
	s.compiled = strings.TrimSpace(s.source) != "" && !strings.Contains(s.source, ErrorDirective)
	s.log = ""
	if !s.compiled {
		s.log = "0:1(1): error: " + s.kind.String() + " shader rejected\n"
	}
}

func (d *Driver) ShaderParameter(id uint32, param gfx.ObjectParam) int {
	s, ok := d.shaders[id]
	if !ok {
		d.fail(gfx.InvalidValue)
		return 0
	}
	switch param {
	case gfx.CompileStatus:
		return boolInt(s.compiled)
	case gfx.InfoLogLength:
		return nulTerminated(s.log)
	}
	d.fail(gfx.InvalidEnum)
	return 0
}

func (d *Driver) ShaderInfoLog(id uint32) string {
	if s, ok := d.shaders[id]; ok {
		return s.log
	}
	return ""
}

func (d *Driver) CreateProgram() uint32 {
	id := d.gen()
	if id != 0 {
		d.programs[id] = &program{}
	}
	return id
}

func (d *Driver) DeleteProgram(id uint32) {
	delete(d.programs, id)
	if d.current == id {
		d.current = 0
	}
}

func (d *Driver) IsProgram(id uint32) bool {
	_, ok := d.programs[id]
	return ok
}

func (d *Driver) AttachShader(prog, sh uint32) {
	p, ok := d.programs[prog]
	if _, live := d.shaders[sh]; !ok || !live {
		d.fail(gfx.InvalidValue)
		return
	}
	p.shaders = append(p.shaders, sh)
}

func (d *Driver) LinkProgram(id uint32) {
	p, ok := d.programs[id]
	if !ok {
		d.fail(gfx.InvalidValue)
		return
	}
	p.linked = !d.LinkFails && len(p.shaders) > 0
	for _, sh := range p.shaders {
		if s, ok := d.shaders[sh]; !ok || !s.compiled {
			p.linked = false
		}
	}
	p.log = ""
	p.blocks = nil
	p.points = make(map[uint32]uint32)
	p.uniforms = make(map[int32][]float32)
	if !p.linked {
		p.log = "error: linking with uncompiled or missing shaders\n"
		return
	}
	for name := range d.Blocks {
		p.blocks = append(p.blocks, name)
	}
	slices.Sort(p.blocks)
}

func (d *Driver) ProgramParameter(id uint32, param gfx.ObjectParam) int {
	p, ok := d.programs[id]
	if !ok {
		d.fail(gfx.InvalidValue)
		return 0
	}
	switch param {
	case gfx.LinkStatus:
		return boolInt(p.linked)
	case gfx.InfoLogLength:
		return nulTerminated(p.log)
	case gfx.AttachedCount:
		return len(p.shaders)
	case gfx.ActiveBlocks:
		return len(p.blocks)
	case gfx.ActiveUniforms:
		if p.linked {
			return len(d.Uniforms)
		}
		return 0
	}
	d.fail(gfx.InvalidEnum)
	return 0
}

func (d *Driver) ProgramInfoLog(id uint32) string {
	if p, ok := d.programs[id]; ok {
		return p.log
	}
	return ""
}

func (d *Driver) UseProgram(id uint32) {
	if d.IgnoreBind[gfx.ProgramTarget] {
		return
	}
	if p, ok := d.programs[id]; id != 0 && (!ok || !p.linked) {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.current = id
}

func (d *Driver) linked(id uint32) *program {
	p, ok := d.programs[id]
	if !ok || !p.linked {
		d.fail(gfx.InvalidOperation)
		return nil
	}
	return p
}

func (d *Driver) UniformBlockIndex(prog uint32, name string) uint32 {
	p := d.linked(prog)
	if p == nil {
		return gfx.InvalidBlockIndex
	}
	if i := slices.Index(p.blocks, name); i >= 0 {
		return uint32(i)
	}
	return gfx.InvalidBlockIndex
}

func (d *Driver) UniformBlockBinding(prog, index, point uint32) {
	p := d.linked(prog)
	if p == nil {
		return
	}
	if int(index) >= len(p.blocks) || int(point) >= d.MaxUniformBindings {
		d.fail(gfx.InvalidValue)
		return
	}
	p.points[index] = point
}

func (d *Driver) UniformBlockParameter(prog, index uint32, param gfx.BlockParam) int {
	p := d.linked(prog)
	if p == nil {
		return 0
	}
	if int(index) >= len(p.blocks) {
		d.fail(gfx.InvalidValue)
		return 0
	}
	switch param {
	case gfx.BlockBinding:
		return int(p.points[index])
	case gfx.BlockDataSize:
		return d.Blocks[p.blocks[index]]
	}
	d.fail(gfx.InvalidEnum)
	return 0
}

func (d *Driver) UniformLocation(prog uint32, name string) int32 {
	if d.linked(prog) == nil {
		return -1
	}
	return int32(slices.Index(d.Uniforms, name))
}

func (d *Driver) Uniformf(location int32, v []float32) {
	p, ok := d.programs[d.current]
	if !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	if location < 0 || int(location) >= len(d.Uniforms) || len(v) < 1 || len(v) > 4 {
		d.fail(gfx.InvalidValue)
		return
	}
	p.uniforms[location] = append([]float32(nil), v...)
}

// UniformValue returns the last value set for a uniform of program prog.
func (d *Driver) UniformValue(prog uint32, name string) []float32 {
	p, ok := d.programs[prog]
	if !ok {
		return nil
	}
	return p.uniforms[int32(slices.Index(d.Uniforms, name))]
}

// BlockBinding returns the binding point of a uniform block of program prog.
func (d *Driver) BlockBinding(prog uint32, name string) (uint32, bool) {
	p, ok := d.programs[prog]
	if !ok {
		return 0, false
	}
	i := slices.Index(p.blocks, name)
	if i < 0 {
		return 0, false
	}
	point, ok := p.points[uint32(i)]
	return point, ok
}
