package gfx

import (
	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
)

// Program is a linked set of shaders.
type Program struct {
	Handle
	locations map[string]int32
}

// NewProgram links shaders into a new program. Check Valid on the result.
func NewProgram(gc *Context, shaders ...*Shader) *Program {
	p := &Program{}
	p.Initialize(gc, shaders...)
	return p
}

// Initialize attaches every shader and links them. At least one shader is
// needed and all of them must be valid.
func (p *Program) Initialize(gc *Context, shaders ...*Shader) bool {
	p.Finalize()
	p.reset(gc, ObjectProgram)
	if gc == nil {
		return p.fail(InvalidData)
	}
	if len(shaders) == 0 {
		return p.fail(InsufficientCount)
	}
	for _, s := range shaders {
		if s == nil || !s.Valid() {
			return p.fail(InsufficientCount)
		}
	}
	sw := perf.Start()
	defer sw.StopRecordAverage("gfx.linkProgram")

	p.id = gc.drv.CreateProgram()
	if p.id == 0 {
		return p.fail(CreationFailed)
	}
	for _, s := range shaders {
		gc.drv.AttachShader(p.id, s.id)
	}
	gc.drv.LinkProgram(p.id)
	if gc.drv.ProgramParameter(p.id, LinkStatus) == 0 {
		return p.failInfo(LinkFailed, gc.drv.ProgramInfoLog(p.id))
	}
	p.locations = make(map[string]int32)
	log.Debugf("linked program %d from %d shaders", p.id, len(shaders))
	return true
}

// Finalize deletes the program.
func (p *Program) Finalize() {
	p.release()
	p.locations = nil
}

func (p *Program) Target() Target {
	return ProgramTarget
}

// Use makes the program current until the returned Binder is released.
func (p *Program) Use() *Binder {
	return Bind(p)
}

// UniformBlockIndex returns the index of the named uniform block.
func (p *Program) UniformBlockIndex(name string) (uint32, bool) {
	if !p.Valid() {
		return InvalidBlockIndex, false
	}
	index := p.ctx.drv.UniformBlockIndex(p.id, name)
	return index, index != InvalidBlockIndex
}

// UniformBlockBind connects uniform block index to a buffer binding point.
func (p *Program) UniformBlockBind(index, point uint32) bool {
	if !p.Valid() || index == InvalidBlockIndex {
		return false
	}
	p.ctx.drv.UniformBlockBinding(p.id, index, point)
	return p.ctx.drv.UniformBlockParameter(p.id, index, BlockBinding) == int(point)
}

// UniformBlockSize returns the data size in bytes of uniform block index, 0
// when unknown.
func (p *Program) UniformBlockSize(index uint32) int {
	if !p.Valid() || index == InvalidBlockIndex {
		return 0
	}
	return p.ctx.drv.UniformBlockParameter(p.id, index, BlockDataSize)
}

// Uniform sets a float, vec2, vec3 or vec4 uniform. An unknown name marks
// the program with InvalidIndex and a value count outside 1 to 4 marks it
// with InsufficientCount.
func (p *Program) Uniform(name string, values ...float32) bool {
	if !p.Valid() {
		return false
	}
	if len(values) < 1 || len(values) > 4 {
		return p.failInfo(InsufficientCount, name)
	}
	loc, ok := p.locations[name]
	if !ok {
		loc = p.ctx.drv.UniformLocation(p.id, name)
		p.locations[name] = loc
	}
	if loc == -1 {
		return p.failInfo(InvalidIndex, "no uniform "+name)
	}
	g := p.Use()
	defer g.Release()
	p.ctx.drv.Uniformf(loc, values)
	return true
}

var _ UniformBlockReflector = (*Program)(nil)
