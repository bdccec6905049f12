// Package gfxtest provides an in-memory gfx.Driver that follows OpenGL 4.6
// core binding and error semantics closely enough to test gfx resources
// without a graphics context. It records draw calls and counts uploads, and
// its exported fields inject faults.
package gfxtest

import (
	"unsafe"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

// Driver is a fake graphics driver. Create it with New.
type Driver struct {
	// MaxAttribs is the number of vertex attribute slots.
	MaxAttribs int
	// MaxUniformBindings is the number of uniform buffer binding points.
	MaxUniformBindings int
	// RefuseGen makes every Gen and Create call return 0.
	RefuseGen bool
	// MaxBufferSize makes larger BufferData calls fail with OutOfMemory when
	// not zero.
	MaxBufferSize int
	// RefuseMap makes MapBufferRange fail.
	RefuseMap bool
	// CorruptUnmap makes UnmapBuffer report lost contents.
	CorruptUnmap bool
	// IgnoreBind drops bind calls to the listed targets.
	IgnoreBind map[gfx.Target]bool
	// Blocks are the uniform blocks, name to data size, of every linked
	// program.
	Blocks map[string]int
	// Uniforms are the uniform names of every linked program.
	Uniforms []string
	// LinkFails makes every link fail.
	LinkFails bool
	// FenceDelay is how many waits or polls a fence takes to signal.
	FenceDelay int
	// IncompleteFramebuffer makes every framebuffer incomplete.
	IncompleteFramebuffer bool

	// Draws records every accepted draw call.
	Draws []DrawCall
	// Counters of driver calls.
	BufferDataCalls int
	SubDataCalls    int
	MapCalls        int
	MipmapCalls     int
	BindBufferCalls int
	CopyBufferCalls int
	TexUploads      int

	nextID   uint32
	errors   []gfx.ErrorCode
	buffers  map[uint32]*buffer
	arrays   map[uint32]*vertexArray
	bindings map[gfx.Target]uint32
	indexed  map[indexKey]uint32
	vao      uint32
	vao0     vertexArray

	shaders  map[uint32]*shader
	programs map[uint32]*program
	current  uint32

	syncs    map[uintptr]*fence
	nextSync uintptr
	queries  map[uint32]*query
	clock    uint64

	textures     map[uint32]*texture
	activeUnit   uint32
	units        map[uint32]uint32
	samplers     map[uint32]*sampler
	samplerUnits map[uint32]uint32
	framebuffers map[uint32]*framebuffer
	framebuffer  uint32
}

type indexKey struct {
	target gfx.Target
	index  uint32
}

// DrawOp names the driver entry point of a DrawCall.
type DrawOp string

// Draw entry points.
const (
	OpArrays            DrawOp = "DrawArrays"
	OpArraysInstanced   DrawOp = "DrawArraysInstanced"
	OpElements          DrawOp = "DrawElements"
	OpElementsInstanced DrawOp = "DrawElementsInstanced"
	OpArraysIndirect    DrawOp = "DrawArraysIndirect"
	OpElementsIndirect  DrawOp = "DrawElementsIndirect"
)

// DrawCall is a recorded draw. For indirect draws Count, First and
// Instances are read from the bound indirect buffer.
type DrawCall struct {
	Op          DrawOp
	Mode        gfx.Mode
	First       int
	Count       int
	Type        gfx.Type
	Offset      int
	Instances   int
	VertexArray uint32
	Elements    uint32
	Indirect    uint32
	Program     uint32
}

// New returns a driver with 16 attribute slots and 36 uniform binding
// points.
func New() *Driver {
	return &Driver{
		MaxAttribs:         16,
		MaxUniformBindings: 36,
		IgnoreBind:         make(map[gfx.Target]bool),
		Blocks:             make(map[string]int),
		buffers:            make(map[uint32]*buffer),
		arrays:             make(map[uint32]*vertexArray),
		bindings:           make(map[gfx.Target]uint32),
		indexed:            make(map[indexKey]uint32),
		shaders:            make(map[uint32]*shader),
		programs:           make(map[uint32]*program),
		syncs:              make(map[uintptr]*fence),
		queries:            make(map[uint32]*query),
		textures:           make(map[uint32]*texture),
		units:              make(map[uint32]uint32),
		samplers:           make(map[uint32]*sampler),
		samplerUnits:       make(map[uint32]uint32),
		framebuffers:       make(map[uint32]*framebuffer),
	}
}

var _ gfx.Driver = (*Driver)(nil)

func (d *Driver) gen() uint32 {
	if d.RefuseGen {
		return 0
	}
	d.nextID++
	return d.nextID
}

func (d *Driver) fail(code gfx.ErrorCode) {
	d.errors = append(d.errors, code)
}

// PushError queues an error for GetError.
func (d *Driver) PushError(code gfx.ErrorCode) {
	d.fail(code)
}

// PendingErrors returns the queued errors without clearing them.
func (d *Driver) PendingErrors() []gfx.ErrorCode {
	return append([]gfx.ErrorCode(nil), d.errors...)
}

func (d *Driver) GetError() gfx.ErrorCode {
	if len(d.errors) == 0 {
		return gfx.NoError
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}

func (d *Driver) MaxVertexAttribs() int {
	return d.MaxAttribs
}

func (d *Driver) MaxUniformBufferBindings() int {
	return d.MaxUniformBindings
}

func (d *Driver) Bound(target gfx.Target) uint32 {
	switch target {
	case gfx.VertexArrayTarget:
		return d.vao
	case gfx.ElementArrayBuffer:
		return d.boundArray().elements
	case gfx.ProgramTarget:
		return d.current
	case gfx.Texture2D:
		return d.units[d.activeUnit]
	case gfx.FrameBufferTarget:
		return d.framebuffer
	}
	return d.bindings[target]
}

func (d *Driver) IndexedBound(target gfx.Target, index uint32) uint32 {
	return d.indexed[indexKey{target, index}]
}

// Live returns the number of live buffers, vertex arrays, shaders, programs,
// textures, samplers, framebuffers, queries and fences.
func (d *Driver) Live() int {
	return len(d.buffers) + len(d.arrays) + len(d.shaders) + len(d.programs) +
		len(d.textures) + len(d.samplers) + len(d.framebuffers) + len(d.queries) + len(d.syncs)
}

// alloc returns n zeroed bytes aligned for any fixed size value.
func alloc(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}
