package gfx

import (
	"fmt"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// UniformBlockReflector looks up the uniform blocks of a linked program.
// *Program is one.
type UniformBlockReflector interface {
	// UniformBlockIndex returns the index of the named block and whether it
	// exists.
	UniformBlockIndex(name string) (uint32, bool)
	// UniformBlockBind connects a block to a buffer binding point.
	UniformBlockBind(index, point uint32) bool
	// UniformBlockSize returns the data size of a block in bytes.
	UniformBlockSize(index uint32) int
}

// UniformBuffer is a uniform data buffer sized and bound for one uniform
// block of a program.
type UniformBuffer struct {
	errorState
	buffer    Buffer
	program   UniformBlockReflector
	block     string
	index     uint32
	point     uint32
	blockSize int
	failed    ObjectType
}

// NewUniformBuffer creates the buffer backing block of prog at binding point
// point. Check Valid on the result.
func NewUniformBuffer(gc *Context, prog UniformBlockReflector, block string, point uint32, data []byte, usage Usage) *UniformBuffer {
	ub := &UniformBuffer{}
	ub.Initialize(gc, prog, block, point, data, usage)
	return ub
}

// Initialize looks up block in prog, binds it to point and allocates a buffer
// of the block's size holding data, zero padded. Nothing is allocated when
// the block does not exist.
func (ub *UniformBuffer) Initialize(gc *Context, prog UniformBlockReflector, block string, point uint32, data []byte, usage Usage) bool {
	ub.Finalize()
	ub.program = prog
	ub.block = block
	ub.point = point
	if prog == nil {
		return ub.failOn(ObjectProgram, InvalidData, "no program")
	}

	index, ok := prog.UniformBlockIndex(block)
	if !ok {
		return ub.failOn(ObjectProgram, InvalidIndex, "no uniform block "+block)
	}
	ub.index = index
	if !prog.UniformBlockBind(index, point) {
		return ub.failOn(ObjectProgram, BindFailed, "uniform block "+block)
	}
	size := prog.UniformBlockSize(index)
	if size <= 0 {
		return ub.failOn(ObjectProgram, InvalidIndex, "uniform block "+block+" has no data")
	}
	if len(data) > size {
		return ub.failOn(ObjectBuffer, InvalidData, "data exceeds uniform block "+block)
	}

	if !ub.buffer.Initialize(gc, UniformData, usage, size, data) {
		ub.failed = ObjectBuffer
		return false
	}
	if !ub.buffer.BindBase(point) {
		return ub.failOn(ObjectBuffer, BindFailed, "uniform binding point")
	}
	ub.blockSize = size
	log.Debugf("uniform block %v (index %d, %d bytes) bound to point %d", block, index, size, point)
	return true
}

// failOn sets flag on the composite and names obj as the member that failed.
func (ub *UniformBuffer) failOn(obj ObjectType, flag ErrorFlag, info string) bool {
	ub.failed = obj
	ub.kind = obj
	return ub.failInfo(flag, info)
}

// Finalize deletes the buffer and clears its binding point.
func (ub *UniformBuffer) Finalize() {
	if ub.buffer.id != 0 {
		ub.buffer.UnbindBase(ub.point)
	}
	ub.buffer.Finalize()
	*ub = UniformBuffer{}
}

// Valid reports whether the block was found and the buffer is valid.
func (ub *UniformBuffer) Valid() bool {
	return ub.flags == 0 && ub.buffer.Valid()
}

// FailedObject returns what failed first: ObjectProgram when the block could
// not be resolved, ObjectBuffer when the storage could not be set up.
func (ub *UniformBuffer) FailedObject() ObjectType {
	if ub.failed == ObjectNone && ub.buffer.id != 0 && !ub.buffer.Valid() {
		return ObjectBuffer
	}
	return ub.failed
}

func (ub *UniformBuffer) ErrorString() string {
	if ub.flags != 0 {
		return ub.errorState.ErrorString()
	}
	return ub.buffer.ErrorString()
}

func (ub *UniformBuffer) ErrorStatus(flag ErrorFlag) bool {
	return ub.errorState.ErrorStatus(flag) || ub.buffer.ErrorStatus(flag)
}

func (ub *UniformBuffer) Err() error {
	if ub.flags != 0 {
		return ub.errorState.Err()
	}
	return ub.buffer.Err()
}

// Buffer returns the storage.
func (ub *UniformBuffer) Buffer() *Buffer {
	return &ub.buffer
}

// Block returns the block name.
func (ub *UniformBuffer) Block() string {
	return ub.block
}

// BlockIndex returns the block index within the program.
func (ub *UniformBuffer) BlockIndex() uint32 {
	return ub.index
}

// BindingPoint returns the binding point shared by the block and the buffer.
func (ub *UniformBuffer) BindingPoint() uint32 {
	return ub.point
}

// BlockSize returns the block's data size, 0 when initialization failed.
func (ub *UniformBuffer) BlockSize() int {
	return ub.blockSize
}

// Size returns the allocated buffer size, 0 when initialization failed.
func (ub *UniformBuffer) Size() int {
	return ub.buffer.size
}

// Uniform writes data at offset within the block through a write-only
// mapping. Data past the end of the block is dropped.
func (ub *UniformBuffer) Uniform(offset int, data []byte) bool {
	if !ub.Valid() || offset < 0 || offset >= ub.blockSize {
		return false
	}
	n := min(len(data), ub.blockSize-offset)
	if n == 0 {
		return true
	}
	if n < len(data) {
		log.Warnf("uniform block %v: dropping %d bytes past its end", ub.block, len(data)-n)
	}
	m := ub.buffer.MapRange(offset, n, WriteOnly)
	if m == nil {
		return false
	}
	copy(m.Bytes(), data[:n])
	return m.Release()
}

// SetUniform writes v at offset within the block of ub.
func SetUniform[T any](ub *UniformBuffer, offset int, v T) bool {
	return ub.Uniform(offset, Bytes([]T{v}))
}

// Rebind moves the block and the buffer to point, clearing the old point.
func (ub *UniformBuffer) Rebind(point uint32) bool {
	if !ub.Valid() {
		return false
	}
	ub.buffer.UnbindBase(ub.point)
	ub.point = point
	if !ub.program.UniformBlockBind(ub.index, point) {
		return ub.failOn(ObjectProgram, BindFailed, fmt.Sprintf("uniform block %v to point %d", ub.block, point))
	}
	if !ub.buffer.BindBase(point) {
		return ub.failOn(ObjectBuffer, BindFailed, fmt.Sprintf("uniform binding point %d", point))
	}
	return true
}
