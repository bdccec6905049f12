package gfx

import (
	"unsafe"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// DrawElementsCommand is the argument record of an indirect indexed draw.
type DrawElementsCommand struct {
	Count         uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	BaseInstance  uint32
}

// DrawArraysCommand is the argument record of an indirect non-indexed draw.
type DrawArraysCommand struct {
	Count         uint32
	InstanceCount uint32
	First         uint32
	BaseInstance  uint32
}

// CommandKind selects the record layout of an indirect buffer.
type CommandKind int

const (
	ElementsCommand CommandKind = iota
	ArraysCommand
)

func (k CommandKind) String() string {
	if k == ArraysCommand {
		return "arrays commands"
	}
	return "elements commands"
}

// Byte offsets of the record fields.
const (
	offCount         = 0
	offInstanceCount = 4
	offFirst         = 8
	offBaseVertex    = 12
)

func (k CommandKind) size() int {
	if k == ArraysCommand {
		return int(unsafe.Sizeof(DrawArraysCommand{}))
	}
	return int(unsafe.Sizeof(DrawElementsCommand{}))
}

func (k CommandKind) baseInstanceOffset() int {
	if k == ArraysCommand {
		return 12
	}
	return 16
}

// IndirectBuffer is an indirect command data buffer holding one draw command
// record. The record's memory is the argument block the driver reads for an
// indirect draw, so the accessors read and write it through mapped access.
type IndirectBuffer struct {
	buffer Buffer
	kind   CommandKind
}

// NewElementsIndirect creates an indirect buffer holding cmd.
func NewElementsIndirect(gc *Context, usage Usage, cmd DrawElementsCommand) *IndirectBuffer {
	ib := &IndirectBuffer{}
	ib.Initialize(gc, ElementsCommand, usage, Bytes([]DrawElementsCommand{cmd}))
	return ib
}

// NewArraysIndirect creates an indirect buffer holding cmd.
func NewArraysIndirect(gc *Context, usage Usage, cmd DrawArraysCommand) *IndirectBuffer {
	ib := &IndirectBuffer{}
	ib.Initialize(gc, ArraysCommand, usage, Bytes([]DrawArraysCommand{cmd}))
	return ib
}

// Initialize allocates one record of kind, filled from record when it is not
// nil. record must not be longer than the record size.
func (ib *IndirectBuffer) Initialize(gc *Context, kind CommandKind, usage Usage, record []byte) bool {
	ib.kind = kind
	return ib.buffer.Initialize(gc, IndirectData, usage, kind.size(), record)
}

// Finalize deletes the buffer.
func (ib *IndirectBuffer) Finalize() {
	ib.buffer.Finalize()
}

func (ib *IndirectBuffer) Buffer() *Buffer {
	return &ib.buffer
}

func (ib *IndirectBuffer) Kind() CommandKind {
	return ib.kind
}

func (ib *IndirectBuffer) Valid() bool {
	return ib.buffer.Valid()
}

func (ib *IndirectBuffer) ErrorString() string {
	return ib.buffer.ErrorString()
}

func (ib *IndirectBuffer) ErrorStatus(flag ErrorFlag) bool {
	return ib.buffer.ErrorStatus(flag)
}

func (ib *IndirectBuffer) Err() error {
	return ib.buffer.Err()
}

func (ib *IndirectBuffer) field(offset int) uint32 {
	m := ib.buffer.MapRange(offset, 4, ReadOnly)
	if m == nil {
		return 0
	}
	defer m.Release()
	return *(*uint32)(unsafe.Pointer(&m.Bytes()[0]))
}

func (ib *IndirectBuffer) setField(offset int, v uint32) bool {
	m := ib.buffer.MapRange(offset, 4, WriteOnly)
	if m == nil {
		return false
	}
	*(*uint32)(unsafe.Pointer(&m.Bytes()[0])) = v
	return m.Release()
}

// Count returns the element or vertex count of the record.
func (ib *IndirectBuffer) Count() uint32 {
	return ib.field(offCount)
}

func (ib *IndirectBuffer) SetCount(n uint32) bool {
	return ib.setField(offCount, n)
}

func (ib *IndirectBuffer) InstanceCount() uint32 {
	return ib.field(offInstanceCount)
}

func (ib *IndirectBuffer) SetInstanceCount(n uint32) bool {
	return ib.setField(offInstanceCount, n)
}

// First returns the first index of an elements record or the first vertex
// of an arrays record.
func (ib *IndirectBuffer) First() uint32 {
	return ib.field(offFirst)
}

func (ib *IndirectBuffer) SetFirst(n uint32) bool {
	return ib.setField(offFirst, n)
}

// BaseVertex returns the base vertex of an elements record, 0 for arrays.
func (ib *IndirectBuffer) BaseVertex() int32 {
	if ib.kind != ElementsCommand {
		return 0
	}
	return int32(ib.field(offBaseVertex))
}

func (ib *IndirectBuffer) SetBaseVertex(v int32) bool {
	if ib.kind != ElementsCommand {
		log.Warn("arrays commands have no base vertex")
		return false
	}
	return ib.setField(offBaseVertex, uint32(v))
}

func (ib *IndirectBuffer) BaseInstance() uint32 {
	return ib.field(ib.kind.baseInstanceOffset())
}

func (ib *IndirectBuffer) SetBaseInstance(n uint32) bool {
	return ib.setField(ib.kind.baseInstanceOffset(), n)
}

// ElementsCommand reads the whole record of an elements indirect buffer.
func (ib *IndirectBuffer) ElementsCommand() (DrawElementsCommand, bool) {
	var cmd DrawElementsCommand
	if ib.kind != ElementsCommand {
		return cmd, false
	}
	ok := MapFunc(&ib.buffer, ReadOnly, func(c []DrawElementsCommand) {
		cmd = c[0]
	})
	return cmd, ok
}

// SetElementsCommand replaces the whole record of an elements indirect buffer.
func (ib *IndirectBuffer) SetElementsCommand(cmd DrawElementsCommand) bool {
	if ib.kind != ElementsCommand {
		return false
	}
	return MapFunc(&ib.buffer, WriteOnly, func(c []DrawElementsCommand) {
		c[0] = cmd
	})
}

// ArraysCommand reads the whole record of an arrays indirect buffer.
func (ib *IndirectBuffer) ArraysCommand() (DrawArraysCommand, bool) {
	var cmd DrawArraysCommand
	if ib.kind != ArraysCommand {
		return cmd, false
	}
	ok := MapFunc(&ib.buffer, ReadOnly, func(c []DrawArraysCommand) {
		cmd = c[0]
	})
	return cmd, ok
}

// SetArraysCommand replaces the whole record of an arrays indirect buffer.
func (ib *IndirectBuffer) SetArraysCommand(cmd DrawArraysCommand) bool {
	if ib.kind != ArraysCommand {
		return false
	}
	return MapFunc(&ib.buffer, WriteOnly, func(c []DrawArraysCommand) {
		c[0] = cmd
	})
}
