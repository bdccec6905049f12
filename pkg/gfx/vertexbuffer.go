package gfx

import "github.com/gregjohnson2017/tabula-gfx/pkg/log"

// VertexBuffer pairs a vertex data buffer with the vertex array describing
// it. When initialization fails, FailedObject tells which of the two failed
// first and the error text comes from that member.
type VertexBuffer struct {
	buffer Buffer
	array  VertexArray
	failed ObjectType
}

// NewVertexBuffer uploads vertices and describes them with layout, using the
// size of T as the stride. Check Valid on the result.
func NewVertexBuffer[T any](gc *Context, usage Usage, vertices []T, layout ...VertexAttrib) *VertexBuffer {
	vb := &VertexBuffer{}
	vb.Initialize(gc, usage, Bytes(vertices), SizeOf[T](), layout)
	return vb
}

// Initialize allocates the storage holding data and then records layout
// against stride. The layout step is not attempted when the storage fails.
func (vb *VertexBuffer) Initialize(gc *Context, usage Usage, data []byte, stride int, layout []VertexAttrib) bool {
	vb.Finalize()
	if !vb.buffer.Initialize(gc, VertexData, usage, len(data), data) {
		vb.failed = ObjectBuffer
		return false
	}
	if !vb.array.Initialize(&vb.buffer, stride, layout) {
		vb.failed = ObjectVertexArray
		return false
	}
	return true
}

// Finalize deletes the vertex array and its storage.
func (vb *VertexBuffer) Finalize() {
	vb.array.Finalize()
	vb.buffer.Finalize()
	vb.failed = ObjectNone
}

// Buffer returns the storage.
func (vb *VertexBuffer) Buffer() *Buffer {
	return &vb.buffer
}

// Array returns the vertex array.
func (vb *VertexBuffer) Array() *VertexArray {
	return &vb.array
}

// Valid reports whether both members are valid.
func (vb *VertexBuffer) Valid() bool {
	return vb.buffer.Valid() && vb.array.Valid()
}

// FailedObject returns which member failed first, ObjectNone when neither
// did.
func (vb *VertexBuffer) FailedObject() ObjectType {
	if vb.failed != ObjectNone {
		return vb.failed
	}
	switch {
	case vb.buffer.id != 0 && !vb.buffer.Valid():
		return ObjectBuffer
	case vb.array.id != 0 && !vb.array.Valid():
		return ObjectVertexArray
	}
	return ObjectNone
}

func (vb *VertexBuffer) member() *Handle {
	switch vb.FailedObject() {
	case ObjectBuffer:
		return &vb.buffer.Handle
	case ObjectVertexArray:
		return &vb.array.Handle
	}
	return nil
}

// ErrorString returns the error text of the member that failed first.
func (vb *VertexBuffer) ErrorString() string {
	if m := vb.member(); m != nil {
		return m.ErrorString()
	}
	return ""
}

// Err returns the error of the member that failed first.
func (vb *VertexBuffer) Err() error {
	if m := vb.member(); m != nil {
		return m.Err()
	}
	return nil
}

// ErrorStatus reports whether flag is set on the member that failed first.
func (vb *VertexBuffer) ErrorStatus(flag ErrorFlag) bool {
	if m := vb.member(); m != nil {
		return m.ErrorStatus(flag)
	}
	return false
}

// Count returns the number of whole vertices in the storage.
func (vb *VertexBuffer) Count() int {
	return vb.buffer.Count(vb.array.stride)
}

// Bind binds the vertex array until the returned Binder is released.
func (vb *VertexBuffer) Bind() *Binder {
	return Bind(&vb.array)
}

// Update writes vertex bytes at a byte offset of the storage.
func (vb *VertexBuffer) Update(offset int, data []byte) bool {
	return vb.buffer.Write(offset, data)
}

// Draw draws every vertex.
func (vb *VertexBuffer) Draw(mode Mode) bool {
	return vb.DrawRange(mode, 0, vb.Count())
}

// DrawRange draws n vertices starting at first, clamped to the vertices held.
func (vb *VertexBuffer) DrawRange(mode Mode, first, n int) bool {
	if !vb.Valid() {
		return false
	}
	count := vb.Count()
	first = min(max(first, 0), count)
	n = min(max(n, 0), count-first)
	if n == 0 {
		return true
	}
	g := vb.Bind()
	defer g.Release()
	vb.buffer.ctx.drv.DrawArrays(mode, first, n)
	return true
}

// DrawInstanced draws every vertex instances times.
func (vb *VertexBuffer) DrawInstanced(mode Mode, instances int) bool {
	if !vb.Valid() || instances < 0 {
		return false
	}
	if instances == 0 || vb.Count() == 0 {
		return true
	}
	g := vb.Bind()
	defer g.Release()
	vb.buffer.ctx.drv.DrawArraysInstanced(mode, 0, vb.Count(), instances)
	return true
}

// ElementDrawer issues an indexed draw with its own index buffer; every
// IndexBuffer is one.
type ElementDrawer interface {
	Draw(mode Mode) bool
}

// DrawIndexed draws with indices while the vertex array is bound.
func (vb *VertexBuffer) DrawIndexed(mode Mode, indices ElementDrawer) bool {
	if !vb.Valid() || indices == nil {
		return false
	}
	g := vb.Bind()
	defer g.Release()
	return indices.Draw(mode)
}

// DrawIndirect draws vertices with the parameters held by an arrays command
// indirect buffer.
func (vb *VertexBuffer) DrawIndirect(mode Mode, cmd *IndirectBuffer) bool {
	if !vb.Valid() || cmd == nil || !cmd.Valid() {
		return false
	}
	if cmd.kind != ArraysCommand {
		log.Warnf("indirect buffer %d holds %v, not arrays commands", cmd.buffer.id, cmd.kind)
		return false
	}
	g := vb.Bind()
	defer g.Release()
	cg := Bind(&cmd.buffer)
	defer cg.Release()
	vb.buffer.ctx.drv.DrawArraysIndirect(mode, 0)
	return true
}
