package gfx

import "github.com/gregjohnson2017/tabula-gfx/pkg/log"

// Index is an element type usable in an index buffer.
type Index interface {
	~uint8 | ~uint16 | ~uint32
}

// IndexBuffer is an index data buffer of T elements plus the number of
// elements in use.
type IndexBuffer[T Index] struct {
	buffer Buffer
	count  int
}

// NewIndexBuffer uploads indices. Check Valid on the result.
func NewIndexBuffer[T Index](gc *Context, usage Usage, indices []T) *IndexBuffer[T] {
	ib := &IndexBuffer[T]{}
	ib.Initialize(gc, usage, indices)
	return ib
}

// Initialize allocates a buffer holding exactly indices.
func (ib *IndexBuffer[T]) Initialize(gc *Context, usage Usage, indices []T) bool {
	ib.count = 0
	if !ib.buffer.Initialize(gc, IndexData, usage, len(indices)*SizeOf[T](), Bytes(indices)) {
		return false
	}
	ib.count = len(indices)
	return true
}

// Reserve allocates room for capacity indices with none in use yet.
func (ib *IndexBuffer[T]) Reserve(gc *Context, usage Usage, capacity int) bool {
	ib.count = 0
	return ib.buffer.Initialize(gc, IndexData, usage, capacity*SizeOf[T](), nil)
}

// Update replaces the indices in use without reallocating. It fails when
// indices exceed the capacity.
func (ib *IndexBuffer[T]) Update(indices []T) bool {
	if len(indices) > ib.Capacity() {
		log.Warnf("%d indices exceed index buffer capacity %d", len(indices), ib.Capacity())
		return false
	}
	if !WriteValues(&ib.buffer, 0, indices) {
		return false
	}
	ib.count = len(indices)
	return true
}

// Finalize deletes the buffer.
func (ib *IndexBuffer[T]) Finalize() {
	ib.buffer.Finalize()
	ib.count = 0
}

func (ib *IndexBuffer[T]) Buffer() *Buffer {
	return &ib.buffer
}

func (ib *IndexBuffer[T]) Valid() bool {
	return ib.buffer.Valid()
}

func (ib *IndexBuffer[T]) ErrorString() string {
	return ib.buffer.ErrorString()
}

func (ib *IndexBuffer[T]) ErrorStatus(flag ErrorFlag) bool {
	return ib.buffer.ErrorStatus(flag)
}

func (ib *IndexBuffer[T]) Err() error {
	return ib.buffer.Err()
}

// Count returns the number of indices in use.
func (ib *IndexBuffer[T]) Count() int {
	return ib.count
}

// Capacity returns the number of indices the buffer can hold.
func (ib *IndexBuffer[T]) Capacity() int {
	return CountOf[T](&ib.buffer)
}

// Type returns the driver component type of T.
func (ib *IndexBuffer[T]) Type() Type {
	switch SizeOf[T]() {
	case 1:
		return UnsignedByte
	case 2:
		return UnsignedShort
	}
	return UnsignedInt
}

// Bind binds the index buffer to the element target of the bound vertex
// array until the returned Binder is released.
func (ib *IndexBuffer[T]) Bind() *Binder {
	return Bind(&ib.buffer)
}

// Draw draws every index in use.
func (ib *IndexBuffer[T]) Draw(mode Mode) bool {
	return ib.DrawN(mode, ib.count)
}

// DrawN draws the first n indices, clamped to Count.
func (ib *IndexBuffer[T]) DrawN(mode Mode, n int) bool {
	if !ib.Valid() {
		return false
	}
	n = min(max(n, 0), ib.count)
	if n == 0 {
		return true
	}
	g := ib.Bind()
	defer g.Release()
	ib.buffer.ctx.drv.DrawElements(mode, n, ib.Type(), 0)
	return true
}

// DrawInstanced draws the first n indices, clamped to Count, instances times.
func (ib *IndexBuffer[T]) DrawInstanced(mode Mode, n, instances int) bool {
	if !ib.Valid() || instances < 0 {
		return false
	}
	n = min(max(n, 0), ib.count)
	if n == 0 || instances == 0 {
		return true
	}
	g := ib.Bind()
	defer g.Release()
	ib.buffer.ctx.drv.DrawElementsInstanced(mode, n, ib.Type(), 0, instances)
	return true
}

// DrawIndirect issues an indexed draw whose count, instance count and
// offsets are read by the driver from cmd's current contents.
func (ib *IndexBuffer[T]) DrawIndirect(mode Mode, cmd *IndirectBuffer) bool {
	if !ib.Valid() || cmd == nil || !cmd.Valid() {
		return false
	}
	if cmd.kind != ElementsCommand {
		log.Warnf("indirect buffer %d holds %v, not elements commands", cmd.buffer.id, cmd.kind)
		return false
	}
	g := ib.Bind()
	defer g.Release()
	cg := Bind(&cmd.buffer)
	defer cg.Release()
	ib.buffer.ctx.drv.DrawElementsIndirect(mode, ib.Type(), 0)
	return true
}
