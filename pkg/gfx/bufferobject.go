package gfx

import (
	"fmt"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
)

// Category describes what a buffer holds: the target it is bound to and the
// operations valid on it.
type Category struct {
	Target Target
	Name   string
}

// Buffer categories.
var (
	VertexData   = Category{ArrayBuffer, "vertex data"}
	IndexData    = Category{ElementArrayBuffer, "index data"}
	UniformData  = Category{UniformBufferTarget, "uniform data"}
	IndirectData = Category{DrawIndirectBuffer, "indirect command data"}
	TextureData  = Category{PixelUnpackBuffer, "texture data"}
	PixelData    = Category{PixelPackBuffer, "pixel pack data"}
	StorageData  = Category{ShaderStorageBuffer, "shader storage data"}
	CopyData     = Category{CopyWriteBuffer, "copy data"}
	TexelData    = Category{TextureBuffer, "texel data"}
	FeedbackData = Category{TransformFeedbackBuffer, "transform feedback data"}
	CounterData  = Category{AtomicCounterBuffer, "atomic counter data"}
)

var categories = []Category{
	VertexData, IndexData, UniformData, IndirectData, TextureData, PixelData,
	StorageData, CopyData, TexelData, FeedbackData, CounterData,
}

// CategoryOf returns the category bound to target.
func CategoryOf(target Target) (Category, bool) {
	for _, c := range categories {
		if c.Target == target {
			return c, true
		}
	}
	return Category{}, false
}

func (c Category) String() string {
	if c.Name == "" {
		return c.Target.String()
	}
	return c.Name
}

// Buffer is linear GPU memory of one category.
type Buffer struct {
	Handle
	cat    Category
	usage  Usage
	size   int
	mapped bool
}

// NewBuffer creates a buffer holding data. Check Valid on the result.
func NewBuffer[T any](gc *Context, cat Category, usage Usage, data []T) *Buffer {
	b := &Buffer{}
	b.Initialize(gc, cat, usage, len(data)*SizeOf[T](), Bytes(data))
	return b
}

// Initialize allocates size bytes for the buffer, finalizing any previous
// object first. data may be nil or shorter than size, leaving the remainder
// zeroed. Dynamic usages reserve the storage and then write data by
// sub-range, so later partial updates never reallocate; the other usages
// upload data with the allocation.
func (b *Buffer) Initialize(gc *Context, cat Category, usage Usage, size int, data []byte) bool {
	b.Finalize()
	b.reset(gc, ObjectBuffer)
	b.cat = cat
	b.usage = usage
	if gc == nil {
		return b.fail(InvalidData)
	}
	if !cat.Target.IsBuffer() || !usage.Valid() {
		return b.fail(UnsupportedType)
	}
	if size <= 0 || len(data) > size {
		return b.fail(InvalidData)
	}

	sw := perf.Start()
	defer sw.StopRecordAverage("gfx.Buffer.Initialize")

	b.id = gc.drv.GenBuffer()
	if b.id == 0 {
		return b.fail(CreationFailed)
	}
	g := Bind(b)
	defer g.Release()
	if b.flags != 0 {
		return false
	}

	if usage.Dynamic() || len(data) == 0 {
		gc.drv.BufferData(cat.Target, size, nil, usage)
		if len(data) > 0 {
			gc.drv.BufferSubData(cat.Target, 0, data)
		}
	} else {
		if len(data) < size {
			full := make([]byte, size)
			copy(full, data)
			data = full
		}
		gc.drv.BufferData(cat.Target, size, data, usage)
	}
	if gc.checkCode("BufferData", OutOfMemory) {
		g.Release()
		gc.deleteObject(ObjectBuffer, b.id)
		b.id = 0
		return b.fail(CreationFailed)
	}
	b.size = size
	log.Debugf("created %v buffer %d (%d bytes, %v)", cat, b.id, size, usage)
	return true
}

// Finalize deletes the buffer. It is safe to call on an empty buffer and more
// than once.
func (b *Buffer) Finalize() {
	if b.mapped && b.id != 0 {
		g := Bind(b)
		b.ctx.drv.UnmapBuffer(b.cat.Target)
		g.Release()
	}
	b.release()
	b.cat = Category{}
	b.usage = 0
	b.size = 0
	b.mapped = false
}

// Target returns the target of the buffer's category.
func (b *Buffer) Target() Target {
	return b.cat.Target
}

func (b *Buffer) Category() Category {
	return b.cat
}

func (b *Buffer) Usage() Usage {
	return b.usage
}

// Size returns the allocated size in bytes, 0 when not allocated.
func (b *Buffer) Size() int {
	return b.size
}

// Count returns how many elements of elemSize bytes fit in the buffer.
func (b *Buffer) Count(elemSize int) int {
	if elemSize <= 0 {
		return 0
	}
	return b.size / elemSize
}

// CountOf returns how many values of type T fit in the buffer.
func CountOf[T any](b *Buffer) int {
	return b.Count(SizeOf[T]())
}

// Mapped reports whether a Mapping of the buffer is outstanding.
func (b *Buffer) Mapped() bool {
	return b.mapped
}

// Param queries a buffer parameter from the driver.
func (b *Buffer) Param(param BufferParam) int {
	if b.id == 0 {
		return 0
	}
	g := Bind(b)
	defer g.Release()
	return b.ctx.drv.BufferParameter(b.cat.Target, param)
}

// Bind binds the buffer to its category's target until the returned Binder
// is released.
func (b *Buffer) Bind() *Binder {
	return Bind(b)
}

// BindBase binds the buffer to an indexed binding point of its target. The
// generic binding of the target, which the driver also overwrites, is
// restored.
func (b *Buffer) BindBase(point uint32) bool {
	if !b.cat.Target.Indexed() {
		log.Warnf("%v buffer %d has no indexed binding points", b.cat, b.id)
		return false
	}
	if !b.Valid() {
		return false
	}
	prev := b.ctx.Bound(b.cat.Target)
	b.ctx.drv.BindBufferBase(b.cat.Target, point, b.id)
	b.ctx.bind(b.cat.Target, prev)
	return b.ctx.drv.IndexedBound(b.cat.Target, point) == b.id
}

// BindRange binds a byte range of the buffer to an indexed binding point.
func (b *Buffer) BindRange(point uint32, offset, size int) bool {
	if !b.cat.Target.Indexed() || !b.Valid() {
		return false
	}
	if offset < 0 || size <= 0 || offset+size > b.size {
		log.Warnf("BindRange [%d, %d) out of bounds of %d bytes", offset, offset+size, b.size)
		return false
	}
	prev := b.ctx.Bound(b.cat.Target)
	b.ctx.drv.BindBufferRange(b.cat.Target, point, b.id, offset, size)
	b.ctx.bind(b.cat.Target, prev)
	return b.ctx.drv.IndexedBound(b.cat.Target, point) == b.id
}

// UnbindBase clears an indexed binding point of the buffer's target if this
// buffer occupies it.
func (b *Buffer) UnbindBase(point uint32) {
	if b.ctx == nil || !b.cat.Target.Indexed() || b.ctx.drv.IndexedBound(b.cat.Target, point) != b.id {
		return
	}
	prev := b.ctx.Bound(b.cat.Target)
	b.ctx.drv.BindBufferBase(b.cat.Target, point, 0)
	b.ctx.bind(b.cat.Target, prev)
}

// ErrWrongCategory indicates that a buffer of another category was expected.
const ErrWrongCategory log.ConstErr = "wrong buffer category"

// BindVertex attaches the buffer to a vertex buffer binding index of the
// currently bound vertex array.
func (b *Buffer) BindVertex(bindingIndex uint32, offset, stride int) error {
	if b.cat != VertexData {
		return fmt.Errorf("BindVertex on %v buffer: %w", b.cat, ErrWrongCategory)
	}
	if !b.Valid() {
		return b.Err()
	}
	b.ctx.drv.BindVertexBuffer(bindingIndex, b.id, offset, stride)
	return b.ctx.CheckError("BindVertexBuffer")
}

// Write copies data into the buffer at offset without reallocating.
func (b *Buffer) Write(offset int, data []byte) bool {
	if !b.Valid() || b.mapped {
		return false
	}
	if offset < 0 || offset+len(data) > b.size {
		// gl.BufferData acts like malloc, while gl.BufferSubData acts like memcpy
		// BufferSubData can only modify a range of the existing size
		log.Warnf("Write [%d, %d) out of bounds of %d bytes", offset, offset+len(data), b.size)
		return false
	}
	if len(data) == 0 {
		return true
	}
	sw := perf.Start()
	defer sw.StopRecordAverage("gfx.Buffer.Write")
	g := Bind(b)
	defer g.Release()
	b.ctx.drv.BufferSubData(b.cat.Target, offset, data)
	return true
}

// WriteValues copies values into the buffer starting at element index first.
func WriteValues[T any](b *Buffer, first int, values []T) bool {
	return b.Write(first*SizeOf[T](), Bytes(values))
}

// Read copies len(out) bytes starting at offset from the buffer into out.
func (b *Buffer) Read(offset int, out []byte) bool {
	if !b.Valid() || b.mapped {
		return false
	}
	if offset < 0 || offset+len(out) > b.size {
		log.Warnf("Read [%d, %d) out of bounds of %d bytes", offset, offset+len(out), b.size)
		return false
	}
	if len(out) == 0 {
		return true
	}
	g := Bind(b)
	defer g.Release()
	b.ctx.drv.GetBufferSubData(b.cat.Target, offset, out)
	return true
}

// ReadValues reads every whole value of type T held by the buffer.
func ReadValues[T any](b *Buffer) []T {
	out := make([]T, CountOf[T](b))
	if len(out) == 0 || !b.Read(0, Bytes(out)) {
		return nil
	}
	return out
}

// Orphan reallocates the storage at the same size, discarding the contents,
// so that a new upload does not wait on draws still reading the old ones.
func (b *Buffer) Orphan() bool {
	if !b.Valid() || b.mapped {
		return false
	}
	g := Bind(b)
	defer g.Release()
	b.ctx.drv.BufferData(b.cat.Target, b.size, nil, b.usage)
	return true
}

// Resize reallocates the buffer to size bytes, keeping the contents that
// still fit. The object name is kept, so vertex arrays, indexed binding
// points and element attachments referring to it stay valid.
func (b *Buffer) Resize(size int) bool {
	if !b.Valid() || b.mapped || size <= 0 {
		return false
	}
	if size == b.size {
		return true
	}
	keep := min(b.size, size)
	tmp := &Buffer{}
	if !tmp.Initialize(b.ctx, CopyData, StreamCopy, keep, nil) {
		return false
	}
	defer tmp.Finalize()
	if err := copyBuffer(b, tmp, keep); err != nil {
		log.Warnf("resizing buffer %d: %v", b.id, err)
		return false
	}

	g := BindAs(b, CopyWriteBuffer)
	b.ctx.drv.BufferData(CopyWriteBuffer, size, nil, b.usage)
	g.Release()
	if b.ctx.checkCode("BufferData", OutOfMemory) {
		return b.failInfo(CreationFailed, fmt.Sprintf("resizing to %d bytes", size))
	}
	b.size = size
	if err := copyBuffer(tmp, b, keep); err != nil {
		return b.failInfo(InvalidData, err.Error())
	}
	return true
}

// Clone allocates a buffer with the same category, usage and size and copies
// the contents on the device. Check Valid on the result.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{}
	if !b.Valid() || b.mapped {
		c.reset(b.ctx, ObjectBuffer)
		if b.mapped {
			c.failInfo(InvalidData, fmt.Sprintf("buffer %d is mapped", b.id))
		} else {
			c.fail(InvalidData)
		}
		return c
	}
	sw := perf.Start()
	defer sw.StopRecordAverage("gfx.Buffer.Clone")
	if c.Initialize(b.ctx, b.cat, b.usage, b.size, nil) {
		if err := copyBuffer(b, c, b.size); err != nil {
			c.failInfo(InvalidData, err.Error())
		}
	}
	return c
}

// copyBuffer copies the first size bytes of src into dst on the device.
func copyBuffer(src, dst *Buffer, size int) error {
	if size <= 0 {
		return nil
	}
	rg := BindAs(src, CopyReadBuffer)
	wg := BindAs(dst, CopyWriteBuffer)
	src.ctx.drv.CopyBufferSubData(CopyReadBuffer, CopyWriteBuffer, 0, 0, size)
	wg.Release()
	rg.Release()
	return src.ctx.CheckError("CopyBufferSubData")
}
