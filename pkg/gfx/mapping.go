package gfx

import (
	"iter"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// Mapping is CPU-visible memory aliasing a byte range of a buffer. While it
// is outstanding no other mapping of the buffer can be made and the buffer
// cannot be written through the driver. Release it exactly once, typically
// with defer; Release is safe on a nil Mapping.
type Mapping struct {
	buf      *Buffer
	bind     *Binder
	data     []byte
	offset   int
	access   Access
	released bool
}

// Map maps the whole buffer. It returns nil when the driver refuses.
func (b *Buffer) Map(access Access) *Mapping {
	return b.MapRange(0, b.size, access)
}

// MapRange maps length bytes starting at offset. It returns nil when the
// range is empty or out of bounds, the buffer is invalid or already mapped,
// or the driver refuses.
func (b *Buffer) MapRange(offset, length int, access Access) *Mapping {
	if !b.Valid() {
		return nil
	}
	if b.mapped {
		log.Warnf("%v buffer %d is already mapped", b.cat, b.id)
		return nil
	}
	if length <= 0 || offset < 0 || offset+length > b.size {
		log.Warnf("map range [%d, %d) invalid for %d bytes", offset, offset+length, b.size)
		return nil
	}
	if !access.Readable() && !access.Writable() {
		log.Warnf("map access %v neither reads nor writes", access)
		return nil
	}
	g := Bind(b)
	data := b.ctx.drv.MapBufferRange(b.cat.Target, offset, length, access)
	if len(data) == 0 {
		g.Release()
		_ = b.ctx.CheckError("MapBufferRange")
		return nil
	}
	b.mapped = true
	return &Mapping{
		buf:    b,
		bind:   g,
		data:   data[:length:length],
		offset: offset,
		access: access,
	}
}

// Bytes returns the mapped memory. It must not be used after Release.
func (m *Mapping) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.data
}

// Len returns the mapped length in bytes.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.data)
}

// Offset returns the byte offset of the mapped range within the buffer.
func (m *Mapping) Offset() int {
	return m.offset
}

func (m *Mapping) Access() Access {
	return m.access
}

// Release unmaps the buffer and undoes the binding made by the mapping. It
// reports false when the driver says the contents became corrupt while
// mapped. Calls after the first do nothing and report true.
func (m *Mapping) Release() bool {
	if m == nil || m.released {
		return true
	}
	m.released = true
	m.data = nil
	b := m.buf
	ok := true
	if b.mapped && b.id != 0 {
		if b.ctx.Bound(b.cat.Target) == b.id {
			ok = b.ctx.drv.UnmapBuffer(b.cat.Target)
		} else {
			// the target was rebound while mapped; keep the newer binding
			g := Bind(b)
			ok = b.ctx.drv.UnmapBuffer(b.cat.Target)
			g.Release()
			m.bind.released = true
		}
		b.mapped = false
	}
	m.bind.Release()
	if !ok {
		log.Warnf("%v buffer %d contents lost while mapped", b.cat, b.id)
	}
	return ok
}

// View overlays a fixed size element type on a mapping. T must not contain
// pointers.
type View[T any] struct {
	m     *Mapping
	elems []T
}

// MapView maps the whole buffer as elements of type T. Trailing bytes that do
// not fill a whole element are not visible. It returns nil when the mapping
// fails.
func MapView[T any](b *Buffer, access Access) *View[T] {
	return mapView[T](b.Map(access))
}

// MapRangeView maps count elements of type T starting at element first.
func MapRangeView[T any](b *Buffer, first, count int, access Access) *View[T] {
	size := SizeOf[T]()
	return mapView[T](b.MapRange(first*size, count*size, access))
}

func mapView[T any](m *Mapping) *View[T] {
	if m == nil {
		return nil
	}
	if SizeOf[T]() == 0 {
		m.Release()
		return nil
	}
	return &View[T]{m: m, elems: overlay[T](m.data)}
}

// Count returns the number of whole elements in the view.
func (v *View[T]) Count() int {
	if v == nil {
		return 0
	}
	return len(v.elems)
}

// At returns element i.
func (v *View[T]) At(i int) T {
	return v.elems[i]
}

// Set stores x as element i.
func (v *View[T]) Set(i int, x T) {
	v.elems[i] = x
}

// Slice returns the elements aliasing the mapped memory. It must not be used
// after Release.
func (v *View[T]) Slice() []T {
	if v == nil {
		return nil
	}
	return v.elems
}

// All iterates over the elements from first to last.
func (v *View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.Count(); i++ {
			if !yield(i, v.elems[i]) {
				return
			}
		}
	}
}

// Backward iterates over the elements from last to first.
func (v *View[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.Count() - 1; i >= 0; i-- {
			if !yield(i, v.elems[i]) {
				return
			}
		}
	}
}

// Mapping returns the underlying byte mapping.
func (v *View[T]) Mapping() *Mapping {
	return v.m
}

// Release releases the underlying mapping. It is safe on a nil View.
func (v *View[T]) Release() bool {
	if v == nil {
		return true
	}
	v.elems = nil
	return v.m.Release()
}

// MapFunc maps the whole buffer as elements of type T and calls fn with them.
// The buffer is unmapped when fn returns or panics. It reports whether the
// mapping was made and survived intact.
func MapFunc[T any](b *Buffer, access Access, fn func(elems []T)) (ok bool) {
	v := MapView[T](b, access)
	if v == nil {
		return false
	}
	defer func() {
		ok = v.Release() && ok
	}()
	fn(v.Slice())
	return true
}
