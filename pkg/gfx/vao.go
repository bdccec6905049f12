package gfx

import (
	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// VertexAttrib describes one shader attribute inside a vertex.
type VertexAttrib struct {
	// Index is the attribute slot; a negative Index uses the attrib's
	// position in the layout.
	Index int
	// Count is the number of components, 1 to 4.
	Count      int32
	Type       Type
	Normalized bool
	// Integer keeps integer components as integers in the shader instead
	// of converting them to floats.
	Integer bool
	// Offset is the byte offset of the attribute within a vertex.
	Offset int
	// Divisor advances the attribute per Divisor instances instead of per
	// vertex when not zero.
	Divisor uint32
}

func (a VertexAttrib) size() int {
	return int(a.Count) * a.Type.Size()
}

func (a VertexAttrib) slot(i int) uint32 {
	if a.Index < 0 {
		return uint32(i)
	}
	return uint32(a.Index)
}

// Floats builds a packed float layout from per-attribute component counts and
// returns it with its stride. Example vertex layout: (x,y,z, s,t) ->
// Floats(3, 2).
func Floats(counts ...int32) (int, []VertexAttrib) {
	attribs := make([]VertexAttrib, len(counts))
	for i, c := range counts {
		attribs[i] = VertexAttrib{Index: -1, Count: c, Type: Float}
	}
	return Packed(attribs...)
}

// Packed assigns consecutive offsets to attribs in order and returns the
// layout with its stride.
func Packed(attribs ...VertexAttrib) (int, []VertexAttrib) {
	layout := make([]VertexAttrib, len(attribs))
	var stride int
	for i, a := range attribs {
		a.Offset = stride
		layout[i] = a
		stride += a.size()
	}
	return stride, layout
}

// VertexArray records how the bytes of a vertex data buffer decompose into
// shader attributes.
type VertexArray struct {
	Handle
	source *Buffer
	stride int
	layout []VertexAttrib
}

// Initialize creates the vertex array over source, whose category must be
// VertexData, and configures one attribute per layout entry against stride.
func (va *VertexArray) Initialize(source *Buffer, stride int, layout []VertexAttrib) bool {
	va.Finalize()
	if source == nil {
		va.reset(nil, ObjectVertexArray)
		return va.fail(InvalidData)
	}
	gc := source.ctx
	va.reset(gc, ObjectVertexArray)
	if source.cat != VertexData {
		return va.fail(UnsupportedType)
	}
	if !source.Valid() || gc == nil {
		return va.fail(InvalidData)
	}
	if len(layout) == 0 {
		return va.fail(InsufficientCount)
	}
	if stride <= 0 {
		return va.fail(InvalidData)
	}
	max := gc.MaxVertexAttribs()
	for i, a := range layout {
		if a.Count < 1 || a.Count > 4 || a.Type.Size() == 0 || (a.Integer && !a.Type.Integer()) {
			return va.fail(UnsupportedType)
		}
		if int(a.slot(i)) >= max {
			return va.fail(InvalidIndex)
		}
		if a.Offset < 0 || a.Offset+a.size() > stride {
			return va.fail(InvalidData)
		}
	}

	va.id = gc.drv.GenVertexArray()
	if va.id == 0 {
		return va.fail(CreationFailed)
	}
	vg := Bind(va)
	defer vg.Release()
	bg := Bind(source)
	defer bg.Release()
	if va.flags != 0 || source.flags != 0 {
		return va.fail(BindFailed)
	}

	for i, a := range layout {
		slot := a.slot(i)
		gc.drv.EnableVertexAttribArray(slot)
		if a.Integer {
			gc.drv.VertexAttribIPointer(slot, a.Count, a.Type, stride, a.Offset)
		} else {
			gc.drv.VertexAttribPointer(slot, a.Count, a.Type, a.Normalized, stride, a.Offset)
		}
		if a.Divisor != 0 {
			gc.drv.VertexAttribDivisor(slot, a.Divisor)
		}
	}
	if err := gc.CheckError("VertexAttribPointer"); err != nil {
		return va.failInfo(InvalidData, err.Error())
	}

	va.source = source
	va.stride = stride
	va.layout = append([]VertexAttrib(nil), layout...)
	log.Debugf("created vertex array %d over buffer %d (%d attribs, stride %d)", va.id, source.id, len(layout), stride)
	return true
}

// Finalize deletes the vertex array. The source buffer is not touched.
func (va *VertexArray) Finalize() {
	va.release()
	va.source = nil
	va.stride = 0
	va.layout = nil
}

func (va *VertexArray) Target() Target {
	return VertexArrayTarget
}

// Bind binds the vertex array until the returned Binder is released.
func (va *VertexArray) Bind() *Binder {
	return Bind(va)
}

// Source returns the vertex data buffer the layout was recorded against.
func (va *VertexArray) Source() *Buffer {
	return va.source
}

func (va *VertexArray) Stride() int {
	return va.stride
}

// Layout returns a copy of the attributes.
func (va *VertexArray) Layout() []VertexAttrib {
	return append([]VertexAttrib(nil), va.layout...)
}

// Binding reports whether every enabled attribute slot still reads from a
// live buffer. It is false for an invalid vertex array.
func (va *VertexArray) Binding() bool {
	if !va.Valid() {
		return false
	}
	g := Bind(va)
	defer g.Release()
	drv := va.ctx.drv
	for i := 0; i < va.ctx.MaxVertexAttribs(); i++ {
		if drv.VertexAttrib(uint32(i), AttribEnabled) == 0 {
			continue
		}
		id := uint32(drv.VertexAttrib(uint32(i), AttribBufferBinding))
		if id == 0 || !drv.IsBuffer(id) {
			return false
		}
	}
	return true
}

// Attach records an index buffer in the vertex array state so that indexed
// draws with the array bound read from it.
func (va *VertexArray) Attach(indices *Buffer) bool {
	if !va.Valid() || indices == nil || !indices.Valid() {
		return false
	}
	if indices.cat != IndexData {
		log.Warnf("cannot attach %v buffer %d as indices", indices.cat, indices.id)
		return false
	}
	g := Bind(va)
	defer g.Release()
	// the element binding belongs to the vertex array, so it is not undone
	va.ctx.bind(ElementArrayBuffer, indices.id)
	return va.ctx.Bound(ElementArrayBuffer) == indices.id
}

// SetAttribEnabled toggles one attribute slot.
func (va *VertexArray) SetAttribEnabled(index uint32, enabled bool) bool {
	if !va.Valid() || int(index) >= va.ctx.MaxVertexAttribs() {
		return false
	}
	g := Bind(va)
	defer g.Release()
	if enabled {
		va.ctx.drv.EnableVertexAttribArray(index)
	} else {
		va.ctx.drv.DisableVertexAttribArray(index)
	}
	return true
}
