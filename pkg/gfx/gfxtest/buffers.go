package gfxtest

import (
	"encoding/binary"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

type buffer struct {
	data      []byte
	usage     gfx.Usage
	allocated bool
	mapped    bool
}

type attrib struct {
	enabled    bool
	buffer     uint32
	size       int32
	typ        gfx.Type
	normalized bool
	integer    bool
	stride     int
	offset     int
	divisor    uint32
}

type vertexBinding struct {
	buffer uint32
	offset int
	stride int
}

type vertexArray struct {
	elements uint32
	attribs  map[uint32]*attrib
	bindings map[uint32]vertexBinding
}

func (va *vertexArray) attrib(index uint32) *attrib {
	if va.attribs == nil {
		va.attribs = make(map[uint32]*attrib)
	}
	a, ok := va.attribs[index]
	if !ok {
		a = &attrib{size: 4, typ: gfx.Float}
		va.attribs[index] = a
	}
	return a
}

func (d *Driver) boundArray() *vertexArray {
	if va, ok := d.arrays[d.vao]; ok {
		return va
	}
	return &d.vao0
}

// boundBuffer returns the buffer bound to target, queueing
// InvalidOperation when there is none.
func (d *Driver) boundBuffer(target gfx.Target) *buffer {
	b, ok := d.buffers[d.Bound(target)]
	if !ok {
		d.fail(gfx.InvalidOperation)
		return nil
	}
	return b
}

// BufferContents returns a copy of the contents of buffer id.
func (d *Driver) BufferContents(id uint32) []byte {
	b, ok := d.buffers[id]
	if !ok {
		return nil
	}
	return append([]byte(nil), b.data...)
}

// BufferMapped reports whether buffer id is mapped.
func (d *Driver) BufferMapped(id uint32) bool {
	b, ok := d.buffers[id]
	return ok && b.mapped
}

// LiveBuffers returns the number of buffers not deleted.
func (d *Driver) LiveBuffers() int {
	return len(d.buffers)
}

func (d *Driver) GenBuffer() uint32 {
	id := d.gen()
	if id != 0 {
		d.buffers[id] = &buffer{}
	}
	return id
}

// DeleteBuffer deletes the buffer and clears it from the generic and indexed
// bindings and from the bound vertex array. Other vertex arrays keep
// referring to the dead name.
func (d *Driver) DeleteBuffer(id uint32) {
	if _, ok := d.buffers[id]; !ok {
		return
	}
	delete(d.buffers, id)
	for t, b := range d.bindings {
		if b == id {
			d.bindings[t] = 0
		}
	}
	for k, b := range d.indexed {
		if b == id {
			delete(d.indexed, k)
		}
	}
	va := d.boundArray()
	if va.elements == id {
		va.elements = 0
	}
	for _, a := range va.attribs {
		if a.buffer == id {
			a.buffer = 0
		}
	}
}

func (d *Driver) IsBuffer(id uint32) bool {
	_, ok := d.buffers[id]
	return ok
}

func (d *Driver) BindBuffer(target gfx.Target, id uint32) {
	d.BindBufferCalls++
	if d.IgnoreBind[target] {
		return
	}
	if _, ok := d.buffers[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	if target == gfx.ElementArrayBuffer {
		d.boundArray().elements = id
		return
	}
	d.bindings[target] = id
}

func (d *Driver) BindBufferBase(target gfx.Target, index, id uint32) {
	if int(index) >= d.MaxUniformBindings {
		d.fail(gfx.InvalidValue)
		return
	}
	if _, ok := d.buffers[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	if id == 0 {
		delete(d.indexed, indexKey{target, index})
	} else {
		d.indexed[indexKey{target, index}] = id
	}
	d.bindings[target] = id
}

func (d *Driver) BindBufferRange(target gfx.Target, index, id uint32, offset, size int) {
	b, ok := d.buffers[id]
	if !ok || offset < 0 || size <= 0 || offset+size > len(b.data) {
		d.fail(gfx.InvalidValue)
		return
	}
	d.BindBufferBase(target, index, id)
}

func (d *Driver) BufferData(target gfx.Target, size int, data []byte, usage gfx.Usage) {
	b := d.boundBuffer(target)
	if b == nil {
		return
	}
	if size < 0 || (data != nil && len(data) != size) {
		d.fail(gfx.InvalidValue)
		return
	}
	if d.MaxBufferSize > 0 && size > d.MaxBufferSize {
		d.fail(gfx.OutOfMemory)
		return
	}
	d.BufferDataCalls++
	b.data = alloc(size)
	copy(b.data, data)
	b.usage = usage
	b.allocated = true
	b.mapped = false
}

func (d *Driver) BufferSubData(target gfx.Target, offset int, data []byte) {
	b := d.boundBuffer(target)
	if b == nil {
		return
	}
	if b.mapped {
		d.fail(gfx.InvalidOperation)
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		d.fail(gfx.InvalidValue)
		return
	}
	d.SubDataCalls++
	copy(b.data[offset:], data)
}

func (d *Driver) GetBufferSubData(target gfx.Target, offset int, out []byte) {
	b := d.boundBuffer(target)
	if b == nil {
		return
	}
	if b.mapped || offset < 0 || offset+len(out) > len(b.data) {
		d.fail(gfx.InvalidValue)
		return
	}
	copy(out, b.data[offset:])
}

func (d *Driver) CopyBufferSubData(read, write gfx.Target, readOffset, writeOffset, size int) {
	src, dst := d.boundBuffer(read), d.boundBuffer(write)
	if src == nil || dst == nil {
		return
	}
	if src.mapped || dst.mapped {
		d.fail(gfx.InvalidOperation)
		return
	}
	if readOffset < 0 || writeOffset < 0 || size < 0 ||
		readOffset+size > len(src.data) || writeOffset+size > len(dst.data) {
		d.fail(gfx.InvalidValue)
		return
	}
	d.CopyBufferCalls++
	copy(dst.data[writeOffset:writeOffset+size], src.data[readOffset:readOffset+size])
}

func (d *Driver) BufferParameter(target gfx.Target, param gfx.BufferParam) int {
	b := d.boundBuffer(target)
	if b == nil {
		return 0
	}
	switch param {
	case gfx.BufferSize:
		return len(b.data)
	case gfx.BufferUsage:
		return int(b.usage)
	case gfx.BufferMapped:
		if b.mapped {
			return 1
		}
		return 0
	}
	d.fail(gfx.InvalidEnum)
	return 0
}

func (d *Driver) MapBufferRange(target gfx.Target, offset, length int, access gfx.Access) []byte {
	b := d.boundBuffer(target)
	if b == nil {
		return nil
	}
	if d.RefuseMap || b.mapped {
		d.fail(gfx.InvalidOperation)
		return nil
	}
	if offset < 0 || length <= 0 || offset+length > len(b.data) || access&gfx.ReadWrite == 0 {
		d.fail(gfx.InvalidValue)
		return nil
	}
	d.MapCalls++
	b.mapped = true
	return b.data[offset : offset+length]
}

func (d *Driver) UnmapBuffer(target gfx.Target) bool {
	b := d.boundBuffer(target)
	if b == nil {
		return false
	}
	if !b.mapped {
		d.fail(gfx.InvalidOperation)
		return false
	}
	b.mapped = false
	return !d.CorruptUnmap
}

func (d *Driver) GenVertexArray() uint32 {
	id := d.gen()
	if id != 0 {
		d.arrays[id] = &vertexArray{}
	}
	return id
}

func (d *Driver) DeleteVertexArray(id uint32) {
	if _, ok := d.arrays[id]; !ok {
		return
	}
	delete(d.arrays, id)
	if d.vao == id {
		d.vao = 0
	}
}

func (d *Driver) IsVertexArray(id uint32) bool {
	_, ok := d.arrays[id]
	return ok
}

func (d *Driver) BindVertexArray(id uint32) {
	if d.IgnoreBind[gfx.VertexArrayTarget] {
		return
	}
	if _, ok := d.arrays[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.vao = id
}

// attribTarget returns the bound vertex array for an attribute call, which
// the core profile refuses on the default vertex array.
func (d *Driver) attribTarget(index uint32) *attrib {
	if d.vao == 0 {
		d.fail(gfx.InvalidOperation)
		return nil
	}
	if int(index) >= d.MaxAttribs {
		d.fail(gfx.InvalidValue)
		return nil
	}
	return d.boundArray().attrib(index)
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	if a := d.attribTarget(index); a != nil {
		a.enabled = true
	}
}

func (d *Driver) DisableVertexAttribArray(index uint32) {
	if a := d.attribTarget(index); a != nil {
		a.enabled = false
	}
}

func (d *Driver) VertexAttribPointer(index uint32, count int32, typ gfx.Type, normalized bool, stride, offset int) {
	a := d.attribTarget(index)
	if a == nil {
		return
	}
	if d.bindings[gfx.ArrayBuffer] == 0 {
		d.fail(gfx.InvalidOperation)
		return
	}
	*a = attrib{
		enabled:    a.enabled,
		buffer:     d.bindings[gfx.ArrayBuffer],
		size:       count,
		typ:        typ,
		normalized: normalized,
		stride:     stride,
		offset:     offset,
		divisor:    a.divisor,
	}
}

func (d *Driver) VertexAttribIPointer(index uint32, count int32, typ gfx.Type, stride, offset int) {
	d.VertexAttribPointer(index, count, typ, false, stride, offset)
	if a := d.boundArray().attribs[index]; a != nil && d.vao != 0 {
		a.integer = true
	}
}

func (d *Driver) VertexAttribDivisor(index, divisor uint32) {
	if a := d.attribTarget(index); a != nil {
		a.divisor = divisor
	}
}

func (d *Driver) VertexAttrib(index uint32, param gfx.AttribParam) int {
	if int(index) >= d.MaxAttribs {
		d.fail(gfx.InvalidValue)
		return 0
	}
	a := d.boundArray().attrib(index)
	switch param {
	case gfx.AttribEnabled:
		return boolInt(a.enabled)
	case gfx.AttribSize:
		return int(a.size)
	case gfx.AttribStride:
		return a.stride
	case gfx.AttribType:
		return int(a.typ)
	case gfx.AttribNormalized:
		return boolInt(a.normalized)
	case gfx.AttribBufferBinding:
		return int(a.buffer)
	case gfx.AttribInteger:
		return boolInt(a.integer)
	case gfx.AttribDivisor:
		return int(a.divisor)
	}
	d.fail(gfx.InvalidEnum)
	return 0
}

// AttribOffset returns the byte offset recorded for an attribute of the bound
// vertex array.
func (d *Driver) AttribOffset(index uint32) int {
	if a, ok := d.boundArray().attribs[index]; ok {
		return a.offset
	}
	return 0
}

func (d *Driver) BindVertexBuffer(bindingIndex, id uint32, offset, stride int) {
	if d.vao == 0 {
		d.fail(gfx.InvalidOperation)
		return
	}
	if _, ok := d.buffers[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	va := d.boundArray()
	if va.bindings == nil {
		va.bindings = make(map[uint32]vertexBinding)
	}
	va.bindings[bindingIndex] = vertexBinding{id, offset, stride}
}

// VertexBinding returns the buffer attached to a vertex buffer binding index
// of the bound vertex array.
func (d *Driver) VertexBinding(bindingIndex uint32) (id uint32, offset, stride int) {
	b := d.boundArray().bindings[bindingIndex]
	return b.buffer, b.offset, b.stride
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// drawable queues InvalidOperation and reports false when no vertex array is
// bound or a buffer the draw reads from is mapped.
func (d *Driver) drawable() bool {
	if d.vao == 0 {
		d.fail(gfx.InvalidOperation)
		return false
	}
	for _, a := range d.boundArray().attribs {
		if b, ok := d.buffers[a.buffer]; a.enabled && ok && b.mapped {
			d.fail(gfx.InvalidOperation)
			return false
		}
	}
	return true
}

func (d *Driver) record(c DrawCall) {
	c.VertexArray = d.vao
	c.Elements = d.boundArray().elements
	c.Program = d.current
	d.Draws = append(d.Draws, c)
}

func (d *Driver) DrawArrays(mode gfx.Mode, first, count int) {
	d.drawArrays(OpArrays, mode, first, count, 1)
}

func (d *Driver) DrawArraysInstanced(mode gfx.Mode, first, count, instances int) {
	d.drawArrays(OpArraysInstanced, mode, first, count, instances)
}

func (d *Driver) drawArrays(op DrawOp, mode gfx.Mode, first, count, instances int) {
	if first < 0 || count < 0 || instances < 0 {
		d.fail(gfx.InvalidValue)
		return
	}
	if !d.drawable() {
		return
	}
	d.record(DrawCall{Op: op, Mode: mode, First: first, Count: count, Instances: instances})
}

func (d *Driver) elements(count int, typ gfx.Type) bool {
	if count < 0 {
		d.fail(gfx.InvalidValue)
		return false
	}
	if typ != gfx.UnsignedByte && typ != gfx.UnsignedShort && typ != gfx.UnsignedInt {
		d.fail(gfx.InvalidEnum)
		return false
	}
	if !d.drawable() {
		return false
	}
	b, ok := d.buffers[d.boundArray().elements]
	if !ok || b.mapped {
		d.fail(gfx.InvalidOperation)
		return false
	}
	return true
}

func (d *Driver) DrawElements(mode gfx.Mode, count int, typ gfx.Type, offset int) {
	if d.elements(count, typ) {
		d.record(DrawCall{Op: OpElements, Mode: mode, Count: count, Type: typ, Offset: offset, Instances: 1})
	}
}

func (d *Driver) DrawElementsInstanced(mode gfx.Mode, count int, typ gfx.Type, offset, instances int) {
	if instances < 0 {
		d.fail(gfx.InvalidValue)
		return
	}
	if d.elements(count, typ) {
		d.record(DrawCall{Op: OpElementsInstanced, Mode: mode, Count: count, Type: typ, Offset: offset, Instances: instances})
	}
}

// command reads size bytes of draw parameters from the bound indirect
// buffer at offset.
func (d *Driver) command(offset, size int) ([]uint32, bool) {
	b := d.boundBuffer(gfx.DrawIndirectBuffer)
	if b == nil {
		return nil, false
	}
	if b.mapped || offset < 0 || offset%4 != 0 || offset+size > len(b.data) {
		d.fail(gfx.InvalidOperation)
		return nil, false
	}
	words := make([]uint32, size/4)
	for i := range words {
		words[i] = binary.NativeEndian.Uint32(b.data[offset+4*i:])
	}
	return words, true
}

func (d *Driver) DrawArraysIndirect(mode gfx.Mode, offset int) {
	if !d.drawable() {
		return
	}
	cmd, ok := d.command(offset, 16)
	if !ok {
		return
	}
	d.record(DrawCall{
		Op:        OpArraysIndirect,
		Mode:      mode,
		Count:     int(cmd[0]),
		Instances: int(cmd[1]),
		First:     int(cmd[2]),
		Offset:    offset,
		Indirect:  d.bindings[gfx.DrawIndirectBuffer],
	})
}

func (d *Driver) DrawElementsIndirect(mode gfx.Mode, typ gfx.Type, offset int) {
	if !d.elements(0, typ) {
		return
	}
	cmd, ok := d.command(offset, 20)
	if !ok {
		return
	}
	d.record(DrawCall{
		Op:        OpElementsIndirect,
		Mode:      mode,
		Type:      typ,
		Count:     int(cmd[0]),
		Instances: int(cmd[1]),
		First:     int(cmd[2]),
		Offset:    offset,
		Indirect:  d.bindings[gfx.DrawIndirectBuffer],
	})
}
