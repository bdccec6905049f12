package gldriver

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

func (d *Driver) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (d *Driver) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (d *Driver) IsBuffer(id uint32) bool {
	return gl.IsBuffer(id)
}

func (d *Driver) BindBuffer(target gfx.Target, id uint32) {
	gl.BindBuffer(uint32(target), id)
}

func (d *Driver) BindBufferBase(target gfx.Target, index, id uint32) {
	gl.BindBufferBase(uint32(target), index, id)
}

func (d *Driver) BindBufferRange(target gfx.Target, index, id uint32, offset, size int) {
	gl.BindBufferRange(uint32(target), index, id, offset, size)
}

func (d *Driver) BufferData(target gfx.Target, size int, data []byte, usage gfx.Usage) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(uint32(target), size, ptr, uint32(usage))
}

func (d *Driver) BufferSubData(target gfx.Target, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(uint32(target), offset, len(data), gl.Ptr(data))
}

func (d *Driver) GetBufferSubData(target gfx.Target, offset int, out []byte) {
	if len(out) == 0 {
		return
	}
	gl.GetBufferSubData(uint32(target), offset, len(out), gl.Ptr(out))
}

func (d *Driver) CopyBufferSubData(read, write gfx.Target, readOffset, writeOffset, size int) {
	gl.CopyBufferSubData(uint32(read), uint32(write), readOffset, writeOffset, size)
}

func (d *Driver) BufferParameter(target gfx.Target, param gfx.BufferParam) int {
	var v int32
	gl.GetBufferParameteriv(uint32(target), uint32(param), &v)
	return int(v)
}

func (d *Driver) MapBufferRange(target gfx.Target, offset, length int, access gfx.Access) []byte {
	p := gl.MapBufferRange(uint32(target), offset, length, uint32(access))
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), length)
}

func (d *Driver) UnmapBuffer(target gfx.Target) bool {
	return gl.UnmapBuffer(uint32(target))
}

func (d *Driver) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (d *Driver) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (d *Driver) IsVertexArray(id uint32) bool {
	return gl.IsVertexArray(id)
}

func (d *Driver) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *Driver) DisableVertexAttribArray(index uint32) {
	gl.DisableVertexAttribArray(index)
}

func (d *Driver) VertexAttribPointer(index uint32, count int32, typ gfx.Type, normalized bool, stride, offset int) {
	gl.VertexAttribPointer(index, count, uint32(typ), normalized, int32(stride), gl.PtrOffset(offset))
}

func (d *Driver) VertexAttribIPointer(index uint32, count int32, typ gfx.Type, stride, offset int) {
	gl.VertexAttribIPointer(index, count, uint32(typ), int32(stride), gl.PtrOffset(offset))
}

func (d *Driver) VertexAttribDivisor(index, divisor uint32) {
	gl.VertexAttribDivisor(index, divisor)
}

func (d *Driver) VertexAttrib(index uint32, param gfx.AttribParam) int {
	var v int32
	gl.GetVertexAttribiv(index, uint32(param), &v)
	return int(v)
}

func (d *Driver) BindVertexBuffer(bindingIndex, id uint32, offset, stride int) {
	gl.BindVertexBuffer(bindingIndex, id, offset, int32(stride))
}

func (d *Driver) DrawArrays(mode gfx.Mode, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (d *Driver) DrawArraysInstanced(mode gfx.Mode, first, count, instances int) {
	gl.DrawArraysInstanced(uint32(mode), int32(first), int32(count), int32(instances))
}

func (d *Driver) DrawElements(mode gfx.Mode, count int, typ gfx.Type, offset int) {
	gl.DrawElements(uint32(mode), int32(count), uint32(typ), gl.PtrOffset(offset))
}

func (d *Driver) DrawElementsInstanced(mode gfx.Mode, count int, typ gfx.Type, offset, instances int) {
	gl.DrawElementsInstanced(uint32(mode), int32(count), uint32(typ), gl.PtrOffset(offset), int32(instances))
}

func (d *Driver) DrawArraysIndirect(mode gfx.Mode, offset int) {
	gl.DrawArraysIndirect(uint32(mode), gl.PtrOffset(offset))
}

func (d *Driver) DrawElementsIndirect(mode gfx.Mode, typ gfx.Type, offset int) {
	gl.DrawElementsIndirect(uint32(mode), uint32(typ), gl.PtrOffset(offset))
}
