package gldriver

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

func (d *Driver) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (d *Driver) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *Driver) IsTexture(id uint32) bool {
	return gl.IsTexture(id)
}

func (d *Driver) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *Driver) BindTexture(target gfx.Target, id uint32) {
	gl.BindTexture(uint32(target), id)
}

// internalFormat picks the sized internal format matching a client format.
func internalFormat(format gfx.PixelFormat) int32 {
	switch format {
	case gfx.Red, gfx.Alpha:
		return gl.R8
	case gfx.RGB:
		return gl.RGB8
	}
	return gl.RGBA8
}

// clientFormat maps the removed ALPHA format onto the red channel.
func clientFormat(format gfx.PixelFormat) uint32 {
	if format == gfx.Alpha {
		return gl.RED
	}
	return uint32(format)
}

func (d *Driver) TexImage2D(target gfx.Target, width, height int, format gfx.PixelFormat, data []byte) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.TexImage2D(uint32(target), 0, internalFormat(format), int32(width), int32(height), 0,
		clientFormat(format), gl.UNSIGNED_BYTE, ptr)
}

func (d *Driver) TexImage2DBuffer(target gfx.Target, width, height int, format gfx.PixelFormat, offset int) {
	gl.TexImage2D(uint32(target), 0, internalFormat(format), int32(width), int32(height), 0,
		clientFormat(format), gl.UNSIGNED_BYTE, gl.PtrOffset(offset))
}

func (d *Driver) TexSubImage2D(target gfx.Target, x, y, width, height int, format gfx.PixelFormat, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.TexSubImage2D(uint32(target), 0, int32(x), int32(y), int32(width), int32(height),
		clientFormat(format), gl.UNSIGNED_BYTE, gl.Ptr(data))
}

func (d *Driver) GetTexImage(target gfx.Target, format gfx.PixelFormat, out []byte) {
	if len(out) == 0 {
		return
	}
	gl.GetTexImage(uint32(target), 0, clientFormat(format), gl.UNSIGNED_BYTE, gl.Ptr(out))
}

func (d *Driver) GenerateMipmap(target gfx.Target) {
	gl.GenerateMipmap(uint32(target))
}

func (d *Driver) TexParameter(target gfx.Target, param, value int32) {
	gl.TexParameteri(uint32(target), uint32(param), value)
}

func (d *Driver) GenSampler() uint32 {
	var id uint32
	gl.GenSamplers(1, &id)
	return id
}

func (d *Driver) DeleteSampler(id uint32) {
	gl.DeleteSamplers(1, &id)
}

func (d *Driver) IsSampler(id uint32) bool {
	return gl.IsSampler(id)
}

func (d *Driver) BindSampler(unit, id uint32) {
	gl.BindSampler(unit, id)
}

func (d *Driver) SamplerParameter(id uint32, param, value int32) {
	gl.SamplerParameteri(id, uint32(param), value)
}

func (d *Driver) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (d *Driver) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

func (d *Driver) IsFramebuffer(id uint32) bool {
	return gl.IsFramebuffer(id)
}

func (d *Driver) BindFramebuffer(id uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
}

func (d *Driver) FramebufferTexture2D(attachment uint32, texTarget gfx.Target, texture uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, uint32(texTarget), texture, 0)
}

func (d *Driver) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}
