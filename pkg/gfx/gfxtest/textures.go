package gfxtest

import "github.com/gregjohnson2017/tabula-gfx/pkg/gfx"

type texture struct {
	width  int
	height int
	format gfx.PixelFormat
	pixels []byte
	params map[int32]int32
}

type sampler struct {
	params map[int32]int32
}

type framebuffer struct {
	color uint32
}

func (d *Driver) GenTexture() uint32 {
	id := d.gen()
	if id != 0 {
		d.textures[id] = &texture{params: make(map[int32]int32)}
	}
	return id
}

func (d *Driver) DeleteTexture(id uint32) {
	if _, ok := d.textures[id]; !ok {
		return
	}
	delete(d.textures, id)
	for unit, t := range d.units {
		if t == id {
			d.units[unit] = 0
		}
	}
}

func (d *Driver) IsTexture(id uint32) bool {
	_, ok := d.textures[id]
	return ok
}

func (d *Driver) ActiveTexture(unit uint32) {
	d.activeUnit = unit
}

func (d *Driver) BindTexture(target gfx.Target, id uint32) {
	if d.IgnoreBind[target] {
		return
	}
	if target != gfx.Texture2D {
		d.fail(gfx.InvalidEnum)
		return
	}
	if _, ok := d.textures[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.units[d.activeUnit] = id
}

func (d *Driver) boundTexture(target gfx.Target) *texture {
	t, ok := d.textures[d.Bound(target)]
	if !ok {
		d.fail(gfx.InvalidOperation)
		return nil
	}
	return t
}

func (d *Driver) TexImage2D(target gfx.Target, width, height int, format gfx.PixelFormat, data []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	size := width * height * format.BytesPerPixel()
	if width < 0 || height < 0 || format.BytesPerPixel() == 0 || (data != nil && len(data) < size) {
		d.fail(gfx.InvalidValue)
		return
	}
	d.TexUploads++
	t.width, t.height, t.format = width, height, format
	t.pixels = alloc(size)
	copy(t.pixels, data)
}

func (d *Driver) TexImage2DBuffer(target gfx.Target, width, height int, format gfx.PixelFormat, offset int) {
	src, ok := d.buffers[d.bindings[gfx.PixelUnpackBuffer]]
	size := width * height * format.BytesPerPixel()
	if !ok || src.mapped || offset < 0 || offset+size > len(src.data) {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.TexImage2D(target, width, height, format, src.data[offset:offset+size])
}

func (d *Driver) TexSubImage2D(target gfx.Target, x, y, width, height int, format gfx.PixelFormat, data []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	bpp := format.BytesPerPixel()
	if format != t.format || x < 0 || y < 0 || x+width > t.width || y+height > t.height || len(data) < width*height*bpp {
		d.fail(gfx.InvalidValue)
		return
	}
	d.TexUploads++
	for row := 0; row < height; row++ {
		dst := ((y+row)*t.width + x) * bpp
		copy(t.pixels[dst:dst+width*bpp], data[row*width*bpp:])
	}
}

func (d *Driver) GetTexImage(target gfx.Target, format gfx.PixelFormat, out []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	if format != t.format {
		d.fail(gfx.InvalidOperation)
		return
	}
	copy(out, t.pixels)
}

func (d *Driver) GenerateMipmap(target gfx.Target) {
	if t := d.boundTexture(target); t != nil {
		d.MipmapCalls++
	}
}

func (d *Driver) TexParameter(target gfx.Target, param, value int32) {
	if t := d.boundTexture(target); t != nil {
		t.params[param] = value
	}
}

// TexParam returns a parameter set on texture id.
func (d *Driver) TexParam(id uint32, param int32) int32 {
	if t, ok := d.textures[id]; ok {
		return t.params[param]
	}
	return 0
}

func (d *Driver) GenSampler() uint32 {
	id := d.gen()
	if id != 0 {
		d.samplers[id] = &sampler{params: make(map[int32]int32)}
	}
	return id
}

func (d *Driver) DeleteSampler(id uint32) {
	delete(d.samplers, id)
	for unit, s := range d.samplerUnits {
		if s == id {
			delete(d.samplerUnits, unit)
		}
	}
}

func (d *Driver) IsSampler(id uint32) bool {
	_, ok := d.samplers[id]
	return ok
}

func (d *Driver) BindSampler(unit, id uint32) {
	if _, ok := d.samplers[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.samplerUnits[unit] = id
}

// SamplerBound returns the sampler bound to a texture unit.
func (d *Driver) SamplerBound(unit uint32) uint32 {
	return d.samplerUnits[unit]
}

func (d *Driver) SamplerParameter(id uint32, param, value int32) {
	s, ok := d.samplers[id]
	if !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	s.params[param] = value
}

// SamplerParam returns a parameter set on sampler id.
func (d *Driver) SamplerParam(id uint32, param int32) int32 {
	if s, ok := d.samplers[id]; ok {
		return s.params[param]
	}
	return 0
}

func (d *Driver) GenFramebuffer() uint32 {
	id := d.gen()
	if id != 0 {
		d.framebuffers[id] = &framebuffer{}
	}
	return id
}

func (d *Driver) DeleteFramebuffer(id uint32) {
	delete(d.framebuffers, id)
	if d.framebuffer == id {
		d.framebuffer = 0
	}
}

func (d *Driver) IsFramebuffer(id uint32) bool {
	_, ok := d.framebuffers[id]
	return ok
}

func (d *Driver) BindFramebuffer(id uint32) {
	if d.IgnoreBind[gfx.FrameBufferTarget] {
		return
	}
	if _, ok := d.framebuffers[id]; id != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.framebuffer = id
}

func (d *Driver) FramebufferTexture2D(attachment uint32, texTarget gfx.Target, tex uint32) {
	fb, ok := d.framebuffers[d.framebuffer]
	if !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	if _, ok := d.textures[tex]; tex != 0 && !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	fb.color = tex
}

func (d *Driver) FramebufferComplete() bool {
	fb, ok := d.framebuffers[d.framebuffer]
	if !ok || d.IncompleteFramebuffer {
		return false
	}
	t, ok := d.textures[fb.color]
	return ok && t.width > 0 && t.height > 0
}
