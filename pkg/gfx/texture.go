package gfx

import (
	"fmt"
	"image"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"golang.org/x/image/draw"
)

// Texture parameter names and values.
const (
	TextureMagFilter int32 = 0x2800
	TextureMinFilter int32 = 0x2801
	TextureWrapS     int32 = 0x2802
	TextureWrapT     int32 = 0x2803

	Nearest             int32 = 0x2600
	Linear              int32 = 0x2601
	LinearMipmapNearest int32 = 0x2701
	LinearMipmapLinear  int32 = 0x2703
	Repeat              int32 = 0x2901
	ClampToEdge         int32 = 0x812F
)

// Texture is a 2D image in GPU memory with unsigned byte components.
type Texture struct {
	Handle
	width  int
	height int
	format PixelFormat
}

// NewTexture allocates a width by height texture holding data, which may be
// nil. Check Valid on the result.
func NewTexture(gc *Context, width, height int, data []byte, format PixelFormat) *Texture {
	t := &Texture{}
	t.Initialize(gc, width, height, data, format)
	return t
}

// NewTextureFromImage uploads img, see InitializeImage.
func NewTextureFromImage(gc *Context, img image.Image) *Texture {
	t := &Texture{}
	t.InitializeImage(gc, img)
	return t
}

// Initialize allocates the texture. data must be nil or hold exactly
// width*height pixels of format; mipmaps are generated when it is not nil.
func (t *Texture) Initialize(gc *Context, width, height int, data []byte, format PixelFormat) bool {
	if !t.create(gc, width, height, format) {
		return false
	}
	if data != nil && len(data) != t.byteSize() {
		return t.failInfo(InvalidData, fmt.Sprintf("%d bytes for %dx%d %v pixels", len(data), width, height, format))
	}
	g := Bind(t)
	defer g.Release()
	if t.flags != 0 {
		return false
	}
	gc.drv.TexImage2D(Texture2D, width, height, format, data)
	if err := gc.CheckError("TexImage2D"); err != nil {
		return t.failInfo(InvalidData, err.Error())
	}
	if data != nil {
		gc.drv.GenerateMipmap(Texture2D)
	}
	log.Debugf("created %dx%d texture %d", width, height, t.id)
	return true
}

// InitializeImage uploads img as RGBA pixels, converting other color models.
func (t *Texture) InitializeImage(gc *Context, img image.Image) bool {
	if img == nil {
		t.Finalize()
		t.reset(gc, ObjectTexture)
		return t.fail(InvalidData)
	}
	n := toNRGBA(img)
	if !t.Initialize(gc, n.Rect.Dx(), n.Rect.Dy(), n.Pix, RGBA) {
		return false
	}
	t.SetParameter(TextureMinFilter, LinearMipmapNearest)
	t.SetParameter(TextureMagFilter, Nearest)
	return true
}

// InitializeImageSize uploads img scaled to width by height.
func (t *Texture) InitializeImageSize(gc *Context, img image.Image, width, height int) bool {
	if img == nil || width <= 0 || height <= 0 {
		t.Finalize()
		t.reset(gc, ObjectTexture)
		return t.fail(InvalidData)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return t.InitializeImage(gc, dst)
}

// Upload allocates the texture storage from a texture data buffer, which
// must hold at least width*height pixels of format.
func (t *Texture) Upload(gc *Context, width, height int, format PixelFormat, pbo *Buffer) bool {
	if !t.create(gc, width, height, format) {
		return false
	}
	if pbo == nil || pbo.cat != TextureData || !pbo.Valid() {
		return t.failInfo(UnsupportedType, "pixel source is not a texture data buffer")
	}
	if pbo.size < t.byteSize() {
		return t.failInfo(InvalidData, fmt.Sprintf("pixel buffer holds %d of %d bytes", pbo.size, t.byteSize()))
	}
	pg := Bind(pbo)
	defer pg.Release()
	g := Bind(t)
	defer g.Release()
	if t.flags != 0 {
		return false
	}
	gc.drv.TexImage2DBuffer(Texture2D, width, height, format, 0)
	gc.drv.GenerateMipmap(Texture2D)
	if err := gc.CheckError("TexImage2D"); err != nil {
		return t.failInfo(InvalidData, err.Error())
	}
	return true
}

func (t *Texture) create(gc *Context, width, height int, format PixelFormat) bool {
	t.Finalize()
	t.reset(gc, ObjectTexture)
	t.width, t.height, t.format = width, height, format
	if gc == nil || width <= 0 || height <= 0 {
		return t.fail(InvalidData)
	}
	if format.BytesPerPixel() == 0 {
		return t.fail(UnsupportedType)
	}
	t.id = gc.drv.GenTexture()
	if t.id == 0 {
		return t.fail(CreationFailed)
	}
	return true
}

func (t *Texture) byteSize() int {
	return t.width * t.height * t.format.BytesPerPixel()
}

// Finalize deletes the texture.
func (t *Texture) Finalize() {
	t.release()
	t.width, t.height, t.format = 0, 0, 0
}

func (t *Texture) Target() Target {
	return Texture2D
}

// Bind binds the texture to the active unit until the returned Binder is
// released.
func (t *Texture) Bind() *Binder {
	return Bind(t)
}

func (t *Texture) SetParameter(param, value int32) bool {
	if !t.Valid() {
		return false
	}
	g := Bind(t)
	defer g.Release()
	t.ctx.drv.TexParameter(Texture2D, param, value)
	return true
}

// ErrCoordOutOfRange indicates that a region falls outside the texture.
const ErrCoordOutOfRange log.ConstErr = "coordinates out of range"

// SetPixels replaces the w by h region at x, y and regenerates the mipmaps.
func (t *Texture) SetPixels(x, y, w, h int, data []byte) error {
	if !t.Valid() {
		if err := t.Err(); err != nil {
			return err
		}
		return fmt.Errorf("SetPixels on texture %d: %w", t.id, ErrInvalidData)
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("SetPixels(%v, %v, %v, %v): %w", x, y, w, h, ErrCoordOutOfRange)
	}
	if len(data) != w*h*t.format.BytesPerPixel() {
		return fmt.Errorf("SetPixels: %w: %d bytes for %dx%d", ErrInvalidData, len(data), w, h)
	}
	g := Bind(t)
	defer g.Release()
	t.ctx.drv.TexSubImage2D(Texture2D, x, y, w, h, t.format, data)
	t.ctx.drv.GenerateMipmap(Texture2D)
	return t.ctx.CheckError("TexSubImage2D")
}

// Pixels reads back the whole texture.
func (t *Texture) Pixels() []byte {
	if !t.Valid() {
		return nil
	}
	data := make([]byte, t.byteSize())
	g := Bind(t)
	defer g.Release()
	t.ctx.drv.GetTexImage(Texture2D, t.format, data)
	return data
}

// Image reads back an RGBA texture as an image.
func (t *Texture) Image() *image.NRGBA {
	if t.format != RGBA {
		return nil
	}
	pix := t.Pixels()
	if pix == nil {
		return nil
	}
	return &image.NRGBA{Pix: pix, Stride: 4 * t.width, Rect: image.Rect(0, 0, t.width, t.height)}
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

func (t *Texture) Format() PixelFormat {
	return t.format
}

// toNRGBA returns img as tightly packed non-premultiplied RGBA pixels with
// its origin at 0, 0.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}

// NewPixelBuffer stages img as RGBA pixels in a texture data buffer for
// Texture.Upload. Check Valid on the result.
func NewPixelBuffer(gc *Context, img image.Image, usage Usage) *Buffer {
	b := &Buffer{}
	if img == nil || img.Bounds().Empty() {
		b.reset(gc, ObjectBuffer)
		b.fail(InvalidData)
		return b
	}
	n := toNRGBA(img)
	b.Initialize(gc, TextureData, usage, len(n.Pix), n.Pix)
	return b
}

// Sampler holds texture sampling state independent of any texture.
type Sampler struct {
	Handle
}

func NewSampler(gc *Context) *Sampler {
	s := &Sampler{}
	s.Initialize(gc)
	return s
}

func (s *Sampler) Initialize(gc *Context) bool {
	s.Finalize()
	s.reset(gc, ObjectSampler)
	if gc == nil {
		return s.fail(InvalidData)
	}
	s.id = gc.drv.GenSampler()
	if s.id == 0 {
		return s.fail(CreationFailed)
	}
	return true
}

func (s *Sampler) Finalize() {
	s.release()
}

func (s *Sampler) SetParameter(param, value int32) bool {
	if s.id == 0 || s.flags != 0 {
		return false
	}
	s.ctx.drv.SamplerParameter(s.id, param, value)
	return true
}

// BindUnit makes the sampler override the sampling state of texture unit
// unit until UnbindSampler.
func (s *Sampler) BindUnit(unit uint32) bool {
	if !s.Valid() {
		return false
	}
	s.ctx.drv.BindSampler(unit, s.id)
	return true
}

// UnbindSampler clears the sampler of texture unit unit.
func UnbindSampler(gc *Context, unit uint32) {
	gc.drv.BindSampler(unit, 0)
}
