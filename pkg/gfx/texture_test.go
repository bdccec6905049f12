package gfx_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checker = []byte{
	255, 0, 0, 255, 0, 255, 0, 255,
	0, 0, 255, 255, 255, 255, 255, 255,
}

func testTextureFailure(width, height int, data []byte, format gfx.PixelFormat, flag gfx.ErrorFlag) func(t *testing.T) {
	return func(t *testing.T) {
		gc, _ := newContext()
		tex := gfx.NewTexture(gc, width, height, data, format)
		assert.False(t, tex.Valid())
		assert.True(t, tex.ErrorStatus(flag), tex.ErrorString())
		assert.Nil(t, tex.Pixels())
	}
}

func TestTextureFailure(t *testing.T) {
	t.Run("zero width", testTextureFailure(0, 2, nil, gfx.RGBA, gfx.InvalidData))
	t.Run("negative height", testTextureFailure(2, -1, nil, gfx.RGBA, gfx.InvalidData))
	t.Run("unknown format", testTextureFailure(2, 2, nil, gfx.PixelFormat(0x1234), gfx.UnsupportedType))
	t.Run("short data", testTextureFailure(2, 2, checker[:12], gfx.RGBA, gfx.InvalidData))
	t.Run("long data", testTextureFailure(2, 2, checker, gfx.RGB, gfx.InvalidData))
}

func TestTextureInitialize(t *testing.T) {
	gc, drv := newContext()
	tex := gfx.NewTexture(gc, 2, 2, checker, gfx.RGBA)
	require.True(t, tex.Valid(), tex.ErrorString())
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 2, tex.Height())
	assert.Equal(t, gfx.RGBA, tex.Format())
	assert.Equal(t, 1, drv.MipmapCalls)
	assert.Equal(t, checker, tex.Pixels())
	assert.Zero(t, gc.Bound(gfx.Texture2D))

	blank := gfx.NewTexture(gc, 3, 1, nil, gfx.Red)
	require.True(t, blank.Valid(), blank.ErrorString())
	assert.Equal(t, 1, drv.MipmapCalls, "no mipmaps without data")
	assert.Equal(t, []byte{0, 0, 0}, blank.Pixels())
	assert.Nil(t, blank.Image(), "only RGBA textures convert to images")
}

func TestTextureImage(t *testing.T) {
	gc, drv := newContext()
	img := image.NewNRGBA(image.Rect(1, 1, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{G: 255, B: 10, A: 255})

	tex := gfx.NewTextureFromImage(gc, img)
	require.True(t, tex.Valid(), tex.ErrorString())
	assert.Equal(t, 2, tex.Width())
	assert.Equal(t, 1, tex.Height())
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 255, 10, 255}, tex.Pixels())
	assert.Equal(t, gfx.LinearMipmapNearest, drv.TexParam(tex.ID(), gfx.TextureMinFilter))
	assert.Equal(t, gfx.Nearest, drv.TexParam(tex.ID(), gfx.TextureMagFilter))

	out := tex.Image()
	require.NotNil(t, out)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Rect)
	assert.Equal(t, color.NRGBA{G: 255, B: 10, A: 255}, out.NRGBAAt(1, 0))

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 128})
	require.True(t, tex.InitializeImage(gc, gray))
	assert.Equal(t, []byte{128, 128, 128, 255}, tex.Pixels())

	assert.False(t, tex.InitializeImage(gc, nil))
	assert.True(t, tex.ErrorStatus(gfx.InvalidData))
}

func TestTextureImageSize(t *testing.T) {
	gc, _ := newContext()
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})

	tex := &gfx.Texture{}
	require.True(t, tex.InitializeImageSize(gc, src, 4, 3), tex.ErrorString())
	assert.Equal(t, 4, tex.Width())
	assert.Equal(t, 3, tex.Height())
	out := tex.Image()
	require.NotNil(t, out)
	px := out.NRGBAAt(3, 2)
	assert.InDelta(t, 255, int(px.R), 1)
	assert.Zero(t, px.G)

	assert.False(t, tex.InitializeImageSize(gc, src, 0, 3))
	assert.False(t, tex.Valid())
}

func TestTextureUpload(t *testing.T) {
	gc, drv := newContext()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	copy(img.Pix, checker)

	pbo := gfx.NewPixelBuffer(gc, img, gfx.StreamDraw)
	require.True(t, pbo.Valid(), pbo.ErrorString())
	assert.Equal(t, gfx.TextureData, pbo.Category())
	assert.Equal(t, 16, pbo.Size())

	tex := &gfx.Texture{}
	require.True(t, tex.Upload(gc, 2, 2, gfx.RGBA, pbo), tex.ErrorString())
	assert.Equal(t, checker, tex.Pixels())
	assert.Equal(t, 1, drv.MipmapCalls)
	assert.Zero(t, gc.Bound(gfx.PixelUnpackBuffer))
	assert.Empty(t, drv.PendingErrors())

	assert.False(t, tex.Upload(gc, 4, 4, gfx.RGBA, pbo))
	assert.True(t, tex.ErrorStatus(gfx.InvalidData))

	vertices := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, checker)
	assert.False(t, tex.Upload(gc, 2, 2, gfx.RGBA, vertices))
	assert.True(t, tex.ErrorStatus(gfx.UnsupportedType))
	assert.False(t, tex.Upload(gc, 2, 2, gfx.RGBA, nil))

	empty := gfx.NewPixelBuffer(gc, image.NewNRGBA(image.Rectangle{}), gfx.StreamDraw)
	assert.True(t, empty.ErrorStatus(gfx.InvalidData))
}

func TestTextureSetPixels(t *testing.T) {
	gc, drv := newContext()
	tex := gfx.NewTexture(gc, 2, 2, nil, gfx.RGBA)
	require.True(t, tex.Valid())

	require.NoError(t, tex.SetPixels(1, 0, 1, 2, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0, 5, 6, 7, 8}, tex.Pixels())
	assert.Equal(t, 1, drv.MipmapCalls)

	assert.ErrorIs(t, tex.SetPixels(1, 1, 2, 1, make([]byte, 8)), gfx.ErrCoordOutOfRange)
	assert.ErrorIs(t, tex.SetPixels(-1, 0, 1, 1, make([]byte, 4)), gfx.ErrCoordOutOfRange)
	assert.ErrorIs(t, tex.SetPixels(0, 0, 1, 1, make([]byte, 3)), gfx.ErrInvalidData)

	tex.Finalize()
	assert.Error(t, tex.SetPixels(0, 0, 1, 1, make([]byte, 4)))
}

func TestTextureParameters(t *testing.T) {
	gc, drv := newContext()
	tex := gfx.NewTexture(gc, 1, 1, nil, gfx.RGBA)
	other := gfx.NewTexture(gc, 1, 1, nil, gfx.RGBA)

	g := other.Bind()
	require.True(t, tex.SetParameter(gfx.TextureWrapS, gfx.ClampToEdge))
	assert.Equal(t, other.ID(), gc.Bound(gfx.Texture2D), "the caller's binding is restored")
	g.Release()
	assert.Equal(t, gfx.ClampToEdge, drv.TexParam(tex.ID(), gfx.TextureWrapS))
	assert.Zero(t, drv.TexParam(other.ID(), gfx.TextureWrapS))

	var empty gfx.Texture
	assert.False(t, empty.SetParameter(gfx.TextureWrapS, gfx.Repeat))
}

func TestSampler(t *testing.T) {
	gc, drv := newContext()
	s := gfx.NewSampler(gc)
	require.True(t, s.Valid())

	require.True(t, s.SetParameter(gfx.TextureMinFilter, gfx.Linear))
	assert.Equal(t, gfx.Linear, drv.SamplerParam(s.ID(), gfx.TextureMinFilter))
	require.True(t, s.BindUnit(2))
	assert.Equal(t, s.ID(), drv.SamplerBound(2))
	gfx.UnbindSampler(gc, 2)
	assert.Zero(t, drv.SamplerBound(2))

	s.Finalize()
	assert.False(t, s.BindUnit(0))
	assert.False(t, s.SetParameter(gfx.TextureMinFilter, gfx.Nearest))

	drv.RefuseGen = true
	assert.True(t, gfx.NewSampler(gc).ErrorStatus(gfx.CreationFailed))
}

func TestFrameBuffer(t *testing.T) {
	gc, drv := newContext()
	fb := gfx.NewFrameBuffer(gc, 8, 4)
	require.True(t, fb.Valid(), fb.ErrorString())
	assert.Equal(t, 8, fb.Texture().Width())
	assert.Equal(t, gfx.RGBA, fb.Texture().Format())
	assert.Equal(t, gfx.ObjectNone, fb.FailedObject())
	assert.Zero(t, gc.Bound(gfx.FrameBufferTarget))

	gfx.WithBound(fb, func() {
		assert.Equal(t, fb.ID(), gc.Bound(gfx.FrameBufferTarget))
	})

	drv.DeleteTexture(fb.Texture().ID())
	assert.False(t, fb.Valid())
	assert.Equal(t, gfx.ObjectTexture, fb.FailedObject())
}

func TestFrameBufferFailure(t *testing.T) {
	gc, drv := newContext()
	fb := gfx.NewFrameBuffer(gc, 0, 4)
	assert.False(t, fb.Valid())
	assert.Equal(t, gfx.ObjectTexture, fb.FailedObject())
	assert.Equal(t, "texture: invalid data", fb.ErrorString())

	drv.IncompleteFramebuffer = true
	fb = gfx.NewFrameBuffer(gc, 4, 4)
	assert.False(t, fb.Valid())
	assert.Equal(t, gfx.ObjectFrameBuffer, fb.FailedObject())
	assert.ErrorIs(t, fb.Err(), gfx.ErrInvalidData)
	assert.Equal(t, "framebuffer: invalid data: incomplete framebuffer", fb.ErrorString())
	assert.Zero(t, gc.Bound(gfx.FrameBufferTarget))
}
