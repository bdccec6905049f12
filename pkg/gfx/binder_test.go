package gfx_test

import (
	"errors"
	"testing"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNestedGuards(r gfx.Bindable) func(t *testing.T) {
	return func(t *testing.T) {
		gc := r.(interface{ Context() *gfx.Context }).Context()
		target := r.Target()
		require.Zero(t, gc.Bound(target))

		outer := gfx.Bind(r)
		assert.True(t, outer.Owns())
		assert.Equal(t, r.ID(), gc.Bound(target))

		inner := gfx.Bind(r)
		assert.False(t, inner.Owns())
		inner.Release()
		assert.Equal(t, r.ID(), gc.Bound(target), "inner guard must leave the binding alone")

		outer.Release()
		assert.Zero(t, gc.Bound(target))
	}
}

func TestNestedGuards(t *testing.T) {
	gc, _ := newContext()
	vs := gfx.NewShader(gc, gfx.VertexShader, "void main() {}")
	defer vs.Finalize()

	t.Run("buffer", testNestedGuards(gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1})))
	t.Run("uniform buffer", testNestedGuards(gfx.NewBuffer(gc, gfx.UniformData, gfx.DynamicDraw, []byte{1})))
	t.Run("vertex array", testNestedGuards(newTriangle(t, gc).Array()))
	t.Run("program", testNestedGuards(gfx.NewProgram(gc, vs)))
	t.Run("texture", testNestedGuards(gfx.NewTexture(gc, 1, 1, nil, gfx.Red)))
	t.Run("framebuffer", testNestedGuards(gfx.NewFrameBuffer(gc, 1, 1)))
}

func TestGuardRestoresPrevious(t *testing.T) {
	gc, _ := newContext()
	a := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1})
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{2})

	ga := a.Bind()
	gb := b.Bind()
	assert.Equal(t, b.ID(), gc.Bound(gfx.ArrayBuffer))
	gb.Release()
	assert.Equal(t, a.ID(), gc.Bound(gfx.ArrayBuffer))
	ga.Release()
	assert.Zero(t, gc.Bound(gfx.ArrayBuffer))
}

func TestGuardPreviousDeleted(t *testing.T) {
	gc, _ := newContext()
	a := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1})
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{2})

	ga := a.Bind()
	gb := b.Bind()
	a.Finalize()
	gb.Release()
	assert.Zero(t, gc.Bound(gfx.ArrayBuffer), "a dead previous binding is not restored")
	ga.Release()
	assert.Zero(t, gc.Bound(gfx.ArrayBuffer))
}

func TestGuardReleaseTwice(t *testing.T) {
	gc, _ := newContext()
	a := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1})
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{2})

	ga := a.Bind()
	gb := b.Bind()
	gb.Release()
	gb.Release()
	assert.Equal(t, a.ID(), gc.Bound(gfx.ArrayBuffer))
	assert.False(t, gb.Owns())
	ga.Release()

	var nilGuard *gfx.Binder
	assert.NotPanics(t, nilGuard.Release)
}

func TestGuardBindFailed(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1})
	require.True(t, b.Valid())

	drv.IgnoreBind[gfx.ArrayBuffer] = true
	g := b.Bind()
	g.Release()
	assert.False(t, b.Valid())
	assert.True(t, b.ErrorStatus(gfx.BindFailed))
	assert.True(t, errors.Is(b.Err(), gfx.ErrBindFailed))
	assert.Equal(t, "buffer: could not be bound", b.ErrorString())
}

func TestGuardEmptyResource(t *testing.T) {
	gc, _ := newContext()
	var b gfx.Buffer
	g := gfx.Bind(&b)
	assert.False(t, g.Owns())
	g.Release()
	assert.Zero(t, gc.Bound(gfx.ArrayBuffer))
}

func TestBindAs(t *testing.T) {
	gc, _ := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1})
	g := gfx.BindAs(b, gfx.CopyReadBuffer)
	assert.Equal(t, gfx.CopyReadBuffer, g.Target())
	assert.Equal(t, b.ID(), gc.Bound(gfx.CopyReadBuffer))
	assert.Zero(t, gc.Bound(gfx.ArrayBuffer))
	g.Release()
	assert.Zero(t, gc.Bound(gfx.CopyReadBuffer))
}

func TestWithBound(t *testing.T) {
	gc, _ := newContext()
	b := gfx.NewBuffer(gc, gfx.PixelData, gfx.StreamRead, []byte{1})
	called := false
	gfx.WithBound(b, func() {
		called = true
		assert.Equal(t, b.ID(), gc.Bound(gfx.PixelPackBuffer))
	})
	assert.True(t, called)
	assert.Zero(t, gc.Bound(gfx.PixelPackBuffer))
}
