package gfx_test

import (
	"errors"
	"testing"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageFailure(setup func(drv *gfxtest.Driver), data []byte, flag gfx.ErrorFlag, msg string) func(t *testing.T) {
	return func(t *testing.T) {
		gc, drv := newContext()
		setup(drv)
		_, layout := gfx.Floats(2, 2)
		vb := &gfx.VertexBuffer{}

		assert.False(t, vb.Initialize(gc, gfx.StaticDraw, data, 16, layout))
		assert.Equal(t, gfx.ObjectBuffer, vb.FailedObject())
		assert.True(t, vb.ErrorStatus(flag))
		assert.Equal(t, msg, vb.ErrorString())
		assert.Zero(t, vb.Array().ID(), "layout step must not run")
		assert.Zero(t, drv.Live())
		assert.False(t, vb.Valid())
	}
}

func TestVertexBufferStorageFailure(t *testing.T) {
	t.Run("empty", testStorageFailure(func(*gfxtest.Driver) {}, nil, gfx.InvalidData, "buffer: invalid data"))
	t.Run("out of memory", testStorageFailure(func(drv *gfxtest.Driver) {
		drv.MaxBufferSize = 8
	}, make([]byte, 64), gfx.CreationFailed, "buffer: creation failed"))
}

func testLayoutFailure(stride int, layout []gfx.VertexAttrib, flag gfx.ErrorFlag) func(t *testing.T) {
	return func(t *testing.T) {
		gc, drv := newContext()
		vb := &gfx.VertexBuffer{}
		assert.False(t, vb.Initialize(gc, gfx.StaticDraw, gfx.Bytes(triangle), stride, layout))
		assert.Equal(t, gfx.ObjectVertexArray, vb.FailedObject())
		assert.True(t, vb.ErrorStatus(flag), vb.ErrorString())
		assert.True(t, errors.Is(vb.Err(), flag.Err()))
		assert.True(t, vb.Buffer().Valid(), "storage survives a layout failure")
		assert.Equal(t, 1, drv.LiveBuffers())
	}
}

func TestVertexBufferLayoutFailure(t *testing.T) {
	_, floats := gfx.Floats(2, 2)
	t.Run("empty layout", testLayoutFailure(16, nil, gfx.InsufficientCount))
	t.Run("zero stride", testLayoutFailure(0, floats, gfx.InvalidData))
	t.Run("attribute past stride", testLayoutFailure(12, floats, gfx.InvalidData))
	t.Run("five components", testLayoutFailure(32, []gfx.VertexAttrib{{Index: -1, Count: 5, Type: gfx.Float}}, gfx.UnsupportedType))
	t.Run("integer floats", testLayoutFailure(16, []gfx.VertexAttrib{{Index: -1, Count: 1, Type: gfx.Float, Integer: true}}, gfx.UnsupportedType))
	t.Run("slot out of range", testLayoutFailure(16, []gfx.VertexAttrib{{Index: 16, Count: 1, Type: gfx.Float}}, gfx.InvalidIndex))
}

func TestVertexArrayWrongSource(t *testing.T) {
	gc, _ := newContext()
	idx := gfx.NewBuffer(gc, gfx.IndexData, gfx.StaticDraw, []uint16{0, 1, 2})
	_, layout := gfx.Floats(1)
	va := &gfx.VertexArray{}
	assert.False(t, va.Initialize(idx, 4, layout))
	assert.True(t, va.ErrorStatus(gfx.UnsupportedType))
	assert.False(t, va.Initialize(nil, 4, layout))
	assert.True(t, va.ErrorStatus(gfx.InvalidData))
}

func TestVertexArrayLayout(t *testing.T) {
	gc, drv := newContext()
	stride, layout := gfx.Packed(
		gfx.VertexAttrib{Index: 0, Count: 3, Type: gfx.Float},
		gfx.VertexAttrib{Index: 2, Count: 4, Type: gfx.UnsignedByte, Normalized: true},
		gfx.VertexAttrib{Index: 5, Count: 1, Type: gfx.Int, Integer: true, Divisor: 1},
	)
	require.Equal(t, 20, stride)
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, make([]byte, 2*stride))
	va := &gfx.VertexArray{}
	require.True(t, va.Initialize(b, stride, layout), va.ErrorString())
	assert.Equal(t, stride, va.Stride())
	assert.Equal(t, layout, va.Layout())
	assert.Same(t, b, va.Source())

	gfx.WithBound(va, func() {
		assert.Equal(t, 1, drv.VertexAttrib(2, gfx.AttribEnabled))
		assert.Equal(t, 1, drv.VertexAttrib(2, gfx.AttribNormalized))
		assert.Equal(t, int(b.ID()), drv.VertexAttrib(5, gfx.AttribBufferBinding))
		assert.Equal(t, 1, drv.VertexAttrib(5, gfx.AttribInteger))
		assert.Equal(t, 1, drv.VertexAttrib(5, gfx.AttribDivisor))
		assert.Equal(t, 12, drv.AttribOffset(2))
		assert.Equal(t, 16, drv.AttribOffset(5))
		assert.Zero(t, drv.VertexAttrib(1, gfx.AttribEnabled))
	})
	assert.Zero(t, gc.Bound(gfx.VertexArrayTarget))
	assert.Zero(t, gc.Bound(gfx.ArrayBuffer))

	require.True(t, va.SetAttribEnabled(5, false))
	gfx.WithBound(va, func() {
		assert.Zero(t, drv.VertexAttrib(5, gfx.AttribEnabled))
	})
	assert.False(t, va.SetAttribEnabled(99, true))
}

func TestVertexArrayBindingStale(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	assert.True(t, vb.Array().Binding())

	// delete the storage behind the vertex array's back
	drv.DeleteBuffer(vb.Buffer().ID())
	assert.False(t, vb.Buffer().Valid())
	assert.False(t, vb.Valid())
	assert.Equal(t, gfx.ObjectBuffer, vb.FailedObject())
	assert.True(t, vb.Array().Valid(), "the vertex array object itself survives")
	assert.False(t, vb.Array().Binding(), "its attributes read from a dead buffer")
}

func TestVertexBufferDraw(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	assert.Equal(t, 3, vb.Count())

	require.True(t, vb.Draw(gfx.Triangles))
	require.True(t, vb.DrawRange(gfx.Points, 1, 100))
	require.True(t, vb.DrawRange(gfx.Points, 5, 1))
	require.True(t, vb.DrawInstanced(gfx.Triangles, 4))
	require.True(t, vb.DrawInstanced(gfx.Triangles, 0))

	require.Len(t, drv.Draws, 3)
	assert.Equal(t, gfxtest.DrawCall{
		Op: gfxtest.OpArrays, Mode: gfx.Triangles, Count: 3, Instances: 1, VertexArray: vb.Array().ID(),
	}, drv.Draws[0])
	assert.Equal(t, 1, drv.Draws[1].First)
	assert.Equal(t, 2, drv.Draws[1].Count)
	assert.Equal(t, gfxtest.OpArraysInstanced, drv.Draws[2].Op)
	assert.Equal(t, 4, drv.Draws[2].Instances)
	assert.Zero(t, gc.Bound(gfx.VertexArrayTarget))
	assert.Empty(t, drv.PendingErrors())
}

func TestVertexBufferUpdate(t *testing.T) {
	gc, _ := newContext()
	_, layout := gfx.Floats(2, 2)
	vb := gfx.NewVertexBuffer(gc, gfx.DynamicDraw, triangle, layout...)
	require.True(t, vb.Valid())

	moved := vertex{X: 5, Y: 5}
	require.True(t, vb.Update(16, gfx.Bytes([]vertex{moved})))
	got := gfx.ReadValues[vertex](vb.Buffer())
	assert.Equal(t, moved, got[1])
	assert.False(t, vb.Update(40, gfx.Bytes([]vertex{moved})))
}

func TestVertexBufferDrawIndexed(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	ib := gfx.NewIndexBuffer(gc, gfx.StaticDraw, []uint8{2, 1, 0})

	require.True(t, vb.DrawIndexed(gfx.Triangles, ib))
	require.Len(t, drv.Draws, 1)
	d := drv.Draws[0]
	assert.Equal(t, gfxtest.OpElements, d.Op)
	assert.Equal(t, gfx.UnsignedByte, d.Type)
	assert.Equal(t, 3, d.Count)
	assert.Equal(t, vb.Array().ID(), d.VertexArray)
	assert.Equal(t, ib.Buffer().ID(), d.Elements)

	gfx.WithBound(vb.Array(), func() {
		assert.Zero(t, gc.Bound(gfx.ElementArrayBuffer), "the draw's element binding is undone")
	})
	assert.False(t, vb.DrawIndexed(gfx.Triangles, nil))
}

func TestVertexArrayAttach(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	ib := gfx.NewIndexBuffer(gc, gfx.StaticDraw, []uint32{0, 1, 2})

	require.True(t, vb.Array().Attach(ib.Buffer()))
	gfx.WithBound(vb.Array(), func() {
		assert.Equal(t, ib.Buffer().ID(), gc.Bound(gfx.ElementArrayBuffer))
		drv.DrawElements(gfx.Triangles, 3, gfx.UnsignedInt, 0)
	})
	assert.Zero(t, gc.Bound(gfx.ElementArrayBuffer), "the default vertex array is untouched")
	require.Len(t, drv.Draws, 1)
	assert.False(t, vb.Array().Attach(vb.Buffer()))
}

func TestVertexBufferDrawIndirect(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	cmd := gfx.NewArraysIndirect(gc, gfx.DynamicDraw, gfx.DrawArraysCommand{Count: 3, InstanceCount: 2, First: 0})
	require.True(t, cmd.Valid())

	require.True(t, vb.DrawIndirect(gfx.Triangles, cmd))
	require.True(t, cmd.SetCount(2))
	require.True(t, cmd.SetFirst(1))
	require.True(t, vb.DrawIndirect(gfx.Triangles, cmd))

	require.Len(t, drv.Draws, 2)
	assert.Equal(t, gfxtest.OpArraysIndirect, drv.Draws[0].Op)
	assert.Equal(t, 3, drv.Draws[0].Count)
	assert.Equal(t, 2, drv.Draws[0].Instances)
	assert.Equal(t, cmd.Buffer().ID(), drv.Draws[0].Indirect)
	assert.Equal(t, 2, drv.Draws[1].Count, "parameters are read from the current contents")
	assert.Equal(t, 1, drv.Draws[1].First)
	assert.Zero(t, gc.Bound(gfx.DrawIndirectBuffer))

	elements := gfx.NewElementsIndirect(gc, gfx.DynamicDraw, gfx.DrawElementsCommand{Count: 3})
	assert.False(t, vb.DrawIndirect(gfx.Triangles, elements))
}
