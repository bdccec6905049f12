package gfx_test

import (
	"errors"
	"testing"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPartialWrite(cat gfx.Category, usage gfx.Usage) func(t *testing.T) {
	return func(t *testing.T) {
		gc, drv := newContext()
		b := &gfx.Buffer{}
		require.True(t, b.Initialize(gc, cat, usage, 64, nil), b.ErrorString())
		allocations := drv.BufferDataCalls

		require.True(t, b.Write(8, []byte{1, 2, 3, 4}))
		require.True(t, b.Write(0, make([]byte, 64)))
		require.True(t, b.Write(60, []byte{9, 9, 9, 9}))

		assert.Equal(t, 64, b.Size())
		assert.Equal(t, 64, b.Param(gfx.BufferSize))
		assert.Equal(t, allocations, drv.BufferDataCalls, "partial writes must not reallocate")
		assert.Equal(t, 3, drv.SubDataCalls)
		assert.Equal(t, []byte{9, 9, 9, 9}, drv.BufferContents(b.ID())[60:])
	}
}

func TestDynamicPartialWrite(t *testing.T) {
	for _, cat := range []gfx.Category{gfx.VertexData, gfx.IndexData, gfx.UniformData, gfx.StorageData, gfx.IndirectData, gfx.TexelData} {
		for _, usage := range []gfx.Usage{gfx.DynamicDraw, gfx.DynamicRead, gfx.DynamicCopy} {
			t.Run(cat.String()+" "+usage.String(), testPartialWrite(cat, usage))
		}
	}
}

func TestDynamicInitialData(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.DynamicDraw, []uint32{7, 8, 9})
	require.True(t, b.Valid())
	assert.Equal(t, 1, drv.BufferDataCalls)
	assert.Equal(t, 1, drv.SubDataCalls, "dynamic buffers reserve then write")
	assert.Equal(t, []uint32{7, 8, 9}, gfx.ReadValues[uint32](b))

	s := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []uint32{7, 8, 9})
	require.True(t, s.Valid())
	assert.Equal(t, 2, drv.BufferDataCalls)
	assert.Equal(t, 1, drv.SubDataCalls, "static buffers upload with the allocation")
}

func TestShortDataZeroPadded(t *testing.T) {
	gc, _ := newContext()
	b := &gfx.Buffer{}
	require.True(t, b.Initialize(gc, gfx.CopyData, gfx.StaticCopy, 8, []byte{1, 2}))
	out := make([]byte, 8)
	require.True(t, b.Read(0, out))
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 0, 0, 0}, out)
}

func TestBufferInitializeFailures(t *testing.T) {
	t.Run("zero size", func(t *testing.T) {
		gc, drv := newContext()
		b := &gfx.Buffer{}
		assert.False(t, b.Initialize(gc, gfx.VertexData, gfx.StaticDraw, 0, nil))
		assert.True(t, b.ErrorStatus(gfx.InvalidData))
		assert.Zero(t, b.Size())
		assert.Zero(t, b.ID())
		assert.Zero(t, drv.LiveBuffers())
		assert.Equal(t, "buffer: invalid data", b.ErrorString())
	})
	t.Run("data longer than size", func(t *testing.T) {
		gc, drv := newContext()
		b := &gfx.Buffer{}
		assert.False(t, b.Initialize(gc, gfx.VertexData, gfx.StaticDraw, 2, []byte{1, 2, 3}))
		assert.True(t, b.ErrorStatus(gfx.InvalidData))
		assert.Zero(t, drv.LiveBuffers())
	})
	t.Run("unknown usage", func(t *testing.T) {
		gc, _ := newContext()
		b := &gfx.Buffer{}
		assert.False(t, b.Initialize(gc, gfx.VertexData, gfx.Usage(0x88E3), 4, nil))
		assert.True(t, b.ErrorStatus(gfx.UnsupportedType))
	})
	t.Run("out of memory", func(t *testing.T) {
		gc, drv := newContext()
		drv.MaxBufferSize = 16
		b := &gfx.Buffer{}
		assert.False(t, b.Initialize(gc, gfx.VertexData, gfx.StaticDraw, 64, nil))
		assert.True(t, b.ErrorStatus(gfx.CreationFailed))
		assert.True(t, errors.Is(b.Err(), gfx.ErrCreationFailed))
		assert.Zero(t, b.ID())
		assert.Zero(t, drv.LiveBuffers())
		assert.Zero(t, gc.Bound(gfx.ArrayBuffer))
	})
	t.Run("no ids", func(t *testing.T) {
		gc, drv := newContext()
		drv.RefuseGen = true
		b := &gfx.Buffer{}
		assert.False(t, b.Initialize(gc, gfx.VertexData, gfx.StaticDraw, 4, nil))
		assert.True(t, b.ErrorStatus(gfx.CreationFailed))
	})
	t.Run("reinitialize clears flags", func(t *testing.T) {
		gc, drv := newContext()
		b := &gfx.Buffer{}
		require.False(t, b.Initialize(gc, gfx.VertexData, gfx.StaticDraw, 0, nil))
		require.True(t, b.Initialize(gc, gfx.VertexData, gfx.StaticDraw, 4, nil))
		assert.True(t, b.Valid())
		assert.Empty(t, b.ErrorString())
		assert.Equal(t, 1, drv.LiveBuffers())
	})
}

func TestBufferWriteBounds(t *testing.T) {
	gc, _ := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.DynamicDraw, make([]byte, 8))
	require.True(t, b.Valid())

	assert.False(t, b.Write(6, []byte{1, 2, 3}))
	assert.False(t, b.Write(-1, []byte{1}))
	assert.True(t, b.Write(8, nil))
	assert.True(t, b.Valid(), "rejected writes do not flag the buffer")
	assert.False(t, b.Read(4, make([]byte, 8)))
}

func TestBufferReadValues(t *testing.T) {
	gc, _ := newContext()
	b := gfx.NewBuffer(gc, gfx.StorageData, gfx.StaticRead, []int32{-1, 0, 1})
	assert.Equal(t, []int32{-1, 0, 1}, gfx.ReadValues[int32](b))
	require.True(t, gfx.WriteValues(b, 1, []int32{42}))
	assert.Equal(t, []int32{-1, 42, 1}, gfx.ReadValues[int32](b))
	assert.Equal(t, 3, gfx.CountOf[int32](b))
	assert.Equal(t, 1, b.Count(12))
}

func TestBufferClone(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []float32{1, 2, 3})
	c := b.Clone()
	require.True(t, c.Valid(), c.ErrorString())
	assert.NotEqual(t, b.ID(), c.ID())
	assert.Equal(t, b.Size(), c.Size())
	assert.Equal(t, b.Category(), c.Category())
	assert.Equal(t, b.Usage(), c.Usage())
	assert.Equal(t, []float32{1, 2, 3}, gfx.ReadValues[float32](c))
	assert.Equal(t, 1, drv.CopyBufferCalls)
	assert.Zero(t, gc.Bound(gfx.CopyReadBuffer))
	assert.Zero(t, gc.Bound(gfx.CopyWriteBuffer))

	b.Finalize()
	assert.True(t, c.Valid(), "clone outlives the source")
	bad := b.Clone()
	assert.False(t, bad.Valid())
	assert.True(t, bad.ErrorStatus(gfx.InvalidData))
}

func TestBufferResize(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.IndexData, gfx.DynamicDraw, []uint16{1, 2, 3, 4})
	old := b.ID()
	require.True(t, b.Resize(16))
	assert.Equal(t, 16, b.Size())
	assert.Equal(t, old, b.ID(), "the object name is kept")
	assert.Equal(t, []uint16{1, 2, 3, 4, 0, 0, 0, 0}, gfx.ReadValues[uint16](b))
	assert.Equal(t, 1, drv.LiveBuffers())
	assert.Zero(t, gc.Bound(gfx.CopyReadBuffer))
	assert.Zero(t, gc.Bound(gfx.CopyWriteBuffer))

	require.True(t, b.Resize(4))
	assert.Equal(t, []uint16{1, 2}, gfx.ReadValues[uint16](b))
	assert.Equal(t, old, b.ID())

	assert.False(t, b.Resize(0))
	assert.Equal(t, 4, b.Size())
}

func TestBufferResizeKeepsReferences(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	size := vb.Buffer().Size()
	require.True(t, vb.Buffer().Resize(2*size))
	assert.True(t, vb.Valid())
	assert.True(t, vb.Array().Binding(), "attributes still read the resized buffer")
	assert.Equal(t, 2*len(triangle), vb.Count())
	assert.Equal(t, triangle, gfx.ReadValues[vertex](vb.Buffer())[:len(triangle)])
	assert.Empty(t, drv.PendingErrors())

	prog := newBlockProgram(t, gc, drv)
	ub := gfx.NewUniformBuffer(gc, prog, "Light", 3, nil, gfx.DynamicDraw)
	require.True(t, ub.Valid(), ub.ErrorString())
	require.True(t, ub.Buffer().Resize(128))
	assert.Equal(t, ub.Buffer().ID(), drv.IndexedBound(gfx.UniformBufferTarget, 3), "the binding point keeps the buffer")
}

func TestBufferResizeOutOfMemory(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, []byte{1, 2, 3, 4})
	drv.MaxBufferSize = 8
	assert.False(t, b.Resize(16))
	assert.True(t, b.ErrorStatus(gfx.CreationFailed))
	assert.Empty(t, drv.PendingErrors())
}

func TestBufferCloneMapped(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.DynamicDraw, []float32{1, 2, 3})
	m := b.Map(gfx.ReadWrite)
	require.NotNil(t, m)

	c := b.Clone()
	assert.False(t, c.Valid())
	assert.True(t, c.ErrorStatus(gfx.InvalidData))
	assert.Contains(t, c.ErrorString(), "is mapped")
	assert.Zero(t, drv.CopyBufferCalls)
	assert.Equal(t, 1, drv.LiveBuffers(), "nothing is allocated for the clone")

	require.True(t, m.Release())
	c = b.Clone()
	assert.True(t, c.Valid(), c.ErrorString())
}

func TestBufferOrphan(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.VertexData, gfx.StreamDraw, []byte{1, 2, 3, 4})
	require.True(t, b.Orphan())
	assert.Equal(t, []byte{0, 0, 0, 0}, drv.BufferContents(b.ID()))
	assert.Equal(t, 4, b.Size())
}

func TestBindBase(t *testing.T) {
	gc, drv := newContext()
	b := gfx.NewBuffer(gc, gfx.StorageData, gfx.DynamicCopy, make([]byte, 32))
	other := gfx.NewBuffer(gc, gfx.StorageData, gfx.DynamicCopy, make([]byte, 32))

	g := other.Bind()
	require.True(t, b.BindBase(3))
	assert.Equal(t, b.ID(), drv.IndexedBound(gfx.ShaderStorageBuffer, 3))
	assert.Equal(t, other.ID(), gc.Bound(gfx.ShaderStorageBuffer), "generic binding is restored")
	g.Release()

	require.True(t, b.BindRange(4, 16, 16))
	assert.False(t, b.BindRange(5, 24, 16))
	b.UnbindBase(3)
	assert.Zero(t, drv.IndexedBound(gfx.ShaderStorageBuffer, 3))

	v := gfx.NewBuffer(gc, gfx.VertexData, gfx.StaticDraw, make([]byte, 4))
	assert.False(t, v.BindBase(0))
}

func TestBindVertex(t *testing.T) {
	gc, drv := newContext()
	vb := newTriangle(t, gc)
	idx := gfx.NewBuffer(gc, gfx.IndexData, gfx.StaticDraw, []uint8{0, 1, 2})

	g := vb.Bind()
	defer g.Release()
	assert.True(t, errors.Is(idx.BindVertex(0, 0, 16), gfx.ErrWrongCategory))
	require.NoError(t, vb.Buffer().BindVertex(1, 4, 16))
	id, offset, stride := drv.VertexBinding(1)
	assert.Equal(t, vb.Buffer().ID(), id)
	assert.Equal(t, 4, offset)
	assert.Equal(t, 16, stride)
}

func TestCategoryOf(t *testing.T) {
	c, ok := gfx.CategoryOf(gfx.DrawIndirectBuffer)
	require.True(t, ok)
	assert.Equal(t, gfx.IndirectData, c)
	_, ok = gfx.CategoryOf(gfx.Texture2D)
	assert.False(t, ok)
}
