package gfx_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passthrough = "#version 460 core\nvoid main() {}\n"

func TestShaderCompile(t *testing.T) {
	gc, _ := newContext()
	s := gfx.NewShader(gc, gfx.FragmentShader, passthrough)
	require.True(t, s.Valid(), s.ErrorString())
	assert.Equal(t, gfx.FragmentShader, s.Stage())
	assert.Equal(t, gfx.ObjectShader, s.Kind())
	assert.Empty(t, s.ErrorString())
}

func TestShaderCompileFailed(t *testing.T) {
	gc, _ := newContext()
	s := gfx.NewShader(gc, gfx.FragmentShader, gfxtest.ErrorDirective+" broken")
	assert.False(t, s.Valid())
	assert.True(t, s.ErrorStatus(gfx.CompileFailed))
	assert.ErrorIs(t, s.Err(), gfx.ErrCompileFailed)
	assert.Contains(t, s.ErrorString(), "fragment shader rejected", "the driver log is kept")

	s = gfx.NewShader(gc, gfx.ShaderKind(0x1234), passthrough)
	assert.True(t, s.ErrorStatus(gfx.CreationFailed))
}

func TestShaderFile(t *testing.T) {
	gc, _ := newContext()
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.vert")
	require.NoError(t, os.WriteFile(path, []byte(passthrough), 0o644))

	s := &gfx.Shader{}
	require.True(t, s.InitializeFile(gc, gfx.VertexShader, path), s.ErrorString())
	assert.Equal(t, gfx.VertexShader, s.Stage())

	missing := filepath.Join(dir, "missing.frag")
	assert.False(t, s.InitializeFile(gc, gfx.FragmentShader, missing))
	assert.True(t, s.ErrorStatus(gfx.FileNotFound))
	assert.Contains(t, s.ErrorString(), missing)
	assert.Zero(t, s.ID())
}

func TestProgramInsufficient(t *testing.T) {
	gc, drv := newContext()
	p := gfx.NewProgram(gc)
	assert.True(t, p.ErrorStatus(gfx.InsufficientCount))

	bad := gfx.NewShader(gc, gfx.VertexShader, gfxtest.ErrorDirective)
	good := gfx.NewShader(gc, gfx.FragmentShader, passthrough)
	p = gfx.NewProgram(gc, good, bad)
	assert.True(t, p.ErrorStatus(gfx.InsufficientCount))
	assert.Zero(t, p.ID(), "no program object is created")

	p = gfx.NewProgram(gc, good, nil)
	assert.True(t, p.ErrorStatus(gfx.InsufficientCount))
	assert.Equal(t, 2, drv.Live(), "only the shaders exist")
}

func TestProgramLinkFailed(t *testing.T) {
	gc, drv := newContext()
	drv.LinkFails = true
	vs := gfx.NewShader(gc, gfx.VertexShader, passthrough)
	p := gfx.NewProgram(gc, vs)
	assert.False(t, p.Valid())
	assert.True(t, p.ErrorStatus(gfx.LinkFailed))
	assert.Contains(t, p.ErrorString(), "error: linking")
	assert.Equal(t, "program: failed to link program: error: linking with uncompiled or missing shaders", p.ErrorString())
}

func TestProgramUse(t *testing.T) {
	gc, _ := newContext()
	vs := gfx.NewShader(gc, gfx.VertexShader, passthrough)
	a := gfx.NewProgram(gc, vs)
	b := gfx.NewProgram(gc, vs)
	require.True(t, a.Valid())
	require.True(t, b.Valid())

	ga := a.Use()
	assert.Equal(t, a.ID(), gc.Bound(gfx.ProgramTarget))
	gb := b.Use()
	assert.Equal(t, b.ID(), gc.Bound(gfx.ProgramTarget))
	gb.Release()
	assert.Equal(t, a.ID(), gc.Bound(gfx.ProgramTarget))
	ga.Release()
	assert.Zero(t, gc.Bound(gfx.ProgramTarget))
}

func TestProgramUniform(t *testing.T) {
	gc, drv := newContext()
	drv.Uniforms = []string{"tint", "scale"}
	vs := gfx.NewShader(gc, gfx.VertexShader, passthrough)
	p := gfx.NewProgram(gc, vs)
	require.True(t, p.Valid(), p.ErrorString())

	require.True(t, p.Uniform("tint", 1, 0.5, 0, 1))
	require.True(t, p.Uniform("scale", 2))
	require.True(t, p.Uniform("scale", 3))
	assert.Equal(t, []float32{1, 0.5, 0, 1}, drv.UniformValue(p.ID(), "tint"))
	assert.Equal(t, []float32{3}, drv.UniformValue(p.ID(), "scale"))
	assert.Zero(t, gc.Bound(gfx.ProgramTarget), "the current program is restored")
	assert.Empty(t, drv.PendingErrors())

	q := gfx.NewProgram(gc, vs)
	assert.False(t, q.Uniform("tint", 1, 2, 3, 4, 5))
	assert.True(t, q.ErrorStatus(gfx.InsufficientCount))

	assert.False(t, p.Uniform("missing", 1))
	assert.True(t, p.ErrorStatus(gfx.InvalidIndex))
	assert.Contains(t, p.ErrorString(), "no uniform missing")
	assert.False(t, p.Uniform("tint", 1), "a flagged program is no longer valid")
}

func TestProgramReflection(t *testing.T) {
	gc, drv := newContext()
	prog := newBlockProgram(t, gc, drv)

	index, ok := prog.UniformBlockIndex("Camera")
	require.True(t, ok)
	assert.Equal(t, 64, prog.UniformBlockSize(index))
	assert.True(t, prog.UniformBlockBind(index, 7))
	point, _ := drv.BlockBinding(prog.ID(), "Camera")
	assert.Equal(t, uint32(7), point)

	_, ok = prog.UniformBlockIndex("Nope")
	assert.False(t, ok)
	assert.Zero(t, prog.UniformBlockSize(gfx.InvalidBlockIndex))
	assert.False(t, prog.UniformBlockBind(gfx.InvalidBlockIndex, 0))

	var empty gfx.Program
	_, ok = empty.UniformBlockIndex("Camera")
	assert.False(t, ok)
}
