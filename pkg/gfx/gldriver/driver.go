// Package gldriver implements gfx.Driver on OpenGL 4.6 core through go-gl.
// A context must be current on the calling OS thread before New, and every
// call must come from that thread.
package gldriver

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// Driver forwards every gfx.Driver call to the current OpenGL context.
type Driver struct {
	version  string
	renderer string
}

var _ gfx.Driver = (*Driver)(nil)

// New loads the OpenGL entry points of the current context.
func New() (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}
	d := &Driver{
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	// pixel rows of RGB and single channel textures are not 4 byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	log.Infof("OpenGL %v on %v", d.version, d.renderer)
	return d, nil
}

// Version returns the GL_VERSION string of the context.
func (d *Driver) Version() string {
	return d.version
}

// Renderer returns the GL_RENDERER string of the context.
func (d *Driver) Renderer() string {
	return d.renderer
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func getInteger(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

// bindingQueries maps bind targets to the GetIntegerv name of their current
// binding. The copy and texture buffer targets double as their own binding
// queries.
var bindingQueries = map[gfx.Target]uint32{
	gfx.ArrayBuffer:             gl.ARRAY_BUFFER_BINDING,
	gfx.ElementArrayBuffer:      gl.ELEMENT_ARRAY_BUFFER_BINDING,
	gfx.PixelPackBuffer:         gl.PIXEL_PACK_BUFFER_BINDING,
	gfx.PixelUnpackBuffer:       gl.PIXEL_UNPACK_BUFFER_BINDING,
	gfx.UniformBufferTarget:     gl.UNIFORM_BUFFER_BINDING,
	gfx.TextureBuffer:           gl.TEXTURE_BUFFER,
	gfx.TransformFeedbackBuffer: gl.TRANSFORM_FEEDBACK_BUFFER_BINDING,
	gfx.CopyReadBuffer:          gl.COPY_READ_BUFFER,
	gfx.CopyWriteBuffer:         gl.COPY_WRITE_BUFFER,
	gfx.DrawIndirectBuffer:      gl.DRAW_INDIRECT_BUFFER_BINDING,
	gfx.ShaderStorageBuffer:     gl.SHADER_STORAGE_BUFFER_BINDING,
	gfx.DispatchIndirectBuffer:  gl.DISPATCH_INDIRECT_BUFFER_BINDING,
	gfx.QueryBuffer:             gl.QUERY_BUFFER_BINDING,
	gfx.AtomicCounterBuffer:     gl.ATOMIC_COUNTER_BUFFER_BINDING,
	gfx.Texture2D:               gl.TEXTURE_BINDING_2D,
	gfx.VertexArrayTarget:       gl.VERTEX_ARRAY_BINDING,
	gfx.ProgramTarget:           gl.CURRENT_PROGRAM,
	gfx.FrameBufferTarget:       gl.FRAMEBUFFER_BINDING,
}

func (d *Driver) Bound(target gfx.Target) uint32 {
	pname, ok := bindingQueries[target]
	if !ok {
		return 0
	}
	return uint32(getInteger(pname))
}

func (d *Driver) IndexedBound(target gfx.Target, index uint32) uint32 {
	pname, ok := bindingQueries[target]
	if !ok || !target.Indexed() {
		return 0
	}
	var v int32
	gl.GetIntegeri_v(pname, index, &v)
	return uint32(v)
}

func (d *Driver) GetError() gfx.ErrorCode {
	return gfx.ErrorCode(gl.GetError())
}

func (d *Driver) MaxVertexAttribs() int {
	return int(getInteger(gl.MAX_VERTEX_ATTRIBS))
}

func (d *Driver) MaxUniformBufferBindings() int {
	return int(getInteger(gl.MAX_UNIFORM_BUFFER_BINDINGS))
}
